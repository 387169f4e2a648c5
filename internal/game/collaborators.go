// collaborators.go

package game

import (
	"github.com/charmbracelet/log"
	"github.com/jacl-coder/MonsterHunter-Server/internal/models"
)

//go:generate go tool mockgen -destination=./mocks/collaborators_mock.go -package=mocks . Renderer,Audio,PlayerView,RewardGame,HUD,Terminal

// 音效名称
const (
	SoundShot     = "shot"
	SoundEmpty    = "empty"
	SoundReload   = "reload"
	SoundHealth   = "health"
	SoundAnswer   = "answer"
	SoundVictory  = "victory"
	SoundGameOver = "gameover"
	SoundMusic    = "bgm"
)

// Renderer 世界渲染
type Renderer interface {
	RenderActor(actorID int, position models.Vector3, visible bool, scale float64)
	RenderPickup(pickupID int, kind PickupKind, position models.Vector3, visible bool)
	RenderShot(origin, direction models.Vector3, ttlMs float64)
}

// Audio 音效播放，不阻塞
type Audio interface {
	PlaySound(name string)
	StopSound(name string)
}

// PlayerView 玩家位置与朝向
type PlayerView interface {
	PlayerPosition() models.Vector3
	CameraForward() models.Vector3
}

// RewardGame 答题奖励小游戏，完成时回调获得的子弹数
type RewardGame interface {
	ShowRewardMiniGame(onComplete func(bulletsEarned int))
}

// HUD 界面读数
type HUD interface {
	ReportScore(value int)
	ReportHealth(value int)
	ReportAmmo(value int)
	ReportWaveStatus(current, total, remaining int)
	ShowNotice(text string)
}

// Terminal 结局回调，同时负责释放鼠标锁定
type Terminal interface {
	OnVictory(finalScore int)
	OnDefeat(finalScore int)
	ReleaseInputCapture()
}

// Collaborators 会话依赖的外部协作者，任何一项都可以为空
type Collaborators struct {
	Renderer Renderer
	Audio    Audio
	View     PlayerView
	Reward   RewardGame
	HUD      HUD
	Terminal Terminal
}

// outlet 包装协作者调用：空值跳过，panic 被吞掉并记录
type outlet struct {
	c      Collaborators
	logger *log.Logger
}

func (o *outlet) guard(op string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("协作者调用失败", "op", op, "panic", r)
		}
	}()
	fn()
}

func (o *outlet) renderActor(a *Actor, visible bool) {
	if o.c.Renderer == nil {
		return
	}
	o.guard("render_actor", func() {
		o.c.Renderer.RenderActor(a.ID, a.Position, visible, a.scale())
	})
}

func (o *outlet) renderPickup(p *Pickup, visible bool) {
	if o.c.Renderer == nil {
		return
	}
	o.guard("render_pickup", func() {
		o.c.Renderer.RenderPickup(p.ID, p.Kind, p.Position, visible)
	})
}

func (o *outlet) renderShot(s Shot) {
	if o.c.Renderer == nil {
		return
	}
	o.guard("render_shot", func() {
		o.c.Renderer.RenderShot(s.Origin, s.Direction, s.TTL)
	})
}

func (o *outlet) play(name string) {
	if o.c.Audio == nil {
		return
	}
	o.guard("play_sound", func() { o.c.Audio.PlaySound(name) })
}

func (o *outlet) stop(name string) {
	if o.c.Audio == nil {
		return
	}
	o.guard("stop_sound", func() { o.c.Audio.StopSound(name) })
}

func (o *outlet) showReward(onComplete func(int)) bool {
	if o.c.Reward == nil {
		return false
	}
	shown := false
	o.guard("show_reward", func() {
		o.c.Reward.ShowRewardMiniGame(onComplete)
		shown = true
	})
	return shown
}

func (o *outlet) score(v int) {
	if o.c.HUD == nil {
		return
	}
	o.guard("report_score", func() { o.c.HUD.ReportScore(v) })
}

func (o *outlet) health(v int) {
	if o.c.HUD == nil {
		return
	}
	o.guard("report_health", func() { o.c.HUD.ReportHealth(v) })
}

func (o *outlet) ammo(v int) {
	if o.c.HUD == nil {
		return
	}
	o.guard("report_ammo", func() { o.c.HUD.ReportAmmo(v) })
}

func (o *outlet) wave(current, total, remaining int) {
	if o.c.HUD == nil {
		return
	}
	o.guard("report_wave", func() { o.c.HUD.ReportWaveStatus(current, total, remaining) })
}

func (o *outlet) notice(text string) {
	if o.c.HUD == nil {
		return
	}
	o.guard("show_notice", func() { o.c.HUD.ShowNotice(text) })
}

func (o *outlet) victory(score int) {
	if o.c.Terminal == nil {
		return
	}
	o.guard("on_victory", func() { o.c.Terminal.OnVictory(score) })
}

func (o *outlet) defeat(score int) {
	if o.c.Terminal == nil {
		return
	}
	o.guard("on_defeat", func() { o.c.Terminal.OnDefeat(score) })
}

func (o *outlet) releaseCapture() {
	if o.c.Terminal == nil {
		return
	}
	o.guard("release_capture", func() { o.c.Terminal.ReleaseInputCapture() })
}

// view 玩家视角，协作者失败时退回到上一次的值
func (o *outlet) view(fallback PlayerView, lastPos, lastFwd models.Vector3) (pos, fwd models.Vector3) {
	v := o.c.View
	if v == nil {
		v = fallback
	}
	pos, fwd = lastPos, lastFwd
	if v == nil {
		return
	}
	o.guard("player_view", func() {
		pos = v.PlayerPosition()
		fwd = v.CameraForward()
	})
	return
}
