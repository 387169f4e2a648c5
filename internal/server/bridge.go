// bridge.go

package server

import (
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/jacl-coder/MonsterHunter-Server/internal/game"
	"github.com/jacl-coder/MonsterHunter-Server/internal/models"
	"github.com/jacl-coder/MonsterHunter-Server/internal/protocol"
	"github.com/jacl-coder/MonsterHunter-Server/internal/quiz"
)

// emitFunc 下发一条事件
type emitFunc func(typ string, payload any)

// clientBridge 把会话的协作者调用转换为下行事件，并在服务端托管答题
type clientBridge struct {
	emit   emitFunc
	rng    *rand.Rand
	logger *log.Logger

	// wave 当前波次(从1开始)，用于结局事件
	wave func() int

	round      *quiz.Round
	attempts   int
	onComplete func(bulletsEarned int)
}

func newClientBridge(emit emitFunc, rng *rand.Rand, logger *log.Logger) *clientBridge {
	return &clientBridge{emit: emit, rng: rng, logger: logger}
}

// collaborators 会话使用的协作者，视角由会话内置的移动控制提供
func (b *clientBridge) collaborators() game.Collaborators {
	return game.Collaborators{
		Renderer: b,
		Audio:    b,
		Reward:   b,
		HUD:      b,
		Terminal: b,
	}
}

// RenderActor 怪物渲染
func (b *clientBridge) RenderActor(actorID int, position models.Vector3, visible bool, scale float64) {
	b.emit(protocol.TypeRenderActor, protocol.ActorEvent{
		ID:       actorID,
		Position: position,
		Visible:  visible,
		Scale:    scale,
	})
}

// RenderPickup 拾取物渲染
func (b *clientBridge) RenderPickup(pickupID int, kind game.PickupKind, position models.Vector3, visible bool) {
	b.emit(protocol.TypeRenderPickup, protocol.ConvertPickup(pickupID, kind, position, visible))
}

// RenderShot 子弹轨迹
func (b *clientBridge) RenderShot(origin, direction models.Vector3, ttlMs float64) {
	b.emit(protocol.TypeRenderShot, protocol.ShotEvent{Origin: origin, Direction: direction, TTL: ttlMs})
}

// PlaySound 播放音效
func (b *clientBridge) PlaySound(name string) {
	b.emit(protocol.TypePlaySound, protocol.SoundEvent{Name: name})
}

// StopSound 停止音效
func (b *clientBridge) StopSound(name string) {
	b.emit(protocol.TypeStopSound, protocol.SoundEvent{Name: name})
}

// ReportScore 分数
func (b *clientBridge) ReportScore(value int) {
	b.emit(protocol.TypeScore, protocol.ValueEvent{Value: value})
}

// ReportHealth 生命
func (b *clientBridge) ReportHealth(value int) {
	b.emit(protocol.TypeHealth, protocol.ValueEvent{Value: value})
}

// ReportAmmo 弹药
func (b *clientBridge) ReportAmmo(value int) {
	b.emit(protocol.TypeAmmo, protocol.ValueEvent{Value: value})
}

// ReportWaveStatus 波次
func (b *clientBridge) ReportWaveStatus(current, total, remaining int) {
	b.emit(protocol.TypeWaveStatus, protocol.WaveEvent{Current: current, Total: total, Remaining: remaining})
}

// ShowNotice 提示文字
func (b *clientBridge) ShowNotice(text string) {
	b.emit(protocol.TypeNotice, protocol.NoticeEvent{Text: text})
}

// OnVictory 胜利
func (b *clientBridge) OnVictory(finalScore int) {
	b.emit(protocol.TypeVictory, protocol.ConvertOutcome(game.OutcomeVictory, finalScore, b.currentWave()))
}

// OnDefeat 失败
func (b *clientBridge) OnDefeat(finalScore int) {
	b.emit(protocol.TypeDefeat, protocol.ConvertOutcome(game.OutcomeDefeat, finalScore, b.currentWave()))
}

// ReleaseInputCapture 释放鼠标锁定
func (b *clientBridge) ReleaseInputCapture() {
	b.emit(protocol.TypeReleaseCapture, nil)
}

// ShowRewardMiniGame 开始一轮答题，答完后回调
func (b *clientBridge) ShowRewardMiniGame(onComplete func(bulletsEarned int)) {
	if b.round != nil {
		b.logger.Warn("上一轮答题尚未结束，重新开始")
	}
	b.round = quiz.NewRound(b.rng)
	b.onComplete = onComplete
	b.sendQuestion(0)
}

// QuizActive 是否有进行中的答题
func (b *clientBridge) QuizActive() bool {
	return b.round != nil
}

// AnswerQuiz 作答当前题目
func (b *clientBridge) AnswerQuiz(choice int) error {
	if b.round == nil {
		return quiz.ErrRoundOver
	}
	res, err := b.round.Answer(choice)
	if err != nil {
		return err
	}

	b.emit(protocol.TypeQuizResult, protocol.ConvertQuizResult(res))
	if res.Correct {
		b.PlaySound(game.SoundAnswer)
	}

	if !res.Done {
		attempts := 0
		if res.Retry {
			attempts = res.Attempts
		}
		b.sendQuestion(attempts)
		return nil
	}

	earned := b.round.Earned()
	cb := b.onComplete
	b.round, b.onComplete = nil, nil
	b.emit(protocol.TypeRewardComplete, protocol.RewardEvent{Bullets: earned})
	if cb != nil {
		cb(earned)
	}
	return nil
}

// resendQuestion 重连后补发当前题目
func (b *clientBridge) resendQuestion() {
	if b.round != nil {
		b.sendQuestion(b.attempts)
	}
}

func (b *clientBridge) sendQuestion(attempts int) {
	q, idx, ok := b.round.Current()
	if !ok {
		return
	}
	b.attempts = attempts
	b.emit(protocol.TypeQuizQuestion, protocol.ConvertQuestion(q, idx, attempts))
}

func (b *clientBridge) currentWave() int {
	if b.wave == nil {
		return 0
	}
	return b.wave()
}
