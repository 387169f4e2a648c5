package game_test

import (
	"io"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jacl-coder/MonsterHunter-Server/internal/game"
	"github.com/jacl-coder/MonsterHunter-Server/internal/game/mocks"
	"github.com/jacl-coder/MonsterHunter-Server/internal/models"
	"go.uber.org/mock/gomock"
)

// fixedView 固定在场地中心、朝向 -Z 的玩家视角
type fixedView struct {
	pos, fwd models.Vector3
}

func (v *fixedView) PlayerPosition() models.Vector3 { return v.pos }
func (v *fixedView) CameraForward() models.Vector3  { return v.fwd }

type harness struct {
	renderer *mocks.MockRenderer
	audio    *mocks.MockAudio
	hud      *mocks.MockHUD
	terminal *mocks.MockTerminal
	reward   *mocks.MockRewardGame
	view     *fixedView
}

func newHarness(t *testing.T) *harness {
	ctrl := gomock.NewController(t)
	return &harness{
		renderer: mocks.NewMockRenderer(ctrl),
		audio:    mocks.NewMockAudio(ctrl),
		hud:      mocks.NewMockHUD(ctrl),
		terminal: mocks.NewMockTerminal(ctrl),
		reward:   mocks.NewMockRewardGame(ctrl),
		view:     &fixedView{pos: models.Vec3(0, 1.6, 0), fwd: models.Vec3(0, 0, -1)},
	}
}

// allowRest 放行其余渲染、音效和界面调用，必须在具体期望之后调用
func (h *harness) allowRest() {
	h.renderer.EXPECT().RenderActor(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	h.renderer.EXPECT().RenderPickup(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	h.renderer.EXPECT().RenderShot(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	h.audio.EXPECT().PlaySound(gomock.Any()).AnyTimes()
	h.audio.EXPECT().StopSound(gomock.Any()).AnyTimes()
	h.hud.EXPECT().ReportScore(gomock.Any()).AnyTimes()
	h.hud.EXPECT().ReportHealth(gomock.Any()).AnyTimes()
	h.hud.EXPECT().ReportAmmo(gomock.Any()).AnyTimes()
	h.hud.EXPECT().ReportWaveStatus(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	h.hud.EXPECT().ShowNotice(gomock.Any()).AnyTimes()
}

func (h *harness) collaborators(withReward bool) game.Collaborators {
	c := game.Collaborators{
		Renderer: h.renderer,
		Audio:    h.audio,
		View:     h.view,
		HUD:      h.hud,
		Terminal: h.terminal,
	}
	if withReward {
		c.Reward = h.reward
	}
	return c
}

func calmTuning() game.Tuning {
	t := game.DefaultTuning()
	t.Actor.Jitter = 0
	t.Actor.StrafeChance = 0
	t.Actor.DodgeChance = 0
	return t
}

func newTestSession(t *testing.T, tuning game.Tuning, level *game.Level, c game.Collaborators, opts ...game.Option) *game.Session {
	t.Helper()
	opts = append([]game.Option{
		game.WithRand(rand.New(rand.NewPCG(1, 2))),
		game.WithLogger(log.New(io.Discard)),
	}, opts...)
	s, err := game.NewSession("test", tuning, level, c, opts...)
	if err != nil {
		t.Fatalf("创建会话失败: %v", err)
	}
	return s
}

func TestShootWithoutAmmo(t *testing.T) {
	h := newHarness(t)
	h.audio.EXPECT().PlaySound(game.SoundEmpty).Times(1)
	h.renderer.EXPECT().RenderShot(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	h.allowRest()

	tuning := calmTuning()
	tuning.Player.StartAmmo = 0
	s := newTestSession(t, tuning, nil, h.collaborators(false))
	s.Start()

	if s.Shoot() {
		t.Fatal("没有子弹时开火成功")
	}
	if s.PendingShots() != 0 || s.Player().Ammo != 0 {
		t.Fatalf("pending=%d ammo=%d", s.PendingShots(), s.Player().Ammo)
	}
}

func TestShootIgnoredWhilePaused(t *testing.T) {
	h := newHarness(t)
	h.terminal.EXPECT().ReleaseInputCapture().Times(1)
	h.allowRest()

	s := newTestSession(t, calmTuning(), nil, h.collaborators(false))
	s.Start()
	s.SetPaused(true)

	if s.Shoot() || s.Player().Ammo != 12 {
		t.Fatalf("暂停时开火, ammo=%d", s.Player().Ammo)
	}
}

func TestShootKillScores(t *testing.T) {
	h := newHarness(t)
	h.hud.EXPECT().ReportScore(100).Times(1)
	h.renderer.EXPECT().RenderShot(models.Vec3(0, 1.6, 0), models.Vec3(0, 0, -1), 1000.0).Times(1)
	h.allowRest()

	s := newTestSession(t, calmTuning(), oneShotLevel(2), h.collaborators(false))
	s.Start()
	s.Tick(16)

	arch, _ := oneShotLevel(1).Archetype("grunt")
	s.Pool().Get(0).Spawn(models.Vec3(0, 1.5, -7), 0, arch, rand.New(rand.NewPCG(1, 1)))

	if !s.Shoot() || s.PendingShots() != 1 {
		t.Fatal("开火失败")
	}
	if s.Pool().Get(0).Health == 0 {
		t.Fatal("命中应在下一帧判定")
	}
	s.Tick(16)

	if s.PendingShots() != 0 {
		t.Fatalf("下一帧后仍有 %d 发待判定", s.PendingShots())
	}
	if s.Pool().Get(0).Active() || s.Player().Score != 100 {
		t.Fatalf("击杀未结算: active=%v score=%d", s.Pool().Get(0).Active(), s.Player().Score)
	}
	if s.Director().Remaining() != 4 {
		t.Fatalf("remaining = %d", s.Director().Remaining())
	}
}

// ammoAtPlayer 弹药箱刷在玩家脚下，下一帧即被拾取
func ammoAtPlayer() game.Tuning {
	t := calmTuning()
	t.Player.StartAmmo = 1
	t.Arena.AmmoPoints = []models.Vector3{{X: 0, Y: 1.5, Z: 0}}
	return t
}

func TestRewardFlow(t *testing.T) {
	h := newHarness(t)
	var onComplete func(int)
	h.reward.EXPECT().ShowRewardMiniGame(gomock.Any()).Times(1).Do(func(f func(int)) {
		onComplete = f
	})
	h.audio.EXPECT().PlaySound(game.SoundReload).Times(1)
	h.renderer.EXPECT().RenderPickup(gomock.Any(), game.PickupAmmo, gomock.Any(), true).Times(1)
	h.allowRest()

	s := newTestSession(t, ammoAtPlayer(), nil, h.collaborators(true))
	s.Start()
	s.Shoot()
	if s.Pickups().Active(game.PickupAmmo) == nil {
		t.Fatal("子弹耗尽后未生成弹药箱")
	}

	s.Tick(16)
	if onComplete == nil || !s.Frozen() {
		t.Fatalf("拾取弹药箱后应冻结并弹出答题, frozen=%v", s.Frozen())
	}
	frozenAt := s.Now()
	s.Tick(5000)
	if s.Now() != frozenAt {
		t.Fatalf("冻结期间时间流逝: %v -> %v", frozenAt, s.Now())
	}

	onComplete(8)
	if s.Frozen() || s.Player().Ammo != 8 {
		t.Fatalf("结算后 frozen=%v ammo=%d", s.Frozen(), s.Player().Ammo)
	}
	onComplete(8)
	if s.Player().Ammo != 8 {
		t.Fatalf("重复回调再次发放子弹: %d", s.Player().Ammo)
	}
}

func TestRewardWithoutBulletsRespawnsAmmo(t *testing.T) {
	h := newHarness(t)
	var onComplete func(int)
	h.reward.EXPECT().ShowRewardMiniGame(gomock.Any()).Do(func(f func(int)) {
		onComplete = f
	})
	h.audio.EXPECT().PlaySound(game.SoundReload).Times(0)
	h.allowRest()

	s := newTestSession(t, ammoAtPlayer(), nil, h.collaborators(true))
	s.Start()
	s.Shoot()
	s.Tick(16)
	onComplete(0)

	if s.Player().Ammo != 0 || s.Pickups().Active(game.PickupAmmo) == nil {
		t.Fatalf("答错后应重新生成弹药箱, ammo=%d", s.Player().Ammo)
	}
}

func TestRewardWithoutCollaboratorRefills(t *testing.T) {
	h := newHarness(t)
	h.allowRest()

	s := newTestSession(t, ammoAtPlayer(), nil, h.collaborators(false))
	s.Start()
	s.Shoot()
	s.Tick(16)

	if s.Frozen() || s.Player().Ammo != 12 {
		t.Fatalf("frozen=%v ammo=%d, 期望直接补满", s.Frozen(), s.Player().Ammo)
	}
}

func TestHealthKitSpawnsBelowThreshold(t *testing.T) {
	h := newHarness(t)
	h.renderer.EXPECT().RenderPickup(gomock.Any(), game.PickupHealth, gomock.Any(), true).Times(1)
	h.allowRest()

	s := newTestSession(t, calmTuning(), nil, h.collaborators(false))
	s.Start()

	s.TakeDamage(50)
	if s.Pickups().Active(game.PickupHealth) != nil {
		t.Fatal("生命50时不应生成医疗包")
	}
	s.TakeDamage(20)
	if s.Pickups().Active(game.PickupHealth) == nil {
		t.Fatal("生命30时应生成医疗包")
	}
	s.TakeDamage(5)
	if s.Player().Health != 25 {
		t.Fatalf("生命 = %d", s.Player().Health)
	}
}

func TestDefeatFiresOnce(t *testing.T) {
	h := newHarness(t)
	h.terminal.EXPECT().OnDefeat(0).Times(1)
	h.terminal.EXPECT().OnVictory(gomock.Any()).Times(0)
	h.terminal.EXPECT().ReleaseInputCapture().Times(1)
	h.audio.EXPECT().StopSound(game.SoundMusic).Times(1)
	h.audio.EXPECT().PlaySound(game.SoundGameOver).Times(1)
	h.allowRest()

	s := newTestSession(t, calmTuning(), nil, h.collaborators(false))
	s.Start()

	s.TakeDamage(34)
	s.TakeDamage(34)
	s.TakeDamage(34)
	s.TakeDamage(34)

	if s.Active() || s.Outcome() != game.OutcomeDefeat || s.Director().Phase() != game.PhaseDefeat {
		t.Fatalf("active=%v outcome=%q phase=%v", s.Active(), s.Outcome(), s.Director().Phase())
	}
	if s.Player().Health != 0 {
		t.Fatalf("生命 = %d", s.Player().Health)
	}
	if s.Shoot() {
		t.Fatal("结束后仍可开火")
	}
	s.Tick(1000)
	if s.Pool().ActiveCount() != 0 {
		t.Fatal("结束后仍在刷怪")
	}
}

func TestFinishDiscardsPendingShots(t *testing.T) {
	h := newHarness(t)
	h.terminal.EXPECT().OnDefeat(0).Times(1)
	h.terminal.EXPECT().ReleaseInputCapture().Times(1)
	h.allowRest()

	s := newTestSession(t, calmTuning(), nil, h.collaborators(false))
	s.Start()
	if !s.Shoot() || s.PendingShots() != 1 {
		t.Fatal("开火失败")
	}

	s.TakeDamage(1000)
	if s.PendingShots() != 0 {
		t.Fatalf("结束后仍有 %d 发待判定", s.PendingShots())
	}
	if s.Player().Ammo != 11 {
		t.Fatalf("ammo = %d, 已发射的子弹不退还", s.Player().Ammo)
	}
}

func TestVictoryAfterLastWave(t *testing.T) {
	h := newHarness(t)
	h.terminal.EXPECT().OnVictory(100).Times(1)
	h.terminal.EXPECT().ReleaseInputCapture().Times(1)
	h.hud.EXPECT().ShowNotice("Wave 1 Incoming!").Times(1)
	h.hud.EXPECT().ShowNotice("Wave 1 Complete!").Times(1)
	h.allowRest()

	level := oneShotLevel(1)
	level.Waves[0].Target = 1
	s := newTestSession(t, calmTuning(), level, h.collaborators(false))
	s.Start()

	s.Tick(1000)
	if s.Pool().ActiveCount() != 1 {
		t.Fatal("未刷出怪物")
	}
	a := s.Pool().Get(0)
	dir := a.Position.Sub(s.Player().Position)
	if res := s.Fire(game.Shot{Origin: s.Player().Position, Direction: dir}); !res.Killed {
		t.Fatalf("未击杀: %+v", res)
	}

	s.Tick(1000)
	if s.Director().Phase() != game.PhaseCooldown {
		t.Fatalf("phase = %v", s.Director().Phase())
	}
	for i := 0; i < 5; i++ {
		s.Tick(1000)
	}
	if s.Outcome() != game.OutcomeVictory || s.Active() {
		t.Fatalf("outcome=%q active=%v", s.Outcome(), s.Active())
	}
}

func TestExpiredObjectiveIsDroppedAgain(t *testing.T) {
	h := newHarness(t)
	h.allowRest()

	level := oneShotLevel(1)
	level.Waves[0].Target = 1
	level.Waves[0].RequiredObjectives = 1
	level.Waves[0].ObjectiveDropChance = 0
	tuning := calmTuning()
	tuning.Pickup.Timeout = 2 * time.Second
	s := newTestSession(t, tuning, level, h.collaborators(false))
	s.Start()

	s.Tick(1000)
	a := s.Pool().Get(0)
	dir := a.Position.Sub(s.Player().Position)
	if res := s.Fire(game.Shot{Origin: s.Player().Position, Direction: dir}); !res.Killed {
		t.Fatalf("未击杀: %+v", res)
	}
	stones := s.Pickups().Objectives()
	if len(stones) != 1 {
		t.Fatalf("最后一只应掉落任务石, 得到 %d 块", len(stones))
	}
	dropped := stones[0]

	s.Tick(1000)
	s.Tick(1000)
	stones = s.Pickups().Objectives()
	if len(stones) != 1 || stones[0] == dropped || dropped.Active() {
		t.Fatalf("过期的任务石未重新掉落: %v", stones)
	}
	if stones[0].Position != dropped.Position {
		t.Fatalf("重新掉落位置 %v, 期望 %v", stones[0].Position, dropped.Position)
	}
	if s.Director().Phase() != game.PhaseSpawning {
		t.Fatalf("phase = %v", s.Director().Phase())
	}

	h.view.pos = stones[0].Position
	s.Tick(1000)
	if s.Director().Phase() != game.PhaseCooldown {
		t.Fatalf("拾取补发的任务石后 phase = %v", s.Director().Phase())
	}
}

func TestPausePolicy(t *testing.T) {
	tests := []struct {
		name    string
		policy  game.PausePolicy
		wantNow float64
	}{
		{"冻结", game.PauseFreeze, 16},
		{"流逝", game.PauseBleed, 10016},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.terminal.EXPECT().ReleaseInputCapture().Times(1)
			h.audio.EXPECT().StopSound(game.SoundMusic).Times(1)
			h.allowRest()

			s := newTestSession(t, calmTuning(), nil, h.collaborators(false), game.WithPausePolicy(tt.policy))
			s.Start()
			s.Tick(16)
			s.TogglePause()
			s.Tick(10000)
			if !s.Paused() || s.Now() != tt.wantNow {
				t.Fatalf("paused=%v now=%v, 期望 %v", s.Paused(), s.Now(), tt.wantNow)
			}
			if s.Pool().ActiveCount() != 0 {
				t.Fatal("暂停期间刷怪")
			}
			s.TogglePause()
			if s.Paused() {
				t.Fatal("恢复失败")
			}
		})
	}
}

func TestPanickingCollaboratorDoesNotStopTick(t *testing.T) {
	h := newHarness(t)
	h.hud.EXPECT().ReportScore(gomock.Any()).Do(func(int) { panic("hud 崩溃") }).AnyTimes()
	h.renderer.EXPECT().RenderActor(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Do(func(int, models.Vector3, bool, float64) { panic("渲染崩溃") }).AnyTimes()
	h.allowRest()

	level := oneShotLevel(1)
	level.Waves[0].Target = 3
	s := newTestSession(t, calmTuning(), level, h.collaborators(false))
	s.Start()
	for i := 0; i < 3; i++ {
		s.Tick(1000)
	}

	if !s.Active() || s.Pool().ActiveCount() == 0 {
		t.Fatalf("协作者异常中断了对局: active=%v actors=%d", s.Active(), s.Pool().ActiveCount())
	}
	if s.Now() != 3000 {
		t.Fatalf("now = %v", s.Now())
	}
}

func TestHitRequiresVisual(t *testing.T) {
	h := newHarness(t)
	h.allowRest()

	tuning := calmTuning()
	tuning.Combat.HitRequiresVisual = true
	assets := game.NewAssets()
	level := oneShotLevel(1)
	level.Archetypes[0].Sprite = "grunt.png"
	s := newTestSession(t, tuning, level, h.collaborators(false), game.WithAssets(assets))
	s.Start()

	arch, _ := level.Archetype("grunt")
	s.Pool().Get(0).Spawn(models.Vec3(0, 1.5, -7), 0, arch, rand.New(rand.NewPCG(1, 1)))
	shot := game.Shot{Origin: models.Vec3(0, 1.6, 0), Direction: models.Vec3(0, 0, -1)}

	if res := s.Fire(shot); res.Hit {
		t.Fatal("贴图未就绪时被命中")
	}
	assets.MarkLoaded("grunt.png")
	if res := s.Fire(shot); !res.Killed {
		t.Fatalf("贴图就绪后未命中: %+v", res)
	}
}

func TestSnapshot(t *testing.T) {
	h := newHarness(t)
	h.allowRest()

	s := newTestSession(t, calmTuning(), oneShotLevel(3), h.collaborators(false))
	s.Start()
	s.Tick(1000)

	snap := s.Snapshot()
	if snap.Phase != "spawning" || snap.Wave != 1 || snap.TotalWaves != 3 {
		t.Fatalf("snapshot = %+v", snap)
	}
	if len(snap.Actors) != 1 || snap.Ammo != 12 || snap.Health != 100 {
		t.Fatalf("actors=%d ammo=%d health=%d", len(snap.Actors), snap.Ammo, snap.Health)
	}
}
