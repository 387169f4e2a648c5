// session.go

package game

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jacl-coder/MonsterHunter-Server/internal/models"
)

// Outcome 对局结果
type Outcome string

const (
	// OutcomeNone 进行中
	OutcomeNone Outcome = ""
	// OutcomeVictory 胜利
	OutcomeVictory Outcome = "victory"
	// OutcomeDefeat 失败
	OutcomeDefeat Outcome = "defeat"
)

// Session 单人对局。所有方法必须在同一个 goroutine 中调用。
type Session struct {
	ID string

	tuning Tuning
	level  *Level
	clock  *Clock
	rng    *rand.Rand
	logger *log.Logger
	out    outlet
	assets *Assets
	move   *Locomotion

	player   *Player
	pool     *ActorPool
	director *WaveDirector
	pickups  *Pickups

	started bool
	active  bool
	paused  bool
	frozen  bool
	outcome Outcome

	pendingShots []Shot
	rewardToken  int
}

// Option 会话选项
type Option func(*Session)

// WithRand 指定随机源
func WithRand(rng *rand.Rand) Option {
	return func(s *Session) { s.rng = rng }
}

// WithLogger 指定日志
func WithLogger(l *log.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithPausePolicy 指定暂停计时策略
func WithPausePolicy(p PausePolicy) Option {
	return func(s *Session) { s.clock = NewClock(p) }
}

// WithAssets 指定资源注册表
func WithAssets(a *Assets) Option {
	return func(s *Session) { s.assets = a }
}

// WithAdvanceCondition 替换波次完成判定
func WithAdvanceCondition(f func(WaveSpec) AdvanceCondition) Option {
	return func(s *Session) { s.director.SetAdvanceCondition(f) }
}

// NewSession 创建对局
func NewSession(id string, tuning Tuning, level *Level, collab Collaborators, opts ...Option) (*Session, error) {
	if err := tuning.Validate(); err != nil {
		return nil, err
	}
	if level == nil {
		level = DefaultLevel()
	}
	if err := level.Validate(); err != nil {
		return nil, err
	}

	s := &Session{
		ID:     id,
		tuning: tuning,
		level:  level,
		clock:  NewClock(PauseFreeze),
		rng:    rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x9e3779b97f4a7c15)),
		logger: log.Default(),
	}
	s.move = NewLocomotion(&s.tuning)
	s.player = NewPlayer(s.tuning.Player)
	s.pool = NewActorPool(s.tuning.poolSize(), &s.tuning)
	s.director = NewWaveDirector(level, s.pool, &s.tuning)
	s.pickups = NewPickups(&s.tuning)

	for _, opt := range opts {
		opt(s)
	}
	s.out = outlet{c: collab, logger: s.logger}
	return s, nil
}

// Player 玩家状态
func (s *Session) Player() *Player { return s.player }

// Director 波次调度器
func (s *Session) Director() *WaveDirector { return s.director }

// Pool 怪物池
func (s *Session) Pool() *ActorPool { return s.pool }

// Pickups 拾取物
func (s *Session) Pickups() *Pickups { return s.pickups }

// Locomotion 内置移动控制
func (s *Session) Locomotion() *Locomotion { return s.move }

// Level 关卡
func (s *Session) Level() *Level { return s.level }

// Now 会话时间(毫秒)
func (s *Session) Now() float64 { return s.clock.Now() }

// Active 对局是否进行中
func (s *Session) Active() bool { return s.active }

// Paused 是否暂停
func (s *Session) Paused() bool { return s.paused }

// Frozen 是否因答题冻结
func (s *Session) Frozen() bool { return s.frozen }

// Outcome 对局结果
func (s *Session) Outcome() Outcome { return s.outcome }

// PendingShots 待判定的射击数
func (s *Session) PendingShots() int { return len(s.pendingShots) }

// Start 开始对局
func (s *Session) Start() {
	if s.started {
		return
	}
	s.started = true
	s.active = true
	s.director.Start(s.clock.Now())

	s.out.score(s.player.Score)
	s.out.health(s.player.Health)
	s.out.ammo(s.player.Ammo)
	s.reportWave()
	s.out.notice(fmt.Sprintf("Wave %d Incoming!", s.director.Wave()+1))
	s.out.play(SoundMusic)
}

// SetInput 更新按键状态
func (s *Session) SetInput(in InputState) {
	s.move.SetInput(in)
}

// SetPaused 暂停或恢复；暂停时释放鼠标锁定并停止背景音乐
func (s *Session) SetPaused(paused bool) {
	if !s.active || s.paused == paused {
		return
	}
	s.paused = paused
	if paused {
		s.out.stop(SoundMusic)
		s.out.releaseCapture()
		return
	}
	s.out.play(SoundMusic)
}

// TogglePause 切换暂停
func (s *Session) TogglePause() {
	s.SetPaused(!s.paused)
}

// Tick 固定顺序推进一帧：玩家移动与拾取、怪物AI、射击判定、波次调度
func (s *Session) Tick(dtMs float64) {
	suspended := !s.active || s.paused || s.frozen
	if !s.clock.Advance(dtMs, suspended) {
		return
	}
	now := s.clock.Now()

	if s.out.c.View == nil {
		s.move.Step(dtMs)
	}
	s.player.Position, s.player.Forward = s.out.view(s.move, s.player.Position, s.player.Forward)
	s.updatePickups(now)
	if !s.active || s.frozen {
		return
	}

	for _, a := range s.pool.actors {
		if !a.active {
			continue
		}
		dmg, hit := a.Update(s.player.Position, dtMs, now, s.rng)
		s.out.renderActor(a, s.assets.Ready(a.Archetype.Sprite))
		if hit {
			s.TakeDamage(dmg.Amount)
			if !s.active {
				return
			}
		}
	}

	s.resolveShots()

	res := s.director.Tick(now, s.player.Position, s.rng)
	if res.Spawned != nil {
		s.out.renderActor(res.Spawned, s.assets.Ready(res.Spawned.Archetype.Sprite))
	}
	switch res.Transition {
	case TransitionCooldown:
		s.out.notice(fmt.Sprintf("Wave %d Complete!", s.director.Wave()+1))
		s.logger.Debug("波次完成", "session", s.ID, "wave", s.director.Wave()+1)
	case TransitionNextWave:
		s.out.notice(fmt.Sprintf("Wave %d Incoming!", s.director.Wave()+1))
		s.reportWave()
	case TransitionVictory:
		s.finish(OutcomeVictory)
	}
}

// Shoot 开火：没子弹时播放空膛音效并返回 false；
// 子弹耗尽时生成弹药箱。命中判定在下一帧的判定阶段进行。
func (s *Session) Shoot() bool {
	if !s.active || s.paused || s.frozen {
		return false
	}
	if !s.player.ConsumeAmmo() {
		s.out.play(SoundEmpty)
		return false
	}
	s.out.ammo(s.player.Ammo)
	s.out.play(SoundShot)

	shot := Shot{
		Origin:    s.player.Position,
		Direction: s.player.Forward,
		TTL:       ms(s.tuning.Combat.ShotTTL),
	}
	s.pendingShots = append(s.pendingShots, shot)
	s.out.renderShot(shot)

	if s.player.Ammo == 0 {
		s.spawnAmmo()
	}
	return true
}

// Fire 立即对怪物池做一次射线判定并结算击杀
func (s *Session) Fire(shot Shot) HitResult {
	if !s.active {
		return HitResult{ActorID: -1}
	}
	res := s.pool.Fire(shot, s.hittable)
	if !res.Killed {
		return res
	}

	a := s.pool.Get(res.ActorID)
	s.player.AddScore(s.tuning.Combat.KillScore)
	s.player.Kills++
	s.director.RecordKill()
	s.out.renderActor(a, false)
	s.out.score(s.player.Score)
	s.reportWave()

	if s.director.ShouldDropObjective(s.rng) {
		p := s.pickups.DropObjective(a.Position, s.clock.Now())
		s.out.renderPickup(p, true)
	}
	return res
}

// TakeDamage 玩家受伤；生命低于阈值时生成医疗包，归零时判负(只触发一次)
func (s *Session) TakeDamage(amount int) {
	if !s.active || s.player.Defeated() {
		return
	}
	killed := s.player.ApplyDamage(amount)
	s.out.health(s.player.Health)
	if killed {
		s.finish(OutcomeDefeat)
		return
	}
	if s.player.Health < s.tuning.Player.HealthThreshold {
		if p := s.pickups.TrySpawn(PickupHealth, s.player.Position, s.clock.Now(), s.rng); p != nil {
			s.out.renderPickup(p, true)
		}
	}
}

// GrantAmmo 增加弹药
func (s *Session) GrantAmmo(n int) {
	s.player.GrantAmmo(n)
	s.out.ammo(s.player.Ammo)
}

// GrantHealth 恢复生命
func (s *Session) GrantHealth(n int) {
	s.player.GrantHealth(n)
	s.out.health(s.player.Health)
}

func (s *Session) resolveShots() {
	shots := s.pendingShots
	s.pendingShots = s.pendingShots[:0]
	for _, shot := range shots {
		s.Fire(shot)
	}
}

func (s *Session) hittable(a *Actor) bool {
	if !s.tuning.Combat.HitRequiresVisual || a.Archetype == nil {
		return true
	}
	return s.assets.Ready(a.Archetype.Sprite)
}

func (s *Session) spawnAmmo() {
	if p := s.pickups.TrySpawn(PickupAmmo, s.player.Position, s.clock.Now(), s.rng); p != nil {
		s.out.renderPickup(p, true)
	}
}

// updatePickups 超时移除与拾取结算
func (s *Session) updatePickups(now float64) {
	for _, p := range s.pickups.Expire(now) {
		s.out.renderPickup(p, false)
		switch p.Kind {
		case PickupAmmo:
			if s.player.Ammo == 0 {
				s.spawnAmmo()
			}
		case PickupObjective:
			if s.director.ObjectiveExpired() {
				s.out.renderPickup(s.pickups.DropObjective(p.Position, now), true)
			}
		}
	}

	for _, p := range s.pickups.Collect(s.player.Position) {
		s.out.renderPickup(p, false)
		switch p.Kind {
		case PickupHealth:
			s.GrantHealth(s.tuning.Pickup.HealthAmount)
			s.out.play(SoundHealth)
		case PickupObjective:
			s.director.RecordObjective()
			s.reportWave()
		case PickupAmmo:
			s.beginReward()
		}
	}
}

// beginReward 拾取弹药箱后冻结对局，等待答题结果
func (s *Session) beginReward() {
	s.rewardToken++
	token := s.rewardToken
	s.pickups.rewardPending = true
	s.frozen = true

	complete := func(bullets int) { s.completeReward(token, bullets) }
	if !s.out.showReward(complete) {
		// 没有答题协作者时直接补满
		s.completeReward(token, s.player.MaxAmmo())
	}
}

// completeReward 结算答题奖励，同一次奖励只结算一次
func (s *Session) completeReward(token, bullets int) {
	if token != s.rewardToken || !s.pickups.rewardPending {
		return
	}
	s.pickups.rewardPending = false
	s.frozen = false
	if !s.active {
		return
	}

	s.GrantAmmo(bullets)
	if bullets > 0 {
		s.out.play(SoundReload)
	}
	if s.player.Ammo == 0 {
		s.spawnAmmo()
	}
}

// finish 进入结局，只生效一次
func (s *Session) finish(outcome Outcome) {
	if !s.active {
		return
	}
	phase := PhaseVictory
	if outcome == OutcomeDefeat {
		phase = PhaseDefeat
	}
	s.director.Finish(phase)
	s.active = false
	s.frozen = false
	s.outcome = outcome
	// 未结算的射击直接丢弃，弹药已在 Shoot 时扣除
	s.pendingShots = nil

	for _, a := range s.pool.DeactivateAll() {
		s.out.renderActor(a, false)
	}
	for _, p := range s.pickups.Clear() {
		s.out.renderPickup(p, false)
	}

	score := s.player.Score
	s.out.score(score)
	s.out.stop(SoundMusic)
	if outcome == OutcomeVictory {
		s.out.play(SoundVictory)
		s.out.victory(score)
	} else {
		s.out.play(SoundGameOver)
		s.out.defeat(score)
	}
	s.out.releaseCapture()
	s.logger.Info("对局结束", "session", s.ID, "outcome", outcome, "score", score, "wave", s.director.Wave()+1)
}

func (s *Session) reportWave() {
	s.out.wave(min(s.director.Wave()+1, s.director.TotalWaves()), s.director.TotalWaves(), s.director.Remaining())
}

// ActorSnapshot 怪物快照
type ActorSnapshot struct {
	ID       int            `json:"id"`
	Position models.Vector3 `json:"position"`
	Health   int            `json:"health"`
	State    string         `json:"state"`
	Kind     ArchetypeKind  `json:"kind"`
	Scale    float64        `json:"scale"`
}

// PickupSnapshot 拾取物快照
type PickupSnapshot struct {
	ID       int            `json:"id"`
	Kind     PickupKind     `json:"kind"`
	Position models.Vector3 `json:"position"`
}

// Snapshot 对局快照
type Snapshot struct {
	Phase      string           `json:"phase"`
	Wave       int              `json:"wave"`
	TotalWaves int              `json:"total_waves"`
	Remaining  int              `json:"remaining"`
	Score      int              `json:"score"`
	Health     int              `json:"health"`
	Ammo       int              `json:"ammo"`
	Paused     bool             `json:"paused"`
	Frozen     bool             `json:"frozen"`
	Outcome    Outcome          `json:"outcome,omitempty"`
	Player     models.Vector3   `json:"player"`
	Actors     []ActorSnapshot  `json:"actors"`
	Pickups    []PickupSnapshot `json:"pickups"`
}

// Snapshot 生成当前对局快照，用于断线重连
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Phase:      s.director.Phase().String(),
		Wave:       s.director.Wave() + 1,
		TotalWaves: s.director.TotalWaves(),
		Remaining:  s.director.Remaining(),
		Score:      s.player.Score,
		Health:     s.player.Health,
		Ammo:       s.player.Ammo,
		Paused:     s.paused,
		Frozen:     s.frozen,
		Outcome:    s.outcome,
		Player:     s.player.Position,
		Actors:     []ActorSnapshot{},
		Pickups:    []PickupSnapshot{},
	}
	for _, a := range s.pool.actors {
		if !a.active {
			continue
		}
		snap.Actors = append(snap.Actors, ActorSnapshot{
			ID:       a.ID,
			Position: a.Position,
			Health:   a.Health,
			State:    a.State.String(),
			Kind:     a.Archetype.Kind,
			Scale:    a.scale(),
		})
	}
	for _, p := range s.pickups.all() {
		snap.Pickups = append(snap.Pickups, PickupSnapshot{ID: p.ID, Kind: p.Kind, Position: p.Position})
	}
	return snap
}
