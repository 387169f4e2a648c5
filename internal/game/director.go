// director.go

package game

import (
	"math/rand/v2"

	"github.com/jacl-coder/MonsterHunter-Server/internal/models"
)

// Phase 波次调度阶段
type Phase int

const (
	// PhaseIdle 未开始
	PhaseIdle Phase = iota
	// PhaseSpawning 刷怪中
	PhaseSpawning
	// PhaseCooldown 波次间隔
	PhaseCooldown
	// PhaseVictory 胜利
	PhaseVictory
	// PhaseDefeat 失败
	PhaseDefeat
)

func (p Phase) String() string {
	switch p {
	case PhaseSpawning:
		return "spawning"
	case PhaseCooldown:
		return "cooldown"
	case PhaseVictory:
		return "victory"
	case PhaseDefeat:
		return "defeat"
	default:
		return "idle"
	}
}

// Terminal 是否为结束阶段
func (p Phase) Terminal() bool {
	return p == PhaseVictory || p == PhaseDefeat
}

// Transition 一次 Tick 引起的阶段变化
type Transition int

const (
	// TransitionNone 无变化
	TransitionNone Transition = iota
	// TransitionCooldown 波次完成，进入间隔
	TransitionCooldown
	// TransitionNextWave 下一波开始
	TransitionNextWave
	// TransitionVictory 全部波次完成
	TransitionVictory
)

// TickResult 调度结果
type TickResult struct {
	Spawned    *Actor
	Transition Transition
}

// WaveDirector 波次调度器
type WaveDirector struct {
	tuning *Tuning
	level  *Level
	pool   *ActorPool

	phase     Phase
	wave      int
	spec      WaveSpec
	archetype *Archetype
	spawned   int
	killed    int
	collected int
	dropped   int // 已掉落未收集的任务石

	nextSpawnAt    float64
	cooldownEndsAt float64

	conditionFor func(WaveSpec) AdvanceCondition
	advance      AdvanceCondition
}

// NewWaveDirector 创建调度器
func NewWaveDirector(level *Level, pool *ActorPool, tuning *Tuning) *WaveDirector {
	return &WaveDirector{
		tuning:       tuning,
		level:        level,
		pool:         pool,
		conditionFor: DefaultAdvance,
	}
}

// SetAdvanceCondition 替换波次完成判定，对之后开始的波次生效
func (d *WaveDirector) SetAdvanceCondition(f func(WaveSpec) AdvanceCondition) {
	if f != nil {
		d.conditionFor = f
	}
}

// Start 进入第一波
func (d *WaveDirector) Start(now float64) {
	if d.phase != PhaseIdle {
		return
	}
	d.enterSpawning(0, now)
}

// Phase 当前阶段
func (d *WaveDirector) Phase() Phase {
	return d.phase
}

// Wave 当前波次(从0开始)
func (d *WaveDirector) Wave() int {
	return d.wave
}

// TotalWaves 总波次
func (d *WaveDirector) TotalWaves() int {
	return len(d.level.Waves)
}

// Spec 当前波次配置
func (d *WaveDirector) Spec() WaveSpec {
	return d.spec
}

// Remaining 本波剩余击杀数
func (d *WaveDirector) Remaining() int {
	return max(d.spec.Target-d.killed, 0)
}

// Progress 当前进度
func (d *WaveDirector) Progress() WaveProgress {
	return WaveProgress{
		Wave:               d.wave,
		Target:             d.spec.Target,
		Spawned:            d.spawned,
		Killed:             d.killed,
		Collected:          d.collected,
		RequiredObjectives: d.spec.RequiredObjectives,
		Active:             d.pool.ActiveCount(),
	}
}

// RecordKill 记录击杀
func (d *WaveDirector) RecordKill() {
	if d.phase.Terminal() || d.phase == PhaseIdle {
		return
	}
	d.killed++
}

// ShouldDropObjective 击杀后是否掉落任务石；剩余击杀不足以凑齐时必掉
func (d *WaveDirector) ShouldDropObjective(rng *rand.Rand) bool {
	need := d.spec.RequiredObjectives - d.collected - d.dropped
	if need <= 0 {
		return false
	}
	if need >= d.Remaining() || rng.Float64() < d.spec.ObjectiveDropChance {
		d.dropped++
		return true
	}
	return false
}

// RecordObjective 记录收集到的任务石
func (d *WaveDirector) RecordObjective() {
	if d.phase.Terminal() {
		return
	}
	d.collected++
	if d.dropped > 0 {
		d.dropped--
	}
}

// ObjectiveExpired 记录一块未拾取就超时的任务石；剩余击杀不足以补齐时
// 返回 true，调用方应原地重新掉落
func (d *WaveDirector) ObjectiveExpired() bool {
	if d.phase.Terminal() || d.dropped == 0 {
		return false
	}
	d.dropped--
	if d.spec.RequiredObjectives-d.collected-d.dropped > d.Remaining() {
		d.dropped++
		return true
	}
	return false
}

// Finish 进入结束阶段，已结束时返回 false
func (d *WaveDirector) Finish(phase Phase) bool {
	if d.phase.Terminal() || !phase.Terminal() {
		return false
	}
	d.phase = phase
	return true
}

// Tick 推进调度
func (d *WaveDirector) Tick(now float64, player models.Vector3, rng *rand.Rand) TickResult {
	switch d.phase {
	case PhaseSpawning:
		if now < d.nextSpawnAt {
			return TickResult{}
		}
		d.nextSpawnAt = now + ms(d.tuning.Wave.SpawnInterval)
		return d.spawnTick(now, player, rng)
	case PhaseCooldown:
		if now < d.cooldownEndsAt {
			return TickResult{}
		}
		d.wave++
		if d.wave >= len(d.level.Waves) {
			d.phase = PhaseVictory
			return TickResult{Transition: TransitionVictory}
		}
		d.enterSpawning(d.wave, now)
		return TickResult{Transition: TransitionNextWave}
	}
	return TickResult{}
}

// spawnTick 每个刷怪间隔执行一次
func (d *WaveDirector) spawnTick(now float64, player models.Vector3, rng *rand.Rand) TickResult {
	if d.advance(d.Progress()) && d.pool.ActiveCount() == 0 {
		d.phase = PhaseCooldown
		d.cooldownEndsAt = now + ms(d.tuning.Wave.Cooldown)
		return TickResult{Transition: TransitionCooldown}
	}
	if d.spawned >= d.spec.Target || rng.Float64() >= d.spec.SpawnChance {
		return TickResult{}
	}
	pos, ok := d.pool.safeSpawnPoint(player, rng)
	if !ok {
		return TickResult{}
	}
	a := d.pool.acquire()
	if a == nil {
		return TickResult{}
	}
	a.Spawn(pos, d.wave, d.archetype, rng)
	d.spawned++
	return TickResult{Spawned: a}
}

func (d *WaveDirector) enterSpawning(wave int, now float64) {
	d.wave = wave
	d.spec = d.level.Waves[wave]
	d.archetype, _ = d.level.Archetype(d.spec.Archetype)
	d.spawned = 0
	d.killed = 0
	d.collected = 0
	d.dropped = 0
	d.advance = d.conditionFor(d.spec)
	d.phase = PhaseSpawning
	d.nextSpawnAt = now + ms(d.tuning.Wave.SpawnInterval)
}
