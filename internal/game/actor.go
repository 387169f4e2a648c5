// actor.go

package game

import (
	"math"
	"math/rand/v2"

	"github.com/jacl-coder/MonsterHunter-Server/internal/models"
)

// MovementState 怪物移动状态
type MovementState int

const (
	// StatePursue 追击
	StatePursue MovementState = iota
	// StateStrafe 横移
	StateStrafe
	// StateDodge 闪避
	StateDodge
)

func (s MovementState) String() string {
	switch s {
	case StateStrafe:
		return "strafe"
	case StateDodge:
		return "dodge"
	default:
		return "pursue"
	}
}

// ContactDamage 怪物接触玩家造成的伤害
type ContactDamage struct {
	ActorID int
	Amount  int
}

// Actor 怪物实例，由怪物池持有并复用
type Actor struct {
	ID         int
	Position   models.Vector3
	Health     int
	MaxHealth  int
	BaseSpeed  float64
	Speed      float64
	State      MovementState
	Aggression float64
	Archetype  *Archetype
	Wave       int

	active        bool
	hitDamage     int
	lastContactAt float64
	lastDodgeAt   float64
	stateUntil    float64
	side          float64        // 横移方向 ±1
	dodgeDir      models.Vector3 // 闪避方向
	tuning        *Tuning
}

func newActor(id int, tuning *Tuning) *Actor {
	return &Actor{ID: id, tuning: tuning}
}

// Active 是否在场
func (a *Actor) Active() bool {
	return a.active
}

// HitDamage 每次受击的伤害
func (a *Actor) HitDamage() int {
	return a.hitDamage
}

func (a *Actor) scale() float64 {
	if a.Archetype == nil {
		return 1
	}
	return a.Archetype.Scale
}

func (a *Actor) contactDamage() int {
	if a.Archetype == nil || a.Archetype.ContactDamage <= 0 {
		return 10
	}
	return a.Archetype.ContactDamage
}

// Spawn 在指定位置激活怪物
func (a *Actor) Spawn(pos models.Vector3, wave int, arch *Archetype, rng *rand.Rand) {
	a.Archetype = arch
	a.Wave = wave
	a.Position = a.tuning.clampToArena(pos, 0)
	a.MaxHealth = arch.MaxHealth(wave)
	a.Health = a.MaxHealth
	a.hitDamage = arch.DamagePerHit(a.MaxHealth)
	a.Aggression = arch.AggressionMin + rng.Float64()*(arch.AggressionMax-arch.AggressionMin)
	a.BaseSpeed = a.tuning.Actor.BaseSpeed * arch.SpeedMultiplier
	a.Speed = a.BaseSpeed
	a.State = StatePursue
	a.lastContactAt = math.Inf(-1)
	a.lastDodgeAt = math.Inf(-1)
	a.stateUntil = 0
	a.active = true
}

// Deactivate 回收怪物
func (a *Actor) Deactivate() {
	a.active = false
	a.State = StatePursue
}

// ReceiveHit 受到一次射击，死亡返回 true
func (a *Actor) ReceiveHit() bool {
	if !a.active {
		return false
	}
	a.Health -= a.hitDamage
	if a.Health <= 0 {
		a.Health = 0
		a.Deactivate()
		return true
	}
	return false
}

// Update 推进一帧：状态机、移动、接触伤害
func (a *Actor) Update(player models.Vector3, dtMs, now float64, rng *rand.Rand) (ContactDamage, bool) {
	if !a.active {
		return ContactDamage{}, false
	}
	t := &a.tuning.Actor

	toPlayer := player.Sub(a.Position).Flat()
	distance := toPlayer.Length()
	pursue := toPlayer.Normalize()

	a.Speed = a.BaseSpeed
	if distance < t.CloseDistance {
		a.Speed = a.BaseSpeed * (t.CloseBoost + a.Aggression)
	}

	if a.State != StatePursue && now >= a.stateUntil {
		a.State = StatePursue
	}

	if a.State == StatePursue {
		if chance(rng, t.StrafeChance*a.Aggression, dtMs) {
			a.State = StateStrafe
			a.stateUntil = now + ms(t.StrafeMin) + rng.Float64()*ms(t.StrafeMax-t.StrafeMin)
			a.side = randomSide(rng)
		} else {
			a.tryDodge(pursue, now, dtMs, rng)
		}
	}

	var dir models.Vector3
	switch a.State {
	case StateStrafe:
		strafe := pursue.Perpendicular().Scale(a.side)
		dir = pursue.Scale(1 - t.StrafeBlend).Add(strafe.Scale(t.StrafeBlend))
	case StateDodge:
		dir = a.dodgeDir
		a.Speed = a.BaseSpeed * (t.DodgeBoost + a.Aggression)
	default:
		dir = pursue
	}

	dir.X += (rng.Float64()*2 - 1) * t.Jitter
	dir.Z += (rng.Float64()*2 - 1) * t.Jitter
	dir = dir.Normalize()

	a.Position = a.tuning.clampToArena(a.Position.Add(dir.Scale(a.Speed*dtMs/1000)), 0)

	if distance < t.ContactRadius && now-a.lastContactAt >= ms(t.ContactCooldown) {
		a.lastContactAt = now
		return ContactDamage{ActorID: a.ID, Amount: a.contactDamage()}, true
	}
	return ContactDamage{}, false
}

// tryDodge 冷却结束后按攻击性概率闪避
func (a *Actor) tryDodge(pursue models.Vector3, now, dtMs float64, rng *rand.Rand) {
	t := &a.tuning.Actor
	if now-a.lastDodgeAt < ms(t.DodgeCooldown) {
		return
	}
	if !chance(rng, t.DodgeChance*a.Aggression, dtMs) {
		return
	}
	away := pursue.Scale(-1)
	sideways := away.Perpendicular().Scale(randomSide(rng))
	a.dodgeDir = away.Scale(t.DodgeAwayWeight).Add(sideways.Scale(1 - t.DodgeAwayWeight)).Normalize()
	a.lastDodgeAt = now
	a.stateUntil = now + ms(t.DodgeDuration)
	a.State = StateDodge
}

// chance 把每帧概率换算到实际帧长
func chance(rng *rand.Rand, perFrame, dtMs float64) bool {
	if perFrame <= 0 || dtMs <= 0 {
		return false
	}
	p := perFrame
	if perFrame < 1 {
		p = 1 - math.Pow(1-perFrame, dtMs/frameMs)
	}
	return rng.Float64() < p
}

func randomSide(rng *rand.Rand) float64 {
	if rng.IntN(2) == 0 {
		return -1
	}
	return 1
}
