// tuning.go

package game

import (
	"errors"
	"fmt"
	"time"

	"github.com/jacl-coder/MonsterHunter-Server/internal/models"
)

// frameMs 参考帧长度，概率参数按 60FPS 每帧给出
const frameMs = 1000.0 / 60.0

// Box 水平面上的轴对齐障碍物
type Box struct {
	MinX float64 `mapstructure:"min_x" yaml:"min_x"`
	MinZ float64 `mapstructure:"min_z" yaml:"min_z"`
	MaxX float64 `mapstructure:"max_x" yaml:"max_x"`
	MaxZ float64 `mapstructure:"max_z" yaml:"max_z"`
}

// Contains 点是否在障碍物内(含半径)
func (b Box) Contains(p models.Vector3, radius float64) bool {
	return p.X > b.MinX-radius && p.X < b.MaxX+radius &&
		p.Z > b.MinZ-radius && p.Z < b.MaxZ+radius
}

// ArenaTuning 场地参数
type ArenaTuning struct {
	HalfExtent  float64          `mapstructure:"half_extent"`
	MinHeight   float64          `mapstructure:"min_height"`
	SpawnPoints []models.Vector3 `mapstructure:"spawn_points"`
	AmmoPoints  []models.Vector3 `mapstructure:"ammo_points"`
	Colliders   []Box            `mapstructure:"colliders"`
}

// PlayerTuning 玩家参数
type PlayerTuning struct {
	MaxHealth       int     `mapstructure:"max_health"`
	MaxAmmo         int     `mapstructure:"max_ammo"`
	StartAmmo       int     `mapstructure:"start_ammo"`
	HealthThreshold int     `mapstructure:"health_threshold"`
	MoveSpeed       float64 `mapstructure:"move_speed"` // 单位/秒
	BodyRadius      float64 `mapstructure:"body_radius"`
	EyeHeight       float64 `mapstructure:"eye_height"`
}

// ActorTuning 怪物行为参数
type ActorTuning struct {
	BaseSpeed       float64       `mapstructure:"base_speed"` // 单位/秒
	CloseDistance   float64       `mapstructure:"close_distance"`
	CloseBoost      float64       `mapstructure:"close_boost"`
	ContactRadius   float64       `mapstructure:"contact_radius"`
	ContactCooldown time.Duration `mapstructure:"contact_cooldown"`
	Jitter          float64       `mapstructure:"jitter"`
	StrafeChance    float64       `mapstructure:"strafe_chance"` // 每帧，乘以攻击性
	StrafeMin       time.Duration `mapstructure:"strafe_min"`
	StrafeMax       time.Duration `mapstructure:"strafe_max"`
	StrafeBlend     float64       `mapstructure:"strafe_blend"`
	DodgeChance     float64       `mapstructure:"dodge_chance"` // 每帧，乘以攻击性
	DodgeCooldown   time.Duration `mapstructure:"dodge_cooldown"`
	DodgeDuration   time.Duration `mapstructure:"dodge_duration"`
	DodgeBoost      float64       `mapstructure:"dodge_boost"`
	DodgeAwayWeight float64       `mapstructure:"dodge_away_weight"`
}

// CombatTuning 射击判定参数
type CombatTuning struct {
	HitRadius         float64       `mapstructure:"hit_radius"`
	Range             float64       `mapstructure:"range"`
	KillScore         int           `mapstructure:"kill_score"`
	ShotTTL           time.Duration `mapstructure:"shot_ttl"`
	ShotSpeed         float64       `mapstructure:"shot_speed"`
	HitRequiresVisual bool          `mapstructure:"hit_requires_visual"`
}

// PickupTuning 拾取物参数
type PickupTuning struct {
	CollectRadius     float64       `mapstructure:"collect_radius"`
	HealthAmount      int           `mapstructure:"health_amount"`
	HealthMinDistance float64       `mapstructure:"health_min_distance"`
	HealthMaxDistance float64       `mapstructure:"health_max_distance"`
	Height            float64       `mapstructure:"height"`
	Timeout           time.Duration `mapstructure:"timeout"` // 0 表示不过期
}

// WaveTuning 波次调度参数
type WaveTuning struct {
	SpawnInterval time.Duration `mapstructure:"spawn_interval"`
	Cooldown      time.Duration `mapstructure:"cooldown"`
	SafeDistance  float64       `mapstructure:"safe_distance"`
	MinSeparation float64       `mapstructure:"min_separation"`
	PoolSize      int           `mapstructure:"pool_size"` // 0 表示按出生点数量
}

// Tuning 一局游戏的全部数值参数
type Tuning struct {
	Arena  ArenaTuning  `mapstructure:"arena"`
	Player PlayerTuning `mapstructure:"player"`
	Actor  ActorTuning  `mapstructure:"actor"`
	Combat CombatTuning `mapstructure:"combat"`
	Pickup PickupTuning `mapstructure:"pickup"`
	Wave   WaveTuning   `mapstructure:"wave"`
}

// DefaultSpawnPoints 默认的16个出生点
func DefaultSpawnPoints() []models.Vector3 {
	const y = 1.5
	return []models.Vector3{
		{X: -8, Y: y, Z: -8}, {X: 8, Y: y, Z: -8}, {X: -8, Y: y, Z: 8}, {X: 8, Y: y, Z: 8},
		{X: 0, Y: y, Z: -9}, {X: -9, Y: y, Z: 0}, {X: 9, Y: y, Z: 0}, {X: 0, Y: y, Z: 9},
		{X: -7, Y: y, Z: -7}, {X: 7, Y: y, Z: -7}, {X: -7, Y: y, Z: 7}, {X: 7, Y: y, Z: 7},
		{X: -5, Y: y, Z: -9}, {X: 5, Y: y, Z: -9}, {X: -9, Y: y, Z: -5}, {X: -9, Y: y, Z: 5},
	}
}

// DefaultTuning 默认参数
func DefaultTuning() Tuning {
	return Tuning{
		Arena: ArenaTuning{
			HalfExtent:  9.5,
			MinHeight:   1.5,
			SpawnPoints: DefaultSpawnPoints(),
		},
		Player: PlayerTuning{
			MaxHealth:       100,
			MaxAmmo:         12,
			StartAmmo:       12,
			HealthThreshold: 40,
			MoveSpeed:       9,
			BodyRadius:      0.5,
			EyeHeight:       1.6,
		},
		Actor: ActorTuning{
			BaseSpeed:       2.4,
			CloseDistance:   5,
			CloseBoost:      1.1,
			ContactRadius:   2,
			ContactCooldown: 700 * time.Millisecond,
			Jitter:          0.05,
			StrafeChance:    0.03,
			StrafeMin:       600 * time.Millisecond,
			StrafeMax:       1200 * time.Millisecond,
			StrafeBlend:     0.4,
			DodgeChance:     0.4,
			DodgeCooldown:   800 * time.Millisecond,
			DodgeDuration:   300 * time.Millisecond,
			DodgeBoost:      2.5,
			DodgeAwayWeight: 0.6,
		},
		Combat: CombatTuning{
			HitRadius: 1.25,
			Range:     100,
			KillScore: 100,
			ShotTTL:   time.Second,
			ShotSpeed: 42,
		},
		Pickup: PickupTuning{
			CollectRadius:     2,
			HealthAmount:      30,
			HealthMinDistance: 5,
			HealthMaxDistance: 10,
			Height:            1.5,
		},
		Wave: WaveTuning{
			SpawnInterval: time.Second,
			Cooldown:      5 * time.Second,
			SafeDistance:  6,
			MinSeparation: 2,
		},
	}
}

// ErrInvalidTuning 参数非法
var ErrInvalidTuning = errors.New("invalid tuning")

// Validate 校验参数
func (t *Tuning) Validate() error {
	switch {
	case t.Arena.HalfExtent <= 0:
		return fmt.Errorf("%w: arena.half_extent 必须大于0", ErrInvalidTuning)
	case len(t.Arena.SpawnPoints) == 0:
		return fmt.Errorf("%w: arena.spawn_points 不能为空", ErrInvalidTuning)
	case t.Player.MaxHealth <= 0 || t.Player.MaxAmmo <= 0:
		return fmt.Errorf("%w: player.max_health/max_ammo 必须大于0", ErrInvalidTuning)
	case t.Player.StartAmmo < 0 || t.Player.StartAmmo > t.Player.MaxAmmo:
		return fmt.Errorf("%w: player.start_ammo 超出范围", ErrInvalidTuning)
	case t.Actor.StrafeMin > t.Actor.StrafeMax:
		return fmt.Errorf("%w: actor.strafe_min 大于 strafe_max", ErrInvalidTuning)
	case t.Pickup.HealthMinDistance > t.Pickup.HealthMaxDistance:
		return fmt.Errorf("%w: pickup.health_min_distance 大于 health_max_distance", ErrInvalidTuning)
	case t.Wave.SpawnInterval <= 0:
		return fmt.Errorf("%w: wave.spawn_interval 必须大于0", ErrInvalidTuning)
	case t.Combat.HitRadius <= 0 || t.Combat.Range <= 0:
		return fmt.Errorf("%w: combat.hit_radius/range 必须大于0", ErrInvalidTuning)
	}
	return nil
}

// poolSize 怪物池大小
func (t *Tuning) poolSize() int {
	if t.Wave.PoolSize > 0 {
		return t.Wave.PoolSize
	}
	return len(t.Arena.SpawnPoints)
}

// clampToArena 将位置限制在场地内
func (t *Tuning) clampToArena(p models.Vector3, margin float64) models.Vector3 {
	limit := t.Arena.HalfExtent - margin
	p.X = clamp(p.X, -limit, limit)
	p.Z = clamp(p.Z, -limit, limit)
	if p.Y < t.Arena.MinHeight {
		p.Y = t.Arena.MinHeight
	}
	return p
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
