// level.go

package game

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// ArchetypeKind 怪物种类
type ArchetypeKind string

const (
	// KindRegular 普通怪物
	KindRegular ArchetypeKind = "regular"
	// KindMega 巨型首领
	KindMega ArchetypeKind = "mega"
)

// DamageMode 受击伤害计算方式
type DamageMode string

const (
	// DamageFlat 固定伤害
	DamageFlat DamageMode = "flat"
	// DamagePercent 按出生时最大生命值的百分比
	DamagePercent DamageMode = "percent"
)

// Archetype 怪物原型
type Archetype struct {
	Name            string        `yaml:"name"`
	Kind            ArchetypeKind `yaml:"kind"`
	BaseHealth      int           `yaml:"base_health"`
	HealthPerWave   int           `yaml:"health_per_wave"`
	DamageMode      DamageMode    `yaml:"damage_mode"`
	HitDamage       int           `yaml:"hit_damage"` // flat 为点数，percent 为百分比
	SpeedMultiplier float64       `yaml:"speed_multiplier"`
	Scale           float64       `yaml:"scale"`
	AggressionMin   float64       `yaml:"aggression_min"`
	AggressionMax   float64       `yaml:"aggression_max"`
	ContactDamage   int           `yaml:"contact_damage"`
	Sprite          string        `yaml:"sprite"`
}

// MaxHealth 指定波次的最大生命值
func (a *Archetype) MaxHealth(wave int) int {
	return a.BaseHealth + a.HealthPerWave*wave
}

// DamagePerHit 每次受击扣除的生命值，出生时按最大生命值算一次
func (a *Archetype) DamagePerHit(maxHealth int) int {
	if a.DamageMode == DamagePercent {
		d := int(math.Ceil(float64(maxHealth) * float64(a.HitDamage) / 100))
		return max(d, 1)
	}
	return max(a.HitDamage, 1)
}

// WaveSpec 单个波次配置
type WaveSpec struct {
	Archetype           string  `yaml:"archetype"`
	Target              int     `yaml:"target"`
	SpawnChance         float64 `yaml:"spawn_chance"`
	RequiredObjectives  int     `yaml:"required_objectives"`
	ObjectiveDropChance float64 `yaml:"objective_drop_chance"`
}

// Level 关卡：原型表与波次表
type Level struct {
	Name       string      `yaml:"name"`
	Archetypes []Archetype `yaml:"archetypes"`
	Waves      []WaveSpec  `yaml:"waves"`
}

var (
	// ErrUnknownArchetype 波次引用了不存在的原型
	ErrUnknownArchetype = errors.New("unknown archetype")
	// ErrInvalidLevel 关卡配置非法
	ErrInvalidLevel = errors.New("invalid level")
)

// DefaultLevel 内置关卡：5波，每波5只普通怪物，生命随波次增长
func DefaultLevel() *Level {
	waves := make([]WaveSpec, 5)
	for i := range waves {
		waves[i] = WaveSpec{Archetype: "monster", Target: 5, SpawnChance: DefaultSpawnChance}
	}
	return &Level{
		Name: "default",
		Archetypes: []Archetype{
			{
				Name:            "monster",
				Kind:            KindRegular,
				BaseHealth:      100,
				HealthPerWave:   15,
				DamageMode:      DamageFlat,
				HitDamage:       34,
				SpeedMultiplier: 1,
				Scale:           2.5,
				AggressionMin:   0.3,
				AggressionMax:   0.6,
				ContactDamage:   10,
				Sprite:          "monster.png",
			},
			{
				Name:            "mega",
				Kind:            KindMega,
				BaseHealth:      400,
				HealthPerWave:   50,
				DamageMode:      DamagePercent,
				HitDamage:       10,
				SpeedMultiplier: 0.8,
				Scale:           4,
				AggressionMin:   0.5,
				AggressionMax:   0.7,
				ContactDamage:   20,
				Sprite:          "mega-monster.png",
			},
		},
		Waves: waves,
	}
}

// LoadLevel 从YAML文件加载关卡
func LoadLevel(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取关卡文件失败: %w", err)
	}
	return ParseLevel(data)
}

// ParseLevel 解析YAML关卡
func ParseLevel(data []byte) (*Level, error) {
	var level Level
	if err := yaml.Unmarshal(data, &level); err != nil {
		return nil, fmt.Errorf("解析关卡失败: %w", err)
	}
	level.applyDefaults()
	if err := level.Validate(); err != nil {
		return nil, err
	}
	return &level, nil
}

// DefaultSpawnChance 关卡未配置 spawn_chance 时每次尝试的生成概率
const DefaultSpawnChance = 0.3

func (l *Level) applyDefaults() {
	for i := range l.Archetypes {
		a := &l.Archetypes[i]
		if a.Kind == "" {
			a.Kind = KindRegular
		}
		if a.DamageMode == "" {
			a.DamageMode = DamageFlat
		}
		if a.SpeedMultiplier == 0 {
			a.SpeedMultiplier = 1
		}
		if a.Scale == 0 {
			a.Scale = 2.5
		}
	}
	for i := range l.Waves {
		if l.Waves[i].SpawnChance == 0 {
			l.Waves[i].SpawnChance = DefaultSpawnChance
		}
	}
}

// Validate 校验关卡
func (l *Level) Validate() error {
	if len(l.Waves) == 0 {
		return fmt.Errorf("%w: 至少需要一个波次", ErrInvalidLevel)
	}
	for _, a := range l.Archetypes {
		if a.BaseHealth <= 0 || a.HitDamage <= 0 {
			return fmt.Errorf("%w: 原型 %q 的 base_health/hit_damage 必须大于0", ErrInvalidLevel, a.Name)
		}
		if a.HealthPerWave < 0 {
			return fmt.Errorf("%w: 原型 %q 的 health_per_wave 不能为负", ErrInvalidLevel, a.Name)
		}
		if a.AggressionMin > a.AggressionMax {
			return fmt.Errorf("%w: 原型 %q 的攻击性范围颠倒", ErrInvalidLevel, a.Name)
		}
		if a.Kind != KindRegular && a.Kind != KindMega {
			return fmt.Errorf("%w: 原型 %q 的种类 %q", ErrInvalidLevel, a.Name, a.Kind)
		}
	}
	for i, w := range l.Waves {
		if w.Target <= 0 {
			return fmt.Errorf("%w: 第%d波 target 必须大于0", ErrInvalidLevel, i+1)
		}
		if w.SpawnChance < 0 || w.SpawnChance > 1 {
			return fmt.Errorf("%w: 第%d波 spawn_chance 超出[0,1]", ErrInvalidLevel, i+1)
		}
		if _, err := l.Archetype(w.Archetype); err != nil {
			return fmt.Errorf("第%d波: %w", i+1, err)
		}
	}
	return nil
}

// Archetype 按名称查找原型
func (l *Level) Archetype(name string) (*Archetype, error) {
	for i := range l.Archetypes {
		if l.Archetypes[i].Name == name {
			return &l.Archetypes[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownArchetype, name)
}

// Sprites 关卡用到的全部贴图
func (l *Level) Sprites() []string {
	seen := make(map[string]bool)
	var out []string
	for _, a := range l.Archetypes {
		if a.Sprite != "" && !seen[a.Sprite] {
			seen[a.Sprite] = true
			out = append(out, a.Sprite)
		}
	}
	return out
}

// MaxTarget 所有波次中最大的目标数
func (l *Level) MaxTarget() int {
	m := 0
	for _, w := range l.Waves {
		m = max(m, w.Target)
	}
	return m
}
