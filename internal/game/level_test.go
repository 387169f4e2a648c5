package game_test

import (
	"errors"
	"testing"

	"github.com/jacl-coder/MonsterHunter-Server/internal/game"
)

const bossLevel = `
name: boss
archetypes:
  - name: monster
    base_health: 100
    health_per_wave: 15
    hit_damage: 34
    sprite: monster.png
  - name: mega
    kind: mega
    base_health: 400
    health_per_wave: 50
    damage_mode: percent
    hit_damage: 10
    scale: 4
    sprite: mega-monster.png
waves:
  - archetype: monster
    target: 5
    spawn_chance: 0.3
  - archetype: mega
    target: 1
    required_objectives: 2
    objective_drop_chance: 0.5
`

func TestParseLevel(t *testing.T) {
	level, err := game.ParseLevel([]byte(bossLevel))
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if len(level.Waves) != 2 || level.MaxTarget() != 5 {
		t.Fatalf("waves=%d maxTarget=%d", len(level.Waves), level.MaxTarget())
	}
	if level.Waves[1].SpawnChance != game.DefaultSpawnChance {
		t.Errorf("未配置的 spawn_chance = %v, 期望 %v", level.Waves[1].SpawnChance, game.DefaultSpawnChance)
	}
	if level.Waves[0].SpawnChance != 0.3 {
		t.Errorf("显式 spawn_chance = %v", level.Waves[0].SpawnChance)
	}

	monster, _ := level.Archetype("monster")
	if monster.Kind != game.KindRegular || monster.DamageMode != game.DamageFlat || monster.Scale != 2.5 {
		t.Errorf("默认值未生效: %+v", monster)
	}
	mega, _ := level.Archetype("mega")
	if got := mega.DamagePerHit(mega.MaxHealth(1)); got != 45 {
		t.Errorf("首领第2波每枪伤害 = %d, 期望 45", got)
	}
	if sprites := level.Sprites(); len(sprites) != 2 {
		t.Errorf("sprites = %v", sprites)
	}
}

func TestParseLevelErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{"未知原型", "archetypes: []\nwaves:\n  - archetype: ghost\n    target: 1\n", game.ErrUnknownArchetype},
		{"没有波次", "archetypes: []\nwaves: []\n", game.ErrInvalidLevel},
		{"目标为0", "archetypes:\n  - name: a\n    base_health: 1\n    hit_damage: 1\nwaves:\n  - archetype: a\n    target: 0\n", game.ErrInvalidLevel},
		{"概率越界", "archetypes:\n  - name: a\n    base_health: 1\n    hit_damage: 1\nwaves:\n  - archetype: a\n    target: 1\n    spawn_chance: 1.5\n", game.ErrInvalidLevel},
		{"攻击性颠倒", "archetypes:\n  - name: a\n    base_health: 1\n    hit_damage: 1\n    aggression_min: 0.8\n    aggression_max: 0.2\nwaves:\n  - archetype: a\n    target: 1\n", game.ErrInvalidLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := game.ParseLevel([]byte(tt.yaml))
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, 期望 %v", err, tt.want)
			}
		})
	}
}

func TestDamagePerHitMinimum(t *testing.T) {
	a := game.Archetype{DamageMode: game.DamagePercent, HitDamage: 1}
	if got := a.DamagePerHit(10); got != 1 {
		t.Fatalf("DamagePerHit = %d, 期望至少 1", got)
	}
}

func TestTuningValidate(t *testing.T) {
	tuning := game.DefaultTuning()
	if err := tuning.Validate(); err != nil {
		t.Fatalf("默认参数非法: %v", err)
	}
	tuning.Player.StartAmmo = 20
	if err := tuning.Validate(); !errors.Is(err, game.ErrInvalidTuning) {
		t.Fatalf("err = %v", err)
	}
}
