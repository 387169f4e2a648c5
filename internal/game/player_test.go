package game_test

import (
	"math/rand/v2"
	"testing"

	"github.com/jacl-coder/MonsterHunter-Server/internal/game"
	"pgregory.net/rapid"
)

func TestPlayerThreeHitsDefeatOnce(t *testing.T) {
	p := game.NewPlayer(game.DefaultTuning().Player)

	for i := 1; i <= 3; i++ {
		killed := p.ApplyDamage(34)
		if killed != (i == 3) {
			t.Fatalf("第%d次受伤 killed = %v", i, killed)
		}
	}
	if p.Health != 0 || !p.Defeated() {
		t.Fatalf("生命 = %d, defeated = %v", p.Health, p.Defeated())
	}
	if p.ApplyDamage(34) {
		t.Fatal("阵亡后再次报告阵亡")
	}
}

func TestPlayerConsumeAmmo(t *testing.T) {
	tuning := game.DefaultTuning().Player
	tuning.StartAmmo = 1
	p := game.NewPlayer(tuning)

	if !p.ConsumeAmmo() || p.Ammo != 0 {
		t.Fatalf("第一发应成功, Ammo = %d", p.Ammo)
	}
	if p.ConsumeAmmo() || p.Ammo != 0 {
		t.Fatalf("空弹时不应开火, Ammo = %d", p.Ammo)
	}
}

func TestPlayerGrants(t *testing.T) {
	tests := []struct {
		name       string
		startAmmo  int
		damage     int
		ammo       int
		health     int
		wantAmmo   int
		wantHealth int
	}{
		{"答对两题", 0, 0, 8, 0, 8, 100},
		{"弹药封顶", 10, 0, 8, 0, 12, 100},
		{"医疗包", 12, 70, 0, 30, 12, 60},
		{"医疗包封顶", 12, 10, 0, 30, 12, 100},
		{"负数不会越界", 2, 0, -5, 0, 0, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tuning := game.DefaultTuning().Player
			tuning.StartAmmo = tt.startAmmo
			p := game.NewPlayer(tuning)
			p.ApplyDamage(tt.damage)
			p.GrantAmmo(tt.ammo)
			p.GrantHealth(tt.health)
			if p.Ammo != tt.wantAmmo || p.Health != tt.wantHealth {
				t.Errorf("Ammo/Health = %d/%d, 期望 %d/%d", p.Ammo, p.Health, tt.wantAmmo, tt.wantHealth)
			}
		})
	}
}

func TestPlayerResourcesStayClamped(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := game.NewPlayer(game.DefaultTuning().Player)
		defeats := 0
		steps := rapid.IntRange(1, 60).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			switch rapid.IntRange(0, 3).Draw(t, "op") {
			case 0:
				if p.ApplyDamage(rapid.IntRange(-10, 60).Draw(t, "damage")) {
					defeats++
				}
			case 1:
				p.GrantHealth(rapid.IntRange(-50, 80).Draw(t, "heal"))
			case 2:
				p.GrantAmmo(rapid.IntRange(-20, 20).Draw(t, "ammo"))
			case 3:
				p.ConsumeAmmo()
			}
			if p.Health < 0 || p.Health > p.MaxHealth() {
				t.Fatalf("生命越界: %d", p.Health)
			}
			if p.Ammo < 0 || p.Ammo > p.MaxAmmo() {
				t.Fatalf("弹药越界: %d", p.Ammo)
			}
		}
		if defeats > 1 {
			t.Fatalf("阵亡触发了 %d 次", defeats)
		}
	})
}

func TestReceiveHitHealthFormula(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		level := game.DefaultLevel()
		level.Archetypes[0].BaseHealth = rapid.IntRange(1, 500).Draw(t, "health")
		level.Archetypes[0].HitDamage = rapid.IntRange(1, 120).Draw(t, "damage")
		tuning := game.DefaultTuning()
		pool := game.NewActorPool(1, &tuning)
		a := pool.Get(0)
		a.Spawn(tuning.Arena.SpawnPoints[0], 0, &level.Archetypes[0], rand.New(rand.NewPCG(1, 2)))

		deaths := 0
		n := rapid.IntRange(1, 600).Draw(t, "hits")
		for i := 1; i <= n; i++ {
			died := a.ReceiveHit()
			want := max(a.MaxHealth-i*a.HitDamage(), 0)
			if deaths == 0 && a.Health != want {
				t.Fatalf("第%d次受击后生命 = %d, 期望 %d", i, a.Health, want)
			}
			if died {
				deaths++
				if want != 0 {
					t.Fatalf("生命 %d 时报告死亡", want)
				}
			}
		}
		if deaths > 1 {
			t.Fatalf("死亡报告了 %d 次", deaths)
		}
	})
}
