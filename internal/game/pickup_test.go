package game

import (
	"testing"
	"time"

	"github.com/jacl-coder/MonsterHunter-Server/internal/models"
)

func TestPickupUniquePerKind(t *testing.T) {
	tuning := DefaultTuning()
	m := NewPickups(&tuning)
	rng := testRand()
	player := models.Vec3(0, 1.6, 0)

	for _, kind := range []PickupKind{PickupAmmo, PickupHealth} {
		first := m.TrySpawn(kind, player, 0, rng)
		if first == nil {
			t.Fatalf("%s: 首次生成失败", kind)
		}
		if second := m.TrySpawn(kind, player, 10, rng); second != nil {
			t.Fatalf("%s: 已有同类拾取物时仍然生成", kind)
		}
		if m.Active(kind) != first {
			t.Fatalf("%s: Active 返回了错误的拾取物", kind)
		}
	}
}

func TestAmmoBlockedWhileRewardPending(t *testing.T) {
	tuning := DefaultTuning()
	tuning.Arena.AmmoPoints = []models.Vector3{{X: 3, Y: 1.5, Z: 0}}
	m := NewPickups(&tuning)
	rng := testRand()

	p := m.TrySpawn(PickupAmmo, models.Vector3{}, 0, rng)
	if p == nil || p.Position != tuning.Arena.AmmoPoints[0] {
		t.Fatalf("弹药箱位置 = %+v, 期望固定点", p)
	}
	got := m.Collect(models.Vec3(3.5, 1.6, 0.5))
	if len(got) != 1 || got[0].Kind != PickupAmmo {
		t.Fatalf("拾取结果 = %v", got)
	}

	m.rewardPending = true
	if m.TrySpawn(PickupAmmo, models.Vector3{}, 0, rng) != nil {
		t.Fatal("奖励未结算时生成了新弹药箱")
	}
	m.rewardPending = false
	if m.TrySpawn(PickupAmmo, models.Vector3{}, 0, rng) == nil {
		t.Fatal("奖励结算后无法生成弹药箱")
	}
}

func TestHealthPickupDistance(t *testing.T) {
	tuning := DefaultTuning()
	rng := testRand()
	player := models.Vec3(0, 1.6, 0)

	for i := 0; i < 200; i++ {
		m := NewPickups(&tuning)
		p := m.TrySpawn(PickupHealth, player, 0, rng)
		d := p.Position.Flat().DistanceTo(player.Flat())
		if d < tuning.Pickup.HealthMinDistance-1e-9 || d > tuning.Pickup.HealthMaxDistance+1e-9 {
			t.Fatalf("医疗包距离 %v 不在 [5,10]", d)
		}
	}
}

func TestCheckCollectRadius(t *testing.T) {
	p := &Pickup{Kind: PickupHealth, Position: models.Vec3(0, 1.5, 0), active: true}

	if p.CheckCollect(models.Vec3(2.1, 1.6, 0), 2) {
		t.Fatal("半径外被拾取")
	}
	if !p.CheckCollect(models.Vec3(1.9, 1.6, 0), 2) {
		t.Fatal("半径内未被拾取")
	}
	if p.Active() || p.CheckCollect(models.Vec3(0, 1.6, 0), 2) {
		t.Fatal("拾取后应失效且不能再次拾取")
	}
}

func TestPickupExpire(t *testing.T) {
	tuning := DefaultTuning()
	tuning.Pickup.Timeout = 10 * time.Second
	m := NewPickups(&tuning)
	rng := testRand()

	m.TrySpawn(PickupHealth, models.Vector3{}, 0, rng)
	m.DropObjective(models.Vec3(2, 0, 2), 5000)

	if got := m.Expire(9999); len(got) != 0 {
		t.Fatalf("提前过期: %v", got)
	}
	if got := m.Expire(10000); len(got) != 1 || got[0].Kind != PickupHealth {
		t.Fatalf("过期结果 = %v", got)
	}
	if got := m.Expire(15000); len(got) != 1 || got[0].Kind != PickupObjective {
		t.Fatalf("任务石过期结果 = %v", got)
	}
	if len(m.all()) != 0 {
		t.Fatal("过期后仍有拾取物")
	}
}

func TestObjectiveDropsAreIndependent(t *testing.T) {
	tuning := DefaultTuning()
	m := NewPickups(&tuning)

	a := m.DropObjective(models.Vec3(1, 0, 1), 0)
	b := m.DropObjective(models.Vec3(-4, 0, -4), 0)
	if a.Position.Y != tuning.Pickup.Height {
		t.Errorf("任务石高度 = %v", a.Position.Y)
	}

	got := m.Collect(models.Vec3(1, 1.6, 1))
	if len(got) != 1 || got[0] != a {
		t.Fatalf("拾取结果 = %v", got)
	}
	if !b.Active() || len(m.objectives) != 1 {
		t.Fatal("另一块任务石不应被拾取")
	}
}
