// pickup.go

package game

import (
	"math"
	"math/rand/v2"

	"github.com/jacl-coder/MonsterHunter-Server/internal/models"
)

// PickupKind 拾取物种类
type PickupKind string

const (
	// PickupAmmo 弹药箱，拾取后进入答题奖励
	PickupAmmo PickupKind = "ammo"
	// PickupHealth 医疗包
	PickupHealth PickupKind = "health"
	// PickupObjective 击杀掉落的任务石
	PickupObjective PickupKind = "objective"
)

// Pickup 场景中的拾取物
type Pickup struct {
	ID        int
	Kind      PickupKind
	Position  models.Vector3
	SpawnedAt float64

	active bool
}

// Active 是否在场
func (p *Pickup) Active() bool {
	return p != nil && p.active
}

// CheckCollect 玩家进入拾取半径时拾取并失效
func (p *Pickup) CheckCollect(player models.Vector3, radius float64) bool {
	if !p.Active() {
		return false
	}
	if p.Position.Flat().DistanceTo(player.Flat()) > radius {
		return false
	}
	p.active = false
	return true
}

// Pickups 拾取物管理：弹药箱和医疗包各至多一个
type Pickups struct {
	tuning     *Tuning
	ammo       *Pickup
	health     *Pickup
	objectives []*Pickup
	nextID     int

	rewardPending bool
}

// NewPickups 创建拾取物管理器
func NewPickups(tuning *Tuning) *Pickups {
	return &Pickups{tuning: tuning}
}

// Active 指定种类当前在场的拾取物
func (m *Pickups) Active(kind PickupKind) *Pickup {
	switch kind {
	case PickupAmmo:
		if m.ammo.Active() {
			return m.ammo
		}
	case PickupHealth:
		if m.health.Active() {
			return m.health
		}
	}
	return nil
}

// Objectives 当前在场的任务石
func (m *Pickups) Objectives() []*Pickup {
	out := make([]*Pickup, 0, len(m.objectives))
	for _, p := range m.objectives {
		if p.Active() {
			out = append(out, p)
		}
	}
	return out
}

// RewardPending 弹药奖励是否尚未结算
func (m *Pickups) RewardPending() bool {
	return m.rewardPending
}

// TrySpawn 生成拾取物；同类已在场或奖励未结算时返回 nil
func (m *Pickups) TrySpawn(kind PickupKind, player models.Vector3, now float64, rng *rand.Rand) *Pickup {
	switch kind {
	case PickupAmmo:
		if m.ammo.Active() || m.rewardPending {
			return nil
		}
		m.ammo = m.newPickup(kind, m.ammoPosition(rng), now)
		return m.ammo
	case PickupHealth:
		if m.health.Active() {
			return nil
		}
		m.health = m.newPickup(kind, m.healthPosition(player, rng), now)
		return m.health
	}
	return nil
}

// DropObjective 在击杀位置掉落任务石
func (m *Pickups) DropObjective(at models.Vector3, now float64) *Pickup {
	at.Y = m.tuning.Pickup.Height
	p := m.newPickup(PickupObjective, m.tuning.clampToArena(at, 0.5), now)
	m.objectives = append(m.objectives, p)
	return p
}

// Collect 检查所有拾取物，返回本帧拾取到的
func (m *Pickups) Collect(player models.Vector3) []*Pickup {
	radius := m.tuning.Pickup.CollectRadius
	var out []*Pickup
	for _, p := range m.all() {
		if p.CheckCollect(player, radius) {
			out = append(out, p)
		}
	}
	if len(out) > 0 {
		m.compact()
	}
	return out
}

// Expire 移除超时的拾取物
func (m *Pickups) Expire(now float64) []*Pickup {
	timeout := ms(m.tuning.Pickup.Timeout)
	if timeout <= 0 {
		return nil
	}
	var out []*Pickup
	for _, p := range m.all() {
		if now-p.SpawnedAt >= timeout {
			p.active = false
			out = append(out, p)
		}
	}
	if len(out) > 0 {
		m.compact()
	}
	return out
}

// Clear 移除全部拾取物
func (m *Pickups) Clear() []*Pickup {
	out := m.all()
	for _, p := range out {
		p.active = false
	}
	m.objectives = nil
	return out
}

func (m *Pickups) all() []*Pickup {
	var out []*Pickup
	if m.ammo.Active() {
		out = append(out, m.ammo)
	}
	if m.health.Active() {
		out = append(out, m.health)
	}
	for _, p := range m.objectives {
		if p.Active() {
			out = append(out, p)
		}
	}
	return out
}

func (m *Pickups) compact() {
	live := m.objectives[:0]
	for _, p := range m.objectives {
		if p.Active() {
			live = append(live, p)
		}
	}
	m.objectives = live
}

func (m *Pickups) newPickup(kind PickupKind, pos models.Vector3, now float64) *Pickup {
	m.nextID++
	return &Pickup{ID: m.nextID, Kind: kind, Position: pos, SpawnedAt: now, active: true}
}

// ammoPosition 配置的弹药点之一，否则场地内随机避开障碍
func (m *Pickups) ammoPosition(rng *rand.Rand) models.Vector3 {
	if pts := m.tuning.Arena.AmmoPoints; len(pts) > 0 {
		return pts[rng.IntN(len(pts))]
	}
	limit := m.tuning.Arena.HalfExtent - 1
	var pos models.Vector3
	for range 10 {
		pos = models.Vec3((rng.Float64()*2-1)*limit, m.tuning.Pickup.Height, (rng.Float64()*2-1)*limit)
		if !m.blocked(pos) {
			break
		}
	}
	return pos
}

// healthPosition 玩家周围 5~10 单位的随机点
func (m *Pickups) healthPosition(player models.Vector3, rng *rand.Rand) models.Vector3 {
	pt := &m.tuning.Pickup
	var pos models.Vector3
	for range 10 {
		angle := rng.Float64() * 2 * math.Pi
		dist := pt.HealthMinDistance + rng.Float64()*(pt.HealthMaxDistance-pt.HealthMinDistance)
		pos = models.Vec3(player.X+math.Cos(angle)*dist, pt.Height, player.Z+math.Sin(angle)*dist)
		pos = m.tuning.clampToArena(pos, 1)
		if !m.blocked(pos) {
			break
		}
	}
	return pos
}

func (m *Pickups) blocked(p models.Vector3) bool {
	for _, b := range m.tuning.Arena.Colliders {
		if b.Contains(p, 0.5) {
			return true
		}
	}
	return false
}
