// combat.go

package game

import (
	"github.com/jacl-coder/MonsterHunter-Server/internal/models"
)

// Shot 一次射击，按射线即时判定
type Shot struct {
	Origin    models.Vector3
	Direction models.Vector3
	TTL       float64 // 表现层弹道存活时间(毫秒)
}

// HitResult 射击判定结果
type HitResult struct {
	Hit     bool
	ActorID int
	Killed  bool
}

// Fire 对在场怪物做射线判定。按池下标顺序取第一个命中者，
// 每次射击至多命中一只怪物。eligible 为空时所有在场怪物都可被命中。
func (p *ActorPool) Fire(shot Shot, eligible func(*Actor) bool) HitResult {
	dir := shot.Direction.Normalize()
	if dir.IsZero() {
		return HitResult{ActorID: -1}
	}

	for _, a := range p.actors {
		if !a.active {
			continue
		}
		if eligible != nil && !eligible(a) {
			continue
		}
		if !rayHitsSphere(shot.Origin, dir, a.Position, p.hitRadius(a), p.tuning.Combat.Range) {
			continue
		}
		return HitResult{Hit: true, ActorID: a.ID, Killed: a.ReceiveHit()}
	}
	return HitResult{ActorID: -1}
}

// hitRadius 命中判定半径，按贴图大小放宽
func (p *ActorPool) hitRadius(a *Actor) float64 {
	return max(p.tuning.Combat.HitRadius, a.scale()/2)
}

// rayHitsSphere dir 必须是单位向量
func rayHitsSphere(origin, dir, center models.Vector3, radius, maxRange float64) bool {
	toCenter := center.Sub(origin)
	t := toCenter.Dot(dir)
	if t < 0 {
		return toCenter.Length() <= radius
	}
	if t > maxRange+radius {
		return false
	}
	closest := origin.Add(dir.Scale(t))
	return closest.DistanceTo(center) <= radius
}
