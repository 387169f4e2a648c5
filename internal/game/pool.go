// pool.go

package game

import (
	"math/rand/v2"

	"github.com/jacl-coder/MonsterHunter-Server/internal/models"
)

// ActorPool 预分配的怪物池，按下标顺序遍历
type ActorPool struct {
	actors []*Actor
	tuning *Tuning
}

// NewActorPool 创建怪物池
func NewActorPool(size int, tuning *Tuning) *ActorPool {
	actors := make([]*Actor, size)
	for i := range actors {
		actors[i] = newActor(i, tuning)
	}
	return &ActorPool{actors: actors, tuning: tuning}
}

// Actors 全部怪物(含未激活)
func (p *ActorPool) Actors() []*Actor {
	return p.actors
}

// Get 按ID获取
func (p *ActorPool) Get(id int) *Actor {
	if id < 0 || id >= len(p.actors) {
		return nil
	}
	return p.actors[id]
}

// ActiveCount 在场怪物数
func (p *ActorPool) ActiveCount() int {
	n := 0
	for _, a := range p.actors {
		if a.active {
			n++
		}
	}
	return n
}

// acquire 取一个空闲怪物
func (p *ActorPool) acquire() *Actor {
	for _, a := range p.actors {
		if !a.active {
			return a
		}
	}
	return nil
}

// DeactivateAll 回收全部怪物，返回被回收的怪物
func (p *ActorPool) DeactivateAll() []*Actor {
	var out []*Actor
	for _, a := range p.actors {
		if a.active {
			a.Deactivate()
			out = append(out, a)
		}
	}
	return out
}

// safeSpawnPoint 随机挑选离玩家足够远且未被占用的出生点
func (p *ActorPool) safeSpawnPoint(player models.Vector3, rng *rand.Rand) (models.Vector3, bool) {
	w := &p.tuning.Wave
	var candidates []models.Vector3
	for _, pt := range p.tuning.Arena.SpawnPoints {
		if pt.Flat().DistanceTo(player.Flat()) < w.SafeDistance {
			continue
		}
		occupied := false
		for _, a := range p.actors {
			if a.active && a.Position.Flat().DistanceTo(pt.Flat()) < w.MinSeparation {
				occupied = true
				break
			}
		}
		if !occupied {
			candidates = append(candidates, pt)
		}
	}
	if len(candidates) == 0 {
		return models.Vector3{}, false
	}
	return candidates[rng.IntN(len(candidates))], true
}
