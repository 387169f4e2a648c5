// player.go

package game

import (
	"github.com/jacl-coder/MonsterHunter-Server/internal/models"
)

// Player 玩家资源状态
type Player struct {
	Position models.Vector3
	Forward  models.Vector3
	Health   int
	Ammo     int
	Score    int
	Kills    int

	maxHealth int
	maxAmmo   int
	defeated  bool
}

// NewPlayer 按参数创建满状态玩家
func NewPlayer(t PlayerTuning) *Player {
	return &Player{
		Position:  models.Vec3(0, t.EyeHeight, 0),
		Forward:   models.Vec3(0, 0, -1),
		Health:    t.MaxHealth,
		Ammo:      t.StartAmmo,
		maxHealth: t.MaxHealth,
		maxAmmo:   t.MaxAmmo,
	}
}

// MaxAmmo 弹药上限
func (p *Player) MaxAmmo() int {
	return p.maxAmmo
}

// MaxHealth 生命上限
func (p *Player) MaxHealth() int {
	return p.maxHealth
}

// Defeated 是否已阵亡
func (p *Player) Defeated() bool {
	return p.defeated
}

// ConsumeAmmo 消耗一发子弹；没有子弹返回 false
func (p *Player) ConsumeAmmo() bool {
	if p.Ammo <= 0 {
		return false
	}
	p.Ammo--
	return true
}

// ApplyDamage 扣除生命，首次降到0时 killed 为 true
func (p *Player) ApplyDamage(amount int) (killed bool) {
	if p.defeated || amount <= 0 {
		return false
	}
	p.Health = max(p.Health-amount, 0)
	if p.Health == 0 {
		p.defeated = true
		return true
	}
	return false
}

// GrantAmmo 增加弹药，不超过上限
func (p *Player) GrantAmmo(n int) {
	p.Ammo = min(max(p.Ammo+n, 0), p.maxAmmo)
}

// GrantHealth 恢复生命，不超过上限
func (p *Player) GrantHealth(n int) {
	if p.defeated {
		return
	}
	p.Health = min(max(p.Health+n, 0), p.maxHealth)
}

// AddScore 增加得分
func (p *Player) AddScore(n int) {
	if n > 0 {
		p.Score += n
	}
}
