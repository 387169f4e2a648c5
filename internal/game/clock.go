// clock.go

package game

import "fmt"

// PausePolicy 暂停期间计时策略
type PausePolicy string

const (
	// PauseFreeze 暂停和冻结期间游戏时间停止，冷却不会流逝
	PauseFreeze PausePolicy = "freeze"
	// PauseBleed 游戏时间跟随真实时间，长时间暂停会跳过冷却
	PauseBleed PausePolicy = "bleed"
)

// ParsePausePolicy 解析暂停策略
func ParsePausePolicy(s string) (PausePolicy, error) {
	switch PausePolicy(s) {
	case PauseFreeze, "":
		return PauseFreeze, nil
	case PauseBleed:
		return PauseBleed, nil
	}
	return "", fmt.Errorf("未知的暂停策略: %q", s)
}

// Clock 会话时钟(毫秒)，所有冷却都与它比较
type Clock struct {
	policy PausePolicy
	now    float64
}

// NewClock 创建时钟
func NewClock(policy PausePolicy) *Clock {
	return &Clock{policy: policy}
}

// Now 当前游戏时间
func (c *Clock) Now() float64 {
	return c.now
}

// Advance 推进时钟，返回本帧是否应该运行逻辑
func (c *Clock) Advance(dtMs float64, suspended bool) bool {
	if dtMs < 0 {
		dtMs = 0
	}
	if suspended {
		if c.policy == PauseBleed {
			c.now += dtMs
		}
		return false
	}
	c.now += dtMs
	return true
}
