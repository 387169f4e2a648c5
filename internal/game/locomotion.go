// locomotion.go

package game

import (
	"math"

	"github.com/jacl-coder/MonsterHunter-Server/internal/models"
)

// InputState 客户端按键与视角
type InputState struct {
	Forward  bool    `json:"forward"`
	Backward bool    `json:"backward"`
	Left     bool    `json:"left"`
	Right    bool    `json:"right"`
	Yaw      float64 `json:"yaw"`   // 弧度，0 朝向 -Z
	Pitch    float64 `json:"pitch"` // 弧度，正值抬头
}

// Locomotion 键盘驱动的玩家移动，实现 PlayerView
type Locomotion struct {
	tuning   *Tuning
	input    InputState
	position models.Vector3
}

// NewLocomotion 玩家出生在场地中心
func NewLocomotion(tuning *Tuning) *Locomotion {
	return &Locomotion{
		tuning:   tuning,
		position: models.Vec3(0, tuning.Player.EyeHeight, 0),
	}
}

// SetInput 更新输入
func (l *Locomotion) SetInput(in InputState) {
	in.Pitch = clamp(in.Pitch, -math.Pi/2, math.Pi/2)
	l.input = in
}

// Teleport 直接设置位置
func (l *Locomotion) Teleport(p models.Vector3) {
	l.position = p
}

// PlayerPosition 当前位置
func (l *Locomotion) PlayerPosition() models.Vector3 {
	return l.position
}

// CameraForward 视线方向
func (l *Locomotion) CameraForward() models.Vector3 {
	cp := math.Cos(l.input.Pitch)
	return models.Vec3(-math.Sin(l.input.Yaw)*cp, math.Sin(l.input.Pitch), -math.Cos(l.input.Yaw)*cp)
}

// Step 按输入移动一帧，斜向移动归一化，不穿越场地边界和障碍
func (l *Locomotion) Step(dtMs float64) {
	var move models.Vector3
	fwd := models.Vec3(-math.Sin(l.input.Yaw), 0, -math.Cos(l.input.Yaw))
	right := models.Vec3(-fwd.Z, 0, fwd.X)
	if l.input.Forward {
		move = move.Add(fwd)
	}
	if l.input.Backward {
		move = move.Sub(fwd)
	}
	if l.input.Right {
		move = move.Add(right)
	}
	if l.input.Left {
		move = move.Sub(right)
	}
	if move.IsZero() {
		return
	}
	step := move.Normalize().Scale(l.tuning.Player.MoveSpeed * dtMs / 1000)
	radius := l.tuning.Player.BodyRadius

	// 分轴移动，被挡住的轴保持不动
	next := l.position
	next.X += step.X
	if l.blocked(next, radius) {
		next.X = l.position.X
	}
	next.Z += step.Z
	if l.blocked(next, radius) {
		next.Z = l.position.Z
	}
	next = l.tuning.clampToArena(next, radius)
	next.Y = l.tuning.Player.EyeHeight
	l.position = next
}

func (l *Locomotion) blocked(p models.Vector3, radius float64) bool {
	for _, b := range l.tuning.Arena.Colliders {
		if b.Contains(p, radius) {
			return true
		}
	}
	return false
}
