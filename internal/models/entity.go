// entity.go

package models

import (
	"math"
)

// Vector3 三维向量
type Vector3 struct {
	X float64 `json:"x" yaml:"x" mapstructure:"x" msgpack:"x"`
	Y float64 `json:"y" yaml:"y" mapstructure:"y" msgpack:"y"`
	Z float64 `json:"z" yaml:"z" mapstructure:"z" msgpack:"z"`
}

// Vec3 构造向量
func Vec3(x, y, z float64) Vector3 {
	return Vector3{X: x, Y: y, Z: z}
}

// Add 向量相加
func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Sub 向量相减
func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// Scale 向量缩放
func (v Vector3) Scale(k float64) Vector3 {
	return Vector3{X: v.X * k, Y: v.Y * k, Z: v.Z * k}
}

// Dot 点积
func (v Vector3) Dot(o Vector3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Length 向量长度
func (v Vector3) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

// Normalize 归一化，零向量原样返回
func (v Vector3) Normalize() Vector3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// DistanceTo 两点距离
func (v Vector3) DistanceTo(o Vector3) float64 {
	return v.Sub(o).Length()
}

// Flat 投影到地面(Y=0)
func (v Vector3) Flat() Vector3 {
	return Vector3{X: v.X, Z: v.Z}
}

// Perpendicular 水平面上的垂直方向
func (v Vector3) Perpendicular() Vector3 {
	return Vector3{X: v.Z, Z: -v.X}
}

// IsZero 是否为零向量
func (v Vector3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// EntityType 实体类型
type EntityType string

const (
	// EntityActor 怪物实体
	EntityActor EntityType = "actor"
	// EntityPickup 拾取物实体
	EntityPickup EntityType = "pickup"
	// EntityShot 射击实体
	EntityShot EntityType = "shot"
)
