package game

import (
	"math"
	"testing"

	"github.com/jacl-coder/MonsterHunter-Server/internal/models"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestLocomotionMovesAlongYaw(t *testing.T) {
	tuning := DefaultTuning()
	tests := []struct {
		name  string
		input InputState
		wantX float64
		wantZ float64
	}{
		{"前进", InputState{Forward: true}, 0, -9},
		{"后退", InputState{Backward: true}, 0, 9},
		{"右移", InputState{Right: true}, 9, 0},
		{"左转90度后前进", InputState{Forward: true, Yaw: math.Pi / 2}, -9, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLocomotion(&tuning)
			l.SetInput(tt.input)
			l.Step(100) // 0.9 单位
			p := l.PlayerPosition()
			if !near(p.X, tt.wantX/10) || !near(p.Z, tt.wantZ/10) {
				t.Fatalf("位置 = %+v", p)
			}
			if p.Y != tuning.Player.EyeHeight {
				t.Fatalf("眼高 = %v", p.Y)
			}
		})
	}
}

func TestLocomotionDiagonalNormalized(t *testing.T) {
	tuning := DefaultTuning()
	l := NewLocomotion(&tuning)
	l.SetInput(InputState{Forward: true, Right: true})
	l.Step(100)

	if d := l.PlayerPosition().Flat().Length(); !near(d, 0.9) {
		t.Fatalf("斜向位移 = %v, 期望 0.9", d)
	}
}

func TestLocomotionCollidersAndBounds(t *testing.T) {
	tuning := DefaultTuning()
	tuning.Arena.Colliders = []Box{{MinX: -1, MinZ: -3, MaxX: 1, MaxZ: -2}}
	l := NewLocomotion(&tuning)
	l.SetInput(InputState{Forward: true})
	for i := 0; i < 100; i++ {
		l.Step(16)
	}
	if z := l.PlayerPosition().Z; z < -1.5-1e-9 {
		t.Fatalf("穿过了障碍: z = %v", z)
	}

	l.Teleport(models.Vec3(5, 1.6, 0))
	l.SetInput(InputState{Right: true})
	for i := 0; i < 200; i++ {
		l.Step(16)
	}
	if x := l.PlayerPosition().X; x > tuning.Arena.HalfExtent-tuning.Player.BodyRadius+1e-9 {
		t.Fatalf("越过场地边界: x = %v", x)
	}
}

func TestCameraForwardPitch(t *testing.T) {
	tuning := DefaultTuning()
	l := NewLocomotion(&tuning)
	l.SetInput(InputState{Pitch: 3})

	f := l.CameraForward()
	if !near(f.Y, 1) {
		t.Fatalf("俯仰应被限制在90度, forward = %+v", f)
	}
}
