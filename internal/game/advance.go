// advance.go

package game

// WaveProgress 当前波次进度
type WaveProgress struct {
	Wave               int
	Target             int
	Spawned            int
	Killed             int
	Collected          int
	RequiredObjectives int
	Active             int
}

// AdvanceCondition 波次完成判定
type AdvanceCondition func(WaveProgress) bool

// KillsReached 击杀数达到目标
func KillsReached() AdvanceCondition {
	return func(p WaveProgress) bool {
		return p.Killed >= p.Target
	}
}

// ObjectivesCollected 收集数达到要求
func ObjectivesCollected() AdvanceCondition {
	return func(p WaveProgress) bool {
		return p.Collected >= p.RequiredObjectives
	}
}

// AllOf 全部满足
func AllOf(conds ...AdvanceCondition) AdvanceCondition {
	return func(p WaveProgress) bool {
		for _, c := range conds {
			if !c(p) {
				return false
			}
		}
		return true
	}
}

// AnyOf 任一满足
func AnyOf(conds ...AdvanceCondition) AdvanceCondition {
	return func(p WaveProgress) bool {
		for _, c := range conds {
			if c(p) {
				return true
			}
		}
		return false
	}
}

// DefaultAdvance 默认判定：击杀达标，需要任务石的波次还要收集达标
func DefaultAdvance(spec WaveSpec) AdvanceCondition {
	if spec.RequiredObjectives > 0 {
		return AllOf(KillsReached(), ObjectivesCollected())
	}
	return KillsReached()
}
