// events.go

package protocol

import (
	"github.com/jacl-coder/MonsterHunter-Server/internal/game"
	"github.com/jacl-coder/MonsterHunter-Server/internal/models"
)

// 上行负载

// InputPayload 按键与视角
type InputPayload = game.InputState

// PausePayload 暂停/恢复
type PausePayload struct {
	Paused bool `json:"paused"`
}

// QuizAnswerPayload 选择的选项下标
type QuizAnswerPayload struct {
	Choice int `json:"choice"`
}

// AssetPayload 贴图加载结果
type AssetPayload struct {
	Name string `json:"name"`
}

// 下行事件

// WelcomeEvent 连接建立后下发的对局信息
type WelcomeEvent struct {
	SessionID  string   `json:"session_id"`
	PlayerName string   `json:"player_name"`
	Codec      string   `json:"codec"`
	Level      string   `json:"level"`
	TotalWaves int      `json:"total_waves"`
	Sprites    []string `json:"sprites"`
	MaxHealth  int      `json:"max_health"`
	MaxAmmo    int      `json:"max_ammo"`
}

// ActorEvent 怪物渲染
type ActorEvent struct {
	ID       int            `json:"id"`
	Position models.Vector3 `json:"position"`
	Visible  bool           `json:"visible"`
	Scale    float64        `json:"scale"`
}

// PickupEvent 拾取物渲染
type PickupEvent struct {
	ID       int            `json:"id"`
	Kind     string         `json:"kind"`
	Position models.Vector3 `json:"position"`
	Visible  bool           `json:"visible"`
}

// ShotEvent 子弹轨迹
type ShotEvent struct {
	Origin    models.Vector3 `json:"origin"`
	Direction models.Vector3 `json:"direction"`
	TTL       float64        `json:"ttl"`
}

// SoundEvent 音效
type SoundEvent struct {
	Name string `json:"name"`
}

// ValueEvent 单个数值读数(分数/生命/弹药)
type ValueEvent struct {
	Value int `json:"value"`
}

// WaveEvent 波次状态
type WaveEvent struct {
	Current   int `json:"current"`
	Total     int `json:"total"`
	Remaining int `json:"remaining"`
}

// NoticeEvent 提示文字
type NoticeEvent struct {
	Text string `json:"text"`
}

// QuizQuestionEvent 答题题目，不含答案
type QuizQuestionEvent struct {
	Index        int    `json:"index"`
	Total        int    `json:"total"`
	Text         string `json:"text"`
	Choices      []int  `json:"choices"`
	AttemptsLeft int    `json:"attempts_left"`
}

// QuizResultEvent 一次作答的结果
type QuizResultEvent struct {
	Index   int  `json:"index"`
	Correct bool `json:"correct"`
	Retry   bool `json:"retry"`
	Answer  int  `json:"answer,omitempty"`
	Earned  int  `json:"earned"`
	Done    bool `json:"done"`
}

// RewardEvent 本轮答题奖励的子弹
type RewardEvent struct {
	Bullets int `json:"bullets"`
}

// OutcomeEvent 对局结果
type OutcomeEvent struct {
	Outcome string `json:"outcome"`
	Score   int    `json:"score"`
	Wave    int    `json:"wave"`
}

// ErrorEvent 错误
type ErrorEvent struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
