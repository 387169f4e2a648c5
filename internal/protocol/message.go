// message.go

package protocol

import (
	"errors"
	"time"
)

// 客户端发来的消息类型
const (
	TypeInput       = "input"
	TypeShoot       = "shoot"
	TypePause       = "pause"
	TypeQuizAnswer  = "quiz_answer"
	TypeAssetLoaded = "asset_loaded"
	TypeAssetFailed = "asset_failed"
	TypeSnapshotReq = "snapshot_request"
	TypePing        = "ping"
)

// 服务器下发的消息类型
const (
	TypeWelcome        = "welcome"
	TypeRenderActor    = "render_actor"
	TypeRenderPickup   = "render_pickup"
	TypeRenderShot     = "render_shot"
	TypePlaySound      = "play_sound"
	TypeStopSound      = "stop_sound"
	TypeScore          = "score"
	TypeHealth         = "health"
	TypeAmmo           = "ammo"
	TypeWaveStatus     = "wave_status"
	TypeNotice         = "notice"
	TypeQuizQuestion   = "quiz_question"
	TypeQuizResult     = "quiz_result"
	TypeRewardComplete = "reward_complete"
	TypeVictory        = "victory"
	TypeDefeat         = "defeat"
	TypeReleaseCapture = "release_capture"
	TypeSnapshot       = "snapshot"
	TypeError          = "error"
	TypePong           = "pong"
)

var (
	// ErrUnknownCodec 未知的编码格式
	ErrUnknownCodec = errors.New("unknown codec")
	// ErrNoPayload 消息没有负载
	ErrNoPayload = errors.New("message has no payload")
)

// Message 消息结构
type Message struct {
	Type    string `json:"type"`
	Seq     uint64 `json:"seq,omitempty"`
	Time    int64  `json:"time,omitempty"` // 毫秒时间戳
	Payload any    `json:"payload,omitempty"`

	// 解码后的原始负载，由 Bind 按编码格式解析
	bind func(v any) error
}

// NewMessage 创建带时间戳的下行消息
func NewMessage(typ string, payload any) Message {
	return Message{Type: typ, Time: time.Now().UnixMilli(), Payload: payload}
}

// Bind 把负载解析到 v
func (m *Message) Bind(v any) error {
	if m.bind == nil {
		return ErrNoPayload
	}
	return m.bind(v)
}
