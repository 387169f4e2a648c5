// stats.go

package models

import (
	"errors"
	"time"
)

// ErrStoreDisabled 存储未配置
var ErrStoreDisabled = errors.New("store disabled")

// Outcome 对局结果
type Outcome string

const (
	// OutcomeVictory 通关
	OutcomeVictory Outcome = "victory"
	// OutcomeDefeat 阵亡
	OutcomeDefeat Outcome = "defeat"
)

// ScoreRecord 单局得分记录
type ScoreRecord struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id"`
	PlayerName string    `json:"player_name"`
	Level      string    `json:"level"`
	Outcome    Outcome   `json:"outcome"`
	Score      int       `json:"score"`
	Wave       int       `json:"wave"` // 到达的波次，从1开始
	Kills      int       `json:"kills"`
	Duration   int64     `json:"duration"` // 游戏时间(毫秒)，不含暂停
	CreatedAt  time.Time `json:"created_at"`
}

// LeaderboardEntry 排行榜条目
type LeaderboardEntry struct {
	PlayerName string  `json:"player_name"`
	Score      float64 `json:"score"` // 最高分
	BestWave   int     `json:"best_wave"`
	TotalKills int     `json:"total_kills"`
	Victories  int     `json:"victories"`
	Rank       int     `json:"rank"` // 排名
}

// LeaderboardType 排行榜类型
type LeaderboardType string

const (
	// LeaderboardScore 最高分排行榜
	LeaderboardScore LeaderboardType = "score"
	// LeaderboardKills 累计击杀排行榜
	LeaderboardKills LeaderboardType = "kills"
	// LeaderboardWaves 最远波次排行榜
	LeaderboardWaves LeaderboardType = "waves"
)

// ParseLeaderboardType 解析排行榜类型，空串为得分榜
func ParseLeaderboardType(s string) (LeaderboardType, bool) {
	switch LeaderboardType(s) {
	case "", LeaderboardScore:
		return LeaderboardScore, true
	case LeaderboardKills:
		return LeaderboardKills, true
	case LeaderboardWaves:
		return LeaderboardWaves, true
	}
	return "", false
}

// User 登录过的玩家
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Game      string    `json:"game"`
	CreatedAt time.Time `json:"created_at"`
	LastSeen  time.Time `json:"last_seen"`
}

// Feedback 玩家反馈问卷
type Feedback struct {
	ID          string    `json:"id"`
	Hero        string    `json:"hero"`
	Villain     string    `json:"villain"`
	Gameplay    string    `json:"gameplay"`
	Setting     string    `json:"setting"`
	MathTopic   string    `json:"math_topic"`
	ContactInfo string    `json:"contact_info"`
	User        string    `json:"user"`
	Game        string    `json:"game"`
	CreatedAt   time.Time `json:"created_at"`
}

// 注意：表结构定义在 pkg/db/schema.go 统一管理
