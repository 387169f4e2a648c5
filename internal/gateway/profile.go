package gateway

import (
	"context"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/jacl-coder/MonsterHunter-Server/internal/models"
)

const (
	defaultScoresLimit = 20
	maxScoresLimit     = 100
)

// ScoreStore 对局记录存储
type ScoreStore interface {
	PlayerScores(ctx context.Context, name string, limit int) ([]models.ScoreRecord, error)
}

// ProfileHandler 玩家战绩处理器
type ProfileHandler struct {
	scores ScoreStore
	logger *log.Logger
}

// PlayerScoresResponse 玩家最近对局
type PlayerScoresResponse struct {
	Name       string               `json:"name"`
	Games      int                  `json:"games"`
	Victories  int                  `json:"victories"`
	BestScore  int                  `json:"best_score"`
	TotalKills int                  `json:"total_kills"`
	Scores     []models.ScoreRecord `json:"scores"`
}

// NewProfileHandler 创建玩家战绩处理器
func NewProfileHandler(scores ScoreStore, logger *log.Logger) *ProfileHandler {
	return &ProfileHandler{scores: scores, logger: logger}
}

// RegisterHandlers 注册HTTP处理器
func (h *ProfileHandler) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/players/{name}/scores", h.handlePlayerScores)
}

// handlePlayerScores 玩家最近的对局记录
func (h *ProfileHandler) handlePlayerScores(w http.ResponseWriter, r *http.Request) {
	if h.scores == nil {
		sendErrorResponse(w, h.logger, "战绩服务未启用", http.StatusServiceUnavailable)
		return
	}

	name, err := normalizeName(r.PathValue("name"))
	if err != nil {
		sendErrorResponse(w, h.logger, "无效的玩家名", http.StatusBadRequest)
		return
	}
	limit, err := parseLimit(r.URL.Query().Get("limit"), defaultScoresLimit, maxScoresLimit)
	if err != nil {
		sendErrorResponse(w, h.logger, "无效的limit参数", http.StatusBadRequest)
		return
	}

	records, err := h.scores.PlayerScores(r.Context(), name, limit)
	if err != nil {
		sendStoreError(w, h.logger, "获取战绩失败", err)
		return
	}
	if len(records) == 0 {
		sendErrorResponse(w, h.logger, "玩家不存在或没有对局记录", http.StatusNotFound)
		return
	}

	sendSuccessResponse(w, h.logger, "获取战绩成功", summarize(name, records))
}

// summarize 汇总最近对局
func summarize(name string, records []models.ScoreRecord) PlayerScoresResponse {
	resp := PlayerScoresResponse{Name: name, Games: len(records), Scores: records}
	for _, rec := range records {
		if rec.Outcome == models.OutcomeVictory {
			resp.Victories++
		}
		resp.BestScore = max(resp.BestScore, rec.Score)
		resp.TotalKills += rec.Kills
	}
	return resp
}
