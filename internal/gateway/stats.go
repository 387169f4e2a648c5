package gateway

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/jacl-coder/MonsterHunter-Server/internal/models"
)

const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 100
)

// LeaderboardStore 排行榜存储
type LeaderboardStore interface {
	GetLeaderboard(ctx context.Context, scoreType models.LeaderboardType, limit int) ([]models.LeaderboardEntry, error)
	GetPlayerRank(ctx context.Context, name string, scoreType models.LeaderboardType) (int, error)
}

// StatsHandler 排行榜处理器
type StatsHandler struct {
	leaderboard LeaderboardStore
	logger      *log.Logger
}

// RankResponse 玩家排名
type RankResponse struct {
	Name string                 `json:"name"`
	Type models.LeaderboardType `json:"type"`
	Rank int                    `json:"rank"` // 未上榜为 -1
}

// NewStatsHandler 创建排行榜处理器
func NewStatsHandler(leaderboard LeaderboardStore, logger *log.Logger) *StatsHandler {
	return &StatsHandler{leaderboard: leaderboard, logger: logger}
}

// RegisterHandlers 注册HTTP处理器
func (h *StatsHandler) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/leaderboard", h.handleLeaderboard)
	mux.HandleFunc("GET /api/leaderboard/rank", h.handleRank)
}

// handleLeaderboard 排行榜，?type=score|kills|waves&limit=N
func (h *StatsHandler) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if h.leaderboard == nil {
		sendErrorResponse(w, h.logger, "排行榜服务未启用", http.StatusServiceUnavailable)
		return
	}

	scoreType, ok := models.ParseLeaderboardType(r.URL.Query().Get("type"))
	if !ok {
		sendErrorResponse(w, h.logger, "无效的排行榜类型", http.StatusBadRequest)
		return
	}
	limit, err := parseLimit(r.URL.Query().Get("limit"), defaultLeaderboardLimit, maxLeaderboardLimit)
	if err != nil {
		sendErrorResponse(w, h.logger, "无效的limit参数", http.StatusBadRequest)
		return
	}

	entries, err := h.leaderboard.GetLeaderboard(r.Context(), scoreType, limit)
	if err != nil {
		sendStoreError(w, h.logger, "获取排行榜失败", err)
		return
	}
	if entries == nil {
		entries = []models.LeaderboardEntry{}
	}
	sendSuccessResponse(w, h.logger, "获取排行榜成功", entries)
}

// handleRank 玩家排名，?name=&type=
func (h *StatsHandler) handleRank(w http.ResponseWriter, r *http.Request) {
	if h.leaderboard == nil {
		sendErrorResponse(w, h.logger, "排行榜服务未启用", http.StatusServiceUnavailable)
		return
	}

	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		sendErrorResponse(w, h.logger, "缺少玩家名", http.StatusBadRequest)
		return
	}
	scoreType, ok := models.ParseLeaderboardType(r.URL.Query().Get("type"))
	if !ok {
		sendErrorResponse(w, h.logger, "无效的排行榜类型", http.StatusBadRequest)
		return
	}

	rank, err := h.leaderboard.GetPlayerRank(r.Context(), name, scoreType)
	if err != nil {
		sendStoreError(w, h.logger, "获取排名失败", err)
		return
	}
	sendSuccessResponse(w, h.logger, "获取排名成功", RankResponse{Name: name, Type: scoreType, Rank: rank})
}

// parseLimit 解析数量参数，空值取默认，超过上限截断
func parseLimit(raw string, def, limit int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, strconv.ErrSyntax
	}
	return min(n, limit), nil
}
