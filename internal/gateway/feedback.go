package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/jacl-coder/MonsterHunter-Server/internal/models"
)

const (
	feedbackListLimit = 5
	maxFeedbackField  = 500
	maxFeedbackBody   = 16 << 10
)

// FeedbackStore 反馈问卷存储
type FeedbackStore interface {
	SaveFeedback(ctx context.Context, fb *models.Feedback) error
	LatestFeedback(ctx context.Context, game string, limit int) ([]models.Feedback, error)
}

// FeedbackHandler 反馈问卷处理器
type FeedbackHandler struct {
	store  FeedbackStore
	tokens *TokenManager
	game   string
	logger *log.Logger
}

// FeedbackRequest 反馈问卷
type FeedbackRequest struct {
	Hero        string `json:"hero"`
	Villain     string `json:"villain"`
	Gameplay    string `json:"gameplay"`
	Setting     string `json:"setting"`
	MathTopic   string `json:"math_topic"`
	ContactInfo string `json:"contact_info"`
	User        string `json:"user"`
}

// NewFeedbackHandler 创建反馈处理器
func NewFeedbackHandler(store FeedbackStore, tokens *TokenManager, game string, logger *log.Logger) *FeedbackHandler {
	return &FeedbackHandler{store: store, tokens: tokens, game: game, logger: logger}
}

// RegisterHandlers 注册HTTP处理器
func (h *FeedbackHandler) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/feedback", h.handleSubmit)
	mux.HandleFunc("GET /api/feedback", h.handleLatest)
}

// handleSubmit 提交问卷，携带有效票据时以票据中的玩家名为准
func (h *FeedbackHandler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		sendErrorResponse(w, h.logger, "反馈服务未启用", http.StatusServiceUnavailable)
		return
	}

	var req FeedbackRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxFeedbackBody)).Decode(&req); err != nil {
		sendErrorResponse(w, h.logger, "无效的请求格式", http.StatusBadRequest)
		return
	}
	if msg := req.validate(); msg != "" {
		sendErrorResponse(w, h.logger, msg, http.StatusBadRequest)
		return
	}

	fb := &models.Feedback{
		Hero:        strings.TrimSpace(req.Hero),
		Villain:     strings.TrimSpace(req.Villain),
		Gameplay:    strings.TrimSpace(req.Gameplay),
		Setting:     strings.TrimSpace(req.Setting),
		MathTopic:   strings.TrimSpace(req.MathTopic),
		ContactInfo: strings.TrimSpace(req.ContactInfo),
		User:        h.submitter(r, req.User),
		Game:        h.game,
	}
	if err := h.store.SaveFeedback(r.Context(), fb); err != nil {
		sendStoreError(w, h.logger, "保存反馈失败", err)
		return
	}

	h.logger.Info("收到反馈", "id", fb.ID, "user", fb.User)
	writeJSON(w, h.logger, http.StatusCreated, APIResponse{Success: true, Message: "感谢反馈", Data: fb})
}

// handleLatest 最近的反馈
func (h *FeedbackHandler) handleLatest(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		sendErrorResponse(w, h.logger, "反馈服务未启用", http.StatusServiceUnavailable)
		return
	}

	list, err := h.store.LatestFeedback(r.Context(), h.game, feedbackListLimit)
	if err != nil {
		sendStoreError(w, h.logger, "获取反馈失败", err)
		return
	}
	if list == nil {
		list = []models.Feedback{}
	}
	sendSuccessResponse(w, h.logger, "获取反馈成功", list)
}

// submitter 提交人：优先票据，其次请求体
func (h *FeedbackHandler) submitter(r *http.Request, fallback string) string {
	if h.tokens != nil {
		if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
			if name, err := h.tokens.Verify(token); err == nil {
				return name
			}
		}
	}
	if name, err := normalizeName(fallback); err == nil {
		return name
	}
	return ""
}

// validate 至少填写一项，每项不超过上限
func (req *FeedbackRequest) validate() string {
	fields := []string{req.Hero, req.Villain, req.Gameplay, req.Setting, req.MathTopic, req.ContactInfo}
	filled := false
	for _, f := range fields {
		if utf8.RuneCountInString(f) > maxFeedbackField {
			return "反馈内容过长"
		}
		if strings.TrimSpace(f) != "" {
			filled = true
		}
	}
	if !filled {
		return "反馈内容不能为空"
	}
	return ""
}
