package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jacl-coder/MonsterHunter-Server/internal/models"
)

var (
	// ErrInvalidToken 票据无效或过期
	ErrInvalidToken = errors.New("invalid token")
	// ErrInvalidName 玩家名不合法
	ErrInvalidName = errors.New("invalid player name")
)

// maxNameLength 玩家名最大长度
const maxNameLength = 32

// Claims 登录票据内容
type Claims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// TokenManager 签发与校验 HS256 登录票据
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewTokenManager 创建票据管理器
func NewTokenManager(secret string, ttl time.Duration, issuer string) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl, issuer: issuer, now: time.Now}
}

// Issue 为玩家签发票据
func (tm *TokenManager) Issue(name string) (string, time.Time, error) {
	now := tm.now()
	expiresAt := now.Add(tm.ttl)
	claims := Claims{
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tm.issuer,
			Subject:   name,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("签发票据失败: %w", err)
	}
	return token, expiresAt, nil
}

// Verify 校验票据并返回玩家名
func (tm *TokenManager) Verify(tokenString string) (string, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		return tm.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tm.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tm.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Name == "" {
		return "", ErrInvalidToken
	}
	return claims.Name, nil
}

// UserStore 登录用户存储
type UserStore interface {
	SaveUser(ctx context.Context, name, game string) (*models.User, error)
}

// AuthHandler 认证处理器
type AuthHandler struct {
	tokens *TokenManager
	users  UserStore
	game   string
	logger *log.Logger
}

// LoginRequest 登录请求
type LoginRequest struct {
	Name string `json:"name"`
}

// AuthResponse 认证响应
type AuthResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Token     string    `json:"token,omitempty"`
	Name      string    `json:"name,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(tokens *TokenManager, users UserStore, game string, logger *log.Logger) *AuthHandler {
	return &AuthHandler{tokens: tokens, users: users, game: game, logger: logger}
}

// RegisterHandlers 注册HTTP处理器
func (h *AuthHandler) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/login", h.handleLogin)
	mux.HandleFunc("GET /api/validate", h.handleValidate)
}

// handleLogin 登录：记录玩家名并签发票据，数据库未启用时只签发票据
func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, h.logger, "无效的请求格式", http.StatusBadRequest)
		return
	}

	name, err := normalizeName(req.Name)
	if err != nil {
		sendErrorResponse(w, h.logger, "玩家名需为1到32个字符", http.StatusBadRequest)
		return
	}

	if h.users != nil {
		_, err := h.users.SaveUser(r.Context(), name, h.game)
		switch {
		case errors.Is(err, models.ErrStoreDisabled):
			h.logger.Debug("数据库未启用，跳过保存用户", "name", name)
		case err != nil:
			h.logger.Error("保存用户失败", "name", name, "err", err)
			sendErrorResponse(w, h.logger, "登录失败", http.StatusInternalServerError)
			return
		}
	}

	token, expiresAt, err := h.tokens.Issue(name)
	if err != nil {
		h.logger.Error("签发票据失败", "err", err)
		sendErrorResponse(w, h.logger, "生成令牌失败", http.StatusInternalServerError)
		return
	}

	h.logger.Info("玩家登录", "name", name)
	writeJSON(w, h.logger, http.StatusOK, AuthResponse{
		Success:   true,
		Message:   "登录成功",
		Token:     token,
		Name:      name,
		ExpiresAt: expiresAt,
	})
}

// handleValidate 校验 Authorization 头中的票据
func (h *AuthHandler) handleValidate(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if token == "" {
		token = r.URL.Query().Get("token")
	}

	name, err := h.tokens.Verify(token)
	if err != nil {
		sendErrorResponse(w, h.logger, "令牌无效或已过期", http.StatusUnauthorized)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, AuthResponse{Success: true, Message: "令牌有效", Name: name})
}

// normalizeName 去掉首尾空白并检查长度
func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n == 0 || n > maxNameLength {
		return "", ErrInvalidName
	}
	return name, nil
}
