package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jacl-coder/MonsterHunter-Server/config"
	"github.com/jacl-coder/MonsterHunter-Server/internal/models"
)

// GameTag 写入用户和反馈记录的游戏标识
const GameTag = "monster-hunter"

// Stores 网关依赖的存储，任一为空时对应接口返回503
type Stores struct {
	Users       UserStore
	Feedback    FeedbackStore
	Scores      ScoreStore
	Leaderboard LeaderboardStore
}

// Upstream 游戏服务实例
type Upstream struct {
	URL       *url.URL
	Health    bool
	LastCheck time.Time
}

// Gateway API网关
type Gateway struct {
	config      *config.Config
	tokens      *TokenManager
	stores      Stores
	logger      *log.Logger
	upstream    *Upstream
	mutex       sync.RWMutex
	rateLimiter *RateLimiter
	cache       *ResponseCache
	httpServer  *http.Server
	isRunning   bool
	shutdown    chan struct{}
}

// APIResponse 通用响应
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// NewGateway 创建新的网关
func NewGateway(cfg *config.Config, tokens *TokenManager, stores Stores, logger *log.Logger) *Gateway {
	if logger == nil {
		logger = log.Default()
	}
	gameURL := &url.URL{Scheme: "http", Host: upstreamHost(cfg.Server)}
	return &Gateway{
		config:      cfg,
		tokens:      tokens,
		stores:      stores,
		logger:      logger.WithPrefix("gateway"),
		upstream:    &Upstream{URL: gameURL, Health: true, LastCheck: time.Now()},
		rateLimiter: NewRateLimiter(cfg.Server.RateLimit, logger.WithPrefix("gateway")),
		cache:       NewResponseCache(1000),
		shutdown:    make(chan struct{}),
	}
}

// upstreamHost 游戏服务地址，监听全部地址时改用本机
func upstreamHost(cfg config.ServerConfig) string {
	host := cfg.Host
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return net.JoinHostPort(host, fmt.Sprint(cfg.GamePort))
}

// SetUpstream 修改游戏服务地址
func (g *Gateway) SetUpstream(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("无效的服务URL: %w", err)
	}
	g.mutex.Lock()
	g.upstream = &Upstream{URL: parsed, Health: true, LastCheck: time.Now()}
	g.mutex.Unlock()
	g.logger.Info("注册游戏服务", "url", rawURL)
	return nil
}

// Start 启动网关
func (g *Gateway) Start() error {
	if g.isRunning {
		return fmt.Errorf("网关已经在运行")
	}

	addr := g.config.Server.GatewayAddr()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("监听 %s 失败: %w", addr, err)
	}

	g.httpServer = &http.Server{
		Handler:     g.Handler(),
		ReadTimeout: g.config.Server.ReadTimeout,
	}

	go g.healthCheck()
	go g.rateLimiter.Run(g.shutdown)
	go g.cache.Run(g.shutdown)

	go func() {
		g.logger.Info("API网关启动", "addr", addr, "game", g.upstreamURL())
		if err := g.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			g.logger.Error("HTTP服务器错误", "err", err)
		}
	}()

	g.isRunning = true
	return nil
}

// Stop 停止网关
func (g *Gateway) Stop(ctx context.Context) error {
	if !g.isRunning {
		return nil
	}

	close(g.shutdown)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := g.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("HTTP服务器关闭错误: %w", err)
	}

	g.isRunning = false
	g.logger.Info("API网关已停止")
	return nil
}

// Handler 创建HTTP处理器
func (g *Gateway) Handler() http.Handler {
	mux := http.NewServeMux()

	NewAuthHandler(g.tokens, g.stores.Users, GameTag, g.logger).RegisterHandlers(mux)
	NewFeedbackHandler(g.stores.Feedback, g.tokens, GameTag, g.logger).RegisterHandlers(mux)
	NewStatsHandler(g.stores.Leaderboard, g.logger).RegisterHandlers(mux)
	NewProfileHandler(g.stores.Scores, g.logger).RegisterHandlers(mux)

	// 对局连接转发到游戏服务
	mux.HandleFunc("/ws", g.forwardRequest)
	mux.HandleFunc("/game/", g.forwardRequest)

	// 健康检查端点
	mux.HandleFunc("GET /health", g.handleHealth)

	return g.applyMiddleware(mux)
}

// applyMiddleware 应用中间件
func (g *Gateway) applyMiddleware(handler http.Handler) http.Handler {
	cors := NewCORSMiddleware(g.config.Server.AllowedOrigins)

	// 按顺序应用中间件（从内到外）
	handler = g.cache.Middleware(handler)
	handler = g.rateLimiter.Middleware(handler)
	handler = cors.Middleware(handler)
	handler = SecurityMiddleware(handler)
	handler = LoggingMiddleware(g.logger)(handler)

	return handler
}

// forwardRequest 转发请求到游戏服务，支持 WebSocket 升级
func (g *Gateway) forwardRequest(w http.ResponseWriter, r *http.Request) {
	g.mutex.RLock()
	upstream := *g.upstream
	g.mutex.RUnlock()

	if !upstream.Health {
		sendErrorResponse(w, g.logger, "游戏服务不可用", http.StatusServiceUnavailable)
		return
	}

	proxy := httputil.NewSingleHostReverseProxy(upstream.URL)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		g.logger.Warn("转发失败", "path", r.URL.Path, "err", err)
		sendErrorResponse(w, g.logger, "游戏服务不可用", http.StatusBadGateway)
	}

	r.Header.Set("X-Forwarded-Host", r.Host)
	r.Header.Set("X-Origin-Host", upstream.URL.Host)
	r.Host = upstream.URL.Host

	proxy.ServeHTTP(w, r)
}

// handleHealth 网关和游戏服务的健康状态
func (g *Gateway) handleHealth(w http.ResponseWriter, r *http.Request) {
	g.mutex.RLock()
	healthy := g.upstream.Health
	g.mutex.RUnlock()

	sendSuccessResponse(w, g.logger, "OK", map[string]bool{
		"gateway":  true,
		"game":     healthy,
		"database": storeEnabled(g.stores.Feedback),
		"redis":    storeEnabled(g.stores.Leaderboard),
	})
}

// upstreamURL 当前游戏服务地址
func (g *Gateway) upstreamURL() string {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return g.upstream.URL.String()
}

// healthCheck 健康检查
func (g *Gateway) healthCheck() {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			g.checkUpstreamHealth()
		case <-g.shutdown:
			return
		}
	}
}

// checkUpstreamHealth 检查游戏服务健康状态
func (g *Gateway) checkUpstreamHealth() {
	g.mutex.RLock()
	healthURL := *g.upstream.URL
	g.mutex.RUnlock()
	healthURL.Path = "/health"

	client := http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(healthURL.String())
	healthy := err == nil && resp.StatusCode == http.StatusOK
	if err == nil {
		resp.Body.Close()
	}

	g.mutex.Lock()
	defer g.mutex.Unlock()
	g.upstream.LastCheck = time.Now()
	if healthy != g.upstream.Health {
		if healthy {
			g.logger.Info("游戏服务恢复健康", "url", healthURL.Host)
		} else {
			g.logger.Warn("游戏服务不健康", "url", healthURL.Host, "err", err)
		}
		g.upstream.Health = healthy
	}
}

// storeEnabled 存储是否可用
func storeEnabled(store any) bool {
	if store == nil {
		return false
	}
	if e, ok := store.(interface{ Enabled() bool }); ok {
		return e.Enabled()
	}
	return true
}

// writeJSON 写入JSON响应
func writeJSON(w http.ResponseWriter, logger *log.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("编码响应失败", "err", err)
	}
}

// sendSuccessResponse 发送成功响应
func sendSuccessResponse(w http.ResponseWriter, logger *log.Logger, message string, data any) {
	writeJSON(w, logger, http.StatusOK, APIResponse{Success: true, Message: message, Data: data})
}

// sendErrorResponse 发送错误响应
func sendErrorResponse(w http.ResponseWriter, logger *log.Logger, message string, statusCode int) {
	writeJSON(w, logger, statusCode, APIResponse{Success: false, Message: message})
}

// sendStoreError 存储未启用返回503，其余返回500
func sendStoreError(w http.ResponseWriter, logger *log.Logger, message string, err error) {
	if errors.Is(err, models.ErrStoreDisabled) {
		sendErrorResponse(w, logger, "存储服务未启用", http.StatusServiceUnavailable)
		return
	}
	logger.Error(message, "err", err)
	sendErrorResponse(w, logger, message, http.StatusInternalServerError)
}
