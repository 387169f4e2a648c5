package gateway

import (
	"net"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// RateLimiter 按IP的滑动窗口频率限制器
type RateLimiter struct {
	clients map[string]*ClientInfo
	mutex   sync.Mutex
	logger  *log.Logger
	now     func() time.Time

	// 配置
	RequestsPerMinute int
	CleanupInterval   time.Duration
}

// ClientInfo 客户端信息
type ClientInfo struct {
	Requests []time.Time
	LastSeen time.Time
}

// NewRateLimiter 创建新的频率限制器，requestsPerMinute 不大于0时不限制
func NewRateLimiter(requestsPerMinute int, logger *log.Logger) *RateLimiter {
	return &RateLimiter{
		clients:           make(map[string]*ClientInfo),
		logger:            logger,
		now:               time.Now,
		RequestsPerMinute: requestsPerMinute,
		CleanupInterval:   5 * time.Minute,
	}
}

// Middleware 频率限制中间件
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientIP := clientIP(r)

		if !rl.allowRequest(clientIP) {
			rl.logger.Warn("请求过于频繁", "ip", clientIP, "path", r.URL.Path)
			sendErrorResponse(w, rl.logger, "请求过于频繁，请稍后再试", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// allowRequest 检查是否允许请求
func (rl *RateLimiter) allowRequest(clientIP string) bool {
	if rl.RequestsPerMinute <= 0 {
		return true
	}

	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	client, exists := rl.clients[clientIP]
	if !exists {
		client = &ClientInfo{}
		rl.clients[clientIP] = client
	}
	client.LastSeen = now

	// 清理一分钟之前的请求记录
	cutoff := now.Add(-time.Minute)
	client.Requests = slices.DeleteFunc(client.Requests, func(t time.Time) bool {
		return !t.After(cutoff)
	})

	if len(client.Requests) >= rl.RequestsPerMinute {
		return false
	}
	client.Requests = append(client.Requests, now)
	return true
}

// Run 定期清理长时间未访问的客户端，直到 done 关闭
func (rl *RateLimiter) Run(done <-chan struct{}) {
	ticker := time.NewTicker(rl.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-done:
			return
		}
	}
}

func (rl *RateLimiter) cleanup() {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	cutoff := rl.now().Add(-10 * time.Minute) // 10分钟未访问的客户端
	for ip, client := range rl.clients {
		if client.LastSeen.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

// clientIP 获取客户端IP，代理头取第一个地址
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// SecurityMiddleware 安全头中间件
func SecurityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Server", "MonsterHunter")

		next.ServeHTTP(w, r)
	})
}

// CORSMiddleware CORS中间件
type CORSMiddleware struct {
	AllowedOrigins []string
	AllowedMethods string
	AllowedHeaders string
}

// NewCORSMiddleware 创建CORS中间件，"*" 表示允许所有来源
func NewCORSMiddleware(origins []string) *CORSMiddleware {
	return &CORSMiddleware{
		AllowedOrigins: origins,
		AllowedMethods: "GET, POST, OPTIONS",
		AllowedHeaders: "Content-Type, Authorization, If-None-Match",
	}
}

// Middleware CORS中间件
func (cm *CORSMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowed := cm.allowOrigin(origin); allowed != "" {
			w.Header().Set("Access-Control-Allow-Origin", allowed)
			w.Header().Set("Access-Control-Allow-Methods", cm.AllowedMethods)
			w.Header().Set("Access-Control-Allow-Headers", cm.AllowedHeaders)
			w.Header().Set("Access-Control-Max-Age", "86400")
			if allowed != "*" {
				w.Header().Add("Vary", "Origin")
			}
		}

		// 处理预检请求
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (cm *CORSMiddleware) allowOrigin(origin string) string {
	for _, o := range cm.AllowedOrigins {
		if o == "*" {
			return "*"
		}
		if origin != "" && strings.EqualFold(o, origin) {
			return origin
		}
	}
	return ""
}

// LoggingMiddleware 请求日志中间件
func LoggingMiddleware(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &responseRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(recorder, r)

			logger.Info("请求",
				"method", r.Method,
				"path", r.URL.Path,
				"status", recorder.statusCode,
				"duration", time.Since(start),
				"ip", clientIP(r),
			)
		})
	}
}

// responseRecorder 响应记录器
type responseRecorder struct {
	http.ResponseWriter
	statusCode int
}

// WriteHeader 记录状态码
func (rr *responseRecorder) WriteHeader(code int) {
	rr.statusCode = code
	rr.ResponseWriter.WriteHeader(code)
}

// Unwrap 供 http.ResponseController 访问底层连接
func (rr *responseRecorder) Unwrap() http.ResponseWriter {
	return rr.ResponseWriter
}
