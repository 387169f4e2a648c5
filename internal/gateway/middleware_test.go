package gateway

import (
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jacl-coder/MonsterHunter-Server/internal/models"
)

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2, log.New(io.Discard))
	now := time.Unix(1000, 0)
	rl.now = func() time.Time { return now }
	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	for i := 0; i < 2; i++ {
		if rec := do(h, http.MethodGet, "/", ""); rec.Code != http.StatusOK {
			t.Fatalf("第%d次请求 状态码 = %d", i+1, rec.Code)
		}
	}
	if rec := do(h, http.MethodGet, "/", ""); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("超限 状态码 = %d", rec.Code)
	}
	if rec := do(h, http.MethodGet, "/", "", "X-Forwarded-For", "203.0.113.9, 10.0.0.1"); rec.Code != http.StatusOK {
		t.Fatalf("其他IP 状态码 = %d", rec.Code)
	}

	now = now.Add(61 * time.Second)
	if rec := do(h, http.MethodGet, "/", ""); rec.Code != http.StatusOK {
		t.Fatalf("窗口滑过后 状态码 = %d", rec.Code)
	}

	now = now.Add(time.Hour)
	rl.cleanup()
	if len(rl.clients) != 0 {
		t.Fatalf("清理后剩余 %d 个客户端", len(rl.clients))
	}
}

func TestRateLimiterUnlimited(t *testing.T) {
	rl := NewRateLimiter(0, log.New(io.Discard))
	for i := 0; i < 100; i++ {
		if !rl.allowRequest("192.0.2.1") {
			t.Fatal("不限制时拒绝了请求")
		}
	}
}

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	tests := []struct {
		name    string
		origins []string
		origin  string
		want    string
	}{
		{"允许全部", []string{"*"}, "http://a.example", "*"},
		{"白名单", []string{"http://a.example"}, "http://a.example", "http://a.example"},
		{"不在白名单", []string{"http://a.example"}, "http://b.example", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewCORSMiddleware(tt.origins).Middleware(next)
			rec := do(h, http.MethodGet, "/", "", "Origin", tt.origin)
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.want {
				t.Fatalf("Allow-Origin = %q, 期望 %q", got, tt.want)
			}
		})
	}

	called := false
	h := NewCORSMiddleware([]string{"*"}).Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	if rec := do(h, http.MethodOptions, "/api/login", ""); rec.Code != http.StatusNoContent || called {
		t.Fatalf("预检 状态码 = %d, 调用了处理器 = %v", rec.Code, called)
	}
}

func TestLeaderboardCache(t *testing.T) {
	store := newFakeStore()
	store.entries = []models.LeaderboardEntry{{PlayerName: "alice", Score: 100, Rank: 1}}
	_, h := newTestGateway(t, store)

	first := do(h, http.MethodGet, "/api/leaderboard?limit=5", "")
	if first.Header().Get("X-Cache") != "MISS" || first.Header().Get("ETag") == "" {
		t.Fatalf("首次请求 X-Cache=%q ETag=%q", first.Header().Get("X-Cache"), first.Header().Get("ETag"))
	}

	second := do(h, http.MethodGet, "/api/leaderboard?limit=5", "")
	if second.Header().Get("X-Cache") != "HIT" || second.Body.String() != first.Body.String() {
		t.Fatalf("第二次请求 X-Cache=%q", second.Header().Get("X-Cache"))
	}
	if store.calls != 1 {
		t.Fatalf("存储被调用 %d 次, 期望 1", store.calls)
	}

	notModified := do(h, http.MethodGet, "/api/leaderboard?limit=5", "", "If-None-Match", first.Header().Get("ETag"))
	if notModified.Code != http.StatusNotModified || notModified.Body.Len() != 0 {
		t.Fatalf("ETag 匹配 状态码 = %d", notModified.Code)
	}

	do(h, http.MethodGet, "/api/leaderboard?limit=6", "")
	if store.calls != 2 {
		t.Fatalf("不同参数应单独缓存, calls = %d", store.calls)
	}
}

func TestCacheSkipsErrors(t *testing.T) {
	store := newFakeStore()
	store.err = models.ErrStoreDisabled
	_, h := newTestGateway(t, store)

	do(h, http.MethodGet, "/api/leaderboard", "")
	do(h, http.MethodGet, "/api/leaderboard", "")
	if store.calls != 2 {
		t.Fatalf("错误响应被缓存, calls = %d", store.calls)
	}
}

func TestCacheInvalidatedByWrite(t *testing.T) {
	store := newFakeStore()
	_, h := newTestGateway(t, store)

	do(h, http.MethodGet, "/api/feedback", "")
	do(h, http.MethodPost, "/api/feedback", `{"hero":"骑士"}`)
	rec := do(h, http.MethodGet, "/api/feedback", "")
	if rec.Header().Get("X-Cache") == "HIT" {
		t.Fatal("提交反馈后仍返回旧缓存")
	}
	_, list := decodeData[[]models.Feedback](t, rec)
	if len(list) != 1 {
		t.Fatalf("反馈条数 = %d", len(list))
	}
}

func TestResponseCacheCapacity(t *testing.T) {
	c := NewResponseCache(2)
	now := time.Unix(0, 0)
	c.now = func() time.Time { return now }

	c.store("a", cachedResponse{expiresAt: now.Add(time.Second)})
	c.store("b", cachedResponse{expiresAt: now.Add(time.Minute)})
	c.store("c", cachedResponse{expiresAt: now.Add(time.Minute)})
	if c.Len() != 2 {
		t.Fatalf("len = %d", c.Len())
	}
	if _, ok := c.lookup("a"); ok {
		t.Fatal("超过容量应淘汰最早到期的条目")
	}

	now = now.Add(2 * time.Minute)
	if _, ok := c.lookup("b"); ok {
		t.Fatal("过期条目仍可读取")
	}
	c.Invalidate("")
	if c.Len() != 0 {
		t.Fatalf("清空后 len = %d", c.Len())
	}
}
