package gateway

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

// cacheRule 路径前缀的缓存时间
type cacheRule struct {
	prefix string
	ttl    time.Duration
}

// cachedResponse 缓存的GET响应
type cachedResponse struct {
	body        []byte
	contentType string
	etag        string
	expiresAt   time.Time
}

// ResponseCache 只读接口的响应缓存，支持 ETag 协商
type ResponseCache struct {
	mu    sync.RWMutex
	items map[string]cachedResponse
	rules []cacheRule
	limit int
	now   func() time.Time

	SweepInterval time.Duration
}

// NewResponseCache 创建响应缓存，最多保存 limit 条
func NewResponseCache(limit int) *ResponseCache {
	return &ResponseCache{
		items: make(map[string]cachedResponse),
		rules: []cacheRule{
			{prefix: "/api/leaderboard", ttl: 30 * time.Second},
			{prefix: "/api/feedback", ttl: 10 * time.Second},
		},
		limit:         limit,
		now:           time.Now,
		SweepInterval: time.Minute,
	}
}

// lookup 读取未过期的响应
func (c *ResponseCache) lookup(key string) (cachedResponse, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	resp, ok := c.items[key]
	if !ok || !c.now().Before(resp.expiresAt) {
		return cachedResponse{}, false
	}
	return resp, true
}

// store 写入响应，超出容量时先清过期条目，再淘汰最早到期的一条
func (c *ResponseCache) store(key string, resp cachedResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[key]; !exists && len(c.items) >= c.limit {
		c.sweepLocked()
		if len(c.items) >= c.limit {
			soonest := ""
			for k, v := range c.items {
				if soonest == "" || v.expiresAt.Before(c.items[soonest].expiresAt) {
					soonest = k
				}
			}
			delete(c.items, soonest)
		}
	}
	c.items[key] = resp
}

// Invalidate 丢弃指定前缀下的全部响应
func (c *ResponseCache) Invalidate(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.items {
		if strings.HasPrefix(key, prefix) {
			delete(c.items, key)
		}
	}
}

// Len 当前条目数
func (c *ResponseCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Run 定期清理过期条目，直到 done 关闭
func (c *ResponseCache) Run(done <-chan struct{}) {
	ticker := time.NewTicker(c.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			c.mu.Lock()
			c.sweepLocked()
			c.mu.Unlock()
		}
	}
}

func (c *ResponseCache) sweepLocked() {
	now := c.now()
	for key, resp := range c.items {
		if !now.Before(resp.expiresAt) {
			delete(c.items, key)
		}
	}
}

// ttlFor 路径是否可缓存及缓存时间
func (c *ResponseCache) ttlFor(path string) (time.Duration, bool) {
	for _, rule := range c.rules {
		if strings.HasPrefix(path, rule.prefix) {
			return rule.ttl, true
		}
	}
	return 0, false
}

// Middleware 缓存中间件：命中时直接返回，写操作后丢弃同路径的缓存
func (c *ResponseCache) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ttl, cacheable := c.ttlFor(r.URL.Path)
		switch {
		case !cacheable:
			next.ServeHTTP(w, r)
			return
		case r.Method != http.MethodGet:
			next.ServeHTTP(w, r)
			c.Invalidate(r.URL.Path)
			return
		}

		key := r.URL.RequestURI()
		if resp, ok := c.lookup(key); ok {
			w.Header().Set("ETag", resp.etag)
			if r.Header.Get("If-None-Match") == resp.etag {
				w.WriteHeader(http.StatusNotModified)
				return
			}
			w.Header().Set("Content-Type", resp.contentType)
			w.Header().Set("X-Cache", "HIT")
			w.Write(resp.body)
			return
		}

		buf := &bufferedResponse{header: make(http.Header), status: http.StatusOK}
		next.ServeHTTP(buf, r)

		for k, v := range buf.header {
			w.Header()[k] = v
		}
		// 只缓存成功响应
		if buf.status == http.StatusOK && len(buf.body) > 0 {
			resp := cachedResponse{
				body:        buf.body,
				contentType: buf.header.Get("Content-Type"),
				etag:        etagOf(buf.body),
				expiresAt:   c.now().Add(ttl),
			}
			c.store(key, resp)
			w.Header().Set("ETag", resp.etag)
			w.Header().Set("Cache-Control", fmt.Sprintf("max-age=%d", int(ttl.Seconds())))
			w.Header().Set("X-Cache", "MISS")
		}
		w.WriteHeader(buf.status)
		w.Write(buf.body)
	})
}

// etagOf 响应体摘要
func etagOf(body []byte) string {
	sum := sha256.Sum256(body)
	return `"` + hex.EncodeToString(sum[:8]) + `"`
}

// bufferedResponse 缓冲下游响应
type bufferedResponse struct {
	header http.Header
	status int
	body   []byte
}

func (b *bufferedResponse) Header() http.Header { return b.header }

func (b *bufferedResponse) WriteHeader(status int) { b.status = status }

func (b *bufferedResponse) Write(p []byte) (int, error) {
	b.body = append(b.body, p...)
	return len(p), nil
}
