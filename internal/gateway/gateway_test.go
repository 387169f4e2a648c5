package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jacl-coder/MonsterHunter-Server/config"
	"github.com/jacl-coder/MonsterHunter-Server/internal/models"
)

// fakeStore 内存实现的全部存储接口
type fakeStore struct {
	mu       sync.Mutex
	err      error
	users    []string
	feedback []models.Feedback
	scores   map[string][]models.ScoreRecord
	entries  []models.LeaderboardEntry
	ranks    map[string]int

	lastLimit int
	lastType  models.LeaderboardType
	calls     int
}

func newFakeStore() *fakeStore {
	return &fakeStore{scores: make(map[string][]models.ScoreRecord), ranks: make(map[string]int)}
}

func (f *fakeStore) SaveUser(_ context.Context, name, game string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.users = append(f.users, name)
	return &models.User{ID: int64(len(f.users)), Name: name, Game: game}, nil
}

func (f *fakeStore) SaveFeedback(_ context.Context, fb *models.Feedback) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	fb.ID = "fb-1"
	f.feedback = append(f.feedback, *fb)
	return nil
}

func (f *fakeStore) LatestFeedback(_ context.Context, _ string, limit int) ([]models.Feedback, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	return f.feedback, nil
}

func (f *fakeStore) PlayerScores(_ context.Context, name string, limit int) ([]models.ScoreRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	return f.scores[name], nil
}

func (f *fakeStore) GetLeaderboard(_ context.Context, typ models.LeaderboardType, limit int) ([]models.LeaderboardEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastLimit = limit
	f.lastType = typ
	if f.err != nil {
		return nil, f.err
	}
	return f.entries, nil
}

func (f *fakeStore) GetPlayerRank(_ context.Context, name string, typ models.LeaderboardType) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastType = typ
	if f.err != nil {
		return 0, f.err
	}
	if rank, ok := f.ranks[name]; ok {
		return rank, nil
	}
	return -1, nil
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Server.RateLimit = 0
	return &cfg
}

func newTestGateway(t *testing.T, store *fakeStore) (*Gateway, http.Handler) {
	t.Helper()
	cfg := testConfig()
	tokens := NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Auth.Issuer)
	var stores Stores
	if store != nil {
		stores = Stores{Users: store, Feedback: store, Scores: store, Leaderboard: store}
	}
	g := NewGateway(cfg, tokens, stores, log.New(io.Discard))
	return g, g.Handler()
}

func do(h http.Handler, method, target, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// decodeData 解析 APIResponse 中的 data
func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) (APIResponse, T) {
	t.Helper()
	var raw struct {
		APIResponse
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("解析响应失败: %v, body=%s", err, rec.Body.String())
	}
	var data T
	if len(raw.Data) > 0 {
		if err := json.Unmarshal(raw.Data, &data); err != nil {
			t.Fatalf("解析data失败: %v", err)
		}
	}
	return raw.APIResponse, data
}

func TestStoresDisabledAnswer503(t *testing.T) {
	disabled := newFakeStore()
	disabled.err = models.ErrStoreDisabled

	tests := []struct {
		name   string
		store  *fakeStore
		method string
		target string
		body   string
	}{
		{"未配置排行榜", nil, http.MethodGet, "/api/leaderboard", ""},
		{"未配置排名", nil, http.MethodGet, "/api/leaderboard/rank?name=a", ""},
		{"未配置战绩", nil, http.MethodGet, "/api/players/a/scores", ""},
		{"未配置反馈", nil, http.MethodGet, "/api/feedback", ""},
		{"未启用排行榜", disabled, http.MethodGet, "/api/leaderboard", ""},
		{"未启用战绩", disabled, http.MethodGet, "/api/players/a/scores", ""},
		{"未启用反馈提交", disabled, http.MethodPost, "/api/feedback", `{"hero":"x"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, h := newTestGateway(t, tt.store)
			rec := do(h, tt.method, tt.target, tt.body)
			if rec.Code != http.StatusServiceUnavailable {
				t.Fatalf("状态码 = %d, 期望 503, body=%s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestStoreFailureAnswers500(t *testing.T) {
	store := newFakeStore()
	store.err = errors.New("连接断开")
	_, h := newTestGateway(t, store)

	if rec := do(h, http.MethodGet, "/api/feedback", ""); rec.Code != http.StatusInternalServerError {
		t.Fatalf("状态码 = %d", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	_, h := newTestGateway(t, nil)

	rec := do(h, http.MethodGet, "/health", "")
	resp, status := decodeData[map[string]bool](t, rec)
	if rec.Code != http.StatusOK || !resp.Success {
		t.Fatalf("状态码 = %d", rec.Code)
	}
	if !status["gateway"] || !status["game"] || status["database"] || status["redis"] {
		t.Fatalf("status = %v", status)
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatal("缺少安全头")
	}
}

func TestForwardToGameServer(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Upstream-Path", r.URL.Path)
		w.Write([]byte("from game"))
	}))
	defer upstream.Close()

	g, h := newTestGateway(t, nil)
	if err := g.SetUpstream(upstream.URL); err != nil {
		t.Fatal(err)
	}

	rec := do(h, http.MethodGet, "/game/rooms", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "from game" {
		t.Fatalf("转发结果 %d %q", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Upstream-Path") != "/game/rooms" {
		t.Fatalf("转发路径 = %q", rec.Header().Get("X-Upstream-Path"))
	}
}

func TestUnhealthyUpstream(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	g, h := newTestGateway(t, nil)
	if err := g.SetUpstream(upstream.URL); err != nil {
		t.Fatal(err)
	}
	upstream.Close()

	g.checkUpstreamHealth()
	if rec := do(h, http.MethodGet, "/ws", ""); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("状态码 = %d, 期望 503", rec.Code)
	}
	_, status := decodeData[map[string]bool](t, do(h, http.MethodGet, "/health", ""))
	if status["game"] {
		t.Fatal("游戏服务应标记为不健康")
	}
}

func TestStartStop(t *testing.T) {
	cfg := testConfig()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.GatewayPort = 0
	g := NewGateway(cfg, NewTokenManager("s", time.Hour, "i"), Stores{}, log.New(io.Discard))

	if err := g.Start(); err != nil {
		t.Fatalf("启动失败: %v", err)
	}
	if err := g.Start(); err == nil {
		t.Fatal("重复启动应返回错误")
	}
	if err := g.Stop(context.Background()); err != nil {
		t.Fatalf("停止失败: %v", err)
	}
}
