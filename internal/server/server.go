// server.go

package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jacl-coder/MonsterHunter-Server/config"
	"github.com/jacl-coder/MonsterHunter-Server/internal/game"
	"github.com/jacl-coder/MonsterHunter-Server/internal/models"
)

// ErrTooManyRooms 房间数达到上限
var ErrTooManyRooms = errors.New("too many rooms")

// TokenVerifier 校验登录票据，返回玩家名
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// GameServer 游戏服务器
type GameServer struct {
	config   *config.Config
	level    *game.Level
	verifier TokenVerifier
	recorder *ResultRecorder
	logger   *log.Logger

	rooms       map[string]*Room
	roomsMutex  sync.RWMutex
	httpServer  *http.Server
	connections map[string]*PlayerConnection
	connMutex   sync.RWMutex

	// 关闭信号
	shutdown  chan struct{}
	isRunning bool
}

// Option 服务器选项
type Option func(*GameServer)

// WithVerifier 启用票据校验，不设置时按 ?name= 匿名进入
func WithVerifier(v TokenVerifier) Option {
	return func(s *GameServer) { s.verifier = v }
}

// WithRecorder 对局结束后上报结果
func WithRecorder(r *ResultRecorder) Option {
	return func(s *GameServer) { s.recorder = r }
}

// WithLogger 指定日志
func WithLogger(l *log.Logger) Option {
	return func(s *GameServer) { s.logger = l }
}

// NewGameServer 创建新的游戏服务器，level 为空时使用内置关卡
func NewGameServer(cfg *config.Config, level *game.Level, opts ...Option) *GameServer {
	if level == nil {
		level = game.DefaultLevel()
	}
	s := &GameServer{
		config:      cfg,
		level:       level,
		logger:      log.Default(),
		rooms:       make(map[string]*Room),
		connections: make(map[string]*PlayerConnection),
		shutdown:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithPrefix("game")
	return s
}

// Start 启动游戏服务器
func (s *GameServer) Start() error {
	if s.isRunning {
		return fmt.Errorf("服务器已经在运行")
	}

	addr := s.config.Server.GameAddr()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("监听 %s 失败: %w", addr, err)
	}

	s.httpServer = &http.Server{
		Handler:     s.Handler(),
		ReadTimeout: s.config.Server.ReadTimeout,
	}

	go func() {
		s.logger.Info("游戏服务器启动", "addr", addr, "level", s.level.Name)
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP服务器错误", "err", err)
		}
	}()

	// 启动房间管理
	go s.roomManager()

	s.isRunning = true
	return nil
}

// Stop 停止游戏服务器
func (s *GameServer) Stop(ctx context.Context) error {
	if !s.isRunning {
		return nil
	}

	// 发送关闭信号
	close(s.shutdown)

	// 关闭所有连接
	s.connMutex.Lock()
	for _, conn := range s.connections {
		conn.Close()
	}
	s.connMutex.Unlock()

	// 关闭所有房间
	s.roomsMutex.Lock()
	for id, room := range s.rooms {
		room.Stop()
		delete(s.rooms, id)
	}
	s.roomsMutex.Unlock()

	// 关闭HTTP服务器
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("HTTP服务器关闭错误: %w", err)
	}
	if s.recorder != nil {
		s.recorder.Wait()
	}

	s.isRunning = false
	s.logger.Info("游戏服务器已停止")
	return nil
}

// Handler 创建HTTP处理器
func (s *GameServer) Handler() http.Handler {
	mux := http.NewServeMux()

	// WebSocket 连接端点
	mux.HandleFunc("/ws", s.handleWSConnection)

	// 健康检查端点
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return mux
}

// roomManager 房间管理器
func (s *GameServer) roomManager() {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			s.cleanupRooms(now)
		case <-s.shutdown:
			return
		}
	}
}

// cleanupRooms 清理断线或已结束的房间
func (s *GameServer) cleanupRooms(now time.Time) int {
	s.roomsMutex.Lock()
	defer s.roomsMutex.Unlock()

	idle, ended := s.config.Game.RoomIdleTimeout, s.config.Game.RoomEndedLifetime
	removed := 0
	for id, room := range s.rooms {
		if room.ShouldCleanup(now, idle, ended) {
			s.logger.Info("清理房间", "room", id, "player", room.PlayerName)
			room.Stop()
			delete(s.rooms, id)
			removed++
		}
	}
	return removed
}

// CreateRoom 为玩家创建并启动对局房间
func (s *GameServer) CreateRoom(playerName string) (*Room, error) {
	s.roomsMutex.Lock()
	defer s.roomsMutex.Unlock()

	if limit := s.config.Server.MaxRooms; limit > 0 && len(s.rooms) >= limit {
		return nil, ErrTooManyRooms
	}

	policy, err := game.ParsePausePolicy(s.config.Game.PausePolicy)
	if err != nil {
		return nil, err
	}
	room, err := NewRoom(RoomConfig{
		PlayerName:   playerName,
		Tuning:       s.config.Game.Tuning,
		Level:        s.level,
		PausePolicy:  policy,
		TickInterval: s.config.Game.TickInterval,
		OnFinish:     s.onRoomFinished,
	}, s.logger)
	if err != nil {
		return nil, err
	}
	s.rooms[room.ID] = room

	s.logger.Info("创建房间", "room", room.ID, "player", playerName)
	return room, nil
}

// GetRoom 获取房间
func (s *GameServer) GetRoom(roomID string) (*Room, bool) {
	s.roomsMutex.RLock()
	defer s.roomsMutex.RUnlock()

	room, exists := s.rooms[roomID]
	return room, exists
}

// removeRoom 停止并移除房间
func (s *GameServer) removeRoom(roomID string) {
	s.roomsMutex.Lock()
	room, ok := s.rooms[roomID]
	delete(s.rooms, roomID)
	s.roomsMutex.Unlock()
	if ok {
		room.Stop()
	}
}

// RoomCount 房间数
func (s *GameServer) RoomCount() int {
	s.roomsMutex.RLock()
	defer s.roomsMutex.RUnlock()
	return len(s.rooms)
}

func (s *GameServer) onRoomFinished(rec models.ScoreRecord) {
	if s.recorder == nil || rec.PlayerName == "" {
		return
	}
	s.recorder.RecordAsync(rec)
}
