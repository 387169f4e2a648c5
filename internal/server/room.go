// room.go

package server

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/jacl-coder/MonsterHunter-Server/internal/game"
	"github.com/jacl-coder/MonsterHunter-Server/internal/models"
	"github.com/jacl-coder/MonsterHunter-Server/internal/protocol"
)

// ErrRoomStopped 房间已停止
var ErrRoomStopped = errors.New("room stopped")

// RoomConfig 创建房间的参数
type RoomConfig struct {
	PlayerName   string
	Tuning       game.Tuning
	Level        *game.Level
	PausePolicy  game.PausePolicy
	TickInterval time.Duration
	Rand         *rand.Rand

	// OnFinish 对局结束时在房间协程中调用一次
	OnFinish func(models.ScoreRecord)
}

// Sink 接收房间下发的消息，可能在任意协程中调用
type Sink func(protocol.Message)

// Room 一个玩家的对局房间：会话只在房间协程中访问
type Room struct {
	ID         string
	PlayerName string
	CreatedAt  time.Time

	session *game.Session
	bridge  *clientBridge
	assets  *game.Assets
	logger  *log.Logger

	tickInterval time.Duration
	onFinish     func(models.ScoreRecord)
	recorded     bool

	// 控制通道
	commands  chan func()
	shutdown  chan struct{}
	done      chan struct{}
	startOnce sync.Once
	stopOnce  sync.Once

	seq atomic.Uint64

	mu           sync.Mutex
	owner        string
	sink         Sink
	lastActivity time.Time
	endedAt      time.Time
}

// NewRoom 创建房间，调用 Start 后开始推进
func NewRoom(cfg RoomConfig, logger *log.Logger) (*Room, error) {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = 16 * time.Millisecond
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if logger == nil {
		logger = log.Default()
	}

	now := time.Now()
	r := &Room{
		ID:           uuid.NewString(),
		PlayerName:   cfg.PlayerName,
		CreatedAt:    now,
		assets:       game.NewAssets(),
		tickInterval: cfg.TickInterval,
		onFinish:     cfg.OnFinish,
		commands:     make(chan func(), 64),
		shutdown:     make(chan struct{}),
		done:         make(chan struct{}),
		lastActivity: now,
	}
	r.logger = logger.WithPrefix("room").With("room", r.ID[:8])
	r.bridge = newClientBridge(r.emit, cfg.Rand, r.logger)

	session, err := game.NewSession(r.ID, cfg.Tuning, cfg.Level, r.bridge.collaborators(),
		game.WithRand(cfg.Rand),
		game.WithLogger(r.logger),
		game.WithPausePolicy(cfg.PausePolicy),
		game.WithAssets(r.assets),
	)
	if err != nil {
		return nil, fmt.Errorf("创建对局失败: %w", err)
	}
	r.session = session
	r.bridge.wave = func() int {
		return min(session.Director().Wave()+1, session.Director().TotalWaves())
	}
	return r, nil
}

// Attach 绑定下发通道，重连时替换旧通道，返回被替换的连接ID
func (r *Room) Attach(owner string, sink Sink) string {
	r.mu.Lock()
	prev := r.owner
	r.owner, r.sink = owner, sink
	r.lastActivity = time.Now()
	r.mu.Unlock()
	return prev
}

// Detach 解除 owner 的下发通道，进行中的对局自动暂停；已被替换时不做处理
func (r *Room) Detach(owner string) {
	r.mu.Lock()
	if r.owner != owner {
		r.mu.Unlock()
		return
	}
	r.owner, r.sink = "", nil
	r.lastActivity = time.Now()
	r.mu.Unlock()

	r.Do(func(s *game.Session) {
		s.SetPaused(true)
	})
}

// Connected 是否有连接
func (r *Room) Connected() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sink != nil
}

// Start 开始对局与房间循环
func (r *Room) Start() {
	r.startOnce.Do(func() {
		r.logger.Info("房间启动", "player", r.PlayerName, "level", r.session.Level().Name)
		go r.gameLoop()
		r.Do(func(s *game.Session) { s.Start() })
	})
}

// Stop 停止房间
func (r *Room) Stop() {
	r.stopOnce.Do(func() {
		close(r.shutdown)
		r.logger.Info("房间已停止")
	})
}

// Done 房间循环退出后关闭
func (r *Room) Done() <-chan struct{} {
	return r.done
}

// Do 把操作排入房间协程执行，房间停止后返回 false
func (r *Room) Do(fn func(s *game.Session)) bool {
	select {
	case <-r.shutdown:
		return false
	default:
	}
	select {
	case r.commands <- func() { fn(r.session) }:
		return true
	case <-r.shutdown:
		return false
	}
}

// HandleMessage 处理客户端消息，在读协程中调用
func (r *Room) HandleMessage(msg protocol.Message) error {
	r.touch()

	switch msg.Type {
	case protocol.TypeInput:
		var in protocol.InputPayload
		if err := msg.Bind(&in); err != nil {
			return fmt.Errorf("解析输入失败: %w", err)
		}
		r.Do(func(s *game.Session) { s.SetInput(in) })

	case protocol.TypeShoot:
		r.Do(func(s *game.Session) { s.Shoot() })

	case protocol.TypePause:
		var p protocol.PausePayload
		err := msg.Bind(&p)
		switch {
		case errors.Is(err, protocol.ErrNoPayload):
			r.Do(func(s *game.Session) { s.TogglePause() })
		case err != nil:
			return fmt.Errorf("解析暂停失败: %w", err)
		default:
			r.Do(func(s *game.Session) { s.SetPaused(p.Paused) })
		}

	case protocol.TypeQuizAnswer:
		var a protocol.QuizAnswerPayload
		if err := msg.Bind(&a); err != nil {
			return fmt.Errorf("解析答案失败: %w", err)
		}
		r.Do(func(*game.Session) {
			if err := r.bridge.AnswerQuiz(a.Choice); err != nil {
				r.emit(protocol.TypeError, protocol.ErrorEvent{Code: "quiz", Message: err.Error()})
			}
		})

	case protocol.TypeAssetLoaded, protocol.TypeAssetFailed:
		var a protocol.AssetPayload
		if err := msg.Bind(&a); err != nil {
			return fmt.Errorf("解析资源状态失败: %w", err)
		}
		if msg.Type == protocol.TypeAssetLoaded {
			r.assets.MarkLoaded(a.Name)
		} else {
			r.logger.Warn("客户端贴图加载失败", "sprite", a.Name)
			r.assets.MarkFailed(a.Name)
		}

	case protocol.TypeSnapshotReq:
		r.Do(func(s *game.Session) {
			r.emit(protocol.TypeSnapshot, s.Snapshot())
			r.bridge.resendQuestion()
		})

	case protocol.TypePing:
		r.emit(protocol.TypePong, nil)

	default:
		return fmt.Errorf("未知消息类型: %s", msg.Type)
	}
	return nil
}

// Welcome 连接建立后的对局信息
func (r *Room) Welcome(codec string) protocol.WelcomeEvent {
	level := r.session.Level()
	player := r.session.Player()
	return protocol.WelcomeEvent{
		SessionID:  r.ID,
		PlayerName: r.PlayerName,
		Codec:      codec,
		Level:      level.Name,
		TotalWaves: len(level.Waves),
		Sprites:    level.Sprites(),
		MaxHealth:  player.MaxHealth(),
		MaxAmmo:    player.MaxAmmo(),
	}
}

// ShouldCleanup 断线超过 idle 或结束超过 ended 后可以清理
func (r *Room) ShouldCleanup(now time.Time, idle, ended time.Duration) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.endedAt.IsZero() {
		return now.Sub(r.endedAt) > ended
	}
	if r.sink == nil {
		return now.Sub(r.lastActivity) > idle
	}
	return false
}

// gameLoop 房间循环：固定间隔推进会话，两帧之间执行排队的操作
func (r *Room) gameLoop() {
	ticker := time.NewTicker(r.tickInterval)
	defer func() {
		ticker.Stop()
		close(r.done)
	}()

	last := time.Now()
	maxStep := 4 * r.tickInterval
	for {
		select {
		case now := <-ticker.C:
			elapsed := min(now.Sub(last), maxStep)
			last = now
			r.step(float64(elapsed) / float64(time.Millisecond))
		case cmd := <-r.commands:
			cmd()
			r.checkFinished()
		case <-r.shutdown:
			return
		}
	}
}

// step 推进一帧
func (r *Room) step(dtMs float64) {
	r.session.Tick(dtMs)
	r.checkFinished()
}

// checkFinished 对局结束后只上报一次
func (r *Room) checkFinished() {
	outcome := r.session.Outcome()
	if outcome == game.OutcomeNone || r.recorded {
		return
	}
	r.recorded = true

	r.mu.Lock()
	r.endedAt = time.Now()
	r.mu.Unlock()

	rec := r.scoreRecord(outcome)
	r.logger.Info("对局结束", "outcome", outcome, "score", rec.Score, "wave", rec.Wave, "kills", rec.Kills)
	if r.onFinish != nil {
		r.onFinish(rec)
	}
}

func (r *Room) scoreRecord(outcome game.Outcome) models.ScoreRecord {
	player := r.session.Player()
	return models.ScoreRecord{
		ID:         uuid.NewString(),
		SessionID:  r.ID,
		PlayerName: r.PlayerName,
		Level:      r.session.Level().Name,
		Outcome:    models.Outcome(outcome),
		Score:      player.Score,
		Wave:       r.bridge.currentWave(),
		Kills:      player.Kills,
		Duration:   int64(r.session.Now()),
		CreatedAt:  time.Now(),
	}
}

// emit 编号并下发一条事件，未连接时丢弃
func (r *Room) emit(typ string, payload any) {
	r.mu.Lock()
	sink := r.sink
	r.mu.Unlock()
	if sink == nil {
		return
	}

	msg := protocol.NewMessage(typ, payload)
	msg.Seq = r.seq.Add(1)
	sink(msg)
}

func (r *Room) touch() {
	r.mu.Lock()
	r.lastActivity = time.Now()
	r.mu.Unlock()
}
