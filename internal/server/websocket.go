// websocket.go

package server

import (
	"errors"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jacl-coder/MonsterHunter-Server/internal/protocol"
)

const (
	// 写入超时时间
	writeWait = 10 * time.Second

	// 读取超时时间
	pongWait = 60 * time.Second

	// 发送 ping 的间隔时间
	pingPeriod = (pongWait * 9) / 10

	// 最大消息大小
	maxMessageSize = 512 * 1024 // 512KB

	// 发送队列长度
	sendBufferSize = 256

	// 匿名玩家名最大长度
	maxNameLength = 32
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// 跨域由网关的 CORS 配置约束，游戏端口允许所有来源
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// PlayerConnection 玩家连接
type PlayerConnection struct {
	ID         string
	PlayerName string
	Room       *Room

	codec      protocol.Codec
	lastActive atomic.Int64
	logger     *log.Logger

	// 发送队列，关闭后写协程退出
	Send   chan []byte
	mu     sync.Mutex
	closed bool
}

func newPlayerConnection(name string, codec protocol.Codec, room *Room, logger *log.Logger) *PlayerConnection {
	c := &PlayerConnection{
		ID:         uuid.NewString(),
		PlayerName: name,
		Room:       room,
		codec:      codec,
		Send:       make(chan []byte, sendBufferSize),
	}
	c.logger = logger.With("conn", c.ID[:8], "player", name)
	c.lastActive.Store(time.Now().UnixMilli())
	return c
}

// sendMessage 编码并排入发送队列，队列满时断开连接
func (c *PlayerConnection) sendMessage(msg protocol.Message) {
	data, err := c.codec.Encode(msg)
	if err != nil {
		c.logger.Error("编码消息失败", "type", msg.Type, "err", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.Send <- data:
	default:
		c.logger.Warn("发送队列已满，断开连接")
		c.closeLocked()
	}
}

// Close 关闭发送队列
func (c *PlayerConnection) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
}

func (c *PlayerConnection) closeLocked() {
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
}

// LastActive 最近一次收到消息的时间
func (c *PlayerConnection) LastActive() time.Time {
	return time.UnixMilli(c.lastActive.Load())
}

// handleWSConnection 处理WebSocket连接
// 参数：token(启用校验时)或 name，codec=json|msgpack|proto，session=重连的房间ID
func (s *GameServer) handleWSConnection(w http.ResponseWriter, r *http.Request) {
	name, err := s.authenticate(r)
	if err != nil {
		http.Error(w, "未授权", http.StatusUnauthorized)
		return
	}

	codecName := r.URL.Query().Get("codec")
	if codecName == "" {
		codecName = s.config.Game.Codec
	}
	codec, err := protocol.NewCodec(codecName)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	room, resumed, status, err := s.resolveRoom(name, r.URL.Query().Get("session"))
	if err != nil {
		http.Error(w, err.Error(), status)
		return
	}

	// 升级HTTP连接为WebSocket
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("WebSocket升级失败", "err", err)
		if !resumed {
			s.removeRoom(room.ID)
		}
		return
	}

	playerConn := newPlayerConnection(name, codec, room, s.logger)

	// 添加到连接列表
	s.connMutex.Lock()
	s.connections[playerConn.ID] = playerConn
	s.connMutex.Unlock()

	if prev := room.Attach(playerConn.ID, playerConn.sendMessage); prev != "" {
		s.dropConnection(prev)
	}
	room.emit(protocol.TypeWelcome, room.Welcome(codec.Name()))

	if resumed {
		room.HandleMessage(protocol.Message{Type: protocol.TypeSnapshotReq})
	} else {
		room.Start()
	}

	playerConn.logger.Info("玩家已连接", "room", room.ID, "codec", codec.Name(), "resumed", resumed)

	// 启动读写协程
	go s.readPump(conn, playerConn)
	go s.writePump(conn, playerConn)
}

// authenticate 校验票据；未启用校验时使用 ?name=
func (s *GameServer) authenticate(r *http.Request) (string, error) {
	if s.verifier != nil {
		token := r.URL.Query().Get("token")
		if token == "" {
			token = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		}
		if token == "" {
			return "", errors.New("缺少票据")
		}
		return s.verifier.Verify(token)
	}

	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		name = "guest"
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return "", errors.New("玩家名过长")
	}
	return name, nil
}

// resolveRoom 重连时查找原房间，否则创建新房间
func (s *GameServer) resolveRoom(name, sessionID string) (*Room, bool, int, error) {
	if sessionID != "" {
		room, ok := s.GetRoom(sessionID)
		if !ok || room.PlayerName != name {
			return nil, false, http.StatusNotFound, errors.New("对局不存在")
		}
		return room, true, 0, nil
	}

	room, err := s.CreateRoom(name)
	switch {
	case errors.Is(err, ErrTooManyRooms):
		return nil, false, http.StatusServiceUnavailable, err
	case err != nil:
		return nil, false, http.StatusInternalServerError, err
	}
	return room, false, 0, nil
}

// readPump 从WebSocket读取数据
func (s *GameServer) readPump(conn *websocket.Conn, player *PlayerConnection) {
	defer func() {
		s.closeConnection(player)
		conn.Close()
	}()

	// 设置读取参数
	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				player.logger.Warn("WebSocket错误", "err", err)
			}
			break
		}

		player.lastActive.Store(time.Now().UnixMilli())
		conn.SetReadDeadline(time.Now().Add(pongWait))

		// 处理接收到的消息
		s.handleMessage(player, data)
	}
}

// writePump 向WebSocket写入数据
func (s *GameServer) writePump(conn *websocket.Conn, player *PlayerConnection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case message, ok := <-player.Send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// 通道已关闭
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(player.codec.FrameType(), message); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// closeConnection 关闭玩家连接，房间保留到空闲超时以便重连
func (s *GameServer) closeConnection(player *PlayerConnection) {
	s.connMutex.Lock()
	_, ok := s.connections[player.ID]
	delete(s.connections, player.ID)
	s.connMutex.Unlock()

	// 检查连接是否已关闭
	if !ok {
		return
	}

	player.Close()
	if player.Room != nil {
		player.Room.Detach(player.ID)
	}
	player.logger.Info("玩家已断开连接")
}

// dropConnection 断开被重连顶替的旧连接
func (s *GameServer) dropConnection(connID string) {
	s.connMutex.RLock()
	old, ok := s.connections[connID]
	s.connMutex.RUnlock()
	if ok {
		old.Close()
	}
}

// handleMessage 处理接收到的消息
func (s *GameServer) handleMessage(player *PlayerConnection, data []byte) {
	msg, err := player.codec.Decode(data)
	if err != nil {
		player.logger.Debug("解析消息失败", "err", err)
		player.Room.emit(protocol.TypeError, protocol.ErrorEvent{Code: "decode", Message: err.Error()})
		return
	}

	if err := player.Room.HandleMessage(msg); err != nil {
		player.logger.Debug("处理消息失败", "type", msg.Type, "err", err)
		player.Room.emit(protocol.TypeError, protocol.ErrorEvent{Code: "bad_message", Message: err.Error()})
	}
}
