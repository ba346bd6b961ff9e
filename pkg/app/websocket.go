package app

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/haierkeys/fast-note-keeper/pkg/code"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/lxzan/gws"
	"go.uber.org/zap"
)

const (
	WebSocketServerPingInterval = 25 * time.Second
	WebSocketServerPingWait     = 40 * time.Second
)

// WebSocketMessage incoming frame "Type|json"
// WebSocketMessage 客户端消息，格式为 "Type|json"
type WebSocketMessage struct {
	Type string `json:"type"`
	Data []byte `json:"data"`
}

type WebsocketServerConfig struct {
	GWSOption    gws.ServerOption
	PingInterval time.Duration
	PingWait     time.Duration
}

// ResResult websocket 响应结构
type ResResult struct {
	Code    int         `json:"code"`
	Status  bool        `json:"status"`
	Msg     string      `json:"msg"`
	Data    interface{} `json:"data,omitempty"`
	Details string      `json:"details,omitempty"`
}

// WebsocketClient 结构体来存储每个 WebSocket 连接及其相关状态
type WebsocketClient struct {
	conn *gws.Conn
	done chan struct{}
	once sync.Once
	Lang string
}

// 定期发送 Ping 消息
func (c *WebsocketClient) PingLoop(interval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			if err := c.conn.WritePing(nil); err != nil {
				logger.Warn("websocket ping failed", zap.Error(err))
				return
			}
		}
	}
}

func (c *WebsocketClient) stop() {
	c.once.Do(func() { close(c.done) })
}

// ToResponse 将结果转换为 JSON 格式并发送给客户端
func (c *WebsocketClient) ToResponse(codeObj *code.Code, action string) error {
	payload, err := encodeFrame(action, toResResult(codeObj, c.Lang))
	if err != nil {
		return err
	}
	return c.conn.WriteMessage(gws.OpcodeText, payload)
}

func toResResult(codeObj *code.Code, language string) ResResult {
	res := ResResult{
		Code:   codeObj.Code(),
		Status: codeObj.Status(),
		Msg:    codeObj.Lang.GetMessageFor(language),
		Data:   codeObj.Data(),
	}
	if codeObj.HaveDetails() {
		res.Details = strings.Join(codeObj.Details(), ",")
	}
	return res
}

func encodeFrame(action string, content any) ([]byte, error) {
	body, err := sonic.Marshal(content)
	if err != nil {
		return nil, err
	}
	if action == "" {
		return body, nil
	}
	return []byte(fmt.Sprintf(`%s|%s`, action, body)), nil
}

// ------------------------------------> WebsocketServer

type WebsocketServer struct {
	handlers map[string]func(*WebsocketClient, *WebSocketMessage)
	clients  map[*gws.Conn]*WebsocketClient
	mu       sync.RWMutex
	up       *gws.Upgrader
	config   *WebsocketServerConfig
	logger   *zap.Logger
}

func NewWebsocketServer(c WebsocketServerConfig, logger *zap.Logger) *WebsocketServer {
	if c.PingInterval == 0 {
		c.PingInterval = WebSocketServerPingInterval
	}
	if c.PingWait == 0 {
		c.PingWait = WebSocketServerPingWait
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	wss := &WebsocketServer{
		handlers: make(map[string]func(*WebsocketClient, *WebSocketMessage)),
		clients:  make(map[*gws.Conn]*WebsocketClient),
		config:   &c,
		logger:   logger,
	}
	wss.up = gws.NewUpgrader(wss, &wss.config.GWSOption)
	return wss
}

// Run upgrades the request and starts the read loop
// Run 升级 HTTP 连接并启动读循环
func (w *WebsocketServer) Run() gin.HandlerFunc {
	return func(c *gin.Context) {
		socket, err := w.up.Upgrade(c.Writer, c.Request)
		if err != nil {
			w.logger.Error("websocket upgrade failed", zap.Error(err))
			return
		}
		client := &WebsocketClient{conn: socket, done: make(chan struct{}), Lang: GetLang(c)}
		w.addClient(client)
		go client.PingLoop(w.config.PingInterval, w.logger)
		go socket.ReadLoop()
	}
}

// Use registers a handler for an incoming message type
// Use 注册消息类型处理器
func (w *WebsocketServer) Use(action string, handler func(*WebsocketClient, *WebSocketMessage)) {
	w.handlers[action] = handler
}

// Broadcast sends codeObj as an "action|json" frame to every connected client
// Broadcast 以 "action|json" 格式向所有连接广播
func (w *WebsocketServer) Broadcast(action string, codeObj *code.Code) error {
	w.mu.RLock()
	clients := make([]*WebsocketClient, 0, len(w.clients))
	for _, c := range w.clients {
		clients = append(clients, c)
	}
	w.mu.RUnlock()

	if len(clients) == 0 {
		return nil
	}

	// 按语言分组，每种语言只编码一次
	byLang := make(map[string][]*WebsocketClient)
	for _, c := range clients {
		byLang[c.Lang] = append(byLang[c.Lang], c)
	}

	for language, group := range byLang {
		payload, err := encodeFrame(action, toResResult(codeObj, language))
		if err != nil {
			return err
		}
		b := gws.NewBroadcaster(gws.OpcodeText, payload)
		for _, c := range group {
			_ = b.Broadcast(c.conn)
		}
		_ = b.Close()
	}
	return nil
}

// Count 当前连接数
func (w *WebsocketServer) Count() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.clients)
}

// CloseAll closes every connection, used on shutdown
// CloseAll 关闭所有连接，用于停机
func (w *WebsocketServer) CloseAll() {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for conn := range w.clients {
		_ = conn.WriteClose(1001, []byte("ServerShutdown"))
	}
}

func (w *WebsocketServer) getClient(conn *gws.Conn) *WebsocketClient {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.clients[conn]
}

func (w *WebsocketServer) addClient(c *WebsocketClient) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.clients[c.conn] = c
}

func (w *WebsocketServer) removeClient(conn *gws.Conn) *WebsocketClient {
	w.mu.Lock()
	defer w.mu.Unlock()
	c := w.clients[conn]
	delete(w.clients, conn)
	return c
}

func (w *WebsocketServer) OnOpen(conn *gws.Conn) {
	_ = conn.SetDeadline(time.Now().Add(w.config.PingWait))
	w.logger.Info("websocket client connect", zap.Int("count", w.Count()))
}

func (w *WebsocketServer) OnClose(conn *gws.Conn, err error) {
	if c := w.removeClient(conn); c != nil {
		c.stop()
	}
	w.logger.Info("websocket client leave", zap.Int("count", w.Count()), zap.NamedError("reason", err))
}

func (w *WebsocketServer) OnPing(socket *gws.Conn, payload []byte) {
	_ = socket.SetDeadline(time.Now().Add(w.config.PingWait))
	_ = socket.WritePong(nil)
}

func (w *WebsocketServer) OnPong(socket *gws.Conn, payload []byte) {
	_ = socket.SetDeadline(time.Now().Add(w.config.PingWait))
}

func (w *WebsocketServer) OnMessage(conn *gws.Conn, message *gws.Message) {
	defer message.Close()
	if message.Opcode != gws.OpcodeText {
		return
	}
	messageStr := message.Data.String()
	if messageStr == "close" {
		_ = conn.WriteClose(1000, []byte("ClientClose"))
		return
	}

	c := w.getClient(conn)
	if c == nil {
		return
	}

	var msg WebSocketMessage
	if index := strings.Index(messageStr, "|"); index != -1 {
		msg.Type = messageStr[:index]
		msg.Data = []byte(messageStr[index+1:])
	} else {
		msg.Type = messageStr
	}

	handler, exists := w.handlers[msg.Type]
	if !exists {
		w.logger.Warn("websocket unknown message type", zap.String("type", msg.Type))
		_ = c.ToResponse(code.ErrorInvalidParams.WithDetails("unknown message type"), msg.Type)
		return
	}
	handler(c, &msg)
}
