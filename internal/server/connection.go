package server

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

// Connection wraps one client's WebSocket: a buffered send channel feeding
// writePump, a context cancelled on close, and standard ping/pong keepalive
// constants. Where a richer transport might dispatch on a MessageType
// switch across many lifecycle operations, this version only ever parses
// one inbound shape — the client action envelope — and forwards it to the
// owning table engine.
type Connection struct {
	conn      *websocket.Conn
	send      chan UpdateMessage
	tableID   string
	playerID  string
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.RWMutex
	closeOnce sync.Once
	engine    *TableEngine
	onClose   func()
}

// OnClose registers fn to run once, the first time this connection closes
// — the hook the caller uses to deregister the connection from a SocketSet.
func (c *Connection) OnClose(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onClose = fn
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
	sendBufferSize = 256
)

// NewConnection wraps conn, bound to the engine for tableID.
func NewConnection(conn *websocket.Conn, tableID string, engine *TableEngine, logger *log.Logger) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	if logger == nil {
		logger = log.Default()
	}
	return &Connection{
		conn:    conn,
		send:    make(chan UpdateMessage, sendBufferSize),
		tableID: tableID,
		logger:  logger.WithPrefix("conn"),
		ctx:     ctx,
		cancel:  cancel,
		engine:  engine,
	}
}

// Start launches the read and write pumps.
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close tears the connection down; idempotent.
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
		err = c.conn.Close()
		c.mu.RLock()
		onClose := c.onClose
		c.mu.RUnlock()
		if onClose != nil {
			onClose()
		}
	})
	return err
}

// SendUpdate queues msg for delivery. It returns an error instead of
// blocking when the connection's send buffer is full or already closed, so
// SocketSet.Broadcast can drop dead sockets without stalling.
func (c *Connection) SendUpdate(msg UpdateMessage) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = websocket.ErrCloseSent
		}
	}()

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn("send buffer full, closing connection", "player_id", c.PlayerID())
		_ = c.Close()
		return websocket.ErrCloseSent
	}
}

// SetPlayer records the player_id this socket acts as, taken from the most
// recent action message that carried one.
func (c *Connection) SetPlayer(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playerID = id
}

// PlayerID returns the player_id associated with this socket, if any.
func (c *Connection) PlayerID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playerID
}

func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		var msg ActionMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("read error", "error", err)
			}
			return
		}
		if msg.PlayerID != "" {
			c.SetPlayer(msg.PlayerID)
		}
		c.engine.Enqueue(msg.toActionRequest())
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			msg.Type = "update"
			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.Error("write error", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}
