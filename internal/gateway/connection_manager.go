// Package gateway exposes the engine over HTTP: a JSON API for session
// management, picks, and recommendations, plus a websocket feed that
// pushes pick events to everyone watching a session.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// FeedMessage is one websocket frame: an event type plus its payload.
type FeedMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// ConnectionManager fans events out to the websocket connections
// subscribed to each session.
type ConnectionManager struct {
	mu          sync.RWMutex
	connections map[uuid.UUID]map[*connection]bool

	upgrader    websocket.Upgrader
	config      ConnectionConfig
	broadcastCh chan broadcast
}

type connection struct {
	id        string
	sessionID uuid.UUID
	conn      *websocket.Conn
	send      chan []byte
	manager   *ConnectionManager

	mu     sync.Mutex
	closed bool
}

// trySend queues data for the write pump. Reports false only when the
// buffer is full; a connection already torn down counts as delivered so
// the broadcaster does not close it twice.
func (c *connection) trySend(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return true
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// closeSend closes the send channel exactly once. Sends race with
// teardown from the pumps, so the channel is only touched under the
// connection mutex.
func (c *connection) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

type broadcast struct {
	sessionID uuid.UUID
	message   FeedMessage
}

// ConnectionConfig holds websocket tuning.
type ConnectionConfig struct {
	WriteTimeout    time.Duration
	PongTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	CheckOrigin     func(r *http.Request) bool
}

// DefaultConnectionConfig returns sane defaults.
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		WriteTimeout:    10 * time.Second,
		PongTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  1024,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}
}

// NewConnectionManager creates a manager; call Start to begin fan-out.
func NewConnectionManager(config ConnectionConfig) *ConnectionManager {
	return &ConnectionManager{
		connections: make(map[uuid.UUID]map[*connection]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		config:      config,
		broadcastCh: make(chan broadcast, 256),
	}
}

// Start processes broadcasts until ctx is cancelled.
func (cm *ConnectionManager) Start(ctx context.Context) {
	log.Info().Msg("connection manager started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("connection manager shutting down")
			return
		case b := <-cm.broadcastCh:
			cm.handleBroadcast(b)
		}
	}
}

// Upgrade turns an HTTP request into a managed websocket connection
// subscribed to the given session.
func (cm *ConnectionManager) Upgrade(w http.ResponseWriter, r *http.Request, sessionID uuid.UUID) error {
	ws, err := cm.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("upgrade connection: %w", err)
	}

	c := &connection{
		id:        uuid.New().String(),
		sessionID: sessionID,
		conn:      ws,
		send:      make(chan []byte, 64),
		manager:   cm,
	}
	cm.register(c)

	go c.writePump()
	go c.readPump()

	log.Info().
		Str("connection_id", c.id).
		Str("session_id", sessionID.String()).
		Msg("websocket connection established")
	return nil
}

// Broadcast queues a message for every connection on a session. Drops
// the message when the fan-out queue is full.
func (cm *ConnectionManager) Broadcast(sessionID uuid.UUID, msg FeedMessage) {
	select {
	case cm.broadcastCh <- broadcast{sessionID: sessionID, message: msg}:
	default:
		log.Warn().Str("session_id", sessionID.String()).Msg("broadcast channel full, dropping message")
	}
}

// Stats reports connection counts for the health/stats endpoint.
func (cm *ConnectionManager) Stats() (totalConnections, activeSessions int) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	for _, conns := range cm.connections {
		totalConnections += len(conns)
	}
	return totalConnections, len(cm.connections)
}

func (cm *ConnectionManager) register(c *connection) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	if cm.connections[c.sessionID] == nil {
		cm.connections[c.sessionID] = make(map[*connection]bool)
	}
	cm.connections[c.sessionID][c] = true
}

func (cm *ConnectionManager) unregister(c *connection) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	conns, ok := cm.connections[c.sessionID]
	if !ok {
		return
	}
	if _, ok := conns[c]; ok {
		delete(conns, c)
		c.closeSend()
		if len(conns) == 0 {
			delete(cm.connections, c.sessionID)
		}
	}
}

func (cm *ConnectionManager) handleBroadcast(b broadcast) {
	cm.mu.RLock()
	var targets []*connection
	for c := range cm.connections[b.sessionID] {
		targets = append(targets, c)
	}
	cm.mu.RUnlock()

	if len(targets) == 0 {
		return
	}

	data, err := json.Marshal(b.message)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal feed message")
		return
	}

	for _, c := range targets {
		if c.trySend(data) {
			continue
		}
		// Slow consumer; cut it loose.
		log.Warn().Str("connection_id", c.id).Msg("send buffer full, closing connection")
		cm.unregister(c)
		c.conn.Close()
	}
}

func (c *connection) writePump() {
	ticker := time.NewTicker(c.manager.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		c.manager.unregister(c)
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.manager.config.WriteTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Debug().Err(err).Str("connection_id", c.id).Msg("websocket write failed")
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.manager.config.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drains the connection so pings/pongs and close frames are
// processed; the feed is one-directional.
func (c *connection) readPump() {
	defer func() {
		c.manager.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(c.manager.config.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.manager.config.PongTimeout))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.manager.config.PongTimeout))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
