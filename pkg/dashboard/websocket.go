package dashboard

import (
	"net/http"
	"sync"
	"time"

	"github.com/AGHusky0611/Vantage-MarketAnalysis/pkg/logger"
	"github.com/gorilla/websocket"
)

// WebSocketMessage represents a message sent over WebSocket
type WebSocketMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// ClientMessage is an inbound message from a browser client.
type ClientMessage struct {
	Type     string `json:"type"`
	Symbol   string `json:"symbol,omitempty"`
	Period   string `json:"period,omitempty"`
	Interval string `json:"interval,omitempty"`
	Overlay  string `json:"overlay,omitempty"`
	Width    int    `json:"width,omitempty"`
	Enabled  bool   `json:"enabled,omitempty"`
}

// ClientHandler consumes inbound client messages.
type ClientHandler func(msg ClientMessage)

// WebSocketManager handles WebSocket connections
type WebSocketManager struct {
	sync.RWMutex
	clients       map[*websocket.Conn]bool
	upgrader      websocket.Upgrader
	broadcastChan chan WebSocketMessage
	onMessage     ClientHandler
	log           logger.Logger
}

// NewWebSocketManager creates a new WebSocket manager
func NewWebSocketManager(log logger.Logger) *WebSocketManager {
	manager := &WebSocketManager{
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		broadcastChan: make(chan WebSocketMessage, 100),
		log:           log,
	}

	go manager.handleBroadcasts()

	return manager
}

// OnMessage sets the handler invoked for every inbound client message.
func (m *WebSocketManager) OnMessage(handler ClientHandler) {
	m.onMessage = handler
}

// Broadcast queues a message for delivery to all connected clients.
func (m *WebSocketManager) Broadcast(msgType string, payload any) {
	m.broadcastChan <- WebSocketMessage{Type: msgType, Payload: payload}
}

// handleBroadcasts processes messages from the broadcast channel
func (m *WebSocketManager) handleBroadcasts() {
	for msg := range m.broadcastChan {
		m.RLock()
		for conn := range m.clients {
			err := conn.WriteJSON(msg)
			if err != nil {
				m.log.WithError(err).Error("failed to send WebSocket message")
				conn.Close()
				// Removal happens in the client handler when the read fails
			}
		}
		m.RUnlock()
	}
}

// HandleWebSocket handles WebSocket connections
func (m *WebSocketManager) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		m.log.WithError(err).Error("failed to upgrade connection to WebSocket")
		return
	}

	m.Lock()
	m.clients[conn] = true
	clientCount := len(m.clients)
	m.Unlock()

	m.log.WithField("clients", clientCount).Info("new WebSocket client connected")

	go m.handleClient(conn)
}

// handleClient processes messages from a client
func (m *WebSocketManager) handleClient(conn *websocket.Conn) {
	defer func() {
		m.Lock()
		delete(m.clients, conn)
		m.log.WithField("clients", len(m.clients)).Info("WebSocket client disconnected")
		m.Unlock()
		conn.Close()
	}()

	conn.SetPingHandler(func(appData string) error {
		return conn.WriteControl(websocket.PongMessage, []byte{}, time.Now().Add(10*time.Second))
	})

	for {
		var msg ClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				m.log.WithError(err).Error("WebSocket read error")
			}
			break
		}

		if m.onMessage != nil {
			m.onMessage(msg)
		}
	}
}
