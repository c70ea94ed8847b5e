package server

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/nanohtml/pkg/html"
	"github.com/vango-dev/nanohtml/pkg/nano"
)

// PreviewMessageType is the type of a message sent to preview clients.
type PreviewMessageType string

const (
	PreviewTypeHTML  PreviewMessageType = "html"
	PreviewTypeError PreviewMessageType = "error"
)

// PreviewMessage answers one nano document sent by a client.
type PreviewMessage struct {
	Type  PreviewMessageType `json:"type"`
	HTML  string             `json:"html,omitempty"`
	Error string             `json:"error,omitempty"`
}

const previewWriteWait = 10 * time.Second

// Preview renders nano documents received over WebSocket connections. Each
// text frame holds a JSON or JSONC document and is answered with a
// PreviewMessage.
type Preview struct {
	transformer *html.Transformer
	logger      *slog.Logger
	maxFrame    int64

	clients  map[*websocket.Conn]bool
	mu       sync.RWMutex
	upgrader websocket.Upgrader
}

// NewPreview creates a preview hub. Frames larger than maxFrame bytes close
// the connection.
func NewPreview(t *html.Transformer, maxFrame int64, logger *slog.Logger) *Preview {
	if logger == nil {
		logger = slog.Default()
	}
	return &Preview{
		transformer: t,
		logger:      logger,
		maxFrame:    maxFrame,
		clients:     make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // local playground
			},
		},
	}
}

// HandleWebSocket upgrades the request and serves the connection until the
// client goes away.
func (p *Preview) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := p.upgrader.Upgrade(w, r, nil)
	if err != nil {
		p.logger.Debug("websocket upgrade failed", "error", err)
		return
	}
	if p.maxFrame > 0 {
		conn.SetReadLimit(p.maxFrame)
	}

	p.mu.Lock()
	p.clients[conn] = true
	p.mu.Unlock()

	p.serve(r.Context(), conn)

	p.mu.Lock()
	delete(p.clients, conn)
	p.mu.Unlock()
	conn.Close()
}

func (p *Preview) serve(ctx context.Context, conn *websocket.Conn) {
	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if kind != websocket.TextMessage {
			continue
		}

		msg := p.render(ctx, data)
		conn.SetWriteDeadline(time.Now().Add(previewWriteWait))
		if err := conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

func (p *Preview) render(ctx context.Context, src []byte) PreviewMessage {
	data, err := nano.DecodeJSONC(src)
	if err != nil {
		return PreviewMessage{Type: PreviewTypeError, Error: err.Error()}
	}
	out, err := p.transformer.Encode(ctx, data)
	if err != nil {
		return PreviewMessage{Type: PreviewTypeError, Error: err.Error()}
	}
	return PreviewMessage{Type: PreviewTypeHTML, HTML: out}
}

// ClientCount returns the number of connected clients.
func (p *Preview) ClientCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.clients)
}

// Close closes all client connections.
func (p *Preview) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for client := range p.clients {
		client.Close()
		delete(p.clients, client)
	}
}
