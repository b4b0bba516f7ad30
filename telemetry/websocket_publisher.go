package telemetry

import (
	"bytes"
	"sync"

	"github.com/andybalholm/brotli"
	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// WebSocketPublisher encodes each Snapshot as JSON (via json-iterator/go for
// the lower per-message allocation cost under a tight publish interval),
// optionally brotli-compresses it, and fans it out to every currently
// connected client over github.com/gorilla/websocket. Grounded on the
// teacher's loggingObserver (observability.go), which encodes a summary to
// JSON each work group; this generalizes that single-writer encode into a
// multi-client broadcast.
type WebSocketPublisher struct {
	mu       sync.Mutex
	conns    map[*websocket.Conn]struct{}
	compress bool
}

// NewWebSocketPublisher constructs a publisher. When compress is true,
// every payload is brotli-compressed before being written as a binary
// frame; otherwise payloads are written as JSON text frames.
func NewWebSocketPublisher(compress bool) *WebSocketPublisher {
	return &WebSocketPublisher{conns: make(map[*websocket.Conn]struct{}), compress: compress}
}

// AddConn registers a client connection to receive future snapshots. The
// caller owns the connection's upgrade handshake; this only takes over
// writes.
func (p *WebSocketPublisher) AddConn(conn *websocket.Conn) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.conns[conn] = struct{}{}
}

// RemoveConn stops publishing to conn and closes it.
func (p *WebSocketPublisher) RemoveConn(conn *websocket.Conn) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.conns[conn]; ok {
		delete(p.conns, conn)
		_ = conn.Close()
	}
}

// Publish broadcasts snapshot to every connected client, dropping (and
// removing) any connection whose write fails.
func (p *WebSocketPublisher) Publish(snapshot Snapshot) error {
	payload, err := jsonAPI.Marshal(snapshot)
	if err != nil {
		return errors.Wrap(err, "telemetry: marshal snapshot")
	}

	msgType := websocket.TextMessage
	if p.compress {
		payload, err = brotliCompress(payload)
		if err != nil {
			return errors.Wrap(err, "telemetry: compress snapshot")
		}
		msgType = websocket.BinaryMessage
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for conn := range p.conns {
		if err := conn.WriteMessage(msgType, payload); err != nil {
			delete(p.conns, conn)
			_ = conn.Close()
		}
	}
	return nil
}

// Close disconnects every client.
func (p *WebSocketPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for conn := range p.conns {
		_ = conn.Close()
		delete(p.conns, conn)
	}
	return nil
}

func brotliCompress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := brotli.NewWriterLevel(&buf, brotli.DefaultCompression)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
