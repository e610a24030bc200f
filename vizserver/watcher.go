package vizserver

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	uuid "github.com/satori/go.uuid"
)

// Watcher is one websocket client of the frame feed
type Watcher struct {
	ID string

	conn   *websocket.Conn
	sendCh chan []byte
	drops  atomic.Uint64

	closeCh   chan struct{}
	closeOnce sync.Once
}

func newWatcher(conn *websocket.Conn, queueSize int) *Watcher {
	return &Watcher{
		ID:      uuid.NewV4().String(),
		conn:    conn,
		sendCh:  make(chan []byte, queueSize),
		closeCh: make(chan struct{}),
	}
}

// Send queues a payload without blocking
// Returns false when the watcher is closed or its queue is full
func (w *Watcher) Send(payload []byte) bool {
	select {
	case <-w.closeCh:
		return false
	default:
	}

	select {
	case w.sendCh <- payload:
		return true
	default:
		w.drops.Add(1)
		return false
	}
}

// Drops returns the number of payloads discarded for a full queue
func (w *Watcher) Drops() uint64 {
	return w.drops.Load()
}

// Close ends both loops and the connection
func (w *Watcher) Close() {
	w.closeOnce.Do(func() {
		close(w.closeCh)
		w.conn.Close()
	})
}

// readLoop discards client messages; it exists to notice the client going away
func (w *Watcher) readLoop() {
	defer w.Close()
	for {
		if _, _, err := w.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writeLoop sends queued payloads and keepalive pings
func (w *Watcher) writeLoop(writeTimeout, pingInterval time.Duration) {
	defer w.Close()

	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-w.closeCh:
			return
		case payload := <-w.sendCh:
			w.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := w.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ping.C:
			deadline := time.Now().Add(writeTimeout)
			if err := w.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		}
	}
}
