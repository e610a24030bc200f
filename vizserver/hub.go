package vizserver

import (
	"encoding/json"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/lixenwraith/flocking-geese/engine"
)

// Hub fans published frames out to every watcher
// Publish never blocks on a slow client; that client's frames are dropped
// Frames are encoded only once someone reads them
type Hub struct {
	log *zap.Logger

	mu       sync.Mutex
	watchers map[string]*Watcher
	frame    *engine.Frame // latest published frame
	encoded  []byte        // frame message for frame, nil until needed
	encodes  uint64
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		log:      log,
		watchers: make(map[string]*Watcher),
	}
}

// Publish implements engine.FrameObserver
func (h *Hub) Publish(f engine.Frame) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.frame, h.encoded = &f, nil
	if len(h.watchers) == 0 {
		return
	}

	payload, err := h.encodeLatest()
	if err != nil {
		h.log.Error("encode viz frame", zap.Error(err), zap.Uint64("seq", f.Seq))
		return
	}
	for _, w := range h.watchers {
		if !w.Send(payload) {
			if n := w.Drops(); n == 1 || n%100 == 0 {
				h.log.Debug("viz watcher lagging", zap.String("watcher", w.ID), zap.Uint64("drops", n))
			}
		}
	}
}

// Latest returns the most recent frame message, nil before the first Publish
func (h *Hub) Latest() ([]byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.encodeLatest()
}

// encodeLatest returns the cached frame message, encoding it on first use
// Caller holds mu
func (h *Hub) encodeLatest() ([]byte, error) {
	if h.encoded != nil || h.frame == nil {
		return h.encoded, nil
	}
	payload, err := encodeMessage(MessageFrame, NewFrameData(*h.frame))
	if err != nil {
		return nil, err
	}
	h.encoded = payload
	h.encodes++
	return payload, nil
}

// Count returns the number of connected watchers
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.watchers)
}

// add registers w and queues the init message carrying the latest frame
func (h *Hub) add(w *Watcher) error {
	h.mu.Lock()
	var data *FrameData
	if h.frame != nil {
		data = NewFrameData(*h.frame)
	}
	init, err := encodeMessage(MessageInit, data)
	if err != nil {
		h.mu.Unlock()
		return err
	}
	w.Send(init)
	h.watchers[w.ID] = w
	n := len(h.watchers)
	h.mu.Unlock()
	h.log.Info("viz watcher joined", zap.String("watcher", w.ID), zap.Int("watchers", n))
	return nil
}

func (h *Hub) remove(w *Watcher) {
	h.mu.Lock()
	delete(h.watchers, w.ID)
	n := len(h.watchers)
	h.mu.Unlock()
	h.log.Info("viz watcher left", zap.String("watcher", w.ID), zap.Int("watchers", n), zap.Uint64("drops", w.Drops()))
}

// closeAll disconnects every watcher
func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, w := range h.watchers {
		w.Close()
	}
}

func encodeMessage(typ string, data *FrameData) ([]byte, error) {
	payload, err := json.Marshal(Message{Type: typ, Data: data})
	if err != nil {
		return nil, errors.Wrapf(err, "marshal %s message", typ)
	}
	return payload, nil
}
