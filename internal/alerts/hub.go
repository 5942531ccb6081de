package alerts

import (
	"sync"

	"github.com/wonny/callsight/pkg/logger"
)

// Hub fans alerts out to live subscribers and keeps the recent feed
// for late joiners.
// SSOT: 알림 배포는 이 허브에서만
type Hub struct {
	logger *logger.Logger

	mu   sync.RWMutex
	subs map[chan Alert]struct{}
	feed []Alert // newest first, capped at FeedCap
}

// NewHub creates a new alert hub
func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		logger: log,
		subs:   make(map[chan Alert]struct{}),
	}
}

// Subscribe registers a listener. The returned cancel func must be
// called when the listener goes away. Slow listeners drop alerts
// rather than block the hub.
func (h *Hub) Subscribe() (<-chan Alert, func()) {
	ch := make(chan Alert, FeedCap)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
		h.mu.Unlock()
	}

	return ch, cancel
}

// Publish prepends an alert to the feed and broadcasts it.
func (h *Hub) Publish(alert Alert) {
	h.mu.Lock()
	h.feed = append([]Alert{alert}, h.feed...)
	if len(h.feed) > FeedCap {
		h.feed = h.feed[:FeedCap]
	}

	dropped := 0
	for ch := range h.subs {
		select {
		case ch <- alert:
		default:
			dropped++
		}
	}
	h.mu.Unlock()

	if dropped > 0 {
		h.logger.WithField("dropped", dropped).Warn("Slow alert subscribers dropped a message")
	}
}

// PublishBatch prepends a batch of alerts, newest first, keeping batch
// order. Used when real flow events arrive alongside the mock feed.
func (h *Hub) PublishBatch(batch []Alert) {
	// Publish in reverse so batch[0] ends up newest.
	for i := len(batch) - 1; i >= 0; i-- {
		h.Publish(batch[i])
	}
}

// Recent returns a copy of the feed, newest first.
func (h *Hub) Recent() []Alert {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]Alert, len(h.feed))
	copy(out, h.feed)
	return out
}

// Subscribers returns the current listener count.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
