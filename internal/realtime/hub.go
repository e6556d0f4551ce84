// Package realtime fans record snapshots out to live subscribers.
package realtime

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/lantabur/internal/metrics"
)

// Collections that can be subscribed to.
const (
	CollectionProduction = "production_records"
	CollectionRFT        = "rft_records"
)

// ValidCollection reports whether name is a streamable collection.
func ValidCollection(name string) bool {
	return name == CollectionProduction || name == CollectionRFT
}

// Snapshot is the full content of a collection at one point in time.
type Snapshot struct {
	Collection string    `json:"collection"`
	Records    any       `json:"records"`
	At         time.Time `json:"at"`
}

// Subscription receives the snapshots of one collection. Only the most
// recent undelivered snapshot is kept.
type Subscription struct {
	ID         string
	Collection string
	updates    chan Snapshot
}

// Updates is closed when the subscription is removed from the hub.
func (s *Subscription) Updates() <-chan Snapshot { return s.updates }

// Hub tracks subscriptions per collection.
type Hub struct {
	pubMu   sync.Mutex
	mu      sync.RWMutex
	subs    map[string]map[string]*Subscription
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewHub creates an empty hub.
func NewHub(m *metrics.Metrics, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		subs:    make(map[string]map[string]*Subscription),
		metrics: m,
		logger:  logger,
	}
}

// Subscribe registers a new subscriber for collection.
func (h *Hub) Subscribe(collection string) *Subscription {
	sub := &Subscription{
		ID:         uuid.NewString(),
		Collection: collection,
		updates:    make(chan Snapshot, 1),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[collection] == nil {
		h.subs[collection] = make(map[string]*Subscription)
	}
	h.subs[collection][sub.ID] = sub
	h.metrics.SubscriberDelta(1)
	h.logger.Debug("subscriber registered",
		zap.String("collection", collection),
		zap.String("id", sub.ID),
		zap.Int("total", len(h.subs[collection])))
	return sub
}

// Unsubscribe removes sub and closes its channel. Calling it twice is a no-op.
func (h *Hub) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	subs := h.subs[sub.Collection]
	if _, ok := subs[sub.ID]; !ok {
		return
	}
	delete(subs, sub.ID)
	close(sub.updates)
	h.metrics.SubscriberDelta(-1)
	h.logger.Debug("subscriber removed",
		zap.String("collection", sub.Collection),
		zap.String("id", sub.ID),
		zap.Int("total", len(subs)))
}

// Publish delivers records to every subscriber of collection without
// blocking. A subscriber that has not consumed its previous snapshot gets it
// replaced by this one. Publishes are serialized so a subscriber never ends
// up holding an older snapshot than one already delivered.
func (h *Hub) Publish(collection string, records any) {
	h.pubMu.Lock()
	defer h.pubMu.Unlock()
	snap := Snapshot{Collection: collection, Records: records, At: time.Now().UTC()}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sub := range h.subs[collection] {
		select {
		case sub.updates <- snap:
			continue
		default:
		}
		// Replace the stale snapshot. The subscriber may read it first.
		select {
		case <-sub.updates:
		default:
		}
		select {
		case sub.updates <- snap:
		default:
			h.logger.Debug("subscriber busy, snapshot skipped", zap.String("id", sub.ID))
		}
	}
}

// Subscribers returns the number of live subscribers of collection.
func (h *Hub) Subscribers(collection string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[collection])
}
