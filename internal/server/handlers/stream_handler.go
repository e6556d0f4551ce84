package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/lantabur/internal/domain/models"
	"github.com/mamadbah2/lantabur/internal/realtime"
)

const heartbeatInterval = 30 * time.Second

// SnapshotSource loads the current content of each streamable collection.
type SnapshotSource interface {
	AllProduction(ctx context.Context) ([]models.ProductionRecord, error)
	AllRFT(ctx context.Context) ([]models.RFTReportRecord, error)
}

// Subscriptions hands out realtime subscriptions.
type Subscriptions interface {
	Subscribe(collection string) *realtime.Subscription
	Unsubscribe(sub *realtime.Subscription)
	Subscribers(collection string) int
}

// StreamHandler pushes collection snapshots over server-sent events.
type StreamHandler struct {
	source    SnapshotSource
	hub       Subscriptions
	logger    *zap.Logger
	heartbeat time.Duration
}

// NewStreamHandler constructs the SSE handler.
func NewStreamHandler(source SnapshotSource, hub Subscriptions, logger *zap.Logger) *StreamHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StreamHandler{source: source, hub: hub, logger: logger, heartbeat: heartbeatInterval}
}

// Stream sends the current snapshot of :collection, then every published
// snapshot until the client goes away.
// GET /api/stream/:collection
func (h *StreamHandler) Stream(c *gin.Context) {
	collection := c.Param("collection")
	if !realtime.ValidCollection(collection) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown collection"})
		return
	}

	// Subscribe before loading so no write falls between the two.
	sub := h.hub.Subscribe(collection)
	defer h.hub.Unsubscribe(sub)

	initial, err := h.load(c.Request.Context(), collection)
	if err != nil {
		respondError(c, h.logger, err, "failed to load snapshot")
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	c.SSEvent("snapshot", realtime.Snapshot{Collection: collection, Records: initial, At: time.Now().UTC()})
	c.Writer.Flush()
	h.logger.Info("stream opened",
		zap.String("collection", collection),
		zap.String("id", sub.ID),
		zap.Int("subscribers", h.hub.Subscribers(collection)))

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	clientGone := c.Request.Context().Done()
	for {
		select {
		case <-clientGone:
			h.logger.Debug("stream client disconnected", zap.String("id", sub.ID))
			return
		case snap, ok := <-sub.Updates():
			if !ok {
				return
			}
			c.SSEvent("snapshot", snap)
			c.Writer.Flush()
		case <-heartbeat.C:
			_, _ = c.Writer.WriteString(": keepalive\n\n")
			c.Writer.Flush()
		}
	}
}

func (h *StreamHandler) load(ctx context.Context, collection string) (any, error) {
	if collection == realtime.CollectionRFT {
		return h.source.AllRFT(ctx)
	}
	return h.source.AllProduction(ctx)
}
