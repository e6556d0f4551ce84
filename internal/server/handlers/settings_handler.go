package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/lantabur/internal/settings"
)

// SettingsService reads and writes the dashboard preferences.
type SettingsService interface {
	Get(ctx context.Context) (settings.View, error)
	Update(ctx context.Context, next settings.Settings) (settings.View, error)
}

// SettingsHandler serves the appearance preferences.
type SettingsHandler struct {
	svc    SettingsService
	logger *zap.Logger
}

// NewSettingsHandler constructs the HTTP handler adapter.
func NewSettingsHandler(svc SettingsService, logger *zap.Logger) *SettingsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsHandler{svc: svc, logger: logger}
}

// Get returns the stored preferences with the available choices.
func (h *SettingsHandler) Get(c *gin.Context) {
	view, err := h.svc.Get(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "failed to load settings")
		return
	}
	c.JSON(http.StatusOK, view)
}

// Update validates and stores new preferences.
func (h *SettingsHandler) Update(c *gin.Context) {
	var next settings.Settings
	if err := c.ShouldBindJSON(&next); err != nil {
		respondError(c, h.logger, badRequest("invalid request body"), "invalid settings payload")
		return
	}
	view, err := h.svc.Update(c.Request.Context(), next)
	if err != nil {
		respondError(c, h.logger, err, "failed to save settings")
		return
	}
	c.JSON(http.StatusOK, view)
}
