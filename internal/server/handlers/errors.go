package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/lantabur/internal/datefmt"
	"github.com/mamadbah2/lantabur/internal/domain/models"
	"github.com/mamadbah2/lantabur/internal/service/extraction"
	"github.com/mamadbah2/lantabur/internal/service/filter"
	"github.com/mamadbah2/lantabur/internal/service/records"
	"github.com/mamadbah2/lantabur/internal/service/reporting"
	"github.com/mamadbah2/lantabur/internal/service/whatsapp"
	"github.com/mamadbah2/lantabur/internal/settings"
	waclient "github.com/mamadbah2/lantabur/pkg/clients/whatsapp"
)

// maxUploadBytes bounds the size of an uploaded report document.
const maxUploadBytes = 20 << 20

var errBadRequest = errors.New("bad request")

func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound), errors.Is(err, whatsapp.ErrNoRecords):
		return http.StatusNotFound
	case errors.Is(err, errBadRequest),
		errors.Is(err, records.ErrInvalidRecord),
		errors.Is(err, extraction.ErrUnsupportedFileType),
		errors.Is(err, extraction.ErrEmptyDocument),
		errors.Is(err, settings.ErrInvalidTheme),
		errors.Is(err, settings.ErrInvalidAccent),
		errors.Is(err, whatsapp.ErrNoRecipient):
		return http.StatusBadRequest
	case errors.Is(err, waclient.ErrMessageTooLong):
		return http.StatusUnprocessableEntity
	case errors.Is(err, extraction.ErrExtractionDisabled), errors.Is(err, whatsapp.ErrDisabled):
		return http.StatusServiceUnavailable
	case errors.Is(err, extraction.ErrMalformedResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as a JSON error body. Server side failures are
// logged and reported with msg instead of the raw error.
func respondError(c *gin.Context, logger *zap.Logger, err error, msg string) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error(msg, zap.Error(err), zap.String("path", c.FullPath()))
		c.JSON(status, gin.H{"error": msg})
		return
	}
	logger.Warn(msg, zap.Error(err), zap.Int("status", status))
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

// criteriaFromQuery reads q, start and end. Bounds accept any date the
// normalizer understands, typically 2006-01-02 from a date input.
func criteriaFromQuery(c *gin.Context) (filter.Criteria, error) {
	criteria := filter.Criteria{SearchText: strings.TrimSpace(c.Query("q"))}
	for key, dst := range map[string]**time.Time{"start": &criteria.Start, "end": &criteria.End} {
		raw := strings.TrimSpace(c.Query(key))
		if raw == "" {
			continue
		}
		t, err := datefmt.Parse(raw)
		if err != nil {
			return filter.Criteria{}, badRequest("invalid %s date %q", key, raw)
		}
		*dst = &t
	}
	return criteria, nil
}

func scopeFromQuery(c *gin.Context) (reporting.Scope, error) {
	scope, err := reporting.ParseScope(c.Query("scope"))
	if err != nil {
		return "", badRequest("%v", err)
	}
	return scope, nil
}

// documentFromForm reads the multipart "file" field.
func documentFromForm(c *gin.Context) (extraction.Document, error) {
	header, err := c.FormFile("file")
	if err != nil {
		return extraction.Document{}, badRequest("multipart field \"file\" is required")
	}
	if header.Size > maxUploadBytes {
		return extraction.Document{}, badRequest("file exceeds %d MB", maxUploadBytes>>20)
	}
	f, err := header.Open()
	if err != nil {
		return extraction.Document{}, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
	if err != nil {
		return extraction.Document{}, fmt.Errorf("read upload: %w", err)
	}
	return extraction.Document{
		Name:     header.Filename,
		MimeType: header.Header.Get("Content-Type"),
		Data:     data,
	}, nil
}

func attachment(c *gin.Context, name, contentType string, body []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, contentType, body)
}
