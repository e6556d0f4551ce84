package anthropic

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	defaultBaseURL = "https://api.anthropic.com"
	messagesPath   = "/v1/messages"
	apiVersion     = "2023-06-01"
	defaultModel   = "claude-3-5-sonnet-20241022"
	maxTokens      = 4096
)

// ErrEmptyResponse is returned when the model answers without any text.
var ErrEmptyResponse = errors.New("empty response from ai")

// Client extracts structured JSON from documents.
type Client interface {
	ExtractJSON(ctx context.Context, req ExtractionRequest) ([]byte, error)
}

// ExtractionRequest is one document and the instructions to read it with.
type ExtractionRequest struct {
	SystemPrompt string
	Prompt       string
	Document     []byte
	MimeType     string
}

// Config holds the client options. Zero values fall back to defaults.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

type anthropicClient struct {
	httpClient *resty.Client
	model      string
	logger     *zap.Logger
}

// NewClient creates a configured Anthropic client.
func NewClient(cfg Config, logger *zap.Logger) Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("x-api-key", cfg.APIKey).
		SetHeader("anthropic-version", apiVersion).
		SetHeader("content-type", "application/json").
		SetTimeout(cfg.Timeout)

	return &anthropicClient{httpClient: client, model: cfg.Model, logger: logger}
}

type messageRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type   string       `json:"type"`
	Text   string       `json:"text,omitempty"`
	Source *blockSource `json:"source,omitempty"`
}

type blockSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type messageResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

type errorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// ExtractJSON sends the document with the prompt and returns the JSON object
// the model answered with.
func (c *anthropicClient) ExtractJSON(ctx context.Context, req ExtractionRequest) ([]byte, error) {
	doc := contentBlock{
		Type: "image",
		Source: &blockSource{
			Type:      "base64",
			MediaType: req.MimeType,
			Data:      base64.StdEncoding.EncodeToString(req.Document),
		},
	}
	if req.MimeType == "application/pdf" {
		doc.Type = "document"
	}

	reqBody := messageRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		System:    req.SystemPrompt,
		Messages: []message{
			{Role: "user", Content: []contentBlock{doc, {Type: "text", Text: req.Prompt}}},
			// Prefill the assistant response to force JSON
			{Role: "assistant", Content: []contentBlock{{Type: "text", Text: "{"}}},
		},
	}

	var respBody messageResponse
	var apiErr errorResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(reqBody).
		SetResult(&respBody).
		SetError(&apiErr).
		Post(messagesPath)
	if err != nil {
		return nil, fmt.Errorf("anthropic api call: %w", err)
	}
	if resp.IsError() {
		if apiErr.Error.Message != "" {
			return nil, fmt.Errorf("anthropic api error (%d %s): %s", resp.StatusCode(), apiErr.Error.Type, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("anthropic api error: %s", resp.String())
	}

	var text strings.Builder
	for _, block := range respBody.Content {
		if block.Type == "" || block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return nil, ErrEmptyResponse
	}

	c.logger.Debug("extraction response received",
		zap.String("stop_reason", respBody.StopReason),
		zap.Int("chars", text.Len()),
		zap.Duration("elapsed", resp.Time()))

	return []byte(CleanJSON("{" + text.String())), nil
}

// CleanJSON strips the markdown fences the model sometimes wraps JSON in.
func CleanJSON(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "{```") {
		text = strings.TrimPrefix(text, "{")
	}
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}
	return strings.TrimSpace(text)
}
