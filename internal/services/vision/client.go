package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"inkcast/internal/panels"
	"inkcast/internal/resilience"
	"inkcast/internal/services"
	"inkcast/internal/story"
)

const defaultHTTPTimeout = 60 * time.Second

// Config captures the runtime settings for the vision API.
type Config struct {
	APIKey            string
	BaseURL           string
	Model             string
	FallbackModel     string
	TimeoutSeconds    int
	MaxAttempts       int
	FallbackAfter     int
	RequestsPerMinute int
}

// Client talks to the panel analysis endpoint.
type Client struct {
	cfg        Config
	httpClient *http.Client
	limiter    *rate.Limiter
	runner     *resilience.Runner
	logger     *slog.Logger
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRunner overrides the retry runner. Intended for tests.
func WithRunner(runner *resilience.Runner) Option {
	return func(c *Client) {
		if runner != nil {
			c.runner = runner
		}
	}
}

// NewClient constructs a vision client from configuration.
func NewClient(cfg Config, logger *slog.Logger, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	perMinute := cfg.RequestsPerMinute
	if perMinute <= 0 {
		perMinute = 30
	}
	client := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), perMinute),
		runner:     resilience.NewRunner(resilience.DefaultPolicy(cfg.MaxAttempts, cfg.FallbackAfter), logger),
		logger:     logger,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

type analyzeRequest struct {
	Model   string `json:"model"`
	Image   string `json:"image"`
	Context string `json:"context"`
	Caption string `json:"caption,omitempty"`
}

type analyzeResponse struct {
	Model   string `json:"model"`
	Content string `json:"content"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Analyze submits one panel together with the current story context and
// returns the model's structured reading of it. After enough transient
// failures the request switches to the configured fallback model.
func (c *Client) Analyze(ctx context.Context, panel panels.Panel, contextSummary string) (*story.VisualAnalysis, error) {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "vision", "analyze", "api key required", nil)
	}
	image, err := panel.ReadImage()
	if err != nil {
		return nil, err
	}

	var analysis *story.VisualAnalysis
	err = c.runner.Run(ctx, fmt.Sprintf("analyze panel %d", panel.Index), func(ctx context.Context, attempt resilience.Attempt) error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		model := c.cfg.Model
		if attempt.Fallback && c.cfg.FallbackModel != "" {
			model = c.cfg.FallbackModel
		}
		result, err := c.analyzeOnce(ctx, model, panel, image, contextSummary)
		if err != nil {
			return err
		}
		analysis = result
		return nil
	})
	if err != nil {
		return nil, err
	}
	analysis.PanelIndex = panel.Index
	return analysis, nil
}

func (c *Client) analyzeOnce(ctx context.Context, model string, panel panels.Panel, image []byte, contextSummary string) (*story.VisualAnalysis, error) {
	payload := analyzeRequest{
		Model:   model,
		Image:   base64.StdEncoding.EncodeToString(image),
		Context: contextSummary,
		Caption: panel.Caption,
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, services.Wrap(services.ErrFatal, "vision", "analyze", "encode request", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(encoded))
	if err != nil {
		return nil, services.Wrap(services.ErrFatal, "vision", "analyze", "build request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "vision", "analyze", "http error", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "vision", "analyze", "read body", err)
	}
	if marker := services.MarkerForStatus(resp.StatusCode); marker != nil {
		return nil, services.Wrap(marker, "vision", "analyze",
			fmt.Sprintf("http %d: %s", resp.StatusCode, snippet(body)), nil)
	}

	var decoded analyzeResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, services.Wrap(services.ErrTransient, "vision", "analyze", "decode response", err)
	}
	if decoded.Error != nil {
		return nil, services.Wrap(services.ErrTransient, "vision", "analyze",
			"api error: "+strings.TrimSpace(decoded.Error.Message), nil)
	}

	var analysis story.VisualAnalysis
	if err := DecodeModelJSON(decoded.Content, &analysis); err != nil {
		// Malformed model output tends to clear up on retry.
		return nil, services.Wrap(services.ErrTransient, "vision", "analyze", "parse analysis", err)
	}
	return &analysis, nil
}

func snippet(body []byte) string {
	clean := strings.Join(strings.Fields(string(body)), " ")
	const limit = 160
	if len(clean) > limit {
		return clean[:limit] + "..."
	}
	return clean
}
