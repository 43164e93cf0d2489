package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"inkcast/internal/resilience"
	"inkcast/internal/services"
)

const defaultHTTPTimeout = 30 * time.Second

// wordsPerSecond approximates a narration reading pace for duration
// estimates when the service does not report one.
const wordsPerSecond = 2.5

// Config captures the runtime settings for the speech API.
type Config struct {
	APIKey            string
	BaseURL           string
	OutputFormat      string
	TimeoutSeconds    int
	MaxAttempts       int
	RequestsPerMinute int
}

// Request is one synthesis unit.
type Request struct {
	Text    string
	VoiceID string
	Engine  string
}

// Result is the synthesized audio for one request.
type Result struct {
	Audio    []byte
	Format   string
	Engine   string
	VoiceID  string
	Duration time.Duration
}

// Client talks to the synthesis endpoint.
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

// NewClient constructs a speech client from configuration.
func NewClient(cfg Config, logger *slog.Logger, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	perMinute := cfg.RequestsPerMinute
	if perMinute <= 0 {
		perMinute = 60
	}
	client := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), perMinute),
		runner:     resilience.NewRunner(resilience.DefaultPolicy(cfg.MaxAttempts, 0), logger),
		logger:     logger,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

type synthesizeRequest struct {
	Text         string `json:"text"`
	VoiceID      string `json:"voice_id"`
	Engine       string `json:"engine"`
	OutputFormat string `json:"output_format"`
}

// Synthesize converts one narration unit to audio. Transient failures
// retry with backoff; unsupported voice or engine combinations fail fast
// so the orchestrator can move down its fallback chain.
func (c *Client) Synthesize(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "speech", "synthesize", "api key required", nil)
	}
	if strings.TrimSpace(req.Text) == "" {
		return nil, services.Wrap(services.ErrValidation, "speech", "synthesize", "text required", nil)
	}
	if strings.TrimSpace(req.VoiceID) == "" {
		return nil, services.Wrap(services.ErrValidation, "speech", "synthesize", "voice required", nil)
	}

	var result *Result
	operation := fmt.Sprintf("synthesize voice=%s engine=%s", req.VoiceID, req.Engine)
	err := c.runner.Run(ctx, operation, func(ctx context.Context, _ resilience.Attempt) error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		out, err := c.synthesizeOnce(ctx, req)
		if err != nil {
			return err
		}
		result = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) synthesizeOnce(ctx context.Context, req Request) (*Result, error) {
	payload := synthesizeRequest{
		Text:         req.Text,
		VoiceID:      req.VoiceID,
		Engine:       req.Engine,
		OutputFormat: c.cfg.OutputFormat,
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, services.Wrap(services.ErrFatal, "speech", "synthesize", "encode request", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(encoded))
	if err != nil {
		return nil, services.Wrap(services.ErrFatal, "speech", "synthesize", "build request", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "speech", "synthesize", "http error", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "speech", "synthesize", "read body", err)
	}
	if marker := services.MarkerForStatus(resp.StatusCode); marker != nil {
		detail := fmt.Sprintf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		return nil, services.Wrap(marker, "speech", "synthesize", detail, nil)
	}
	if len(body) == 0 {
		return nil, services.Wrap(services.ErrTransient, "speech", "synthesize", "empty audio payload", nil)
	}

	return &Result{
		Audio:    body,
		Format:   c.cfg.OutputFormat,
		Engine:   req.Engine,
		VoiceID:  req.VoiceID,
		Duration: EstimateDuration(req.Text),
	}, nil
}

// EstimateDuration approximates spoken length from word count.
func EstimateDuration(text string) time.Duration {
	words := len(strings.Fields(text))
	if words == 0 {
		return 0
	}
	seconds := float64(words) / wordsPerSecond
	return time.Duration(seconds * float64(time.Second))
}
