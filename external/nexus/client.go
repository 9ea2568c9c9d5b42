package nexus

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/vivandoshi08/cheesycareApp/internal/domain/match"
	"github.com/vivandoshi08/cheesycareApp/internal/platform/logging"
)

const (
	defaultBaseURL  = "https://frc.nexus/api/v1"
	authHeader      = "Nexus-Api-Key"
	responseMaxSize = 6 << 20
)

type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	Logger     *logging.Logger
}

// Client reads live queuing data from FRC Nexus. The live feed is an
// enhancement over bracket data, never a requirement, so every fetch
// degrades to an empty snapshot instead of failing.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *logging.Logger
	now        func() time.Time
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		logger:     logger,
		now:        time.Now,
	}
}

// EventSnapshot returns the live queuing state for an event. On any
// failure it logs a warning and returns an empty snapshot stamped with the
// current time, so callers can keep reconciling on bracket data alone.
func (c *Client) EventSnapshot(ctx context.Context, eventKey string) match.LiveSnapshot {
	snapshot, err := c.fetchEvent(ctx, eventKey)
	if err != nil {
		c.logger.WarnContext(ctx, "nexus fetch failed, continuing with empty snapshot",
			"event_key", eventKey,
			"error", err,
		)
		return emptySnapshot(eventKey, c.now())
	}
	if snapshot.EventKey == "" {
		snapshot.EventKey = eventKey
	}
	return snapshot
}

func (c *Client) fetchEvent(ctx context.Context, eventKey string) (match.LiveSnapshot, error) {
	if strings.TrimSpace(eventKey) == "" {
		return match.LiveSnapshot{}, fmt.Errorf("event key is required")
	}

	fullURL := c.baseURL + "/event/" + url.PathEscape(eventKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return match.LiveSnapshot{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set(authHeader, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return match.LiveSnapshot{}, fmt.Errorf("send request: %s", sanitizeSensitiveText(err.Error(), c.apiKey))
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, responseMaxSize))
	if err != nil {
		return match.LiveSnapshot{}, fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return match.LiveSnapshot{}, fmt.Errorf("live feed status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
	}

	var snapshot match.LiveSnapshot
	if err := sonic.Unmarshal(raw, &snapshot); err != nil {
		return match.LiveSnapshot{}, fmt.Errorf("decode live payload: %w", err)
	}
	return snapshot, nil
}

func emptySnapshot(eventKey string, now time.Time) match.LiveSnapshot {
	return match.LiveSnapshot{
		EventKey:     eventKey,
		DataAsOfTime: now.UnixMilli(),
	}
}

func sanitizeSensitiveText(value, secret string) string {
	value = strings.TrimSpace(value)
	if value == "" || secret == "" {
		return value
	}
	return strings.ReplaceAll(value, secret, "REDACTED")
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
