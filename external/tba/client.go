package tba

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/vivandoshi08/cheesycareApp/internal/domain/match"
	"github.com/vivandoshi08/cheesycareApp/internal/platform/cache"
	"github.com/vivandoshi08/cheesycareApp/internal/platform/logging"
	"github.com/vivandoshi08/cheesycareApp/internal/platform/resilience"
	"github.com/vivandoshi08/cheesycareApp/internal/usecase"
)

const (
	defaultBaseURL  = "https://www.thebluealliance.com/api/v3"
	authHeader      = "X-TBA-Auth-Key"
	eventListTTL    = 10 * time.Minute
	responseMaxSize = 6 << 20
)

var errTBATransient = crerr.New("tba transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client reads match schedules and results from The Blue Alliance.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
	eventCache     *cache.Store
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
		httpClient.Timeout = 15 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
		eventCache:     cache.NewStore(eventListTTL),
	}
}

type wireAlliance struct {
	TeamKeys []string `json:"team_keys"`
	Score    *int     `json:"score"`
}

type wireMatch struct {
	Key           string `json:"key"`
	CompLevel     string `json:"comp_level"`
	SetNumber     int    `json:"set_number"`
	MatchNumber   int    `json:"match_number"`
	EventKey      string `json:"event_key"`
	Time          *int64 `json:"time"`
	ActualTime    *int64 `json:"actual_time"`
	PredictedTime *int64 `json:"predicted_time"`
	Alliances     struct {
		Red  wireAlliance `json:"red"`
		Blue wireAlliance `json:"blue"`
	} `json:"alliances"`
}

type wireEvent struct {
	Key       string `json:"key"`
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Year      int    `json:"year"`
}

// EventMatches returns the full bracket for an event. Unscored matches come
// back with nil scores; the feed reports -1 for matches not yet played.
func (c *Client) EventMatches(ctx context.Context, eventKey string) ([]match.BracketMatch, error) {
	if strings.TrimSpace(eventKey) == "" {
		return nil, fmt.Errorf("%w: event key is required", usecase.ErrInvalidInput)
	}

	var wire []wireMatch
	if err := c.doJSON(ctx, "/event/"+url.PathEscape(eventKey)+"/matches", &wire); err != nil {
		return nil, fmt.Errorf("fetch matches event_key=%s: %w", eventKey, err)
	}

	out := make([]match.BracketMatch, 0, len(wire))
	for _, item := range wire {
		out = append(out, match.BracketMatch{
			Key:           item.Key,
			EventKey:      item.EventKey,
			CompLevel:     match.CompLevel(item.CompLevel),
			SetNumber:     item.SetNumber,
			MatchNumber:   item.MatchNumber,
			RedTeamKeys:   item.Alliances.Red.TeamKeys,
			BlueTeamKeys:  item.Alliances.Blue.TeamKeys,
			RedScore:      normalizeScore(item.Alliances.Red.Score),
			BlueScore:     normalizeScore(item.Alliances.Blue.Score),
			ScheduledTime: item.Time,
			ActualTime:    item.ActualTime,
			PredictedTime: item.PredictedTime,
		})
	}
	return out, nil
}

// EventTeamKeys returns the keys of every team attending an event. The
// roster is broader than the bracket: it includes teams with no scheduled
// match yet.
func (c *Client) EventTeamKeys(ctx context.Context, eventKey string) ([]string, error) {
	if strings.TrimSpace(eventKey) == "" {
		return nil, fmt.Errorf("%w: event key is required", usecase.ErrInvalidInput)
	}

	var keys []string
	if err := c.doJSON(ctx, "/event/"+url.PathEscape(eventKey)+"/teams/keys", &keys); err != nil {
		return nil, fmt.Errorf("fetch team keys event_key=%s: %w", eventKey, err)
	}
	return keys, nil
}

// TeamEventsForYear returns a team's events in a season. Responses are
// cached briefly: event windows change rarely and the lookup runs on every
// discovery fallback.
func (c *Client) TeamEventsForYear(ctx context.Context, teamKey string, year int) ([]usecase.EventSummary, error) {
	if strings.TrimSpace(teamKey) == "" {
		return nil, fmt.Errorf("%w: team key is required", usecase.ErrInvalidInput)
	}

	path := fmt.Sprintf("/team/%s/events/%d", url.PathEscape(teamKey), year)
	cached, err := c.eventCache.GetOrLoad(ctx, path, func(ctx context.Context) (any, error) {
		var wire []wireEvent
		if err := c.doJSON(ctx, path, &wire); err != nil {
			return nil, fmt.Errorf("fetch events team_key=%s year=%d: %w", teamKey, year, err)
		}

		out := make([]usecase.EventSummary, 0, len(wire))
		for _, item := range wire {
			out = append(out, usecase.EventSummary{
				Key:       item.Key,
				Name:      item.Name,
				StartDate: item.StartDate,
				EndDate:   item.EndDate,
				Year:      item.Year,
			})
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	summaries, ok := cached.([]usecase.EventSummary)
	if !ok {
		return nil, fmt.Errorf("unexpected cached payload type %T", cached)
	}
	return summaries, nil
}

func (c *Client) doJSON(ctx context.Context, path string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "tba circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: bracket provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	fullURL := c.baseURL + path
	out, err, _ := c.flight.Do(path, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && isTransient(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode bracket payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		req.Header.Set(authHeader, c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errTBATransient, sanitizeSensitiveText(err.Error(), c.apiKey))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, responseMaxSize))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errTBATransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: bracket status=%d body=%s", errTBATransient, resp.StatusCode, abbreviateBody(raw))
			} else {
				return nil, fmt.Errorf("bracket status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("bracket request failed")
	}
	c.logger.WarnContext(ctx, "tba request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

// normalizeScore maps the feed's -1 "not played" sentinel to nil.
func normalizeScore(score *int) *int {
	if score == nil || *score < 0 {
		return nil
	}
	return score
}

func isTransient(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errTBATransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
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

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}
