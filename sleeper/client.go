package sleeper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/Dosada05/fantasy-playoffs/models"
	"golang.org/x/time/rate"
)

const (
	BaseURL        = "https://api.sleeper.app/v1"
	DefaultTimeout = 10 * time.Second
	// Sleeper asks clients to stay under 1000 calls per minute.
	DefaultRequestsPerSecond = 10
)

// APIError is returned when Sleeper answers with a non-200 status.
type APIError struct {
	StatusCode int
	Endpoint   string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("sleeper API %s returned status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// Client reads bracket slots from the Sleeper API.
type Client interface {
	GetBracketSlots(ctx context.Context, leagueID string, bracketType models.BracketType) ([]models.RawBracketSlot, error)
}

type Config struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
}

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

func NewHTTPClient(cfg Config, logger *slog.Logger) *HTTPClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = BaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}
	return &HTTPClient{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), int(cfg.RequestsPerSecond)+1),
		logger:     logger,
	}
}

func (c *HTTPClient) makeRequest(ctx context.Context, endpoint string, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}

	url := c.baseURL + endpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	c.logger.Debug("sleeper request", slog.String("url", url))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode, Endpoint: endpoint, Body: string(body)}
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to unmarshal response from %s: %w", endpoint, err)
	}
	return nil
}

// GetBracketSlots fetches the winners_bracket or losers_bracket of a league.
// A league whose playoffs are not set up yet answers null, which yields an empty slice.
func (c *HTTPClient) GetBracketSlots(ctx context.Context, leagueID string, bracketType models.BracketType) ([]models.RawBracketSlot, error) {
	if !bracketType.Valid() {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidBracketType, bracketType)
	}
	endpoint := fmt.Sprintf("/league/%s/%s_bracket", leagueID, bracketType)

	var slots []models.RawBracketSlot
	if err := c.makeRequest(ctx, endpoint, &slots); err != nil {
		return nil, fmt.Errorf("failed to get %s bracket for league %s: %w", bracketType, leagueID, err)
	}
	if slots == nil {
		slots = []models.RawBracketSlot{}
	}
	return slots, nil
}
