package nhle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	domaingames "nhl-travel-service/internal/domain/games"
	"nhl-travel-service/internal/logging"
	"nhl-travel-service/internal/providers"
	"nhl-travel-service/internal/timeutil"
)

// Config controls how the client reaches the NHL web API.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
	Logger     *slog.Logger
}

// Client fetches daily schedules from api-web.nhle.com and maps them to domain games.
type Client struct {
	baseURL    string
	httpClient httpDoer
	logger     *slog.Logger
	now        func() time.Time
}

// NewClient constructs a client with the provided configuration.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:    normalizeBaseURL(cfg.BaseURL),
		httpClient: resolveHTTPClient(cfg.HTTPClient, cfg.Timeout),
		logger:     cfg.Logger,
		now:        time.Now,
	}
}

// Name identifies the provider in logs and metrics.
func (c *Client) Name() string { return providerName }

// FetchGames returns the games the schedule lists under date.
// The endpoint returns a whole week; only the matching day is used and a missing day yields no games.
// Individual games that fail to decode are skipped.
func (c *Client) FetchGames(ctx context.Context, date string) ([]domaingames.Game, error) {
	if _, err := timeutil.ParseDate(date); err != nil {
		return nil, c.wrap(date, 0, fmt.Errorf("%w: %q", providers.ErrInvalidDate, date))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/schedule/"+date, nil)
	if err != nil {
		return nil, c.wrap(date, 0, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.wrap(date, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, c.wrap(date, resp.StatusCode, &providers.RateLimitError{
			Provider:   providerName,
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"), c.now()),
			Remaining:  resp.Header.Get("X-RateLimit-Remaining"),
		})
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, c.wrap(date, resp.StatusCode, fmt.Errorf("unexpected status: %s", strings.TrimSpace(string(body))))
	}

	var payload scheduleResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, c.wrap(date, 0, fmt.Errorf("decode schedule: %w", err))
	}

	return c.mapDay(ctx, date, payload), nil
}

func (c *Client) mapDay(ctx context.Context, date string, payload scheduleResponse) []domaingames.Game {
	games := make([]domaingames.Game, 0)
	for _, day := range payload.GameWeek {
		if day.Date != date {
			continue
		}
		for _, raw := range day.Games {
			var g gameResponse
			if err := json.Unmarshal(raw, &g); err != nil {
				logging.Warn(logging.FromContext(ctx, c.logger), "skipping undecodable game",
					slog.String(logging.FieldProvider, providerName),
					slog.String(logging.FieldDate, date),
					slog.Any("err", err),
				)
				continue
			}
			games = append(games, mapGame(date, g, raw))
		}
	}
	return games
}

func (c *Client) wrap(date string, status int, err error) error {
	var pErr *providers.ProviderError
	if errors.As(err, &pErr) {
		return err
	}
	return &providers.ProviderError{Provider: providerName, Date: date, StatusCode: status, Err: err}
}
