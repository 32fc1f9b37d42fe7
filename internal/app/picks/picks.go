package picks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	domaintravel "nhl-travel-service/internal/domain/travel"
	"nhl-travel-service/internal/logging"
	"nhl-travel-service/internal/matchups"
	"nhl-travel-service/internal/timeutil"
)

const (
	// FutureDays is how many days after today the future window covers.
	FutureDays      = 7
	maxLookbackDays = 30
)

// ErrInvalidRequest marks caller mistakes (bad date, unknown window, out-of-range override).
var ErrInvalidRequest = errors.New("invalid picks request")

// When selects the date window for picks.
type When string

const (
	Today    When = "today"
	Tomorrow When = "tomorrow"
	Future   When = "future"
)

// ParseWhen validates a window name.
func ParseWhen(s string) (When, error) {
	switch w := When(strings.ToLower(strings.TrimSpace(s))); w {
	case Today, Tomorrow, Future:
		return w, nil
	default:
		return "", fmt.Errorf("%w: unknown window %q", ErrInvalidRequest, s)
	}
}

// Mode selects a matchup preset.
type Mode string

const (
	Strict  Mode = "strict"
	Relaxed Mode = "relaxed"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case Strict, Relaxed:
		return m, nil
	default:
		return "", fmt.Errorf("%w: unknown mode %q", ErrInvalidRequest, s)
	}
}

// Overrides replace configured defaults for one request. Nil fields keep the default.
type Overrides struct {
	Date           string
	LookbackDays   *int
	Threshold      *float64
	NightStartHour *int
}

// Ranker ranks one date.
type Ranker interface {
	BestMatchups(ctx context.Context, p matchups.Params) ([]domaintravel.Matchup, error)
}

// TravelSource computes per-team travel for one date.
type TravelSource interface {
	TravelForDate(ctx context.Context, target string, lookbackDays int) (domaintravel.TravelResult, error)
}

// Config carries the defaults requests start from.
type Config struct {
	LookbackDays   int
	NightStartHour int
	Strict         matchups.Preset
	Relaxed        matchups.Preset
	Location       *time.Location
	Logger         *slog.Logger
	// Now overrides the clock; nil uses time.Now.
	Now func() time.Time
}

// Service resolves date windows and runs the ranker per date.
type Service struct {
	ranker Ranker
	travel TravelSource
	cfg    Config
	now    func() time.Time
}

// NewService constructs a picks Service.
func NewService(ranker Ranker, travel TravelSource, cfg Config) *Service {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Strict.Name == "" {
		cfg.Strict = matchups.Strict()
	}
	if cfg.Relaxed.Name == "" {
		cfg.Relaxed = matchups.Relaxed()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Service{ranker: ranker, travel: travel, cfg: cfg, now: now}
}

// Today returns the current date in the configured timezone.
func (s *Service) Today() string {
	return timeutil.Today(s.now(), s.cfg.Location)
}

// LookbackDays is the default travel lookback.
func (s *Service) LookbackDays() int {
	return s.cfg.LookbackDays
}

// Dates returns the target dates for when, anchored at anchor or today when anchor is empty.
func (s *Service) Dates(when When, anchor string) ([]string, error) {
	if anchor == "" {
		anchor = s.Today()
	}
	if _, err := timeutil.ParseDate(anchor); err != nil {
		return nil, fmt.Errorf("%w: date %q must be YYYY-MM-DD", ErrInvalidRequest, anchor)
	}
	switch when {
	case Today:
		return []string{anchor}, nil
	case Tomorrow:
		next, _ := timeutil.AddDays(anchor, 1)
		return []string{next}, nil
	case Future:
		start, _ := timeutil.AddDays(anchor, 1)
		end, _ := timeutil.AddDays(anchor, FutureDays)
		return timeutil.DateRange(start, end)
	default:
		return nil, fmt.Errorf("%w: unknown window %q", ErrInvalidRequest, when)
	}
}

// Picks ranks every date in the window with the mode's preset.
// Dates are ranked independently and concatenated in date order.
func (s *Service) Picks(ctx context.Context, mode Mode, when When, o Overrides) ([]domaintravel.Matchup, error) {
	dates, err := s.Dates(when, o.Date)
	if err != nil {
		return nil, err
	}
	preset, err := s.preset(mode, o)
	if err != nil {
		return nil, err
	}
	lookback, night, err := s.resolve(o)
	if err != nil {
		return nil, err
	}

	out := make([]domaintravel.Matchup, 0)
	for _, date := range dates {
		ranked, err := s.ranker.BestMatchups(ctx, preset.Params(date, lookback, night))
		if err != nil {
			return nil, err
		}
		out = append(out, ranked...)
	}
	logging.Debug(logging.FromContext(ctx, s.cfg.Logger), "picks ranked",
		slog.String(logging.FieldMode, string(mode)),
		slog.String(logging.FieldDate, dates[0]),
		slog.Int(logging.FieldCount, len(out)),
	)
	return out, nil
}

// NextBest returns relaxed picks; with dedupe, games already in the strict list are removed.
func (s *Service) NextBest(ctx context.Context, when When, o Overrides, dedupe bool) ([]domaintravel.Matchup, error) {
	relaxed, err := s.Picks(ctx, Relaxed, when, o)
	if err != nil || !dedupe {
		return relaxed, err
	}
	// The strict list keeps its configured threshold; only the relaxed one is overridden.
	strictOverrides := o
	strictOverrides.Threshold = nil
	strict, err := s.Picks(ctx, Strict, when, strictOverrides)
	if err != nil {
		return nil, err
	}
	return Dedupe(relaxed, strict), nil
}

// Travel returns per-team travel for one date.
func (s *Service) Travel(ctx context.Context, o Overrides) (domaintravel.TravelResponse, error) {
	dates, err := s.Dates(Today, o.Date)
	if err != nil {
		return domaintravel.TravelResponse{}, err
	}
	lookback, _, err := s.resolve(o)
	if err != nil {
		return domaintravel.TravelResponse{}, err
	}
	result, err := s.travel.TravelForDate(ctx, dates[0], lookback)
	if err != nil {
		return domaintravel.TravelResponse{}, err
	}
	if result == nil {
		result = domaintravel.TravelResult{}
	}
	return domaintravel.TravelResponse{Date: dates[0], LookbackDays: lookback, Travel: result}, nil
}

// Dedupe drops matchups from list whose game ID appears in exclude, preserving order.
func Dedupe(list, exclude []domaintravel.Matchup) []domaintravel.Matchup {
	seen := make(map[string]struct{}, len(exclude))
	for _, m := range exclude {
		seen[m.GameID] = struct{}{}
	}
	out := make([]domaintravel.Matchup, 0, len(list))
	for _, m := range list {
		if _, dup := seen[m.GameID]; dup {
			continue
		}
		out = append(out, m)
	}
	return out
}

func (s *Service) preset(mode Mode, o Overrides) (matchups.Preset, error) {
	var p matchups.Preset
	switch mode {
	case Strict:
		p = s.cfg.Strict
	case Relaxed:
		p = s.cfg.Relaxed
	default:
		return p, fmt.Errorf("%w: unknown mode %q", ErrInvalidRequest, mode)
	}
	if o.Threshold != nil {
		if *o.Threshold < 0 {
			return p, fmt.Errorf("%w: threshold must be non-negative", ErrInvalidRequest)
		}
		p.TravelThreshold = *o.Threshold
	}
	return p, nil
}

func (s *Service) resolve(o Overrides) (lookback, night int, err error) {
	lookback, night = s.cfg.LookbackDays, s.cfg.NightStartHour
	if o.LookbackDays != nil {
		if *o.LookbackDays < 0 || *o.LookbackDays > maxLookbackDays {
			return 0, 0, fmt.Errorf("%w: lookback must be between 0 and %d", ErrInvalidRequest, maxLookbackDays)
		}
		lookback = *o.LookbackDays
	}
	if o.NightStartHour != nil {
		if *o.NightStartHour < 0 || *o.NightStartHour > 23 {
			return 0, 0, fmt.Errorf("%w: night_start must be between 0 and 23", ErrInvalidRequest)
		}
		night = *o.NightStartHour
	}
	return lookback, night, nil
}
