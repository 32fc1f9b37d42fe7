package travel

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	domaingames "nhl-travel-service/internal/domain/games"
	domaintravel "nhl-travel-service/internal/domain/travel"
	"nhl-travel-service/internal/geo"
	"nhl-travel-service/internal/logging"
	"nhl-travel-service/internal/metrics"
	"nhl-travel-service/internal/providers"
	"nhl-travel-service/internal/timeutil"
)

const maxFetchConcurrency = 8

// AggregatorConfig tunes fan-out and wires observability.
type AggregatorConfig struct {
	// Concurrency caps parallel day fetches; zero sizes it to the window, up to 8.
	Concurrency int
	Logger      *slog.Logger
	Recorder    *metrics.Recorder
}

// Aggregator computes per-team travel over a lookback window.
type Aggregator struct {
	provider    providers.ScheduleProvider
	resolver    Resolver
	concurrency int
	logger      *slog.Logger
	recorder    *metrics.Recorder
}

// NewAggregator constructs an Aggregator.
func NewAggregator(provider providers.ScheduleProvider, resolver Resolver, cfg AggregatorConfig) *Aggregator {
	return &Aggregator{
		provider:    provider,
		resolver:    resolver,
		concurrency: cfg.Concurrency,
		logger:      cfg.Logger,
		recorder:    cfg.Recorder,
	}
}

// TravelForDate returns kilometers traveled in [target-lookback, target] by every team
// that plays on target. Failed days count as empty.
func (a *Aggregator) TravelForDate(ctx context.Context, target string, lookbackDays int) (domaintravel.TravelResult, error) {
	start, err := windowStart(target, lookbackDays)
	if err != nil {
		return nil, err
	}
	w, err := a.FetchWindow(ctx, start, target)
	if err != nil {
		return nil, err
	}
	return a.TravelFromWindow(ctx, w, target, lookbackDays)
}

// FetchWindow fetches every date in [start, end] concurrently.
// A failed or canceled day is logged, counted, and left empty.
func (a *Aggregator) FetchWindow(ctx context.Context, start, end string) (Window, error) {
	dates, err := timeutil.DateRange(start, end)
	if err != nil {
		return Window{}, fmt.Errorf("travel: window %s..%s: %w", start, end, err)
	}

	results := make([][]domaingames.Game, len(dates))
	errs := make([]error, len(dates))

	var g errgroup.Group
	g.SetLimit(a.limitFor(len(dates)))
	for i, date := range dates {
		g.Go(func() error {
			if a.provider == nil {
				errs[i] = providers.ErrProviderUnavailable
				return nil
			}
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			results[i], errs[i] = a.provider.FetchGames(ctx, date)
			return nil
		})
	}
	_ = g.Wait()

	w := Window{
		Start: start,
		End:   end,
		Dates: dates,
		Days:  make(map[string][]domaingames.Game, len(dates)),
	}
	logger := logging.FromContext(ctx, a.logger)
	for i, date := range dates {
		if errs[i] != nil {
			w.Failed = append(w.Failed, date)
			w.Days[date] = []domaingames.Game{}
			a.recorder.RecordDayFetchFailure()
			logging.Warn(logger, "schedule day unavailable; treating as empty",
				slog.String(logging.FieldDate, date),
				slog.Any("err", errs[i]),
			)
			continue
		}
		w.Days[date] = results[i]
	}
	return w, nil
}

// TravelFromWindow computes travel for target from an already fetched window.
// Entries outside [target-lookback, target] are ignored even if the window is wider.
func (a *Aggregator) TravelFromWindow(ctx context.Context, w Window, target string, lookbackDays int) (domaintravel.TravelResult, error) {
	start, err := windowStart(target, lookbackDays)
	if err != nil {
		return nil, err
	}

	logs := BuildLogs(w.All(), a.resolver)
	a.reportSkips(ctx, target, logs.Skipped)

	result := make(domaintravel.TravelResult)
	for team, entries := range logs.ByTeam {
		var inWindow []domaintravel.TeamGameEntry
		playsTarget := false
		for _, e := range entries {
			if e.Date < start || e.Date > target {
				continue
			}
			inWindow = append(inWindow, e)
			if e.Date == target {
				playsTarget = true
			}
		}
		if !playsTarget {
			continue
		}
		var home *geo.Coordinate
		if a.resolver != nil {
			if c, ok := a.resolver.HomeVenue(team); ok {
				home = &c
			}
		}
		result[team] = Accumulate(inWindow, home)
	}
	return result, nil
}

func (a *Aggregator) reportSkips(ctx context.Context, target string, skipped map[SkipReason]int) {
	for reason, count := range skipped {
		a.recorder.RecordSkippedRecords(string(reason), count)
		logging.Debug(logging.FromContext(ctx, a.logger), "skipped game sides while building travel logs",
			slog.String(logging.FieldDate, target),
			slog.String(logging.FieldReason, string(reason)),
			slog.Int(logging.FieldCount, count),
		)
	}
}

func (a *Aggregator) limitFor(days int) int {
	limit := a.concurrency
	if limit <= 0 {
		limit = min(days, maxFetchConcurrency)
	}
	return max(limit, 1)
}

func windowStart(target string, lookbackDays int) (string, error) {
	if lookbackDays < 0 {
		return "", fmt.Errorf("travel: lookback days must be non-negative, got %d", lookbackDays)
	}
	start, err := timeutil.AddDays(target, -lookbackDays)
	if err != nil {
		return "", fmt.Errorf("travel: target date %q: %w", target, err)
	}
	return start, nil
}
