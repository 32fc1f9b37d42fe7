package poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	domaingames "nhl-travel-service/internal/domain/games"
	"nhl-travel-service/internal/logging"
	"nhl-travel-service/internal/metrics"
	"nhl-travel-service/internal/timeutil"
)

const (
	defaultInterval = 5 * time.Minute
	readyFailures   = 3
)

// Source is a cached schedule provider the poller keeps warm.
// FetchGames may be served from cache; Refresh always goes upstream.
type Source interface {
	FetchGames(ctx context.Context, date string) ([]domaingames.Game, error)
	Refresh(ctx context.Context, date string) ([]domaingames.Game, error)
}

// Config controls the warm window and cadence.
type Config struct {
	Interval     time.Duration
	LookbackDays int
	Location     *time.Location
}

// Poller keeps the schedule cache warm for the lookback window through tomorrow.
// Past days are only fetched on a cache miss; today and tomorrow are refreshed every cycle.
type Poller struct {
	source   Source
	logger   *slog.Logger
	metrics  *metrics.Recorder
	interval time.Duration
	lookback int
	loc      *time.Location
	now      func() time.Time

	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool

	statusMu sync.RWMutex
	status   Status
}

// Status describes the recent health of the poller loop.
type Status struct {
	ConsecutiveFailures int
	LastError           string
	LastAttempt         time.Time
	LastSuccess         time.Time
	WarmDates           int
}

// IsReady reports whether the poller has had a recent success and is not failing repeatedly.
func (s Status) IsReady() bool {
	if s.LastSuccess.IsZero() {
		return false
	}
	return s.ConsecutiveFailures < readyFailures
}

// New constructs a Poller with sane defaults.
func New(source Source, logger *slog.Logger, recorder *metrics.Recorder, cfg Config) *Poller {
	interval := cfg.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Poller{
		source:   source,
		logger:   logger,
		metrics:  recorder,
		interval: interval,
		lookback: max(cfg.LookbackDays, 0),
		loc:      loc,
		now:      time.Now,
		done:     make(chan struct{}),
	}
}

// Start begins polling until the context is cancelled or Stop is called.
func (p *Poller) Start(ctx context.Context) {
	p.startMu.Lock()
	if p.started {
		p.startMu.Unlock()
		return
	}
	p.started = true
	p.startMu.Unlock()

	p.ticker = time.NewTicker(p.interval)

	go func() {
		logging.Info(p.logger, "poller started",
			slog.Int64(logging.FieldDurationMS, p.interval.Milliseconds()),
			slog.Int(logging.FieldLookback, p.lookback),
		)
		// Warm on boot.
		p.warmOnce(ctx)

		for {
			select {
			case <-ctx.Done():
				p.stopTicker()
				logging.Info(p.logger, "poller stopped")
				return
			case <-p.done:
				p.stopTicker()
				logging.Info(p.logger, "poller stopped")
				return
			case <-p.ticker.C:
				p.warmOnce(ctx)
			}
		}
	}()
}

// Stop halts the polling loop.
func (p *Poller) Stop(ctx context.Context) error {
	_ = ctx
	p.stopOnce.Do(func() {
		close(p.done)
		p.stopTicker()
	})
	return nil
}

// Window returns the dates the poller keeps warm at now.
func (p *Poller) Window(now time.Time) []string {
	today := timeutil.Today(now, p.loc)
	start, _ := timeutil.AddDays(today, -p.lookback)
	end, _ := timeutil.AddDays(today, 1)
	dates, _ := timeutil.DateRange(start, end)
	return dates
}

func (p *Poller) warmOnce(ctx context.Context) {
	start := time.Now()
	p.recordAttempt(start)
	if p.source == nil {
		p.recordFailure(errors.New("poller: no schedule source"), start)
		return
	}

	now := p.now()
	today := timeutil.Today(now, p.loc)
	var errs []error
	warm, games := 0, 0
	for _, date := range p.Window(now) {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		var (
			got []domaingames.Game
			err error
		)
		if date >= today {
			got, err = p.source.Refresh(ctx, date)
		} else {
			got, err = p.source.FetchGames(ctx, date)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", date, err))
			continue
		}
		warm++
		games += len(got)
	}
	err := errors.Join(errs...)

	p.metrics.RecordPollerCycle(time.Since(start), err)
	if err != nil {
		logging.Error(p.logger, "poller warm cycle incomplete", err,
			slog.Int(logging.FieldCount, warm),
			slog.Int64(logging.FieldDurationMS, time.Since(start).Milliseconds()),
		)
		p.recordFailure(err, start)
		p.setWarm(warm)
		return
	}

	p.recordSuccess(start, warm)
	logging.Info(p.logger, "poller warmed schedule cache",
		slog.String(logging.FieldDate, today),
		slog.Int(logging.FieldCount, games),
		slog.Int64(logging.FieldDurationMS, time.Since(start).Milliseconds()),
	)
}

func (p *Poller) stopTicker() {
	if p.ticker != nil {
		p.ticker.Stop()
	}
}

func (p *Poller) recordAttempt(at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.LastAttempt = at
}

func (p *Poller) recordSuccess(at time.Time, warm int) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures = 0
	p.status.LastError = ""
	p.status.LastSuccess = at
	p.status.WarmDates = warm
}

func (p *Poller) recordFailure(err error, at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures++
	if err != nil {
		p.status.LastError = err.Error()
	}
	p.status.LastAttempt = at
}

func (p *Poller) setWarm(n int) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.WarmDates = n
}

// Status returns a snapshot of the poller's recent health.
func (p *Poller) Status() Status {
	p.statusMu.RLock()
	defer p.statusMu.RUnlock()
	return p.status
}
