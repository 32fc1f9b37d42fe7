package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"nhl-travel-service/internal/config"
	domaingames "nhl-travel-service/internal/domain/games"
	domaintravel "nhl-travel-service/internal/domain/travel"
	"nhl-travel-service/internal/providers"
	"nhl-travel-service/internal/providers/fixture"
	"nhl-travel-service/internal/providers/nhle"
	"nhl-travel-service/internal/teststubs"
	"nhl-travel-service/internal/testutil"
)

func testConfig() config.Config {
	return config.Config{
		Port:         "0",
		PollInterval: 5 * time.Millisecond,
		Timezone:     "UTC",
		Travel:       config.TravelConfig{LookbackDays: 3},
		Cache:        config.CacheConfig{Backend: "memory"},
	}
}

func mustServer(t *testing.T, cfg config.Config, provider providers.ScheduleProvider) *Server {
	t.Helper()
	srv, err := newServerWithProvider(context.Background(), cfg, nil, provider)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	t.Cleanup(func() { _ = srv.core.Close() })
	return srv
}

func TestServerServesHealthGamesAndPicks(t *testing.T) {
	srv := mustServer(t, testConfig(), testutil.DateProvider(testutil.RoadTrip()))
	router := srv.Handler()

	rr := testutil.Serve(router, http.MethodGet, "/health", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	rr = testutil.Serve(router, http.MethodGet, "/games?date=2024-01-02", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	var schedule domaingames.ScheduleResponse
	testutil.DecodeJSON(t, rr, &schedule)
	if len(schedule.Games) != 1 || schedule.Games[0].ID != "2" {
		t.Fatalf("unexpected schedule %+v", schedule)
	}

	rr = testutil.Serve(router, http.MethodGet, "/best-odds/back-to-back/today?date=2024-01-03", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	var picks map[string][]domaintravel.Matchup
	testutil.DecodeJSON(t, rr, &picks)
	if list := picks["best_odds_matchups_today"]; len(list) != 1 || list[0].AwayTeam != "Jets" {
		t.Fatalf("unexpected picks %+v", picks)
	}
}

func TestServerWarmerFetchesThroughCache(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	provider := &teststubs.StubProvider{Games: []domaingames.Game{}, Notify: make(chan struct{})}
	srv := mustServer(t, testConfig(), provider)
	srv.poller.Start(ctx)
	defer func() { _ = srv.poller.Stop(context.Background()) }()

	select {
	case <-provider.Notify:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timed out waiting for warmer to fetch")
	}
}

func TestServerUpstreamFailureReturnsBadGateway(t *testing.T) {
	cfg := testConfig()
	cfg.Retry = config.RetryConfig{Attempts: 1, Backoff: time.Millisecond}
	srv := mustServer(t, cfg, testutil.ErrProvider{Err: errors.New("upstream down")})

	rr := testutil.Serve(srv.Handler(), http.MethodGet, "/games?date=2024-01-02", nil)
	testutil.AssertStatus(t, rr, http.StatusBadGateway)

	// Travel degrades to an empty map instead of failing.
	rr = testutil.Serve(srv.Handler(), http.MethodGet, "/travel?date=2024-01-02", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
}

func TestServerAdminRouteRequiresToken(t *testing.T) {
	provider := &teststubs.StubProvider{Games: []domaingames.Game{}}

	srv := mustServer(t, testConfig(), provider)
	rr := testutil.Serve(srv.Handler(), http.MethodPost, "/admin/refresh", nil)
	testutil.AssertStatus(t, rr, http.StatusNotFound)

	cfg := testConfig()
	cfg.AdminToken = "secret"
	srv = mustServer(t, cfg, provider)
	req := httptest.NewRequest(http.MethodPost, "/admin/refresh?date=2024-01-02", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rr = testutil.ServeRequest(srv.Handler(), req)
	testutil.AssertStatus(t, rr, http.StatusOK)
	if got := provider.Dates(); len(got) != 1 || got[0] != "2024-01-02" {
		t.Fatalf("expected one upstream refresh, got %v", got)
	}
}

func TestServerMountsMCP(t *testing.T) {
	srv := mustServer(t, testConfig(), testutil.EmptyProvider{})

	rr := testutil.Serve(srv.Handler(), http.MethodGet, "/mcp", nil)
	if rr.Code == http.StatusNotFound {
		t.Fatalf("expected /mcp to be routed")
	}
}

func TestNewConstructsServer(t *testing.T) {
	cfg := testConfig()
	cfg.Provider = "fixture"
	srv, err := New(context.Background(), cfg, nil, "dev")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer func() { _ = srv.core.Close() }()
	if srv.Handler() == nil {
		t.Fatalf("expected server with handler")
	}
}

func TestNewRejectsBadTimezoneAndVenues(t *testing.T) {
	cfg := testConfig()
	cfg.Timezone = "Mars/Olympus"
	if _, err := New(context.Background(), cfg, nil, "dev"); err == nil {
		t.Fatalf("expected timezone error")
	}

	cfg = testConfig()
	cfg.Travel.VenuesFile = filepath.Join(t.TempDir(), "missing.yaml")
	if _, err := New(context.Background(), cfg, nil, "dev"); err == nil {
		t.Fatalf("expected venues file error")
	}
}

func TestSelectProvider(t *testing.T) {
	if _, ok := selectProvider(config.Config{Provider: "unknown"}, nil).(*fixture.Provider); !ok {
		t.Fatalf("expected fixture fallback")
	}
	if _, ok := selectProvider(config.Config{}, nil).(*fixture.Provider); !ok {
		t.Fatalf("expected fixture default")
	}
	if _, ok := selectProvider(config.Config{Provider: "NHLE", Nhle: config.NhleConfig{BaseURL: "http://example.com"}}, nil).(*nhle.Client); !ok {
		t.Fatalf("expected nhle provider")
	}
}

func TestGracefulShutdownCallsStopAndShutdown(t *testing.T) {
	p := &testutil.StubPoller{}
	httpSrv := &testutil.StubHTTPServer{}

	srv := newServerWithDeps(config.Config{}, nil, nil, httpSrv, p)
	srv.gracefulShutdown()

	if p.StopCalls != 1 {
		t.Fatalf("expected poller Stop to be called once, got %d", p.StopCalls)
	}
	if httpSrv.ShutdownCalls != 1 {
		t.Fatalf("expected server Shutdown to be called once, got %d", httpSrv.ShutdownCalls)
	}
}

func TestGracefulShutdownTimesOutLongRunningShutdown(t *testing.T) {
	p := &testutil.StubPoller{}
	blocking := &testutil.BlockingHTTPServer{
		AddrVal:    ":0",
		HandlerVal: http.NewServeMux(),
		Unblock:    make(chan struct{}),
	}

	original := shutdownTimeout
	shutdownTimeout = 5 * time.Millisecond
	defer func() { shutdownTimeout = original }()

	srv := newServerWithDeps(config.Config{}, nil, nil, blocking, p)

	start := time.Now()
	srv.gracefulShutdown()
	elapsed := time.Since(start)

	if blocking.ShutdownCalls != 1 {
		t.Fatalf("expected server Shutdown to be called once, got %d", blocking.ShutdownCalls)
	}
	if p.StopCalls != 1 {
		t.Fatalf("expected poller Stop to be called once, got %d", p.StopCalls)
	}
	if elapsed > 200*time.Millisecond {
		t.Fatalf("shutdown took too long: %s", elapsed)
	}
}

func TestGracefulShutdownContinuesWhenPollerStopErrors(t *testing.T) {
	p := &testutil.StubPoller{Err: errors.New("stop failure")}
	httpSrv := &testutil.StubHTTPServer{}
	logger, buf := testutil.NewBufferLogger()

	srv := newServerWithDeps(config.Config{}, logger, nil, httpSrv, p)
	srv.gracefulShutdown()

	if p.StopCalls != 1 || httpSrv.ShutdownCalls != 1 {
		t.Fatalf("expected stop and shutdown once, got %d %d", p.StopCalls, httpSrv.ShutdownCalls)
	}
	if buf.Len() == 0 {
		t.Fatalf("expected shutdown to be logged")
	}
}

func TestServerStartHandlesListenErrorAndStops(t *testing.T) {
	srv := newServerWithDeps(config.Config{}, nil, nil, &testutil.ErrHTTPServer{}, &testutil.StubPoller{})

	var wg sync.WaitGroup
	wg.Add(1)
	stopCalled := make(chan struct{})
	stop := func() {
		close(stopCalled)
		wg.Done()
	}

	srv.startServer(stop)

	select {
	case <-stopCalled:
	case <-time.After(200 * time.Millisecond):
		t.Fatal("expected stop to be called on listen failure")
	}

	wg.Wait()
}

func TestRunCancelsAndStopsComponents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	plr := &testutil.StubPoller{}
	httpSrv := &testutil.CloseableHTTPServer{}

	srv := newServerWithDeps(config.Config{}, nil, nil, httpSrv, plr)

	done := make(chan struct{})
	go func() {
		srv.Run(ctx, cancel)
		close(done)
	}()

	// Let Start be invoked.
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("run did not return after cancel")
	}

	if plr.StartCalls != 1 {
		t.Fatalf("expected poller Start called once, got %d", plr.StartCalls)
	}
	if plr.StopCalls != 1 {
		t.Fatalf("expected poller Stop called once, got %d", plr.StopCalls)
	}
	if httpSrv.ShutdownCalls != 1 {
		t.Fatalf("expected server Shutdown called once, got %d", httpSrv.ShutdownCalls)
	}
}
