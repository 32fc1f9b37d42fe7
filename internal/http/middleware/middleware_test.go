package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"nhl-travel-service/internal/http/requestutil"
	"nhl-travel-service/internal/logging"
	"nhl-travel-service/internal/metrics"
)

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestLoggingMiddlewareSetsRequestIDAndLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	rec := metrics.NewRecorder()
	nextCalled := false

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		if got := RequestIDFromContext(r.Context()); got == "" {
			t.Fatalf("expected request id in context")
		}
		if logging.FromContext(r.Context(), nil) == nil {
			t.Fatalf("expected request logger in context")
		}
		w.WriteHeader(http.StatusTeapot)
	})

	rr := serve(LoggingMiddleware(logger, rec, next), httptest.NewRequest(http.MethodGet, "/travel", nil))

	if !nextCalled {
		t.Fatalf("expected next handler to be called")
	}
	if rr.Code != http.StatusTeapot {
		t.Fatalf("expected status 418, got %d", rr.Code)
	}
	if rec.ProviderCalls("http") != 0 {
		t.Fatalf("expected provider metrics untouched")
	}
	out := buf.String()
	if !strings.Contains(out, "request complete") || !strings.Contains(out, "status_code=418") {
		t.Fatalf("expected completion log with status, got %s", out)
	}
}

func TestLoggingMiddlewareKeepsValidIncomingID(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := RequestIDFromContext(r.Context()); got != "abc-123" {
			t.Fatalf("expected incoming id, got %s", got)
		}
	})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestutil.HeaderRequestID, "abc-123")
	rr := serve(LoggingMiddleware(nil, nil, next), req)
	if got := rr.Header().Get(requestutil.HeaderRequestID); got != "abc-123" {
		t.Fatalf("expected header echoed, got %s", got)
	}
}

func TestLoggingMiddlewareGeneratesRequestIDWhenMissing(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	req := httptest.NewRequest(http.MethodGet, "/games?date=2024-01-01", nil)
	req.Header.Set(requestutil.HeaderRequestID, "not valid!")
	rr := serve(LoggingMiddleware(nil, metrics.NewRecorder(), next), req)

	got := rr.Header().Get(requestutil.HeaderRequestID)
	if got == "" || got == "not valid!" {
		t.Fatalf("expected generated X-Request-ID, got %q", got)
	}
}

func TestMuxMiddlewareUsesRouteTemplate(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	router := mux.NewRouter()
	router.Use(Mux(logger, nil))
	router.HandleFunc("/next-best-odds/{when}", func(w http.ResponseWriter, r *http.Request) {
		if got := routePattern(r); got != "/next-best-odds/{when}" {
			t.Fatalf("expected route template, got %s", got)
		}
	})

	rr := serve(router, httptest.NewRequest(http.MethodGet, "/next-best-odds/today", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(buf.String(), "request complete") {
		t.Fatalf("expected middleware to log")
	}
}

func TestTimeoutSetsDeadline(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Context().Deadline(); !ok {
			t.Fatalf("expected deadline on request context")
		}
	})
	serve(Timeout(time.Second)(next), httptest.NewRequest(http.MethodGet, "/travel", nil))

	plain := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Context().Deadline(); ok {
			t.Fatalf("expected no deadline when timeout disabled")
		}
	})
	serve(Timeout(0)(plain), httptest.NewRequest(http.MethodGet, "/travel", nil))
}

func TestResponseWriterFlushes(t *testing.T) {
	rr := httptest.NewRecorder()
	w := &responseWriter{ResponseWriter: rr, status: http.StatusOK}
	w.Flush()
	if !rr.Flushed {
		t.Fatalf("expected flush forwarded")
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "/best-odds/back-to-back/today", want: "/best-odds/back-to-back/{when}"},
		{in: "/next-best-odds/future", want: "/next-best-odds/{when}"},
		{in: "/games/2023020001", want: "/games/{id}"},
		{in: "/mcp/session", want: "/mcp"},
		{in: "/health", want: "/health"},
		{in: "", want: ""},
	}
	for _, tt := range tests {
		if got := normalizePath(tt.in); got != tt.want {
			t.Fatalf("normalizePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRequestIDFromContext(t *testing.T) {
	if got := RequestIDFromContext(nil); got != "" {
		t.Fatalf("expected empty id for nil context, got %s", got)
	}
	ctx := withRequestID(context.Background(), "abc123")
	if got := RequestIDFromContext(ctx); got != "abc123" {
		t.Fatalf("expected id from context, got %s", got)
	}
}

func BenchmarkLoggingMiddleware(b *testing.B) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	rec := metrics.NewRecorder()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := LoggingMiddleware(logger, rec, next)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/travel", nil)
		handler.ServeHTTP(rr, req)
	}
}
