package handlers

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	domaingames "nhl-travel-service/internal/domain/games"
	"nhl-travel-service/internal/http/requestutil"
	"nhl-travel-service/internal/logging"
	"nhl-travel-service/internal/timeutil"
)

// Refresher re-fetches a schedule day upstream and overwrites the cached copy.
type Refresher interface {
	Refresh(ctx context.Context, date string) ([]domaingames.Game, error)
}

// AdminHandler exposes admin-only endpoints (cache refresh).
type AdminHandler struct {
	refresher Refresher
	today     func() string
	token     string
	logger    *slog.Logger
}

// NewAdminHandler constructs an AdminHandler. today supplies the default date.
func NewAdminHandler(refresher Refresher, today func() string, token string, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		refresher: refresher,
		today:     today,
		token:     token,
		logger:    logger,
	}
}

// RefreshCache re-fetches the requested date (defaults to today) and overwrites the cache entry.
// Guarded by ADMIN_TOKEN; returns 401 if missing or invalid.
func (h *AdminHandler) RefreshCache(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost, h.logger) {
		return
	}
	if !h.authorize(r) {
		logging.Warn(h.logger, "admin unauthorized",
			slog.String(logging.FieldPath, r.URL.Path),
			slog.String("client_ip", requestutil.ClientIP(r)),
		)
		writeError(w, r, http.StatusUnauthorized, "unauthorized", h.logger)
		return
	}
	if h.refresher == nil {
		writeError(w, r, http.StatusServiceUnavailable, "cache not configured", h.logger)
		return
	}

	logger := loggerFromContext(r, h.logger)
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if date == "" && h.today != nil {
		date = h.today()
	}
	if _, err := timeutil.ParseDate(date); err != nil {
		logging.Warn(logger, "admin refresh invalid date", slog.String(logging.FieldDate, date))
		writeError(w, r, http.StatusBadRequest, "invalid date format", logger)
		return
	}

	games, err := h.refresher.Refresh(r.Context(), date)
	if err != nil {
		logging.Warn(logger, "admin refresh fetch failed",
			slog.String(logging.FieldDate, date),
			slog.Any("err", err),
		)
		writeError(w, r, http.StatusBadGateway, "failed to fetch games", logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"date":   date,
		"games":  len(games),
		"status": "ok",
	}, logger)
	logging.Info(logger, "admin cache refreshed",
		slog.String(logging.FieldDate, date),
		slog.Int(logging.FieldCount, len(games)),
	)
}

func (h *AdminHandler) authorize(r *http.Request) bool {
	if h.token == "" {
		return false
	}
	got := r.Header.Get("Authorization")
	want := "Bearer " + h.token
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
