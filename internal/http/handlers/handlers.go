package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"nhl-travel-service/internal/app/games"
	"nhl-travel-service/internal/app/picks"
	"nhl-travel-service/internal/app/teams"
	domaintravel "nhl-travel-service/internal/domain/travel"
	"nhl-travel-service/internal/logging"
	"nhl-travel-service/internal/poller"
	"nhl-travel-service/internal/timeutil"
)

// Handler wires HTTP routes to the app services.
type Handler struct {
	games    *games.Service
	picks    *picks.Service
	teams    *teams.Service
	logger   *slog.Logger
	statusFn func() poller.Status
}

// NewHandler constructs a Handler. statusFn may be nil when no poller runs.
func NewHandler(gamesSvc *games.Service, picksSvc *picks.Service, teamsSvc *teams.Service, logger *slog.Logger, statusFn func() poller.Status) *Handler {
	return &Handler{
		games:    gamesSvc,
		picks:    picksSvc,
		teams:    teamsSvc,
		logger:   logger,
		statusFn: statusFn,
	}
}

// Health reports the service health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := r.Context().Err(); err != nil {
		writeError(w, r, http.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports readiness for traffic based on the cache warmer.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.statusFn == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	status := h.statusFn()
	if status.IsReady() {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	msg := status.LastError
	if msg == "" {
		msg = "not ready"
	}
	writeError(w, r, http.StatusServiceUnavailable, msg, h.logger)
}

// Games returns the schedule for ?date= (default today in the schedule timezone).
func (h *Handler) Games(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	date, ok := h.dateParam(w, r)
	if !ok {
		return
	}
	resp, err := h.games.Schedule(r.Context(), date)
	if err != nil {
		logging.Warn(logger, "schedule fetch failed", slog.String(logging.FieldDate, date), slog.Any("err", err))
		writeError(w, r, http.StatusBadGateway, "schedule unavailable", logger)
		return
	}
	logging.Info(logger, "served games", slog.String(logging.FieldDate, date), slog.Int(logging.FieldCount, len(resp.Games)))
	writeJSON(w, http.StatusOK, resp, logger)
}

// GameByID returns one game from ?date= (default today).
func (h *Handler) GameByID(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	id := strings.TrimSpace(mux.Vars(r)["id"])
	if id == "" || strings.ContainsAny(id, " \t/") {
		writeError(w, r, http.StatusBadRequest, "invalid game id", logger)
		return
	}
	date, ok := h.dateParam(w, r)
	if !ok {
		return
	}
	game, found, err := h.games.GameByID(r.Context(), date, id)
	if err != nil {
		writeError(w, r, http.StatusBadGateway, "schedule unavailable", logger)
		return
	}
	if !found {
		writeError(w, r, http.StatusNotFound, "game not found", logger)
		return
	}
	writeJSON(w, http.StatusOK, game, logger)
}

// Teams lists every team with its home arena.
func (h *Handler) Teams(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"teams": h.teams.Teams()}, loggerFromContext(r, h.logger))
}

// Travel returns per-team kilometers for ?date= over ?lookback= days.
func (h *Handler) Travel(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	o, err := parseOverrides(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error(), logger)
		return
	}
	resp, err := h.picks.Travel(r.Context(), o)
	if err != nil {
		h.writePicksError(w, r, err)
		return
	}
	logging.Info(logger, "served travel",
		slog.String(logging.FieldDate, resp.Date),
		slog.Int(logging.FieldLookback, resp.LookbackDays),
		slog.Int(logging.FieldCount, len(resp.Travel)),
	)
	writeJSON(w, http.StatusOK, resp, logger)
}

// BestOdds serves strict picks for /best-odds/back-to-back/{when}.
func (h *Handler) BestOdds(w http.ResponseWriter, r *http.Request) {
	h.servePicks(w, r, "best_odds_matchups_", func(when picks.When, o picks.Overrides) ([]domaintravel.Matchup, error) {
		return h.picks.Picks(r.Context(), picks.Strict, when, o)
	})
}

// NextBestOdds serves relaxed picks for /next-best-odds/{when}; ?dedupe=true drops strict picks.
func (h *Handler) NextBestOdds(w http.ResponseWriter, r *http.Request) {
	dedupe, err := parseBool(r.URL.Query().Get("dedupe"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "dedupe must be a boolean", loggerFromContext(r, h.logger))
		return
	}
	h.servePicks(w, r, "next_best_odds_matchups_", func(when picks.When, o picks.Overrides) ([]domaintravel.Matchup, error) {
		return h.picks.NextBest(r.Context(), when, o, dedupe)
	})
}

func (h *Handler) servePicks(w http.ResponseWriter, r *http.Request, keyPrefix string, run func(picks.When, picks.Overrides) ([]domaintravel.Matchup, error)) {
	logger := loggerFromContext(r, h.logger)
	when, err := picks.ParseWhen(mux.Vars(r)["when"])
	if err != nil {
		writeError(w, r, http.StatusNotFound, "unknown window; use today, tomorrow, or future", logger)
		return
	}
	o, err := parseOverrides(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error(), logger)
		return
	}
	list, err := run(when, o)
	if err != nil {
		h.writePicksError(w, r, err)
		return
	}
	logging.Info(logger, "served picks",
		slog.String("envelope", keyPrefix+string(when)),
		slog.Int(logging.FieldCount, len(list)),
	)
	writeJSON(w, http.StatusOK, map[string][]domaintravel.Matchup{keyPrefix + string(when): list}, logger)
}

func (h *Handler) writePicksError(w http.ResponseWriter, r *http.Request, err error) {
	logger := loggerFromContext(r, h.logger)
	if errors.Is(err, picks.ErrInvalidRequest) {
		writeError(w, r, http.StatusBadRequest, err.Error(), logger)
		return
	}
	logging.Error(logger, "picks request failed", err)
	writeError(w, r, http.StatusInternalServerError, "internal error", logger)
}

func (h *Handler) dateParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if date == "" {
		return h.picks.Today(), true
	}
	if _, err := timeutil.ParseDate(date); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid date format (expected YYYY-MM-DD)", loggerFromContext(r, h.logger))
		return "", false
	}
	return date, true
}

func parseOverrides(r *http.Request) (picks.Overrides, error) {
	q := r.URL.Query()
	o := picks.Overrides{Date: strings.TrimSpace(q.Get("date"))}
	if v := strings.TrimSpace(q.Get("lookback")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return o, errors.New("lookback must be an integer")
		}
		o.LookbackDays = &n
	}
	if v := strings.TrimSpace(q.Get("threshold")); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return o, errors.New("threshold must be a number")
		}
		o.Threshold = &f
	}
	if v := strings.TrimSpace(q.Get("night_start")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return o, errors.New("night_start must be an integer")
		}
		o.NightStartHour = &n
	}
	return o, nil
}

func parseBool(v string) (bool, error) {
	if strings.TrimSpace(v) == "" {
		return false, nil
	}
	return strconv.ParseBool(strings.TrimSpace(v))
}
