package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/XavierBriggs/fortuna/services/player-stats-api/internal/charts"
	"github.com/XavierBriggs/fortuna/services/player-stats-api/internal/compare"
	"github.com/XavierBriggs/fortuna/services/player-stats-api/internal/players"
	"github.com/XavierBriggs/fortuna/services/player-stats-api/pkg/models"
)

// ComparisonRecorder counts comparisons by mode and outcome, see metrics.Metrics
type ComparisonRecorder interface {
	ComparisonDone(mode, outcome string)
}

type nopRecorder struct{}

func (nopRecorder) ComparisonDone(string, string) {}

// Handler contains dependencies for HTTP handlers
type Handler struct {
	responder
	players   *players.Service
	compare   *compare.Service
	recorder  ComparisonRecorder
	palette   charts.Palette
	startedAt time.Time
}

// NewHandler creates a new handler with dependencies. recorder may be nil.
func NewHandler(playerSvc *players.Service, compareSvc *compare.Service, recorder ComparisonRecorder, logger *slog.Logger) *Handler {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Handler{
		responder: responder{logger: logger},
		players:   playerSvc,
		compare:   compareSvc,
		recorder:  recorder,
		palette:   charts.DefaultPalette,
		startedAt: time.Now(),
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.players.Source().Ping(ctx); err != nil {
		h.respondError(w, http.StatusServiceUnavailable, "player data unavailable", err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"service":   "player-stats-api",
	})
}

// GetStatus reports the API status and how many players are loaded
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	count, err := h.players.Count(ctx)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to count players", err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "ok",
		"player_count":   count,
		"uptime_seconds": int(time.Since(h.startedAt).Seconds()),
		"timestamp":      time.Now().UTC(),
	})
}

func parseIntParam(r *http.Request, param string, defaultValue int) int {
	valueStr := r.URL.Query().Get(param)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

// responder writes JSON and file responses, logging failures to the injected logger
type responder struct {
	logger *slog.Logger
}

func (rs responder) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		rs.logger.Error("error encoding response", slog.Any("error", err))
	}
}

func (rs responder) respondError(w http.ResponseWriter, status int, message string, err error) {
	rs.respondErrorReason(w, status, message, "", err)
}

func (rs responder) respondErrorReason(w http.ResponseWriter, status int, message, reason string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	errResp := models.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
		Reason:  reason,
	}

	if err != nil {
		level := slog.LevelWarn
		if status >= 500 {
			level = slog.LevelError
		}
		rs.logger.Log(context.Background(), level, message, slog.Int("status", status), slog.Any("error", err))
	}

	if err := json.NewEncoder(w).Encode(errResp); err != nil {
		rs.logger.Error("error encoding error response", slog.Any("error", err))
	}
}

// respondFile writes a generated binary body
func (rs responder) respondFile(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if filename != "" {
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		rs.logger.Error("error writing file response", slog.Any("error", err))
	}
}
