package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/XavierBriggs/fortuna/services/player-stats-api/internal/importer"
)

// StatsImporter runs a stats update, see importer.Importer
type StatsImporter interface {
	Run(ctx context.Context, sourceURL string) (*importer.Result, error)
}

// AdminHandler handles maintenance endpoints
type AdminHandler struct {
	responder
	importer StatsImporter
	timeout  time.Duration
}

// NewAdminHandler creates a new admin handler. Each update is cancelled after
// timeout; zero leaves it bound only by the request context.
func NewAdminHandler(imp StatsImporter, timeout time.Duration, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		responder: responder{logger: logger},
		importer:  imp,
		timeout:   timeout,
	}
}

// UpdateStats fetches the latest career stats from the configured source and
// merges them into the data store. The request body is not read; the source
// can only be overridden from statsctl.
func (h *AdminHandler) UpdateStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	res, err := h.importer.Run(ctx, "")
	if errors.Is(err, importer.ErrNoSource) {
		h.respondError(w, http.StatusBadRequest, "no stats source configured", nil)
		return
	}
	if errors.Is(err, context.DeadlineExceeded) {
		h.respondError(w, http.StatusGatewayTimeout, "stats update timed out", err)
		return
	}
	if err != nil {
		h.respondError(w, http.StatusBadGateway, "failed to update stats", err)
		return
	}

	h.logger.InfoContext(r.Context(), "stats updated via api", slog.String("run_id", res.RunID))
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Stats updated successfully",
		"result":  res,
	})
}
