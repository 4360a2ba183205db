package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/XavierBriggs/fortuna/services/player-stats-api/internal/charts"
	"github.com/XavierBriggs/fortuna/services/player-stats-api/internal/compare"
	"github.com/XavierBriggs/fortuna/services/player-stats-api/internal/export"
	"github.com/XavierBriggs/fortuna/services/player-stats-api/internal/metrics"
)

// compareResponse is the comparison plus a link that reproduces it
type compareResponse struct {
	*compare.Result
	ShareLink string `json:"share_link"`
}

// Compare compares two players
// Query params: p1, p2, mode (career default, season), s1, s2 (season labels)
func (h *Handler) Compare(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	sel, res, ok := h.runComparison(ctx, w, r)
	if !ok {
		return
	}

	h.respondJSON(w, http.StatusOK, compareResponse{Result: res, ShareLink: sel.ShareLink()})
}

// CompareChart renders the comparison as a PNG chart
func (h *Handler) CompareChart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	_, res, ok := h.runComparison(ctx, w, r)
	if !ok {
		return
	}

	png, err := charts.ComparisonChart(res, h.palette)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to render chart", err)
		return
	}

	h.respondFile(w, "image/png", "", png)
}

// CompareExport downloads the comparison as XLSX
func (h *Handler) CompareExport(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	sel, res, ok := h.runComparison(ctx, w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteComparison(&buf, res); err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to build workbook", err)
		return
	}

	h.respondFile(w, export.ContentType, fmt.Sprintf("compare_%s_vs_%s.xlsx", sel.Player1, sel.Player2), buf.Bytes())
}

func (h *Handler) runComparison(ctx context.Context, w http.ResponseWriter, r *http.Request) (compare.Selection, *compare.Result, bool) {
	q := r.URL.Query()

	mode, err := compare.ParseMode(q.Get("mode"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "mode must be career or season", nil)
		return compare.Selection{}, nil, false
	}

	sel := compare.Selection{
		Player1: q.Get("p1"),
		Player2: q.Get("p2"),
		Mode:    mode,
		Season1: q.Get("s1"),
		Season2: q.Get("s2"),
	}

	res, err := h.compare.Compare(ctx, sel)
	switch {
	case errors.Is(err, compare.ErrSelectionIncomplete):
		h.recorder.ComparisonDone(string(mode), metrics.OutcomeIncomplete)
		h.respondErrorReason(w, http.StatusNotFound, "select two players to compare", "selection_incomplete", nil)
		return sel, nil, false
	case err != nil:
		h.recorder.ComparisonDone(string(mode), metrics.OutcomeError)
		h.respondError(w, http.StatusInternalServerError, "failed to compare players", err)
		return sel, nil, false
	}

	h.recorder.ComparisonDone(string(mode), metrics.OutcomeOK)
	return sel, res, true
}
