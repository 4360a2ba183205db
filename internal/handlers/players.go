package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/XavierBriggs/fortuna/services/player-stats-api/internal/charts"
	"github.com/XavierBriggs/fortuna/services/player-stats-api/internal/export"
	"github.com/XavierBriggs/fortuna/services/player-stats-api/internal/players"
	"github.com/XavierBriggs/fortuna/services/player-stats-api/pkg/contracts"
	"github.com/XavierBriggs/fortuna/services/player-stats-api/pkg/models"
)

// GetPlayers lists players
// Query params: q (name search), sort (career_pts, ppg, rpg, apg, championships), limit
func (h *Handler) GetPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	sortKey := r.URL.Query().Get("sort")
	if !players.ValidSort(sortKey) {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("unknown sort %q", sortKey), nil)
		return
	}

	limit := players.ClampLimit(parseIntParam(r, "limit", players.DefaultListLimit))
	list, total, err := h.players.List(ctx, players.ListFilters{
		Query: r.URL.Query().Get("q"),
		Sort:  sortKey,
		Limit: limit,
	})
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to retrieve players", err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"players": list,
		"count":   len(list),
		"total":   total,
		"limit":   limit,
	})
}

// GetPlayer retrieves a single player's career record
func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	player, ok := h.loadPlayer(ctx, w, chi.URLParam(r, "playerID"))
	if !ok {
		return
	}

	h.respondJSON(w, http.StatusOK, player)
}

// GetPlayerSeasons retrieves a player's season table
// Query params: order (desc default, asc)
func (h *Handler) GetPlayerSeasons(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	order := strings.ToLower(r.URL.Query().Get("order"))
	if order == "" {
		order = "desc"
	}
	if order != "asc" && order != "desc" {
		h.respondError(w, http.StatusBadRequest, "order must be asc or desc", nil)
		return
	}

	playerID := chi.URLParam(r, "playerID")
	player, seasons, ok := h.loadSeasons(ctx, w, playerID)
	if !ok {
		return
	}
	players.SortSeasons(seasons, order == "desc")

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"player_id": player.ID,
		"name":      player.Name,
		"seasons":   seasons,
		"count":     len(seasons),
		"order":     order,
	})
}

// GetSeasonTrend returns one stat across a player's seasons
// Query params: stat (ppg default)
func (h *Handler) GetSeasonTrend(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	trend, ok := h.buildTrend(ctx, w, r)
	if !ok {
		return
	}

	h.respondJSON(w, http.StatusOK, trend)
}

// GetSeasonTrendChart renders the season trend as a PNG line chart
func (h *Handler) GetSeasonTrendChart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	trend, ok := h.buildTrend(ctx, w, r)
	if !ok {
		return
	}

	png, err := charts.TrendChart(trend, h.palette)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to render chart", err)
		return
	}

	h.respondFile(w, "image/png", "", png)
}

// ExportPlayerSeasons downloads the player card and season table as XLSX
func (h *Handler) ExportPlayerSeasons(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	playerID := chi.URLParam(r, "playerID")
	player, seasons, ok := h.loadSeasons(ctx, w, playerID)
	if !ok {
		return
	}
	players.SortSeasons(seasons, true)

	var buf bytes.Buffer
	if err := export.WriteSeasons(&buf, player, seasons); err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to build workbook", err)
		return
	}

	h.respondFile(w, export.ContentType, fmt.Sprintf("player_%s_seasons.xlsx", player.ID), buf.Bytes())
}

func (h *Handler) buildTrend(ctx context.Context, w http.ResponseWriter, r *http.Request) (players.Trend, bool) {
	stat, err := players.LookupTrendStat(r.URL.Query().Get("stat"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), nil)
		return players.Trend{}, false
	}

	playerID := chi.URLParam(r, "playerID")
	_, seasons, ok := h.loadSeasons(ctx, w, playerID)
	if !ok {
		return players.Trend{}, false
	}

	return players.BuildTrend(playerID, seasons, stat), true
}

// loadPlayer writes the error response itself and reports whether to continue
func (h *Handler) loadPlayer(ctx context.Context, w http.ResponseWriter, playerID string) (*models.PlayerCareerRecord, bool) {
	if playerID == "" {
		h.respondError(w, http.StatusBadRequest, "player_id is required", nil)
		return nil, false
	}

	player, err := h.players.Career(ctx, playerID)
	if errors.Is(err, contracts.ErrPlayerNotFound) {
		h.respondError(w, http.StatusNotFound, "player not found", nil)
		return nil, false
	}
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to retrieve player", err)
		return nil, false
	}

	return player, true
}

func (h *Handler) loadSeasons(ctx context.Context, w http.ResponseWriter, playerID string) (*models.PlayerCareerRecord, []models.PlayerSeasonRecord, bool) {
	player, ok := h.loadPlayer(ctx, w, playerID)
	if !ok {
		return nil, nil, false
	}

	seasons, err := h.players.Seasons(ctx, playerID)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to retrieve seasons", err)
		return nil, nil, false
	}

	return player, seasons, true
}
