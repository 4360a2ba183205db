package players

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/XavierBriggs/fortuna/services/player-stats-api/internal/normalizer"
	"github.com/XavierBriggs/fortuna/services/player-stats-api/pkg/contracts"
	"github.com/XavierBriggs/fortuna/services/player-stats-api/pkg/models"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 500
)

// Sort keys accepted by List
const (
	SortCareerPoints  = "career_pts"
	SortPPG           = "ppg"
	SortRPG           = "rpg"
	SortAPG           = "apg"
	SortChampionships = "championships"
)

// ListFilters contains filters for listing players
type ListFilters struct {
	Query string // case-insensitive name substring
	Sort  string // one of the Sort* keys, default career points
	Limit int
}

// Service exposes typed player records on top of a raw PlayerSource
type Service struct {
	source contracts.PlayerSource
}

// NewService creates a player service
func NewService(source contracts.PlayerSource) *Service {
	return &Service{source: source}
}

// Source returns the underlying raw source
func (s *Service) Source() contracts.PlayerSource { return s.source }

// List returns normalized players matching the filters, sorted descending by the sort key
func (s *Service) List(ctx context.Context, filters ListFilters) ([]models.PlayerCareerRecord, int, error) {
	rows, err := s.source.ListPlayers(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("listing players: %w", err)
	}

	query := strings.ToLower(strings.TrimSpace(filters.Query))
	players := make([]models.PlayerCareerRecord, 0, len(rows))
	for _, raw := range rows {
		p := normalizer.Career(raw)
		if query != "" && !strings.Contains(strings.ToLower(p.Name), query) {
			continue
		}
		players = append(players, p)
	}

	key := sortKey(filters.Sort)
	sort.SliceStable(players, func(i, j int) bool {
		return key(players[i]) > key(players[j])
	})

	total := len(players)
	limit := ClampLimit(filters.Limit)
	if len(players) > limit {
		players = players[:limit]
	}
	for i := range players {
		players[i].DisplayStats = DisplayStats(players[i])
	}

	return players, total, nil
}

// Count returns the number of players in the source
func (s *Service) Count(ctx context.Context) (int, error) {
	rows, err := s.source.ListPlayers(ctx)
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

// Career returns one normalized career record
func (s *Service) Career(ctx context.Context, playerID string) (*models.PlayerCareerRecord, error) {
	raw, err := s.source.GetCareerRecord(ctx, playerID)
	if err != nil {
		return nil, err
	}
	c := normalizer.Career(raw)
	if c.ID == "" {
		c.ID = playerID
	}
	c.DisplayStats = DisplayStats(c)
	return &c, nil
}

// Seasons returns normalized seasons ordered by leading year ascending
func (s *Service) Seasons(ctx context.Context, playerID string) ([]models.PlayerSeasonRecord, error) {
	rows, err := s.source.GetSeasonRecords(ctx, playerID)
	if err != nil {
		return nil, err
	}
	seasons := normalizer.Seasons(playerID, rows)
	SortSeasons(seasons, false)
	return seasons, nil
}

// SortSeasons orders seasons by leading year, most recent first when desc is set
func SortSeasons(seasons []models.PlayerSeasonRecord, desc bool) {
	sort.SliceStable(seasons, func(i, j int) bool {
		if desc {
			return seasons[i].StartYear() > seasons[j].StartYear()
		}
		return seasons[i].StartYear() < seasons[j].StartYear()
	})
}

func sortKey(name string) func(models.PlayerCareerRecord) float64 {
	switch name {
	case SortPPG:
		return func(p models.PlayerCareerRecord) float64 { return p.PPG }
	case SortRPG:
		return func(p models.PlayerCareerRecord) float64 { return p.RPG }
	case SortAPG:
		return func(p models.PlayerCareerRecord) float64 { return p.APG }
	case SortChampionships:
		return func(p models.PlayerCareerRecord) float64 { return float64(p.Championships) }
	default:
		return func(p models.PlayerCareerRecord) float64 { return float64(p.CareerPoints) }
	}
}

// ValidSort reports whether name is an accepted sort key
func ValidSort(name string) bool {
	switch name {
	case "", SortCareerPoints, SortPPG, SortRPG, SortAPG, SortChampionships:
		return true
	}
	return false
}

// ClampLimit applies the default and maximum list sizes
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
