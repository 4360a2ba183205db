package compare

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/XavierBriggs/fortuna/services/player-stats-api/pkg/contracts"
	"github.com/XavierBriggs/fortuna/services/player-stats-api/pkg/models"
)

// PlayerRepository resolves typed records for the comparison service
type PlayerRepository interface {
	Career(ctx context.Context, playerID string) (*models.PlayerCareerRecord, error)
	Seasons(ctx context.Context, playerID string) ([]models.PlayerSeasonRecord, error)
}

// Selection is the full caller-held comparison state
type Selection struct {
	Player1 string
	Player2 string
	Mode    Mode
	Season1 string
	Season2 string
}

// ShareLink returns the relative URL that reproduces this selection
func (s Selection) ShareLink() string {
	q := url.Values{}
	q.Set("p1", s.Player1)
	q.Set("p2", s.Player2)
	if s.Mode == ModeSeason {
		q.Set("mode", string(ModeSeason))
		if s.Season1 != "" {
			q.Set("s1", s.Season1)
		}
		if s.Season2 != "" {
			q.Set("s2", s.Season2)
		}
	}
	return "/compare?" + q.Encode()
}

// Service resolves player identifiers and runs Compare
type Service struct {
	repo   PlayerRepository
	logger *slog.Logger
}

// NewService creates a comparison service
func NewService(repo PlayerRepository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Compare resolves both players and compares them. Unknown identifiers yield
// ErrSelectionIncomplete; storage failures are returned as-is.
func (s *Service) Compare(ctx context.Context, sel Selection) (*Result, error) {
	if sel.Player1 == "" || sel.Player2 == "" {
		return nil, ErrSelectionIncomplete
	}

	a, err := s.side(ctx, sel.Player1, sel.Season1, sel.Mode)
	if err != nil {
		return nil, err
	}
	b, err := s.side(ctx, sel.Player2, sel.Season2, sel.Mode)
	if err != nil {
		return nil, err
	}

	result, err := Compare(a, b, sel.Mode)
	if err != nil {
		return nil, err
	}

	for _, side := range result.Sides {
		if sel.Mode == ModeSeason && !side.SeasonFound {
			s.logger.DebugContext(ctx, "season not found, using career averages",
				slog.String("player_id", side.PlayerID),
				slog.String("season", side.Season),
			)
		}
	}

	return result, nil
}

func (s *Service) side(ctx context.Context, playerID, season string, mode Mode) (Side, error) {
	career, err := s.repo.Career(ctx, playerID)
	if err != nil {
		if errors.Is(err, contracts.ErrPlayerNotFound) {
			return Side{}, fmt.Errorf("%w: player %q", ErrSelectionIncomplete, playerID)
		}
		return Side{}, fmt.Errorf("loading player %s: %w", playerID, err)
	}

	side := Side{Career: career, Season: season}
	if mode != ModeSeason {
		return side, nil
	}

	seasons, err := s.repo.Seasons(ctx, playerID)
	if err != nil {
		return Side{}, fmt.Errorf("loading seasons for %s: %w", playerID, err)
	}
	side.Seasons = seasons
	return side, nil
}
