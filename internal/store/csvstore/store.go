package csvstore

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/XavierBriggs/fortuna/services/player-stats-api/pkg/contracts"
	"github.com/XavierBriggs/fortuna/services/player-stats-api/pkg/models"
)

// Store implements contracts.PlayerSource over a career averages CSV and a
// directory of per-player season CSVs. Career rows are held in memory and
// replaced wholesale on Reload; season files are read on demand.
type Store struct {
	careerPath string
	seasons    *SeasonDir
	logger     *slog.Logger

	mu      sync.RWMutex
	players []models.RawRecord
	byID    map[string]models.RawRecord
}

var (
	_ contracts.PlayerSource = (*Store)(nil)
	_ contracts.Reloader     = (*Store)(nil)
	_ contracts.PlayerWriter = (*Store)(nil)
)

// New creates a store and loads the career file
func New(ctx context.Context, careerPath, seasonsDir string, logger *slog.Logger) (*Store, error) {
	s := &Store{
		careerPath: careerPath,
		seasons:    NewSeasonDir(seasonsDir),
		logger:     logger,
	}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads the career file. Duplicate identifiers keep their first row.
func (s *Store) Reload(ctx context.Context) error {
	_, rows, err := ReadFile(s.careerPath)
	if err != nil {
		return fmt.Errorf("loading career averages %s: %w", s.careerPath, err)
	}

	players := make([]models.RawRecord, 0, len(rows))
	byID := make(map[string]models.RawRecord, len(rows))
	for _, row := range rows {
		id := row["id"]
		if id == "" {
			s.logger.WarnContext(ctx, "skipping career row without id", slog.String("name", row["name"]))
			continue
		}
		if _, dup := byID[id]; dup {
			s.logger.WarnContext(ctx, "duplicate player id, keeping first row", slog.String("player_id", id))
			continue
		}
		byID[id] = row
		players = append(players, row)
	}

	s.mu.Lock()
	s.players = players
	s.byID = byID
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "career averages loaded",
		slog.String("path", s.careerPath),
		slog.Int("players", len(players)),
	)
	return nil
}

// CareerPath returns the career averages file path
func (s *Store) CareerPath() string { return s.careerPath }

func (s *Store) ListPlayers(ctx context.Context) ([]models.RawRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.RawRecord, len(s.players))
	for i, p := range s.players {
		out[i] = clone(p)
	}
	return out, nil
}

func (s *Store) GetCareerRecord(ctx context.Context, playerID string) (models.RawRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.byID[playerID]
	if !ok {
		return nil, contracts.ErrPlayerNotFound
	}
	return clone(rec), nil
}

// GetSeasonRecords locates the player's season file and returns its rows
// ordered by leading season year. No file means no seasons.
func (s *Store) GetSeasonRecords(ctx context.Context, playerID string) ([]models.RawRecord, error) {
	name := ""
	if rec, err := s.GetCareerRecord(ctx, playerID); err == nil {
		name = rec["name"]
	}

	rows, err := s.seasons.Records(playerID, name)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		s.logger.DebugContext(ctx, "no season data for player", slog.String("player_id", playerID))
	}
	return rows, nil
}

// Ping checks that the career file is still readable
func (s *Store) Ping(ctx context.Context) error {
	if _, err := os.Stat(s.careerPath); err != nil {
		return fmt.Errorf("career averages unavailable: %w", err)
	}
	return nil
}

func clone(r models.RawRecord) models.RawRecord {
	out := make(models.RawRecord, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// ReplacePlayers rewrites the career file and reloads it
func (s *Store) ReplacePlayers(ctx context.Context, header []string, records []models.RawRecord) error {
	if err := WriteFile(s.careerPath, header, records); err != nil {
		return fmt.Errorf("writing career averages: %w", err)
	}
	return s.Reload(ctx)
}
