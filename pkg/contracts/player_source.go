package contracts

import (
	"context"
	"errors"

	"github.com/XavierBriggs/fortuna/services/player-stats-api/pkg/models"
)

// ErrPlayerNotFound is returned when an identifier does not resolve to a career record
var ErrPlayerNotFound = errors.New("player not found")

// PlayerSource is the pluggable interface for player data storage.
// Implementations hand out raw text records; typing and defaulting happen downstream.
type PlayerSource interface {
	// ListPlayers returns every career record in source order
	ListPlayers(ctx context.Context) ([]models.RawRecord, error)

	// GetCareerRecord returns ErrPlayerNotFound for unknown identifiers
	GetCareerRecord(ctx context.Context, playerID string) (models.RawRecord, error)

	// GetSeasonRecords returns the player's seasons ordered by leading season
	// year ascending. A player without season data yields an empty slice.
	GetSeasonRecords(ctx context.Context, playerID string) ([]models.RawRecord, error)

	// Ping reports whether the backing store is reachable
	Ping(ctx context.Context) error
}

// Reloader is implemented by sources that can re-read their backing files
type Reloader interface {
	Reload(ctx context.Context) error
}

// PlayerWriter is implemented by sources that accept a full replacement of
// career rows. header carries the column order for file-backed stores.
type PlayerWriter interface {
	ReplacePlayers(ctx context.Context, header []string, records []models.RawRecord) error
}

// SeasonWriter is implemented by sources that store season rows themselves
// rather than reading them from files
type SeasonWriter interface {
	ReplaceSeasons(ctx context.Context, playerID string, records []models.RawRecord) error
}
