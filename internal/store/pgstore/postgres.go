package pgstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/XavierBriggs/fortuna/services/player-stats-api/internal/normalizer"
	"github.com/XavierBriggs/fortuna/services/player-stats-api/pkg/contracts"
	"github.com/XavierBriggs/fortuna/services/player-stats-api/pkg/models"
)

// Schema creates the tables the store reads. Every stat column is text so
// rows mirror the CSV files and typing stays with the normalizer.
const Schema = `
CREATE TABLE IF NOT EXISTS players (
	id            TEXT PRIMARY KEY,
	name          TEXT,
	role          TEXT,
	games_played  TEXT,
	ppg           TEXT,
	rpg           TEXT,
	apg           TEXT,
	spg           TEXT,
	bpg           TEXT,
	fg_pct        TEXT,
	ft_pct        TEXT,
	fg3_pct       TEXT,
	career_pts    TEXT,
	championships TEXT,
	position      SERIAL
);

CREATE TABLE IF NOT EXISTS player_seasons (
	player_id     TEXT NOT NULL REFERENCES players(id) ON DELETE CASCADE,
	season        TEXT NOT NULL,
	team          TEXT,
	games_played  TEXT,
	pts           TEXT,
	ppg           TEXT,
	rpg           TEXT,
	apg           TEXT,
	spg           TEXT,
	bpg           TEXT,
	fg_pct        TEXT,
	ft_pct        TEXT,
	fg3_pct       TEXT,
	PRIMARY KEY (player_id, season)
);
`

var (
	careerColumns = normalizer.CareerSchema.Names()
	seasonColumns = normalizer.SeasonSchema.Names()
)

// Store implements contracts.PlayerSource for PostgreSQL
type Store struct {
	db *sql.DB
}

var (
	_ contracts.PlayerSource = (*Store)(nil)
	_ contracts.PlayerWriter = (*Store)(nil)
	_ contracts.SeasonWriter = (*Store)(nil)
)

// New opens a connection pool and verifies it
func New(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Migrate creates missing tables
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Close closes the pool
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks database connectivity
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) ListPlayers(ctx context.Context) ([]models.RawRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM players ORDER BY position ASC", strings.Join(careerColumns, ", "))

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query players: %w", err)
	}
	defer rows.Close()

	players := []models.RawRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows, careerColumns)
		if err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		players = append(players, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate players: %w", err)
	}

	return players, nil
}

func (s *Store) GetCareerRecord(ctx context.Context, playerID string) (models.RawRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM players WHERE id = $1", strings.Join(careerColumns, ", "))

	rec, err := scanRecord(s.db.QueryRowContext(ctx, query, playerID), careerColumns)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, contracts.ErrPlayerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query player: %w", err)
	}

	return rec, nil
}

func (s *Store) GetSeasonRecords(ctx context.Context, playerID string) ([]models.RawRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM player_seasons WHERE player_id = $1", strings.Join(seasonColumns, ", "))

	rows, err := s.db.QueryContext(ctx, query, playerID)
	if err != nil {
		return nil, fmt.Errorf("query seasons: %w", err)
	}
	defer rows.Close()

	seasons := []models.RawRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows, seasonColumns)
		if err != nil {
			return nil, fmt.Errorf("scan season: %w", err)
		}
		seasons = append(seasons, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate seasons: %w", err)
	}

	sort.SliceStable(seasons, func(i, j int) bool {
		return models.SeasonStartYear(seasons[i]["season"]) < models.SeasonStartYear(seasons[j]["season"])
	})
	return seasons, nil
}

// ReplacePlayers upserts every record in one transaction and removes ids no
// longer present. Columns outside the career schema are ignored.
func (s *Store) ReplacePlayers(ctx context.Context, header []string, records []models.RawRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertQuery())
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	ids := make([]string, 0, len(records))
	for _, rec := range records {
		args := make([]interface{}, len(careerColumns))
		for i, col := range careerColumns {
			if v, ok := rec[col]; ok {
				args[i] = v
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("upsert player %s: %w", rec["id"], err)
		}
		ids = append(ids, rec["id"])
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM players WHERE NOT (id = ANY($1))", pq.Array(ids)); err != nil {
		return fmt.Errorf("prune players: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// ReplaceSeasons swaps a player's season rows in one transaction. A repeated
// season label keeps its first row; a missing label is stored as empty text.
func (s *Store) ReplaceSeasons(ctx context.Context, playerID string, records []models.RawRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM player_seasons WHERE player_id = $1", playerID); err != nil {
		return fmt.Errorf("clear seasons for %s: %w", playerID, err)
	}

	stmt, err := tx.PrepareContext(ctx, seasonInsertQuery())
	if err != nil {
		return fmt.Errorf("prepare season insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx, seasonArgs(playerID, rec)...); err != nil {
			return fmt.Errorf("insert season %s for %s: %w", rec["season"], playerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func seasonInsertQuery() string {
	placeholders := make([]string, len(seasonColumns)+1)
	for i := range placeholders {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf(
		"INSERT INTO player_seasons (player_id, %s) VALUES (%s) ON CONFLICT (player_id, season) DO NOTHING",
		strings.Join(seasonColumns, ", "),
		strings.Join(placeholders, ", "),
	)
}

// seasonArgs orders a season row for seasonInsertQuery; absent columns are NULL
// except the season label, which the primary key requires
func seasonArgs(playerID string, rec models.RawRecord) []interface{} {
	args := make([]interface{}, 0, len(seasonColumns)+1)
	args = append(args, playerID)
	for _, col := range seasonColumns {
		v, ok := rec[col]
		switch {
		case col == normalizer.FieldSeason:
			args = append(args, strings.TrimSpace(v))
		case ok:
			args = append(args, v)
		default:
			args = append(args, nil)
		}
	}
	return args
}

func upsertQuery() string {
	placeholders := make([]string, len(careerColumns))
	updates := make([]string, 0, len(careerColumns)-1)
	for i, col := range careerColumns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		if col != normalizer.FieldID {
			updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
		}
	}
	return fmt.Sprintf(
		"INSERT INTO players (%s) VALUES (%s) ON CONFLICT (id) DO UPDATE SET %s",
		strings.Join(careerColumns, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(updates, ", "),
	)
}

type scanner interface {
	Scan(dest ...interface{}) error
}

// scanRecord reads nullable text columns; NULLs are left out of the record
func scanRecord(row scanner, columns []string) (models.RawRecord, error) {
	values := make([]sql.NullString, len(columns))
	dest := make([]interface{}, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	rec := make(models.RawRecord, len(columns))
	for i, col := range columns {
		if values[i].Valid {
			rec[col] = values[i].String
		}
	}
	return rec, nil
}
