package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/XavierBriggs/fortuna/services/player-stats-api/internal/normalizer"
	"github.com/XavierBriggs/fortuna/services/player-stats-api/pkg/contracts"
	"github.com/XavierBriggs/fortuna/services/player-stats-api/pkg/models"
)

// ErrNoSource is returned when no source URL is configured or given
var ErrNoSource = errors.New("no stats source url configured")

// Store is what the importer reads from and writes back to
type Store interface {
	contracts.PlayerSource
	contracts.PlayerWriter
}

// Observer is notified when a run finishes
type Observer interface {
	ImportDone(err error, records int)
}

// Result summarizes one import run
type Result struct {
	RunID      string    `json:"run_id"`
	SourceURL  string    `json:"source_url"`
	Fetched    int       `json:"fetched"`
	Updated    int       `json:"updated"`
	Added      int       `json:"added"`
	Skipped    int       `json:"skipped"`
	Total      int       `json:"total"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Importer merges remotely published career records into the store
type Importer struct {
	store      Store
	fetcher    *Fetcher
	defaultURL string
	logger     *slog.Logger
	observer   Observer
}

// New creates an importer. observer may be nil.
func New(store Store, fetcher *Fetcher, defaultURL string, logger *slog.Logger, observer Observer) *Importer {
	return &Importer{
		store:      store,
		fetcher:    fetcher,
		defaultURL: defaultURL,
		logger:     logger,
		observer:   observer,
	}
}

// Run fetches from sourceURL (or the configured default), merges by id and
// replaces the stored career records
func (i *Importer) Run(ctx context.Context, sourceURL string) (res *Result, err error) {
	if sourceURL == "" {
		sourceURL = i.defaultURL
	}
	if sourceURL == "" {
		return nil, ErrNoSource
	}

	res = &Result{
		RunID:     uuid.New().String(),
		SourceURL: sourceURL,
		StartedAt: time.Now().UTC(),
	}
	logger := i.logger.With(slog.String("run_id", res.RunID))
	logger.InfoContext(ctx, "stats import started", slog.String("source", sourceURL))

	defer func() {
		if i.observer != nil {
			i.observer.ImportDone(err, res.Total)
		}
		if err != nil {
			logger.ErrorContext(ctx, "stats import failed", slog.Any("error", err))
		}
	}()

	incoming, err := i.fetcher.Fetch(ctx, sourceURL)
	if err != nil {
		return res, fmt.Errorf("fetching stats: %w", err)
	}
	res.Fetched = len(incoming)

	existing, err := i.store.ListPlayers(ctx)
	if err != nil {
		return res, fmt.Errorf("loading existing players: %w", err)
	}

	merged := Merge(existing, incoming)
	res.Updated, res.Added, res.Skipped, res.Total = merged.Updated, merged.Added, merged.Skipped, len(merged.Records)

	if err := i.store.ReplacePlayers(ctx, merged.Header, merged.Records); err != nil {
		return res, fmt.Errorf("writing players: %w", err)
	}

	res.FinishedAt = time.Now().UTC()
	logger.InfoContext(ctx, "stats import finished",
		slog.Int("fetched", res.Fetched),
		slog.Int("updated", res.Updated),
		slog.Int("added", res.Added),
		slog.Int("skipped", res.Skipped),
		slog.Duration("elapsed", res.FinishedAt.Sub(res.StartedAt)),
	)
	return res, nil
}

// MergeResult is the outcome of merging incoming records into existing ones
type MergeResult struct {
	Header  []string
	Records []models.RawRecord
	Updated int
	Added   int
	Skipped int
}

// Merge overlays incoming records onto existing ones by id. Incoming values
// replace existing ones field by field, unknown ids are appended in incoming
// order, and incoming records without an id are skipped. Existing order is kept.
func Merge(existing, incoming []models.RawRecord) MergeResult {
	var res MergeResult

	index := make(map[string]int, len(existing))
	records := make([]models.RawRecord, 0, len(existing)+len(incoming))
	for _, rec := range existing {
		cp := make(models.RawRecord, len(rec))
		for k, v := range rec {
			cp[k] = v
		}
		index[rec[normalizer.FieldID]] = len(records)
		records = append(records, cp)
	}

	for _, rec := range incoming {
		id := rec[normalizer.FieldID]
		if id == "" {
			res.Skipped++
			continue
		}
		if pos, ok := index[id]; ok {
			for k, v := range rec {
				records[pos][k] = v
			}
			res.Updated++
			continue
		}
		cp := make(models.RawRecord, len(rec))
		for k, v := range rec {
			cp[k] = v
		}
		index[id] = len(records)
		records = append(records, cp)
		res.Added++
	}

	res.Records = records
	res.Header = header(records)
	return res
}

// header lists career schema columns first, then any extra columns sorted
func header(records []models.RawRecord) []string {
	cols := normalizer.CareerSchema.Names()
	known := make(map[string]bool, len(cols))
	for _, c := range cols {
		known[c] = true
	}

	var extra []string
	for _, rec := range records {
		for k := range rec {
			if k != "" && !known[k] {
				known[k] = true
				extra = append(extra, k)
			}
		}
	}
	sort.Strings(extra)
	return append(cols, extra...)
}
