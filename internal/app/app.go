package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/XavierBriggs/fortuna/services/player-stats-api/internal/cache"
	"github.com/XavierBriggs/fortuna/services/player-stats-api/internal/compare"
	"github.com/XavierBriggs/fortuna/services/player-stats-api/internal/config"
	"github.com/XavierBriggs/fortuna/services/player-stats-api/internal/importer"
	"github.com/XavierBriggs/fortuna/services/player-stats-api/internal/metrics"
	"github.com/XavierBriggs/fortuna/services/player-stats-api/internal/players"
	"github.com/XavierBriggs/fortuna/services/player-stats-api/internal/retry"
	"github.com/XavierBriggs/fortuna/services/player-stats-api/internal/store/csvstore"
	"github.com/XavierBriggs/fortuna/services/player-stats-api/internal/store/pgstore"
	"github.com/XavierBriggs/fortuna/services/player-stats-api/pkg/contracts"
)

// App holds the wired services shared by the server and the CLI
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Source   importer.Store
	Players  *players.Service
	Compare  *compare.Service
	Importer *importer.Importer

	store   importer.Store
	cache   *cache.PlayerCache
	closers []func() error
}

// ErrSeasonsReadOnly is returned by LoadSeasons when the storage driver reads
// season files directly
var ErrSeasonsReadOnly = errors.New("storage driver does not store season rows")

// SeasonLoad summarizes a LoadSeasons run
type SeasonLoad struct {
	Players int // players with at least one season file
	Seasons int // rows written
}

// NewLogger builds the slog logger described by cfg
func NewLogger(cfg config.LoggingConfig, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// New opens the configured player source and wires the services on top of it.
// m may be nil when metrics are disabled.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) (*App, error) {
	a := &App{
		Config:  cfg,
		Logger:  logger,
		Metrics: m,
	}

	source, err := a.openSource(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.store = source

	if cfg.Redis.Enabled {
		client, err := connectRedis(ctx, cfg.Redis)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, client.Close)

		var observer cache.Observer
		if m != nil {
			observer = m
		}
		a.cache = cache.NewPlayerCache(source, client, cfg.Redis.TTL, logger, observer)
		source = a.cache
	}
	a.Source = source

	a.Players = players.NewService(source)
	a.Compare = compare.NewService(a.Players, logger)

	var importObserver importer.Observer
	if m != nil {
		importObserver = m
	}
	fetcher := importer.NewFetcher(
		cfg.Importer.Timeout,
		cfg.Importer.RequestsPerSecond,
		retry.NewPolicy(cfg.Importer.MaxAttempts, cfg.Importer.InitialDelay),
	)
	a.Importer = importer.New(source, fetcher, cfg.Importer.SourceURL, logger, importObserver)

	return a, nil
}

// Close releases connections in reverse order of opening
func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}

// LoadSeasons copies every player's season file from dir into a store that
// keeps season rows itself, then drops cached seasons
func (a *App) LoadSeasons(ctx context.Context, dir string) (SeasonLoad, error) {
	writer, ok := a.store.(contracts.SeasonWriter)
	if !ok {
		return SeasonLoad{}, ErrSeasonsReadOnly
	}

	res, err := loadSeasons(ctx, a.store, csvstore.NewSeasonDir(dir), writer)
	if err != nil {
		return res, err
	}
	a.Logger.InfoContext(ctx, "season rows loaded",
		slog.String("dir", dir),
		slog.Int("players", res.Players),
		slog.Int("seasons", res.Seasons),
	)

	if a.cache != nil {
		if err := a.cache.Invalidate(ctx); err != nil {
			return res, fmt.Errorf("invalidating cache: %w", err)
		}
	}
	return res, nil
}

func loadSeasons(ctx context.Context, src contracts.PlayerSource, dir *csvstore.SeasonDir, dst contracts.SeasonWriter) (SeasonLoad, error) {
	var res SeasonLoad

	players, err := src.ListPlayers(ctx)
	if err != nil {
		return res, fmt.Errorf("listing players: %w", err)
	}

	for _, p := range players {
		id := p["id"]
		rows, err := dir.Records(id, p["name"])
		if err != nil {
			return res, fmt.Errorf("reading seasons for %s: %w", id, err)
		}
		if len(rows) == 0 {
			continue
		}
		if err := dst.ReplaceSeasons(ctx, id, rows); err != nil {
			return res, err
		}
		res.Players++
		res.Seasons += len(rows)
	}
	return res, nil
}

func (a *App) openSource(ctx context.Context) (importer.Store, error) {
	switch a.Config.Storage.Driver {
	case config.DriverPostgres:
		store, err := pgstore.New(a.Config.Storage.PostgresDSN)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, store.Close)
		if err := store.Migrate(ctx); err != nil {
			return nil, err
		}
		return store, nil
	default:
		return csvstore.New(ctx, a.Config.Data.CareerCSV, a.Config.Data.SeasonsDir, a.Logger)
	}
}

// connectRedis accepts either a redis:// URL or a bare host:port
func connectRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	var opts *redis.Options
	if strings.Contains(cfg.URL, "://") {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: cfg.URL}
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}
