package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/XavierBriggs/fortuna/services/player-stats-api/internal/app"
	"github.com/XavierBriggs/fortuna/services/player-stats-api/internal/charts"
	"github.com/XavierBriggs/fortuna/services/player-stats-api/internal/compare"
	"github.com/XavierBriggs/fortuna/services/player-stats-api/internal/config"
	"github.com/XavierBriggs/fortuna/services/player-stats-api/internal/export"
	"github.com/XavierBriggs/fortuna/services/player-stats-api/internal/players"
)

// statsctl wires the services lazily so --help works without data files
type statsctl struct {
	out io.Writer
	app *app.App
}

func newCLI(out io.Writer) *cli.App {
	s := &statsctl{out: out}

	return &cli.App{
		Name:  "statsctl",
		Usage: "browse, compare and update player statistics",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.yaml",
				Usage:   "path to the configuration file",
				EnvVars: []string{"PLAYER_STATS_CONFIG"},
			},
		},
		Before: s.setup,
		After:  s.teardown,
		Commands: []*cli.Command{
			{
				Name:  "players",
				Usage: "list players",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "q", Usage: "name search"},
					&cli.StringFlag{Name: "sort", Value: players.SortCareerPoints, Usage: "career_pts, ppg, rpg, apg or championships"},
					&cli.IntFlag{Name: "limit", Value: players.DefaultListLimit},
				},
				Action: s.listPlayers,
			},
			{
				Name:      "seasons",
				Usage:     "show a player's season table",
				ArgsUsage: "<player-id>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "asc", Usage: "oldest season first"},
				},
				Action: s.showSeasons,
			},
			{
				Name:      "compare",
				Usage:     "compare two players",
				ArgsUsage: "<player1-id> <player2-id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "mode", Value: string(compare.ModeCareer), Usage: "career or season"},
					&cli.StringFlag{Name: "s1", Usage: "season for player 1 (season mode)"},
					&cli.StringFlag{Name: "s2", Usage: "season for player 2 (season mode)"},
					&cli.StringFlag{Name: "chart", Usage: "also write a PNG chart to this path"},
				},
				Action: s.comparePlayers,
			},
			{
				Name:      "export",
				Usage:     "write a player's card and seasons to an XLSX workbook",
				ArgsUsage: "<player-id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Required: true},
				},
				Action: s.exportSeasons,
			},
			{
				Name:  "import",
				Usage: "fetch career stats and merge them into the data store",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "source", Usage: "override the configured source URL"},
				},
				Action: s.importStats,
			},
			{
				Name:  "load-seasons",
				Usage: "copy per-player season files into a database-backed store",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "dir", Usage: "seasons directory (default: data.seasons_dir)"},
				},
				Action: s.loadSeasons,
			},
		},
	}
}

func (s *statsctl) setup(c *cli.Context) error {
	// help and unknown commands need no data
	if c.NArg() == 0 || c.Args().First() == "help" || c.Bool("help") {
		return nil
	}

	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return err
	}

	a, err := app.New(c.Context, cfg, app.NewLogger(cfg.Logging, os.Stderr), nil)
	if err != nil {
		return err
	}
	s.app = a
	return nil
}

func (s *statsctl) teardown(c *cli.Context) error {
	if s.app == nil {
		return nil
	}
	return s.app.Close()
}

func (s *statsctl) listPlayers(c *cli.Context) error {
	if !players.ValidSort(c.String("sort")) {
		return fmt.Errorf("unknown sort %q", c.String("sort"))
	}

	list, total, err := s.app.Players.List(c.Context, players.ListFilters{
		Query: c.String("q"),
		Sort:  c.String("sort"),
		Limit: c.Int("limit"),
	})
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPPG\tRPG\tAPG\tPTS\tTITLES")
	for _, p := range list {
		fmt.Fprintf(tw, "%s\t%s\t%.1f\t%.1f\t%.1f\t%d\t%d\n", p.ID, p.Name, p.PPG, p.RPG, p.APG, p.CareerPoints, p.Championships)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%d of %d players\n", len(list), total)
	return nil
}

func (s *statsctl) showSeasons(c *cli.Context) error {
	playerID, err := oneArg(c)
	if err != nil {
		return err
	}

	player, err := s.app.Players.Career(c.Context, playerID)
	if err != nil {
		return fmt.Errorf("player %s: %w", playerID, err)
	}
	seasons, err := s.app.Players.Seasons(c.Context, playerID)
	if err != nil {
		return err
	}
	players.SortSeasons(seasons, !c.Bool("asc"))

	fmt.Fprintf(s.out, "%s (%s)\n", player.Name, player.ID)
	if len(seasons) == 0 {
		fmt.Fprintln(s.out, "no season data")
		return nil
	}

	tw := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SEASON\tGP\tPTS\tPPG\tRPG\tAPG\tFG%\t3P%\tFT%")
	for _, ss := range seasons {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.1f\t%.1f\t%.1f\t%.1f\t%.1f\t%.1f\n",
			ss.Season, ss.GamesPlayed, ss.Points, ss.PPG, ss.RPG, ss.APG,
			ss.FGPct*100, ss.FG3Pct*100, ss.FTPct*100)
	}
	return tw.Flush()
}

func (s *statsctl) comparePlayers(c *cli.Context) error {
	if c.NArg() != 2 {
		return errors.New("expected two player ids")
	}
	mode, err := compare.ParseMode(c.String("mode"))
	if err != nil {
		return err
	}

	sel := compare.Selection{
		Player1: c.Args().Get(0),
		Player2: c.Args().Get(1),
		Mode:    mode,
		Season1: c.String("s1"),
		Season2: c.String("s2"),
	}
	res, err := s.app.Compare.Compare(c.Context, sel)
	if err != nil {
		return err
	}

	a, b := res.Sides[0], res.Sides[1]
	fmt.Fprintf(s.out, "%s vs %s (%s)\n", sideLabel(a, mode), sideLabel(b, mode), mode)

	tw := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STAT\tP1\tP2\tHIGHER")
	for _, bar := range res.Bars {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", bar.Label, formatValue(bar.Value1), formatValue(bar.Value2), bar.HigherSide)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "share: %s\n", sel.ShareLink())

	if path := c.String("chart"); path != "" {
		png, err := charts.ComparisonChart(res, charts.DefaultPalette)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, png, 0o644); err != nil {
			return fmt.Errorf("writing chart: %w", err)
		}
		fmt.Fprintf(s.out, "✓ Chart written to %s\n", path)
	}
	return nil
}

func (s *statsctl) exportSeasons(c *cli.Context) error {
	playerID, err := oneArg(c)
	if err != nil {
		return err
	}

	player, err := s.app.Players.Career(c.Context, playerID)
	if err != nil {
		return fmt.Errorf("player %s: %w", playerID, err)
	}
	seasons, err := s.app.Players.Seasons(c.Context, playerID)
	if err != nil {
		return err
	}
	players.SortSeasons(seasons, true)

	path := c.String("out")
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.WriteSeasons(f, player, seasons); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Fprintf(s.out, "✓ Exported %d seasons for %s to %s\n", len(seasons), player.Name, path)
	return nil
}

func (s *statsctl) importStats(c *cli.Context) error {
	res, err := s.app.Importer.Run(c.Context, c.String("source"))
	if err != nil {
		return err
	}

	fmt.Fprintf(s.out, "✓ Import %s: fetched %d, updated %d, added %d, skipped %d (%d total)\n",
		res.RunID, res.Fetched, res.Updated, res.Added, res.Skipped, res.Total)
	return nil
}

func (s *statsctl) loadSeasons(c *cli.Context) error {
	dir := c.String("dir")
	if dir == "" {
		dir = s.app.Config.Data.SeasonsDir
	}

	res, err := s.app.LoadSeasons(c.Context, dir)
	if err != nil {
		return err
	}

	fmt.Fprintf(s.out, "✓ Loaded %d seasons for %d players from %s\n", res.Seasons, res.Players, dir)
	return nil
}

func oneArg(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", errors.New("expected one player id")
	}
	return c.Args().First(), nil
}

func sideLabel(side compare.SideSummary, mode compare.Mode) string {
	if mode != compare.ModeSeason {
		return side.Name
	}
	if !side.SeasonFound {
		return side.Name + " (career, season " + side.Season + " not found)"
	}
	return side.Name + " (" + side.Season + ")"
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
