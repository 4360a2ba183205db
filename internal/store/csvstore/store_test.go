package csvstore

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XavierBriggs/fortuna/services/player-stats-api/pkg/contracts"
	"github.com/XavierBriggs/fortuna/services/player-stats-api/pkg/models"
)

const careerCSV = `// career averages, regular season only
id,name,ppg,rpg,apg,spg,bpg,fg_pct,fg3_pct,ft_pct,games_played,career_pts,championships,role
 2544 , LeBron James ,27.1,7.5,7.4,1.5,0.8,0.505,0.348,0.735,1492,40474,4,Forward

201939,Stephen Curry,24.8,4.7,6.4,1.5,0.2,0.473,0.426,0.910,956,23668,4,Guard
2544,Duplicate Row,1,1,1,1,1,1,1,1,1,1,1,Center
893,Michael Jordan,30.1
`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "career.csv"), careerCSV)

	s, err := New(context.Background(), filepath.Join(dir, "career.csv"), filepath.Join(dir, "seasons"), testLogger())
	require.NoError(t, err)
	return s, dir
}

func TestReadRecords(t *testing.T) {
	header, rows, err := ReadRecords(strings.NewReader(careerCSV))
	require.NoError(t, err)

	assert.Equal(t, "id", header[0])
	require.Len(t, rows, 4)
	assert.Equal(t, "2544", rows[0]["id"])
	assert.Equal(t, "LeBron James", rows[0]["name"])

	// short row lacks trailing columns
	_, ok := rows[3].Get("rpg")
	assert.False(t, ok)
	assert.Equal(t, "30.1", rows[3]["ppg"])
}

func TestReadRecords_Empty(t *testing.T) {
	header, rows, err := ReadRecords(strings.NewReader(""))
	require.NoError(t, err)
	assert.Nil(t, header)
	assert.Empty(t, rows)
}

func TestReadRecords_BOMAndNoComment(t *testing.T) {
	_, rows, err := ReadRecords(strings.NewReader("\xEF\xBB\xBFid,name\n7,Kobe Bryant\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "7", rows[0]["id"])
}

func TestStore_ListAndGet(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	players, err := s.ListPlayers(ctx)
	require.NoError(t, err)
	require.Len(t, players, 3, "duplicate id keeps first row")

	rec, err := s.GetCareerRecord(ctx, "2544")
	require.NoError(t, err)
	assert.Equal(t, "LeBron James", rec["name"])

	// returned records are copies
	rec["name"] = "changed"
	again, err := s.GetCareerRecord(ctx, "2544")
	require.NoError(t, err)
	assert.Equal(t, "LeBron James", again["name"])

	_, err = s.GetCareerRecord(ctx, "nope")
	assert.ErrorIs(t, err, contracts.ErrPlayerNotFound)
}

func TestStore_MissingFile(t *testing.T) {
	_, err := New(context.Background(), filepath.Join(t.TempDir(), "missing.csv"), "", testLogger())
	assert.Error(t, err)
}

func TestStore_SeasonsByID(t *testing.T) {
	s, dir := newTestStore(t)
	writeFile(t, filepath.Join(dir, "seasons", "201939_stephen_curry.csv"),
		"season,team,games_played,pts,ppg\n2015-16,1610612744,79,2375,30.1\n2009-10,1610612744,80,1399,17.5\n")

	rows, err := s.GetSeasonRecords(context.Background(), "201939")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2009-10", rows[0]["season"])
	assert.Equal(t, "2015-16", rows[1]["season"])
}

func TestStore_SeasonFileResolution(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		playerID string
	}{
		{"id prefix", "2544_lebron.csv", "2544"},
		{"yearly suffix", "nba_2544_yearly_totals.csv", "2544"},
		{"bare id", "2544.csv", "2544"},
		{"player yearly", "player_2544_yearly.csv", "2544"},
		{"name match", "LeBron_James_seasons.csv", "2544"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, dir := newTestStore(t)
			writeFile(t, filepath.Join(dir, "seasons", tt.file), "season,ppg\n2003-04,20.9\n")

			rows, err := s.GetSeasonRecords(context.Background(), tt.playerID)
			require.NoError(t, err)
			require.Len(t, rows, 1)
			assert.Equal(t, "20.9", rows[0]["ppg"])
		})
	}
}

func TestStore_SeasonsNoFile(t *testing.T) {
	s, dir := newTestStore(t)
	writeFile(t, filepath.Join(dir, "seasons", "201939_stephen_curry.csv"), "season,ppg\n2015-16,30.1\n")

	rows, err := s.GetSeasonRecords(context.Background(), "893")
	require.NoError(t, err)
	assert.Empty(t, rows)

	// missing directory is not an error either
	s.seasons = NewSeasonDir(filepath.Join(dir, "absent"))
	rows, err = s.GetSeasonRecords(context.Background(), "201939")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSeasonDir_Records(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Kobe_Bryant.csv"), "season,ppg\n2005-06,35.4\n2002-03,30.0\n")
	writeFile(t, filepath.Join(dir, "notes.txt"), "not a season file")

	seasons := NewSeasonDir(dir)

	rows, err := seasons.Records("977", "Kobe Bryant")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2002-03", rows[0]["season"])

	rows, err = seasons.Records("977", "")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestStore_ReloadAndWrite(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	header, _, err := ReadFile(s.CareerPath())
	require.NoError(t, err)
	players, err := s.ListPlayers(ctx)
	require.NoError(t, err)

	players = append(players, models.RawRecord{"id": "977", "name": "Kobe Bryant", "ppg": "25.0"})
	require.NoError(t, s.ReplacePlayers(ctx, header, players))

	rec, err := s.GetCareerRecord(ctx, "977")
	require.NoError(t, err)
	assert.Equal(t, "Kobe Bryant", rec["name"])
	assert.Equal(t, "", rec["rpg"])
	assert.NoError(t, s.Ping(ctx))

	require.NoError(t, os.Remove(s.CareerPath()))
	assert.Error(t, s.Ping(ctx))
}
