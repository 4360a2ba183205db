//go:build integration

package pgstore

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XavierBriggs/fortuna/services/player-stats-api/pkg/contracts"
	"github.com/XavierBriggs/fortuna/services/player-stats-api/pkg/models"
)

func newIntegrationStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("PLAYER_STATS_TEST_DSN")
	if dsn == "" {
		t.Skip("PLAYER_STATS_TEST_DSN not set")
	}

	s, err := New(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	ctx := context.Background()
	require.NoError(t, s.Migrate(ctx))
	_, err = s.db.ExecContext(ctx, "TRUNCATE players CASCADE")
	require.NoError(t, err)
	return s
}

func TestStore_RoundTrip(t *testing.T) {
	s := newIntegrationStore(t)
	ctx := context.Background()

	err := s.ReplacePlayers(ctx, nil, []models.RawRecord{
		{"id": "2544", "name": "LeBron James", "ppg": "27.1"},
		{"id": "201939", "name": "Stephen Curry", "ppg": "24.8"},
	})
	require.NoError(t, err)

	require.NoError(t, s.ReplaceSeasons(ctx, "201939", []models.RawRecord{
		{"season": "2015-16", "ppg": "30.1"},
		{"season": "2009-10", "ppg": "17.5"},
		{"season": "2015-16", "ppg": "99"},
	}))

	players, err := s.ListPlayers(ctx)
	require.NoError(t, err)
	require.Len(t, players, 2)
	assert.Equal(t, "2544", players[0]["id"])

	rec, err := s.GetCareerRecord(ctx, "201939")
	require.NoError(t, err)
	assert.Equal(t, "24.8", rec["ppg"])
	_, ok := rec["rpg"]
	assert.False(t, ok)

	seasons, err := s.GetSeasonRecords(ctx, "201939")
	require.NoError(t, err)
	require.Len(t, seasons, 2)
	assert.Equal(t, "2009-10", seasons[0]["season"])
	assert.Equal(t, "30.1", seasons[1]["ppg"])

	// a second load replaces the player's rows
	require.NoError(t, s.ReplaceSeasons(ctx, "201939", []models.RawRecord{{"season": "2021-22", "ppg": "25.5"}}))
	seasons, err = s.GetSeasonRecords(ctx, "201939")
	require.NoError(t, err)
	require.Len(t, seasons, 1)
	assert.Equal(t, "2021-22", seasons[0]["season"])

	_, err = s.GetCareerRecord(ctx, "0")
	assert.ErrorIs(t, err, contracts.ErrPlayerNotFound)

	// replacing drops ids that are no longer present
	require.NoError(t, s.ReplacePlayers(ctx, nil, []models.RawRecord{{"id": "2544", "name": "LeBron James"}}))
	players, err = s.ListPlayers(ctx)
	require.NoError(t, err)
	assert.Len(t, players, 1)
}
