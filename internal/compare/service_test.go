package compare_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XavierBriggs/fortuna/services/player-stats-api/internal/compare"
	"github.com/XavierBriggs/fortuna/services/player-stats-api/pkg/contracts"
	"github.com/XavierBriggs/fortuna/services/player-stats-api/pkg/models"
)

type fakeRepo struct {
	careers     map[string]*models.PlayerCareerRecord
	seasons     map[string][]models.PlayerSeasonRecord
	err         error
	seasonCalls int
}

func (f *fakeRepo) Career(ctx context.Context, id string) (*models.PlayerCareerRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.careers[id]
	if !ok {
		return nil, contracts.ErrPlayerNotFound
	}
	return c, nil
}

func (f *fakeRepo) Seasons(ctx context.Context, id string) ([]models.PlayerSeasonRecord, error) {
	f.seasonCalls++
	return f.seasons[id], nil
}

func newService(repo compare.PlayerRepository) *compare.Service {
	return compare.NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestService_Compare(t *testing.T) {
	repo := &fakeRepo{careers: map[string]*models.PlayerCareerRecord{"5": curry(), "21": jokic()}}
	svc := newService(repo)

	r, err := svc.Compare(context.Background(), compare.Selection{Player1: "5", Player2: "21", Mode: compare.ModeCareer})
	require.NoError(t, err)

	assert.Equal(t, "Stephen Curry", r.Sides[0].Name)
	assert.Equal(t, "Nikola Jokic", r.Radar[1].Label)
	assert.Zero(t, repo.seasonCalls, "career mode must not load seasons")
}

func TestService_CompareSeasonLoadsSeasons(t *testing.T) {
	repo := &fakeRepo{
		careers: map[string]*models.PlayerCareerRecord{"5": curry(), "21": jokic()},
		seasons: map[string][]models.PlayerSeasonRecord{
			"5": {{PlayerID: "5", Season: "2015-16", GamesPlayed: 79, Points: 2375, PPG: 30.1}},
		},
	}
	svc := newService(repo)

	r, err := svc.Compare(context.Background(), compare.Selection{
		Player1: "5", Player2: "21", Mode: compare.ModeSeason, Season1: "2015-16", Season2: "1998-99",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, repo.seasonCalls)
	assert.True(t, r.Sides[0].SeasonFound)
	assert.False(t, r.Sides[1].SeasonFound)
}

func TestService_UnknownPlayer(t *testing.T) {
	repo := &fakeRepo{careers: map[string]*models.PlayerCareerRecord{"5": curry()}}
	svc := newService(repo)

	for _, sel := range []compare.Selection{
		{Player1: "5", Player2: "404"},
		{Player1: "404", Player2: "5"},
		{Player1: "", Player2: "5"},
	} {
		r, err := svc.Compare(context.Background(), sel)
		assert.ErrorIs(t, err, compare.ErrSelectionIncomplete)
		assert.Nil(t, r)
	}
}

func TestService_StorageErrorIsNotSelectionIncomplete(t *testing.T) {
	boom := errors.New("disk on fire")
	svc := newService(&fakeRepo{err: boom})

	_, err := svc.Compare(context.Background(), compare.Selection{Player1: "5", Player2: "21", Mode: compare.ModeCareer})

	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, compare.ErrSelectionIncomplete)
}

func TestSelection_ShareLink(t *testing.T) {
	assert.Equal(t, "/compare?p1=5&p2=21", compare.Selection{Player1: "5", Player2: "21", Mode: compare.ModeCareer}.ShareLink())
	assert.Equal(t,
		"/compare?mode=season&p1=5&p2=21&s1=2015-16",
		compare.Selection{Player1: "5", Player2: "21", Mode: compare.ModeSeason, Season1: "2015-16"}.ShareLink(),
	)
}
