package importer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XavierBriggs/fortuna/services/player-stats-api/internal/retry"
	"github.com/XavierBriggs/fortuna/services/player-stats-api/internal/store/csvstore"
	"github.com/XavierBriggs/fortuna/services/player-stats-api/pkg/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testFetcher() *Fetcher {
	return NewFetcher(5*time.Second, 0, retry.NewPolicy(3, time.Millisecond))
}

type recordingObserver struct {
	err     error
	records int
	calls   int
}

func (o *recordingObserver) ImportDone(err error, records int) {
	o.err, o.records = err, records
	o.calls++
}

func TestMerge(t *testing.T) {
	existing := []models.RawRecord{
		{"id": "2544", "name": "LeBron James", "ppg": "27.1", "championships": "4"},
		{"id": "893", "name": "Michael Jordan", "ppg": "30.1"},
	}
	incoming := []models.RawRecord{
		{"id": "2544", "ppg": "27.2", "nickname": "King"},
		{"id": "977", "name": "Kobe Bryant", "ppg": "25.0"},
		{"name": "No Id"},
	}

	res := Merge(existing, incoming)

	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, 1, res.Added)
	assert.Equal(t, 1, res.Skipped)
	require.Len(t, res.Records, 3)

	assert.Equal(t, "27.2", res.Records[0]["ppg"])
	assert.Equal(t, "4", res.Records[0]["championships"], "fields absent from the update are kept")
	assert.Equal(t, "King", res.Records[0]["nickname"])
	assert.Equal(t, "893", res.Records[1]["id"])
	assert.Equal(t, "977", res.Records[2]["id"])

	assert.Equal(t, "id", res.Header[0])
	assert.Equal(t, "nickname", res.Header[len(res.Header)-1])

	// inputs are not mutated
	assert.Equal(t, "27.1", existing[0]["ppg"])
}

func TestFetcher_DecodesScalars(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "PlayerStatsBot")
		w.Write([]byte(`[{"id": 977, "name": " Kobe Bryant ", "ppg": 25.0, "fg_pct": 0.447, "active": false, "teams": ["LAL"], "role": null}]`))
	}))
	defer srv.Close()

	records, err := testFetcher().Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "977", rec["id"])
	assert.Equal(t, "Kobe Bryant", rec["name"])
	assert.Equal(t, "25", rec["ppg"])
	assert.Equal(t, "0.447", rec["fg_pct"])
	assert.Equal(t, "false", rec["active"])
	_, hasTeams := rec["teams"]
	assert.False(t, hasTeams)
	_, hasRole := rec["role"]
	assert.False(t, hasRole)
}

func TestFetcher_RetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	records, err := testFetcher().Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestFetcher_ClientErrorIsPermanent(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := testFetcher().Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=404")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestImporter_Run(t *testing.T) {
	dir := t.TempDir()
	career := filepath.Join(dir, "career.csv")
	require.NoError(t, os.WriteFile(career, []byte("id,name,ppg\n2544,LeBron James,27.1\n"), 0o644))

	store, err := csvstore.New(context.Background(), career, filepath.Join(dir, "seasons"), testLogger())
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id": "2544", "ppg": "27.2"}, {"id": "977", "name": "Kobe Bryant", "ppg": 25}]`))
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	imp := New(store, testFetcher(), srv.URL, testLogger(), obs)

	res, err := imp.Run(context.Background(), "")
	require.NoError(t, err)
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, 2, res.Fetched)
	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, 1, res.Added)
	assert.Equal(t, 2, res.Total)

	assert.Equal(t, 1, obs.calls)
	assert.NoError(t, obs.err)
	assert.Equal(t, 2, obs.records)

	// the store was rewritten and reloaded
	rec, err := store.GetCareerRecord(context.Background(), "977")
	require.NoError(t, err)
	assert.Equal(t, "Kobe Bryant", rec["name"])

	rec, err = store.GetCareerRecord(context.Background(), "2544")
	require.NoError(t, err)
	assert.Equal(t, "27.2", rec["ppg"])
	assert.Equal(t, "LeBron James", rec["name"])
}

func TestImporter_NoSource(t *testing.T) {
	imp := New(nil, testFetcher(), "", testLogger(), nil)

	_, err := imp.Run(context.Background(), "")
	assert.True(t, errors.Is(err, ErrNoSource))
}

func TestImporter_FetchFailureReported(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	imp := New(nil, testFetcher(), "", testLogger(), obs)

	_, err := imp.Run(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Equal(t, 1, obs.calls)
	assert.Error(t, obs.err)
}
