package csvstore

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/XavierBriggs/fortuna/services/player-stats-api/pkg/models"
)

// SeasonDir resolves per-player season CSVs inside one directory
type SeasonDir struct {
	dir string
}

// NewSeasonDir returns a resolver for dir. The directory may not exist yet.
func NewSeasonDir(dir string) *SeasonDir {
	return &SeasonDir{dir: dir}
}

// Records returns the player's season rows ordered by leading season year.
// A player without a matching file yields an empty slice.
func (d *SeasonDir) Records(playerID, playerName string) ([]models.RawRecord, error) {
	file, err := d.find(playerID, playerName)
	if err != nil {
		return nil, err
	}
	if file == "" {
		return []models.RawRecord{}, nil
	}

	_, rows, err := ReadFile(filepath.Join(d.dir, file))
	if err != nil {
		return nil, fmt.Errorf("reading season file %s: %w", file, err)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return models.SeasonStartYear(rows[i]["season"]) < models.SeasonStartYear(rows[j]["season"])
	})
	return rows, nil
}

// find matches by identifier first, then by the player's name
func (d *SeasonDir) find(playerID, playerName string) (string, error) {
	entries, err := os.ReadDir(d.dir)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading seasons dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		files = append(files, e.Name())
	}

	for _, f := range files {
		if strings.HasPrefix(f, playerID+"_") ||
			strings.Contains(f, "_"+playerID+"_yearly") ||
			f == playerID+".csv" ||
			f == "player_"+playerID+"_yearly.csv" {
			return f, nil
		}
	}

	if playerName == "" {
		return "", nil
	}
	lowerName := strings.ToLower(playerName)
	underscored := strings.Join(strings.Fields(lowerName), "_")
	for _, f := range files {
		lf := strings.ToLower(f)
		if strings.Contains(lf, underscored) || strings.Contains(lf, lowerName) {
			return f, nil
		}
	}
	return "", nil
}
