package models

import (
	"strconv"
	"strings"
)

// RawRecord is a player or season row exactly as the storage layer read it.
// A missing key means the field was absent from the source.
type RawRecord map[string]string

// Get returns the field value and whether it was present
func (r RawRecord) Get(field string) (string, bool) {
	v, ok := r[field]
	return v, ok
}

// PlayerCareerRecord represents a player's career averages
type PlayerCareerRecord struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Role          string        `json:"role"`
	GamesPlayed   int           `json:"games_played"`
	PPG           float64       `json:"ppg"`
	RPG           float64       `json:"rpg"`
	APG           float64       `json:"apg"`
	SPG           float64       `json:"spg"`
	BPG           float64       `json:"bpg"`
	FGPct         float64       `json:"fg_pct"`  // fraction, 0.0-1.0
	FTPct         float64       `json:"ft_pct"`  // fraction, 0.0-1.0
	FG3Pct        float64       `json:"fg3_pct"` // fraction, 0.0-1.0
	CareerPoints  int           `json:"career_pts"`
	Championships int           `json:"championships"`
	DisplayStats  []DisplayStat `json:"display_stats,omitempty"`
}

// PlayerSeasonRecord represents one labeled season for a player
type PlayerSeasonRecord struct {
	PlayerID    string  `json:"player_id"`
	Season      string  `json:"season"` // "YYYY-YY"
	Team        string  `json:"team"`
	GamesPlayed int     `json:"games_played"`
	Points      int     `json:"pts"`
	PPG         float64 `json:"ppg"`
	RPG         float64 `json:"rpg"`
	APG         float64 `json:"apg"`
	SPG         float64 `json:"spg"`
	BPG         float64 `json:"bpg"`
	FGPct       float64 `json:"fg_pct"`
	FTPct       float64 `json:"ft_pct"`
	FG3Pct      float64 `json:"fg3_pct"`
}

// StartYear returns the leading year of the season label ("2019-20" -> 2019).
// Labels without a parsable year sort first.
func (s PlayerSeasonRecord) StartYear() int {
	return SeasonStartYear(s.Season)
}

// SeasonStartYear extracts the leading year of a "YYYY-YY" season label
func SeasonStartYear(season string) int {
	head, _, _ := strings.Cut(strings.TrimSpace(season), "-")
	year, err := strconv.Atoi(head)
	if err != nil {
		return 0
	}
	return year
}
