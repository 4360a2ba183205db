package players

import (
	"fmt"

	"github.com/XavierBriggs/fortuna/services/player-stats-api/pkg/models"
	"github.com/XavierBriggs/fortuna/services/player-stats-api/pkg/statmath"
)

// TrendStat is one selectable season stat
type TrendStat struct {
	Key        string  `json:"key"`
	Label      string  `json:"label"`
	Multiplier float64 `json:"multiplier,omitempty"`
	value      func(models.PlayerSeasonRecord) float64
}

// TrendStats lists the stats a season trend can be drawn for, in menu order
var TrendStats = []TrendStat{
	{Key: "ppg", Label: "Points Per Game", value: func(s models.PlayerSeasonRecord) float64 { return s.PPG }},
	{Key: "rpg", Label: "Rebounds Per Game", value: func(s models.PlayerSeasonRecord) float64 { return s.RPG }},
	{Key: "apg", Label: "Assists Per Game", value: func(s models.PlayerSeasonRecord) float64 { return s.APG }},
	{Key: "spg", Label: "Steals Per Game", value: func(s models.PlayerSeasonRecord) float64 { return s.SPG }},
	{Key: "bpg", Label: "Blocks Per Game", value: func(s models.PlayerSeasonRecord) float64 { return s.BPG }},
	{Key: "fg_pct", Label: "Field Goal %", Multiplier: 100, value: func(s models.PlayerSeasonRecord) float64 { return s.FGPct }},
	{Key: "ft_pct", Label: "Free Throw %", Multiplier: 100, value: func(s models.PlayerSeasonRecord) float64 { return s.FTPct }},
	{Key: "fg3_pct", Label: "3-Point %", Multiplier: 100, value: func(s models.PlayerSeasonRecord) float64 { return s.FG3Pct }},
	{Key: "games_played", Label: "Games Played", value: func(s models.PlayerSeasonRecord) float64 { return float64(s.GamesPlayed) }},
	{Key: "pts", Label: "Season Points", value: func(s models.PlayerSeasonRecord) float64 { return float64(s.Points) }},
}

// Trend direction
const (
	TrendUp   = "up"
	TrendDown = "down"
)

// Trend is a chronological series of one stat
type Trend struct {
	PlayerID  string    `json:"player_id"`
	Stat      TrendStat `json:"stat"`
	Seasons   []string  `json:"seasons"`
	Values    []float64 `json:"values"`
	Direction string    `json:"direction"`
}

// LookupTrendStat finds a trend stat by key; empty selects points per game
func LookupTrendStat(key string) (TrendStat, error) {
	if key == "" {
		return TrendStats[0], nil
	}
	for _, s := range TrendStats {
		if s.Key == key {
			return s, nil
		}
	}
	return TrendStat{}, fmt.Errorf("unknown trend stat: %s", key)
}

// BuildTrend orders seasons chronologically and extracts one stat.
// Direction is up only when the latest value beats the first.
func BuildTrend(playerID string, seasons []models.PlayerSeasonRecord, stat TrendStat) Trend {
	ordered := append([]models.PlayerSeasonRecord(nil), seasons...)
	SortSeasons(ordered, false)

	t := Trend{
		PlayerID:  playerID,
		Stat:      stat,
		Seasons:   make([]string, len(ordered)),
		Values:    make([]float64, len(ordered)),
		Direction: TrendDown,
	}
	for i, s := range ordered {
		v := stat.value(s)
		if stat.Multiplier != 0 {
			v *= stat.Multiplier
		}
		t.Seasons[i] = s.Season
		t.Values[i] = statmath.Round(v, 1)
	}
	if n := len(t.Values); n > 0 && t.Values[n-1] > t.Values[0] {
		t.Direction = TrendUp
	}
	return t
}
