package compare

import (
	"errors"
	"fmt"

	"github.com/XavierBriggs/fortuna/services/player-stats-api/pkg/models"
	"github.com/XavierBriggs/fortuna/services/player-stats-api/pkg/statmath"
)

var (
	// ErrSelectionIncomplete means one or both sides did not resolve to a player.
	// No partial comparison is produced.
	ErrSelectionIncomplete = errors.New("selection incomplete")

	ErrUnknownMode = errors.New("unknown comparison mode")
)

// HigherSide names the side with the greater raw value for a bar row
type HigherSide string

const (
	SideA HigherSide = "A"
	SideB HigherSide = "B"
	Tie   HigherSide = "tie"
)

// Side is one half of a comparison. Seasons and Season are only read in
// season mode; an empty Season selects the player's most recent season.
type Side struct {
	Career  *models.PlayerCareerRecord
	Seasons []models.PlayerSeasonRecord
	Season  string
}

// RadarSeries is one side's bounded (0-100) values in axis order
type RadarSeries struct {
	PlayerID string    `json:"player_id"`
	Label    string    `json:"label"`
	Values   []float64 `json:"values"`
}

// BarRow is one head-to-head stat with raw (percent-scaled) values
type BarRow struct {
	Key        string     `json:"key"`
	Label      string     `json:"label"`
	Value1     float64    `json:"value1"`
	Value2     float64    `json:"value2"`
	HigherSide HigherSide `json:"higher_side"`
	MaxValue   float64    `json:"max_value"`
}

// SideSummary identifies what each side actually contributed
type SideSummary struct {
	PlayerID    string `json:"player_id"`
	Name        string `json:"name"`
	Role        string `json:"role,omitempty"`
	Season      string `json:"season,omitempty"`
	SeasonFound bool   `json:"season_found"`
}

// Result is the visualization-ready comparison
type Result struct {
	Mode  Mode           `json:"mode"`
	Axes  []Axis         `json:"axes"`
	Radar [2]RadarSeries `json:"radar"`
	Bars  []BarRow       `json:"bars"`
	Sides [2]SideSummary `json:"sides"`
}

// Compare builds radar series and bar rows for two sides. It is a pure
// function of its inputs; both sides are scaled against the same axis maxima.
func Compare(a, b Side, mode Mode) (*Result, error) {
	if a.Career == nil || b.Career == nil {
		return nil, ErrSelectionIncomplete
	}
	if mode != ModeCareer && mode != ModeSeason {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}

	lineA, sumA := resolve(a, mode)
	lineB, sumB := resolve(b, mode)

	axes := Axes(mode)
	result := &Result{
		Mode:  mode,
		Axes:  axes,
		Sides: [2]SideSummary{sumA, sumB},
		Radar: [2]RadarSeries{
			{PlayerID: sumA.PlayerID, Label: sumA.Name, Values: make([]float64, len(axes))},
			{PlayerID: sumB.PlayerID, Label: sumB.Name, Values: make([]float64, len(axes))},
		},
	}

	for i, axis := range axes {
		result.Radar[0].Values[i] = statmath.Normalize(axis.value(lineA), axis.Max)
		result.Radar[1].Values[i] = statmath.Normalize(axis.value(lineB), axis.Max)
	}

	bars := Bars(mode)
	result.Bars = make([]BarRow, len(bars))
	for i, bar := range bars {
		v1, v2 := bar.value(lineA), bar.value(lineB)
		result.Bars[i] = BarRow{
			Key:        bar.Key,
			Label:      bar.Label,
			Value1:     v1,
			Value2:     v2,
			HigherSide: higher(v1, v2),
			MaxValue:   bar.Max,
		}
	}

	return result, nil
}

func higher(v1, v2 float64) HigherSide {
	switch {
	case v1 > v2:
		return SideA
	case v2 > v1:
		return SideB
	default:
		return Tie
	}
}

func resolve(s Side, mode Mode) (statLine, SideSummary) {
	c := s.Career
	summary := SideSummary{PlayerID: c.ID, Name: c.Name, Role: c.Role}

	if mode == ModeCareer {
		return careerLine(c), summary
	}

	season, ok := selectSeason(s.Seasons, s.Season)
	summary.Season = s.Season
	if !ok {
		// Season missing: career averages, no season volume
		line := careerLine(c)
		line.games = 0
		line.volume = 0
		return line, summary
	}

	summary.Season = season.Season
	summary.SeasonFound = true
	return statLine{
		ppg:           season.PPG,
		rpg:           season.RPG,
		apg:           season.APG,
		spg:           season.SPG,
		bpg:           season.BPG,
		fgPct:         season.FGPct,
		fg3Pct:        season.FG3Pct,
		ftPct:         season.FTPct,
		games:         float64(season.GamesPlayed),
		volume:        float64(season.Points),
		championships: float64(c.Championships),
	}, summary
}

func careerLine(c *models.PlayerCareerRecord) statLine {
	return statLine{
		ppg:           c.PPG,
		rpg:           c.RPG,
		apg:           c.APG,
		spg:           c.SPG,
		bpg:           c.BPG,
		fgPct:         c.FGPct,
		fg3Pct:        c.FG3Pct,
		ftPct:         c.FTPct,
		games:         float64(c.GamesPlayed),
		volume:        float64(c.CareerPoints),
		championships: float64(c.Championships),
	}
}

// selectSeason finds the labeled season, or the most recent one when label is empty
func selectSeason(seasons []models.PlayerSeasonRecord, label string) (models.PlayerSeasonRecord, bool) {
	if label == "" {
		if len(seasons) == 0 {
			return models.PlayerSeasonRecord{}, false
		}
		latest := seasons[0]
		for _, s := range seasons[1:] {
			if s.StartYear() > latest.StartYear() {
				latest = s
			}
		}
		return latest, true
	}

	for _, s := range seasons {
		if s.Season == label {
			return s, true
		}
	}
	return models.PlayerSeasonRecord{}, false
}
