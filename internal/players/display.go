package players

import (
	"strconv"

	"github.com/XavierBriggs/fortuna/services/player-stats-api/pkg/models"
	"github.com/XavierBriggs/fortuna/services/player-stats-api/pkg/statmath"
)

// DisplayStats converts a career record to card-ready stats
func DisplayStats(p models.PlayerCareerRecord) []models.DisplayStat {
	return []models.DisplayStat{
		{Label: "PPG", Value: formatFloat(p.PPG), Category: "Per Game"},
		{Label: "RPG", Value: formatFloat(p.RPG), Category: "Per Game"},
		{Label: "APG", Value: formatFloat(p.APG), Category: "Per Game"},
		{Label: "SPG", Value: formatFloat(p.SPG), Category: "Per Game"},
		{Label: "BPG", Value: formatFloat(p.BPG), Category: "Per Game"},
		{Label: "Games", Value: strconv.Itoa(p.GamesPlayed), Category: "Career"},
		{Label: "FG%", Value: formatPercent(p.FGPct), Category: "Shooting"},
		{Label: "3P%", Value: formatPercent(p.FG3Pct), Category: "Shooting"},
		{Label: "FT%", Value: formatPercent(p.FTPct), Category: "Shooting"},
		{Label: "Career Points", Value: strconv.Itoa(p.CareerPoints), Category: "Career"},
		{Label: championshipLabel(p.Championships), Value: strconv.Itoa(p.Championships), Category: "Career"},
	}
}

func championshipLabel(n int) string {
	if n == 1 {
		return "Championship"
	}
	return "Championships"
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func formatPercent(fraction float64) string {
	return strconv.FormatFloat(statmath.Percent(fraction), 'f', 1, 64) + "%"
}
