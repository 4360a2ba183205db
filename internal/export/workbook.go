package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/XavierBriggs/fortuna/services/player-stats-api/internal/compare"
	"github.com/XavierBriggs/fortuna/services/player-stats-api/pkg/models"
	"github.com/XavierBriggs/fortuna/services/player-stats-api/pkg/statmath"
)

// ContentType is the MIME type of the workbooks written here
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var seasonHeader = []interface{}{
	"Season", "Team", "GP", "PTS", "PPG", "RPG", "APG", "SPG", "BPG", "FG%", "3P%", "FT%",
}

// WriteSeasons writes a player's card and season table as an XLSX workbook.
// Seasons are written in the order given.
func WriteSeasons(w io.Writer, player *models.PlayerCareerRecord, seasons []models.PlayerSeasonRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	const seasonsSheet = "Seasons"
	if err := f.SetSheetName(f.GetSheetName(0), seasonsSheet); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}

	rows := make([][]interface{}, 0, len(seasons)+1)
	rows = append(rows, seasonHeader)
	for _, s := range seasons {
		rows = append(rows, []interface{}{
			s.Season, s.Team, s.GamesPlayed, s.Points,
			s.PPG, s.RPG, s.APG, s.SPG, s.BPG,
			percent(s.FGPct), percent(s.FG3Pct), percent(s.FTPct),
		})
	}
	if err := writeRows(f, seasonsSheet, rows); err != nil {
		return err
	}

	if player != nil {
		const cardSheet = "Career"
		if _, err := f.NewSheet(cardSheet); err != nil {
			return fmt.Errorf("creating sheet: %w", err)
		}
		card := [][]interface{}{
			{"Player", player.Name},
			{"ID", player.ID},
		}
		if player.Role != "" {
			card = append(card, []interface{}{"Role", player.Role})
		}
		for _, stat := range player.DisplayStats {
			card = append(card, []interface{}{stat.Label, stat.Value})
		}
		if err := writeRows(f, cardSheet, card); err != nil {
			return err
		}
	}

	return f.Write(w)
}

// WriteComparison writes the bar rows and radar series of a comparison
func WriteComparison(w io.Writer, res *compare.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	name1, name2 := res.Sides[0].Name, res.Sides[1].Name
	if res.Mode == compare.ModeSeason {
		name1 = fmt.Sprintf("%s (%s)", name1, res.Sides[0].Season)
		name2 = fmt.Sprintf("%s (%s)", name2, res.Sides[1].Season)
	}

	const barsSheet = "Comparison"
	if err := f.SetSheetName(f.GetSheetName(0), barsSheet); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}
	bars := [][]interface{}{{"Stat", name1, name2, "Higher", "Max"}}
	for _, b := range res.Bars {
		bars = append(bars, []interface{}{b.Label, b.Value1, b.Value2, higherName(b.HigherSide, name1, name2), b.MaxValue})
	}
	if err := writeRows(f, barsSheet, bars); err != nil {
		return err
	}

	const radarSheet = "Radar"
	if _, err := f.NewSheet(radarSheet); err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}
	radar := [][]interface{}{{"Axis", "Max", name1, name2}}
	for i, axis := range res.Axes {
		radar = append(radar, []interface{}{axis.Label, axis.Max, res.Radar[0].Values[i], res.Radar[1].Values[i]})
	}
	if err := writeRows(f, radarSheet, radar); err != nil {
		return err
	}

	return f.Write(w)
}

// writeRows fills a sheet from A1 and bolds the first row
func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for idx, row := range rows {
		axis, err := excelize.CoordinatesToCellName(1, idx+1)
		if err != nil {
			return err
		}
		cells := row
		if err := f.SetSheetRow(sheet, axis, &cells); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, idx+1, err)
		}
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, bold)
}

func higherName(side compare.HigherSide, name1, name2 string) string {
	switch side {
	case compare.SideA:
		return name1
	case compare.SideB:
		return name2
	default:
		return "Tie"
	}
}

func percent(fraction float64) float64 {
	return statmath.Round(statmath.Percent(fraction), 1)
}
