package normalizer

import (
	"math"
	"strconv"
	"strings"

	"github.com/XavierBriggs/fortuna/services/player-stats-api/pkg/models"
)

// Value is a parsed field. Exactly one of Text/Float/Int is meaningful for the
// field's Kind; Float is also populated for KindInt so callers can plot either.
type Value struct {
	Kind      Kind
	Text      string
	Float     float64
	Int       int
	Defaulted bool // raw value was absent, empty or unparsable
}

// Record is a fully populated, typed record: every schema field is present
type Record struct {
	values map[string]Value
}

func (r Record) Text(name string) string    { return r.values[name].Text }
func (r Record) Float(name string) float64  { return r.values[name].Float }
func (r Record) Int(name string) int        { return r.values[name].Int }
func (r Record) Defaulted(name string) bool { return r.values[name].Defaulted }

// Normalize converts a raw text record into a typed record using the schema.
// It never fails: absent, empty and unparsable values take the schema default,
// and raw keys the schema does not name are dropped.
func Normalize(raw models.RawRecord, schema Schema) Record {
	rec := Record{values: make(map[string]Value, len(schema.Fields))}

	for _, field := range schema.Fields {
		text, ok := raw.Get(field.Name)
		if ok {
			if v, parsed := parse(field.Kind, text); parsed {
				rec.values[field.Name] = v
				continue
			}
		}

		v, _ := parse(field.Kind, field.Default)
		v.Defaulted = true
		rec.values[field.Name] = v
	}

	return rec
}

func parse(kind Kind, text string) (Value, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Value{Kind: kind}, false
	}

	switch kind {
	case KindFloat:
		f, ok := parseFloat(text)
		if !ok {
			return Value{Kind: kind}, false
		}
		return Value{Kind: kind, Text: text, Float: f, Int: int(f)}, true

	case KindInt:
		n, ok := parseInt(text)
		if !ok {
			return Value{Kind: kind}, false
		}
		return Value{Kind: kind, Text: text, Float: float64(n), Int: n}, true

	case KindSeason:
		year := models.SeasonStartYear(text)
		if year == 0 {
			return Value{Kind: kind}, false
		}
		return Value{Kind: kind, Text: text, Int: year, Float: float64(year)}, true

	default:
		return Value{Kind: kind, Text: text}, true
	}
}

func parseFloat(text string) (float64, bool) {
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// parseInt accepts "1234" and float-formatted counts like "1234.0"
func parseInt(text string) (int, bool) {
	if n, err := strconv.Atoi(text); err == nil {
		return n, true
	}
	f, ok := parseFloat(text)
	if !ok {
		return 0, false
	}
	return int(math.Trunc(f)), true
}

// Career normalizes a raw career row into a typed career record
func Career(raw models.RawRecord) models.PlayerCareerRecord {
	r := Normalize(raw, CareerSchema)
	return models.PlayerCareerRecord{
		ID:            r.Text(FieldID),
		Name:          r.Text(FieldName),
		Role:          r.Text(FieldRole),
		GamesPlayed:   r.Int(FieldGamesPlayed),
		PPG:           r.Float(FieldPPG),
		RPG:           r.Float(FieldRPG),
		APG:           r.Float(FieldAPG),
		SPG:           r.Float(FieldSPG),
		BPG:           r.Float(FieldBPG),
		FGPct:         r.Float(FieldFGPct),
		FTPct:         r.Float(FieldFTPct),
		FG3Pct:        r.Float(FieldFG3Pct),
		CareerPoints:  r.Int(FieldCareerPoints),
		Championships: r.Int(FieldChampionships),
	}
}

// Season normalizes a raw season row into a typed season record owned by playerID
func Season(playerID string, raw models.RawRecord) models.PlayerSeasonRecord {
	return seasonRecord(playerID, Normalize(raw, SeasonSchema))
}

func seasonRecord(playerID string, r Record) models.PlayerSeasonRecord {
	return models.PlayerSeasonRecord{
		PlayerID:    playerID,
		Season:      r.Text(FieldSeason),
		Team:        r.Text(FieldTeam),
		GamesPlayed: r.Int(FieldGamesPlayed),
		Points:      r.Int(FieldPoints),
		PPG:         r.Float(FieldPPG),
		RPG:         r.Float(FieldRPG),
		APG:         r.Float(FieldAPG),
		SPG:         r.Float(FieldSPG),
		BPG:         r.Float(FieldBPG),
		FGPct:       r.Float(FieldFGPct),
		FTPct:       r.Float(FieldFTPct),
		FG3Pct:      r.Float(FieldFG3Pct),
	}
}

// Seasons normalizes a player's season rows, keeping the first row for any
// repeated season label. A row whose label was defaulted never hides a row
// that carries the same label explicitly.
func Seasons(playerID string, rows []models.RawRecord) []models.PlayerSeasonRecord {
	index := make(map[string]int, len(rows))
	labeled := make([]bool, 0, len(rows))
	out := make([]models.PlayerSeasonRecord, 0, len(rows))
	for _, raw := range rows {
		r := Normalize(raw, SeasonSchema)
		s := seasonRecord(playerID, r)
		explicit := !r.Defaulted(FieldSeason)

		if i, ok := index[s.Season]; ok {
			if explicit && !labeled[i] {
				out[i] = s
				labeled[i] = true
			}
			continue
		}
		index[s.Season] = len(out)
		labeled = append(labeled, explicit)
		out = append(out, s)
	}
	return out
}
