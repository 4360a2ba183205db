package normalizer

// Kind selects the parser used for a schema field
type Kind int

const (
	KindText Kind = iota
	KindFloat
	KindInt
	KindSeason // "YYYY-YY" label with a parsable leading year
)

func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindInt:
		return "int"
	case KindSeason:
		return "season"
	default:
		return "text"
	}
}

// Field describes one recognized column and the text substituted when the
// raw value is absent, empty or unparsable
type Field struct {
	Name    string
	Default string
	Kind    Kind
}

// Schema is the ordered set of fields a record type recognizes
type Schema struct {
	Name   string
	Fields []Field
}

// Field looks up a field definition by name
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Names returns field names in schema order
func (s Schema) Names() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// Career field names
const (
	FieldID            = "id"
	FieldName          = "name"
	FieldRole          = "role"
	FieldGamesPlayed   = "games_played"
	FieldPPG           = "ppg"
	FieldRPG           = "rpg"
	FieldAPG           = "apg"
	FieldSPG           = "spg"
	FieldBPG           = "bpg"
	FieldFGPct         = "fg_pct"
	FieldFTPct         = "ft_pct"
	FieldFG3Pct        = "fg3_pct"
	FieldCareerPoints  = "career_pts"
	FieldChampionships = "championships"
)

// Season-only field names
const (
	FieldSeason = "season"
	FieldTeam   = "team"
	FieldPoints = "pts"
)

// DefaultSeason and DefaultTeam are substituted for season rows missing them
const (
	DefaultSeason = "2023-24"
	DefaultTeam   = "1610612763"
)

// CareerSchema is the career_averages.csv column set
var CareerSchema = Schema{
	Name: "career",
	Fields: []Field{
		{Name: FieldID, Default: "", Kind: KindText},
		{Name: FieldName, Default: "", Kind: KindText},
		{Name: FieldRole, Default: "", Kind: KindText},
		{Name: FieldGamesPlayed, Default: "0", Kind: KindInt},
		{Name: FieldPPG, Default: "0", Kind: KindFloat},
		{Name: FieldRPG, Default: "0", Kind: KindFloat},
		{Name: FieldAPG, Default: "0", Kind: KindFloat},
		{Name: FieldSPG, Default: "0", Kind: KindFloat},
		{Name: FieldBPG, Default: "0", Kind: KindFloat},
		{Name: FieldFGPct, Default: "0", Kind: KindFloat},
		{Name: FieldFTPct, Default: "0", Kind: KindFloat},
		{Name: FieldFG3Pct, Default: "0", Kind: KindFloat},
		{Name: FieldCareerPoints, Default: "0", Kind: KindInt},
		{Name: FieldChampionships, Default: "0", Kind: KindInt},
	},
}

// SeasonSchema is the per-player season file column set
var SeasonSchema = Schema{
	Name: "season",
	Fields: []Field{
		{Name: FieldSeason, Default: DefaultSeason, Kind: KindSeason},
		{Name: FieldTeam, Default: DefaultTeam, Kind: KindText},
		{Name: FieldGamesPlayed, Default: "0", Kind: KindInt},
		{Name: FieldPoints, Default: "0", Kind: KindInt},
		{Name: FieldPPG, Default: "0", Kind: KindFloat},
		{Name: FieldRPG, Default: "0", Kind: KindFloat},
		{Name: FieldAPG, Default: "0", Kind: KindFloat},
		{Name: FieldSPG, Default: "0", Kind: KindFloat},
		{Name: FieldBPG, Default: "0", Kind: KindFloat},
		{Name: FieldFGPct, Default: "0", Kind: KindFloat},
		{Name: FieldFTPct, Default: "0", Kind: KindFloat},
		{Name: FieldFG3Pct, Default: "0", Kind: KindFloat},
	},
}
