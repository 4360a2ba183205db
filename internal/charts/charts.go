package charts

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/XavierBriggs/fortuna/services/player-stats-api/internal/compare"
	"github.com/XavierBriggs/fortuna/services/player-stats-api/internal/players"
)

// Palette holds chart colors
type Palette struct {
	Background drawing.Color
	Text       drawing.Color
	Grid       drawing.Color
	Player1    drawing.Color
	Player2    drawing.Color
	TrendUp    drawing.Color
	TrendDown  drawing.Color
}

// DefaultPalette matches the dashboard's blue/red player colors
var DefaultPalette = Palette{
	Background: drawing.ColorWhite,
	Text:       drawing.ColorFromHex("333333"),
	Grid:       drawing.ColorFromHex("e0e0e0"),
	Player1:    drawing.Color{R: 54, G: 162, B: 235, A: 255},
	Player2:    drawing.Color{R: 255, G: 99, B: 132, A: 255},
	TrendUp:    drawing.Color{R: 75, G: 192, B: 92, A: 255},
	TrendDown:  drawing.Color{R: 255, G: 99, B: 132, A: 255},
}

// ComparisonChart renders both radar series as profile lines over the ten
// comparison axes on a fixed 0-100 scale
func ComparisonChart(res *compare.Result, palette Palette) ([]byte, error) {
	if res == nil || len(res.Axes) == 0 {
		return renderNoDataPlaceholder("No comparison selected", palette)
	}

	xs := make([]float64, len(res.Axes))
	ticks := make([]chart.Tick, len(res.Axes))
	for i, axis := range res.Axes {
		xs[i] = float64(i)
		ticks[i] = chart.Tick{Value: float64(i), Label: tickLabel(axis.Key)}
	}

	colors := [2]drawing.Color{palette.Player1, palette.Player2}
	series := make([]chart.Series, 0, 2)
	for i, r := range res.Radar {
		series = append(series, chart.ContinuousSeries{
			Name:    r.Label,
			XValues: xs,
			YValues: r.Values,
			Style: chart.Style{
				StrokeColor: colors[i],
				StrokeWidth: 2,
				DotColor:    colors[i],
				DotWidth:    4,
				FillColor:   colors[i].WithAlpha(40),
			},
		})
	}

	graph := chart.Chart{
		Title:  comparisonTitle(res),
		Width:  900,
		Height: 450,
		Background: chart.Style{
			FillColor: palette.Background,
			Padding:   chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		XAxis: chart.XAxis{
			Ticks: ticks,
			Style: chart.Style{
				FontColor: palette.Text,
			},
		},
		YAxis: chart.YAxis{
			Name: "Scaled (0-100)",
			Range: &chart.ContinuousRange{
				Min: 0,
				Max: 100,
			},
			Style: chart.Style{
				FontColor: palette.Text,
			},
			GridMajorStyle: chart.Style{
				StrokeColor: palette.Grid,
				StrokeWidth: 1,
			},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return render(graph)
}

// TrendChart renders one stat across a player's seasons in chronological order
func TrendChart(t players.Trend, palette Palette) ([]byte, error) {
	if len(t.Values) == 0 {
		return renderNoDataPlaceholder("No season data found", palette)
	}

	xs := make([]float64, len(t.Values))
	ticks := make([]chart.Tick, len(t.Values))
	for i, season := range t.Seasons {
		xs[i] = float64(i)
		ticks[i] = chart.Tick{Value: float64(i), Label: season}
	}

	color := palette.TrendDown
	if t.Direction == players.TrendUp {
		color = palette.TrendUp
	}

	// a single season still needs two points to draw a line
	ys := t.Values
	if len(xs) == 1 {
		xs = []float64{0, 1}
		ys = []float64{t.Values[0], t.Values[0]}
		ticks = append(ticks, chart.Tick{Value: 1, Label: ""})
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("%s by Season", t.Stat.Label),
		Width:  800,
		Height: 400,
		Background: chart.Style{
			FillColor: palette.Background,
			Padding:   chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		XAxis: chart.XAxis{
			Name:  "Season",
			Ticks: ticks,
			Style: chart.Style{
				FontColor: palette.Text,
			},
		},
		YAxis: chart.YAxis{
			Name:  t.Stat.Label,
			Range: trendRange(ys),
			Style: chart.Style{
				FontColor: palette.Text,
			},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    t.Stat.Label,
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: color,
					StrokeWidth: 2,
					DotColor:    color,
					DotWidth:    4,
				},
			},
		},
	}

	return render(graph)
}

// trendRange pads a flat series so the axis has a non-zero span
func trendRange(values []float64) chart.Range {
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		lo, hi = lo-1, hi+1
	}
	return &chart.ContinuousRange{Min: lo, Max: hi}
}

func renderNoDataPlaceholder(msg string, palette Palette) ([]byte, error) {
	const (
		width  = 400
		height = 200
	)

	graph := chart.Chart{
		Width:  width,
		Height: height,
		Background: chart.Style{
			FillColor: palette.Background,
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		XAxis: chart.XAxis{Style: chart.Style{Hidden: true}},
		YAxis: chart.YAxis{
			Style: chart.Style{Hidden: true},
			Range: &chart.ContinuousRange{Min: 0, Max: 1},
		},
		// go-chart refuses to render without a visible series
		Series: []chart.Series{
			chart.ContinuousSeries{
				XValues: []float64{0, 1},
				YValues: []float64{0, 1},
				Style: chart.Style{
					StrokeColor: drawing.ColorTransparent,
				},
			},
		},
		Elements: []chart.Renderable{
			func(r chart.Renderer, cb chart.Box, chartDefaults chart.Style) {
				r.SetFontColor(palette.Text)
				r.SetFontSize(12.0)
				tb := r.MeasureText(msg)
				x := (width - tb.Width()) / 2
				y := (height + tb.Height()) / 2
				r.Text(msg, x, y)
			},
		},
	}

	return render(graph)
}

func render(graph chart.Chart) ([]byte, error) {
	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("rendering chart: %w", err)
	}
	return buffer.Bytes(), nil
}

func comparisonTitle(res *compare.Result) string {
	title := fmt.Sprintf("%s vs %s", res.Radar[0].Label, res.Radar[1].Label)
	if res.Mode == compare.ModeSeason {
		title += " (season)"
	}
	return title
}

// tickLabel shortens an axis key for the x axis, e.g. fg3_pct -> FG3%
func tickLabel(key string) string {
	switch key {
	case "games_played":
		return "GP"
	case "championships":
		return "TITLES"
	case "pts":
		return "PTS"
	}
	return strings.ToUpper(strings.Replace(key, "_pct", "%", 1))
}
