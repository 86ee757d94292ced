package export

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/KaramelBytes/moodmap-cli/internal/survey"
	"github.com/KaramelBytes/moodmap-cli/internal/utils"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNoTrend is returned when there are no trend points to draw.
var ErrNoTrend = errors.New("no trend points to chart")

func lineStyle(hex string) chart.Style {
	c := drawing.ColorFromHex(hex)
	return chart.Style{StrokeColor: c, StrokeWidth: 2, DotColor: c, DotWidth: 5}
}

// WriteTrendPNG renders the anxiety and depression rate lines as a static
// PNG, one x tick per usage bucket.
func WriteTrendPNG(path string, points []survey.TrendPoint, th survey.Thresholds) error {
	if len(points) == 0 {
		return ErrNoTrend
	}
	xs := make([]float64, len(points))
	anx := make([]float64, len(points))
	dep := make([]float64, len(points))
	ticks := make([]chart.Tick, 0, len(points)+1)
	for i, p := range points {
		xs[i] = float64(i + 1)
		anx[i], dep[i] = p.AnxietyRate, p.DepressionRate
		ticks = append(ticks, chart.Tick{Value: xs[i], Label: p.Bucket})
	}
	maxX := float64(len(points)) + 0.5
	// go-chart needs two x values to draw a series
	if len(points) == 1 {
		xs = append(xs, xs[0]+1)
		anx = append(anx, anx[0])
		dep = append(dep, dep[0])
		maxX = 2
		ticks = append(ticks, chart.Tick{Value: 2, Label: ""})
	}

	yTicks := make([]chart.Tick, 0, 11)
	for v := 0; v <= 100; v += 10 {
		yTicks = append(yTicks, chart.Tick{Value: float64(v), Label: fmt.Sprintf("%d%%", v)})
	}
	graph := chart.Chart{
		Title:      "Rates of Anxiety and Depression by Social Media Usage Time",
		Width:      1100,
		Height:     520,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}},
		XAxis: chart.XAxis{
			Name:  "Daily Social Media Usage Time",
			Ticks: ticks,
			Range: &chart.ContinuousRange{Min: 0.5, Max: maxX},
		},
		YAxis: chart.YAxis{
			Name:  "Percentage of Respondents (%)",
			Ticks: yTicks,
			Range: &chart.ContinuousRange{Min: 0, Max: 100},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    fmt.Sprintf("Anxiety (severity >= %d)", th.AnxietySeverity),
				XValues: xs,
				YValues: anx,
				Style:   lineStyle("dc143c"),
			},
			chart.ContinuousSeries{
				Name:    fmt.Sprintf("Depression (severity >= %d)", th.DepressionSeverity),
				XValues: xs,
				YValues: dep,
				Style:   lineStyle("4682b4"),
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return fmt.Errorf("render trend chart: %w", err)
	}
	if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
		return fmt.Errorf("write trend chart: %w", err)
	}
	return nil
}
