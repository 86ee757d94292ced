// Package report turns aggregated survey results into Plotly figure
// definitions and a single self-contained HTML document.
package report

import (
	"fmt"

	"github.com/KaramelBytes/moodmap-cli/internal/survey"
)

// Figure is a Plotly figure: traces plus layout.
type Figure struct {
	Data   []Trace        `json:"data"`
	Layout map[string]any `json:"layout"`
}

// TraceMeta carries the stable key toggle controls address a trace by.
type TraceMeta struct {
	Key string `json:"key"`
}

// Trace covers the subset of Plotly trace attributes the report uses.
// Visible holds true, false or "legendonly".
type Trace struct {
	Type          string         `json:"type"`
	Name          string         `json:"name,omitempty"`
	Meta          TraceMeta      `json:"meta"`
	Visible       any            `json:"visible"`
	X             any            `json:"x,omitempty"`
	Y             any            `json:"y,omitempty"`
	Z             any            `json:"z,omitempty"`
	Locations     []string       `json:"locations,omitempty"`
	LocationMode  string         `json:"locationmode,omitempty"`
	Text          []string       `json:"text,omitempty"`
	ColorScale    string         `json:"colorscale,omitempty"`
	ColorBar      map[string]any `json:"colorbar,omitempty"`
	Marker        map[string]any `json:"marker,omitempty"`
	Line          map[string]any `json:"line,omitempty"`
	Mode          string         `json:"mode,omitempty"`
	HoverTemplate string         `json:"hovertemplate,omitempty"`
	HoverInfo     string         `json:"hoverinfo,omitempty"`
}

// Toggle modes understood by the page script.
const (
	// ModeExclusive shows exactly the chosen trace.
	ModeExclusive = "exclusive"
	// ModeFocus shows the chosen trace plus pinned traces; the rest drop to
	// legend-only.
	ModeFocus = "focus"
	// ModeComposite is exclusive over a key joined from several dimensions.
	ModeComposite = "composite"
)

// Control describes how a chart's toggles restyle it.
type Control struct {
	Mode   string   `json:"mode"`
	Pinned []string `json:"pinned,omitempty"`
	// Dims lists composite key dimensions in join order; State holds their
	// initial values.
	Dims  []string          `json:"dims,omitempty"`
	State map[string]string `json:"state,omitempty"`
	Join  string            `json:"join,omitempty"`
}

// Chart is one figure with its toggle control.
type Chart struct {
	ID      string   `json:"id"`
	Figure  Figure   `json:"figure"`
	Control *Control `json:"control,omitempty"`
}

// Keys returns the meta keys of every trace in the chart.
func (c Chart) Keys() []string {
	out := make([]string, len(c.Figure.Data))
	for i, t := range c.Figure.Data {
		out[i] = t.Meta.Key
	}
	return out
}

// Dark24 qualitative palette, cycled for platform bars.
var platformColors = []string{
	"#2E91E5", "#E15F99", "#1CA71C", "#FB0D0D", "#DA16FF", "#222A2A",
	"#B68100", "#750D86", "#EB663B", "#511CB5", "#00A08B", "#FB00D1",
	"#FC0080", "#B2828D", "#6C7C32", "#778AAE", "#862A16", "#A777F1",
	"#620042", "#1616A7", "#DA60CA", "#6C4516", "#0D2A63", "#AF0038",
}

// BuildCharts assembles the four report charts in page order.
func BuildCharts(res *survey.Results) []Chart {
	return []Chart{
		MapChart(res.MappedStates()),
		UsageChart(res.Usage),
		SeverityChart(res.Depression, res.Anxiety),
		TrendChart(res.Trend, res.Thresholds),
	}
}

// MapChart draws anxiety and depression prevalence per state. Depression is
// shown first.
func MapChart(states []survey.StateSummary) Chart {
	codes := make([]string, len(states))
	names := make([]string, len(states))
	gad := make([]float64, len(states))
	phq := make([]float64, len(states))
	for i, s := range states {
		codes[i], names[i] = s.Code, s.State
		gad[i], phq[i] = s.GAD7Percent, s.PHQ9Percent
	}
	layer := func(key, label, scale string, z []float64, visible bool) Trace {
		return Trace{
			Type:          "choropleth",
			Name:          label,
			Meta:          TraceMeta{Key: key},
			Visible:       visible,
			Locations:     codes,
			LocationMode:  "USA-states",
			Z:             z,
			Text:          names,
			ColorScale:    scale,
			ColorBar:      map[string]any{"title": map[string]any{"text": label + " (%)"}},
			HoverTemplate: "%{text}<br>" + label + ": %{z:.2f}%<extra></extra>",
		}
	}
	return Chart{
		ID: survey.ChartMap,
		Figure: Figure{
			Data: []Trace{
				layer(survey.KeyAnxiety, "Anxiety", "Reds", gad, false),
				layer(survey.KeyDepression, "Depression", "Blues", phq, true),
			},
			Layout: map[string]any{
				"title": map[string]any{"text": "Mental Health Negative Responses by State"},
				"geo": map[string]any{
					"scope":         "usa",
					"projection":    map[string]any{"type": "albers usa"},
					"showcountries": false,
					"showlakes":     true,
					"lakecolor":     "white",
				},
				"dragmode": false,
			},
		},
		Control: &Control{Mode: ModeExclusive},
	}
}

// UsageChart overlays scaled platform estimates on the per-bucket respondent
// totals. Platform bars start hidden to the legend.
func UsageChart(u *survey.UsageTable) Chart {
	buckets := make([]string, len(u.Buckets))
	totals := make([]int, len(u.Buckets))
	for i, b := range u.Buckets {
		buckets[i], totals[i] = b.Bucket, b.Respondents
	}
	traces := []Trace{{
		Type:      "bar",
		Name:      "Total Responses",
		Meta:      TraceMeta{Key: survey.KeyTotal},
		Visible:   true,
		X:         buckets,
		Y:         totals,
		Marker:    map[string]any{"color": "lightgray"},
		HoverInfo: "skip",
	}}
	for i, p := range u.Platforms {
		_, ys := u.Series(p)
		traces = append(traces, Trace{
			Type:          "bar",
			Name:          p,
			Meta:          TraceMeta{Key: survey.PlatformKey(p)},
			Visible:       "legendonly",
			X:             buckets,
			Y:             ys,
			Marker:        map[string]any{"color": platformColors[i%len(platformColors)]},
			HoverTemplate: "%{x}<br>" + p + ": %{y:.2f}<extra></extra>",
		})
	}
	return Chart{
		ID: survey.ChartUsage,
		Figure: Figure{
			Data: traces,
			Layout: map[string]any{
				"title":      map[string]any{"text": "Social Media Platform Breakdown by Daily Usage Time"},
				"barmode":    "overlay",
				"bargap":     0,
				"showlegend": false,
				"xaxis": map[string]any{
					"title":         map[string]any{"text": "Daily Social Media Usage Time"},
					"categoryorder": "array",
					"categoryarray": buckets,
				},
				"yaxis": map[string]any{"title": map[string]any{"text": "Number of Responses"}},
			},
		},
		Control: &Control{Mode: ModeFocus, Pinned: []string{survey.KeyTotal}},
	}
}

// SeverityChart stacks the four contingency heatmaps; one is visible at a time.
func SeverityChart(depression, anxiety *survey.CrossTab) Chart {
	type view struct {
		ct     *survey.CrossTab
		scale  string
		view   string
		values [][]float64
	}
	views := []view{
		{depression, "Blues", survey.ViewCounts, depression.CountsFloat()},
		{anxiety, "Reds", survey.ViewCounts, anxiety.CountsFloat()},
		{depression, "Blues", survey.ViewPercent, depression.Percent},
		{anxiety, "Reds", survey.ViewPercent, anxiety.Percent},
	}
	var traces []Trace
	for _, v := range views {
		label, hover := "Count", "Count: %{z}"
		if v.view == survey.ViewPercent {
			label, hover = "Percent", "Percent: %{z:.2f}%"
		}
		key := survey.SeverityKey(v.ct.Measure, v.view)
		traces = append(traces, Trace{
			Type:          "heatmap",
			Name:          fmt.Sprintf("%s (%s)", v.ct.Measure, v.view),
			Meta:          TraceMeta{Key: key},
			Visible:       key == survey.SeverityKey(survey.KeyDepression, survey.ViewCounts),
			X:             v.ct.Platforms,
			Y:             v.ct.Levels,
			Z:             v.values,
			ColorScale:    v.scale,
			ColorBar:      map[string]any{"title": map[string]any{"text": label}},
			HoverTemplate: "Platform: %{x}<br>Severity: %{y}<br>" + hover + "<extra></extra>",
		})
	}
	return Chart{
		ID: survey.ChartSeverity,
		Figure: Figure{
			Data: traces,
			Layout: map[string]any{
				"title":        map[string]any{"text": "Mental Health Severity vs Social Media Platform"},
				"xaxis":        map[string]any{"title": map[string]any{"text": "Platform"}},
				"yaxis":        map[string]any{"title": map[string]any{"text": "Severity (1 = Low, 5 = High)"}},
				"margin":       map[string]any{"l": 40, "r": 40, "t": 80, "b": 40},
				"plot_bgcolor": "white",
			},
		},
		Control: &Control{
			Mode: ModeComposite,
			Dims: []string{"measure", "view"},
			State: map[string]string{
				"measure": survey.KeyDepression,
				"view":    survey.ViewCounts,
			},
			Join: "_",
		},
	}
}

// TrendChart plots anxiety and depression rates across usage-time buckets.
// It has no toggles.
func TrendChart(points []survey.TrendPoint, th survey.Thresholds) Chart {
	xs := make([]string, len(points))
	anx := make([]float64, len(points))
	dep := make([]float64, len(points))
	for i, p := range points {
		xs[i], anx[i], dep[i] = p.Bucket, p.AnxietyRate, p.DepressionRate
	}
	line := func(key, label, color string, ys []float64) Trace {
		return Trace{
			Type:          "scatter",
			Name:          label,
			Meta:          TraceMeta{Key: key},
			Visible:       true,
			Mode:          "markers+lines",
			X:             xs,
			Y:             ys,
			Marker:        map[string]any{"color": color, "size": 10},
			Line:          map[string]any{"color": color},
			HoverTemplate: "%{x}<br>" + label + ": %{y:.2f}%<extra></extra>",
		}
	}
	return Chart{
		ID: survey.ChartTrend,
		Figure: Figure{
			Data: []Trace{
				line(survey.KeyAnxiety, fmt.Sprintf("Anxiety (severity ≥ %d)", th.AnxietySeverity), "crimson", anx),
				line(survey.KeyDepression, fmt.Sprintf("Depression (severity ≥ %d)", th.DepressionSeverity), "steelblue", dep),
			},
			Layout: map[string]any{
				"title":        map[string]any{"text": "Rates of Anxiety and Depression by Social Media Usage Time"},
				"xaxis":        map[string]any{"title": map[string]any{"text": "Daily Social Media Usage Time"}},
				"yaxis":        map[string]any{"title": map[string]any{"text": "Percentage of Respondents (%)"}},
				"margin":       map[string]any{"l": 40, "r": 40, "t": 80, "b": 40},
				"plot_bgcolor": "white",
			},
		},
	}
}
