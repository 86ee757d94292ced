package report

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/KaramelBytes/moodmap-cli/internal/survey"
	"github.com/KaramelBytes/moodmap-cli/internal/utils"
)

//go:embed assets/report.js assets/report.css
var assets embed.FS

// DefaultPlotlyURL is used when Options.PlotlyURL is empty.
const DefaultPlotlyURL = "https://cdn.plot.ly/plotly-2.35.2.min.js"

// Options controls page rendering.
type Options struct {
	Title        string
	PlotlyURL    string
	NarrativeDir string
}

type toggle struct {
	Label string
	Key   string
}

type toggleRow struct {
	Label   string
	Chart   string
	Dim     string
	Toggles []toggle
}

type section struct {
	ID         string
	Heading    string
	Chart      string
	Narrative  Narrative
	Toggles    []toggleRow
	Highlights []string
}

type page struct {
	Title       string
	RunID       string
	Generated   string
	PlotlyURL   string
	Sections    []section
	Charts      template.JS
	Script      template.JS
	Style       template.CSS
	Diagnostics survey.Diagnostics
	Thresholds  survey.Thresholds
}

var pageTemplate = template.Must(template.New("report").Parse(pageHTML))

// Render writes the complete HTML report for res to w.
func Render(w io.Writer, res *survey.Results, opt Options) error {
	if res == nil || res.Usage == nil || res.Depression == nil || res.Anxiety == nil {
		return fmt.Errorf("results are incomplete, nothing to render")
	}
	narrative, err := LoadNarrative(opt.NarrativeDir)
	if err != nil {
		return fmt.Errorf("load narrative: %w", err)
	}
	charts := BuildCharts(res)
	payload, err := json.Marshal(struct {
		Charts []Chart `json:"charts"`
	}{charts})
	if err != nil {
		return fmt.Errorf("marshal charts: %w", err)
	}
	script, err := assets.ReadFile("assets/report.js")
	if err != nil {
		return err
	}
	style, err := assets.ReadFile("assets/report.css")
	if err != nil {
		return err
	}

	p := page{
		Title:       opt.Title,
		RunID:       res.RunID,
		Generated:   res.GeneratedAt.Format(time.RFC3339),
		PlotlyURL:   opt.PlotlyURL,
		Sections:    buildSections(res, narrative),
		Charts:      template.JS(payload),
		Script:      template.JS(script),
		Style:       template.CSS(style),
		Diagnostics: res.Diagnostics,
		Thresholds:  res.Thresholds,
	}
	if p.Title == "" {
		p.Title = "Mental Health and Social Media"
	}
	if p.PlotlyURL == "" {
		p.PlotlyURL = DefaultPlotlyURL
	}
	if err := pageTemplate.Execute(w, p); err != nil {
		return fmt.Errorf("execute template: %w", err)
	}
	return nil
}

// WriteFile renders the report into memory and writes it atomically, so a
// failed render leaves any previous report in place.
func WriteFile(path string, res *survey.Results, opt Options) error {
	var buf bytes.Buffer
	if err := Render(&buf, res, opt); err != nil {
		return err
	}
	return utils.SafeWriteFile(path, buf.Bytes())
}

func buildSections(res *survey.Results, narrative map[string]Narrative) []section {
	platforms := make([]toggle, 0, len(res.Usage.Platforms))
	for _, p := range res.Usage.Platforms {
		platforms = append(platforms, toggle{Label: p, Key: survey.PlatformKey(p)})
	}
	return []section{
		{ID: "introduction", Narrative: narrative["introduction"]},
		{
			ID:        "mental-health",
			Heading:   "Mental Health (Anxiety, Depression)",
			Chart:     survey.ChartMap,
			Narrative: narrative["mental-health"],
			Toggles: []toggleRow{{
				Label: "Toggle map view:",
				Chart: survey.ChartMap,
				Toggles: []toggle{
					{Label: "Anxiety (GAD-7)", Key: survey.KeyAnxiety},
					{Label: "Depression (PHQ-9)", Key: survey.KeyDepression},
				},
			}},
		},
		{
			ID:        "social-media",
			Heading:   "Social Media Usage by Daily Time",
			Chart:     survey.ChartUsage,
			Narrative: narrative["social-media"],
			Toggles:   []toggleRow{{Label: "Toggle platforms:", Chart: survey.ChartUsage, Toggles: platforms}},
		},
		{
			ID:        "heatmap",
			Heading:   "Mental Health Severity by Platform",
			Chart:     survey.ChartSeverity,
			Narrative: narrative["heatmap"],
			Toggles: []toggleRow{
				{
					Label: "Select mental health measure:",
					Chart: survey.ChartSeverity,
					Dim:   "measure",
					Toggles: []toggle{
						{Label: "Depression", Key: survey.KeyDepression},
						{Label: "Anxiety", Key: survey.KeyAnxiety},
					},
				},
				{
					Label: "Select data view:",
					Chart: survey.ChartSeverity,
					Dim:   "view",
					Toggles: []toggle{
						{Label: "Counts", Key: survey.ViewCounts},
						{Label: "Percentages", Key: survey.ViewPercent},
					},
				},
			},
		},
		{
			ID:         "conclusion",
			Heading:    "Conclusion: Mental Health Trends by Social Media Usage",
			Chart:      survey.ChartTrend,
			Narrative:  narrative["conclusion"],
			Highlights: trendHighlights(res.Trend),
		},
	}
}

// trendHighlights describes how each rate moves from the lightest to the
// heaviest usage bucket present.
func trendHighlights(points []survey.TrendPoint) []string {
	if len(points) < 2 {
		return nil
	}
	first, last := points[0], points[len(points)-1]
	return []string{
		fmt.Sprintf("Depression rates go from %.1f%% for %q to %.1f%% for %q.", first.DepressionRate, first.Bucket, last.DepressionRate, last.Bucket),
		fmt.Sprintf("Anxiety rates go from %.1f%% for %q to %.1f%% for %q.", first.AnxietyRate, first.Bucket, last.AnxietyRate, last.Bucket),
	}
}

const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<meta name="moodmap-run-id" content="{{.RunID}}">
<link href="https://fonts.googleapis.com/css2?family=Lato:wght@300;400;700&display=swap" rel="stylesheet">
<style>{{.Style}}</style>
<script src="{{.PlotlyURL}}"></script>
</head>
<body>
<div class="progress-container"><div class="progress-bar"></div></div>
<div class="header">
{{- range .Sections}}
  <a href="#{{.ID}}">{{if .Heading}}{{.Heading}}{{else}}Introduction{{end}}</a>
{{- end}}
</div>
{{range .Sections}}
<div class="section" id="{{.ID}}">
{{- if .Heading}}
<h2>{{.Heading}}</h2>
{{- end}}
{{.Narrative.Before}}
{{- if .Toggles}}
<div class="toggles">
{{- range .Toggles}}
{{- $chart := .Chart}}{{$dim := .Dim}}
<p><strong>{{.Label}}</strong>
{{- range $i, $t := .Toggles}}{{if $i}},{{end}} <span class="toggle" data-chart="{{$chart}}"{{if $dim}} data-dim="{{$dim}}"{{end}} data-key="{{$t.Key}}">{{$t.Label}}</span>{{end}}</p>
{{- end}}
</div>
{{- end}}
{{- if .Highlights}}
<ul>
{{- range .Highlights}}
  <li>{{.}}</li>
{{- end}}
</ul>
{{- end}}
{{- if .Chart}}
<div class="plot" id="chart-{{.Chart}}"></div>
{{- end}}
{{.Narrative.After}}
</div>
{{end}}
<div class="footer">
<dl>
  <dt>Run</dt><dd>{{.RunID}}, generated {{.Generated}}</dd>
  <dt>Cutoffs</dt><dd>GAD-7 ≥ {{.Thresholds.GAD7}}, PHQ-9 ≥ {{.Thresholds.PHQ9}}, anxiety severity ≥ {{.Thresholds.AnxietySeverity}}, depression severity ≥ {{.Thresholds.DepressionSeverity}}</dd>
  <dt>Respondents</dt><dd>{{.Diagnostics.Respondents}} scored, {{.Diagnostics.Excluded}} excluded as incomplete</dd>
  {{- with .Diagnostics.UnmatchedStates}}
  <dt>States not on the map</dt><dd>{{range $i, $s := .}}{{if $i}}, {{end}}{{$s}}{{end}}</dd>
  {{- end}}
  {{- with .Diagnostics.UnknownPlatforms}}
  <dt>Platforms outside the vocabulary</dt><dd>{{range $i, $s := .}}{{if $i}}, {{end}}{{$s}}{{end}}</dd>
  {{- end}}
  <dt>Platform vocabulary</dt><dd>{{.Diagnostics.VocabularyVersion}}</dd>
</dl>
</div>
<script type="application/json" id="moodmap-charts">{{.Charts}}</script>
<script>{{.Script}}</script>
</body>
</html>
`
