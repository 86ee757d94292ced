package report

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

//go:embed narrative/*.md
var builtinNarrative embed.FS

// Section names, in page order. Each has a narrative file <name>.md.
var SectionNames = []string{"introduction", "mental-health", "social-media", "heatmap", "conclusion"}

// chartMarker splits a narrative into the text above and below its chart.
const chartMarker = "<!-- chart -->"

// Narrative is the rendered prose of one section.
type Narrative struct {
	Before template.HTML
	After  template.HTML
}

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.Table),
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

// toggleAttr limits span data attributes to chart and key identifiers.
var toggleAttr = regexp.MustCompile(`^[A-Za-z0-9 _:.()/&+-]+$`)

var policy = newPolicy()

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^[a-z -]+$`)).OnElements("span")
	p.AllowAttrs("data-chart", "data-key", "data-dim").Matching(toggleAttr).OnElements("span")
	return p
}

// RenderMarkdown converts Markdown to sanitized HTML. Raw toggle spans
// survive; scripts, styles and event handlers do not.
func RenderMarkdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return template.HTML(policy.SanitizeBytes(buf.Bytes())), nil
}

// LoadNarrative reads every section's Markdown, preferring dir/<name>.md over
// the built-in text. An empty dir uses the built-in text only.
func LoadNarrative(dir string) (map[string]Narrative, error) {
	out := make(map[string]Narrative, len(SectionNames))
	for _, name := range SectionNames {
		src, err := readSection(dir, name)
		if err != nil {
			return nil, err
		}
		before, after, found := strings.Cut(src, chartMarker)
		if !found {
			before, after = "", src
		}
		var n Narrative
		if n.Before, err = RenderMarkdown(before); err != nil {
			return nil, fmt.Errorf("section %s: %w", name, err)
		}
		if n.After, err = RenderMarkdown(after); err != nil {
			return nil, fmt.Errorf("section %s: %w", name, err)
		}
		out[name] = n
	}
	return out, nil
}

func readSection(dir, name string) (string, error) {
	file := name + ".md"
	if dir != "" {
		b, err := os.ReadFile(filepath.Join(dir, file))
		if err == nil {
			return string(b), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("read narrative %s: %w", file, err)
		}
	}
	b, err := builtinNarrative.ReadFile("narrative/" + file)
	if err != nil {
		return "", fmt.Errorf("built-in narrative %s: %w", file, err)
	}
	return string(b), nil
}
