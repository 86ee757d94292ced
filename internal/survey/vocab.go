package survey

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// PlatformEntry is one canonical platform and the spellings that map to it.
type PlatformEntry struct {
	Name    string   `yaml:"name" json:"name"`
	Aliases []string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
}

// Vocabulary is a versioned list of canonical platform names.
type Vocabulary struct {
	Version   string          `yaml:"version" json:"version"`
	Platforms []PlatformEntry `yaml:"platforms" json:"platforms"`

	lookup map[string]string
	rank   map[string]int
}

var defaultPlatforms = []PlatformEntry{
	{Name: "Facebook", Aliases: []string{"FB"}},
	{Name: "Twitter", Aliases: []string{"X", "X (Twitter)", "Twitter/X"}},
	{Name: "Instagram", Aliases: []string{"IG", "Insta"}},
	{Name: "YouTube", Aliases: []string{"Youtube", "YT"}},
	{Name: "Discord"},
	{Name: "Reddit"},
	{Name: "Pinterest"},
	{Name: "TikTok", Aliases: []string{"Tiktok", "Tik Tok"}},
	{Name: "Snapchat", Aliases: []string{"Snap"}},
}

// DefaultVocabulary covers the platforms offered by the social media survey.
func DefaultVocabulary() *Vocabulary {
	v := &Vocabulary{Version: "2022.1", Platforms: append([]PlatformEntry(nil), defaultPlatforms...)}
	_ = v.index()
	return v
}

// ParseVocabulary reads a YAML vocabulary document.
func ParseVocabulary(data []byte) (*Vocabulary, error) {
	var v Vocabulary
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("parse vocabulary: %w", err)
	}
	if v.Version == "" {
		return nil, fmt.Errorf("vocabulary has no version")
	}
	if len(v.Platforms) == 0 {
		return nil, fmt.Errorf("vocabulary %s lists no platforms", v.Version)
	}
	if err := v.index(); err != nil {
		return nil, err
	}
	return &v, nil
}

// LoadVocabulary reads a YAML vocabulary file.
func LoadVocabulary(path string) (*Vocabulary, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary: %w", err)
	}
	return ParseVocabulary(b)
}

func (v *Vocabulary) index() error {
	v.lookup = make(map[string]string)
	v.rank = make(map[string]int, len(v.Platforms))
	for i, p := range v.Platforms {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			return fmt.Errorf("vocabulary %s: platform %d has no name", v.Version, i+1)
		}
		for _, spelling := range append([]string{name}, p.Aliases...) {
			key := strings.ToLower(strings.TrimSpace(spelling))
			if prev, ok := v.lookup[key]; ok && prev != name {
				return fmt.Errorf("vocabulary %s: %q maps to both %s and %s", v.Version, spelling, prev, name)
			}
			v.lookup[key] = name
		}
		v.rank[name] = i
	}
	return nil
}

// Canonical maps a raw platform token to its canonical name. Unknown tokens
// are returned trimmed with known=false.
func (v *Vocabulary) Canonical(raw string) (name string, known bool) {
	s := strings.TrimSpace(raw)
	if c, ok := v.lookup[strings.ToLower(s)]; ok {
		return c, true
	}
	return s, false
}

// Split breaks a multi-valued platform field on delim and canonicalizes each
// token. Empty tokens are dropped; repeated platforms are kept.
func (v *Vocabulary) Split(field, delim string) (names []string, unknown []string) {
	for _, tok := range strings.Split(field, delim) {
		if strings.TrimSpace(tok) == "" {
			continue
		}
		name, known := v.Canonical(tok)
		if !known {
			unknown = append(unknown, name)
		}
		names = append(names, name)
	}
	return names, unknown
}

// Order sorts platform names by vocabulary position, unknown names last in
// alphabetical order.
func (v *Vocabulary) Order(names []string) []string {
	out := append([]string(nil), names...)
	sort.SliceStable(out, func(i, j int) bool {
		ri, iok := v.rank[out[i]]
		rj, jok := v.rank[out[j]]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		default:
			return out[i] < out[j]
		}
	})
	return out
}
