package survey

import (
	"sort"

	"github.com/KaramelBytes/moodmap-cli/internal/dataset"
)

// SocialColumns names the social media survey columns.
type SocialColumns struct {
	Time       string
	Platform   string
	Depression string
	Anxiety    string
	// Delimiter separates platforms in the multi-valued platform answer.
	Delimiter string
}

// PlatformMention is one respondent-platform pair.
type PlatformMention struct {
	Respondent int    `json:"respondent"`
	Bucket     string `json:"bucket"`
	Platform   string `json:"platform"`
}

// PlatformUsage is a platform's share of one usage-time bucket.
//
// Scaled spreads the bucket's respondent total across platforms in
// proportion to mentions. Respondents may pick several platforms, so it is
// an estimate of respondents per platform, not a count.
type PlatformUsage struct {
	Platform string  `json:"platform"`
	Mentions int     `json:"mentions"`
	Share    float64 `json:"share"`
	Scaled   float64 `json:"scaled"`
}

// BucketUsage holds the respondent total and platform breakdown of one bucket.
type BucketUsage struct {
	Bucket        string          `json:"bucket"`
	Respondents   int             `json:"respondents"`
	TotalMentions int             `json:"total_mentions"`
	Platforms     []PlatformUsage `json:"platforms"`
}

// UsageTable is the per-bucket, per-platform usage breakdown.
type UsageTable struct {
	Buckets   []BucketUsage `json:"buckets"`
	Platforms []string      `json:"platforms"`
	// Dropped counts respondents missing the time bucket or platform answer.
	Dropped int `json:"dropped"`
	// Unknown lists platform names absent from the vocabulary.
	Unknown []string `json:"unknown_platforms,omitempty"`
	// UnknownBuckets lists time answers outside the ordinal scale.
	UnknownBuckets []string `json:"unknown_buckets,omitempty"`
}

// Series returns the bucket labels and scaled values of one platform, with
// zero where the platform was not mentioned.
func (u *UsageTable) Series(platform string) ([]string, []float64) {
	xs := make([]string, len(u.Buckets))
	ys := make([]float64, len(u.Buckets))
	for i, b := range u.Buckets {
		xs[i] = b.Bucket
		for _, p := range b.Platforms {
			if p.Platform == platform {
				ys[i] = p.Scaled
				break
			}
		}
	}
	return xs, ys
}

// ExplodeMentions drops respondents missing either field and returns one
// mention per listed platform, along with the number of respondents kept.
func ExplodeMentions(t *dataset.Table, cols SocialColumns, vocab *Vocabulary) (mentions []PlatformMention, kept int, unknown []string, err error) {
	idx, err := t.Require(cols.Time, cols.Platform)
	if err != nil {
		return nil, 0, nil, err
	}
	seenUnknown := map[string]bool{}
	for r := range t.Rows {
		bucket := t.Cell(r, idx[0])
		field := t.Cell(r, idx[1])
		if bucket == "" || field == "" {
			continue
		}
		names, unk := vocab.Split(field, cols.Delimiter)
		if len(names) == 0 {
			continue
		}
		kept++
		for _, u := range unk {
			if !seenUnknown[u] {
				seenUnknown[u] = true
				unknown = append(unknown, u)
			}
		}
		for _, n := range names {
			mentions = append(mentions, PlatformMention{Respondent: r, Bucket: bucket, Platform: n})
		}
	}
	sort.Strings(unknown)
	return mentions, kept, unknown, nil
}

// AggregateUsage computes per-bucket respondent totals and scaled platform
// estimates. Buckets follow scale order; answers outside the scale follow in
// alphabetical order.
func AggregateUsage(t *dataset.Table, cols SocialColumns, vocab *Vocabulary, scale []string) (*UsageTable, error) {
	mentions, kept, unknown, err := ExplodeMentions(t, cols, vocab)
	if err != nil {
		return nil, err
	}

	respondents := map[string]map[int]bool{}
	counts := map[string]map[string]int{}
	totals := map[string]int{}
	platformSet := map[string]bool{}
	for _, m := range mentions {
		if respondents[m.Bucket] == nil {
			respondents[m.Bucket] = map[int]bool{}
			counts[m.Bucket] = map[string]int{}
		}
		respondents[m.Bucket][m.Respondent] = true
		counts[m.Bucket][m.Platform]++
		totals[m.Bucket]++
		platformSet[m.Platform] = true
	}

	platforms := make([]string, 0, len(platformSet))
	for p := range platformSet {
		platforms = append(platforms, p)
	}
	sort.Strings(platforms)
	platforms = vocab.Order(platforms)

	buckets := make([]string, 0, len(counts))
	for b := range counts {
		buckets = append(buckets, b)
	}
	buckets, unknownBuckets := orderBuckets(buckets, scale, true)

	out := &UsageTable{
		Platforms:      platforms,
		Dropped:        t.Len() - kept,
		Unknown:        unknown,
		UnknownBuckets: unknownBuckets,
	}
	for _, b := range buckets {
		bu := BucketUsage{Bucket: b, Respondents: len(respondents[b]), TotalMentions: totals[b]}
		for _, p := range platforms {
			n := counts[b][p]
			if n == 0 {
				continue
			}
			share := float64(n) / float64(bu.TotalMentions)
			bu.Platforms = append(bu.Platforms, PlatformUsage{
				Platform: p,
				Mentions: n,
				Share:    share,
				Scaled:   share * float64(bu.Respondents),
			})
		}
		out.Buckets = append(out.Buckets, bu)
	}
	return out, nil
}

// orderBuckets sorts labels by their position in scale. Labels outside the
// scale are returned separately and, when keepUnknown is set, appended in
// alphabetical order.
func orderBuckets(labels, scale []string, keepUnknown bool) (ordered, unknown []string) {
	pos := make(map[string]int, len(scale))
	for i, s := range scale {
		pos[s] = i
	}
	for _, l := range labels {
		if _, ok := pos[l]; ok {
			ordered = append(ordered, l)
		} else {
			unknown = append(unknown, l)
		}
	}
	sort.Slice(ordered, func(i, j int) bool { return pos[ordered[i]] < pos[ordered[j]] })
	sort.Strings(unknown)
	if keepUnknown {
		ordered = append(ordered, unknown...)
	}
	return ordered, unknown
}
