package survey

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/KaramelBytes/moodmap-cli/internal/dataset"
)

const (
	stateCol = "In which state do you live? - State"
	timeCol  = "time"
	platCol  = "platforms"
	deprCol  = "depressed"
	anxCol   = "worries"
)

var testScale = []string{
	"Less than an Hour",
	"Between 1 and 2 hours",
	"Between 2 and 3 hours",
	"Between 3 and 4 hours",
	"Between 4 and 5 hours",
	"More than 5 hours",
}

var socialCols = SocialColumns{Time: timeCol, Platform: platCol, Depression: deprCol, Anxiety: anxCol, Delimiter: ", "}

// mentalHealthTable builds a survey table with a state column, a free-text
// column, then 9 PHQ-9 and 7 GAD-7 item columns. Each answer row lists the
// 16 item labels in order.
func mentalHealthTable(states []string, answers [][]string) *dataset.Table {
	header := []string{stateCol, "Age"}
	for i := 1; i <= PHQ9Items; i++ {
		header = append(header, fmt.Sprintf("PHQ item %d", i))
	}
	for i := 1; i <= GAD7Items; i++ {
		header = append(header, fmt.Sprintf("GAD item %d", i))
	}
	rows := make([][]string, len(states))
	for i, s := range states {
		rows[i] = append([]string{s, "30"}, answers[i]...)
	}
	return dataset.NewTable("mental health", header, rows)
}

func repeat(label string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = label
	}
	return out
}

func items(phq, gad string) []string {
	return append(repeat(phq, PHQ9Items), repeat(gad, GAD7Items)...)
}

func defaultScorer() ScorerConfig {
	return ScorerConfig{StateColumn: stateCol, PHQ9Cutoff: 10, GAD7Cutoff: 10, Policy: PolicyExclude}
}

func TestLikertScaleRoundTrip(t *testing.T) {
	seen := map[int]bool{}
	for label := range LikertScale {
		v, ok := LikertValue(label)
		if !ok {
			t.Fatalf("label %q unmapped", label)
		}
		seen[v] = true
	}
	if len(seen) != 4 {
		t.Fatalf("expected 4 distinct values, got %v", seen)
	}
	for v := 0; v <= 3; v++ {
		if !seen[v] {
			t.Fatalf("value %d missing from scale", v)
		}
	}
	if _, ok := LikertValue("Sometimes"); ok {
		t.Fatalf("unknown label must not map")
	}
}

func TestScoreRespondentsMaxAnxiety(t *testing.T) {
	tab := mentalHealthTable([]string{"Ohio"}, [][]string{items("Not at all", "Nearly every day")})
	resps, err := ScoreRespondents(tab, defaultScorer(), nil)
	if err != nil {
		t.Fatalf("ScoreRespondents: %v", err)
	}
	r := resps[0]
	if r.GAD7Score != 21 || !r.GAD7Negative {
		t.Fatalf("expected GAD7=21 negative, got %d %v", r.GAD7Score, r.GAD7Negative)
	}
	if r.PHQ9Score != 0 || r.PHQ9Negative {
		t.Fatalf("expected PHQ9=0 non-negative, got %d %v", r.PHQ9Score, r.PHQ9Negative)
	}
}

func TestScoreRespondentsRanges(t *testing.T) {
	labels := []string{"Not at all", "Several days", "More than half of the days", "Nearly every day"}
	var states []string
	var answers [][]string
	for i := 0; i < 12; i++ {
		row := make([]string, PHQ9Items+GAD7Items)
		for j := range row {
			row[j] = labels[(i+j)%4]
		}
		states = append(states, "Texas")
		answers = append(answers, row)
	}
	answers[0] = items("Nearly every day", "Nearly every day")
	tab := mentalHealthTable(states, answers)
	resps, err := ScoreRespondents(tab, defaultScorer(), nil)
	if err != nil {
		t.Fatalf("ScoreRespondents: %v", err)
	}
	for _, r := range resps {
		if r.GAD7Score < 0 || r.GAD7Score > 21 {
			t.Fatalf("GAD7 out of range: %d", r.GAD7Score)
		}
		if r.PHQ9Score < 0 || r.PHQ9Score > 27 {
			t.Fatalf("PHQ9 out of range: %d", r.PHQ9Score)
		}
	}
	if resps[0].PHQ9Score != 27 {
		t.Fatalf("expected PHQ9=27 for all-max row, got %d", resps[0].PHQ9Score)
	}
}

func TestUnmappedPolicy(t *testing.T) {
	partial := items("Nearly every day", "Nearly every day")
	partial[0] = ""
	tab := mentalHealthTable([]string{"Ohio", "Ohio"}, [][]string{partial, items("Not at all", "Not at all")})

	cfg := defaultScorer()
	resps, err := ScoreRespondents(tab, cfg, nil)
	if err != nil {
		t.Fatalf("ScoreRespondents: %v", err)
	}
	if resps[0].Complete() || resps[0].Scored {
		t.Fatalf("exclude policy should leave incomplete row unscored: %+v", resps[0])
	}
	states := SummarizeStates(resps)
	if len(states) != 1 || states[0].Respondents != 1 || states[0].PHQ9Negative != 0 {
		t.Fatalf("excluded respondent leaked into summary: %+v", states)
	}

	cfg.Policy = PolicyZero
	resps, err = ScoreRespondents(tab, cfg, nil)
	if err != nil {
		t.Fatalf("ScoreRespondents: %v", err)
	}
	if !resps[0].Scored || resps[0].PHQ9Score != 24 || resps[0].PHQ9Missing != 1 {
		t.Fatalf("zero policy should count missing as 0: %+v", resps[0])
	}
	states = SummarizeStates(resps)
	if states[0].Respondents != 2 || states[0].PHQ9Negative != 1 {
		t.Fatalf("unexpected zero-policy summary: %+v", states[0])
	}
}

func TestStrayLabelKeepsItemColumns(t *testing.T) {
	stray := items("Several days", "Several days")
	stray[0] = "Prefer not to say"
	tab := mentalHealthTable([]string{"Ohio", "Ohio", "Utah"}, [][]string{
		stray,
		items("Not at all", "Nearly every day"),
		items("Several days", "Not at all"),
	})

	phq, gad, err := ResolveItemColumns(tab, nil, nil, nil)
	if err != nil {
		t.Fatalf("ResolveItemColumns: %v", err)
	}
	if len(phq) != PHQ9Items || len(gad) != GAD7Items {
		t.Fatalf("stray label shifted the split: %d/%d", len(phq), len(gad))
	}
	if tab.Header[phq[0]] != "PHQ item 1" || tab.Header[gad[0]] != "GAD item 1" {
		t.Fatalf("unexpected item columns: phq=%v gad=%v", phq, gad)
	}

	cfg := defaultScorer()
	resps, err := ScoreRespondents(tab, cfg, nil)
	if err != nil {
		t.Fatalf("ScoreRespondents: %v", err)
	}
	if resps[0].Scored || resps[0].PHQ9Missing != 1 {
		t.Fatalf("stray answer should leave the respondent unscored: %+v", resps[0])
	}
	if resps[1].PHQ9Score != 0 || resps[1].GAD7Score != 21 || !resps[1].GAD7Negative {
		t.Fatalf("clean respondent scored from the wrong items: %+v", resps[1])
	}

	cfg.Policy = PolicyZero
	resps, err = ScoreRespondents(tab, cfg, nil)
	if err != nil {
		t.Fatalf("ScoreRespondents: %v", err)
	}
	if !resps[0].Scored || resps[0].PHQ9Score != 8 || resps[0].GAD7Score != 7 {
		t.Fatalf("zero policy should count the stray answer as 0: %+v", resps[0])
	}
}

func TestDetectLikertColumnsIgnoresMostlyOtherText(t *testing.T) {
	tab := dataset.NewTable("mixed", []string{"Notes", "Item"}, [][]string{
		{"Not at all", "Several days"},
		{"call back", "Not at all"},
		{"moved", "Nearly every day"},
	})
	cols := DetectLikertColumns(tab)
	if len(cols) != 1 || cols[0] != 1 {
		t.Fatalf("expected only the item column, got %v", cols)
	}
}

func TestScoringKeepsRepeatedHeadersApart(t *testing.T) {
	header := []string{stateCol}
	for i := 0; i < PHQ9Items+GAD7Items; i++ {
		header = append(header, fmt.Sprintf("item %d", i+1))
	}
	header[1], header[1+PHQ9Items] = "item", "item"
	row := append([]string{"Ohio"}, items("Not at all", "Nearly every day")...)
	tab := dataset.NewTable("mental health", header, [][]string{row})

	resps, err := ScoreRespondents(tab, defaultScorer(), nil)
	if err != nil {
		t.Fatalf("ScoreRespondents: %v", err)
	}
	if resps[0].PHQ9Score != 0 || resps[0].GAD7Score != 21 {
		t.Fatalf("repeated header scored from the wrong column: %+v", resps[0])
	}

	phq := []int{1, 2, 3, 4, 5, 6, 7, 8, 9}
	gad := []int{10, 11, 12, 13, 14, 15, 16}
	resps = ScoreRespondentsAt(tab, 0, phq, gad, defaultScorer(), nil)
	if resps[0].State != "Ohio" || resps[0].PHQ9Score != 0 || resps[0].GAD7Score != 21 {
		t.Fatalf("ScoreRespondentsAt: %+v", resps[0])
	}
}

func TestParsePolicy(t *testing.T) {
	if p, err := ParsePolicy("ZERO"); err != nil || p != PolicyZero {
		t.Fatalf("ParsePolicy(ZERO) = %v, %v", p, err)
	}
	if p, err := ParsePolicy(""); err != nil || p != PolicyExclude {
		t.Fatalf("ParsePolicy(\"\") = %v, %v", p, err)
	}
	if _, err := ParsePolicy("drop"); err == nil {
		t.Fatalf("expected error for unknown policy")
	}
}

func TestDetectLikertColumnsSkipsOtherAnswers(t *testing.T) {
	tab := mentalHealthTable([]string{"Ohio", "Utah"}, [][]string{
		items("Several days", "Not at all"),
		items("Not at all", ""),
	})
	cols := DetectLikertColumns(tab)
	if len(cols) != PHQ9Items+GAD7Items {
		t.Fatalf("expected 16 Likert columns, got %d", len(cols))
	}
	if tab.Header[cols[0]] != "PHQ item 1" || tab.Header[cols[PHQ9Items]] != "GAD item 1" {
		t.Fatalf("unexpected detection order: %v", cols)
	}
	phq, gad, err := ResolveItemColumns(tab, nil, nil, nil)
	if err != nil {
		t.Fatalf("ResolveItemColumns: %v", err)
	}
	if len(phq) != PHQ9Items || len(gad) != GAD7Items {
		t.Fatalf("unexpected split %d/%d", len(phq), len(gad))
	}
}

func TestResolveItemColumnsNamed(t *testing.T) {
	tab := mentalHealthTable([]string{"Ohio"}, [][]string{items("Not at all", "Not at all")})
	_, _, err := ResolveItemColumns(tab, []string{"PHQ item 1"}, []string{"GAD item 99"}, nil)
	var mc *dataset.MissingColumnError
	if !errors.As(err, &mc) || mc.Column != "GAD item 99" {
		t.Fatalf("expected missing GAD item 99, got %v", err)
	}
	phq, gad, err := ResolveItemColumns(tab, []string{"PHQ item 2", "PHQ item 1"}, []string{"GAD item 1"}, nil)
	if err != nil {
		t.Fatalf("ResolveItemColumns: %v", err)
	}
	if tab.Header[phq[0]] != "PHQ item 2" || len(gad) != 1 {
		t.Fatalf("named order not kept: %v %v", phq, gad)
	}
}

func TestResolveItemColumnsNoLikert(t *testing.T) {
	tab := dataset.NewTable("mh", []string{stateCol, "Age"}, [][]string{{"Ohio", "31"}})
	if _, _, err := ResolveItemColumns(tab, nil, nil, nil); !errors.Is(err, ErrNoLikertColumns) {
		t.Fatalf("expected ErrNoLikertColumns, got %v", err)
	}
}

func regionsTable() *dataset.Table {
	return dataset.NewTable("regions", []string{"State", "State Code", "Region", "Division"}, [][]string{
		{"Ohio", "OH", "Midwest", "East North Central"},
		{"Texas", "TX", "South", "West South Central"},
		{"Utah", "UT", "West", "Mountain"},
		{"Idaho", "ID", "West", "Mountain"},
	})
}

var regionCols = RegionColumns{State: "State", Code: "State Code", Region: "Region", Division: "Division"}

func TestStatesJoinAndRollup(t *testing.T) {
	resps := []Respondent{
		{State: "Ohio", GAD7Negative: true, PHQ9Negative: true, Scored: true},
		{State: "Ohio", Scored: true},
		{State: "Ohio", PHQ9Negative: true, Scored: true},
		{State: "Utah", GAD7Negative: true, Scored: true},
		{State: "Idaho", Scored: true},
		{State: "Ohioo", GAD7Negative: true, Scored: true},
		{State: "", Scored: true},
	}
	refs, err := LoadRegionRefs(regionsTable(), regionCols)
	if err != nil {
		t.Fatalf("LoadRegionRefs: %v", err)
	}
	states, unmatched := JoinRegions(SummarizeStates(resps), refs)
	if len(states) != 4 {
		t.Fatalf("expected 4 states (empty dropped), got %d", len(states))
	}
	if len(unmatched) != 1 || unmatched[0] != "Ohioo" {
		t.Fatalf("unexpected unmatched: %v", unmatched)
	}
	for _, s := range states {
		if s.GAD7Percent < 0 || s.GAD7Percent > 100 || s.PHQ9Percent < 0 || s.PHQ9Percent > 100 {
			t.Fatalf("percent out of range: %+v", s)
		}
	}
	mapped := MappedStates(states)
	if len(mapped) != 3 {
		t.Fatalf("expected 3 mapped states, got %d", len(mapped))
	}
	ohio := mapped[1]
	if ohio.State != "Ohio" || ohio.Code != "OH" || ohio.Respondents != 3 {
		t.Fatalf("unexpected Ohio row: %+v", ohio)
	}
	if math.Abs(ohio.PHQ9Percent-200.0/3) > 1e-9 {
		t.Fatalf("unexpected Ohio PHQ9 percent %v", ohio.PHQ9Percent)
	}

	regions := RollupRegions(states)
	if len(regions) != 2 {
		t.Fatalf("expected Midwest and West, got %+v", regions)
	}
	west := regions[1]
	if west.Region != "West" || west.States != 2 || west.Respondents != 2 || west.GAD7Percent != 50 {
		t.Fatalf("unexpected West rollup: %+v", west)
	}
}

func socialTable(rows [][]string) *dataset.Table {
	return dataset.NewTable("social media", []string{"Timestamp", timeCol, platCol, deprCol, anxCol}, rows)
}

func TestExplodeMentionsKeepsEachPlatform(t *testing.T) {
	tab := socialTable([][]string{
		{"t", "Between 2 and 3 hours", "Instagram, TikTok", "3", "4"},
		{"t", "", "Instagram", "3", "4"},
		{"t", "More than 5 hours", "", "3", "4"},
	})
	mentions, kept, _, err := ExplodeMentions(tab, socialCols, DefaultVocabulary())
	if err != nil {
		t.Fatalf("ExplodeMentions: %v", err)
	}
	if kept != 1 || len(mentions) != 2 {
		t.Fatalf("expected 1 respondent with 2 mentions, got %d/%d", kept, len(mentions))
	}
	if mentions[0].Platform != "Instagram" || mentions[1].Platform != "TikTok" {
		t.Fatalf("unexpected mentions: %+v", mentions)
	}
	if mentions[0].Bucket != "Between 2 and 3 hours" || mentions[1].Bucket != mentions[0].Bucket {
		t.Fatalf("mentions must share the respondent's bucket: %+v", mentions)
	}
}

func TestAggregateUsageProportions(t *testing.T) {
	tab := socialTable([][]string{
		{"t", "More than 5 hours", "Instagram, TikTok, YouTube", "5", "5"},
		{"t", "More than 5 hours", "TikTok", "4", "3"},
		{"t", "Less than an Hour", "Facebook, X", "1", "1"},
		{"t", "Less than an Hour", "Facebook", "2", "2"},
		{"t", "Sometimes", "Reddit, Mastodon", "2", "2"},
		{"t", "", "Reddit", "2", "2"},
	})
	u, err := AggregateUsage(tab, socialCols, DefaultVocabulary(), testScale)
	if err != nil {
		t.Fatalf("AggregateUsage: %v", err)
	}
	if u.Dropped != 1 {
		t.Fatalf("expected 1 dropped row, got %d", u.Dropped)
	}
	if len(u.Buckets) != 3 || u.Buckets[0].Bucket != "Less than an Hour" || u.Buckets[1].Bucket != "More than 5 hours" || u.Buckets[2].Bucket != "Sometimes" {
		t.Fatalf("unexpected bucket order: %+v", u.Buckets)
	}
	if len(u.UnknownBuckets) != 1 || u.UnknownBuckets[0] != "Sometimes" {
		t.Fatalf("unexpected unknown buckets: %v", u.UnknownBuckets)
	}
	if len(u.Unknown) != 1 || u.Unknown[0] != "Mastodon" {
		t.Fatalf("unexpected unknown platforms: %v", u.Unknown)
	}
	if u.Platforms[len(u.Platforms)-1] != "Mastodon" || u.Platforms[0] != "Facebook" {
		t.Fatalf("unexpected platform order: %v", u.Platforms)
	}
	for _, b := range u.Buckets {
		sum := 0.0
		scaled := 0.0
		for _, p := range b.Platforms {
			if p.Scaled < 0 {
				t.Fatalf("negative scaled value: %+v", p)
			}
			sum += p.Share
			scaled += p.Scaled
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Fatalf("shares in %s sum to %v", b.Bucket, sum)
		}
		if math.Abs(scaled-float64(b.Respondents)) > 1e-9 {
			t.Fatalf("scaled values in %s should add up to respondents, got %v", b.Bucket, scaled)
		}
	}
	heavy := u.Buckets[1]
	if heavy.Respondents != 2 || heavy.TotalMentions != 4 {
		t.Fatalf("unexpected heavy bucket totals: %+v", heavy)
	}
	_, ys := u.Series("TikTok")
	if ys[0] != 0 || ys[1] != 1.0 {
		t.Fatalf("unexpected TikTok series: %v", ys)
	}
	_, tw := u.Series("Twitter")
	if math.Abs(tw[0]-2.0/3) > 1e-9 {
		t.Fatalf("X should count as Twitter: %v", tw)
	}
}

func TestBuildCrossTabs(t *testing.T) {
	tab := socialTable([][]string{
		{"t", "More than 5 hours", "Instagram, TikTok", "5", "4"},
		{"t", "More than 5 hours", "TikTok", "5", "2"},
		{"t", "Less than an Hour", "Facebook", "1", "2"},
		{"t", "Less than an Hour", "Facebook", "n/a", "2"},
		{"t", "Less than an Hour", "", "1", "2"},
		{"t", "Less than an Hour", "Reddit", "2.0", ""},
	})
	depr, anx, dropped, err := BuildCrossTabs(tab, socialCols, DefaultVocabulary())
	if err != nil {
		t.Fatalf("BuildCrossTabs: %v", err)
	}
	if dropped != 3 {
		t.Fatalf("expected 3 dropped rows, got %d", dropped)
	}
	wantPlatforms := []string{"Facebook", "Instagram", "TikTok"}
	if fmt.Sprint(depr.Platforms) != fmt.Sprint(wantPlatforms) {
		t.Fatalf("unexpected platforms %v", depr.Platforms)
	}
	if fmt.Sprint(depr.Levels) != "[1 5]" || fmt.Sprint(anx.Levels) != "[2 4]" {
		t.Fatalf("unexpected levels %v %v", depr.Levels, anx.Levels)
	}
	if fmt.Sprint(depr.Counts) != "[[1 0 0] [0 1 2]]" {
		t.Fatalf("unexpected depression counts %v", depr.Counts)
	}
	for _, ct := range []*CrossTab{depr, anx} {
		for i, row := range ct.Percent {
			sum := 0.0
			for _, v := range row {
				sum += v
			}
			if ct.RowTotal(i) == 0 {
				if sum != 0 {
					t.Fatalf("zero row must stay zero: %v", row)
				}
				continue
			}
			if math.Abs(sum-100) > 1e-6 {
				t.Fatalf("%s row %d sums to %v", ct.Measure, i, sum)
			}
		}
	}
}

func TestRowPercentZeroRow(t *testing.T) {
	got := RowPercent([][]int{{0, 0}, {1, 3}})
	if got[0][0] != 0 || got[0][1] != 0 || got[1][0] != 25 || got[1][1] != 75 {
		t.Fatalf("unexpected percents %v", got)
	}
}

func TestParseSeverity(t *testing.T) {
	cases := map[string]struct {
		want int
		ok   bool
	}{
		"3":    {3, true},
		" 4 ":  {4, true},
		"2.0":  {2, true},
		"2.5":  {0, false},
		"":     {0, false},
		"x":    {0, false},
		"Inf":  {0, false},
		"-Inf": {0, false},
		"NaN":  {0, false},
		"1e30": {0, false},
	}
	for in, c := range cases {
		got, ok := ParseSeverity(in)
		if got != c.want || ok != c.ok {
			t.Errorf("ParseSeverity(%q) = %d, %v; want %d, %v", in, got, ok, c.want, c.ok)
		}
	}
}

func TestAggregateTrend(t *testing.T) {
	tab := socialTable([][]string{
		{"t", "More than 5 hours", "TikTok", "3", "4"},
		{"t", "More than 5 hours", "TikTok", "2", "5"},
		{"t", "Less than an Hour", "Facebook", "1", "1"},
		{"t", "Between 2 and 3 hours", "Facebook", "", "1"},
		{"t", "Sometimes", "Facebook", "5", "5"},
	})
	points, dropped, err := AggregateTrend(tab, socialCols, TrendConfig{AnxietyCutoff: 4, DepressionCutoff: 3, Scale: testScale})
	if err != nil {
		t.Fatalf("AggregateTrend: %v", err)
	}
	if dropped != 2 {
		t.Fatalf("expected 2 dropped rows, got %d", dropped)
	}
	if len(points) != 2 {
		t.Fatalf("empty buckets must not appear: %+v", points)
	}
	if points[0].Bucket != "Less than an Hour" || points[1].Bucket != "More than 5 hours" {
		t.Fatalf("unexpected order: %+v", points)
	}
	heavy := points[1]
	if heavy.AnxietyRate != 100 || heavy.DepressionRate != 50 {
		t.Fatalf("unexpected heavy rates: %+v", heavy)
	}
	if points[0].AnxietyRate != 0 || points[0].DepressionRate != 0 {
		t.Fatalf("unexpected light rates: %+v", points[0])
	}
}

func TestVocabulary(t *testing.T) {
	v := DefaultVocabulary()
	if name, ok := v.Canonical(" x "); !ok || name != "Twitter" {
		t.Fatalf("X should map to Twitter, got %q %v", name, ok)
	}
	if name, ok := v.Canonical("youtube"); !ok || name != "YouTube" {
		t.Fatalf("case-insensitive match failed: %q", name)
	}
	names, unknown := v.Split("Instagram, , Threads, Instagram", ", ")
	if fmt.Sprint(names) != "[Instagram Threads Instagram]" || fmt.Sprint(unknown) != "[Threads]" {
		t.Fatalf("unexpected split %v %v", names, unknown)
	}
	order := v.Order([]string{"Zulu", "TikTok", "Alpha", "Facebook"})
	if fmt.Sprint(order) != "[Facebook TikTok Alpha Zulu]" {
		t.Fatalf("unexpected order %v", order)
	}

	doc := []byte("version: \"2024.2\"\nplatforms:\n  - name: Threads\n    aliases: [Threads by Instagram]\n  - name: Bluesky\n")
	custom, err := ParseVocabulary(doc)
	if err != nil {
		t.Fatalf("ParseVocabulary: %v", err)
	}
	if custom.Version != "2024.2" {
		t.Fatalf("unexpected version %q", custom.Version)
	}
	if name, ok := custom.Canonical("threads by instagram"); !ok || name != "Threads" {
		t.Fatalf("alias lookup failed: %q", name)
	}
	if _, err := ParseVocabulary([]byte("platforms:\n  - name: A\n")); err == nil {
		t.Fatalf("expected missing version error")
	}
	clash := []byte("version: v1\nplatforms:\n  - name: A\n    aliases: [Z]\n  - name: B\n    aliases: [z]\n")
	if _, err := ParseVocabulary(clash); err == nil {
		t.Fatalf("expected alias conflict error")
	}
}

func testOptions() Options {
	return Options{
		Scorer:  defaultScorer(),
		Regions: regionCols,
		Social:  socialCols,
		Trend:   TrendConfig{AnxietyCutoff: 4, DepressionCutoff: 3, Scale: testScale},
	}
}

func TestRunEndToEnd(t *testing.T) {
	in := Inputs{
		MentalHealth: mentalHealthTable(
			[]string{"Ohio", "Texas", "Atlantis"},
			[][]string{
				items("Nearly every day", "Nearly every day"),
				items("Not at all", "Several days"),
				items("Several days", "Nearly every day"),
			},
		),
		Regions: regionsTable(),
		Social: socialTable([][]string{
			{"t", "More than 5 hours", "Instagram, TikTok", "5", "4"},
			{"t", "Less than an Hour", "Facebook", "1", "1"},
		}),
	}
	res, err := Run(in, testOptions(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.RunID == "" {
		t.Fatalf("missing run id")
	}
	if len(res.States) != 3 || len(res.MappedStates()) != 2 {
		t.Fatalf("unexpected states: %+v", res.States)
	}
	if fmt.Sprint(res.Diagnostics.UnmatchedStates) != "[Atlantis]" {
		t.Fatalf("unexpected unmatched: %v", res.Diagnostics.UnmatchedStates)
	}
	if len(res.Diagnostics.PHQ9Columns) != PHQ9Items || len(res.Diagnostics.GAD7Columns) != GAD7Items {
		t.Fatalf("unexpected detected columns: %+v", res.Diagnostics)
	}
	if len(res.Trend) != 2 || len(res.Usage.Buckets) != 2 {
		t.Fatalf("unexpected social aggregates: %+v %+v", res.Trend, res.Usage.Buckets)
	}
	if res.Depression == nil || res.Anxiety == nil {
		t.Fatalf("missing cross tabs")
	}
	if res.Diagnostics.VocabularyVersion == "" {
		t.Fatalf("vocabulary version not recorded")
	}
}

func TestRunFailsFastOnMissingColumn(t *testing.T) {
	in := Inputs{
		MentalHealth: mentalHealthTable([]string{"Ohio"}, [][]string{items("Not at all", "Not at all")}),
		Regions:      regionsTable(),
		Social:       dataset.NewTable("social media", []string{timeCol, platCol, deprCol}, nil),
	}
	_, err := Run(in, testOptions(), nil)
	var mc *dataset.MissingColumnError
	if !errors.As(err, &mc) {
		t.Fatalf("expected MissingColumnError, got %v", err)
	}
	if mc.Dataset != "social media" || mc.Column != anxCol {
		t.Fatalf("diagnostic should name social media/%s, got %+v", anxCol, mc)
	}
}
