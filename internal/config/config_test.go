package config

import (
	"os"
	"path/filepath"
	"testing"
)

func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	// keep a stray .env in the package dir from leaking into the test
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(home); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return home
}

func TestLoadDefaults(t *testing.T) {
	isolateHome(t)
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.GAD7Cutoff != 10 || c.PHQ9Cutoff != 10 {
		t.Fatalf("unexpected cutoffs: %d %d", c.GAD7Cutoff, c.PHQ9Cutoff)
	}
	if c.AnxietySeverityCutoff != 4 || c.DepressionSeverityCutoff != 3 {
		t.Fatalf("unexpected severity cutoffs: %d %d", c.AnxietySeverityCutoff, c.DepressionSeverityCutoff)
	}
	if len(c.TimeBuckets) != 6 || c.TimeBuckets[0] != "Less than an Hour" {
		t.Fatalf("unexpected time buckets: %v", c.TimeBuckets)
	}
	if c.PlatformDelimiter != ", " {
		t.Fatalf("unexpected delimiter %q", c.PlatformDelimiter)
	}
	if c.UnmappedPolicy != "exclude" {
		t.Fatalf("unexpected policy %q", c.UnmappedPolicy)
	}
}

func TestLoadFileAndEnvPrecedence(t *testing.T) {
	home := isolateHome(t)
	path := filepath.Join(home, "custom.yaml")
	body := "data_dir: /srv/surveys\noutput_path: out/mood.html\ngad7_cutoff: 12\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("MOODMAP_OUTPUT_PATH", "env.html")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.DataDir != "/srv/surveys" {
		t.Fatalf("data_dir from file not applied: %q", c.DataDir)
	}
	if c.GAD7Cutoff != 12 {
		t.Fatalf("gad7_cutoff from file not applied: %d", c.GAD7Cutoff)
	}
	if c.OutputPath != "env.html" {
		t.Fatalf("env should override file, got %q", c.OutputPath)
	}
}

func TestLoadRejectsBadPolicy(t *testing.T) {
	isolateHome(t)
	t.Setenv("MOODMAP_UNMAPPED_POLICY", "guess")
	if _, err := Load(""); err == nil {
		t.Fatalf("expected invalid policy error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	home := isolateHome(t)
	c := Default()
	c.OutputPath = "saved.html"
	c.PHQ9Columns = []string{"q1", "q2"}
	path := filepath.Join(home, "saved.yaml")
	if err := Save(c, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.OutputPath != "saved.html" || len(got.PHQ9Columns) != 2 {
		t.Fatalf("round trip lost values: %+v", got)
	}
}
