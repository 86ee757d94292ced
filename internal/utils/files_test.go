package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSafeWriteFileCreatesParentAndLeavesNoTemp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "nested", "report.html")
	if err := SafeWriteFile(path, []byte("<html></html>")); err != nil {
		t.Fatalf("SafeWriteFile: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != "<html></html>" {
		t.Fatalf("unexpected content %q", b)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

func TestPrettyJSONIndents(t *testing.T) {
	b, err := PrettyJSON(map[string]int{"a": 1})
	if err != nil {
		t.Fatalf("PrettyJSON: %v", err)
	}
	if !strings.Contains(string(b), "\n  \"a\": 1") {
		t.Fatalf("expected indented json, got %s", b)
	}
}

func TestResolvePath(t *testing.T) {
	cases := []struct {
		base, rel, want string
	}{
		{"data", "smmh.csv", filepath.Join("data", "smmh.csv")},
		{"", "smmh.csv", "smmh.csv"},
		{"data", "/abs/smmh.csv", "/abs/smmh.csv"},
		{"data", "", ""},
	}
	for _, c := range cases {
		if got := ResolvePath(c.base, c.rel); got != c.want {
			t.Errorf("ResolvePath(%q, %q) = %q, want %q", c.base, c.rel, got, c.want)
		}
	}
}
