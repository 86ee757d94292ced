package dataset

import (
	"fmt"
	"log/slog"

	"github.com/KaramelBytes/moodmap-cli/internal/utils"
)

// Options controls how a source file becomes a Table.
type Options struct {
	// HeaderLine is the 0-based record holding column names. Records before it
	// are discarded.
	HeaderLine int
	// SkipRows drops this many records right after the header (survey tools
	// often emit question text or import ids there).
	SkipRows int
	// Delimiter for CSV. If 0, chosen from the file extension.
	Delimiter rune
	// Sheet selects an XLSX worksheet by name; the first sheet when empty.
	Sheet string
}

// Loader reads tables relative to a base data directory.
type Loader struct {
	BaseDir string
	Logger  *slog.Logger
}

// NewLoader returns a loader rooted at baseDir.
func NewLoader(baseDir string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{BaseDir: baseDir, Logger: logger}
}

// Load reads the file at rel (resolved against BaseDir) into a Table named name.
func (l *Loader) Load(name, rel string, opt Options) (*Table, error) {
	path := utils.ResolvePath(l.BaseDir, rel)
	recs, err := readerFor(path).Read(path, opt)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	t, err := FromRecords(name, recs, opt)
	if err != nil {
		return nil, fmt.Errorf("load %s (%s): %w", name, path, err)
	}
	l.Logger.Info("dataset loaded", "dataset", name, "path", path, "rows", t.Len(), "columns", len(t.Header))
	return t, nil
}

// FromRecords applies header and skip options to raw records.
func FromRecords(name string, recs [][]string, opt Options) (*Table, error) {
	if opt.HeaderLine < 0 || opt.SkipRows < 0 {
		return nil, fmt.Errorf("invalid header options: line=%d skip=%d", opt.HeaderLine, opt.SkipRows)
	}
	if len(recs) <= opt.HeaderLine {
		return nil, ErrEmptyDataset
	}
	header := recs[opt.HeaderLine]
	start := opt.HeaderLine + 1 + opt.SkipRows
	if start > len(recs) {
		start = len(recs)
	}
	return NewTable(name, header, recs[start:]), nil
}
