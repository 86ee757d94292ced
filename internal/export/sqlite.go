package export

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/KaramelBytes/moodmap-cli/internal/survey"
	"github.com/KaramelBytes/moodmap-cli/internal/utils"
	_ "modernc.org/sqlite"
)

// schemaVersion is stamped into PRAGMA user_version.
const schemaVersion = 1

const runsDDL = `CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	generated_at TEXT NOT NULL,
	vocabulary_version TEXT,
	respondents INTEGER,
	excluded INTEGER,
	gad7_cutoff INTEGER,
	phq9_cutoff INTEGER,
	anxiety_severity_cutoff INTEGER,
	depression_severity_cutoff INTEGER,
	diagnostics TEXT
)`

// WriteSQLite appends a run to the database at path: one row in runs plus
// every aggregate table keyed by run_id. Earlier runs are kept.
func WriteSQLite(path string, res *survey.Results) error {
	if err := utils.EnsureParentDir(path); err != nil {
		return fmt.Errorf("creating database directory: %w", err)
	}
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer conn.Close()

	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("enabling foreign keys: %w", err)
	}
	tables := Tables(res)
	if err := ensureSchema(conn, tables); err != nil {
		return fmt.Errorf("preparing schema: %w", err)
	}

	diag, err := json.Marshal(res.Diagnostics)
	if err != nil {
		return fmt.Errorf("marshal diagnostics: %w", err)
	}
	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	th := res.Thresholds
	if _, err := tx.Exec(
		`INSERT INTO runs (run_id, generated_at, vocabulary_version, respondents, excluded,
			gad7_cutoff, phq9_cutoff, anxiety_severity_cutoff, depression_severity_cutoff, diagnostics)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.RunID, res.GeneratedAt.Format(time.RFC3339), res.Diagnostics.VocabularyVersion,
		res.Diagnostics.Respondents, res.Diagnostics.Excluded,
		th.GAD7, th.PHQ9, th.AnxietySeverity, th.DepressionSeverity, string(diag),
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	for _, t := range tables {
		if err := insertRows(tx, res.RunID, t); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func ensureSchema(conn *sql.DB, tables []Table) error {
	var version int
	if err := conn.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}
	if version > schemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported %d", version, schemaVersion)
	}
	stmts := []string{runsDDL}
	for _, t := range tables {
		stmts = append(stmts, createTable(t))
	}
	stmts = append(stmts, fmt.Sprintf("PRAGMA user_version = %d", schemaVersion))
	for _, s := range stmts {
		if _, err := conn.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func createTable(t Table) string {
	cols := []string{"run_id TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE"}
	for _, c := range t.Columns {
		cols = append(cols, fmt.Sprintf("%s %s", c.Name, c.Type))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", t.Name, strings.Join(cols, ",\n\t"))
}

func insertRows(tx *sql.Tx, runID string, t Table) error {
	if len(t.Rows) == 0 {
		return nil
	}
	names := append([]string{"run_id"}, t.Header()...)
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(names)), ", ")
	stmt, err := tx.Prepare(fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", t.Name, strings.Join(names, ", "), marks))
	if err != nil {
		return fmt.Errorf("prepare %s: %w", t.Name, err)
	}
	defer stmt.Close()
	for _, row := range t.Rows {
		args := append([]any{runID}, row...)
		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("insert into %s: %w", t.Name, err)
		}
	}
	return nil
}
