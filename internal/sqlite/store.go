// Package sqlite implements the stockroom storage core: the dynamically
// shaped assets table, its append-only audit log, and CSV import/export
// against whatever template currently defines the field set.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/stockroom/internal/fields"
	"github.com/mesh-intelligence/stockroom/internal/template"
	"github.com/mesh-intelligence/stockroom/pkg/types"
)

// Fixed tables beside the dynamic assets table.
const (
	createAuditLog = `CREATE TABLE IF NOT EXISTS asset_audit_log (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    asset_id INTEGER,
    action TEXT NOT NULL,
    field_name TEXT,
    old_value TEXT,
    new_value TEXT,
    changed_by TEXT DEFAULT 'system',
    change_date TEXT NOT NULL
);`

	// asset_no_seq backs asset-number generation. AUTOINCREMENT keeps the
	// sequence monotonic even after rows are deleted, which a plain row
	// count cannot guarantee.
	createAssetNoSeq = `CREATE TABLE IF NOT EXISTS asset_no_seq (
    id INTEGER PRIMARY KEY AUTOINCREMENT
);`
)

// timeFormat is the storage rendering for all timestamps. Fixed-width
// fractional seconds keep lexicographic order identical to chronological
// order, which the SQL string comparisons on modified_date and change_date
// rely on. Sub-second precision also keeps an update that lands in the same
// second as its insert distinguishable from the creation stamp.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

var _ types.RecordStore = (*Store)(nil)

// dbtx is the subset of *sql.DB and *sql.Tx the store's helpers need, so
// mutation paths run identically inside and outside a transaction.
type dbtx interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// Store owns the single database handle. It is constructed once at process
// start and passed explicitly to whoever needs it; there is no package-level
// instance.
type Store struct {
	mu     sync.RWMutex
	db     *sql.DB
	config types.Config

	// textFields marks the columns matched by substring containment in
	// Search instead of exact equality.
	textFields map[string]bool
}

// Open opens (creating if necessary) the database at config.DatabasePath and
// ensures the fixed tables exist. When config.DefaultTemplatePath names a
// readable template, the assets table is shaped from its headers; otherwise
// the table starts with system columns only.
func Open(config types.Config) (*Store, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if dir := filepath.Dir(config.DatabasePath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", config.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	for _, ddl := range []string{createAuditLog, createAssetNoSeq} {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return nil, fmt.Errorf("create fixed tables: %w", err)
		}
	}

	s := &Store{
		db:         db,
		config:     config,
		textFields: make(map[string]bool),
	}
	for _, col := range config.EffectiveTextFields() {
		// Accept display names in config; Resolve is idempotent on
		// column names.
		s.textFields[fields.Resolve(col)] = true
	}

	var headers []string
	if config.DefaultTemplatePath != "" {
		headers, err = template.ParseHeaders(config.DefaultTemplatePath)
		if err != nil {
			// A missing or empty default template is not fatal; the
			// store simply starts without dynamic columns.
			headers = nil
		}
	}
	if _, err := s.EnsureSchema(headers); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Close releases the database handle. Safe to call more than once.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Config returns the configuration the store was opened with.
func (s *Store) Config() types.Config {
	return s.config
}

// now returns the current UTC time at full precision.
func now() time.Time {
	return time.Now().UTC()
}

// formatTime renders a timestamp for storage.
func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

// parseTime reads a stored timestamp, accepting the legacy space-separated
// form alongside RFC3339. time.RFC3339 parses any fractional-second width,
// including the fixed nine digits formatTime writes and the bare seconds of
// the sentinel default.
func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02 15:04:05", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}
