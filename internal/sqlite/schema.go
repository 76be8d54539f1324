package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mesh-intelligence/stockroom/internal/fields"
	"github.com/mesh-intelligence/stockroom/internal/template"
	"github.com/mesh-intelligence/stockroom/pkg/types"
)

// systemColumnDefs is the fixed head of the assets table, in table order.
// modified_date defaults to the sentinel, deliberately older than any
// created_date, so "never modified" is distinguishable from "modified at
// creation time".
var systemColumnDefs = []string{
	"id INTEGER PRIMARY KEY AUTOINCREMENT",
	"created_date TEXT NOT NULL",
	"modified_date TEXT NOT NULL DEFAULT '1901-01-01T00:00:00Z'",
	"label_requested_date TEXT",
	"created_by TEXT DEFAULT 'system'",
	"modified_by TEXT DEFAULT 'system'",
	"data_source TEXT DEFAULT 'manual'",
	"is_deleted INTEGER NOT NULL DEFAULT 0",
}

// EnsureSchema makes the assets table contain one TEXT column per field
// name, creating the table if absent. Additive and idempotent: columns are
// never dropped or renamed, even when a later template omits a field. The
// return value is the number of columns actually added.
//
// A single failed column-add is logged and skipped rather than aborting the
// update; the call fails only when none of the intended new columns exist
// afterward.
func (s *Store) EnsureSchema(fieldNames []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureSchema(fieldNames)
}

func (s *Store) ensureSchema(fieldNames []string) (int, error) {
	wanted := resolveOrdered(fieldNames)

	exists, err := s.tableExists("assets")
	if err != nil {
		return 0, err
	}

	if !exists {
		defs := make([]string, 0, len(systemColumnDefs)+len(wanted))
		defs = append(defs, systemColumnDefs...)
		for _, col := range wanted {
			defs = append(defs, col+" TEXT")
		}
		ddl := fmt.Sprintf("CREATE TABLE assets (\n    %s\n)", strings.Join(defs, ",\n    "))
		if _, err := s.db.Exec(ddl); err != nil {
			return 0, fmt.Errorf("create assets table: %w", err)
		}
		return len(wanted), nil
	}

	existing, err := s.columns()
	if err != nil {
		return 0, err
	}
	present := make(map[string]bool, len(existing))
	for _, c := range existing {
		present[c] = true
	}

	var intended []string
	for _, col := range wanted {
		if !present[col] {
			intended = append(intended, col)
		}
	}
	if len(intended) == 0 {
		return 0, nil
	}

	added := 0
	for _, col := range intended {
		if _, err := s.db.Exec(fmt.Sprintf("ALTER TABLE assets ADD COLUMN %s TEXT", col)); err != nil {
			slog.Warn("schema column add failed", "column", col, "error", err)
			continue
		}
		added++
	}

	if added == 0 {
		return 0, fmt.Errorf("schema update added none of %d new columns", len(intended))
	}
	return added, nil
}

// EnsureSchemaFromTemplate ensures columns for every header of the template
// at path. Template read failures are hard errors; no schema change happens.
func (s *Store) EnsureSchemaFromTemplate(path string) (int, error) {
	headers, err := template.ParseHeaders(path)
	if err != nil {
		return 0, err
	}
	return s.EnsureSchema(headers)
}

// Columns introspects the live assets table and returns its column names in
// table order. This is the single source of truth for which fields exist;
// query builders consult it rather than caching a column set.
func (s *Store) Columns() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.columns()
}

func (s *Store) columns() ([]string, error) {
	rows, err := s.db.Query("PRAGMA table_info(assets)")
	if err != nil {
		return nil, fmt.Errorf("introspect assets table: %w", err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var (
			cid, notNull, pk int
			name, colType    string
			dflt             any
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("scan table info: %w", err)
		}
		cols = append(cols, name)
	}
	return cols, rows.Err()
}

// DynamicColumns returns the template-defined columns: Columns minus the
// fixed system set.
func (s *Store) DynamicColumns() ([]string, error) {
	cols, err := s.Columns()
	if err != nil {
		return nil, err
	}
	var dynamic []string
	for _, c := range cols {
		if !types.IsSystemColumn(c) {
			dynamic = append(dynamic, c)
		}
	}
	return dynamic, nil
}

func (s *Store) tableExists(name string) (bool, error) {
	var found string
	err := s.db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", name,
	).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// resolveOrdered maps field names to storage columns preserving header
// order, dropping blanks and duplicates.
func resolveOrdered(fieldNames []string) []string {
	seen := make(map[string]bool, len(fieldNames))
	var cols []string
	for _, name := range fieldNames {
		col := fields.Resolve(name)
		if col == "" || seen[col] {
			continue
		}
		seen[col] = true
		cols = append(cols, col)
	}
	return cols
}

// VerifyTemplate reports which of a template's fields already have columns
// and which would be created, without changing the schema.
func (s *Store) VerifyTemplate(path string) (*types.TemplateReport, error) {
	headers, err := template.ParseHeaders(path)
	if err != nil {
		return nil, err
	}

	cols, err := s.Columns()
	if err != nil {
		return nil, err
	}
	present := make(map[string]bool, len(cols))
	for _, c := range cols {
		present[c] = true
	}

	report := &types.TemplateReport{}
	for _, h := range headers {
		if strings.TrimSpace(h) == "" {
			continue
		}
		report.TotalFields++
		col := fields.Resolve(h)
		status := types.FieldStatus{Header: h, Column: col, Exists: present[col]}
		if status.Exists {
			report.Mapped++
		} else {
			report.New++
		}
		report.Details = append(report.Details, status)
	}
	return report, nil
}

// FieldMetadata maps each dynamic field's display name to its storage column
// and multiline hint. When templatePath is non-empty its headers supply the
// display names; columns the template does not mention fall back to the
// lossy display transform.
func (s *Store) FieldMetadata(templatePath string) (map[string]types.FieldInfo, error) {
	dynamic, err := s.DynamicColumns()
	if err != nil {
		return nil, err
	}

	display := make(map[string]string, len(dynamic))
	if templatePath != "" {
		headers, err := template.ParseHeaders(templatePath)
		if err == nil {
			for header, col := range fields.Mapping(headers) {
				display[col] = header
			}
		}
	}

	meta := make(map[string]types.FieldInfo, len(dynamic))
	for _, col := range dynamic {
		name, ok := display[col]
		if !ok {
			name = fields.Display(col)
		}
		meta[name] = types.FieldInfo{
			Column:    col,
			Multiline: s.columnIsMultiline(col),
		}
	}
	return meta, nil
}

// columnIsMultiline reports whether a column's name suggests long-form text
// or any stored value embeds a newline.
func (s *Store) columnIsMultiline(col string) bool {
	for _, kw := range []string{"notes", "description", "comments", "remarks", "details"} {
		if strings.Contains(col, kw) {
			return true
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	var one int
	err := s.db.QueryRow(
		fmt.Sprintf("SELECT 1 FROM assets WHERE %s LIKE '%%' || char(10) || '%%' LIMIT 1", col),
	).Scan(&one)
	return err == nil
}
