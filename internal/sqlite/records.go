package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mesh-intelligence/stockroom/internal/fields"
	"github.com/mesh-intelligence/stockroom/internal/template"
	"github.com/mesh-intelligence/stockroom/pkg/types"
)

// protectedColumns are never written by Update; identity and provenance are
// fixed at creation.
var protectedColumns = map[string]bool{
	types.ColumnID:          true,
	types.ColumnCreatedDate: true,
	types.ColumnCreatedBy:   true,
}

// Insert creates a record from dynamic field values keyed by storage column
// name and returns its id. An empty or absent asset_no is generated when the
// column exists. created_date is set to now; modified_date stays at the
// sentinel. One INSERT audit entry carries the full field set.
func (s *Store) Insert(fieldValues map[string]string, dataSource, actor string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin insert: %w", err)
	}
	defer tx.Rollback()

	id, err := s.insertTx(tx, fieldValues, dataSource, actor)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit insert: %w", err)
	}
	return id, nil
}

// insertTx performs an insert inside an open transaction. Callers hold the
// store lock.
func (s *Store) insertTx(tx *sql.Tx, fieldValues map[string]string, dataSource, actor string) (int64, error) {
	cols, err := s.columns()
	if err != nil {
		return 0, err
	}
	present := make(map[string]bool, len(cols))
	for _, c := range cols {
		present[c] = true
	}

	values := make(map[string]string, len(fieldValues))
	for col, v := range fieldValues {
		if types.IsSystemColumn(col) {
			continue
		}
		if !present[col] {
			slog.Warn("insert skipping unknown column", "column", col)
			continue
		}
		values[col] = v
	}

	if present[types.ColumnAssetNo] && strings.TrimSpace(values[types.ColumnAssetNo]) == "" {
		assetNo, err := nextAssetNo(tx)
		if err != nil {
			return 0, err
		}
		values[types.ColumnAssetNo] = assetNo
	}

	if actor == "" {
		actor = "system"
	}

	// modified_date and modified_by stay at their defaults: the sentinel
	// and "system". Only an update path touches them.
	insertCols := []string{types.ColumnCreatedDate, types.ColumnCreatedBy, types.ColumnDataSource}
	args := []any{formatTime(now()), actor, dataSource}
	for col, v := range values {
		insertCols = append(insertCols, col)
		args = append(args, v)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(insertCols)), ", ")
	query := fmt.Sprintf("INSERT INTO assets (%s) VALUES (%s)", strings.Join(insertCols, ", "), placeholders)

	res, err := tx.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("insert asset: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert asset id: %w", err)
	}

	serialized, err := json.Marshal(values)
	if err != nil {
		return 0, fmt.Errorf("serialize field set: %w", err)
	}
	if err := appendAudit(tx, id, types.ActionInsert, "", "", string(serialized), actor); err != nil {
		return 0, err
	}
	return id, nil
}

// nextAssetNo draws the next value from the asset-number sequence.
func nextAssetNo(tx dbtx) (string, error) {
	res, err := tx.Exec("INSERT INTO asset_no_seq DEFAULT VALUES")
	if err != nil {
		return "", fmt.Errorf("advance asset number sequence: %w", err)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("read asset number sequence: %w", err)
	}
	return types.FormatAssetNo(seq), nil
}

// Update applies dynamic field values to an existing record. Returns false
// when id does not name a live record. Each changed field gets its own
// UPDATE audit entry with the before and after values; modified_date and
// modified_by are bumped even when nothing actually differed, so callers
// wanting to avoid a no-op bump must short-circuit themselves.
func (s *Store) Update(id int64, updates map[string]string, actor string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback()

	ok, err := s.updateTx(tx, id, updates, actor)
	if err != nil || !ok {
		return ok, err
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit update: %w", err)
	}
	return true, nil
}

func (s *Store) updateTx(tx *sql.Tx, id int64, updates map[string]string, actor string) (bool, error) {
	current, err := s.getOne(tx, "SELECT * FROM assets WHERE id = ? AND is_deleted = 0", id)
	if errors.Is(err, types.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	cols, err := s.columns()
	if err != nil {
		return false, err
	}
	present := make(map[string]bool, len(cols))
	for _, c := range cols {
		present[c] = true
	}

	if actor == "" {
		actor = "system"
	}
	when := now()

	setClauses := []string{"modified_date = ?", "modified_by = ?"}
	args := []any{formatTime(when), actor}

	for col, v := range updates {
		if protectedColumns[col] || col == types.ColumnModifiedDate || col == types.ColumnModifiedBy || col == types.ColumnIsDeleted {
			continue
		}
		if !present[col] {
			slog.Warn("update skipping unknown column", "column", col)
			continue
		}

		old := current.Fields[col]
		if col == types.ColumnLabelRequestedDate && current.LabelRequestedDate != nil {
			old = formatTime(*current.LabelRequestedDate)
		}
		if col == types.ColumnDataSource {
			old = current.DataSource
		}
		if old != v {
			if err := appendAudit(tx, id, types.ActionUpdate, col, old, v, actor); err != nil {
				return false, err
			}
		}
		setClauses = append(setClauses, col+" = ?")
		args = append(args, v)
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE assets SET %s WHERE id = ?", strings.Join(setClauses, ", "))
	if _, err := tx.Exec(query, args...); err != nil {
		return false, fmt.Errorf("update asset %d: %w", id, err)
	}
	return true, nil
}

// Get returns the live record with the given id, or ErrNotFound. Soft-deleted
// records are not returned; from the caller's point of view deletion is
// terminal.
func (s *Store) Get(id int64) (*types.Asset, error) {
	if id <= 0 {
		return nil, types.ErrInvalidID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getOne(s.db, "SELECT * FROM assets WHERE id = ? AND is_deleted = 0", id)
}

// GetByColumn returns the first live record whose column holds exactly
// value, or ErrNotFound. Used for duplicate detection during import.
func (s *Store) GetByColumn(column, value string) (*types.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.requireColumn(column); err != nil {
		return nil, err
	}
	return s.getOne(s.db,
		fmt.Sprintf("SELECT * FROM assets WHERE %s = ? AND is_deleted = 0", column), value)
}

// errNoSuchColumn marks lookups against columns the live table lacks.
var errNoSuchColumn = errors.New("no such column")

// requireColumn verifies a caller-supplied column against the live table
// before it is interpolated into SQL.
func (s *Store) requireColumn(column string) error {
	cols, err := s.columns()
	if err != nil {
		return err
	}
	for _, c := range cols {
		if c == column {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", errNoSuchColumn, column)
}

// getOne runs a single-row asset query.
func (s *Store) getOne(q dbtx, query string, args ...any) (*types.Asset, error) {
	rows, err := q.Query(query+" LIMIT 1", args...)
	if err != nil {
		return nil, fmt.Errorf("query asset: %w", err)
	}
	defer rows.Close()

	assets, err := scanAssets(rows)
	if err != nil {
		return nil, err
	}
	if len(assets) == 0 {
		return nil, types.ErrNotFound
	}
	return assets[0], nil
}

// Search returns live records matching every filter, ordered by
// modified_date descending and capped at limit. Filters are keyed by storage
// column: text-like columns match by substring containment, all others by
// exact equality. Filters naming columns that do not exist are dropped
// rather than failing the query.
func (s *Store) Search(filters map[string]string, limit int) ([]*types.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cols, err := s.columns()
	if err != nil {
		return nil, err
	}
	present := make(map[string]bool, len(cols))
	for _, c := range cols {
		present[c] = true
	}

	query := "SELECT * FROM assets WHERE is_deleted = 0"
	var args []any
	for col, v := range filters {
		if v == "" || !present[col] {
			continue
		}
		if s.textFields[col] {
			query += fmt.Sprintf(" AND %s LIKE ?", col)
			args = append(args, "%"+v+"%")
		} else {
			query += fmt.Sprintf(" AND %s = ?", col)
			args = append(args, v)
		}
	}

	if limit <= 0 {
		limit = 1000
	}
	query += " ORDER BY modified_date DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("search assets: %w", err)
	}
	defer rows.Close()
	return scanAssets(rows)
}

// Delete marks a record deleted. The audit entry is written before the flag
// flips so the trail always sees the id while the row is still live. Returns
// false when id does not name a live record. Deletion is terminal: no
// operation brings a record back.
func (s *Store) Delete(id int64, actor string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if actor == "" {
		actor = "system"
	}

	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	_, err = s.getOne(tx, "SELECT * FROM assets WHERE id = ? AND is_deleted = 0", id)
	if errors.Is(err, types.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := appendAudit(tx, id, types.ActionDelete, "", "", "", actor); err != nil {
		return false, err
	}

	_, err = tx.Exec(
		"UPDATE assets SET is_deleted = 1, modified_date = ?, modified_by = ? WHERE id = ?",
		formatTime(now()), actor, id,
	)
	if err != nil {
		return false, fmt.Errorf("delete asset %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit delete: %w", err)
	}
	return true, nil
}

// RequestLabel stamps label_requested_date through the normal update path,
// so the bump and audit behavior match any other field write.
func (s *Store) RequestLabel(id int64, actor string) (bool, error) {
	return s.Update(id, map[string]string{
		types.ColumnLabelRequestedDate: formatTime(now()),
	}, actor)
}

// CheckUniqueConflicts looks up, for each named display field, whether a
// live record already holds the candidate's trimmed value in the mapped
// column. Empty values and fields without a live column are skipped. The
// returned conflicts carry the full conflicting record so callers can show
// "value X is already used by asset Y" before committing.
func (s *Store) CheckUniqueConflicts(fieldValues map[string]string, uniqueFields []string, templatePath string) ([]types.FieldConflict, error) {
	mapping := map[string]string{}
	if templatePath != "" {
		if headers, err := template.ParseHeaders(templatePath); err == nil {
			mapping = fields.Mapping(headers)
		}
	}

	var conflicts []types.FieldConflict
	for _, fieldName := range uniqueFields {
		col, ok := mapping[fieldName]
		if !ok {
			col = fields.Resolve(fieldName)
		}

		value := strings.TrimSpace(fieldValues[col])
		if value == "" {
			continue
		}

		existing, err := s.GetByColumn(col, value)
		if err != nil {
			if errors.Is(err, types.ErrNotFound) || errors.Is(err, errNoSuchColumn) {
				continue
			}
			return nil, err
		}
		conflicts = append(conflicts, types.FieldConflict{
			FieldName:  fieldName,
			FieldValue: value,
			Existing:   existing,
		})
	}
	return conflicts, nil
}

// UniqueValues returns the distinct non-empty values of a column across live
// records, sorted, for populating dropdowns.
func (s *Store) UniqueValues(column string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.requireColumn(column); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(fmt.Sprintf(
		"SELECT DISTINCT %[1]s FROM assets WHERE %[1]s IS NOT NULL AND %[1]s != '' AND is_deleted = 0 ORDER BY %[1]s",
		column))
	if err != nil {
		return nil, fmt.Errorf("distinct %s: %w", column, err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// RecentChanges returns live records modified within the last days days,
// most recent first.
func (s *Store) RecentChanges(days int) ([]*types.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cutoff := now().AddDate(0, 0, -days).Truncate(24 * time.Hour)
	rows, err := s.db.Query(
		"SELECT * FROM assets WHERE modified_date >= ? AND is_deleted = 0 ORDER BY modified_date DESC",
		formatTime(cutoff),
	)
	if err != nil {
		return nil, fmt.Errorf("recent changes: %w", err)
	}
	defer rows.Close()
	return scanAssets(rows)
}

// Stats reports record and audit counts, the newest modification stamp, and
// the database file size.
func (s *Store) Stats() (*types.StoreStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := &types.StoreStats{DatabasePath: s.config.DatabasePath}
	if err := s.db.QueryRow("SELECT COUNT(*) FROM assets WHERE is_deleted = 0").Scan(&st.TotalAssets); err != nil {
		return nil, fmt.Errorf("count assets: %w", err)
	}
	if err := s.db.QueryRow("SELECT COUNT(*) FROM asset_audit_log").Scan(&st.TotalAuditEntries); err != nil {
		return nil, fmt.Errorf("count audit entries: %w", err)
	}

	var last sql.NullString
	if err := s.db.QueryRow("SELECT MAX(modified_date) FROM assets WHERE is_deleted = 0").Scan(&last); err != nil {
		return nil, fmt.Errorf("last modified: %w", err)
	}
	st.LastModified = last.String

	if info, err := os.Stat(s.config.DatabasePath); err == nil {
		st.DatabaseSizeBytes = info.Size()
	}
	return st, nil
}

// scanAssets hydrates query rows into Asset values. The column set is read
// from the result itself, so the same scanner serves any shape the dynamic
// table currently has. Every value arrives as nullable text; system fields
// are parsed out and the rest land in Fields.
func scanAssets(rows *sql.Rows) ([]*types.Asset, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("result columns: %w", err)
	}

	var assets []*types.Asset
	for rows.Next() {
		raw := make([]sql.NullString, len(cols))
		dest := make([]any, len(cols))
		for i := range raw {
			dest[i] = &raw[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan asset row: %w", err)
		}

		a := &types.Asset{Fields: make(map[string]string)}
		for i, col := range cols {
			if !raw[i].Valid {
				continue
			}
			v := raw[i].String
			switch col {
			case types.ColumnID:
				id, err := strconv.ParseInt(v, 10, 64)
				if err != nil {
					return nil, fmt.Errorf("parse id %q: %w", v, err)
				}
				a.ID = id
			case types.ColumnCreatedDate:
				t, err := parseTime(v)
				if err != nil {
					return nil, err
				}
				a.CreatedDate = t
			case types.ColumnModifiedDate:
				t, err := parseTime(v)
				if err != nil {
					return nil, err
				}
				a.ModifiedDate = t
			case types.ColumnLabelRequestedDate:
				t, err := parseTime(v)
				if err != nil {
					return nil, err
				}
				a.LabelRequestedDate = &t
			case types.ColumnCreatedBy:
				a.CreatedBy = v
			case types.ColumnModifiedBy:
				a.ModifiedBy = v
			case types.ColumnDataSource:
				a.DataSource = v
			case types.ColumnIsDeleted:
				a.IsDeleted = v != "0" && v != ""
			default:
				a.Fields[col] = v
			}
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}
