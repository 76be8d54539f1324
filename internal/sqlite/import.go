package sqlite

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/stockroom/internal/fields"
	"github.com/mesh-intelligence/stockroom/internal/template"
	"github.com/mesh-intelligence/stockroom/pkg/types"
)

// commentPrefix marks rows that source templates use for embedded human
// notes. A row whose asset-number value starts with it is not a record.
const commentPrefix = "NOTE:"

// ImportCSV bulk-loads a CSV file. New headers get columns first, then data
// rows stream through duplicate detection: a row matching a live record by
// serial number (or, failing that, asset number) is resolved by the policy
// callback; overwrite applies the row as an update preserving id,
// created_date, and created_by. A nil policy skips every duplicate.
//
// The run executes in a single transaction committed at the end, so a crash
// mid-stream loses the whole batch: durability is per-run, not per-row.
func (s *Store) ImportCSV(path string, policy types.DuplicatePolicy, actor string) (types.ImportResult, error) {
	var result types.ImportResult

	headers, err := template.ParseHeaders(path)
	if err != nil {
		return result, err
	}
	if _, err := s.EnsureSchema(headers); err != nil {
		return result, err
	}

	mapping := fields.Mapping(headers)
	cols, err := s.Columns()
	if err != nil {
		return result, err
	}
	present := make(map[string]bool, len(cols))
	for _, c := range cols {
		present[c] = true
	}

	// The header position whose resolved column is asset_no designates
	// comment rows.
	assetNoIdx := -1
	for i, h := range headers {
		if fields.Resolve(h) == types.ColumnAssetNo {
			assetNoIdx = i
			break
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return result, fmt.Errorf("%w: %s", types.ErrTemplateUnreadable, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	if _, err := r.Read(); err != nil { // header row, already parsed
		return result, fmt.Errorf("%w: %s", types.ErrTemplateUnreadable, err)
	}

	runID := uuid.NewString()
	slog.Info("import started", "run_id", runID, "path", path)

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return result, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	// Sticky duplicate mode set by an *_all resolution; answers the rest
	// of the run without re-invoking the policy.
	var sticky types.Resolution

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			slog.Warn("import row unreadable", "run_id", runID, "error", err)
			result.Errored++
			continue
		}

		if rowIsBlank(row) {
			result.Skipped++
			continue
		}
		if assetNoIdx >= 0 && assetNoIdx < len(row) &&
			strings.HasPrefix(strings.TrimSpace(row[assetNoIdx]), commentPrefix) {
			result.Skipped++
			continue
		}

		dbRow := make(map[string]string)
		for i, h := range headers {
			if i >= len(row) {
				break
			}
			col := mapping[h]
			if col == "" || !present[col] {
				continue
			}
			v := strings.TrimSpace(row[i])
			if v == "" {
				continue
			}
			dbRow[col] = v
		}
		if len(dbRow) == 0 {
			result.Skipped++
			continue
		}

		existing, kind, err := s.findDuplicate(tx, dbRow, present)
		if err != nil {
			slog.Warn("import duplicate lookup failed", "run_id", runID, "error", err)
			result.Errored++
			continue
		}

		if existing != nil {
			resolution := sticky
			if resolution == "" {
				if policy != nil {
					resolution = policy(kind, dbRow[string(kind)], existing, dbRow)
				} else {
					resolution = types.ResolutionSkip
				}
			}
			switch resolution {
			case types.ResolutionOverwriteAll:
				sticky = types.ResolutionOverwrite
				resolution = types.ResolutionOverwrite
			case types.ResolutionSkipAll:
				sticky = types.ResolutionSkip
				resolution = types.ResolutionSkip
			}

			if resolution == types.ResolutionOverwrite {
				ok, err := s.updateTx(tx, existing.ID, dbRow, actor)
				if err != nil {
					slog.Warn("import overwrite failed", "run_id", runID, "id", existing.ID, "error", err)
					result.Errored++
					continue
				}
				if ok {
					result.Imported++
				}
			} else {
				result.Skipped++
			}
			continue
		}

		if _, err := s.insertTx(tx, dbRow, types.SourceImport, actor); err != nil {
			slog.Warn("import insert failed", "run_id", runID, "error", err)
			result.Errored++
			continue
		}
		result.Imported++
	}

	if err := tx.Commit(); err != nil {
		return types.ImportResult{}, fmt.Errorf("commit import: %w", err)
	}

	slog.Info("import finished", "run_id", runID,
		"imported", result.Imported, "skipped", result.Skipped, "errored", result.Errored)
	return result, nil
}

// findDuplicate looks the row up by serial number first, then asset number.
// Only columns the live table actually has are consulted.
func (s *Store) findDuplicate(tx dbtx, dbRow map[string]string, present map[string]bool) (*types.Asset, types.DuplicateKind, error) {
	for _, kind := range []types.DuplicateKind{types.DuplicateSerialNumber, types.DuplicateAssetNo} {
		col := string(kind)
		if !present[col] || dbRow[col] == "" {
			continue
		}
		existing, err := s.getOne(tx,
			fmt.Sprintf("SELECT * FROM assets WHERE %s = ? AND is_deleted = 0", col), dbRow[col])
		if errors.Is(err, types.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, "", err
		}
		return existing, kind, nil
	}
	return nil, "", nil
}

// ImportTemplate bulk-loads a CSV without duplicate checking, for first-load
// migration of existing exports. Every qualifying row becomes a new record,
// whether or not a matching serial or asset number already exists.
func (s *Store) ImportTemplate(path, actor string) (int, error) {
	headers, err := template.ParseHeaders(path)
	if err != nil {
		return 0, err
	}
	if _, err := s.EnsureSchema(headers); err != nil {
		return 0, err
	}

	mapping := fields.Mapping(headers)
	cols, err := s.Columns()
	if err != nil {
		return 0, err
	}
	present := make(map[string]bool, len(cols))
	for _, c := range cols {
		present[c] = true
	}

	assetNoIdx := -1
	for i, h := range headers {
		if fields.Resolve(h) == types.ColumnAssetNo {
			assetNoIdx = i
			break
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", types.ErrTemplateUnreadable, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	if _, err := r.Read(); err != nil {
		return 0, fmt.Errorf("%w: %s", types.ErrTemplateUnreadable, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin template import: %w", err)
	}
	defer tx.Rollback()

	imported := 0
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		if rowIsBlank(row) {
			continue
		}
		if assetNoIdx >= 0 && assetNoIdx < len(row) &&
			strings.HasPrefix(strings.TrimSpace(row[assetNoIdx]), commentPrefix) {
			continue
		}

		dbRow := make(map[string]string)
		for i, h := range headers {
			if i >= len(row) {
				break
			}
			col := mapping[h]
			if col == "" || !present[col] {
				continue
			}
			if v := strings.TrimSpace(row[i]); v != "" {
				dbRow[col] = v
			}
		}
		if len(dbRow) == 0 {
			continue
		}
		if _, err := s.insertTx(tx, dbRow, types.SourceImport, actor); err != nil {
			slog.Warn("template import insert failed", "error", err)
			continue
		}
		imported++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit template import: %w", err)
	}
	return imported, nil
}

// rowIsBlank reports whether every cell is empty after trimming.
func rowIsBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
