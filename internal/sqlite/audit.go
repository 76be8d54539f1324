package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/mesh-intelligence/stockroom/pkg/types"
)

// appendAudit writes one audit entry. The log is append-only: nothing in
// this package ever updates or deletes a row, and deleting an asset leaves
// its trail in place.
func appendAudit(q dbtx, assetID int64, action, fieldName, oldValue, newValue, actor string) error {
	if actor == "" {
		actor = "system"
	}

	var field, old, newV any
	if fieldName != "" {
		field = fieldName
	}
	if oldValue != "" {
		old = oldValue
	}
	if newValue != "" {
		newV = newValue
	}

	_, err := q.Exec(
		"INSERT INTO asset_audit_log (asset_id, action, field_name, old_value, new_value, changed_by, change_date) VALUES (?, ?, ?, ?, ?, ?, ?)",
		assetID, action, field, old, newV, actor, formatTime(now()),
	)
	if err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}

// History returns the audit trail for an asset, most recent first. The
// trail survives deletion of the asset itself.
func (s *Store) History(assetID int64) ([]types.AuditEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		"SELECT id, asset_id, action, field_name, old_value, new_value, changed_by, change_date FROM asset_audit_log WHERE asset_id = ? ORDER BY change_date DESC, id DESC",
		assetID,
	)
	if err != nil {
		return nil, fmt.Errorf("query audit history: %w", err)
	}
	defer rows.Close()

	var entries []types.AuditEntry
	for rows.Next() {
		var (
			e                 types.AuditEntry
			field, oldV, newV sql.NullString
			changeDate        string
		)
		if err := rows.Scan(&e.ID, &e.AssetID, &e.Action, &field, &oldV, &newV, &e.ChangedBy, &changeDate); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		e.FieldName = field.String
		e.OldValue = oldV.String
		e.NewValue = newV.String
		t, err := parseTime(changeDate)
		if err != nil {
			return nil, err
		}
		e.ChangeDate = t
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
