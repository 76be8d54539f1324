package types

import "time"

// Audit actions. One entry is appended per mutation; UPDATE mutations append
// one entry per changed field.
const (
	ActionInsert = "INSERT"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

// AuditEntry is one append-only row of the audit log. Entries are never
// updated or deleted, and deleting an asset does not cascade to its trail.
type AuditEntry struct {
	ID      int64
	AssetID int64
	Action  string

	// FieldName is set only on per-field UPDATE entries.
	FieldName string

	// OldValue and NewValue hold string representations. INSERT entries
	// carry the full field set JSON-serialized in NewValue.
	OldValue string
	NewValue string

	ChangedBy  string
	ChangeDate time.Time
}
