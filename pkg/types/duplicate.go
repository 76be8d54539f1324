package types

// DuplicateKind names the column an import-time duplicate matched on.
// Serial number is checked first; asset number only when the serial check
// found nothing.
type DuplicateKind string

const (
	DuplicateSerialNumber DuplicateKind = ColumnSerialNumber
	DuplicateAssetNo      DuplicateKind = ColumnAssetNo
)

// Resolution is a duplicate policy's answer for one conflicting row.
// The *All forms additionally set a sticky mode that answers every later
// duplicate in the same import run without invoking the policy again.
type Resolution string

const (
	ResolutionOverwrite    Resolution = "overwrite"
	ResolutionSkip         Resolution = "skip"
	ResolutionOverwriteAll Resolution = "overwrite_all"
	ResolutionSkipAll      Resolution = "skip_all"
)

// DuplicatePolicy decides what to do with an incoming row that collides
// with an existing record. The call blocks the import until a decision is
// returned; the core assumes nothing about how the decision is produced
// (interactive prompt, fixed answer, scripted rules).
type DuplicatePolicy func(kind DuplicateKind, key string, existing *Asset, incoming map[string]string) Resolution

// SkipAll is a DuplicatePolicy that drops every duplicate row.
func SkipAll(DuplicateKind, string, *Asset, map[string]string) Resolution {
	return ResolutionSkipAll
}

// OverwriteAll is a DuplicatePolicy that overwrites every duplicate row.
func OverwriteAll(DuplicateKind, string, *Asset, map[string]string) Resolution {
	return ResolutionOverwriteAll
}

// FieldConflict describes one unique-field collision found before an
// insert: the display field, the offending value, and the record already
// holding it.
type FieldConflict struct {
	FieldName  string
	FieldValue string
	Existing   *Asset
}
