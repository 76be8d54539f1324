package types

// ImportResult counts the outcomes of one import run. Rows skipped as
// comments or blanks, or dropped by the duplicate policy, never count as
// imported; malformed rows are counted separately and do not abort the run.
type ImportResult struct {
	Imported int
	Skipped  int
	Errored  int
}

// FieldStatus describes one template header in a compatibility report.
type FieldStatus struct {
	Header string
	Column string
	Exists bool
}

// TemplateReport summarizes how a template lines up with the live schema.
type TemplateReport struct {
	TotalFields int
	Mapped      int
	New         int
	Details     []FieldStatus
}

// FieldInfo is the UI-facing description of one dynamic field.
type FieldInfo struct {
	Column    string
	Multiline bool
}

// StoreStats summarizes the store for status displays.
type StoreStats struct {
	TotalAssets       int64
	TotalAuditEntries int64
	LastModified      string
	DatabasePath      string
	DatabaseSizeBytes int64
}

// RecordStore is the surface the storage core exposes to calling layers
// (forms, tables, import dialogs). UI code builds itself dynamically from
// Columns, FieldMetadata, and the display transform; every mutation flows
// through here so the audit trail stays complete.
type RecordStore interface {
	// Schema.
	EnsureSchema(fieldNames []string) (int, error)
	EnsureSchemaFromTemplate(path string) (int, error)
	Columns() ([]string, error)
	DynamicColumns() ([]string, error)
	VerifyTemplate(path string) (*TemplateReport, error)
	FieldMetadata(templatePath string) (map[string]FieldInfo, error)

	// Records.
	Insert(fieldValues map[string]string, dataSource, actor string) (int64, error)
	Update(id int64, updates map[string]string, actor string) (bool, error)
	Get(id int64) (*Asset, error)
	GetByColumn(column, value string) (*Asset, error)
	Search(filters map[string]string, limit int) ([]*Asset, error)
	Delete(id int64, actor string) (bool, error)
	RequestLabel(id int64, actor string) (bool, error)
	CheckUniqueConflicts(fieldValues map[string]string, uniqueFields []string, templatePath string) ([]FieldConflict, error)
	UniqueValues(column string) ([]string, error)
	RecentChanges(days int) ([]*Asset, error)
	Stats() (*StoreStats, error)

	// Audit.
	History(assetID int64) ([]AuditEntry, error)

	// Bulk transfer.
	ImportCSV(path string, policy DuplicatePolicy, actor string) (ImportResult, error)
	ImportTemplate(path, actor string) (int, error)
	ExportCSV(assets []*Asset, templatePath, outputPath string) (int, error)

	Close() error
}
