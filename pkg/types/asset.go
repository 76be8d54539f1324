package types

import (
	"errors"
	"fmt"
	"time"
)

// Data-source values recorded on each record.
const (
	SourceManual = "manual"
	SourceImport = "import"
)

// System column names fixed in every assets table.
const (
	ColumnID                 = "id"
	ColumnCreatedDate        = "created_date"
	ColumnModifiedDate       = "modified_date"
	ColumnLabelRequestedDate = "label_requested_date"
	ColumnCreatedBy          = "created_by"
	ColumnModifiedBy         = "modified_by"
	ColumnDataSource         = "data_source"
	ColumnIsDeleted          = "is_deleted"
)

// Well-known dynamic columns consulted by duplicate detection and asset
// numbering. They exist only when a template introduces them.
const (
	ColumnAssetNo      = "asset_no"
	ColumnSerialNumber = "serial_number"
)

// SystemColumns lists the fixed columns in table order.
var SystemColumns = []string{
	ColumnID,
	ColumnCreatedDate,
	ColumnModifiedDate,
	ColumnLabelRequestedDate,
	ColumnCreatedBy,
	ColumnModifiedBy,
	ColumnDataSource,
	ColumnIsDeleted,
}

// IsSystemColumn reports whether name is one of the fixed system columns.
func IsSystemColumn(name string) bool {
	for _, c := range SystemColumns {
		if c == name {
			return true
		}
	}
	return false
}

// ModifiedNever is the sentinel stored in modified_date for records that
// have never been modified since creation. It is a fixed epoch older than
// any possible created_date, not NULL, so "ever modified" stays testable.
var ModifiedNever = time.Date(1901, 1, 1, 0, 0, 0, 0, time.UTC)

// AssetNoPrefix precedes the zero-padded sequence in generated asset numbers.
const AssetNoPrefix = "AST"

// FormatAssetNo renders a sequence value in the display format, e.g.
// FormatAssetNo(1) == "AST000001".
func FormatAssetNo(seq int64) string {
	return fmt.Sprintf("%s%06d", AssetNoPrefix, seq)
}

// Record errors.
var (
	ErrNotFound  = errors.New("record not found")
	ErrInvalidID = errors.New("invalid record id")
)

// Asset is one row of the dynamic assets table: a fixed set of system
// fields plus the template-defined fields keyed by storage column name.
// Dynamic values are always strings; no stronger typing is applied even
// when a field name suggests a date or a boolean.
type Asset struct {
	ID                 int64
	CreatedDate        time.Time
	ModifiedDate       time.Time
	LabelRequestedDate *time.Time
	CreatedBy          string
	ModifiedBy         string
	DataSource         string
	IsDeleted          bool

	// Fields holds the dynamic values by storage column name. Absent
	// columns and NULL values are simply missing from the map.
	Fields map[string]string
}

// AssetNo returns the record's asset number, or "" if the column is absent.
func (a *Asset) AssetNo() string {
	return a.Fields[ColumnAssetNo]
}

// EverModified reports whether the record has been modified since creation.
// The modified_date sentinel and an exact match with created_date both mean
// "never modified".
func (a *Asset) EverModified() bool {
	return !a.ModifiedDate.Equal(ModifiedNever) && !a.ModifiedDate.Equal(a.CreatedDate)
}
