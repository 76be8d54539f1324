package types

import "errors"

// Config holds the parameters for opening a stockroom store.
type Config struct {
	// DatabasePath is the SQLite database file. Parent directories are
	// created on open if missing.
	DatabasePath string `json:"database_path" yaml:"database_path"`

	// DefaultTemplatePath is the CSV template whose header row shapes the
	// schema on open. Optional; an empty or missing template leaves the
	// store with system columns only.
	DefaultTemplatePath string `json:"default_template_path" yaml:"default_template_path"`

	// UniqueFields lists display field names checked by
	// Store.CheckUniqueConflicts before an insert is committed.
	UniqueFields []string `json:"unique_fields" yaml:"unique_fields"`

	// TextFields lists storage columns searched by substring containment
	// instead of exact equality. Empty means DefaultTextFields.
	TextFields []string `json:"text_fields" yaml:"text_fields"`
}

// Config validation errors.
var (
	ErrDatabasePathEmpty = errors.New("database path must not be empty")
)

// DefaultUniqueFields are the display field names treated as unique
// identifiers when no explicit list is configured.
var DefaultUniqueFields = []string{"Serial Number", "Asset No."}

// DefaultTextFields are the storage columns matched by substring containment
// in Store.Search when no explicit list is configured.
var DefaultTextFields = []string{
	"notes", "description", "manufacturer", "model",
	"location", "system_name", "serial_number",
}

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.DatabasePath == "" {
		return ErrDatabasePathEmpty
	}
	return nil
}

// EffectiveTextFields returns the configured text-field columns, or
// DefaultTextFields when none are configured.
func (c Config) EffectiveTextFields() []string {
	if len(c.TextFields) > 0 {
		return c.TextFields
	}
	return DefaultTextFields
}

// EffectiveUniqueFields returns the configured unique display fields, or
// DefaultUniqueFields when none are configured.
func (c Config) EffectiveUniqueFields() []string {
	if len(c.UniqueFields) > 0 {
		return c.UniqueFields
	}
	return DefaultUniqueFields
}
