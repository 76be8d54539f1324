package types

import "errors"

// Template errors. Template and import files are hard failures when missing
// or header-less; no partial schema change is attempted for them.
var (
	ErrTemplateNotFound   = errors.New("template file not found")
	ErrTemplateEmpty      = errors.New("template has no header row")
	ErrTemplateUnreadable = errors.New("template cannot be decoded")
)
