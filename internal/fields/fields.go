// Package fields derives storage-safe column identifiers from human-readable
// template field names, and the lossy inverse used for display headers.
package fields

import (
	"regexp"
	"strings"

	"github.com/mesh-intelligence/stockroom/pkg/types"
)

var (
	stripPattern      = regexp.MustCompile(`[^a-zA-Z0-9\s]`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// reserved column names a resolved field may not shadow. Collisions are
// disambiguated with a "field_" prefix.
var reserved = map[string]bool{
	types.ColumnID:                 true,
	types.ColumnCreatedDate:        true,
	types.ColumnModifiedDate:       true,
	types.ColumnLabelRequestedDate: true,
	types.ColumnCreatedBy:          true,
	types.ColumnModifiedBy:         true,
}

// displayCorrections maps naively title-cased column names to their proper
// display form. This is configuration, not logic: the resolver is lossy
// (punctuation and case are stripped) and these entries restore the headers
// the stock templates actually use.
var displayCorrections = map[string]string{
	"Asset No":             "Asset No.",
	"Ip Address":           "IP Address",
	"Mac Address":          "MAC Address",
	"Po Number":            "PO Number",
	"Hmr Entrance":         "HMR# (Entrance)",
	"Hmr Exit":             "HMR# (Exit)",
	"Media Control Number": "Media Control#",
	"Tsco Control Number":  "TSCO Control#",
	"Child Asset Yn":       "Child Asset? (Y/N)",
	"Service Contract":     "Service Contract? (Y/N)",
	"Multi Install":        "Multi-Install? (Y/N, Child Assets only)",
	"Reservable":           "Reservable? (Y/N)",
	"Delete Flag":          "Delete? (Y/N)",
}

// Resolve derives the storage column name for a field display name.
// Characters outside [A-Za-z0-9 ] are stripped, whitespace runs collapse to
// single underscores, and the result is lowercased. A result that would
// shadow a reserved system column is prefixed with "field_". Resolve is
// deterministic and idempotent.
func Resolve(fieldName string) string {
	name := stripPattern.ReplaceAllString(fieldName, "")
	name = whitespacePattern.ReplaceAllString(strings.TrimSpace(name), "_")
	name = strings.ToLower(name)

	if reserved[name] {
		name = "field_" + name
	}
	return name
}

// Display converts a storage column name back to a human-readable header:
// underscores become spaces, words are title-cased, then the correction
// table restores punctuation and casing the transform lost. Best effort;
// names never seen in a template round-trip only approximately.
func Display(column string) string {
	words := strings.Split(column, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	header := strings.Join(words, " ")

	if corrected, ok := displayCorrections[header]; ok {
		return corrected
	}
	return header
}

// Mapping returns the field-name to column-name association for an ordered
// header list, skipping blank headers. Recomputed on demand; never persisted.
func Mapping(headers []string) map[string]string {
	mapping := make(map[string]string, len(headers))
	for _, h := range headers {
		if strings.TrimSpace(h) == "" {
			continue
		}
		mapping[h] = Resolve(h)
	}
	return mapping
}
