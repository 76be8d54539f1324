// Package template reads CSV template files: the header row that defines the
// current dynamic field set, and the data-row scan behind the multiline UI
// hint.
package template

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mesh-intelligence/stockroom/pkg/types"
)

// bom is the UTF-8 byte-order mark some spreadsheet exports prepend to the
// first header cell.
const bom = "\uFEFF"

// multilineKeywords flag a field as multiline by name alone, before any data
// row is consulted.
var multilineKeywords = []string{"notes", "description", "comments", "remarks", "details"}

// open returns a CSV reader over the file at path, mapping open failures to
// the template sentinel errors. The reader tolerates ragged rows; row length
// is validated by the callers that care.
func open(path string) (*os.File, *csv.Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, fmt.Errorf("%w: %s", types.ErrTemplateNotFound, path)
		}
		return nil, nil, fmt.Errorf("%w: %s", types.ErrTemplateUnreadable, err)
	}

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	return f, r, nil
}

// ParseHeaders reads the first row of the template as the ordered field
// display names. A UTF-8 byte-order mark on the first header is tolerated.
// Returns ErrTemplateNotFound if the path does not exist and
// ErrTemplateEmpty if the first row is absent or entirely blank.
func ParseHeaders(path string) ([]string, error) {
	f, r, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	headers, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: %s", types.ErrTemplateEmpty, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s", types.ErrTemplateUnreadable, err)
	}

	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], bom)
	}

	blank := true
	for _, h := range headers {
		if strings.TrimSpace(h) != "" {
			blank = false
			break
		}
	}
	if blank {
		return nil, fmt.Errorf("%w: %s", types.ErrTemplateEmpty, path)
	}
	return headers, nil
}

// DetectMultilineFields returns the field names that should be rendered with
// a multi-line editor: any field whose display name contains a multiline
// keyword, plus any field whose sampled template values embed a newline.
// This is a UI hint only; storage is TEXT either way.
func DetectMultilineFields(path string, fieldNames []string) (map[string]bool, error) {
	multiline := make(map[string]bool)
	for _, name := range fieldNames {
		lower := strings.ToLower(strings.TrimSpace(strings.ReplaceAll(name, "*", "")))
		for _, kw := range multilineKeywords {
			if strings.Contains(lower, kw) {
				multiline[name] = true
				break
			}
		}
	}

	f, r, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	headers, err := r.Read()
	if err == io.EOF {
		return multiline, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s", types.ErrTemplateUnreadable, err)
	}
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], bom)
	}

	wanted := make(map[string]int)
	for i, h := range headers {
		for _, name := range fieldNames {
			if h == name {
				wanted[name] = i
			}
		}
	}

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Malformed data rows do not invalidate the hint scan.
			continue
		}
		for name, i := range wanted {
			if i < len(row) && strings.Contains(row[i], "\n") {
				multiline[name] = true
			}
		}
	}
	return multiline, nil
}
