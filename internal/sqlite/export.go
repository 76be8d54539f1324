package sqlite

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/stockroom/internal/fields"
	"github.com/mesh-intelligence/stockroom/internal/template"
	"github.com/mesh-intelligence/stockroom/pkg/types"
)

// ExportCSV writes the given records to outputPath as CSV. Column order
// follows the template's header order; each template field renders as its
// stored value or empty string. When no template is available the headers
// are derived from the live dynamic columns through the display transform.
// Returns the number of records written.
func (s *Store) ExportCSV(assets []*types.Asset, templatePath, outputPath string) (int, error) {
	headers, mapping, err := s.exportHeaders(templatePath)
	if err != nil {
		return 0, err
	}

	if dir := filepath.Dir(outputPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("create export directory: %w", err)
		}
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return 0, fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(headers); err != nil {
		return 0, fmt.Errorf("write export header: %w", err)
	}

	for _, a := range assets {
		row := make([]string, len(headers))
		for i, h := range headers {
			row[i] = a.Fields[mapping[h]]
		}
		if err := w.Write(row); err != nil {
			return 0, fmt.Errorf("write export row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return 0, fmt.Errorf("flush export: %w", err)
	}
	return len(assets), nil
}

// exportHeaders resolves the header order and header-to-column mapping for
// an export: the template's headers when one is readable, otherwise the
// live dynamic columns rendered through the display transform.
func (s *Store) exportHeaders(templatePath string) ([]string, map[string]string, error) {
	if templatePath != "" {
		headers, err := template.ParseHeaders(templatePath)
		if err == nil {
			return headers, fields.Mapping(headers), nil
		}
	}

	dynamic, err := s.DynamicColumns()
	if err != nil {
		return nil, nil, err
	}

	headers := make([]string, 0, len(dynamic))
	mapping := make(map[string]string, len(dynamic))
	for _, col := range dynamic {
		h := fields.Display(col)
		headers = append(headers, h)
		mapping[h] = col
	}
	return headers, mapping, nil
}
