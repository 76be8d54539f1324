// Shared helpers for stockroom CLI commands.
package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/mesh-intelligence/stockroom/internal/fields"
	"github.com/mesh-intelligence/stockroom/internal/identity"
	"github.com/mesh-intelligence/stockroom/pkg/sqlite"
	"github.com/mesh-intelligence/stockroom/pkg/types"
)

// openStore opens the record store using the assembled CLI configuration.
// The caller must defer store.Close().
func openStore() (types.RecordStore, error) {
	store, err := sqlite.Open(cliConfig)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return store, nil
}

// actor returns the audit identity for CLI-initiated changes.
func actor() string {
	return identity.CurrentUser()
}

// parseFieldArgs converts "Field Name=value" arguments into a map keyed by
// storage column name. Display names and column names are both accepted;
// Resolve is idempotent on already-resolved names.
func parseFieldArgs(args []string) (map[string]string, error) {
	values := make(map[string]string, len(args))
	for _, arg := range args {
		parts := strings.SplitN(arg, "=", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" {
			return nil, fmt.Errorf("invalid field %q (expected name=value)", arg)
		}
		values[fields.Resolve(parts[0])] = parts[1]
	}
	return values, nil
}

// printJSON renders v as indented JSON on stdout.
func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

// printAsset writes a human-readable rendering of one record: system fields
// first, then dynamic fields under their display names.
func printAsset(a *types.Asset) {
	fmt.Printf("ID:            %d\n", a.ID)
	fmt.Printf("Created:       %s by %s\n", a.CreatedDate.Format("2006-01-02 15:04:05"), a.CreatedBy)
	if a.EverModified() {
		fmt.Printf("Modified:      %s by %s\n", a.ModifiedDate.Format("2006-01-02 15:04:05"), a.ModifiedBy)
	}
	if a.LabelRequestedDate != nil {
		fmt.Printf("Label:         requested %s\n", a.LabelRequestedDate.Format("2006-01-02"))
	}
	fmt.Printf("Source:        %s\n", a.DataSource)
	for _, col := range sortedFieldColumns(a) {
		fmt.Printf("%-14s %s\n", fields.Display(col)+":", a.Fields[col])
	}
}

// sortedFieldColumns returns the record's dynamic columns in a stable order.
func sortedFieldColumns(a *types.Asset) []string {
	cols := make([]string, 0, len(a.Fields))
	for col := range a.Fields {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}
