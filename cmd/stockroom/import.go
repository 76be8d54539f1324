// Import command loads records from a CSV file.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/stockroom/internal/fields"
	"github.com/mesh-intelligence/stockroom/pkg/types"
)

var (
	importOnDuplicate string
	importAsTemplate  bool
)

var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Import records from a CSV file",
	Long: `Import reads a CSV file whose header row defines the fields; new
headers extend the schema before any rows load. Rows whose first value starts
with "NOTE:" and fully blank rows are skipped. The whole run commits as one
transaction.

Duplicates (matched on serial number, then asset number) are handled by
--on-duplicate: "ask" prompts per conflict, "skip" and "overwrite" decide
every conflict the same way.

With --as-template every row is inserted as a new record with no duplicate
checking at all.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		policy, err := duplicatePolicy(importOnDuplicate)
		if err != nil {
			fmt.Fprintln(os.Stderr, "import:", err)
			os.Exit(exitUserError)
		}

		store, err := openStore()
		if err != nil {
			fmt.Fprintln(os.Stderr, "import:", err)
			os.Exit(exitSysError)
		}
		defer store.Close()

		if importAsTemplate {
			n, err := store.ImportTemplate(args[0], actor())
			if err != nil {
				fmt.Fprintln(os.Stderr, "import:", err)
				os.Exit(exitSysError)
			}
			fmt.Printf("Imported %d record(s)\n", n)
			return nil
		}

		result, err := store.ImportCSV(args[0], policy, actor())
		if err != nil {
			fmt.Fprintln(os.Stderr, "import:", err)
			os.Exit(exitSysError)
		}

		if flagJSON {
			return printJSON(result)
		}
		fmt.Printf("Imported %d, skipped %d, errored %d\n", result.Imported, result.Skipped, result.Errored)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importOnDuplicate, "on-duplicate", "ask", "duplicate handling: ask, skip, overwrite")
	importCmd.Flags().BoolVar(&importAsTemplate, "as-template", false, "insert every row as new, no duplicate checks")
}

// duplicatePolicy maps the --on-duplicate flag to a policy. "ask" prompts on
// stdin per conflict and honors "all"-style answers by returning the sticky
// resolutions.
func duplicatePolicy(mode string) (types.DuplicatePolicy, error) {
	switch mode {
	case "skip":
		return types.SkipAll, nil
	case "overwrite":
		return types.OverwriteAll, nil
	case "ask":
		return promptPolicy(os.Stdin), nil
	default:
		return nil, fmt.Errorf("invalid --on-duplicate %q (valid: ask, skip, overwrite)", mode)
	}
}

// promptPolicy returns a policy that asks the user what to do with each
// conflicting row. Unrecognized or empty answers skip the row.
func promptPolicy(in *os.File) types.DuplicatePolicy {
	reader := bufio.NewReader(in)
	return func(kind types.DuplicateKind, key string, existing *types.Asset, incoming map[string]string) types.Resolution {
		fmt.Printf("Duplicate %s %q matches record %d (%s).\n",
			fields.Display(string(kind)), key, existing.ID, existing.AssetNo())
		fmt.Print("  [o]verwrite, [s]kip, overwrite [A]ll, skip a[L]l? ")

		line, err := reader.ReadString('\n')
		if err != nil {
			return types.ResolutionSkip
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "o", "overwrite":
			return types.ResolutionOverwrite
		case "a", "all", "overwrite all":
			return types.ResolutionOverwriteAll
		case "l", "skip all":
			return types.ResolutionSkipAll
		default:
			return types.ResolutionSkip
		}
	}
}
