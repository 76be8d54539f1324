// Export command writes records to a CSV file.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var exportLimit int

var exportCmd = &cobra.Command{
	Use:   "export <file.csv> [field=value...]",
	Short: "Export records to a CSV file",
	Long: `Export writes live records to a CSV file. With a configured template the
header row follows the template's field order; otherwise headers are derived
from the live schema. Optional field=value filters narrow the export the same
way list does.

Example:
  stockroom export assets.csv
  stockroom export dell.csv Manufacturer=dell`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filters, err := parseFieldArgs(args[1:])
		if err != nil {
			fmt.Fprintln(os.Stderr, "export:", err)
			os.Exit(exitUserError)
		}

		store, err := openStore()
		if err != nil {
			fmt.Fprintln(os.Stderr, "export:", err)
			os.Exit(exitSysError)
		}
		defer store.Close()

		assets, err := store.Search(filters, exportLimit)
		if err != nil {
			fmt.Fprintln(os.Stderr, "export:", err)
			os.Exit(exitSysError)
		}

		n, err := store.ExportCSV(assets, cliConfig.DefaultTemplatePath, args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, "export:", err)
			os.Exit(exitSysError)
		}

		fmt.Printf("Exported %d record(s) to %s\n", n, args[0])
		return nil
	},
}

func init() {
	exportCmd.Flags().IntVar(&exportLimit, "limit", 0, "maximum records to export (default 1000)")
}
