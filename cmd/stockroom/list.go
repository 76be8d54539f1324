// List command searches records with optional filters.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/stockroom/pkg/types"
)

var (
	listLimit  int
	listRecent int
)

var listCmd = &cobra.Command{
	Use:   "list [field=value...]",
	Short: "List asset records with optional filters",
	Long: `List searches live records. Filters are field=value pairs ANDed
together; text-like fields match by substring, others exactly. Results are
ordered most recently modified first.

Example:
  stockroom list
  stockroom list Manufacturer=dell Status=Active
  stockroom list --recent 7`,
	RunE: func(cmd *cobra.Command, args []string) error {
		filters, err := parseFieldArgs(args)
		if err != nil {
			fmt.Fprintln(os.Stderr, "list:", err)
			os.Exit(exitUserError)
		}

		store, err := openStore()
		if err != nil {
			fmt.Fprintln(os.Stderr, "list:", err)
			os.Exit(exitSysError)
		}
		defer store.Close()

		var assets []*types.Asset
		if listRecent > 0 {
			assets, err = store.RecentChanges(listRecent)
		} else {
			assets, err = store.Search(filters, listLimit)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, "list:", err)
			os.Exit(exitSysError)
		}

		if flagJSON {
			return printJSON(assets)
		}
		for _, a := range assets {
			line := fmt.Sprintf("%6d  %-10s", a.ID, a.AssetNo())
			for _, col := range []string{"asset_type", "manufacturer", "model", types.ColumnSerialNumber} {
				if v := a.Fields[col]; v != "" {
					line += "  " + v
				}
			}
			fmt.Println(line)
		}
		fmt.Printf("%d record(s)\n", len(assets))
		return nil
	},
}

func init() {
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "maximum records to return (default 1000)")
	listCmd.Flags().IntVar(&listRecent, "recent", 0, "only records modified in the last N days")
}
