// Get command retrieves one asset record.
package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/stockroom/internal/fields"
	"github.com/mesh-intelligence/stockroom/pkg/types"
)

var getByColumn string

var getCmd = &cobra.Command{
	Use:   "get <id|value>",
	Short: "Get an asset record by id or by column value",
	Long: `Get retrieves a single live record. The argument is a numeric record id,
or with --by, a value looked up in the named column.

Example:
  stockroom get 42
  stockroom get --by "Serial Number" SN123`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			fmt.Fprintln(os.Stderr, "get:", err)
			os.Exit(exitSysError)
		}
		defer store.Close()

		var a *types.Asset
		if getByColumn != "" {
			a, err = store.GetByColumn(fields.Resolve(getByColumn), args[0])
		} else {
			id, convErr := strconv.ParseInt(args[0], 10, 64)
			if convErr != nil {
				fmt.Fprintf(os.Stderr, "get: invalid id %q\n", args[0])
				os.Exit(exitUserError)
			}
			a, err = store.Get(id)
		}
		if errors.Is(err, types.ErrNotFound) {
			fmt.Fprintln(os.Stderr, "get: record not found")
			os.Exit(exitUserError)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, "get:", err)
			os.Exit(exitSysError)
		}

		if flagJSON {
			return printJSON(a)
		}
		printAsset(a)
		return nil
	},
}

func init() {
	getCmd.Flags().StringVar(&getByColumn, "by", "", "look up by this column instead of id")
}
