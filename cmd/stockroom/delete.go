// Delete command soft-deletes a record.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an asset record",
	Long: `Delete hides the record from all reads. The row and its audit history
are retained; a DELETE entry is written before the record disappears.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "delete: invalid id %q\n", args[0])
			os.Exit(exitUserError)
		}

		store, err := openStore()
		if err != nil {
			fmt.Fprintln(os.Stderr, "delete:", err)
			os.Exit(exitSysError)
		}
		defer store.Close()

		ok, err := store.Delete(id, actor())
		if err != nil {
			fmt.Fprintln(os.Stderr, "delete:", err)
			os.Exit(exitSysError)
		}
		if !ok {
			fmt.Fprintf(os.Stderr, "delete: record %d not found\n", id)
			os.Exit(exitUserError)
		}

		fmt.Printf("Deleted record %d\n", id)
		return nil
	},
}
