// Update command modifies fields on an existing record.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update <id> <field=value...>",
	Short: "Update fields on an asset record",
	Long: `Update writes new values to the named fields. Every changed field is
recorded in the audit log with its previous value.

Example:
  stockroom update 42 Status=Retired "Notes=Replaced by AST000051"`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "update: invalid id %q\n", args[0])
			os.Exit(exitUserError)
		}

		values, err := parseFieldArgs(args[1:])
		if err != nil {
			fmt.Fprintln(os.Stderr, "update:", err)
			os.Exit(exitUserError)
		}

		store, err := openStore()
		if err != nil {
			fmt.Fprintln(os.Stderr, "update:", err)
			os.Exit(exitSysError)
		}
		defer store.Close()

		ok, err := store.Update(id, values, actor())
		if err != nil {
			fmt.Fprintln(os.Stderr, "update:", err)
			os.Exit(exitSysError)
		}
		if !ok {
			fmt.Fprintf(os.Stderr, "update: record %d not found\n", id)
			os.Exit(exitUserError)
		}

		if flagJSON {
			a, err := store.Get(id)
			if err != nil {
				fmt.Fprintln(os.Stderr, "read updated record:", err)
				os.Exit(exitSysError)
			}
			return printJSON(a)
		}
		fmt.Printf("Updated record %d\n", id)
		return nil
	},
}
