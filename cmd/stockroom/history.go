// History command prints a record's audit trail.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/stockroom/internal/fields"
	"github.com/mesh-intelligence/stockroom/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history <id>",
	Short: "Show the audit history of a record",
	Long: `History lists the record's audit entries, newest first. History
survives deletion, so the id may name a deleted record.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "history: invalid id %q\n", args[0])
			os.Exit(exitUserError)
		}

		store, err := openStore()
		if err != nil {
			fmt.Fprintln(os.Stderr, "history:", err)
			os.Exit(exitSysError)
		}
		defer store.Close()

		entries, err := store.History(id)
		if err != nil {
			fmt.Fprintln(os.Stderr, "history:", err)
			os.Exit(exitSysError)
		}

		if flagJSON {
			return printJSON(entries)
		}
		for _, e := range entries {
			stamp := e.ChangeDate.Format("2006-01-02 15:04:05")
			switch e.Action {
			case types.ActionUpdate:
				fmt.Printf("%s  %-6s  %s: %q -> %q  (%s)\n",
					stamp, e.Action, fields.Display(e.FieldName), e.OldValue, e.NewValue, e.ChangedBy)
			case types.ActionInsert:
				fmt.Printf("%s  %-6s  %s  (%s)\n", stamp, e.Action, e.NewValue, e.ChangedBy)
			default:
				fmt.Printf("%s  %-6s  (%s)\n", stamp, e.Action, e.ChangedBy)
			}
		}
		fmt.Printf("%d entr(ies)\n", len(entries))
		return nil
	},
}
