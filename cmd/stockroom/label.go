// Label command marks a record as needing a printed label.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var labelCmd = &cobra.Command{
	Use:   "label <id>",
	Short: "Request a label for a record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "label: invalid id %q\n", args[0])
			os.Exit(exitUserError)
		}

		store, err := openStore()
		if err != nil {
			fmt.Fprintln(os.Stderr, "label:", err)
			os.Exit(exitSysError)
		}
		defer store.Close()

		ok, err := store.RequestLabel(id, actor())
		if err != nil {
			fmt.Fprintln(os.Stderr, "label:", err)
			os.Exit(exitSysError)
		}
		if !ok {
			fmt.Fprintf(os.Stderr, "label: record %d not found\n", id)
			os.Exit(exitUserError)
		}

		fmt.Printf("Label requested for record %d\n", id)
		return nil
	},
}
