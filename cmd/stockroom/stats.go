// Stats command summarizes the store.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show store statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			fmt.Fprintln(os.Stderr, "stats:", err)
			os.Exit(exitSysError)
		}
		defer store.Close()

		st, err := store.Stats()
		if err != nil {
			fmt.Fprintln(os.Stderr, "stats:", err)
			os.Exit(exitSysError)
		}

		if flagJSON {
			return printJSON(st)
		}
		fmt.Printf("Records:       %d\n", st.TotalAssets)
		fmt.Printf("Audit entries: %d\n", st.TotalAuditEntries)
		if st.LastModified != "" {
			fmt.Printf("Last modified: %s\n", st.LastModified)
		}
		fmt.Printf("Database:      %s (%d bytes)\n", st.DatabasePath, st.DatabaseSizeBytes)
		return nil
	},
}
