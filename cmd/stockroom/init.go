// Init command creates the database and shapes its schema.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the database and shape it from the configured template",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			fmt.Fprintln(os.Stderr, "init:", err)
			os.Exit(exitSysError)
		}
		defer store.Close()

		cols, err := store.Columns()
		if err != nil {
			fmt.Fprintln(os.Stderr, "init:", err)
			os.Exit(exitSysError)
		}

		fmt.Printf("Initialized %s (%d columns)\n", cliConfig.DatabasePath, len(cols))
		if cliConfig.DefaultTemplatePath != "" {
			fmt.Println("Template:", cliConfig.DefaultTemplatePath)
		}
		return nil
	},
}
