// Add command creates a new asset record.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/stockroom/pkg/types"
)

var addForce bool

var addCmd = &cobra.Command{
	Use:   "add [field=value...]",
	Short: "Add a new asset record",
	Long: `Add creates a new asset from field=value arguments. Field names may be
display names ("Serial Number=SN123") or column names (serial_number=SN123).
An empty Asset No. is generated automatically.

Unique fields are checked before the insert; collisions abort the command
unless --force is given.

Example:
  stockroom add "Asset Type=Laptop" "Manufacturer=Dell" "Serial Number=SN123"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		values, err := parseFieldArgs(args)
		if err != nil {
			fmt.Fprintln(os.Stderr, "add:", err)
			os.Exit(exitUserError)
		}

		store, err := openStore()
		if err != nil {
			fmt.Fprintln(os.Stderr, "add:", err)
			os.Exit(exitSysError)
		}
		defer store.Close()

		if !addForce {
			conflicts, err := store.CheckUniqueConflicts(values, cliConfig.EffectiveUniqueFields(), cliConfig.DefaultTemplatePath)
			if err != nil {
				fmt.Fprintln(os.Stderr, "check unique fields:", err)
				os.Exit(exitSysError)
			}
			for _, c := range conflicts {
				fmt.Fprintf(os.Stderr, "%s %q is already used by record %d\n", c.FieldName, c.FieldValue, c.Existing.ID)
			}
			if len(conflicts) > 0 {
				os.Exit(exitUserError)
			}
		}

		id, err := store.Insert(values, types.SourceManual, actor())
		if err != nil {
			fmt.Fprintln(os.Stderr, "add:", err)
			os.Exit(exitSysError)
		}

		a, err := store.Get(id)
		if err != nil {
			fmt.Fprintln(os.Stderr, "read created record:", err)
			os.Exit(exitSysError)
		}

		if flagJSON {
			return printJSON(a)
		}
		fmt.Printf("Created record %d (%s)\n", id, a.AssetNo())
		return nil
	},
}

func init() {
	addCmd.Flags().BoolVar(&addForce, "force", false, "insert even when unique fields collide")
}
