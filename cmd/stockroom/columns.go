// Columns command lists the schema's dynamic fields.
package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/stockroom/internal/fields"
)

var columnsValues string

var columnsCmd = &cobra.Command{
	Use:   "columns",
	Short: "List the dynamic fields of the schema",
	Long: `Columns lists the dynamic fields by display name, marking multiline
fields. With --values it instead prints the distinct values of one column.

Example:
  stockroom columns
  stockroom columns --values Manufacturer`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			fmt.Fprintln(os.Stderr, "columns:", err)
			os.Exit(exitSysError)
		}
		defer store.Close()

		if columnsValues != "" {
			values, err := store.UniqueValues(fields.Resolve(columnsValues))
			if err != nil {
				fmt.Fprintln(os.Stderr, "columns:", err)
				os.Exit(exitSysError)
			}
			if flagJSON {
				return printJSON(values)
			}
			for _, v := range values {
				fmt.Println(v)
			}
			return nil
		}

		meta, err := store.FieldMetadata(cliConfig.DefaultTemplatePath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "columns:", err)
			os.Exit(exitSysError)
		}

		if flagJSON {
			return printJSON(meta)
		}
		names := make([]string, 0, len(meta))
		for name := range meta {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if meta[name].Multiline {
				fmt.Printf("%s (multiline)\n", name)
			} else {
				fmt.Println(name)
			}
		}
		return nil
	},
}

func init() {
	columnsCmd.Flags().StringVar(&columnsValues, "values", "", "print the distinct values of this column")
}
