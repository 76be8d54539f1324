// Template command inspects and applies CSV templates.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Inspect and apply CSV templates",
}

var templateVerifyCmd = &cobra.Command{
	Use:   "verify <file.csv>",
	Short: "Report how a template lines up with the live schema",
	Long: `Verify maps each template header to its storage column and reports
whether the column already exists. Nothing is changed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			fmt.Fprintln(os.Stderr, "template verify:", err)
			os.Exit(exitSysError)
		}
		defer store.Close()

		report, err := store.VerifyTemplate(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, "template verify:", err)
			os.Exit(exitUserError)
		}

		if flagJSON {
			return printJSON(report)
		}
		for _, d := range report.Details {
			status := "new"
			if d.Exists {
				status = "mapped"
			}
			fmt.Printf("%-30s -> %-25s %s\n", d.Header, d.Column, status)
		}
		fmt.Printf("%d field(s): %d mapped, %d new\n", report.TotalFields, report.Mapped, report.New)
		return nil
	},
}

var templateApplyCmd = &cobra.Command{
	Use:   "apply <file.csv>",
	Short: "Extend the schema from a template's headers",
	Long: `Apply adds a column for each template header not yet in the schema.
Existing columns and their data are never touched.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			fmt.Fprintln(os.Stderr, "template apply:", err)
			os.Exit(exitSysError)
		}
		defer store.Close()

		added, err := store.EnsureSchemaFromTemplate(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, "template apply:", err)
			os.Exit(exitSysError)
		}

		fmt.Printf("Added %d column(s)\n", added)
		return nil
	},
}

func init() {
	templateCmd.AddCommand(templateVerifyCmd)
	templateCmd.AddCommand(templateApplyCmd)
}
