package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Generate mock tabular data from a .mgen spec",
	Long: appName + " reads a small block-structured DSL describing a table — " +
		"header, reference lookups, and per-column generation rules — and\n" +
		"writes the requested number of rows as CSV or JSON.",
}

func init() {
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(exampleCmd)
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}
