package main

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

//go:embed cmd_example_simple.mgen
var exampleSimpleMgen []byte

//go:embed cmd_example_full.mgen
var exampleFullMgen []byte

var exampleCmd = &cobra.Command{
	Use:   "example",
	Short: "Print a reference .mgen spec covering the DSL's rule forms",
	Long: "Print a " + appName + " spec that demonstrates the DSL.\n" +
		"By default a concise quick-reference is printed. Use --full for the\n" +
		"annotated spec exercising classes, references, join, dates, regex,\n" +
		"copy and the null policy. Use --output to write to a file instead of\n" +
		"stdout.",
	RunE: func(cmd *cobra.Command, args []string) error {
		full, _ := cmd.Flags().GetBool("full")

		spec := exampleSimpleMgen
		if full {
			spec = exampleFullMgen
		}

		outPath, _ := cmd.Flags().GetString("output")
		w := os.Stdout
		if outPath != "" {
			f, err := os.Create(outPath)
			if err != nil {
				return ioError(fmt.Errorf("creating %s: %w", outPath, err))
			}
			defer f.Close()
			w = f
		}

		if _, err := w.Write(spec); err != nil {
			return ioError(err)
		}

		if outPath != "" {
			fmt.Fprintf(os.Stderr, "written to %s\n", outPath)
		}
		return nil
	},
}

func init() {
	exampleCmd.Flags().StringP("output", "o", "", "write to file instead of stdout")
	exampleCmd.Flags().Bool("full", false, "print the full annotated example instead of the quick reference")
}
