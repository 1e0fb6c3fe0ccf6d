// Package main provides the entry point for the colcast conversion tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/colcast/colcast/logger"
	"github.com/colcast/colcast/version"
)

// Main entry point for the colcast tool
func main() {
	defer logger.Sync()

	// Create root command
	rootCmd := &cobra.Command{
		Use:   "colcast",
		Short: "colcast converts wide columnar datasets between formats",
		Long: `colcast is a columnar schema conversion tool for wide tables.
It leverages Apache Arrow to stream Parquet and Arrow IPC files into
delimited text, JSON Lines, or re-encoded columnar output, applying a
deterministic type-lowering policy per target format.`,
	}

	// Add version command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number of colcast",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("colcast v%s (built %s)\n", version.GetVersion(), version.GetBuildDate())
		},
	})

	// Add subcommands
	rootCmd.AddCommand(newConvertCommand())
	rootCmd.AddCommand(newGenerateCommand())
	rootCmd.AddCommand(newSchemaCommand())
	rootCmd.AddCommand(newServeCommand())

	// Execute the command
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
