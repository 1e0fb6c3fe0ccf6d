package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/colcast/colcast/config"
	"github.com/colcast/colcast/logger"
	"github.com/colcast/colcast/pkg/generate"
)

// applyGenerateConfig fills in options from a YAML config file. Flags set on
// the command line keep their values.
func applyGenerateConfig(cmd *cobra.Command, path string, o *generate.Options) error {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	gc := cfg.Generate
	changed := cmd.Flags().Changed
	if gc.Profile != "" && !changed("profile") {
		o.Profile = gc.Profile
	}
	if gc.Columns > 0 && !changed("columns") {
		o.Columns = gc.Columns
	}
	if gc.TotalRows > 0 && !changed("rows") {
		o.TotalRows = gc.TotalRows
	}
	if gc.RowsPerFile > 0 && !changed("rows-per-file") {
		o.RowsPerFile = gc.RowsPerFile
	}
	if gc.BatchSize > 0 && !changed("batch-size") {
		o.BatchSize = gc.BatchSize
	}
	if gc.Workers > 0 && !changed("workers") {
		o.Workers = gc.Workers
	}
	if gc.Seed != 0 && !changed("seed") {
		o.Seed = gc.Seed
	}
	if gc.OutputDir != "" && !changed("output") {
		o.OutputDir = gc.OutputDir
	}
	if gc.Compression != "" && !changed("compression") {
		o.Compression = gc.Compression
	}
	return nil
}

// newGenerateCommand creates a new generate command.
func newGenerateCommand() *cobra.Command {
	options := generate.Options{
		Profile:     "event",
		TotalRows:   100000,
		RowsPerFile: 100000,
		BatchSize:   10000,
		Seed:        42,
		OutputDir:   "data",
	}
	var verbose bool
	var configPath string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate synthetic wide-table Parquet datasets",
		Long: `The generate command produces Parquet files with hundreds of typed
columns, including nested lists, maps, structs and JSON-in-string payloads.

Output is deterministic: each file is generated from seed + file index, so
the same options always reproduce identical files regardless of worker
count.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				if err := applyGenerateConfig(cmd, configPath, &options); err != nil {
					return err
				}
			}
			logger.SetVerbose(verbose)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sig)
			go func() {
				<-sig
				cancel()
			}()

			return generate.Run(ctx, options)
		},
	}

	cmd.Flags().StringVar(&options.Profile, "profile", options.Profile, "Schema profile (event, wide)")
	cmd.Flags().IntVar(&options.Columns, "columns", 0, "Column count for the wide profile")
	cmd.Flags().Int64Var(&options.TotalRows, "rows", options.TotalRows, "Total rows across all files")
	cmd.Flags().Int64Var(&options.RowsPerFile, "rows-per-file", options.RowsPerFile, "Rows per output file")
	cmd.Flags().Int64VarP(&options.BatchSize, "batch-size", "b", options.BatchSize, "Rows per batch")
	cmd.Flags().IntVar(&options.Workers, "workers", 0, "Worker count (defaults to CPU count)")
	cmd.Flags().Int64Var(&options.Seed, "seed", options.Seed, "Base random seed")
	cmd.Flags().StringVarP(&options.OutputDir, "output", "o", options.OutputDir, "Output directory")
	cmd.Flags().StringVar(&options.Compression, "compression", "", "Parquet compression codec (snappy, zstd, gzip, none)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	cmd.Flags().StringVar(&configPath, "config", "", "YAML config file with generate defaults")

	return cmd
}
