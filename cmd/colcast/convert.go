package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/colcast/colcast/config"
	"github.com/colcast/colcast/logger"
	"github.com/colcast/colcast/metrics"
	"github.com/colcast/colcast/pkg/core"
	"github.com/colcast/colcast/pkg/pipeline"
	"github.com/colcast/colcast/report"
)

// ConvertCmdOptions represents the options for the convert command.
type ConvertCmdOptions struct {
	SourcePath        string
	Format            string
	Destination       string
	Recursive         bool
	Overwrite         bool
	Delimiter         string
	NoHeader          bool
	BatchSize         int64
	ForceStringFields []string
	Compression       string
	ReportPath        string
	HTMLReportPath    string
	Verbose           bool
	ConfigPath        string
}

// applyConfig fills in options from a YAML config file. Flags set on the
// command line keep their values.
func (o *ConvertCmdOptions) applyConfig(cmd *cobra.Command, path string) error {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	cc := cfg.Convert
	changed := cmd.Flags().Changed
	if cc.Format != "" && !changed("format") {
		o.Format = cc.Format
	}
	if cc.Destination != "" && !changed("output") {
		o.Destination = cc.Destination
	}
	if cc.Recursive && !changed("recursive") {
		o.Recursive = true
	}
	if cc.Overwrite && !changed("overwrite") {
		o.Overwrite = true
	}
	if cc.Delimiter != "" && !changed("delimiter") {
		o.Delimiter = cc.Delimiter
	}
	// include_header only takes effect when the convert block is present,
	// which Validate keys off the format field.
	if cc.Format != "" && !changed("no-header") {
		o.NoHeader = !cc.IncludeHeader
	}
	if cc.BatchSize > 0 && !changed("batch-size") {
		o.BatchSize = cc.BatchSize
	}
	if len(cc.ForceStringFields) > 0 && !changed("force-string") {
		o.ForceStringFields = cc.ForceStringFields
	}
	if cc.Compression != "" && !changed("compression") {
		o.Compression = cc.Compression
	}
	return nil
}

// newConvertCommand creates a new convert command.
func newConvertCommand() *cobra.Command {
	options := &ConvertCmdOptions{
		Format:            "csv",
		Delimiter:         ",",
		BatchSize:         10000,
		ForceStringFields: []string{"largeint_metric"},
	}

	cmd := &cobra.Command{
		Use:   "convert [flags] SOURCE",
		Short: "Convert columnar files to another format",
		Long: `The convert command reads Parquet or Arrow IPC files and re-serializes
them into the chosen target format (csv, jsonl, arrow, parquet).

SOURCE may be a single file or a directory. In directory mode every
convertible file is an independent unit of work: one failure never stops
the rest of the job. Existing outputs are skipped unless --overwrite is
given.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			options.SourcePath = args[0]
			if options.ConfigPath != "" {
				if err := options.applyConfig(cmd, options.ConfigPath); err != nil {
					return err
				}
			}
			logger.SetVerbose(options.Verbose)
			return runConvert(options)
		},
	}

	// Add flags
	cmd.Flags().StringVarP(&options.Format, "format", "f", options.Format, "Target format (csv, jsonl, arrow, parquet)")
	cmd.Flags().StringVarP(&options.Destination, "output", "o", "", "Output directory (defaults to alongside each source file)")
	cmd.Flags().BoolVarP(&options.Recursive, "recursive", "r", false, "Descend into subdirectories")
	cmd.Flags().BoolVar(&options.Overwrite, "overwrite", false, "Overwrite existing output files")
	cmd.Flags().StringVar(&options.Delimiter, "delimiter", options.Delimiter, "Field delimiter for csv output (single character)")
	cmd.Flags().BoolVar(&options.NoHeader, "no-header", false, "Omit the header row in csv output")
	cmd.Flags().Int64VarP(&options.BatchSize, "batch-size", "b", options.BatchSize, "Rows per batch (memory knob, never changes output)")
	cmd.Flags().StringSliceVar(&options.ForceStringFields, "force-string", options.ForceStringFields, "Fields always serialized as strings")
	cmd.Flags().StringVar(&options.Compression, "compression", "", "Compression codec for columnar output (snappy, zstd, gzip, none)")
	cmd.Flags().StringVar(&options.ReportPath, "report", "", "Write a JSON run report to this path")
	cmd.Flags().StringVar(&options.HTMLReportPath, "html-report", "", "Write an HTML run report to this path")
	cmd.Flags().BoolVarP(&options.Verbose, "verbose", "v", false, "Enable debug logging")
	cmd.Flags().StringVar(&options.ConfigPath, "config", "", "YAML config file with convert defaults")

	return cmd
}

// runConvert executes the convert command with the given options.
func runConvert(options *ConvertCmdOptions) error {
	// Set up context with signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sig)

	go func() {
		<-sig
		fmt.Println("\nCancelling operation...")
		cancel()
	}()

	var spin *spinner.Spinner
	if !options.Verbose {
		spin = spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		spin.Suffix = fmt.Sprintf(" Converting %s to %s...", options.SourcePath, options.Format)
		spin.Start()
	}

	runReport, runErr := pipeline.Run(ctx, options.SourcePath, core.ConvertOptions{
		Format:            options.Format,
		Destination:       options.Destination,
		Recursive:         options.Recursive,
		Overwrite:         options.Overwrite,
		Delimiter:         options.Delimiter,
		IncludeHeader:     !options.NoHeader,
		BatchSize:         options.BatchSize,
		ForceStringFields: options.ForceStringFields,
		Compression:       options.Compression,
	})

	if spin != nil {
		spin.Stop()
	}

	// The summary prints even when the run was interrupted, so partial
	// progress is never silently discarded.
	printSummary(runReport)

	if options.ReportPath != "" {
		gen := &report.JSONReportGenerator{}
		if err := gen.SaveReportToFile(runReport, options.ReportPath); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}
	if options.HTMLReportPath != "" {
		gen := &report.HTMLReportGenerator{}
		if err := gen.SaveReportToFile(runReport, options.HTMLReportPath); err != nil {
			return fmt.Errorf("failed to write HTML report: %w", err)
		}
	}

	if runErr != nil {
		return runErr
	}
	if runReport.Tally.Failed > 0 {
		return fmt.Errorf("%d file(s) failed", runReport.Tally.Failed)
	}
	return nil
}

func printSummary(r metrics.RunReport) {
	fmt.Printf("Processed %d file(s) in %s: %s\n",
		r.Tally.Total(), r.Metadata.Duration.Round(time.Millisecond), r.Tally)
	for _, f := range r.Files {
		if f.Status == metrics.StatusFailed {
			fmt.Printf("  FAILED %s: %s\n", f.Source, f.Error)
		}
	}
}
