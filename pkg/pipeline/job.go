package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/colcast/colcast/logger"
	"github.com/colcast/colcast/metrics"
	"github.com/colcast/colcast/pkg/core"
	"github.com/colcast/colcast/utils"
	"github.com/colcast/colcast/version"
)

// Run converts a source file or directory and returns the run report. Files
// are independent units of work: one file failing never stops the rest,
// only cancellation does. The returned error is non-nil only for
// configuration problems or cancellation; per-file failures live in the
// report's tally.
func Run(ctx context.Context, source string, opts core.ConvertOptions) (metrics.RunReport, error) {
	log := logger.GetLogger()
	start := time.Now()

	report := metrics.RunReport{
		Metadata: metrics.RunMetadata{
			Command:     "convert",
			Format:      opts.Format,
			Source:      source,
			Destination: opts.Destination,
			Version:     version.GetVersion(),
			StartTime:   start,
		},
	}

	finish := func() {
		report.Metadata.EndTime = time.Now()
		report.Metadata.Duration = report.Metadata.EndTime.Sub(start)
	}

	info, err := os.Stat(source)
	if err != nil {
		finish()
		return report, fmt.Errorf("failed to stat source: %w", err)
	}

	if !info.IsDir() {
		report.Add(convertOne(ctx, source, opts.Destination, opts))
		finish()
		return report, ctx.Err()
	}

	files, err := listSources(source, opts.Recursive)
	if err != nil {
		finish()
		return report, err
	}
	if len(files) == 0 {
		log.Warn("No convertible files found", zap.String("source", source))
	}

	for _, path := range files {
		select {
		case <-ctx.Done():
			finish()
			return report, ctx.Err()
		default:
		}

		// Mirror the directory layout under the destination root.
		destDir := opts.Destination
		if destDir != "" {
			rel, relErr := filepath.Rel(source, path)
			if relErr == nil {
				destDir = filepath.Join(destDir, filepath.Dir(rel))
			}
		}

		outcome := convertOne(ctx, path, destDir, opts)
		report.Add(outcome)

		switch outcome.Status {
		case metrics.StatusSucceeded:
			log.Info("Converted",
				zap.String("source", path),
				zap.String("output", outcome.Output),
				zap.Int64("rows", outcome.Rows),
				zap.Float64("size_mb", outcome.SizeMB))
		case metrics.StatusSkipped:
			log.Info("Skipped existing output",
				zap.String("source", path),
				zap.String("output", outcome.Output))
		case metrics.StatusFailed:
			log.Error("Conversion failed",
				zap.String("source", path),
				zap.String("error", outcome.Error))
		}
	}

	finish()
	return report, ctx.Err()
}

func convertOne(ctx context.Context, path, destDir string, opts core.ConvertOptions) metrics.FileOutcome {
	start := time.Now()
	result, err := ConvertFile(ctx, path, destDir, opts)

	outcome := metrics.FileOutcome{
		Source:   path,
		Output:   result.Output,
		Duration: time.Since(start),
	}

	switch {
	case errors.Is(err, ErrOutputExists):
		outcome.Status = metrics.StatusSkipped
	case err != nil:
		outcome.Status = metrics.StatusFailed
		outcome.Error = err.Error()
	default:
		outcome.Status = metrics.StatusSucceeded
		outcome.Rows = result.Rows
		outcome.SizeMB = utils.FileSizeMB(result.Output)
	}

	return outcome
}

// listSources collects the convertible files under a directory. Discovery
// filters on extension so stray files (READMEs, checksums) are not counted
// against the run; a path named explicitly still fails if unrecognized.
func listSources(dir string, recursive bool) ([]string, error) {
	var files []string

	if recursive {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && convertible(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk directory: %w", err)
		}
		return files, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if convertible(path) {
			files = append(files, path)
		}
	}
	return files, nil
}

func convertible(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet", ".arrow", ".feather", ".ipc":
		return true
	default:
		return false
	}
}
