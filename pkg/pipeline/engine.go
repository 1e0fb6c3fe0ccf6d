// Package pipeline drives conversions: one engine run per source file, and a
// job layer that walks directories and tallies per-file outcomes.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/colcast/colcast/logger"
	"github.com/colcast/colcast/pkg/convert"
	"github.com/colcast/colcast/pkg/core"
	"github.com/colcast/colcast/pkg/readers"
	"github.com/colcast/colcast/pkg/schema"
	"github.com/colcast/colcast/pkg/writers"
	"github.com/colcast/colcast/utils"
)

// ErrOutputExists marks the skip outcome: the target file is already there
// and overwrite was not requested.
var ErrOutputExists = errors.New("output file already exists")

// FileResult describes one completed file conversion.
type FileResult struct {
	Output string
	Rows   int64
}

// SourceType maps a file extension to its reader type. Unrecognized
// extensions are a per-file failure, not a process-level one.
func SourceType(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		return "parquet", nil
	case ".arrow", ".feather", ".ipc":
		return "arrow", nil
	default:
		return "", fmt.Errorf("unrecognized source file type: %s", filepath.Base(path))
	}
}

// ConvertFile converts a single source file into the target format. The
// output lands in destDir, or next to the source when destDir is empty. On
// any error after output creation the partial file is removed, so a failed
// conversion never leaves an artifact that looks complete.
func ConvertFile(ctx context.Context, sourcePath, destDir string, opts core.ConvertOptions) (FileResult, error) {
	log := logger.GetLogger()

	format, err := convert.ParseFormat(opts.Format)
	if err != nil {
		return FileResult{}, err
	}

	srcType, err := SourceType(sourcePath)
	if err != nil {
		return FileResult{}, err
	}

	outputPath := utils.DeriveOutputPath(sourcePath, destDir, format.Extension())
	if sameFile(outputPath, sourcePath) {
		return FileResult{}, fmt.Errorf("output path %s would overwrite the source file", outputPath)
	}
	if !opts.Overwrite {
		if _, statErr := os.Stat(outputPath); statErr == nil {
			return FileResult{Output: outputPath}, ErrOutputExists
		}
	}

	reader, err := readers.DefaultFactory.Create(core.ReaderConfig{
		Type:      srcType,
		Path:      sourcePath,
		BatchSize: opts.BatchSize,
	})
	if err != nil {
		return FileResult{}, err
	}
	defer reader.Close()

	src, err := schema.FromArrow(reader.Schema())
	if err != nil {
		return FileResult{}, fmt.Errorf("%s: %w", sourcePath, err)
	}

	// One projection per file: source schemas may differ between files in
	// the same job, so nothing here is shared or reused across files.
	proj, err := convert.Project(src, format)
	if err != nil {
		return FileResult{}, err
	}

	if err := utils.EnsureDir(filepath.Dir(outputPath)); err != nil {
		return FileResult{}, err
	}

	writer, err := writers.DefaultFactory.Create(core.WriterConfig{
		Type:              string(format),
		Path:              outputPath,
		Delimiter:         opts.Delimiter,
		IncludeHeader:     opts.IncludeHeader,
		ForceStringFields: opts.ForceStringFields,
		Compression:       opts.Compression,
	}, proj)
	if err != nil {
		return FileResult{}, err
	}

	rows, err := stream(ctx, reader, writer)
	if err != nil {
		writer.Close()
		if removeErr := os.Remove(outputPath); removeErr != nil {
			log.Warn("Failed to remove partial output",
				zap.String("path", outputPath), zap.Error(removeErr))
		}
		return FileResult{}, err
	}

	if err := writer.Close(); err != nil {
		os.Remove(outputPath)
		return FileResult{}, fmt.Errorf("failed to finalize output: %w", err)
	}

	log.Debug("Converted file",
		zap.String("source", sourcePath),
		zap.String("output", outputPath),
		zap.Int64("rows", rows),
		zap.Float64("size_mb", utils.FileSizeMB(outputPath)))

	return FileResult{Output: outputPath, Rows: rows}, nil
}

func stream(ctx context.Context, reader core.DatasetReader, writer core.DatasetWriter) (int64, error) {
	var rows int64
	for {
		record, err := reader.Read(ctx)
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return rows, err
		}

		writeErr := writer.Write(ctx, record)
		rows += record.NumRows()
		record.Release()
		if writeErr != nil {
			return rows, writeErr
		}
	}
}

func sameFile(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return absA == absB
}
