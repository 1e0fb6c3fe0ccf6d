package generate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/apache/arrow-go/v18/arrow"
	"go.uber.org/zap"

	"github.com/colcast/colcast/logger"
	"github.com/colcast/colcast/pkg/core"
	"github.com/colcast/colcast/pkg/writers"
	"github.com/colcast/colcast/utils"
)

// Options configures a generation run.
type Options struct {
	Profile     string
	Columns     int
	TotalRows   int64
	RowsPerFile int64
	BatchSize   int64
	Workers     int
	Seed        int64
	OutputDir   string
	Compression string
}

// Run generates Parquet files until TotalRows rows exist across the output
// files. Each file is produced by seed = base seed + file index, so a rerun
// with the same options reproduces identical files regardless of worker
// count or scheduling.
func Run(ctx context.Context, opts Options) error {
	log := logger.GetLogger()

	sch, err := ProfileSchema(opts.Profile, opts.Columns)
	if err != nil {
		return err
	}

	if opts.TotalRows <= 0 {
		opts.TotalRows = 100000
	}
	if opts.RowsPerFile <= 0 {
		opts.RowsPerFile = opts.TotalRows
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 10000
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if err := utils.EnsureDir(opts.OutputDir); err != nil {
		return err
	}

	numFiles := int((opts.TotalRows + opts.RowsPerFile - 1) / opts.RowsPerFile)

	log.Info("Generating dataset",
		zap.String("profile", opts.Profile),
		zap.Int("columns", sch.NumFields()),
		zap.Int64("rows", opts.TotalRows),
		zap.Int("files", numFiles),
		zap.Int("workers", opts.Workers))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	indices := make(chan int)
	errs := make(chan error, opts.Workers)
	var wg sync.WaitGroup

	for w := 0; w < opts.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range indices {
				if err := generateFile(ctx, sch, idx, numFiles, opts); err != nil {
					errs <- fmt.Errorf("file %d: %w", idx, err)
					cancel()
					return
				}
			}
		}()
	}

feed:
	for idx := 0; idx < numFiles; idx++ {
		select {
		case indices <- idx:
		case <-ctx.Done():
			break feed
		}
	}
	close(indices)
	wg.Wait()
	close(errs)

	if err := <-errs; err != nil {
		return err
	}
	return ctx.Err()
}

// generateFile writes one output file. The last file takes the remainder
// when TotalRows is not a multiple of RowsPerFile.
func generateFile(ctx context.Context, sch *arrow.Schema, idx, numFiles int, opts Options) error {
	rows := opts.RowsPerFile
	if idx == numFiles-1 {
		rows = opts.TotalRows - int64(numFiles-1)*opts.RowsPerFile
	}

	path := filepath.Join(opts.OutputDir, fmt.Sprintf("part_%05d.parquet", idx))
	writer, err := writers.NewParquetWriter(core.WriterConfig{
		Type:        "parquet",
		Path:        path,
		Compression: opts.Compression,
	}, nil)
	if err != nil {
		return err
	}

	gen := NewGenerator(sch, opts.Seed+int64(idx), nil)
	defer gen.Release()

	// A failed or cancelled file never stays on disk. Close writes the
	// parquet footer, so a truncated file would otherwise look complete.
	abort := func(cause error) error {
		writer.Close()
		os.Remove(path)
		return cause
	}

	for written := int64(0); written < rows; {
		batch := opts.BatchSize
		if rows-written < batch {
			batch = rows - written
		}

		record, err := gen.NextBatch(int(batch))
		if err != nil {
			return abort(err)
		}

		writeErr := writer.Write(ctx, record)
		record.Release()
		if writeErr != nil {
			return abort(writeErr)
		}
		written += batch
	}

	if err := writer.Close(); err != nil {
		os.Remove(path)
		return err
	}

	logger.GetLogger().Debug("Generated file",
		zap.String("path", path),
		zap.Int64("rows", rows),
		zap.Float64("size_mb", utils.FileSizeMB(path)))
	return nil
}
