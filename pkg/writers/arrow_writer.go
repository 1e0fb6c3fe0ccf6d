package writers

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/colcast/colcast/pkg/convert"
	"github.com/colcast/colcast/pkg/core"
)

// ArrowWriter re-encodes records as an Arrow IPC file. With a projection,
// binary columns are rebuilt as UTF-8 string columns before writing.
type ArrowWriter struct {
	writer *ipc.FileWriter
	file   *os.File
	proj   *convert.Projection
	alloc  memory.Allocator
}

// NewArrowWriter creates a new Arrow IPC writer.
func NewArrowWriter(config core.WriterConfig, proj *convert.Projection) (core.DatasetWriter, error) {
	if config.Path == "" {
		return nil, errors.New("path is required for Arrow writer")
	}

	file, err := os.Create(config.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to create Arrow file: %w", err)
	}

	return &ArrowWriter{
		file:  file,
		proj:  proj,
		alloc: memory.NewGoAllocator(),
	}, nil
}

// Write writes a record to the file.
func (w *ArrowWriter) Write(ctx context.Context, record arrow.Record) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	out := record
	if w.proj != nil {
		retagged, err := retagRecord(record, w.proj, w.alloc)
		if err != nil {
			return err
		}
		defer retagged.Release()
		out = retagged
	}

	if w.writer == nil {
		writer, err := ipc.NewFileWriter(w.file, ipc.WithSchema(out.Schema()))
		if err != nil {
			return fmt.Errorf("failed to create Arrow writer: %w", err)
		}
		w.writer = writer
	}

	if err := w.writer.Write(out); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}

	return nil
}

// Close closes the writer and flushes any pending data.
func (w *ArrowWriter) Close() error {
	var err error

	if w.writer != nil {
		if closeErr := w.writer.Close(); closeErr != nil {
			err = closeErr
		}
		w.writer = nil
	}

	if w.file != nil {
		if closeErr := w.file.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		w.file = nil
	}

	return err
}
