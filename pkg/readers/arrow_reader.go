package readers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/ipc"

	"github.com/colcast/colcast/pkg/core"
)

// ArrowReader streams record batches out of an Arrow IPC file. Batch
// boundaries follow the batches stored in the file.
type ArrowReader struct {
	schema     *arrow.Schema
	reader     *ipc.FileReader
	file       *os.File
	currentIdx int
}

// NewArrowReader creates a new Arrow IPC reader.
func NewArrowReader(config core.ReaderConfig) (core.DatasetReader, error) {
	if config.Path == "" {
		return nil, errors.New("path is required for Arrow reader")
	}

	f, err := os.Open(config.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Arrow file: %w", err)
	}

	reader, err := ipc.NewFileReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create Arrow file reader: %w", err)
	}

	return &ArrowReader{
		schema: reader.Schema(),
		reader: reader,
		file:   f,
	}, nil
}

// Read returns the next batch of records.
func (r *ArrowReader) Read(ctx context.Context) (arrow.Record, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if r.currentIdx >= r.reader.NumRecords() {
		return nil, io.EOF
	}

	record, err := r.reader.Record(r.currentIdx)
	if err != nil {
		return nil, fmt.Errorf("failed to read record %d: %w", r.currentIdx, err)
	}
	r.currentIdx++

	record.Retain()
	return record, nil
}

// Schema returns the schema of the dataset.
func (r *ArrowReader) Schema() *arrow.Schema {
	return r.schema
}

// Close closes the reader and releases resources.
func (r *ArrowReader) Close() error {
	var err error

	if r.reader != nil {
		if err2 := r.reader.Close(); err2 != nil {
			err = err2
		}
		r.reader = nil
	}

	if r.file != nil {
		if err2 := r.file.Close(); err2 != nil && err == nil {
			err = err2
		}
		r.file = nil
	}

	return err
}
