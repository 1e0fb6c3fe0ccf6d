package readers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/colcast/colcast/pkg/core"
)

// ParquetReader streams record batches out of a Parquet file.
type ParquetReader struct {
	schema       *arrow.Schema
	fileReader   *file.Reader
	recordReader pqarrow.RecordReader
	file         *os.File
	alloc        memory.Allocator
}

// NewParquetReader creates a new Parquet reader.
func NewParquetReader(config core.ReaderConfig) (core.DatasetReader, error) {
	if config.Path == "" {
		return nil, errors.New("path is required for Parquet reader")
	}

	batchSize := config.BatchSize
	if batchSize <= 0 {
		batchSize = 10000
	}

	f, err := os.Open(config.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Parquet file: %w", err)
	}

	alloc := memory.NewGoAllocator()

	parquetReader, err := file.NewParquetReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create Parquet file reader: %w", err)
	}

	arrowReader, err := pqarrow.NewFileReader(parquetReader, pqarrow.ArrowReadProperties{
		Parallel:  true,
		BatchSize: batchSize,
	}, alloc)
	if err != nil {
		parquetReader.Close()
		f.Close()
		return nil, fmt.Errorf("failed to create Arrow reader: %w", err)
	}

	schema, err := arrowReader.Schema()
	if err != nil {
		parquetReader.Close()
		f.Close()
		return nil, fmt.Errorf("failed to get schema: %w", err)
	}

	// nil column indices and row groups mean "everything"; the batch size
	// from the read properties bounds each record.
	recordReader, err := arrowReader.GetRecordReader(context.Background(), nil, nil)
	if err != nil {
		parquetReader.Close()
		f.Close()
		return nil, fmt.Errorf("failed to create record reader: %w", err)
	}

	return &ParquetReader{
		schema:       schema,
		fileReader:   parquetReader,
		recordReader: recordReader,
		file:         f,
		alloc:        alloc,
	}, nil
}

// Read returns the next batch of records.
func (r *ParquetReader) Read(ctx context.Context) (arrow.Record, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if !r.recordReader.Next() {
		if err := r.recordReader.Err(); err != nil && err != io.EOF {
			return nil, fmt.Errorf("failed to read record batch: %w", err)
		}
		return nil, io.EOF
	}

	record := r.recordReader.Record()
	record.Retain()
	return record, nil
}

// Schema returns the schema of the dataset.
func (r *ParquetReader) Schema() *arrow.Schema {
	return r.schema
}

// Close closes the reader and releases resources.
func (r *ParquetReader) Close() error {
	var err error

	if r.recordReader != nil {
		r.recordReader.Release()
		r.recordReader = nil
	}

	if r.fileReader != nil {
		if err2 := r.fileReader.Close(); err2 != nil {
			err = err2
		}
		r.fileReader = nil
	}

	if r.file != nil {
		if err2 := r.file.Close(); err2 != nil && err == nil {
			err = err2
		}
		r.file = nil
	}

	return err
}
