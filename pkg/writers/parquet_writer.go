package writers

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/colcast/colcast/pkg/convert"
	"github.com/colcast/colcast/pkg/core"
)

// ParquetWriter re-encodes records as Parquet. With a projection, binary
// columns are rebuilt as UTF-8 string columns; all other columns pass
// through natively. Without a projection the record schema is written as-is,
// which is the path the data generator uses.
type ParquetWriter struct {
	writer     *pqarrow.FileWriter
	file       *os.File
	proj       *convert.Projection
	properties pqarrow.ArrowWriterProperties
	codec      compress.Compression
	alloc      memory.Allocator
}

// NewParquetWriter creates a new Parquet writer.
func NewParquetWriter(config core.WriterConfig, proj *convert.Projection) (core.DatasetWriter, error) {
	if config.Path == "" {
		return nil, errors.New("path is required for Parquet writer")
	}

	codec, err := parseCodec(config.Compression)
	if err != nil {
		return nil, err
	}

	file, err := os.Create(config.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to create Parquet file: %w", err)
	}

	return &ParquetWriter{
		file:       file,
		proj:       proj,
		properties: pqarrow.NewArrowWriterProperties(),
		codec:      codec,
		alloc:      memory.NewGoAllocator(),
	}, nil
}

func parseCodec(name string) (compress.Compression, error) {
	switch name {
	case "", "snappy":
		return compress.Codecs.Snappy, nil
	case "zstd":
		return compress.Codecs.Zstd, nil
	case "gzip":
		return compress.Codecs.Gzip, nil
	case "none", "uncompressed":
		return compress.Codecs.Uncompressed, nil
	default:
		return compress.Codecs.Uncompressed, fmt.Errorf("unsupported compression codec: %s", name)
	}
}

// Write writes a record to the file.
func (w *ParquetWriter) Write(ctx context.Context, record arrow.Record) error {
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
		writeProps := parquet.NewWriterProperties(
			parquet.WithCompression(w.codec),
			parquet.WithDictionaryDefault(false),
		)

		writer, err := pqarrow.NewFileWriter(
			out.Schema(),
			w.file,
			writeProps,
			w.properties,
		)
		if err != nil {
			return fmt.Errorf("failed to create Parquet writer: %w", err)
		}
		w.writer = writer
	}

	if err := w.writer.Write(out); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}

	return nil
}

// Close closes the writer and flushes any pending data.
func (w *ParquetWriter) Close() error {
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
