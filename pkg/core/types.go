// Package core provides the shared types and interfaces of the colcast
// conversion engine.
package core

import (
	"context"

	"github.com/apache/arrow-go/v18/arrow"
)

// DatasetReader defines an interface for reading columnar data sources.
type DatasetReader interface {
	// Read returns the next record batch.
	// Returns io.EOF when there are no more batches.
	Read(ctx context.Context) (arrow.Record, error)

	// Schema returns the schema of the dataset.
	Schema() *arrow.Schema

	// Close closes the reader and releases resources.
	Close() error
}

// DatasetWriter defines an interface for writing records to a target format.
type DatasetWriter interface {
	// Write writes a record batch to the destination.
	Write(ctx context.Context, record arrow.Record) error

	// Close closes the writer and flushes any pending data.
	Close() error
}

// ReaderConfig provides configuration for creating a reader.
type ReaderConfig struct {
	// Type is the source format ("parquet" or "arrow").
	Type string

	// Path is the path to the source file.
	Path string

	// BatchSize is the number of rows to read per batch. Batch size bounds
	// peak memory only; it never changes the logical output.
	BatchSize int64
}

// WriterConfig provides configuration for creating a writer.
type WriterConfig struct {
	// Type is the target format name.
	Type string

	// Path is the path to the output file.
	Path string

	// Delimiter is the field separator for delimited-text output. It must
	// be a single character.
	Delimiter string

	// IncludeHeader controls the optional header row of delimited-text
	// output.
	IncludeHeader bool

	// ForceStringFields lists field names whose values always serialize as
	// strings regardless of their declared type.
	ForceStringFields []string

	// Compression names the codec for columnar re-encode targets. It is a
	// pass-through option, not a semantic concern of the engine.
	Compression string
}

// ConvertOptions carries the caller-facing knobs of a conversion job.
type ConvertOptions struct {
	Format            string
	Destination       string
	Recursive         bool
	Overwrite         bool
	Delimiter         string
	IncludeHeader     bool
	BatchSize         int64
	ForceStringFields []string
	Compression       string
}
