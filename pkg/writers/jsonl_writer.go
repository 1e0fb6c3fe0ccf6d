package writers

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/colcast/colcast/pkg/convert"
	"github.com/colcast/colcast/pkg/core"
)

// JSONLWriter emits one compact JSON object per row. Object keys follow the
// projected schema order, so the byte layout of every line is deterministic.
type JSONLWriter struct {
	file    *os.File
	buf     *bufio.Writer
	proj    *convert.Projection
	norm    *convert.Normalizer
	scratch []byte
}

// NewJSONLWriter creates a new JSON Lines writer.
func NewJSONLWriter(config core.WriterConfig, proj *convert.Projection) (core.DatasetWriter, error) {
	if config.Path == "" {
		return nil, errors.New("path is required for JSONL writer")
	}
	if proj == nil {
		return nil, errors.New("projection is required for JSONL writer")
	}

	f, err := os.Create(config.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to create JSONL file: %w", err)
	}

	return &JSONLWriter{
		file: f,
		buf:  bufio.NewWriterSize(f, 1<<16),
		proj: proj,
		norm: convert.NewNormalizer(config.ForceStringFields),
	}, nil
}

// Write writes one record batch as JSON Lines.
func (w *JSONLWriter) Write(ctx context.Context, record arrow.Record) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	numRows := int(record.NumRows())
	for i := 0; i < numRows; i++ {
		w.scratch = w.scratch[:0]
		w.scratch = append(w.scratch, '{')
		for j, policy := range w.proj.Columns {
			if j > 0 {
				w.scratch = append(w.scratch, ',')
			}
			w.scratch = convert.AppendJSON(w.scratch, convert.TextValue(policy.Name))
			w.scratch = append(w.scratch, ':')

			v, err := convert.DecodeCell(record.Column(j), i, policy.Type)
			if err != nil {
				return err
			}
			nv, err := w.norm.Normalize(v, policy.Name)
			if err != nil {
				return err
			}
			w.scratch = convert.AppendJSON(w.scratch, nv)
		}
		w.scratch = append(w.scratch, '}', '\n')

		if _, err := w.buf.Write(w.scratch); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	return nil
}

// Close flushes pending rows and closes the file.
func (w *JSONLWriter) Close() error {
	var err error

	if w.buf != nil {
		if flushErr := w.buf.Flush(); flushErr != nil {
			err = flushErr
		}
		w.buf = nil
	}

	if w.file != nil {
		if closeErr := w.file.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		w.file = nil
	}

	return err
}
