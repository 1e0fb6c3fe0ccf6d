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

// EscapeChar is the single escape character of delimited-text output.
// Double-quote doubling is deliberately not used: backslash escaping keeps
// re-ingestion unambiguous across tools that do not agree on quote rules.
const EscapeChar = '\\'

// CSVWriter emits rows as delimited text with custom escaping. Nested
// map/struct columns are emitted empty, list columns as compact JSON text,
// per the projection computed for the job.
type CSVWriter struct {
	file      *os.File
	buf       *bufio.Writer
	proj      *convert.Projection
	norm      *convert.Normalizer
	delimiter byte
}

// NewCSVWriter creates a new delimited-text writer. The header row, if
// requested, is written immediately from the projected schema so an empty
// source still produces a well-formed file.
func NewCSVWriter(config core.WriterConfig, proj *convert.Projection) (core.DatasetWriter, error) {
	if config.Path == "" {
		return nil, errors.New("path is required for CSV writer")
	}
	if proj == nil {
		return nil, errors.New("projection is required for CSV writer")
	}

	delimiter := config.Delimiter
	if delimiter == "" {
		delimiter = ","
	}
	if len(delimiter) != 1 {
		return nil, fmt.Errorf("delimiter must be a single character, got %q", delimiter)
	}
	if delimiter[0] == EscapeChar {
		return nil, fmt.Errorf("delimiter %q conflicts with the escape character", delimiter)
	}

	f, err := os.Create(config.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to create CSV file: %w", err)
	}

	w := &CSVWriter{
		file:      f,
		buf:       bufio.NewWriterSize(f, 1<<16),
		proj:      proj,
		norm:      convert.NewNormalizer(config.ForceStringFields),
		delimiter: delimiter[0],
	}

	if config.IncludeHeader {
		for i, col := range proj.Columns {
			if i > 0 {
				w.buf.WriteByte(w.delimiter)
			}
			w.writeField(col.Name)
		}
		w.buf.WriteByte('\n')
	}

	return w, nil
}

// Write writes one record batch as delimited rows.
func (w *CSVWriter) Write(ctx context.Context, record arrow.Record) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	numRows := int(record.NumRows())
	for i := 0; i < numRows; i++ {
		for j, policy := range w.proj.Columns {
			if j > 0 {
				w.buf.WriteByte(w.delimiter)
			}
			if policy.Action == convert.ActionNull {
				continue // nested column lowered to null: field stays empty
			}
			field, err := w.renderField(record.Column(j), i, policy)
			if err != nil {
				return err
			}
			w.writeField(field)
		}
		if err := w.buf.WriteByte('\n'); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	return nil
}

func (w *CSVWriter) renderField(col arrow.Array, row int, policy convert.ColumnPolicy) (string, error) {
	v, err := convert.DecodeCell(col, row, policy.Type)
	if err != nil {
		return "", err
	}
	nv, err := w.norm.Normalize(v, policy.Name)
	if err != nil {
		return "", err
	}
	if nv.IsNull() {
		return "", nil
	}
	if policy.Action == convert.ActionJSONText {
		return string(convert.AppendJSON(nil, nv)), nil
	}
	return nv.Text(), nil
}

// writeField escapes the delimiter and the escape character with the escape
// character; CR and LF become \r and \n so one logical row is always one
// physical line.
func (w *CSVWriter) writeField(s string) {
	for i := 0; i < len(s); i++ {
		b := s[i]
		switch b {
		case w.delimiter, EscapeChar:
			w.buf.WriteByte(EscapeChar)
			w.buf.WriteByte(b)
		case '\n':
			w.buf.WriteByte(EscapeChar)
			w.buf.WriteByte('n')
		case '\r':
			w.buf.WriteByte(EscapeChar)
			w.buf.WriteByte('r')
		default:
			w.buf.WriteByte(b)
		}
	}
}

// Close flushes pending rows and closes the file.
func (w *CSVWriter) Close() error {
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
