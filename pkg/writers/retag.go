package writers

import (
	"fmt"
	"unicode/utf8"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/colcast/colcast/pkg/convert"
)

// retagRecord rebuilds a record against the projected target schema,
// converting binary columns to UTF-8 string columns. Columns the projection
// keeps as-is are shared with the source record, not copied. The caller owns
// the returned record and must release it.
func retagRecord(record arrow.Record, proj *convert.Projection, alloc memory.Allocator) (arrow.Record, error) {
	needsRetag := false
	for _, policy := range proj.Columns {
		if policy.Action == convert.ActionDecodeString {
			needsRetag = true
			break
		}
	}
	if !needsRetag {
		record.Retain()
		return record, nil
	}

	numCols := int(record.NumCols())
	cols := make([]arrow.Array, numCols)
	fields := make([]arrow.Field, numCols)
	var built []arrow.Array

	releaseBuilt := func() {
		for _, arr := range built {
			arr.Release()
		}
	}

	for j := 0; j < numCols; j++ {
		policy := proj.Columns[j]
		fields[j] = record.Schema().Field(j)
		if policy.Action != convert.ActionDecodeString {
			cols[j] = record.Column(j)
			continue
		}

		arr, err := binaryToString(record.Column(j), policy.Name, alloc)
		if err != nil {
			releaseBuilt()
			return nil, err
		}
		cols[j] = arr
		fields[j].Type = arrow.BinaryTypes.String
		built = append(built, arr)
	}

	// The output schema mirrors the source schema except for the re-tagged
	// binary columns, so pass-through columns keep their exact source types.
	out := array.NewRecord(arrow.NewSchema(fields, nil), cols, record.NumRows())
	releaseBuilt()
	return out, nil
}

func binaryToString(col arrow.Array, name string, alloc memory.Allocator) (arrow.Array, error) {
	builder := array.NewStringBuilder(alloc)
	defer builder.Release()
	builder.Reserve(col.Len())

	appendValue := func(row int, data []byte) error {
		if !utf8.Valid(data) {
			return fmt.Errorf("field %q row %d: %w", name, row, convert.ErrInvalidUTF8)
		}
		builder.Append(string(data))
		return nil
	}

	switch arr := col.(type) {
	case *array.Binary:
		for i := 0; i < arr.Len(); i++ {
			if arr.IsNull(i) {
				builder.AppendNull()
				continue
			}
			if err := appendValue(i, arr.Value(i)); err != nil {
				return nil, err
			}
		}
	case *array.LargeBinary:
		for i := 0; i < arr.Len(); i++ {
			if arr.IsNull(i) {
				builder.AppendNull()
				continue
			}
			if err := appendValue(i, arr.Value(i)); err != nil {
				return nil, err
			}
		}
	default:
		return nil, fmt.Errorf("field %q: cannot decode %s as string", name, col.DataType())
	}

	return builder.NewArray(), nil
}
