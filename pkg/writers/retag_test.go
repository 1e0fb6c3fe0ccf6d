package writers

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colcast/colcast/pkg/convert"
	"github.com/colcast/colcast/pkg/schema"
)

func binaryRecord(t *testing.T, payloads [][]byte) (arrow.Record, *convert.Projection) {
	t.Helper()

	arrowSchema := arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
		{Name: "payload", Type: arrow.BinaryTypes.Binary, Nullable: true},
	}, nil)

	b := array.NewRecordBuilder(memory.NewGoAllocator(), arrowSchema)
	defer b.Release()

	ids := b.Field(0).(*array.Int64Builder)
	bin := b.Field(1).(*array.BinaryBuilder)
	for i, p := range payloads {
		ids.Append(int64(i))
		if p == nil {
			bin.AppendNull()
		} else {
			bin.Append(p)
		}
	}

	record := b.NewRecord()
	t.Cleanup(record.Release)

	src, err := schema.FromArrow(arrowSchema)
	require.NoError(t, err)
	proj, err := convert.Project(src, convert.FormatParquet)
	require.NoError(t, err)
	return record, proj
}

func TestRetagRecordConvertsBinaryToString(t *testing.T) {
	record, proj := binaryRecord(t, [][]byte{[]byte("hello"), nil, []byte("世界")})

	out, err := retagRecord(record, proj, memory.NewGoAllocator())
	require.NoError(t, err)
	defer out.Release()

	assert.Equal(t, arrow.BinaryTypes.String, out.Schema().Field(1).Type)
	// Pass-through columns keep their source type.
	assert.Equal(t, arrow.PrimitiveTypes.Int64, out.Schema().Field(0).Type)

	col := out.Column(1).(*array.String)
	assert.Equal(t, "hello", col.Value(0))
	assert.True(t, col.IsNull(1))
	assert.Equal(t, "世界", col.Value(2))
}

func TestRetagRecordRejectsInvalidUTF8(t *testing.T) {
	record, proj := binaryRecord(t, [][]byte{{0xff, 0xfe}})

	_, err := retagRecord(record, proj, memory.NewGoAllocator())
	require.Error(t, err)
	assert.ErrorIs(t, err, convert.ErrInvalidUTF8)
	assert.Contains(t, err.Error(), "payload")
}

func TestRetagRecordPassthroughWithoutBinary(t *testing.T) {
	arrowSchema := arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
	}, nil)

	b := array.NewRecordBuilder(memory.NewGoAllocator(), arrowSchema)
	defer b.Release()
	b.Field(0).(*array.Int64Builder).Append(1)
	record := b.NewRecord()
	defer record.Release()

	src, err := schema.FromArrow(arrowSchema)
	require.NoError(t, err)
	proj, err := convert.Project(src, convert.FormatArrow)
	require.NoError(t, err)

	out, err := retagRecord(record, proj, memory.NewGoAllocator())
	require.NoError(t, err)
	defer out.Release()

	assert.Same(t, record.Column(0), out.Column(0))
}
