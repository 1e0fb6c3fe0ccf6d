package schema

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromArrowScalars(t *testing.T) {
	s := arrow.NewSchema([]arrow.Field{
		{Name: "b", Type: arrow.FixedWidthTypes.Boolean, Nullable: true},
		{Name: "i", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
		{Name: "f", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
		{Name: "d", Type: &arrow.Decimal128Type{Precision: 20, Scale: 8}, Nullable: true},
		{Name: "s", Type: arrow.BinaryTypes.String, Nullable: true},
		{Name: "raw", Type: arrow.BinaryTypes.Binary, Nullable: true},
		{Name: "day", Type: arrow.FixedWidthTypes.Date32, Nullable: true},
		{Name: "at", Type: &arrow.TimestampType{Unit: arrow.Microsecond}, Nullable: true},
	}, nil)

	got, err := FromArrow(s)
	require.NoError(t, err)
	require.Len(t, got.Fields, 8)

	assert.Equal(t, Scalar(KindBool), got.Fields[0].Type)
	assert.Equal(t, Scalar(KindInt64), got.Fields[1].Type)
	assert.Equal(t, Scalar(KindFloat64), got.Fields[2].Type)
	assert.Equal(t, Decimal(20, 8), got.Fields[3].Type)
	assert.Equal(t, Scalar(KindString), got.Fields[4].Type)
	assert.Equal(t, Scalar(KindBinary), got.Fields[5].Type)
	assert.Equal(t, Scalar(KindDate), got.Fields[6].Type)
	assert.Equal(t, Scalar(KindDatetime), got.Fields[7].Type)
	assert.Equal(t, []string{"b", "i", "f", "d", "s", "raw", "day", "at"}, got.Names())
}

func TestFromArrowNested(t *testing.T) {
	s := arrow.NewSchema([]arrow.Field{
		{Name: "tags", Type: arrow.ListOf(arrow.BinaryTypes.String), Nullable: true},
		{Name: "props", Type: arrow.MapOf(arrow.BinaryTypes.String, arrow.PrimitiveTypes.Int64), Nullable: true},
		{Name: "device", Type: arrow.StructOf(
			arrow.Field{Name: "os", Type: arrow.BinaryTypes.String, Nullable: true},
			arrow.Field{Name: "width", Type: arrow.PrimitiveTypes.Int32, Nullable: true},
		), Nullable: true},
	}, nil)

	got, err := FromArrow(s)
	require.NoError(t, err)

	assert.Equal(t, List(Scalar(KindString)), got.Fields[0].Type)
	assert.Equal(t, Map(Scalar(KindString), Scalar(KindInt64)), got.Fields[1].Type)

	device := got.Fields[2].Type
	require.Equal(t, ShapeStruct, device.Shape)
	require.Len(t, device.Fields, 2)
	assert.Equal(t, "os", device.Fields[0].Name)
	assert.Equal(t, Scalar(KindInt32), device.Fields[1].Type)
}

func TestFromArrowRejectsUnsupported(t *testing.T) {
	s := arrow.NewSchema([]arrow.Field{
		{Name: "u", Type: arrow.PrimitiveTypes.Uint64, Nullable: true},
	}, nil)

	_, err := FromArrow(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "u")
}

func TestClassify(t *testing.T) {
	assert.Equal(t, CategoryScalar, Classify(Scalar(KindInt64)))
	assert.Equal(t, CategoryScalar, Classify(Decimal(10, 2)))
	assert.Equal(t, CategoryBinary, Classify(Scalar(KindBinary)))
	assert.Equal(t, CategoryList, Classify(List(Scalar(KindInt64))))
	assert.Equal(t, CategoryMap, Classify(Map(Scalar(KindString), Scalar(KindInt64))))
	assert.Equal(t, CategoryStruct, Classify(Struct(Field{Name: "a", Type: Scalar(KindBool)})))
}

func TestIsNested(t *testing.T) {
	assert.False(t, IsNested(Scalar(KindString)))
	assert.False(t, IsNested(List(Scalar(KindString))))
	assert.True(t, IsNested(Map(Scalar(KindString), Scalar(KindString))))
	assert.True(t, IsNested(Struct()))
}

func TestToArrowRoundTrip(t *testing.T) {
	src := Schema{Fields: []Field{
		{Name: "id", Type: Scalar(KindInt64)},
		{Name: "amount", Type: Decimal(12, 2)},
		{Name: "day", Type: Scalar(KindDate)},
		{Name: "tags", Type: List(Scalar(KindString))},
	}}

	arrowSchema := ToArrow(src)
	require.Equal(t, 4, arrowSchema.NumFields())

	back, err := FromArrow(arrowSchema)
	require.NoError(t, err)
	assert.Equal(t, src, back)
}

func TestTypeDescriptorString(t *testing.T) {
	assert.Equal(t, "int64", Scalar(KindInt64).String())
	assert.Equal(t, "decimal(10,2)", Decimal(10, 2).String())
	assert.Equal(t, "list<string>", List(Scalar(KindString)).String())
	assert.Equal(t, "map<string,int64>", Map(Scalar(KindString), Scalar(KindInt64)).String())
}
