package convert

import (
	"fmt"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/colcast/colcast/pkg/schema"
)

// DecodeCell reads one cell out of an Arrow column into its tagged
// intermediate form. The descriptor must match the column's declared type;
// a mismatch is a programmer error surfaced as an error rather than a panic.
func DecodeCell(col arrow.Array, row int, desc schema.TypeDescriptor) (Value, error) {
	if col.IsNull(row) {
		return Null, nil
	}

	switch arr := col.(type) {
	case *array.Boolean:
		return BoolValue(arr.Value(row)), nil
	case *array.Int8:
		return IntValue(int64(arr.Value(row))), nil
	case *array.Int16:
		return IntValue(int64(arr.Value(row))), nil
	case *array.Int32:
		return IntValue(int64(arr.Value(row))), nil
	case *array.Int64:
		return IntValue(arr.Value(row)), nil
	case *array.Float32:
		return FloatValue(float64(arr.Value(row))), nil
	case *array.Float64:
		return FloatValue(arr.Value(row)), nil
	case *array.Decimal128:
		t := arr.DataType().(*arrow.Decimal128Type)
		return DecimalValue(arr.Value(row).ToString(t.Scale)), nil
	case *array.String:
		return TextValue(arr.Value(row)), nil
	case *array.LargeString:
		return TextValue(arr.Value(row)), nil
	case *array.Binary:
		return BytesValue(arr.Value(row)), nil
	case *array.LargeBinary:
		return BytesValue(arr.Value(row)), nil
	case *array.Date32:
		return TextValue(arr.Value(row).ToTime().Format("2006-01-02")), nil
	case *array.Date64:
		return TextValue(arr.Value(row).ToTime().Format("2006-01-02")), nil
	case *array.Timestamp:
		unit := arr.DataType().(*arrow.TimestampType).Unit
		return TextValue(formatDatetime(arr.Value(row).ToTime(unit))), nil
	case *array.Map:
		return decodeMap(arr, row, desc)
	case *array.List:
		start, end := arr.ValueOffsets(row)
		return decodeListRange(arr.ListValues(), start, end, desc)
	case *array.LargeList:
		start, end := arr.ValueOffsets(row)
		return decodeListRange(arr.ListValues(), start, end, desc)
	case *array.FixedSizeList:
		n := int64(arr.DataType().(*arrow.FixedSizeListType).Len())
		start := int64(row) * n
		return decodeListRange(arr.ListValues(), start, start+n, desc)
	case *array.Struct:
		return decodeStruct(arr, row, desc)
	default:
		return Null, fmt.Errorf("cannot decode column of type %s", col.DataType())
	}
}

func decodeListRange(values arrow.Array, start, end int64, desc schema.TypeDescriptor) (Value, error) {
	elemDesc := schema.Scalar(schema.KindString)
	if desc.Elem != nil {
		elemDesc = *desc.Elem
	}
	out := make([]Value, 0, end-start)
	for i := start; i < end; i++ {
		v, err := DecodeCell(values, int(i), elemDesc)
		if err != nil {
			return Null, err
		}
		out = append(out, v)
	}
	return ListValue(out), nil
}

func decodeMap(arr *array.Map, row int, desc schema.TypeDescriptor) (Value, error) {
	keyDesc := schema.Scalar(schema.KindString)
	itemDesc := schema.Scalar(schema.KindString)
	if desc.Key != nil {
		keyDesc = *desc.Key
	}
	if desc.Item != nil {
		itemDesc = *desc.Item
	}
	start, end := arr.ValueOffsets(row)
	keys, items := arr.Keys(), arr.Items()
	pairs := make([]Pair, 0, end-start)
	for i := start; i < end; i++ {
		k, err := DecodeCell(keys, int(i), keyDesc)
		if err != nil {
			return Null, err
		}
		v, err := DecodeCell(items, int(i), itemDesc)
		if err != nil {
			return Null, err
		}
		pairs = append(pairs, Pair{Key: k, Val: v})
	}
	return PairsValue(pairs), nil
}

func decodeStruct(arr *array.Struct, row int, desc schema.TypeDescriptor) (Value, error) {
	fields := make([]FieldValue, len(desc.Fields))
	for j, f := range desc.Fields {
		v, err := DecodeCell(arr.Field(j), row, f.Type)
		if err != nil {
			return Null, err
		}
		fields[j] = FieldValue{Name: f.Name, Val: v}
	}
	return RecordValue(fields), nil
}

// formatDatetime renders a timestamp in its canonical ISO-8601 text form,
// with sub-second digits only when present.
func formatDatetime(t time.Time) string {
	if t.Nanosecond() == 0 {
		return t.Format("2006-01-02T15:04:05")
	}
	return t.Format("2006-01-02T15:04:05.000000")
}
