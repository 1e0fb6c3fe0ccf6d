package schema

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
)

// FromArrow converts an Arrow schema into the engine's descriptor form.
// A type outside the closed descriptor set is a configuration error: the
// whole file is rejected before any row is read.
func FromArrow(s *arrow.Schema) (Schema, error) {
	fields := make([]Field, s.NumFields())
	for i := 0; i < s.NumFields(); i++ {
		f := s.Field(i)
		desc, err := fromArrowType(f.Type)
		if err != nil {
			return Schema{}, fmt.Errorf("column %q: %w", f.Name, err)
		}
		fields[i] = Field{Name: f.Name, Type: desc}
	}
	return Schema{Fields: fields}, nil
}

func fromArrowType(dt arrow.DataType) (TypeDescriptor, error) {
	switch t := dt.(type) {
	case *arrow.BooleanType:
		return Scalar(KindBool), nil
	case *arrow.Int8Type:
		return Scalar(KindInt8), nil
	case *arrow.Int16Type:
		return Scalar(KindInt16), nil
	case *arrow.Int32Type:
		return Scalar(KindInt32), nil
	case *arrow.Int64Type:
		return Scalar(KindInt64), nil
	case *arrow.Float32Type:
		return Scalar(KindFloat32), nil
	case *arrow.Float64Type:
		return Scalar(KindFloat64), nil
	case *arrow.Decimal128Type:
		return Decimal(t.Precision, t.Scale), nil
	case *arrow.StringType, *arrow.LargeStringType:
		return Scalar(KindString), nil
	case *arrow.BinaryType, *arrow.LargeBinaryType:
		return Scalar(KindBinary), nil
	case *arrow.Date32Type, *arrow.Date64Type:
		return Scalar(KindDate), nil
	case *arrow.TimestampType:
		return Scalar(KindDatetime), nil
	case *arrow.ListType:
		elem, err := fromArrowType(t.Elem())
		if err != nil {
			return TypeDescriptor{}, err
		}
		return List(elem), nil
	case *arrow.LargeListType:
		elem, err := fromArrowType(t.Elem())
		if err != nil {
			return TypeDescriptor{}, err
		}
		return List(elem), nil
	case *arrow.FixedSizeListType:
		elem, err := fromArrowType(t.Elem())
		if err != nil {
			return TypeDescriptor{}, err
		}
		return List(elem), nil
	case *arrow.MapType:
		key, err := fromArrowType(t.KeyType())
		if err != nil {
			return TypeDescriptor{}, err
		}
		item, err := fromArrowType(t.ItemType())
		if err != nil {
			return TypeDescriptor{}, err
		}
		return Map(key, item), nil
	case *arrow.StructType:
		fields := make([]Field, t.NumFields())
		for i := 0; i < t.NumFields(); i++ {
			f := t.Field(i)
			desc, err := fromArrowType(f.Type)
			if err != nil {
				return TypeDescriptor{}, fmt.Errorf("struct field %q: %w", f.Name, err)
			}
			fields[i] = Field{Name: f.Name, Type: desc}
		}
		return Struct(fields...), nil
	default:
		return TypeDescriptor{}, fmt.Errorf("unsupported column type %s", dt)
	}
}

// ToArrow converts a descriptor schema back into an Arrow schema. All
// columns are nullable; the engine treats absence uniformly.
func ToArrow(s Schema) *arrow.Schema {
	fields := make([]arrow.Field, len(s.Fields))
	for i, f := range s.Fields {
		fields[i] = arrow.Field{Name: f.Name, Type: ToArrowType(f.Type), Nullable: true}
	}
	return arrow.NewSchema(fields, nil)
}

// ToArrowType converts a single descriptor to its Arrow data type.
func ToArrowType(t TypeDescriptor) arrow.DataType {
	switch t.Shape {
	case ShapeList:
		return arrow.ListOf(ToArrowType(*t.Elem))
	case ShapeMap:
		return arrow.MapOf(ToArrowType(*t.Key), ToArrowType(*t.Item))
	case ShapeStruct:
		fields := make([]arrow.Field, len(t.Fields))
		for i, f := range t.Fields {
			fields[i] = arrow.Field{Name: f.Name, Type: ToArrowType(f.Type), Nullable: true}
		}
		return arrow.StructOf(fields...)
	default:
		switch t.Scalar {
		case KindBool:
			return arrow.FixedWidthTypes.Boolean
		case KindInt8:
			return arrow.PrimitiveTypes.Int8
		case KindInt16:
			return arrow.PrimitiveTypes.Int16
		case KindInt32:
			return arrow.PrimitiveTypes.Int32
		case KindInt64:
			return arrow.PrimitiveTypes.Int64
		case KindFloat32:
			return arrow.PrimitiveTypes.Float32
		case KindFloat64:
			return arrow.PrimitiveTypes.Float64
		case KindDecimal:
			return &arrow.Decimal128Type{Precision: t.Precision, Scale: t.Scale}
		case KindString:
			return arrow.BinaryTypes.String
		case KindBinary:
			return arrow.BinaryTypes.Binary
		case KindDate:
			return arrow.FixedWidthTypes.Date32
		case KindDatetime:
			return &arrow.TimestampType{Unit: arrow.Microsecond}
		default:
			return arrow.BinaryTypes.String
		}
	}
}
