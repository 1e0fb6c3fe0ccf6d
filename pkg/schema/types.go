// Package schema defines the closed type system used by the conversion
// engine. Every source column is described by a TypeDescriptor; a descriptor
// fully determines how values in that column are decoded and lowered.
package schema

import "fmt"

// ScalarKind enumerates the scalar types the engine understands.
type ScalarKind int

const (
	KindBool ScalarKind = iota
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindFloat32
	KindFloat64
	KindDecimal
	KindString
	KindBinary
	KindDate
	KindDatetime
)

// String returns a readable name for the scalar kind.
func (k ScalarKind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt8:
		return "int8"
	case KindInt16:
		return "int16"
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	case KindDecimal:
		return "decimal"
	case KindString:
		return "string"
	case KindBinary:
		return "binary"
	case KindDate:
		return "date"
	case KindDatetime:
		return "datetime"
	default:
		return fmt.Sprintf("scalar(%d)", int(k))
	}
}

// Shape is the structural discriminator of a TypeDescriptor.
type Shape int

const (
	ShapeScalar Shape = iota
	ShapeList
	ShapeMap
	ShapeStruct
)

// TypeDescriptor is a tagged union describing a column type. Exactly the
// fields relevant to Shape are populated; descriptors are immutable once a
// Schema is constructed.
type TypeDescriptor struct {
	Shape Shape

	// Scalar descriptors.
	Scalar    ScalarKind
	Precision int32 // decimal only
	Scale     int32 // decimal only

	// List descriptors.
	Elem *TypeDescriptor

	// Map descriptors.
	Key  *TypeDescriptor
	Item *TypeDescriptor

	// Struct descriptors.
	Fields []Field
}

// Field is a named member of a Schema or a struct descriptor.
type Field struct {
	Name string
	Type TypeDescriptor
}

// Schema is an ordered sequence of named, typed columns.
type Schema struct {
	Fields []Field
}

// Names returns the column names in declaration order.
func (s Schema) Names() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

func (t TypeDescriptor) String() string {
	switch t.Shape {
	case ShapeScalar:
		if t.Scalar == KindDecimal {
			return fmt.Sprintf("decimal(%d,%d)", t.Precision, t.Scale)
		}
		return t.Scalar.String()
	case ShapeList:
		return fmt.Sprintf("list<%s>", t.Elem)
	case ShapeMap:
		return fmt.Sprintf("map<%s,%s>", t.Key, t.Item)
	case ShapeStruct:
		return fmt.Sprintf("struct{%d fields}", len(t.Fields))
	default:
		return fmt.Sprintf("shape(%d)", int(t.Shape))
	}
}

// Scalar builds a scalar descriptor.
func Scalar(kind ScalarKind) TypeDescriptor {
	return TypeDescriptor{Shape: ShapeScalar, Scalar: kind}
}

// Decimal builds a fixed-point decimal descriptor.
func Decimal(precision, scale int32) TypeDescriptor {
	return TypeDescriptor{Shape: ShapeScalar, Scalar: KindDecimal, Precision: precision, Scale: scale}
}

// List builds a list descriptor.
func List(elem TypeDescriptor) TypeDescriptor {
	return TypeDescriptor{Shape: ShapeList, Elem: &elem}
}

// Map builds a map descriptor.
func Map(key, item TypeDescriptor) TypeDescriptor {
	return TypeDescriptor{Shape: ShapeMap, Key: &key, Item: &item}
}

// Struct builds a struct descriptor from ordered fields.
func Struct(fields ...Field) TypeDescriptor {
	return TypeDescriptor{Shape: ShapeStruct, Fields: fields}
}
