package convert

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/colcast/colcast/pkg/schema"
)

// Format identifies a conversion target.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatJSONL   Format = "jsonl"
	FormatArrow   Format = "arrow"
	FormatParquet Format = "parquet"
)

// ParseFormat validates a target format name. An unknown name is a
// configuration error reported before any file is touched.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV, FormatJSONL, FormatArrow, FormatParquet:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unrecognized target format %q (want csv, jsonl, arrow or parquet)", s)
	}
}

// Extension returns the canonical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case FormatCSV:
		return ".csv"
	case FormatJSONL:
		return ".jsonl"
	case FormatArrow:
		return ".arrow"
	default:
		return ".parquet"
	}
}

// Columnar reports whether the format re-encodes into a typed column-major
// layout rather than row-oriented text.
func (f Format) Columnar() bool {
	return f == FormatArrow || f == FormatParquet
}

// Action is the per-column lowering a target format applies.
type Action int

const (
	// ActionKeep passes the value through in its normalized form.
	ActionKeep Action = iota
	// ActionNull elides the column's values entirely; the column itself is
	// retained so positional compatibility with existing readers survives.
	ActionNull
	// ActionJSONText lowers the value to compact JSON text.
	ActionJSONText
	// ActionDecodeString decodes a binary payload to UTF-8 text and, for
	// columnar targets, re-tags the column type from binary to string.
	ActionDecodeString
)

// String returns a readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionKeep:
		return "keep"
	case ActionNull:
		return "null"
	case ActionJSONText:
		return "json-text"
	case ActionDecodeString:
		return "decode-string"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// ColumnPolicy binds one source column to its lowering action.
type ColumnPolicy struct {
	Name   string
	Type   schema.TypeDescriptor
	Action Action
}

// Projection is the immutable per-job output of schema projection: the
// target schema plus one policy per source column, in source column order.
type Projection struct {
	Source  schema.Schema
	Target  *arrow.Schema
	Format  Format
	Columns []ColumnPolicy
}

// Project computes the target schema and per-column policy for one
// conversion job. Column order always equals source order; no column is
// dropped, only lowered.
func Project(src schema.Schema, format Format) (*Projection, error) {
	switch format {
	case FormatCSV, FormatJSONL, FormatArrow, FormatParquet:
	default:
		return nil, fmt.Errorf("unrecognized target format %q", format)
	}

	columns := make([]ColumnPolicy, len(src.Fields))
	targetFields := make([]arrow.Field, len(src.Fields))
	for i, f := range src.Fields {
		action := lowering(f.Type, format)
		columns[i] = ColumnPolicy{Name: f.Name, Type: f.Type, Action: action}
		targetFields[i] = arrow.Field{Name: f.Name, Type: targetType(f.Type, action), Nullable: true}
	}

	return &Projection{
		Source:  src,
		Target:  arrow.NewSchema(targetFields, nil),
		Format:  format,
		Columns: columns,
	}, nil
}

func lowering(t schema.TypeDescriptor, format Format) Action {
	category := schema.Classify(t)
	switch format {
	case FormatCSV:
		switch category {
		case schema.CategoryMap, schema.CategoryStruct:
			return ActionNull
		case schema.CategoryList:
			return ActionJSONText
		case schema.CategoryBinary:
			return ActionDecodeString
		default:
			return ActionKeep
		}
	case FormatJSONL:
		if category == schema.CategoryBinary {
			return ActionDecodeString
		}
		return ActionKeep
	default: // arrow, parquet re-encode
		if category == schema.CategoryBinary {
			return ActionDecodeString
		}
		return ActionKeep
	}
}

func targetType(t schema.TypeDescriptor, action Action) arrow.DataType {
	switch action {
	case ActionNull, ActionJSONText, ActionDecodeString:
		return arrow.BinaryTypes.String
	default:
		return schema.ToArrowType(t)
	}
}
