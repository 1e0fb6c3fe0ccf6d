// Package generate produces synthetic wide-table Parquet datasets used to
// exercise the conversion engine at realistic column counts.
package generate

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
)

func field(name string, typ arrow.DataType) arrow.Field {
	return arrow.Field{Name: name, Type: typ, Nullable: true}
}

func required(name string, typ arrow.DataType) arrow.Field {
	return arrow.Field{Name: name, Type: typ, Nullable: false}
}

// EventProfile is a ~200 column event-style table: identifier and date
// columns up front, banks of numeric/text metrics, then nested list, map and
// struct columns, and a handful of JSON-in-string payloads at the end.
func EventProfile() *arrow.Schema {
	fields := []arrow.Field{
		required("record_id", arrow.BinaryTypes.String),
		required("user_id", arrow.PrimitiveTypes.Int64),
		field("order_id", arrow.PrimitiveTypes.Int64),
		required("channel_code", arrow.BinaryTypes.String),
		required("event_date", arrow.FixedWidthTypes.Date32),
		field("event_time", &arrow.TimestampType{Unit: arrow.Microsecond}),
	}

	for i := 1; i <= 30; i++ {
		fields = append(fields, field(fmt.Sprintf("int_metric%d", i), arrow.PrimitiveTypes.Int32))
	}
	for i := 1; i <= 20; i++ {
		fields = append(fields, field(fmt.Sprintf("bigint_metric%d", i), arrow.PrimitiveTypes.Int64))
	}
	// Values routinely exceed the float64 safe-integer range, which is what
	// the force-string default on this column is for.
	fields = append(fields, field("largeint_metric", arrow.PrimitiveTypes.Int64))

	fields = append(fields,
		field("decimal_metric1", &arrow.Decimal128Type{Precision: 10, Scale: 4}),
		field("decimal_metric2", &arrow.Decimal128Type{Precision: 15, Scale: 6}),
		field("decimal_metric3", &arrow.Decimal128Type{Precision: 20, Scale: 8}),
		field("decimal_metric4", &arrow.Decimal128Type{Precision: 8, Scale: 2}),
		field("decimal_metric5", &arrow.Decimal128Type{Precision: 12, Scale: 0}),
	)

	for i := 1; i <= 10; i++ {
		fields = append(fields, field(fmt.Sprintf("float_metric%d", i), arrow.PrimitiveTypes.Float32))
	}
	for i := 1; i <= 10; i++ {
		fields = append(fields, field(fmt.Sprintf("double_metric%d", i), arrow.PrimitiveTypes.Float64))
	}
	for i := 1; i <= 10; i++ {
		fields = append(fields, field(fmt.Sprintf("flag%d", i), arrow.FixedWidthTypes.Boolean))
	}
	for i := 1; i <= 40; i++ {
		fields = append(fields, field(fmt.Sprintf("varchar_col%d", i), arrow.BinaryTypes.String))
	}
	for i := 1; i <= 20; i++ {
		fields = append(fields, field(fmt.Sprintf("string_col%d", i), arrow.BinaryTypes.String))
	}
	for i := 1; i <= 10; i++ {
		fields = append(fields, field(fmt.Sprintf("binary_col%d", i), arrow.BinaryTypes.Binary))
	}
	for i := 1; i <= 8; i++ {
		fields = append(fields, field(fmt.Sprintf("date_col%d", i), arrow.FixedWidthTypes.Date32))
	}
	for i := 1; i <= 8; i++ {
		fields = append(fields, field(fmt.Sprintf("datetime_col%d", i), &arrow.TimestampType{Unit: arrow.Microsecond}))
	}

	fields = append(fields,
		field("product_id_list", arrow.ListOf(arrow.PrimitiveTypes.Int64)),
		field("tag_list", arrow.ListOf(arrow.BinaryTypes.String)),
		field("score_list", arrow.ListOf(arrow.PrimitiveTypes.Float64)),
		field("click_list", arrow.ListOf(arrow.PrimitiveTypes.Int32)),
		field("amount_map", arrow.MapOf(arrow.BinaryTypes.String, arrow.PrimitiveTypes.Float64)),
		field("properties_map", arrow.MapOf(arrow.BinaryTypes.String, arrow.BinaryTypes.String)),
		field("status_map", arrow.MapOf(arrow.BinaryTypes.String, arrow.PrimitiveTypes.Int64)),
		field("device_info", arrow.StructOf(
			field("os", arrow.BinaryTypes.String),
			field("model", arrow.BinaryTypes.String),
			field("screen_width", arrow.PrimitiveTypes.Int32),
		)),
		field("session_info", arrow.StructOf(
			field("session_id", arrow.BinaryTypes.String),
			field("duration_sec", arrow.PrimitiveTypes.Int64),
			field("page_count", arrow.PrimitiveTypes.Int32),
		)),
		field("location_info", arrow.StructOf(
			field("country", arrow.BinaryTypes.String),
			field("city", arrow.BinaryTypes.String),
			field("latitude", arrow.PrimitiveTypes.Float64),
			field("longitude", arrow.PrimitiveTypes.Float64),
		)),
	)

	for i := 1; i <= 5; i++ {
		fields = append(fields, field(fmt.Sprintf("ext_json%d", i), arrow.BinaryTypes.String))
	}

	return arrow.NewSchema(fields, nil)
}

// WideProfile is an n-column stress table cycling through the scalar types,
// for exercising conversions at arbitrary widths.
func WideProfile(columns int) *arrow.Schema {
	fields := []arrow.Field{
		required("user_id", arrow.PrimitiveTypes.Int64),
		required("event_date", arrow.FixedWidthTypes.Date32),
	}

	types := []struct {
		prefix string
		typ    arrow.DataType
	}{
		{"int_col", arrow.PrimitiveTypes.Int32},
		{"bigint_col", arrow.PrimitiveTypes.Int64},
		{"double_col", arrow.PrimitiveTypes.Float64},
		{"decimal_col", &arrow.Decimal128Type{Precision: 18, Scale: 4}},
		{"boolean_col", arrow.FixedWidthTypes.Boolean},
		{"varchar_col", arrow.BinaryTypes.String},
		{"date_col", arrow.FixedWidthTypes.Date32},
		{"datetime_col", &arrow.TimestampType{Unit: arrow.Microsecond}},
	}

	for i := len(fields); i < columns; i++ {
		t := types[i%len(types)]
		fields = append(fields, field(fmt.Sprintf("%s_%d", t.prefix, i), t.typ))
	}

	return arrow.NewSchema(fields, nil)
}

// ProfileSchema resolves a profile name. The wide profile takes its column
// count from the columns argument; the event profile ignores it.
func ProfileSchema(name string, columns int) (*arrow.Schema, error) {
	switch name {
	case "event", "":
		return EventProfile(), nil
	case "wide":
		if columns <= 2 {
			columns = 1000
		}
		return WideProfile(columns), nil
	default:
		return nil, fmt.Errorf("unknown generation profile %q (want event or wide)", name)
	}
}
