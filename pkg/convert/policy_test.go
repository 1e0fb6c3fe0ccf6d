package convert

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colcast/colcast/pkg/schema"
)

func wideSchema() schema.Schema {
	return schema.Schema{Fields: []schema.Field{
		{Name: "id", Type: schema.Scalar(schema.KindInt64)},
		{Name: "name", Type: schema.Scalar(schema.KindString)},
		{Name: "payload", Type: schema.Scalar(schema.KindBinary)},
		{Name: "tags", Type: schema.List(schema.Scalar(schema.KindString))},
		{Name: "props", Type: schema.Map(schema.Scalar(schema.KindString), schema.Scalar(schema.KindInt64))},
		{Name: "device", Type: schema.Struct(schema.Field{Name: "os", Type: schema.Scalar(schema.KindString)})},
	}}
}

func TestParseFormat(t *testing.T) {
	for _, name := range []string{"csv", "jsonl", "arrow", "parquet"} {
		f, err := ParseFormat(name)
		require.NoError(t, err)
		assert.Equal(t, name, string(f))
	}

	_, err := ParseFormat("orc")
	assert.Error(t, err)
}

func TestFormatExtensions(t *testing.T) {
	assert.Equal(t, ".csv", FormatCSV.Extension())
	assert.Equal(t, ".jsonl", FormatJSONL.Extension())
	assert.Equal(t, ".arrow", FormatArrow.Extension())
	assert.Equal(t, ".parquet", FormatParquet.Extension())
}

func TestProjectPreservesColumnOrder(t *testing.T) {
	src := wideSchema()
	for _, format := range []Format{FormatCSV, FormatJSONL, FormatArrow, FormatParquet} {
		proj, err := Project(src, format)
		require.NoError(t, err)
		require.Len(t, proj.Columns, len(src.Fields))
		for i, f := range src.Fields {
			assert.Equal(t, f.Name, proj.Columns[i].Name)
			assert.Equal(t, f.Name, proj.Target.Field(i).Name)
		}
	}
}

func TestProjectCSVLowering(t *testing.T) {
	proj, err := Project(wideSchema(), FormatCSV)
	require.NoError(t, err)

	actions := map[string]Action{}
	for _, c := range proj.Columns {
		actions[c.Name] = c.Action
	}

	assert.Equal(t, ActionKeep, actions["id"])
	assert.Equal(t, ActionKeep, actions["name"])
	assert.Equal(t, ActionDecodeString, actions["payload"])
	assert.Equal(t, ActionJSONText, actions["tags"])
	assert.Equal(t, ActionNull, actions["props"])
	assert.Equal(t, ActionNull, actions["device"])

	// Lowered columns surface as string in the target schema.
	assert.Equal(t, arrow.BinaryTypes.String, proj.Target.Field(3).Type)
	assert.Equal(t, arrow.PrimitiveTypes.Int64, proj.Target.Field(0).Type)
}

func TestProjectJSONLAndColumnarKeepNested(t *testing.T) {
	for _, format := range []Format{FormatJSONL, FormatArrow, FormatParquet} {
		proj, err := Project(wideSchema(), format)
		require.NoError(t, err)

		for _, c := range proj.Columns {
			switch c.Name {
			case "payload":
				assert.Equal(t, ActionDecodeString, c.Action)
			default:
				assert.Equal(t, ActionKeep, c.Action, "column %s format %s", c.Name, format)
			}
		}
	}
}

func TestFormatColumnar(t *testing.T) {
	assert.False(t, FormatCSV.Columnar())
	assert.False(t, FormatJSONL.Columnar())
	assert.True(t, FormatArrow.Columnar())
	assert.True(t, FormatParquet.Columnar())
}
