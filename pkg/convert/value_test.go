package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppendJSONScalars(t *testing.T) {
	assert.Equal(t, "null", string(AppendJSON(nil, Null)))
	assert.Equal(t, "true", string(AppendJSON(nil, BoolValue(true))))
	assert.Equal(t, "false", string(AppendJSON(nil, BoolValue(false))))
	assert.Equal(t, "-42", string(AppendJSON(nil, IntValue(-42))))
	assert.Equal(t, "1.5", string(AppendJSON(nil, FloatValue(1.5))))
	assert.Equal(t, `"hi"`, string(AppendJSON(nil, TextValue("hi"))))
}

func TestAppendJSONDecimalExactness(t *testing.T) {
	// The exact base-10 text is emitted as a raw number token: no trailing
	// zero stripping, no scientific notation.
	assert.Equal(t, "12345.6700", string(AppendJSON(nil, DecimalValue("12345.6700"))))
	assert.Equal(t, "-0.00000001", string(AppendJSON(nil, DecimalValue("-0.00000001"))))
}

func TestAppendJSONKeyOrder(t *testing.T) {
	v := RecordValue([]FieldValue{
		{Name: "zebra", Val: IntValue(1)},
		{Name: "apple", Val: IntValue(2)},
	})
	assert.Equal(t, `{"zebra":1,"apple":2}`, string(AppendJSON(nil, v)))

	p := PairsValue([]Pair{
		{Key: TextValue("b"), Val: IntValue(1)},
		{Key: TextValue("a"), Val: IntValue(2)},
	})
	assert.Equal(t, `{"b":1,"a":2}`, string(AppendJSON(nil, p)))
}

func TestAppendJSONNesting(t *testing.T) {
	v := ListValue([]Value{
		IntValue(1),
		RecordValue([]FieldValue{{Name: "k", Val: Null}}),
	})
	assert.Equal(t, `[1,{"k":null}]`, string(AppendJSON(nil, v)))
}

func TestAppendJSONStringEscaping(t *testing.T) {
	assert.Equal(t, `"a\"b"`, string(AppendJSON(nil, TextValue(`a"b`))))
	assert.Equal(t, `"a\\b"`, string(AppendJSON(nil, TextValue(`a\b`))))
	assert.Equal(t, `"a\nb\rc\td"`, string(AppendJSON(nil, TextValue("a\nb\rc\td"))))
	assert.Equal(t, "\"a\\u0001b\"", string(AppendJSON(nil, TextValue("a\x01b"))))
	// Non-ASCII passes through as UTF-8, not \u escapes.
	assert.Equal(t, `"渠道"`, string(AppendJSON(nil, TextValue("渠道"))))
}

func TestValueText(t *testing.T) {
	assert.Equal(t, "", Null.Text())
	assert.Equal(t, "true", BoolValue(true).Text())
	assert.Equal(t, "123", IntValue(123).Text())
	assert.Equal(t, "1.25", FloatValue(1.25).Text())
	assert.Equal(t, "12345.6700", DecimalValue("12345.6700").Text())
	assert.Equal(t, "abc", TextValue("abc").Text())
}
