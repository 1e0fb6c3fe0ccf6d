// Package convert implements the columnar schema conversion engine: decoding
// source cells into tagged intermediate values, normalizing them under a
// per-job policy, and projecting source schemas onto target formats.
package convert

import (
	"strconv"
	"unicode/utf8"
)

// ValueKind tags an intermediate Value.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindBool
	KindInt
	KindFloat
	KindDecimal // exact base-10 text, never a binary float
	KindText
	KindBytes
	KindList
	KindPairs // ordered key/value pairs decoded from a map column
	KindRecord
)

// Pair is one ordered key/value entry of a map value.
type Pair struct {
	Key Value
	Val Value
}

// FieldValue is one named member of a record value.
type FieldValue struct {
	Name string
	Val  Value
}

// Value is the tagged intermediate representation a cell passes through
// between decoding and serialization. Values are transient per-row buffers;
// they are never persisted.
type Value struct {
	Kind   ValueKind
	Bool   bool
	Int    int64
	Float  float64
	Str    string // KindDecimal and KindText
	Bytes  []byte
	List   []Value
	Pairs  []Pair
	Fields []FieldValue
}

// Null is the shared null value.
var Null = Value{Kind: KindNull}

// BoolValue wraps a boolean.
func BoolValue(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// IntValue wraps a 64-bit integer.
func IntValue(i int64) Value { return Value{Kind: KindInt, Int: i} }

// FloatValue wraps a 64-bit float.
func FloatValue(f float64) Value { return Value{Kind: KindFloat, Float: f} }

// DecimalValue wraps the exact base-10 text of a fixed-point decimal.
func DecimalValue(s string) Value { return Value{Kind: KindDecimal, Str: s} }

// TextValue wraps a string.
func TextValue(s string) Value { return Value{Kind: KindText, Str: s} }

// BytesValue wraps a raw binary payload.
func BytesValue(b []byte) Value { return Value{Kind: KindBytes, Bytes: b} }

// ListValue wraps an ordered list.
func ListValue(vs []Value) Value { return Value{Kind: KindList, List: vs} }

// PairsValue wraps ordered key/value pairs.
func PairsValue(ps []Pair) Value { return Value{Kind: KindPairs, Pairs: ps} }

// RecordValue wraps ordered named fields.
func RecordValue(fs []FieldValue) Value { return Value{Kind: KindRecord, Fields: fs} }

// IsNull reports whether the value is the null value.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// AppendJSON appends the compact JSON encoding of v to dst. Key order of
// pairs and records is preserved. Decimal values are emitted as exact number
// tokens; the caller is responsible for lowering values (NaN, unsafe
// integers, raw bytes) before serialization.
func AppendJSON(dst []byte, v Value) []byte {
	switch v.Kind {
	case KindNull:
		return append(dst, "null"...)
	case KindBool:
		if v.Bool {
			return append(dst, "true"...)
		}
		return append(dst, "false"...)
	case KindInt:
		return strconv.AppendInt(dst, v.Int, 10)
	case KindFloat:
		return strconv.AppendFloat(dst, v.Float, 'g', -1, 64)
	case KindDecimal:
		return append(dst, v.Str...)
	case KindText:
		return appendJSONString(dst, v.Str)
	case KindBytes:
		// Bytes should have been lowered to text by normalization; fall
		// back to a lossless-if-UTF-8 string encoding.
		return appendJSONString(dst, string(v.Bytes))
	case KindList:
		dst = append(dst, '[')
		for i, e := range v.List {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = AppendJSON(dst, e)
		}
		return append(dst, ']')
	case KindPairs:
		dst = append(dst, '{')
		for i, p := range v.Pairs {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = appendJSONString(dst, p.Key.Text())
			dst = append(dst, ':')
			dst = AppendJSON(dst, p.Val)
		}
		return append(dst, '}')
	case KindRecord:
		dst = append(dst, '{')
		for i, f := range v.Fields {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = appendJSONString(dst, f.Name)
			dst = append(dst, ':')
			dst = AppendJSON(dst, f.Val)
		}
		return append(dst, '}')
	default:
		return append(dst, "null"...)
	}
}

// Text renders a scalar value as plain text. Used for map keys and
// delimited-text fields; nulls render empty.
func (v Value) Text() string {
	switch v.Kind {
	case KindNull:
		return ""
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case KindDecimal, KindText:
		return v.Str
	case KindBytes:
		return string(v.Bytes)
	default:
		return string(AppendJSON(nil, v))
	}
}

const hex = "0123456789abcdef"

// appendJSONString writes a quoted JSON string, escaping only what JSON
// requires. Non-ASCII text passes through as UTF-8.
func appendJSONString(dst []byte, s string) []byte {
	dst = append(dst, '"')
	start := 0
	for i := 0; i < len(s); {
		b := s[i]
		if b >= 0x20 && b != '"' && b != '\\' {
			if b < utf8.RuneSelf {
				i++
				continue
			}
			_, size := utf8.DecodeRuneInString(s[i:])
			i += size
			continue
		}
		dst = append(dst, s[start:i]...)
		switch b {
		case '"':
			dst = append(dst, '\\', '"')
		case '\\':
			dst = append(dst, '\\', '\\')
		case '\n':
			dst = append(dst, '\\', 'n')
		case '\r':
			dst = append(dst, '\\', 'r')
		case '\t':
			dst = append(dst, '\\', 't')
		default:
			dst = append(dst, '\\', 'u', '0', '0', hex[b>>4], hex[b&0xF])
		}
		i++
		start = i
	}
	dst = append(dst, s[start:]...)
	return append(dst, '"')
}
