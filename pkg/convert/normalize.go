package convert

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// MaxSafeInteger is the largest integer a JSON-consuming double-precision
// reader can represent exactly (2^53 - 1). Integers outside
// [-MaxSafeInteger, MaxSafeInteger] are lowered to text so they round-trip
// without precision loss.
const MaxSafeInteger = int64(1)<<53 - 1

// ErrInvalidUTF8 is returned when a binary payload must be decoded to text
// but is not valid UTF-8. The failure is fatal for the file: silently
// emitting a byte-level rendering would corrupt downstream parsing.
var ErrInvalidUTF8 = errors.New("binary value is not valid UTF-8")

// Normalizer applies the per-job value normalization rules. It is immutable
// after construction and safe to share across rows of one file.
type Normalizer struct {
	forceString map[string]struct{}
}

// NewNormalizer builds a normalizer with the caller-supplied force-string
// field set.
func NewNormalizer(forceStringFields []string) *Normalizer {
	fs := make(map[string]struct{}, len(forceStringFields))
	for _, f := range forceStringFields {
		fs[f] = struct{}{}
	}
	return &Normalizer{forceString: fs}
}

// Normalize lowers a decoded value into its serializable intermediate form.
// fieldName is the column (or nested record field) the value belongs to;
// elements of lists and map entries normalize with an empty field name.
//
// Rule order is a contract: null short-circuits everything, force-string
// wins over JSON sniffing, and shape matchers run before generic list
// handling.
func (n *Normalizer) Normalize(v Value, fieldName string) (Value, error) {
	if v.IsNull() {
		return Null, nil
	}

	if fieldName != "" {
		if _, ok := n.forceString[fieldName]; ok {
			return n.forceText(v, fieldName)
		}
	}

	switch v.Kind {
	case KindText:
		if parsed, ok := sniffJSON(v.Str); ok {
			return n.Normalize(parsed, "")
		}
		return v, nil

	case KindRecord:
		fields := make([]FieldValue, len(v.Fields))
		for i, f := range v.Fields {
			nv, err := n.Normalize(f.Val, f.Name)
			if err != nil {
				return Null, err
			}
			fields[i] = FieldValue{Name: f.Name, Val: nv}
		}
		return RecordValue(fields), nil

	case KindPairs:
		pairs := make([]Pair, len(v.Pairs))
		for i, p := range v.Pairs {
			key, err := n.Normalize(p.Key, "")
			if err != nil {
				return Null, err
			}
			val, err := n.Normalize(p.Val, "")
			if err != nil {
				return Null, err
			}
			pairs[i] = Pair{Key: TextValue(key.Text()), Val: val}
		}
		return PairsValue(pairs), nil

	case KindList:
		if pairs, ok := matchPairList(v.List); ok {
			return n.Normalize(PairsValue(pairs), "")
		}
		elems := make([]Value, len(v.List))
		for i, e := range v.List {
			ne, err := n.Normalize(e, "")
			if err != nil {
				return Null, err
			}
			elems[i] = ne
		}
		return ListValue(elems), nil

	case KindInt:
		if v.Int > MaxSafeInteger || v.Int < -MaxSafeInteger {
			return TextValue(strconv.FormatInt(v.Int, 10)), nil
		}
		return v, nil

	case KindFloat:
		if math.IsNaN(v.Float) || math.IsInf(v.Float, 0) {
			return Null, nil
		}
		return v, nil

	case KindBytes:
		if !utf8.Valid(v.Bytes) {
			return Null, fmt.Errorf("field %q: %w", fieldName, ErrInvalidUTF8)
		}
		return TextValue(string(v.Bytes)), nil

	default:
		// Bool, Decimal: already in final form. Dates and datetimes were
		// decoded to their ISO-8601 text and land in KindText above.
		return v, nil
	}
}

// forceText stringifies a value unconditionally. A mathematically integral
// float goes through an integer rendering first, so a column that lost its
// integer typing upstream does not pick up a trailing ".0".
func (n *Normalizer) forceText(v Value, fieldName string) (Value, error) {
	switch v.Kind {
	case KindFloat:
		f := v.Float
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return Null, nil
		}
		if f == math.Trunc(f) {
			// The upper bound is exclusive: 2^63 itself rounds outside
			// int64, and converting it would overflow.
			if f >= -(1 << 63) && f < 1<<63 {
				return TextValue(strconv.FormatInt(int64(f), 10)), nil
			}
			return TextValue(strconv.FormatFloat(f, 'f', -1, 64)), nil
		}
		return TextValue(strconv.FormatFloat(f, 'g', -1, 64)), nil
	case KindBytes:
		if !utf8.Valid(v.Bytes) {
			return Null, fmt.Errorf("field %q: %w", fieldName, ErrInvalidUTF8)
		}
		return TextValue(string(v.Bytes)), nil
	case KindList, KindPairs, KindRecord:
		nv, err := n.Normalize(v, "")
		if err != nil {
			return Null, err
		}
		return TextValue(string(AppendJSON(nil, nv))), nil
	default:
		return TextValue(v.Text()), nil
	}
}

// sniffJSON reports whether s looks like embedded JSON (an object or array)
// and parses it if so. Parse failures keep the original text.
func sniffJSON(s string) (Value, bool) {
	trimmed := strings.TrimSpace(s)
	if len(trimmed) < 2 {
		return Null, false
	}
	objectLike := trimmed[0] == '{' && trimmed[len(trimmed)-1] == '}'
	arrayLike := trimmed[0] == '[' && trimmed[len(trimmed)-1] == ']'
	if !objectLike && !arrayLike {
		return Null, false
	}
	v, err := ParseJSON(trimmed)
	if err != nil {
		return Null, false
	}
	return v, true
}

// ParseJSON parses a JSON document into the intermediate representation,
// preserving object key order and integer exactness (numbers with no
// fraction or exponent that fit int64 stay integers).
func ParseJSON(s string) (Value, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	v, err := readJSONValue(dec)
	if err != nil {
		return Null, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return Null, errors.New("trailing data after JSON value")
	}
	return v, nil
}

func readJSONValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Null, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			var fields []FieldValue
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Null, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Null, fmt.Errorf("unexpected object key token %v", keyTok)
				}
				val, err := readJSONValue(dec)
				if err != nil {
					return Null, err
				}
				fields = append(fields, FieldValue{Name: key, Val: val})
			}
			if _, err := dec.Token(); err != nil { // closing brace
				return Null, err
			}
			return RecordValue(fields), nil
		case '[':
			var elems []Value
			for dec.More() {
				e, err := readJSONValue(dec)
				if err != nil {
					return Null, err
				}
				elems = append(elems, e)
			}
			if _, err := dec.Token(); err != nil { // closing bracket
				return Null, err
			}
			return ListValue(elems), nil
		default:
			return Null, fmt.Errorf("unexpected delimiter %v", t)
		}
	case string:
		return TextValue(t), nil
	case json.Number:
		if i, err := strconv.ParseInt(string(t), 10, 64); err == nil {
			return IntValue(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return Null, err
		}
		return FloatValue(f), nil
	case bool:
		return BoolValue(t), nil
	case nil:
		return Null, nil
	default:
		return Null, fmt.Errorf("unexpected JSON token %v", tok)
	}
}

// matchPairList recognizes the alternate map encodings some columnar stacks
// produce: a list of {key,value} records, or a list of 2-element pairs.
// Matchers run in that order and the first full match wins; a partial match
// falls back to plain-list handling rather than failing the row.
func matchPairList(elems []Value) ([]Pair, bool) {
	if len(elems) == 0 {
		return nil, false
	}

	if pairs, ok := matchKeyValueRecords(elems); ok {
		return pairs, true
	}
	return matchTwoElementPairs(elems)
}

func matchKeyValueRecords(elems []Value) ([]Pair, bool) {
	pairs := make([]Pair, 0, len(elems))
	for _, e := range elems {
		if e.Kind != KindRecord {
			return nil, false
		}
		var key, val Value
		var hasKey, hasVal bool
		for _, f := range e.Fields {
			switch f.Name {
			case "key":
				key, hasKey = f.Val, true
			case "value":
				val, hasVal = f.Val, true
			}
		}
		if !hasKey || !hasVal {
			return nil, false
		}
		pairs = append(pairs, Pair{Key: key, Val: val})
	}
	return pairs, true
}

func matchTwoElementPairs(elems []Value) ([]Pair, bool) {
	pairs := make([]Pair, 0, len(elems))
	for _, e := range elems {
		if e.Kind != KindList || len(e.List) != 2 {
			return nil, false
		}
		pairs = append(pairs, Pair{Key: e.List[0], Val: e.List[1]})
	}
	return pairs, true
}
