package arm

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// ValueKind tags the type of a leaf value found while flattening.
type ValueKind int

const (
	ValueString ValueKind = iota
	ValueNumber
	ValueBool
	ValueNull
)

// Value is a typed leaf extracted from the property tree. The tag
// survives until the tabular boundary; only there does String collapse
// it to text.
type Value struct {
	kind ValueKind
	str  string
	num  json.Number
	b    bool
}

func StringValue(s string) Value   { return Value{kind: ValueString, str: s} }
func NumberValue(n json.Number) Value { return Value{kind: ValueNumber, num: n} }
func BoolValue(b bool) Value       { return Value{kind: ValueBool, b: b} }
func NullValue() Value             { return Value{kind: ValueNull} }

func (v Value) Kind() ValueKind { return v.kind }

// String renders the value as table text. Null renders empty.
func (v Value) String() string {
	switch v.kind {
	case ValueString:
		return v.str
	case ValueNumber:
		return v.num.String()
	case ValueBool:
		return strconv.FormatBool(v.b)
	default:
		return ""
	}
}

// leafValue tags a decoded JSON scalar. Containers never reach here;
// the flattener recurses through them first.
func leafValue(v any) Value {
	switch t := v.(type) {
	case nil:
		return NullValue()
	case string:
		return StringValue(t)
	case json.Number:
		return NumberValue(t)
	case bool:
		return BoolValue(t)
	case float64:
		// Only seen when a caller decoded without UseNumber.
		return NumberValue(json.Number(strconv.FormatFloat(t, 'f', -1, 64)))
	default:
		return StringValue(jsonText(t))
	}
}

// Flatten reduces an arbitrarily nested value to a flat path→leaf
// mapping. Object keys append ".key", array indices append "[i]", so
// every path is unique by construction. Map keys are walked in sorted
// order to keep extraction reproducible.
func Flatten(value any, prefix string) map[string]Value {
	out := make(map[string]Value)
	flattenInto(out, value, prefix)
	return out
}

func flattenInto(out map[string]Value, v any, path string) {
	switch t := v.(type) {
	case map[string]any:
		for _, k := range sortedKeys(t) {
			flattenInto(out, t[k], path+"."+k)
		}
	case []any:
		for i, item := range t {
			flattenInto(out, item, fmt.Sprintf("%s[%d]", path, i))
		}
	default:
		out[path] = leafValue(v)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// jsonText serializes any value as compact JSON. Strings come out
// quoted; used where the raw shape of a sub-tree is the detail.
func jsonText(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

// plainText renders a value as plain text: strings unquoted, nil
// empty, scalars via their tag, containers as compact JSON.
func plainText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number, bool, float64:
		return leafValue(t).String()
	default:
		return jsonText(t)
	}
}
