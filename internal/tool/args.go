package tool

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Args is the loosely typed argument mapping of a call. Values are whatever
// JSON decoding produced (json.Number when decoded with DecodeArgs) or plain
// Go scalars when built in code.
type Args map[string]any

// ValueKind is the dynamic type of an argument value.
type ValueKind int

const (
	ValueMissing ValueKind = iota
	ValueNull
	ValueString
	ValueNumber
	ValueBool
	ValueObject
	ValueArray
)

func (k ValueKind) String() string {
	switch k {
	case ValueMissing:
		return "missing"
	case ValueNull:
		return "null"
	case ValueString:
		return "string"
	case ValueNumber:
		return "number"
	case ValueBool:
		return "boolean"
	case ValueObject:
		return "object"
	case ValueArray:
		return "array"
	default:
		return "unknown"
	}
}

var errNotNumber = errors.New("not a number")

// DecodeArgs decodes a JSON object into Args, keeping numbers as
// json.Number. Empty input and null decode to empty Args.
func DecodeArgs(raw json.RawMessage) (Args, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Args{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var args Args
	if err := dec.Decode(&args); err != nil {
		return nil, fmt.Errorf("arguments must be a JSON object: %w", err)
	}
	if args == nil {
		args = Args{}
	}
	return args, nil
}

// Value is a single argument looked up by name.
type Value struct {
	raw     any
	present bool
}

// Get returns the named argument.
func (a Args) Get(name string) Value {
	v, ok := a[name]
	return Value{raw: v, present: ok}
}

// Kind reports the dynamic type of the value.
func (v Value) Kind() ValueKind {
	if !v.present {
		return ValueMissing
	}
	switch v.raw.(type) {
	case nil:
		return ValueNull
	case string:
		return ValueString
	case json.Number, float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return ValueNumber
	case bool:
		return ValueBool
	case map[string]any, Args:
		return ValueObject
	case []any:
		return ValueArray
	default:
		return ValueObject
	}
}

// Present reports whether the argument exists and is not null.
func (v Value) Present() bool {
	k := v.Kind()
	return k != ValueMissing && k != ValueNull
}

// Raw returns the underlying decoded value.
func (v Value) Raw() any {
	return v.raw
}

// Str returns the value if it is a string.
func (v Value) Str() (string, bool) {
	s, ok := v.raw.(string)
	return s, ok
}

// Float coerces numbers and numeric strings to a finite float64.
func (v Value) Float() (float64, error) {
	var f float64
	switch n := v.raw.(type) {
	case json.Number:
		parsed, err := strconv.ParseFloat(n.String(), 64)
		if err != nil {
			return 0, errNotNumber
		}
		f = parsed
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, errNotNumber
		}
		f = parsed
	default:
		return 0, errNotNumber
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errNotNumber
	}
	return f, nil
}

// Int coerces integral numbers and integer strings to int64.
func (v Value) Int() (int64, error) {
	switch n := v.raw.(type) {
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
	case string:
		if i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64); err == nil {
			return i, nil
		}
	}
	f, err := v.Float()
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, errors.New("not an integer")
	}
	return int64(f), nil
}
