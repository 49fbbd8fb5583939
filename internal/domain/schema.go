package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind names a record's concrete specialization. It is the value of the
// discriminator in serialized form.
type Kind string

// FieldType is the declared type of a kind-specific attribute
type FieldType int

const (
	FieldString FieldType = iota
	FieldInt
	FieldFloat
	FieldStringList
)

func (t FieldType) String() string {
	switch t {
	case FieldString:
		return "string"
	case FieldInt:
		return "int"
	case FieldFloat:
		return "float"
	case FieldStringList:
		return "list"
	default:
		return fmt.Sprintf("FieldType(%d)", int(t))
	}
}

// zero is the value an attribute holds until it is assigned
func (t FieldType) zero() any {
	switch t {
	case FieldInt:
		return 0
	case FieldFloat:
		return 0.0
	case FieldStringList:
		return []string{}
	default:
		return ""
	}
}

// coerce converts v into the Go representation of t. Strings are parsed,
// so console input and decoded JSON land on the same types.
func (t FieldType) coerce(v any) (any, error) {
	switch t {
	case FieldString:
		return coerceString(v)
	case FieldInt:
		return coerceInt(v)
	case FieldFloat:
		return coerceFloat(v)
	case FieldStringList:
		return coerceList(v)
	}
	return nil, fmt.Errorf("%w: unsupported field type %s", ErrInvalidValue, t)
}

func coerceString(v any) (any, error) {
	switch v := v.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case bool, int, int64, float64:
		return fmt.Sprint(v), nil
	}
	return nil, fmt.Errorf("%w: %T is not a string", ErrInvalidValue, v)
}

func coerceInt(v any) (any, error) {
	switch v := v.(type) {
	case int:
		return v, nil
	case int64:
		if v < math.MinInt || v > math.MaxInt {
			return nil, fmt.Errorf("%w: %d is out of range", ErrInvalidValue, v)
		}
		return int(v), nil
	case float64:
		n, ok := floatToInt(v)
		if !ok {
			return nil, fmt.Errorf("%w: %v is not an integer", ErrInvalidValue, v)
		}
		return n, nil
	case json.Number:
		return parseInt(string(v))
	case string:
		return parseInt(strings.TrimSpace(v))
	}
	return nil, fmt.Errorf("%w: %T is not an integer", ErrInvalidValue, v)
}

// parseInt accepts decimal integers and integral floats such as "3.0" or
// "1e2". Anything that does not fit an int is rejected.
func parseInt(s string) (any, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err == nil {
		return coerceInt(n)
	}
	if errors.Is(err, strconv.ErrRange) {
		return nil, fmt.Errorf("%w: %q is out of range", ErrInvalidValue, s)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not an integer", ErrInvalidValue, s)
	}
	i, ok := floatToInt(f)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not an integer", ErrInvalidValue, s)
	}
	return i, nil
}

// floatToInt converts f when it is a whole number inside the int range
func floatToInt(f float64) (int, bool) {
	if !isFinite(f) || f != math.Trunc(f) {
		return 0, false
	}
	if f < math.MinInt || f >= -math.MinInt {
		return 0, false
	}
	return int(f), true
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func coerceFloat(v any) (any, error) {
	var f float64
	switch v := v.(type) {
	case float64:
		f = v
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		return coerceFloat(string(v))
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", ErrInvalidValue, v)
		}
		f = parsed
	default:
		return nil, fmt.Errorf("%w: %T is not a number", ErrInvalidValue, v)
	}
	if !isFinite(f) {
		return nil, fmt.Errorf("%w: %v is not a finite number", ErrInvalidValue, f)
	}
	return f, nil
}

// normalizeExtra brings an undeclared attribute to the form it has after a
// save and reload: whole numbers become int, other numbers float64, and
// nested lists and objects are normalized element by element.
func normalizeExtra(v any) (any, error) {
	switch v := v.(type) {
	case int, string, bool, nil:
		return v, nil
	case int64:
		return coerceInt(v)
	case float64:
		if !isFinite(v) {
			return nil, fmt.Errorf("%w: %v is not a finite number", ErrInvalidValue, v)
		}
		if n, ok := floatToInt(v); ok {
			return n, nil
		}
		return v, nil
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return normalizeExtra(n)
		}
		f, err := v.Float64()
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", ErrInvalidValue, v)
		}
		return normalizeExtra(f)
	case []string:
		return append([]string{}, v...), nil
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			n, err := normalizeExtra(item)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			n, err := normalizeExtra(item)
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	}
	return v, nil
}

func coerceList(v any) (any, error) {
	switch v := v.(type) {
	case nil:
		return []string{}, nil
	case []string:
		return append([]string{}, v...), nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: list item %T is not a string", ErrInvalidValue, item)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %T is not a list", ErrInvalidValue, v)
}

// Field declares one kind-specific attribute
type Field struct {
	Name string
	Type FieldType
}

// Schema is the attribute table of one kind
type Schema struct {
	Kind   Kind
	Fields []Field
}

// Field looks up a declared attribute by name
func (s *Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// FieldNames returns the declared attribute names in declaration order
func (s *Schema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}
