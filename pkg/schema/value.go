package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Kind classifies a feature value or a dataset column.
type Kind uint8

const (
	Missing Kind = iota
	Numeric
	Categorical
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Categorical:
		return "categorical"
	default:
		return "missing"
	}
}

// MarshalText lets kinds appear as readable strings in JSON and YAML.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *Kind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "numeric":
		*k = Numeric
	case "categorical":
		*k = Categorical
	case "missing", "":
		*k = Missing
	default:
		return fmt.Errorf("schema: unknown kind %q", b)
	}
	return nil
}

// Value is a single cell of a feature vector: a number, a category label,
// or nothing.
type Value struct {
	kind Kind
	num  float64
	text string
}

// Null is the missing value.
func Null() Value { return Value{} }

// Num wraps a number. NaN is treated as missing.
func Num(f float64) Value {
	if math.IsNaN(f) {
		return Value{}
	}
	return Value{kind: Numeric, num: f}
}

// Text wraps a category label.
func Text(s string) Value { return Value{kind: Categorical, text: s} }

func (v Value) Kind() Kind      { return v.kind }
func (v Value) IsMissing() bool { return v.kind == Missing }

// Float returns the numeric payload.
func (v Value) Float() (float64, bool) {
	if v.kind != Numeric {
		return 0, false
	}
	return v.num, true
}

// Label returns the categorical payload.
func (v Value) Label() (string, bool) {
	if v.kind != Categorical {
		return "", false
	}
	return v.text, true
}

func (v Value) String() string {
	switch v.kind {
	case Numeric:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case Categorical:
		return v.text
	default:
		return ""
	}
}

// Interface returns the payload as float64, string or nil.
func (v Value) Interface() any {
	switch v.kind {
	case Numeric:
		return v.num
	case Categorical:
		return v.text
	default:
		return nil
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

func (v *Value) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch x := raw.(type) {
	case nil:
		*v = Null()
	case float64:
		*v = Num(x)
	case string:
		*v = Text(x)
	default:
		*v = Text(string(b))
	}
	return nil
}
