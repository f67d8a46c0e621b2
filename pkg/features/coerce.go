package features

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/NatashaRy/house-price-predictor/pkg/schema"
)

// Coerce turns loosely typed input (decoded JSON, CLI flags) into a Record,
// using the reference kinds to decide between numbers and labels. Keys the
// reference does not know keep their natural type.
func (r *Resolver) Coerce(raw map[string]any) (schema.Record, error) {
	out := make(schema.Record, len(raw))
	for name, x := range raw {
		kind, known := r.Kind(name)
		v, err := coerceValue(x, kind, known)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidValue, name, err)
		}
		out[name] = v
	}
	return out, nil
}

func coerceValue(x any, kind schema.Kind, known bool) (schema.Value, error) {
	if x == nil {
		return schema.Null(), nil
	}
	if !known {
		kind = schema.Missing
	}

	switch t := x.(type) {
	case schema.Value:
		return t, nil
	case float64:
		return numberAs(t, kind), nil
	case float32:
		return numberAs(float64(t), kind), nil
	case int:
		return numberAs(float64(t), kind), nil
	case int64:
		return numberAs(float64(t), kind), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return schema.Null(), err
		}
		if kind == schema.Categorical {
			return schema.Text(t.String()), nil
		}
		return schema.Num(f), nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return schema.Null(), nil
		}
		switch kind {
		case schema.Numeric:
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return schema.Null(), fmt.Errorf("%q is not a number", s)
			}
			return schema.Num(f), nil
		case schema.Categorical:
			return schema.Text(s), nil
		default:
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return schema.Num(f), nil
			}
			return schema.Text(s), nil
		}
	default:
		return schema.Null(), fmt.Errorf("unsupported type %T", x)
	}
}

func numberAs(f float64, kind schema.Kind) schema.Value {
	if kind == schema.Categorical {
		return schema.Text(strconv.FormatFloat(f, 'f', -1, 64))
	}
	return schema.Num(f)
}

// ParseAssignments reads CLI-style name=value pairs.
func ParseAssignments(pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: expected name=value, got %q", ErrInvalidValue, p)
		}
		out[name] = value
	}
	return out, nil
}
