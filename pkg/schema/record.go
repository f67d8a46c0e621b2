package schema

import (
	"encoding/json"
	"fmt"
)

// Record is a loosely filled feature mapping as it arrives from a form or a
// source file. Any spec name may be absent or missing and extra keys are
// allowed.
type Record map[string]Value

// Resolved is a feature vector restricted to a Spec, in Spec order, with no
// missing values. Build one with NewResolved.
type Resolved struct {
	spec   Spec
	values []Value
}

// NewResolved checks that values line up with spec and none is missing.
func NewResolved(spec Spec, values []Value) (Resolved, error) {
	if len(values) != spec.Len() {
		return Resolved{}, fmt.Errorf("schema: %d values for %d features", len(values), spec.Len())
	}
	for i, v := range values {
		if v.IsMissing() {
			return Resolved{}, fmt.Errorf("schema: feature %q has no value", spec.Name(i))
		}
	}
	cp := make([]Value, len(values))
	copy(cp, values)
	return Resolved{spec: spec, values: cp}, nil
}

func (r Resolved) Spec() Spec { return r.spec }

// Values returns a copy of the values in spec order.
func (r Resolved) Values() []Value {
	out := make([]Value, len(r.values))
	copy(out, r.values)
	return out
}

// Get returns the value of a feature.
func (r Resolved) Get(name string) (Value, bool) {
	i, ok := r.spec.Index(name)
	if !ok {
		return Value{}, false
	}
	return r.values[i], true
}

// Record converts back to the loose form, which resolves to the same vector.
func (r Resolved) Record() Record {
	out := make(Record, len(r.values))
	for i, v := range r.values {
		out[r.spec.Name(i)] = v
	}
	return out
}

// MarshalJSON writes the vector as an object whose keys keep spec order.
func (r Resolved) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	for i, v := range r.values {
		if i > 0 {
			buf = append(buf, ',')
		}
		k, err := json.Marshal(r.spec.Name(i))
		if err != nil {
			return nil, err
		}
		val, err := v.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf = append(buf, k...)
		buf = append(buf, ':')
		buf = append(buf, val...)
	}
	return append(buf, '}'), nil
}

// Frame is the tabular input handed to a pipeline: named columns in order and
// one row per house.
type Frame struct {
	Columns Spec
	Rows    [][]Value
}

// NewFrame stacks resolved records that share one spec.
func NewFrame(rows ...Resolved) (Frame, error) {
	if len(rows) == 0 {
		return Frame{}, fmt.Errorf("schema: frame needs at least one row")
	}
	spec := rows[0].spec
	f := Frame{Columns: spec, Rows: make([][]Value, len(rows))}
	for i, r := range rows {
		if !r.spec.Equal(spec) {
			return Frame{}, fmt.Errorf("%w: row %d", ErrSpecMismatch, i)
		}
		f.Rows[i] = r.Values()
	}
	return f, nil
}

func (f Frame) Len() int { return len(f.Rows) }
