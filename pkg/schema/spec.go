// Package schema holds the feature vocabulary shared by the resolver, the
// prediction invoker and the pipeline artifact: the ordered feature list a
// model expects, single values, raw and resolved records, and tabular frames.
package schema

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptySpec     = errors.New("schema: feature spec is empty")
	ErrDuplicateName = errors.New("schema: duplicate feature name")
	ErrSpecMismatch  = errors.New("schema: records do not share a feature spec")
)

// Spec is the ordered list of feature names a trained pipeline requires.
// It is immutable once built.
type Spec struct {
	names []string
	index map[string]int
}

// NewSpec validates and freezes names. Blank and repeated names are rejected.
func NewSpec(names ...string) (Spec, error) {
	if len(names) == 0 {
		return Spec{}, ErrEmptySpec
	}
	s := Spec{names: make([]string, len(names)), index: make(map[string]int, len(names))}
	for i, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			return Spec{}, fmt.Errorf("schema: blank feature name at position %d", i)
		}
		if _, dup := s.index[n]; dup {
			return Spec{}, fmt.Errorf("%w: %q", ErrDuplicateName, n)
		}
		s.names[i] = n
		s.index[n] = i
	}
	return s, nil
}

// MustSpec is NewSpec for literals known to be valid.
func MustSpec(names ...string) Spec {
	s, err := NewSpec(names...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s Spec) Len() int { return len(s.names) }

// Names returns a copy of the feature names in order.
func (s Spec) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Name returns the i-th feature name.
func (s Spec) Name(i int) string { return s.names[i] }

// Index reports the position of name.
func (s Spec) Index(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

func (s Spec) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Equal reports whether both specs list the same names in the same order.
func (s Spec) Equal(o Spec) bool {
	if len(s.names) != len(o.names) {
		return false
	}
	for i := range s.names {
		if s.names[i] != o.names[i] {
			return false
		}
	}
	return true
}

func (s Spec) String() string { return "[" + strings.Join(s.names, ", ") + "]" }
