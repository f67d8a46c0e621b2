package pipeline

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrUnknownCategory = errors.New("pipeline: category not seen during fitting")
	ErrBadValue        = errors.New("pipeline: value does not match the feature kind")
)

// OrdinalEncoder maps each categorical feature's labels to integer codes.
// A label's code is its position in Categories[feature].
type OrdinalEncoder struct {
	Categories map[string][]string

	codes map[string]map[string]int
}

// NewOrdinalEncoder copies the category lists; order defines the codes.
func NewOrdinalEncoder(categories map[string][]string) (*OrdinalEncoder, error) {
	e := &OrdinalEncoder{Categories: make(map[string][]string, len(categories))}
	for name, labels := range categories {
		if len(labels) == 0 {
			return nil, fmt.Errorf("pipeline: encoder has no categories for %q", name)
		}
		e.Categories[name] = append([]string(nil), labels...)
	}
	if err := e.index(); err != nil {
		return nil, err
	}
	return e, nil
}

// FitOrdinalEncoder assigns codes in order of first appearance, like a label
// encoder fitted on the training column.
func FitOrdinalEncoder(columns map[string][]string) (*OrdinalEncoder, error) {
	cats := make(map[string][]string, len(columns))
	for name, col := range columns {
		seen := map[string]struct{}{}
		for _, v := range col {
			if _, ok := seen[v]; !ok {
				seen[v] = struct{}{}
				cats[name] = append(cats[name], v)
			}
		}
	}
	return NewOrdinalEncoder(cats)
}

func (e *OrdinalEncoder) index() error {
	e.codes = make(map[string]map[string]int, len(e.Categories))
	for name, labels := range e.Categories {
		m := make(map[string]int, len(labels))
		for i, l := range labels {
			if _, dup := m[l]; dup {
				return fmt.Errorf("pipeline: encoder lists %q twice for %q", l, name)
			}
			m[l] = i
		}
		e.codes[name] = m
	}
	return nil
}

// Encode returns the code of label for feature.
func (e *OrdinalEncoder) Encode(feature, label string) (float64, error) {
	m, ok := e.codes[feature]
	if !ok {
		return 0, fmt.Errorf("pipeline: encoder does not know feature %q", feature)
	}
	code, ok := m[label]
	if !ok {
		return 0, fmt.Errorf("%w: %s=%q", ErrUnknownCategory, feature, label)
	}
	return float64(code), nil
}

// Features lists the encoded feature names, sorted.
func (e *OrdinalEncoder) Features() []string {
	out := make([]string, 0, len(e.Categories))
	for k := range e.Categories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
