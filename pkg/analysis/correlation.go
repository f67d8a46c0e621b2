// Package analysis runs the correlation study behind the dashboard: ranked
// correlations with the sale price, the project hypotheses, model scores and
// the plots that illustrate them.
package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/NatashaRy/house-price-predictor/pkg/data"
	"github.com/NatashaRy/house-price-predictor/pkg/schema"
	"github.com/NatashaRy/house-price-predictor/pkg/stats"
)

// MissingLevel replaces absent categorical cells before one-hot encoding.
const MissingLevel = "Missing"

// Table is the read-only view of a dataset the study needs.
type Table interface {
	Columns() []string
	Kind(name string) (schema.Kind, bool)
	Median(name string) (float64, bool)
	Column(name string) ([]schema.Value, error)
}

var _ Table = (*data.Dataset)(nil)

// Method selects the correlation coefficient.
type Method string

const (
	Pearson  Method = "pearson"
	Spearman Method = "spearman"
)

// ParseMethod accepts "pearson", "spearman" or "" (pearson).
func ParseMethod(s string) (Method, error) {
	switch Method(strings.ToLower(strings.TrimSpace(s))) {
	case "", Pearson:
		return Pearson, nil
	case Spearman:
		return Spearman, nil
	}
	return "", fmt.Errorf("analysis: unknown correlation method %q", s)
}

func (m Method) apply(x, y []float64) float64 {
	if m == Spearman {
		return stats.Spearman(x, y)
	}
	return stats.Correlation(x, y)
}

// Correlation is one variable's coefficient against the target. Variable is
// a column name or, for categorical columns, "<column>_<level>".
type Correlation struct {
	Variable    string  `json:"variable"`
	Column      string  `json:"column"`
	Level       string  `json:"level,omitempty"`
	Coefficient float64 `json:"coefficient"`
}

// Correlations ranks every numeric column and every one-hot level of each
// categorical column by the absolute value of its coefficient with target.
// Numeric gaps take the column median and categorical gaps become "Missing".
// top <= 0 keeps everything.
func Correlations(t Table, target string, method Method, top int) ([]Correlation, error) {
	y, err := filledNumeric(t, target)
	if err != nil {
		return nil, err
	}

	var out []Correlation
	for _, name := range t.Columns() {
		if name == target {
			continue
		}
		kind, _ := t.Kind(name)
		if kind == schema.Numeric {
			x, err := filledNumeric(t, name)
			if err != nil {
				return nil, err
			}
			out = appendFinite(out, Correlation{Variable: name, Column: name, Coefficient: method.apply(x, y)})
			continue
		}
		labels, err := filledLabels(t, name)
		if err != nil {
			return nil, err
		}
		for _, level := range distinct(labels) {
			x := make([]float64, len(labels))
			for i, l := range labels {
				if l == level {
					x[i] = 1
				}
			}
			out = appendFinite(out, Correlation{
				Variable:    name + "_" + level,
				Column:      name,
				Level:       level,
				Coefficient: method.apply(x, y),
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		ai, aj := math.Abs(out[i].Coefficient), math.Abs(out[j].Coefficient)
		if ai != aj {
			return ai > aj
		}
		return out[i].Variable < out[j].Variable
	})
	if top > 0 && top < len(out) {
		out = out[:top]
	}
	return out, nil
}

func appendFinite(out []Correlation, c Correlation) []Correlation {
	if math.IsNaN(c.Coefficient) || math.IsInf(c.Coefficient, 0) {
		return out
	}
	return append(out, c)
}

func filledNumeric(t Table, name string) ([]float64, error) {
	kind, ok := t.Kind(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", data.ErrUnknownColumn, name)
	}
	if kind != schema.Numeric {
		return nil, fmt.Errorf("analysis: column %q is %s, want numeric", name, kind)
	}
	col, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	med, _ := t.Median(name)
	out := make([]float64, len(col))
	for i, v := range col {
		if f, ok := v.Float(); ok {
			out[i] = f
		} else {
			out[i] = med
		}
	}
	return out, nil
}

func filledLabels(t Table, name string) ([]string, error) {
	col, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(col))
	for i, v := range col {
		if v.IsMissing() {
			out[i] = MissingLevel
		} else {
			out[i] = v.String()
		}
	}
	return out, nil
}

func distinct(labels []string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, l := range labels {
		if _, ok := seen[l]; !ok {
			seen[l] = struct{}{}
			out = append(out, l)
		}
	}
	sort.Strings(out)
	return out
}

// pairs returns the rows where both columns are present.
func pairs(t Table, xName, yName string) (x, y []float64, err error) {
	for _, n := range []string{xName, yName} {
		kind, ok := t.Kind(n)
		if !ok {
			return nil, nil, fmt.Errorf("%w: %q", data.ErrUnknownColumn, n)
		}
		if kind != schema.Numeric {
			return nil, nil, fmt.Errorf("analysis: column %q is %s, want numeric", n, kind)
		}
	}
	xs, err := t.Column(xName)
	if err != nil {
		return nil, nil, err
	}
	ys, err := t.Column(yName)
	if err != nil {
		return nil, nil, err
	}
	for i := range xs {
		a, okA := xs[i].Float()
		b, okB := ys[i].Float()
		if okA && okB {
			x = append(x, a)
			y = append(y, b)
		}
	}
	return x, y, nil
}
