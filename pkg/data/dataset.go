// Package data holds the read-only reference table of historical house
// records. Column kinds and summary statistics are computed once at load
// time; nothing mutates a Dataset afterwards.
package data

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/NatashaRy/house-price-predictor/pkg/schema"
	"github.com/NatashaRy/house-price-predictor/pkg/stats"
)

var (
	ErrEmptyDataset  = errors.New("data: dataset has no columns")
	ErrUnknownColumn = errors.New("data: unknown column")
)

// DefaultMissing lists the cell spellings treated as missing.
var DefaultMissing = []string{"", "NA", "NaN", "nan", "null"}

type column struct {
	name   string
	kind   schema.Kind
	values []schema.Value

	median    float64
	hasMedian bool
	mode      string
	hasMode   bool
	min, max  float64
	levels    []string
}

// Dataset is an immutable, column-typed table.
type Dataset struct {
	cols  []*column
	index map[string]int
	rows  int
}

type options struct {
	kinds   map[string]schema.Kind
	missing map[string]struct{}
}

// Option tunes how raw cells are typed.
type Option func(*options)

// WithKinds forces the kind of the named columns instead of inferring it.
func WithKinds(kinds map[string]schema.Kind) Option {
	return func(o *options) {
		for k, v := range kinds {
			o.kinds[k] = v
		}
	}
}

// WithMissing replaces the set of missing-cell markers.
func WithMissing(markers ...string) Option {
	return func(o *options) {
		o.missing = make(map[string]struct{}, len(markers))
		for _, m := range markers {
			o.missing[m] = struct{}{}
		}
	}
}

// New types raw string cells column by column. A column is numeric when every
// non-missing cell parses as a float; a column with no values at all is
// numeric too.
func New(header []string, rows [][]string, opts ...Option) (*Dataset, error) {
	if len(header) == 0 {
		return nil, ErrEmptyDataset
	}
	o := options{kinds: map[string]schema.Kind{}}
	WithMissing(DefaultMissing...)(&o)
	for _, opt := range opts {
		opt(&o)
	}

	d := &Dataset{index: make(map[string]int, len(header)), rows: len(rows)}
	for j, h := range header {
		h = strings.TrimSpace(h)
		if _, dup := d.index[h]; dup {
			return nil, fmt.Errorf("data: duplicate column %q", h)
		}
		d.index[h] = j
		d.cols = append(d.cols, &column{name: h})
	}
	for i, r := range rows {
		if len(r) != len(header) {
			return nil, fmt.Errorf("data: row %d has %d cells, want %d", i+1, len(r), len(header))
		}
	}

	for j, c := range d.cols {
		raw := make([]string, len(rows))
		for i := range rows {
			raw[i] = strings.TrimSpace(rows[i][j])
		}
		kind, forced := o.kinds[c.name]
		if !forced {
			kind = inferKind(raw, o.missing)
		}
		if err := c.fill(raw, kind, o.missing); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func inferKind(raw []string, missing map[string]struct{}) schema.Kind {
	for _, s := range raw {
		if _, m := missing[s]; m {
			continue
		}
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			return schema.Categorical
		}
	}
	return schema.Numeric
}

func (c *column) fill(raw []string, kind schema.Kind, missing map[string]struct{}) error {
	c.kind = kind
	c.values = make([]schema.Value, len(raw))
	var nums []float64
	var labels []string
	for i, s := range raw {
		if _, m := missing[s]; m {
			c.values[i] = schema.Null()
			continue
		}
		if kind == schema.Numeric {
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return fmt.Errorf("data: column %q row %d: %q is not numeric", c.name, i+1, s)
			}
			c.values[i] = schema.Num(f)
			nums = append(nums, f)
			continue
		}
		c.values[i] = schema.Text(s)
		labels = append(labels, s)
	}

	if kind == schema.Numeric {
		c.median, c.hasMedian = stats.Median(nums)
		c.min, c.max = stats.MinMax(nums)
		return nil
	}
	c.mode, c.hasMode = stats.ModeString(labels)
	seen := map[string]struct{}{}
	for _, l := range labels {
		if _, ok := seen[l]; !ok {
			seen[l] = struct{}{}
			c.levels = append(c.levels, l)
		}
	}
	sort.Strings(c.levels)
	return nil
}

func (d *Dataset) col(name string) (*column, bool) {
	i, ok := d.index[name]
	if !ok {
		return nil, false
	}
	return d.cols[i], true
}

// Len is the number of rows.
func (d *Dataset) Len() int { return d.rows }

// Columns returns the column names in file order.
func (d *Dataset) Columns() []string {
	out := make([]string, len(d.cols))
	for i, c := range d.cols {
		out[i] = c.name
	}
	return out
}

// Has reports whether the dataset has a column called name.
func (d *Dataset) Has(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Kind reports the column's type; ok is false for unknown columns.
func (d *Dataset) Kind(name string) (schema.Kind, bool) {
	c, ok := d.col(name)
	if !ok {
		return schema.Missing, false
	}
	return c.kind, true
}

// Median of a numeric column; ok is false when the column is unknown,
// categorical or has no values.
func (d *Dataset) Median(name string) (float64, bool) {
	c, ok := d.col(name)
	if !ok || c.kind != schema.Numeric {
		return 0, false
	}
	return c.median, c.hasMedian
}

// Mode of a categorical column; ok is false when none exists.
func (d *Dataset) Mode(name string) (string, bool) {
	c, ok := d.col(name)
	if !ok || c.kind != schema.Categorical {
		return "", false
	}
	return c.mode, c.hasMode
}

// Levels lists the distinct labels of a categorical column, sorted.
func (d *Dataset) Levels(name string) []string {
	c, ok := d.col(name)
	if !ok {
		return nil
	}
	return append([]string(nil), c.levels...)
}

// Range returns min and max of a numeric column.
func (d *Dataset) Range(name string) (min, max float64, ok bool) {
	c, found := d.col(name)
	if !found || c.kind != schema.Numeric || !c.hasMedian {
		return 0, 0, false
	}
	return c.min, c.max, true
}

// Column returns a copy of every cell of a column, missing ones included.
func (d *Dataset) Column(name string) ([]schema.Value, error) {
	c, ok := d.col(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	return append([]schema.Value(nil), c.values...), nil
}

// Floats returns the non-missing values of a numeric column.
func (d *Dataset) Floats(name string) ([]float64, error) {
	c, ok := d.col(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	if c.kind != schema.Numeric {
		return nil, fmt.Errorf("data: column %q is %s", name, c.kind)
	}
	out := make([]float64, 0, len(c.values))
	for _, v := range c.values {
		if f, ok := v.Float(); ok {
			out = append(out, f)
		}
	}
	return out, nil
}

// Records returns every row as a raw record; missing cells are present as
// missing values.
func (d *Dataset) Records() []schema.Record {
	return d.Head(d.rows)
}

// Head returns the first n rows as records.
func (d *Dataset) Head(n int) []schema.Record {
	if n > d.rows {
		n = d.rows
	}
	if n < 0 {
		n = 0
	}
	out := make([]schema.Record, n)
	for i := 0; i < n; i++ {
		r := make(schema.Record, len(d.cols))
		for _, c := range d.cols {
			r[c.name] = c.values[i]
		}
		out[i] = r
	}
	return out
}
