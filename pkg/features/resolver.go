// Package features reconciles loosely filled house records with the fixed
// feature list of a trained pipeline. Missing numeric features take the
// reference median, missing categorical features take the reference mode,
// and the output always carries exactly the pipeline's columns in order.
package features

import (
	"errors"
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"github.com/NatashaRy/house-price-predictor/pkg/schema"
)

var (
	ErrReferenceUnavailable = errors.New("reference data unavailable")
	ErrUnclassifiedFeature  = errors.New("feature cannot be classified as numeric or categorical")
	ErrInvalidValue         = errors.New("invalid feature value")
)

// Sentinels used when a categorical column has no mode.
const (
	TypicalQuality = "TA"
	NoneCategory   = "None"
)

// QualityCodes are the five-level quality labels used throughout the Ames data.
var QualityCodes = []string{"Po", "Fa", "TA", "Gd", "Ex"}

// DefaultQualityFeatures are the Ames columns rated on the quality scale.
var DefaultQualityFeatures = []string{
	"KitchenQual", "ExterQual", "ExterCond", "BsmtQual", "BsmtCond",
	"HeatingQC", "FireplaceQu", "GarageQual", "GarageCond", "PoolQC",
}

// Reference is the read-only view of historical data the resolver draws
// defaults from. *data.Dataset satisfies it.
type Reference interface {
	Kind(name string) (schema.Kind, bool)
	Median(name string) (float64, bool)
	Mode(name string) (string, bool)
	Levels(name string) []string
}

// Resolver fills and orders feature records. It holds no mutable state and is
// safe for concurrent use.
type Resolver struct {
	ref     Reference
	quality map[string]struct{}
	logger  *zap.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithQualityFeatures replaces the set of features treated as quality-scale
// when choosing a sentinel.
func WithQualityFeatures(names ...string) Option {
	return func(r *Resolver) {
		r.quality = make(map[string]struct{}, len(names))
		for _, n := range names {
			r.quality[n] = struct{}{}
		}
	}
}

// WithLogger sets the logger for defaulted-feature debug lines.
func WithLogger(l *zap.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewResolver binds a resolver to its reference data. A nil reference is
// accepted here and reported by Resolve.
func NewResolver(ref Reference, opts ...Option) *Resolver {
	if v := reflect.ValueOf(ref); ref != nil && v.Kind() == reflect.Pointer && v.IsNil() {
		ref = nil
	}
	r := &Resolver{ref: ref, logger: zap.NewNop()}
	WithQualityFeatures(DefaultQualityFeatures...)(r)
	for _, o := range opts {
		o(r)
	}
	return r
}

// Resolve returns raw restricted to spec, in spec order, with every missing
// feature defaulted. Extra keys in raw are dropped.
func (r *Resolver) Resolve(spec schema.Spec, raw schema.Record) (schema.Resolved, error) {
	if r == nil || r.ref == nil {
		return schema.Resolved{}, ErrReferenceUnavailable
	}
	values := make([]schema.Value, spec.Len())
	for i := 0; i < spec.Len(); i++ {
		name := spec.Name(i)
		if v, ok := raw[name]; ok && !v.IsMissing() {
			values[i] = v
			continue
		}
		d, err := r.Default(name)
		if err != nil {
			return schema.Resolved{}, err
		}
		r.logger.Debug("defaulted feature", zap.String("feature", name), zap.Stringer("value", d))
		values[i] = d
	}
	return schema.NewResolved(spec, values)
}

// ResolveBatch resolves every row; the first failure aborts the whole batch.
func (r *Resolver) ResolveBatch(spec schema.Spec, rows []schema.Record) ([]schema.Resolved, error) {
	out := make([]schema.Resolved, len(rows))
	for i, raw := range rows {
		res, err := r.Resolve(spec, raw)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = res
	}
	return out, nil
}

// Default is the value a missing feature resolves to.
func (r *Resolver) Default(name string) (schema.Value, error) {
	if r == nil || r.ref == nil {
		return schema.Null(), ErrReferenceUnavailable
	}
	kind, ok := r.ref.Kind(name)
	if !ok {
		return schema.Null(), fmt.Errorf("%w: %q is not in the reference data", ErrUnclassifiedFeature, name)
	}
	switch kind {
	case schema.Categorical:
		if mode, ok := r.ref.Mode(name); ok {
			return schema.Text(mode), nil
		}
		if r.usesQualityCodes(name) {
			return schema.Text(TypicalQuality), nil
		}
		return schema.Text(NoneCategory), nil
	case schema.Numeric:
		if med, ok := r.ref.Median(name); ok {
			return schema.Num(med), nil
		}
		return schema.Num(0), nil
	default:
		return schema.Null(), fmt.Errorf("%w: %q has kind %s", ErrUnclassifiedFeature, name, kind)
	}
}

// IsQuality reports whether a feature is rated on the Po..Ex scale: it is a
// configured quality feature, or every observed level is a quality code.
// Columns such as BsmtExposure share a code (Gd) but are not ratings.
func (r *Resolver) IsQuality(name string) bool {
	if _, ok := r.quality[name]; ok {
		return true
	}
	if r.ref == nil {
		return false
	}
	levels := r.ref.Levels(name)
	if len(levels) == 0 {
		return false
	}
	for _, l := range levels {
		if !isQualityCode(l) {
			return false
		}
	}
	return true
}

// usesQualityCodes is the looser test for the no-mode sentinel: any level
// drawn from the quality codes.
func (r *Resolver) usesQualityCodes(name string) bool {
	if r.IsQuality(name) {
		return true
	}
	for _, l := range r.ref.Levels(name) {
		if isQualityCode(l) {
			return true
		}
	}
	return false
}

func isQualityCode(s string) bool {
	for _, q := range QualityCodes {
		if s == q {
			return true
		}
	}
	return false
}

// Kind exposes the reference kind of a feature.
func (r *Resolver) Kind(name string) (schema.Kind, bool) {
	if r == nil || r.ref == nil {
		return schema.Missing, false
	}
	return r.ref.Kind(name)
}
