// Package dashboard assembles the read-only data, the resolver and the trained
// pipeline behind the pages of the heritage housing dashboard. Artifacts are
// loaded once; a page whose artifact failed to load reports ErrUnavailable
// while the other pages keep working.
package dashboard

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/NatashaRy/house-price-predictor/internal/config"
	"github.com/NatashaRy/house-price-predictor/pkg/data"
	"github.com/NatashaRy/house-price-predictor/pkg/features"
	"github.com/NatashaRy/house-price-predictor/pkg/pipeline"
	"github.com/NatashaRy/house-price-predictor/pkg/predict"
	"github.com/NatashaRy/house-price-predictor/pkg/schema"
)

var (
	ErrUnavailable  = errors.New("dashboard: artifact unavailable")
	ErrInvalidInput = errors.New("dashboard: invalid input")
)

// Artifact names used in errors and logs.
const (
	Reference = "reference dataset"
	Inherited = "inherited houses"
	Pipeline  = "pipeline"
	Train     = "train set"
	Test      = "test set"
)

// Model is what the dashboard needs from a trained pipeline.
type Model interface {
	predict.Model
	Features() schema.Spec
	Steps() []string
	String() string
}

var _ Model = (*pipeline.Pipeline)(nil)

// Service serves every page of the dashboard.
type Service struct {
	target  string
	quality []string

	ref       *data.Dataset
	inherited *data.Dataset
	train     *data.Dataset
	test      *data.Dataset
	model     Model
	failures  map[string]error

	resolver *features.Resolver
	invoker  *predict.Invoker
	logger   *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithReference sets the historical dataset defaults and studies draw on.
func WithReference(ds *data.Dataset) Option { return func(s *Service) { s.ref = ds } }

// WithInherited sets the client's inherited houses.
func WithInherited(ds *data.Dataset) Option { return func(s *Service) { s.inherited = ds } }

// WithModel sets the trained pipeline.
func WithModel(m Model) Option { return func(s *Service) { s.model = m } }

// WithEvaluationSets adds labelled sets for the performance page; either may be nil.
func WithEvaluationSets(train, test *data.Dataset) Option {
	return func(s *Service) { s.train, s.test = train, test }
}

// WithTarget names the price column; the default is SalePrice.
func WithTarget(name string) Option { return func(s *Service) { s.target = name } }

// WithQualityFeatures replaces the features rated on the Po..Ex scale.
func WithQualityFeatures(names ...string) Option {
	return func(s *Service) { s.quality = names }
}

// WithLogger sets the service logger; nil keeps the no-op default.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithFailure records that an artifact could not be loaded.
func WithFailure(artifact string, err error) Option {
	return func(s *Service) { s.failures[artifact] = err }
}

// New builds a service from already loaded artifacts.
func New(opts ...Option) *Service {
	s := &Service{
		target:   "SalePrice",
		failures: map[string]error{},
		logger:   zap.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}

	ropts := []features.Option{features.WithLogger(s.logger)}
	if len(s.quality) > 0 {
		ropts = append(ropts, features.WithQualityFeatures(s.quality...))
	}
	s.resolver = features.NewResolver(s.ref, ropts...)
	if s.model != nil {
		s.invoker = predict.NewInvoker(s.model, s.logger)
	}
	return s
}

// Open loads every artifact named in cfg. Load failures are logged and kept;
// they surface as ErrUnavailable from the pages that need the artifact.
func Open(cfg *config.Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts := []Option{
		WithTarget(cfg.Data.Target),
		WithLogger(logger),
		WithQualityFeatures(cfg.Data.QualityFeatures...),
	}
	var dopts []data.Option
	if len(cfg.Data.Missing) > 0 {
		dopts = append(dopts, data.WithMissing(cfg.Data.Missing...))
	}
	fail := func(artifact, path string, err error) {
		logger.Warn("artifact unavailable", zap.String("artifact", artifact), zap.String("path", path), zap.Error(err))
		opts = append(opts, WithFailure(artifact, err))
	}

	ref, err := data.Load(cfg.Data.Reference, dopts...)
	if err != nil {
		fail(Reference, cfg.Data.Reference, err)
	} else {
		logger.Info("reference dataset loaded", zap.Int("rows", ref.Len()), zap.Int("columns", len(ref.Columns())))
		opts = append(opts, WithReference(ref))
		// Other tables take their column kinds from the reference.
		dopts = append(dopts, data.WithKinds(kindsOf(ref)))
	}

	if cfg.Data.Inherited != "" {
		inh, err := data.Load(cfg.Data.Inherited, dopts...)
		if err != nil {
			fail(Inherited, cfg.Data.Inherited, err)
		} else {
			opts = append(opts, WithInherited(inh))
		}
	}

	var train, test *data.Dataset
	if cfg.Data.Train != "" {
		if train, err = data.Load(cfg.Data.Train, dopts...); err != nil {
			fail(Train, cfg.Data.Train, err)
		}
	}
	if cfg.Data.Test != "" {
		if test, err = data.Load(cfg.Data.Test, dopts...); err != nil {
			fail(Test, cfg.Data.Test, err)
		}
	}
	opts = append(opts, WithEvaluationSets(train, test))

	path := cfg.PipelinePath()
	p, err := pipeline.Load(path)
	if err != nil {
		fail(Pipeline, path, err)
	} else {
		logger.Info("pipeline loaded", zap.String("path", path), zap.Stringer("pipeline", p))
		opts = append(opts, WithModel(p))
	}
	return New(opts...)
}

func kindsOf(ds *data.Dataset) map[string]schema.Kind {
	out := make(map[string]schema.Kind)
	for _, c := range ds.Columns() {
		if k, ok := ds.Kind(c); ok {
			out[c] = k
		}
	}
	return out
}

// unavailable wraps ErrUnavailable with the recorded load failure, if any.
func (s *Service) unavailable(artifact string) error {
	if cause, ok := s.failures[artifact]; ok {
		return fmt.Errorf("%w: %s: %v", ErrUnavailable, artifact, cause)
	}
	return fmt.Errorf("%w: %s not configured", ErrUnavailable, artifact)
}

func (s *Service) needReference() (*data.Dataset, error) {
	if s.ref == nil {
		return nil, s.unavailable(Reference)
	}
	return s.ref, nil
}

func (s *Service) needModel() (Model, error) {
	if s.model == nil {
		return nil, s.unavailable(Pipeline)
	}
	return s.model, nil
}

func (s *Service) needInherited() (*data.Dataset, error) {
	if s.inherited == nil {
		return nil, s.unavailable(Inherited)
	}
	return s.inherited, nil
}

// Target is the name of the price column.
func (s *Service) Target() string { return s.target }

// Resolver exposes the feature resolver bound to the reference data.
func (s *Service) Resolver() *features.Resolver { return s.resolver }

// Failures lists artifacts that failed to load.
func (s *Service) Failures() map[string]string {
	out := make(map[string]string, len(s.failures))
	for k, v := range s.failures {
		out[k] = v.Error()
	}
	return out
}
