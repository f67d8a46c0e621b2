// Package pipeline holds the trained regression pipeline artifact: an
// ordinal encoder for categorical features, an optional standard scaler and
// a fitted regressor. Pipelines are fitted elsewhere and only loaded here.
package pipeline

import (
	"bufio"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/NatashaRy/house-price-predictor/pkg/model"
	"github.com/NatashaRy/house-price-predictor/pkg/schema"
	"github.com/NatashaRy/house-price-predictor/pkg/stats"
)

// ErrSchemaMismatch is returned when a frame's columns differ from the
// fitted feature list in set or order.
var ErrSchemaMismatch = errors.New("pipeline: feature names mismatch")

// FileName is the artifact name inside a version directory.
const FileName = "regression_pipeline.gob"

func init() {
	gob.Register(&model.LinearRegression{})
	gob.Register(&model.ForestRegressor{})
}

// ArtifactPath is outputs/ml_pipeline/predict_price/<version>/regression_pipeline.gob under root.
func ArtifactPath(root, version string) string {
	return filepath.Join(root, "outputs", "ml_pipeline", "predict_price", version, FileName)
}

// Transformer is a numeric step applied after encoding.
type Transformer interface {
	Transform(X [][]float64) ([][]float64, error)
}

var _ Transformer = (*stats.StandardScaler)(nil)

// Pipeline chains encoding, scaling and the estimator.
type Pipeline struct {
	Version   string
	Schema    Schema
	Encoder   *OrdinalEncoder
	Scaler    *stats.StandardScaler
	Estimator model.Regressor

	spec schema.Spec
}

// New assembles and validates a pipeline. scaler may be nil.
func New(version string, sch Schema, enc *OrdinalEncoder, scaler *stats.StandardScaler, est model.Regressor) (*Pipeline, error) {
	p := &Pipeline{Version: version, Schema: sch, Encoder: enc, Scaler: scaler, Estimator: est}
	if err := p.init(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Pipeline) init() error {
	if err := p.Schema.validate(); err != nil {
		return err
	}
	spec, err := p.Schema.Spec()
	if err != nil {
		return err
	}
	p.spec = spec
	if p.Estimator == nil {
		return errors.New("pipeline: no estimator")
	}
	if n := p.Estimator.NumFeatures(); n != spec.Len() {
		return fmt.Errorf("pipeline: estimator expects %d features, schema has %d", n, spec.Len())
	}
	if v, ok := p.Estimator.(interface{ Validate() error }); ok {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	if p.Scaler != nil && len(p.Scaler.Mean) != spec.Len() {
		return fmt.Errorf("pipeline: scaler fitted on %d features, schema has %d", len(p.Scaler.Mean), spec.Len())
	}

	cats := p.Schema.Categorical()
	if len(cats) > 0 && p.Encoder == nil {
		return errors.New("pipeline: categorical features but no encoder")
	}
	if p.Encoder != nil {
		if err := p.Encoder.index(); err != nil {
			return err
		}
		for _, name := range cats {
			if _, ok := p.Encoder.Categories[name]; !ok {
				return fmt.Errorf("pipeline: encoder has no categories for %q", name)
			}
		}
	}
	return nil
}

// Features is the fitted feature list, in the order the pipeline expects.
func (p *Pipeline) Features() schema.Spec { return p.spec }

// Steps names each stage in order.
func (p *Pipeline) Steps() []string {
	var steps []string
	if cats := p.Schema.Categorical(); len(cats) > 0 {
		steps = append(steps, fmt.Sprintf("OrdinalEncoder(variables=[%s])", strings.Join(cats, ", ")))
	}
	if p.Scaler != nil {
		steps = append(steps, "StandardScaler")
	}
	return append(steps, p.Estimator.Name())
}

func (p *Pipeline) String() string {
	return fmt.Sprintf("Pipeline(%s): %s", p.Version, strings.Join(p.Steps(), " -> "))
}

// Predict encodes, scales and estimates every row of X.
func (p *Pipeline) Predict(X schema.Frame) ([]float64, error) {
	if !X.Columns.Equal(p.spec) {
		return nil, fmt.Errorf("%w: got %s, fitted on %s", ErrSchemaMismatch, X.Columns, p.spec)
	}
	M, err := p.encode(X)
	if err != nil {
		return nil, err
	}
	if p.Scaler != nil {
		if M, err = p.Scaler.Transform(M); err != nil {
			return nil, err
		}
	}
	return p.Estimator.Predict(M)
}

func (p *Pipeline) encode(X schema.Frame) ([][]float64, error) {
	out := make([][]float64, len(X.Rows))
	for i, row := range X.Rows {
		vec := make([]float64, len(row))
		for j, v := range row {
			name := p.spec.Name(j)
			switch p.Schema.Kinds[j] {
			case schema.Numeric:
				f, ok := v.Float()
				if !ok {
					return nil, fmt.Errorf("%w: row %d: could not convert %s=%q to float", ErrBadValue, i, name, v.String())
				}
				vec[j] = f
			default:
				if v.IsMissing() {
					return nil, fmt.Errorf("%w: row %d: %s is missing", ErrBadValue, i, name)
				}
				// numeric labels such as MSSubClass arrive as numbers
				code, err := p.Encoder.Encode(name, v.String())
				if err != nil {
					return nil, fmt.Errorf("row %d: %w", i, err)
				}
				vec[j] = code
			}
		}
		out[i] = vec
	}
	return out, nil
}

// Save writes the pipeline in gob form.
func (p *Pipeline) Save(w io.Writer) error {
	return gob.NewEncoder(w).Encode(p)
}

// SaveFile writes the artifact to path, creating parent directories.
func (p *Pipeline) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := p.Save(w); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Decode reads and validates a gob-encoded pipeline.
func Decode(r io.Reader) (*Pipeline, error) {
	p := new(Pipeline)
	if err := gob.NewDecoder(r).Decode(p); err != nil {
		return nil, fmt.Errorf("pipeline: decode: %w", err)
	}
	if err := p.init(); err != nil {
		return nil, err
	}
	return p, nil
}

// Load opens the artifact at path.
func Load(path string) (*Pipeline, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	p, err := Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}
