package analysis

import (
	"errors"
	"fmt"

	"github.com/NatashaRy/house-price-predictor/pkg/model"
	"github.com/NatashaRy/house-price-predictor/pkg/schema"
)

// Resolver completes raw rows against a feature list.
type Resolver interface {
	ResolveBatch(spec schema.Spec, rows []schema.Record) ([]schema.Resolved, error)
}

// Predictor runs a batch through the trained pipeline.
type Predictor interface {
	PredictBatch(rows []schema.Resolved) ([]float64, error)
}

// Labeled is a table whose rows carry the target column.
type Labeled interface {
	Records() []schema.Record
}

// Performance holds the scores shown on the pipeline page.
type Performance struct {
	Train *model.Report `json:"train,omitempty"`
	Test  *model.Report `json:"test,omitempty"`
}

// Evaluate scores the pipeline on every row of set whose target is present.
// Feature gaps are filled by the resolver exactly as for live input.
func Evaluate(set Labeled, target string, spec schema.Spec, r Resolver, p Predictor) (model.Report, error) {
	var (
		rows []schema.Record
		y    []float64
	)
	for _, rec := range set.Records() {
		v, ok := rec[target]
		if !ok {
			return model.Report{}, fmt.Errorf("analysis: target %q not in evaluation set", target)
		}
		f, ok := v.Float()
		if !ok {
			continue
		}
		rows = append(rows, rec)
		y = append(y, f)
	}
	if len(rows) == 0 {
		return model.Report{}, errors.New("analysis: no labelled rows to evaluate")
	}

	resolved, err := r.ResolveBatch(spec, rows)
	if err != nil {
		return model.Report{}, err
	}
	pred, err := p.PredictBatch(resolved)
	if err != nil {
		return model.Report{}, err
	}
	return model.Score(y, pred)
}
