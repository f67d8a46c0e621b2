package dashboard

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/NatashaRy/house-price-predictor/pkg/analysis"
	"github.com/NatashaRy/house-price-predictor/pkg/data"
	"github.com/NatashaRy/house-price-predictor/pkg/model"
	"github.com/NatashaRy/house-price-predictor/pkg/schema"
)

// Correlations ranks attributes by their correlation with the price.
func (s *Service) Correlations(method string, top int) ([]analysis.Correlation, error) {
	ref, err := s.needReference()
	if err != nil {
		return nil, err
	}
	m, err := analysis.ParseMethod(method)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if top < 0 {
		return nil, fmt.Errorf("%w: top must not be negative", ErrInvalidInput)
	}
	return analysis.Correlations(ref, s.target, m, top)
}

// Hypotheses checks the project hypotheses against the reference data.
func (s *Service) Hypotheses() ([]analysis.Result, error) {
	ref, err := s.needReference()
	if err != nil {
		return nil, err
	}
	return analysis.Validate(ref, s.target, analysis.Hypotheses())
}

// PipelineReport is the content of the ML pipeline page.
type PipelineReport struct {
	Pipeline string   `json:"pipeline"`
	Steps    []string `json:"steps"`
	Features []string `json:"features"`
	analysis.Performance
}

// Performance describes the pipeline and scores it on the train and test
// sets that were configured.
func (s *Service) Performance() (PipelineReport, error) {
	m, err := s.needModel()
	if err != nil {
		return PipelineReport{}, err
	}
	rep := PipelineReport{
		Pipeline: m.String(),
		Steps:    m.Steps(),
		Features: m.Features().Names(),
	}
	for _, set := range []struct {
		name string
		ds   *data.Dataset
		dst  **model.Report
	}{
		{Train, s.train, &rep.Train},
		{Test, s.test, &rep.Test},
	} {
		if set.ds == nil {
			continue
		}
		r, err := analysis.Evaluate(set.ds, s.target, m.Features(), s.resolver, s.invoker)
		if err != nil {
			return PipelineReport{}, fmt.Errorf("%s: %w", set.name, err)
		}
		s.logger.Debug("pipeline evaluated", zap.String("set", set.name), zap.Stringer("report", r))
		*set.dst = &r
	}
	return rep, nil
}

// ScatterPlot renders feature against the price as PNG.
func (s *Service) ScatterPlot(feature string, w io.Writer) error {
	ref, err := s.needReference()
	if err != nil {
		return err
	}
	kind, ok := ref.Kind(feature)
	if !ok || kind != schema.Numeric || feature == s.target {
		return fmt.Errorf("%w: %q is not a numeric attribute", ErrInvalidInput, feature)
	}
	return analysis.ScatterPlot(ref, feature, s.target, w)
}

// TargetPlot renders the price distribution as PNG.
func (s *Service) TargetPlot(w io.Writer) error {
	ref, err := s.needReference()
	if err != nil {
		return err
	}
	return analysis.TargetHistogram(ref, s.target, w)
}

// InheritedPlot renders one bar per inherited house as PNG.
func (s *Service) InheritedPlot(w io.Writer) error {
	res, err := s.PredictInherited()
	if err != nil {
		return err
	}
	labels := make([]string, len(res.Houses))
	prices := make([]float64, len(res.Houses))
	for i, h := range res.Houses {
		labels[i] = fmt.Sprintf("House %d", i+1)
		prices[i] = h.PredictedSalePrice
	}
	return analysis.PriceBars(labels, prices, w)
}
