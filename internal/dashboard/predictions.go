package dashboard

import (
	"errors"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/NatashaRy/house-price-predictor/pkg/export"
	"github.com/NatashaRy/house-price-predictor/pkg/features"
	"github.com/NatashaRy/house-price-predictor/pkg/schema"
)

// House is one resolved house with its predicted price.
type House struct {
	Features           schema.Resolved `json:"features"`
	PredictedSalePrice float64         `json:"predicted_sale_price"`
}

// InheritedPrediction is the result for the client's inherited houses.
type InheritedPrediction struct {
	Houses []House `json:"houses"`
	Total  float64 `json:"total"`
}

// PredictInherited resolves every inherited house against the pipeline's
// features and predicts all of them in one batch.
func (s *Service) PredictInherited() (InheritedPrediction, error) {
	m, err := s.needModel()
	if err != nil {
		return InheritedPrediction{}, err
	}
	inh, err := s.needInherited()
	if err != nil {
		return InheritedPrediction{}, err
	}
	rows, err := s.resolver.ResolveBatch(m.Features(), inh.Records())
	if err != nil {
		return InheritedPrediction{}, err
	}
	prices, err := s.invoker.PredictBatch(rows)
	if err != nil {
		return InheritedPrediction{}, err
	}

	out := InheritedPrediction{Houses: make([]House, len(rows))}
	for i := range rows {
		out.Houses[i] = House{Features: rows[i], PredictedSalePrice: prices[i]}
		out.Total += prices[i]
	}
	s.logger.Info("inherited houses priced", zap.Int("houses", len(rows)), zap.Float64("total", out.Total))
	return out, nil
}

// ExportInherited returns the inherited predictions as an XLSX workbook.
func (s *Service) ExportInherited() ([]byte, error) {
	res, err := s.PredictInherited()
	if err != nil {
		return nil, err
	}
	rows := make([]schema.Resolved, len(res.Houses))
	prices := make([]float64, len(res.Houses))
	for i, h := range res.Houses {
		rows[i] = h.Features
		prices[i] = h.PredictedSalePrice
	}
	return export.Inherited(rows, prices)
}

// PredictHouse prices one house from loosely typed form values. Missing
// features take reference defaults; scale says how quality ratings were
// collected ("native" or "five").
func (s *Service) PredictHouse(raw map[string]any, scale string) (House, error) {
	m, err := s.needModel()
	if err != nil {
		return House{}, err
	}
	if _, err := s.needReference(); err != nil {
		return House{}, err
	}
	sc, err := features.ParseScale(scale)
	if err != nil {
		return House{}, err
	}
	rec, err := s.resolver.Coerce(raw)
	if err != nil {
		return House{}, err
	}
	if rec, err = s.resolver.Rescale(rec, sc); err != nil {
		return House{}, err
	}
	row, err := s.resolver.Resolve(m.Features(), rec)
	if err != nil {
		return House{}, err
	}
	price, err := s.invoker.PredictOne(row)
	if err != nil {
		return House{}, err
	}
	return House{Features: row, PredictedSalePrice: price}, nil
}

// DisplayNames label form fields; other features show their column name.
var DisplayNames = map[string]string{
	"GarageArea":   "Garage Area (sq ft)",
	"GrLivArea":    "Ground Living Area (sq ft)",
	"TotalBsmtSF":  "Total Basement Area (sq ft)",
	"OverallQual":  "Overall Quality (1-5 scale)",
	"YearBuilt":    "Year Built",
	"KitchenQual":  "Kitchen Quality (1-5 scale)",
	"BsmtExposure": "Basement Exposure",
	"BsmtFinType1": "Basement Finished Type 1",
	"GarageFinish": "Garage Finish",
	"LotFrontage":  "Lot Frontage (linear feet)",
	"BedroomAbvGr": "Bedrooms Above Ground",
	"MasVnrArea":   "Masonry Veneer Area (sq ft)",
	"2ndFlrSF":     "Second Floor Area (sq ft)",
	"GarageYrBlt":  "Garage Year Built",
	"1stFlrSF":     "First Floor Area (sq ft)",
	"LotArea":      "Lot Area (sq ft)",
	"YearRemodAdd": "Year Remodeled/Added",
}

// Input ranges relative to the reference column.
const (
	minFactor = 0.4
	maxFactor = 2.0
)

// InputField describes one widget of the custom-house form.
type InputField struct {
	Name    string      `json:"name"`
	Label   string      `json:"label"`
	Kind    schema.Kind `json:"kind"`
	Min     float64     `json:"min"`
	Max     float64     `json:"max"`
	Step    float64     `json:"step"`
	Default any         `json:"default"`
	Options []string    `json:"options,omitempty"`
	// FiveScale marks ratings collected on 1-5; submit them with
	// quality_scale "five".
	FiveScale bool `json:"five_scale"`
}

// InputFields lists a widget per pipeline feature, in feature order.
func (s *Service) InputFields() ([]InputField, error) {
	m, err := s.needModel()
	if err != nil {
		return nil, err
	}
	ref, err := s.needReference()
	if err != nil {
		return nil, err
	}

	spec := m.Features()
	out := make([]InputField, 0, spec.Len())
	for _, name := range spec.Names() {
		def, err := s.resolver.Default(name)
		if err != nil {
			return nil, err
		}
		f := InputField{Name: name, Label: name, Kind: def.Kind(), Step: 1}
		if l, ok := DisplayNames[name]; ok {
			f.Label = l
		}

		switch {
		case name == features.OverallQuality:
			med, _ := def.Float()
			f.FiveScale = true
			f.Min, f.Max = 1, 5
			f.Default = clamp(math.Round(med/2), 1, 5)
		case def.Kind() == schema.Categorical && s.resolver.IsQuality(name):
			label, _ := def.Label()
			f.FiveScale = true
			f.Min, f.Max = 1, 5
			f.Default = qualityLevel(label)
		case def.Kind() == schema.Categorical:
			f.Options = ref.Levels(name)
			f.Default = def.Interface()
		default:
			if lo, hi, ok := ref.Range(name); ok {
				f.Min = math.Floor(lo * minFactor)
				f.Max = math.Ceil(hi * maxFactor)
			}
			if isArea(name) {
				f.Step = 50
			}
			f.Default = def.Interface()
		}
		out = append(out, f)
	}
	return out, nil
}

func isArea(name string) bool {
	return strings.HasSuffix(name, "Area") || strings.HasSuffix(name, "SF")
}

func qualityLevel(label string) float64 {
	for i, q := range features.QualityCodes {
		if q == label {
			return float64(i + 1)
		}
	}
	return 3
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

// IsInvalidInput reports whether err was caused by the caller's input rather
// than by a missing artifact or a failed prediction.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, features.ErrInvalidValue)
}
