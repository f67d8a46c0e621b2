package dashboard

import (
	"github.com/NatashaRy/house-price-predictor/pkg/schema"
	"github.com/NatashaRy/house-price-predictor/pkg/stats"
)

// Page is one entry of the navigation menu.
type Page struct {
	Slug      string   `json:"slug"`
	Title     string   `json:"title"`
	Summary   string   `json:"summary"`
	Requires  []string `json:"requires"`
	Available bool     `json:"available"`
}

var pages = []Page{
	{
		Slug:     "overview",
		Title:    "Project Overview",
		Summary:  "Dataset details and the two business requirements.",
		Requires: []string{Reference},
	},
	{
		Slug:     "hypotheses",
		Title:    "Hypotheses",
		Summary:  "Four hypotheses about what drives the sale price, checked against the data.",
		Requires: []string{Reference},
	},
	{
		Slug:     "correlations",
		Title:    "Correlation Analysis",
		Summary:  "How house attributes correlate with the sale price.",
		Requires: []string{Reference},
	},
	{
		Slug:     "predict",
		Title:    "Price Prediction",
		Summary:  "Predicted prices of the inherited houses and of any house in Ames, Iowa.",
		Requires: []string{Reference, Pipeline, Inherited},
	},
	{
		Slug:     "pipeline",
		Title:    "ML Pipeline",
		Summary:  "Pipeline steps, features and train/test performance.",
		Requires: []string{Pipeline},
	},
}

// Pages returns the menu in display order with availability filled in.
func (s *Service) Pages() []Page {
	out := make([]Page, len(pages))
	for i, p := range pages {
		p.Requires = append([]string(nil), p.Requires...)
		p.Available = true
		for _, a := range p.Requires {
			if !s.loaded(a) {
				p.Available = false
			}
		}
		out[i] = p
	}
	return out
}

func (s *Service) loaded(artifact string) bool {
	switch artifact {
	case Reference:
		return s.ref != nil
	case Inherited:
		return s.inherited != nil
	case Pipeline:
		return s.model != nil
	}
	return false
}

// KeyVariables are the attributes highlighted on the overview page.
var KeyVariables = []string{"GrLivArea", "OverallQual", "YearBuilt"}

// Summary describes the reference dataset.
type Summary struct {
	Rows         int             `json:"rows"`
	Columns      int             `json:"columns"`
	ColumnNames  []string        `json:"column_names"`
	Target       string          `json:"target"`
	KeyVariables []string        `json:"key_variables"`
	Preview      []schema.Record `json:"preview"`
	Price        *PriceStats     `json:"price,omitempty"`
}

// PriceStats describes the target column of the reference dataset.
type PriceStats struct {
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

const previewRows = 5

// Summary describes the reference dataset for the overview page.
func (s *Service) Summary() (Summary, error) {
	ref, err := s.needReference()
	if err != nil {
		return Summary{}, err
	}
	sum := Summary{
		Rows:         ref.Len(),
		Columns:      len(ref.Columns()),
		ColumnNames:  ref.Columns(),
		Target:       s.target,
		KeyVariables: append([]string(nil), KeyVariables...),
		Preview:      ref.Head(previewRows),
	}
	if prices, err := ref.Floats(s.target); err == nil && len(prices) > 0 {
		lo, hi := stats.MinMax(prices)
		sum.Price = &PriceStats{
			Mean:   stats.Mean(prices),
			Std:    stats.Std(prices),
			Min:    lo,
			Q1:     stats.Percentile(prices, 25),
			Median: stats.Percentile(prices, 50),
			Q3:     stats.Percentile(prices, 75),
			Max:    hi,
		}
	}
	return sum, nil
}
