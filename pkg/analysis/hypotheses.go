package analysis

import "fmt"

// Hypothesis is a claim that a feature rises with the sale price.
// Reported is the Pearson coefficient found in the original study; a fresh
// run confirms the claim when the observed coefficient reaches MinCoefficient.
type Hypothesis struct {
	ID             int     `json:"id"`
	Title          string  `json:"title"`
	Feature        string  `json:"feature"`
	Rationale      string  `json:"rationale"`
	Reported       float64 `json:"reported"`
	MinCoefficient float64 `json:"min_coefficient"`
}

// Hypotheses returns the four project hypotheses in display order.
func Hypotheses() []Hypothesis {
	return []Hypothesis{
		{
			ID:             1,
			Title:          "Larger houses have higher sale price",
			Feature:        "GrLivArea",
			Rationale:      "Houses with larger living areas are worth more for their size and usability.",
			Reported:       0.71,
			MinCoefficient: 0.4,
		},
		{
			ID:             2,
			Title:          "Houses with higher overall quality have higher sale price",
			Feature:        "OverallQual",
			Rationale:      "Better construction and finishes last longer and appeal to buyers.",
			Reported:       0.79,
			MinCoefficient: 0.4,
		},
		{
			ID:             3,
			Title:          "Newer houses have higher sale price",
			Feature:        "YearBuilt",
			Rationale:      "Newer houses have modern designs, better materials and lower maintenance costs.",
			Reported:       0.52,
			MinCoefficient: 0.4,
		},
		{
			ID:             4,
			Title:          "Houses with garages have higher sale price",
			Feature:        "GarageArea",
			Rationale:      "Garages add storage and parking space.",
			Reported:       0.62,
			MinCoefficient: 0.4,
		},
	}
}

// Result is a hypothesis checked against a dataset.
type Result struct {
	Hypothesis
	Observed  float64 `json:"observed"`
	N         int     `json:"n"`
	Confirmed bool    `json:"confirmed"`
}

// Verdict is the wording shown next to a hypothesis.
func (r Result) Verdict() string {
	if r.Confirmed {
		return "correct"
	}
	return "not supported"
}

// Validate computes the Pearson coefficient of each hypothesis feature with
// target over rows where both are present.
func Validate(t Table, target string, hs []Hypothesis) ([]Result, error) {
	out := make([]Result, 0, len(hs))
	for _, h := range hs {
		x, y, err := pairs(t, h.Feature, target)
		if err != nil {
			return nil, fmt.Errorf("hypothesis %d: %w", h.ID, err)
		}
		r := Pearson.apply(x, y)
		out = append(out, Result{
			Hypothesis: h,
			Observed:   r,
			N:          len(x),
			Confirmed:  len(x) > 1 && r >= h.MinCoefficient,
		})
	}
	return out, nil
}
