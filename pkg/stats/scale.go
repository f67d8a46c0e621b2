package stats

import "fmt"

// StandardScaler centres and scales columns with parameters fitted offline.
// Zero standard deviations are stored as 1 so constant columns map to 0.
type StandardScaler struct {
	Mean []float64
	Std  []float64
}

// NewStandardScaler builds a scaler from fitted column means and deviations.
func NewStandardScaler(mean, std []float64) (*StandardScaler, error) {
	if len(mean) != len(std) {
		return nil, fmt.Errorf("scaler: %d means for %d deviations", len(mean), len(std))
	}
	s := &StandardScaler{Mean: append([]float64(nil), mean...), Std: append([]float64(nil), std...)}
	for j, v := range s.Std {
		if v == 0 {
			s.Std[j] = 1
		}
	}
	return s, nil
}

// Transform returns a scaled copy of X; the input is left untouched.
func (s *StandardScaler) Transform(X [][]float64) ([][]float64, error) {
	c := len(s.Mean)
	Y := make([][]float64, len(X))
	for i, in := range X {
		if len(in) != c {
			return nil, fmt.Errorf("scaler: row %d has %d columns, want %d", i, len(in), c)
		}
		row := make([]float64, c)
		for j := 0; j < c; j++ {
			row[j] = (in[j] - s.Mean[j]) / s.Std[j]
		}
		Y[i] = row
	}
	return Y, nil
}
