package model

import (
	"fmt"
	"runtime"
	"sync"
)

// LinearRegression holds fitted weights and bias.
type LinearRegression struct {
	W []float64 // weights
	B float64   // bias
}

// NewLinearRegression wraps already fitted coefficients.
func NewLinearRegression(w []float64, b float64) *LinearRegression {
	return &LinearRegression{W: append([]float64(nil), w...), B: b}
}

func (m *LinearRegression) NumFeatures() int { return len(m.W) }
func (m *LinearRegression) Name() string     { return "LinearRegression" }

// Predict returns predictions for rows in X (rows of features).
// Rows are split across CPU cores; each worker writes a disjoint range.
func (m *LinearRegression) Predict(X [][]float64) ([]float64, error) {
	if len(X) == 0 {
		return nil, nil
	}
	for i, row := range X {
		if len(row) != len(m.W) {
			return nil, fmt.Errorf("%w: row %d has %d features, want %d", ErrFeatureCount, i, len(row), len(m.W))
		}
	}
	pred := make([]float64, len(X))
	var wg sync.WaitGroup

	workers := runtime.GOMAXPROCS(0)
	rowsPerWorker := (len(X) + workers - 1) / workers

	for w := 0; w < workers; w++ {
		s := w * rowsPerWorker
		e := s + rowsPerWorker
		if e > len(X) {
			e = len(X)
		}
		if s >= e {
			continue
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				sum := m.B
				for j, v := range X[i] {
					sum += m.W[j] * v
				}
				pred[i] = sum
			}
		}(s, e)
	}
	wg.Wait()
	return pred, nil
}
