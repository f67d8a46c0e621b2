package model

import (
	"errors"
	"fmt"
	"math"
)

// ErrLengthMismatch is returned when targets and predictions differ in length.
var ErrLengthMismatch = errors.New("targets and predictions differ in length")

// MSE is the mean squared error.
func MSE(yTrue, yPred []float64) float64 {
	n := float64(len(yTrue))
	s := 0.0
	for i := range yTrue {
		d := yPred[i] - yTrue[i]
		s += d * d
	}
	return s / n
}

// MAE is the mean absolute error.
func MAE(yTrue, yPred []float64) float64 {
	n := float64(len(yTrue))
	s := 0.0
	for i := range yTrue {
		d := yPred[i] - yTrue[i]
		if d < 0 {
			d = -d
		}
		s += d
	}
	return s / n
}

func RMSE(yTrue, yPred []float64) float64 { return math.Sqrt(MSE(yTrue, yPred)) }

// R2 is the coefficient of determination. A constant target yields 0.
func R2(yTrue, yPred []float64) float64 {
	m := 0.0
	for _, v := range yTrue {
		m += v
	}
	m /= float64(len(yTrue))
	ssTot := 0.0
	ssRes := 0.0
	for i := range yTrue {
		d := yTrue[i] - m
		ssTot += d * d
		r := yTrue[i] - yPred[i]
		ssRes += r * r
	}
	if ssTot == 0 {
		return 0
	}
	return 1 - ssRes/ssTot
}

// Report bundles the regression scores shown on the pipeline page.
type Report struct {
	N    int     `json:"n" yaml:"n"`
	MAE  float64 `json:"mae" yaml:"mae"`
	MSE  float64 `json:"mse" yaml:"mse"`
	RMSE float64 `json:"rmse" yaml:"rmse"`
	R2   float64 `json:"r2" yaml:"r2"`
}

// Score computes all metrics at once.
func Score(yTrue, yPred []float64) (Report, error) {
	if len(yTrue) != len(yPred) {
		return Report{}, fmt.Errorf("%w: %d targets, %d predictions", ErrLengthMismatch, len(yTrue), len(yPred))
	}
	if len(yTrue) == 0 {
		return Report{}, errors.New("metrics: no rows to score")
	}
	return Report{
		N:    len(yTrue),
		MAE:  MAE(yTrue, yPred),
		MSE:  MSE(yTrue, yPred),
		RMSE: RMSE(yTrue, yPred),
		R2:   R2(yTrue, yPred),
	}, nil
}

func (r Report) String() string {
	return fmt.Sprintf("n=%d MAE=%.2f RMSE=%.2f R2=%.4f", r.N, r.MAE, r.RMSE, r.R2)
}
