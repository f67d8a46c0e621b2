package model

import "errors"

// ErrFeatureCount is returned when rows do not match the fitted width.
var ErrFeatureCount = errors.New("feature count mismatch between model and input")

// Regressor is a fitted estimator that maps encoded feature rows to
// continuous targets. Estimators arrive fitted inside a pipeline artifact;
// nothing in this module trains them.
type Regressor interface {
	Predict(X [][]float64) ([]float64, error)
	NumFeatures() int
	Name() string
}
