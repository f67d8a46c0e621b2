// Package predict calls a trained pipeline on resolved feature vectors and
// turns every way inference can go wrong into one reportable error.
package predict

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/NatashaRy/house-price-predictor/pkg/schema"
)

// ErrPredictionFailed is matched by every error the invoker returns.
var ErrPredictionFailed = errors.New("prediction failed")

// Model is the one capability the invoker needs from a trained pipeline.
type Model interface {
	Predict(X schema.Frame) ([]float64, error)
}

// ModelFunc adapts a function to Model.
type ModelFunc func(X schema.Frame) ([]float64, error)

func (f ModelFunc) Predict(X schema.Frame) ([]float64, error) { return f(X) }

// Error reports a failed inference together with its cause.
type Error struct {
	Rows  int
	Cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("prediction failed for %d row(s): %v", e.Rows, e.Cause)
}

// Unwrap exposes both the sentinel and the underlying cause to errors.Is/As.
func (e *Error) Unwrap() []error { return []error{ErrPredictionFailed, e.Cause} }

// Invoker feeds frames to a Model. It is stateless between calls.
type Invoker struct {
	model  Model
	logger *zap.Logger
}

// NewInvoker wraps model. A nil logger disables logging.
func NewInvoker(model Model, logger *zap.Logger) *Invoker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Invoker{model: model, logger: logger}
}

// PredictOne returns the estimate for a single resolved record.
func (inv *Invoker) PredictOne(r schema.Resolved) (float64, error) {
	out, err := inv.PredictBatch([]schema.Resolved{r})
	if err != nil {
		return 0, err
	}
	return out[0], nil
}

// PredictBatch runs the model once over all rows and returns one estimate per
// row, in input order. Either the full result or an error comes back.
func (inv *Invoker) PredictBatch(rows []schema.Resolved) ([]float64, error) {
	if inv == nil || inv.model == nil {
		return nil, inv.fail(len(rows), errors.New("no model loaded"))
	}
	if len(rows) == 0 {
		return nil, inv.fail(0, errors.New("empty batch"))
	}
	frame, err := schema.NewFrame(rows...)
	if err != nil {
		return nil, inv.fail(len(rows), err)
	}

	out, err := inv.call(frame)
	if err != nil {
		return nil, inv.fail(len(rows), err)
	}
	if len(out) != len(rows) {
		return nil, inv.fail(len(rows), fmt.Errorf("model returned %d values for %d rows", len(out), len(rows)))
	}
	for i, v := range out {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, inv.fail(len(rows), fmt.Errorf("model returned %v for row %d", v, i))
		}
	}
	inv.logger.Debug("prediction complete", zap.Int("rows", len(rows)))
	return out, nil
}

// call shields the caller from panics inside third-party model code.
func (inv *Invoker) call(frame schema.Frame) (out []float64, err error) {
	defer func() {
		if p := recover(); p != nil {
			out, err = nil, fmt.Errorf("model panicked: %v", p)
		}
	}()
	return inv.model.Predict(frame)
}

func (inv *Invoker) fail(rows int, cause error) error {
	if inv != nil && inv.logger != nil {
		inv.logger.Warn("prediction failed", zap.Int("rows", rows), zap.Error(cause))
	}
	return &Error{Rows: rows, Cause: cause}
}
