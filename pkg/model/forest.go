package model

import (
	"errors"
	"fmt"
	"sync"
)

// ForestRegressor averages the outputs of fitted regression trees.
type ForestRegressor struct {
	Trees    []*RegressionTree
	Features int
}

// NewForestRegressor validates the trees against the input width.
func NewForestRegressor(nFeatures int, trees ...*RegressionTree) (*ForestRegressor, error) {
	rf := &ForestRegressor{Trees: trees, Features: nFeatures}
	if err := rf.Validate(); err != nil {
		return nil, err
	}
	return rf, nil
}

// Validate checks every tree against the input width.
func (rf *ForestRegressor) Validate() error {
	if len(rf.Trees) == 0 {
		return errors.New("forest: no trees")
	}
	for i, t := range rf.Trees {
		if t == nil {
			return fmt.Errorf("forest: tree %d is nil", i)
		}
		if err := t.Validate(rf.Features); err != nil {
			return fmt.Errorf("forest: tree %d: %w", i, err)
		}
	}
	return nil
}

func (rf *ForestRegressor) NumFeatures() int { return rf.Features }
func (rf *ForestRegressor) Name() string {
	return fmt.Sprintf("ForestRegressor(n_estimators=%d)", len(rf.Trees))
}

// Predict returns the mean of all trees for each row.
func (rf *ForestRegressor) Predict(X [][]float64) ([]float64, error) {
	n := len(X)
	for i, row := range X {
		if len(row) != rf.Features {
			return nil, fmt.Errorf("%w: row %d has %d features, want %d", ErrFeatureCount, i, len(row), rf.Features)
		}
	}
	if len(rf.Trees) == 0 {
		return nil, errors.New("forest: no trees")
	}

	// Fan out one goroutine per tree; each fills its own slot.
	perTree := make([][]float64, len(rf.Trees))
	var wg sync.WaitGroup
	for k, tree := range rf.Trees {
		wg.Add(1)
		go func(k int, t *RegressionTree) {
			defer wg.Done()
			preds := make([]float64, n)
			for i, x := range X {
				preds[i] = t.predictSingle(x)
			}
			perTree[k] = preds
		}(k, tree)
	}
	wg.Wait()

	out := make([]float64, n)
	for i := 0; i < n; i++ {
		sum := 0.0
		for k := range perTree {
			sum += perTree[k][i]
		}
		out[i] = sum / float64(len(perTree))
	}
	return out, nil
}
