package model

import (
	"errors"
	"fmt"
	"math"
)

// TreeNode is one node of a fitted regression tree, stored flat so the tree
// serialises without pointers. Leaves carry Value; internal nodes route
// x[Feature] <= Threshold (or == for categorical splits) to Left.
type TreeNode struct {
	Leaf        bool
	Feature     int
	Threshold   float64
	Categorical bool
	Left, Right int
	Samples     int // training samples that reached the node
	Value       float64
}

// RegressionTree is a CART-style tree fitted offline. Nodes[0] is the root.
type RegressionTree struct {
	Nodes []TreeNode
}

// Validate checks that every child index points inside the tree, every split
// reads an existing feature, and walking from the root always terminates.
func (t *RegressionTree) Validate(nFeatures int) error {
	if len(t.Nodes) == 0 {
		return errors.New("tree: no nodes")
	}
	for i, n := range t.Nodes {
		if n.Leaf {
			continue
		}
		if n.Feature < 0 || n.Feature >= nFeatures {
			return fmt.Errorf("tree: node %d splits on feature %d of %d", i, n.Feature, nFeatures)
		}
		// Children always come after their parent, which rules out cycles.
		for _, c := range []int{n.Left, n.Right} {
			if c <= i || c >= len(t.Nodes) {
				return fmt.Errorf("tree: node %d has child %d outside (%d, %d)", i, c, i, len(t.Nodes))
			}
		}
	}
	return nil
}

// predictSingle walks from the root to a leaf.
func (t *RegressionTree) predictSingle(x []float64) float64 {
	node := t.Nodes[0]
	for !node.Leaf {
		val := x[node.Feature]
		var next int
		switch {
		case math.IsNaN(val):
			// missing: follow the branch that saw more samples
			next = node.Left
			if t.Nodes[node.Right].Samples > t.Nodes[node.Left].Samples {
				next = node.Right
			}
		case node.Categorical:
			next = node.Right
			if val == node.Threshold {
				next = node.Left
			}
		default:
			next = node.Right
			if val <= node.Threshold {
				next = node.Left
			}
		}
		node = t.Nodes[next]
	}
	return node.Value
}
