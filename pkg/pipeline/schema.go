package pipeline

import (
	"fmt"

	"github.com/NatashaRy/house-price-predictor/pkg/schema"
)

// Schema describes the columns the pipeline was fitted on, in order.
type Schema struct {
	FeatureNames []string
	Kinds        []schema.Kind
}

// Spec returns the feature names as a schema.Spec.
func (s Schema) Spec() (schema.Spec, error) {
	return schema.NewSpec(s.FeatureNames...)
}

func (s Schema) validate() error {
	if len(s.FeatureNames) != len(s.Kinds) {
		return fmt.Errorf("pipeline: %d feature names for %d kinds", len(s.FeatureNames), len(s.Kinds))
	}
	for i, k := range s.Kinds {
		if k != schema.Numeric && k != schema.Categorical {
			return fmt.Errorf("pipeline: feature %q has kind %s", s.FeatureNames[i], k)
		}
	}
	_, err := s.Spec()
	return err
}

// Categorical lists the categorical feature names.
func (s Schema) Categorical() []string {
	var out []string
	for i, k := range s.Kinds {
		if k == schema.Categorical {
			out = append(out, s.FeatureNames[i])
		}
	}
	return out
}
