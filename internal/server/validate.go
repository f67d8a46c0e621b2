package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/NatashaRy/house-price-predictor/internal/dashboard"
	"github.com/NatashaRy/house-price-predictor/pkg/schema"
)

var errBadBody = errors.New("malformed request body")

// bodyValidator checks prediction requests against a JSON schema derived
// from the pipeline's features when they are known.
type bodyValidator struct {
	schema *jsonschema.Schema
}

func newBodyValidator(svc *dashboard.Service) (*bodyValidator, error) {
	props := map[string]any{}
	if fields, err := svc.InputFields(); err == nil {
		for _, f := range fields {
			types := []string{"number", "null"}
			if f.Kind == schema.Categorical {
				types = []string{"string", "number", "null"}
			}
			props[f.Name] = map[string]any{"type": types}
		}
	}
	doc := map[string]any{
		"$schema":              "http://json-schema.org/draft-07/schema#",
		"type":                 "object",
		"required":             []string{"features"},
		"additionalProperties": false,
		"properties": map[string]any{
			"features": map[string]any{
				"type":       "object",
				"properties": props,
			},
			"quality_scale": map[string]any{
				"enum": []string{"", "native", "five"},
			},
		},
	}

	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("prediction.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	sch, err := compiler.Compile("prediction.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &bodyValidator{schema: sch}, nil
}

func (v *bodyValidator) check(body []byte) error {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return fmt.Errorf("%w: %v", errBadBody, err)
	}
	if err := v.schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", errBadBody, err)
	}
	return nil
}
