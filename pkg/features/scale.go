package features

import (
	"fmt"
	"math"
	"strconv"

	"github.com/NatashaRy/house-price-predictor/pkg/schema"
)

// Scale names how quality ratings arrive from a form.
type Scale string

const (
	// ScaleNative means values already use the model's scales:
	// OverallQual 1-10 and Po..Ex codes.
	ScaleNative Scale = "native"
	// ScaleFive means ratings were collected on 1-5 sliders.
	ScaleFive Scale = "five"
)

// OverallQuality is the one numeric rating the model reads on a 1-10 scale.
const OverallQuality = "OverallQual"

// ParseScale accepts "", "native" or "five".
func ParseScale(s string) (Scale, error) {
	switch Scale(s) {
	case "", ScaleNative:
		return ScaleNative, nil
	case ScaleFive:
		return ScaleFive, nil
	}
	return "", fmt.Errorf("%w: unknown quality scale %q", ErrInvalidValue, s)
}

// QualityCode maps a 1-5 rating to Po, Fa, TA, Gd, Ex.
func QualityCode(level int) (string, error) {
	if level < 1 || level > len(QualityCodes) {
		return "", fmt.Errorf("%w: quality level %d outside 1-5", ErrInvalidValue, level)
	}
	return QualityCodes[level-1], nil
}

// Rescale converts 1-5 form ratings to the model's scales in place of the
// originals. With ScaleNative the record is returned as is.
func (r *Resolver) Rescale(rec schema.Record, scale Scale) (schema.Record, error) {
	if scale != ScaleFive {
		return rec, nil
	}
	out := make(schema.Record, len(rec))
	for name, v := range rec {
		out[name] = v
		f, numeric := v.Float()
		if !numeric {
			// Categorical columns coerce slider numbers to labels.
			l, _ := v.Label()
			parsed, err := strconv.ParseFloat(l, 64)
			if err != nil {
				continue
			}
			f = parsed
		}
		switch {
		case name == OverallQuality:
			if _, err := fiveLevel(name, f); err != nil {
				return nil, err
			}
			out[name] = schema.Num(f * 2)
		case r.IsQuality(name):
			level, err := fiveLevel(name, f)
			if err != nil {
				return nil, err
			}
			code, _ := QualityCode(level)
			out[name] = schema.Text(code)
		}
	}
	return out, nil
}

func fiveLevel(name string, f float64) (int, error) {
	if f != math.Trunc(f) || f < 1 || f > 5 {
		return 0, fmt.Errorf("%w: %s rating %v outside 1-5", ErrInvalidValue, name, f)
	}
	return int(f), nil
}
