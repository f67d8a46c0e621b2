package pipeline

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NatashaRy/house-price-predictor/pkg/model"
	"github.com/NatashaRy/house-price-predictor/pkg/schema"
	"github.com/NatashaRy/house-price-predictor/pkg/stats"
)

var testSchema = Schema{
	FeatureNames: []string{"GrLivArea", "KitchenQual", "OverallQual"},
	Kinds:        []schema.Kind{schema.Numeric, schema.Categorical, schema.Numeric},
}

func linearPipeline(t *testing.T) *Pipeline {
	t.Helper()
	enc, err := NewOrdinalEncoder(map[string][]string{"KitchenQual": {"Fa", "TA", "Gd", "Ex"}})
	require.NoError(t, err)
	est := model.NewLinearRegression([]float64{100, 10000, 20000}, 1000)
	p, err := New("v1", testSchema, enc, nil, est)
	require.NoError(t, err)
	return p
}

func frame(t *testing.T, spec schema.Spec, rows ...[]schema.Value) schema.Frame {
	t.Helper()
	rs := make([]schema.Resolved, len(rows))
	for i, r := range rows {
		var err error
		rs[i], err = schema.NewResolved(spec, r)
		require.NoError(t, err)
	}
	f, err := schema.NewFrame(rs...)
	require.NoError(t, err)
	return f
}

func TestPredictEncodesCategories(t *testing.T) {
	p := linearPipeline(t)
	X := frame(t, p.Features(),
		[]schema.Value{schema.Num(1000), schema.Text("Gd"), schema.Num(7)},
		[]schema.Value{schema.Num(2000), schema.Text("Fa"), schema.Num(5)},
	)
	got, err := p.Predict(X)
	require.NoError(t, err)
	// Gd -> 2, Fa -> 0
	assert.Equal(t, []float64{1000 + 100000 + 20000 + 140000, 1000 + 200000 + 0 + 100000}, got)
}

func TestPredictSchemaMismatch(t *testing.T) {
	p := linearPipeline(t)
	reordered := schema.MustSpec("KitchenQual", "GrLivArea", "OverallQual")
	X := frame(t, reordered, []schema.Value{schema.Text("Gd"), schema.Num(1000), schema.Num(7)})
	_, err := p.Predict(X)
	assert.ErrorIs(t, err, ErrSchemaMismatch)

	fewer := schema.MustSpec("GrLivArea", "KitchenQual")
	X = frame(t, fewer, []schema.Value{schema.Num(1000), schema.Text("Gd")})
	_, err = p.Predict(X)
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestPredictBadValues(t *testing.T) {
	p := linearPipeline(t)
	_, err := p.Predict(frame(t, p.Features(),
		[]schema.Value{schema.Num(1000), schema.Text("Po"), schema.Num(7)}))
	assert.ErrorIs(t, err, ErrUnknownCategory)

	_, err = p.Predict(frame(t, p.Features(),
		[]schema.Value{schema.Text("large"), schema.Text("Gd"), schema.Num(7)}))
	assert.ErrorIs(t, err, ErrBadValue)
}

func TestScalerStep(t *testing.T) {
	sc, err := stats.NewStandardScaler([]float64{1000, 0, 5}, []float64{500, 1, 0})
	require.NoError(t, err)
	enc, err := NewOrdinalEncoder(map[string][]string{"KitchenQual": {"TA", "Gd"}})
	require.NoError(t, err)
	p, err := New("v2", testSchema, enc, sc, model.NewLinearRegression([]float64{1, 1, 1}, 0))
	require.NoError(t, err)

	got, err := p.Predict(frame(t, p.Features(),
		[]schema.Value{schema.Num(1500), schema.Text("Gd"), schema.Num(7)}))
	require.NoError(t, err)
	assert.InDelta(t, 1+1+2, got[0], 1e-9)
	assert.Equal(t, []string{"OrdinalEncoder(variables=[KitchenQual])", "StandardScaler", "LinearRegression"}, p.Steps())
}

func TestNewRejectsInconsistentParts(t *testing.T) {
	enc, err := NewOrdinalEncoder(map[string][]string{"KitchenQual": {"TA"}})
	require.NoError(t, err)

	_, err = New("v", testSchema, enc, nil, model.NewLinearRegression([]float64{1}, 0))
	assert.Error(t, err, "width")
	_, err = New("v", testSchema, nil, nil, model.NewLinearRegression([]float64{1, 1, 1}, 0))
	assert.Error(t, err, "no encoder")
	_, err = New("v", testSchema, enc, nil, nil)
	assert.Error(t, err, "no estimator")
	_, err = New("v", Schema{FeatureNames: []string{"a"}}, enc, nil, model.NewLinearRegression([]float64{1}, 0))
	assert.Error(t, err, "kinds")
	_, err = NewOrdinalEncoder(map[string][]string{"KitchenQual": {"TA", "TA"}})
	assert.Error(t, err)
}

func TestGobRoundTripForest(t *testing.T) {
	tree := &model.RegressionTree{Nodes: []model.TreeNode{
		{Feature: 1, Threshold: 1, Categorical: true, Left: 1, Right: 2},
		{Leaf: true, Value: 300000},
		{Leaf: true, Value: 150000},
	}}
	rf, err := model.NewForestRegressor(3, tree)
	require.NoError(t, err)
	enc, err := FitOrdinalEncoder(map[string][]string{"KitchenQual": {"TA", "Gd", "TA", "Ex"}})
	require.NoError(t, err)
	p, err := New("v3", testSchema, enc, nil, rf)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, p.Save(&buf))
	back, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, "v3", back.Version)
	assert.True(t, back.Features().Equal(p.Features()))

	got, err := back.Predict(frame(t, back.Features(),
		[]schema.Value{schema.Num(900), schema.Text("Gd"), schema.Num(6)},
		[]schema.Value{schema.Num(900), schema.Text("Ex"), schema.Num(6)},
	))
	require.NoError(t, err)
	assert.Equal(t, []float64{300000, 150000}, got)
	assert.Contains(t, back.String(), "ForestRegressor")
}

func TestSaveFileAndLoad(t *testing.T) {
	p := linearPipeline(t)
	path := ArtifactPath(t.TempDir(), "v1")
	require.NoError(t, p.SaveFile(path))
	assert.Equal(t, FileName, filepath.Base(path))

	back, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, p.String(), back.String())

	_, err = Load(filepath.Join(t.TempDir(), "missing.gob"))
	assert.Error(t, err)
	_, err = Decode(bytes.NewReader([]byte("not gob")))
	assert.Error(t, err)
}
