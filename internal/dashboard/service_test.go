package dashboard

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NatashaRy/house-price-predictor/internal/config"
	"github.com/NatashaRy/house-price-predictor/pkg/data"
	"github.com/NatashaRy/house-price-predictor/pkg/features"
	"github.com/NatashaRy/house-price-predictor/pkg/model"
	"github.com/NatashaRy/house-price-predictor/pkg/pipeline"
	"github.com/NatashaRy/house-price-predictor/pkg/predict"
	"github.com/NatashaRy/house-price-predictor/pkg/schema"
)

const referenceCSV = `Id,GrLivArea,OverallQual,KitchenQual,GarageArea,YearBuilt,SalePrice
1,1000,5,TA,200,1960,100000
2,1500,6,TA,300,1975,150000
3,2000,7,Gd,400,1990,200000
4,2500,8,Gd,500,2000,250000
5,3000,9,Ex,,2005,300000
`

const inheritedCSV = `GrLivArea,OverallQual,KitchenQual,GarageArea
896,5,TA,730
1329,6,Gd,312
`

func readCSV(t *testing.T, s string) *data.Dataset {
	t.Helper()
	d, err := data.ReadCSV(strings.NewReader(s))
	require.NoError(t, err)
	return d
}

// testPipeline prices a house as
// 100*GrLivArea + 1000*OverallQual + 500*code(KitchenQual) + 10*GarageArea.
func testPipeline(t *testing.T) *pipeline.Pipeline {
	t.Helper()
	enc, err := pipeline.NewOrdinalEncoder(map[string][]string{"KitchenQual": features.QualityCodes})
	require.NoError(t, err)
	p, err := pipeline.New("v1", pipeline.Schema{
		FeatureNames: []string{"GrLivArea", "OverallQual", "KitchenQual", "GarageArea"},
		Kinds:        []schema.Kind{schema.Numeric, schema.Numeric, schema.Categorical, schema.Numeric},
	}, enc, nil, model.NewLinearRegression([]float64{100, 1000, 500, 10}, 0))
	require.NoError(t, err)
	return p
}

func newService(t *testing.T) *Service {
	t.Helper()
	return New(
		WithReference(readCSV(t, referenceCSV)),
		WithInherited(readCSV(t, inheritedCSV)),
		WithModel(testPipeline(t)),
	)
}

func TestPages(t *testing.T) {
	ps := newService(t).Pages()
	require.Len(t, ps, 5)
	titles := make([]string, len(ps))
	for i, p := range ps {
		titles[i] = p.Title
		assert.True(t, p.Available, p.Title)
	}
	assert.Equal(t, []string{"Project Overview", "Hypotheses", "Correlation Analysis", "Price Prediction", "ML Pipeline"}, titles)

	for _, p := range New().Pages() {
		assert.False(t, p.Available, p.Title)
	}
}

func TestSummary(t *testing.T) {
	sum, err := newService(t).Summary()
	require.NoError(t, err)
	assert.Equal(t, 5, sum.Rows)
	assert.Equal(t, 7, sum.Columns)
	assert.Equal(t, "SalePrice", sum.Target)
	assert.Len(t, sum.Preview, 5)
	require.NotNil(t, sum.Price)
	assert.Equal(t, 100000.0, sum.Price.Min)
	assert.Equal(t, 150000.0, sum.Price.Q1)
	assert.Equal(t, 200000.0, sum.Price.Median)
	assert.Equal(t, 250000.0, sum.Price.Q3)
	assert.Equal(t, 300000.0, sum.Price.Max)
	assert.Equal(t, 200000.0, sum.Price.Mean)
}

func TestPredictInherited(t *testing.T) {
	res, err := newService(t).PredictInherited()
	require.NoError(t, err)
	require.Len(t, res.Houses, 2)
	assert.Equal(t, 102900.0, res.Houses[0].PredictedSalePrice)
	assert.Equal(t, 143520.0, res.Houses[1].PredictedSalePrice)
	assert.Equal(t, 246420.0, res.Total)
	assert.Equal(t, []string{"GrLivArea", "OverallQual", "KitchenQual", "GarageArea"}, res.Houses[0].Features.Spec().Names())
}

func TestPredictHouseFillsDefaults(t *testing.T) {
	h, err := newService(t).PredictHouse(map[string]any{"GrLivArea": 1710.0}, "")
	require.NoError(t, err)
	// OverallQual 7, KitchenQual Gd (tie broken alphabetically), GarageArea 350
	assert.Equal(t, 183000.0, h.PredictedSalePrice)
	kq, _ := h.Features.Get("KitchenQual")
	assert.Equal(t, schema.Text("Gd"), kq)
}

func TestPredictHouseFiveScale(t *testing.T) {
	h, err := newService(t).PredictHouse(map[string]any{
		"GrLivArea":   1000,
		"OverallQual": 3,
		"KitchenQual": 4,
	}, "five")
	require.NoError(t, err)
	assert.Equal(t, 111000.0, h.PredictedSalePrice)
}

func TestPredictHouseInvalidInput(t *testing.T) {
	s := newService(t)
	_, err := s.PredictHouse(map[string]any{"GrLivArea": "big"}, "")
	assert.ErrorIs(t, err, features.ErrInvalidValue)
	assert.True(t, IsInvalidInput(err))

	_, err = s.PredictHouse(map[string]any{}, "ten")
	assert.True(t, IsInvalidInput(err))

	_, err = s.PredictHouse(map[string]any{"KitchenQual": "Po"}, "")
	assert.NoError(t, err, "every quality code is known to the encoder")

	_, err = s.PredictHouse(map[string]any{"KitchenQual": "Superb"}, "")
	assert.ErrorIs(t, err, predict.ErrPredictionFailed)
	assert.ErrorIs(t, err, pipeline.ErrUnknownCategory)
}

func TestUnavailableArtifacts(t *testing.T) {
	s := New(WithReference(readCSV(t, referenceCSV)), WithFailure(Pipeline, os.ErrNotExist))

	_, err := s.Summary()
	assert.NoError(t, err)
	_, err = s.Correlations("pearson", 5)
	assert.NoError(t, err)

	_, err = s.PredictInherited()
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), Pipeline)
	_, err = s.PredictHouse(map[string]any{}, "")
	assert.ErrorIs(t, err, ErrUnavailable)
	_, err = s.InputFields()
	assert.ErrorIs(t, err, ErrUnavailable)
	_, err = s.Performance()
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, s.Failures(), Pipeline)

	_, err = New(WithModel(testPipeline(t))).Summary()
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestInputFields(t *testing.T) {
	fields, err := newService(t).InputFields()
	require.NoError(t, err)
	require.Len(t, fields, 4)

	area := fields[0]
	assert.Equal(t, "Ground Living Area (sq ft)", area.Label)
	assert.Equal(t, 400.0, area.Min)
	assert.Equal(t, 6000.0, area.Max)
	assert.Equal(t, 50.0, area.Step)
	assert.Equal(t, 2000.0, area.Default)

	qual := fields[1]
	assert.True(t, qual.FiveScale)
	assert.Equal(t, 4.0, qual.Default)

	kitchen := fields[2]
	assert.True(t, kitchen.FiveScale)
	assert.Equal(t, schema.Categorical, kitchen.Kind)
	assert.Equal(t, 4.0, kitchen.Default)

	garage := fields[3]
	assert.Equal(t, 80.0, garage.Min)
	assert.Equal(t, 1000.0, garage.Max)
	assert.Equal(t, 350.0, garage.Default)
}

func TestBasementExposureKeepsItsLevels(t *testing.T) {
	ref := readCSV(t, `GrLivArea,BsmtExposure,SalePrice
1000,No,100000
1500,Gd,150000
2000,Av,200000
2500,Mn,250000
3000,No,300000
`)
	enc, err := pipeline.NewOrdinalEncoder(map[string][]string{"BsmtExposure": {"No", "Mn", "Av", "Gd"}})
	require.NoError(t, err)
	p, err := pipeline.New("v1", pipeline.Schema{
		FeatureNames: []string{"GrLivArea", "BsmtExposure"},
		Kinds:        []schema.Kind{schema.Numeric, schema.Categorical},
	}, enc, nil, model.NewLinearRegression([]float64{100, 1000}, 0))
	require.NoError(t, err)
	s := New(WithReference(ref), WithModel(p))

	fields, err := s.InputFields()
	require.NoError(t, err)
	require.Len(t, fields, 2)
	exposure := fields[1]
	assert.False(t, exposure.FiveScale)
	assert.Equal(t, []string{"Av", "Gd", "Mn", "No"}, exposure.Options)
	assert.Equal(t, "No", exposure.Default)

	h, err := s.PredictHouse(map[string]any{"GrLivArea": 1000, "BsmtExposure": "Av"}, "five")
	require.NoError(t, err)
	assert.Equal(t, 102000.0, h.PredictedSalePrice)
	v, _ := h.Features.Get("BsmtExposure")
	assert.Equal(t, schema.Text("Av"), v)
}

func TestStudyPages(t *testing.T) {
	s := newService(t)
	cs, err := s.Correlations("spearman", 3)
	require.NoError(t, err)
	assert.Len(t, cs, 3)
	_, err = s.Correlations("kendall", 0)
	assert.ErrorIs(t, err, ErrInvalidInput)

	hs, err := s.Hypotheses()
	require.NoError(t, err)
	assert.Len(t, hs, 4)
}

func TestPerformance(t *testing.T) {
	s := New(
		WithReference(readCSV(t, referenceCSV)),
		WithModel(testPipeline(t)),
		WithEvaluationSets(readCSV(t, referenceCSV), nil),
	)
	rep, err := s.Performance()
	require.NoError(t, err)
	require.NotNil(t, rep.Train)
	assert.Nil(t, rep.Test)
	assert.Equal(t, 5, rep.Train.N)
	assert.Equal(t, []string{"OrdinalEncoder(variables=[KitchenQual])", "LinearRegression"}, rep.Steps)
	assert.Contains(t, rep.Pipeline, "v1")
}

func TestPlotsAndExport(t *testing.T) {
	s := newService(t)
	png := []byte("\x89PNG")

	var buf bytes.Buffer
	require.NoError(t, s.ScatterPlot("GrLivArea", &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), png))
	assert.ErrorIs(t, s.ScatterPlot("KitchenQual", &buf), ErrInvalidInput)
	assert.ErrorIs(t, s.ScatterPlot("SalePrice", &buf), ErrInvalidInput)

	buf.Reset()
	require.NoError(t, s.TargetPlot(&buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), png))

	buf.Reset()
	require.NoError(t, s.InheritedPlot(&buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), png))

	b, err := s.ExportInherited()
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("PK")), "xlsx is a zip archive")
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Data.Reference = filepath.Join(dir, "records.csv")
	cfg.Data.Inherited = filepath.Join(dir, "inherited.csv")
	cfg.Data.Test = filepath.Join(dir, "test.csv")
	cfg.Pipeline.Root = dir
	require.NoError(t, os.WriteFile(cfg.Data.Reference, []byte(referenceCSV), 0o644))
	require.NoError(t, os.WriteFile(cfg.Data.Inherited, []byte(inheritedCSV), 0o644))
	require.NoError(t, os.WriteFile(cfg.Data.Test, []byte(referenceCSV), 0o644))
	require.NoError(t, testPipeline(t).SaveFile(cfg.PipelinePath()))

	s := Open(cfg, nil)
	assert.Empty(t, s.Failures())
	res, err := s.PredictInherited()
	require.NoError(t, err)
	assert.Equal(t, 246420.0, res.Total)
	rep, err := s.Performance()
	require.NoError(t, err)
	require.NotNil(t, rep.Test)
}

func TestOpenKeepsServingWithoutPipeline(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Data.Reference = filepath.Join(dir, "records.csv")
	cfg.Data.Inherited = filepath.Join(dir, "missing.csv")
	cfg.Pipeline.Path = filepath.Join(dir, "missing.gob")
	require.NoError(t, os.WriteFile(cfg.Data.Reference, []byte(referenceCSV), 0o644))

	s := Open(cfg, nil)
	assert.Len(t, s.Failures(), 2)
	_, err := s.Hypotheses()
	assert.NoError(t, err)
	_, err = s.PredictInherited()
	assert.ErrorIs(t, err, ErrUnavailable)
}
