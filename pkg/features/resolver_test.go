package features

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NatashaRy/house-price-predictor/pkg/data"
	"github.com/NatashaRy/house-price-predictor/pkg/schema"
)

const referenceCSV = `GarageArea,GrLivArea,OverallQual,KitchenQual,BsmtExposure,LotFrontage,FenceQual,MiscFeature,SalePrice
0,1200,5,TA,No,,,,120000
200,1500,6,Gd,No,,,,150000
400,1710,7,TA,Av,,,,210000
400,2100,8,Ex,Gd,,,,260000
600,2500,9,TA,No,,,,305000
`

var valueCmp = cmp.Comparer(func(a, b schema.Value) bool {
	return a.Kind() == b.Kind() && a.String() == b.String()
})

func reference(t *testing.T) *data.Dataset {
	t.Helper()
	d, err := data.ReadCSV(strings.NewReader(referenceCSV), data.WithKinds(map[string]schema.Kind{
		"FenceQual":   schema.Categorical,
		"MiscFeature": schema.Categorical,
	}))
	require.NoError(t, err)
	return d
}

func recordOf(r schema.Resolved) map[string]schema.Value {
	return map[string]schema.Value(r.Record())
}

func TestResolveCompleteRecordPassesThrough(t *testing.T) {
	spec := schema.MustSpec("GrLivArea", "KitchenQual", "GarageArea")
	raw := schema.Record{
		"GarageArea":  schema.Num(55),
		"KitchenQual": schema.Text("Fa"),
		"GrLivArea":   schema.Num(999),
		"Unrelated":   schema.Text("dropped"),
	}

	got, err := NewResolver(reference(t)).Resolve(spec, raw)
	require.NoError(t, err)

	assert.Equal(t, spec.Names(), got.Spec().Names())
	want := []schema.Value{schema.Num(999), schema.Text("Fa"), schema.Num(55)}
	if diff := cmp.Diff(want, got.Values(), valueCmp); diff != "" {
		t.Errorf("resolved values mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveNumericMedian(t *testing.T) {
	spec := schema.MustSpec("GrLivArea", "GarageArea")
	got, err := NewResolver(reference(t)).Resolve(spec, schema.Record{"GrLivArea": schema.Num(1800)})
	require.NoError(t, err)

	v, ok := got.Get("GarageArea")
	require.True(t, ok)
	assert.Equal(t, schema.Num(400), v)
}

func TestResolveMissingValueIsDefaulted(t *testing.T) {
	spec := schema.MustSpec("GarageArea")
	got, err := NewResolver(reference(t)).Resolve(spec, schema.Record{"GarageArea": schema.Null()})
	require.NoError(t, err)
	v, _ := got.Get("GarageArea")
	assert.Equal(t, schema.Num(400), v)
}

func TestResolveNumericWithoutMedianIsZero(t *testing.T) {
	spec := schema.MustSpec("LotFrontage")
	got, err := NewResolver(reference(t)).Resolve(spec, schema.Record{})
	require.NoError(t, err)
	v, _ := got.Get("LotFrontage")
	assert.Equal(t, schema.Num(0), v)
}

func TestResolveCategorical(t *testing.T) {
	r := NewResolver(reference(t))

	tests := []struct {
		name    string
		feature string
		want    string
	}{
		{"mode", "KitchenQual", "TA"},
		{"mode of non-quality column", "BsmtExposure", "No"},
		{"no mode, other categorical", "MiscFeature", NoneCategory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(schema.MustSpec(tt.feature), schema.Record{})
			require.NoError(t, err)
			v, _ := got.Get(tt.feature)
			assert.Equal(t, schema.Text(tt.want), v)
		})
	}
}

func TestQualitySentinelWithoutMode(t *testing.T) {
	r := NewResolver(reference(t), WithQualityFeatures("FenceQual"))
	got, err := r.Resolve(schema.MustSpec("FenceQual"), schema.Record{})
	require.NoError(t, err)
	v, _ := got.Get("FenceQual")
	assert.Equal(t, schema.Text(TypicalQuality), v)

	r = NewResolver(reference(t), WithQualityFeatures())
	got, err = r.Resolve(schema.MustSpec("FenceQual"), schema.Record{})
	require.NoError(t, err)
	v, _ = got.Get("FenceQual")
	assert.Equal(t, schema.Text(NoneCategory), v)
}

func TestResolveKeySetAndIdempotence(t *testing.T) {
	spec := schema.MustSpec("OverallQual", "GarageArea", "KitchenQual", "GrLivArea")
	r := NewResolver(reference(t))

	inputs := []schema.Record{
		{},
		{"GarageArea": schema.Num(10)},
		{"Extra": schema.Num(1), "KitchenQual": schema.Text("Gd"), "OverallQual": schema.Num(4)},
	}
	for _, raw := range inputs {
		first, err := r.Resolve(spec, raw)
		require.NoError(t, err)
		assert.Equal(t, spec.Names(), first.Spec().Names())
		assert.Len(t, first.Record(), spec.Len())

		second, err := r.Resolve(spec, first.Record())
		require.NoError(t, err)
		if diff := cmp.Diff(recordOf(first), recordOf(second), valueCmp); diff != "" {
			t.Errorf("re-resolution changed the record (-first +second):\n%s", diff)
		}
	}
}

func TestResolveGarageAreaScenario(t *testing.T) {
	d, err := data.ReadCSV(strings.NewReader("GarageArea\n0\n200\n400\n400\n600\n"))
	require.NoError(t, err)

	got, err := NewResolver(d).Resolve(schema.MustSpec("GarageArea"), schema.Record{"GrLivArea": schema.Num(1500)})
	require.NoError(t, err)
	v, _ := got.Get("GarageArea")
	assert.Equal(t, schema.Num(400), v)
}

func TestResolveReferenceUnavailable(t *testing.T) {
	spec := schema.MustSpec("GarageArea")

	_, err := NewResolver(nil).Resolve(spec, schema.Record{"GarageArea": schema.Num(1)})
	assert.ErrorIs(t, err, ErrReferenceUnavailable)

	var typedNil *data.Dataset
	_, err = NewResolver(typedNil).Resolve(spec, schema.Record{})
	assert.ErrorIs(t, err, ErrReferenceUnavailable)
}

func TestResolveUnclassifiedFeature(t *testing.T) {
	r := NewResolver(reference(t))
	spec := schema.MustSpec("GarageArea", "PoolArea")

	_, err := r.Resolve(spec, schema.Record{})
	assert.ErrorIs(t, err, ErrUnclassifiedFeature)
	assert.Contains(t, err.Error(), "PoolArea")

	// A supplied value needs no classification.
	got, err := r.Resolve(spec, schema.Record{"PoolArea": schema.Num(0)})
	require.NoError(t, err)
	assert.Equal(t, 2, got.Spec().Len())
}

func TestResolveBatch(t *testing.T) {
	r := NewResolver(reference(t))
	spec := schema.MustSpec("GarageArea", "KitchenQual")

	rows, err := r.ResolveBatch(spec, []schema.Record{
		{"GarageArea": schema.Num(100)},
		{"KitchenQual": schema.Text("Ex")},
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	v, _ := rows[1].Get("GarageArea")
	assert.Equal(t, schema.Num(400), v)

	_, err = r.ResolveBatch(schema.MustSpec("Nope"), []schema.Record{{}})
	assert.ErrorIs(t, err, ErrUnclassifiedFeature)
}

func TestResolveDoesNotMutateInput(t *testing.T) {
	raw := schema.Record{"GarageArea": schema.Null()}
	_, err := NewResolver(reference(t)).Resolve(schema.MustSpec("GarageArea", "GrLivArea"), raw)
	require.NoError(t, err)
	assert.Len(t, raw, 1)
	assert.True(t, raw["GarageArea"].IsMissing())
}
