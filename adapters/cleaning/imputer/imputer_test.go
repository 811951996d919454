package imputer

import (
	"context"
	"math"
	"testing"

	"goclean/domain/cleaning"
	"goclean/domain/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numeric(name string, values ...interface{}) *table.Column {
	cells := make([]table.Cell, len(values))
	for i, v := range values {
		if v != nil {
			cells[i] = table.Number(float64(v.(int)))
		}
	}
	return table.NewColumn(name, table.TypeNumeric, cells)
}

func categorical(name string, values ...string) *table.Column {
	cells := make([]table.Cell, len(values))
	for i, v := range values {
		cells[i] = table.Parse(v)
	}
	return table.NewColumn(name, table.TypeCategorical, cells)
}

func dataset(t *testing.T, cols ...*table.Column) *table.Dataset {
	t.Helper()
	ds, err := table.New(cols)
	require.NoError(t, err)
	return ds
}

func messages(entries []cleaning.AuditEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Message
	}
	return out
}

func TestImputeMedian(t *testing.T) {
	ds := dataset(t, numeric("age", 10, nil, 30, 20))

	res, err := NewImputer(2).Impute(context.Background(), ds, cleaning.ImputationConfig{Method: cleaning.ImputeMedian})
	require.NoError(t, err)

	col, _ := res.Dataset.Column("age")
	v, ok := col.Cell(1).Float()
	require.True(t, ok)
	assert.Equal(t, 20.0, v)
	assert.Equal(t, []string{"Imputed 1 missing values in 'age' using median (20)"}, messages(res.Entries))

	orig, _ := ds.Column("age")
	assert.Equal(t, 1, orig.MissingCount(), "input snapshot must not change")
}

func TestImputeMeanOnTextUsesMode(t *testing.T) {
	ds := dataset(t,
		numeric("n", 1, 2, 3, 4),
		categorical("city", "Paris", "", "Lyon", "Paris"),
	)

	res, err := NewImputer(0).Impute(context.Background(), ds, cleaning.ImputationConfig{Method: cleaning.ImputeMean})
	require.NoError(t, err)

	col, _ := res.Dataset.Column("city")
	assert.Equal(t, "Paris", col.Cell(1).Text())
	assert.Equal(t, []string{
		"'city' is not numeric; used mode instead of mean",
		"Imputed 1 missing values in 'city' using mode (Paris)",
	}, messages(res.Entries))
}

func TestImputeColumnOverride(t *testing.T) {
	ds := dataset(t, numeric("a", 1, nil, 3), numeric("b", 1, nil, 5))

	res, err := NewImputer(0).Impute(context.Background(), ds, cleaning.ImputationConfig{
		Method:        cleaning.ImputeMean,
		ColumnMethods: map[string]cleaning.ImputationMethod{"b": cleaning.ImputeNone},
	})
	require.NoError(t, err)

	a, _ := res.Dataset.Column("a")
	b, _ := res.Dataset.Column("b")
	assert.Equal(t, 0, a.MissingCount())
	assert.Equal(t, 1, b.MissingCount())
	assert.Len(t, res.Entries, 1)
}

func TestKNNFallsBackWithTooFewDonors(t *testing.T) {
	ds := dataset(t, numeric("a", 1, nil, 3), numeric("b", 10, 20, 30))

	res, err := NewImputer(0).Impute(context.Background(), ds, cleaning.ImputationConfig{
		Method:       cleaning.ImputeKNN,
		KNNNeighbors: 5,
	})
	require.NoError(t, err)

	col, _ := res.Dataset.Column("a")
	v, _ := col.Cell(1).Float()
	assert.Equal(t, 2.0, v)
	assert.Equal(t, []string{
		"KNN imputation not feasible for 'a' (only 2 donor rows for k=5); fell back to median",
		"Imputed 1 missing values in 'a' using median (2)",
	}, messages(res.Entries))
}

func TestKNNFallsBackWithoutFeatures(t *testing.T) {
	ds := dataset(t, numeric("a", 1, nil, 3, 5))

	res, err := NewImputer(0).Impute(context.Background(), ds, cleaning.ImputationConfig{
		Method:       cleaning.ImputeKNN,
		KNNNeighbors: 1,
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.Entries)
	assert.Contains(t, res.Entries[0].Message, "no numeric feature columns")
}

func TestKNNAveragesNearestNeighbours(t *testing.T) {
	ds := dataset(t,
		numeric("target", 1, 2, nil, 10, 11),
		numeric("feature", 1, 2, 2, 10, 11),
	)
	// feature 2 is exactly row 1 (distance 0), then row 0
	res, err := NewImputer(0).Impute(context.Background(), ds, cleaning.ImputationConfig{
		Method:       cleaning.ImputeKNN,
		KNNNeighbors: 2,
	})
	require.NoError(t, err)

	col, _ := res.Dataset.Column("target")
	v, ok := col.Cell(2).Float()
	require.True(t, ok)
	assert.InDelta(t, 1.5, v, 1e-12)
	assert.Equal(t, []string{"Imputed 1 missing values in 'target' using knn (k=2)"}, messages(res.Entries))
}

func TestKNNTextTargetTakesNeighbourMode(t *testing.T) {
	ds := dataset(t,
		categorical("segment", "low", "low", "", "high", "high"),
		numeric("spend", 1, 2, 2, 50, 60),
	)
	res, err := NewImputer(0).Impute(context.Background(), ds, cleaning.ImputationConfig{
		Method:       cleaning.ImputeKNN,
		KNNNeighbors: 2,
	})
	require.NoError(t, err)

	col, _ := res.Dataset.Column("segment")
	assert.Equal(t, "low", col.Cell(2).Text())
}

func TestNanEuclideanScalesByPresentFeatures(t *testing.T) {
	nan := math.NaN()
	features := [][]float64{{0, 3}, {nan, 4}}

	d, ok := nanEuclidean(features, 0, 1)
	require.True(t, ok)
	// one of two features present: sqrt(9 * 2/1)
	assert.InDelta(t, 4.242640687, d, 1e-9)

	_, ok = nanEuclidean([][]float64{{nan, 1}}, 0, 1)
	assert.False(t, ok)
}

func TestDeleteNullRowsRunsAfterImputation(t *testing.T) {
	ds := dataset(t,
		numeric("a", 1, nil, 3),
		categorical("b", "x", "y", ""),
	)

	res, err := NewImputer(0).Impute(context.Background(), ds, cleaning.ImputationConfig{
		Method:         cleaning.ImputeNone,
		ColumnMethods:  map[string]cleaning.ImputationMethod{"a": cleaning.ImputeMean},
		DeleteNullRows: true,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Dataset.NumRows())
	assert.Equal(t, []int{0, 1}, res.Dataset.RowIDs())
	assert.Equal(t, "Deleted 1 rows that still contained null values", res.Entries[len(res.Entries)-1].Message)
}

func TestNothingToImpute(t *testing.T) {
	ds := dataset(t, numeric("a", 1, 2, 3))
	res, err := NewImputer(0).Impute(context.Background(), ds, cleaning.ImputationConfig{Method: cleaning.ImputeMean})
	require.NoError(t, err)
	assert.Same(t, ds, res.Dataset)
	assert.Empty(t, res.Entries)
}

func TestImputeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ds := dataset(t, numeric("a", 1, nil, 3))

	_, err := NewImputer(0).Impute(ctx, ds, cleaning.ImputationConfig{Method: cleaning.ImputeMean})
	assert.ErrorIs(t, err, context.Canceled)
}
