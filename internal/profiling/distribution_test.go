package profiling

import (
	"testing"

	"goclean/domain/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeNumericColumn(t *testing.T) {
	col := table.NewColumn("v", table.TypeNumeric, []table.Cell{
		table.Number(1), table.Number(2), table.Number(3), table.Number(4), table.Number(10), table.Null(),
	})

	got := NewDistributionAnalyzer().AnalyzeColumn(col)
	require.NotNil(t, got.Mean)
	assert.Equal(t, 4.0, *got.Mean)
	assert.Equal(t, 3.0, *got.Median)
	assert.Equal(t, 1.0, *got.Min)
	assert.Equal(t, 10.0, *got.Max)
	assert.Equal(t, 1, got.MissingCount)
	require.NotNil(t, got.Skewness)
	assert.Greater(t, *got.Skewness, 0.0, "right tail")
	assert.Nil(t, got.UniqueCount)
}

func TestAnalyzeSymmetricSkewIsZero(t *testing.T) {
	skew, ok := calculateSkewness([]float64{1, 2, 3}, 2, 1)
	require.True(t, ok)
	assert.InDelta(t, 0, skew, 1e-12)

	_, ok = calculateSkewness([]float64{5, 5, 5}, 5, 0)
	assert.False(t, ok)
}

func TestAnalyzeCategoricalColumn(t *testing.T) {
	col := table.NewColumn("c", table.TypeCategorical, []table.Cell{
		table.Str("a"), table.Str("b"), table.Str("b"), table.Null(),
	})

	got := NewDistributionAnalyzer().AnalyzeColumn(col)
	require.NotNil(t, got.UniqueCount)
	assert.Equal(t, 2, *got.UniqueCount)
	assert.Equal(t, "b", got.MostFrequent)
	assert.Nil(t, got.Mean)
}

func TestSummarize(t *testing.T) {
	ds, err := table.New([]*table.Column{
		table.NewColumn("n", table.TypeNumeric, []table.Cell{table.Number(1), table.Number(1), table.Null()}),
		table.NewColumn("s", table.TypeText, []table.Cell{table.Str("x"), table.Str("x"), table.Str("y")}),
	})
	require.NoError(t, err)

	got := NewDistributionAnalyzer().Summarize(ds)
	assert.Equal(t, 3, got.TotalRows)
	assert.Equal(t, 2, got.TotalColumns)
	assert.Equal(t, 1, got.NumericColumns)
	assert.Equal(t, 1, got.CategoricalColumns)
	assert.Equal(t, 1, got.MissingValues)
	assert.Equal(t, 1, got.DuplicateRows)
	assert.Positive(t, got.MemoryUsage)
	assert.Equal(t, []string{"n", "s"}, got.Order)
	assert.Equal(t, "x", got.ColumnStats["s"].MostFrequent)
}
