package table

import (
	"math"
	"testing"

	"goclean/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNATokens(t *testing.T) {
	tests := []struct {
		raw  string
		null bool
	}{
		{"", true},
		{"  ", true},
		{"NA", true},
		{"n/a", true},
		{"NaN", true},
		{"null", true},
		{"None", true},
		{"#N/A", true},
		{"-", true},
		{"0", false},
		{"nano", false},
		{" foo ", false},
	}

	for _, tt := range tests {
		got := Parse(tt.raw)
		if got.IsNull() != tt.null {
			t.Errorf("Parse(%q).IsNull() = %v, want %v", tt.raw, got.IsNull(), tt.null)
		}
	}
	assert.Equal(t, "foo", Parse(" foo ").Text())
}

func TestNumberRejectsNonFinite(t *testing.T) {
	assert.True(t, Number(math.NaN()).IsNull())
	assert.True(t, Number(math.Inf(1)).IsNull())
	v, ok := Number(2.5).Float()
	assert.True(t, ok)
	assert.Equal(t, 2.5, v)
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "42", FormatNumber(42))
	assert.Equal(t, "-3", FormatNumber(-3))
	assert.Equal(t, "1234.5", FormatNumber(1234.5))
	assert.Equal(t, "0.001", FormatNumber(0.001))
}

func TestQuantileLinearInterpolation(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}
	assert.InDelta(t, 1.75, Quantile(sorted, 0.25), 1e-12)
	assert.InDelta(t, 2.5, Quantile(sorted, 0.5), 1e-12)
	assert.InDelta(t, 3.25, Quantile(sorted, 0.75), 1e-12)
	assert.Equal(t, 1.0, Quantile(sorted, 0))
	assert.Equal(t, 4.0, Quantile(sorted, 1))
	assert.Equal(t, 7.0, Quantile([]float64{7}, 0.3))
	assert.True(t, math.IsNaN(Quantile(nil, 0.5)))
}

func TestSummarize(t *testing.T) {
	s, ok := Summarize([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	require.True(t, ok)
	assert.Equal(t, 8, s.Count)
	assert.InDelta(t, 5.0, s.Mean, 1e-12)
	assert.InDelta(t, 2.0, s.PopStd, 1e-12)
	assert.InDelta(t, 2.138, s.Std, 1e-3)
	assert.Equal(t, 2.0, s.Min)
	assert.Equal(t, 9.0, s.Max)
	assert.InDelta(t, 4.5, s.Median, 1e-12)

	_, ok = Summarize(nil)
	assert.False(t, ok)
}

func TestColumnStats(t *testing.T) {
	col := NewColumn("city", TypeCategorical, []Cell{
		Str("Paris"), Null(), Str("Lyon"), Str("Paris"), Null(), Str("Nice"), Str("Lyon"),
	})

	assert.Equal(t, 2, col.MissingCount())
	assert.Equal(t, 3, col.UniqueCount())

	samples := col.SampleValues(5)
	require.Len(t, samples, 3)
	assert.Equal(t, "Paris", samples[0].Text())
	assert.Equal(t, "Lyon", samples[1].Text())
	assert.Equal(t, "Nice", samples[2].Text())

	mode, ok := col.Mode()
	require.True(t, ok)
	assert.Equal(t, "Paris", mode.Text(), "ties break on first appearance")
}

func TestColumnSummaryIsMemoised(t *testing.T) {
	col := NewColumn("x", TypeNumeric, []Cell{Number(1), Number(3), Null()})
	first, ok := col.NumericSummary()
	require.True(t, ok)
	second, _ := col.NumericSummary()
	assert.Equal(t, first, second)
	assert.Equal(t, 2, first.Count)

	_, ok = NewColumn("s", TypeText, []Cell{Str("a")}).NumericSummary()
	assert.False(t, ok)
}

func TestNewRejectsInvalidShapes(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, core.ErrNoColumns)

	_, err = New([]*Column{
		NewColumn("a", TypeText, []Cell{Str("1")}),
		NewColumn("a", TypeText, []Cell{Str("2")}),
	})
	assert.True(t, core.IsInputError(err))

	_, err = New([]*Column{
		NewColumn("a", TypeText, []Cell{Str("1")}),
		NewColumn("b", TypeText, []Cell{Str("2"), Str("3")}),
	})
	assert.True(t, core.IsInputError(err))
}

func TestFromRowsPadsShortRows(t *testing.T) {
	ds, err := FromRows([]string{"a", "b"}, [][]string{{"1", "x"}, {"2"}})
	require.NoError(t, err)
	assert.Equal(t, 2, ds.NumRows())
	b, _ := ds.Column("b")
	assert.True(t, b.Cell(1).IsNull())
}

func TestFilterRowsKeepsOriginalIndices(t *testing.T) {
	ds, err := FromRows([]string{"v"}, [][]string{{"a"}, {"b"}, {"c"}, {"d"}})
	require.NoError(t, err)

	filtered := ds.FilterRows(func(i int) bool { return i%2 == 1 })
	assert.Equal(t, 2, filtered.NumRows())
	assert.Equal(t, []int{1, 3}, filtered.RowIDs())
	assert.Equal(t, 4, ds.NumRows(), "receiver must be unchanged")

	col, _ := filtered.Column("v")
	assert.Equal(t, "d", col.Cell(1).Text())
}

func TestRenameAndDuplicates(t *testing.T) {
	ds, err := FromRows([]string{"a", "b"}, [][]string{{"1", "2"}, {"1", "2"}, {"3", "4"}})
	require.NoError(t, err)

	assert.Equal(t, 1, ds.DuplicateRows())

	renamed, err := ds.Rename(map[string]string{"a": "alpha", "zzz": "ignored"})
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "b"}, renamed.ColumnNames())
	assert.Equal(t, []string{"a", "b"}, ds.ColumnNames())

	_, err = ds.Rename(map[string]string{"a": "b"})
	assert.Error(t, err)
}

func TestMissingByColumn(t *testing.T) {
	ds, err := FromRows([]string{"a", "b"}, [][]string{{"", "2"}, {"NA", ""}, {"3", "4"}})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"a": 2, "b": 1}, ds.MissingByColumn())
	assert.Equal(t, 3, ds.TotalMissing())
}
