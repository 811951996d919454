package resolution

import (
	"context"
	"testing"

	"goclean/adapters/datareadiness"
	"goclean/domain/cleaning"
	"goclean/domain/core"
	"goclean/domain/datareadiness/profiling"
	"goclean/domain/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func profile(t *testing.T, headers []string, rows [][]string) (*table.Dataset, *profiling.ProfilingResult) {
	t.Helper()
	ds, err := table.FromRows(headers, rows)
	require.NoError(t, err)
	result, err := datareadiness.NewProfilerAdapter(nil).ProfileDataset(context.Background(), ds, profiling.DefaultProfilingConfig())
	require.NoError(t, err)
	return ds, result
}

func TestBuildCandidatesSuggestions(t *testing.T) {
	ds, result := profile(t, []string{"v", "n"}, [][]string{
		{"12", "1"}, {"foo", "2"}, {"2024-01-01", "3"}, {"34", "4"},
	})

	candidates := NewResolver(nil, 0.5).BuildCandidates(ds, result)
	require.Len(t, candidates, 1)

	c := candidates[0]
	assert.Equal(t, "v", c.Column)
	assert.InDelta(t, 0.5, c.Ratios.NumericRatio, 1e-12)

	require.Len(t, c.Suggestions, 3)
	assert.Equal(t, cleaning.DecisionToNumeric, c.Suggestions[0].Action)
	assert.Equal(t, profiling.ConfidenceMedium, c.Suggestions[0].Confidence)
	assert.Equal(t, cleaning.DecisionToDatetime, c.Suggestions[1].Action)
	assert.Equal(t, profiling.ConfidenceMedium, c.Suggestions[1].Confidence)

	last := c.Suggestions[len(c.Suggestions)-1]
	assert.Equal(t, cleaning.DecisionKeepText, last.Action)
	assert.Equal(t, profiling.ConfidenceSafe, last.Confidence)

	safe := 0
	for _, s := range c.Suggestions {
		if s.Confidence == profiling.ConfidenceSafe {
			safe++
		}
	}
	assert.Equal(t, 1, safe)
}

func TestHighConfidenceNumeric(t *testing.T) {
	rows := [][]string{}
	for _, v := range []string{"1", "2", "3", "4", "5", "6", "7", "8", "x", "y"} {
		rows = append(rows, []string{v})
	}
	ds, result := profile(t, []string{"v"}, rows)
	candidates := NewResolver(nil, 0.5).BuildCandidates(ds, result)
	require.Len(t, candidates, 1)
	assert.Equal(t, profiling.ConfidenceHigh, candidates[0].Suggestions[0].Confidence)
	assert.Equal(t, cleaning.DecisionKeepText, candidates[0].Suggestions[1].Action)
}

func TestSplitSuggestion(t *testing.T) {
	ds, result := profile(t, []string{"tags"}, [][]string{
		{"a;1"}, {"b;2"}, {"3"}, {"4"}, {"c;x"},
	})
	candidates := NewResolver(nil, 0.5).BuildCandidates(ds, result)
	require.Len(t, candidates, 1)

	var found bool
	for _, s := range candidates[0].Suggestions {
		if s.Action == cleaning.DecisionSplit {
			found = true
			assert.Equal(t, ";", s.Delimiter)
		}
	}
	assert.True(t, found)
}

func TestResolveSafeDefaultKeepsValues(t *testing.T) {
	ds, result := profile(t, []string{"v"}, [][]string{
		{"12"}, {"foo"}, {"2024-01-01"}, {"34"},
	})

	res, err := NewResolver(nil, 0.5).Resolve(ds, result, nil)
	require.NoError(t, err)

	col, ok := res.Dataset.Column("v")
	require.True(t, ok)
	assert.Equal(t, 0, col.MissingCount())
	assert.Equal(t, "2024-01-01", col.Cell(2).Text())
	assert.NotEqual(t, table.TypeMixed, col.Type())
	assert.Empty(t, res.Nulled)
	require.Len(t, res.Entries, 1)
	assert.Contains(t, res.Entries[0].Message, "safe default")
}

func TestResolveToNumericNullsFailures(t *testing.T) {
	ds, result := profile(t, []string{"v"}, [][]string{
		{"12"}, {"foo"}, {"2024-01-01"}, {"34"},
	})

	res, err := NewResolver(nil, 0.5).Resolve(ds, result, cleaning.Decisions{
		"v":     {Action: cleaning.DecisionToNumeric},
		"ghost": {Action: cleaning.DecisionDrop},
	})
	require.NoError(t, err)

	col, _ := res.Dataset.Column("v")
	assert.Equal(t, table.TypeNumeric, col.Type())
	assert.Equal(t, 2, col.MissingCount())
	assert.Equal(t, 2, res.Nulled["v"])

	v, ok := col.Cell(0).Float()
	assert.True(t, ok)
	assert.Equal(t, 12.0, v)

	require.Len(t, res.Entries, 2)
	assert.Equal(t, "Converted 'v' to numeric; 2 values could not be parsed and were set to null", res.Entries[0].Message)
	assert.Equal(t, "Decision for unknown column 'ghost' ignored", res.Entries[1].Message)
	for _, e := range res.Entries {
		assert.Equal(t, cleaning.StageResolution, e.Stage)
	}
}

func TestResolveMaterialisesInferredTypes(t *testing.T) {
	ds, result := profile(t, []string{"age", "joined"}, [][]string{
		{"31", "2024/01/01"}, {"45", "2024/02/01"}, {"", "2024/03/01"},
	})

	res, err := NewResolver(nil, 0.5).Resolve(ds, result, nil)
	require.NoError(t, err)

	age, _ := res.Dataset.Column("age")
	assert.Equal(t, table.TypeNumeric, age.Type())
	assert.True(t, age.Cell(2).IsNull())
	joined, _ := res.Dataset.Column("joined")
	assert.Equal(t, table.TypeDatetime, joined.Type())
	assert.Equal(t, "2024-02-01", joined.Cell(1).Text())
	assert.Empty(t, res.Entries)
}

func TestResolveSplitAndDrop(t *testing.T) {
	ds, result := profile(t, []string{"tags", "junk", "id"}, [][]string{
		{"a;b", "x", "1"}, {"c", "y", "2"}, {"", "z", "3"},
	})

	res, err := NewResolver(nil, 0.5).Resolve(ds, result, cleaning.Decisions{
		"tags": {Action: cleaning.DecisionSplit, Delimiter: ";", Prefix: "tag"},
		"junk": {Action: cleaning.DecisionDrop},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"tags", "tag_1", "tag_2", "id"}, res.Dataset.ColumnNames())
	t2, _ := res.Dataset.Column("tag_2")
	assert.Equal(t, "b", t2.Cell(0).Text())
	assert.True(t, t2.Cell(1).IsNull())
	assert.True(t, t2.Cell(2).IsNull())

	assert.Equal(t, "Split 'tags' on ';' into 2 columns (tag_1, tag_2)", res.Entries[0].Message)
	assert.Equal(t, "Dropped column 'junk'", res.Entries[1].Message)
}

func TestResolveDroppingEverythingIsInputError(t *testing.T) {
	ds, result := profile(t, []string{"a"}, [][]string{{"1"}})
	_, err := NewResolver(nil, 0.5).Resolve(ds, result, cleaning.Decisions{"a": {Action: cleaning.DecisionDrop}})
	assert.ErrorIs(t, err, core.ErrNoColumns)
}

func TestEvaluateReadiness(t *testing.T) {
	_, result := profile(t, []string{"age", "empty", "v"}, [][]string{
		{"31", "", "12"}, {"", "", "foo"}, {"28", "", "2024-01-01"}, {"31", "", "34"},
	})

	readiness := NewReadinessGate(DefaultGateConfig()).EvaluateReadiness(result, 1)
	assert.Greater(t, readiness.DataQualityScore, 0.0)
	assert.Less(t, readiness.DataQualityScore, 100.0)
	assert.Len(t, readiness.Columns, 3)

	joined := ""
	for _, r := range readiness.Recommendations {
		joined += r + "\n"
	}
	assert.Contains(t, joined, "Column 'age' has 1 missing values (25.0%); consider median imputation")
	assert.Contains(t, joined, "Column 'empty' is entirely empty")
	assert.Contains(t, joined, "Column 'v' mixes value types")
	assert.Contains(t, joined, "1 duplicate rows")
}

func TestEvaluateReadinessCleanData(t *testing.T) {
	rows := make([][]string, 0, 40)
	for i := 0; i < 40; i++ {
		rows = append(rows, []string{table.FormatNumber(float64(i))})
	}
	_, result := profile(t, []string{"n"}, rows)

	readiness := NewReadinessGate(DefaultGateConfig()).EvaluateReadiness(result, 0)
	assert.Equal(t, 100.0, readiness.DataQualityScore)
	assert.Equal(t, []string{"No data quality issues detected"}, readiness.Recommendations)
}
