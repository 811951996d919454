package cleaning

import (
	"testing"

	"goclean/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(`{"outliers": {"enabled": true, "method": "zscore"}}`))
	require.NoError(t, err)

	assert.True(t, cfg.Validated())
	assert.Equal(t, ImputeNone, cfg.Imputation.Method)
	assert.Equal(t, DefaultKNNNeighbors, cfg.Imputation.KNNNeighbors)
	assert.Equal(t, DefaultZScoreThreshold, cfg.Outliers.Threshold)
	assert.Equal(t, OutlierFlag, cfg.Outliers.Action)

	cfg, err = ParseConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, OutlierIQR, cfg.Outliers.Method)
	assert.Equal(t, DefaultIQRMultiplier, cfg.Outliers.Threshold)
	assert.False(t, cfg.Outliers.Enabled)
}

func TestParseConfigRejectsOutOfRange(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"knn too high", `{"imputation": {"method": "knn", "knn_neighbors": 21}}`},
		{"knn negative", `{"imputation": {"knn_neighbors": -1}}`},
		{"zscore threshold", `{"outliers": {"method": "zscore", "threshold": 6}}`},
		{"iqr multiplier", `{"outliers": {"method": "iqr", "threshold": 0.1}}`},
		{"unknown method", `{"imputation": {"method": "average"}}`},
		{"unknown column method", `{"imputation": {"column_methods": {"a": "magic"}}}`},
		{"unknown outlier action", `{"outliers": {"action": "delete"}}`},
		{"rule without value", `{"custom_rules": [{"column": "age", "condition": "greater_than", "action": "remove"}]}`},
		{"transform without replacement", `{"custom_rules": [{"column": "age", "condition": "is_null", "action": "transform"}]}`},
		{"rule unknown condition", `{"custom_rules": [{"column": "age", "condition": "between", "value": 1, "action": "flag"}]}`},
		{"mapping collision", `{"schema_mapping": {"a": "x", "b": "x"}}`},
		{"malformed", `{"imputation": `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.json))
			require.Error(t, err)
			assert.True(t, core.IsInputError(err), "expected input error, got %v", err)
		})
	}
}

func TestNewProcessingConfigCopiesInput(t *testing.T) {
	raw := ProcessingConfig{
		Imputation:    ImputationConfig{Method: "Median", ColumnMethods: map[string]ImputationMethod{"city": "mode"}},
		SchemaMapping: map[string]string{"a": "alpha"},
		Outliers:      OutlierConfig{ExcludeColumns: []string{"id"}},
	}
	cfg, err := NewProcessingConfig(raw)
	require.NoError(t, err)

	raw.Imputation.ColumnMethods["city"] = ImputeKNN
	raw.SchemaMapping["a"] = "changed"
	raw.Outliers.ExcludeColumns[0] = "other"

	assert.Equal(t, ImputeMedian, cfg.Imputation.Method)
	assert.Equal(t, ImputeMode, cfg.Imputation.MethodFor("city"))
	assert.Equal(t, ImputeMedian, cfg.Imputation.MethodFor("age"))
	assert.Equal(t, "alpha", cfg.SchemaMapping["a"])
	assert.True(t, cfg.Outliers.Excludes("id"))
}

func TestRuleDescribe(t *testing.T) {
	cfg, err := ParseConfig([]byte(`{"custom_rules": [
		{"column": "age", "condition": "greater_than", "value": 120, "action": "remove"},
		{"column": "email", "condition": "is_null", "action": "flag"}
	]}`))
	require.NoError(t, err)
	assert.Equal(t, "age > 120", cfg.Rules[0].Describe())
	assert.Equal(t, "email is null", cfg.Rules[1].Describe())
}

func TestParseDecisions(t *testing.T) {
	decisions, err := ParseDecisions([]byte(`{
		"price": "to_numeric",
		"when": "to_date",
		"tags": {"action": "split", "prefix": "tag"},
		"junk": "drop"
	}`))
	require.NoError(t, err)

	assert.Equal(t, DecisionToNumeric, decisions["price"].Action)
	assert.Equal(t, DecisionToDatetime, decisions["when"].Action)
	assert.Equal(t, DecisionSplit, decisions["tags"].Action)
	assert.Equal(t, ";", decisions["tags"].Delimiter)
	assert.Equal(t, "tag", decisions["tags"].Prefix)
	assert.Equal(t, DecisionDrop, decisions["junk"].Action)

	none, err := ParseDecisions(nil)
	require.NoError(t, err)
	assert.Nil(t, none)

	empty, err := ParseDecisions([]byte(`{}`))
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Len(t, empty, 0)

	_, err = ParseDecisions([]byte(`{"x": "explode"}`))
	assert.True(t, core.IsInputError(err))
}

func TestStateTransitions(t *testing.T) {
	assert.True(t, StateProfiled.CanTransition(StateAwaitingColumnDecisions))
	assert.True(t, StateAwaitingColumnDecisions.CanTransition(StateResolved))
	assert.False(t, StateImputed.CanTransition(StateRulesApplied))
	assert.True(t, StateAwaitingColumnDecisions.IsTerminal())
	assert.False(t, StateResolved.IsTerminal())
}

func TestCleanedFilename(t *testing.T) {
	assert.Equal(t, "cleaned_sales.csv", CleanedFilename("sales.xlsx"))
	assert.Equal(t, "cleaned_report.csv", CleanedFilename("/tmp/uploads/report.csv"))
	assert.Equal(t, "cleaned_dataset.csv", CleanedFilename(""))
}

func TestAuditTrailOrder(t *testing.T) {
	var trail AuditTrail
	trail.Add(StageImputation, "Imputed %d missing values in '%s' using %s", 2, "age", "median")
	trail.Add(StageOutliers, "second")
	clone := trail.Clone()
	clone.Add(StageRules, "third")

	assert.Equal(t, []string{"Imputed 2 missing values in 'age' using median", "second"}, trail.Messages())
	assert.Equal(t, 3, clone.Len())
}
