package rules

import (
	"context"
	"testing"

	"goclean/domain/cleaning"
	"goclean/domain/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ages(t *testing.T, values ...float64) *table.Dataset {
	t.Helper()
	cells := make([]table.Cell, len(values))
	for i, v := range values {
		cells[i] = table.Number(v)
	}
	ds, err := table.New([]*table.Column{table.NewColumn("age", table.TypeNumeric, cells)})
	require.NoError(t, err)
	return ds
}

func TestRulesApplyInOrder(t *testing.T) {
	ds := ages(t, 150, -5, 30)
	flags := cleaning.NewFlags()

	res, err := NewEngine(nil).Apply(context.Background(), ds, []cleaning.CustomRule{
		{Column: "age", Condition: cleaning.CondGreaterThan, Value: 120.0, Action: cleaning.RuleRemove},
		{Column: "age", Condition: cleaning.CondLessThan, Value: 0.0, Action: cleaning.RuleFlag},
	}, flags)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Dataset.NumRows())
	assert.Equal(t, []int{1, 2}, res.Dataset.RowIDs())
	assert.True(t, flags.Has(1))
	assert.False(t, flags.Has(2))
	assert.Len(t, flags.Retain(res.Dataset), 1)
	assert.Equal(t, 2, res.Affected)
	assert.Equal(t, []cleaning.AuditEntry{
		{Stage: cleaning.StageRules, Message: "Rule 'age > 120' removed 1 rows"},
		{Stage: cleaning.StageRules, Message: "Rule 'age < 0' flagged 1 rows"},
	}, res.Entries)
}

func TestMatches(t *testing.T) {
	e := NewEngine(nil)
	rule := func(cond cleaning.Condition, value interface{}) cleaning.CustomRule {
		return cleaning.CustomRule{Column: "c", Condition: cond, Value: value}
	}

	tests := []struct {
		name string
		cell table.Cell
		rule cleaning.CustomRule
		want bool
	}{
		{"greater number", table.Number(5), rule(cleaning.CondGreaterThan, 3.0), true},
		{"greater numeric text", table.Str("1,200"), rule(cleaning.CondGreaterThan, "1000"), true},
		{"greater non numeric", table.Str("abc"), rule(cleaning.CondGreaterThan, 3.0), false},
		{"less bad literal", table.Number(1), rule(cleaning.CondLessThan, "x"), false},
		{"equals numeric forms", table.Str("3.0"), rule(cleaning.CondEquals, 3.0), true},
		{"equals text", table.Str("Paris"), rule(cleaning.CondEquals, "Paris"), true},
		{"equals is case sensitive", table.Str("paris"), rule(cleaning.CondEquals, "Paris"), false},
		{"not equals", table.Str("Lyon"), rule(cleaning.CondNotEquals, "Paris"), true},
		{"contains ignores case", table.Str("Hello World"), rule(cleaning.CondContains, "world"), true},
		{"not contains", table.Str("Hello"), rule(cleaning.CondNotContains, "xyz"), true},
		{"null greater", table.Null(), rule(cleaning.CondGreaterThan, 0.0), false},
		{"null not equals", table.Null(), rule(cleaning.CondNotEquals, "x"), false},
		{"null not contains", table.Null(), rule(cleaning.CondNotContains, "x"), false},
		{"is null", table.Null(), rule(cleaning.CondIsNull, nil), true},
		{"is not null", table.Str("x"), rule(cleaning.CondIsNotNull, nil), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.Matches(tt.cell, tt.rule); got != tt.want {
				t.Errorf("Matches(%v, %s) = %v, want %v", tt.cell, tt.rule.Describe(), got, tt.want)
			}
		})
	}
}

func TestTransform(t *testing.T) {
	ds := ages(t, 150, 30)

	res, err := NewEngine(nil).Apply(context.Background(), ds, []cleaning.CustomRule{
		{Column: "age", Condition: cleaning.CondGreaterThan, Value: 120.0, Action: cleaning.RuleTransform, Replacement: 120.0},
		{Column: "age", Condition: cleaning.CondGreaterThan, Value: 100.0, Action: cleaning.RuleTransform, Replacement: "old"},
	}, nil)
	require.NoError(t, err)

	v, _ := res.Dataset.ColumnAt(0).Cell(0).Float()
	assert.Equal(t, 120.0, v)
	assert.Equal(t, "Rule 'age > 120' transformed 1 rows (set to 120)", res.Entries[0].Message)
	assert.Equal(t, "Rule 'age > 100' skipped: replacement old is not numeric for numeric column 'age'", res.Entries[1].Message)
	assert.Equal(t, 1, res.Affected)
}

func TestUnknownColumnIsSkipped(t *testing.T) {
	ds := ages(t, 1)
	res, err := NewEngine(nil).Apply(context.Background(), ds, []cleaning.CustomRule{
		{Column: "email", Condition: cleaning.CondIsNull, Action: cleaning.RuleRemove},
	}, nil)
	require.NoError(t, err)
	assert.Same(t, ds, res.Dataset)
	assert.Equal(t, "Rule 'email is null' skipped: column 'email' not found", res.Entries[0].Message)
}
