package rules

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"goclean/adapters/datareadiness/coercer"
	"goclean/domain/cleaning"
	"goclean/domain/table"
)

// Engine applies custom rules in order. Each rule sees the dataset left by
// the previous one.
type Engine struct {
	coercer *coercer.TypeCoercer
}

// NewEngine creates a rule engine; a nil coercer uses the default one
func NewEngine(c *coercer.TypeCoercer) *Engine {
	if c == nil {
		c = coercer.NewTypeCoercer(coercer.DefaultCoercionConfig())
	}
	return &Engine{coercer: c}
}

// Apply runs rules sequentially. Affected in the result is the number of
// matched rows summed over every applied rule.
func (e *Engine) Apply(ctx context.Context, ds *table.Dataset, rules []cleaning.CustomRule, flags *cleaning.Flags) (*cleaning.StageResult, error) {
	if flags == nil {
		flags = cleaning.NewFlags()
	}
	out := &cleaning.StageResult{Dataset: ds}
	audit := func(format string, args ...interface{}) {
		out.Entries = append(out.Entries, cleaning.AuditEntry{Stage: cleaning.StageRules, Message: fmt.Sprintf(format, args...)})
	}

	for _, rule := range rules {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		desc := rule.Describe()
		col, ok := out.Dataset.Column(rule.Column)
		if !ok {
			audit("Rule '%s' skipped: column '%s' not found", desc, rule.Column)
			continue
		}

		var replacement table.Cell
		if rule.Action == cleaning.RuleTransform {
			replacement, ok = e.replacementFor(col, rule.Replacement)
			if !ok {
				audit("Rule '%s' skipped: replacement %s is not numeric for numeric column '%s'", desc, literal(rule.Replacement), rule.Column)
				continue
			}
		}

		matched := make([]bool, col.Len())
		count := 0
		for i := range matched {
			if e.Matches(col.Cell(i), rule) {
				matched[i] = true
				count++
			}
		}
		out.Affected += count

		switch rule.Action {
		case cleaning.RuleRemove:
			out.Dataset = out.Dataset.FilterRows(func(i int) bool { return !matched[i] })
			audit("Rule '%s' removed %d rows", desc, count)
		case cleaning.RuleTransform:
			if count > 0 {
				cells := col.Cells()
				for i, m := range matched {
					if m {
						cells[i] = replacement
					}
				}
				next, err := out.Dataset.ReplaceColumn(col.WithCells(cells))
				if err != nil {
					return nil, err
				}
				out.Dataset = next
			}
			audit("Rule '%s' transformed %d rows (set to %s)", desc, count, literal(rule.Replacement))
		default:
			reason := fmt.Sprintf("rule '%s'", desc)
			for i, m := range matched {
				if m {
					flags.Mark(out.Dataset.RowID(i), reason)
				}
			}
			audit("Rule '%s' flagged %d rows", desc, count)
		}
	}
	return out, nil
}

// Matches evaluates a rule's condition against one cell. Null cells match
// only is_null; failed numeric coercion never matches.
func (e *Engine) Matches(cell table.Cell, rule cleaning.CustomRule) bool {
	switch rule.Condition {
	case cleaning.CondIsNull:
		return cell.IsNull()
	case cleaning.CondIsNotNull:
		return !cell.IsNull()
	}
	if cell.IsNull() {
		return false
	}

	switch rule.Condition {
	case cleaning.CondGreaterThan, cleaning.CondLessThan:
		x, ok1 := e.number(cell)
		y, ok2 := e.literalNumber(rule.Value)
		if !ok1 || !ok2 {
			return false
		}
		if rule.Condition == cleaning.CondGreaterThan {
			return x > y
		}
		return x < y
	case cleaning.CondEquals, cleaning.CondNotEquals:
		eq := e.equals(cell, rule.Value)
		if rule.Condition == cleaning.CondEquals {
			return eq
		}
		return !eq
	case cleaning.CondContains, cleaning.CondNotContains:
		has := strings.Contains(strings.ToLower(cell.Text()), strings.ToLower(literal(rule.Value)))
		if rule.Condition == cleaning.CondContains {
			return has
		}
		return !has
	}
	return false
}

func (e *Engine) equals(cell table.Cell, value interface{}) bool {
	x, ok1 := e.number(cell)
	y, ok2 := e.literalNumber(value)
	if ok1 && ok2 {
		return x == y
	}
	return cell.Text() == literal(value)
}

func (e *Engine) number(cell table.Cell) (float64, bool) {
	if v, ok := cell.Float(); ok {
		return v, true
	}
	return e.coercer.ParseNumber(cell.Text())
}

func (e *Engine) literalNumber(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		return e.coercer.ParseNumber(v)
	}
	return 0, false
}

// replacementFor converts a transform literal to a cell; numeric columns
// accept only numeric replacements
func (e *Engine) replacementFor(col *table.Column, value interface{}) (table.Cell, bool) {
	if col.IsNumeric() {
		v, ok := e.literalNumber(value)
		if !ok {
			return table.Null(), false
		}
		return table.Number(v), true
	}
	if value == nil {
		return table.Null(), true
	}
	return table.Parse(literal(value)), true
}

// literal renders a rule literal the way it is compared as text
func literal(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return v
	case float64:
		return table.FormatNumber(v)
	case float32:
		return table.FormatNumber(float64(v))
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	}
	return fmt.Sprint(value)
}
