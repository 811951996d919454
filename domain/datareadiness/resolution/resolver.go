package resolution

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"goclean/adapters/datareadiness/coercer"
	"goclean/domain/cleaning"
	"goclean/domain/core"
	"goclean/domain/datareadiness/profiling"
	"goclean/domain/table"
)

// HighConfidenceRatio is the parse share at which a coercion is graded high
const HighConfidenceRatio = 0.8

// splitDelimiters are checked in order when proposing a split
var splitDelimiters = []string{";", "|"}

// Resolver proposes and applies column type resolutions
type Resolver struct {
	coercer          *coercer.TypeCoercer
	categoricalRatio float64
}

// NewResolver creates a resolver; categoricalRatio decides whether text
// columns kept as-is are reported categorical or text.
func NewResolver(c *coercer.TypeCoercer, categoricalRatio float64) *Resolver {
	if c == nil {
		c = coercer.NewTypeCoercer(coercer.DefaultCoercionConfig())
	}
	if categoricalRatio <= 0 || categoricalRatio > 1 {
		categoricalRatio = profiling.DefaultProfilingConfig().CategoricalRatio
	}
	return &Resolver{coercer: c, categoricalRatio: categoricalRatio}
}

// BuildCandidates creates one candidate per mixed column, in column order
func (r *Resolver) BuildCandidates(sample *table.Dataset, result *profiling.ProfilingResult) []profiling.MixedColumnCandidate {
	var out []profiling.MixedColumnCandidate
	for _, p := range result.Profiles {
		if p.Type != table.TypeMixed {
			continue
		}
		col, ok := sample.Column(p.Name)
		if !ok {
			continue
		}
		out = append(out, profiling.MixedColumnCandidate{
			Column:      p.Name,
			Ratios:      p.Ratios,
			Suggestions: r.suggestions(p, col),
		})
	}
	return out
}

func (r *Resolver) suggestions(p profiling.ColumnProfile, col *table.Column) []profiling.Suggestion {
	nonNull := p.SampleSize - p.MissingCount
	var out []profiling.Suggestion

	if p.Ratios.NumericRatio > 0 {
		lost := int(math.Round(float64(nonNull) * (1 - p.Ratios.NumericRatio)))
		out = append(out, profiling.Suggestion{
			Action:      cleaning.DecisionToNumeric,
			Confidence:  grade(p.Ratios.NumericRatio),
			Description: "Convert to numeric, coerce non-numeric values to null",
			Reasoning:   fmt.Sprintf("%.0f%% of values parse as numbers; %d values would become null", p.Ratios.NumericRatio*100, lost),
		})
	}

	if p.Ratios.DateRatio > 0 {
		lost := int(math.Round(float64(nonNull) * (1 - p.Ratios.DateRatio)))
		out = append(out, profiling.Suggestion{
			Action:      cleaning.DecisionToDatetime,
			Confidence:  grade(p.Ratios.DateRatio),
			Description: "Convert to datetime, coerce failures to null",
			Reasoning:   fmt.Sprintf("%.0f%% of values parse as dates; %d values would become null", p.Ratios.DateRatio*100, lost),
		})
	}

	if delim, share := delimiterShare(col); share >= 0.5 {
		out = append(out, profiling.Suggestion{
			Action:      cleaning.DecisionSplit,
			Confidence:  profiling.ConfidenceMedium,
			Description: fmt.Sprintf("Split on '%s' into separate columns", delim),
			Reasoning:   fmt.Sprintf("%.0f%% of values contain '%s'", share*100, delim),
			Delimiter:   delim,
		})
	}

	out = append(out, profiling.Suggestion{
		Action:      cleaning.DecisionKeepText,
		Confidence:  profiling.ConfidenceSafe,
		Description: "Keep as text/categorical, no coercion",
		Reasoning:   "No values are changed or lost",
	})
	return out
}

func grade(ratio float64) profiling.Confidence {
	if ratio >= HighConfidenceRatio {
		return profiling.ConfidenceHigh
	}
	return profiling.ConfidenceMedium
}

func delimiterShare(col *table.Column) (string, float64) {
	nonNull := col.Len() - col.MissingCount()
	if nonNull == 0 {
		return "", 0
	}
	for _, delim := range splitDelimiters {
		hits := 0
		for i := 0; i < col.Len(); i++ {
			cell := col.Cell(i)
			if !cell.IsNull() && strings.Contains(cell.Text(), delim) {
				hits++
			}
		}
		if share := float64(hits) / float64(nonNull); share >= 0.5 {
			return delim, share
		}
	}
	return "", 0
}

// Resolution is the typed dataset produced from decisions and profiles
type Resolution struct {
	Dataset *table.Dataset
	Entries []cleaning.AuditEntry
	// Nulled counts cells set to null by coercion, per column
	Nulled map[string]int
}

// Resolve materialises every column's type. Mixed columns without a
// decision take the safe keep_text resolution. Decisions naming unknown
// columns are ignored and audited.
func (r *Resolver) Resolve(ds *table.Dataset, result *profiling.ProfilingResult, decisions cleaning.Decisions) (*Resolution, error) {
	res := &Resolution{Nulled: make(map[string]int)}
	audit := func(format string, args ...interface{}) {
		res.Entries = append(res.Entries, cleaning.AuditEntry{Stage: cleaning.StageResolution, Message: fmt.Sprintf(format, args...)})
	}

	used := make(map[string]bool, ds.NumColumns())
	for _, name := range ds.ColumnNames() {
		used[name] = true
	}

	var out []*table.Column
	for _, col := range ds.Columns() {
		name := col.Name()
		profType := table.TypeText
		if p, ok := result.Profile(name); ok {
			profType = p.Type
		}

		decision, decided := decisions[name]
		if !decided {
			if profType == table.TypeMixed {
				out = append(out, r.keepText(col))
				audit("No decision for mixed column '%s'; kept as text (safe default)", name)
				continue
			}
			typed, nulled := r.materialize(col, profType)
			if nulled > 0 {
				res.Nulled[name] = nulled
				audit("Coerced %d unparseable values to null in '%s' while converting to %s", nulled, name, profType)
			}
			out = append(out, typed)
			continue
		}

		switch decision.Action {
		case cleaning.DecisionToNumeric:
			typed, nulled := r.materialize(col, table.TypeNumeric)
			res.Nulled[name] = nulled
			out = append(out, typed)
			audit("Converted '%s' to numeric; %d values could not be parsed and were set to null", name, nulled)
		case cleaning.DecisionToDatetime:
			typed, nulled := r.materialize(col, table.TypeDatetime)
			res.Nulled[name] = nulled
			out = append(out, typed)
			audit("Converted '%s' to datetime; %d values could not be parsed and were set to null", name, nulled)
		case cleaning.DecisionKeepText:
			out = append(out, r.keepText(col))
			audit("Kept '%s' as text (no coercion)", name)
		case cleaning.DecisionDrop:
			audit("Dropped column '%s'", name)
		case cleaning.DecisionSplit:
			parts, err := r.split(col, decision, used)
			if err != nil {
				out = append(out, r.keepText(col))
				audit("Split of '%s' skipped: %v; kept as text", name, err)
				continue
			}
			out = append(out, r.keepText(col))
			out = append(out, parts...)
			audit("Split '%s' on '%s' into %d columns (%s)", name, decision.Delimiter, len(parts), joinNames(parts))
		default:
			out = append(out, r.keepText(col))
			audit("Unknown decision '%s' for '%s'; kept as text", decision.Action, name)
		}
	}

	var unknown []string
	for name := range decisions {
		if _, ok := ds.Column(name); !ok {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		audit("Decision for unknown column '%s' ignored", name)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("%w: every column was dropped", core.ErrNoColumns)
	}
	typed, err := ds.WithColumns(out)
	if err != nil {
		return nil, err
	}
	res.Dataset = typed
	return res, nil
}

// materialize converts cells to the representation of typ and reports how
// many non-null cells failed and became null
func (r *Resolver) materialize(col *table.Column, typ table.SemanticType) (*table.Column, int) {
	cells := make([]table.Cell, col.Len())
	nulled := 0
	for i := range cells {
		in := col.Cell(i)
		var outCell table.Cell
		switch typ {
		case table.TypeNumeric:
			outCell = r.coercer.ToNumber(in)
		case table.TypeDatetime:
			outCell = r.coercer.ToDate(in)
		default:
			outCell = coercer.ToText(in)
		}
		if !in.IsNull() && outCell.IsNull() {
			nulled++
		}
		cells[i] = outCell
	}
	return table.NewColumn(col.Name(), typ, cells), nulled
}

func (r *Resolver) keepText(col *table.Column) *table.Column {
	typed, _ := r.materialize(col, table.TypeText)
	return typed.WithType(r.textType(typed))
}

func (r *Resolver) textType(col *table.Column) table.SemanticType {
	nonNull := col.Len() - col.MissingCount()
	if nonNull == 0 || float64(col.UniqueCount())/float64(nonNull) <= r.categoricalRatio {
		return table.TypeCategorical
	}
	return table.TypeText
}

func (r *Resolver) split(col *table.Column, decision cleaning.ColumnDecision, used map[string]bool) ([]*table.Column, error) {
	delim := decision.Delimiter
	if delim == "" {
		delim = cleaning.DefaultSplitDelimiter
	}
	prefix := decision.Prefix
	if prefix == "" {
		prefix = col.Name()
	}

	pieces := make([][]string, col.Len())
	width := 0
	for i := range pieces {
		cell := col.Cell(i)
		if cell.IsNull() {
			continue
		}
		pieces[i] = strings.Split(cell.Text(), delim)
		if len(pieces[i]) > width {
			width = len(pieces[i])
		}
	}
	if width == 0 {
		return nil, fmt.Errorf("column has no values")
	}

	parts := make([]*table.Column, width)
	for k := 0; k < width; k++ {
		name := fmt.Sprintf("%s_%d", prefix, k+1)
		if used[name] {
			return nil, fmt.Errorf("column '%s' already exists", name)
		}
		cells := make([]table.Cell, col.Len())
		for i, row := range pieces {
			if k < len(row) {
				cells[i] = table.Parse(row[k])
			}
		}
		part := table.NewColumn(name, table.TypeText, cells)
		parts[k] = part.WithType(r.textType(part))
	}
	for _, p := range parts {
		used[p.Name()] = true
	}
	return parts, nil
}

func joinNames(cols []*table.Column) string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name()
	}
	return strings.Join(names, ", ")
}
