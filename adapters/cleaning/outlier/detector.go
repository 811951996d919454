package outlier

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"goclean/domain/cleaning"
	"goclean/domain/table"
	"goclean/internal/parallel"
)

// zeroSpread is the relative spread below which a column counts as constant
const zeroSpread = 1e-12

// Detector finds outliers in numeric columns with a z-score or IQR rule
type Detector struct {
	workers int
}

// NewDetector creates a detector running on a pool of the given size
func NewDetector(workers int) *Detector {
	return &Detector{workers: workers}
}

// detection is the per-column outcome computed on the input snapshot
type detection struct {
	column   *table.Column
	lower    float64
	upper    float64
	rows     []int
	constant bool
	empty    bool
}

// Detect examines every numeric column not excluded by config and applies
// the configured action. Detection for all columns runs on the same input
// snapshot; the action is applied after all columns are examined.
func (d *Detector) Detect(ctx context.Context, ds *table.Dataset, config cleaning.OutlierConfig, flags *cleaning.Flags) (*cleaning.StageResult, error) {
	out := &cleaning.StageResult{Dataset: ds}
	if !config.Enabled {
		return out, nil
	}

	method := config.Method
	if method == "" {
		method = cleaning.OutlierIQR
	}
	threshold := config.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold(method)
	}

	var columns []*table.Column
	for _, col := range ds.Columns() {
		if col.IsNumeric() && !config.Excludes(col.Name()) {
			columns = append(columns, col)
		}
	}

	found, err := parallel.Map(ctx, len(columns), d.workers, func(ctx context.Context, i int) (detection, error) {
		return detect(columns[i], method, threshold), nil
	})
	if err != nil {
		return nil, err
	}

	affected := make(map[int]bool)
	for _, f := range found {
		out.Entries = append(out.Entries, describe(f, method, threshold, config.Action))
		for _, r := range f.rows {
			affected[r] = true
		}
	}
	out.Affected = len(affected)
	if len(affected) == 0 {
		return out, nil
	}

	switch config.Action {
	case cleaning.OutlierRemove:
		out.Dataset = ds.FilterRows(func(i int) bool { return !affected[i] })
	case cleaning.OutlierCap:
		capped := make(map[string]*table.Column, len(found))
		for _, f := range found {
			if len(f.rows) > 0 {
				capped[f.column.Name()] = clip(f)
			}
		}
		cols := ds.Columns()
		for i, col := range cols {
			if c, ok := capped[col.Name()]; ok {
				cols[i] = c
			}
		}
		next, err := ds.WithColumns(cols)
		if err != nil {
			return nil, err
		}
		out.Dataset = next
	default:
		if flags == nil {
			flags = cleaning.NewFlags()
		}
		for _, f := range found {
			for _, r := range f.rows {
				flags.Mark(ds.RowID(r), fmt.Sprintf("outlier in '%s'", f.column.Name()))
			}
		}
	}
	return out, nil
}

// DefaultThreshold returns the conventional threshold for a method
func DefaultThreshold(method cleaning.OutlierMethod) float64 {
	if method == cleaning.OutlierZScore {
		return cleaning.DefaultZScoreThreshold
	}
	return cleaning.DefaultIQRMultiplier
}

func detect(col *table.Column, method cleaning.OutlierMethod, threshold float64) detection {
	f := detection{column: col}
	summary, ok := col.NumericSummary()
	if !ok {
		f.empty = true
		return f
	}

	switch method {
	case cleaning.OutlierZScore:
		if summary.PopStd <= zeroSpread*math.Max(1, math.Abs(summary.Mean)) {
			f.constant = true
			return f
		}
		f.lower = summary.Mean - threshold*summary.PopStd
		f.upper = summary.Mean + threshold*summary.PopStd
		for i := 0; i < col.Len(); i++ {
			if v, ok := col.Cell(i).Float(); ok && math.Abs(v-summary.Mean)/summary.PopStd > threshold {
				f.rows = append(f.rows, i)
			}
		}
	default:
		iqr := summary.IQR()
		f.lower = summary.Q1 - threshold*iqr
		f.upper = summary.Q3 + threshold*iqr
		for i := 0; i < col.Len(); i++ {
			if v, ok := col.Cell(i).Float(); ok && (v < f.lower || v > f.upper) {
				f.rows = append(f.rows, i)
			}
		}
	}
	return f
}

func clip(f detection) *table.Column {
	cells := f.column.Cells()
	for _, r := range f.rows {
		v, _ := cells[r].Float()
		cells[r] = table.Number(math.Min(math.Max(v, f.lower), f.upper))
	}
	return f.column.WithCells(cells)
}

func describe(f detection, method cleaning.OutlierMethod, threshold float64, action cleaning.OutlierAction) cleaning.AuditEntry {
	name := f.column.Name()
	var msg string
	switch {
	case f.empty:
		msg = fmt.Sprintf("Skipped '%s' for outliers: no numeric values", name)
	case f.constant:
		msg = fmt.Sprintf("Detected 0 outliers in '%s' using %s (threshold %s); zero variance, detection not applicable", name, method, num(threshold))
	default:
		msg = fmt.Sprintf("Detected %d outliers in '%s' using %s (threshold %s)", len(f.rows), name, method, num(threshold))
		if len(f.rows) > 0 {
			switch action {
			case cleaning.OutlierRemove:
				msg += "; rows removed"
			case cleaning.OutlierCap:
				msg += fmt.Sprintf("; capped to [%s, %s]", num(f.lower), num(f.upper))
			default:
				msg += "; rows flagged"
			}
		}
	}
	return cleaning.AuditEntry{Stage: cleaning.StageOutliers, Message: msg}
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
