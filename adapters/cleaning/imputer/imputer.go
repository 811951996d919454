package imputer

import (
	"context"
	"fmt"
	"strconv"

	"goclean/domain/cleaning"
	"goclean/domain/table"
	"goclean/internal"
	"goclean/internal/parallel"
)

// Imputer fills missing values column by column. Every column reads the
// same input snapshot, so columns can be filled in parallel.
type Imputer struct {
	workers int
	logger  *internal.Logger
}

// NewImputer creates an imputer running on a pool of the given size
func NewImputer(workers int) *Imputer {
	return &Imputer{workers: workers, logger: internal.NewComponentLogger("Imputer")}
}

type columnResult struct {
	column  *table.Column
	entries []cleaning.AuditEntry
}

// Impute applies the configured method to every column with missing values
// and, when requested, deletes rows that still contain nulls afterwards.
func (m *Imputer) Impute(ctx context.Context, ds *table.Dataset, config cleaning.ImputationConfig) (*cleaning.StageResult, error) {
	columns := ds.Columns()

	var features *featureMatrix
	for _, col := range columns {
		if col.MissingCount() > 0 && config.MethodFor(col.Name()) == cleaning.ImputeKNN {
			features = newFeatureMatrix(ds)
			break
		}
	}

	k := config.KNNNeighbors
	if k <= 0 {
		k = cleaning.DefaultKNNNeighbors
	}

	results, err := parallel.Map(ctx, len(columns), m.workers, func(ctx context.Context, i int) (columnResult, error) {
		return m.imputeColumn(ds, columns[i], config.MethodFor(columns[i].Name()), k, features), nil
	})
	if err != nil {
		return nil, err
	}

	out := &cleaning.StageResult{Dataset: ds}
	filled := make([]*table.Column, len(results))
	changed := false
	for i, r := range results {
		filled[i] = r.column
		if r.column != columns[i] {
			changed = true
		}
		out.Entries = append(out.Entries, r.entries...)
	}
	if changed {
		next, err := ds.WithColumns(filled)
		if err != nil {
			return nil, err
		}
		out.Dataset = next
	}

	if config.DeleteNullRows {
		before := out.Dataset.NumRows()
		kept := out.Dataset.FilterRows(func(i int) bool {
			for _, cell := range out.Dataset.Row(i) {
				if cell.IsNull() {
					return false
				}
			}
			return true
		})
		if removed := before - kept.NumRows(); removed > 0 {
			out.Entries = append(out.Entries, entry("Deleted %d rows that still contained null values", removed))
		}
		out.Dataset = kept
	}

	m.logger.Debug("Imputation produced %d audit entries over %d columns", len(out.Entries), len(columns))
	return out, nil
}

func (m *Imputer) imputeColumn(ds *table.Dataset, col *table.Column, method cleaning.ImputationMethod, k int, features *featureMatrix) columnResult {
	res := columnResult{column: col}
	missing := col.MissingCount()
	if missing == 0 || method == cleaning.ImputeNone || method == "" {
		return res
	}
	name := col.Name()

	if !col.IsNumeric() && (method == cleaning.ImputeMean || method == cleaning.ImputeMedian) {
		res.entries = append(res.entries, entry("'%s' is not numeric; used mode instead of %s", name, method))
		method = cleaning.ImputeMode
	}

	if method == cleaning.ImputeKNN {
		cells, entries := knnFill(ds, col, k, features)
		res.entries = append(res.entries, entries...)
		if cells != nil {
			res.column = col.WithCells(cells)
		}
		return res
	}

	value, label, ok := statistic(col, method)
	if !ok {
		res.entries = append(res.entries, entry("Could not impute '%s': no observed values", name))
		return res
	}
	res.column = col.WithCells(fillAll(col, value))
	res.entries = append(res.entries, entry("Imputed %d missing values in '%s' using %s (%s)", missing, name, label, formatValue(value)))
	return res
}

// statistic returns the fill value for a simple method. Median stands in
// for every numeric fallback, mode for every other column.
func statistic(col *table.Column, method cleaning.ImputationMethod) (table.Cell, string, bool) {
	if col.IsNumeric() && method != cleaning.ImputeMode {
		summary, ok := col.NumericSummary()
		if !ok {
			return table.Null(), "", false
		}
		if method == cleaning.ImputeMean {
			return table.Number(summary.Mean), string(cleaning.ImputeMean), true
		}
		return table.Number(summary.Median), string(cleaning.ImputeMedian), true
	}
	mode, ok := col.Mode()
	return mode, string(cleaning.ImputeMode), ok
}

func fallbackMethod(col *table.Column) cleaning.ImputationMethod {
	if col.IsNumeric() {
		return cleaning.ImputeMedian
	}
	return cleaning.ImputeMode
}

func fillAll(col *table.Column, value table.Cell) []table.Cell {
	cells := col.Cells()
	for i, c := range cells {
		if c.IsNull() {
			cells[i] = value
		}
	}
	return cells
}

func formatValue(c table.Cell) string {
	if v, ok := c.Float(); ok {
		return strconv.FormatFloat(v, 'g', 6, 64)
	}
	return c.Text()
}

func entry(format string, args ...interface{}) cleaning.AuditEntry {
	return cleaning.AuditEntry{Stage: cleaning.StageImputation, Message: fmt.Sprintf(format, args...)}
}
