package imputer

import (
	"fmt"
	"math"
	"sort"

	"goclean/domain/cleaning"
	"goclean/domain/table"

	"gonum.org/v1/gonum/stat"
)

// featureMatrix holds the standardised numeric columns of the input
// snapshot. Nulls are NaN. Features with zero spread are left out.
type featureMatrix struct {
	names  []string
	values [][]float64
}

func newFeatureMatrix(ds *table.Dataset) *featureMatrix {
	fm := &featureMatrix{}
	for _, col := range ds.Columns() {
		if !col.IsNumeric() {
			continue
		}
		observed := col.Floats()
		if len(observed) < 2 {
			continue
		}
		mean, std := stat.MeanStdDev(observed, nil)
		if std == 0 || math.IsNaN(std) {
			continue
		}
		z := make([]float64, col.Len())
		for i := range z {
			if v, ok := col.Cell(i).Float(); ok {
				z[i] = (v - mean) / std
			} else {
				z[i] = math.NaN()
			}
		}
		fm.names = append(fm.names, col.Name())
		fm.values = append(fm.values, z)
	}
	return fm
}

// without returns the feature columns other than target
func (fm *featureMatrix) without(target string) [][]float64 {
	var out [][]float64
	for i, name := range fm.names {
		if name != target {
			out = append(out, fm.values[i])
		}
	}
	return out
}

// nanEuclidean is the euclidean distance over the features present in
// both rows, scaled up by total/present. ok is false with no overlap.
func nanEuclidean(features [][]float64, a, b int) (float64, bool) {
	var sum float64
	present := 0
	for _, f := range features {
		x, y := f[a], f[b]
		if math.IsNaN(x) || math.IsNaN(y) {
			continue
		}
		d := x - y
		sum += d * d
		present++
	}
	if present == 0 {
		return 0, false
	}
	return math.Sqrt(sum * float64(len(features)) / float64(present)), true
}

type neighbour struct {
	row   int
	rowID int
	dist  float64
}

// knnFill fills col from the k nearest donor rows. It returns nil cells
// when nothing could be imputed.
func knnFill(ds *table.Dataset, col *table.Column, k int, fm *featureMatrix) ([]table.Cell, []cleaning.AuditEntry) {
	name := col.Name()
	features := fm.without(name)

	var donors []int
	for i := 0; i < col.Len(); i++ {
		if !col.Cell(i).IsNull() {
			donors = append(donors, i)
		}
	}

	fallback := fallbackMethod(col)
	var reason string
	switch {
	case len(features) == 0:
		reason = "no numeric feature columns"
	case len(donors) < k:
		reason = fmt.Sprintf("only %d donor rows for k=%d", len(donors), k)
	}
	if reason != "" {
		entries := []cleaning.AuditEntry{entry("KNN imputation not feasible for '%s' (%s); fell back to %s", name, reason, fallback)}
		value, label, ok := statistic(col, fallback)
		if !ok {
			return nil, append(entries, entry("Could not impute '%s': no observed values", name))
		}
		entries = append(entries, entry("Imputed %d missing values in '%s' using %s (%s)", col.MissingCount(), name, label, formatValue(value)))
		return fillAll(col, value), entries
	}

	fallbackValue, _, _ := statistic(col, fallback)
	cells := col.Cells()
	filled, isolated := 0, 0
	candidates := make([]neighbour, 0, len(donors))
	for i := range cells {
		if !cells[i].IsNull() {
			continue
		}
		candidates = candidates[:0]
		for _, d := range donors {
			if dist, ok := nanEuclidean(features, i, d); ok {
				candidates = append(candidates, neighbour{row: d, rowID: ds.RowID(d), dist: dist})
			}
		}
		if len(candidates) == 0 {
			cells[i] = fallbackValue
			isolated++
			continue
		}
		sort.Slice(candidates, func(a, b int) bool {
			if candidates[a].dist != candidates[b].dist {
				return candidates[a].dist < candidates[b].dist
			}
			return candidates[a].rowID < candidates[b].rowID
		})
		n := k
		if n > len(candidates) {
			n = len(candidates)
		}
		cells[i] = aggregate(col, candidates[:n])
		filled++
	}

	msg := entry("Imputed %d missing values in '%s' using knn (k=%d)", filled, name, k)
	if isolated > 0 {
		msg.Message += fmt.Sprintf("; %d rows without shared features used %s", isolated, fallback)
	}
	return cells, []cleaning.AuditEntry{msg}
}

// aggregate averages numeric neighbours and takes the nearest-first mode
// of anything else
func aggregate(col *table.Column, nearest []neighbour) table.Cell {
	if col.IsNumeric() {
		var sum float64
		for _, n := range nearest {
			v, _ := col.Cell(n.row).Float()
			sum += v
		}
		return table.Number(sum / float64(len(nearest)))
	}

	counts := make(map[string]int, len(nearest))
	top := 0
	for _, n := range nearest {
		key := col.Cell(n.row).Key()
		counts[key]++
		if counts[key] > top {
			top = counts[key]
		}
	}
	for _, n := range nearest {
		if c := col.Cell(n.row); counts[c.Key()] == top {
			return c
		}
	}
	return table.Null()
}
