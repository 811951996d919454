package table

import (
	"fmt"
	"strings"

	"goclean/domain/core"
)

// Dataset is an ordered set of equal-length columns. Every operation
// returns a new Dataset and leaves the receiver untouched.
type Dataset struct {
	columns []*Column
	index   map[string]int
	rowIDs  []int
}

// New builds a dataset and assigns original row indices 0..n-1
func New(columns []*Column) (*Dataset, error) {
	if len(columns) == 0 {
		return nil, core.ErrNoColumns
	}
	n := columns[0].Len()
	ids := make([]int, n)
	for i := range ids {
		ids[i] = i
	}
	return build(columns, ids)
}

// FromRows builds a dataset of raw string cells from a header and rows.
// Short rows are padded with nulls; extra cells are ignored.
func FromRows(headers []string, rows [][]string) (*Dataset, error) {
	if len(headers) == 0 {
		return nil, core.ErrNoColumns
	}
	cols := make([]*Column, len(headers))
	for j, h := range headers {
		cells := make([]Cell, len(rows))
		for i, row := range rows {
			if j < len(row) {
				cells[i] = Parse(row[j])
			}
		}
		cols[j] = NewColumn(strings.TrimSpace(h), TypeText, cells)
	}
	return New(cols)
}

func build(columns []*Column, rowIDs []int) (*Dataset, error) {
	index := make(map[string]int, len(columns))
	for i, col := range columns {
		if col.Name() == "" {
			return nil, core.NewInputError(fmt.Sprintf("column %d has an empty name", i+1))
		}
		if _, dup := index[col.Name()]; dup {
			return nil, core.NewInputError(fmt.Sprintf("duplicate column name %q", col.Name()))
		}
		if col.Len() != len(rowIDs) {
			return nil, core.NewInputError(fmt.Sprintf("column %q has %d rows, expected %d", col.Name(), col.Len(), len(rowIDs)))
		}
		index[col.Name()] = i
	}
	return &Dataset{columns: columns, index: index, rowIDs: rowIDs}, nil
}

func (d *Dataset) NumRows() int    { return len(d.rowIDs) }
func (d *Dataset) NumColumns() int { return len(d.columns) }

// Columns returns the columns in order
func (d *Dataset) Columns() []*Column {
	out := make([]*Column, len(d.columns))
	copy(out, d.columns)
	return out
}

// Column looks up a column by name
func (d *Dataset) Column(name string) (*Column, bool) {
	i, ok := d.index[name]
	if !ok {
		return nil, false
	}
	return d.columns[i], true
}

// ColumnAt returns the column at position i
func (d *Dataset) ColumnAt(i int) *Column { return d.columns[i] }

// ColumnNames returns names in column order
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.columns))
	for i, c := range d.columns {
		names[i] = c.Name()
	}
	return names
}

// RowID returns the original index of row i
func (d *Dataset) RowID(i int) int { return d.rowIDs[i] }

// RowIDs returns a copy of the original row indices
func (d *Dataset) RowIDs() []int {
	out := make([]int, len(d.rowIDs))
	copy(out, d.rowIDs)
	return out
}

// Row returns row i's cells in column order
func (d *Dataset) Row(i int) []Cell {
	row := make([]Cell, len(d.columns))
	for j, c := range d.columns {
		row[j] = c.Cell(i)
	}
	return row
}

// RowMap returns row i keyed by column name
func (d *Dataset) RowMap(i int) map[string]interface{} {
	row := make(map[string]interface{}, len(d.columns))
	for _, c := range d.columns {
		row[c.Name()] = c.Cell(i).Interface()
	}
	return row
}

// WithColumns returns a dataset over the given columns and the receiver's
// row identities. The row count must be unchanged.
func (d *Dataset) WithColumns(columns []*Column) (*Dataset, error) {
	if len(columns) == 0 {
		return nil, core.ErrNoColumns
	}
	return build(columns, d.rowIDs)
}

// ReplaceColumn swaps the column with the same name
func (d *Dataset) ReplaceColumn(col *Column) (*Dataset, error) {
	i, ok := d.index[col.Name()]
	if !ok {
		return nil, fmt.Errorf("%w: column %q", core.ErrNotFound, col.Name())
	}
	cols := d.Columns()
	cols[i] = col
	return build(cols, d.rowIDs)
}

// FilterRows keeps rows for which keep returns true
func (d *Dataset) FilterRows(keep func(i int) bool) *Dataset {
	var idx []int
	for i := range d.rowIDs {
		if keep(i) {
			idx = append(idx, i)
		}
	}
	if len(idx) == len(d.rowIDs) {
		return d
	}
	cols := make([]*Column, len(d.columns))
	for j, c := range d.columns {
		cells := make([]Cell, len(idx))
		for k, i := range idx {
			cells[k] = c.Cell(i)
		}
		cols[j] = NewColumn(c.Name(), c.Type(), cells)
	}
	ids := make([]int, len(idx))
	for k, i := range idx {
		ids[k] = d.rowIDs[i]
	}
	return &Dataset{columns: cols, index: d.index, rowIDs: ids}
}

// Rename applies a name mapping. Unknown source names are ignored.
func (d *Dataset) Rename(mapping map[string]string) (*Dataset, error) {
	if len(mapping) == 0 {
		return d, nil
	}
	cols := make([]*Column, len(d.columns))
	for i, c := range d.columns {
		if to, ok := mapping[c.Name()]; ok && strings.TrimSpace(to) != "" {
			cols[i] = c.WithName(strings.TrimSpace(to))
			continue
		}
		cols[i] = c
	}
	return build(cols, d.rowIDs)
}

// MissingByColumn returns null counts keyed by column name
func (d *Dataset) MissingByColumn() map[string]int {
	out := make(map[string]int, len(d.columns))
	for _, c := range d.columns {
		out[c.Name()] = c.MissingCount()
	}
	return out
}

// TotalMissing is the sum of null cells over all columns
func (d *Dataset) TotalMissing() int {
	total := 0
	for _, c := range d.columns {
		total += c.MissingCount()
	}
	return total
}

// DuplicateRows counts rows identical to an earlier row
func (d *Dataset) DuplicateRows() int {
	seen := make(map[string]struct{}, d.NumRows())
	dups := 0
	var sb strings.Builder
	for i := 0; i < d.NumRows(); i++ {
		sb.Reset()
		for _, c := range d.columns {
			sb.WriteString(c.Cell(i).Key())
			sb.WriteByte(0x1f)
		}
		k := sb.String()
		if _, ok := seen[k]; ok {
			dups++
			continue
		}
		seen[k] = struct{}{}
	}
	return dups
}

// Head returns the first n rows
func (d *Dataset) Head(n int) *Dataset {
	if n >= d.NumRows() {
		return d
	}
	return d.FilterRows(func(i int) bool { return i < n })
}

// MemoryUsage estimates the in-memory footprint of the cells in bytes
func (d *Dataset) MemoryUsage() int64 {
	const cellOverhead = 40
	var total int64
	for _, c := range d.columns {
		for i := 0; i < c.Len(); i++ {
			total += cellOverhead + int64(len(c.Cell(i).Text()))
		}
	}
	return total
}
