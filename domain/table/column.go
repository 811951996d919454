package table

import (
	"sync"
)

// Column is an immutable named sequence of cells. Columns are shared by
// pointer between datasets; derived statistics are computed once.
type Column struct {
	name  string
	typ   SemanticType
	cells []Cell

	summaryOnce sync.Once
	summary     NumericSummary
	hasSummary  bool

	countOnce sync.Once
	missing   int
	unique    int
}

// NewColumn takes ownership of cells; callers must not modify the slice
// afterwards.
func NewColumn(name string, typ SemanticType, cells []Cell) *Column {
	return &Column{name: name, typ: typ, cells: cells}
}

func (c *Column) Name() string       { return c.name }
func (c *Column) Type() SemanticType { return c.typ }
func (c *Column) Len() int           { return len(c.cells) }
func (c *Column) Cell(i int) Cell    { return c.cells[i] }
func (c *Column) IsNumeric() bool    { return c.typ.IsNumeric() }

// Cells returns a copy of the column's cells
func (c *Column) Cells() []Cell {
	out := make([]Cell, len(c.cells))
	copy(out, c.cells)
	return out
}

// WithName returns the same cells under a new name
func (c *Column) WithName(name string) *Column {
	return NewColumn(name, c.typ, c.cells)
}

// WithType returns the same cells under a new semantic type
func (c *Column) WithType(typ SemanticType) *Column {
	return NewColumn(c.name, typ, c.cells)
}

// WithCells returns a column with the same name and type over new cells
func (c *Column) WithCells(cells []Cell) *Column {
	return NewColumn(c.name, c.typ, cells)
}

// MissingCount is the number of null cells
func (c *Column) MissingCount() int {
	c.computeCounts()
	return c.missing
}

// UniqueCount is the number of distinct non-null values
func (c *Column) UniqueCount() int {
	c.computeCounts()
	return c.unique
}

func (c *Column) computeCounts() {
	c.countOnce.Do(func() {
		seen := make(map[string]struct{})
		for _, cell := range c.cells {
			if cell.IsNull() {
				c.missing++
				continue
			}
			seen[cell.Key()] = struct{}{}
		}
		c.unique = len(seen)
	})
}

// SampleValues returns up to n distinct non-null values in first-seen order
func (c *Column) SampleValues(n int) []Cell {
	out := make([]Cell, 0, n)
	seen := make(map[string]struct{})
	for _, cell := range c.cells {
		if len(out) >= n {
			break
		}
		if cell.IsNull() {
			continue
		}
		if _, ok := seen[cell.Key()]; ok {
			continue
		}
		seen[cell.Key()] = struct{}{}
		out = append(out, cell)
	}
	return out
}

// Floats returns the non-null numeric values in row order
func (c *Column) Floats() []float64 {
	out := make([]float64, 0, len(c.cells))
	for _, cell := range c.cells {
		if v, ok := cell.Float(); ok {
			out = append(out, v)
		}
	}
	return out
}

// NumericSummary returns the memoised moments of the column's numbers.
// The boolean is false when the column holds no numbers.
func (c *Column) NumericSummary() (NumericSummary, bool) {
	c.summaryOnce.Do(func() {
		c.summary, c.hasSummary = Summarize(c.Floats())
	})
	return c.summary, c.hasSummary
}

// Mode returns the most frequent non-null value, ties broken by first
// appearance
func (c *Column) Mode() (Cell, bool) {
	counts := make(map[string]int)
	first := make(map[string]Cell)
	var order []string
	for _, cell := range c.cells {
		if cell.IsNull() {
			continue
		}
		k := cell.Key()
		if _, ok := counts[k]; !ok {
			order = append(order, k)
			first[k] = cell
		}
		counts[k]++
	}
	if len(order) == 0 {
		return Null(), false
	}
	best := order[0]
	for _, k := range order[1:] {
		if counts[k] > counts[best] {
			best = k
		}
	}
	return first[best], true
}
