package table

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// CellKind discriminates the three cell representations
type CellKind uint8

const (
	KindNull CellKind = iota
	KindNumber
	KindString
)

// Cell is one value of a column: null, a number, or a string
type Cell struct {
	kind CellKind
	num  float64
	str  string
}

// Null returns the missing cell
func Null() Cell { return Cell{} }

// Number returns a numeric cell. NaN and infinities are stored as null.
func Number(v float64) Cell {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Cell{}
	}
	return Cell{kind: KindNumber, num: v}
}

// Str returns a string cell
func Str(s string) Cell { return Cell{kind: KindString, str: s} }

// naTokens are raw strings read as missing at ingestion
var naTokens = map[string]struct{}{
	"":     {},
	"na":   {},
	"n/a":  {},
	"nan":  {},
	"null": {},
	"none": {},
	"#n/a": {},
	"-":    {},
}

// Parse converts a raw text cell from a file into a Cell. Values are kept
// as strings; typing happens during resolution.
func Parse(raw string) Cell {
	trimmed := strings.TrimSpace(raw)
	if IsNAToken(trimmed) {
		return Null()
	}
	return Str(trimmed)
}

// IsNAToken reports whether s is one of the recognised missing markers
func IsNAToken(s string) bool {
	_, ok := naTokens[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

func (c Cell) Kind() CellKind { return c.kind }
func (c Cell) IsNull() bool   { return c.kind == KindNull }

// Float returns the numeric value if the cell holds a number
func (c Cell) Float() (float64, bool) {
	if c.kind != KindNumber {
		return 0, false
	}
	return c.num, true
}

// Text renders the cell as it would appear in a CSV. Null renders as "".
func (c Cell) Text() string {
	switch c.kind {
	case KindNumber:
		return FormatNumber(c.num)
	case KindString:
		return c.str
	default:
		return ""
	}
}

func (c Cell) String() string {
	if c.kind == KindNull {
		return "<null>"
	}
	return c.Text()
}

// Key is a kind-qualified identity used for distinct counting
func (c Cell) Key() string {
	switch c.kind {
	case KindNumber:
		return "n:" + FormatNumber(c.num)
	case KindString:
		return "s:" + c.str
	default:
		return "0:"
	}
}

// Equal compares kind and value
func (c Cell) Equal(o Cell) bool {
	return c.kind == o.kind && c.num == o.num && c.str == o.str
}

// Interface returns the cell as nil, float64 or string
func (c Cell) Interface() interface{} {
	switch c.kind {
	case KindNumber:
		return c.num
	case KindString:
		return c.str
	default:
		return nil
	}
}

func (c Cell) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Interface())
}

// FormatNumber renders a float without exponent or trailing zeros
func FormatNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
