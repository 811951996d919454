package coercer

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"goclean/domain/table"
)

// ValueClass is the bucket a raw value falls into during profiling
type ValueClass int

const (
	ClassNull ValueClass = iota
	ClassNumeric
	ClassDate
	ClassText
	// ClassMixed is free text mixing letters and digits, e.g. "12kg"
	ClassMixed
)

// TypeCoercer parses raw strings into numbers and dates deterministically
type TypeCoercer struct {
	config CoercionConfig
}

// CoercionConfig defines the accepted raw formats
type CoercionConfig struct {
	DateLayouts     []string `json:"date_layouts"`
	CurrencySymbols []string `json:"currency_symbols"`
	AllowPercent    bool     `json:"allow_percent"`
	AllowEuropean   bool     `json:"allow_european"` // 1.234,56
}

// DefaultCoercionConfig returns sensible defaults
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		DateLayouts: []string{
			time.RFC3339,
			"2006-01-02T15:04:05",
			"2006-01-02 15:04:05",
			"2006-01-02T15:04",
			"2006-01-02 15:04",
			"2006-01-02",
			"2006/01/02",
			"01/02/2006",
			"02/01/2006",
			"1/2/2006",
			"01/02/2006 15:04:05",
			"1/2/2006 15:04",
			"02-01-2006",
			"02.01.2006",
			"02-Jan-2006",
			"2 Jan 2006",
			"Jan 2, 2006",
			"January 2, 2006",
		},
		CurrencySymbols: []string{"$", "€", "£", "¥", "USD", "EUR", "GBP", "JPY"},
		AllowPercent:    true,
		AllowEuropean:   true,
	}
}

// NewTypeCoercer creates a coercer with the given config
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	return &TypeCoercer{config: config}
}

var (
	plainNumber    = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)
	groupedNumber  = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+(\.\d+)?$`)
	europeanNumber = regexp.MustCompile(`^[+-]?\d{1,3}(\.\d{3})+,\d+$`)
)

// ParseNumber parses integers, decimals, scientific notation, thousands
// groups, currency signs, trailing percent and accounting parentheses.
// Infinity, NaN and hex forms are rejected.
func (c *TypeCoercer) ParseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(strings.ReplaceAll(raw, "\u00A0", " "))
	if s == "" {
		return 0, false
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = strings.TrimSpace(s[1 : len(s)-1])
		negative = true
	}
	if c.config.AllowPercent && strings.HasSuffix(s, "%") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	}

	sign := ""
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		sign, s = s[:1], strings.TrimSpace(s[1:])
	}
	for _, symbol := range c.config.CurrencySymbols {
		if strings.HasPrefix(s, symbol) {
			s = strings.TrimSpace(strings.TrimPrefix(s, symbol))
			break
		}
		if strings.HasSuffix(s, symbol) {
			s = strings.TrimSpace(strings.TrimSuffix(s, symbol))
			break
		}
	}
	if sign == "" && (strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+")) {
		sign, s = s[:1], s[1:]
	}
	if s == "" {
		return 0, false
	}

	switch {
	case plainNumber.MatchString(s):
	case groupedNumber.MatchString(s):
		s = strings.ReplaceAll(s, ",", "")
	case c.config.AllowEuropean && europeanNumber.MatchString(s):
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	default:
		return 0, false
	}

	v, err := strconv.ParseFloat(sign+s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	if negative {
		v = -v
	}
	return v, true
}

// ParseDate tries each configured layout in order
func (c *TypeCoercer) ParseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	// Must contain a separator; bare digit runs are numbers
	if !strings.ContainsAny(s, "-/. ,T") {
		return time.Time{}, false
	}
	for _, layout := range c.config.DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders a parsed date in ISO-8601, omitting a zero clock
func FormatDate(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format("2006-01-02")
	}
	if t.Location() == time.UTC {
		return t.Format("2006-01-02T15:04:05")
	}
	return t.Format(time.RFC3339)
}

// Classify buckets one raw value. Numbers win over dates.
func (c *TypeCoercer) Classify(cell table.Cell) ValueClass {
	if cell.IsNull() {
		return ClassNull
	}
	if _, ok := cell.Float(); ok {
		return ClassNumeric
	}
	s := cell.Text()
	if _, ok := c.ParseNumber(s); ok {
		return ClassNumeric
	}
	if _, ok := c.ParseDate(s); ok {
		return ClassDate
	}
	if hasLetterAndDigit(s) {
		return ClassMixed
	}
	return ClassText
}

func hasLetterAndDigit(s string) bool {
	var letter, digit bool
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
		if letter && digit {
			return true
		}
	}
	return false
}

// ToNumber coerces a cell to a numeric cell, or null when it cannot
func (c *TypeCoercer) ToNumber(cell table.Cell) table.Cell {
	if cell.IsNull() {
		return cell
	}
	if _, ok := cell.Float(); ok {
		return cell
	}
	if v, ok := c.ParseNumber(cell.Text()); ok {
		return table.Number(v)
	}
	return table.Null()
}

// ToDate coerces a cell to an ISO date string, or null when it cannot
func (c *TypeCoercer) ToDate(cell table.Cell) table.Cell {
	if cell.IsNull() {
		return cell
	}
	if t, ok := c.ParseDate(cell.Text()); ok {
		return table.Str(FormatDate(t))
	}
	return table.Null()
}

// ToText renders any non-null cell as a string cell
func ToText(cell table.Cell) table.Cell {
	if cell.IsNull() {
		return cell
	}
	return table.Str(cell.Text())
}

// AnalyzeTypeDistribution counts the value classes of a sample
func (c *TypeCoercer) AnalyzeTypeDistribution(cells []table.Cell) TypeAnalysis {
	analysis := TypeAnalysis{TotalCount: len(cells)}
	for _, cell := range cells {
		switch c.Classify(cell) {
		case ClassNull:
			continue
		case ClassNumeric:
			analysis.NumericCount++
		case ClassDate:
			analysis.DateCount++
		case ClassMixed:
			analysis.MixedCount++
		default:
			analysis.TextCount++
		}
		analysis.ValidCount++
	}
	if analysis.ValidCount > 0 {
		n := float64(analysis.ValidCount)
		analysis.NumericRatio = float64(analysis.NumericCount) / n
		analysis.DateRatio = float64(analysis.DateCount) / n
		analysis.TextRatio = float64(analysis.TextCount) / n
		analysis.MixedRatio = float64(analysis.MixedCount) / n
	}
	return analysis
}

// TypeAnalysis contains the results of type distribution analysis. Ratios
// are over non-null values and sum to 1 when ValidCount > 0.
type TypeAnalysis struct {
	TotalCount   int     `json:"total_count"`
	ValidCount   int     `json:"valid_count"`
	NumericCount int     `json:"numeric_count"`
	DateCount    int     `json:"date_count"`
	TextCount    int     `json:"text_count"`
	MixedCount   int     `json:"mixed_count"`
	NumericRatio float64 `json:"numeric_ratio"`
	DateRatio    float64 `json:"date_ratio"`
	TextRatio    float64 `json:"text_ratio"`
	MixedRatio   float64 `json:"mixed_ratio"`
}

// TextualRatio is the share of values that parsed as neither number nor date
func (a TypeAnalysis) TextualRatio() float64 { return a.TextRatio + a.MixedRatio }
