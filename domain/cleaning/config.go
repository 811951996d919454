package cleaning

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"goclean/domain/core"
)

// ImputationMethod selects how missing values are filled
type ImputationMethod string

const (
	ImputeNone   ImputationMethod = "none"
	ImputeMean   ImputationMethod = "mean"
	ImputeMedian ImputationMethod = "median"
	ImputeMode   ImputationMethod = "mode"
	ImputeKNN    ImputationMethod = "knn"
)

func (m ImputationMethod) valid() bool {
	switch m {
	case ImputeNone, ImputeMean, ImputeMedian, ImputeMode, ImputeKNN:
		return true
	}
	return false
}

// OutlierMethod selects the outlier convention
type OutlierMethod string

const (
	OutlierZScore OutlierMethod = "zscore"
	OutlierIQR    OutlierMethod = "iqr"
)

// OutlierAction selects what happens to detected outliers
type OutlierAction string

const (
	OutlierRemove OutlierAction = "remove"
	OutlierFlag   OutlierAction = "flag"
	OutlierCap    OutlierAction = "cap"
)

// Condition is a rule predicate
type Condition string

const (
	CondGreaterThan Condition = "greater_than"
	CondLessThan    Condition = "less_than"
	CondEquals      Condition = "equals"
	CondNotEquals   Condition = "not_equals"
	CondContains    Condition = "contains"
	CondNotContains Condition = "not_contains"
	CondIsNull      Condition = "is_null"
	CondIsNotNull   Condition = "is_not_null"
)

// NeedsValue reports whether the condition compares against a literal
func (c Condition) NeedsValue() bool {
	return c != CondIsNull && c != CondIsNotNull
}

func (c Condition) valid() bool {
	switch c {
	case CondGreaterThan, CondLessThan, CondEquals, CondNotEquals,
		CondContains, CondNotContains, CondIsNull, CondIsNotNull:
		return true
	}
	return false
}

// RuleAction is applied to rows matching a rule
type RuleAction string

const (
	RuleRemove    RuleAction = "remove"
	RuleFlag      RuleAction = "flag"
	RuleTransform RuleAction = "transform"
)

// Bounds documented to callers
const (
	DefaultKNNNeighbors = 5
	MinKNNNeighbors     = 1
	MaxKNNNeighbors     = 20

	DefaultZScoreThreshold = 3.0
	MinZScoreThreshold     = 1.0
	MaxZScoreThreshold     = 5.0

	DefaultIQRMultiplier = 1.5
	MinIQRMultiplier     = 0.5
	MaxIQRMultiplier     = 3.0
)

// ImputationConfig controls missing value handling
type ImputationConfig struct {
	Method         ImputationMethod            `json:"method" yaml:"method"`
	ColumnMethods  map[string]ImputationMethod `json:"column_methods,omitempty" yaml:"column_methods,omitempty"`
	KNNNeighbors   int                         `json:"knn_neighbors" yaml:"knn_neighbors"`
	DeleteNullRows bool                        `json:"delete_null_rows" yaml:"delete_null_rows"`
}

// MethodFor returns the effective method for a column
func (c ImputationConfig) MethodFor(column string) ImputationMethod {
	if m, ok := c.ColumnMethods[column]; ok {
		return m
	}
	return c.Method
}

// OutlierConfig controls outlier detection
type OutlierConfig struct {
	Enabled        bool          `json:"enabled" yaml:"enabled"`
	Method         OutlierMethod `json:"method" yaml:"method"`
	Threshold      float64       `json:"threshold" yaml:"threshold"`
	Action         OutlierAction `json:"action" yaml:"action"`
	ExcludeColumns []string      `json:"exclude_columns,omitempty" yaml:"exclude_columns,omitempty"`
}

// Excludes reports whether a column is opted out of detection
func (c OutlierConfig) Excludes(column string) bool {
	for _, name := range c.ExcludeColumns {
		if name == column {
			return true
		}
	}
	return false
}

// CustomRule is one user-authored validation rule
type CustomRule struct {
	Column      string      `json:"column" yaml:"column"`
	Condition   Condition   `json:"condition" yaml:"condition"`
	Value       interface{} `json:"value,omitempty" yaml:"value,omitempty"`
	Action      RuleAction  `json:"action" yaml:"action"`
	Replacement interface{} `json:"replacement,omitempty" yaml:"replacement,omitempty"`
}

// ProcessingConfig is the validated configuration of one pipeline run.
// Build it with NewProcessingConfig or ParseConfig; the pipeline never
// modifies it.
type ProcessingConfig struct {
	Imputation    ImputationConfig  `json:"imputation" yaml:"imputation"`
	Outliers      OutlierConfig     `json:"outliers" yaml:"outliers"`
	Rules         []CustomRule      `json:"custom_rules" yaml:"custom_rules"`
	SchemaMapping map[string]string `json:"schema_mapping,omitempty" yaml:"schema_mapping,omitempty"`

	validated bool
}

// DefaultProcessingConfig returns a config with no cleaning steps enabled
func DefaultProcessingConfig() *ProcessingConfig {
	cfg, _ := NewProcessingConfig(ProcessingConfig{})
	return cfg
}

// ParseConfig decodes a JSON config and validates it. Empty input yields
// the default config.
func ParseConfig(data []byte) (*ProcessingConfig, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return DefaultProcessingConfig(), nil
	}
	var raw ProcessingConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidConfig, err)
	}
	return NewProcessingConfig(raw)
}

// NewProcessingConfig applies defaults, validates ranges and returns a
// deep copy of raw.
func NewProcessingConfig(raw ProcessingConfig) (*ProcessingConfig, error) {
	cfg := raw.clone()

	imp := &cfg.Imputation
	imp.Method = ImputationMethod(strings.ToLower(strings.TrimSpace(string(imp.Method))))
	if imp.Method == "" {
		imp.Method = ImputeNone
	}
	if !imp.Method.valid() {
		return nil, core.NewConfigError("imputation.method", fmt.Sprintf("%q is not one of none, mean, median, mode, knn", imp.Method))
	}
	for col, m := range imp.ColumnMethods {
		m = ImputationMethod(strings.ToLower(strings.TrimSpace(string(m))))
		if !m.valid() {
			return nil, core.NewConfigError("imputation.column_methods", fmt.Sprintf("%q for column %q is not a known method", m, col))
		}
		imp.ColumnMethods[col] = m
	}
	if imp.KNNNeighbors == 0 {
		imp.KNNNeighbors = DefaultKNNNeighbors
	}
	if imp.KNNNeighbors < MinKNNNeighbors || imp.KNNNeighbors > MaxKNNNeighbors {
		return nil, core.NewConfigError("imputation.knn_neighbors", fmt.Sprintf("must be between %d and %d, got %d", MinKNNNeighbors, MaxKNNNeighbors, imp.KNNNeighbors))
	}

	out := &cfg.Outliers
	out.Method = OutlierMethod(strings.ToLower(strings.TrimSpace(string(out.Method))))
	if out.Method == "" {
		out.Method = OutlierIQR
	}
	out.Action = OutlierAction(strings.ToLower(strings.TrimSpace(string(out.Action))))
	if out.Action == "" {
		out.Action = OutlierFlag
	}
	switch out.Action {
	case OutlierRemove, OutlierFlag, OutlierCap:
	default:
		return nil, core.NewConfigError("outliers.action", fmt.Sprintf("%q is not one of remove, flag, cap", out.Action))
	}
	switch out.Method {
	case OutlierZScore:
		if out.Threshold == 0 {
			out.Threshold = DefaultZScoreThreshold
		}
		if out.Threshold < MinZScoreThreshold || out.Threshold > MaxZScoreThreshold {
			return nil, core.NewConfigError("outliers.threshold", fmt.Sprintf("zscore threshold must be between %g and %g, got %g", MinZScoreThreshold, MaxZScoreThreshold, out.Threshold))
		}
	case OutlierIQR:
		if out.Threshold == 0 {
			out.Threshold = DefaultIQRMultiplier
		}
		if out.Threshold < MinIQRMultiplier || out.Threshold > MaxIQRMultiplier {
			return nil, core.NewConfigError("outliers.threshold", fmt.Sprintf("iqr multiplier must be between %g and %g, got %g", MinIQRMultiplier, MaxIQRMultiplier, out.Threshold))
		}
	default:
		return nil, core.NewConfigError("outliers.method", fmt.Sprintf("%q is not one of zscore, iqr", out.Method))
	}

	for i := range cfg.Rules {
		r := &cfg.Rules[i]
		r.Column = strings.TrimSpace(r.Column)
		r.Condition = Condition(strings.ToLower(strings.TrimSpace(string(r.Condition))))
		r.Action = RuleAction(strings.ToLower(strings.TrimSpace(string(r.Action))))
		if r.Column == "" {
			return nil, core.NewConfigError(fmt.Sprintf("custom_rules[%d].column", i), "is required")
		}
		if !r.Condition.valid() {
			return nil, core.NewConfigError(fmt.Sprintf("custom_rules[%d].condition", i), fmt.Sprintf("%q is not a known condition", r.Condition))
		}
		if r.Condition.NeedsValue() && r.Value == nil {
			return nil, core.NewConfigError(fmt.Sprintf("custom_rules[%d].value", i), fmt.Sprintf("is required for %s", r.Condition))
		}
		switch r.Action {
		case RuleRemove, RuleFlag:
		case RuleTransform:
			if r.Replacement == nil {
				return nil, core.NewConfigError(fmt.Sprintf("custom_rules[%d].replacement", i), "is required for transform")
			}
		default:
			return nil, core.NewConfigError(fmt.Sprintf("custom_rules[%d].action", i), fmt.Sprintf("%q is not one of remove, flag, transform", r.Action))
		}
	}

	if err := validateMapping(cfg.SchemaMapping); err != nil {
		return nil, err
	}

	cfg.validated = true
	return &cfg, nil
}

// Validated reports whether the config came from NewProcessingConfig
func (c *ProcessingConfig) Validated() bool { return c != nil && c.validated }

func validateMapping(mapping map[string]string) error {
	targets := make(map[string]string, len(mapping))
	keys := make([]string, 0, len(mapping))
	for k := range mapping {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, from := range keys {
		to := strings.TrimSpace(mapping[from])
		if to == "" {
			return core.NewConfigError("schema_mapping", fmt.Sprintf("target name for %q is empty", from))
		}
		if prev, dup := targets[to]; dup {
			return core.NewConfigError("schema_mapping", fmt.Sprintf("%q and %q both map to %q", prev, from, to))
		}
		targets[to] = from
	}
	return nil
}

func (c ProcessingConfig) clone() ProcessingConfig {
	out := c
	if c.Imputation.ColumnMethods != nil {
		out.Imputation.ColumnMethods = make(map[string]ImputationMethod, len(c.Imputation.ColumnMethods))
		for k, v := range c.Imputation.ColumnMethods {
			out.Imputation.ColumnMethods[k] = v
		}
	}
	out.Outliers.ExcludeColumns = append([]string(nil), c.Outliers.ExcludeColumns...)
	out.Rules = append([]CustomRule(nil), c.Rules...)
	if c.SchemaMapping != nil {
		out.SchemaMapping = make(map[string]string, len(c.SchemaMapping))
		for k, v := range c.SchemaMapping {
			out.SchemaMapping[k] = v
		}
	}
	return out
}

// Describe renders a rule the way it appears in the audit trail, e.g.
// "age > 120"
func (r CustomRule) Describe() string {
	switch r.Condition {
	case CondGreaterThan:
		return fmt.Sprintf("%s > %v", r.Column, r.Value)
	case CondLessThan:
		return fmt.Sprintf("%s < %v", r.Column, r.Value)
	case CondEquals:
		return fmt.Sprintf("%s == %v", r.Column, r.Value)
	case CondNotEquals:
		return fmt.Sprintf("%s != %v", r.Column, r.Value)
	case CondContains:
		return fmt.Sprintf("%s contains %v", r.Column, r.Value)
	case CondNotContains:
		return fmt.Sprintf("%s not contains %v", r.Column, r.Value)
	case CondIsNull:
		return fmt.Sprintf("%s is null", r.Column)
	case CondIsNotNull:
		return fmt.Sprintf("%s is not null", r.Column)
	}
	return fmt.Sprintf("%s %s %v", r.Column, r.Condition, r.Value)
}
