package cleaning

import (
	"encoding/json"
	"fmt"
	"strings"

	"goclean/domain/core"
)

// DecisionAction is the chosen resolution for a column
type DecisionAction string

const (
	DecisionToNumeric  DecisionAction = "to_numeric"
	DecisionToDatetime DecisionAction = "to_datetime"
	DecisionKeepText   DecisionAction = "keep_text"
	DecisionSplit      DecisionAction = "split"
	DecisionDrop       DecisionAction = "drop"
)

// DefaultSplitDelimiter is used when a split decision names none
const DefaultSplitDelimiter = ";"

// ColumnDecision is a user's resolution for one column. On the wire it is
// either a bare action string or an object with action, delimiter, prefix.
type ColumnDecision struct {
	Action    DecisionAction `json:"action" yaml:"action"`
	Delimiter string         `json:"delimiter,omitempty" yaml:"delimiter,omitempty"`
	Prefix    string         `json:"prefix,omitempty" yaml:"prefix,omitempty"`
}

// Decisions maps column name to decision. A nil map means no decisions
// were supplied; an empty map accepts the safe defaults.
type Decisions map[string]ColumnDecision

// ParseAction normalises an action name, accepting short aliases
func ParseAction(s string) (DecisionAction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "to_numeric", "numeric":
		return DecisionToNumeric, nil
	case "to_datetime", "to_date", "date", "datetime":
		return DecisionToDatetime, nil
	case "keep_text", "text", "keep", "categorical":
		return DecisionKeepText, nil
	case "split":
		return DecisionSplit, nil
	case "drop":
		return DecisionDrop, nil
	}
	return "", fmt.Errorf("%w: unknown column decision %q", core.ErrInvalidInput, s)
}

func (d *ColumnDecision) UnmarshalJSON(data []byte) error {
	var action string
	if err := json.Unmarshal(data, &action); err == nil {
		parsed, err := ParseAction(action)
		if err != nil {
			return err
		}
		*d = ColumnDecision{Action: parsed}
		return d.normalize()
	}

	var obj struct {
		Action    string `json:"action"`
		Delimiter string `json:"delimiter"`
		Prefix    string `json:"prefix"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("%w: column decision must be a string or object", core.ErrInvalidInput)
	}
	parsed, err := ParseAction(obj.Action)
	if err != nil {
		return err
	}
	*d = ColumnDecision{Action: parsed, Delimiter: obj.Delimiter, Prefix: strings.TrimSpace(obj.Prefix)}
	return d.normalize()
}

// UnmarshalYAML accepts the same two shapes as JSON
func (d *ColumnDecision) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var action string
	if err := unmarshal(&action); err == nil {
		parsed, err := ParseAction(action)
		if err != nil {
			return err
		}
		*d = ColumnDecision{Action: parsed}
		return d.normalize()
	}
	var obj struct {
		Action    string `yaml:"action"`
		Delimiter string `yaml:"delimiter"`
		Prefix    string `yaml:"prefix"`
	}
	if err := unmarshal(&obj); err != nil {
		return err
	}
	parsed, err := ParseAction(obj.Action)
	if err != nil {
		return err
	}
	*d = ColumnDecision{Action: parsed, Delimiter: obj.Delimiter, Prefix: strings.TrimSpace(obj.Prefix)}
	return d.normalize()
}

func (d *ColumnDecision) normalize() error {
	if d.Action == DecisionSplit && d.Delimiter == "" {
		d.Delimiter = DefaultSplitDelimiter
	}
	return nil
}

// ParseDecisions decodes a decisions JSON document. Empty input means no
// decisions were supplied and returns nil.
func ParseDecisions(data []byte) (Decisions, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}
	decisions := Decisions{}
	if err := json.Unmarshal([]byte(trimmed), &decisions); err != nil {
		if core.IsInputError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: column_decisions: %v", core.ErrInvalidInput, err)
	}
	return decisions, nil
}
