package profiling

import "goclean/domain/cleaning"

// Confidence grades a resolution suggestion
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceSafe   Confidence = "safe"
)

// Suggestion is one proposed resolution for a mixed column
type Suggestion struct {
	Action      cleaning.DecisionAction `json:"action"`
	Confidence  Confidence              `json:"confidence"`
	Description string                  `json:"description"`
	Reasoning   string                  `json:"reasoning"`
	Delimiter   string                  `json:"delimiter,omitempty"`
}

// MixedColumnCandidate describes a column needing a resolution decision
type MixedColumnCandidate struct {
	Column      string       `json:"column"`
	Ratios      TypeRatios   `json:"ratios"`
	Suggestions []Suggestion `json:"suggestions"`
}

// SafeSuggestion returns the always-present lossless suggestion
func (c MixedColumnCandidate) SafeSuggestion() Suggestion {
	for _, s := range c.Suggestions {
		if s.Confidence == ConfidenceSafe {
			return s
		}
	}
	return Suggestion{Action: cleaning.DecisionKeepText, Confidence: ConfidenceSafe}
}
