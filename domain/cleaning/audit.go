package cleaning

import "fmt"

// Stage names used in audit entries, in application order
type Stage string

const (
	StageResolution    Stage = "resolution"
	StageImputation    Stage = "imputation"
	StageOutliers      Stage = "outliers"
	StageRules         Stage = "rules"
	StageSchemaMapping Stage = "schema_mapping"
)

// AuditEntry records one action the pipeline took
type AuditEntry struct {
	Stage   Stage  `json:"stage"`
	Message string `json:"message"`
}

// AuditTrail is an append-only ordered log. Entries never carry timestamps
// so identical runs produce identical trails.
type AuditTrail struct {
	entries []AuditEntry
}

// Add appends a formatted entry
func (a *AuditTrail) Add(stage Stage, format string, args ...interface{}) {
	a.entries = append(a.entries, AuditEntry{Stage: stage, Message: fmt.Sprintf(format, args...)})
}

// Append adds entries produced elsewhere, preserving their order
func (a *AuditTrail) Append(entries ...AuditEntry) {
	a.entries = append(a.entries, entries...)
}

// Entries returns a copy of the entries
func (a *AuditTrail) Entries() []AuditEntry {
	out := make([]AuditEntry, len(a.entries))
	copy(out, a.entries)
	return out
}

// Messages returns the entry texts in order; this is the wire format
func (a *AuditTrail) Messages() []string {
	out := make([]string, len(a.entries))
	for i, e := range a.entries {
		out[i] = e.Message
	}
	return out
}

func (a *AuditTrail) Len() int { return len(a.entries) }

// Clone copies the trail so a resumed run can extend it independently
func (a *AuditTrail) Clone() *AuditTrail {
	return &AuditTrail{entries: a.Entries()}
}
