package cleaning

import (
	"path/filepath"
	"strings"

	"goclean/domain/core"
	"goclean/domain/table"
)

// Summary holds the counts reported for a completed run
type Summary struct {
	RowsOriginal          int            `json:"rows_original"`
	RowsCleaned           int            `json:"rows_cleaned"`
	Columns               int            `json:"columns"`
	MissingValuesBefore   int            `json:"missing_values_before"`
	MissingValuesAfter    int            `json:"missing_values_after"`
	MissingByColumnBefore map[string]int `json:"missing_by_column_before"`
	MissingByColumnAfter  map[string]int `json:"missing_by_column_after"`
	OutliersDetected      int            `json:"outliers_detected"`
	RulesApplied          int            `json:"rules_applied"`
	RowsFlagged           int            `json:"rows_flagged"`
}

// FlaggedRow marks a retained row, keyed by original row index
type FlaggedRow struct {
	Row     int      `json:"row"`
	Reasons []string `json:"reasons"`
}

// Flags is the per-row side channel for flag actions
type Flags struct {
	reasons map[int][]string
}

func NewFlags() *Flags { return &Flags{reasons: make(map[int][]string)} }

// Mark records a reason against an original row index
func (f *Flags) Mark(row int, reason string) {
	for _, r := range f.reasons[row] {
		if r == reason {
			return
		}
	}
	f.reasons[row] = append(f.reasons[row], reason)
}

// Has reports whether a row carries any flag
func (f *Flags) Has(row int) bool { return len(f.reasons[row]) > 0 }

// Reasons returns a copy of the reasons recorded for a row
func (f *Flags) Reasons(row int) []string {
	return append([]string(nil), f.reasons[row]...)
}

// Retain returns the flags for rows still present in ds, ordered by
// position in the dataset
func (f *Flags) Retain(ds *table.Dataset) []FlaggedRow {
	var out []FlaggedRow
	for i := 0; i < ds.NumRows(); i++ {
		id := ds.RowID(i)
		if f.Has(id) {
			out = append(out, FlaggedRow{Row: id, Reasons: f.Reasons(id)})
		}
	}
	return out
}

// Version is one immutable, addressable result of a completed run
type Version struct {
	ID               core.VersionID    `json:"version_id"`
	OriginalFilename string            `json:"original_filename"`
	CleanedFilename  string            `json:"cleaned_filename"`
	CreatedAt        core.Timestamp    `json:"created_at"`
	Config           *ProcessingConfig `json:"config"`
	Decisions        Decisions         `json:"column_decisions,omitempty"`
	Dataset          *table.Dataset    `json:"-"`
	Summary          Summary           `json:"summary"`
	AuditTrail       []string          `json:"audit_trail"`
	Flags            []FlaggedRow      `json:"flags,omitempty"`
	Fingerprint      core.Fingerprint  `json:"fingerprint"`
}

// FlaggedRowSet returns the flagged original row indices
func (v *Version) FlaggedRowSet() map[int]bool {
	out := make(map[int]bool, len(v.Flags))
	for _, f := range v.Flags {
		out[f.Row] = true
	}
	return out
}

// CleanedFilename derives the export name for a cleaned upload
func CleanedFilename(original string) string {
	base := filepath.Base(strings.TrimSpace(original))
	if base == "." || base == "/" || base == "" {
		base = "dataset"
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return "cleaned_" + base + ".csv"
}

// StageResult is the output of one cleaning stage
type StageResult struct {
	Dataset *table.Dataset
	Entries []AuditEntry
	// Affected is the count reported in the summary: distinct rows for the
	// outlier stage, matched rows summed over rules for the rule stage
	Affected int
}
