package profiling

import "goclean/domain/table"

// DataSummary describes a stored dataset for the summary endpoint and the
// dashboard report
type DataSummary struct {
	TotalRows          int                    `json:"total_rows"`
	TotalColumns       int                    `json:"total_columns"`
	NumericColumns     int                    `json:"numeric_columns"`
	CategoricalColumns int                    `json:"categorical_columns"`
	MissingValues      int                    `json:"missing_values"`
	DuplicateRows      int                    `json:"duplicate_rows"`
	MemoryUsage        int64                  `json:"memory_usage"`
	ColumnStats        map[string]ColumnStats `json:"column_stats"`
	// Order lists column names in dataset order; ColumnStats is a map on the wire
	Order []string `json:"-"`
}

// Summarize builds the data summary. Every non-numeric column counts as
// categorical, matching how string columns are reported.
func (da *DistributionAnalyzer) Summarize(ds *table.Dataset) DataSummary {
	out := DataSummary{
		TotalRows:     ds.NumRows(),
		TotalColumns:  ds.NumColumns(),
		MissingValues: ds.TotalMissing(),
		DuplicateRows: ds.DuplicateRows(),
		MemoryUsage:   ds.MemoryUsage(),
		ColumnStats:   make(map[string]ColumnStats, ds.NumColumns()),
		Order:         ds.ColumnNames(),
	}
	for _, col := range ds.Columns() {
		if col.IsNumeric() {
			out.NumericColumns++
		} else {
			out.CategoricalColumns++
		}
		out.ColumnStats[col.Name()] = da.AnalyzeColumn(col)
	}
	return out
}
