package ports

import (
	"context"

	"goclean/domain/core"
)

// QueryResult is a fully materialised read-only query result
type QueryResult struct {
	Columns  []string                 `json:"columns"`
	Data     []map[string]interface{} `json:"data"`
	RowCount int                      `json:"row_count"`
}

// QueryEngine runs read-only queries against one stored version
type QueryEngine interface {
	Execute(ctx context.Context, id core.VersionID, query string) (*QueryResult, error)
}
