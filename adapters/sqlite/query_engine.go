package sqlite

import (
	"context"
	"fmt"
	"strings"

	"goclean/domain/core"
	"goclean/domain/table"
	"goclean/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// TableName is the only table a query can see
const TableName = "data"

// forbidden are keywords that are rejected anywhere outside literals
var forbidden = map[string]bool{
	"insert": true, "update": true, "delete": true, "drop": true,
	"create": true, "alter": true, "attach": true, "detach": true,
	"pragma": true, "vacuum": true, "reindex": true, "analyze": true,
	"truncate": true, "begin": true, "commit": true, "rollback": true,
	"savepoint": true, "release": true,
}

// QueryEngine runs read-only SQL against one stored version. Each query
// gets a private in-memory SQLite database holding only that version.
type QueryEngine struct {
	store ports.VersionStore
}

// NewQueryEngine creates a query engine over a version store
func NewQueryEngine(store ports.VersionStore) *QueryEngine {
	return &QueryEngine{store: store}
}

// Execute runs one SELECT or WITH statement against the version's table.
// Rows are fully read before returning; any failure returns no rows.
func (e *QueryEngine) Execute(ctx context.Context, id core.VersionID, query string) (*ports.QueryResult, error) {
	v, err := e.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	stmt, err := Validate(query)
	if err != nil {
		return nil, err
	}

	db, err := load(ctx, v.Dataset)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	prepared, err := db.PreparexContext(ctx, stmt)
	if err != nil {
		return nil, core.NewQuerySyntaxError(err)
	}
	defer prepared.Close()

	rows, err := prepared.QueryxContext(ctx)
	if err != nil {
		return nil, core.NewQuerySyntaxError(err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, core.NewQuerySyntaxError(err)
	}
	result := &ports.QueryResult{Columns: columns, Data: []map[string]interface{}{}}
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, core.NewQuerySyntaxError(err)
		}
		record := make(map[string]interface{}, len(columns))
		for i, name := range columns {
			if b, ok := values[i].([]byte); ok {
				record[name] = string(b)
			} else {
				record[name] = values[i]
			}
		}
		result.Data = append(result.Data, record)
	}
	if err := rows.Err(); err != nil {
		return nil, core.NewQuerySyntaxError(err)
	}
	result.RowCount = len(result.Data)
	return result, nil
}

// Validate checks that query is a single read-only statement and returns
// it without trailing semicolons
func Validate(query string) (string, error) {
	stmt := strings.TrimSpace(query)
	for strings.HasSuffix(stmt, ";") {
		stmt = strings.TrimSpace(strings.TrimSuffix(stmt, ";"))
	}
	if stmt == "" {
		return "", core.NewQuerySyntaxError(fmt.Errorf("empty query"))
	}

	words, semicolons, err := scan(stmt)
	if err != nil {
		return "", core.NewQuerySyntaxError(err)
	}
	for _, w := range words {
		if forbidden[w] {
			return "", core.NewQueryForbiddenError(fmt.Sprintf("%s statements are not allowed", strings.ToUpper(w)))
		}
	}
	if semicolons > 0 {
		return "", core.NewQuerySyntaxError(fmt.Errorf("only one statement is allowed"))
	}
	if len(words) == 0 || (words[0] != "select" && words[0] != "with") {
		return "", core.NewQuerySyntaxError(fmt.Errorf("query must start with SELECT or WITH"))
	}
	return stmt, nil
}

// scan returns the lowercased bare words of a statement and the number of
// statement separators, skipping literals, quoted identifiers and comments
func scan(s string) ([]string, int, error) {
	var words []string
	semicolons := 0
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == '\'' || c == '"' || c == '`':
			end := closing(s, i+1, c)
			if end < 0 {
				return nil, 0, fmt.Errorf("unterminated quote")
			}
			i = end + 1
		case c == '[':
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return nil, 0, fmt.Errorf("unterminated identifier")
			}
			i += end + 1
		case c == '-' && i+1 < len(s) && s[i+1] == '-':
			end := strings.IndexByte(s[i:], '\n')
			if end < 0 {
				i = len(s)
			} else {
				i += end + 1
			}
		case c == '/' && i+1 < len(s) && s[i+1] == '*':
			end := strings.Index(s[i+2:], "*/")
			if end < 0 {
				return nil, 0, fmt.Errorf("unterminated comment")
			}
			i += end + 4
		case c == ';':
			semicolons++
			i++
		case isWordByte(c):
			j := i
			for j < len(s) && (isWordByte(s[j]) || (s[j] >= '0' && s[j] <= '9')) {
				j++
			}
			words = append(words, strings.ToLower(s[i:j]))
			i = j
		default:
			i++
		}
	}
	return words, semicolons, nil
}

// closing finds the quote ending a literal; doubled quotes are escapes
func closing(s string, from int, q byte) int {
	for i := from; i < len(s); i++ {
		if s[i] == q {
			if i+1 < len(s) && s[i+1] == q {
				i++
				continue
			}
			return i
		}
	}
	return -1
}

func isWordByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// load copies a dataset into a fresh in-memory database and locks it
// read-only
func load(ctx context.Context, ds *table.Dataset) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open query database: %w", err)
	}
	db.SetMaxOpenConns(1)

	columns := ds.Columns()
	defs := make([]string, len(columns))
	names := make([]string, len(columns))
	marks := make([]string, len(columns))
	for i, col := range columns {
		sqlType := "TEXT"
		if col.IsNumeric() {
			sqlType = "REAL"
		}
		names[i] = quoteIdent(col.Name())
		defs[i] = names[i] + " " + sqlType
		marks[i] = "?"
	}

	ddl := fmt.Sprintf("CREATE TABLE %s (%s)", TableName, strings.Join(defs, ", "))
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create query table: %w", err)
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to begin load: %w", err)
	}
	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", TableName, strings.Join(names, ", "), strings.Join(marks, ", "))
	stmt, err := tx.PreparexContext(ctx, insert)
	if err != nil {
		tx.Rollback()
		db.Close()
		return nil, fmt.Errorf("failed to prepare load: %w", err)
	}
	args := make([]interface{}, len(columns))
	for i := 0; i < ds.NumRows(); i++ {
		for j, cell := range ds.Row(i) {
			args[j] = cell.Interface()
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			stmt.Close()
			tx.Rollback()
			db.Close()
			return nil, fmt.Errorf("failed to load row %d: %w", i+1, err)
		}
	}
	stmt.Close()
	if err := tx.Commit(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to commit load: %w", err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA query_only = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to lock query database: %w", err)
	}
	return db, nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
