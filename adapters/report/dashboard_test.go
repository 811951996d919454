package report

import (
	"strings"
	"testing"

	"goclean/domain/cleaning"
	"goclean/domain/core"
	"goclean/domain/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func version(t *testing.T) *cleaning.Version {
	t.Helper()
	ds, err := table.New([]*table.Column{
		table.NewColumn("age", table.TypeNumeric, []table.Cell{table.Number(30), table.Number(40)}),
		table.NewColumn("city|name", table.TypeCategorical, []table.Cell{table.Str("Paris"), table.Str("Paris")}),
	})
	require.NoError(t, err)
	return &cleaning.Version{
		ID:               core.VersionID("0190-test"),
		OriginalFilename: "people.csv",
		CleanedFilename:  cleaning.CleanedFilename("people.csv"),
		CreatedAt:        core.Now(),
		Dataset:          ds,
		Summary:          cleaning.Summary{RowsOriginal: 3, RowsCleaned: 2, Columns: 2, RulesApplied: 1},
		AuditTrail:       []string{"Rule 1 removed 1 rows"},
	}
}

func TestMarkdown(t *testing.T) {
	md := string(NewDashboard().Markdown(version(t)))

	assert.Contains(t, md, "# Cleaning report: people.csv")
	assert.Contains(t, md, "| Rows (cleaned) | 2 |")
	assert.Contains(t, md, "| age | numeric | 0 | 35 | 35 |")
	assert.Contains(t, md, `city\|name`, "pipes in names must not split table cells")
	assert.Contains(t, md, "1. Rule 1 removed 1 rows")
}

func TestRenderCompletePage(t *testing.T) {
	page := string(NewDashboard().Render(version(t)))

	assert.True(t, strings.Contains(page, "<html"), "expected a complete page")
	assert.Contains(t, page, "<title>")
	assert.Contains(t, page, "<table>")
	assert.Contains(t, page, "<style>")
	assert.Contains(t, page, "Rule 1 removed 1 rows")
	assert.Equal(t, "cleaned_people_report.html", Filename(version(t)))
}
