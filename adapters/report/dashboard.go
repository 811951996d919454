package report

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"goclean/domain/cleaning"
	"goclean/domain/table"
	"goclean/internal/profiling"
)

// dashboardCSS is inlined so the exported page is a single file
const dashboardCSS = `body{font-family:sans-serif;max-width:960px;margin:2em auto;color:#222}
table{border-collapse:collapse;margin:1em 0}th,td{border:1px solid #ccc;padding:4px 8px;text-align:left}
th{background:#f4f4f4}code{background:#f4f4f4;padding:0 3px}`

// Dashboard renders the summary dashboard of a cleaned version
type Dashboard struct {
	analyzer *profiling.DistributionAnalyzer
}

// NewDashboard creates a dashboard renderer
func NewDashboard() *Dashboard {
	return &Dashboard{analyzer: profiling.NewDistributionAnalyzer()}
}

// Filename is the download name of a version's dashboard
func Filename(v *cleaning.Version) string {
	return strings.TrimSuffix(v.CleanedFilename, ".csv") + "_report.html"
}

// Markdown renders the dashboard source
func (d *Dashboard) Markdown(v *cleaning.Version) []byte {
	var b bytes.Buffer
	data := d.analyzer.Summarize(v.Dataset)

	fmt.Fprintf(&b, "# Cleaning report: %s\n\n", escape(v.OriginalFilename))
	fmt.Fprintf(&b, "Version `%s`, created %s. Cleaned file: `%s`.\n\n", v.ID, v.CreatedAt, v.CleanedFilename)

	b.WriteString("## Summary\n\n| Metric | Value |\n|---|---|\n")
	s := v.Summary
	for _, row := range [][2]string{
		{"Rows (original)", strconv.Itoa(s.RowsOriginal)},
		{"Rows (cleaned)", strconv.Itoa(s.RowsCleaned)},
		{"Columns", strconv.Itoa(s.Columns)},
		{"Missing values before", strconv.Itoa(s.MissingValuesBefore)},
		{"Missing values after", strconv.Itoa(s.MissingValuesAfter)},
		{"Outliers detected", strconv.Itoa(s.OutliersDetected)},
		{"Rule matches", strconv.Itoa(s.RulesApplied)},
		{"Rows flagged", strconv.Itoa(s.RowsFlagged)},
		{"Duplicate rows", strconv.Itoa(data.DuplicateRows)},
	} {
		fmt.Fprintf(&b, "| %s | %s |\n", row[0], row[1])
	}

	b.WriteString("\n## Columns\n\n| Column | Type | Missing | Mean | Median | Std | Min | Max | Unique | Most frequent |\n")
	b.WriteString("|---|---|---|---|---|---|---|---|---|---|\n")
	for _, name := range data.Order {
		st := data.ColumnStats[name]
		fmt.Fprintf(&b, "| %s | %s | %d | %s | %s | %s | %s | %s | %s | %s |\n",
			escape(name), st.Type, st.MissingCount,
			number(st.Mean), number(st.Median), number(st.Std), number(st.Min), number(st.Max),
			count(st.UniqueCount), value(st.MostFrequent))
	}

	b.WriteString("\n## Audit trail\n\n")
	if len(v.AuditTrail) == 0 {
		b.WriteString("No changes were made.\n")
	}
	for i, msg := range v.AuditTrail {
		fmt.Fprintf(&b, "%d. %s\n", i+1, escape(msg))
	}
	return b.Bytes()
}

// Render returns the dashboard as a complete HTML page
func (d *Dashboard) Render(v *cleaning.Version) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{
		Title: "Cleaning report: " + v.OriginalFilename,
		Flags: html.HrefTargetBlank | html.CompletePage,
		Head:  []byte("<style>" + dashboardCSS + "</style>\n"),
	})
	return markdown.ToHTML(d.Markdown(v), p, renderer)
}

// escape keeps user text from being read as table or inline markup
func escape(s string) string {
	r := strings.NewReplacer(`|`, `\|`, `*`, `\*`, `_`, `\_`, "`", "\\`", "<", "&lt;", ">", "&gt;", "\n", " ")
	return r.Replace(s)
}

func number(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'g', 6, 64)
}

func count(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func value(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case float64:
		return table.FormatNumber(x)
	case string:
		return escape(x)
	}
	return escape(fmt.Sprint(v))
}
