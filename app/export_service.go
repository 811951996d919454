package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"goclean/adapters/excel"
	"goclean/adapters/report"
	"goclean/adapters/sqlite"
	"goclean/domain/cleaning"
	"goclean/domain/core"
	"goclean/domain/table"
	"goclean/ports"
)

// ExportFormat names an export target
type ExportFormat string

const (
	FormatCSV              ExportFormat = "csv"
	FormatExcel            ExportFormat = "excel"
	FormatJSON             ExportFormat = "json"
	FormatPDFReport        ExportFormat = "pdf_report"
	FormatSummaryDashboard ExportFormat = "summary_dashboard"
	FormatAPIEndpoint      ExportFormat = "api_endpoint"
)

// ExportOptions are format independent switches
type ExportOptions struct {
	IncludeFlags bool `json:"include_flags"`
}

// ExportRequest asks for one version in one format
type ExportRequest struct {
	VersionID core.VersionID `json:"version_id"`
	Format    ExportFormat   `json:"format"`
	Filename  string         `json:"filename"`
	Options   ExportOptions  `json:"options"`
}

// Export is a rendered file
type Export struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Links builds the public URLs of a version. An empty base yields
// server-relative paths.
type Links struct {
	Base string
}

func (l Links) DownloadURL(id core.VersionID) string { return l.Base + "/download/" + id.String() }
func (l Links) ReportURL(id core.VersionID) string {
	return l.Base + "/api/versions/" + id.String() + "/report"
}
func (l Links) SummaryURL(id core.VersionID) string {
	return l.Base + "/api/versions/" + id.String() + "/summary"
}
func (l Links) QueryURL() string { return l.Base + "/api/query" }

// ExportService renders stored versions
type ExportService struct {
	store     ports.VersionStore
	dashboard *report.Dashboard
	links     Links
}

// NewExportService creates an export service
func NewExportService(store ports.VersionStore, dashboard *report.Dashboard, links Links) *ExportService {
	return &ExportService{store: store, dashboard: dashboard, links: links}
}

// Export renders a version. pdf_report is recognised but not produced.
func (s *ExportService) Export(ctx context.Context, req ExportRequest) (*Export, error) {
	format := ExportFormat(strings.ToLower(strings.TrimSpace(string(req.Format))))
	if format == "" {
		format = FormatCSV
	}
	v, err := s.store.Get(ctx, req.VersionID)
	if err != nil {
		return nil, err
	}

	opts := excel.WriteOptions{}
	if req.Options.IncludeFlags {
		opts.Flagged = v.FlaggedRowSet()
	}
	stem := strings.TrimSuffix(v.CleanedFilename, ".csv")

	var buf bytes.Buffer
	out := &Export{}
	switch format {
	case FormatCSV:
		if err := excel.WriteCSV(&buf, v.Dataset, opts); err != nil {
			return nil, err
		}
		out.Filename, out.ContentType = v.CleanedFilename, "text/csv"
	case FormatExcel:
		if err := excel.WriteExcel(&buf, v.Dataset, opts); err != nil {
			return nil, err
		}
		out.Filename, out.ContentType = stem+".xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatJSON:
		if err := json.NewEncoder(&buf).Encode(records(v.Dataset, opts)); err != nil {
			return nil, fmt.Errorf("failed to encode records: %w", err)
		}
		out.Filename, out.ContentType = stem+".json", "application/json"
	case FormatSummaryDashboard:
		buf.Write(s.dashboard.Render(v))
		out.Filename, out.ContentType = report.Filename(v), "text/html; charset=utf-8"
	case FormatAPIEndpoint:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(s.descriptor(v)); err != nil {
			return nil, fmt.Errorf("failed to encode descriptor: %w", err)
		}
		out.Filename, out.ContentType = stem+"_api.json", "application/json"
	case FormatPDFReport:
		return nil, fmt.Errorf("%w: pdf_report export is not available; use summary_dashboard", core.ErrUnsupported)
	default:
		return nil, fmt.Errorf("%w: export format %q", core.ErrUnsupported, req.Format)
	}

	if name := safeFilename(req.Filename); name != "" {
		out.Filename = name
	}
	out.Data = buf.Bytes()
	return out, nil
}

// records renders rows as JSON objects with nulls preserved
func records(ds *table.Dataset, opts excel.WriteOptions) []map[string]interface{} {
	out := make([]map[string]interface{}, ds.NumRows())
	for i := range out {
		row := ds.RowMap(i)
		if opts.Flagged != nil {
			row[excel.FlagColumn] = opts.Flagged[ds.RowID(i)]
		}
		out[i] = row
	}
	return out
}

type endpointColumn struct {
	Name string             `json:"name"`
	Type table.SemanticType `json:"type"`
}

type endpointDescriptor struct {
	VersionID   core.VersionID   `json:"version_id"`
	Table       string           `json:"table"`
	RowCount    int              `json:"row_count"`
	Columns     []endpointColumn `json:"columns"`
	QueryURL    string           `json:"query_url"`
	DownloadURL string           `json:"download_url"`
	SummaryURL  string           `json:"summary_url"`
	ReportURL   string           `json:"report_url"`
	Example     string           `json:"example_query"`
}

// descriptor tells API clients how to reach a version
func (s *ExportService) descriptor(v *cleaning.Version) endpointDescriptor {
	d := endpointDescriptor{
		VersionID:   v.ID,
		Table:       sqlite.TableName,
		RowCount:    v.Dataset.NumRows(),
		QueryURL:    s.links.QueryURL(),
		DownloadURL: s.links.DownloadURL(v.ID),
		SummaryURL:  s.links.SummaryURL(v.ID),
		ReportURL:   s.links.ReportURL(v.ID),
		Example:     "SELECT * FROM " + sqlite.TableName + " LIMIT 10",
	}
	for _, col := range v.Dataset.Columns() {
		d.Columns = append(d.Columns, endpointColumn{Name: col.Name(), Type: col.Type()})
	}
	return d
}

func safeFilename(name string) string {
	base := filepath.Base(strings.TrimSpace(name))
	if base == "." || base == "/" || base == ".." {
		return ""
	}
	return base
}
