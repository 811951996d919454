package api

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"goclean/adapters/excel"
	"goclean/app"
	"goclean/domain/cleaning"
	"goclean/domain/core"
	"goclean/domain/table"
	apperrors "goclean/internal/errors"

	"github.com/gin-gonic/gin"
)

// processingResult is the wire form of a completed version
type processingResult struct {
	VersionID        core.VersionID             `json:"version_id"`
	OriginalFilename string                     `json:"original_filename"`
	CleanedFilename  string                     `json:"cleaned_filename"`
	CreatedAt        core.Timestamp             `json:"created_at"`
	Summary          cleaning.Summary           `json:"summary"`
	AuditTrail       []string                   `json:"audit_trail"`
	Flags            []cleaning.FlaggedRow      `json:"flags"`
	Fingerprint      core.Fingerprint           `json:"fingerprint"`
	DownloadURL      string                     `json:"download_url"`
	ReportURL        string                     `json:"report_url"`
	Config           *cleaning.ProcessingConfig `json:"config,omitempty"`
}

func (s *Server) result(v *cleaning.Version) processingResult {
	flags := v.Flags
	if flags == nil {
		flags = []cleaning.FlaggedRow{}
	}
	return processingResult{
		VersionID:        v.ID,
		OriginalFilename: v.OriginalFilename,
		CleanedFilename:  v.CleanedFilename,
		CreatedAt:        v.CreatedAt,
		Summary:          v.Summary,
		AuditTrail:       v.AuditTrail,
		Flags:            flags,
		Fingerprint:      v.Fingerprint,
		DownloadURL:      s.deps.Links.DownloadURL(v.ID),
		ReportURL:        s.deps.Links.ReportURL(v.ID),
		Config:           v.Config,
	}
}

// writeError maps domain errors to a status and a JSON body
func (s *Server) writeError(c *gin.Context, err error) {
	appErr := apperrors.FromDomain(err)
	status := apperrors.HTTPStatus(appErr.Code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	} else {
		s.logger.Debug("%s %s rejected: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{
		"success": false,
		"error":   appErr.Error(),
		"code":    appErr.Code,
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	versions, err := s.deps.Versions.List(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "versions": len(versions)})
}

// loadUpload resolves either a multipart "file" or a "file_ref" of an
// earlier upload, storing new uploads so they can be referenced again
func (s *Server) loadUpload(c *gin.Context) (*table.Dataset, string, core.UploadID, error) {
	ctx := c.Request.Context()
	limit := s.deps.Config.Storage.MaxUploadBytes()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+uploadSlack)

	var ref core.UploadID
	header, err := c.FormFile("file")
	switch {
	case err == nil:
		if !excel.IsSupported(header.Filename) {
			return nil, "", "", fmt.Errorf("%w: %q; expected one of %s", core.ErrUnsupported,
				filepath.Ext(header.Filename), strings.Join(excel.SupportedExtensions, ", "))
		}
		if header.Size > limit {
			return nil, "", "", core.NewInputError(fmt.Sprintf("file exceeds %d MB limit", s.deps.Config.Storage.MaxUploadMB))
		}
		file, err := header.Open()
		if err != nil {
			return nil, "", "", core.NewInputError(fmt.Sprintf("could not read upload: %v", err))
		}
		defer file.Close()
		if ref, err = s.deps.Uploads.Store(ctx, file, header.Filename); err != nil {
			return nil, "", "", err
		}
	case isTooLarge(err):
		return nil, "", "", core.NewInputError(fmt.Sprintf("file exceeds %d MB limit", s.deps.Config.Storage.MaxUploadMB))
	default:
		raw := c.PostForm("file_ref")
		if raw == "" {
			return nil, "", "", core.NewInputError("a file upload or file_ref is required")
		}
		if ref, err = core.ParseUploadID(raw); err != nil {
			return nil, "", "", err
		}
	}

	src, name, err := s.deps.Uploads.Open(ctx, ref)
	if err != nil {
		return nil, "", "", err
	}
	defer src.Close()
	if override := strings.TrimSpace(c.PostForm("filename")); override != "" {
		name = filepath.Base(override)
	}
	ds, err := s.deps.Reader.Read(ctx, src, name)
	if err != nil {
		return nil, "", "", err
	}
	return ds, name, ref, nil
}

func isTooLarge(err error) bool {
	return err != nil && strings.Contains(err.Error(), "request body too large")
}

func (s *Server) handlePreview(c *gin.Context) {
	ds, _, ref, err := s.loadUpload(c)
	if err != nil {
		s.writeError(c, err)
		return
	}
	preview, err := s.deps.Preview.Preview(c.Request.Context(), ds)
	if err != nil {
		s.writeError(c, err)
		return
	}
	preview.FileRef = ref
	c.JSON(http.StatusOK, preview)
}

func (s *Server) handleProcess(c *gin.Context) {
	ds, name, ref, err := s.loadUpload(c)
	if err != nil {
		s.writeError(c, err)
		return
	}
	cfg, err := cleaning.ParseConfig([]byte(c.PostForm("config")))
	if err != nil {
		s.writeError(c, err)
		return
	}
	decisions, err := cleaning.ParseDecisions([]byte(c.PostForm("column_decisions")))
	if err != nil {
		s.writeError(c, err)
		return
	}

	run, err := s.deps.Pipeline.Run(c.Request.Context(), app.RunRequest{
		Dataset:   ds,
		Filename:  name,
		Config:    cfg,
		Decisions: decisions,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	if run.RequiresDecisions() {
		c.JSON(http.StatusOK, gin.H{
			"requires_decisions": true,
			"mixed_columns":      run.Candidates,
			"file_ref":           ref,
		})
		return
	}
	c.JSON(http.StatusOK, s.result(run.Version))
}

func (s *Server) handleListVersions(c *gin.Context) {
	versions, err := s.deps.Version.List(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	out := make([]processingResult, len(versions))
	for i, v := range versions {
		out[i] = s.result(v)
		out[i].Config = nil
	}
	c.JSON(http.StatusOK, gin.H{"versions": out, "count": len(out)})
}

func (s *Server) versionID(c *gin.Context, param string) (core.VersionID, bool) {
	id, err := core.ParseVersionID(c.Param(param))
	if err != nil {
		s.writeError(c, err)
		return "", false
	}
	return id, true
}

func (s *Server) handleGetVersion(c *gin.Context) {
	id, ok := s.versionID(c, "id")
	if !ok {
		return
	}
	v, err := s.deps.Version.Get(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.result(v))
}

func (s *Server) handleSummary(c *gin.Context) {
	id, ok := s.versionID(c, "id")
	if !ok {
		return
	}
	summary, err := s.deps.Version.Summary(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

type queryRequest struct {
	VersionID string `json:"version_id"`
	Query     string `json:"query"`
}

func (s *Server) handleQuery(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, core.NewInputError(fmt.Sprintf("invalid query request: %v", err)))
		return
	}
	id, err := core.ParseVersionID(req.VersionID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	res, err := s.deps.Version.Query(c.Request.Context(), id, req.Query)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"data":      res.Data,
		"columns":   res.Columns,
		"row_count": res.RowCount,
	})
}

func (s *Server) handleExport(c *gin.Context) {
	var req app.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, core.NewInputError(fmt.Sprintf("invalid export request: %v", err)))
		return
	}
	if _, err := core.ParseVersionID(req.VersionID.String()); err != nil {
		s.writeError(c, err)
		return
	}
	s.sendExport(c, req, true)
}

func (s *Server) handleDownload(c *gin.Context) {
	id, ok := s.versionID(c, "version_id")
	if !ok {
		return
	}
	s.sendExport(c, app.ExportRequest{VersionID: id, Format: app.FormatCSV}, true)
}

func (s *Server) handleReport(c *gin.Context) {
	id, ok := s.versionID(c, "id")
	if !ok {
		return
	}
	s.sendExport(c, app.ExportRequest{VersionID: id, Format: app.FormatSummaryDashboard}, false)
}

func (s *Server) sendExport(c *gin.Context, req app.ExportRequest, attachment bool) {
	out, err := s.deps.Export.Export(c.Request.Context(), req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	disposition := "inline"
	if attachment {
		disposition = "attachment"
	}
	c.Header("Content-Disposition", fmt.Sprintf("%s; filename=\"%s\"", disposition, out.Filename))
	c.Data(http.StatusOK, out.ContentType, out.Data)
}
