package api

import (
	"net/http"

	"goclean/internal"
	"goclean/internal/container"

	"github.com/gin-gonic/gin"
)

// uploadSlack covers multipart framing and form fields around the file
const uploadSlack = 1 << 20

// Server exposes the cleaning engine over JSON HTTP
type Server struct {
	router *gin.Engine
	deps   *container.Container
	logger *internal.Logger
}

// NewServer creates the server and registers all routes
func NewServer(deps *container.Container) *Server {
	gin.SetMode(deps.Config.Server.GinMode)

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.MaxMultipartMemory = 8 << 20

	s := &Server{
		router: router,
		deps:   deps,
		logger: internal.NewComponentLogger("API"),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/download/:version_id", s.handleDownload)

	api := s.router.Group("/api")
	{
		api.POST("/preview", s.handlePreview)
		api.POST("/process", s.handleProcess)
		api.POST("/query", s.handleQuery)
		api.POST("/export", s.handleExport)

		api.GET("/versions", s.handleListVersions)
		api.GET("/versions/:id", s.handleGetVersion)
		api.GET("/versions/:id/summary", s.handleSummary)
		api.GET("/versions/:id/report", s.handleReport)
	}
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on addr
func (s *Server) Run(addr string) error {
	s.logger.Info("Listening on %s", addr)
	return s.router.Run(addr)
}
