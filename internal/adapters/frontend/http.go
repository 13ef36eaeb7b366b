package frontend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mikey/phish-detector/internal/core"
	"github.com/mikey/phish-detector/internal/report"
)

const defaultSource = "API submission"

// HTTPFrontend serves the detection service over HTTP
type HTTPFrontend struct {
	service      *core.DetectionService
	registry     *core.Registry
	logger       *zap.Logger
	listenAddr   string
	maxBodyBytes int64
	server       *http.Server
	listener     net.Listener
}

// NewHTTPFrontend creates a new HTTP frontend
func NewHTTPFrontend(
	service *core.DetectionService,
	registry *core.Registry,
	logger *zap.Logger,
	listenAddr string,
	maxBodyBytes int64,
) *HTTPFrontend {
	if maxBodyBytes <= 0 {
		maxBodyBytes = 10 << 20
	}
	gin.SetMode(gin.ReleaseMode)
	return &HTTPFrontend{
		service:      service,
		registry:     registry,
		logger:       logger,
		listenAddr:   listenAddr,
		maxBodyBytes: maxBodyBytes,
	}
}

// Handler returns the routes of the frontend
func (f *HTTPFrontend) Handler() http.Handler {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery(), f.requestLogger())

	v1 := r.Group("/v1")
	{
		v1.POST("/analyze", f.handleAnalyze)
		v1.GET("/urls", f.handleListURLs)
		v1.POST("/urls", f.handleAddURL)
		v1.DELETE("/urls", f.handleRemoveURL)
		v1.GET("/urls/export", f.handleExportURLs)
		v1.GET("/history", f.handleHistory)
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok\n")
	})
	return r
}

func (f *HTTPFrontend) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		f.logger.Debug("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)))
	}
}

// Start starts listening in the background
func (f *HTTPFrontend) Start() error {
	listener, err := net.Listen("tcp", f.listenAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", f.listenAddr, err)
	}
	f.listener = listener
	f.server = &http.Server{
		Handler:           f.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	f.logger.Info("Starting HTTP frontend", zap.String("address", listener.Addr().String()))

	go func() {
		if err := f.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			f.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop shuts the server down, waiting for requests in flight
func (f *HTTPFrontend) Stop() error {
	if f.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	f.logger.Info("Stopping HTTP frontend")
	return f.server.Shutdown(ctx)
}

// Addr returns the address the server listens on once started
func (f *HTTPFrontend) Addr() string {
	if f.listener == nil {
		return f.listenAddr
	}
	return f.listener.Addr().String()
}

// Analyze implements ports.Frontend
func (f *HTTPFrontend) Analyze(ctx context.Context, raw []byte, source string) (*core.AnalysisResult, error) {
	return f.service.Analyze(ctx, raw, source)
}

func (f *HTTPFrontend) handleAnalyze(c *gin.Context) {
	raw, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, f.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "email exceeds size limit"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	source := c.DefaultQuery("source", defaultSource)

	result, err := f.Analyze(c.Request.Context(), raw, source)
	switch {
	case errors.Is(err, core.ErrEmptyInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		f.logger.Error("Analysis failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "analysis failed"})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (f *HTTPFrontend) handleListURLs(c *gin.Context) {
	records, err := f.registry.ListURLs(c.Request.Context())
	if err != nil {
		f.logger.Error("Failed to list URLs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list urls"})
		return
	}
	c.JSON(http.StatusOK, records)
}

type addURLRequest struct {
	URL       string `json:"url"`
	Source    string `json:"source"`
	RiskLevel string `json:"risk_level"`
}

func (f *HTTPFrontend) handleAddURL(c *gin.Context) {
	var req addURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	record, err := f.registry.AddURL(c.Request.Context(), req.URL, req.Source, req.RiskLevel)
	switch {
	case errors.Is(err, core.ErrInvalidURL), errors.Is(err, core.ErrInvalidRiskLevel):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		f.logger.Error("Failed to add URL", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add url"})
		return
	}

	c.JSON(http.StatusCreated, record)
}

func (f *HTTPFrontend) handleRemoveURL(c *gin.Context) {
	url := c.Query("url")
	if url == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url parameter is required"})
		return
	}

	err := f.registry.RemoveURL(c.Request.Context(), url)
	switch {
	case errors.Is(err, core.ErrURLNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "url not found"})
		return
	case err != nil:
		f.logger.Error("Failed to remove URL", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove url"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (f *HTTPFrontend) handleExportURLs(c *gin.Context) {
	format := report.FormatCSV
	if q := c.Query("format"); q != "" {
		parsed, err := report.ParseFormat(q)
		if err != nil || (parsed != report.FormatCSV && parsed != report.FormatJSON) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "format must be csv or json"})
			return
		}
		format = parsed
	}

	records, err := f.registry.ListURLs(c.Request.Context())
	if err != nil {
		f.logger.Error("Failed to export URLs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export urls"})
		return
	}

	if format == report.FormatCSV {
		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", `attachment; filename="suspicious_urls.csv"`)
	} else {
		c.Header("Content-Type", "application/json")
		c.Header("Content-Disposition", `attachment; filename="suspicious_urls.json"`)
	}
	c.Status(http.StatusOK)
	if err := report.ExportURLs(c.Writer, records, format); err != nil {
		f.logger.Error("Failed to write URL export", zap.Error(err))
	}
}

func (f *HTTPFrontend) handleHistory(c *gin.Context) {
	limit := core.HistoryLimit
	if q := c.Query("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	entries, err := f.registry.RecentHistory(c.Request.Context(), limit)
	if err != nil {
		f.logger.Error("Failed to read history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read history"})
		return
	}
	c.JSON(http.StatusOK, entries)
}
