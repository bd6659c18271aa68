package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/contactfinder/contactfinder/internal/config"
	"github.com/contactfinder/contactfinder/internal/model"
	"github.com/contactfinder/contactfinder/internal/report"
)

// handleIndex renders the scan form and the recent scan history.
func (s *Server) handleIndex(c *gin.Context) {
	scans, err := s.db.ListRecentScans(c.Request.Context(), 20)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"Scans": scans,
	})
}

// handleScan runs a scan from the web form and redirects to the result page.
func (s *Server) handleScan(c *gin.Context) {
	req, err := scanRequestFromForm(c)
	if err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}
	if s.scan == nil {
		s.renderError(c, http.StatusServiceUnavailable, ErrNoScanFunc)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.timeout)
	defer cancel()

	s.logger.Info("web scan started",
		"person", req.Person,
		"company", req.Company,
		"backend", req.Backend,
		"results", req.Results,
		"restrictUK", req.RestrictUK,
	)

	scanReport, err := s.scan(ctx, req)
	if err != nil {
		s.renderError(c, http.StatusBadGateway, err)
		return
	}

	if err := s.db.SaveScanReport(ctx, scanReport); err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}

	c.Redirect(http.StatusSeeOther, "/scans/"+scanReport.ID)
}

// scanRequestFromForm builds a ScanRequest from the posted scan form.
// The result count is clamped into the accepted range rather than
// rejected, so hand-edited form values still produce a usable scan.
func scanRequestFromForm(c *gin.Context) (ScanRequest, error) {
	req := ScanRequest{
		Person:     strings.TrimSpace(c.PostForm("person")),
		Company:    strings.TrimSpace(c.PostForm("company")),
		RestrictUK: c.PostForm("uk") != "",
	}

	if req.Person == "" {
		return ScanRequest{}, fmt.Errorf("person name is required")
	}

	switch backend := c.PostForm("backend"); backend {
	case "", "serpapi", "github":
		req.Backend = backend
	default:
		return ScanRequest{}, fmt.Errorf("unknown backend %q", backend)
	}

	req.Results = config.DefaultNumResults
	if raw := c.PostForm("results"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return ScanRequest{}, fmt.Errorf("invalid result count %q", raw)
		}
		req.Results = n
	}
	if req.Results < config.MinNumResults {
		req.Results = config.MinNumResults
	}
	if req.Results > config.MaxNumResults {
		req.Results = config.MaxNumResults
	}

	return req, nil
}

// handleScanDetail renders a single scan report.
func (s *Server) handleScanDetail(c *gin.Context) {
	scanReport, ok := s.loadReport(c)
	if !ok {
		return
	}

	summary := scanReport.Summary
	if summary == nil {
		summary = model.NewSummary(scanReport)
	}

	c.HTML(http.StatusOK, "scan.html", gin.H{
		"Report":  scanReport,
		"Summary": summary,
	})
}

// handleExportCSV streams a scan's contacts as a CSV download.
func (s *Server) handleExportCSV(c *gin.Context) {
	scanReport, ok := s.loadReport(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+config.DefaultCSVFile+`"`)
	c.Status(http.StatusOK)

	if _, err := report.NewCSVWriter(c.Writer).Write(scanReport); err != nil {
		// Headers are already sent; all we can do is log.
		s.logger.Error("csv export failed", "scan_id", scanReport.ID, "error", err)
	}
}

// handleListScans returns recent scan metadata as JSON.
func (s *Server) handleListScans(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}

	scans, err := s.db.ListRecentScans(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"scans": scans})
}

// handleGetScan returns a full scan report as JSON.
func (s *Server) handleGetScan(c *gin.Context) {
	scanReport, err := s.db.GetScanReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if scanReport == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "scan not found"})
		return
	}

	c.JSON(http.StatusOK, scanReport)
}

// handleHealth reports service liveness.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// loadReport fetches the report named by the :id parameter.
// Writes the error response itself and returns ok=false when unavailable.
func (s *Server) loadReport(c *gin.Context) (*model.ScanReport, bool) {
	scanReport, err := s.db.GetScanReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return nil, false
	}
	if scanReport == nil {
		s.renderError(c, http.StatusNotFound, fmt.Errorf("scan %q not found", c.Param("id")))
		return nil, false
	}
	return scanReport, true
}

// renderError renders the HTML error page.
func (s *Server) renderError(c *gin.Context, status int, err error) {
	s.logger.Warn("request failed",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", status,
		"error", err,
	)
	c.HTML(status, "error.html", gin.H{
		"Status":  status,
		"Message": err.Error(),
	})
}
