package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sonpt-afk/product-research-agent/internal/model"
	"github.com/sonpt-afk/product-research-agent/internal/pipeline"
)

type ReportStore interface {
	GetReports(limit, offset int) ([]model.ReportRun, error)
	GetReportTotal() (int, error)
}

type ReportRunner interface {
	Run(ctx context.Context) (*model.ReportRun, error)
}

type ReportHandler struct {
	repository ReportStore
	runner     ReportRunner
}

// NewReportHandler accepts a nil runner; report generation then answers 503.
func NewReportHandler(repository ReportStore, runner ReportRunner) *ReportHandler {
	return &ReportHandler{repository: repository, runner: runner}
}

func toReportResponse(run model.ReportRun) ReportResponse {
	products := make([]ProductResponse, len(run.Products))
	for i, p := range run.Products {
		topics := p.Topics
		if topics == nil {
			topics = []string{}
		}
		products[i] = ProductResponse{
			Name:        p.Name,
			Tagline:     p.Tagline,
			Description: p.Description,
			URL:         p.URL,
			Website:     p.Website,
			VotesCount:  p.VotesCount,
			Topics:      topics,
		}
	}

	return ReportResponse{
		ID:           run.ID,
		Path:         run.Path,
		ProductCount: run.ProductCount,
		Products:     products,
		CreatedAt:    run.CreatedAt.Format(time.RFC3339),
	}
}

func (h *ReportHandler) GetReports(c *gin.Context) {
	limit := getQueryLimit(c)
	offset := getQueryOffset(c)

	runs, err := h.repository.GetReports(limit, offset)
	if err != nil {
		slog.Error("error fetching reports", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	total, err := h.repository.GetReportTotal()
	if err != nil {
		slog.Error("error fetching report total", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	res := ReportsResponse{
		Reports: make([]ReportResponse, 0, len(runs)),
		Total:   total,
		Limit:   limit,
		Offset:  offset,
	}
	for _, run := range runs {
		res.Reports = append(res.Reports, toReportResponse(run))
	}

	c.JSON(http.StatusOK, res)
}

func (h *ReportHandler) CreateReport(c *gin.Context) {
	if h.runner == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Report generation is not configured"})
		return
	}

	run, err := h.runner.Run(c.Request.Context())
	if errors.Is(err, pipeline.ErrFetchFailed) {
		slog.Warn("report generation skipped", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	if err != nil && run == nil {
		slog.Error("error generating report", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Report generation failed"})
		return
	}
	if err != nil {
		slog.Error("report generated but not saved", "report_id", run.ID, "error", err)
	}

	c.JSON(http.StatusCreated, toReportResponse(*run))
}

func (h *ReportHandler) GetHealth(c *gin.Context) {
	_, err := h.repository.GetReportTotal()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": "disconnected",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": "connected",
	})
}
