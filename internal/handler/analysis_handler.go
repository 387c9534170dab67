package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sonpt-afk/product-research-agent/internal/model"
)

type AnalysisStore interface {
	GetAnalyses(competitor string, limit, offset int) ([]model.CompetitorAnalysis, error)
	GetAnalysisTotal(competitor string) (int, error)
	GetLatestAnalysis(competitor string) (*model.CompetitorAnalysis, error)
}

type AnalysisRunner interface {
	Run(ctx context.Context, competitors []string, daysBack int) map[string]model.Result[model.CompetitorAnalysis]
}

type AnalysisHandler struct {
	repository      AnalysisStore
	runner          AnalysisRunner
	defaultDaysBack int
}

// NewAnalysisHandler accepts a nil runner; on-demand analysis then answers 503.
func NewAnalysisHandler(repository AnalysisStore, runner AnalysisRunner, defaultDaysBack int) *AnalysisHandler {
	return &AnalysisHandler{repository: repository, runner: runner, defaultDaysBack: defaultDaysBack}
}

func toAnalysisResponse(a model.CompetitorAnalysis) AnalysisResponse {
	headlines := a.RecentHeadlines
	if headlines == nil {
		headlines = []string{}
	}
	return AnalysisResponse{
		ID:              a.ID,
		Competitor:      a.Competitor,
		NewsCount:       a.NewsCount,
		Analysis:        a.Analysis,
		RecentHeadlines: headlines,
		AnalysisDate:    a.AnalyzedAt.Format(time.RFC3339),
		ModelUsed:       a.ModelUsed,
	}
}

// CreateAnalyses runs the news pipeline and answers with the per competitor
// mapping. Failed competitors appear as {"error": "..."} entries.
func (h *AnalysisHandler) CreateAnalyses(c *gin.Context) {
	if h.runner == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Competitor analysis is not configured"})
		return
	}

	var req CreateAnalysesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var competitors []string
	for _, name := range req.Competitors {
		if name = strings.TrimSpace(name); name != "" {
			competitors = append(competitors, name)
		}
	}

	if len(competitors) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one competitor is required"})
		return
	}

	daysBack := req.DaysBack
	if daysBack == 0 {
		daysBack = h.defaultDaysBack
	}
	if daysBack < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days_back must be positive"})
		return
	}

	c.JSON(http.StatusOK, h.runner.Run(c.Request.Context(), competitors, daysBack))
}

func (h *AnalysisHandler) GetAnalyses(c *gin.Context) {
	competitor := strings.TrimSpace(c.Query("competitor"))
	limit := getQueryLimit(c)
	offset := getQueryOffset(c)

	analyses, err := h.repository.GetAnalyses(competitor, limit, offset)
	if err != nil {
		slog.Error("error fetching analyses", "competitor", competitor, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	total, err := h.repository.GetAnalysisTotal(competitor)
	if err != nil {
		slog.Error("error fetching analysis total", "competitor", competitor, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	res := AnalysesResponse{
		Analyses: make([]AnalysisResponse, 0, len(analyses)),
		Total:    total,
		Limit:    limit,
		Offset:   offset,
	}
	for _, a := range analyses {
		res.Analyses = append(res.Analyses, toAnalysisResponse(a))
	}

	c.JSON(http.StatusOK, res)
}

func (h *AnalysisHandler) GetLatestAnalysis(c *gin.Context) {
	competitor := c.Param("competitor")

	analysis, err := h.repository.GetLatestAnalysis(competitor)
	if err != nil {
		slog.Error("error fetching latest analysis", "competitor", competitor, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if analysis == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No analysis available"})
		return
	}

	c.JSON(http.StatusOK, toAnalysisResponse(*analysis))
}
