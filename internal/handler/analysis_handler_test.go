package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"

	"github.com/sonpt-afk/product-research-agent/internal/model"
)

type fakeAnalysisStore struct {
	analyses      []model.CompetitorAnalysis
	latest        *model.CompetitorAnalysis
	total         int
	err           error
	gotCompetitor string
}

func (f *fakeAnalysisStore) GetAnalyses(competitor string, limit, offset int) ([]model.CompetitorAnalysis, error) {
	f.gotCompetitor = competitor
	return f.analyses, f.err
}

func (f *fakeAnalysisStore) GetAnalysisTotal(competitor string) (int, error) {
	return f.total, f.err
}

func (f *fakeAnalysisStore) GetLatestAnalysis(competitor string) (*model.CompetitorAnalysis, error) {
	f.gotCompetitor = competitor
	return f.latest, f.err
}

type fakeAnalysisRunner struct {
	gotCompetitors []string
	gotDaysBack    int
}

func (f *fakeAnalysisRunner) Run(ctx context.Context, competitors []string, daysBack int) map[string]model.Result[model.CompetitorAnalysis] {
	f.gotCompetitors = competitors
	f.gotDaysBack = daysBack

	results := make(map[string]model.Result[model.CompetitorAnalysis])
	for _, c := range competitors {
		if c == "Broken" {
			results[c] = model.Fail[model.CompetitorAnalysis]("Error fetching news for Broken: 500")
			continue
		}
		results[c] = model.Ok(model.CompetitorAnalysis{Competitor: c, NewsCount: 2, Analysis: "steady"})
	}
	return results
}

func newTestAnalysisRouter(store AnalysisStore, runner AnalysisRunner) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAnalysisHandler(store, runner, 30)
	r.POST("/analyses", h.CreateAnalyses)
	r.GET("/analyses", h.GetAnalyses)
	r.GET("/analyses/latest/:competitor", h.GetLatestAnalysis)
	return r
}

func TestCreateAnalyses_MixedResults(t *testing.T) {
	runner := &fakeAnalysisRunner{}
	r := newTestAnalysisRouter(&fakeAnalysisStore{}, runner)

	w := httptest.NewRecorder()
	body := `{"competitors": ["HubSpot", " Broken ", ""], "days_back": 7}`
	req := httptest.NewRequest("POST", "/analyses", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"HubSpot", "Broken"}, runner.gotCompetitors)
	assert.Equal(t, 7, runner.gotDaysBack)

	var res map[string]map[string]any
	json.Unmarshal(w.Body.Bytes(), &res)

	assert.Equal(t, 2, len(res))
	assert.Equal(t, "steady", res["HubSpot"]["analysis"])
	assert.Equal(t, "Error fetching news for Broken: 500", res["Broken"]["error"])
	assert.Equal(t, 1, len(res["Broken"]))
}

func TestCreateAnalyses_DefaultDaysBack(t *testing.T) {
	runner := &fakeAnalysisRunner{}
	r := newTestAnalysisRouter(&fakeAnalysisStore{}, runner)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/analyses", strings.NewReader(`{"competitors": ["Zendesk"]}`))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 30, runner.gotDaysBack)
}

func TestCreateAnalyses_BadRequest(t *testing.T) {
	tests := []string{
		`{"competitors": []}`,
		`{"competitors": ["  "]}`,
		`{"competitors": ["Zendesk"], "days_back": -3}`,
		`not json`,
	}

	for _, body := range tests {
		runner := &fakeAnalysisRunner{}
		r := newTestAnalysisRouter(&fakeAnalysisStore{}, runner)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/analyses", strings.NewReader(body))
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, 0, len(runner.gotCompetitors))
	}
}

func TestCreateAnalyses_NotConfigured(t *testing.T) {
	r := newTestAnalysisRouter(&fakeAnalysisStore{}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/analyses", strings.NewReader(`{"competitors": ["Zendesk"]}`))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestGetAnalyses_FilterByCompetitor(t *testing.T) {
	store := &fakeAnalysisStore{
		analyses: []model.CompetitorAnalysis{
			{ID: 4, Competitor: "Zendesk", NewsCount: 3, Analysis: "newer", AnalyzedAt: time.Now()},
			{ID: 2, Competitor: "Zendesk", NewsCount: 1, Analysis: "older", AnalyzedAt: time.Now().Add(-time.Hour)},
		},
		total: 2,
	}
	r := newTestAnalysisRouter(store, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/analyses?competitor=Zendesk&limit=5", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Zendesk", store.gotCompetitor)

	var res AnalysesResponse
	json.Unmarshal(w.Body.Bytes(), &res)

	assert.Equal(t, 2, len(res.Analyses))
	assert.Equal(t, "newer", res.Analyses[0].Analysis)
	assert.Equal(t, []string{}, res.Analyses[0].RecentHeadlines)
	assert.Equal(t, 5, res.Limit)
}

func TestGetAnalyses_DBError(t *testing.T) {
	r := newTestAnalysisRouter(&fakeAnalysisStore{err: errors.New("DB down")}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/analyses", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetLatestAnalysis_Found(t *testing.T) {
	store := &fakeAnalysisStore{latest: &model.CompetitorAnalysis{
		ID:              9,
		Competitor:      "HubSpot",
		Analysis:        "expanding",
		RecentHeadlines: []string{"HubSpot buys startup"},
		ModelUsed:       "llama-3.3-70b-versatile",
	}}
	r := newTestAnalysisRouter(store, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/analyses/latest/HubSpot", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "HubSpot", store.gotCompetitor)

	var res AnalysisResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, int64(9), res.ID)
	assert.Equal(t, "HubSpot buys startup", res.RecentHeadlines[0])
}

func TestGetLatestAnalysis_NotFound(t *testing.T) {
	r := newTestAnalysisRouter(&fakeAnalysisStore{}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/analyses/latest/Nobody", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
