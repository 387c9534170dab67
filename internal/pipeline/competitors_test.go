package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/assert/v2"

	"github.com/sonpt-afk/product-research-agent/internal/model"
)

type fakeNewsFetcher struct {
	calls []string
	fail  map[string]bool
}

func (f *fakeNewsFetcher) Fetch(ctx context.Context, competitor string, daysBack int) []model.Result[model.NewsArticle] {
	f.calls = append(f.calls, competitor)
	if f.fail[competitor] {
		return []model.Result[model.NewsArticle]{
			model.Fail[model.NewsArticle]("Error fetching news for " + competitor + ": 500"),
		}
	}
	return []model.Result[model.NewsArticle]{
		model.Ok(model.NewsArticle{Title: competitor + " raises prices"}),
	}
}

type fakeNewsAnalyzer struct {
	calls int
}

func (f *fakeNewsAnalyzer) Analyze(ctx context.Context, competitor string, news []model.Result[model.NewsArticle]) model.Result[model.CompetitorAnalysis] {
	f.calls++
	articles, failures := model.Partition(news)
	if len(failures) > 0 {
		return model.Fail[model.CompetitorAnalysis](failures[0].Message)
	}
	return model.Ok(model.CompetitorAnalysis{
		Competitor: competitor,
		NewsCount:  len(articles),
		Analysis:   "analysis of " + competitor,
	})
}

type fakeCache struct {
	entries map[string]model.CompetitorAnalysis
	getErr  error
	sets    int
}

func (f *fakeCache) Get(ctx context.Context, competitor string, daysBack int) (*model.CompetitorAnalysis, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if a, ok := f.entries[competitor]; ok {
		return &a, nil
	}
	return nil, nil
}

func (f *fakeCache) Set(ctx context.Context, competitor string, daysBack int, analysis model.CompetitorAnalysis) error {
	f.sets++
	f.entries[competitor] = analysis
	return nil
}

type fakeAnalysisStore struct {
	saved []model.CompetitorAnalysis
	err   error
}

func (f *fakeAnalysisStore) SaveAnalysis(analysis *model.CompetitorAnalysis) error {
	if f.err != nil {
		return f.err
	}
	analysis.ID = int64(len(f.saved) + 1)
	f.saved = append(f.saved, *analysis)
	return nil
}

func TestCompetitorPipelineOneEntryPerCompetitor(t *testing.T) {
	fetcher := &fakeNewsFetcher{fail: map[string]bool{"HubSpot": true}}
	analyzer := &fakeNewsAnalyzer{}

	results := NewCompetitorPipeline(fetcher, analyzer).
		Run(context.Background(), []string{"Salesforce", "HubSpot", "Zendesk"}, 30)

	assert.Equal(t, 3, len(results))
	assert.Equal(t, false, results["Salesforce"].IsErr())
	assert.Equal(t, true, results["HubSpot"].IsErr())
	assert.Equal(t, "Error fetching news for HubSpot: 500", results["HubSpot"].Message())
	assert.Equal(t, 1, results["Zendesk"].Value().NewsCount)
	assert.Equal(t, []string{"Salesforce", "HubSpot", "Zendesk"}, fetcher.calls)
}

func TestCompetitorPipelineDuplicateNames(t *testing.T) {
	fetcher := &fakeNewsFetcher{}
	results := NewCompetitorPipeline(fetcher, &fakeNewsAnalyzer{}).
		Run(context.Background(), []string{"Zendesk", "Zendesk"}, 7)

	assert.Equal(t, 1, len(results))
	assert.Equal(t, 1, len(fetcher.calls))
}

func TestCompetitorPipelineEmptyInput(t *testing.T) {
	results := NewCompetitorPipeline(&fakeNewsFetcher{}, &fakeNewsAnalyzer{}).
		Run(context.Background(), nil, 30)

	assert.Equal(t, 0, len(results))
}

func TestCompetitorPipelineCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := &fakeNewsFetcher{}
	results := NewCompetitorPipeline(fetcher, &fakeNewsAnalyzer{}).
		Run(ctx, []string{"Salesforce", "HubSpot"}, 30)

	assert.Equal(t, 2, len(results))
	assert.Equal(t, 0, len(fetcher.calls))
	assert.Equal(t, true, results["HubSpot"].IsErr())
	assert.Equal(t, true, strings.Contains(results["HubSpot"].Message(), context.Canceled.Error()))
}

func TestCompetitorPipelineCacheHit(t *testing.T) {
	cache := &fakeCache{entries: map[string]model.CompetitorAnalysis{
		"Zendesk": {Competitor: "Zendesk", Analysis: "cached"},
	}}
	fetcher := &fakeNewsFetcher{}
	analyzer := &fakeNewsAnalyzer{}

	results := NewCompetitorPipeline(fetcher, analyzer).WithCache(cache).
		Run(context.Background(), []string{"Zendesk", "HubSpot"}, 30)

	assert.Equal(t, "cached", results["Zendesk"].Value().Analysis)
	assert.Equal(t, []string{"HubSpot"}, fetcher.calls)
	assert.Equal(t, 1, analyzer.calls)
	assert.Equal(t, 1, cache.sets)
}

func TestCompetitorPipelineCacheErrorFallsThrough(t *testing.T) {
	cache := &fakeCache{entries: map[string]model.CompetitorAnalysis{}, getErr: errors.New("redis down")}
	fetcher := &fakeNewsFetcher{}

	results := NewCompetitorPipeline(fetcher, &fakeNewsAnalyzer{}).WithCache(cache).
		Run(context.Background(), []string{"Zendesk"}, 30)

	assert.Equal(t, false, results["Zendesk"].IsErr())
	assert.Equal(t, 1, len(fetcher.calls))
}

func TestCompetitorPipelineStoresSuccessfulAnalyses(t *testing.T) {
	store := &fakeAnalysisStore{}
	cache := &fakeCache{entries: map[string]model.CompetitorAnalysis{}}
	fetcher := &fakeNewsFetcher{fail: map[string]bool{"HubSpot": true}}

	results := NewCompetitorPipeline(fetcher, &fakeNewsAnalyzer{}).WithStore(store).WithCache(cache).
		Run(context.Background(), []string{"Salesforce", "HubSpot"}, 30)

	assert.Equal(t, 1, len(store.saved))
	assert.Equal(t, "Salesforce", store.saved[0].Competitor)
	assert.Equal(t, int64(1), results["Salesforce"].Value().ID)
	assert.Equal(t, 1, cache.sets)
}

func TestCompetitorPipelineStoreErrorKeepsResult(t *testing.T) {
	store := &fakeAnalysisStore{err: errors.New("db down")}

	results := NewCompetitorPipeline(&fakeNewsFetcher{}, &fakeNewsAnalyzer{}).WithStore(store).
		Run(context.Background(), []string{"Salesforce"}, 30)

	assert.Equal(t, false, results["Salesforce"].IsErr())
}
