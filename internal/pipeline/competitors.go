package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sonpt-afk/product-research-agent/internal/model"
)

type NewsFetcher interface {
	Fetch(ctx context.Context, competitor string, daysBack int) []model.Result[model.NewsArticle]
}

type NewsAnalyzer interface {
	Analyze(ctx context.Context, competitor string, news []model.Result[model.NewsArticle]) model.Result[model.CompetitorAnalysis]
}

// AnalysisCache holds recent analyses keyed by competitor and window.
type AnalysisCache interface {
	Get(ctx context.Context, competitor string, daysBack int) (*model.CompetitorAnalysis, error)
	Set(ctx context.Context, competitor string, daysBack int, analysis model.CompetitorAnalysis) error
}

type AnalysisStore interface {
	SaveAnalysis(analysis *model.CompetitorAnalysis) error
}

type CompetitorPipeline struct {
	fetcher  NewsFetcher
	analyzer NewsAnalyzer
	cache    AnalysisCache
	store    AnalysisStore
}

func NewCompetitorPipeline(fetcher NewsFetcher, analyzer NewsAnalyzer) *CompetitorPipeline {
	return &CompetitorPipeline{fetcher: fetcher, analyzer: analyzer}
}

func (p *CompetitorPipeline) WithCache(cache AnalysisCache) *CompetitorPipeline {
	p.cache = cache
	return p
}

func (p *CompetitorPipeline) WithStore(store AnalysisStore) *CompetitorPipeline {
	p.store = store
	return p
}

// Run analyzes each competitor in turn. Every distinct name gets exactly one
// entry; a failure for one competitor is recorded and the loop moves on.
func (p *CompetitorPipeline) Run(ctx context.Context, competitors []string, daysBack int) map[string]model.Result[model.CompetitorAnalysis] {
	results := make(map[string]model.Result[model.CompetitorAnalysis], len(competitors))

	for _, competitor := range competitors {
		if _, done := results[competitor]; done {
			continue
		}

		if err := ctx.Err(); err != nil {
			results[competitor] = model.Fail[model.CompetitorAnalysis](
				fmt.Sprintf("Error analyzing news for %s: %v", competitor, err))
			continue
		}

		results[competitor] = p.analyze(ctx, competitor, daysBack)
	}

	return results
}

func (p *CompetitorPipeline) analyze(ctx context.Context, competitor string, daysBack int) model.Result[model.CompetitorAnalysis] {
	if p.cache != nil {
		cached, err := p.cache.Get(ctx, competitor, daysBack)
		if err != nil {
			slog.Warn("analysis cache read failed", "competitor", competitor, "error", err)
		} else if cached != nil {
			slog.Info("analysis served from cache", "competitor", competitor)
			return model.Ok(*cached)
		}
	}

	slog.Info("analyzing competitor", "competitor", competitor, "days_back", daysBack)

	news := p.fetcher.Fetch(ctx, competitor, daysBack)
	result := p.analyzer.Analyze(ctx, competitor, news)
	if result.IsErr() {
		return result
	}

	analysis := result.Value()

	if p.store != nil {
		if err := p.store.SaveAnalysis(&analysis); err != nil {
			slog.Error("error saving analysis", "competitor", competitor, "error", err)
		}
	}

	if p.cache != nil {
		if err := p.cache.Set(ctx, competitor, daysBack, analysis); err != nil {
			slog.Warn("analysis cache write failed", "competitor", competitor, "error", err)
		}
	}

	return model.Ok(analysis)
}
