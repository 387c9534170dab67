package news

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sonpt-afk/product-research-agent/internal/model"
)

const DefaultDaysBack = 30

// Fetcher wraps a NewsClient and converts every failure into a failed result.
type Fetcher struct {
	client NewsClient
	limit  int
	now    func() time.Time
}

func NewFetcher(client NewsClient, limit int) *Fetcher {
	return &Fetcher{client: client, limit: limit, now: time.Now}
}

// Fetch returns up to limit articles about competitor published within the
// last daysBack days (DefaultDaysBack when not positive). It never returns an
// error: a failed search yields a single failed result naming the competitor.
func (f *Fetcher) Fetch(ctx context.Context, competitor string, daysBack int) []model.Result[model.NewsArticle] {
	if daysBack <= 0 {
		daysBack = DefaultDaysBack
	}

	now := f.now()
	articles, err := f.client.Search(ctx, Query{
		Competitor: competitor,
		From:       now.AddDate(0, 0, -daysBack),
		To:         now,
		Limit:      f.limit,
	})
	if err != nil {
		slog.Warn("news fetch failed", "source", f.client.Name(), "competitor", competitor, "error", err)
		return []model.Result[model.NewsArticle]{
			model.Fail[model.NewsArticle](fmt.Sprintf("Error fetching news for %s: %v", competitor, err)),
		}
	}

	if f.limit > 0 && len(articles) > f.limit {
		articles = articles[:f.limit]
	}

	results := make([]model.Result[model.NewsArticle], 0, len(articles))
	for _, a := range articles {
		results = append(results, model.Ok(a))
	}

	slog.Info("news fetch complete", "source", f.client.Name(), "competitor", competitor, "articles", len(results))
	return results
}
