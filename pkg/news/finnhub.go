package news

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"

	"github.com/sonpt-afk/product-research-agent/internal/model"
)

var ErrUnknownTicker = errors.New("no ticker symbol configured for competitor")

// FinnHubClient searches company news by ticker symbol. Competitor names are
// resolved through the configured tickers map.
type FinnHubClient struct {
	client  *finnhub.DefaultApiService
	tickers map[string]string
}

func NewFinnHubClient(apiKey string, tickers map[string]string) *FinnHubClient {
	cfg := finnhub.NewConfiguration()
	cfg.AddDefaultHeader("X-Finnhub-Token", apiKey)
	client := finnhub.NewAPIClient(cfg).DefaultApi

	normalized := make(map[string]string, len(tickers))
	for name, symbol := range tickers {
		normalized[strings.ToLower(name)] = symbol
	}

	return &FinnHubClient{client: client, tickers: normalized}
}

func (c *FinnHubClient) Name() string {
	return "FinnHub"
}

func (c *FinnHubClient) Symbol(competitor string) (string, bool) {
	symbol, ok := c.tickers[strings.ToLower(competitor)]
	return symbol, ok
}

func (c *FinnHubClient) Search(ctx context.Context, q Query) ([]model.NewsArticle, error) {
	symbol, ok := c.Symbol(q.Competitor)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTicker, q.Competitor)
	}

	to := q.To
	if to.IsZero() {
		to = time.Now()
	}

	res, _, err := c.client.CompanyNews(ctx).
		Symbol(symbol).
		From(q.From.Format("2006-01-02")).
		To(to.Format("2006-01-02")).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("finnhub company news: %w", err)
	}

	return toNewsArticles(res, c.Name(), q.Limit), nil
}

func toNewsArticles(res []finnhub.CompanyNews, source string, limit int) []model.NewsArticle {
	var articles []model.NewsArticle

	for _, news := range res {
		if limit > 0 && len(articles) >= limit {
			break
		}

		a := model.NewsArticle{Source: source}

		if news.Headline != nil {
			a.Title = *news.Headline
		}

		if news.Summary != nil {
			a.Description = *news.Summary
		}

		if news.Url != nil {
			a.URL = *news.Url
		}

		if news.Source != nil && *news.Source != "" {
			a.Source = *news.Source
		}

		if news.Datetime != nil {
			a.PublishedAt = time.Unix(*news.Datetime, 0)
		}

		articles = append(articles, a)
	}

	return articles
}
