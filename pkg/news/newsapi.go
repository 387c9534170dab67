package news

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sonpt-afk/product-research-agent/internal/model"
)

const newsAPIEverythingURL = "https://newsapi.org/v2/everything"

var ErrNewsAPIStatus = errors.New("newsapi returned an error status")

type NewsAPIClient struct {
	apiKey     string
	httpClient *http.Client
}

func NewNewsAPIClient(apiKey string) *NewsAPIClient {
	return &NewsAPIClient{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *NewsAPIClient) Name() string {
	return "NewsAPI"
}

// Search runs one /v2/everything call: English only, sorted by relevancy,
// published on or after q.From.
func (c *NewsAPIClient) Search(ctx context.Context, q Query) ([]model.NewsArticle, error) {
	params := url.Values{}
	params.Set("q", BuildQuery(q.Competitor))
	params.Set("language", "en")
	params.Set("from", q.From.Format("2006-01-02"))
	params.Set("sortBy", "relevancy")
	if q.Limit > 0 {
		params.Set("pageSize", strconv.Itoa(q.Limit))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, newsAPIEverythingURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("newsapi request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("newsapi fetch: %w", err)
	}
	defer resp.Body.Close()

	var raw newsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("newsapi decode: %w", err)
	}

	if resp.StatusCode != http.StatusOK || raw.Status != "ok" {
		return nil, fmt.Errorf("%w: %d %s: %s", ErrNewsAPIStatus, resp.StatusCode, raw.Code, raw.Message)
	}

	articles := make([]model.NewsArticle, 0, len(raw.Articles))
	for _, item := range raw.Articles {
		publishedAt, err := time.Parse(time.RFC3339, item.PublishedAt)
		if err != nil {
			publishedAt = time.Time{}
		}

		articles = append(articles, model.NewsArticle{
			Title:       item.Title,
			Description: item.Description,
			URL:         item.URL,
			Source:      item.Source.Name,
			PublishedAt: publishedAt,
		})
	}

	return articles, nil
}

type newsAPIResponse struct {
	Status       string           `json:"status"`
	Code         string           `json:"code"`
	Message      string           `json:"message"`
	TotalResults int              `json:"totalResults"`
	Articles     []newsAPIArticle `json:"articles"`
}

type newsAPIArticle struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
}
