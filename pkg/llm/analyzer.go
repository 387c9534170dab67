package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sonpt-afk/product-research-agent/internal/model"
)

const (
	AnalysisTemperature = 0.2
	AnalysisMaxTokens   = 1000
	maxHeadlines        = 5
)

// Analyzer turns a competitor's news into a CompetitorAnalysis with one
// completion call.
type Analyzer struct {
	client Completer
	now    func() time.Time
}

func NewAnalyzer(client Completer) *Analyzer {
	return &Analyzer{client: client, now: time.Now}
}

// Analyze never returns an error. A failed fetch result in articles is passed
// through without calling the model; any model failure becomes a failed
// result naming the competitor.
func (a *Analyzer) Analyze(ctx context.Context, competitor string, articles []model.Result[model.NewsArticle]) model.Result[model.CompetitorAnalysis] {
	fetched, failures := model.Partition(articles)
	if len(failures) > 0 {
		return model.Fail[model.CompetitorAnalysis](failures[0].Message)
	}

	completion, err := a.client.Complete(ctx, CompletionRequest{
		System:      analysisSystemPrompt,
		User:        fmt.Sprintf(analysisUserPrompt, competitor, BuildNewsText(fetched)),
		Temperature: AnalysisTemperature,
		MaxTokens:   AnalysisMaxTokens,
	})
	if err != nil {
		slog.Warn("competitor analysis failed", "competitor", competitor, "error", err)
		return model.Fail[model.CompetitorAnalysis](fmt.Sprintf("Error analyzing news for %s: %v", competitor, err))
	}

	return model.Ok(model.CompetitorAnalysis{
		Competitor:      competitor,
		NewsCount:       len(fetched),
		Analysis:        completion.Text,
		RecentHeadlines: RecentHeadlines(fetched),
		AnalyzedAt:      a.now(),
		ModelUsed:       completion.Model,
	})
}

// BuildNewsText renders the articles having both a title and a description.
func BuildNewsText(articles []model.NewsArticle) string {
	var blocks []string
	for _, a := range articles {
		if a.Title == "" || a.Description == "" {
			continue
		}
		blocks = append(blocks, fmt.Sprintf("Title: %s\nDescription: %s", a.Title, a.Description))
	}
	return strings.Join(blocks, "\n")
}

// RecentHeadlines returns the non-empty titles among the first five articles.
func RecentHeadlines(articles []model.NewsArticle) []string {
	if len(articles) > maxHeadlines {
		articles = articles[:maxHeadlines]
	}
	headlines := []string{}
	for _, a := range articles {
		if a.Title != "" {
			headlines = append(headlines, a.Title)
		}
	}
	return headlines
}
