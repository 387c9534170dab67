package news

import (
	"context"
	"time"

	"github.com/sonpt-afk/product-research-agent/internal/model"
)

// Query describes one competitor search over a publication window.
type Query struct {
	Competitor string
	From       time.Time
	To         time.Time
	Limit      int
}

type NewsClient interface {
	Search(ctx context.Context, q Query) ([]model.NewsArticle, error)
	Name() string
}

// BuildQuery returns the search expression used for a competitor.
func BuildQuery(competitor string) string {
	return `"` + competitor + `" AND (software OR SaaS OR technology)`
}
