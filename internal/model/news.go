package model

import "time"

type NewsArticle struct {
	Title       string    `json:"title,omitempty"`
	Description string    `json:"description,omitempty"`
	URL         string    `json:"url,omitempty"`
	Source      string    `json:"source,omitempty"`
	PublishedAt time.Time `json:"published_at,omitempty"`
}

type CompetitorAnalysis struct {
	ID              int64     `json:"id,omitempty"`
	Competitor      string    `json:"competitor"`
	NewsCount       int       `json:"news_count"`
	Analysis        string    `json:"analysis"`
	RecentHeadlines []string  `json:"recent_headlines"`
	AnalyzedAt      time.Time `json:"analysis_date"`
	ModelUsed       string    `json:"model_used,omitempty"`
}
