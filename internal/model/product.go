package model

import "time"

// Product is one launch returned by the Product Hunt ranking.
type Product struct {
	Name        string   `json:"name"`
	Tagline     string   `json:"tagline"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	Website     string   `json:"website"`
	VotesCount  int      `json:"votes_count"`
	Topics      []string `json:"topics"`
}

// ReportRun describes one generated PDF report.
type ReportRun struct {
	ID           string    `json:"id"`
	Path         string    `json:"path"`
	ProductCount int       `json:"product_count"`
	Products     []Product `json:"products,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
