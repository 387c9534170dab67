package handler

type ProductResponse struct {
	Name        string   `json:"name"`
	Tagline     string   `json:"tagline"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	Website     string   `json:"website"`
	VotesCount  int      `json:"votes_count"`
	Topics      []string `json:"topics"`
}

type ReportResponse struct {
	ID           string            `json:"id"`
	Path         string            `json:"path"`
	ProductCount int               `json:"product_count"`
	Products     []ProductResponse `json:"products"`
	CreatedAt    string            `json:"created_at"`
}

type ReportsResponse struct {
	Reports []ReportResponse `json:"reports"`
	Total   int              `json:"total"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
}

type AnalysisResponse struct {
	ID              int64    `json:"id"`
	Competitor      string   `json:"competitor"`
	NewsCount       int      `json:"news_count"`
	Analysis        string   `json:"analysis"`
	RecentHeadlines []string `json:"recent_headlines"`
	AnalysisDate    string   `json:"analysis_date"`
	ModelUsed       string   `json:"model_used"`
}

type AnalysesResponse struct {
	Analyses []AnalysisResponse `json:"analyses"`
	Total    int                `json:"total"`
	Limit    int                `json:"limit"`
	Offset   int                `json:"offset"`
}

type CreateAnalysesRequest struct {
	Competitors []string `json:"competitors"`
	DaysBack    int      `json:"days_back"`
}
