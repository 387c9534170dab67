package repository

import (
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/sonpt-afk/product-research-agent/internal/model"
)

type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

func (r *AnalysisRepository) SaveAnalysis(analysis *model.CompetitorAnalysis) error {
	headlines := analysis.RecentHeadlines
	if headlines == nil {
		headlines = []string{}
	}
	headlinesJSON, err := json.Marshal(headlines)
	if err != nil {
		return err
	}

	return r.db.QueryRow(`
		INSERT INTO competitor_analysis(competitor, news_count, analysis, recent_headlines, model_used, analyzed_at)
		VALUES($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, analysis.Competitor, analysis.NewsCount, analysis.Analysis, headlinesJSON, analysis.ModelUsed, analysis.AnalyzedAt).Scan(&analysis.ID)
}

// GetAnalyses returns stored analyses newest first. An empty competitor
// matches every competitor.
func (r *AnalysisRepository) GetAnalyses(competitor string, limit, offset int) ([]model.CompetitorAnalysis, error) {
	rows, err := r.db.Query(`
		SELECT id, competitor, news_count, analysis, recent_headlines, model_used, analyzed_at
		FROM competitor_analysis
		WHERE $1 = '' OR LOWER(competitor) = LOWER($1)
		ORDER BY analyzed_at DESC
		LIMIT $2 OFFSET $3
	`, competitor, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var analyses []model.CompetitorAnalysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		analyses = append(analyses, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return analyses, nil
}

func (r *AnalysisRepository) GetAnalysisTotal(competitor string) (int, error) {
	var total int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM competitor_analysis
		WHERE $1 = '' OR LOWER(competitor) = LOWER($1)
	`, competitor).Scan(&total)
	return total, err
}

// GetLatestAnalysis returns nil when the competitor has never been analyzed.
func (r *AnalysisRepository) GetLatestAnalysis(competitor string) (*model.CompetitorAnalysis, error) {
	row := r.db.QueryRow(`
		SELECT id, competitor, news_count, analysis, recent_headlines, model_used, analyzed_at
		FROM competitor_analysis
		WHERE LOWER(competitor) = LOWER($1)
		ORDER BY analyzed_at DESC
		LIMIT 1
	`, competitor)

	a, err := scanAnalysis(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return a, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(s scanner) (*model.CompetitorAnalysis, error) {
	var a model.CompetitorAnalysis
	var headlinesJSON []byte
	err := s.Scan(&a.ID, &a.Competitor, &a.NewsCount, &a.Analysis, &headlinesJSON, &a.ModelUsed, &a.AnalyzedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(headlinesJSON, &a.RecentHeadlines); err != nil {
		return nil, err
	}
	return &a, nil
}
