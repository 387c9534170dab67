package repository

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/sonpt-afk/product-research-agent/internal/model"
)

type ReportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// SaveReport writes the run and its products in one transaction.
func (r *ReportRepository) SaveReport(run *model.ReportRun) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO report_run(id, path, product_count, created_at)
		VALUES($1, $2, $3, $4)
	`, run.ID, run.Path, run.ProductCount, run.CreatedAt)
	if err != nil {
		return fmt.Errorf("error inserting report run: %w", err)
	}

	for i, p := range run.Products {
		_, err = tx.Exec(`
			INSERT INTO report_product(report_id, position, name, tagline, description, url, website, votes_count, topics)
			VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, run.ID, i, p.Name, p.Tagline, p.Description, p.URL, p.Website, p.VotesCount, pq.Array(p.Topics))
		if err != nil {
			return fmt.Errorf("error inserting report product %q: %w", p.Name, err)
		}
	}

	return tx.Commit()
}

func (r *ReportRepository) GetReports(limit, offset int) ([]model.ReportRun, error) {
	rows, err := r.db.Query(`
		SELECT id, path, product_count, created_at
		FROM report_run
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []model.ReportRun
	for rows.Next() {
		var run model.ReportRun
		if err := rows.Scan(&run.ID, &run.Path, &run.ProductCount, &run.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range runs {
		products, err := r.getProducts(runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Products = products
	}

	return runs, nil
}

func (r *ReportRepository) getProducts(reportID string) ([]model.Product, error) {
	rows, err := r.db.Query(`
		SELECT name, tagline, description, url, website, votes_count, topics
		FROM report_product
		WHERE report_id = $1
		ORDER BY position ASC
	`, reportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		var p model.Product
		err := rows.Scan(&p.Name, &p.Tagline, &p.Description, &p.URL, &p.Website, &p.VotesCount, pq.Array(&p.Topics))
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	return products, rows.Err()
}

func (r *ReportRepository) GetReportTotal() (int, error) {
	var total int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM report_run`).Scan(&total)
	return total, err
}
