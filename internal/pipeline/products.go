// Package pipeline sequences the fetch, analyze and emit stages.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sonpt-afk/product-research-agent/internal/model"
)

var ErrFetchFailed = errors.New("product fetch failed")

type ProductFetcher interface {
	FetchSaaSProducts(ctx context.Context) []model.Result[model.Product]
}

type ReportRenderer interface {
	Render(products []model.Result[model.Product]) (string, error)
}

type ReportStore interface {
	SaveReport(run *model.ReportRun) error
}

type ProductPipeline struct {
	fetcher  ProductFetcher
	renderer ReportRenderer
	store    ReportStore
	now      func() time.Time
}

// NewProductPipeline returns a pipeline that does not persist runs. Use
// WithStore to record them.
func NewProductPipeline(fetcher ProductFetcher, renderer ReportRenderer) *ProductPipeline {
	return &ProductPipeline{fetcher: fetcher, renderer: renderer, now: time.Now}
}

func (p *ProductPipeline) WithStore(store ReportStore) *ProductPipeline {
	p.store = store
	return p
}

// Run fetches the current products and renders them. A failed fetch is
// reported as ErrFetchFailed and nothing is rendered.
func (p *ProductPipeline) Run(ctx context.Context) (*model.ReportRun, error) {
	results := p.fetcher.FetchSaaSProducts(ctx)

	products, failures := model.Partition(results)
	if len(failures) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrFetchFailed, failures[0].Message)
	}

	path, err := p.renderer.Render(results)
	if err != nil {
		return nil, fmt.Errorf("error rendering report: %w", err)
	}

	if products == nil {
		products = []model.Product{}
	}

	run := &model.ReportRun{
		ID:           uuid.NewString(),
		Path:         path,
		ProductCount: len(products),
		Products:     products,
		CreatedAt:    p.now().UTC(),
	}

	slog.Info("report generated", "report_id", run.ID, "path", path, "product_count", run.ProductCount)

	if p.store != nil {
		if err := p.store.SaveReport(run); err != nil {
			return run, fmt.Errorf("error saving report %s: %w", run.ID, err)
		}
	}

	return run, nil
}
