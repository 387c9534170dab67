// Package app builds the pipelines from a loaded configuration.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/sonpt-afk/product-research-agent/internal/config"
	"github.com/sonpt-afk/product-research-agent/internal/model"
	"github.com/sonpt-afk/product-research-agent/internal/pipeline"
	"github.com/sonpt-afk/product-research-agent/pkg/llm"
	"github.com/sonpt-afk/product-research-agent/pkg/news"
	"github.com/sonpt-afk/product-research-agent/pkg/producthunt"
	"github.com/sonpt-afk/product-research-agent/pkg/report"
)

// SetupLogger installs the JSON handler used by every command.
func SetupLogger(cfg *config.Config, w io.Writer) {
	slog.SetDefault(slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: cfg.SlogLevel()})))
}

func NewCompleter(cfg *config.Config) llm.Completer {
	switch cfg.LLM.Provider {
	case config.ProviderAnthropic:
		return llm.NewAnthropicClient(cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.BaseURL)
	default:
		return llm.NewOpenAIClient(cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.BaseURL)
	}
}

func NewNewsClient(cfg *config.Config) news.NewsClient {
	if cfg.News.Source == config.SourceFinnHub {
		return news.NewFinnHubClient(cfg.News.FinnHubAPIKey, cfg.News.Tickers)
	}
	return news.NewNewsAPIClient(cfg.News.APIKey)
}

func NewProductPipeline(cfg *config.Config) *pipeline.ProductPipeline {
	client := producthunt.NewClient(cfg.ProductHunt.Endpoint, cfg.ProductHunt.Token, cfg.ProductHunt.PageSize, cfg.ProductHunt.TopicKeyword)
	return pipeline.NewProductPipeline(client, report.NewPDFRenderer(cfg.Report.OutputDir))
}

func NewCompetitorPipeline(cfg *config.Config) *pipeline.CompetitorPipeline {
	fetcher := news.NewFetcher(NewNewsClient(cfg), cfg.News.MaxArticles)
	analyzer := llm.NewAnalyzer(NewCompleter(cfg))
	return pipeline.NewCompetitorPipeline(fetcher, analyzer)
}

type ReportRunner interface {
	Run(ctx context.Context) (*model.ReportRun, error)
}

// ScheduleReports registers a report run on the given cron expression. The
// returned scheduler is not started.
func ScheduleReports(schedule string, runner ReportRunner, timeout time.Duration) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		slog.Info("scheduled report starting", "schedule", schedule)

		run, err := runner.Run(ctx)
		if err != nil {
			slog.Error("scheduled report failed", "error", err)
			return
		}

		slog.Info("scheduled report finished", "report_id", run.ID, "path", run.Path)
	})
	if err != nil {
		return nil, fmt.Errorf("invalid report schedule %q: %w", schedule, err)
	}

	return c, nil
}
