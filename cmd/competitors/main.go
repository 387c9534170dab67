package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sonpt-afk/product-research-agent/db"
	"github.com/sonpt-afk/product-research-agent/internal/app"
	"github.com/sonpt-afk/product-research-agent/internal/config"
	"github.com/sonpt-afk/product-research-agent/internal/model"
	"github.com/sonpt-afk/product-research-agent/internal/repository"
	"github.com/sonpt-afk/product-research-agent/pkg/report"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	competitorList := flag.String("competitors", "", "comma separated competitor names (default from config)")
	daysBack := flag.Int("days", 0, "how many days of news to analyze (default from config)")
	asTable := flag.Bool("table", false, "print a table instead of JSON")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	if err := cfg.ValidateNews(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	app.SetupLogger(cfg, os.Stderr)

	competitors := cfg.News.Competitors
	if *competitorList != "" {
		competitors = splitNames(*competitorList)
	}
	if len(competitors) == 0 {
		log.Fatalf("no competitors to analyze")
	}

	days := cfg.News.DaysBack
	if *daysBack > 0 {
		days = *daysBack
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	competitorPipeline := app.NewCompetitorPipeline(cfg)

	if cfg.DatabaseURL != "" {
		if err := db.Connect(cfg.DatabaseURL); err != nil {
			log.Fatalf("error connecting to DB: %v", err)
		}
		defer db.Close()

		if err := db.Migrate(); err != nil {
			log.Fatalf("error migrating DB: %v", err)
		}

		competitorPipeline.WithStore(repository.NewAnalysisRepository(db.DB))
	}

	if cfg.RedisURL != "" && cfg.CacheTTLMinutes > 0 {
		if err := db.ConnectRedis(ctx, cfg.RedisURL); err != nil {
			slog.Warn("redis unavailable, running without cache", "error", err)
		} else {
			defer db.CloseRedis()
			competitorPipeline.WithCache(db.NewAnalysisCache(db.Redis, cfg.CacheTTL()))
		}
	}

	results := competitorPipeline.Run(ctx, competitors, days)

	if *asTable {
		fmt.Print(report.FormatAnalysisTable(results, competitors))
	} else {
		out, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			log.Fatalf("error encoding results: %v", err)
		}
		fmt.Println(string(out))
	}

	if failed := countFailures(results); failed > 0 {
		slog.Warn("some competitors could not be analyzed", "failed", failed, "total", len(results))
		stop()
		os.Exit(1)
	}
}

func splitNames(list string) []string {
	var names []string
	for _, name := range strings.Split(list, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func countFailures(results map[string]model.Result[model.CompetitorAnalysis]) int {
	failed := 0
	for _, r := range results {
		if r.IsErr() {
			failed++
		}
	}
	return failed
}
