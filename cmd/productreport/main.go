package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/sonpt-afk/product-research-agent/db"
	"github.com/sonpt-afk/product-research-agent/internal/app"
	"github.com/sonpt-afk/product-research-agent/internal/config"
	"github.com/sonpt-afk/product-research-agent/internal/repository"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	if err := cfg.ValidateProducts(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	app.SetupLogger(cfg, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	productPipeline := app.NewProductPipeline(cfg)

	if cfg.DatabaseURL != "" {
		if err := db.Connect(cfg.DatabaseURL); err != nil {
			log.Fatalf("error connecting to DB: %v", err)
		}
		defer db.Close()

		if err := db.Migrate(); err != nil {
			log.Fatalf("error migrating DB: %v", err)
		}

		productPipeline.WithStore(repository.NewReportRepository(db.DB))
	}

	run, err := productPipeline.Run(ctx)
	if run == nil {
		log.Fatalf("error generating report: %v", err)
	}
	if err != nil {
		slog.Error("report was generated but not recorded", "error", err)
	}

	fmt.Printf("Report generated and saved to: %s\n", run.Path)
}
