package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/sonpt-afk/product-research-agent/db"
	"github.com/sonpt-afk/product-research-agent/internal/app"
	"github.com/sonpt-afk/product-research-agent/internal/config"
	"github.com/sonpt-afk/product-research-agent/internal/handler"
	"github.com/sonpt-afk/product-research-agent/internal/repository"
)

const scheduledReportTimeout = 10 * time.Minute

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	app.SetupLogger(cfg, os.Stdout)

	err = db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatalf("error migrating DB: %v", err)
	}

	reportRepo := repository.NewReportRepository(db.DB)
	analysisRepo := repository.NewAnalysisRepository(db.DB)

	var reportRunner handler.ReportRunner
	if err := cfg.ValidateProducts(); err != nil {
		slog.Warn("report generation disabled", "reason", err)
	} else {
		productPipeline := app.NewProductPipeline(cfg).WithStore(reportRepo)
		reportRunner = productPipeline

		if cfg.API.ReportSchedule != "" {
			scheduler, err := app.ScheduleReports(cfg.API.ReportSchedule, productPipeline, scheduledReportTimeout)
			if err != nil {
				log.Fatalf("error scheduling reports: %v", err)
			}
			scheduler.Start()
			defer scheduler.Stop()
			slog.Info("report schedule enabled", "schedule", cfg.API.ReportSchedule)
		}
	}

	var analysisRunner handler.AnalysisRunner
	if err := cfg.ValidateNews(); err != nil {
		slog.Warn("competitor analysis disabled", "reason", err)
	} else {
		competitorPipeline := app.NewCompetitorPipeline(cfg).WithStore(analysisRepo)

		if cfg.RedisURL != "" && cfg.CacheTTLMinutes > 0 {
			if err := db.ConnectRedis(context.Background(), cfg.RedisURL); err != nil {
				slog.Warn("redis unavailable, running without cache", "error", err)
			} else {
				defer db.CloseRedis()
				competitorPipeline.WithCache(db.NewAnalysisCache(db.Redis, cfg.CacheTTL()))
			}
		}

		analysisRunner = competitorPipeline
	}

	reportHandler := handler.NewReportHandler(reportRepo, reportRunner)
	analysisHandler := handler.NewAnalysisHandler(analysisRepo, analysisRunner, cfg.News.DaysBack)

	r := gin.Default()

	slog.Info("AllowOrigins URL:", "urls", cfg.API.AllowedOrigins)

	r.Use(cors.New(cors.Config{
		AllowOrigins: cfg.API.AllowedOrigins,
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	r.GET("/health", reportHandler.GetHealth)
	r.GET("/reports", reportHandler.GetReports)
	r.POST("/reports", reportHandler.CreateReport)
	r.GET("/analyses", analysisHandler.GetAnalyses)
	r.POST("/analyses", analysisHandler.CreateAnalyses)
	r.GET("/analyses/latest/:competitor", analysisHandler.GetLatestAnalysis)

	err = r.Run(cfg.API.Addr)
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
