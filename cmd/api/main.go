package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	analysisCache "ctr-insight-service/internal/analysis/adapters/cache"
	analysisHttp "ctr-insight-service/internal/analysis/adapters/http/fiber"
	analysisPorts "ctr-insight-service/internal/analysis/core/ports"
	analysisUsecase "ctr-insight-service/internal/analysis/core/usecase"

	impressionsHttp "ctr-insight-service/internal/impressions/adapters/http/fiber"
	impressionsRepoPg "ctr-insight-service/internal/impressions/adapters/postgres"
	impressionsPorts "ctr-insight-service/internal/impressions/core/ports"
	impressionsUsecase "ctr-insight-service/internal/impressions/core/usecase"

	"ctr-insight-service/internal/config"
	"ctr-insight-service/internal/insights"
	"ctr-insight-service/internal/observability"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	fiberSwagger "github.com/swaggo/fiber-swagger"

	_ "ctr-insight-service/docs"
)

func main() {
	cfgFile := flag.String("config", "", "path to config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	// Metrics
	registry := prometheus.NewRegistry()
	metrics := observability.New(registry)

	// Impression archive (optional; analysis from inline rows works without it)
	var archive impressionsPorts.ImpressionArchivePort
	if cfg.PostgresDSN != "" {
		db, err := impressionsRepoPg.Connect(cfg.PostgresDSN, 20)
		if err != nil {
			log.Fatalf("failed to connect postgres: %v", err)
		}
		defer db.Close()
		archive = impressionsRepoPg.NewImpressionRepository(db)
	} else {
		log.Println("postgres_dsn not set - impression archive disabled")
	}

	// Result cache
	resultCache, err := analysisCache.NewResultCache(cfg.ResultCacheSize)
	if err != nil {
		log.Fatalf("failed to create result cache: %v", err)
	}

	// Narrative generator: LLM client when a key is configured,
	// deterministic fallback otherwise.
	var narrative analysisPorts.NarrativeGeneratorPort
	if cfg.LLMAPIKey != "" {
		narrative = insights.NewClient(
			cfg.LLMAPIKey,
			cfg.LLMBaseURL,
			cfg.LLMModel,
			cfg.LLMMaxTokens,
			time.Duration(cfg.LLMTimeoutSec)*time.Second,
		)
		log.Printf("narrative generator: %s", cfg.LLMModel)
	} else {
		narrative = insights.NewFallbackGenerator()
		log.Println("llm_api_key not set - using fallback narrative generator")
	}

	// Usecases
	cleaner := impressionsUsecase.NewCleanRowsUseCase()
	runAnalysisUC := analysisUsecase.NewRunAnalysisUseCase(cleaner)

	// HTTP (Fiber) app + handlers
	app := fiber.New()

	analysisHandler := analysisHttp.NewAnalysisHandler(
		runAnalysisUC, archive, resultCache, narrative, metrics, cfg.RunConfig(),
	)
	app.Post("/analysis", analysisHandler.RunAnalysis)
	app.Get("/analysis/:run_id", analysisHandler.GetAnalysis)
	app.Get("/analysis/:run_id/narrative", analysisHandler.GetNarrative)

	if archive != nil {
		storeUC := impressionsUsecase.NewStoreImpressionsUseCase(archive)
		impressionHandler := impressionsHttp.NewImpressionHandler(storeUC, metrics)
		app.Post("/impressions", impressionHandler.CreateImpression)
		app.Post("/impressions/bulk", impressionHandler.BulkCreateImpressions)
	}

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// Swagger
	app.Get("/docs/*", fiberSwagger.WrapHandler)

	addr := ":" + strconv.Itoa(cfg.HTTPPort)

	// Graceful shutdown
	go func() {
		if err := app.Listen(addr); err != nil {
			log.Printf("fiber stopped: %v", err)
		}
	}()

	log.Printf("server started on %s", addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("fiber shutdown error: %v", err)
	}

	log.Println("server exiting")
}
