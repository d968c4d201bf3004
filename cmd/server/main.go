package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flightscout-service/internal/domain/repository"
	"flightscout-service/internal/infrastructure/config"
	"flightscout-service/internal/infrastructure/persistence"
	"flightscout-service/internal/infrastructure/router"
	"flightscout-service/internal/interface/handler"
	"flightscout-service/internal/interface/llm"
	"flightscout-service/internal/interface/provider/amadeus"
	"flightscout-service/internal/interface/provider/tequila"
	historyRepo "flightscout-service/internal/interface/repository"
	"flightscout-service/internal/usecase"
	"flightscout-service/pkg/logger"
	"flightscout-service/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/mongo"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.NewLogger().Fatal("Failed to load config", "error", err)
	}

	// Create logger
	log := logger.NewLoggerWithLevel(cfg.LogLevel)
	defer log.Sync()
	log.Info("Starting FlightScout Service", "version", cfg.AppVersion)

	m := metrics.NewMetrics("flightscout", prometheus.DefaultRegisterer)

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Price history: MongoDB when configured, process memory otherwise
	var priceHistory repository.PriceHistoryRepository
	var mongoClient *mongo.Client
	if cfg.MongoURI != "" {
		log.Info("Connecting to MongoDB")
		client, db, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoDB, cfg.MongoUser, cfg.MongoPassword)
		if err != nil {
			log.Fatal("Failed to connect to MongoDB", "error", err)
		}
		mongoClient = client

		mongoHistory := historyRepo.NewMongoPriceHistoryRepository(db)
		if err := mongoHistory.EnsureIndexes(ctx); err != nil {
			log.Warn("Failed to create price history indexes", "error", err)
		}
		priceHistory = mongoHistory
	} else {
		log.Warn("MONGODB_DSN not set, price history is kept in memory")
		priceHistory = historyRepo.NewMemoryPriceHistoryRepository()
	}

	// Search history: PostgreSQL when configured
	var searchHistory repository.SearchHistoryRepository
	if cfg.PostgresURI != "" {
		gormDB, err := persistence.NewPostgres(cfg.PostgresURI, &historyRepo.SearchHistory{})
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", "error", err)
		}
		searchHistory = historyRepo.NewGormSearchHistoryRepository(gormDB)
	} else {
		log.Info("POSTGRES_DSN not set, search history disabled")
	}

	// Offer providers
	providers := router.NewProviderRouter(log)
	var analytics repository.PriceAnalyticsProvider
	for _, name := range cfg.EnabledProviders {
		switch name {
		case amadeus.Name:
			p, err := amadeus.New(amadeus.Config{
				BaseURL:           cfg.Amadeus.BaseURL,
				ClientID:          cfg.Amadeus.ClientID,
				ClientSecret:      cfg.Amadeus.ClientSecret,
				Timeout:           cfg.Amadeus.Timeout,
				TokenExpiryMargin: cfg.Amadeus.TokenExpiryMargin,
				RequestsPerSecond: cfg.Amadeus.RequestsPerSecond,
			}, log, m)
			if err != nil {
				log.Fatal("Failed to create Amadeus provider", "error", err)
			}
			providers.Register(p)
			analytics = p
		case tequila.Name:
			p, err := tequila.New(tequila.Config{
				BaseURL:           cfg.Tequila.BaseURL,
				APIKey:            cfg.Tequila.APIKey,
				Timeout:           cfg.Tequila.Timeout,
				RequestsPerSecond: cfg.Tequila.RequestsPerSecond,
			}, log, m)
			if err != nil {
				log.Fatal("Failed to create Tequila provider", "error", err)
			}
			providers.Register(p)
		}
	}

	// Optional generative refinement
	var generator repository.TextGenerator
	if cfg.LLM.Enabled {
		client, err := llm.NewOpenAIClient(llm.Config{
			BaseURL: cfg.LLM.BaseURL,
			APIKey:  cfg.LLM.APIKey,
			Model:   cfg.LLM.Model,
			Timeout: cfg.LLM.Timeout,
		}, log)
		if err != nil {
			log.Warn("Generative prediction disabled", "error", err)
		} else {
			generator = client
		}
	}

	// Use cases
	scoring, err := usecase.NewScoringEngine(usecase.ScoringConfig{PriceReference: cfg.PriceReference})
	if err != nil {
		log.Fatal("Failed to create scoring engine", "error", err)
	}
	tasks := usecase.NewBackgroundTasks(cfg.SideEffectTimeout, log, m)
	historyStore := usecase.NewPriceHistoryStore(priceHistory, log, m)
	searchService := usecase.NewFlightSearchService(providers, scoring, historyStore, searchHistory, tasks, usecase.SearchConfig{
		ExcludedCarriers: cfg.ExcludedCarriers,
		DefaultCurrency:  cfg.DefaultCurrency,
	}, log, m)
	predictionService := usecase.NewPricePredictionService(historyStore, generator, analytics, cfg.DefaultCurrency, log, m)

	// Set up HTTP server
	gin.SetMode(gin.ReleaseMode)
	engine := handler.NewRouter(
		handler.RouterConfig{APIKey: cfg.APIKey, AppVersion: cfg.AppVersion, Gatherer: prometheus.DefaultGatherer},
		handler.NewFlightHandler(searchService, log),
		handler.NewPriceHandler(predictionService, historyStore, log),
		log,
	)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      engine,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port, "providers", providers.Names())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	if !tasks.WaitTimeout(cfg.SideEffectTimeout) {
		log.Warn("Background tasks still running at shutdown")
	}

	cancel()

	if mongoClient != nil {
		if err := mongoClient.Disconnect(shutdownCtx); err != nil {
			log.Error("MongoDB disconnect error", "error", err)
		}
	}

	log.Info("FlightScout Service stopped")
}
