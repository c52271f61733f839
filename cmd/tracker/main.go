package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	app_service "erc20-transfer-tracker/internal/application/service"
	"erc20-transfer-tracker/internal/domain/entity"
	"erc20-transfer-tracker/internal/domain/repository"
	domain_service "erc20-transfer-tracker/internal/domain/service"
	"erc20-transfer-tracker/internal/infrastructure/blockchain"
	"erc20-transfer-tracker/internal/infrastructure/config"
	"erc20-transfer-tracker/internal/infrastructure/database"
	"erc20-transfer-tracker/internal/infrastructure/logger"
	"erc20-transfer-tracker/internal/infrastructure/messaging"
	"erc20-transfer-tracker/internal/infrastructure/presentation"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Create logger
	log, err := logger.NewLogger(cfg.App.LogLevel)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	// Create FX application
	app := fx.New(
		// Provide dependencies
		fx.Supply(cfg),
		fx.Supply(log),
		fx.Supply(&cfg.Tracker),
		fx.Supply(&cfg.Ethereum),
		fx.Supply(&cfg.NATS),
		fx.Supply(&cfg.Neo4J),
		fx.Provide(func() *zap.Logger { return log.Logger }),

		// Infrastructure providers
		fx.Provide(
			database.NewNeo4JClient,
			blockchain.NewTransferDecoder,
			blockchain.NewTransactionSummarizer,
			blockchain.NewPendingTransactionFeed,
			messaging.NewNATSPublisher,
			func(p *messaging.NATSPublisher) domain_service.SummaryPublisher { return p },
			func(r *presentation.ConsoleReporter) domain_service.SummaryReporter { return r },
			presentation.NewConsoleReporter,
			func(cfg *config.Config, client *database.Neo4JClient, log *logger.Logger) repository.TransferRepository {
				if !cfg.Neo4J.Enabled {
					return nil
				}
				return database.NewNeo4JTransferRepository(client, log)
			},
		),

		// Application providers
		fx.Provide(
			app_service.NewTrackingApplicationService,
		),

		// Lifecycle hooks
		fx.Invoke(startTracker),
		fx.Invoke(startHealthServer),

		// Configure logging
		fx.WithLogger(func() fxevent.Logger {
			return fxevent.NopLogger
		}),
	)

	// Start the application
	ctx := context.Background()
	if err := app.Start(ctx); err != nil {
		log.Error("Failed to start application", zap.Error(err))
		os.Exit(1)
	}

	// Wait for shutdown signal or completion-driven shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigChan:
		log.Info("Shutting down on signal...")
	case <-app.Done():
		log.Info("Shutting down after completed run...")
	}

	// Stop the application
	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.Stop(stopCtx); err != nil {
		log.Error("Failed to stop application gracefully", zap.Error(err))
		os.Exit(1)
	}

	log.Info("Application stopped successfully")
}

// startTracker connects the feed and sinks and runs the tracking loop.
func startTracker(
	lifecycle fx.Lifecycle,
	shutdowner fx.Shutdowner,
	feed *blockchain.PendingTransactionFeed,
	tracker domain_service.TrackingService,
	publisher *messaging.NATSPublisher,
	neo4jClient *database.Neo4JClient,
	log *zap.Logger,
	cfg *config.Config,
) {
	loopCtx, cancelLoop := context.WithCancel(context.Background())

	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting transfer tracker",
				zap.String("target", cfg.Tracker.Target().Hex()),
				zap.Int("match_limit", cfg.Tracker.MatchLimit))

			if cfg.Neo4J.Enabled {
				log.Info("Connecting to Neo4J database")
				if err := neo4jClient.Connect(ctx); err != nil {
					return fmt.Errorf("failed to connect to Neo4J: %w", err)
				}
			}

			if err := publisher.Connect(ctx); err != nil {
				return fmt.Errorf("failed to connect to NATS: %w", err)
			}

			if err := feed.Connect(ctx); err != nil {
				return fmt.Errorf("failed to connect to Ethereum node: %w", err)
			}

			go runTrackingLoop(loopCtx, feed, tracker, shutdowner, log)

			log.Info("Transfer tracker started successfully")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Stopping transfer tracker...")
			cancelLoop()
			feed.Close()
			if err := publisher.Disconnect(); err != nil {
				log.Error("Failed to disconnect from NATS", zap.Error(err))
			}
			if cfg.Neo4J.Enabled {
				if err := neo4jClient.Close(ctx); err != nil {
					log.Error("Failed to close Neo4J connection", zap.Error(err))
				}
			}
			return nil
		},
	})
}

// runTrackingLoop consumes the feed until the match limit is reached, then
// emits the final report and shuts the application down.
func runTrackingLoop(
	ctx context.Context,
	feed *blockchain.PendingTransactionFeed,
	tracker domain_service.TrackingService,
	shutdowner fx.Shutdowner,
	log *zap.Logger,
) {
	err := feed.Run(ctx, func(ctx context.Context, tx *entity.RawTransaction) bool {
		if _, err := tracker.ProcessTransaction(ctx, tx); err != nil {
			log.Error("Sink delivery failed",
				zap.String("hash", tx.Hash.Hex()),
				zap.Error(err))
		}
		return !tracker.Done()
	})

	switch {
	case err == nil:
		if reportErr := tracker.FinalReport(ctx); reportErr != nil {
			log.Error("Failed to emit final report", zap.Error(reportErr))
		}
	case errors.Is(err, context.Canceled):
		log.Info("Tracking loop canceled")
		return
	default:
		log.Error("Tracking loop terminated", zap.Error(err))
	}

	if err := shutdowner.Shutdown(); err != nil {
		log.Error("Failed to trigger shutdown", zap.Error(err))
	}
}

// startHealthServer starts the health check server
func startHealthServer(
	lifecycle fx.Lifecycle,
	cfg *config.Config,
	log *logger.Logger,
) {
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting health server...", zap.Int("port", cfg.App.HTTPPort))

			mux := http.NewServeMux()
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte(`{"status":"ok"}`))
			})

			server := &http.Server{
				Addr:    fmt.Sprintf(":%d", cfg.App.HTTPPort),
				Handler: mux,
			}

			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error("Health server error", zap.Error(err))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Stopping health server...")
			return nil
		},
	})
}
