package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/example/omnipath/internal/broadcast"
	"github.com/example/omnipath/internal/config"
	"github.com/example/omnipath/internal/crowd"
	"github.com/example/omnipath/internal/httpapi"
	"github.com/example/omnipath/internal/ingest"
	"github.com/example/omnipath/internal/karma"
	"github.com/example/omnipath/internal/logging"
	"github.com/example/omnipath/internal/payments"
	"github.com/example/omnipath/internal/pooling"
	"github.com/example/omnipath/internal/routesvc"
	"github.com/example/omnipath/internal/sos"
	"github.com/example/omnipath/internal/stations"
	"github.com/example/omnipath/internal/storage"
	"github.com/example/omnipath/internal/weather"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found (using environment variables)")
	}

	cfg, err := config.LoadServerConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.NewLogger(cfg.LogLevel)

	// pool storage: postgres when configured, in-memory otherwise
	var poolStore storage.PoolStore
	if cfg.PGDSN != "" {
		if cfg.RunMigrations {
			if err := runMigrations(cfg.PGDSN); err != nil {
				logger.Error("migration failed", "error", err)
			}
		}
		ps, err := storage.NewPostgresPoolStore(cfg.PGDSN)
		if err != nil {
			logger.Error("postgres unavailable, falling back to memory store", "error", err)
		} else {
			poolStore = ps
			defer ps.Close()
		}
	}
	if poolStore == nil {
		poolStore = storage.NewMemoryPoolStore()
	}

	// crowd storage: redis when configured, in-memory otherwise
	var crowdStore crowd.Store
	if cfg.RedisAddr != "" {
		crowdStore = crowd.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword)
	} else {
		crowdStore = crowd.NewMemoryStore()
	}

	hub := broadcast.NewHub(logger)

	poolSvc := pooling.NewService(poolStore, hub)
	crowdSvc := crowd.NewAggregator(crowdStore, hub)
	sosSvc := sos.NewService(hub)
	weatherSvc := weather.NewService(hub, nil)
	karmaSvc := karma.NewService()

	var processor payments.Processor
	if cfg.PaymentProvider == "stripe" {
		processor = payments.NewStripeProcessor()
	}
	paySvc := payments.NewService(processor)

	if len(cfg.KafkaBrokers) > 0 {
		producer := ingest.NewKafkaProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer producer.Close()
		crowdSvc.Publisher = producer
		sosSvc.Publisher = producer
	}

	srv := httpapi.NewServer(httpapi.Deps{
		Pools:    poolSvc,
		Crowd:    crowdSvc,
		Weather:  weatherSvc,
		SOS:      sosSvc,
		Karma:    karmaSvc,
		Payments: paySvc,
		Planner:  routesvc.NewRandomPlanner(),
		Stations: stations.NewDirectory(),
		Hub:      hub,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go weatherSvc.Run(ctx.Done())

	httpSrv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      srv,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go func() {
		logger.Info("omnipath api listening", "addr", cfg.HTTPAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func runMigrations(dsn string) error {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return err
	}
	defer db.Close()
	b, err := os.ReadFile(filepath.Join("migrations", "001_create_pools.sql"))
	if err != nil {
		return err
	}
	_, err = db.Exec(string(b))
	return err
}
