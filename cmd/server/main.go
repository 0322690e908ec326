package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"soil-nutrient-service/internal/adapters/primary/http/handlers"
	"soil-nutrient-service/internal/adapters/primary/http/middleware"
	"soil-nutrient-service/internal/adapters/secondary/artifact"
	"soil-nutrient-service/internal/adapters/secondary/chart"
	"soil-nutrient-service/internal/adapters/secondary/kserve"
	"soil-nutrient-service/internal/adapters/secondary/postgres"
	"soil-nutrient-service/internal/config"
	output "soil-nutrient-service/internal/core/ports/output"
	"soil-nutrient-service/internal/core/services"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	initLogger(cfg)

	variants, err := cfg.DomainVariants()
	if err != nil {
		log.Fatalf("invalid variants: %v", err)
	}

	// Prediction journal (Optional - based on config)
	var journal output.PredictionJournal
	var pool *pgxpool.Pool
	if cfg.Database.Enabled {
		pool, err = newPool(context.Background(), cfg.Database)
		if err != nil {
			log.Warnf("prediction journal disabled (continuing without database): %v", err)
		} else {
			defer pool.Close()
			journal = postgres.NewPredictionJournalRepository(pool)
			log.Info("prediction journal enabled")
		}
	} else {
		log.Info("prediction journal disabled")
	}

	// KServe Client (Optional - based on config)
	var kserveClient output.KServeClient
	if cfg.Kubernetes.Enabled {
		client, err := kserve.NewKServeClient(&cfg.Kubernetes)
		if err != nil {
			log.Warnf("KServe client init failed (continuing without K8s integration): %v", err)
		} else {
			kserveClient = client
			log.Info("KServe client initialized")
		}
	} else {
		log.Info("KServe integration disabled")
	}

	// ============================================================================
	// Hexagonal Architecture Wiring
	// ============================================================================

	// Secondary Adapters
	loader := artifact.NewFileLoader(cfg.Artifacts.BaseDir, kserveClient, cfg.KServe.Timeout)
	renderer, err := chart.NewRenderer(cfg.Chart)
	if err != nil {
		log.Fatalf("chart renderer: %v", err)
	}

	// Core Services
	registry, err := services.NewModelRegistryService(loader, variants)
	if err != nil {
		log.Fatalf("model registry: %v", err)
	}
	for _, st := range registry.LoadAll(context.Background()) {
		if !st.Available {
			log.WithField("variant", st.Variant).Warn("variant starts without a model")
		}
	}
	dashboardSvc := services.NewDashboardService(registry, journal)

	// Primary Adapter (HTTP Handlers)
	h := handlers.New(dashboardSvc, renderer)

	// Setup router
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logging(), gin.Recovery())

	h.RegisterPages(router)
	api := router.Group("/api/v1")
	h.RegisterRoutes(api)

	// Health check: the process is healthy while it serves; models and
	// journal are reported, not required.
	router.GET("/healthz", func(c *gin.Context) {
		resp := gin.H{"status": "ok", "variants": dashboardSvc.Statuses()}
		if pool != nil {
			if err := pool.Ping(c.Request.Context()); err != nil {
				resp["journal"] = "unreachable: " + err.Error()
			} else {
				resp["journal"] = "ok"
			}
		}
		c.JSON(http.StatusOK, resp)
	})

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Infof("starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced shutdown: %v", err)
	}

	log.Info("server stopped")
}

func newPool(ctx context.Context, db config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(db.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}
	poolCfg.MaxConns = int32(db.MaxOpenConns)
	poolCfg.MinConns = int32(db.MaxIdleConns)
	poolCfg.MaxConnLifetime = db.ConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create db pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure journal schema: %w", err)
	}
	return pool, nil
}

func initLogger(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Logger.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
