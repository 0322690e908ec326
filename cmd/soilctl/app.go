package main

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"soil-nutrient-service/internal/adapters/secondary/artifact"
	"soil-nutrient-service/internal/adapters/secondary/chart"
	"soil-nutrient-service/internal/adapters/secondary/kserve"
	"soil-nutrient-service/internal/config"
	output "soil-nutrient-service/internal/core/ports/output"
	"soil-nutrient-service/internal/core/services"
)

// app is what the commands need from the wiring.
type app struct {
	dashboard *services.DashboardService
	charts    output.ChartRenderer
}

type appFactory func(ctx context.Context) (*app, error)

// newApp wires the pipeline the same way the server does, minus HTTP and the
// journal.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	level, err := log.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = log.WarnLevel
	}
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	variants, err := cfg.DomainVariants()
	if err != nil {
		return nil, err
	}

	var kserveClient output.KServeClient
	if cfg.Kubernetes.Enabled {
		client, err := kserve.NewKServeClient(&cfg.Kubernetes)
		if err != nil {
			log.Warnf("KServe client init failed: %v", err)
		} else {
			kserveClient = client
		}
	}

	renderer, err := chart.NewRenderer(cfg.Chart)
	if err != nil {
		return nil, err
	}

	registry, err := services.NewModelRegistryService(
		artifact.NewFileLoader(cfg.Artifacts.BaseDir, kserveClient, cfg.KServe.Timeout), variants)
	if err != nil {
		return nil, err
	}
	registry.LoadAll(ctx)

	return &app{
		dashboard: services.NewDashboardService(registry, nil),
		charts:    renderer,
	}, nil
}
