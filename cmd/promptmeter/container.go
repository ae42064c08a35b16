package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/davidbz/promptmeter/internal/config"
	"github.com/davidbz/promptmeter/internal/domain"
	"github.com/davidbz/promptmeter/internal/httpserver"
	"github.com/davidbz/promptmeter/internal/httpserver/middleware"
	"github.com/davidbz/promptmeter/internal/observability"
	"github.com/davidbz/promptmeter/internal/pricing"
	"github.com/davidbz/promptmeter/internal/provider/echo"
	"github.com/davidbz/promptmeter/internal/provider/openai"
	"github.com/davidbz/promptmeter/internal/provider/registry"
	"github.com/davidbz/promptmeter/internal/telemetry"
)

func buildContainer() (*dig.Container, error) {
	container := dig.New()

	constructors := []struct {
		name string
		fn   interface{}
	}{
		// Configuration
		{"config", config.Load},
		{"config dependencies", config.ParseDependenciesConfig},

		// Observability
		{"logger", observability.InitLogger},
		{"metrics registry", prometheus.NewRegistry},
		{"metrics gatherer", func(reg *prometheus.Registry) prometheus.Gatherer { return reg }},
		{"metrics", func(reg *prometheus.Registry) (*telemetry.Metrics, error) { return telemetry.NewMetrics(reg) }},
		{"event publisher", newEventPublisher},

		// Pricing
		{"pricing table", func(cfg *config.PricingConfig) (*pricing.Table, error) { return pricing.Load(cfg.File) }},
		{"cost calculator", newCostCalculator},

		// Completion providers
		{"provider registry", newProviderRegistry},
		{"completion provider", newCompletionProvider},

		// Domain services
		{"predictive service", domain.NewPredictiveService},

		// HTTP layer
		{"middleware chain", middleware.BuildMiddlewareChain},
		{"HTTP handler", httpserver.NewHandler},
		{"HTTP server", httpserver.NewServer},
	}

	for _, c := range constructors {
		if err := container.Provide(c.fn); err != nil {
			return nil, fmt.Errorf("failed to provide %s: %w", c.name, err)
		}
	}

	return container, nil
}

func newEventPublisher(logger *zap.Logger, metrics *telemetry.Metrics) domain.EventPublisher {
	bus := observability.NewEventBus(logger)
	bus.Subscribe(metrics.HandleEvent)
	return bus
}

func newCostCalculator(table *pricing.Table) domain.CostCalculator {
	return domain.NewStandardCostCalculator(table.Classifier, table.Prices)
}

// newProviderRegistry registers every provider that has what it needs to run.
// OpenAI is skipped without an API key.
func newProviderRegistry(openaiCfg *openai.Config, echoCfg *echo.Config) (*registry.Registry, error) {
	ctx := context.Background()
	reg := registry.NewRegistry()

	if openaiCfg.APIKey != "" {
		openaiProvider, err := openai.NewProvider(*openaiCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create OpenAI provider: %w", err)
		}
		if err := reg.Register(ctx, openaiProvider); err != nil {
			return nil, fmt.Errorf("failed to register OpenAI provider: %w", err)
		}
	}

	if err := reg.Register(ctx, echo.NewProvider(*echoCfg)); err != nil {
		return nil, fmt.Errorf("failed to register echo provider: %w", err)
	}

	return reg, nil
}

func newCompletionProvider(cfg *config.ProviderConfig, reg *registry.Registry) (domain.CompletionProvider, error) {
	return reg.Get(context.Background(), cfg.Name)
}
