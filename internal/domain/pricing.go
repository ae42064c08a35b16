package domain

import "context"

// PricingConfig contains model pricing information.
type PricingConfig struct {
	InputCostPerMillion  float64 // USD per 1M input tokens
	OutputCostPerMillion float64 // USD per 1M output tokens
}

// CostMap maps aliases to their per-million-token prices.
type CostMap map[ModelAlias]PricingConfig

// DefaultCostMap returns the built-in OpenAI list prices.
func DefaultCostMap() CostMap {
	return CostMap{
		AliasGPT4o: {
			InputCostPerMillion:  2.50,
			OutputCostPerMillion: 10.00,
		},
		AliasGPT4oMini: {
			InputCostPerMillion:  0.15,
			OutputCostPerMillion: 0.60,
		},
	}
}

// CostCalculator prices token usage for a raw model string.
type CostCalculator interface {
	// Calculate returns the dollar cost of usage. It never fails; unknown
	// pricing yields zero.
	Calculate(ctx context.Context, model string, usage Usage) float64

	// Alias returns the pricing tier the calculator resolves model to.
	Alias(model string) ModelAlias
}

// PricingTable holds pricing information per alias.
type PricingTable interface {
	// GetPricing returns pricing config for an alias, or ErrPricingNotFound.
	GetPricing(alias ModelAlias) (PricingConfig, error)
}
