package domain

import (
	"context"
	"math"
	"strconv"

	"github.com/davidbz/promptmeter/internal/observability"
)

const (
	tokensPerMillion = 1_000_000.0

	// costDecimals fixes cost precision at 6 decimal places.
	costDecimals = 6
)

// StandardCostCalculator implements per-million-token cost calculation.
type StandardCostCalculator struct {
	classifier   *AliasClassifier
	pricingTable PricingTable
}

// NewStandardCostCalculator creates a new cost calculator.
func NewStandardCostCalculator(classifier *AliasClassifier, table PricingTable) *StandardCostCalculator {
	return &StandardCostCalculator{
		classifier:   classifier,
		pricingTable: table,
	}
}

// Alias resolves a raw model string to its pricing tier.
func (c *StandardCostCalculator) Alias(model string) ModelAlias {
	return c.classifier.Classify(model)
}

// ComputeCost returns the dollar cost of inputTokens and outputTokens for model,
// rounded to 6 decimal places. Negative token counts are treated as zero.
func (c *StandardCostCalculator) ComputeCost(model string, inputTokens, outputTokens int64) float64 {
	pricing, err := c.pricingTable.GetPricing(c.Alias(model))
	if err != nil {
		return 0
	}

	return priceTokens(pricing, inputTokens, outputTokens)
}

// Calculate computes the cost of usage and logs pricing misses.
func (c *StandardCostCalculator) Calculate(ctx context.Context, model string, usage Usage) float64 {
	alias := c.Alias(model)

	pricing, err := c.pricingTable.GetPricing(alias)
	if err != nil {
		observability.FromContext(ctx).Debug("no pricing for alias, reporting zero cost",
			observability.String("alias", string(alias)),
			observability.Error(err))
		return 0
	}

	return priceTokens(pricing, usage.PromptTokens, usage.CompletionTokens)
}

func priceTokens(pricing PricingConfig, inputTokens, outputTokens int64) float64 {
	inputCost := float64(max(inputTokens, 0)) / tokensPerMillion * pricing.InputCostPerMillion
	outputCost := float64(max(outputTokens, 0)) / tokensPerMillion * pricing.OutputCostPerMillion

	return RoundCost(inputCost + outputCost)
}

// RoundCost rounds a dollar amount to 6 decimal places. Rounding works on the
// exact binary value of cost with ties to even, so 199993 input tokens at
// $2.50/M (0.49998249999...) give 0.499982, not 0.499983.
// Negative and non-finite amounts are reported as zero.
func RoundCost(cost float64) float64 {
	if cost <= 0 || math.IsNaN(cost) || math.IsInf(cost, 0) {
		return 0
	}

	rounded, err := strconv.ParseFloat(strconv.FormatFloat(cost, 'f', costDecimals, 64), 64)
	if err != nil {
		return 0
	}
	return rounded
}
