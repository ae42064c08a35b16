package domain_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/promptmeter/internal/domain"
)

func newTestCalculator(costs domain.CostMap) *domain.StandardCostCalculator {
	return domain.NewStandardCostCalculator(
		domain.NewDefaultAliasClassifier(),
		domain.NewStaticPricingTable(costs),
	)
}

func TestStandardCostCalculator_ComputeCost(t *testing.T) {
	calculator := newTestCalculator(domain.CostMap{
		domain.AliasGPT4o: {
			InputCostPerMillion:  5.0,
			OutputCostPerMillion: 15.0,
		},
		domain.AliasGPT4oMini: {
			InputCostPerMillion:  0.15,
			OutputCostPerMillion: 0.60,
		},
	})

	tests := []struct {
		name         string
		model        string
		inputTokens  int64
		outputTokens int64
		expectedCost float64
	}{
		{
			name:         "one million tokens each way",
			model:        "gpt-4-something",
			inputTokens:  1_000_000,
			outputTokens: 1_000_000,
			expectedCost: 20.0,
		},
		{
			name:         "zero tokens returns zero cost",
			model:        "gpt-4o",
			inputTokens:  0,
			outputTokens: 0,
			expectedCost: 0,
		},
		{
			name:         "partial tokens calculation",
			model:        "gpt-4o",
			inputTokens:  250,
			outputTokens: 100,
			expectedCost: 0.00275, // (250/1M * 5) + (100/1M * 15)
		},
		{
			name:         "fallback tier for unknown model",
			model:        "unknown-model-x",
			inputTokens:  500_000,
			outputTokens: 0,
			expectedCost: 0.075, // 0.5M * 0.15
		},
		{
			name:         "negative tokens are treated as zero",
			model:        "gpt-4o",
			inputTokens:  -100,
			outputTokens: 1_000_000,
			expectedCost: 15.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cost := calculator.ComputeCost(tt.model, tt.inputTokens, tt.outputTokens)
			require.InDelta(t, tt.expectedCost, cost, 1e-9)
		})
	}
}

func TestStandardCostCalculator_EmptyCostMap(t *testing.T) {
	calculator := newTestCalculator(domain.CostMap{})

	for _, model := range []string{"unknown-model-x", "gpt-4o", "gpt-4-turbo", ""} {
		require.Equal(t, 0.0, calculator.ComputeCost(model, 500_000, 0), model)
		require.Equal(t, 0.0, calculator.ComputeCost(model, 123_456, 654_321), model)
	}
}

func TestStandardCostCalculator_MissingAliasEntry(t *testing.T) {
	calculator := newTestCalculator(domain.CostMap{
		domain.AliasGPT4o: {InputCostPerMillion: 5, OutputCostPerMillion: 15},
	})

	// Falls back to gpt-4o-mini, which has no entry.
	require.Equal(t, 0.0, calculator.ComputeCost("o1-preview", 1_000_000, 1_000_000))
	require.Equal(t, 20.0, calculator.ComputeCost("gpt-4o", 1_000_000, 1_000_000))
}

func TestStandardCostCalculator_Linear(t *testing.T) {
	pricing := domain.PricingConfig{InputCostPerMillion: 2.5, OutputCostPerMillion: 10}
	calculator := newTestCalculator(domain.CostMap{domain.AliasGPT4o: pricing})

	samples := [][2]int64{
		{0, 0}, {1, 0}, {0, 1}, {7, 13}, {1_000, 2_000}, {123_456, 654_321}, {10_000_000, 3},
	}

	for _, s := range samples {
		want := float64(s[0])/1_000_000*pricing.InputCostPerMillion +
			float64(s[1])/1_000_000*pricing.OutputCostPerMillion
		got := calculator.ComputeCost("gpt-4o", s[0], s[1])

		require.InDelta(t, want, got, 6e-7, "tokens %v", s)
	}
}

func TestStandardCostCalculator_RoundsToSixDecimals(t *testing.T) {
	calculator := newTestCalculator(domain.CostMap{
		domain.AliasGPT4o: {InputCostPerMillion: 2.5, OutputCostPerMillion: 10},
	})

	mini := newTestCalculator(domain.CostMap{
		domain.AliasGPT4oMini: {InputCostPerMillion: 0.15, OutputCostPerMillion: 0.60},
	})
	// 7 input tokens = 0.00000105, 13 = 0.00000195
	require.Equal(t, 0.000001, mini.ComputeCost("gpt-3.5-turbo", 7, 0))
	require.Equal(t, 0.000002, mini.ComputeCost("gpt-3.5-turbo", 13, 0))
	// 2 output tokens = 0.00002
	require.Equal(t, 0.00002, calculator.ComputeCost("gpt-4o", 0, 2))

	for _, tokens := range []int64{1, 3, 7, 11, 333, 12_345, 987_654} {
		cost := calculator.ComputeCost("gpt-4o", tokens, tokens)
		scaled := cost * 1e6
		require.InDelta(t, math.Round(scaled), scaled, 1e-6, "tokens %d", tokens)
	}
}

func TestStandardCostCalculator_Calculate(t *testing.T) {
	ctx := context.Background()
	calculator := newTestCalculator(domain.DefaultCostMap())

	cost := calculator.Calculate(ctx, "gpt-4o-2024-08-06", domain.Usage{
		PromptTokens:     1_000_000,
		CompletionTokens: 500_000,
	})

	require.InDelta(t, 7.5, cost, 1e-9) // 2.50 + 0.5 * 10.00
	require.Equal(t, domain.AliasGPT4o, calculator.Alias("gpt-4o-2024-08-06"))
}

func TestRoundCost(t *testing.T) {
	tests := []struct {
		name     string
		in       float64
		expected float64
	}{
		{name: "already rounded", in: 1.5, expected: 1.5},
		{name: "rounds down", in: 0.1234564, expected: 0.123456},
		{name: "rounds up", in: 0.1234566, expected: 0.123457},
		{name: "negative becomes zero", in: -0.5, expected: 0},
		{name: "NaN becomes zero", in: math.NaN(), expected: 0},
		{name: "positive infinity becomes zero", in: math.Inf(1), expected: 0},
		{name: "negative infinity becomes zero", in: math.Inf(-1), expected: 0},
		{name: "large amount keeps cents", in: 12345.6789014, expected: 12345.678901},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, domain.RoundCost(tt.in))
		})
	}
}

func TestComputeCost_RoundsExactBinaryValue(t *testing.T) {
	calculator := domain.NewStandardCostCalculator(
		domain.NewDefaultAliasClassifier(),
		domain.NewStaticPricingTable(domain.DefaultCostMap()),
	)

	// 199993 / 1M * 2.50 is stored just below 0.4999825.
	require.Equal(t, 0.499982, calculator.ComputeCost("gpt-4o", 199_993, 0))
}

func TestComputeCost_InfinitePriceReportsZero(t *testing.T) {
	calculator := domain.NewStandardCostCalculator(
		domain.NewDefaultAliasClassifier(),
		domain.NewStaticPricingTable(domain.CostMap{
			domain.AliasGPT4o: {InputCostPerMillion: math.Inf(1), OutputCostPerMillion: 1},
		}),
	)

	require.Equal(t, 0.0, calculator.ComputeCost("gpt-4o", 10, 10))
}
