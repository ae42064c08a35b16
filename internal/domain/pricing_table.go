package domain

import (
	"fmt"
)

// StaticPricingTable is an immutable PricingTable built once at startup.
// It is safe for concurrent use without locking.
type StaticPricingTable struct {
	pricing CostMap
}

// NewStaticPricingTable creates a pricing table from a copy of costs.
func NewStaticPricingTable(costs CostMap) *StaticPricingTable {
	pricing := make(CostMap, len(costs))
	for alias, config := range costs {
		pricing[alias] = config
	}

	return &StaticPricingTable{
		pricing: pricing,
	}
}

// GetPricing retrieves pricing for an alias.
func (t *StaticPricingTable) GetPricing(alias ModelAlias) (PricingConfig, error) {
	config, exists := t.pricing[alias]
	if !exists {
		return PricingConfig{}, fmt.Errorf("%w: %s", ErrPricingNotFound, alias)
	}

	return config, nil
}

// Len returns the number of priced aliases.
func (t *StaticPricingTable) Len() int {
	return len(t.pricing)
}
