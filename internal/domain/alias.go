package domain

import (
	"fmt"
	"strings"
)

// ModelAlias identifies a pricing tier independent of the provider's model string.
type ModelAlias string

const (
	AliasGPT4o     ModelAlias = "gpt-4o"
	AliasGPT4oMini ModelAlias = "gpt-4o-mini"
)

// KnownAliases returns every alias in the closed set.
func KnownAliases() []ModelAlias {
	return []ModelAlias{AliasGPT4o, AliasGPT4oMini}
}

// ParseModelAlias converts a name into one of the known aliases.
func ParseModelAlias(name string) (ModelAlias, error) {
	for _, alias := range KnownAliases() {
		if string(alias) == name {
			return alias, nil
		}
	}
	return "", fmt.Errorf("unknown model alias: %q", name)
}

// AliasRule maps every model string containing Contains to Alias.
type AliasRule struct {
	Contains string
	Alias    ModelAlias
}

// DefaultAliasRules is the built-in classification table: anything in the
// GPT-4 family is billed as gpt-4o, everything else falls back to gpt-4o-mini.
// Note that "gpt-4o-mini" itself matches the gpt-4 rule.
func DefaultAliasRules() []AliasRule {
	return []AliasRule{
		{Contains: "gpt-4", Alias: AliasGPT4o},
	}
}

// DefaultFallbackAlias is used for model strings that match no rule.
const DefaultFallbackAlias = AliasGPT4oMini

// AliasClassifier resolves raw model strings to aliases.
// Rules are checked in order against the lower-cased model string and the
// first match wins.
type AliasClassifier struct {
	rules    []AliasRule
	fallback ModelAlias
}

// NewAliasClassifier creates a classifier from an ordered rule table.
func NewAliasClassifier(rules []AliasRule, fallback ModelAlias) *AliasClassifier {
	normalized := make([]AliasRule, 0, len(rules))
	for _, rule := range rules {
		if rule.Contains == "" {
			continue
		}
		normalized = append(normalized, AliasRule{
			Contains: strings.ToLower(rule.Contains),
			Alias:    rule.Alias,
		})
	}

	return &AliasClassifier{
		rules:    normalized,
		fallback: fallback,
	}
}

// NewDefaultAliasClassifier creates a classifier with the built-in rule table.
func NewDefaultAliasClassifier() *AliasClassifier {
	return NewAliasClassifier(DefaultAliasRules(), DefaultFallbackAlias)
}

// Classify returns the alias for model. It never fails.
func (c *AliasClassifier) Classify(model string) ModelAlias {
	lowered := strings.ToLower(model)
	for _, rule := range c.rules {
		if strings.Contains(lowered, rule.Contains) {
			return rule.Alias
		}
	}
	return c.fallback
}

// Rules returns a copy of the classifier's rule table.
func (c *AliasClassifier) Rules() []AliasRule {
	out := make([]AliasRule, len(c.rules))
	copy(out, c.rules)
	return out
}

// Fallback returns the alias used when no rule matches.
func (c *AliasClassifier) Fallback() ModelAlias {
	return c.fallback
}
