// Package pricing loads the alias rule table and per-million-token prices
// from an optional YAML file, falling back to the built-in defaults.
package pricing

import (
	"fmt"
	"math"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/davidbz/promptmeter/internal/domain"
)

var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(?::([^}]*))?\}`)

// File is the on-disk pricing format.
//
//	pricing:
//	  gpt-4o: {input: 2.5, output: 10}
//	rules:
//	  - contains: gpt-4
//	    alias: gpt-4o
//	fallback: gpt-4o-mini
type File struct {
	Pricing  map[string]PriceEntry `yaml:"pricing"`
	Rules    []RuleEntry           `yaml:"rules"`
	Fallback string                `yaml:"fallback"`
}

// PriceEntry holds USD prices per one million tokens.
type PriceEntry struct {
	Input  float64 `yaml:"input"`
	Output float64 `yaml:"output"`
}

// RuleEntry is one row of the alias classification table.
type RuleEntry struct {
	Contains string `yaml:"contains"`
	Alias    string `yaml:"alias"`
}

// Table bundles the classifier and pricing table built from one source.
type Table struct {
	Classifier *domain.AliasClassifier
	Prices     *domain.StaticPricingTable
}

// Default returns the built-in rule table and prices.
func Default() *Table {
	return &Table{
		Classifier: domain.NewDefaultAliasClassifier(),
		Prices:     domain.NewStaticPricingTable(domain.DefaultCostMap()),
	}
}

// Load reads path when it is set and returns the defaults otherwise.
func Load(path string) (*Table, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile reads a YAML pricing file, expands ${VAR} and ${VAR:default}
// references, and validates it. Sections missing from the file keep their
// built-in defaults.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pricing file %s: %w", path, err)
	}

	var file File
	if err := yaml.Unmarshal([]byte(expandEnvVars(string(data))), &file); err != nil {
		return nil, fmt.Errorf("parse pricing file %s: %w", path, err)
	}

	table, err := file.build()
	if err != nil {
		return nil, fmt.Errorf("invalid pricing file %s: %w", path, err)
	}

	return table, nil
}

func (f *File) build() (*Table, error) {
	costs := domain.DefaultCostMap()
	if f.Pricing != nil {
		costs = make(domain.CostMap, len(f.Pricing))
		for name, entry := range f.Pricing {
			alias, err := domain.ParseModelAlias(name)
			if err != nil {
				return nil, err
			}
			if !validPrice(entry.Input) || !validPrice(entry.Output) {
				return nil, fmt.Errorf("price for alias %s must be a finite non-negative number", name)
			}
			costs[alias] = domain.PricingConfig{
				InputCostPerMillion:  entry.Input,
				OutputCostPerMillion: entry.Output,
			}
		}
	}

	rules := domain.DefaultAliasRules()
	if f.Rules != nil {
		rules = make([]domain.AliasRule, 0, len(f.Rules))
		for i, entry := range f.Rules {
			if entry.Contains == "" {
				return nil, fmt.Errorf("rule %d: contains cannot be empty", i)
			}
			alias, err := domain.ParseModelAlias(entry.Alias)
			if err != nil {
				return nil, fmt.Errorf("rule %d: %w", i, err)
			}
			rules = append(rules, domain.AliasRule{Contains: entry.Contains, Alias: alias})
		}
	}

	fallback := domain.DefaultFallbackAlias
	if f.Fallback != "" {
		alias, err := domain.ParseModelAlias(f.Fallback)
		if err != nil {
			return nil, fmt.Errorf("fallback: %w", err)
		}
		fallback = alias
	}

	return &Table{
		Classifier: domain.NewAliasClassifier(rules, fallback),
		Prices:     domain.NewStaticPricingTable(costs),
	}, nil
}

func validPrice(price float64) bool {
	return price >= 0 && !math.IsInf(price, 0) && !math.IsNaN(price)
}

// expandEnvVars replaces ${VAR} and ${VAR:default} patterns in a string.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		submatch := envVarPattern.FindStringSubmatch(match)
		if len(submatch) < 2 {
			return match
		}
		varName := submatch[1]
		defaultVal := ""
		if len(submatch) >= 3 {
			defaultVal = submatch[2]
		}
		if val, ok := os.LookupEnv(varName); ok {
			return val
		}
		return defaultVal
	})
}
