// Package cost prices text generation calls from their token usage.
package cost

import "strings"

// ModelRate holds per-model pricing. Token prices are per million tokens.
type ModelRate struct {
	Input      float64 `yaml:"input" mapstructure:"input"`
	Output     float64 `yaml:"output" mapstructure:"output"`
	PerRequest float64 `yaml:"per_request" mapstructure:"per_request"`
}

// Rates maps a model name, or a model name prefix, to its pricing.
type Rates map[string]ModelRate

// Calculator computes costs for API usage.
type Calculator struct {
	rates Rates
}

// NewCalculator creates a Calculator with the given rates.
func NewCalculator(rates Rates) *Calculator {
	return &Calculator{rates: rates}
}

// Generation returns the USD cost of one call. Dated model names such as
// "gpt-4o-mini-2024-07-18" resolve to the longest configured prefix.
// Unknown models cost 0.
func (c *Calculator) Generation(model string, inputTokens, outputTokens int64) float64 {
	rate, ok := c.lookup(model)
	if !ok {
		return 0
	}
	in := (float64(inputTokens) / 1e6) * rate.Input
	out := (float64(outputTokens) / 1e6) * rate.Output
	return in + out + rate.PerRequest
}

// Known reports whether model has a configured rate.
func (c *Calculator) Known(model string) bool {
	_, ok := c.lookup(model)
	return ok
}

func (c *Calculator) lookup(model string) (ModelRate, bool) {
	if model == "" {
		return ModelRate{}, false
	}
	if rate, ok := c.rates[model]; ok {
		return rate, true
	}
	best := ""
	for name := range c.rates {
		if strings.HasPrefix(model, name) && len(name) > len(best) {
			best = name
		}
	}
	if best == "" {
		return ModelRate{}, false
	}
	return c.rates[best], true
}

// DefaultRates returns list pricing for the supported providers' models.
func DefaultRates() Rates {
	return Rates{
		"claude-haiku-4-5":  {Input: 1.00, Output: 5.00},
		"claude-sonnet-4-5": {Input: 3.00, Output: 15.00},
		"claude-sonnet-4":   {Input: 3.00, Output: 15.00},
		"claude-opus-4-1":   {Input: 15.00, Output: 75.00},
		"gpt-4o-mini":       {Input: 0.15, Output: 0.60},
		"gpt-4o":            {Input: 2.50, Output: 10.00},
		"sonar":             {Input: 1.00, Output: 1.00, PerRequest: 0.005},
		"sonar-pro":         {Input: 3.00, Output: 15.00, PerRequest: 0.006},
	}
}
