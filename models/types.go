package models

import "strings"

type OptionType string

const (
	Call OptionType = "call"
	Put  OptionType = "put"
)

// ParseOptionType normalizes a caller-supplied option type. Input is
// case-insensitive; ok is false when the value is neither call nor put, in
// which case the lowercased input is returned so validation can report it.
func ParseOptionType(s string) (OptionType, bool) {
	t := OptionType(strings.ToLower(strings.TrimSpace(s)))
	return t, t == Call || t == Put
}

// OptionContract describes a European option and its market inputs. Contracts
// are immutable values; the With* helpers return shifted copies used for
// finite-difference Greeks.
type OptionContract struct {
	SpotPrice     float64    `json:"spot_price"`
	StrikePrice   float64    `json:"strike_price"`
	TimeToExpiry  float64    `json:"time_to_expiry"` // in years
	RiskFreeRate  float64    `json:"risk_free_rate"`
	DividendYield float64    `json:"dividend_yield"`
	Volatility    float64    `json:"volatility"`
	OptionType    OptionType `json:"option_type"`
}

func (c OptionContract) WithSpot(s float64) OptionContract {
	c.SpotPrice = s
	return c
}

func (c OptionContract) WithTimeToExpiry(t float64) OptionContract {
	c.TimeToExpiry = t
	return c
}

func (c OptionContract) WithVolatility(sigma float64) OptionContract {
	c.Volatility = sigma
	return c
}

func (c OptionContract) WithRate(r float64) OptionContract {
	c.RiskFreeRate = r
	return c
}

// ModelConfig carries per-model tuning that is not part of the contract.
type ModelConfig struct {
	BinomialSteps int `json:"binomial_steps"`
	Simulations   int `json:"monte_carlo_simulations"`
}

const (
	MinBinomialSteps = 10
	MaxBinomialSteps = 1000
	MinSimulations   = 1000
	MaxSimulations   = 100000

	DefaultBinomialSteps = 100
	DefaultSimulations   = 10000
)

// Clamped returns the config with both knobs forced into their supported
// ranges; zero values fall back to the defaults.
func (cfg ModelConfig) Clamped() ModelConfig {
	if cfg.BinomialSteps == 0 {
		cfg.BinomialSteps = DefaultBinomialSteps
	}
	if cfg.Simulations == 0 {
		cfg.Simulations = DefaultSimulations
	}
	cfg.BinomialSteps = clampInt(cfg.BinomialSteps, MinBinomialSteps, MaxBinomialSteps)
	cfg.Simulations = clampInt(cfg.Simulations, MinSimulations, MaxSimulations)
	return cfg
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// GreeksSet holds the five first/second-order sensitivities. Theta is
// value-change per calendar day; vega and rho are per one-percentage-point
// move in volatility and rate.
type GreeksSet struct {
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Theta float64 `json:"theta"`
	Vega  float64 `json:"vega"`
	Rho   float64 `json:"rho"`
}

// PricingResult is one model's answer for one contract.
type PricingResult struct {
	ModelName       string         `json:"model_name"`
	Price           float64        `json:"price"`
	ComputationTime float64        `json:"computation_time"` // seconds
	Greeks          GreeksSet      `json:"greeks"`
	ModelParameters map[string]int `json:"model_parameters,omitempty"`
}

type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// ComparisonMetrics summarizes agreement and cost across the models that
// succeeded for one request.
type ComparisonMetrics struct {
	AveragePrice         float64    `json:"average_price"`
	MaxDifference        float64    `json:"max_difference"`
	MaxDifferencePct     float64    `json:"max_difference_pct"`
	TotalComputationTime float64    `json:"total_computation_time"` // seconds
	FastestModel         string     `json:"fastest_model"`
	SlowestModel         string     `json:"slowest_model"`
	PriceRange           PriceRange `json:"price_range"`
}
