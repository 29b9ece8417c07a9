package models

import (
	"fmt"
	"math"
)

// Model identifiers used for dispatch.
const (
	ModelBlackScholes = "black_scholes"
	ModelBinomial     = "binomial"
	ModelMonteCarlo   = "monte_carlo"
)

// PricingModel is the capability shared by all pricing variants. Calculate
// returns price plus Greeks, CalculateGreeks the sensitivities alone.
// Implementations hold no mutable state; both operations are pure functions
// of the contract and config and safe for concurrent use.
//
// Models do not re-validate contract fields: the caller is responsible for
// rejecting non-positive spot, strike, expiry or volatility first.
type PricingModel interface {
	Calculate(c OptionContract, cfg ModelConfig) (PricingResult, error)
	CalculateGreeks(c OptionContract, cfg ModelConfig) (GreeksSet, error)
}

func payoff(t OptionType, sT, k float64) float64 {
	if t == Call {
		return math.Max(0, sT-k)
	}
	return math.Max(0, k-sT)
}

func checkFinite(model string, price float64) error {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return fmt.Errorf("%s produced a non-finite price", model)
	}
	return nil
}

func checkFiniteGreeks(model string, g GreeksSet) error {
	for _, v := range []float64{g.Delta, g.Gamma, g.Theta, g.Vega, g.Rho} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s produced non-finite greeks", model)
		}
	}
	return nil
}
