package models

import (
	"math"
	"time"
)

// BinomialTreeModel prices European options on a Cox-Ross-Rubinstein
// recombining lattice. Cost is O(steps²) per price; Greeks re-run the full
// tree for each finite-difference bump.
type BinomialTreeModel struct{}

func NewBinomialTreeModel() *BinomialTreeModel {
	return &BinomialTreeModel{}
}

func (m *BinomialTreeModel) Calculate(c OptionContract, cfg ModelConfig) (PricingResult, error) {
	steps := cfg.Clamped().BinomialSteps

	start := time.Now()
	price := m.price(c, steps)
	elapsed := time.Since(start).Seconds()

	if err := checkFinite("Binomial Tree", price); err != nil {
		return PricingResult{}, err
	}

	greeks := finiteDifferenceGreeks(c, func(shifted OptionContract) float64 {
		return m.price(shifted, steps)
	})

	return PricingResult{
		ModelName:       "Binomial Tree",
		Price:           price,
		ComputationTime: elapsed,
		Greeks:          greeks,
		ModelParameters: map[string]int{"steps": steps},
	}, nil
}

func (m *BinomialTreeModel) CalculateGreeks(c OptionContract, cfg ModelConfig) (GreeksSet, error) {
	steps := cfg.Clamped().BinomialSteps
	greeks := finiteDifferenceGreeks(c, func(shifted OptionContract) float64 {
		return m.price(shifted, steps)
	})
	if err := checkFiniteGreeks("Binomial Tree", greeks); err != nil {
		return GreeksSet{}, err
	}
	return greeks, nil
}

func (m *BinomialTreeModel) price(c OptionContract, steps int) float64 {
	dt := c.TimeToExpiry / float64(steps)
	u := math.Exp(c.Volatility * math.Sqrt(dt))
	d := 1 / u
	p := (math.Exp((c.RiskFreeRate-c.DividendYield)*dt) - d) / (u - d)

	// Terminal layer: option value at each of the steps+1 leaf nodes.
	values := make([]float64, steps+1)
	for j := 0; j <= steps; j++ {
		sT := c.SpotPrice * math.Pow(u, float64(steps-j)) * math.Pow(d, float64(j))
		values[j] = payoff(c.OptionType, sT, c.StrikePrice)
	}

	// Backward induction in place: after pass i, values[j] holds the node
	// value at slice i.
	discount := math.Exp(-c.RiskFreeRate * dt)
	for i := steps - 1; i >= 0; i-- {
		for j := 0; j <= i; j++ {
			values[j] = discount * (p*values[j] + (1-p)*values[j+1])
		}
	}

	return values[0]
}
