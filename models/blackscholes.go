package models

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat/distuv"
)

// BlackScholesModel prices European options in closed form under geometric
// Brownian motion with a continuous dividend yield.
type BlackScholesModel struct{}

func NewBlackScholesModel() *BlackScholesModel {
	return &BlackScholesModel{}
}

func (m *BlackScholesModel) Calculate(c OptionContract, _ ModelConfig) (PricingResult, error) {
	start := time.Now()
	price, greeks := m.priceAndGreeks(c)
	elapsed := time.Since(start).Seconds()

	if err := checkFinite("Black-Scholes", price); err != nil {
		return PricingResult{}, err
	}

	return PricingResult{
		ModelName:       "Black-Scholes",
		Price:           price,
		ComputationTime: elapsed,
		Greeks:          greeks,
	}, nil
}

func (m *BlackScholesModel) CalculateGreeks(c OptionContract, _ ModelConfig) (GreeksSet, error) {
	_, greeks := m.priceAndGreeks(c)
	if err := checkFiniteGreeks("Black-Scholes", greeks); err != nil {
		return GreeksSet{}, err
	}
	return greeks, nil
}

func (m *BlackScholesModel) priceAndGreeks(c OptionContract) (float64, GreeksSet) {
	S := c.SpotPrice
	K := c.StrikePrice
	T := c.TimeToExpiry
	r := c.RiskFreeRate
	q := c.DividendYield
	sigma := c.Volatility

	sqrtT := math.Sqrt(T)
	d1 := (math.Log(S/K) + (r-q+0.5*sigma*sigma)*T) / (sigma * sqrtT)
	d2 := d1 - sigma*sqrtT

	discQ := math.Exp(-q * T)
	discR := math.Exp(-r * T)
	pdfD1 := normPDF(d1)

	var price, delta, theta, rho float64
	if c.OptionType == Call {
		price = S*discQ*normCDF(d1) - K*discR*normCDF(d2)
		delta = discQ * normCDF(d1)
		theta = -(S*pdfD1*sigma*discQ)/(2*sqrtT) -
			r*K*discR*normCDF(d2) +
			q*S*discQ*normCDF(d1)
		rho = K * T * discR * normCDF(d2) / 100
	} else {
		price = K*discR*normCDF(-d2) - S*discQ*normCDF(-d1)
		delta = -discQ * normCDF(-d1)
		theta = -(S*pdfD1*sigma*discQ)/(2*sqrtT) +
			r*K*discR*normCDF(-d2) -
			q*S*discQ*normCDF(-d1)
		rho = -K * T * discR * normCDF(-d2) / 100
	}

	// Gamma and vega are identical for calls and puts.
	greeks := GreeksSet{
		Delta: delta,
		Gamma: pdfD1 * discQ / (S * sigma * sqrtT),
		Theta: theta / 365, // per calendar day
		Vega:  S * discQ * pdfD1 * sqrtT / 100,
		Rho:   rho,
	}

	return price, greeks
}

func normCDF(x float64) float64 {
	return distuv.UnitNormal.CDF(x)
}

func normPDF(x float64) float64 {
	return distuv.UnitNormal.Prob(x)
}
