package models

import "math"

// Bump sizes for finite-difference Greeks. Spot is bumped proportionally,
// volatility and rate by one absolute percentage point, time by one calendar
// day.
const (
	spotBumpFraction = 0.01
	volBump          = 0.01
	rateBump         = 0.01
	dayShift         = 1.0 / 365.0
)

// finiteDifferenceGreeks derives Greeks by re-pricing shifted copies of the
// contract through priceFn. Delta and gamma use a central difference on spot;
// theta, vega and rho use forward differences. The time shift is floored so
// the shifted expiry never reaches zero.
func finiteDifferenceGreeks(c OptionContract, priceFn func(OptionContract) float64) GreeksSet {
	base := priceFn(c)

	dS := spotBumpFraction * c.SpotPrice
	up := priceFn(c.WithSpot(c.SpotPrice + dS))
	down := priceFn(c.WithSpot(c.SpotPrice - dS))

	tShifted := math.Max(c.TimeToExpiry-dayShift, dayShift)

	return GreeksSet{
		Delta: (up - down) / (2 * dS),
		Gamma: (up - 2*base + down) / (dS * dS),
		Theta: priceFn(c.WithTimeToExpiry(tShifted)) - base,
		Vega:  (priceFn(c.WithVolatility(c.Volatility+volBump)) - base) / 100,
		Rho:   (priceFn(c.WithRate(c.RiskFreeRate+rateBump)) - base) / 100,
	}
}
