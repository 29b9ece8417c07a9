package server

import (
	"github.com/shopspring/decimal"

	"github.com/quantdash/optpricer/models"
)

// Boundary rounding contract: prices and Greeks to 6 decimal places,
// computation times converted to milliseconds at 2, deviation percentage
// at 4. Engine values stay unrounded; only the wire format is shaped here.
const (
	pricePlaces = 6
	timePlaces  = 2
	pctPlaces   = 4
)

func round(v float64, places int32) float64 {
	out, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return out
}

func toMilliseconds(seconds float64) float64 {
	return round(seconds*1000, timePlaces)
}

// RoundedResult mirrors PricingResult with the rounding contract applied and
// the computation time expressed in milliseconds.
type RoundedResult struct {
	ModelName         string           `json:"model_name"`
	Price             float64          `json:"price"`
	ComputationTimeMs float64          `json:"computation_time_ms"`
	Greeks            models.GreeksSet `json:"greeks"`
	ModelParameters   map[string]int   `json:"model_parameters,omitempty"`
}

func roundResults(results []models.PricingResult) []RoundedResult {
	out := make([]RoundedResult, len(results))
	for i, r := range results {
		out[i] = RoundedResult{
			ModelName:         r.ModelName,
			Price:             round(r.Price, pricePlaces),
			ComputationTimeMs: toMilliseconds(r.ComputationTime),
			Greeks:            roundGreeks(r.Greeks),
			ModelParameters:   r.ModelParameters,
		}
	}
	return out
}

func roundGreeks(g models.GreeksSet) models.GreeksSet {
	return models.GreeksSet{
		Delta: round(g.Delta, pricePlaces),
		Gamma: round(g.Gamma, pricePlaces),
		Theta: round(g.Theta, pricePlaces),
		Vega:  round(g.Vega, pricePlaces),
		Rho:   round(g.Rho, pricePlaces),
	}
}

// RoundedComparison is ComparisonMetrics in wire shape, total time in
// milliseconds.
type RoundedComparison struct {
	AveragePrice         float64           `json:"average_price"`
	MaxDifference        float64           `json:"max_difference"`
	MaxDifferencePct     float64           `json:"max_difference_pct"`
	TotalComputationTime float64           `json:"total_computation_time"`
	FastestModel         string            `json:"fastest_model"`
	SlowestModel         string            `json:"slowest_model"`
	PriceRange           models.PriceRange `json:"price_range"`
}

func roundComparison(m models.ComparisonMetrics) RoundedComparison {
	return RoundedComparison{
		AveragePrice:         round(m.AveragePrice, pricePlaces),
		MaxDifference:        round(m.MaxDifference, pricePlaces),
		MaxDifferencePct:     round(m.MaxDifferencePct, pctPlaces),
		TotalComputationTime: toMilliseconds(m.TotalComputationTime),
		FastestModel:         m.FastestModel,
		SlowestModel:         m.SlowestModel,
		PriceRange: models.PriceRange{
			Min: round(m.PriceRange.Min, pricePlaces),
			Max: round(m.PriceRange.Max, pricePlaces),
		},
	}
}

func roundSlice(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = round(v, pricePlaces)
	}
	return out
}

func roundMatrix(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		out[i] = roundSlice(row)
	}
	return out
}
