package engine

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/quantdash/optpricer/models"
)

// Comparison folds the surviving per-model results into cross-model metrics.
// Zero results give a zero-value record.
func Comparison(results []models.PricingResult) models.ComparisonMetrics {
	if len(results) == 0 {
		return models.ComparisonMetrics{}
	}

	prices := make([]float64, len(results))
	totalTime := 0.0
	fastest, slowest := results[0], results[0]
	for i, r := range results {
		prices[i] = r.Price
		totalTime += r.ComputationTime
		if r.ComputationTime < fastest.ComputationTime {
			fastest = r
		}
		if r.ComputationTime > slowest.ComputationTime {
			slowest = r
		}
	}

	avg := stat.Mean(prices, nil)
	maxDiff := 0.0
	for _, p := range prices {
		maxDiff = math.Max(maxDiff, math.Abs(p-avg))
	}
	maxDiffPct := 0.0
	if avg > 0 {
		maxDiffPct = maxDiff / avg * 100
	}

	return models.ComparisonMetrics{
		AveragePrice:         avg,
		MaxDifference:        maxDiff,
		MaxDifferencePct:     maxDiffPct,
		TotalComputationTime: totalTime,
		FastestModel:         fastest.ModelName,
		SlowestModel:         slowest.ModelName,
		PriceRange: models.PriceRange{
			Min: floats.Min(prices),
			Max: floats.Max(prices),
		},
	}
}
