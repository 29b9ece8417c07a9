package engine

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/quantdash/optpricer/models"
)

const (
	minGridResolution = 2
	maxGridResolution = 200

	gridJobBuffer = 256
)

// GridRequest describes a spot×time heatmap over a base contract. Every cell
// re-prices a shifted copy of the base through one model; all other contract
// fields stay fixed.
type GridRequest struct {
	Base       models.OptionContract
	Model      string
	SpotMin    float64 // multiplier applied to the base spot
	SpotMax    float64
	TimeMin    float64 // years
	TimeMax    float64
	Resolution int
	Config     models.ModelConfig
}

// GridResult holds the computed heatmap. Prices[i][j] is the price at
// Times[i] and Spots[j]; both axes ascend.
type GridResult struct {
	Model  string      `json:"model"`
	Spots  []float64   `json:"spot_prices"`
	Times  []float64   `json:"times"`
	Prices [][]float64 `json:"prices"`
}

type gridJob struct {
	row, col int
	contract models.OptionContract
}

type gridCell struct {
	row, col int
	price    float64
	err      error
}

// ComputeGrid prices the full heatmap on a worker pool sized by the CPU
// count. Cells land at their (time, spot) coordinates regardless of
// completion order. The progress hook, when non-nil, fires once per
// completed cell.
func (e *Engine) ComputeGrid(req GridRequest, progress func()) (GridResult, error) {
	if _, ok := e.models[req.Model]; !ok {
		return GridResult{}, fmt.Errorf("%w: %q", ErrUnknownModel, req.Model)
	}
	if msgs := validateGrid(req); len(msgs) > 0 {
		return GridResult{}, &ValidationError{Violations: msgs}
	}

	n := ClampResolution(req.Resolution)
	spots := linspace(req.Base.SpotPrice*req.SpotMin, req.Base.SpotPrice*req.SpotMax, n)
	times := linspace(req.TimeMin, req.TimeMax, n)

	prices := make([][]float64, n)
	for i := range prices {
		prices[i] = make([]float64, n)
	}

	jobs := make(chan gridJob, gridJobBuffer)
	cells := make(chan gridCell, gridJobBuffer)

	numWorkers := runtime.NumCPU()
	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				result, err := e.CalculateSingle(req.Model, job.contract, req.Config)
				cells <- gridCell{row: job.row, col: job.col, price: result.Price, err: err}
			}
		}()
	}

	go func() {
		for i, t := range times {
			for j, s := range spots {
				jobs <- gridJob{
					row:      i,
					col:      j,
					contract: req.Base.WithSpot(s).WithTimeToExpiry(t),
				}
			}
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(cells)
	}()

	var firstErr error
	for cell := range cells {
		if cell.err != nil && firstErr == nil {
			firstErr = cell.err
		}
		prices[cell.row][cell.col] = cell.price
		if progress != nil {
			progress()
		}
	}
	if firstErr != nil {
		return GridResult{}, firstErr
	}

	return GridResult{Model: req.Model, Spots: spots, Times: times, Prices: prices}, nil
}

// validateGrid runs the strict contract check on the base plus the grid's
// own range constraints.
func validateGrid(req GridRequest) []string {
	msgs := allMessages(Validate(req.Base))
	if req.SpotMin <= 0 {
		msgs = append(msgs, "Spot multiplier lower bound must be positive")
	}
	if req.SpotMax < req.SpotMin {
		msgs = append(msgs, "Spot multiplier range must be ordered")
	}
	if req.TimeMin <= 0 {
		msgs = append(msgs, "Time range lower bound must be positive")
	}
	if req.TimeMax < req.TimeMin {
		msgs = append(msgs, "Time range must be ordered")
	}
	return msgs
}

// ClampResolution bounds a requested grid resolution to the supported range.
func ClampResolution(n int) int {
	if n < minGridResolution {
		return minGridResolution
	}
	if n > maxGridResolution {
		return maxGridResolution
	}
	return n
}

func linspace(lo, hi float64, n int) []float64 {
	points := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range points {
		points[i] = lo + step*float64(i)
	}
	points[n-1] = hi
	return points
}
