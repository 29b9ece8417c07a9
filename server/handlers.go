package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quantdash/optpricer/engine"
	"github.com/quantdash/optpricer/models"
)

// ContractRequest carries the contract fields of a pricing request.
// option_type is accepted case-insensitively and normalized before it
// reaches the engine.
type ContractRequest struct {
	Symbol        string  `json:"symbol"`
	OptionType    string  `json:"option_type"`
	SpotPrice     float64 `json:"spot_price"`
	StrikePrice   float64 `json:"strike_price"`
	TimeToExpiry  float64 `json:"time_to_expiry"`
	RiskFreeRate  float64 `json:"risk_free_rate"`
	DividendYield float64 `json:"dividend_yield"`
	Volatility    float64 `json:"volatility"`
}

func (r ContractRequest) Contract() models.OptionContract {
	// An unrecognized type is passed through lowercased so validation can
	// report it rather than the parser swallowing it.
	optType, _ := models.ParseOptionType(r.OptionType)
	return models.OptionContract{
		SpotPrice:     r.SpotPrice,
		StrikePrice:   r.StrikePrice,
		TimeToExpiry:  r.TimeToExpiry,
		RiskFreeRate:  r.RiskFreeRate,
		DividendYield: r.DividendYield,
		Volatility:    r.Volatility,
		OptionType:    optType,
	}
}

// PriceRequest is the multi-model pricing request body.
type PriceRequest struct {
	ContractRequest
	BinomialSteps int `json:"binomial_steps"`
	Simulations   int `json:"monte_carlo_simulations"`
}

// HeatmapRequest is the grid request body.
type HeatmapRequest struct {
	ContractRequest
	Model         string  `json:"model"`
	SpotMin       float64 `json:"spot_min"`
	SpotMax       float64 `json:"spot_max"`
	TimeMin       float64 `json:"time_min"`
	TimeMax       float64 `json:"time_max"`
	Resolution    int     `json:"resolution"`
	BinomialSteps int     `json:"binomial_steps"`
	Simulations   int     `json:"monte_carlo_simulations"`
}

func (s *Server) config(steps, simulations int) models.ModelConfig {
	cfg := s.defaults
	if steps != 0 {
		cfg.BinomialSteps = steps
	}
	if simulations != 0 {
		cfg.Simulations = simulations
	}
	return cfg.Clamped()
}

func (s *Server) handlePrice(c *gin.Context) {
	var req PriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []string{"invalid request body: " + err.Error()}})
		return
	}

	resp := s.engine.CalculateAll(req.Contract(), s.config(req.BinomialSteps, req.Simulations))

	if len(resp.Results) == 0 {
		if len(resp.Violations) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"errors": resp.Violations})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"errors": []string{"all pricing models failed"}})
		return
	}

	// Keep warnings an array on the wire even when empty.
	warnings := resp.Violations
	if warnings == nil {
		warnings = []string{}
	}

	c.JSON(http.StatusOK, gin.H{
		"results":    roundResults(resp.Results),
		"comparison": roundComparison(resp.Comparison),
		"warnings":   warnings,
	})
}

func (s *Server) handleGreeks(c *gin.Context) {
	var req PriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []string{"invalid request body: " + err.Error()}})
		return
	}

	name := c.Param("model")
	greeks, err := s.engine.CalculateGreeks(name, req.Contract(), s.config(req.BinomialSteps, req.Simulations))
	if err != nil {
		s.renderEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"model":  name,
		"greeks": roundGreeks(greeks),
	})
}

func (s *Server) handleHeatmap(c *gin.Context) {
	var req HeatmapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []string{"invalid request body: " + err.Error()}})
		return
	}
	if req.Model == "" {
		req.Model = models.ModelBlackScholes
	}

	grid, err := s.engine.ComputeGrid(engine.GridRequest{
		Base:       req.Contract(),
		Model:      req.Model,
		SpotMin:    req.SpotMin,
		SpotMax:    req.SpotMax,
		TimeMin:    req.TimeMin,
		TimeMax:    req.TimeMax,
		Resolution: req.Resolution,
		Config:     s.config(req.BinomialSteps, req.Simulations),
	}, nil)
	if err != nil {
		s.renderEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"model":       grid.Model,
		"spot_prices": roundSlice(grid.Spots),
		"times":       roundSlice(grid.Times),
		"prices":      roundMatrix(grid.Prices),
	})
}

func (s *Server) renderEngineError(c *gin.Context, err error) {
	var validation *engine.ValidationError
	switch {
	case errors.Is(err, engine.ErrUnknownModel):
		c.JSON(http.StatusNotFound, gin.H{"errors": []string{err.Error()}})
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"errors": validation.Violations})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"errors": []string{err.Error()}})
	}
}
