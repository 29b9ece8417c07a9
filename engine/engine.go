package engine

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/quantdash/optpricer/models"
)

var log = logrus.New()

// SetLogger replaces the package logger.
func SetLogger(logger *logrus.Logger) {
	log = logger
}

// Engine owns one instance of each pricing model and dispatches requests to
// them. It holds no per-request state; a single Engine is safe for
// concurrent use.
type Engine struct {
	models map[string]models.PricingModel
	order  []string
}

func New() *Engine {
	return NewWithModels(map[string]models.PricingModel{
		models.ModelBlackScholes: models.NewBlackScholesModel(),
		models.ModelBinomial:     models.NewBinomialTreeModel(),
		models.ModelMonteCarlo:   models.NewMonteCarloModel(),
	})
}

// NewWithModels builds an engine over an explicit model set. The multi-model
// ordering follows the canonical identifier order for whichever of the three
// standard identifiers are present.
func NewWithModels(registry map[string]models.PricingModel) *Engine {
	var order []string
	for _, name := range []string{models.ModelBlackScholes, models.ModelBinomial, models.ModelMonteCarlo} {
		if _, ok := registry[name]; ok {
			order = append(order, name)
		}
	}
	return &Engine{models: registry, order: order}
}

// ModelNames returns the registered identifiers in multi-model run order.
func (e *Engine) ModelNames() []string {
	names := make([]string, len(e.order))
	copy(names, e.order)
	return names
}

// AllModelsResponse is the aggregate of one multi-model pricing run.
// Violations carries advisory warnings on success, or the full violation
// list when hard constraints rejected the contract (Results empty).
type AllModelsResponse struct {
	Results    []models.PricingResult   `json:"results"`
	Comparison models.ComparisonMetrics `json:"comparison"`
	Violations []string                 `json:"violations,omitempty"`
}

// CalculateAll validates the contract, runs every registered model, and
// aggregates comparison metrics over the models that succeeded. Models run
// concurrently but results keep the fixed Analytical, Lattice, Simulation
// order. A failing model is logged and omitted; it never aborts its siblings.
func (e *Engine) CalculateAll(c models.OptionContract, cfg models.ModelConfig) AllModelsResponse {
	hard, warnings := Validate(c)
	if len(hard) > 0 {
		return AllModelsResponse{Violations: allMessages(hard, warnings)}
	}

	cfg = cfg.Clamped()
	slots := make([]*models.PricingResult, len(e.order))

	var g errgroup.Group
	for i, name := range e.order {
		i, name := i, name
		g.Go(func() error {
			result, err := e.invoke(name, c, cfg)
			if err != nil {
				log.WithField("model", name).WithError(err).Error("model computation failed")
				return nil
			}
			slots[i] = &result
			return nil
		})
	}
	_ = g.Wait()

	results := make([]models.PricingResult, 0, len(slots))
	for _, r := range slots {
		if r != nil {
			results = append(results, *r)
		}
	}

	return AllModelsResponse{
		Results:    results,
		Comparison: Comparison(results),
		Violations: warnings,
	}
}

// CalculateSingle dispatches one pricing run by model identifier. The caller
// owns validation on this path.
func (e *Engine) CalculateSingle(name string, c models.OptionContract, cfg models.ModelConfig) (models.PricingResult, error) {
	if _, ok := e.models[name]; !ok {
		return models.PricingResult{}, fmt.Errorf("%w: %q", ErrUnknownModel, name)
	}
	return e.invoke(name, c, cfg.Clamped())
}

// CalculateGreeks is the strict single-model path: any validation message,
// hard or advisory, rejects the request.
func (e *Engine) CalculateGreeks(name string, c models.OptionContract, cfg models.ModelConfig) (models.GreeksSet, error) {
	model, ok := e.models[name]
	if !ok {
		return models.GreeksSet{}, fmt.Errorf("%w: %q", ErrUnknownModel, name)
	}

	if msgs := allMessages(Validate(c)); len(msgs) > 0 {
		return models.GreeksSet{}, &ValidationError{Violations: msgs}
	}

	greeks, err := model.CalculateGreeks(c, cfg.Clamped())
	if err != nil {
		return models.GreeksSet{}, &ModelError{Model: name, Err: err}
	}
	return greeks, nil
}

// invoke runs one model with a panic guard: an unexpected numerical panic is
// downgraded to a ModelError so the multi-model fold can drop just that slot.
func (e *Engine) invoke(name string, c models.OptionContract, cfg models.ModelConfig) (result models.PricingResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &ModelError{Model: name, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	result, err = e.models[name].Calculate(c, cfg)
	if err != nil {
		return models.PricingResult{}, &ModelError{Model: name, Err: err}
	}
	return result, nil
}
