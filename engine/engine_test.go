package engine

import (
	"errors"
	"io"
	"math"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/quantdash/optpricer/models"
)

func init() {
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)
	SetLogger(quiet)
}

// stubModel counts invocations and returns a canned result, error, or panic.
type stubModel struct {
	calls    int
	result   models.PricingResult
	err      error
	panicMsg string
}

func (s *stubModel) Calculate(models.OptionContract, models.ModelConfig) (models.PricingResult, error) {
	s.calls++
	if s.panicMsg != "" {
		panic(s.panicMsg)
	}
	if s.err != nil {
		return models.PricingResult{}, s.err
	}
	return s.result, nil
}

func (s *stubModel) CalculateGreeks(models.OptionContract, models.ModelConfig) (models.GreeksSet, error) {
	s.calls++
	if s.err != nil {
		return models.GreeksSet{}, s.err
	}
	return s.result.Greeks, nil
}

func stubbed(name string, price float64) *stubModel {
	return &stubModel{result: models.PricingResult{ModelName: name, Price: price}}
}

func stubEngine() (*Engine, map[string]*stubModel) {
	stubs := map[string]*stubModel{
		models.ModelBlackScholes: stubbed("Black-Scholes", 10),
		models.ModelBinomial:     stubbed("Binomial Tree", 11),
		models.ModelMonteCarlo:   stubbed("Monte Carlo", 9),
	}
	registry := make(map[string]models.PricingModel, len(stubs))
	for name, stub := range stubs {
		registry[name] = stub
	}
	return NewWithModels(registry), stubs
}

func validContract() models.OptionContract {
	return models.OptionContract{
		SpotPrice:    100,
		StrikePrice:  100,
		TimeToExpiry: 1,
		RiskFreeRate: 0.05,
		Volatility:   0.20,
		OptionType:   models.Call,
	}
}

func TestCalculateAll_HardViolationInvokesNoModel(t *testing.T) {
	eng, stubs := stubEngine()

	c := validContract()
	c.SpotPrice = -1
	resp := eng.CalculateAll(c, models.ModelConfig{})

	if len(resp.Results) != 0 {
		t.Fatalf("expected empty result set, got %d results", len(resp.Results))
	}
	found := false
	for _, v := range resp.Violations {
		if v == "Spot price must be positive" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected spot-price violation, got %v", resp.Violations)
	}
	for name, stub := range stubs {
		if stub.calls != 0 {
			t.Errorf("model %s was invoked %d times despite hard violation", name, stub.calls)
		}
	}
}

func TestCalculateAll_PartialFailureKeepsOrder(t *testing.T) {
	eng, stubs := stubEngine()
	stubs[models.ModelBinomial].err = errors.New("tree blew up")

	resp := eng.CalculateAll(validContract(), models.ModelConfig{})

	if len(resp.Results) != 2 {
		t.Fatalf("expected 2 surviving results, got %d", len(resp.Results))
	}
	if resp.Results[0].ModelName != "Black-Scholes" || resp.Results[1].ModelName != "Monte Carlo" {
		t.Errorf("result order broken: %q, %q", resp.Results[0].ModelName, resp.Results[1].ModelName)
	}
}

func TestCalculateAll_PanicIsIsolated(t *testing.T) {
	eng, stubs := stubEngine()
	stubs[models.ModelMonteCarlo].panicMsg = "index out of range"

	resp := eng.CalculateAll(validContract(), models.ModelConfig{})

	if len(resp.Results) != 2 {
		t.Fatalf("expected 2 surviving results after panic, got %d", len(resp.Results))
	}
}

func TestCalculateAll_WarningsDoNotHalt(t *testing.T) {
	eng, _ := stubEngine()

	c := validContract()
	c.TimeToExpiry = 15
	resp := eng.CalculateAll(c, models.ModelConfig{})

	if len(resp.Results) != 3 {
		t.Fatalf("expected all models to run on advisory warning, got %d results", len(resp.Results))
	}
	if len(resp.Violations) != 1 || resp.Violations[0] != "Time to expiry seems unusually long (>10 years)" {
		t.Errorf("expected long-expiry warning, got %v", resp.Violations)
	}
}

func TestCalculateGreeks_StrictOnWarnings(t *testing.T) {
	eng, stubs := stubEngine()

	c := validContract()
	c.Volatility = 6.0
	_, err := eng.CalculateGreeks(models.ModelBlackScholes, c, models.ModelConfig{})

	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(validation.Violations) != 1 {
		t.Errorf("expected one violation, got %v", validation.Violations)
	}
	if stubs[models.ModelBlackScholes].calls != 0 {
		t.Error("model invoked despite advisory violation on the strict path")
	}
}

func TestCalculateSingle_UnknownModel(t *testing.T) {
	eng, _ := stubEngine()

	_, err := eng.CalculateSingle("quasi_monte_carlo", validContract(), models.ModelConfig{})
	if !errors.Is(err, ErrUnknownModel) {
		t.Errorf("expected ErrUnknownModel, got %v", err)
	}

	_, err = eng.CalculateGreeks("quasi_monte_carlo", validContract(), models.ModelConfig{})
	if !errors.Is(err, ErrUnknownModel) {
		t.Errorf("expected ErrUnknownModel from greeks path, got %v", err)
	}
}

func TestComparison_Arithmetic(t *testing.T) {
	results := []models.PricingResult{
		{ModelName: "Black-Scholes", Price: 10, ComputationTime: 0.001},
		{ModelName: "Binomial Tree", Price: 11, ComputationTime: 0.003},
		{ModelName: "Monte Carlo", Price: 9, ComputationTime: 0.002},
	}

	m := Comparison(results)

	if m.AveragePrice != 10 {
		t.Errorf("average: got %.6f, want 10", m.AveragePrice)
	}
	if m.MaxDifference != 1 {
		t.Errorf("max difference: got %.6f, want 1", m.MaxDifference)
	}
	if math.Abs(m.MaxDifferencePct-10) > 1e-9 {
		t.Errorf("max difference pct: got %.6f, want 10", m.MaxDifferencePct)
	}
	if m.PriceRange.Min != 9 || m.PriceRange.Max != 11 {
		t.Errorf("price range: got %+v, want {9 11}", m.PriceRange)
	}
	if m.FastestModel != "Black-Scholes" || m.SlowestModel != "Binomial Tree" {
		t.Errorf("fastest/slowest: got %q/%q", m.FastestModel, m.SlowestModel)
	}
	if math.Abs(m.TotalComputationTime-0.006) > 1e-12 {
		t.Errorf("total time: got %.6f, want 0.006", m.TotalComputationTime)
	}
}

func TestComparison_Empty(t *testing.T) {
	m := Comparison(nil)
	if m != (models.ComparisonMetrics{}) {
		t.Errorf("expected zero-value metrics, got %+v", m)
	}
}

func TestValidate_MessageOrder(t *testing.T) {
	c := models.OptionContract{
		SpotPrice:     -1,
		StrikePrice:   0,
		TimeToExpiry:  -0.5,
		DividendYield: -0.01,
		Volatility:    0,
		OptionType:    "straddle",
	}
	hard, warnings := Validate(c)
	want := []string{
		"Spot price must be positive",
		"Strike price must be positive",
		"Time to expiry must be positive",
		"Volatility must be positive",
		"Dividend yield cannot be negative",
		"Option type must be 'call' or 'put'",
	}
	if len(hard) != len(want) {
		t.Fatalf("expected %d hard violations, got %v", len(want), hard)
	}
	for i := range want {
		if hard[i] != want[i] {
			t.Errorf("violation %d: got %q, want %q", i, hard[i], want[i])
		}
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
}

// End-to-end over the real models: all three run, in fixed order, and agree
// on the ATM call.
func TestCalculateAll_RealModels(t *testing.T) {
	resp := New().CalculateAll(validContract(), models.ModelConfig{Simulations: models.MaxSimulations})

	if len(resp.Results) != 3 {
		t.Fatalf("expected 3 results, got %d (violations: %v)", len(resp.Results), resp.Violations)
	}
	order := []string{"Black-Scholes", "Binomial Tree", "Monte Carlo"}
	for i, name := range order {
		if resp.Results[i].ModelName != name {
			t.Errorf("result %d: got %q, want %q", i, resp.Results[i].ModelName, name)
		}
	}
	if resp.Comparison.MaxDifferencePct > 2 {
		t.Errorf("models disagree by %.4f%%, expected under 2%%", resp.Comparison.MaxDifferencePct)
	}
	if resp.Comparison.FastestModel == "" || resp.Comparison.SlowestModel == "" {
		t.Error("comparison metrics missing fastest/slowest identifiers")
	}
}

func TestCalculateAll_NonFinitePriceDropsModel(t *testing.T) {
	// A validation-passing contract whose discounted strike overflows: the
	// closed-form model must report an error and lose its slot while the
	// healthy sibling still prices.
	eng := NewWithModels(map[string]models.PricingModel{
		models.ModelBlackScholes: models.NewBlackScholesModel(),
		models.ModelMonteCarlo:   stubbed("Monte Carlo", 9),
	})

	c := validContract()
	c.StrikePrice = math.MaxFloat64
	c.RiskFreeRate = -1
	c.OptionType = models.Put

	resp := eng.CalculateAll(c, models.ModelConfig{})
	if len(resp.Violations) != 0 {
		t.Fatalf("contract should pass validation, got %v", resp.Violations)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("expected 1 surviving result, got %d", len(resp.Results))
	}
	if resp.Results[0].ModelName != "Monte Carlo" {
		t.Errorf("expected the healthy model to survive, got %q", resp.Results[0].ModelName)
	}
}
