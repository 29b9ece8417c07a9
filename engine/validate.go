package engine

import "github.com/quantdash/optpricer/models"

// Thresholds above which a contract is flagged as suspicious but still
// priceable on the multi-model path.
const (
	longExpiryYears = 10.0
	highVolatility  = 5.0 // 500%
)

// Validate checks the contract against its parameter constraints. Hard
// violations mean no model may be invoked; warnings are advisory on the
// multi-model path but fatal on the single-model Greeks path. Message order
// is stable.
func Validate(c models.OptionContract) (hard, warnings []string) {
	if c.SpotPrice <= 0 {
		hard = append(hard, "Spot price must be positive")
	}
	if c.StrikePrice <= 0 {
		hard = append(hard, "Strike price must be positive")
	}
	if c.TimeToExpiry <= 0 {
		hard = append(hard, "Time to expiry must be positive")
	}
	if c.Volatility <= 0 {
		hard = append(hard, "Volatility must be positive")
	}
	if c.DividendYield < 0 {
		hard = append(hard, "Dividend yield cannot be negative")
	}
	if c.OptionType != models.Call && c.OptionType != models.Put {
		hard = append(hard, "Option type must be 'call' or 'put'")
	}

	if c.TimeToExpiry > longExpiryYears {
		warnings = append(warnings, "Time to expiry seems unusually long (>10 years)")
	}
	if c.Volatility > highVolatility {
		warnings = append(warnings, "Volatility seems unusually high (>500%)")
	}

	return hard, warnings
}

func allMessages(hard, warnings []string) []string {
	if len(hard) == 0 && len(warnings) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(hard)+len(warnings))
	msgs = append(msgs, hard...)
	msgs = append(msgs, warnings...)
	return msgs
}
