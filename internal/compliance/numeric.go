package compliance

import (
	"fmt"

	"agritrace/pkg/validator"

	"github.com/shopspring/decimal"
)

// Numeric bounds enforced before any figure reaches a report document.
var (
	percentZero    = decimal.Zero
	percentHundred = decimal.NewFromInt(100)
)

// ValidateRiskScore ensures a risk score lies in [0.0, 1.0].
func ValidateRiskScore(score float64, field string) (float64, error) {
	if score < 0.0 || score > 1.0 {
		return 0, newValidationError(field, fmt.Sprintf("risk score %v out of range [0.0, 1.0]", score))
	}
	return score, nil
}

// ValidateYieldPercentage ensures a yield percentage lies in [0, 100].
func ValidateYieldPercentage(pct decimal.Decimal) (decimal.Decimal, error) {
	return validatePercentage(pct, "yield_percentage")
}

// ValidateWastePercentage ensures a waste percentage lies in [0, 100].
func ValidateWastePercentage(pct decimal.Decimal) (decimal.Decimal, error) {
	return validatePercentage(pct, "waste_percentage")
}

func validatePercentage(pct decimal.Decimal, field string) (decimal.Decimal, error) {
	if pct.LessThan(percentZero) || pct.GreaterThan(percentHundred) {
		return decimal.Zero, newValidationError(field, fmt.Sprintf("percentage %s out of range [0, 100]", pct))
	}
	return pct, nil
}

// ValidateYieldWasteSum rejects yield/waste pairs that account for more than
// the full input mass.
func ValidateYieldWasteSum(yield, waste decimal.Decimal) error {
	if yield.Add(waste).GreaterThan(percentHundred) {
		return newValidationError("yield_waste_sum",
			fmt.Sprintf("yield %s + waste %s exceeds 100", yield, waste))
	}
	return nil
}

// ValidateHSCode ensures the code matches the harmonized system format,
// e.g. "151110" or "1511.10.00".
func ValidateHSCode(code string) (string, error) {
	if code == "" {
		return "", newValidationError("hs_code", "hs code is required")
	}
	if !validator.IsHSCode(code) {
		return "", newValidationError("hs_code", fmt.Sprintf("malformed hs code %q", code))
	}
	return code, nil
}

// ValidateQuantity ensures a quantity is strictly positive.
func ValidateQuantity(qty decimal.Decimal, field string) (decimal.Decimal, error) {
	if !qty.IsPositive() {
		return decimal.Zero, newValidationError(field, fmt.Sprintf("quantity %s must be positive", qty))
	}
	return qty, nil
}

// ValidateSupplyChainDepth ensures the step count is within the configured
// ceiling.
func ValidateSupplyChainDepth(depth, maxDepth int) (int, error) {
	if depth < 0 {
		return 0, newValidationError("supply_chain_depth", fmt.Sprintf("depth %d is negative", depth))
	}
	if depth > maxDepth {
		return 0, newValidationError("supply_chain_depth",
			fmt.Sprintf("depth %d exceeds maximum %d", depth, maxDepth))
	}
	return depth, nil
}
