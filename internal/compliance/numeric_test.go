package compliance

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRiskScore(t *testing.T) {
	for _, score := range []float64{0.0, 0.5, 1.0} {
		got, err := ValidateRiskScore(score, "deforestation_risk")
		require.NoError(t, err)
		assert.Equal(t, score, got)
	}

	for _, score := range []float64{-0.01, 1.01, 42} {
		_, err := ValidateRiskScore(score, "deforestation_risk")
		require.Error(t, err)
		assert.Equal(t, KindValidation, KindOf(err))
	}
}

func TestValidatePercentages(t *testing.T) {
	valid := decimal.RequireFromString("87")
	got, err := ValidateYieldPercentage(valid)
	require.NoError(t, err)
	assert.True(t, got.Equal(valid))

	_, err = ValidateYieldPercentage(decimal.RequireFromString("100.01"))
	assert.Error(t, err)

	_, err = ValidateWastePercentage(decimal.RequireFromString("-1"))
	assert.Error(t, err)
}

func TestValidateYieldWasteSum(t *testing.T) {
	// 87 + 13 = 100 passes the boundary exactly
	err := ValidateYieldWasteSum(decimal.RequireFromString("87"), decimal.RequireFromString("13"))
	assert.NoError(t, err)

	err = ValidateYieldWasteSum(decimal.RequireFromString("87"), decimal.RequireFromString("13.01"))
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestValidateHSCode(t *testing.T) {
	for _, code := range []string{"1511.10.00", "151110", "1511", "1801.00"} {
		got, err := ValidateHSCode(code)
		require.NoError(t, err, code)
		assert.Equal(t, code, got)
	}

	for _, code := range []string{"", "abc", "15", "1511.1", "1511.10.00."} {
		_, err := ValidateHSCode(code)
		assert.Error(t, err, code)
	}
}

func TestValidateQuantity(t *testing.T) {
	got, err := ValidateQuantity(decimal.RequireFromString("1000"), "input_quantity")
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("1000")))

	for _, qty := range []string{"0", "-5"} {
		_, err := ValidateQuantity(decimal.RequireFromString(qty), "input_quantity")
		assert.Error(t, err, qty)
	}
}

func TestValidateSupplyChainDepth(t *testing.T) {
	got, err := ValidateSupplyChainDepth(2, 20)
	require.NoError(t, err)
	assert.Equal(t, 2, got)

	_, err = ValidateSupplyChainDepth(-1, 20)
	assert.Error(t, err)

	_, err = ValidateSupplyChainDepth(21, 20)
	assert.Error(t, err)
}
