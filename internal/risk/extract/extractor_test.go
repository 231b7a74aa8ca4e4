// internal/risk/extract/extractor_test.go
package extract

import (
	"math"
	"testing"

	"loan-risk-advisor/internal/common/logger"

	"github.com/stretchr/testify/assert"
)

func TestExtractor_Extract_AllFieldsBound(t *testing.T) {
	e := New(logger.NewTestLogger(t))

	input := e.Extract(Values{
		"loanAmount":        "25000",
		"annualIncome":      "72,500",
		"interestRate":      "7.25",
		"debtToIncomeRatio": "28",
		"employmentLength":  "6",
		"ficoScore":         "712",
		"openAccounts":      "8",
		"term":              "36 months",
		"homeOwnership":     "RENT",
	})

	assert.Equal(t, 25000.0, input.LoanAmount)
	assert.Equal(t, 72500.0, input.AnnualIncome)
	assert.Equal(t, 7.25, input.InterestRate)
	assert.Equal(t, 28.0, input.DebtToIncomeRatio)
	assert.Equal(t, 6.0, input.EmploymentLength)
	assert.Equal(t, 712.0, input.FicoScore)
	assert.Equal(t, 8.0, input.OpenAccounts)
	assert.Equal(t, "36 months", input.Term)
	assert.Equal(t, "RENT", input.HomeOwnership)
}

func TestExtractor_Extract_OptionalDefaults(t *testing.T) {
	e := New(logger.NewTestLogger(t))

	input := e.Extract(Values{
		"loanAmount":        "10000",
		"annualIncome":      "50000",
		"interestRate":      "6",
		"debtToIncomeRatio": "20",
		"employmentLength":  "3",
		"term":              "60 months",
	})

	assert.Equal(t, float64(DefaultFicoScore), input.FicoScore)
	assert.Equal(t, float64(DefaultOpenAccounts), input.OpenAccounts)
	assert.Equal(t, DefaultHomeOwnership, input.HomeOwnership)
}

func TestExtractor_Extract_MalformedOptionalFallsBack(t *testing.T) {
	e := New(logger.NewTestLogger(t))

	input := e.Extract(Values{
		"loanAmount":   "10000",
		"annualIncome": "50000",
		"ficoScore":    "not-a-number",
		"openAccounts": "",
	})

	assert.Equal(t, float64(DefaultFicoScore), input.FicoScore)
	assert.Equal(t, float64(DefaultOpenAccounts), input.OpenAccounts)
}

func TestExtractor_Extract_MissingAndMalformedRequired(t *testing.T) {
	e := New(logger.NewTestLogger(t))

	input := e.Extract(Values{
		"loanAmount":   "abc",
		"annualIncome": "50000",
	})

	// Malformed reads as NaN, unbound as zero; both fail validation later.
	assert.True(t, math.IsNaN(input.LoanAmount))
	assert.Equal(t, 0.0, input.InterestRate)
	assert.Equal(t, 0.0, input.DebtToIncomeRatio)
}
