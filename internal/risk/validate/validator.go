// internal/risk/validate/validator.go
package validate

import (
	"fmt"
	"math"

	"loan-risk-advisor/internal/models"
)

// RequiredFieldsMessage is the fixed message surfaced when a submission is
// blocked by missing or zero required fields.
const RequiredFieldsMessage = "Please check your input values. All fields are required."

// Validate returns true only if loanAmount, annualIncome, interestRate and
// debtToIncomeRatio are all present and non-zero/non-NaN.
//
// A value of exactly 0 reads as missing. That makes a genuine 0% interest
// rate or 0 DTI unsubmittable; the behavior is kept as an accepted quirk of
// the required-field check rather than silently fixed.
func Validate(input *models.ApplicationInput) bool {
	return present(input.LoanAmount) &&
		present(input.AnnualIncome) &&
		present(input.InterestRate) &&
		present(input.DebtToIncomeRatio)
}

func present(value float64) bool {
	return value != 0 && !math.IsNaN(value)
}

// Bounds describes the declared [min,max] range for one numeric field.
// Max nil means unbounded; ExclusiveMin rejects the minimum itself.
type Bounds struct {
	Min          float64
	Max          *float64
	ExclusiveMin bool
}

func maxOf(v float64) *float64 { return &v }

// fieldBounds declares the live per-field ranges. Default is min 0 with no
// upper bound; fields absent from the table use that default.
var fieldBounds = map[string]Bounds{
	"loanAmount":        {Min: 0, ExclusiveMin: true},
	"annualIncome":      {Min: 0, ExclusiveMin: true},
	"interestRate":      {Min: 0, Max: maxOf(100)},
	"debtToIncomeRatio": {Min: 0, Max: maxOf(100)},
	"employmentLength":  {Min: 0},
	"ficoScore":         {Min: 300, Max: maxOf(850)},
	"openAccounts":      {Min: 0},
}

// CheckField validates a single live numeric value against its declared
// bounds. A failure marks the field invalid for display purposes only; it
// never blocks a later submission attempt.
func CheckField(name string, value float64) error {
	bounds, ok := fieldBounds[name]
	if !ok {
		bounds = Bounds{Min: 0}
	}

	if math.IsNaN(value) {
		return fmt.Errorf("%s: not a number", name)
	}
	if bounds.ExclusiveMin && value <= bounds.Min {
		return fmt.Errorf("%s: must be greater than %g", name, bounds.Min)
	}
	if !bounds.ExclusiveMin && value < bounds.Min {
		return fmt.Errorf("%s: must be at least %g", name, bounds.Min)
	}
	if bounds.Max != nil && value > *bounds.Max {
		return fmt.Errorf("%s: must be at most %g", name, *bounds.Max)
	}
	return nil
}

// CheckAllFields runs the live bounds check over every numeric field of the
// input and returns the per-field failures.
func CheckAllFields(input *models.ApplicationInput) map[string]string {
	invalid := make(map[string]string)
	for name, value := range map[string]float64{
		"loanAmount":        input.LoanAmount,
		"annualIncome":      input.AnnualIncome,
		"interestRate":      input.InterestRate,
		"debtToIncomeRatio": input.DebtToIncomeRatio,
		"employmentLength":  input.EmploymentLength,
		"ficoScore":         input.FicoScore,
		"openAccounts":      input.OpenAccounts,
	} {
		if err := CheckField(name, value); err != nil {
			invalid[name] = err.Error()
		}
	}
	return invalid
}
