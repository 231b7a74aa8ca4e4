// internal/model/mock.go
package model

import (
	"math"

	"loan-risk-advisor/internal/models"
)

// factor weights for the heuristic scorer. They sum to 1.0 so the raw
// score lands in [0, 1] before clamping.
const (
	weightLoanToIncome = 0.25
	weightDTI          = 0.25
	weightInterest     = 0.15
	weightEmployment   = 0.15
	weightFico         = 0.20
)

// Scorer is a heuristic stand-in for a trained default model. It weighs
// the same ratios an underwriter would look at and maps the score onto
// the standard probability thresholds.
type Scorer struct{}

func NewScorer() *Scorer {
	return &Scorer{}
}

// Score produces the default prediction for one application. prediction is
// 1 when the score crosses 0.5, probability is the clamped risk score, and
// riskLevel is the label for the score's tier.
func (s *Scorer) Score(input *models.ApplicationInput) (prediction int, probability float64, riskLevel string) {
	// loan-to-income saturates at 4x income, the usual mortgage ceiling
	loanToIncome := 0.0
	if input.AnnualIncome > 0 {
		loanToIncome = input.LoanAmount / input.AnnualIncome
	}
	loanToIncomeFactor := math.Min(loanToIncome/4, 1.0) * weightLoanToIncome

	// DTI saturates at the 43% qualified-mortgage limit
	dtiFactor := math.Min(input.DebtToIncomeRatio/43, 1.0) * weightDTI

	interestFactor := math.Min(input.InterestRate/15, 1.0) * weightInterest

	// longer employment and higher FICO reduce the score
	employmentFactor := (1 - math.Min(input.EmploymentLength/10, 1.0)) * weightEmployment
	ficoFactor := (1 - math.Min((input.FicoScore-300)/550, 1.0)) * weightFico

	score := loanToIncomeFactor + dtiFactor + interestFactor + employmentFactor + ficoFactor
	score = math.Max(0, math.Min(1, score))

	prediction = 0
	if score > 0.5 {
		prediction = 1
	}
	return prediction, score, RiskLevel(score)
}

// RiskLevel maps a default probability onto its label.
func RiskLevel(probability float64) string {
	switch {
	case probability > 0.7:
		return "High"
	case probability > 0.4:
		return "Medium"
	default:
		return "Low"
	}
}
