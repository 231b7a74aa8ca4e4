// internal/models/application.go
package models

// RiskTier is the classified severity of predicted default risk.
type RiskTier string

const (
	TierLow    RiskTier = "low"
	TierMedium RiskTier = "medium"
	TierHigh   RiskTier = "high"
)

// ApplicationInput is the typed applicant record captured for one submission
// attempt. It is created fresh per attempt and never mutated afterwards.
type ApplicationInput struct {
	LoanAmount        float64 `json:"loanAmount"`
	AnnualIncome      float64 `json:"annualIncome"`
	InterestRate      float64 `json:"interestRate"`
	DebtToIncomeRatio float64 `json:"debtToIncomeRatio"` // percentage scale, 36 means 36%
	EmploymentLength  float64 `json:"employmentLength"`  // years
	FicoScore         float64 `json:"ficoScore"`
	OpenAccounts      float64 `json:"openAccounts"`
	Term              string  `json:"term"`
	HomeOwnership     string  `json:"homeOwnership"`
}

// PredictionResponse is the prediction service's reply for one submission.
type PredictionResponse struct {
	Status      string  `json:"status"`
	Probability float64 `json:"probability"`
	Prediction  int     `json:"prediction"`
	RiskLevel   string  `json:"risk_level,omitempty"`
	Error       string  `json:"error,omitempty"`
}

// Percent returns the default probability on the 0-100 scale, full precision.
func (r *PredictionResponse) Percent() float64 {
	return r.Probability * 100
}

// Succeeded reports whether the service explicitly marked the call successful.
// Anything else means the Error field, if set, is the authoritative message.
func (r *PredictionResponse) Succeeded() bool {
	return r.Status == "success"
}
