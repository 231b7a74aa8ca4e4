// internal/risk/feedback/rules_test.go
package feedback

import (
	"testing"

	"loan-risk-advisor/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestExplain_HighRiskProfile(t *testing.T) {
	input := &models.ApplicationInput{
		LoanAmount:        50000,
		AnnualIncome:      40000, // ratio 1.25, below loan-to-income thresholds
		InterestRate:      15,
		DebtToIncomeRatio: 45,
		FicoScore:         600,
		EmploymentLength:  1,
		OpenAccounts:      12,
	}

	items := Explain(input)

	assert.Equal(t, []string{
		MsgDTIAboveRecommended,
		MsgHighInterestRate,
		MsgBelowIdealCredit,
		MsgShortEmployment,
		MsgManyOpenAccounts,
	}, items)
}

func TestExplain_LoanToIncomeTiers(t *testing.T) {
	tests := []struct {
		name   string
		loan   float64
		income float64
		want   string
	}{
		{"very high ratio", 90000, 20000, MsgVeryHighLoanToIncome},
		{"high ratio", 60000, 20000, MsgHighLoanToIncome},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := &models.ApplicationInput{
				LoanAmount:        tt.loan,
				AnnualIncome:      tt.income,
				InterestRate:      6,
				DebtToIncomeRatio: 20,
				FicoScore:         750,
				EmploymentLength:  5,
				OpenAccounts:      4,
			}
			items := Explain(input)
			assert.Equal(t, []string{tt.want}, items)
		})
	}
}

func TestExplain_DTITiers(t *testing.T) {
	base := func(dti float64) *models.ApplicationInput {
		return &models.ApplicationInput{
			LoanAmount:        10000,
			AnnualIncome:      80000,
			InterestRate:      6,
			DebtToIncomeRatio: dti,
			FicoScore:         750,
			EmploymentLength:  5,
			OpenAccounts:      4,
		}
	}

	assert.Equal(t, []string{MsgDTIAboveRecommended}, Explain(base(43.5)))
	assert.Equal(t, []string{MsgDTIElevated}, Explain(base(40)))
	// Exactly at the lower threshold does not fire.
	assert.Equal(t, []string{MsgGoodIndicators}, Explain(base(36)))
}

func TestExplain_PositiveProfile(t *testing.T) {
	input := &models.ApplicationInput{
		LoanAmount:        20000,
		AnnualIncome:      80000,
		InterestRate:      6,
		DebtToIncomeRatio: 20,
		FicoScore:         750,
		EmploymentLength:  5,
		OpenAccounts:      4,
	}

	items := Explain(input)

	assert.Equal(t, []string{MsgGoodIndicators}, items)
}

func TestExplain_SixMessagesScenario(t *testing.T) {
	// High-risk profile where every independent rule fires at once.
	input := &models.ApplicationInput{
		LoanAmount:        200000,
		AnnualIncome:      40000, // ratio 5, very high
		InterestRate:      15,
		DebtToIncomeRatio: 45,
		FicoScore:         600,
		EmploymentLength:  1,
		OpenAccounts:      12,
	}

	items := Explain(input)

	assert.Equal(t, []string{
		MsgVeryHighLoanToIncome,
		MsgDTIAboveRecommended,
		MsgHighInterestRate,
		MsgBelowIdealCredit,
		MsgShortEmployment,
		MsgManyOpenAccounts,
	}, items)
}

func TestExplain_Idempotent(t *testing.T) {
	input := &models.ApplicationInput{
		LoanAmount:        50000,
		AnnualIncome:      40000,
		InterestRate:      15,
		DebtToIncomeRatio: 45,
		FicoScore:         600,
		EmploymentLength:  1,
		OpenAccounts:      12,
	}

	first := Explain(input)
	second := Explain(input)

	assert.Equal(t, first, second)
}

func TestExplain_ZeroIncomeSkipsRatioRules(t *testing.T) {
	input := &models.ApplicationInput{
		LoanAmount:        50000,
		AnnualIncome:      0,
		InterestRate:      6,
		DebtToIncomeRatio: 20,
		FicoScore:         750,
		EmploymentLength:  5,
		OpenAccounts:      4,
	}

	items := Explain(input)

	assert.NotContains(t, items, MsgVeryHighLoanToIncome)
	assert.NotContains(t, items, MsgHighLoanToIncome)
}
