// internal/risk/feedback/rules.go
package feedback

import "loan-risk-advisor/internal/models"

// Explanatory statements derived purely from applicant inputs. They comment
// on the application's own risk signals and never consult the model output.
const (
	MsgVeryHighLoanToIncome = "Loan amount is very high relative to annual income"
	MsgHighLoanToIncome     = "Loan amount is high relative to annual income"
	MsgDTIAboveRecommended  = "Debt-to-income ratio is above the recommended 43% limit"
	MsgDTIElevated          = "Debt-to-income ratio is elevated"
	MsgHighInterestRate     = "Interest rate is high, which increases repayment burden"
	MsgBelowIdealCredit     = "Credit score is below the ideal range"
	MsgShortEmployment      = "Employment history is short"
	MsgManyOpenAccounts     = "Number of open credit accounts is high"

	MsgGoodIndicators = "Financial profile shows good indicators"
)

// Explain evaluates the fixed threshold rules against the applicant's raw
// inputs and returns the statements for every rule that fired, in evaluation
// order (loan-to-income, DTI, interest rate, credit score, employment length,
// account count). The order reflects evaluation, not severity. When nothing
// fires, the single positive statement is returned instead.
//
// Explain is a pure function of the input: identical inputs always yield
// identical ordered output.
func Explain(input *models.ApplicationInput) []string {
	var items []string

	// Income of zero or less never reaches here through the validator, but
	// the rule engine stays safe on malformed input regardless.
	if input.AnnualIncome > 0 {
		loanToIncome := input.LoanAmount / input.AnnualIncome
		if loanToIncome > 4 {
			items = append(items, MsgVeryHighLoanToIncome)
		} else if loanToIncome > 2.5 {
			items = append(items, MsgHighLoanToIncome)
		}
	}

	if input.DebtToIncomeRatio > 43 {
		items = append(items, MsgDTIAboveRecommended)
	} else if input.DebtToIncomeRatio > 36 {
		items = append(items, MsgDTIElevated)
	}

	if input.InterestRate > 12 {
		items = append(items, MsgHighInterestRate)
	}

	if input.FicoScore < 650 {
		items = append(items, MsgBelowIdealCredit)
	}

	if input.EmploymentLength < 2 {
		items = append(items, MsgShortEmployment)
	}

	if input.OpenAccounts > 10 {
		items = append(items, MsgManyOpenAccounts)
	}

	if len(items) == 0 {
		return []string{MsgGoodIndicators}
	}
	return items
}
