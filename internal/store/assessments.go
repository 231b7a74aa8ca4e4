// internal/store/assessments.go
package store

import (
	"context"
	"database/sql"
	"time"

	cerrors "loan-risk-advisor/internal/common/errors"
	"loan-risk-advisor/internal/common/logger"
	"loan-risk-advisor/internal/models"
)

// Assessment is one completed risk verdict kept for history.
type Assessment struct {
	ID          string                  `json:"id"`
	Input       models.ApplicationInput `json:"input"`
	Probability float64                 `json:"probability"`
	Tier        models.RiskTier         `json:"tier"`
	CreatedAt   time.Time               `json:"createdAt"`
}

const insertAssessment = `
	INSERT INTO assessments (
		id, loan_amount, annual_income, interest_rate, debt_to_income_ratio,
		employment_length, fico_score, open_accounts, term, home_ownership,
		probability, risk_tier, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

const selectRecent = `
	SELECT id, loan_amount, annual_income, interest_rate, debt_to_income_ratio,
		employment_length, fico_score, open_accounts, term, home_ownership,
		probability, risk_tier, created_at
	FROM assessments
	ORDER BY created_at DESC
	LIMIT $1`

// Assessments persists verdict history in Postgres.
type Assessments struct {
	db     *sql.DB
	logger logger.Logger
}

func NewAssessments(db *sql.DB, log logger.Logger) *Assessments {
	return &Assessments{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "assessment-store"}),
	}
}

// Insert records one assessment.
func (s *Assessments) Insert(ctx context.Context, a *Assessment) error {
	_, err := s.db.ExecContext(ctx, insertAssessment,
		a.ID,
		a.Input.LoanAmount,
		a.Input.AnnualIncome,
		a.Input.InterestRate,
		a.Input.DebtToIncomeRatio,
		a.Input.EmploymentLength,
		a.Input.FicoScore,
		a.Input.OpenAccounts,
		a.Input.Term,
		a.Input.HomeOwnership,
		a.Probability,
		string(a.Tier),
		a.CreatedAt,
	)
	if err != nil {
		return cerrors.NewDatabaseInsertFailedError(err)
	}
	return nil
}

// Recent returns the latest assessments, newest first.
func (s *Assessments) Recent(ctx context.Context, limit int) ([]Assessment, error) {
	rows, err := s.db.QueryContext(ctx, selectRecent, limit)
	if err != nil {
		return nil, cerrors.NewQueryExecutionFailedError("recent_assessments", err)
	}
	defer rows.Close()

	var out []Assessment
	for rows.Next() {
		var a Assessment
		var tier string
		if err := rows.Scan(
			&a.ID,
			&a.Input.LoanAmount,
			&a.Input.AnnualIncome,
			&a.Input.InterestRate,
			&a.Input.DebtToIncomeRatio,
			&a.Input.EmploymentLength,
			&a.Input.FicoScore,
			&a.Input.OpenAccounts,
			&a.Input.Term,
			&a.Input.HomeOwnership,
			&a.Probability,
			&tier,
			&a.CreatedAt,
		); err != nil {
			return nil, cerrors.NewQueryExecutionFailedError("recent_assessments", err)
		}
		a.Tier = models.RiskTier(tier)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, cerrors.NewQueryExecutionFailedError("recent_assessments", err)
	}
	return out, nil
}
