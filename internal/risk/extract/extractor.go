// internal/risk/extract/extractor.go
package extract

import (
	"math"
	"strconv"
	"strings"

	"loan-risk-advisor/internal/common/logger"
	"loan-risk-advisor/internal/models"
)

// Defaults applied when an optional field has no bound source.
const (
	DefaultFicoScore     = 700
	DefaultOpenAccounts  = 5
	DefaultHomeOwnership = "MORTGAGE"
)

// FieldSource is the explicit input binding handed to the extractor. The
// engine never reaches into ambient state; whatever form or request the
// surrounding application owns is adapted to this interface.
type FieldSource interface {
	// Value returns the raw text for a named field and whether the field
	// is bound at all.
	Value(name string) (string, bool)
}

// Values is a map-backed FieldSource.
type Values map[string]string

func (v Values) Value(name string) (string, bool) {
	raw, ok := v[name]
	return raw, ok
}

type Extractor struct {
	logger logger.Logger
}

func New(log logger.Logger) *Extractor {
	return &Extractor{
		logger: log.WithFields(map[string]interface{}{"component": "extractor"}),
	}
}

// Extract reads one ApplicationInput from src. Required numerics that are
// unbound read as 0 and malformed ones as NaN; both fail validation later,
// so extraction itself never errors and has no side effects.
func (e *Extractor) Extract(src FieldSource) *models.ApplicationInput {
	input := &models.ApplicationInput{
		LoanAmount:        e.requiredNumber(src, "loanAmount"),
		AnnualIncome:      e.requiredNumber(src, "annualIncome"),
		InterestRate:      e.requiredNumber(src, "interestRate"),
		DebtToIncomeRatio: e.requiredNumber(src, "debtToIncomeRatio"),
		EmploymentLength:  e.requiredNumber(src, "employmentLength"),
		FicoScore:         e.optionalNumber(src, "ficoScore", DefaultFicoScore),
		OpenAccounts:      e.optionalNumber(src, "openAccounts", DefaultOpenAccounts),
		Term:              e.text(src, "term", ""),
		HomeOwnership:     e.text(src, "homeOwnership", DefaultHomeOwnership),
	}

	e.logger.Debug("input extracted", map[string]interface{}{
		"loanAmount":   input.LoanAmount,
		"annualIncome": input.AnnualIncome,
	})

	return input
}

func (e *Extractor) requiredNumber(src FieldSource, name string) float64 {
	raw, ok := src.Value(name)
	if !ok {
		return 0
	}
	value, err := parseNumber(raw)
	if err != nil {
		return math.NaN()
	}
	return value
}

// optionalNumber falls back to def when the field is unbound or unreadable,
// so the same engine serves forms with different field sets.
func (e *Extractor) optionalNumber(src FieldSource, name string, def float64) float64 {
	raw, ok := src.Value(name)
	if !ok {
		return def
	}
	value, err := parseNumber(raw)
	if err != nil {
		return def
	}
	return value
}

func (e *Extractor) text(src FieldSource, name, def string) string {
	raw, ok := src.Value(name)
	if !ok || strings.TrimSpace(raw) == "" {
		return def
	}
	return strings.TrimSpace(raw)
}

func parseNumber(raw string) (float64, error) {
	cleaned := strings.ReplaceAll(raw, ",", "")
	cleaned = strings.TrimSpace(cleaned)
	return strconv.ParseFloat(cleaned, 64)
}
