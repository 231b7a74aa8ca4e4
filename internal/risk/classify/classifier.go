// internal/risk/classify/classifier.go
package classify

import (
	"strconv"
	"strings"

	"loan-risk-advisor/internal/models"
)

// Classify maps a prediction response to a risk tier.
//
// A non-empty risk_level supplied by the prediction service always takes
// precedence: it is lower-cased and matched by substring ("high" before
// "medium", anything else reads as low). Only when the service sends no
// label does the threshold policy on the percent apply: >70 is high,
// >40 is medium, otherwise low. The comparisons are strict, so exactly
// 70.0 classifies as medium and exactly 40.0 as low.
func Classify(resp *models.PredictionResponse) models.RiskTier {
	if level := strings.ToLower(strings.TrimSpace(resp.RiskLevel)); level != "" {
		switch {
		case strings.Contains(level, "high"):
			return models.TierHigh
		case strings.Contains(level, "medium"):
			return models.TierMedium
		default:
			return models.TierLow
		}
	}

	percent := resp.Percent()
	switch {
	case percent > 70:
		return models.TierHigh
	case percent > 40:
		return models.TierMedium
	default:
		return models.TierLow
	}
}

// FormatPercent renders a 0-100 percent value with one decimal for display.
// Comparisons always run on the full-precision value, never on this string.
func FormatPercent(percent float64) string {
	return strconv.FormatFloat(percent, 'f', 1, 64)
}
