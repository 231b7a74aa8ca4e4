// internal/risk/render/renderer.go
package render

import (
	"fmt"
	"sync"
	"time"

	"loan-risk-advisor/internal/common/logger"
	"loan-risk-advisor/internal/models"
	"loan-risk-advisor/internal/risk/classify"
)

// Phase is the renderer's presentation state. Exactly one phase is active
// at any time; transitions drive what the output region shows.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseResult  Phase = "result"
	PhaseError   Phase = "error"
)

// IndicatorRampDuration is the fixed duration over which the progress
// indicator fills from 0 to its target percent after insertion. It is a
// presentation guarantee carried with the state, not a computed value.
const IndicatorRampDuration = 1200 * time.Millisecond

const (
	ErrorHeader    = "Prediction Failed"
	ErrorRetryHint = "Please try submitting the application again."
)

// Indicator is the visual progress bar for a success state.
type Indicator struct {
	Percent    float64 `json:"percent"`
	RampFrom   float64 `json:"rampFrom"`
	RampMillis int64   `json:"rampMillis"`
}

// Result is one of the three styled success states.
type Result struct {
	Tier           models.RiskTier `json:"tier"`
	Percent        float64         `json:"percent"`
	Headline       string          `json:"headline"`
	Description    string          `json:"description"`
	Recommendation string          `json:"recommendation"`
	Feedback       []string        `json:"feedback"`
	Indicator      Indicator       `json:"indicator"`
}

// ErrorView is the terminal error state. It carries no tier and no indicator.
type ErrorView struct {
	Header    string `json:"header"`
	Message   string `json:"message"`
	RetryHint string `json:"retryHint"`
}

// State is the renderer's externally visible state: exactly one of idle,
// loading, result or error.
type State struct {
	Phase  Phase      `json:"phase"`
	Result *Result    `json:"result,omitempty"`
	Error  *ErrorView `json:"error,omitempty"`
}

var tierLabels = map[models.RiskTier]string{
	models.TierLow:    "Low Risk of Default",
	models.TierMedium: "Medium Risk of Default",
	models.TierHigh:   "High Risk of Default",
}

var tierDescriptions = map[models.RiskTier]string{
	models.TierLow:    "The model assessed a low likelihood that this applicant will default.",
	models.TierMedium: "The model assessed a moderate likelihood that this applicant will default.",
	models.TierHigh:   "The model assessed a high likelihood that this applicant will default.",
}

var tierRecommendations = map[models.RiskTier]string{
	models.TierLow:    "Approve at standard terms.",
	models.TierMedium: "Approve with adjusted terms, such as a higher rate or a shorter term.",
	models.TierHigh:   "Reject the application or require additional collateral.",
}

// Renderer owns the RenderState for the output region.
type Renderer struct {
	mu     sync.Mutex
	state  State
	logger logger.Logger
}

func New(log logger.Logger) *Renderer {
	return &Renderer{
		state:  State{Phase: PhaseIdle},
		logger: log.WithFields(map[string]interface{}{"component": "renderer"}),
	}
}

// State returns a snapshot of the current render state.
func (r *Renderer) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// SetLoading shows the loading indicator and hides any prior result.
func (r *Renderer) SetLoading() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = State{Phase: PhaseLoading}
}

// ClearLoading restores idle when the loading view was never replaced by a
// result or error. Deferred by the submission controller so the indicator
// clears on every exit path, including panics in the result branch.
func (r *Renderer) ClearLoading() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state.Phase == PhaseLoading {
		r.state = State{Phase: PhaseIdle}
	}
}

// RenderResult composes the success state for a classified response. The
// headline carries the percent to one decimal; the indicator declares its
// 0-to-percent ramp.
func (r *Renderer) RenderResult(tier models.RiskTier, percent float64, feedback []string) State {
	result := &Result{
		Tier:           tier,
		Percent:        percent,
		Headline:       fmt.Sprintf("%s: %s%%", tierLabels[tier], classify.FormatPercent(percent)),
		Description:    tierDescriptions[tier],
		Recommendation: tierRecommendations[tier],
		Feedback:       feedback,
		Indicator: Indicator{
			Percent:    percent,
			RampFrom:   0,
			RampMillis: IndicatorRampDuration.Milliseconds(),
		},
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = State{Phase: PhaseResult, Result: result}

	r.logger.Debug("result rendered", map[string]interface{}{
		"tier":    string(tier),
		"percent": percent,
	})

	return r.state
}

// RenderError composes the terminal error state with the failure message.
func (r *Renderer) RenderError(message string) State {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = State{
		Phase: PhaseError,
		Error: &ErrorView{
			Header:    ErrorHeader,
			Message:   message,
			RetryHint: ErrorRetryHint,
		},
	}
	return r.state
}

// Reset returns the renderer to idle.
func (r *Renderer) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = State{Phase: PhaseIdle}
}
