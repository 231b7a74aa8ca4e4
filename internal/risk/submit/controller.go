// internal/risk/submit/controller.go
package submit

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	cerrors "loan-risk-advisor/internal/common/errors"
	"loan-risk-advisor/internal/common/logger"
	"loan-risk-advisor/internal/common/metrics"
	"loan-risk-advisor/internal/common/observability"
	"loan-risk-advisor/internal/models"
	"loan-risk-advisor/internal/risk/classify"
	"loan-risk-advisor/internal/risk/extract"
	"loan-risk-advisor/internal/risk/feedback"
	"loan-risk-advisor/internal/risk/render"
	"loan-risk-advisor/internal/risk/validate"
	"loan-risk-advisor/internal/store"
)

// ErrSubmissionInFlight is returned when a submission is attempted while a
// previous one has not finished yet.
var ErrSubmissionInFlight = errors.New("a submission is already in progress")

// Predictor scores an application.
type Predictor interface {
	Predict(ctx context.Context, input *models.ApplicationInput) (*models.PredictionResponse, error)
}

// PredictionCache caches successful predictions keyed by input.
type PredictionCache interface {
	Get(ctx context.Context, input *models.ApplicationInput) (*models.PredictionResponse, bool)
	Set(ctx context.Context, input *models.ApplicationInput, resp *models.PredictionResponse)
}

// AssessmentStore keeps verdict history.
type AssessmentStore interface {
	Insert(ctx context.Context, a *store.Assessment) error
}

// HighRiskNotifier alerts on high tier verdicts.
type HighRiskNotifier interface {
	NotifyHighRisk(ctx context.Context, input *models.ApplicationInput, percent float64, feedback []string) error
}

// Controller drives one submission end to end: extract, validate, predict,
// classify, render. Cache, store and notifier are optional; failures in them
// never fail the submission.
type Controller struct {
	extractor *extract.Extractor
	renderer  *render.Renderer
	predictor Predictor
	cache     PredictionCache
	store     AssessmentStore
	notifier  HighRiskNotifier
	obs       *observability.Observability
	logger    logger.Logger

	inFlight atomic.Bool
}

// Option configures optional collaborators on the controller.
type Option func(*Controller)

func WithCache(c PredictionCache) Option {
	return func(ctrl *Controller) { ctrl.cache = c }
}

func WithStore(s AssessmentStore) Option {
	return func(ctrl *Controller) { ctrl.store = s }
}

func WithNotifier(n HighRiskNotifier) Option {
	return func(ctrl *Controller) { ctrl.notifier = n }
}

func WithObservability(o *observability.Observability) Option {
	return func(ctrl *Controller) { ctrl.obs = o }
}

func NewController(extractor *extract.Extractor, renderer *render.Renderer, predictor Predictor, log logger.Logger, opts ...Option) *Controller {
	c := &Controller{
		extractor: extractor,
		renderer:  renderer,
		predictor: predictor,
		logger:    log.WithFields(map[string]interface{}{"component": "submission-controller"}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit runs the full pipeline for one field source and returns the render
// state the caller should present. Only one submission may run at a time;
// concurrent attempts get ErrSubmissionInFlight without touching any state.
func (c *Controller) Submit(ctx context.Context, src extract.FieldSource) (render.State, error) {
	if !c.inFlight.CompareAndSwap(false, true) {
		return c.renderer.State(), ErrSubmissionInFlight
	}
	defer c.inFlight.Store(false)

	start := time.Now()
	input := c.extractor.Extract(src)

	// A validation failure blocks before any visible state transition.
	if !validate.Validate(input) {
		metrics.SubmissionsTotal.WithLabelValues("rejected").Inc()
		metrics.SubmissionFailures.WithLabelValues(string(cerrors.ErrCodeValidationFailed)).Inc()
		if c.obs != nil {
			c.obs.RecordSubmission(ctx, "rejected")
		}
		return c.renderer.State(), cerrors.NewValidationFailedError(validate.RequiredFieldsMessage)
	}

	c.renderer.SetLoading()
	defer c.renderer.ClearLoading()

	resp, err := c.predict(ctx, input)
	if err != nil {
		code := cerrors.CodeOf(err)
		message := err.Error()
		if std, ok := cerrors.AsStandard(err); ok {
			message = std.Message
		}
		metrics.SubmissionsTotal.WithLabelValues("failed").Inc()
		metrics.SubmissionFailures.WithLabelValues(string(code)).Inc()
		if c.obs != nil {
			c.obs.RecordSubmission(ctx, "failed")
			c.obs.RecordSubmissionDuration(ctx, time.Since(start), "failed")
		}
		c.logger.WithError(err).Error("submission failed", map[string]interface{}{"error_code": string(code)})
		return c.renderer.RenderError(message), err
	}

	tier := classify.Classify(resp)
	reasons := feedback.Explain(input)
	state := c.renderer.RenderResult(tier, resp.Percent(), reasons)

	metrics.SubmissionsTotal.WithLabelValues("success").Inc()
	metrics.RiskTierTotal.WithLabelValues(string(tier)).Inc()
	if c.obs != nil {
		c.obs.RecordSubmission(ctx, "success")
		c.obs.RecordSubmissionDuration(ctx, time.Since(start), "success")
	}

	c.persist(ctx, input, resp, tier)
	c.notify(ctx, input, resp, tier, reasons)

	return state, nil
}

// State exposes the current render state without submitting.
func (c *Controller) State() render.State {
	return c.renderer.State()
}

func (c *Controller) predict(ctx context.Context, input *models.ApplicationInput) (*models.PredictionResponse, error) {
	if c.cache != nil {
		if resp, ok := c.cache.Get(ctx, input); ok {
			metrics.PredictionCacheHits.Inc()
			return resp, nil
		}
		metrics.PredictionCacheMisses.Inc()
	}

	start := time.Now()
	resp, err := c.predictor.Predict(ctx, input)
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	metrics.PredictionDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		c.cache.Set(ctx, input, resp)
	}
	return resp, nil
}

func (c *Controller) persist(ctx context.Context, input *models.ApplicationInput, resp *models.PredictionResponse, tier models.RiskTier) {
	if c.store == nil {
		return
	}
	a := &store.Assessment{
		ID:          uuid.NewString(),
		Input:       *input,
		Probability: resp.Probability,
		Tier:        tier,
		CreatedAt:   time.Now().UTC(),
	}
	if err := c.store.Insert(ctx, a); err != nil {
		c.logger.WithError(err).Warn("assessment history insert failed", map[string]interface{}{"assessment_id": a.ID})
	}
}

func (c *Controller) notify(ctx context.Context, input *models.ApplicationInput, resp *models.PredictionResponse, tier models.RiskTier, reasons []string) {
	if c.notifier == nil || tier != models.TierHigh {
		return
	}
	if err := c.notifier.NotifyHighRisk(ctx, input, resp.Percent(), reasons); err != nil {
		c.logger.WithError(err).Warn("high risk notification failed", nil)
	}
}
