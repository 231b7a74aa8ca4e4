// internal/risk/submit/controller_test.go
package submit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "loan-risk-advisor/internal/common/errors"
	"loan-risk-advisor/internal/common/logger"
	"loan-risk-advisor/internal/models"
	"loan-risk-advisor/internal/predictor"
	"loan-risk-advisor/internal/risk/extract"
	"loan-risk-advisor/internal/risk/feedback"
	"loan-risk-advisor/internal/risk/render"
	"loan-risk-advisor/internal/risk/validate"
	"loan-risk-advisor/internal/store"
)

type fakePredictor struct {
	resp    *models.PredictionResponse
	err     error
	calls   int
	blockOn chan struct{}
}

func (f *fakePredictor) Predict(_ context.Context, _ *models.ApplicationInput) (*models.PredictionResponse, error) {
	f.calls++
	if f.blockOn != nil {
		<-f.blockOn
	}
	return f.resp, f.err
}

type fakeCache struct {
	stored map[string]*models.PredictionResponse
	hit    *models.PredictionResponse
	sets   int
}

func (f *fakeCache) Get(_ context.Context, _ *models.ApplicationInput) (*models.PredictionResponse, bool) {
	if f.hit != nil {
		return f.hit, true
	}
	return nil, false
}

func (f *fakeCache) Set(_ context.Context, _ *models.ApplicationInput, _ *models.PredictionResponse) {
	f.sets++
}

type fakeStore struct {
	inserted []*store.Assessment
	err      error
}

func (f *fakeStore) Insert(_ context.Context, a *store.Assessment) error {
	f.inserted = append(f.inserted, a)
	return f.err
}

type fakeNotifier struct {
	calls   int
	percent float64
}

func (f *fakeNotifier) NotifyHighRisk(_ context.Context, _ *models.ApplicationInput, percent float64, _ []string) error {
	f.calls++
	f.percent = percent
	return nil
}

func validFields() extract.Values {
	return extract.Values{
		"loanAmount":        "10000",
		"annualIncome":      "80000",
		"interestRate":      "6.5",
		"debtToIncomeRatio": "20",
		"employmentLength":  "8",
		"ficoScore":         "760",
	}
}

func newController(t *testing.T, p Predictor, opts ...Option) (*Controller, *render.Renderer) {
	t.Helper()
	log := logger.NewTestLogger(t)
	renderer := render.New(log)
	ctrl := NewController(extract.New(log), renderer, p, log, opts...)
	return ctrl, renderer
}

func TestSubmitLowRiskResult(t *testing.T) {
	p := &fakePredictor{resp: &models.PredictionResponse{Status: "success", Probability: 0.12, Prediction: 0}}
	ctrl, renderer := newController(t, p)

	state, err := ctrl.Submit(context.Background(), validFields())
	require.NoError(t, err)

	assert.Equal(t, render.PhaseResult, state.Phase)
	require.NotNil(t, state.Result)
	assert.Equal(t, models.TierLow, state.Result.Tier)
	assert.Equal(t, "Low Risk of Default: 12.0%", state.Result.Headline)
	assert.Equal(t, []string{feedback.MsgGoodIndicators}, state.Result.Feedback)

	// the result survives the deferred loading cleanup
	assert.Equal(t, render.PhaseResult, renderer.State().Phase)
	assert.Equal(t, 1, p.calls)
}

func TestSubmitHighRiskNotifies(t *testing.T) {
	p := &fakePredictor{resp: &models.PredictionResponse{Status: "success", Probability: 0.85, Prediction: 1}}
	st := &fakeStore{}
	n := &fakeNotifier{}
	ctrl, _ := newController(t, p, WithStore(st), WithNotifier(n))

	state, err := ctrl.Submit(context.Background(), validFields())
	require.NoError(t, err)

	assert.Equal(t, models.TierHigh, state.Result.Tier)
	assert.Equal(t, 1, n.calls)
	assert.InDelta(t, 85.0, n.percent, 0.001)

	require.Len(t, st.inserted, 1)
	assert.NotEmpty(t, st.inserted[0].ID)
	assert.Equal(t, models.TierHigh, st.inserted[0].Tier)
	assert.InDelta(t, 0.85, st.inserted[0].Probability, 0.001)
}

func TestSubmitMediumRiskDoesNotNotify(t *testing.T) {
	p := &fakePredictor{resp: &models.PredictionResponse{Status: "success", Probability: 0.55, Prediction: 1}}
	n := &fakeNotifier{}
	ctrl, _ := newController(t, p, WithNotifier(n))

	state, err := ctrl.Submit(context.Background(), validFields())
	require.NoError(t, err)
	assert.Equal(t, models.TierMedium, state.Result.Tier)
	assert.Equal(t, 0, n.calls)
}

func TestSubmitValidationFailureLeavesStateUntouched(t *testing.T) {
	p := &fakePredictor{}
	ctrl, renderer := newController(t, p)

	fields := validFields()
	delete(fields, "annualIncome")

	state, err := ctrl.Submit(context.Background(), fields)
	require.Error(t, err)

	std, ok := cerrors.AsStandard(err)
	require.True(t, ok)
	assert.Equal(t, cerrors.ErrCodeValidationFailed, std.Code)
	assert.Equal(t, validate.RequiredFieldsMessage, std.Message)

	// no prediction attempt and no visible transition
	assert.Equal(t, 0, p.calls)
	assert.Equal(t, render.PhaseIdle, state.Phase)
	assert.Equal(t, render.PhaseIdle, renderer.State().Phase)
}

func TestSubmitApplicationErrorRendersVerbatim(t *testing.T) {
	p := &fakePredictor{err: cerrors.NewApplicationError("model unavailable")}
	ctrl, renderer := newController(t, p)

	state, err := ctrl.Submit(context.Background(), validFields())
	require.Error(t, err)

	assert.Equal(t, render.PhaseError, state.Phase)
	require.NotNil(t, state.Error)
	assert.Equal(t, render.ErrorHeader, state.Error.Header)
	assert.Equal(t, "model unavailable", state.Error.Message)
	assert.Equal(t, render.ErrorRetryHint, state.Error.RetryHint)

	// the error state survives the deferred loading cleanup
	assert.Equal(t, render.PhaseError, renderer.State().Phase)
}

func TestSubmitTransportErrorRendersGenericMessage(t *testing.T) {
	p := &fakePredictor{err: cerrors.NewTransportError(predictor.TransportErrorMessage, assert.AnError)}
	ctrl, _ := newController(t, p)

	state, err := ctrl.Submit(context.Background(), validFields())
	require.Error(t, err)
	assert.Equal(t, render.PhaseError, state.Phase)
	assert.Equal(t, predictor.TransportErrorMessage, state.Error.Message)
}

func TestSubmitSingleFlight(t *testing.T) {
	release := make(chan struct{})
	p := &fakePredictor{
		resp:    &models.PredictionResponse{Status: "success", Probability: 0.12},
		blockOn: release,
	}
	ctrl, _ := newController(t, p)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := ctrl.Submit(context.Background(), validFields())
		assert.NoError(t, err)
	}()

	// wait for the first submission to reach the predictor
	require.Eventually(t, func() bool {
		return ctrl.State().Phase == render.PhaseLoading
	}, time.Second, 5*time.Millisecond)

	_, err := ctrl.Submit(context.Background(), validFields())
	assert.ErrorIs(t, err, ErrSubmissionInFlight)

	close(release)
	wg.Wait()

	// the lock is released once the first submission finishes
	_, err = ctrl.Submit(context.Background(), validFields())
	assert.NoError(t, err)
}

func TestSubmitCacheHitSkipsPredictor(t *testing.T) {
	p := &fakePredictor{}
	c := &fakeCache{hit: &models.PredictionResponse{Status: "success", Probability: 0.3}}
	ctrl, _ := newController(t, p, WithCache(c))

	state, err := ctrl.Submit(context.Background(), validFields())
	require.NoError(t, err)
	assert.Equal(t, 0, p.calls)
	assert.Equal(t, models.TierLow, state.Result.Tier)
	assert.Equal(t, 0, c.sets)
}

func TestSubmitCacheMissStoresResponse(t *testing.T) {
	p := &fakePredictor{resp: &models.PredictionResponse{Status: "success", Probability: 0.3}}
	c := &fakeCache{}
	ctrl, _ := newController(t, p, WithCache(c))

	_, err := ctrl.Submit(context.Background(), validFields())
	require.NoError(t, err)
	assert.Equal(t, 1, p.calls)
	assert.Equal(t, 1, c.sets)
}

func TestSubmitStoreFailureIsNonFatal(t *testing.T) {
	p := &fakePredictor{resp: &models.PredictionResponse{Status: "success", Probability: 0.12}}
	st := &fakeStore{err: cerrors.NewDatabaseInsertFailedError(assert.AnError)}
	ctrl, _ := newController(t, p, WithStore(st))

	state, err := ctrl.Submit(context.Background(), validFields())
	require.NoError(t, err)
	assert.Equal(t, render.PhaseResult, state.Phase)
}

func TestSubmitServerLabelOverridesProbability(t *testing.T) {
	p := &fakePredictor{resp: &models.PredictionResponse{
		Status:      "success",
		Probability: 0.05,
		RiskLevel:   "High Risk",
	}}
	ctrl, _ := newController(t, p)

	state, err := ctrl.Submit(context.Background(), validFields())
	require.NoError(t, err)
	assert.Equal(t, models.TierHigh, state.Result.Tier)
	assert.Equal(t, "High Risk of Default: 5.0%", state.Result.Headline)
}
