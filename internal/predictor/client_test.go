// internal/predictor/client_test.go
package predictor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	cerrors "loan-risk-advisor/internal/common/errors"
	"loan-risk-advisor/internal/common/logger"
	"loan-risk-advisor/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testInput() *models.ApplicationInput {
	return &models.ApplicationInput{
		LoanAmount:        20000,
		AnnualIncome:      80000,
		InterestRate:      6,
		DebtToIncomeRatio: 20,
		EmploymentLength:  5,
		FicoScore:         750,
		OpenAccounts:      4,
		Term:              "36 months",
		HomeOwnership:     "MORTGAGE",
	}
}

func TestClient_Predict_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, PredictPath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body models.ApplicationInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 20000.0, body.LoanAmount)
		assert.Equal(t, "MORTGAGE", body.HomeOwnership)

		json.NewEncoder(w).Encode(models.PredictionResponse{
			Status:      "success",
			Probability: 0.12,
			Prediction:  0,
			RiskLevel:   "Low",
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second, logger.NewTestLogger(t))

	resp, err := client.Predict(context.Background(), testInput())

	require.NoError(t, err)
	assert.Equal(t, 0.12, resp.Probability)
	assert.Equal(t, "Low", resp.RiskLevel)
	assert.True(t, resp.Succeeded())
}

func TestClient_Predict_ServerErrorWithBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"model unavailable","status":"error"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second, logger.NewTestLogger(t))

	_, err := client.Predict(context.Background(), testInput())

	require.Error(t, err)
	stdErr, ok := cerrors.AsStandard(err)
	require.True(t, ok)
	assert.Equal(t, cerrors.ErrCodeApplicationError, stdErr.Code)
	assert.Equal(t, "model unavailable", stdErr.Message)
}

func TestClient_Predict_ServerErrorWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second, logger.NewTestLogger(t))

	_, err := client.Predict(context.Background(), testInput())

	require.Error(t, err)
	stdErr, ok := cerrors.AsStandard(err)
	require.True(t, ok)
	assert.Equal(t, cerrors.ErrCodeTransportError, stdErr.Code)
	assert.Equal(t, TransportErrorMessage, stdErr.Message)
}

func TestClient_Predict_ExplicitErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 200 OK but the service declares failure in the body.
		json.NewEncoder(w).Encode(models.PredictionResponse{
			Status: "error",
			Error:  "Internal server error",
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second, logger.NewTestLogger(t))

	_, err := client.Predict(context.Background(), testInput())

	require.Error(t, err)
	stdErr, ok := cerrors.AsStandard(err)
	require.True(t, ok)
	assert.Equal(t, cerrors.ErrCodeApplicationError, stdErr.Code)
	assert.Equal(t, "Internal server error", stdErr.Message)
}

func TestClient_Predict_ErrorStatusWithoutMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.PredictionResponse{Status: "error"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second, logger.NewTestLogger(t))

	_, err := client.Predict(context.Background(), testInput())

	require.Error(t, err)
	stdErr, ok := cerrors.AsStandard(err)
	require.True(t, ok)
	assert.Equal(t, GenericFailureMessage, stdErr.Message)
}

func TestClient_Predict_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // server gone before the call

	client := NewClient(srv.URL, time.Second, logger.NewTestLogger(t))

	_, err := client.Predict(context.Background(), testInput())

	require.Error(t, err)
	assert.Equal(t, cerrors.ErrCodeTransportError, cerrors.CodeOf(err))
}

func TestClient_Predict_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second, logger.NewTestLogger(t))

	_, err := client.Predict(context.Background(), testInput())

	require.Error(t, err)
	assert.Equal(t, cerrors.ErrCodeTransportError, cerrors.CodeOf(err))
}
