// internal/predictor/client.go
package predictor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	cerrors "loan-risk-advisor/internal/common/errors"
	commonhttp "loan-risk-advisor/internal/common/http"
	"loan-risk-advisor/internal/common/logger"
	"loan-risk-advisor/internal/models"
)

// PredictPath is the collaborator's endpoint for default-risk scoring.
const PredictPath = "/api/predict"

// TransportErrorMessage is the generic user-facing text shown when the
// service could not be reached or replied with nothing usable.
const TransportErrorMessage = "Unable to reach the prediction service. Please try again."

// GenericFailureMessage covers an explicit service failure that carried no
// error text of its own.
const GenericFailureMessage = "The prediction service could not score this application."

// Client talks to the external prediction service. The service is an opaque
// collaborator: the client interprets its reply, never its internals.
type Client struct {
	http    *commonhttp.Client
	baseURL string
	logger  logger.Logger
}

func NewClient(baseURL string, timeout time.Duration, log logger.Logger) *Client {
	return &Client{
		http:    commonhttp.NewClient(timeout),
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  log.WithFields(map[string]interface{}{"component": "predictor"}),
	}
}

// Predict POSTs the captured application input as JSON and decodes the
// prediction response.
//
// Failures map onto the submission error taxonomy: transport problems and
// non-2xx replies without a parseable error body become transport errors
// with the generic message; an error field in the body, or an explicit
// non-success status, becomes an application error whose message is shown
// verbatim.
func (c *Client) Predict(ctx context.Context, input *models.ApplicationInput) (*models.PredictionResponse, error) {
	url := c.baseURL + PredictPath

	resp, err := c.http.PostJSON(ctx, url, input)
	if err != nil {
		c.logger.Error("prediction request failed", map[string]interface{}{
			"url":   url,
			"error": err.Error(),
		})
		return nil, cerrors.NewTransportError(TransportErrorMessage, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, cerrors.NewTransportError(TransportErrorMessage, err)
	}

	var prediction models.PredictionResponse
	parseErr := json.Unmarshal(body, &prediction)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("prediction service returned non-2xx", map[string]interface{}{
			"statusCode": resp.StatusCode,
		})
		// An error field in the body supersedes the generic message.
		if parseErr == nil && prediction.Error != "" {
			return nil, cerrors.NewApplicationError(prediction.Error)
		}
		return nil, cerrors.NewTransportError(TransportErrorMessage,
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	if parseErr != nil {
		return nil, cerrors.NewTransportError(TransportErrorMessage, parseErr)
	}

	if !prediction.Succeeded() {
		message := prediction.Error
		if message == "" {
			message = GenericFailureMessage
		}
		return nil, cerrors.NewApplicationError(message)
	}

	return &prediction, nil
}
