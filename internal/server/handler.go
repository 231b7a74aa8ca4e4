// internal/server/handler.go
package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	cerrors "loan-risk-advisor/internal/common/errors"
	"loan-risk-advisor/internal/common/logger"
	"loan-risk-advisor/internal/risk/extract"
	"loan-risk-advisor/internal/risk/render"
	"loan-risk-advisor/internal/risk/submit"
	"loan-risk-advisor/internal/risk/validate"
	"loan-risk-advisor/internal/store"
)

const (
	maxBodyBytes       = 64 << 10
	defaultRecentLimit = 20
	maxRecentLimit     = 100
)

// SubmissionController is the submit pipeline as the handlers see it.
type SubmissionController interface {
	Submit(ctx context.Context, src extract.FieldSource) (render.State, error)
	State() render.State
}

// History reads back persisted assessments.
type History interface {
	Recent(ctx context.Context, limit int) ([]store.Assessment, error)
}

// Server exposes the assessment pipeline over HTTP.
type Server struct {
	controller SubmissionController
	extractor  *extract.Extractor
	history    History
	logger     logger.Logger
}

// NewServer builds the handler set. history may be nil when no database is
// configured; the recent endpoint then returns 404.
func NewServer(controller SubmissionController, history History, log logger.Logger) *Server {
	return &Server{
		controller: controller,
		extractor:  extract.New(log),
		history:    history,
		logger:     log.WithFields(map[string]interface{}{"component": "http-server"}),
	}
}

// Register mounts the API routes on mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/assess", s.handleAssess)
	mux.HandleFunc("GET /api/assess", s.handleState)
	mux.HandleFunc("POST /api/validate", s.handleValidate)
	mux.HandleFunc("GET /api/assessments/recent", s.handleRecent)
	mux.HandleFunc("GET /health", s.handleHealth)
}

type errorResponse struct {
	Error string        `json:"error"`
	State *render.State `json:"state,omitempty"`
}

func (s *Server) handleAssess(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unable to read request body"})
		return
	}

	values, err := parseAssessRequest(body)
	if err != nil {
		std, _ := cerrors.AsStandard(err)
		s.logger.Warn("request rejected by schema", map[string]interface{}{"details": std.Details})
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: std.Message})
		return
	}

	state, err := s.controller.Submit(r.Context(), values)
	if err != nil {
		s.writeSubmitError(w, state, err)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

func (s *Server) writeSubmitError(w http.ResponseWriter, state render.State, err error) {
	if err == submit.ErrSubmissionInFlight {
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
		return
	}

	resp := errorResponse{Error: err.Error(), State: &state}
	status := http.StatusInternalServerError

	if std, ok := cerrors.AsStandard(err); ok {
		resp.Error = std.Message
		switch std.Code {
		case cerrors.ErrCodeValidationFailed:
			status = http.StatusBadRequest
		case cerrors.ErrCodeTransportError, cerrors.ErrCodeApplicationError:
			status = http.StatusBadGateway
		}
	}

	writeJSON(w, status, resp)
}

// handleValidate runs the live per-field bounds check without submitting,
// mirroring the as-you-type validation a form layer would do. A field
// failure here never blocks a later assess attempt.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unable to read request body"})
		return
	}

	values, err := parseAssessRequest(body)
	if err != nil {
		std, _ := cerrors.AsStandard(err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: std.Message})
		return
	}

	input := s.extractor.Extract(values)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"submittable": validate.Validate(input),
		"fields":      validate.CheckAllFields(input),
	})
}

// handleState reports the current render state without submitting.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.controller.State())
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		http.NotFound(w, r)
		return
	}

	limit := defaultRecentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxRecentLimit {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be between 1 and 100"})
			return
		}
		limit = n
	}

	assessments, err := s.history.Recent(r.Context(), limit)
	if err != nil {
		s.logger.WithError(err).Error("recent assessments query failed", nil)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "unable to load assessment history"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"assessments": assessments})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
