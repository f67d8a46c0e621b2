package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/NatashaRy/house-price-predictor/internal/dashboard"
	"github.com/NatashaRy/house-price-predictor/pkg/features"
	"github.com/NatashaRy/house-price-predictor/pkg/predict"
)

const (
	maxBodyBytes = 1 << 20
	xlsxType     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type errorBody struct {
	Error     string `json:"error"`
	Detail    string `json:"detail,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// statusOf maps dashboard errors to HTTP statuses.
func statusOf(err error) int {
	switch {
	case dashboard.IsInvalidInput(err), errors.Is(err, errBadBody):
		return http.StatusBadRequest
	case errors.Is(err, dashboard.ErrUnavailable), errors.Is(err, features.ErrReferenceUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, predict.ErrPredictionFailed), errors.Is(err, features.ErrUnclassifiedFeature):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

var userMessages = map[int]string{
	http.StatusBadRequest:          "Check your input and try again.",
	http.StatusServiceUnavailable:  "This page is unavailable because a required file could not be loaded.",
	http.StatusUnprocessableEntity: "An error occurred during the prediction. Check your input and try again.",
}

const unresolvedMessage = "The house could not be completed: a pipeline feature is missing from the reference data."

func messageOf(err error, status int) string {
	if errors.Is(err, features.ErrUnclassifiedFeature) {
		return unresolvedMessage
	}
	if msg, ok := userMessages[status]; ok {
		return msg
	}
	return http.StatusText(status)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	msg := messageOf(err, status)
	s.logger.Warn("request failed",
		zap.String("request_id", requestIDFrom(r.Context())),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.Error(err))
	writeJSON(w, status, errorBody{Error: msg, Detail: err.Error(), RequestID: requestIDFrom(r.Context())})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, v any, err error) {
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"failures": s.svc.Failures(),
	})
}

func (s *Server) pages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Pages())
}

func (s *Server) summary(w http.ResponseWriter, r *http.Request) {
	v, err := s.svc.Summary()
	s.respond(w, r, v, err)
}

func (s *Server) correlations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	top := 10
	if t := q.Get("top"); t != "" {
		n, err := strconv.Atoi(t)
		if err != nil {
			s.fail(w, r, fmt.Errorf("%w: top=%q", dashboard.ErrInvalidInput, t))
			return
		}
		top = n
	}
	v, err := s.svc.Correlations(q.Get("method"), top)
	s.respond(w, r, v, err)
}

func (s *Server) hypotheses(w http.ResponseWriter, r *http.Request) {
	v, err := s.svc.Hypotheses()
	s.respond(w, r, v, err)
}

func (s *Server) inputs(w http.ResponseWriter, r *http.Request) {
	v, err := s.svc.InputFields()
	s.respond(w, r, v, err)
}

func (s *Server) predictInherited(w http.ResponseWriter, r *http.Request) {
	v, err := s.svc.PredictInherited()
	s.respond(w, r, v, err)
}

// predictionRequest is the body of POST /api/predictions.
type predictionRequest struct {
	Features     map[string]any `json:"features"`
	QualityScale string         `json:"quality_scale"`
}

func (s *Server) predictHouse(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.fail(w, r, fmt.Errorf("%w: %v", errBadBody, err))
		return
	}
	if err := s.validate.check(body); err != nil {
		s.fail(w, r, err)
		return
	}
	var req predictionRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.fail(w, r, fmt.Errorf("%w: %v", errBadBody, err))
		return
	}
	v, err := s.svc.PredictHouse(req.Features, req.QualityScale)
	s.respond(w, r, v, err)
}

func (s *Server) performance(w http.ResponseWriter, r *http.Request) {
	v, err := s.svc.Performance()
	s.respond(w, r, v, err)
}

// png renders into a buffer first so a failed plot still gets a JSON error.
func (s *Server) png(w http.ResponseWriter, r *http.Request, draw func(io.Writer) error) {
	var buf bytes.Buffer
	if err := draw(&buf); err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = buf.WriteTo(w)
}

func (s *Server) scatterPlot(w http.ResponseWriter, r *http.Request) {
	feature := r.PathValue("feature")
	s.png(w, r, func(out io.Writer) error { return s.svc.ScatterPlot(feature, out) })
}

func (s *Server) inheritedPlot(w http.ResponseWriter, r *http.Request) {
	s.png(w, r, s.svc.InheritedPlot)
}

func (s *Server) targetPlot(w http.ResponseWriter, r *http.Request) {
	s.png(w, r, s.svc.TargetPlot)
}

func (s *Server) exportInherited(w http.ResponseWriter, r *http.Request) {
	b, err := s.svc.ExportInherited()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", xlsxType)
	w.Header().Set("Content-Disposition", `attachment; filename="inherited_predictions.xlsx"`)
	_, _ = w.Write(b)
}
