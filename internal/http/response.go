package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"debloom/internal/core"
	applog "debloom/internal/log"
	"debloom/internal/middleware/trace"
)

// Envelope status values and error codes.
const (
	StatusSuccess = "SUCCESS"
	StatusFail    = "FAIL"

	CodeValidation  = "VALIDATION_ERROR"
	CodeNotFound    = "NOT_FOUND"
	CodeInternal    = "INTERNAL_ERROR"
	CodeRateLimited = "RATE_LIMITED"
)

type successEnvelope struct {
	Status string `json:"status"`
	Data   any    `json:"data"`
}

type failEnvelope struct {
	Status    string `json:"status"`
	ErrorCode string `json:"errorCode"`
	Message   string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", applog.FieldComponent, applog.ComponentHTTP, applog.FieldError, err)
	}
}

func writeSuccess(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, successEnvelope{Status: StatusSuccess, Data: data})
}

func writeFail(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, failEnvelope{Status: StatusFail, ErrorCode: code, Message: message})
}

// writeServiceError maps a service error to its status and code. Internal
// details are logged, never returned.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch core.KindOf(err) {
	case core.KindValidation:
		writeFail(w, http.StatusBadRequest, CodeValidation, core.PublicMessage(err))
	case core.KindNotFound:
		writeFail(w, http.StatusNotFound, CodeNotFound, core.PublicMessage(err))
	default:
		fields := applog.NewFields().WithRequestID(trace.GetRequestID(r.Context()))
		fields[applog.FieldErrorCode] = CodeInternal
		s.logger.LogError(r.Context(), "Request failed", err, op, fields)
		writeFail(w, http.StatusInternalServerError, CodeInternal, core.PublicMessage(err))
	}
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	slog.WarnContext(r.Context(), "Rate limit exceeded",
		applog.FieldComponent, applog.ComponentRateLimit,
		applog.FieldRequestID, trace.GetRequestID(r.Context()),
		applog.FieldMethod, r.Method,
		applog.FieldPath, r.URL.Path)
	writeFail(w, http.StatusTooManyRequests, CodeRateLimited, "Rate limit exceeded. Please try again later.")
}
