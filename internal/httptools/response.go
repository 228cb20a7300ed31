package httptools

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-http-utils/headers"

	"github.com/fleetwire/fleetwire/internal/infra/tracing"
)

const Version = "1.0"

const problemBase = "https://fleetwire.example/errors/"

const (
	ErrTypeValidationFailed = problemBase + "validation-failed"
	ErrTypeBadRequest       = problemBase + "bad-request"
	ErrTypeUnauthorized     = problemBase + "unauthorized"
	ErrTypeNotFound         = problemBase + "not-found"
	ErrTypePayloadTooLarge  = problemBase + "payload-too-large"
	ErrTypeInternalError    = problemBase + "internal-error"
)

type Response struct {
	Data any   `json:"data,omitempty"`
	Meta *Meta `json:"meta"`
}

type Meta struct {
	RequestID string `json:"request_id"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

type ErrorResponse struct {
	Error ProblemDetails `json:"error"`
}

// ProblemDetails follows RFC 9457, nested under "error".
type ProblemDetails struct {
	Type      string       `json:"type" enum:"https://fleetwire.example/errors/validation-failed,https://fleetwire.example/errors/bad-request,https://fleetwire.example/errors/unauthorized,https://fleetwire.example/errors/not-found,https://fleetwire.example/errors/payload-too-large,https://fleetwire.example/errors/internal-error"`
	Title     string       `json:"title"`
	Detail    string       `json:"detail"`
	Status    int          `json:"status"`
	RequestID string       `json:"request_id"`
	Fields    []FieldError `json:"fields,omitempty"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func JSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	write(w, status, Response{
		Data: data,
		Meta: &Meta{
			RequestID: tracing.GetRequestID(r.Context()),
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   Version,
		},
	})
}

func Error(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	errType, title, detail string,
) {
	write(w, status, ErrorResponse{Error: problem(r, status, errType, title, detail)})
}

func ValidationError(w http.ResponseWriter, r *http.Request, fields []FieldError) {
	p := problem(r, http.StatusUnprocessableEntity,
		ErrTypeValidationFailed,
		"Validation Failed",
		"One or more fields failed validation",
	)
	p.Fields = fields
	write(w, http.StatusUnprocessableEntity, ErrorResponse{Error: p})
}

func InternalError(w http.ResponseWriter, r *http.Request) {
	standard(w, r, http.StatusInternalServerError, ErrTypeInternalError, "An unexpected error occurred")
}

func BadRequest(w http.ResponseWriter, r *http.Request, detail string) {
	standard(w, r, http.StatusBadRequest, ErrTypeBadRequest, detail)
}

func NotFound(w http.ResponseWriter, r *http.Request, detail string) {
	standard(w, r, http.StatusNotFound, ErrTypeNotFound, detail)
}

func Unauthorized(w http.ResponseWriter, r *http.Request, detail string) {
	standard(w, r, http.StatusUnauthorized, ErrTypeUnauthorized, detail)
}

func PayloadTooLarge(w http.ResponseWriter, r *http.Request, detail string) {
	standard(w, r, http.StatusRequestEntityTooLarge, ErrTypePayloadTooLarge, detail)
}

// standard writes a problem titled with the status text.
func standard(w http.ResponseWriter, r *http.Request, status int, errType, detail string) {
	Error(w, r, status, errType, http.StatusText(status), detail)
}

func problem(r *http.Request, status int, errType, title, detail string) ProblemDetails {
	return ProblemDetails{
		Type:      errType,
		Title:     title,
		Detail:    detail,
		Status:    status,
		RequestID: tracing.GetRequestID(r.Context()),
	}
}

func write(w http.ResponseWriter, status int, body any) {
	w.Header().Set(headers.ContentType, "application/json")
	w.Header().Set(headers.CacheControl, "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
