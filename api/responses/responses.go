package responses

import (
	"context"
	"encoding/json"
	"net/http"

	pkgerrors "github.com/shery7378/multifront/pkg/errors"
	"github.com/shery7378/multifront/pkg/logger"
)

type SuccessEnvelope struct {
	Data any `json:"data"`
}

type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// requestIDHeader mirrors the header set by the request id middleware.
const requestIDHeader = "X-Request-ID"

// Codes whose typed message is safe to show to shoppers.
var userFacing = map[pkgerrors.Code]bool{
	pkgerrors.CodeValidation:       true,
	pkgerrors.CodeForbidden:        true,
	pkgerrors.CodeUnauthorized:     true,
	pkgerrors.CodeNotFound:         true,
	pkgerrors.CodeConflict:         true,
	pkgerrors.CodeIdempotency:      true,
	pkgerrors.CodeRateLimit:        true,
	pkgerrors.CodeSubmissionFailed: true,
}

func WriteSuccess(w http.ResponseWriter, data any) {
	WriteSuccessStatus(w, http.StatusOK, data)
}

func WriteSuccessStatus(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, SuccessEnvelope{Data: data})
}

// WriteError renders err as an ErrorEnvelope. Untyped errors become internal
// failures and never leak their text.
func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}
	meta := pkgerrors.MetadataFor(typed.Code())

	body := APIError{
		Code:      string(typed.Code()),
		Message:   meta.PublicMessage,
		RequestID: w.Header().Get(requestIDHeader),
	}
	if userFacing[typed.Code()] && typed.Message() != "" {
		body.Message = typed.Message()
	}
	if meta.DetailsAllowed {
		body.Details = typed.Details()
	}

	if logg != nil {
		logRejection(ctx, logg, meta.HTTPStatus, typed)
	}
	writeJSON(w, meta.HTTPStatus, ErrorEnvelope{Error: body})
}

func logRejection(ctx context.Context, logg *logger.Logger, status int, err error) {
	dump := pkgerrors.Dump(err)
	fields := map[string]any{
		"status":      status,
		"error_chain": dump.Chain,
	}
	if len(dump.Causes) > 0 {
		fields["error_causes"] = dump.Causes
	}
	if dump.PG != nil {
		fields["pg"] = dump.PG
	}
	ctx = logg.WithFields(ctx, fields)

	if status >= http.StatusInternalServerError {
		logg.Error(ctx, "request errored", err)
		return
	}
	logg.Warn(logg.WithField(ctx, "error", dump.TopMessage), "request rejected")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
