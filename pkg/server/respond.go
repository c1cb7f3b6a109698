package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/bridgegad/bridgegad/pkg/archive"
	"github.com/bridgegad/bridgegad/pkg/errors"
	"github.com/bridgegad/bridgegad/pkg/params"
)

// errorBody is the JSON shape of every failed response.
type errorBody struct {
	Code       errors.Code        `json:"code"`
	Message    string             `json:"message"`
	Violations []params.Violation `json:"violations,omitempty"`
	RequestID  string             `json:"request_id,omitempty"`
}

var statusByKind = map[errors.Kind]int{
	errors.KindInput:       http.StatusBadRequest,
	errors.KindNotFound:    http.StatusNotFound,
	errors.KindLimited:     http.StatusTooManyRequests,
	errors.KindTimeout:     http.StatusGatewayTimeout,
	errors.KindUnsupported: http.StatusNotImplemented,
}

// statusFor maps an error code to an HTTP status.
func statusFor(code errors.Code) int {
	if status, ok := statusByKind[code.Kind()]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeStatus(w http.ResponseWriter, status int, body errorBody) {
	writeJSON(w, status, body)
}

// writeError renders err as an error body. Internal errors are logged and
// their message is replaced so server details do not leak.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if stderrors.Is(err, archive.ErrNotFound) {
		err = errors.Wrap(errors.ErrCodeNotFound, err, "drawing not found")
	}

	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := statusFor(code)

	body := errorBody{
		Code:      code,
		Message:   errors.UserMessage(err),
		RequestID: requestIDFrom(r.Context()),
	}

	var verr *params.ValidationError
	if stderrors.As(err, &verr) {
		body.Message = "parameters failed validation"
		body.Violations = verr.Violations
	}

	var rl *errors.RateLimitedError
	if stderrors.As(err, &rl) {
		if s := rl.RetrySeconds(); s > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(s))
		}
		if rl.Message != "" {
			body.Message = rl.Message
		}
	}

	if status == http.StatusInternalServerError {
		loggerFrom(r.Context()).Error("request failed", "err", err)
		body.Message = "internal error"
	}
	writeStatus(w, status, body)
}

func errNotFound(format string, args ...any) error {
	return errors.New(errors.ErrCodeNotFound, format, args...)
}
