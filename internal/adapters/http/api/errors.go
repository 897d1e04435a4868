package api

import (
	"errors"
	"net/http"

	"github.com/okian/termico/internal/domain/casestatus"
	"github.com/okian/termico/internal/domain/incentive"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrBodyTooLarge = errors.New("request body too large")
)

// KindError tags an error with the handler operation that raised it and a
// sentinel kind that decides the response status.
type KindError struct {
	Op   string
	Kind error
	Err  error
}

func (e *KindError) Error() string {
	if e.Err == nil {
		return e.Op + ": " + e.Kind.Error()
	}
	return e.Op + ": " + e.Kind.Error() + ": " + e.Err.Error()
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *KindError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewKind returns an error of the given kind raised by op.
func NewKind(op string, kind error) error {
	return &KindError{Op: op, Kind: kind}
}

// WrapKind tags err with op and kind.
func WrapKind(op string, kind, err error) error {
	return &KindError{Op: op, Kind: kind, Err: err}
}

// errorStatus maps an error to the HTTP status and machine-readable code
// reported to clients.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBodyTooLarge):
		return http.StatusRequestEntityTooLarge, "body_too_large"
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, incentive.ErrUnrecognizedCategory):
		return http.StatusUnprocessableEntity, "unrecognized_category"
	case errors.Is(err, casestatus.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, casestatus.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, "store_unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// writeErr reports err to the client. Server-side causes are logged by the
// service and never echoed in the response.
func writeErr(w http.ResponseWriter, err error) {
	status, code := errorStatus(err)
	switch {
	case status == http.StatusServiceUnavailable:
		err = casestatus.ErrStoreUnavailable
	case status >= http.StatusInternalServerError:
		err = nil
	}
	writeError(w, status, code, err)
}
