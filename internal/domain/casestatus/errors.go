package casestatus

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no record matches the case code.
	ErrNotFound = errors.New("case not found")
	// ErrStoreUnavailable is returned when the record store cannot be queried.
	ErrStoreUnavailable = errors.New("case store unavailable")
)

// Kind classifies a lookup failure.
type Kind int

const (
	KindStoreUnavailable Kind = iota + 1
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindStoreUnavailable:
		return "store_unavailable"
	default:
		return "unknown"
	}
}

// LookupError is the failure returned by Lookup. Err holds the underlying
// store error, if any.
type LookupError struct {
	Kind     Kind
	CaseCode string
	Err      error
}

func (e *LookupError) Error() string {
	switch e.Kind {
	case KindNotFound:
		return fmt.Sprintf("case %q not found", e.CaseCode)
	default:
		if e.Err != nil {
			return fmt.Sprintf("case store unavailable: %v", e.Err)
		}
		return "case store unavailable"
	}
}

func (e *LookupError) Unwrap() error { return e.Err }

// Is matches the sentinel for the error's kind.
func (e *LookupError) Is(target error) bool {
	switch e.Kind {
	case KindNotFound:
		return target == ErrNotFound
	case KindStoreUnavailable:
		return target == ErrStoreUnavailable
	}
	return false
}
