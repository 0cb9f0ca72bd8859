package baas

import (
	"errors"
	"fmt"

	"github.com/Ajinkya236/course-questing-72-sub001/internal/contracts"
)

// Kind classifies why a BaaS call failed
type Kind string

const (
	KindTransport Kind = "transport" // no response: DNS, refused, timeout, cancelled
	KindStatus    Kind = "status"    // non-2xx response
	KindDecode    Kind = "decode"    // 2xx with a body that is not the expected JSON
	KindNotFound  Kind = "not_found" // query matched no row
)

// FetchError is the only error type returned by this package
type FetchError struct {
	Table      string
	Op         string
	Kind       Kind
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("baas %s %s: %s", e.Op, e.Table, e.Kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is lets not_found errors match contracts.ErrNotFound
func (e *FetchError) Is(target error) bool {
	return e.Kind == KindNotFound && target == contracts.ErrNotFound
}

// Temporary reports whether retrying later may succeed
func (e *FetchError) Temporary() bool {
	switch e.Kind {
	case KindTransport:
		return true
	case KindStatus:
		return e.StatusCode >= 500 || e.StatusCode == 429
	default:
		return false
	}
}

// KindOf returns the kind of a FetchError anywhere in err's chain, or ""
func KindOf(err error) Kind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}
