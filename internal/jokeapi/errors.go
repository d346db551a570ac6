package jokeapi

import (
	"errors"
	"fmt"
)

// Failure classes reported by Fetch. Use errors.Is to test a returned error
// against one of them.
var (
	ErrInvalidEndpoint = errors.New("invalid endpoint")
	ErrTransport       = errors.New("transport failure")
	ErrDecode          = errors.New("decode failure")
)

// FetchError describes why a fetch produced no joke.
type FetchError struct {
	Kind error // one of ErrInvalidEndpoint, ErrTransport, ErrDecode
	Err  error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%v: %v", e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Is reports whether target is the failure class of e.
func (e *FetchError) Is(target error) bool {
	return target == e.Kind
}

// KindName returns a short label for logging.
func (e *FetchError) KindName() string {
	switch e.Kind {
	case ErrInvalidEndpoint:
		return "invalid_endpoint"
	case ErrTransport:
		return "transport"
	case ErrDecode:
		return "decode"
	default:
		return "unknown"
	}
}

func invalidEndpoint(err error) error { return &FetchError{Kind: ErrInvalidEndpoint, Err: err} }
func transport(err error) error       { return &FetchError{Kind: ErrTransport, Err: err} }
func decode(err error) error          { return &FetchError{Kind: ErrDecode, Err: err} }
