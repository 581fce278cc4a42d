package transport

import (
	"errors"
	"fmt"
)

// Kind classifies a connect failure.
type Kind int

const (
	KindIO Kind = iota
	KindTimeout
	KindResolve
	KindTLSHandshake
	KindDisconnected
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindTimeout:
		return "timeout"
	case KindResolve:
		return "resolve"
	case KindTLSHandshake:
		return "tls handshake"
	case KindDisconnected:
		return "disconnected"
	}
	return "unknown"
}

// Error is the error surface of the connect stack.
type Error struct {
	Kind Kind
	Err  error
}

var (
	ErrTimeout      = &Error{Kind: KindTimeout}
	ErrDisconnected = &Error{Kind: KindDisconnected}
)

// NewError tags err with kind. An err that already is an *Error is returned
// as is.
func NewError(kind Kind, err error) error {
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Kind: kind, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return "connect: " + e.Kind.String()
	}
	return fmt.Sprintf("connect: %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind when target carries no cause, so
// errors.Is(err, ErrTimeout) works for every timeout.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Err == nil && t.Kind == e.Kind
}

// KindOf returns the kind of err, defaulting to KindIO.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindIO
}
