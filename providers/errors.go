package providers

import (
	"errors"
	"fmt"
)

// Kind classifies session failures.
type Kind int

const (
	// KindBackend is a mid-stream error event or transport failure on the
	// backend side. It is also the kind of any unclassified error.
	KindBackend Kind = iota
	// KindConnect means the backend was unreachable or rejected the credential.
	KindConnect
	// KindClientDisconnect means the client went away without terminating.
	KindClientDisconnect
	// KindMalformedControl is an unparseable or unknown control text frame.
	KindMalformedControl
)

func (k Kind) String() string {
	switch k {
	case KindConnect:
		return "connect"
	case KindClientDisconnect:
		return "client_disconnect"
	case KindMalformedControl:
		return "malformed_control"
	default:
		return "backend"
	}
}

// Error is a classified provider failure.
type Error struct {
	Kind     Kind
	Provider string
	Err      error
}

func (e *Error) Error() string {
	if e.Provider == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ConnectError wraps err as a KindConnect failure of the named provider.
func ConnectError(provider string, err error) error {
	return &Error{Kind: KindConnect, Provider: provider, Err: err}
}

// BackendError wraps err as a KindBackend failure of the named provider.
func BackendError(provider string, err error) error {
	return &Error{Kind: KindBackend, Provider: provider, Err: err}
}

// KindOf reports the kind of err. Errors that were never classified are
// treated as backend failures.
func KindOf(err error) Kind {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Kind
	}
	return KindBackend
}
