package failure

import (
	"fmt"

	"github.com/pkg/errors"
)

type Kind int

const (
	Unknown Kind = iota
	Transport
	Protocol
)

func (kind Kind) String() string {
	switch kind {
	case Transport:
		return "transport"
	case Protocol:
		return "protocol"
	default:
		return "unknown"
	}
}

// Error is returned by the remote clients. Status is the HTTP status when a
// response was received; Code is the API's own error identifier, if any.
type Error struct {
	Kind    Kind
	Op      string
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	message := e.Message
	if message == "" && e.Err != nil {
		message = e.Err.Error()
	}

	if message == "" {
		message = "unknown error"
	}

	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Op, message, e.Status)
	}

	return fmt.Sprintf("%s: %s", e.Op, message)
}

func NewTransport(op string, err error) error {
	return &Error{Kind: Transport, Op: op, Err: err}
}

func NewProtocol(op string, status int, code, message string) error {
	return &Error{Kind: Protocol, Op: op, Status: status, Code: code, Message: message}
}

// As returns the *Error at the root of a chain built with github.com/pkg/errors.
func As(err error) (*Error, bool) {
	e, ok := errors.Cause(err).(*Error)
	return e, ok
}

func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}

	return Unknown
}

func CodeOf(err error) string {
	if e, ok := As(err); ok {
		return e.Code
	}

	return ""
}
