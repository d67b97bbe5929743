package mcp

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind is the top-level failure classification carried by a response
// envelope. The values appear verbatim in wire responses.
type ErrorKind string

const (
	ErrUnknownTool      ErrorKind = "UnknownTool"
	ErrInvalidArguments ErrorKind = "InvalidArguments"
	ErrHandlerError     ErrorKind = "HandlerError"
	ErrInternalError    ErrorKind = "InternalError"
	ErrDecodeError      ErrorKind = "DecodeError"
	ErrTimeout          ErrorKind = "Timeout"
)

// Envelope is the uniform per-call response wrapper shared by every
// transport binding: either a success payload or a typed error.
type Envelope struct {
	Status  string    `json:"status"`
	Result  any       `json:"result,omitempty"`
	Kind    ErrorKind `json:"kind,omitempty"`
	Message string    `json:"message,omitempty"`
}

// Success wraps a handler result.
func Success(result any) Envelope {
	return Envelope{Status: "ok", Result: result}
}

// Failure wraps a typed error.
func Failure(kind ErrorKind, message string) Envelope {
	return Envelope{Status: "error", Kind: kind, Message: message}
}

// ToolError is the explicit domain-failure channel for tool handlers:
// returning one yields a HandlerError envelope, while any other error or a
// panic is contained as InternalError.
type ToolError struct {
	Message string
	Cause   error
}

func (e *ToolError) Error() string {
	if e.Cause != nil && e.Message != "" {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return e.Message
}

func (e *ToolError) Unwrap() error { return e.Cause }

// NewToolError builds a domain failure with a caller-facing message.
func NewToolError(format string, args ...any) *ToolError {
	return &ToolError{Message: fmt.Sprintf(format, args...)}
}

// WrapToolError attaches a caller-facing message to an underlying cause.
func WrapToolError(cause error, format string, args ...any) *ToolError {
	return &ToolError{Message: fmt.Sprintf(format, args...), Cause: cause}
}

// CallRequest is one tool invocation: a name plus a raw argument mapping.
// It exists only for the duration of the call.
type CallRequest struct {
	Tool      string         `json:"tool"`
	Arguments map[string]any `json:"arguments"`
}

// Dispatcher routes validated calls to tool handlers and normalizes every
// outcome into an Envelope. It holds no lock across handler invocation and
// keeps each call fully isolated: a failing invocation never crashes the
// process or affects other in-flight calls.
type Dispatcher struct {
	registry *Registry
}

// NewDispatcher builds a dispatcher over a registry.
func NewDispatcher(reg *Registry) *Dispatcher {
	return &Dispatcher{registry: reg}
}

// Dispatch performs one call: lookup, validate, invoke, normalize.
// Lookup and validation failures are reported before the handler runs, so a
// rejected call has no side effects. Each call is attempted exactly once.
func (d *Dispatcher) Dispatch(ctx context.Context, req CallRequest) Envelope {
	desc, err := d.registry.Lookup(req.Tool)
	if err != nil {
		return Failure(ErrUnknownTool, err.Error())
	}

	validated, err := Validate(desc.Schema, req.Arguments)
	if err != nil {
		return Failure(ErrInvalidArguments, err.Error())
	}

	result, err := d.invoke(ctx, desc, validated)
	if err != nil {
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			return Failure(ErrTimeout, fmt.Sprintf("tool %q: call deadline exceeded", req.Tool))
		case isToolError(err):
			return Failure(ErrHandlerError, err.Error())
		default:
			return Failure(ErrInternalError, err.Error())
		}
	}
	return Success(result)
}

// invoke runs the handler with panic containment. A panicking handler is a
// programming error, but it must never take the server down.
func (d *Dispatcher) invoke(ctx context.Context, desc *Descriptor, args map[string]any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("tool %q panicked: %v", desc.Name, r)
		}
	}()
	return desc.Handler(ctx, args)
}

func isToolError(err error) bool {
	var te *ToolError
	return errors.As(err, &te)
}
