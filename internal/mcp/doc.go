// Package mcp implements the tool registry and dispatch engine at the heart
// of the server: typed parameter schemas, strict argument validation, a
// registration-ordered tool registry, and a dispatcher that normalizes every
// call outcome into a uniform response envelope.
//
// The package is transport-agnostic. Both the HTTP and STDIO bindings in
// internal/server decode their medium into a CallRequest, hand it to
// Dispatcher.Dispatch, and encode the returned Envelope back out, so
// validation and routing logic exists exactly once.
//
// # Validation
//
// Validate is strict: required parameters must be present, values must match
// their declared kind without implicit coercion (a numeric string is not an
// integer), enum values are compared byte-exact, and undeclared argument
// keys are rejected rather than silently ignored. Absent optional parameters
// pick up their declared defaults in the validated mapping.
//
// # Error taxonomy
//
// Every failure surfaces as a typed envelope, never as an uncaught fault:
//
//   - UnknownTool: name not in the registry
//   - InvalidArguments: schema validation failed
//   - HandlerError: the tool's own domain logic reported a failure
//   - InternalError: unexpected fault (including panics) contained at the
//     dispatch boundary
//   - DecodeError: malformed input at a transport binding
//   - Timeout: a transport-enforced call deadline was exceeded
//
// # Concurrency
//
// The registry is written during startup registration under a write lock
// and read-concurrent afterwards. The dispatcher holds no lock across
// handler invocation, so slow tools never block unrelated calls.
package mcp
