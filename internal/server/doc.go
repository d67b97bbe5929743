// Package server provides the two transport bindings over the dispatch
// engine: a concurrent HTTP binding and a sequential line-oriented STDIO
// binding.
//
// Both bindings are thin adapters: they decode a request from their medium
// into a mcp.CallRequest, call the shared dispatcher, and encode the
// returned envelope back out. Neither binding performs validation or
// routing of its own, so the two surfaces can never drift apart.
//
// # HTTP
//
//   - GET  /                         service index
//   - GET  /health                   liveness probe, independent of tool state
//   - GET  /tools                    discovery: tools in registration order
//   - GET  /tools/{name}/definition  single tool descriptor
//   - POST /tools/{name}             invoke one tool
//
// The HTTP binding serves requests concurrently and bounds each call with a
// deadline, reporting an exceeded deadline as a Timeout envelope.
//
// # STDIO
//
// One JSON object per input line produces one JSON object per output line.
// A line carrying a "method" field is treated as an MCP JSON-RPC 2.0
// request (initialize, tools/list, tools/call, ping); any other object is a
// plain call request {"tool": ..., "arguments": {...}} answered with a bare
// envelope. Malformed lines fail the individual call with a DecodeError
// response; the loop keeps running until the input stream closes.
//
// All text is encoded and decoded as UTF-8 on both bindings, so non-ASCII
// arguments and results round-trip unchanged.
package server
