package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/modelbridge/toolserve/internal/mcp"
)

const serviceName = "toolserve"

// maxBodyBytes bounds invocation request bodies; image payloads arrive
// base64-encoded and can be large.
const maxBodyBytes = 8 << 20

// HTTP is the synchronous request/response binding. Requests on independent
// connections are served concurrently over the shared registry and
// dispatcher.
type HTTP struct {
	registry   *mcp.Registry
	dispatcher *mcp.Dispatcher
	router     *chi.Mux
	timeout    time.Duration
}

// NewHTTP constructs the HTTP binding with middleware and routes
// configured. timeout bounds the total latency of one tool call.
func NewHTTP(reg *mcp.Registry, disp *mcp.Dispatcher, timeout time.Duration) *HTTP {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	h := &HTTP{
		registry:   reg,
		dispatcher: disp,
		router:     chi.NewRouter(),
		timeout:    timeout,
	}

	h.router.Use(middleware.RequestID)
	h.router.Use(middleware.RealIP)
	h.router.Use(middleware.Logger)
	h.router.Use(middleware.Recoverer)

	h.router.Get("/", h.handleIndex)
	h.router.Get("/health", h.handleHealth)
	h.router.Get("/tools", h.handleListTools)
	h.router.Get("/tools/{name}/definition", h.handleDefinition)
	h.router.Post("/tools/{name}", h.handleCall)

	return h
}

// Router exposes the root HTTP handler for the binding.
func (h *HTTP) Router() http.Handler { return h.router }

func (h *HTTP) handleIndex(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service": serviceName,
		"endpoints": map[string]string{
			"health":     "/health",
			"tools":      "/tools",
			"tool_call":  "/tools/{name}",
			"definition": "/tools/{name}/definition",
		},
	})
}

// handleHealth reports liveness. It deliberately touches neither the
// registry nor the dispatcher so supervisors get an answer even if a tool
// misbehaves.
func (h *HTTP) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": serviceName})
}

func (h *HTTP) handleListTools(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"tools": h.registry.List()})
}

func (h *HTTP) handleDefinition(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	desc, err := h.registry.Lookup(name)
	if err != nil {
		writeEnvelope(w, mcp.Failure(mcp.ErrUnknownTool, err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, mcp.Definition{
		Name:        desc.Name,
		Description: desc.Description,
		Parameters:  desc.Schema,
	})
}

func (h *HTTP) handleCall(w http.ResponseWriter, r *http.Request) {
	args, env, ok := decodeArguments(r)
	if !ok {
		writeEnvelope(w, env)
		return
	}

	req := mcp.CallRequest{Tool: chi.URLParam(r, "name"), Arguments: args}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	// Dispatch in a goroutine so a handler that ignores its context cannot
	// hold the connection past the deadline.
	done := make(chan mcp.Envelope, 1)
	go func() { done <- h.dispatcher.Dispatch(ctx, req) }()

	select {
	case env = <-done:
	case <-ctx.Done():
		env = mcp.Failure(mcp.ErrTimeout, "call deadline exceeded")
	}
	writeEnvelope(w, env)
}

// decodeArguments reads the invocation body as a UTF-8 JSON argument
// mapping. Both the bare mapping form and the {"arguments": {...}} wrapper
// used by MCP-style clients are accepted. An empty body means no arguments.
func decodeArguments(r *http.Request) (map[string]any, mcp.Envelope, bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, mcp.Failure(mcp.ErrDecodeError, "failed to read request body"), false
	}
	if len(body) == 0 {
		return map[string]any{}, mcp.Envelope{}, true
	}
	if !utf8.Valid(body) {
		return nil, mcp.Failure(mcp.ErrDecodeError, "request body is not valid UTF-8"), false
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, mcp.Failure(mcp.ErrDecodeError, "request body is not a JSON object"), false
	}

	if len(raw) == 1 {
		if wrapped, ok := raw["arguments"].(map[string]any); ok {
			return wrapped, mcp.Envelope{}, true
		}
	}
	return raw, mcp.Envelope{}, true
}

// statusFor maps an envelope onto an HTTP status so clients can tell a
// request mistake from a server fault without parsing the body.
func statusFor(env mcp.Envelope) int {
	if env.Status == "ok" {
		return http.StatusOK
	}
	switch env.Kind {
	case mcp.ErrUnknownTool:
		return http.StatusNotFound
	case mcp.ErrInvalidArguments, mcp.ErrDecodeError:
		return http.StatusBadRequest
	case mcp.ErrTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeEnvelope(w http.ResponseWriter, env mcp.Envelope) {
	writeJSON(w, statusFor(env), env)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
