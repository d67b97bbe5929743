package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/modelbridge/toolserve/internal/mcp"
)

const protocolVersion = "2024-11-05"

// maxLineBytes bounds a single request line. Base64 image sources are the
// largest inputs we expect.
const maxLineBytes = 1 << 20

// Stdio is the line-oriented binding: one JSON request per input line, one
// JSON response per output line, strictly in order. A line with a "method"
// field speaks MCP JSON-RPC 2.0; any other object is a plain call request.
type Stdio struct {
	registry   *mcp.Registry
	dispatcher *mcp.Dispatcher
	version    string

	in  io.Reader
	out io.Writer
}

// NewStdio constructs the STDIO binding reading from in and writing to out.
// Callers pass os.Stdin and os.Stdout in production; anything that logs
// must go elsewhere, the output stream carries responses only.
func NewStdio(reg *mcp.Registry, disp *mcp.Dispatcher, version string, in io.Reader, out io.Writer) *Stdio {
	if version == "" {
		version = "dev"
	}
	return &Stdio{registry: reg, dispatcher: disp, version: version, in: in, out: out}
}

// Run processes requests until the input stream closes. A malformed line
// fails that one call with a DecodeError response; it never terminates the
// loop.
func (s *Stdio) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		s.handleLine(ctx, line)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading request stream: %w", err)
	}
	return nil
}

// stdioLine holds the union of both accepted request shapes. Method is the
// discriminator: non-empty means JSON-RPC.
type stdioLine struct {
	Jsonrpc string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`

	Tool      string         `json:"tool"`
	Arguments map[string]any `json:"arguments"`
}

func (s *Stdio) handleLine(ctx context.Context, line string) {
	if !utf8.ValidString(line) {
		s.write(mcp.Failure(mcp.ErrDecodeError, "request line is not valid UTF-8"))
		return
	}

	var req stdioLine
	if err := json.Unmarshal([]byte(line), &req); err != nil {
		s.write(mcp.Failure(mcp.ErrDecodeError, "request line is not a JSON object"))
		return
	}

	if req.Method != "" {
		s.handleRPC(ctx, req)
		return
	}

	args := req.Arguments
	if args == nil {
		args = map[string]any{}
	}
	s.write(s.dispatcher.Dispatch(ctx, mcp.CallRequest{Tool: req.Tool, Arguments: args}))
}

// rpcResult and rpcFailure are kept separate so a success always carries a
// result member, even when the result is an empty object (ping).
type rpcResult struct {
	Jsonrpc string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  any             `json:"result"`
}

type rpcFailure struct {
	Jsonrpc string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Error   rpcError        `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (s *Stdio) handleRPC(ctx context.Context, req stdioLine) {
	// Notifications carry no id and expect no reply.
	if strings.HasPrefix(req.Method, "notifications/") {
		return
	}

	switch req.Method {
	case "initialize":
		s.writeResult(req.ID, map[string]any{
			"protocolVersion": protocolVersion,
			"capabilities":    map[string]any{"tools": map[string]any{}},
			"serverInfo":      map[string]any{"name": serviceName, "version": s.version},
		})

	case "ping":
		s.writeResult(req.ID, map[string]any{})

	case "tools/list":
		defs := s.registry.List()
		list := make([]rpcToolDef, 0, len(defs))
		for _, d := range defs {
			list = append(list, rpcToolDef{
				Name:        d.Name,
				Description: d.Description,
				InputSchema: inputSchema(d.Parameters),
			})
		}
		s.writeResult(req.ID, map[string]any{"tools": list})

	case "tools/call":
		var params struct {
			Name      string         `json:"name"`
			Arguments map[string]any `json:"arguments"`
		}
		if len(req.Params) > 0 {
			if err := json.Unmarshal(req.Params, &params); err != nil {
				s.writeError(req.ID, -32602, "invalid tools/call params")
				return
			}
		}
		if params.Arguments == nil {
			params.Arguments = map[string]any{}
		}
		env := s.dispatcher.Dispatch(ctx, mcp.CallRequest{Tool: params.Name, Arguments: params.Arguments})
		s.writeResult(req.ID, env)

	default:
		s.writeError(req.ID, -32601, fmt.Sprintf("method not found: %s", req.Method))
	}
}

// rpcToolDef is the MCP wire form of a tool definition, with the parameter
// schema rendered as a JSON Schema object.
type rpcToolDef struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

func inputSchema(schema mcp.ToolSchema) map[string]any {
	properties := make(map[string]any, len(schema))
	required := []string{}
	for _, p := range schema {
		prop := map[string]any{"description": p.Description}
		switch p.Kind {
		case mcp.KindInteger:
			prop["type"] = "integer"
		case mcp.KindFloat:
			prop["type"] = "number"
		case mcp.KindBoolean:
			prop["type"] = "boolean"
		case mcp.KindEnum:
			prop["type"] = "string"
			prop["enum"] = p.AllowedValues
		default:
			prop["type"] = "string"
		}
		if p.Default != nil {
			prop["default"] = p.Default
		}
		if p.Required {
			required = append(required, p.Name)
		}
		properties[p.Name] = prop
	}
	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}

func (s *Stdio) writeResult(id json.RawMessage, result any) {
	s.write(rpcResult{Jsonrpc: "2.0", ID: id, Result: result})
}

func (s *Stdio) writeError(id json.RawMessage, code int, message string) {
	s.write(rpcFailure{Jsonrpc: "2.0", ID: id, Error: rpcError{Code: code, Message: message}})
}

func (s *Stdio) write(v any) {
	enc := json.NewEncoder(s.out)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
