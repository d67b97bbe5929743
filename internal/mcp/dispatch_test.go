package mcp

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

func dispatcherWithCalculator(t *testing.T) *Dispatcher {
	t.Helper()
	reg := NewRegistry()
	err := reg.Register(Descriptor{
		Name: "calculator",
		Schema: ToolSchema{
			{Name: "operation", Kind: KindEnum, Required: true, AllowedValues: []string{"add", "divide"}},
			{Name: "a", Kind: KindFloat, Required: true},
			{Name: "b", Kind: KindFloat, Required: true},
		},
		Handler: func(_ context.Context, args map[string]any) (any, error) {
			a := args["a"].(float64)
			b := args["b"].(float64)
			switch args["operation"].(string) {
			case "add":
				return a + b, nil
			case "divide":
				if b == 0 {
					return nil, NewToolError("division by zero")
				}
				return a / b, nil
			}
			return nil, NewToolError("unsupported operation")
		},
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	return NewDispatcher(reg)
}

func TestDispatch_Success(t *testing.T) {
	d := dispatcherWithCalculator(t)
	req := CallRequest{Tool: "calculator", Arguments: map[string]any{"operation": "add", "a": float64(2), "b": float64(3)}}

	// Pure handlers must be deterministic across repeated dispatches.
	for i := 0; i < 2; i++ {
		env := d.Dispatch(context.Background(), req)
		if env.Status != "ok" {
			t.Fatalf("dispatch %d: status %s (%s: %s)", i, env.Status, env.Kind, env.Message)
		}
		if env.Result != float64(5) {
			t.Errorf("dispatch %d: result %v, want 5", i, env.Result)
		}
	}
}

func TestDispatch_UnknownTool(t *testing.T) {
	d := dispatcherWithCalculator(t)

	env := d.Dispatch(context.Background(), CallRequest{Tool: "unknown_tool"})
	if env.Status != "error" || env.Kind != ErrUnknownTool {
		t.Errorf("got status=%s kind=%s, want error/UnknownTool", env.Status, env.Kind)
	}
}

func TestDispatch_InvalidArguments(t *testing.T) {
	d := dispatcherWithCalculator(t)

	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"missing required", map[string]any{"operation": "add", "a": float64(1)}, "b"},
		{"bad enum", map[string]any{"operation": "modulo", "a": float64(1), "b": float64(2)}, "operation"},
		{"unknown key", map[string]any{"operation": "add", "a": float64(1), "b": float64(2), "c": float64(3)}, "c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := d.Dispatch(context.Background(), CallRequest{Tool: "calculator", Arguments: tt.args})
			if env.Kind != ErrInvalidArguments {
				t.Fatalf("kind: got %s, want InvalidArguments", env.Kind)
			}
			if !strings.Contains(env.Message, tt.want) {
				t.Errorf("message %q should mention %q", env.Message, tt.want)
			}
		})
	}
}

func TestDispatch_HandlerError(t *testing.T) {
	d := dispatcherWithCalculator(t)

	env := d.Dispatch(context.Background(), CallRequest{
		Tool:      "calculator",
		Arguments: map[string]any{"operation": "divide", "a": float64(10), "b": float64(0)},
	})
	if env.Kind != ErrHandlerError {
		t.Fatalf("kind: got %s, want HandlerError", env.Kind)
	}
	if env.Message != "division by zero" {
		t.Errorf("message: got %q", env.Message)
	}
}

func TestDispatch_PanicContained(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(Descriptor{
		Name: "explosive",
		Handler: func(_ context.Context, _ map[string]any) (any, error) {
			panic("boom")
		},
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := reg.Register(Descriptor{Name: "stable", Handler: noopHandler}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	d := NewDispatcher(reg)

	env := d.Dispatch(context.Background(), CallRequest{Tool: "explosive"})
	if env.Kind != ErrInternalError {
		t.Fatalf("kind: got %s, want InternalError", env.Kind)
	}
	if !strings.Contains(env.Message, "boom") {
		t.Errorf("message should carry panic value, got %q", env.Message)
	}

	// The process keeps serving: subsequent calls are unaffected.
	env = d.Dispatch(context.Background(), CallRequest{Tool: "stable"})
	if env.Status != "ok" {
		t.Errorf("follow-up call failed: %s %s", env.Kind, env.Message)
	}
}

func TestDispatch_UnexpectedErrorIsInternal(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(Descriptor{
		Name: "flaky",
		Handler: func(_ context.Context, _ map[string]any) (any, error) {
			return nil, errors.New("dependency blew up")
		},
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	env := NewDispatcher(reg).Dispatch(context.Background(), CallRequest{Tool: "flaky"})
	if env.Kind != ErrInternalError {
		t.Errorf("kind: got %s, want InternalError", env.Kind)
	}
}

func TestDispatch_Timeout(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(Descriptor{
		Name: "slow",
		Handler: func(ctx context.Context, _ map[string]any) (any, error) {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(5 * time.Second):
				return "done", nil
			}
		},
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	env := NewDispatcher(reg).Dispatch(ctx, CallRequest{Tool: "slow"})
	if env.Kind != ErrTimeout {
		t.Errorf("kind: got %s, want Timeout", env.Kind)
	}
}

func TestDispatch_ConcurrentIsolation(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(Descriptor{
		Name: "failing",
		Handler: func(_ context.Context, _ map[string]any) (any, error) {
			return nil, NewToolError("always fails")
		},
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := reg.Register(Descriptor{Name: "healthy", Handler: noopHandler}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	d := NewDispatcher(reg)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			env := d.Dispatch(context.Background(), CallRequest{Tool: "failing"})
			if env.Kind != ErrHandlerError {
				t.Errorf("failing: kind %s", env.Kind)
			}
		}()
		go func() {
			defer wg.Done()
			env := d.Dispatch(context.Background(), CallRequest{Tool: "healthy"})
			if env.Status != "ok" {
				t.Errorf("healthy call affected by concurrent failure: %s %s", env.Kind, env.Message)
			}
		}()
	}
	wg.Wait()
}

func TestToolError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := WrapToolError(cause, "weather service unreachable")

	if !errors.Is(err, cause) {
		t.Error("WrapToolError should preserve the cause chain")
	}
	if got := err.Error(); !strings.Contains(got, "weather service unreachable") || !strings.Contains(got, "connection refused") {
		t.Errorf("Error(): got %q", got)
	}
}
