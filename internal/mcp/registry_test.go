package mcp

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func noopHandler(_ context.Context, _ map[string]any) (any, error) {
	return "ok", nil
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	reg := NewRegistry()

	err := reg.Register(Descriptor{Name: "echo", Description: "Echo input", Handler: noopHandler})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	d, err := reg.Lookup("echo")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if d.Name != "echo" {
		t.Errorf("Name: got %s", d.Name)
	}
}

func TestRegistry_DuplicateName(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(Descriptor{Name: "echo", Handler: noopHandler}); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}

	err := reg.Register(Descriptor{Name: "echo", Handler: noopHandler})
	var rerr *RegistryError
	if !errors.As(err, &rerr) || rerr.Kind != DuplicateName {
		t.Fatalf("expected DuplicateName, got %v", err)
	}
}

func TestRegistry_NotFound(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.Lookup("missing")
	var rerr *RegistryError
	if !errors.As(err, &rerr) || rerr.Kind != NotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
	if rerr.Name != "missing" {
		t.Errorf("Name: got %s", rerr.Name)
	}
}

func TestRegistry_CaseSensitiveNames(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(Descriptor{Name: "time", Handler: noopHandler}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	// Byte-exact comparison: a case variant is a distinct tool.
	if err := reg.Register(Descriptor{Name: "Time", Handler: noopHandler}); err != nil {
		t.Fatalf("Register case variant failed: %v", err)
	}
	if reg.Len() != 2 {
		t.Errorf("Len: got %d, want 2", reg.Len())
	}
}

func TestRegistry_ListPreservesRegistrationOrder(t *testing.T) {
	reg := NewRegistry()
	names := []string{"calculator", "weather", "imageprocessing", "websearch", "time"}
	for _, name := range names {
		if err := reg.Register(Descriptor{Name: name, Handler: noopHandler}); err != nil {
			t.Fatalf("Register %s failed: %v", name, err)
		}
	}

	defs := reg.List()
	if len(defs) != len(names) {
		t.Fatalf("List: got %d entries, want %d", len(defs), len(names))
	}
	for i, name := range names {
		if defs[i].Name != name {
			t.Errorf("List[%d]: got %s, want %s", i, defs[i].Name, name)
		}
	}
}

func TestRegistry_ListIncludesParameterMetadata(t *testing.T) {
	reg := NewRegistry()
	err := reg.Register(Descriptor{
		Name: "time",
		Schema: ToolSchema{
			{Name: "format", Kind: KindEnum, Default: "iso", AllowedValues: []string{"iso", "human", "timestamp"}},
		},
		Handler: noopHandler,
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	defs := reg.List()
	p := defs[0].Parameters[0]
	if p.Required {
		t.Error("format should be optional")
	}
	if p.Default != "iso" {
		t.Errorf("default: got %v", p.Default)
	}
	if len(p.AllowedValues) != 3 {
		t.Errorf("allowed_values: got %v", p.AllowedValues)
	}
}

func TestRegistry_RejectsInvalidDescriptors(t *testing.T) {
	tests := []struct {
		name string
		desc Descriptor
	}{
		{"empty name", Descriptor{Handler: noopHandler}},
		{"nil handler", Descriptor{Name: "broken"}},
		{
			"malformed schema",
			Descriptor{Name: "broken", Schema: ToolSchema{{Name: "mode", Kind: KindEnum}}, Handler: noopHandler},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := NewRegistry().Register(tt.desc); err == nil {
				t.Error("expected registration error")
			}
		})
	}
}

func TestRegistry_ConcurrentLookups(t *testing.T) {
	reg := NewRegistry()
	for i := 0; i < 8; i++ {
		name := fmt.Sprintf("tool%d", i)
		if err := reg.Register(Descriptor{Name: name, Handler: noopHandler}); err != nil {
			t.Fatalf("Register failed: %v", err)
		}
	}

	done := make(chan struct{})
	for i := 0; i < 16; i++ {
		go func(i int) {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				if _, err := reg.Lookup(fmt.Sprintf("tool%d", i%8)); err != nil {
					t.Errorf("Lookup failed: %v", err)
					return
				}
				reg.List()
			}
		}(i)
	}
	for i := 0; i < 16; i++ {
		<-done
	}
}
