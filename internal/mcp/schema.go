package mcp

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

// ParamKind is the declared semantic type of a tool parameter.
type ParamKind string

const (
	KindInteger ParamKind = "integer"
	KindFloat   ParamKind = "float"
	KindString  ParamKind = "string"
	KindEnum    ParamKind = "enum"
	KindBoolean ParamKind = "boolean"
)

// ParameterSpec describes a single declared parameter of a tool.
//
// Default is only meaningful when Required is false; AllowedValues is only
// meaningful when Kind is KindEnum, and must then be non-empty.
type ParameterSpec struct {
	Name          string    `json:"name"`
	Kind          ParamKind `json:"kind"`
	Required      bool      `json:"required"`
	Default       any       `json:"default,omitempty"`
	AllowedValues []string  `json:"allowed_values,omitempty"`
	Description   string    `json:"description,omitempty"`
}

// ToolSchema is the ordered parameter list of a tool. Order is stable and
// used for documentation output only; arguments are always name-keyed.
type ToolSchema []ParameterSpec

// checkWellFormed verifies the schema invariants at registration time.
func (s ToolSchema) checkWellFormed() error {
	seen := make(map[string]struct{}, len(s))
	for _, p := range s {
		if p.Name == "" {
			return fmt.Errorf("parameter with empty name")
		}
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("duplicate parameter %q", p.Name)
		}
		seen[p.Name] = struct{}{}

		switch p.Kind {
		case KindInteger, KindFloat, KindString, KindEnum, KindBoolean:
		default:
			return fmt.Errorf("parameter %q: unsupported kind %q", p.Name, p.Kind)
		}
		if p.Kind == KindEnum && len(p.AllowedValues) == 0 {
			return fmt.Errorf("parameter %q: enum kind requires allowed values", p.Name)
		}
		if p.Required && p.Default != nil {
			return fmt.Errorf("parameter %q: required parameter cannot carry a default", p.Name)
		}
	}
	return nil
}

// ValidationKind identifies the specific way an argument mapping failed
// validation against a schema.
type ValidationKind string

const (
	MissingRequired  ValidationKind = "MissingRequired"
	TypeMismatch     ValidationKind = "TypeMismatch"
	InvalidEnum      ValidationKind = "InvalidEnum"
	UnknownParameter ValidationKind = "UnknownParameter"
)

// ValidationError reports one argument validation failure. It carries enough
// structured detail for a caller to correct the request.
type ValidationError struct {
	Kind     ValidationKind
	Param    string
	Expected ParamKind
	Actual   string
	Allowed  []string
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case MissingRequired:
		return fmt.Sprintf("missing required parameter %q", e.Param)
	case TypeMismatch:
		return fmt.Sprintf("parameter %q: expected %s, got %s", e.Param, e.Expected, e.Actual)
	case InvalidEnum:
		return fmt.Sprintf("parameter %q: value not in allowed set %v", e.Param, e.Allowed)
	case UnknownParameter:
		return fmt.Sprintf("unknown parameter %q", e.Param)
	}
	return fmt.Sprintf("invalid parameter %q", e.Param)
}

// Validate checks a raw argument mapping against a schema and returns the
// validated mapping with defaults substituted for absent optional parameters.
//
// Validate is a pure function: it never mutates args and is deterministic
// for a given (schema, args) pair. Numeric strings are not coerced for
// integer/float kinds; enum membership is compared byte-exact.
func Validate(schema ToolSchema, args map[string]any) (map[string]any, error) {
	declared := make(map[string]struct{}, len(schema))
	for _, p := range schema {
		declared[p.Name] = struct{}{}
	}

	// Reject undeclared keys first so client-side typos surface before any
	// missing-parameter report. Keys are sorted for deterministic messages.
	extra := make([]string, 0)
	for name := range args {
		if _, ok := declared[name]; !ok {
			extra = append(extra, name)
		}
	}
	if len(extra) > 0 {
		sort.Strings(extra)
		return nil, &ValidationError{Kind: UnknownParameter, Param: extra[0]}
	}

	out := make(map[string]any, len(schema))
	for _, p := range schema {
		raw, present := args[p.Name]
		if !present {
			if p.Required {
				return nil, &ValidationError{Kind: MissingRequired, Param: p.Name}
			}
			if p.Default != nil {
				out[p.Name] = p.Default
			}
			continue
		}

		val, err := checkKind(p, raw)
		if err != nil {
			return nil, err
		}
		out[p.Name] = val
	}
	return out, nil
}

// checkKind verifies one provided value against its declared kind and
// normalizes it: integer values become int, float values float64.
func checkKind(p ParameterSpec, raw any) (any, error) {
	mismatch := func() error {
		return &ValidationError{Kind: TypeMismatch, Param: p.Name, Expected: p.Kind, Actual: typeName(raw)}
	}

	switch p.Kind {
	case KindBoolean:
		b, ok := raw.(bool)
		if !ok {
			return nil, mismatch()
		}
		return b, nil

	case KindString:
		s, ok := raw.(string)
		if !ok {
			return nil, mismatch()
		}
		return s, nil

	case KindEnum:
		s, ok := raw.(string)
		if !ok {
			return nil, mismatch()
		}
		for _, allowed := range p.AllowedValues {
			if s == allowed {
				return s, nil
			}
		}
		return nil, &ValidationError{Kind: InvalidEnum, Param: p.Name, Allowed: p.AllowedValues}

	case KindFloat:
		switch v := raw.(type) {
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		case json.Number:
			f, err := v.Float64()
			if err != nil {
				return nil, mismatch()
			}
			return f, nil
		}
		return nil, mismatch()

	case KindInteger:
		switch v := raw.(type) {
		case int:
			return v, nil
		case float64:
			// JSON has no integer type; accept whole-valued numbers only.
			if math.Trunc(v) != v {
				return nil, mismatch()
			}
			return int(v), nil
		case json.Number:
			i, err := v.Int64()
			if err != nil {
				return nil, mismatch()
			}
			return int(i), nil
		}
		return nil, mismatch()
	}

	return nil, mismatch()
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case float64, int, json.Number:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	return fmt.Sprintf("%T", v)
}
