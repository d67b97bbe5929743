package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Addr != ":8080" {
		t.Errorf("addr: %s", cfg.Addr)
	}
	if cfg.RequestTimeout.Std() != 30*time.Second {
		t.Errorf("request timeout: %s", cfg.RequestTimeout.Std())
	}
	if cfg.Weather.APIKey != "" {
		t.Error("weather should default to simulated mode")
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "toolserve.yaml")
	content := `
addr: "127.0.0.1:9090"
request_timeout: 10s
weather:
  api_key: abc123
  cache_ttl: 1h
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Addr != "127.0.0.1:9090" {
		t.Errorf("addr: %s", cfg.Addr)
	}
	if cfg.RequestTimeout.Std() != 10*time.Second {
		t.Errorf("request timeout: %s", cfg.RequestTimeout.Std())
	}
	if cfg.Weather.APIKey != "abc123" || cfg.Weather.CacheTTL.Std() != time.Hour {
		t.Errorf("weather: %+v", cfg.Weather)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "toolserve.yaml")
	if err := os.WriteFile(path, []byte("addr: \":7000\"\n"), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	t.Setenv("TOOLSERVE_ADDR", ":7001")
	t.Setenv("TOOLSERVE_REQUEST_TIMEOUT", "5s")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Addr != ":7001" {
		t.Errorf("env override lost: %s", cfg.Addr)
	}
	if cfg.RequestTimeout.Std() != 5*time.Second {
		t.Errorf("request timeout: %s", cfg.RequestTimeout.Std())
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing explicit file should fail")
	}

	t.Setenv("TOOLSERVE_REQUEST_TIMEOUT", "not-a-duration")
	if _, err := Load(""); err == nil {
		t.Error("bad duration should fail")
	}
}
