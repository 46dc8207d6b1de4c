package config

import (
	"os"
	"path/filepath"
	"testing"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestNew_Defaults(t *testing.T) {
	cfg, err := New(t.TempDir(), env(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Endpoint != DefaultEndpoint {
		t.Errorf("expected endpoint %q, got %q", DefaultEndpoint, cfg.Endpoint)
	}
	if err := cfg.RequireToken(); err != ErrTokenMissing {
		t.Errorf("expected ErrTokenMissing, got %v", err)
	}
}

func TestNew_TokenFromEnv(t *testing.T) {
	cfg, err := New(t.TempDir(), env(map[string]string{TokenEnv: "  secret \n"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Token != "secret" {
		t.Errorf("expected trimmed token, got %q", cfg.Token)
	}
	if err := cfg.RequireToken(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNew_ConfigFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ConfigFile), []byte("endpoint: http://file.example/\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := New(dir, env(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Endpoint != "http://file.example" {
		t.Errorf("expected endpoint from file, got %q", cfg.Endpoint)
	}

	cfg, err = New(dir, env(map[string]string{EndpointEnv: "http://env.example"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Endpoint != "http://env.example" {
		t.Errorf("expected endpoint from env, got %q", cfg.Endpoint)
	}
}

func TestNew_InvalidConfigFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ConfigFile), []byte("endpoint: [unclosed\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := New(dir, env(nil)); err == nil {
		t.Error("expected error for malformed config.yml")
	}
}
