package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func tempConfigPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "config.json")
}

func writeTestConfig(t *testing.T, path string, cfg *Config) {
	t.Helper()
	if err := Save(path, cfg); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
}

func TestSave_ReloadRoundTrip(t *testing.T) {
	path := tempConfigPath(t)

	original := &Config{
		DataDir:       "/tmp/test-data",
		LogLevel:      "debug",
		MaxConcurrent: 4,
	}
	original.Backend.Endpoint = "http://ts.example.test"
	original.Backend.Username = "analyst"
	original.Backend.Password = "secret-pass"
	original.Backend.TokenPassword = "token-pass"

	if err := Save(path, original); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.DataDir != original.DataDir {
		t.Errorf("DataDir mismatch: %v != %v", loaded.DataDir, original.DataDir)
	}
	if loaded.LogLevel != original.LogLevel {
		t.Errorf("LogLevel mismatch: %v != %v", loaded.LogLevel, original.LogLevel)
	}
	if loaded.MaxConcurrent != original.MaxConcurrent {
		t.Errorf("MaxConcurrent mismatch: %v != %v", loaded.MaxConcurrent, original.MaxConcurrent)
	}
	if loaded.Backend.Endpoint != original.Backend.Endpoint {
		t.Errorf("Backend.Endpoint mismatch: %v != %v", loaded.Backend.Endpoint, original.Backend.Endpoint)
	}
	if loaded.Backend.Password != original.Backend.Password {
		t.Errorf("Backend.Password mismatch: %v != %v", loaded.Backend.Password, original.Backend.Password)
	}
}

func TestLoad_WritesDefaults(t *testing.T) {
	path := tempConfigPath(t)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected default log level info, got %q", cfg.LogLevel)
	}
	if cfg.MaxConcurrent != 2 {
		t.Errorf("expected default max_concurrent 2, got %d", cfg.MaxConcurrent)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config file should exist after first Load: %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := tempConfigPath(t)

	cfg := &Config{LogLevel: "info"}
	cfg.Backend.Endpoint = "http://from-file.test"
	writeTestConfig(t, path, cfg)

	t.Setenv("SKETCH_ENDPOINT", "http://from-env.test")
	t.Setenv("SKETCH_USERNAME", "env-user")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Backend.Endpoint != "http://from-env.test" {
		t.Errorf("expected env endpoint to win, got %q", loaded.Backend.Endpoint)
	}
	if loaded.Backend.Username != "env-user" {
		t.Errorf("expected env username, got %q", loaded.Backend.Username)
	}
}

func TestSave_AtomicWrite(t *testing.T) {
	path := tempConfigPath(t)

	cfg := &Config{LogLevel: "info"}
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	tmpPath := path + ".tmp"
	if _, err := os.Stat(tmpPath); !os.IsNotExist(err) {
		t.Errorf("temp file should not exist after successful save")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read saved config: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Errorf("saved file is not valid JSON: %v", err)
	}
}

func TestListValues_WithMask(t *testing.T) {
	cfg := &Config{LogLevel: "info"}
	cfg.Backend.Password = "secret-key-1234"
	cfg.Backend.TokenPassword = "token-pass-abcd"

	flat, err := ListValues(cfg, true)
	if err != nil {
		t.Fatalf("ListValues failed: %v", err)
	}

	if flat["backend.password"] != "***1234" {
		t.Errorf("expected masked backend.password=***1234, got %v", flat["backend.password"])
	}
	if flat["backend.token_password"] != "***abcd" {
		t.Errorf("expected masked backend.token_password=***abcd, got %v", flat["backend.token_password"])
	}
	if flat["log_level"] != "info" {
		t.Errorf("expected log_level=info, got %v", flat["log_level"])
	}
}

func TestListValues_NoMask(t *testing.T) {
	cfg := &Config{LogLevel: "info"}
	cfg.Backend.Password = "secret-key-1234"

	flat, err := ListValues(cfg, false)
	if err != nil {
		t.Fatalf("ListValues failed: %v", err)
	}
	if flat["backend.password"] != "secret-key-1234" {
		t.Errorf("expected unmasked backend.password, got %v", flat["backend.password"])
	}
}

func TestGetValue_ExistingKey(t *testing.T) {
	path := tempConfigPath(t)

	cfg := &Config{LogLevel: "debug", MaxConcurrent: 8}
	cfg.Backend.Endpoint = "http://ts.example.test"
	writeTestConfig(t, path, cfg)

	v, err := GetValue(path, "log_level")
	if err != nil {
		t.Fatalf("GetValue failed: %v", err)
	}
	if v != "debug" {
		t.Errorf("expected log_level=debug, got %v", v)
	}

	v, err = GetValue(path, "backend.endpoint")
	if err != nil {
		t.Fatalf("GetValue failed: %v", err)
	}
	if v != "http://ts.example.test" {
		t.Errorf("expected backend.endpoint, got %v", v)
	}

	v, err = GetValue(path, "max_concurrent")
	if err != nil {
		t.Fatalf("GetValue failed: %v", err)
	}
	if v != "8" {
		t.Errorf("expected max_concurrent=8, got %v", v)
	}
}

func TestGetValue_UnknownKey(t *testing.T) {
	path := tempConfigPath(t)

	writeTestConfig(t, path, &Config{LogLevel: "info"})

	_, err := GetValue(path, "nonexistent.key")
	if err == nil {
		t.Fatal("expected error for unknown key, got nil")
	}
	expected := "unknown config key: nonexistent.key"
	if err.Error() != expected {
		t.Errorf("expected error %q, got %q", expected, err.Error())
	}
}

func TestSetValue_String(t *testing.T) {
	path := tempConfigPath(t)

	cfg := &Config{LogLevel: "info"}
	cfg.Backend.Username = "analyst"
	writeTestConfig(t, path, cfg)

	if err := SetValue(path, "log_level", "debug"); err != nil {
		t.Fatalf("SetValue failed: %v", err)
	}

	v, err := GetValue(path, "log_level")
	if err != nil {
		t.Fatalf("GetValue failed: %v", err)
	}
	if v != "debug" {
		t.Errorf("expected log_level=debug after set, got %v", v)
	}

	// Other values are preserved.
	v, err = GetValue(path, "backend.username")
	if err != nil {
		t.Fatalf("GetValue failed: %v", err)
	}
	if v != "analyst" {
		t.Errorf("expected backend.username=analyst (preserved), got %v", v)
	}
}

func TestSetValue_Numeric(t *testing.T) {
	path := tempConfigPath(t)

	writeTestConfig(t, path, &Config{MaxConcurrent: 2})

	if err := SetValue(path, "max_concurrent", "16"); err != nil {
		t.Fatalf("SetValue failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.MaxConcurrent != 16 {
		t.Errorf("expected max_concurrent=16, got %d", loaded.MaxConcurrent)
	}
}

func TestSetValue_UnknownKey(t *testing.T) {
	path := tempConfigPath(t)

	writeTestConfig(t, path, &Config{LogLevel: "info"})

	err := SetValue(path, "nonexistent.key", "value")
	if err == nil {
		t.Fatal("expected error for unknown key, got nil")
	}
}
