package creds

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTokenFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.enc")

	stored := Credentials{
		Endpoint: "http://ts.example.test",
		Username: "analyst",
		Token:    "tok-123",
	}
	if err := WriteTokenFile(path, "passphrase", stored); err != nil {
		t.Fatal(err)
	}

	got, err := ReadTokenFile(path, "passphrase")
	if err != nil {
		t.Fatal(err)
	}
	if *got != stored {
		t.Errorf("expected %+v, got %+v", stored, *got)
	}

	// Token must not appear in the file.
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(raw), "tok-123") {
		t.Error("token stored in plaintext")
	}
}

func TestTokenFileWrongPassphrase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.enc")

	if err := WriteTokenFile(path, "right", Credentials{Token: "tok"}); err != nil {
		t.Fatal(err)
	}

	_, err := ReadTokenFile(path, "wrong")
	if err == nil {
		t.Fatal("expected error for wrong passphrase")
	}
	if !strings.Contains(err.Error(), "wrong passphrase") {
		t.Errorf("unexpected error: %q", err.Error())
	}
}

func TestTokenFileTruncated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.enc")
	if err := os.WriteFile(path, []byte("short"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := ReadTokenFile(path, "pass")
	if err == nil || !strings.Contains(err.Error(), "too short") {
		t.Errorf("expected too-short error, got %v", err)
	}
}

func TestSelectExplicitWins(t *testing.T) {
	s := Select(Inputs{
		Endpoint:      "http://ts.example.test",
		Username:      "analyst",
		Password:      "secret",
		TokenPassword: "also-set",
	})
	if _, ok := s.(Explicit); !ok {
		t.Errorf("expected Explicit, got %T", s)
	}
}

func TestSelectTokenFile(t *testing.T) {
	s := Select(Inputs{TokenPassword: "pass", TokenPath: "/tmp/token.enc"})
	tf, ok := s.(TokenFile)
	if !ok {
		t.Fatalf("expected TokenFile, got %T", s)
	}
	if tf.Path != "/tmp/token.enc" {
		t.Errorf("unexpected path: %q", tf.Path)
	}
}

func TestSelectCachedFallback(t *testing.T) {
	s := Select(Inputs{Endpoint: "http://ts.example.test", CachePath: "/tmp/creds.json"})
	if _, ok := s.(Cached); !ok {
		t.Errorf("expected Cached when explicit credentials are incomplete, got %T", s)
	}
}

func TestTokenFileResolve(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.enc")
	stored := Credentials{Endpoint: "http://ts.example.test", Username: "analyst", Token: "tok"}
	if err := WriteTokenFile(path, "pass", stored); err != nil {
		t.Fatal(err)
	}

	client, err := TokenFile{Path: path, Passphrase: "pass"}.Resolve(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !client.HasSession() {
		t.Error("expected session from decrypted token")
	}
}

func TestCachedResolve(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	data, _ := json.Marshal(Credentials{Endpoint: "http://ts.example.test", Token: "tok"})
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	client, err := Cached{Path: path}.Resolve(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !client.HasSession() {
		t.Error("expected session from cached credentials")
	}
}

func TestCachedResolveMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")

	_, err := Cached{Path: path}.Resolve(context.Background())
	if err == nil {
		t.Fatal("expected error for missing cache file")
	}
	if !strings.Contains(err.Error(), "no cached credentials") {
		t.Errorf("unexpected error: %q", err.Error())
	}
}
