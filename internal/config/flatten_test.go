package config

import (
	"reflect"
	"testing"
)

func TestFlatten(t *testing.T) {
	nested := map[string]any{
		"data_dir": "/tmp/data",
		"backend": map[string]any{
			"endpoint": "http://ts.example.test",
			"username": "analyst",
		},
	}

	flat := Flatten(nested)

	want := map[string]any{
		"data_dir":         "/tmp/data",
		"backend.endpoint": "http://ts.example.test",
		"backend.username": "analyst",
	}
	if !reflect.DeepEqual(flat, want) {
		t.Errorf("Flatten: expected %v, got %v", want, flat)
	}
}

func TestUnflatten(t *testing.T) {
	flat := map[string]any{
		"data_dir":         "/tmp/data",
		"backend.endpoint": "http://ts.example.test",
	}

	nested := Unflatten(flat)

	if nested["data_dir"] != "/tmp/data" {
		t.Errorf("expected data_dir, got %v", nested["data_dir"])
	}
	backend, ok := nested["backend"].(map[string]any)
	if !ok {
		t.Fatalf("expected backend to be a map, got %T", nested["backend"])
	}
	if backend["endpoint"] != "http://ts.example.test" {
		t.Errorf("expected backend.endpoint, got %v", backend["endpoint"])
	}
}

func TestFlattenUnflattenRoundTrip(t *testing.T) {
	nested := map[string]any{
		"a": "1",
		"b": map[string]any{
			"c": "2",
			"d": map[string]any{"e": "3"},
		},
	}

	if got := Unflatten(Flatten(nested)); !reflect.DeepEqual(got, nested) {
		t.Errorf("round trip mismatch: expected %v, got %v", nested, got)
	}
}

func TestMaskSecrets(t *testing.T) {
	flat := map[string]any{
		"backend.password":       "super-secret-1234",
		"backend.token_password": "ab",
		"backend.username":       "analyst",
	}

	masked := MaskSecrets(flat)

	if masked["backend.password"] != "***1234" {
		t.Errorf("expected ***1234, got %v", masked["backend.password"])
	}
	if masked["backend.token_password"] != "***ab" {
		t.Errorf("expected ***ab for short secret, got %v", masked["backend.token_password"])
	}
	if masked["backend.username"] != "analyst" {
		t.Errorf("non-secret should be unchanged, got %v", masked["backend.username"])
	}
}

func TestIsSecretKey(t *testing.T) {
	if !IsSecretKey("backend.password") {
		t.Error("backend.password should be secret")
	}
	if !IsSecretKey("backend.token_password") {
		t.Error("backend.token_password should be secret")
	}
	if IsSecretKey("backend.username") {
		t.Error("backend.username should not be secret")
	}
}
