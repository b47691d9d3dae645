package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// ListValues returns the config as a flat dot-keyed map, with secrets
// masked when mask is true.
func ListValues(cfg *Config, mask bool) (map[string]any, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	var nested map[string]any
	if err := json.Unmarshal(data, &nested); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	flat := Flatten(nested)
	if mask {
		flat = MaskSecrets(flat)
	}
	return flat, nil
}

// GetValue reads one dot-keyed value from the config file at path.
// Secrets are masked.
func GetValue(path, key string) (string, error) {
	cfg, err := Load(path)
	if err != nil {
		return "", err
	}
	flat, err := ListValues(cfg, true)
	if err != nil {
		return "", err
	}
	val, ok := flat[key]
	if !ok {
		return "", fmt.Errorf("unknown config key: %s", key)
	}
	return fmt.Sprintf("%v", val), nil
}

// SetValue writes one dot-keyed value into the config file at path.
// The value is coerced to the existing type of the key.
func SetValue(path, key, value string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("read config: %w", err)
		}
		// Start from defaults when there is no file yet.
		cfg, loadErr := Load(path)
		if loadErr != nil {
			return loadErr
		}
		data, err = json.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
	}

	var nested map[string]any
	if err := json.Unmarshal(data, &nested); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	flat := Flatten(nested)
	existing, ok := flat[key]
	if !ok {
		return fmt.Errorf("unknown config key: %s", key)
	}
	flat[key] = coerce(value, existing)

	merged, err := json.Marshal(Unflatten(flat))
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	cfg := &Config{}
	if err := json.Unmarshal(merged, cfg); err != nil {
		return fmt.Errorf("apply config value: %w", err)
	}
	return Save(path, cfg)
}

// coerce converts the string value to match the type already stored
// under the key.
func coerce(value string, existing any) any {
	switch existing.(type) {
	case bool:
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	case float64:
		if n, err := strconv.ParseFloat(value, 64); err == nil {
			return n
		}
	}
	return value
}
