package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

type Config struct {
	DataDir       string `json:"data_dir"`
	LogLevel      string `json:"log_level"`
	MaxConcurrent int    `json:"max_concurrent"`
	Backend       struct {
		Endpoint      string `json:"endpoint"`
		Username      string `json:"username"`
		Password      string `json:"password"`
		TokenPassword string `json:"token_password"`
	} `json:"backend"`
}

// TokenPath returns the location of the encrypted token file under the
// data directory.
func (c *Config) TokenPath() string {
	return filepath.Join(c.DataDir, "token.enc")
}

// CachePath returns the location of the plaintext cached credential
// file under the data directory.
func (c *Config) CachePath() string {
	return filepath.Join(c.DataDir, "credentials.json")
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		DataDir:       filepath.Join(os.Getenv("HOME"), ".sketchfetch"),
		LogLevel:      "info",
		MaxConcurrent: 2,
	}

	// Load from file if exists, otherwise write defaults
	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	} else if os.IsNotExist(err) {
		if err := Save(path, cfg); err != nil {
			return nil, err
		}
	}

	// Override from env (highest precedence)
	if endpoint := os.Getenv("SKETCH_ENDPOINT"); endpoint != "" {
		cfg.Backend.Endpoint = endpoint
	}
	if username := os.Getenv("SKETCH_USERNAME"); username != "" {
		cfg.Backend.Username = username
	}
	if password := os.Getenv("SKETCH_PASSWORD"); password != "" {
		cfg.Backend.Password = password
	}
	if tokenPassword := os.Getenv("SKETCH_TOKEN_PASSWORD"); tokenPassword != "" {
		cfg.Backend.TokenPassword = tokenPassword
	}

	return cfg, nil
}

// Save writes the config to path using atomic write (temp file + rename).
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	data = append(data, '\n')
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}
