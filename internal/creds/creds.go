// Package creds establishes authenticated backend sessions. The three
// supported strategies are mutually exclusive and resolved before any
// network interaction: explicit endpoint credentials, an encrypted
// token file unlocked with a passphrase, or the default cached
// credential file under the data directory.
package creds

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/crypto/scrypt"

	"github.com/user/sketchfetch/internal/timesketch"
)

// Credentials is the decrypted contents of a token or cached credential
// file.
type Credentials struct {
	Endpoint string `json:"endpoint"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

// Strategy produces an authenticated backend client.
type Strategy interface {
	Resolve(ctx context.Context) (*timesketch.Client, error)
}

// Explicit authenticates with an endpoint, username and password.
type Explicit struct {
	Endpoint string
	Username string
	Password string
}

// Resolve logs in and verifies the session.
func (s Explicit) Resolve(ctx context.Context) (*timesketch.Client, error) {
	client, err := timesketch.Connect(ctx, s.Endpoint, s.Username, s.Password)
	if err != nil {
		return nil, err
	}
	if !client.HasSession() {
		return nil, errors.New("no backend session established")
	}
	return client, nil
}

// TokenFile decrypts a stored credential file with a passphrase.
type TokenFile struct {
	Path       string
	Passphrase string
}

// Resolve reads and decrypts the token file and builds a client from
// the stored session token.
func (s TokenFile) Resolve(_ context.Context) (*timesketch.Client, error) {
	creds, err := ReadTokenFile(s.Path, s.Passphrase)
	if err != nil {
		return nil, err
	}
	client := timesketch.NewWithToken(creds.Endpoint, creds.Username, creds.Token)
	if !client.HasSession() {
		return nil, fmt.Errorf("token file %s holds no session token", s.Path)
	}
	return client, nil
}

// Cached reads the default plaintext credential cache.
type Cached struct {
	Path string
}

// Resolve reads the cached credential file and builds a client from the
// stored session token.
func (s Cached) Resolve(_ context.Context) (*timesketch.Client, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no cached credentials at %s, run 'creds encrypt' or pass --endpoint/--username/--password", s.Path)
		}
		return nil, fmt.Errorf("read cached credentials: %w", err)
	}
	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("parse cached credentials: %w", err)
	}
	client := timesketch.NewWithToken(creds.Endpoint, creds.Username, creds.Token)
	if !client.HasSession() {
		return nil, fmt.Errorf("cached credentials at %s hold no session token", s.Path)
	}
	return client, nil
}

// Inputs are the credential-related setup options a caller may supply.
type Inputs struct {
	Endpoint      string
	Username      string
	Password      string
	TokenPassword string
	TokenPath     string
	CachePath     string
}

// Select picks exactly one strategy from the supplied inputs. Explicit
// endpoint credentials win when complete; a token passphrase selects
// the token file; otherwise the cached credential file is used.
func Select(in Inputs) Strategy {
	if in.Endpoint != "" && in.Username != "" && in.Password != "" {
		return Explicit{Endpoint: in.Endpoint, Username: in.Username, Password: in.Password}
	}
	if in.TokenPassword != "" {
		return TokenFile{Path: in.TokenPath, Passphrase: in.TokenPassword}
	}
	return Cached{Path: in.CachePath}
}

// Token file layout: 16-byte scrypt salt, then AES-GCM nonce and
// ciphertext of the JSON-encoded Credentials.
const saltSize = 16

func deriveKey(passphrase string, salt []byte) ([]byte, error) {
	key, err := scrypt.Key([]byte(passphrase), salt, 1<<15, 8, 1, 32)
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	return key, nil
}

// WriteTokenFile encrypts the credentials with the passphrase and
// writes them to path, replacing any existing file atomically.
func WriteTokenFile(path, passphrase string, creds Credentials) error {
	plaintext, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("marshal credentials: %w", err)
	}

	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return fmt.Errorf("generate salt: %w", err)
	}

	key, err := deriveKey(passphrase, salt)
	if err != nil {
		return err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return fmt.Errorf("generate nonce: %w", err)
	}

	data := append(salt, gcm.Seal(nonce, nonce, plaintext, nil)...)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create credentials dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename token file: %w", err)
	}
	return nil
}

// ReadTokenFile decrypts the credential file at path with the
// passphrase.
func ReadTokenFile(path, passphrase string) (*Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read token file: %w", err)
	}
	if len(data) < saltSize {
		return nil, errors.New("token file too short")
	}
	salt, rest := data[:saltSize], data[saltSize:]

	key, err := deriveKey(passphrase, salt)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	if len(rest) < gcm.NonceSize() {
		return nil, errors.New("token file too short")
	}
	nonce, ciphertext := rest[:gcm.NonceSize()], rest[gcm.NonceSize():]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, errors.New("decrypt token file: wrong passphrase or corrupt file")
	}

	var creds Credentials
	if err := json.Unmarshal(plaintext, &creds); err != nil {
		return nil, fmt.Errorf("parse token file: %w", err)
	}
	return &creds, nil
}
