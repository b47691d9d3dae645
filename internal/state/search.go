// internal/state/search.go
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// SearchDefinition is a named, saved search that can be run on demand
// or on a cron schedule. Timestamps, indices and labels are kept in
// their textual form and validated when the search is set up.
type SearchDefinition struct {
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	SketchID        string `json:"sketch_id,omitempty"`
	Query           string `json:"query"`
	Start           string `json:"start,omitempty"`
	End             string `json:"end,omitempty"`
	Indices         string `json:"indices,omitempty"`
	Labels          string `json:"labels,omitempty"`
	Format          string `json:"format"`
	Fields          string `json:"fields,omitempty"`
	IncludeInternal bool   `json:"include_internal,omitempty"`
	Schedule        string `json:"schedule,omitempty"`
	Enabled         bool   `json:"enabled"`
}

// SearchStore is a JSON-file-backed store for saved search definitions.
type SearchStore struct {
	path string
	mu   sync.RWMutex
}

// NewSearchStore creates a file-backed SearchStore at the given file path.
func NewSearchStore(path string) *SearchStore {
	return &SearchStore{path: path}
}

// Path returns the file path used by this store.
func (s *SearchStore) Path() string {
	return s.path
}

// List returns all saved searches. Returns an empty slice if the file
// doesn't exist.
func (s *SearchStore) List() ([]*SearchDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	defs, err := s.load()
	if err != nil {
		return nil, err
	}
	if defs == nil {
		return []*SearchDefinition{}, nil
	}
	return defs, nil
}

// Get finds a saved search by name. Returns an error if not found.
func (s *SearchStore) Get(name string) (*SearchDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	defs, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, def := range defs {
		if def.Name == name {
			return def, nil
		}
	}
	return nil, fmt.Errorf("saved search not found: %s", name)
}

// Add appends a saved search. Returns an error if one with the same
// name already exists.
func (s *SearchStore) Add(def *SearchDefinition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	defs, err := s.load()
	if err != nil {
		return err
	}
	for _, existing := range defs {
		if existing.Name == def.Name {
			return fmt.Errorf("saved search already exists: %s", def.Name)
		}
	}

	defs = append(defs, def)
	return s.save(defs)
}

// Remove deletes a saved search by name. Returns an error if not found.
func (s *SearchStore) Remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	defs, err := s.load()
	if err != nil {
		return err
	}
	for i, def := range defs {
		if def.Name == name {
			defs = append(defs[:i], defs[i+1:]...)
			return s.save(defs)
		}
	}
	return fmt.Errorf("saved search not found: %s", name)
}

// SetEnabled toggles the enabled flag for a saved search. Returns an
// error if not found.
func (s *SearchStore) SetEnabled(name string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	defs, err := s.load()
	if err != nil {
		return err
	}
	for _, def := range defs {
		if def.Name == name {
			def.Enabled = enabled
			return s.save(defs)
		}
	}
	return fmt.Errorf("saved search not found: %s", name)
}

// load reads the JSON file and returns the definitions. Returns nil if
// the file doesn't exist.
func (s *SearchStore) load() ([]*SearchDefinition, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read searches file: %w", err)
	}

	var defs []*SearchDefinition
	if err := json.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("unmarshal searches: %w", err)
	}
	return defs, nil
}

// save writes the definitions to disk using atomic write (temp file +
// rename).
func (s *SearchStore) save(defs []*SearchDefinition) error {
	data, err := json.MarshalIndent(defs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal searches: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create searches dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp searches file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename temp searches file: %w", err)
	}
	return nil
}
