// internal/state/state.go
package state

import (
	"sync"

	"github.com/user/sketchfetch/internal/types"
)

// PipelineState is the orchestration context shared with a pipeline
// run: upstream ticket attributes, a cache keyed by opaque names (used
// for backend sessions and resolved sketches), and the artifacts the
// run produced.
type PipelineState struct {
	mu         sync.RWMutex
	attributes []types.TicketAttribute
	cache      map[string]any
	artifacts  []*types.Artifact
}

// NewPipelineState creates an empty pipeline state.
func NewPipelineState() *PipelineState {
	return &PipelineState{
		cache: make(map[string]any),
	}
}

// AddAttribute records one upstream ticket attribute.
func (s *PipelineState) AddAttribute(attr types.TicketAttribute) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attributes = append(s.attributes, attr)
}

// Attributes returns all recorded ticket attributes.
func (s *PipelineState) Attributes() []types.TicketAttribute {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.TicketAttribute, len(s.attributes))
	copy(out, s.attributes)
	return out
}

// AddToCache stores a value under an opaque name.
func (s *PipelineState) AddToCache(name string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[name] = value
}

// FromCache returns the cached value for name, or nil.
func (s *PipelineState) FromCache(name string) any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cache[name]
}

// StoreArtifact records a produced artifact for downstream consumers.
func (s *PipelineState) StoreArtifact(artifact *types.Artifact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artifacts = append(s.artifacts, artifact)
}

// Artifacts returns the artifacts produced so far.
func (s *PipelineState) Artifacts() []*types.Artifact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*types.Artifact, len(s.artifacts))
	copy(out, s.artifacts)
	return out
}
