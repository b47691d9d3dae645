// internal/delivery/registry.go
package delivery

import (
	"fmt"
	"sync"

	"github.com/user/sketchfetch/internal/types"
)

// Handler consumes a published artifact.
type Handler func(artifact *types.Artifact) error

// Registry routes produced artifacts to the appropriate downstream
// consumer based on artifact kind (table or file).
type Registry struct {
	mu       sync.RWMutex
	handlers map[types.ArtifactKind]Handler
}

// NewRegistry creates an empty delivery registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[types.ArtifactKind]Handler),
	}
}

// Register adds a handler for the given artifact kind.
func (r *Registry) Register(kind types.ArtifactKind, handler Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[kind] = handler
}

// Publish finds the handler for the artifact's kind and calls it.
// Returns an error if no handler is registered for the kind.
func (r *Registry) Publish(artifact *types.Artifact) error {
	r.mu.RLock()
	handler, ok := r.handlers[artifact.Kind]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("no delivery handler for artifact kind: %s", artifact.Kind)
	}
	return handler(artifact)
}
