// Package state provides the pipeline's orchestration context and
// filesystem-backed storage implementations.
package state

import "github.com/user/sketchfetch/internal/types"

// Compile-time interface compliance checks.
var _ types.ArtifactStore = (*ArtifactStore)(nil)
var _ types.RunLog = (*RunLog)(nil)
