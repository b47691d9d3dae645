// internal/types/ids.go
package types

import (
	"github.com/google/uuid"
)

type RunID string
type ArtifactID string

func NewRunID() RunID {
	return RunID(uuid.New().String())
}

func NewArtifactID() ArtifactID {
	return ArtifactID(uuid.New().String())
}
