// internal/types/interfaces.go
package types

import (
	"context"
)

type ArtifactStore interface {
	Put(ctx context.Context, runID RunID, search string, artifact *Artifact) (ArtifactID, error)
	Get(ctx context.Context, id ArtifactID) (*ArtifactMeta, error)
	List(ctx context.Context) ([]*ArtifactMeta, error)
}

type RunLog interface {
	Append(ctx context.Context, record *RunRecord) error
	Tail(ctx context.Context, limit int) ([]*RunRecord, error)
	Count(ctx context.Context) (int64, error)
}
