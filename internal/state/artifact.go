// internal/state/artifact.go
package state

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/user/sketchfetch/internal/types"
)

// ArtifactStore persists artifact metadata as individual JSON files at
// artifacts/<artifactID>.json under the data directory. The serialized
// payload of file artifacts stays wherever the pipeline wrote it; only
// the metadata record lives here.
type ArtifactStore struct {
	root string
}

// NewArtifactStore creates a file-backed ArtifactStore rooted at the
// given directory.
func NewArtifactStore(root string) *ArtifactStore {
	return &ArtifactStore{root: root}
}

func (a *ArtifactStore) artifactsDir() string {
	return filepath.Join(a.root, "artifacts")
}

func (a *ArtifactStore) artifactPath(id types.ArtifactID) string {
	return filepath.Join(a.artifactsDir(), string(id)+".json")
}

// Put records metadata for a produced artifact and returns its ID.
func (a *ArtifactStore) Put(_ context.Context, runID types.RunID, search string, artifact *types.Artifact) (types.ArtifactID, error) {
	id := types.NewArtifactID()

	meta := &types.ArtifactMeta{
		ID:        id,
		RunID:     runID,
		Search:    search,
		Kind:      artifact.Kind,
		Format:    artifact.Format,
		Path:      artifact.Path,
		Rows:      artifact.Rows,
		CreatedAt: time.Now(),
	}

	content, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal artifact meta: %w", err)
	}

	if err := os.MkdirAll(a.artifactsDir(), 0o755); err != nil {
		return "", fmt.Errorf("create artifacts dir: %w", err)
	}

	// Atomic write via temp file + rename
	target := a.artifactPath(id)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, content, 0o644); err != nil {
		return "", fmt.Errorf("write temp artifact meta: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("rename temp artifact meta: %w", err)
	}

	return id, nil
}

// Get returns the metadata record for the given artifact.
func (a *ArtifactStore) Get(_ context.Context, id types.ArtifactID) (*types.ArtifactMeta, error) {
	data, err := os.ReadFile(a.artifactPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("artifact not found: %s", id)
		}
		return nil, fmt.Errorf("read artifact meta: %w", err)
	}

	var meta types.ArtifactMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("unmarshal artifact meta: %w", err)
	}
	return &meta, nil
}

// List returns all artifact metadata records, newest first.
func (a *ArtifactStore) List(_ context.Context) ([]*types.ArtifactMeta, error) {
	matches, err := filepath.Glob(filepath.Join(a.artifactsDir(), "*.json"))
	if err != nil {
		return nil, fmt.Errorf("glob artifacts: %w", err)
	}

	metas := make([]*types.ArtifactMeta, 0, len(matches))
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read artifact meta: %w", err)
		}
		var meta types.ArtifactMeta
		if err := json.Unmarshal(data, &meta); err != nil {
			return nil, fmt.Errorf("unmarshal artifact meta %s: %w", path, err)
		}
		metas = append(metas, &meta)
	}

	sort.Slice(metas, func(i, j int) bool {
		return metas[i].CreatedAt.After(metas[j].CreatedAt)
	})
	return metas, nil
}
