// internal/state/artifact_test.go
package state

import (
	"context"
	"testing"
	"time"

	"github.com/user/sketchfetch/internal/types"
)

func TestArtifactStorePutAndGet(t *testing.T) {
	store := NewArtifactStore(t.TempDir())
	ctx := context.Background()

	runID := types.NewRunID()
	artifact := &types.Artifact{
		Kind:   types.ArtifactFile,
		Name:   "apache-hits",
		Format: "csv",
		Path:   "/tmp/apache-hits_x.csv",
		Rows:   42,
	}

	id, err := store.Put(ctx, runID, "apache-hits", artifact)
	if err != nil {
		t.Fatal(err)
	}

	meta, err := store.Get(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if meta.RunID != runID || meta.Search != "apache-hits" {
		t.Errorf("unexpected meta: %+v", meta)
	}
	if meta.Kind != types.ArtifactFile || meta.Format != "csv" || meta.Rows != 42 {
		t.Errorf("unexpected meta: %+v", meta)
	}
}

func TestArtifactStoreGetMissing(t *testing.T) {
	store := NewArtifactStore(t.TempDir())

	_, err := store.Get(context.Background(), types.ArtifactID("does-not-exist"))
	if err == nil {
		t.Fatal("expected error for missing artifact")
	}
}

func TestArtifactStoreListNewestFirst(t *testing.T) {
	store := NewArtifactStore(t.TempDir())
	ctx := context.Background()

	for _, name := range []string{"first", "second"} {
		_, err := store.Put(ctx, types.NewRunID(), name, &types.Artifact{
			Kind:   types.ArtifactTable,
			Format: "table",
		})
		if err != nil {
			t.Fatal(err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	metas, err := store.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(metas) != 2 {
		t.Fatalf("expected 2 metas, got %d", len(metas))
	}
	if metas[0].Search != "second" {
		t.Errorf("expected newest first, got %s", metas[0].Search)
	}
}
