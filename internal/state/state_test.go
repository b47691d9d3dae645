// internal/state/state_test.go
package state

import (
	"testing"

	"github.com/user/sketchfetch/internal/types"
)

func TestPipelineStateAttributes(t *testing.T) {
	st := NewPipelineState()

	st.AddAttribute(types.TicketAttribute{Type: "text", Name: "sketch_id", Value: "7"})
	st.AddAttribute(types.TicketAttribute{Type: "text", Name: "case", Value: "intrusion"})

	attrs := st.Attributes()
	if len(attrs) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(attrs))
	}
	if attrs[0].Name != "sketch_id" || attrs[0].Value != "7" {
		t.Errorf("unexpected attribute: %+v", attrs[0])
	}
}

func TestPipelineStateCache(t *testing.T) {
	st := NewPipelineState()

	if v := st.FromCache("missing"); v != nil {
		t.Errorf("expected nil for missing key, got %v", v)
	}

	st.AddToCache("session", "value")
	if v := st.FromCache("session"); v != "value" {
		t.Errorf("expected cached value, got %v", v)
	}
}

func TestPipelineStateArtifacts(t *testing.T) {
	st := NewPipelineState()

	st.StoreArtifact(&types.Artifact{Kind: types.ArtifactTable, Name: "a"})
	st.StoreArtifact(&types.Artifact{Kind: types.ArtifactFile, Name: "b"})

	artifacts := st.Artifacts()
	if len(artifacts) != 2 {
		t.Fatalf("expected 2 artifacts, got %d", len(artifacts))
	}
	if artifacts[1].Name != "b" {
		t.Errorf("unexpected artifact order: %v", artifacts)
	}
}
