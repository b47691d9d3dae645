// internal/types/models.go
package types

import (
	"time"

	"github.com/user/sketchfetch/internal/timesketch"
)

// TicketAttribute is one key/value attribute from upstream ticket
// metadata, used to discover a sketch id when none is given explicitly.
type TicketAttribute struct {
	Type  string `json:"type"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

type ArtifactKind string

const (
	ArtifactTable ArtifactKind = "table"
	ArtifactFile  ArtifactKind = "file"
)

// Artifact is the published output of one pipeline run: either a named
// in-memory table, or a reference to a serialized file left on disk.
type Artifact struct {
	Kind        ArtifactKind
	Name        string
	Description string
	Format      string
	Rows        int
	Path        string                 // file artifacts only
	Table       *timesketch.EventTable // table artifacts only
}

// ArtifactMeta is the persisted metadata record for a produced artifact.
type ArtifactMeta struct {
	ID        ArtifactID   `json:"id"`
	RunID     RunID        `json:"run_id"`
	Search    string       `json:"search,omitempty"`
	Kind      ArtifactKind `json:"kind"`
	Format    string       `json:"format"`
	Path      string       `json:"path,omitempty"`
	Rows      int          `json:"rows"`
	CreatedAt time.Time    `json:"created_at"`
}

// RunRecord is one entry in the run journal.
type RunRecord struct {
	RunID        RunID     `json:"run_id"`
	Search       string    `json:"search,omitempty"`
	Query        string    `json:"query"`
	Status       string    `json:"status"`
	Rows         int       `json:"rows"`
	ArtifactPath string    `json:"artifact_path,omitempty"`
	Error        string    `json:"error,omitempty"`
	StartedAt    time.Time `json:"started_at"`
	EndedAt      time.Time `json:"ended_at"`
}
