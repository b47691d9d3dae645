// Package runner executes saved searches. A weighted semaphore bounds
// how many searches run at once; each search's own pipeline stays fully
// synchronous and single-threaded.
package runner

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/user/sketchfetch/internal/delivery"
	"github.com/user/sketchfetch/internal/state"
	"github.com/user/sketchfetch/internal/types"
)

// Processor runs one saved search and returns its artifact. A nil
// artifact with nil error means the search matched nothing.
type Processor func(ctx context.Context, def *state.SearchDefinition) (*types.Artifact, error)

// Result is the outcome of one saved search execution.
type Result struct {
	Search   string
	RunID    types.RunID
	Artifact *types.Artifact
	Err      error
}

// Runner drives saved searches through a processor, records each run in
// the run journal, persists artifact metadata, and publishes artifacts
// to the delivery registry.
type Runner struct {
	artifacts types.ArtifactStore
	runlog    types.RunLog
	registry  *delivery.Registry
	sem       *semaphore.Weighted
	processor Processor
}

// New creates a Runner that allows up to maxConcurrent searches to
// execute simultaneously.
func New(artifacts types.ArtifactStore, runlog types.RunLog, registry *delivery.Registry, maxConcurrent int64) *Runner {
	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}
	return &Runner{
		artifacts: artifacts,
		runlog:    runlog,
		registry:  registry,
		sem:       semaphore.NewWeighted(maxConcurrent),
	}
}

// SetProcessor sets the function that executes one saved search.
func (r *Runner) SetProcessor(fn Processor) {
	r.processor = fn
}

// RunAll executes the given definitions and returns one result per
// definition, in the same order.
func (r *Runner) RunAll(ctx context.Context, defs []*state.SearchDefinition) []Result {
	results := make([]Result, len(defs))
	var wg sync.WaitGroup

	for i, def := range defs {
		if err := r.sem.Acquire(ctx, 1); err != nil {
			results[i] = Result{Search: def.Name, Err: err}
			continue
		}
		wg.Add(1)
		go func(i int, def *state.SearchDefinition) {
			defer wg.Done()
			defer r.sem.Release(1)
			results[i] = r.RunOne(ctx, def)
		}(i, def)
	}

	wg.Wait()
	return results
}

// RunOne executes a single saved search and records the run.
func (r *Runner) RunOne(ctx context.Context, def *state.SearchDefinition) Result {
	runID := types.NewRunID()
	record := &types.RunRecord{
		RunID:     runID,
		Search:    def.Name,
		Query:     def.Query,
		StartedAt: time.Now(),
	}

	artifact, err := r.processor(ctx, def)
	record.EndedAt = time.Now()

	switch {
	case err != nil:
		record.Status = "failed"
		record.Error = err.Error()
		slog.Error("search failed", "search", def.Name, "error", err)
	case artifact == nil:
		record.Status = "empty"
	default:
		record.Status = "complete"
		record.Rows = artifact.Rows
		record.ArtifactPath = artifact.Path

		if _, err := r.artifacts.Put(ctx, runID, def.Name, artifact); err != nil {
			slog.Warn("record artifact metadata", "search", def.Name, "error", err)
		}
		if err := r.registry.Publish(artifact); err != nil {
			slog.Warn("publish artifact", "search", def.Name, "error", err)
		}
	}

	if err := r.runlog.Append(ctx, record); err != nil {
		slog.Warn("append run record", "search", def.Name, "error", err)
	}

	return Result{Search: def.Name, RunID: runID, Artifact: artifact, Err: err}
}
