// internal/state/runlog.go
package state

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/user/sketchfetch/internal/types"
)

// RunLog is a JSONL-backed append-only journal of pipeline runs,
// stored at runs.jsonl under the data directory.
type RunLog struct {
	root string
	mu   sync.Mutex
}

// NewRunLog creates a file-backed RunLog rooted at the given directory.
func NewRunLog(root string) *RunLog {
	return &RunLog{root: root}
}

func (l *RunLog) runsPath() string {
	return filepath.Join(l.root, "runs.jsonl")
}

// Append adds one run record to the journal.
func (l *RunLog) Append(_ context.Context, record *types.RunRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(l.root, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal run record: %w", err)
	}

	f, err := os.OpenFile(l.runsPath(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open run log: %w", err)
	}
	defer f.Close()

	data = append(data, '\n')
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("write run record: %w", err)
	}
	return nil
}

// Tail returns the last N run records.
func (l *RunLog) Tail(_ context.Context, limit int) ([]*types.RunRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.runsPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open run log: %w", err)
	}
	defer f.Close()

	var records []*types.RunRecord
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var record types.RunRecord
		if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
			return nil, fmt.Errorf("unmarshal run record: %w", err)
		}
		records = append(records, &record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan run log: %w", err)
	}

	if len(records) > limit {
		records = records[len(records)-limit:]
	}
	return records, nil
}

// Count returns the number of recorded runs.
func (l *RunLog) Count(_ context.Context) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.runsPath())
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("open run log: %w", err)
	}
	defer f.Close()

	var count int64
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		count++
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("scan run log: %w", err)
	}
	return count, nil
}
