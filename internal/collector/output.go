// internal/collector/output.go
package collector

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/user/sketchfetch/internal/timesketch"
	"github.com/user/sketchfetch/internal/types"
)

// output shapes the raw result table and routes it to the configured
// representation. Internal columns are dropped unless their inclusion
// was requested; dropping tolerates columns that are already absent.
func (c *Collector) output(table *timesketch.EventTable) (*types.Artifact, error) {
	if !c.includeInternal {
		table = table.Drop(timesketch.InternalColumns...)
	}

	if c.format == FormatTable {
		return &types.Artifact{
			Kind:        types.ArtifactTable,
			Name:        c.searchName,
			Description: c.searchDescription,
			Format:      string(FormatTable),
			Rows:        table.Len(),
			Table:       table,
		}, nil
	}

	// CreateTemp guarantees a unique path even for repeated runs with
	// the same search name. The file is left on disk for downstream
	// consumption.
	prefix := ""
	if c.searchName != "" {
		prefix = c.searchName + "_"
	}
	f, err := os.CreateTemp("", prefix+"*."+c.format.Extension())
	if err != nil {
		return nil, fmt.Errorf("create output file: %w", err)
	}

	var writeErr error
	switch c.format {
	case FormatCSV:
		writeErr = writeCSV(f, table)
	case FormatJSON:
		writeErr = writeJSON(f, table)
	case FormatJSONL:
		writeErr = writeJSONL(f, table)
	}
	if closeErr := f.Close(); writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		os.Remove(f.Name())
		return nil, fmt.Errorf("write %s output: %w", c.format, writeErr)
	}

	return &types.Artifact{
		Kind:        types.ArtifactFile,
		Name:        c.searchName,
		Description: c.searchDescription,
		Format:      string(c.format),
		Rows:        table.Len(),
		Path:        f.Name(),
	}, nil
}

// writeCSV serializes the table as comma-separated values with a
// header row and no row index column.
func writeCSV(w io.Writer, t *timesketch.EventTable) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, col := range t.Columns {
			record[i] = timesketch.FormatCell(row[col])
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// writeJSON serializes the table as a single JSON array of row objects.
func writeJSON(w io.Writer, t *timesketch.EventTable) error {
	return json.NewEncoder(w).Encode(t.Rows)
}

// writeJSONL serializes the table as newline-delimited JSON objects,
// one per row.
func writeJSONL(w io.Writer, t *timesketch.EventTable) error {
	enc := json.NewEncoder(w)
	for _, row := range t.Rows {
		if err := enc.Encode(row); err != nil {
			return err
		}
	}
	return nil
}
