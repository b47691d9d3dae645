// internal/collector/format.go
package collector

import (
	"fmt"

	"github.com/user/sketchfetch/internal/timesketch"
)

// OutputFormat is the closed set of result representations. It is
// validated once at setup; no other value can reach the output stage.
type OutputFormat string

const (
	FormatTable OutputFormat = "table"
	FormatCSV   OutputFormat = "csv"
	FormatJSON  OutputFormat = "json"
	FormatJSONL OutputFormat = "jsonl"
)

// ParseOutputFormat validates a format tag. The empty string defaults
// to table output.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case "":
		return FormatTable, nil
	case FormatTable, FormatCSV, FormatJSON, FormatJSONL:
		return OutputFormat(s), nil
	default:
		return "", fmt.Errorf("output format %q not one of table, csv, json, jsonl", s)
	}
}

// Extension returns the file extension for a file-producing format.
func (f OutputFormat) Extension() string {
	return string(f)
}

type labelKind int

const (
	labelLiteral labelKind = iota
	labelStarred
	labelCommented
)

// LabelFilter is one label restriction. The two well-known label names
// "star" and "comment" map to the backend's dedicated built-in filters;
// any other value is a literal label-equality match. Multiple filters
// compose conjunctively.
type LabelFilter struct {
	kind  labelKind
	value string
}

// ParseLabelFilter resolves a label string into its filter variant.
func ParseLabelFilter(s string) LabelFilter {
	switch s {
	case "star":
		return LabelFilter{kind: labelStarred}
	case "comment":
		return LabelFilter{kind: labelCommented}
	default:
		return LabelFilter{kind: labelLiteral, value: s}
	}
}

// Chip returns the backend filter chip for this label.
func (f LabelFilter) Chip() timesketch.LabelChip {
	switch f.kind {
	case labelStarred:
		return timesketch.StarLabelChip()
	case labelCommented:
		return timesketch.CommentLabelChip()
	default:
		return timesketch.LabelChip{Label: f.value}
	}
}

func (f LabelFilter) String() string {
	switch f.kind {
	case labelStarred:
		return "star"
	case labelCommented:
		return "comment"
	default:
		return f.value
	}
}
