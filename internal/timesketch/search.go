// internal/timesketch/search.go
package timesketch

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// TimestampFormat is the fractional-second encoding the backend expects
// in datetime range chips.
const TimestampFormat = "2006-01-02T15:04:05.000000"

// Built-in label names understood by the backend.
const (
	starLabel    = "__ts_star"
	commentLabel = "__ts_comment"
)

// chipJSON is the wire form of a single filter chip.
type chipJSON struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Operator string `json:"operator"`
	Active   bool   `json:"active"`
}

// Chip is one independently composable filter fragment attached to a
// search. All chips on a search apply conjunctively.
type Chip interface {
	chip() chipJSON
}

// DateRangeChip restricts a search to events between Start and End,
// inclusive of both bounds.
type DateRangeChip struct {
	Start time.Time
	End   time.Time
}

func (c DateRangeChip) chip() chipJSON {
	return chipJSON{
		Type:     "datetime_range",
		Value:    c.Start.Format(TimestampFormat) + "," + c.End.Format(TimestampFormat),
		Operator: "must",
		Active:   true,
	}
}

// LabelChip restricts a search to events carrying the given label.
type LabelChip struct {
	Label string
}

// StarLabelChip returns the dedicated chip for starred events.
func StarLabelChip() LabelChip {
	return LabelChip{Label: starLabel}
}

// CommentLabelChip returns the dedicated chip for commented events.
func CommentLabelChip() LabelChip {
	return LabelChip{Label: commentLabel}
}

func (c LabelChip) chip() chipJSON {
	return chipJSON{
		Type:     "label",
		Value:    c.Label,
		Operator: "must",
		Active:   true,
	}
}

// Search composes one query against a sketch. Zero values mean
// match-all query, all fields, all indices, no chips.
type Search struct {
	sketch *Sketch

	QueryString  string
	ReturnFields string
	Indices      []int

	chips []Chip
}

// NewSearch creates a search over the given sketch with match-all
// defaults.
func NewSearch(s *Sketch) *Search {
	return &Search{
		sketch:       s,
		QueryString:  "*",
		ReturnFields: "*",
	}
}

// AddChip attaches a filter chip to the search.
func (s *Search) AddChip(c Chip) {
	s.chips = append(s.chips, c)
}

// Chips returns the chips attached so far.
func (s *Search) Chips() []Chip {
	return s.chips
}

type exploreRequest struct {
	Query        string     `json:"query"`
	ReturnFields string     `json:"return_fields"`
	Indices      []int      `json:"indices,omitempty"`
	Chips        []chipJSON `json:"chips"`
}

type exploreResponse struct {
	Objects []map[string]any `json:"objects"`
}

// Execute runs the composed query against the backend in one blocking
// round trip and returns the raw result table. Backend syntax errors
// are returned, not swallowed.
func (s *Search) Execute(ctx context.Context) (*EventTable, error) {
	req := exploreRequest{
		Query:        s.QueryString,
		ReturnFields: s.ReturnFields,
		Indices:      s.Indices,
		Chips:        make([]chipJSON, 0, len(s.chips)),
	}
	for _, c := range s.chips {
		req.Chips = append(req.Chips, c.chip())
	}

	var resp exploreResponse
	path := fmt.Sprintf("/api/v1/sketches/%d/explore", s.sketch.ID)
	if err := s.sketch.client.do(ctx, http.MethodPost, path, req, &resp); err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}
	return NewEventTable(resp.Objects), nil
}
