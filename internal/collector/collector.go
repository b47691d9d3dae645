// Package collector implements the search pipeline: resolve a sketch,
// compose one query from independent filter fragments, execute it in a
// single blocking round trip, and shape the result into an artifact.
//
// The pipeline is fully synchronous. Every validation failure during
// Setup is fatal; a misconfigured search cannot produce a meaningful
// partial result. An empty result set is success with no artifact.
package collector

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/user/sketchfetch/internal/creds"
	"github.com/user/sketchfetch/internal/state"
	"github.com/user/sketchfetch/internal/timesketch"
	"github.com/user/sketchfetch/internal/types"
)

// Well-known names in the orchestration context.
const (
	// sketchAttributeName is the upstream ticket attribute holding a
	// sketch id when none is supplied explicitly.
	sketchAttributeName = "sketch_id"

	// sessionCacheName keys the shared backend session in the pipeline
	// state cache.
	sessionCacheName = "sketch_session"
)

// Options are the setup inputs for one search. Timestamps, indices and
// labels arrive in textual form and are validated before any network
// interaction.
type Options struct {
	SketchID               string
	Query                  string
	Start                  string
	End                    string
	Indices                string
	Labels                 string
	Format                 string
	Fields                 string
	SearchName             string
	SearchDescription      string
	IncludeInternalColumns bool

	// Credential strategy inputs; see creds.Select.
	Endpoint      string
	Username      string
	Password      string
	TokenPassword string
	TokenPath     string
	CachePath     string
}

// OptionsFromDefinition converts a saved search definition into setup
// options. Credential inputs are left for the caller to fill in.
func OptionsFromDefinition(def *state.SearchDefinition) Options {
	return Options{
		SketchID:               def.SketchID,
		Query:                  def.Query,
		Start:                  def.Start,
		End:                    def.End,
		Indices:                def.Indices,
		Labels:                 def.Labels,
		Format:                 def.Format,
		Fields:                 def.Fields,
		SearchName:             def.Name,
		SearchDescription:      def.Description,
		IncludeInternalColumns: def.IncludeInternal,
	}
}

// Collector runs one search from setup to artifact. Create one per
// search; it is not reused.
type Collector struct {
	state *state.PipelineState

	queryString       string
	startTime         time.Time
	endTime           time.Time
	hasTimeRange      bool
	indices           []int
	labels            []LabelFilter
	format            OutputFormat
	returnFields      string
	searchName        string
	searchDescription string
	includeInternal   bool
	sketchID          int
	sketch            *timesketch.Sketch
}

// New creates a collector bound to the given pipeline state.
func New(st *state.PipelineState) *Collector {
	return &Collector{state: st}
}

// Setup validates all options and resolves the sketch handle. Any
// failure here is fatal and happens before a query is built. Network
// interaction (session, sketch lookup) is last, after every local
// validation has passed.
func (c *Collector) Setup(ctx context.Context, opts Options) error {
	if err := c.resolveSketchID(opts.SketchID); err != nil {
		return err
	}

	if err := c.parseTimeRange(opts.Start, opts.End); err != nil {
		return err
	}

	format, err := ParseOutputFormat(opts.Format)
	if err != nil {
		return err
	}
	c.format = format

	c.queryString = opts.Query
	if c.queryString == "" {
		c.queryString = "*"
	}
	c.returnFields = opts.Fields
	if c.returnFields == "" {
		c.returnFields = "*"
	}
	c.searchName = opts.SearchName
	c.searchDescription = opts.SearchDescription
	c.includeInternal = opts.IncludeInternalColumns

	for _, label := range splitCSV(opts.Labels) {
		c.labels = append(c.labels, ParseLabelFilter(label))
	}

	for _, raw := range splitCSV(opts.Indices) {
		index, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid index %q: %w", raw, err)
		}
		c.indices = append(c.indices, index)
	}

	sketch, err := c.resolveSketch(ctx, opts)
	if err != nil {
		return err
	}
	c.sketch = sketch
	return nil
}

// resolveSketchID takes the explicit id when given, otherwise searches
// the upstream ticket attributes for one.
func (c *Collector) resolveSketchID(explicit string) error {
	if explicit != "" {
		id, err := strconv.Atoi(explicit)
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid sketch id %q", explicit)
		}
		c.sketchID = id
		return nil
	}

	for _, attr := range c.state.Attributes() {
		if attr.Name != sketchAttributeName {
			continue
		}
		id, err := strconv.Atoi(attr.Value)
		if err != nil || id <= 0 {
			return fmt.Errorf("ticket attribute %s has invalid sketch id %q", attr.Name, attr.Value)
		}
		c.sketchID = id
		return nil
	}
	return fmt.Errorf("sketch id is not set and not found in ticket attributes")
}

// parseTimeRange enforces the both-or-neither contract and start <= end.
func (c *Collector) parseTimeRange(start, end string) error {
	if start == "" && end == "" {
		return nil
	}
	if start == "" || end == "" {
		return fmt.Errorf("both the start and end timestamp must be set")
	}

	startTime, err := parseTimestamp(start)
	if err != nil {
		return fmt.Errorf("invalid start timestamp %q: %w", start, err)
	}
	endTime, err := parseTimestamp(end)
	if err != nil {
		return fmt.Errorf("invalid end timestamp %q: %w", end, err)
	}
	if endTime.Before(startTime) {
		return fmt.Errorf("start timestamp %s is after end timestamp %s", start, end)
	}

	c.startTime = startTime
	c.endTime = endTime
	c.hasTimeRange = true
	return nil
}

// timestampLayouts are the accepted input encodings, tried in order.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp")
}

// resolveSketch obtains a backend session (reusing one from the state
// cache when present) and fetches the sketch handle.
func (c *Collector) resolveSketch(ctx context.Context, opts Options) (*timesketch.Sketch, error) {
	client, ok := c.state.FromCache(sessionCacheName).(*timesketch.Client)
	if !ok {
		strategy := creds.Select(creds.Inputs{
			Endpoint:      opts.Endpoint,
			Username:      opts.Username,
			Password:      opts.Password,
			TokenPassword: opts.TokenPassword,
			TokenPath:     opts.TokenPath,
			CachePath:     opts.CachePath,
		})
		resolved, err := strategy.Resolve(ctx)
		if err != nil {
			return nil, fmt.Errorf("resolve backend session: %w", err)
		}
		client = resolved
		c.state.AddToCache(sessionCacheName, client)
	}

	sketch, err := client.Sketch(ctx, c.sketchID)
	if err != nil {
		return nil, err
	}
	return sketch, nil
}

// buildSearch composes the query object from the validated fragments.
// All present restrictions apply conjunctively.
func (c *Collector) buildSearch() *timesketch.Search {
	search := timesketch.NewSearch(c.sketch)
	search.QueryString = c.queryString
	search.ReturnFields = c.returnFields
	if len(c.indices) > 0 {
		search.Indices = c.indices
	}

	if c.hasTimeRange {
		search.AddChip(timesketch.DateRangeChip{Start: c.startTime, End: c.endTime})
	}

	for _, label := range c.labels {
		search.AddChip(label.Chip())
	}
	return search
}

// Process executes the composed query and shapes the result. A nil
// artifact with nil error means the search matched nothing.
func (c *Collector) Process(ctx context.Context) (*types.Artifact, error) {
	search := c.buildSearch()
	table, err := search.Execute(ctx)
	if err != nil {
		return nil, err
	}

	slog.Info("search returned events",
		"sketch", c.sketchID,
		"query", c.queryString,
		"events", table.Len(),
	)

	if table.Empty() {
		return nil, nil
	}

	artifact, err := c.output(table)
	if err != nil {
		return nil, err
	}
	c.state.StoreArtifact(artifact)
	return artifact, nil
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
