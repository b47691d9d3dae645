package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/user/sketchfetch/internal/collector"
	"github.com/user/sketchfetch/internal/config"
	"github.com/user/sketchfetch/internal/delivery"
	"github.com/user/sketchfetch/internal/state"
	"github.com/user/sketchfetch/internal/types"
)

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().String("sketch-id", "", "sketch id (defaults to the sketch_id ticket attribute)")
	searchCmd.Flags().String("query", "*", "query string")
	searchCmd.Flags().String("start", "", "start timestamp (RFC3339 or 2006-01-02T15:04:05)")
	searchCmd.Flags().String("end", "", "end timestamp (RFC3339 or 2006-01-02T15:04:05)")
	searchCmd.Flags().String("indices", "", "comma-separated index ids")
	searchCmd.Flags().String("labels", "", "comma-separated event labels (star, comment, or literal)")
	searchCmd.Flags().String("format", "table", "output format: table, csv, json, jsonl")
	searchCmd.Flags().String("fields", "*", "comma-separated return fields")
	searchCmd.Flags().String("name", "", "search display name, used as output naming hint")
	searchCmd.Flags().String("description", "", "search description")
	searchCmd.Flags().Bool("include-internal-columns", false, "keep backend-internal columns in the output")
	searchCmd.Flags().StringArray("ticket-attr", nil, "upstream ticket attribute as key=value (repeatable)")
	searchCmd.Flags().String("endpoint", "", "backend URL (with --username and --password)")
	searchCmd.Flags().String("username", "", "backend username")
	searchCmd.Flags().String("password", "", "backend password")
	searchCmd.Flags().String("token-password", "", "passphrase for the encrypted token file")
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Run one search and export the result",
	Args:  cobra.NoArgs,
	RunE:  runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	setupLogging(cfg)

	opts := collector.Options{}
	opts.SketchID, _ = cmd.Flags().GetString("sketch-id")
	opts.Query, _ = cmd.Flags().GetString("query")
	opts.Start, _ = cmd.Flags().GetString("start")
	opts.End, _ = cmd.Flags().GetString("end")
	opts.Indices, _ = cmd.Flags().GetString("indices")
	opts.Labels, _ = cmd.Flags().GetString("labels")
	opts.Format, _ = cmd.Flags().GetString("format")
	opts.Fields, _ = cmd.Flags().GetString("fields")
	opts.SearchName, _ = cmd.Flags().GetString("name")
	opts.SearchDescription, _ = cmd.Flags().GetString("description")
	opts.IncludeInternalColumns, _ = cmd.Flags().GetBool("include-internal-columns")

	fillCredentialOptions(cmd, cfg, &opts)

	st := state.NewPipelineState()
	attrs, _ := cmd.Flags().GetStringArray("ticket-attr")
	for _, raw := range attrs {
		key, value, ok := strings.Cut(raw, "=")
		if !ok {
			return fmt.Errorf("invalid ticket attribute %q, expected key=value", raw)
		}
		st.AddAttribute(types.TicketAttribute{Type: "text", Name: key, Value: value})
	}

	c := collector.New(st)
	if err := c.Setup(cmd.Context(), opts); err != nil {
		return err
	}
	artifact, err := c.Process(cmd.Context())
	if err != nil {
		return err
	}
	if artifact == nil {
		fmt.Fprintln(os.Stdout, "No results.")
		return nil
	}
	return newDeliveryRegistry().Publish(artifact)
}

// fillCredentialOptions merges credential flags over the config file
// values, leaving strategy selection to the creds package.
func fillCredentialOptions(cmd *cobra.Command, cfg *config.Config, opts *collector.Options) {
	opts.Endpoint, _ = cmd.Flags().GetString("endpoint")
	opts.Username, _ = cmd.Flags().GetString("username")
	opts.Password, _ = cmd.Flags().GetString("password")
	opts.TokenPassword, _ = cmd.Flags().GetString("token-password")

	if opts.Endpoint == "" {
		opts.Endpoint = cfg.Backend.Endpoint
	}
	if opts.Username == "" {
		opts.Username = cfg.Backend.Username
	}
	if opts.Password == "" {
		opts.Password = cfg.Backend.Password
	}
	if opts.TokenPassword == "" {
		opts.TokenPassword = cfg.Backend.TokenPassword
	}
	opts.TokenPath = cfg.TokenPath()
	opts.CachePath = cfg.CachePath()
}

// newDeliveryRegistry wires the CLI's downstream consumers: tables are
// rendered to stdout, files are reported by path.
func newDeliveryRegistry() *delivery.Registry {
	registry := delivery.NewRegistry()
	registry.Register(types.ArtifactTable, func(a *types.Artifact) error {
		collector.RenderTable(os.Stdout, a.Table, a.Name)
		return nil
	})
	registry.Register(types.ArtifactFile, func(a *types.Artifact) error {
		fmt.Fprintf(os.Stdout, "Wrote %d row(s) as %s: %s\n", a.Rows, a.Format, a.Path)
		return nil
	})
	return registry
}

func searchStore(cfg *config.Config) *state.SearchStore {
	return state.NewSearchStore(filepath.Join(cfg.DataDir, "searches.json"))
}
