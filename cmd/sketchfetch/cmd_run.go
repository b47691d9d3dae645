package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/user/sketchfetch/internal/collector"
	"github.com/user/sketchfetch/internal/config"
	"github.com/user/sketchfetch/internal/runner"
	"github.com/user/sketchfetch/internal/state"
	"github.com/user/sketchfetch/internal/types"
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Int("concurrency", 0, "max searches running at once (default from config)")
	runCmd.Flags().String("name", "", "run only the named saved search")
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute enabled saved searches",
	Args:  cobra.NoArgs,
	RunE:  runSavedSearches,
}

func runSavedSearches(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	setupLogging(cfg)

	store := searchStore(cfg)

	var defs []*state.SearchDefinition
	if name, _ := cmd.Flags().GetString("name"); name != "" {
		def, err := store.Get(name)
		if err != nil {
			return err
		}
		defs = append(defs, def)
	} else {
		all, err := store.List()
		if err != nil {
			return fmt.Errorf("list saved searches: %w", err)
		}
		for _, def := range all {
			if def.Enabled {
				defs = append(defs, def)
			}
		}
	}

	if len(defs) == 0 {
		fmt.Fprintln(os.Stdout, "No saved searches to run.")
		return nil
	}

	concurrency, _ := cmd.Flags().GetInt("concurrency")
	if concurrency <= 0 {
		concurrency = cfg.MaxConcurrent
	}

	r := newRunner(cfg, int64(concurrency))
	results := r.RunAll(cmd.Context(), defs)

	var failed int
	for _, result := range results {
		if result.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d searches failed", failed, len(results))
	}
	return nil
}

// newRunner wires a Runner to the data-dir stores and the CLI delivery
// registry.
func newRunner(cfg *config.Config, concurrency int64) *runner.Runner {
	r := runner.New(
		state.NewArtifactStore(cfg.DataDir),
		state.NewRunLog(cfg.DataDir),
		newDeliveryRegistry(),
		concurrency,
	)
	r.SetProcessor(searchProcessor(cfg))
	return r
}

// searchProcessor builds the per-search pipeline: fresh state, setup
// from the definition plus configured credentials, then process.
func searchProcessor(cfg *config.Config) runner.Processor {
	return func(ctx context.Context, def *state.SearchDefinition) (*types.Artifact, error) {
		opts := collector.OptionsFromDefinition(def)
		opts.Endpoint = cfg.Backend.Endpoint
		opts.Username = cfg.Backend.Username
		opts.Password = cfg.Backend.Password
		opts.TokenPassword = cfg.Backend.TokenPassword
		opts.TokenPath = cfg.TokenPath()
		opts.CachePath = cfg.CachePath()

		c := collector.New(state.NewPipelineState())
		if err := c.Setup(ctx, opts); err != nil {
			return nil, err
		}
		return c.Process(ctx)
	}
}
