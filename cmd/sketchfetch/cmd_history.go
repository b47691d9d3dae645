package main

import (
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/user/sketchfetch/internal/state"
)

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().Int("limit", 20, "number of runs to show")
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent search runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		limit, _ := cmd.Flags().GetInt("limit")

		runlog := state.NewRunLog(cfg.DataDir)
		records, err := runlog.Tail(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("read run log: %w", err)
		}
		if len(records) == 0 {
			fmt.Println("No runs recorded.")
			return nil
		}

		tw := table.NewWriter()
		tw.SetOutputMirror(os.Stdout)
		tw.SetStyle(table.StyleRounded)
		tw.AppendHeader(table.Row{"Started", "Search", "Query", "Status", "Rows", "Artifact"})
		for _, record := range records {
			tw.AppendRow(table.Row{
				record.StartedAt.Format(time.RFC3339),
				record.Search,
				record.Query,
				record.Status,
				record.Rows,
				record.ArtifactPath,
			})
		}
		_ = tw.Render()
		return nil
	},
}
