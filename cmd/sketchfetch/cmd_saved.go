package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/user/sketchfetch/internal/collector"
	"github.com/user/sketchfetch/internal/state"
)

func init() {
	rootCmd.AddCommand(savedCmd)
	savedCmd.AddCommand(savedAddCmd, savedListCmd, savedRemoveCmd, savedEnableCmd, savedDisableCmd)

	savedAddCmd.Flags().String("name", "", "search name (required)")
	savedAddCmd.Flags().String("description", "", "search description")
	savedAddCmd.Flags().String("sketch-id", "", "sketch id")
	savedAddCmd.Flags().String("query", "*", "query string")
	savedAddCmd.Flags().String("start", "", "start timestamp")
	savedAddCmd.Flags().String("end", "", "end timestamp")
	savedAddCmd.Flags().String("indices", "", "comma-separated index ids")
	savedAddCmd.Flags().String("labels", "", "comma-separated event labels")
	savedAddCmd.Flags().String("format", "table", "output format: table, csv, json, jsonl")
	savedAddCmd.Flags().String("fields", "*", "comma-separated return fields")
	savedAddCmd.Flags().Bool("include-internal-columns", false, "keep backend-internal columns")
	savedAddCmd.Flags().String("schedule", "", "cron schedule expression")
	_ = savedAddCmd.MarkFlagRequired("name")
}

var savedCmd = &cobra.Command{
	Use:   "saved",
	Short: "Manage saved searches",
}

var savedAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a saved search",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		if _, err := collector.ParseOutputFormat(format); err != nil {
			return err
		}

		def := &state.SearchDefinition{Enabled: true}
		def.Name, _ = cmd.Flags().GetString("name")
		def.Description, _ = cmd.Flags().GetString("description")
		def.SketchID, _ = cmd.Flags().GetString("sketch-id")
		def.Query, _ = cmd.Flags().GetString("query")
		def.Start, _ = cmd.Flags().GetString("start")
		def.End, _ = cmd.Flags().GetString("end")
		def.Indices, _ = cmd.Flags().GetString("indices")
		def.Labels, _ = cmd.Flags().GetString("labels")
		def.Format = format
		def.Fields, _ = cmd.Flags().GetString("fields")
		def.IncludeInternal, _ = cmd.Flags().GetBool("include-internal-columns")
		def.Schedule, _ = cmd.Flags().GetString("schedule")

		store := searchStore(loadConfig())
		if err := store.Add(def); err != nil {
			return fmt.Errorf("add saved search: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Saved search %q added.\n", def.Name)
		return nil
	},
}

var savedListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved searches",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := searchStore(loadConfig())
		defs, err := store.List()
		if err != nil {
			return fmt.Errorf("list saved searches: %w", err)
		}

		if len(defs) == 0 {
			fmt.Println("No saved searches.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tSKETCH\tQUERY\tFORMAT\tSCHEDULE\tENABLED")
		for _, def := range defs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%v\n",
				def.Name,
				def.SketchID,
				def.Query,
				def.Format,
				def.Schedule,
				def.Enabled,
			)
		}
		return w.Flush()
	},
}

var savedRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a saved search",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := searchStore(loadConfig())
		if err := store.Remove(args[0]); err != nil {
			return fmt.Errorf("remove saved search: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Saved search %q removed.\n", args[0])
		return nil
	},
}

var savedEnableCmd = &cobra.Command{
	Use:   "enable <name>",
	Short: "Enable a saved search",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := searchStore(loadConfig())
		if err := store.SetEnabled(args[0], true); err != nil {
			return fmt.Errorf("enable saved search: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Saved search %q enabled.\n", args[0])
		return nil
	},
}

var savedDisableCmd = &cobra.Command{
	Use:   "disable <name>",
	Short: "Disable a saved search",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := searchStore(loadConfig())
		if err := store.SetEnabled(args[0], false); err != nil {
			return fmt.Errorf("disable saved search: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Saved search %q disabled.\n", args[0])
		return nil
	},
}
