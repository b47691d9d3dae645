package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"log/slog"

	"github.com/spf13/cobra"

	"github.com/user/sketchfetch/internal/scheduler"
	"github.com/user/sketchfetch/internal/state"
)

func init() {
	rootCmd.AddCommand(scheduleCmd)
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run scheduled saved searches until interrupted",
	Args:  cobra.NoArgs,
	RunE:  runSchedule,
}

func writePIDFile(dataDir string) (string, error) {
	pidPath := filepath.Join(dataDir, "sketchfetch.pid")
	pid := os.Getpid()
	if err := os.WriteFile(pidPath, []byte(strconv.Itoa(pid)+"\n"), 0644); err != nil {
		return "", fmt.Errorf("write PID file: %w", err)
	}
	return pidPath, nil
}

func runSchedule(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	setupLogging(cfg)

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	pidPath, err := writePIDFile(cfg.DataDir)
	if err != nil {
		return err
	}
	defer os.Remove(pidPath)

	store := searchStore(cfg)
	r := newRunner(cfg, int64(cfg.MaxConcurrent))

	sched := scheduler.New(store, func(def *state.SearchDefinition) {
		r.RunOne(context.Background(), def)
	})
	if err := sched.Start(); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	defer sched.Stop()

	slog.Info("scheduler started",
		"data_dir", cfg.DataDir,
		"searches_file", store.Path(),
		"pid_file", pidPath,
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	slog.Info("shutting down")
	return nil
}
