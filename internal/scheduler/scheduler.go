// internal/scheduler/scheduler.go
package scheduler

import (
	"log/slog"

	"github.com/robfig/cron/v3"
	"github.com/user/sketchfetch/internal/state"
)

// Handler is the callback invoked when a scheduled search fires.
type Handler func(def *state.SearchDefinition)

// Scheduler evaluates cron expressions from the search store and fires
// saved searches through a handler callback.
type Scheduler struct {
	store   *state.SearchStore
	handler Handler
	cron    *cron.Cron
}

// cronParser accepts both standard 5-field cron expressions and 6-field
// expressions with an optional seconds field.
var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// New creates a Scheduler backed by the given search store. The handler
// is called each time a scheduled search fires.
func New(store *state.SearchStore, handler Handler) *Scheduler {
	return &Scheduler{
		store:   store,
		handler: handler,
		cron:    cron.New(cron.WithParser(cronParser)),
	}
}

// Start loads saved searches, registers enabled ones that have a
// schedule as cron entries, and starts the cron ticker.
func (s *Scheduler) Start() error {
	defs, err := s.store.List()
	if err != nil {
		return err
	}

	for _, def := range defs {
		if def.Schedule == "" || !def.Enabled {
			continue
		}

		def := def
		_, err := s.cron.AddFunc(def.Schedule, func() {
			slog.Info("cron firing search", "name", def.Name, "schedule", def.Schedule)
			s.handler(def)
		})
		if err != nil {
			slog.Error("invalid cron schedule", "name", def.Name, "schedule", def.Schedule, "error", err)
			continue
		}
		slog.Info("scheduled search", "name", def.Name, "schedule", def.Schedule)
	}

	s.cron.Start()
	return nil
}

// Reload stops the existing cron, creates a new one, and calls Start()
// again.
func (s *Scheduler) Reload() error {
	s.cron.Stop()
	s.cron = cron.New(cron.WithParser(cronParser))
	return s.Start()
}

// Stop stops the cron ticker.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}
