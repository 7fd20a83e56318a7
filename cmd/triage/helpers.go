package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/brandpulse/triage/internal/classify"
	"github.com/brandpulse/triage/internal/config"
	"github.com/brandpulse/triage/internal/storage"
	"github.com/brandpulse/triage/internal/syncer"
	"github.com/brandpulse/triage/internal/vocab"
)

// engine bundles the wired-up classification core.
type engine struct {
	coordinator *syncer.Coordinator
	classifier  *classify.Classifier
	store       *vocab.Store
	journal     *storage.Journal
}

// initEngine wires the store, mirror, classifier, journal, and sync
// coordinator from configuration.
func initEngine(ctx context.Context) (*engine, error) {
	store := vocab.NewStore(config.StorePath())
	mirror := vocab.NewMirror(config.MirrorPath())
	classifier := classify.New(vocab.New())

	opts := []syncer.Option{}
	if maintainer := config.Maintainer(); maintainer != "" {
		opts = append(opts, syncer.WithMaintainer(maintainer))
	}

	var journal *storage.Journal
	if config.JournalEnabled() {
		var err error
		journal, err = storage.NewJournal(ctx, config.JournalPath())
		if err != nil {
			// The journal is an audit trail; losing it degrades nothing.
			slog.Warn("mutation journal unavailable", "error", err)
		} else {
			opts = append(opts, syncer.WithJournal(journal))
		}
	}

	coordinator, err := syncer.New(ctx, store, mirror, classifier, opts...)
	if err != nil {
		if journal != nil {
			journal.Close()
		}
		return nil, fmt.Errorf("failed to initialize engine: %w", err)
	}

	return &engine{
		coordinator: coordinator,
		classifier:  classifier,
		store:       store,
		journal:     journal,
	}, nil
}

// Close releases the engine's resources.
func (e *engine) Close() {
	if e.journal != nil {
		e.journal.Close()
	}
}
