package main

import (
	"github.com/brandpulse/triage/internal/config"
	"github.com/brandpulse/triage/internal/server"
	"github.com/brandpulse/triage/internal/vocab"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the vocabulary admin API and classification endpoint",
		Long: `Serve the admin HTTP API: vocabulary CRUD, search, stats, resync,
classification, health, and Prometheus metrics. With vocabulary
watching enabled, out-of-band edits to the snapshot file reload the
running classifier automatically.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			eng, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer eng.Close()

			srv := server.New(eng.coordinator, eng.classifier)

			if config.WatchStore() {
				watcher, err := vocab.NewWatcher(eng.store.Path(), 0, func() {
					// Out-of-band edit: reload store into mirror and cache.
					_ = eng.coordinator.Resync(ctx)
				})
				if err != nil {
					return err
				}
				defer watcher.Close()
				watcher.Start(ctx)
			}

			if addr == "" {
				addr = config.ServerAddr()
			}
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}
