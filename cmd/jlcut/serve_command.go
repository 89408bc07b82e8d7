package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"jlcut/internal/history"
	"jlcut/internal/logging"
	"jlcut/internal/pipeline"
	"jlcut/internal/server"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP processing API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("initialize logging: %w", err)
			}

			var (
				store    *history.Store
				recorder pipeline.Recorder
			)
			if cfg.History.Enabled {
				store, err = history.Open(cfg)
				if err != nil {
					return fmt.Errorf("open history: %w", err)
				}
				defer store.Close()
				recorder = store
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if store != nil && cfg.History.RetentionDays > 0 {
				pruned, err := store.Prune(runCtx, cfg.History.RetentionDays)
				if err != nil {
					logger.Warn("history prune failed", logging.Error(err))
				} else if pruned > 0 {
					logger.Info("pruned history", logging.Int64("removed", pruned))
				}
			}

			proc := pipeline.New(cfg, logger, recorder)
			srv := server.New(cfg, logger, proc, store)
			if err := srv.Start(runCtx); err != nil {
				return err
			}
			defer srv.Stop()

			fmt.Fprintf(cmd.OutOrStdout(), "Listening on %s\n", srv.Addr())
			<-runCtx.Done()
			return nil
		},
	}
}
