package main

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"trailertech/internal/logging"
	"trailertech/internal/radarr"
)

func newRadarrCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "radarr",
		Short: "Run as a Radarr custom-script hook",
		Long: `Radarr mode reads the radarr_* environment variables Radarr sets for
custom scripts. Download events process the imported movie's folder with
the event's ids as identity overrides; test and other events exit
cleanly without work.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			event, decision := radarr.Parse(os.Getenv)
			switch decision {
			case radarr.DecisionIgnore:
				logger.Info("radarr event requires no work", logging.String("event", event.Type))
				return nil
			case radarr.DecisionInsufficient:
				return errors.New("insufficient input: radarr_eventtype and radarr_movie_path must be set")
			}

			logger.Info("processing radarr download event", logging.String("path", event.Path))

			pipe, err := buildPipeline(cfg, logger)
			if err != nil {
				return err
			}
			defer pipe.Close()

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			pipe.orchestrator.Process(runCtx, event.Path, event.Overrides)

			printStats(cmd.OutOrStdout(), pipe.stats)
			return nil
		},
	}
}
