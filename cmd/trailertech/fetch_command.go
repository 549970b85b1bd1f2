package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"trailertech/internal/trailer"
)

func newFetchCommand(ctx *commandContext) *cobra.Command {
	var overrides trailer.Overrides

	cmd := &cobra.Command{
		Use:   "fetch <movie-folder>",
		Short: "Download the trailer for a single movie folder",
		Long: `Fetch processes one movie folder. Identity normally comes from the
folder's metadata sidecar; the --tmdb, --imdb, or --title/--year flags
replace it outright when supplied.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			pipe, err := buildPipeline(cfg, logger)
			if err != nil {
				return err
			}
			defer pipe.Close()

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			pipe.orchestrator.Process(runCtx, args[0], overrides)

			printStats(cmd.OutOrStdout(), pipe.stats)
			return nil
		},
	}

	cmd.Flags().StringVar(&overrides.TMDBID, "tmdb", "", "TMDB id override")
	cmd.Flags().StringVar(&overrides.IMDBID, "imdb", "", "IMDb id override")
	cmd.Flags().StringVar(&overrides.Title, "title", "", "Title override (requires --year)")
	cmd.Flags().StringVar(&overrides.Year, "year", "", "Release year override (requires --title)")
	return cmd
}
