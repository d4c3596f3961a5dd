package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the cleanup loop on the configured interval",
	Long: `Run check cycles continuously. Each cycle fetches all torrents,
evaluates the removal rules, deletes condemned torrents and persists the
grace-period state. The loop survives failed cycles and stops cleanly on
SIGINT or SIGTERM.`,
	RunE: runRun,
}

// cleanCmd represents the clean command
var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Run exactly one check cycle and exit",
	Long: `Run a single check cycle and exit. Unlike the continuous loop, a
failed cycle exits nonzero.`,
	RunE: runClean,
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(cleanCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.DryRun {
		logger.Info().Msg("DRY-RUN MODE: no changes will be made")
	}

	j, err := newJanitor()
	if err != nil {
		return err
	}

	return j.Run(ctx)
}

func runClean(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.DryRun {
		logger.Info().Msg("DRY-RUN MODE: no changes will be made")
	}

	j, err := newJanitor()
	if err != nil {
		return err
	}

	return j.RunCycle(ctx)
}
