package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/banksync-dev/banksync/internal/checkpoint"
	"github.com/banksync-dev/banksync/internal/config"
	"github.com/banksync-dev/banksync/internal/firefly"
	"github.com/banksync-dev/banksync/internal/logging"
	"github.com/banksync-dev/banksync/internal/runlog"
	"github.com/banksync-dev/banksync/internal/sbanken"
	"github.com/banksync-dev/banksync/internal/sync"
)

func newSyncCommand() *cobra.Command {
	var configPath string
	var dryRun bool
	var verbose bool
	var delayDays int
	var firstYear int

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Fetch new bank transactions and post them to the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("delay-days") {
				cfg.Sync.DelayDays = delayDays
			}
			if cmd.Flags().Changed("first-year") {
				cfg.Sync.FirstYear = firstYear
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runSync(cmd, cfg, dryRun, verbose)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "banksync.yaml", "path to the config file")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "fetch and reconcile without writing to the ledger")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	cmd.Flags().IntVar(&delayDays, "delay-days", 0, "override the configured reporting-lag guard")
	cmd.Flags().IntVar(&firstYear, "first-year", 0, "override the configured backfill start year")

	return cmd
}

func runSync(cmd *cobra.Command, cfg *config.Config, dryRun, verbose bool) error {
	logger := logging.New(verbose)
	ctx := logging.WithContext(cmd.Context(), logger)

	source := sbanken.NewWithAuth(ctx,
		cfg.Source.BaseURL,
		cfg.Source.AuthURL,
		cfg.Source.ClientID,
		cfg.Source.ClientSecret,
		cfg.Source.CustomerID,
	)
	ledger := firefly.New(cfg.Ledger.BaseURL, cfg.Ledger.AccessToken)
	store := &checkpoint.FileStore{Path: cfg.Sync.CheckpointPath}

	var runLog *runlog.Log
	if !dryRun {
		runLog = runlog.New(cfg.Sync.LogDir)
		logger.Info().Str("run_id", runLog.RunID()).Msg("starting sync")
	}

	syncer := sync.New(source, ledger, store, runLog, sync.Options{
		DelayDays: cfg.Sync.DelayDays,
		FirstYear: cfg.Sync.FirstYear,
		PageSize:  cfg.Sync.PageSize,
		DryRun:    dryRun,
	})
	if err := syncer.Run(ctx); err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}
	return nil
}
