package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/goran-ethernal/BlockDoctor/internal/check"
	"github.com/goran-ethernal/BlockDoctor/internal/common"
	"github.com/goran-ethernal/BlockDoctor/internal/config"
	"github.com/goran-ethernal/BlockDoctor/internal/db"
	"github.com/goran-ethernal/BlockDoctor/internal/logger"
	"github.com/goran-ethernal/BlockDoctor/internal/metrics"
	"github.com/goran-ethernal/BlockDoctor/internal/migrations"
	"github.com/goran-ethernal/BlockDoctor/internal/rpc"
	"github.com/goran-ethernal/BlockDoctor/internal/store"
	pkgconfig "github.com/goran-ethernal/BlockDoctor/pkg/config"
	"github.com/spf13/cobra"
)

const version = "1.0.0"

var (
	configPath       string
	skipConfirmation bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "blockdoctor",
	Short: "BlockDoctor - block cache reconciliation tool",
	Long: `BlockDoctor reconciles a locally cached set of blockchain blocks against
the authoritative upstream JSON-RPC node. Divergent cache entries are shown
to the operator and then evicted, so downstream indexing stops trusting
stale data.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

var byHashCmd = &cobra.Command{
	Use:   "by-hash <HASH>",
	Short: "Check the cached block with the given hash",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withChecker(cmd.Context(), func(ctx context.Context, checker *check.Checker) error {
			return checker.CheckByHash(ctx, args[0])
		})
	},
}

var byNumberCmd = &cobra.Command{
	Use:   "by-number <N>",
	Short: "Check the cached block recorded under the given block number",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withChecker(cmd.Context(), func(ctx context.Context, checker *check.Checker) error {
			return checker.CheckByNumber(ctx, args[0])
		})
	},
}

var byRangeCmd = &cobra.Command{
	Use:   "by-range <RANGE>",
	Short: "Check every cached block in a number range",
	Long: `Check every cached block selected by a range expression.

The range format is A..B (upper bound exclusive), A..=B (inclusive), A..,
..B, ..=B or '..'. Block numbers are 1-based; an open upper bound runs up
to and including the cached chain head.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withChecker(cmd.Context(), func(ctx context.Context, checker *check.Checker) error {
			return checker.CheckByRange(ctx, args[0])
		})
	},
}

var truncateCmd = &cobra.Command{
	Use:   "truncate",
	Short: "Delete every cached block for the configured chain",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withChecker(cmd.Context(), func(ctx context.Context, checker *check.Checker) error {
			return checker.Truncate(ctx, skipConfirmation)
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to configuration file")
	truncateCmd.Flags().BoolVar(&skipConfirmation, "skip-confirmation", false, "truncate without asking for confirmation")
	rootCmd.AddCommand(byHashCmd, byNumberCmd, byRangeCmd, truncateCmd)
}

// withChecker wires configuration, storage and the RPC client together and
// hands a ready Checker to the command body.
func withChecker(ctx context.Context, run func(context.Context, *check.Checker) error) error {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nShutting down...")
		cancel()
	}()

	log := logger.NewComponentLoggerFromConfig(common.ComponentChecker, loggingConfig(cfg))

	if err := migrations.RunMigrations(cfg.DB.Path); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	database, err := db.NewSQLiteDBFromConfig(cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	blockStore := store.NewBlockStore(
		database,
		cfg.Chain,
		logger.NewComponentLoggerFromConfig(common.ComponentBlockStore, loggingConfig(cfg)),
	)

	client, err := rpc.NewClient(
		ctx,
		cfg.RPCURL,
		cfg.Retry,
		logger.NewComponentLoggerFromConfig(common.ComponentRPCClient, loggingConfig(cfg)),
	)
	if err != nil {
		return fmt.Errorf("failed to create RPC client: %w", err)
	}
	defer client.Close()

	if cfg.Metrics != nil && cfg.Metrics.Enabled {
		metricsServer := metrics.NewServer(
			cfg.Metrics,
			logger.NewComponentLoggerFromConfig(common.ComponentMetrics, loggingConfig(cfg)),
		)
		if err := metricsServer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start metrics server: %w", err)
		}
		defer func() {
			if err := metricsServer.Stop(context.Background()); err != nil {
				log.Warnf("failed to stop metrics server: %v", err)
			}
		}()
		log.Infof("metrics server started on %s%s", cfg.Metrics.ListenAddress, cfg.Metrics.Path)
	}

	checker := check.New(blockStore, client, cfg.Checker, log)

	return run(ctx, checker)
}

// loggingConfig avoids handing a typed nil pointer to the logger.
func loggingConfig(cfg *pkgconfig.Config) logger.LoggingConfig {
	if cfg.Logging == nil {
		return nil
	}
	return cfg.Logging
}
