package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"cafehub/internal/config"
	"cafehub/internal/pkg/logger"
	"cafehub/internal/platform/database"
	"cafehub/internal/repository"
)

var (
	verbose bool

	cfg *config.Config
	log *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "cafectl",
	Short: "Maintenance commands for the cafehub database",
	Long: `cafectl runs one-off maintenance against the database configured for
the cafehub server. It reads the same configs/config.toml, .env file and
environment variables as the server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config failed: %w", err)
		}
		cfg = loaded

		l, err := logger.New(verbose || cfg.IsDev())
		if err != nil {
			return err
		}
		log = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the users, cafes, reviews and user_cafes tables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd.Context(), func(db *gorm.DB) error {
			if err := repository.AutoMigrate(db); err != nil {
				return err
			}
			log.Info("schema migrated", zap.String("driver", cfg.Database.Driver))
			return nil
		})
	},
}

var pruneResetsCmd = &cobra.Command{
	Use:   "prune-resets",
	Short: "Clear password reset codes that have expired",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd.Context(), func(db *gorm.DB) error {
			cleared, err := repository.NewUserRepository(db).ClearExpiredResets(cmd.Context(), time.Now())
			if err != nil {
				return err
			}
			log.Info("expired reset codes cleared", zap.Int64("users", cleared))
			fmt.Fprintf(cmd.OutOrStdout(), "cleared %d expired reset code(s)\n", cleared)
			return nil
		})
	},
}

func withDB(ctx context.Context, fn func(db *gorm.DB) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	db, err := database.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Warn("close database failed", zap.Error(err))
		}
	}()
	return fn(db)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.AddCommand(migrateCmd, pruneResetsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
