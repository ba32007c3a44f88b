package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/anoixa/postboard/config"
	"github.com/anoixa/postboard/internal/app"
	"github.com/spf13/cobra"
)

// migrateCmd 数据库迁移命令
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Long: `Run AutoMigrate for all tables and seed the default roles (Basic, Admin).
Safe to run repeatedly.`,
	Run: func(cmd *cobra.Command, args []string) {
		timeout, _ := cmd.Flags().GetDuration("timeout")
		if err := runMigrate(timeout); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().Duration("timeout", time.Minute, "Maximum time for the migration")
}

func runMigrate(timeout time.Duration) error {
	config.InitConfig()
	cfg := config.Get()

	container := app.NewContainer(cfg)
	if err := container.InitDatabase(); err != nil {
		return err
	}
	defer container.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := container.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}

	log.Printf("Database migrated (%s)", cfg.DBType)
	return nil
}
