package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/anoixa/postboard/config"
	"github.com/anoixa/postboard/internal/app"
	"github.com/anoixa/postboard/utils/format"
	"github.com/spf13/cobra"
)

// cleanCmd 清理没有被任何文章引用的上传文件
var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Delete uploaded files no post references",
	Long: `Compare stored upload files with the filenames referenced by front images
and gallery images, and delete the unreferenced ones.

Files younger than --older-than are skipped so uploads that have not yet been
attached to a post survive.`,
	Run: func(cmd *cobra.Command, args []string) {
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		olderThan, _ := cmd.Flags().GetDuration("older-than")

		if err := runClean(dryRun, olderThan); err != nil {
			log.Fatalf("Clean failed: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().Bool("dry-run", false, "Only show what would be cleaned, don't actually delete")
	cleanCmd.Flags().Duration("older-than", 24*time.Hour, "Grace period for unreferenced files")
}

// runClean 执行清理
func runClean(dryRun bool, olderThan time.Duration) error {
	config.InitConfig()
	cfg := config.Get()

	container := app.NewContainer(cfg)
	if err := container.Init(); err != nil {
		return fmt.Errorf("failed to initialize container: %w", err)
	}
	defer container.Close()

	report, err := container.PostsService.CleanOrphans(context.Background(), olderThan, dryRun)
	if err != nil {
		return err
	}

	prefix := ""
	if dryRun {
		prefix = "[DRY-RUN] "
	}
	for _, name := range report.Orphans {
		log.Printf("%sOrphan file: %s", prefix, name)
	}
	for _, failure := range report.Failures {
		log.Printf("Warning: %s", failure)
	}

	log.Printf("%sScanned %d files, %d orphans (%s), %d deleted, %d within grace period",
		prefix, report.Scanned, len(report.Orphans), format.HumanReadableSize(report.Bytes), report.Deleted, report.Skipped)
	return nil
}
