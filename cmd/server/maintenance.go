package main

import (
	"context"
	"fmt"
	"time"

	"taskmgr-go/internal/repository"
	"taskmgr-go/internal/service"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "迁移数据库表结构",
	RunE: func(cmd *cobra.Command, args []string) error {
		// bootstrap 已执行 AutoMigrate
		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.close()

		a.logger.Info("数据库迁移完成")
		return nil
	},
}

var sweepGrace time.Duration

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "清理没有附件记录引用的存储文件",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.close()

		grace := a.cfg.Attachments.GetSweepGrace()
		if cmd.Flags().Changed("grace") {
			grace = sweepGrace
		}

		sweeper := service.NewBlobSweeper(repository.NewAttachmentRepository(a.db), a.store, grace, a.logger)
		removed, err := sweeper.Sweep(context.Background())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %d orphaned blobs\n", removed)
		return nil
	},
}

func init() {
	sweepCmd.Flags().DurationVar(&sweepGrace, "grace", 30*time.Minute, "只清理早于该时长的文件")
}
