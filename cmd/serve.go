package cmd

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/vocabdaily/internal/bot"
	"github.com/example/vocabdaily/internal/scheduler"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Telegram bot and the daily jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		b, err := bot.New(a.cfg, a.service, a.words, a.learners, a.logger)
		if err != nil {
			return err
		}

		if a.cfg.EnableScheduler {
			jobs := scheduler.New(a.service, a.learners, b, scheduler.Options{
				PrepareAt:             a.cfg.PrepareAt,
				NotificationStartHour: a.cfg.NotificationStartHour,
				NotificationEndHour:   a.cfg.NotificationEndHour,
				WorkerLimit:           a.cfg.WorkerLimit,
				RemindersPerSecond:    a.cfg.RemindersPerSecond,
				Location:              a.cfg.Location(),
				Logger:                a.logger,
			})
			if err := jobs.Start(ctx); err != nil {
				return err
			}
			defer jobs.Stop()
		}

		a.logger.Info("bot started, press Ctrl+C to stop")
		if err := b.Start(ctx); err != nil && err != context.Canceled {
			return err
		}

		// Give in-flight updates time to finish
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := b.Stop(shutdownCtx); err != nil {
			a.logger.Warn("shutdown incomplete", "error", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
