package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	sendRemindersUC "github.com/totalboostmarketing/reservation-system/internal/usecase/send_reminders"
)

func newRemindCmd(configPath *string) *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Send reminders for tomorrow's reservations",
		Long:  "Runs the reminder dispatcher on the [reminders] schedule, or a single pass with --once.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()

			uc := a.sendRemindersUseCase()

			if once {
				result, err := uc.Execute(cmd.Context())
				if err != nil {
					return fmt.Errorf("send reminders: %w", err)
				}
				a.log.Info("Reminders: found=%d sent=%d failed=%d", result.Found, result.Sent, result.Failed)
				return nil
			}

			scheduler, err := newReminderScheduler(a, uc)
			if err != nil {
				return err
			}
			scheduler.Start()
			a.log.Info("Reminder scheduler started (schedule=%q, timezone=%s)", a.cfg.Reminders.Schedule, a.cfg.Booking.Timezone)

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit

			<-scheduler.Stop().Done()
			a.log.Info("Reminder scheduler stopped")
			return nil
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "run a single reminder pass and exit")

	return cmd
}

// newReminderScheduler cron по расписанию [reminders] schedule в часовом поясе салона
func newReminderScheduler(a *app, uc *sendRemindersUC.UseCase) (*cron.Cron, error) {
	loc, err := time.LoadLocation(a.cfg.Booking.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid booking timezone: %w", err)
	}

	scheduler := cron.New(cron.WithLocation(loc))

	_, err = scheduler.AddFunc(a.cfg.Reminders.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		if _, err := uc.Execute(ctx); err != nil {
			a.log.Error("Reminders: run failed: %v", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid reminders schedule %q: %w", a.cfg.Reminders.Schedule, err)
	}

	return scheduler, nil
}
