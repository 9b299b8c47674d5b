package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"pulse/internal/auth"
	"pulse/internal/habit"
	"pulse/internal/notification"
)

type UserLister interface {
	List(ctx context.Context) ([]auth.User, error)
}

type WeeklyDataSource interface {
	WeeklyData(ctx context.Context, userID uint64) ([]habit.Habit, error)
}

type Notifier interface {
	SendToUser(ctx context.Context, userID uint64, notifType, title, message string) (*notification.Notification, error)
}

// Scheduler runs the daily weekly-summary job: for every user, summarize
// the trailing week of habit activity and store it as a notification.
type Scheduler struct {
	Users     UserLister
	Habits    WeeklyDataSource
	Generator habit.SummaryGenerator
	Notifier  Notifier
	Log       zerolog.Logger

	cron *cron.Cron
}

// Start schedules the job at the given wall-clock hour, once per day.
func (s *Scheduler) Start(hour int) {
	s.cron = cron.New()
	spec := fmt.Sprintf("0 %d * * *", hour)
	if _, err := s.cron.AddFunc(spec, func() {
		s.RunWeeklySummaries(context.Background())
	}); err != nil {
		s.Log.Error().Err(err).Str("schedule", spec).
			Msg("weekly summary: invalid schedule, job not registered")
		return
	}
	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// RunWeeklySummaries processes every user. A failure for one user is
// logged and skipped; it never aborts the batch.
func (s *Scheduler) RunWeeklySummaries(ctx context.Context) {
	users, err := s.Users.List(ctx)
	if err != nil {
		s.Log.Error().Err(err).Msg("weekly summary: listing users failed")
		return
	}

	for _, u := range users {
		if err := s.summarizeUser(ctx, u); err != nil {
			s.Log.Warn().Err(err).Uint64("user_id", u.ID).
				Msg("weekly summary: skipping user")
		}
	}
}

func (s *Scheduler) summarizeUser(ctx context.Context, u auth.User) error {
	habits, err := s.Habits.WeeklyData(ctx, u.ID)
	if err != nil {
		return fmt.Errorf("weekly data: %w", err)
	}

	summary, err := s.Generator.WeeklySummary(ctx, habits)
	if err != nil {
		return fmt.Errorf("generate summary: %w", err)
	}

	_, err = s.Notifier.SendToUser(ctx, u.ID,
		notification.TypeWeeklySummary, "Weekly Summary", summary)
	if err != nil {
		return fmt.Errorf("store notification: %w", err)
	}
	return nil
}
