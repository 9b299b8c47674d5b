package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pulse/internal/auth"
	"pulse/internal/habit"
	"pulse/internal/notification"
)

type mockUsers struct{ mock.Mock }

func (m *mockUsers) List(ctx context.Context) ([]auth.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]auth.User), args.Error(1)
}

type mockHabits struct{ mock.Mock }

func (m *mockHabits) WeeklyData(ctx context.Context, userID uint64) ([]habit.Habit, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]habit.Habit), args.Error(1)
}

type mockGenerator struct{ mock.Mock }

func (m *mockGenerator) WeeklySummary(ctx context.Context, habits []habit.Habit) (string, error) {
	args := m.Called(ctx, habits)
	return args.String(0), args.Error(1)
}

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) SendToUser(ctx context.Context, userID uint64, notifType, title, message string) (*notification.Notification, error) {
	args := m.Called(ctx, userID, notifType, title, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.Notification), args.Error(1)
}

func newScheduler(users *mockUsers, habits *mockHabits, gen *mockGenerator, notif *mockNotifier) *Scheduler {
	return &Scheduler{
		Users:     users,
		Habits:    habits,
		Generator: gen,
		Notifier:  notif,
		Log:       zerolog.Nop(),
	}
}

func TestRunWeeklySummaries_SendsPerUser(t *testing.T) {
	users := new(mockUsers)
	habits := new(mockHabits)
	gen := new(mockGenerator)
	notif := new(mockNotifier)

	users.On("List", mock.Anything).Return([]auth.User{{ID: 1}, {ID: 2}}, nil)
	habits.On("WeeklyData", mock.Anything, uint64(1)).Return([]habit.Habit{{ID: 10}}, nil)
	habits.On("WeeklyData", mock.Anything, uint64(2)).Return([]habit.Habit{}, nil)
	gen.On("WeeklySummary", mock.Anything, mock.Anything).Return("nice week", nil)
	notif.On("SendToUser", mock.Anything, uint64(1), notification.TypeWeeklySummary, "Weekly Summary", "nice week").
		Return(&notification.Notification{ID: 1}, nil)
	notif.On("SendToUser", mock.Anything, uint64(2), notification.TypeWeeklySummary, "Weekly Summary", "nice week").
		Return(&notification.Notification{ID: 2}, nil)

	s := newScheduler(users, habits, gen, notif)
	s.RunWeeklySummaries(context.Background())

	notif.AssertNumberOfCalls(t, "SendToUser", 2)
}

func TestRunWeeklySummaries_UserFailureDoesNotAbortBatch(t *testing.T) {
	users := new(mockUsers)
	habits := new(mockHabits)
	gen := new(mockGenerator)
	notif := new(mockNotifier)

	users.On("List", mock.Anything).Return([]auth.User{{ID: 1}, {ID: 2}, {ID: 3}}, nil)
	habits.On("WeeklyData", mock.Anything, uint64(1)).Return([]habit.Habit{}, nil)
	habits.On("WeeklyData", mock.Anything, uint64(2)).Return(nil, errors.New("db down"))
	habits.On("WeeklyData", mock.Anything, uint64(3)).Return([]habit.Habit{}, nil)
	gen.On("WeeklySummary", mock.Anything, mock.Anything).Return("summary", nil)
	notif.On("SendToUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&notification.Notification{}, nil)

	s := newScheduler(users, habits, gen, notif)
	s.RunWeeklySummaries(context.Background())

	// user 2 is skipped, the other two still get a summary
	notif.AssertNumberOfCalls(t, "SendToUser", 2)
	notif.AssertCalled(t, "SendToUser", mock.Anything, uint64(1), mock.Anything, mock.Anything, mock.Anything)
	notif.AssertCalled(t, "SendToUser", mock.Anything, uint64(3), mock.Anything, mock.Anything, mock.Anything)
}

func TestRunWeeklySummaries_GeneratorFailureSkipsNotification(t *testing.T) {
	users := new(mockUsers)
	habits := new(mockHabits)
	gen := new(mockGenerator)
	notif := new(mockNotifier)

	users.On("List", mock.Anything).Return([]auth.User{{ID: 7}}, nil)
	habits.On("WeeklyData", mock.Anything, uint64(7)).Return([]habit.Habit{}, nil)
	gen.On("WeeklySummary", mock.Anything, mock.Anything).Return("", errors.New("api error"))

	s := newScheduler(users, habits, gen, notif)
	s.RunWeeklySummaries(context.Background())

	notif.AssertNotCalled(t, "SendToUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRunWeeklySummaries_ListFailure(t *testing.T) {
	users := new(mockUsers)
	habits := new(mockHabits)
	gen := new(mockGenerator)
	notif := new(mockNotifier)

	users.On("List", mock.Anything).Return(nil, errors.New("db down"))

	s := newScheduler(users, habits, gen, notif)
	s.RunWeeklySummaries(context.Background())

	habits.AssertNotCalled(t, "WeeklyData", mock.Anything, mock.Anything)
}

func TestStart_RegistersDailyJob(t *testing.T) {
	s := newScheduler(new(mockUsers), new(mockHabits), new(mockGenerator), new(mockNotifier))
	s.Start(20)
	defer s.Stop()

	assert.Len(t, s.cron.Entries(), 1)
}

func TestStart_InvalidHourRegistersNothing(t *testing.T) {
	s := newScheduler(new(mockUsers), new(mockHabits), new(mockGenerator), new(mockNotifier))
	s.Start(24)
	defer s.Stop()

	assert.Empty(t, s.cron.Entries())
}

func TestSummarizeUserError(t *testing.T) {
	users := new(mockUsers)
	habits := new(mockHabits)
	gen := new(mockGenerator)
	notif := new(mockNotifier)

	habits.On("WeeklyData", mock.Anything, uint64(4)).Return([]habit.Habit{}, nil)
	gen.On("WeeklySummary", mock.Anything, mock.Anything).Return("ok", nil)
	notif.On("SendToUser", mock.Anything, uint64(4), mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("insert failed"))

	s := newScheduler(users, habits, gen, notif)
	err := s.summarizeUser(context.Background(), auth.User{ID: 4})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "store notification")
}
