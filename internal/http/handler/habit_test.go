package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"pulse/internal/apperr"
	"pulse/internal/habit"
)

type mockHabitSvc struct{ mock.Mock }

func (m *mockHabitSvc) Create(ctx context.Context, authID string, in habit.Input) (*habit.Habit, error) {
	args := m.Called(ctx, authID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*habit.Habit), args.Error(1)
}

func (m *mockHabitSvc) ListForUser(ctx context.Context, authID string) ([]habit.Habit, error) {
	args := m.Called(ctx, authID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]habit.Habit), args.Error(1)
}

func (m *mockHabitSvc) Get(ctx context.Context, habitID uint64) (*habit.Habit, error) {
	args := m.Called(ctx, habitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*habit.Habit), args.Error(1)
}

func (m *mockHabitSvc) Update(ctx context.Context, habitID uint64, in habit.Input) (*habit.Habit, error) {
	args := m.Called(ctx, habitID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*habit.Habit), args.Error(1)
}

func (m *mockHabitSvc) UpdateStatus(ctx context.Context, habitID uint64, status string) (*habit.Habit, error) {
	args := m.Called(ctx, habitID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*habit.Habit), args.Error(1)
}

func (m *mockHabitSvc) RecordCompletion(ctx context.Context, habitID uint64, completed bool, notes string) (*habit.Completion, error) {
	args := m.Called(ctx, habitID, completed, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*habit.Completion), args.Error(1)
}

func (m *mockHabitSvc) Reset(ctx context.Context, habitID uint64) (*habit.Habit, error) {
	args := m.Called(ctx, habitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*habit.Habit), args.Error(1)
}

func (m *mockHabitSvc) Remove(ctx context.Context, habitID uint64) error {
	args := m.Called(ctx, habitID)
	return args.Error(0)
}

func habitRouter(svc HabitService) http.Handler {
	h := &HabitHandler{Svc: svc}
	r := chi.NewRouter()
	r.Post("/habits", h.Create)
	r.Post("/habits/{id}/completion", h.RecordCompletion)
	r.Post("/habits/{id}/reset", h.Reset)
	return r
}

func TestRecordCompletion_Success(t *testing.T) {
	svc := new(mockHabitSvc)
	svc.On("RecordCompletion", mock.Anything, uint64(3), true, "ran 5k").
		Return(&habit.Completion{ID: 1, HabitID: 3, Completed: true}, nil)

	body := []byte(`{"completed":true,"notes":"ran 5k"}`)
	req := authed(httptest.NewRequest(http.MethodPost, "/habits/3/completion", bytes.NewReader(body)))
	rec := httptest.NewRecorder()
	habitRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	svc.AssertExpectations(t)
}

func TestRecordCompletion_HabitMissing(t *testing.T) {
	svc := new(mockHabitSvc)
	svc.On("RecordCompletion", mock.Anything, uint64(99), false, "").
		Return(nil, apperr.NotFound("habit not found"))

	body := []byte(`{"completed":false}`)
	req := authed(httptest.NewRequest(http.MethodPost, "/habits/99/completion", bytes.NewReader(body)))
	rec := httptest.NewRecorder()
	habitRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateHabit_GoalNotOwned(t *testing.T) {
	svc := new(mockHabitSvc)
	svc.On("Create", mock.Anything, testAuthID, mock.Anything).
		Return(nil, apperr.Forbidden("goal does not belong to you"))

	body := []byte(`{"name":"Read daily","goalId":4}`)
	req := authed(httptest.NewRequest(http.MethodPost, "/habits", bytes.NewReader(body)))
	rec := httptest.NewRecorder()
	habitRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
