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
	"pulse/internal/auth"
	"pulse/internal/message"
)

type mockMessageSvc struct{ mock.Mock }

func (m *mockMessageSvc) Send(ctx context.Context, authID string, in message.SendInput) (*message.Message, error) {
	args := m.Called(ctx, authID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*message.Message), args.Error(1)
}

func (m *mockMessageSvc) MarkSeen(ctx context.Context, authID string, messageID uint64) (*message.Message, error) {
	args := m.Called(ctx, authID, messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*message.Message), args.Error(1)
}

func (m *mockMessageSvc) UpdateStatus(ctx context.Context, messageID uint64, status string) (*message.Message, error) {
	args := m.Called(ctx, messageID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*message.Message), args.Error(1)
}

func (m *mockMessageSvc) List(ctx context.Context, authID string, chatID uint64) ([]message.Message, error) {
	args := m.Called(ctx, authID, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]message.Message), args.Error(1)
}

func (m *mockMessageSvc) Unseen(ctx context.Context, authID string, chatID uint64) ([]message.Message, error) {
	args := m.Called(ctx, authID, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]message.Message), args.Error(1)
}

func (m *mockMessageSvc) StartCall(ctx context.Context, authID string, chatID uint64, isVideo bool) (*message.CallResult, error) {
	args := m.Called(ctx, authID, chatID, isVideo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*message.CallResult), args.Error(1)
}

func (m *mockMessageSvc) EndCall(ctx context.Context, callID uint64, duration int) (*message.CallResult, error) {
	args := m.Called(ctx, callID, duration)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*message.CallResult), args.Error(1)
}

func (m *mockMessageSvc) Delete(ctx context.Context, authID string, messageID uint64, forEveryone bool) error {
	args := m.Called(ctx, authID, messageID, forEveryone)
	return args.Error(0)
}

type mockAuthSvc struct{ mock.Mock }

func (m *mockAuthSvc) Register(ctx context.Context, in auth.RegisterInput) (*auth.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.User), args.Error(1)
}

func (m *mockAuthSvc) Login(ctx context.Context, email, password string) (*auth.LoginResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.LoginResult), args.Error(1)
}

func (m *mockAuthSvc) List(ctx context.Context) ([]auth.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]auth.User), args.Error(1)
}

func (m *mockAuthSvc) GetByAuthID(ctx context.Context, authID string) (*auth.User, error) {
	args := m.Called(ctx, authID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.User), args.Error(1)
}

func (m *mockAuthSvc) GetByID(ctx context.Context, userID uint64) (*auth.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.User), args.Error(1)
}

type mockBroadcaster struct{ mock.Mock }

func (m *mockBroadcaster) NewMessage(chatID uint64, msg any) { m.Called(chatID, msg) }
func (m *mockBroadcaster) MessageStatus(chatID, messageID uint64, status string) {
	m.Called(chatID, messageID, status)
}
func (m *mockBroadcaster) MessageDeleted(chatID, messageID uint64, forEveryone bool, userID uint64) {
	m.Called(chatID, messageID, forEveryone, userID)
}
func (m *mockBroadcaster) Typing(chatID, userID uint64, name string, isTyping bool) {
	m.Called(chatID, userID, name, isTyping)
}
func (m *mockBroadcaster) CallStarted(chatID uint64, payload any) { m.Called(chatID, payload) }
func (m *mockBroadcaster) CallEnded(chatID uint64, payload any) { m.Called(chatID, payload) }

func messageRouter(h *MessageHandler) http.Handler {
	r := chi.NewRouter()
	r.Post("/messages", h.Send)
	r.Post("/messages/typing", h.Typing)
	r.Patch("/messages/status/{messageId}", h.UpdateStatus)
	r.Delete("/messages/{id}", h.Delete)
	return r
}

func TestSendMessage_EmptyTextRejected(t *testing.T) {
	svc := new(mockMessageSvc)
	svc.On("Send", mock.Anything, testAuthID, mock.Anything).
		Return(nil, apperr.BadRequest("text content required"))

	h := &MessageHandler{Svc: svc}
	body := []byte(`{"chatId":1,"type":"TEXT","content":"   "}`)
	req := authed(httptest.NewRequest(http.MethodPost, "/messages", bytes.NewReader(body)))
	rec := httptest.NewRecorder()
	messageRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "text content required")
}

func TestSendMessage_Success(t *testing.T) {
	svc := new(mockMessageSvc)
	svc.On("Send", mock.Anything, testAuthID, message.SendInput{
		ChatID: 1, Type: message.TypeText, Content: "hello",
	}).Return(&message.Message{ID: 42, ChatID: 1}, nil)

	h := &MessageHandler{Svc: svc}
	body := []byte(`{"chatId":1,"type":"TEXT","content":"hello"}`)
	req := authed(httptest.NewRequest(http.MethodPost, "/messages", bytes.NewReader(body)))
	rec := httptest.NewRecorder()
	messageRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	svc.AssertExpectations(t)
}

func TestTyping_BroadcastsWithSenderName(t *testing.T) {
	svc := new(mockMessageSvc)
	users := new(mockAuthSvc)
	rt := new(mockBroadcaster)

	users.On("GetByAuthID", mock.Anything, testAuthID).
		Return(&auth.User{ID: 3, FullName: "Ana Lima"}, nil)
	rt.On("Typing", uint64(1), uint64(3), "Ana Lima", true).Return()

	h := &MessageHandler{Svc: svc, Users: users, RT: rt}
	body := []byte(`{"chatId":1,"isTyping":true}`)
	req := authed(httptest.NewRequest(http.MethodPost, "/messages/typing", bytes.NewReader(body)))
	rec := httptest.NewRecorder()
	messageRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	rt.AssertExpectations(t)
}

func TestDeleteMessage_ForEveryoneFlag(t *testing.T) {
	svc := new(mockMessageSvc)
	svc.On("Delete", mock.Anything, testAuthID, uint64(8), true).Return(nil)

	h := &MessageHandler{Svc: svc}
	req := authed(httptest.NewRequest(http.MethodDelete, "/messages/8?forEveryone=true", nil))
	rec := httptest.NewRecorder()
	messageRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestDeleteMessage_DefaultForSelf(t *testing.T) {
	svc := new(mockMessageSvc)
	svc.On("Delete", mock.Anything, testAuthID, uint64(8), false).Return(nil)

	h := &MessageHandler{Svc: svc}
	req := authed(httptest.NewRequest(http.MethodDelete, "/messages/8", nil))
	rec := httptest.NewRecorder()
	messageRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestUpdateStatus_NotFound(t *testing.T) {
	svc := new(mockMessageSvc)
	svc.On("UpdateStatus", mock.Anything, uint64(99), message.StatusSeen).
		Return(nil, apperr.NotFound("message not found"))

	h := &MessageHandler{Svc: svc}
	body := []byte(`{"status":"SEEN"}`)
	req := authed(httptest.NewRequest(http.MethodPatch, "/messages/status/99", bytes.NewReader(body)))
	rec := httptest.NewRecorder()
	messageRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
