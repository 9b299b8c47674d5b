package message

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"pulse/internal/apperr"
	"pulse/internal/auth"
	"pulse/internal/chat"
	"pulse/internal/testdb"
)

// rtRecorder counts broadcasts so tests can assert when events fire.
type rtRecorder struct {
	statuses []string
}

func (r *rtRecorder) NewMessage(chatID uint64, msg any) {}
func (r *rtRecorder) MessageStatus(chatID, messageID uint64, status string) {
	r.statuses = append(r.statuses, status)
}
func (r *rtRecorder) MessageDeleted(chatID, messageID uint64, forEveryone bool, uID uint64) {}
func (r *rtRecorder) Typing(chatID, userID uint64, name string, isTyping bool) {}
func (r *rtRecorder) CallStarted(chatID uint64, payload any) {}
func (r *rtRecorder) CallEnded(chatID uint64, payload any) {}

type fixture struct {
	db    *gorm.DB
	svc   *Service
	rt    *rtRecorder
	chat  *chat.Detail
	users []*auth.User
}

// newGroupFixture seeds n users and one group chat owned by the first.
func newGroupFixture(t *testing.T, n int) *fixture {
	t.Helper()
	db := testdb.Open(t)

	users := make([]*auth.User, 0, n)
	ids := make([]uint64, 0, n)
	for i := 0; i < n; i++ {
		u := auth.User{
			AuthID:       uuid.NewString(),
			Email:        fmt.Sprintf("user%d@example.com", i),
			PasswordHash: "x",
			FullName:     fmt.Sprintf("User %d", i),
		}
		require.NoError(t, db.Create(&u).Error)
		users = append(users, &u)
		ids = append(ids, u.ID)
	}

	chatSvc := &chat.Service{DB: db, Log: zerolog.Nop()}
	d, err := chatSvc.Create(context.Background(), users[0].AuthID, chat.CreateInput{
		ParticipantIDs: ids[1:],
		Name:           "group",
		IsGroup:        true,
	})
	require.NoError(t, err)

	rt := &rtRecorder{}
	return &fixture{
		db:    db,
		svc:   &Service{DB: db, RT: rt, Log: zerolog.Nop()},
		rt:    rt,
		chat:  d,
		users: users,
	}
}

func (f *fixture) receipts(t *testing.T, messageID uint64) []ReadReceipt {
	t.Helper()
	var rows []ReadReceipt
	require.NoError(t, f.db.Where("message_id = ?", messageID).Find(&rows).Error)
	return rows
}

func TestSend_CreatesReceiptsForNonSenders(t *testing.T) {
	f := newGroupFixture(t, 3)
	sender := f.users[0]

	m, err := f.svc.Send(context.Background(), sender.AuthID, SendInput{
		ChatID: f.chat.ID, Type: TypeText, Content: "hello",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusDelivered, m.Status)

	rows := f.receipts(t, m.ID)
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.NotEqual(t, sender.ID, r.UserID)
		assert.Nil(t, r.ReadAt)
	}
}

func TestMarkSeen_FlipsOnlyWhenLastNonSenderReads(t *testing.T) {
	f := newGroupFixture(t, 3)
	ctx := context.Background()

	m, err := f.svc.Send(ctx, f.users[0].AuthID, SendInput{
		ChatID: f.chat.ID, Type: TypeText, Content: "hello",
	})
	require.NoError(t, err)

	got, err := f.svc.MarkSeen(ctx, f.users[1].AuthID, m.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusDelivered, got.Status)
	assert.Empty(t, f.rt.statuses)

	got, err = f.svc.MarkSeen(ctx, f.users[2].AuthID, m.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusSeen, got.Status)
	assert.Equal(t, []string{StatusSeen}, f.rt.statuses)

	var stored Message
	require.NoError(t, f.db.First(&stored, m.ID).Error)
	assert.Equal(t, StatusSeen, stored.Status)
}

func TestMarkSeen_RepeatReadsDoNotRebroadcast(t *testing.T) {
	f := newGroupFixture(t, 2)
	ctx := context.Background()

	m, err := f.svc.Send(ctx, f.users[0].AuthID, SendInput{
		ChatID: f.chat.ID, Type: TypeText, Content: "hello",
	})
	require.NoError(t, err)

	_, err = f.svc.MarkSeen(ctx, f.users[1].AuthID, m.ID)
	require.NoError(t, err)
	_, err = f.svc.MarkSeen(ctx, f.users[1].AuthID, m.ID)
	require.NoError(t, err)

	assert.Equal(t, []string{StatusSeen}, f.rt.statuses)
	assert.Len(t, f.receipts(t, m.ID), 1)
}

func TestMarkSeen_SenderIsNoOp(t *testing.T) {
	f := newGroupFixture(t, 3)
	ctx := context.Background()

	m, err := f.svc.Send(ctx, f.users[0].AuthID, SendInput{
		ChatID: f.chat.ID, Type: TypeText, Content: "hello",
	})
	require.NoError(t, err)

	got, err := f.svc.MarkSeen(ctx, f.users[0].AuthID, m.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusDelivered, got.Status)

	rows := f.receipts(t, m.ID)
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.NotEqual(t, f.users[0].ID, r.UserID)
		assert.Nil(t, r.ReadAt)
	}
}

func TestMarkSeen_NonMemberForbidden(t *testing.T) {
	f := newGroupFixture(t, 2)
	ctx := context.Background()

	outsider := auth.User{
		AuthID:       uuid.NewString(),
		Email:        "outsider@example.com",
		PasswordHash: "x",
		FullName:     "Outsider",
	}
	require.NoError(t, f.db.Create(&outsider).Error)

	m, err := f.svc.Send(ctx, f.users[0].AuthID, SendInput{
		ChatID: f.chat.ID, Type: TypeText, Content: "hello",
	})
	require.NoError(t, err)

	_, err = f.svc.MarkSeen(ctx, outsider.AuthID, m.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	assert.Len(t, f.receipts(t, m.ID), 1)
}
