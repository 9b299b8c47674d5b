package chat_test

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
	"pulse/internal/message"
	"pulse/internal/reaction"
	"pulse/internal/testdb"
)

type nopRT struct{}

func (nopRT) NewMessage(chatID uint64, msg any) {}
func (nopRT) MessageStatus(chatID, messageID uint64, status string) {}
func (nopRT) MessageDeleted(chatID, messageID uint64, forEveryone bool, uID uint64) {}
func (nopRT) Typing(chatID, userID uint64, name string, isTyping bool) {}
func (nopRT) CallStarted(chatID uint64, payload any) {}
func (nopRT) CallEnded(chatID uint64, payload any) {}

func seedUser(t *testing.T, db *gorm.DB, name string) *auth.User {
	t.Helper()
	u := auth.User{
		AuthID:       uuid.NewString(),
		Email:        fmt.Sprintf("%s@example.com", name),
		PasswordHash: "x",
		FullName:     name,
	}
	require.NoError(t, db.Create(&u).Error)
	return &u
}

func TestCreateDirectChat_SelfOnlyRejected(t *testing.T) {
	db := testdb.Open(t)
	svc := &chat.Service{DB: db, Log: zerolog.Nop()}
	alice := seedUser(t, db, "alice")

	_, err := svc.Create(context.Background(), alice.AuthID, chat.CreateInput{
		ParticipantIDs: []uint64{alice.ID},
	})

	require.Error(t, err)
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
}

func TestCreateDirectChat_DuplicateConflict(t *testing.T) {
	db := testdb.Open(t)
	svc := &chat.Service{DB: db, Log: zerolog.Nop()}
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	_, err := svc.Create(context.Background(), alice.AuthID, chat.CreateInput{
		ParticipantIDs: []uint64{bob.ID},
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), alice.AuthID, chat.CreateInput{
		ParticipantIDs: []uint64{bob.ID},
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	// The pair is unordered: bob starting the same chat also conflicts.
	_, err = svc.Create(context.Background(), bob.AuthID, chat.CreateInput{
		ParticipantIDs: []uint64{alice.ID},
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestDeleteChat_NonMemberForbidden(t *testing.T) {
	db := testdb.Open(t)
	svc := &chat.Service{DB: db, Log: zerolog.Nop()}
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	eve := seedUser(t, db, "eve")

	d, err := svc.Create(context.Background(), alice.AuthID, chat.CreateInput{
		ParticipantIDs: []uint64{bob.ID},
	})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), eve.AuthID, d.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}

func TestDeleteChat_LeavesNoOrphans(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()
	chatSvc := &chat.Service{DB: db, Log: zerolog.Nop()}
	msgSvc := &message.Service{DB: db, RT: nopRT{}, Log: zerolog.Nop()}
	reactSvc := &reaction.Service{DB: db}

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")

	d, err := chatSvc.Create(ctx, alice.AuthID, chat.CreateInput{
		ParticipantIDs: []uint64{bob.ID, carol.ID},
		Name:           "team",
		IsGroup:        true,
	})
	require.NoError(t, err)

	text, err := msgSvc.Send(ctx, alice.AuthID, message.SendInput{
		ChatID: d.ID, Type: message.TypeText, Content: "hello",
	})
	require.NoError(t, err)

	_, err = msgSvc.Send(ctx, bob.AuthID, message.SendInput{
		ChatID: d.ID, Type: message.TypeImage,
		Attachment: &message.AttachmentInput{URL: "/uploads/a.png", Type: "IMAGE"},
	})
	require.NoError(t, err)

	_, err = msgSvc.StartCall(ctx, carol.AuthID, d.ID, false)
	require.NoError(t, err)

	_, err = reactSvc.React(ctx, bob.AuthID,
		reaction.Target{Kind: reaction.TargetMessage, ID: text.ID}, "like")
	require.NoError(t, err)

	require.NoError(t, msgSvc.Delete(ctx, carol.AuthID, text.ID, false))

	require.NoError(t, chatSvc.Delete(ctx, alice.AuthID, d.ID))

	for _, table := range []string{
		"messages", "read_receipts", "message_deletes", "attachments",
		"calls", "call_participants", "post_reactions", "user_chats", "chats",
	} {
		var count int64
		require.NoError(t, db.Table(table).Count(&count).Error)
		assert.Zero(t, count, "table %s should be empty", table)
	}
}
