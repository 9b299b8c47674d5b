package message

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pulse/internal/apperr"
)

func TestValidatePayload(t *testing.T) {
	att := &AttachmentInput{URL: "/uploads/a.png", Type: "IMAGE"}
	call := &CallInput{Type: CallVoice, Status: CallOngoing}

	cases := []struct {
		name    string
		msgType string
		content string
		att     *AttachmentInput
		call    *CallInput
		wantErr bool
	}{
		{"text ok", TypeText, "hello", nil, nil, false},
		{"text empty", TypeText, "", nil, nil, true},
		{"text whitespace", TypeText, "   ", nil, nil, true},
		{"image needs attachment", TypeImage, "", nil, nil, true},
		{"image ok", TypeImage, "", att, nil, false},
		{"video ok", TypeVideo, "", att, nil, false},
		{"audio needs attachment", TypeAudio, "", nil, nil, true},
		{"file ok", TypeFile, "", att, nil, false},
		{"call needs params", TypeCall, "", nil, nil, true},
		{"call ok", TypeCall, "", nil, call, false},
		{"unknown type", "STICKER", "x", att, call, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := validatePayload(c.msgType, c.content, c.att, c.call)
			if c.wantErr {
				assert.Error(t, err)
				assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAllSeen(t *testing.T) {
	members := []uint64{1, 2, 3}

	// Nobody has read yet.
	assert.False(t, allSeen(members, 1, map[uint64]bool{}))

	// All but one read leaves it unseen.
	assert.False(t, allSeen(members, 1, map[uint64]bool{2: true}))

	// Every non-sender read flips it.
	assert.True(t, allSeen(members, 1, map[uint64]bool{2: true, 3: true}))

	// The sender's own receipt never counts.
	assert.True(t, allSeen(members, 1, map[uint64]bool{1: false, 2: true, 3: true}))
}

func TestAllSeenDirectChat(t *testing.T) {
	members := []uint64{10, 20}
	assert.False(t, allSeen(members, 10, map[uint64]bool{}))
	assert.True(t, allSeen(members, 10, map[uint64]bool{20: true}))
}

func TestCallVariant(t *testing.T) {
	assert.Equal(t, CallVoice, callVariant(false, false))
	assert.Equal(t, CallVideo, callVariant(true, false))
	assert.Equal(t, CallGroupVoice, callVariant(false, true))
	assert.Equal(t, CallGroupVideo, callVariant(true, true))
}
