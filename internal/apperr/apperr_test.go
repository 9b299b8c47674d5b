package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{NotFound("chat not found"), http.StatusNotFound},
		{BadRequest("text content required"), http.StatusBadRequest},
		{Forbidden("not a chat member"), http.StatusForbidden},
		{Conflict("direct chat already exists"), http.StatusConflict},
		{Internal("delete chat", errors.New("boom")), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Status(c.err))
	}
}

func TestMessageHidesInternalCause(t *testing.T) {
	err := Internal("delete chat", errors.New("pq: connection reset"))
	assert.Equal(t, "delete chat", Message(err))
	assert.Contains(t, err.Error(), "pq: connection reset")
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("send message: %w", Forbidden("not a chat member"))
	assert.Equal(t, KindForbidden, KindOf(err))
	assert.Equal(t, "not a chat member", Message(err))
}
