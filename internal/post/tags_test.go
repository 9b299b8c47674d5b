package post

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractTags(t *testing.T) {
	assert.Equal(t, []string{"gym", "streak"}, ExtractTags("day 30 #gym #streak #GYM"))
	assert.Nil(t, ExtractTags("no tags here"))
	assert.Equal(t, []string{"a_b"}, ExtractTags("#a_b"))
}
