package upload

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindFromMIME(t *testing.T) {
	cases := map[string]string{
		"image/png":       "IMAGE",
		"image/jpeg":      "IMAGE",
		"video/mp4":       "VIDEO",
		"audio/ogg":       "AUDIO",
		"application/pdf": "DOCUMENT",
		"text/plain":      "DOCUMENT",
		"":                "DOCUMENT",
	}
	for mime, want := range cases {
		assert.Equal(t, want, KindFromMIME(mime), mime)
	}
}

func TestMediaKindSkipsUnsupported(t *testing.T) {
	kind, ok := MediaKindFromMIME("image/gif")
	assert.True(t, ok)
	assert.Equal(t, "Image", kind)

	_, ok = MediaKindFromMIME("application/zip")
	assert.False(t, ok)
}
