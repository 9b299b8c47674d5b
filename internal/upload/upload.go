package upload

import (
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store writes uploaded files into a content directory and hands back
// relative URLs under /uploads/.
type Store struct {
	Dir string
}

type SavedFile struct {
	URL      string
	FileName string
	FileSize int64
	Kind     string
}

// Save copies one multipart file to disk under a uuid-prefixed name.
func (s *Store) Save(fh *multipart.FileHeader) (*SavedFile, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return nil, err
	}

	src, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	name := uuid.NewString() + filepath.Ext(fh.Filename)
	dst, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return nil, err
	}
	defer dst.Close()

	size, err := io.Copy(dst, src)
	if err != nil {
		return nil, err
	}

	return &SavedFile{
		URL:      "/uploads/" + name,
		FileName: fh.Filename,
		FileSize: size,
		Kind:     KindFromMIME(fh.Header.Get("Content-Type")),
	}, nil
}

// KindFromMIME infers the attachment kind from the declared media type.
// Anything that is not image/video/audio counts as a generic document.
func KindFromMIME(mime string) string {
	switch {
	case strings.HasPrefix(mime, "image/"):
		return "IMAGE"
	case strings.HasPrefix(mime, "video/"):
		return "VIDEO"
	case strings.HasPrefix(mime, "audio/"):
		return "AUDIO"
	default:
		return "DOCUMENT"
	}
}

// MediaKindFromMIME is the post-media variant: unsupported types are
// skipped by the caller rather than rejected.
func MediaKindFromMIME(mime string) (string, bool) {
	switch {
	case strings.HasPrefix(mime, "image/"):
		return "Image", true
	case strings.HasPrefix(mime, "video/"):
		return "Video", true
	case strings.HasPrefix(mime, "audio/"):
		return "Audio", true
	default:
		return "", false
	}
}
