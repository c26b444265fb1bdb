// Package photos stores profile photos submitted as base64 data URIs on the
// local filesystem.
package photos

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// DefaultMaxBytes is the decoded size limit when none is configured.
const DefaultMaxBytes int64 = 2 << 20

// ErrUnsupportedPhoto marks input that is not a usable jpeg/png data URI.
var ErrUnsupportedPhoto = errors.New("photos: unsupported photo")

var dataURIPattern = regexp.MustCompile(`^data:image/(jpeg|png);base64,(.+)$`)

var extensions = map[string]string{
	"jpeg": "jpg",
	"png":  "png",
}

// Store writes photos into a single directory.
type Store struct {
	dir      string
	maxBytes int64
}

// NewStore returns a store rooted at dir.
func NewStore(dir string, maxBytes int64) *Store {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Store{dir: filepath.Clean(dir), maxBytes: maxBytes}
}

// Dir returns the directory photos are written to.
func (s *Store) Dir() string {
	return s.dir
}

// Save decodes dataURI and writes it as <uuid>.<jpg|png>. The returned ref is
// the bare file name. Any input that is not a well-formed jpeg or png within the
// size limit yields an error wrapping ErrUnsupportedPhoto.
func (s *Store) Save(dataURI string) (string, error) {
	match := dataURIPattern.FindStringSubmatch(strings.TrimSpace(dataURI))
	if match == nil {
		return "", fmt.Errorf("%w: not a jpeg or png data uri", ErrUnsupportedPhoto)
	}
	declared, encoded := match[1], match[2]

	if int64(base64.StdEncoding.DecodedLen(len(encoded))) > s.maxBytes+2 {
		return "", fmt.Errorf("%w: exceeds %d bytes", ErrUnsupportedPhoto, s.maxBytes)
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedPhoto, err)
	}
	if int64(len(data)) > s.maxBytes {
		return "", fmt.Errorf("%w: exceeds %d bytes", ErrUnsupportedPhoto, s.maxBytes)
	}
	if detected := mimetype.Detect(data); !detected.Is("image/" + declared) {
		return "", fmt.Errorf("%w: declared image/%s but content is %s", ErrUnsupportedPhoto, declared, detected.String())
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create uploads dir: %w", err)
	}

	ref := uuid.NewString() + "." + extensions[declared]
	if err := os.WriteFile(filepath.Join(s.dir, ref), data, 0o644); err != nil {
		return "", fmt.Errorf("write photo: %w", err)
	}
	return ref, nil
}

// Remove deletes a previously saved photo. Missing files are not an error.
func (s *Store) Remove(ref string) error {
	if ref == "" {
		return nil
	}
	name := filepath.Base(ref)
	if name != ref {
		return fmt.Errorf("invalid photo ref %q", ref)
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove photo: %w", err)
	}
	return nil
}
