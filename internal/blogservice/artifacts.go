package blogservice

import (
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidArtifactPath is returned for any reference that would escape
// the artifact directory.
var ErrInvalidArtifactPath = errors.New("invalid artifact path")

const artifactSubdir = "posts"

// placeholderPNG is a 1x1 transparent PNG stored when no thumbnail is
// supplied.
var placeholderPNG = func() []byte {
	const b64 = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR4nGNgYAAAAAMAASsJTYQAAAAASUVORK5CYII="
	b, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		panic(err)
	}
	return b
}()

// PlaceholderThumbnail returns a copy of the built-in placeholder image.
func PlaceholderThumbnail() []byte {
	b := make([]byte, len(placeholderPNG))
	copy(b, placeholderPNG)
	return b
}

// ArtifactStore owns the paired filesystem artifacts of a post: the body
// document and the thumbnail image. Rows reference artifacts by path
// relative to baseDir, so the whole store can be relocated by moving the
// directory.
type ArtifactStore struct {
	baseDir string
}

func NewArtifactStore(baseDir string) (*ArtifactStore, error) {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Join(abs, artifactSubdir), 0o755); err != nil {
		return nil, err
	}

	return &ArtifactStore{baseDir: abs}, nil
}

// newPair names a fresh body/thumbnail artifact pair. The identifier is
// independent of the row id and unique per call, so concurrent creates
// never write to the same files.
func (s *ArtifactStore) newPair(thumbnailExt string) (bodyRel, thumbRel string) {
	id := uuid.NewString()
	bodyRel = filepath.ToSlash(filepath.Join(artifactSubdir, id+".mdx"))
	thumbRel = filepath.ToSlash(filepath.Join(artifactSubdir, id+thumbnailExt))
	return bodyRel, thumbRel
}

// resolve turns a stored relative reference into an absolute path, rejecting
// anything that escapes the artifact base directory.
func (s *ArtifactStore) resolve(rel string) (string, error) {
	if rel == "" || filepath.IsAbs(rel) {
		return "", ErrInvalidArtifactPath
	}

	clean := filepath.Clean(filepath.FromSlash(rel))
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", ErrInvalidArtifactPath
	}

	return filepath.Join(s.baseDir, clean), nil
}

// MediaPath resolves a bare artifact filename for external re-serving.
func (s *ArtifactStore) MediaPath(filename string) (string, error) {
	if filename == "" || filename != filepath.Base(filename) {
		return "", ErrInvalidArtifactPath
	}

	return s.resolve(filepath.Join(artifactSubdir, filename))
}

func (s *ArtifactStore) writeBody(rel, body string) error {
	path, err := s.resolve(rel)
	if err != nil {
		return err
	}

	return os.WriteFile(path, []byte(body), 0o644)
}

func (s *ArtifactStore) writeThumbnail(rel string, b []byte) error {
	path, err := s.resolve(rel)
	if err != nil {
		return err
	}

	return os.WriteFile(path, b, 0o644)
}

// readBody loads the body document. A missing or unreadable artifact is an
// absent-content condition, not an error: row and artifact lifecycles are
// only loosely coupled.
func (s *ArtifactStore) readBody(rel string) (string, bool) {
	path, err := s.resolve(rel)
	if err != nil {
		return "", false
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}

	return string(b), true
}

func (s *ArtifactStore) readThumbnail(rel string) ([]byte, bool) {
	path, err := s.resolve(rel)
	if err != nil {
		return nil, false
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	return b, true
}

// remove deletes an artifact, tolerating its absence.
func (s *ArtifactStore) remove(rel string) error {
	path, err := s.resolve(rel)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	return nil
}
