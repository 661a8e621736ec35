package blogservice

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testArtifactStore(t *testing.T) *ArtifactStore {
	s, err := NewArtifactStore(t.TempDir())
	require.NoError(t, err)

	return s
}

func TestArtifactPairNaming(t *testing.T) {
	s := testArtifactStore(t)

	bodyRel, thumbRel := s.newPair(".png")

	assert.True(t, strings.HasPrefix(bodyRel, "posts/"))
	assert.True(t, strings.HasSuffix(bodyRel, ".mdx"))
	assert.True(t, strings.HasPrefix(thumbRel, "posts/"))
	assert.True(t, strings.HasSuffix(thumbRel, ".png"))

	// The pair shares one identifier.
	assert.Equal(t, strings.TrimSuffix(bodyRel, ".mdx"), strings.TrimSuffix(thumbRel, ".png"))

	bodyRel2, _ := s.newPair(".png")
	assert.NotEqual(t, bodyRel, bodyRel2)
}

func TestArtifactWriteReadRemove(t *testing.T) {
	s := testArtifactStore(t)

	bodyRel, thumbRel := s.newPair(".png")

	require.NoError(t, s.writeBody(bodyRel, "# Hello"))
	require.NoError(t, s.writeThumbnail(thumbRel, []byte{1, 2, 3}))

	body, ok := s.readBody(bodyRel)
	assert.True(t, ok)
	assert.Equal(t, "# Hello", body)

	thumb, ok := s.readThumbnail(thumbRel)
	assert.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3}, thumb)

	require.NoError(t, s.remove(bodyRel))
	_, ok = s.readBody(bodyRel)
	assert.False(t, ok)

	// Removing an already-removed artifact is not an error.
	require.NoError(t, s.remove(bodyRel))
}

func TestArtifactMissingIsAbsentNotError(t *testing.T) {
	s := testArtifactStore(t)

	_, ok := s.readBody("posts/never-written.mdx")
	assert.False(t, ok)

	_, ok = s.readThumbnail("posts/never-written.png")
	assert.False(t, ok)
}

func TestResolveRejectsEscapes(t *testing.T) {
	s := testArtifactStore(t)

	testCases := []struct {
		name string
		rel  string
	}{
		{name: "Empty", rel: ""},
		{name: "Absolute", rel: "/etc/passwd"},
		{name: "Parent", rel: "../outside.txt"},
		{name: "Nested Escape", rel: "posts/../../outside.txt"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.resolve(tc.rel)
			assert.ErrorIs(t, err, ErrInvalidArtifactPath)
		})
	}
}

func TestMediaPath(t *testing.T) {
	s := testArtifactStore(t)

	path, err := s.MediaPath("thumb.png")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.baseDir, "posts", "thumb.png"), path)

	_, err = s.MediaPath("../thumb.png")
	assert.ErrorIs(t, err, ErrInvalidArtifactPath)

	_, err = s.MediaPath("")
	assert.ErrorIs(t, err, ErrInvalidArtifactPath)

	_, err = s.MediaPath("sub/thumb.png")
	assert.ErrorIs(t, err, ErrInvalidArtifactPath)
}

func TestPlaceholderThumbnailIsCopied(t *testing.T) {
	a := PlaceholderThumbnail()
	b := PlaceholderThumbnail()

	require.NotEmpty(t, a)
	a[0] = 0xff
	assert.NotEqual(t, a[0], b[0])
}

func TestNewArtifactStoreCreatesDirectory(t *testing.T) {
	dir := t.TempDir()

	_, err := NewArtifactStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(dir, "posts"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
