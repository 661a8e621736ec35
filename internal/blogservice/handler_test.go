package blogservice

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/svidalco/mdxblog/internal/common"
)

func setupTestService(t *testing.T) *BlogService {
	db := common.TestDB(t)

	files, err := NewArtifactStore(t.TempDir())
	require.NoError(t, err)

	return NewBlogService(db, files, common.NewCache(5*time.Minute, 10*time.Minute))
}

func TestCreateAndGetPost(t *testing.T) {
	s := setupTestService(t)
	ctx := context.Background()

	thumbnail := []byte{0x89, 'P', 'N', 'G', 1, 2, 3}

	id, err := s.CreatePost(ctx, &CreatePostRequest{
		Title:        "First Post",
		Body:         "# Hello\n\nBody text.",
		Thumbnail:    thumbnail,
		ThumbnailExt: ".png",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, id)

	p, err := s.GetPost(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "First Post", p.Title)

	body, ok := s.ResolveBody(p)
	assert.True(t, ok)
	assert.Equal(t, "# Hello\n\nBody text.", body)

	thumb, ok := s.ResolveThumbnail(p)
	assert.True(t, ok)
	assert.Equal(t, thumbnail, thumb)
}

func TestCreatePostValidation(t *testing.T) {
	s := setupTestService(t)
	ctx := context.Background()

	testCases := []struct {
		name  string
		req   CreatePostRequest
		field string
	}{
		{
			name:  "Blank Title",
			req:   CreatePostRequest{Title: "   ", Body: "body"},
			field: "title",
		},
		{
			name:  "Empty Body",
			req:   CreatePostRequest{Title: "Title"},
			field: "content",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.CreatePost(ctx, &tc.req)

			var validationErr common.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Contains(t, validationErr.Errors, tc.field)
		})
	}
}

func TestCreatePostPlaceholderThumbnail(t *testing.T) {
	s := setupTestService(t)
	ctx := context.Background()

	id, err := s.CreatePost(ctx, &CreatePostRequest{
		Title: "No Thumbnail",
		Body:  "body",
	})
	require.NoError(t, err)

	p, err := s.GetPost(ctx, id)
	require.NoError(t, err)

	thumb, ok := s.ResolveThumbnail(p)
	assert.True(t, ok)
	assert.Equal(t, PlaceholderThumbnail(), thumb)
}

func TestGetPostMissingArtifacts(t *testing.T) {
	s := setupTestService(t)
	ctx := context.Background()

	id, err := s.CreatePost(ctx, &CreatePostRequest{
		Title: "Orphan Row",
		Body:  "body",
	})
	require.NoError(t, err)

	p, err := s.GetPost(ctx, id)
	require.NoError(t, err)

	require.NoError(t, s.files.remove(p.BodyPath))
	require.NoError(t, s.files.remove(p.ThumbnailPath))

	// The row is still served; its content is just absent.
	_, ok := s.ResolveBody(p)
	assert.False(t, ok)
	_, ok = s.ResolveThumbnail(p)
	assert.False(t, ok)
}

func TestListPosts(t *testing.T) {
	s := setupTestService(t)
	ctx := context.Background()

	posts, err := s.ListPosts(ctx)
	require.NoError(t, err)
	assert.Empty(t, posts)

	for _, title := range []string{"One", "Two", "Three"} {
		_, err := s.CreatePost(ctx, &CreatePostRequest{Title: title, Body: "body"})
		require.NoError(t, err)
	}

	posts, err = s.ListPosts(ctx)
	require.NoError(t, err)
	assert.Len(t, posts, 3)
}

func TestListPostsCaching(t *testing.T) {
	s := setupTestService(t)
	ctx := context.Background()

	_, err := s.CreatePost(ctx, &CreatePostRequest{Title: "One", Body: "body"})
	require.NoError(t, err)

	_, cached := s.c.Get(common.CacheKeyPosts())
	assert.False(t, cached)

	posts, err := s.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)

	// The list is now cached, and any mutation invalidates it.
	_, cached = s.c.Get(common.CacheKeyPosts())
	assert.True(t, cached)

	id, err := s.CreatePost(ctx, &CreatePostRequest{Title: "Two", Body: "body"})
	require.NoError(t, err)

	_, cached = s.c.Get(common.CacheKeyPosts())
	assert.False(t, cached)

	posts, err = s.ListPosts(ctx)
	require.NoError(t, err)
	assert.Len(t, posts, 2)

	_, err = s.DeletePost(ctx, id)
	require.NoError(t, err)

	posts, err = s.ListPosts(ctx)
	require.NoError(t, err)
	assert.Len(t, posts, 1)
}

func TestUpdatePost(t *testing.T) {
	s := setupTestService(t)
	ctx := context.Background()

	id, err := s.CreatePost(ctx, &CreatePostRequest{
		Title:     "Old Title",
		Body:      "old body",
		Thumbnail: []byte{1, 2, 3},
	})
	require.NoError(t, err)

	before, err := s.GetPost(ctx, id)
	require.NoError(t, err)

	newBody := "new body"
	err = s.UpdatePost(ctx, id, "New Title", &UpdateContent{
		Body:      &newBody,
		Thumbnail: []byte{4, 5, 6},
	})
	require.NoError(t, err)

	after, err := s.GetPost(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "New Title", after.Title)

	// Content updates overwrite the artifacts in place; the row keeps
	// referencing the same files.
	assert.Equal(t, before.BodyPath, after.BodyPath)
	assert.Equal(t, before.ThumbnailPath, after.ThumbnailPath)

	body, ok := s.ResolveBody(after)
	assert.True(t, ok)
	assert.Equal(t, "new body", body)

	thumb, ok := s.ResolveThumbnail(after)
	assert.True(t, ok)
	assert.Equal(t, []byte{4, 5, 6}, thumb)
}

func TestUpdatePostTitleOnly(t *testing.T) {
	s := setupTestService(t)
	ctx := context.Background()

	id, err := s.CreatePost(ctx, &CreatePostRequest{Title: "Title", Body: "body"})
	require.NoError(t, err)

	err = s.UpdatePost(ctx, id, "Renamed", nil)
	require.NoError(t, err)

	p, err := s.GetPost(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", p.Title)

	body, ok := s.ResolveBody(p)
	assert.True(t, ok)
	assert.Equal(t, "body", body)
}

func TestUpdateUnknownPost(t *testing.T) {
	s := setupTestService(t)

	err := s.UpdatePost(context.Background(), 9999, "Title", nil)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestDeletePost(t *testing.T) {
	s := setupTestService(t)
	ctx := context.Background()

	id, err := s.CreatePost(ctx, &CreatePostRequest{Title: "Doomed", Body: "body"})
	require.NoError(t, err)

	p, err := s.GetPost(ctx, id)
	require.NoError(t, err)

	deleted, err := s.DeletePost(ctx, id)
	require.NoError(t, err)
	assert.True(t, deleted)

	// Row and both artifacts are gone.
	_, err = s.GetPost(ctx, id)
	assert.ErrorIs(t, err, ErrRecordNotFound)
	_, ok := s.files.readBody(p.BodyPath)
	assert.False(t, ok)
	_, ok = s.files.readThumbnail(p.ThumbnailPath)
	assert.False(t, ok)

	// A second delete reports false without error.
	deleted, err = s.DeletePost(ctx, id)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestDeletePostWithMissingArtifacts(t *testing.T) {
	s := setupTestService(t)
	ctx := context.Background()

	id, err := s.CreatePost(ctx, &CreatePostRequest{Title: "Half Gone", Body: "body"})
	require.NoError(t, err)

	p, err := s.GetPost(ctx, id)
	require.NoError(t, err)
	require.NoError(t, s.files.remove(p.BodyPath))

	deleted, err := s.DeletePost(ctx, id)
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestBodyStoredVerbatim(t *testing.T) {
	s := setupTestService(t)
	ctx := context.Background()

	// Script tags and all: the artifact keeps exactly what was given, and
	// stripping is left to the serving path.
	raw := "intro <script>let x = 1</script> outro"

	id, err := s.CreatePost(ctx, &CreatePostRequest{
		Title: "Sneaky",
		Body:  raw,
	})
	require.NoError(t, err)

	p, err := s.GetPost(ctx, id)
	require.NoError(t, err)

	body, ok := s.ResolveBody(p)
	assert.True(t, ok)
	assert.Equal(t, raw, body)
}

func TestThumbnailStoredVerbatim(t *testing.T) {
	s := setupTestService(t)
	ctx := context.Background()

	// A decodable image well past any serving width still round-trips
	// byte-for-byte.
	wide := seedThumbnail(900, 300, 10, color.RGBA{R: 0xff, A: 0xff})

	id, err := s.CreatePost(ctx, &CreatePostRequest{
		Title:        "Wide",
		Body:         "body",
		Thumbnail:    wide,
		ThumbnailExt: ".png",
	})
	require.NoError(t, err)

	p, err := s.GetPost(ctx, id)
	require.NoError(t, err)

	got, ok := s.ResolveThumbnail(p)
	assert.True(t, ok)
	assert.Equal(t, wide, got)
}

func TestSeedPosts(t *testing.T) {
	s := setupTestService(t)
	ctx := context.Background()

	titles, err := s.SeedPosts(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sample post 1", "Sample post 2", "Sample post 3"}, titles)

	posts, err := s.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 3)

	for i := range posts {
		p := &posts[i]
		require.NotNil(t, p.Author)
		assert.Equal(t, "system", *p.Author)
		require.NotNil(t, p.CreatedAt)

		_, err := time.Parse(time.RFC3339, *p.CreatedAt)
		assert.NoError(t, err)

		thumb, ok := s.ResolveThumbnail(p)
		assert.True(t, ok)
		require.NotEmpty(t, thumb)

		// Seed thumbnails are the one place images get downscaled.
		img, _, err := image.Decode(bytes.NewReader(thumb))
		require.NoError(t, err)
		assert.Equal(t, 800, img.Bounds().Dx())
	}
}

func TestSeedPostsMinimumOne(t *testing.T) {
	s := setupTestService(t)

	titles, err := s.SeedPosts(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, titles, 1)
}
