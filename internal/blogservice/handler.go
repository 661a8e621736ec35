package blogservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"image/color"
	"strings"
	"time"

	"github.com/svidalco/mdxblog/internal/common"
)

func NewBlogService(db *sql.DB, files *ArtifactStore, c *common.Cache) *BlogService {
	return &BlogService{
		m:     newPostModel(db),
		files: files,
		c:     c,
	}
}

// CreatePost writes the body and thumbnail artifacts, then inserts the row
// referencing them. The two steps are not transactional: a crash in between
// leaves an orphaned artifact pair, which is accepted. Both artifacts are
// stored byte-for-byte as given; script stripping and image processing
// belong to the serving and seeding paths.
func (s *BlogService) CreatePost(ctx context.Context, req *CreatePostRequest) (int, error) {
	v := common.NewValidator()
	validateTitle(v, req.Title)
	validateBody(v, req.Body)
	if !v.Valid() {
		return 0, v.ValidationError()
	}

	thumb := req.Thumbnail
	ext := normalizeThumbnailExt(strings.ToLower(req.ThumbnailExt))
	if len(thumb) == 0 {
		thumb = PlaceholderThumbnail()
		ext = ".png"
	}

	bodyRel, thumbRel := s.files.newPair(ext)

	if err := s.files.writeBody(bodyRel, req.Body); err != nil {
		return 0, common.StorageError(err)
	}
	if err := s.files.writeThumbnail(thumbRel, thumb); err != nil {
		return 0, common.StorageError(err)
	}

	p := Post{
		Title:         strings.TrimSpace(req.Title),
		BodyPath:      bodyRel,
		ThumbnailPath: thumbRel,
		Author:        req.Author,
		CreatedAt:     req.CreatedAt,
	}

	if err := s.m.insert(ctx, &p); err != nil {
		return 0, common.StorageError(err)
	}

	s.invalidate(p.ID)

	return p.ID, nil
}

// GetPost returns the metadata row. Resolving the referenced artifacts is
// the caller's concern, see ResolveBody and ResolveThumbnail.
func (s *BlogService) GetPost(ctx context.Context, id int) (*Post, error) {
	v := common.NewValidator()
	validateID(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if s.c != nil {
		if cached, ok := s.c.Get(common.CacheKeyPost(id)); ok {
			if p, ok := cached.(*Post); ok {
				return p, nil
			}
		}
	}

	p, err := s.m.getPostByID(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, ErrRecordNotFound):
			return nil, err
		default:
			return nil, common.StorageError(err)
		}
	}

	if s.c != nil {
		s.c.Set(common.CacheKeyPost(id), p)
	}

	return p, nil
}

// ListPosts returns all rows. No ordering is guaranteed. The list is cached
// until the next mutation.
func (s *BlogService) ListPosts(ctx context.Context) ([]Post, error) {
	if s.c != nil {
		if cached, ok := s.c.Get(common.CacheKeyPosts()); ok {
			if posts, ok := cached.([]Post); ok {
				return posts, nil
			}
		}
	}

	posts, err := s.m.getPosts(ctx)
	if err != nil {
		return nil, common.StorageError(err)
	}

	if s.c != nil {
		s.c.Set(common.CacheKeyPosts(), posts)
	}

	return posts, nil
}

// ResolveBody reads the post's body document from disk. A missing artifact
// is reported as absent content, never as an error.
func (s *BlogService) ResolveBody(p *Post) (string, bool) {
	return s.files.readBody(p.BodyPath)
}

// ResolveThumbnail reads the post's thumbnail bytes from disk.
func (s *BlogService) ResolveThumbnail(p *Post) ([]byte, bool) {
	return s.files.readThumbnail(p.ThumbnailPath)
}

// MediaPath resolves an artifact filename for re-serving, rejecting
// references that escape the artifact directory.
func (s *BlogService) MediaPath(filename string) (string, error) {
	return s.files.MediaPath(filename)
}

// UpdatePost always updates the title; when content is given, the existing
// artifacts are overwritten in place, keeping the same filenames and row
// references. Racing updates on the same post follow last-writer-wins.
func (s *BlogService) UpdatePost(ctx context.Context, id int, title string, content *UpdateContent) error {
	v := common.NewValidator()
	validateID(v, id, "id")
	validateTitle(v, title)
	if !v.Valid() {
		return v.ValidationError()
	}

	if content != nil {
		p, err := s.m.getPostByID(ctx, id)
		if err != nil {
			switch {
			case errors.Is(err, ErrRecordNotFound):
				return err
			default:
				return common.StorageError(err)
			}
		}

		if content.Body != nil {
			if err := s.files.writeBody(p.BodyPath, *content.Body); err != nil {
				return common.StorageError(err)
			}
		}
		if len(content.Thumbnail) > 0 {
			if err := s.files.writeThumbnail(p.ThumbnailPath, content.Thumbnail); err != nil {
				return common.StorageError(err)
			}
		}
	}

	err := s.m.updateTitle(ctx, id, strings.TrimSpace(title))
	if err != nil {
		switch {
		case errors.Is(err, ErrRecordNotFound):
			return err
		default:
			return common.StorageError(err)
		}
	}

	s.invalidate(id)

	return nil
}

// DeletePost removes the row and best-effort removes both artifacts. Missing
// artifacts do not block row deletion, and a second delete of the same id
// reports false without error.
func (s *BlogService) DeletePost(ctx context.Context, id int) (bool, error) {
	v := common.NewValidator()
	validateID(v, id, "id")
	if !v.Valid() {
		return false, v.ValidationError()
	}

	p, err := s.m.getPostByID(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, ErrRecordNotFound):
			return false, nil
		default:
			return false, common.StorageError(err)
		}
	}

	deleted, err := s.m.deletePost(ctx, id)
	if err != nil {
		return false, common.StorageError(err)
	}

	// Row deletion is not rolled back when artifact removal fails.
	_ = s.files.remove(p.BodyPath)
	_ = s.files.remove(p.ThumbnailPath)

	s.invalidate(id)

	return deleted, nil
}

// SeedPosts creates n sample posts with generated bordered thumbnails and
// returns their titles. The generated image is rendered large and downscaled
// to the serving width.
func (s *BlogService) SeedPosts(ctx context.Context, n int) ([]string, error) {
	if n < 1 {
		n = 1
	}

	thumb := seedThumbnail(1200, 800, 40, color.RGBA{R: 0x34, G: 0x98, B: 0xdb, A: 0xff})
	thumb, _ = normalizeThumbnail(thumb, ".png")
	author := "system"

	var titles []string
	for i := 0; i < n; i++ {
		title := fmt.Sprintf("Sample post %d", i+1)
		body := fmt.Sprintf("# %s\n\nThis is an automatically generated sample post.\n", title)
		createdAt := time.Now().Format(time.RFC3339)

		_, err := s.CreatePost(ctx, &CreatePostRequest{
			Title:        title,
			Body:         body,
			Thumbnail:    thumb,
			ThumbnailExt: ".png",
			Author:       &author,
			CreatedAt:    &createdAt,
		})
		if err != nil {
			return nil, err
		}

		titles = append(titles, title)
	}

	return titles, nil
}

func (s *BlogService) invalidate(id int) {
	if s.c == nil {
		return
	}

	s.c.Delete(common.CacheKeyPost(id))
	s.c.Delete(common.CacheKeyPosts())
}
