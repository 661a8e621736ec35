package blogservice

import (
	"database/sql"

	"github.com/svidalco/mdxblog/internal/common"
)

type BlogService struct {
	m     *PostModel
	files *ArtifactStore
	c     *common.Cache
}

type PostModel struct {
	db *sql.DB
}

// Post is the metadata row. BodyPath and ThumbnailPath are references to
// filesystem artifacts, relative to the artifact store's base directory;
// the content itself is read from disk on demand.
type Post struct {
	ID            int     `json:"id"`
	Title         string  `json:"title"`
	BodyPath      string  `json:"-"`
	ThumbnailPath string  `json:"thumbnail"`
	Author        *string `json:"author,omitempty"`
	CreatedAt     *string `json:"created_at,omitempty"`
}

// CreatePostRequest carries everything needed to create a post. Thumbnail
// may be nil, in which case the built-in placeholder image is stored.
type CreatePostRequest struct {
	Title        string
	Body         string
	Thumbnail    []byte
	ThumbnailExt string
	Author       *string
	CreatedAt    *string
}

// UpdateContent describes an in-place content replacement. Nil fields are
// left untouched, so body-only or thumbnail-only updates are possible.
type UpdateContent struct {
	Body      *string
	Thumbnail []byte
}
