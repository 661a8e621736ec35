package blogservice

import (
	"context"
	"database/sql"
	"errors"
)

var ErrRecordNotFound = errors.New("record not found")

func newPostModel(db *sql.DB) *PostModel {
	return &PostModel{db: db}
}

func (m *PostModel) insert(ctx context.Context, p *Post) error {
	query := `
		INSERT INTO posts (title, body_path, thumbnail_path, author, created_at)
		VALUES (?, ?, ?, ?, ?)`

	res, err := m.db.ExecContext(ctx, query, p.Title, p.BodyPath, p.ThumbnailPath, p.Author, p.CreatedAt)
	if err != nil {
		return err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = int(id)

	return nil
}

func (m *PostModel) getPostByID(ctx context.Context, id int) (*Post, error) {
	query := `
		SELECT id, title, body_path, thumbnail_path, author, created_at
		FROM posts
		WHERE id = ?`

	var p Post

	err := m.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Title, &p.BodyPath, &p.ThumbnailPath, &p.Author, &p.CreatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &p, nil
}

func (m *PostModel) getPosts(ctx context.Context) ([]Post, error) {
	query := `
		SELECT id, title, body_path, thumbnail_path, author, created_at
		FROM posts`

	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		var p Post
		err := rows.Scan(&p.ID, &p.Title, &p.BodyPath, &p.ThumbnailPath, &p.Author, &p.CreatedAt)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

func (m *PostModel) updateTitle(ctx context.Context, id int, title string) error {
	query := `
		UPDATE posts
		SET title = ?
		WHERE id = ?`

	res, err := m.db.ExecContext(ctx, query, title, id)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrRecordNotFound
	}

	return nil
}

func (m *PostModel) deletePost(ctx context.Context, id int) (bool, error) {
	query := `
		DELETE FROM posts
		WHERE id = ?`

	res, err := m.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}
