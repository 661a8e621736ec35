package userservice

import (
	"database/sql"
	"log/slog"

	"github.com/svidalco/mdxblog/internal/common"
)

type UserService struct {
	m      *DBModel
	mb     common.MessageProducer
	logger *slog.Logger
}

type DBModel struct {
	db *sql.DB
}

type User struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Password  Password `json:"-"`
	CreatedAt string   `json:"-"`
}

// Password carries the plaintext only for the duration of a request. The
// hash is a self-describing argon2id string (salt and parameters embedded).
type Password struct {
	Plain string `json:"-"`
	hash  string `json:"-"`
}
