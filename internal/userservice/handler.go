package userservice

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/svidalco/mdxblog/internal/common"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

func NewUserService(db *sql.DB, mb common.MessageProducer, logger *slog.Logger) *UserService {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &UserService{
		m:      newUserModel(db),
		mb:     mb,
		logger: logger,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser registers a new account and publishes a user.created event when
// a broker is configured. The email is normalized before the uniqueness
// check, so addresses differing only in case collide.
func (s *UserService) CreateUser(ctx context.Context, name, email, password string) (*User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	v := common.NewValidator()
	validateName(v, name)
	validateEmail(v, email)
	validatePassword(v, password)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	exists, err := s.m.emailExists(ctx, email)
	if err != nil {
		return nil, common.StorageError(err)
	}
	if exists {
		return nil, ErrDuplicateEmail
	}

	u := User{
		Name:  name,
		Email: email,
	}

	if err := u.Password.set(password); err != nil {
		return nil, err
	}

	err = s.m.insertUser(ctx, &u)
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicateEmail):
			return nil, err
		default:
			return nil, common.StorageError(err)
		}
	}

	// The event is best-effort: the account exists either way, and a lost
	// event only costs the welcome mail.
	if s.mb != nil {
		data, err := json.Marshal(struct {
			Name  string
			Email string
		}{
			Name:  u.Name,
			Email: u.Email,
		})
		if err != nil {
			s.logger.Error("could not marshal user.created event", slog.String("error", err.Error()))
		} else if err := s.mb.Publish(ctx, data, common.UserCreatedKey, common.UserExchange); err != nil {
			s.logger.Error("could not publish user.created event", slog.String("email", u.Email), slog.String("error", err.Error()))
		}
	}

	u.Password = Password{}

	return &u, nil
}

// VerifyCredentials returns the public user record when email and password
// match. Unknown email and wrong password are indistinguishable to the
// caller; an unknown email still burns one hash comparison so the two cases
// take similar time.
func (s *UserService) VerifyCredentials(ctx context.Context, email, password string) (*User, error) {
	email = normalizeEmail(email)

	v := common.NewValidator()
	validateEmail(v, email)
	validatePassword(v, password)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	user, err := s.m.getUserByEmail(ctx, email)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			dummyPassword.compare(password)
			return nil, ErrInvalidCredentials
		default:
			return nil, common.StorageError(err)
		}
	}

	ok, err := user.Password.compare(password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	user.Password = Password{}

	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id int) (*User, error) {
	v := common.NewValidator()
	validateID(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	user, err := s.m.getUserByID(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return nil, err
		default:
			return nil, common.StorageError(err)
		}
	}

	return user, nil
}

// DeleteUser removes the account. It reports true only when a row was
// actually deleted.
func (s *UserService) DeleteUser(ctx context.Context, id int) (bool, error) {
	v := common.NewValidator()
	validateID(v, id, "id")
	if !v.Valid() {
		return false, v.ValidationError()
	}

	deleted, err := s.m.deleteUser(ctx, id)
	if err != nil {
		return false, common.StorageError(err)
	}

	return deleted, nil
}

// ClearAll wipes the user table. The HTTP surface gates this behind the
// admin secret; the service itself performs no authorization.
func (s *UserService) ClearAll(ctx context.Context) (bool, error) {
	cleared, err := s.m.clearUsers(ctx)
	if err != nil {
		return false, common.StorageError(err)
	}

	return cleared, nil
}

// dummyPassword is compared against when the email lookup misses.
var dummyPassword = func() Password {
	var p Password
	if err := p.set("speak-friend-and-enter"); err != nil {
		panic(err)
	}
	return p
}()
