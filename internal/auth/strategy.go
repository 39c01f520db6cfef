package auth

import (
	"context"
	"errors"

	"github.com/dmwangi/membergate/internal/domain/user"
	"github.com/dmwangi/membergate/internal/repo/postgres"
	"github.com/dmwangi/membergate/internal/security"
)

// Keep this small interface so tests can fake it easily.
type UserReader interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
}

// Strategy resolves a username/password pair to a user record or a typed
// Failure. The username is the email.
type Strategy struct {
	users UserReader
}

func NewStrategy(users UserReader) *Strategy {
	return &Strategy{users: users}
}

// Authenticate checks credentials in two steps: lookup, then hash compare.
// Unknown user and wrong password stay distinguishable so the handler can
// echo the right message; storage errors come back as a system Failure so
// the handler can answer 500 instead of 401.
func (s *Strategy) Authenticate(ctx context.Context, username, password string) (user.User, error) {
	u, err := s.users.GetByEmail(ctx, username)

	if err != nil {
		if errors.Is(err, postgres.ErrUserNotFound) {
			return user.User{}, ErrUnknownUser
		}

		return user.User{}, systemFailure(err)
	}

	if !security.VerifyPassword(password, u.PasswordHash) {
		return user.User{}, ErrWrongPassword
	}

	return u, nil
}
