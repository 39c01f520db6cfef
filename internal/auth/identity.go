package auth

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/dmwangi/membergate/internal/cache"
	"github.com/dmwangi/membergate/internal/domain/user"
	"github.com/dmwangi/membergate/internal/repo/postgres"
)

type PublicReader interface {
	GetPublicByID(ctx context.Context, id int64) (user.Public, error)
}

// Identity turns users into session tokens and back. The token is just the
// user id in decimal; the session store it lives in is server-side and
// trusted, so no signing is needed at this layer.
type Identity struct {
	users PublicReader
	cache *cache.Cache
}

func NewIdentity(users PublicReader) *Identity {
	return &Identity{
		users: users,
		cache: cache.New(5 * time.Second),
	}
}

// SerializeUser reduces a full user record to its session token. This is the
// boundary the password hash must never cross.
func SerializeUser(u user.User) string {
	return strconv.FormatInt(u.ID, 10)
}

// Deserialize resolves a token back to the hash-free user view. Three
// outcomes: (user, true, nil) on success; (zero, false, nil) when the token
// is malformed or the account is gone, which callers treat as anonymous;
// (zero, false, err) only for storage failures.
func (m *Identity) Deserialize(ctx context.Context, token string) (user.Public, bool, error) {
	id, err := strconv.ParseInt(token, 10, 64)

	if err != nil {
		// fail closed on garbage tokens
		return user.Public{}, false, nil
	}

	if v, ok := m.cache.Get(token); ok {
		if p, ok := v.(user.Public); ok {
			return p, true, nil
		}
	}

	p, err := m.users.GetPublicByID(ctx, id)

	if err != nil {
		if errors.Is(err, postgres.ErrUserNotFound) {
			m.cache.Delete(token)
			return user.Public{}, false, nil
		}

		return user.Public{}, false, err
	}

	m.cache.Set(token, p)

	return p, true, nil
}
