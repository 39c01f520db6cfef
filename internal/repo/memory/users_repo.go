package memory

import (
	"context"
	"sync"
	"time"

	"github.com/dmwangi/membergate/internal/domain/user"
	"github.com/dmwangi/membergate/internal/repo/postgres"
)

// UsersRepo is an in-memory credential store used by handler and auth tests.
// It mirrors the postgres repo's contract, sentinel errors included.
type UsersRepo struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]user.User
}

func NewUsersRepo() *UsersRepo {
	return &UsersRepo{
		nextID: 1,
		byID:   make(map[int64]user.User),
	}
}

func (r *UsersRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.byID {
		if u.Email == email {
			return u, nil
		}
	}

	return user.User{}, postgres.ErrUserNotFound
}

func (r *UsersRepo) GetPublicByID(_ context.Context, id int64) (user.Public, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]

	if !ok {
		return user.Public{}, postgres.ErrUserNotFound
	}

	return u.Public(), nil
}

func (r *UsersRepo) Create(ctx context.Context, name, email, passwordHash string) (user.User, error) {
	if _, err := r.GetByEmail(ctx, email); err == nil {
		return user.User{}, postgres.ErrEmailTaken
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	u := user.User{
		ID:           r.nextID,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	r.nextID++
	r.byID[u.ID] = u

	return u, nil
}

// Delete exists so tests can simulate a user removed while a session still
// references its id.
func (r *UsersRepo) Delete(id int64) {
	r.mu.Lock()
	delete(r.byID, id)
	r.mu.Unlock()
}
