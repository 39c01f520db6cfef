package postgres

import (
	"context"
	"errors"

	"github.com/dmwangi/membergate/internal/domain/user"
	"github.com/dmwangi/membergate/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already in use")
)

type UsersRepo struct {
	pool    *pgxpool.Pool
	metrics *observability.Prom // may be nil
}

func NewUsersRepo(pool *pgxpool.Pool, metrics *observability.Prom) *UsersRepo {
	return &UsersRepo{pool: pool, metrics: metrics}
}

// observe wraps the raw query so the metrics layer sees unmapped pg errors.
func (r *UsersRepo) observe(op string, fn func() error) error {
	if r.metrics == nil {
		return fn()
	}

	return r.metrics.ObserveDB(op, fn)
}

// GetByEmail fetches the full row, hash included, for the auth strategy.
// The compare is case-sensitive on purpose.
func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User

	err := r.observe("users.get_by_email", func() error {
		return r.pool.QueryRow(
			ctx,
			`SELECT id, name, email, password_hash, created_at
	         FROM users
	         WHERE email = $1`,
			email,
		).Scan(
			&u.ID,
			&u.Name,
			&u.Email,
			&u.PasswordHash,
			&u.CreatedAt,
		)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, ErrUserNotFound
		}

		return user.User{}, err
	}

	return u, nil
}

// GetPublicByID resolves a serialized identity token back to a user. The
// query never selects the hash, so nothing past this point can leak it.
func (r *UsersRepo) GetPublicByID(ctx context.Context, id int64) (user.Public, error) {
	var p user.Public

	err := r.observe("users.get_public_by_id", func() error {
		return r.pool.QueryRow(
			ctx,
			`SELECT id, name, email
	         FROM users
	         WHERE id = $1`,
			id,
		).Scan(
			&p.ID,
			&p.Name,
			&p.Email,
		)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.Public{}, ErrUserNotFound
		}

		return user.Public{}, err
	}

	return p, nil
}

// Create inserts a new user. The prior existence check gives friendlier
// conflicts, but the unique index on email is the real arbiter: two racing
// signups both pass the check and the second insert still fails with 23505.
func (r *UsersRepo) Create(ctx context.Context, name, email, passwordHash string) (user.User, error) {
	_, err := r.GetByEmail(ctx, email)

	if err == nil {
		return user.User{}, ErrEmailTaken
	}

	if !errors.Is(err, ErrUserNotFound) {
		return user.User{}, err
	}

	var u user.User

	err = r.observe("users.create", func() error {
		return r.pool.QueryRow(
			ctx,
			`INSERT INTO users (name, email, password_hash)
	         VALUES ($1, $2, $3)
	         RETURNING id, name, email, password_hash, created_at`,
			name, email, passwordHash,
		).Scan(
			&u.ID,
			&u.Name,
			&u.Email,
			&u.PasswordHash,
			&u.CreatedAt,
		)
	})

	if err != nil {
		var pgErr *pgconn.PgError

		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return user.User{}, ErrEmailTaken
		}

		return user.User{}, err
	}

	return u, nil
}
