package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrNotFound = errors.New("session not found")

const (
	// CookieName carries the signed session id in the browser.
	CookieName = "mg_session"

	// Lifetime is wall-clock from creation; it does not slide on activity.
	Lifetime = 7 * 24 * time.Hour

	keyPrefix = "sess:"
)

// Record is one browser session. Token is the serialized identity; empty
// means the visitor has not logged in yet.
type Record struct {
	Token     string    `json:"token,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (r Record) Anonymous() bool { return r.Token == "" }

// Store keeps session records server-side in redis, one per browser. The
// cookie only ever holds the signed session id, never any identity data.
type Store struct {
	rdb    *redis.Client
	secret []byte
}

func NewStore(rdb *redis.Client, secret string) *Store {
	return &Store{rdb: rdb, secret: []byte(secret)}
}

// Create mints a fresh anonymous session. Called on first contact for every
// visitor, logged in or not.
func (s *Store) Create(ctx context.Context) (string, Record, error) {
	buf := make([]byte, 32)

	if _, err := rand.Read(buf); err != nil {
		return "", Record{}, err
	}

	sid := base64.RawURLEncoding.EncodeToString(buf)

	now := time.Now().UTC()
	rec := Record{
		CreatedAt: now,
		ExpiresAt: now.Add(Lifetime),
	}

	if err := s.write(ctx, sid, rec); err != nil {
		return "", Record{}, err
	}

	return sid, rec, nil
}

func (s *Store) Get(ctx context.Context, sid string) (Record, error) {
	raw, err := s.rdb.Get(ctx, keyPrefix+sid).Bytes()

	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Record{}, ErrNotFound
		}

		return Record{}, err
	}

	var rec Record

	if err := json.Unmarshal(raw, &rec); err != nil {
		// corrupt blob: treat as missing rather than erroring the request
		return Record{}, ErrNotFound
	}

	return rec, nil
}

// SetIdentity marks the session authenticated. Expiry stays anchored to the
// session's creation time.
func (s *Store) SetIdentity(ctx context.Context, sid, token string) error {
	rec, err := s.Get(ctx, sid)

	if err != nil {
		return err
	}

	rec.Token = token

	return s.write(ctx, sid, rec)
}

// ClearIdentity reverts the session to anonymous without destroying it.
func (s *Store) ClearIdentity(ctx context.Context, sid string) error {
	rec, err := s.Get(ctx, sid)

	if err != nil {
		return err
	}

	rec.Token = ""

	return s.write(ctx, sid, rec)
}

// Destroy removes the record entirely. Idempotent.
func (s *Store) Destroy(ctx context.Context, sid string) error {
	return s.rdb.Del(ctx, keyPrefix+sid).Err()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *Store) write(ctx context.Context, sid string, rec Record) error {
	raw, err := json.Marshal(rec)

	if err != nil {
		return err
	}

	ttl := time.Until(rec.ExpiresAt)

	if ttl <= 0 {
		return s.Destroy(ctx, sid)
	}

	return s.rdb.Set(ctx, keyPrefix+sid, raw, ttl).Err()
}
