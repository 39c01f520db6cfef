package session

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
)

const (
	ctxSIDKey    = "session.id"
	ctxRecordKey = "session.record"
)

// Middleware attaches the caller's session to the request, creating one on
// first contact — every visitor gets a session record, even anonymous ones.
// Existing sessions are loaded, never rewritten here; only login and logout
// mutate them.
func Middleware(store *Store, log *slog.Logger, secure bool) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var (
			sid string
			rec Record
		)

		if raw, err := ctx.Cookie(CookieName); err == nil {
			if id, ok := store.VerifyCookie(raw); ok {
				r, err := store.Get(ctx.Request.Context(), id)

				switch {
				case err == nil:
					sid, rec = id, r
				case !errors.Is(err, ErrNotFound):
					log.Error("session load failed", "err", err)
				}
			}
		}

		if sid == "" {
			id, r, err := store.Create(ctx.Request.Context())

			if err != nil {
				// proceed without a session; login will surface the failure
				log.Error("session create failed", "err", err)
				ctx.Next()
				return
			}

			sid, rec = id, r
			ctx.SetCookie(CookieName, store.SignCookie(id), int(Lifetime.Seconds()), "/", "", secure, true)
		}

		ctx.Set(ctxSIDKey, sid)
		ctx.Set(ctxRecordKey, rec)

		ctx.Next()
	}
}

// FromContext returns the session attached by Middleware, if any.
func FromContext(ctx *gin.Context) (string, Record, bool) {
	v, ok := ctx.Get(ctxSIDKey)

	if !ok {
		return "", Record{}, false
	}

	sid, ok := v.(string)

	if !ok || sid == "" {
		return "", Record{}, false
	}

	r, ok := ctx.Get(ctxRecordKey)

	if !ok {
		return "", Record{}, false
	}

	rec, ok := r.(Record)

	if !ok {
		return "", Record{}, false
	}

	return sid, rec, true
}
