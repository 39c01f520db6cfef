package middlewares

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dmwangi/membergate/internal/domain/user"
	"github.com/dmwangi/membergate/internal/session"
	"github.com/gin-gonic/gin"
)

// Keep this small interface so tests can fake it easily.
type IdentityResolver interface {
	Deserialize(ctx context.Context, token string) (user.Public, bool, error)
}

// Gate decides per request whether the caller is authenticated. The check is
// read-only: it never creates, touches or saves sessions.
type Gate struct {
	identity IdentityResolver
	log      *slog.Logger
}

func NewGate(identity IdentityResolver, log *slog.Logger) *Gate {
	return &Gate{identity: identity, log: log}
}

const ctxUserKey = "auth.user"

// RequirePage admits authenticated browsers and redirects everyone else to
// the login page. Storage failures during identity resolution fail closed to
// anonymous; the detail goes to the log, never the client.
func (g *Gate) RequirePage() gin.HandlerFunc {
	return func(c *gin.Context) {
		_, rec, ok := session.FromContext(c)

		if ok && !rec.Anonymous() {
			p, found, err := g.identity.Deserialize(c.Request.Context(), rec.Token)

			if err != nil {
				g.log.Error("identity resolution failed", "err", err)
			} else if found {
				c.Set(ctxUserKey, p)
				c.Next()
				return
			}
		}

		c.Redirect(http.StatusFound, "/login")
		c.Abort()
	}
}

// UserFromContext returns the identity stashed by RequirePage.
func UserFromContext(c *gin.Context) (user.Public, bool) {
	v, ok := c.Get(ctxUserKey)

	if !ok {
		return user.Public{}, false
	}

	p, ok := v.(user.Public)

	return p, ok
}
