package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmwangi/membergate/internal/auth"
	"github.com/dmwangi/membergate/internal/config"
	"github.com/dmwangi/membergate/internal/domain/user"
	"github.com/dmwangi/membergate/internal/observability"
	"github.com/dmwangi/membergate/internal/repo/postgres"
	"github.com/dmwangi/membergate/internal/session"
	"github.com/gin-gonic/gin"
)

type UserWriter interface {
	Create(ctx context.Context, name, email, passwordHash string) (user.User, error)
}

type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (user.User, error)
}

type PasswordHasher func(plain string) (string, error)

type AuthHandler struct {
	users    UserWriter
	strategy Authenticator
	hash     PasswordHasher
	sessions *session.Store
	metrics  *observability.Prom // may be nil
	log      *slog.Logger
}

func NewAuthHandler(users UserWriter, strategy Authenticator, hash PasswordHasher, sessions *session.Store, metrics *observability.Prom, log *slog.Logger) *AuthHandler {
	return &AuthHandler{
		users:    users,
		strategy: strategy,
		hash:     hash,
		sessions: sessions,
		metrics:  metrics,
		log:      log,
	}
}

type SignUpRequest struct {
	Name     string `form:"person" binding:"required"`
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required"`
}

type LoginRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

func (h *AuthHandler) SignUp(ctx *gin.Context) {
	var req SignUpRequest

	if !BindForm(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	hashed, err := h.hash(req.Password)

	if err != nil {
		h.log.Error("password hash failed", "err", err)
		h.countAuth("signup", "error")
		RespondInternal(ctx)
		return
	}

	u, err := h.users.Create(cctx, req.Name, req.Email, hashed)

	if err != nil {
		if errors.Is(err, postgres.ErrEmailTaken) {
			h.countAuth("signup", "conflict")
			RespondConflict(ctx, "Email already in use.")
			return
		}

		h.log.Error("signup insert failed", "err", err)
		h.countAuth("signup", "error")
		RespondInternal(ctx)
		return
	}

	if err := h.establishLogin(ctx, u); err != nil {
		h.log.Error("signup session failed", "err", err)
		h.countAuth("signup", "error")
		RespondError(ctx, http.StatusInternalServerError, "Authentication failed. Please try again.")
		return
	}

	h.countAuth("signup", "ok")
	ctx.Redirect(http.StatusFound, "/home")
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindForm(ctx, &req) {
		return
	}

	// short timeout for the DB lookup
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	u, err := h.strategy.Authenticate(cctx, req.Username, req.Password)

	if err != nil {
		var failure *auth.Failure

		if errors.As(err, &failure) && failure.Credential() {
			h.countAuth("login", string(failure.Reason))
			RespondUnauthorized(ctx, failure.Message)
			return
		}

		h.log.Error("login failed", "err", err)
		h.countAuth("login", "error")
		RespondInternal(ctx)
		return
	}

	if err := h.establishLogin(ctx, u); err != nil {
		// credentials were fine; the session layer was not
		h.log.Error("login session failed", "err", err)
		h.countAuth("login", "error")
		RespondError(ctx, http.StatusInternalServerError, "Session error. Try again.")
		return
	}

	h.countAuth("login", "ok")
	ctx.Redirect(http.StatusFound, "/home")
}

func (h *AuthHandler) Logout(ctx *gin.Context) {
	if sid, _, ok := session.FromContext(ctx); ok {
		cctx, cancel := config.WithTimeout(2 * time.Second)
		defer cancel()

		if err := h.sessions.Destroy(cctx, sid); err != nil {
			h.log.Error("session destroy failed", "err", err)
		}
	}

	// expire the cookie either way
	ctx.SetCookie(session.CookieName, "", -1, "/", "", false, true)
	ctx.Redirect(http.StatusFound, "/")
}

// establishLogin serializes the identity into the caller's session. Only the
// user id crosses this boundary; the hash stays behind.
func (h *AuthHandler) establishLogin(ctx *gin.Context, u user.User) error {
	sid, _, ok := session.FromContext(ctx)

	if !ok {
		return errors.New("no session attached to request")
	}

	return h.sessions.SetIdentity(ctx.Request.Context(), sid, auth.SerializeUser(u))
}

func (h *AuthHandler) countAuth(op, result string) {
	if h.metrics != nil {
		h.metrics.AuthAttempts.WithLabelValues(op, result).Inc()
	}
}
