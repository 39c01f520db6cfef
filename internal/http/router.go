package http

import (
	"context"
	"log/slog"

	"github.com/dmwangi/membergate/internal/auth"
	"github.com/dmwangi/membergate/internal/config"
	"github.com/dmwangi/membergate/internal/domain/user"
	"github.com/dmwangi/membergate/internal/http/handlers"
	"github.com/dmwangi/membergate/internal/http/middlewares"
	"github.com/dmwangi/membergate/internal/observability"
	"github.com/dmwangi/membergate/internal/security"
	"github.com/dmwangi/membergate/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// UserStore is the credential store as the router needs it. Satisfied by the
// postgres repo in production and the memory repo in tests.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
	GetPublicByID(ctx context.Context, id int64) (user.Public, error)
	Create(ctx context.Context, name, email, passwordHash string) (user.User, error)
}

func NewRouter(
	log *slog.Logger,
	users UserStore,
	sessions *session.Store,
	metrics *observability.Prom,
	reg *prometheus.Registry,
	ready func(ctx context.Context) error,
	cfg config.Config,
) *gin.Engine {
	if cfg.Env != "dev" && cfg.Env != "test" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(otelgin.Middleware("membergate"))
	r.Use(RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.MaxBodyBytes(1 << 20))

	if metrics != nil {
		r.Use(metrics.GinHandleMiddleware())
	}

	r.Use(session.Middleware(sessions, log, cfg.Env == "prod"))

	// views + static assets

	r.SetHTMLTemplate(pageTemplates())
	r.StaticFS("/static", staticRoot())

	// wire up auth

	strategy := auth.NewStrategy(users)
	identity := auth.NewIdentity(users)
	gate := middlewares.NewGate(identity, log)

	authHandler := handlers.NewAuthHandler(users, strategy, security.HashPassword, sessions, metrics, log)
	pages := handlers.NewPagesHandler()
	health := handlers.NewHealthHandler(ready)

	// routes

	r.GET("/", pages.Index)
	r.GET("/login", pages.LoginPage)
	r.GET("/signup", pages.SignupPage)
	r.GET("/home", gate.RequirePage(), pages.Home)

	r.POST("/signup", authHandler.SignUp)
	r.POST("/login", authHandler.Login)
	r.POST("/logout", authHandler.Logout)

	r.GET("/healthz", health.Healthz)
	r.GET("/readyz", health.Readyz)

	if reg != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	}

	return r
}
