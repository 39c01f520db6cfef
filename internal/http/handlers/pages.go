package handlers

import (
	"net/http"

	"github.com/dmwangi/membergate/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

// PagesHandler renders the HTML views. The view layer only ever receives the
// authenticated flag and hash-free user fields.
type PagesHandler struct{}

func NewPagesHandler() *PagesHandler {
	return &PagesHandler{}
}

func (h *PagesHandler) Index(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "index.tmpl", gin.H{})
}

func (h *PagesHandler) LoginPage(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "login.tmpl", gin.H{})
}

func (h *PagesHandler) SignupPage(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "signup.tmpl", gin.H{})
}

// Home is only reachable through the gate; the user is always present here.
func (h *PagesHandler) Home(ctx *gin.Context) {
	u, _ := middlewares.UserFromContext(ctx)

	ctx.HTML(http.StatusOK, "home.tmpl", gin.H{
		"authenticated": true,
		"user":          u,
	})
}
