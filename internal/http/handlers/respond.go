package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error bodies are `{"error": "<message>"}` across the board. 4xx messages
// are user-facing; 5xx always carries genericInternalMsg and the real cause
// stays in the logs.

const genericInternalMsg = "Oops! Something went wrong. Please try again later."

func RespondError(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, gin.H{"error": message})
}

func RespondUnauthorized(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusUnauthorized, message)
}

func RespondConflict(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusConflict, message)
}

func RespondInternal(ctx *gin.Context) {
	RespondError(ctx, http.StatusInternalServerError, genericInternalMsg)
}
