package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vitrina-dev/vitrina/internal/types"
)

func respond(ctx *gin.Context, msg string, data any) {
	ctx.JSON(http.StatusOK, types.Success(msg, data))
}

func respondMessage(ctx *gin.Context, msg string) {
	ctx.JSON(http.StatusOK, types.Message(msg))
}

// respondError writes err as an error envelope. Errors that are not an
// *types.APIError become a generic 500.
func respondError(ctx *gin.Context, err error) {
	var apiErr *types.APIError

	if !errors.As(err, &apiErr) {
		apiErr = types.Internal("", err)
	}

	if apiErr.Status >= http.StatusInternalServerError {
		slog.Error("request failed",
			"method", ctx.Request.Method,
			"path", ctx.Request.URL.Path,
			"error", err)
	}

	_ = ctx.Error(err)
	ctx.AbortWithStatusJSON(apiErr.Status, types.Failure(apiErr.Msg, apiErr.Fields))
}
