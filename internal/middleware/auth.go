package middleware

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vitrina-dev/vitrina/internal/auth"
	"github.com/vitrina-dev/vitrina/internal/models"
	"github.com/vitrina-dev/vitrina/internal/types"
)

// CurrentUser resolves the access_token cookie into the live user row and
// stores it on the context. It never aborts: a missing, invalid or stale
// token leaves the request anonymous and handlers decide what that means.
func CurrentUser(database *gorm.DB, tokens *auth.TokenManager) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString, err := ctx.Cookie(auth.CookieName)

		if err != nil || tokenString == "" {
			ctx.Next()
			return
		}

		identity, ok := tokens.Verify(tokenString)

		if !ok {
			ctx.Next()
			return
		}

		var user models.User

		err = database.WithContext(ctx.Request.Context()).First(&user, identity.ID).Error

		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				slog.Warn("failed to resolve current user", "user_id", identity.ID, "error", err)
			}
			ctx.Next()
			return
		}

		ctx.Set(types.ContextUserKey, &user)
		ctx.Set(types.ContextUserIDKey, user.ID)
		ctx.Next()
	}
}
