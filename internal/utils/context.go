package utils

import (
	"github.com/gin-gonic/gin"

	"github.com/vitrina-dev/vitrina/internal/models"
	"github.com/vitrina-dev/vitrina/internal/types"
)

// GetCurrentUser returns the user resolved by middleware.CurrentUser, or
// nil for an anonymous request.
func GetCurrentUser(ctx *gin.Context) *models.User {
	value, exists := ctx.Get(types.ContextUserKey)

	if !exists {
		return nil
	}

	user, ok := value.(*models.User)

	if !ok {
		return nil
	}

	return user
}

// RequireUser is GetCurrentUser for operations that need a session.
func RequireUser(ctx *gin.Context) (*models.User, error) {
	user := GetCurrentUser(ctx)

	if user == nil {
		return nil, types.Unauthenticated()
	}

	return user, nil
}
