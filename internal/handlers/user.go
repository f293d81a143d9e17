package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"gorm.io/gorm"

	"github.com/vitrina-dev/vitrina/internal/auth"
	"github.com/vitrina-dev/vitrina/internal/models"
	"github.com/vitrina-dev/vitrina/internal/types"
	"github.com/vitrina-dev/vitrina/internal/utils"
)

type Profile struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// UpdateUserRequest is a partial update; empty fields are left untouched.
type UpdateUserRequest struct {
	Email           string `form:"email" binding:"omitempty,email"`
	Username        string `form:"username" binding:"omitempty,min=3,max=30"`
	Password        string `form:"password" binding:"omitempty,min=6,max=30"`
	ConfirmPassword string `form:"confirm_password" binding:"omitempty,min=6,max=30"`
}

func (h *Handler) Me(ctx *gin.Context) {
	user, err := utils.RequireUser(ctx)

	if err != nil {
		respondError(ctx, err)
		return
	}

	respond(ctx, msgProfile, Profile{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	})
}

func (h *Handler) UpdateUser(ctx *gin.Context) {
	user, err := utils.RequireUser(ctx)

	if err != nil {
		respondError(ctx, err)
		return
	}

	var req UpdateUserRequest

	if err := bind(ctx, &req, binding.Form); err != nil {
		respondError(ctx, err)
		return
	}

	req.Email = normalizeEmail(req.Email)
	req.Username = strings.TrimSpace(req.Username)

	if req.Email == "" && req.Username == "" && req.Password == "" && req.ConfirmPassword == "" {
		respondError(ctx, types.BadRequest(msgProfileNoChanges))
		return
	}

	if err := checkPasswordChange(req.Password, req.ConfirmPassword); err != nil {
		respondError(ctx, err)
		return
	}

	database := h.db.WithContext(ctx.Request.Context())
	updates := make(map[string]any)

	if req.Email != "" && req.Email != user.Email {
		if err := ensureFree(database, "email", req.Email, user.ID, msgEmailTaken); err != nil {
			respondError(ctx, err)
			return
		}
		updates["email"] = req.Email
	}

	if req.Username != "" && req.Username != user.Username {
		if err := ensureFree(database, "username", req.Username, user.ID, msgUsernameTaken); err != nil {
			respondError(ctx, err)
			return
		}
		updates["username"] = req.Username
	}

	if req.Password != "" {
		passwordHash, err := auth.HashPassword(req.Password)

		if err != nil {
			respondError(ctx, err)
			return
		}
		updates["hashed_password"] = passwordHash
	}

	if len(updates) > 0 {
		if err := database.Model(user).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				respondError(ctx, types.Conflict(msgUserExists))
				return
			}
			respondError(ctx, err)
			return
		}

		if email, ok := updates["email"].(string); ok {
			user.Email = email
		}
		if username, ok := updates["username"].(string); ok {
			user.Username = username
		}
	}

	auth.ClearTokenCookie(ctx.Writer, h.cookies)

	h.respondWithToken(ctx, user, msgProfileUpdated)
}

func checkPasswordChange(password, confirm string) error {
	switch {
	case password == "" && confirm == "":
		return nil
	case password == "":
		return types.BadRequest(msgPasswordRequired)
	case confirm == "":
		return types.BadRequest(msgConfirmRequired)
	case password != confirm:
		return types.BadRequest(msgPasswordMismatch)
	default:
		return nil
	}
}

// ensureFree reports a Conflict when another user already holds value in
// column.
func ensureFree(database *gorm.DB, column, value string, selfID uint, msg string) error {
	var count int64

	err := database.Model(&models.User{}).
		Where(column+" = ? AND id <> ?", value, selfID).
		Count(&count).Error

	if err != nil {
		return err
	}

	if count > 0 {
		return types.Conflict(msg)
	}

	return nil
}
