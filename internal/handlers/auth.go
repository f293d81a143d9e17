package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"gorm.io/gorm"

	"github.com/vitrina-dev/vitrina/internal/auth"
	"github.com/vitrina-dev/vitrina/internal/models"
	"github.com/vitrina-dev/vitrina/internal/types"
	"github.com/vitrina-dev/vitrina/internal/utils"
)

type LoginRequest struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required,min=6,max=30"`
}

type RegisterRequest struct {
	Email           string `form:"email" binding:"required,email"`
	Password        string `form:"password" binding:"required,min=6,max=30"`
	Username        string `form:"username" binding:"required,min=3,max=30"`
	ConfirmPassword string `form:"confirm_password" binding:"required,min=6,max=30"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (h *Handler) Register(ctx *gin.Context) {
	var req RegisterRequest

	if err := bindStrict(ctx, &req, binding.Form, "email", "password", "username", "confirm_password"); err != nil {
		respondError(ctx, err)
		return
	}

	if utils.GetCurrentUser(ctx) != nil {
		respondError(ctx, types.AlreadyAuthenticated())
		return
	}

	if req.Password != req.ConfirmPassword {
		respondError(ctx, types.Unprocessable(msgPasswordMismatch))
		return
	}

	req.Email = normalizeEmail(req.Email)
	req.Username = strings.TrimSpace(req.Username)

	database := h.db.WithContext(ctx.Request.Context())

	var existing models.User

	err := database.Where("username = ? OR email = ?", req.Username, req.Email).First(&existing).Error

	if err == nil {
		respondError(ctx, types.Conflict(msgUserExists))
		return
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(ctx, err)
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)

	if err != nil {
		respondError(ctx, err)
		return
	}

	user := models.User{
		Username:       req.Username,
		Email:          req.Email,
		HashedPassword: passwordHash,
	}

	if err := database.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			respondError(ctx, types.Conflict(msgUserExists))
			return
		}
		respondError(ctx, err)
		return
	}

	h.respondWithToken(ctx, &user, msgRegistered)
}

func (h *Handler) Login(ctx *gin.Context) {
	var req LoginRequest

	if err := bindStrict(ctx, &req, binding.Form, "email", "password"); err != nil {
		respondError(ctx, err)
		return
	}

	if utils.GetCurrentUser(ctx) != nil {
		respondError(ctx, types.AlreadyAuthenticated())
		return
	}

	var user models.User

	err := h.db.WithContext(ctx.Request.Context()).
		Where("email = ?", normalizeEmail(req.Email)).
		First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(ctx, types.LoginMismatch())
			return
		}
		respondError(ctx, err)
		return
	}

	if !auth.CheckPassword(user.HashedPassword, req.Password) {
		respondError(ctx, types.LoginMismatch())
		return
	}

	h.respondWithToken(ctx, &user, msgLoggedIn)
}

func (h *Handler) Logout(ctx *gin.Context) {
	if _, err := utils.RequireUser(ctx); err != nil {
		respondError(ctx, err)
		return
	}

	auth.ClearTokenCookie(ctx.Writer, h.cookies)

	respondMessage(ctx, msgLoggedOut)
}

// respondWithToken issues a token for user, stores it in the session
// cookie and returns it in the body.
func (h *Handler) respondWithToken(ctx *gin.Context, user *models.User, msg string) {
	token, err := h.tokens.Issue(auth.Identity{ID: user.ID, Username: user.Username})

	if err != nil {
		respondError(ctx, types.Internal("", err))
		return
	}

	auth.SetTokenCookie(ctx.Writer, token, h.cookies)

	respond(ctx, msg, types.TokenData{AccessToken: token})
}
