package handlers

import (
	"gorm.io/gorm"

	"github.com/vitrina-dev/vitrina/internal/auth"
	"github.com/vitrina-dev/vitrina/internal/media"
)

// Handler carries the dependencies shared by every route.
type Handler struct {
	db      *gorm.DB
	tokens  *auth.TokenManager
	media   *media.Store
	cookies auth.CookieSettings
	admins  map[uint]bool
}

type Options struct {
	DB       *gorm.DB
	Tokens   *auth.TokenManager
	Media    *media.Store
	Cookies  auth.CookieSettings
	AdminIDs []uint
}

func New(opts Options) *Handler {
	admins := make(map[uint]bool, len(opts.AdminIDs))
	for _, id := range opts.AdminIDs {
		admins[id] = true
	}

	return &Handler{
		db:      opts.DB,
		tokens:  opts.Tokens,
		media:   opts.Media,
		cookies: opts.Cookies,
		admins:  admins,
	}
}

func (h *Handler) isAdmin(userID uint) bool {
	return h.admins[userID]
}
