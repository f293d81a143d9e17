package auth

import (
	"net/http"
	"time"
)

const CookieName = "access_token"

// CookieSettings controls the session cookie attributes.
type CookieSettings struct {
	Domain string
	Secure bool
	MaxAge time.Duration
}

func SetTokenCookie(w http.ResponseWriter, token string, settings CookieSettings) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Domain:   settings.Domain,
		MaxAge:   int(settings.MaxAge.Seconds()),
		Secure:   settings.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearTokenCookie(w http.ResponseWriter, settings CookieSettings) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Domain:   settings.Domain,
		MaxAge:   -1,
		Secure:   settings.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
