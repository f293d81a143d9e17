package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestTokenManager(t *testing.T) {
	manager, err := NewTokenManager(testSecret, time.Hour)
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		token, err := manager.Issue(Identity{ID: 42, Username: "buyer"})
		require.NoError(t, err)

		identity, ok := manager.Verify(token)
		assert.True(t, ok)
		assert.Equal(t, Identity{ID: 42, Username: "buyer"}, identity)
	})

	t.Run("garbage is anonymous", func(t *testing.T) {
		for _, token := range []string{"", "abc", "a.b.c"} {
			_, ok := manager.Verify(token)
			assert.False(t, ok, token)
		}
	})

	t.Run("tampered signature", func(t *testing.T) {
		token, err := manager.Issue(Identity{ID: 1, Username: "buyer"})
		require.NoError(t, err)

		// Flip a character inside the signature, away from the padding bits.
		raw := []byte(token)
		i := len(raw) - 10
		if raw[i] == 'A' {
			raw[i] = 'B'
		} else {
			raw[i] = 'A'
		}

		_, ok := manager.Verify(string(raw))
		assert.False(t, ok)
	})

	t.Run("other secret", func(t *testing.T) {
		other, err := NewTokenManager("fedcba9876543210fedcba9876543210", time.Hour)
		require.NoError(t, err)

		token, err := other.Issue(Identity{ID: 1, Username: "buyer"})
		require.NoError(t, err)

		_, ok := manager.Verify(token)
		assert.False(t, ok)
	})

	t.Run("expired", func(t *testing.T) {
		past, err := NewTokenManager(testSecret, time.Minute)
		require.NoError(t, err)
		past.now = func() time.Time { return time.Now().Add(-time.Hour) }

		token, err := past.Issue(Identity{ID: 1, Username: "buyer"})
		require.NoError(t, err)

		_, ok := manager.Verify(token)
		assert.False(t, ok)
	})

	t.Run("missing expiry", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"id": 1}).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, ok := manager.Verify(token)
		assert.False(t, ok)
	})

	t.Run("rejects none algorithm", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
			"id":  1,
			"exp": time.Now().Add(time.Hour).Unix(),
		}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, ok := manager.Verify(token)
		assert.False(t, ok)
	})
}

func TestNewTokenManager(t *testing.T) {
	_, err := NewTokenManager("", time.Hour)
	assert.Error(t, err)

	_, err = NewTokenManager(testSecret, 0)
	assert.Error(t, err)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, "secret1", hash)
	assert.True(t, CheckPassword(hash, "secret1"))
	assert.False(t, CheckPassword(hash, "secret2"))
}

func TestTokenCookie(t *testing.T) {
	settings := CookieSettings{MaxAge: time.Hour}

	recorder := httptest.NewRecorder()
	SetTokenCookie(recorder, "tok", settings)

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Equal(t, "tok", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
	assert.Equal(t, 3600, cookies[0].MaxAge)

	recorder = httptest.NewRecorder()
	ClearTokenCookie(recorder, settings)

	cookies = recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)
}
