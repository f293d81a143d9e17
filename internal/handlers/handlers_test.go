package handlers_test

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vitrina-dev/vitrina/db"
	"github.com/vitrina-dev/vitrina/internal/auth"
	"github.com/vitrina-dev/vitrina/internal/config"
	"github.com/vitrina-dev/vitrina/internal/media"
	"github.com/vitrina-dev/vitrina/internal/models"
	"github.com/vitrina-dev/vitrina/internal/router"
)

const testSecret = "test-secret-that-is-at-least-32-characters"

type testApp struct {
	router    *gin.Engine
	db        *gorm.DB
	tokens    *auth.TokenManager
	uploadDir string
}

// envelope mirrors types.Response with a raw payload for per-test decoding.
type envelope struct {
	Type   string          `json:"type"`
	Msg    string          `json:"msg"`
	Data   json.RawMessage `json:"data"`
	Fields []struct {
		Field string `json:"field"`
		Msg   string `json:"msg"`
	} `json:"fields"`
}

func newTestApp(t *testing.T, adminIDs ...uint) *testApp {
	t.Helper()
	return newTestAppWith(t, nil, adminIDs...)
}

// newTestAppWith lets a test adjust the config before the router is built.
func newTestAppWith(t *testing.T, configure func(*config.Config), adminIDs ...uint) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	database, err := db.ConnectDatabase(config.DatabaseConfig{
		Driver: "sqlite",
		URL:    filepath.Join(t.TempDir(), "shop.db") + "?_foreign_keys=on&_busy_timeout=5000",
	}, nil)
	require.NoError(t, err)
	require.NoError(t, db.MigrateDatabase(database))

	t.Cleanup(func() {
		if sqlDB, err := database.DB(); err == nil {
			sqlDB.Close()
		}
	})

	cfg := &config.Config{
		Server: config.ServerConfig{
			AllowedOrigins: []string{"http://localhost:5173"},
		},
		Auth: config.AuthConfig{
			JWTSecret: testSecret,
			TokenTTL:  time.Hour,
			AdminIDs:  adminIDs,
		},
		Media: config.MediaConfig{
			UploadDir:      filepath.Join(t.TempDir(), "uploads"),
			URLPrefix:      "/media",
			MaxUploadBytes: 10 << 20,
			Quality:        80,
		},
	}

	if configure != nil {
		configure(cfg)
	}

	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	require.NoError(t, err)

	store, err := media.NewStore(cfg.Media.UploadDir, cfg.Media.URLPrefix, cfg.Media.Quality)
	require.NoError(t, err)

	return &testApp{
		router:    router.NewRouter(cfg, database, tokens, store),
		db:        database,
		tokens:    tokens,
		uploadDir: cfg.Media.UploadDir,
	}
}

func (a *testApp) createUser(t *testing.T, username, email, password string) models.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	user := models.User{Username: username, Email: email, HashedPassword: hash}
	require.NoError(t, a.db.Create(&user).Error)

	return user
}

func (a *testApp) createProduct(t *testing.T, name string) models.Product {
	t.Helper()

	product := models.Product{
		Name:        name,
		Description: "A product used by the handler tests, long enough.",
		Price:       decimal.RequireFromString("19.99"),
		Media:       "media/" + strings.ReplaceAll(strings.ToLower(name), " ", "-") + ".jpg",
	}
	require.NoError(t, a.db.Create(&product).Error)

	return product
}

// cookieFor returns a session cookie for user as issued at login.
func (a *testApp) cookieFor(t *testing.T, user models.User) *http.Cookie {
	t.Helper()

	token, err := a.tokens.Issue(auth.Identity{ID: user.ID, Username: user.Username})
	require.NoError(t, err)

	return &http.Cookie{Name: auth.CookieName, Value: token}
}

// loseInsertRace makes the next insert into table collide with competing,
// which is written first on the same connection the way a concurrent
// request would commit it.
func (a *testApp) loseInsertRace(t *testing.T, table string, competing any) {
	t.Helper()

	name := "test:race_" + table
	fired := false

	err := a.db.Callback().Create().Before("gorm:create").Register(name, func(tx *gorm.DB) {
		if fired || tx.Statement.Table != table {
			return
		}
		fired = true

		if err := tx.Session(&gorm.Session{NewDB: true}).Create(competing).Error; err != nil {
			tx.AddError(err)
		}
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = a.db.Callback().Create().Remove(name)
	})
}

func (a *testApp) do(req *http.Request, cookie *http.Cookie) *httptest.ResponseRecorder {
	if cookie != nil {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	return w
}

func formRequest(method, target string, values url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func jsonRequest(method, target string, body any) *http.Request {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(method, target, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	return req
}

type upload struct {
	filename    string
	contentType string
	content     []byte
}

func multipartRequest(t *testing.T, target string, values map[string]string, file *upload) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	for key, value := range values {
		require.NoError(t, writer.WriteField(key, value))
	}

	if file != nil {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="media"; filename="`+file.filename+`"`)
		header.Set("Content-Type", file.contentType)

		part, err := writer.CreatePart(header)
		require.NoError(t, err)

		_, err = io.Copy(part, bytes.NewReader(file.content))
		require.NoError(t, err)
	}

	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return req
}

func pngImage(t *testing.T) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	img.Set(2, 2, color.NRGBA{G: 200, A: 255})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	return buf.Bytes()
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())

	return env
}

func decodeData(t *testing.T, env envelope, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, out), string(env.Data))
}

// sessionCookie returns the last access_token cookie set by the response,
// which is the one a browser keeps.
func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	var found *http.Cookie
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == auth.CookieName {
			found = cookie
		}
	}
	return found
}
