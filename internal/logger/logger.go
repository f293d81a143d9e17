// Package logger configures structured logging for the server, the HTTP
// layer and the ORM.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	gormlogger "gorm.io/gorm/logger"

	"github.com/vitrina-dev/vitrina/internal/types"
)

// ParseLevel maps a configured level name to a slog level. Unknown names
// fall back to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup builds a JSON logger writing to stdout and installs it as the
// process default.
func Setup(level string) *slog.Logger {
	return setup(os.Stdout, level)
}

func setup(w io.Writer, level string) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)})
	logger := slog.New(handler)

	slog.SetDefault(logger)

	return logger
}

// Middleware logs one line per request after the handler chain ran.
func Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		path := ctx.Request.URL.Path

		ctx.Next()

		status := ctx.Writer.Status()
		attrs := []any{
			"method", ctx.Request.Method,
			"path", path,
			"status", status,
			"latency", time.Since(start),
			"client_ip", ctx.ClientIP(),
		}

		if userID, ok := ctx.Get(types.ContextUserIDKey); ok {
			attrs = append(attrs, "user_id", userID)
		}

		if len(ctx.Errors) > 0 {
			attrs = append(attrs, "errors", ctx.Errors.String())
		}

		level := slog.LevelInfo
		if status >= 500 {
			level = slog.LevelError
		}

		slog.Log(ctx.Request.Context(), level, "request", attrs...)
	}
}

// Gorm routes ORM warnings and slow queries through slog. Missing rows are
// an expected outcome for lookups and are not logged.
func Gorm(level string) gormlogger.Interface {
	logLevel := gormlogger.Warn
	if ParseLevel(level) == slog.LevelDebug {
		logLevel = gormlogger.Info
	}

	return gormlogger.New(
		slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn),
		gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logLevel,
			IgnoreRecordNotFoundError: true,
		},
	)
}
