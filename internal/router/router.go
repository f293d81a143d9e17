package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vitrina-dev/vitrina/internal/auth"
	"github.com/vitrina-dev/vitrina/internal/config"
	"github.com/vitrina-dev/vitrina/internal/handlers"
	"github.com/vitrina-dev/vitrina/internal/logger"
	"github.com/vitrina-dev/vitrina/internal/media"
	"github.com/vitrina-dev/vitrina/internal/middleware"
	"github.com/vitrina-dev/vitrina/internal/types"
)

func NewRouter(cfg *config.Config, database *gorm.DB, tokens *auth.TokenManager, store *media.Store) *gin.Engine {
	handlers.SetupValidation()

	r := gin.New()
	r.MaxMultipartMemory = cfg.Media.MaxUploadBytes

	r.Use(gin.Recovery(), logger.Middleware())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Static(cfg.Media.URLPrefix, store.Root())

	h := handlers.New(handlers.Options{
		DB:     database,
		Tokens: tokens,
		Media:  store,
		Cookies: auth.CookieSettings{
			Domain: cfg.Server.CookieDomain,
			Secure: cfg.Server.CookieSecure,
			MaxAge: tokens.TTL(),
		},
		AdminIDs: cfg.Auth.AdminIDs,
	})

	api := r.Group("/api", middleware.CurrentUser(database, tokens))
	{
		api.GET("/health", h.HealthCheck)

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", h.Register)
			authGroup.POST("/login", h.Login)
			authGroup.POST("/logout", h.Logout)
		}

		products := api.Group("/products")
		{
			products.GET("", h.ListProducts)
			products.POST("", limitBody(cfg.Media.MaxUploadBytes), h.CreateProduct)
			products.GET("/:product_id", h.GetProduct)
			products.DELETE("/:product_id", h.DeleteProduct)
		}

		cart := api.Group("/cart")
		{
			cart.POST("", h.AddToCart)
			cart.GET("", h.GetCart)
			cart.DELETE("/:product_id", h.RemoveFromCart)
		}

		ratings := api.Group("/ratings")
		{
			ratings.POST("/:product_id", h.RateProduct)
			ratings.GET("/:product_id", h.GetProductRatings)
			ratings.GET("/:product_id/user/:user_id", h.GetUserProductRating)
			ratings.GET("/user/:user_id", h.GetUserRatings)
		}

		user := api.Group("/user")
		{
			user.GET("/me", h.Me)
			user.PUT("/update", h.UpdateUser)
		}
	}

	return r
}

// limitBody caps the request body so an oversized upload fails while it is
// being parsed instead of filling the disk. A declared length over the cap
// is refused before reading.
func limitBody(limit int64) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.Request.ContentLength > limit {
			apiErr := types.TooLarge()
			ctx.AbortWithStatusJSON(apiErr.Status, types.Failure(apiErr.Msg, nil))
			return
		}

		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, limit)
		ctx.Next()
	}
}
