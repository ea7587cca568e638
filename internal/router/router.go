package router

import (
	"goddit/internal/auth"
	"goddit/internal/config"
	"goddit/internal/handlers"
	"goddit/internal/middleware"
	"goddit/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Setup builds the engine with all middleware and routes. main and the
// handler tests share it so the wiring under test is the real one.
func Setup(cfg *config.Config, tokens *auth.TokenService, uploads *services.UploadService) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
	}))
	r.Use(middleware.LoadUser(tokens))

	// Uploaded sub images/banners
	r.Static("/images", cfg.UploadDir)

	authHandler := handlers.NewAuthHandler(tokens)
	postHandler := handlers.NewPostHandler()
	subHandler := handlers.NewSubHandler(uploads, cfg.SiteURL)
	userHandler := handlers.NewUserHandler()
	voteHandler := handlers.NewVoteHandler()

	// Credential endpoints get an extra brake against brute force
	limiter := middleware.NewIPRateLimiter(rate.Limit(1), 10)

	api := r.Group("/api")
	{
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", middleware.RateLimit(limiter), authHandler.Register)
			authRoutes.POST("/login", middleware.RateLimit(limiter), authHandler.Login)
			authRoutes.POST("/logout", middleware.AuthRequired(), authHandler.Logout)
			authRoutes.GET("/me", middleware.AuthRequired(), authHandler.Me)
		}

		posts := api.Group("/posts")
		{
			posts.GET("", postHandler.List)
			posts.POST("", middleware.AuthRequired(), postHandler.Create)
			posts.GET("/:identifier/:slug", postHandler.Get)
			posts.GET("/:identifier/:slug/comments", postHandler.GetComments)
			posts.POST("/:identifier/:slug/comments", middleware.AuthRequired(), postHandler.CreateComment)
		}

		subs := api.Group("/subs")
		{
			subs.POST("", middleware.AuthRequired(), subHandler.Create)
			subs.GET("/sub/topSubs", subHandler.TopSubs)
			subs.GET("/:name", subHandler.Get)
			subs.POST("/:name/upload", middleware.AuthRequired(), subHandler.Upload)
		}

		api.GET("/users/:username", userHandler.GetUser)
		api.POST("/votes", middleware.AuthRequired(), voteHandler.Vote)
	}

	return r
}
