package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dubeyRahul26/flexcart/cache"
	"github.com/dubeyRahul26/flexcart/config"
	"github.com/dubeyRahul26/flexcart/controllers"
	"github.com/dubeyRahul26/flexcart/database"
	"github.com/dubeyRahul26/flexcart/middleware"
	"github.com/dubeyRahul26/flexcart/session"
	"github.com/dubeyRahul26/flexcart/store"
	"github.com/dubeyRahul26/flexcart/token"
	"github.com/dubeyRahul26/flexcart/utils"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := database.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	usersCol := client.Database(cfg.DatabaseName).Collection("users")
	users := store.NewMongoUserStore(usersCol)
	if err := users.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("mongodb index creation failed")
	}

	sessionCache, err := cache.NewRedis(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}

	codec := token.NewCodec(cfg.AccessTokenSecret, cfg.RefreshTokenSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	sessions := session.NewManager(codec, sessionCache)
	cookies := session.NewCookies(cfg.Production, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	if err := utils.SeedAdminUser(ctx, users, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatal().Err(err).Msg("admin seeding failed")
	}

	r := gin.New()

	allowedOrigins := map[string]bool{}
	for _, origin := range cfg.AllowedOrigins {
		allowedOrigins[origin] = true
	}
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return allowedOrigins[origin]
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RequestID())
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	auth := r.Group("/api/auth")
	{
		auth.POST("/signup", controllers.Signup(users, sessions, cookies))
		auth.POST("/login", controllers.Login(users, sessions, cookies))
		auth.POST("/logout", controllers.Logout(sessions, codec, cookies))
		auth.POST("/refresh-token", controllers.RefreshToken(sessions, cookies))

		protected := auth.Group("")
		protected.Use(middleware.Auth(users, codec))
		{
			protected.GET("/profile", controllers.GetProfile())
			protected.POST("/password", controllers.ChangeMyPassword(users))
		}
	}

	admin := r.Group("/api/admin")
	admin.Use(middleware.Auth(users, codec), middleware.RequireAdmin())
	{
		admin.POST("/users", controllers.CreateUser(users))
	}

	// Listens on PORT (default 8080)
	if err := r.Run(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
