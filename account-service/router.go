package main

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"madajob-backend/account-service/handlers"
	"madajob-backend/account-service/middleware"
	"madajob-backend/account-service/services"
	"madajob-backend/docs"
	"madajob-backend/shared/config"
	"madajob-backend/shared/database"
	utils "madajob-backend/shared/utils/auth"
	"madajob-backend/shared/utils/cache"
)

// app is everything the router needs, built once at startup.
type app struct {
	cfg    *config.Config
	log    *zap.Logger
	store  database.Store
	gate   *services.Gate
	tokens *services.TokenService
	users  *services.UserService
}

func newApp(cfg *config.Config, log *zap.Logger, store database.Store, revoked *cache.RevocationCache) (*app, error) {
	codec, err := utils.NewTokenCodec(cfg.SecretKey, cfg.Algorithm)
	if err != nil {
		return nil, err
	}

	authenticator := services.NewAuthenticator(store)
	gate := services.NewGate(store, codec, revoked)
	tokens := services.NewTokenService(store, authenticator, gate, codec, revoked, services.TokenSettings{
		AccessTTL:  cfg.AccessTokenTTL(),
		RefreshTTL: cfg.RefreshTokenTTL(),
		TokenType:  cfg.TokenType,
	})

	return &app{
		cfg:    cfg,
		log:    log,
		store:  store,
		gate:   gate,
		tokens: tokens,
		users:  services.NewUserService(store, gate, tokens),
	}, nil
}

func (a *app) router() *gin.Engine {
	handlers.RegisterValidators()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(a.log))

	corsConfig := cors.DefaultConfig()
	if len(a.cfg.CORSAllowedOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = a.cfg.CORSAllowedOrigins
		corsConfig.AllowCredentials = true
	}
	corsConfig.AddAllowHeaders("Authorization", "X-Request-ID")
	router.Use(cors.New(corsConfig))

	router.Use(middleware.ClientCacheMiddleware(a.cfg.ClientCacheMaxAge))

	authHandler := handlers.NewAuthHandler(a.tokens)
	userHandler := handlers.NewUserHandler(a.users)

	requireUser := middleware.AuthMiddleware(a.gate)
	requireSuperuser := middleware.SuperuserMiddleware(a.gate)

	api := router.Group("/api/v1")

	// Auth endpoints
	auth := api.Group("/auth", middleware.NoStore())
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", requireUser, authHandler.Logout)

	// User endpoints
	api.POST("/users", requireUser, requireSuperuser, userHandler.CreateUser)
	api.GET("/users", requireUser, requireSuperuser, userHandler.GetUsers)
	api.GET("/users/me", requireUser, userHandler.GetMe)
	api.GET("/users/:id", requireUser, requireSuperuser, userHandler.GetUser)
	api.PATCH("/users/:id", requireUser, userHandler.PatchUser)
	api.DELETE("/users/:id", requireUser, userHandler.DeleteUser)
	api.DELETE("/users/db/:id", requireUser, userHandler.EraseUser)

	a.registerDocs(router, requireUser, requireSuperuser)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		if err := a.store.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "database": "unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "account"})
	})

	return router
}

// registerDocs serves the API docs openly in local, to superusers in staging and not at all
// in production.
func (a *app) registerDocs(router *gin.Engine, guards ...gin.HandlerFunc) {
	docs.SwaggerInfo.Title = a.cfg.AppName
	docs.SwaggerInfo.Description = a.cfg.AppDescription
	docs.SwaggerInfo.Version = a.cfg.AppVersion

	handler := ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/docs/doc.json"))
	switch a.cfg.Environment {
	case config.EnvironmentLocal:
		router.GET("/docs/*any", handler)
	case config.EnvironmentStaging:
		chain := append(append([]gin.HandlerFunc{}, guards...), handler)
		router.GET("/docs/*any", chain...)
	}
}
