package api

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/nikhildixit-321/codeArena-sub000/internal/api/handlers"
	"github.com/nikhildixit-321/codeArena-sub000/internal/api/middleware"
	"github.com/nikhildixit-321/codeArena-sub000/internal/arena"
	"github.com/nikhildixit-321/codeArena-sub000/internal/config"
	"github.com/nikhildixit-321/codeArena-sub000/internal/repository"
	"github.com/nikhildixit-321/codeArena-sub000/internal/service"
	"github.com/nikhildixit-321/codeArena-sub000/internal/websocket"
	"github.com/nikhildixit-321/codeArena-sub000/pkg/database"
	"github.com/nikhildixit-321/codeArena-sub000/pkg/judge"
	jwtutil "github.com/nikhildixit-321/codeArena-sub000/pkg/jwt"
	"github.com/nikhildixit-321/codeArena-sub000/pkg/logger"
	"github.com/nikhildixit-321/codeArena-sub000/pkg/ratelimit"
)

// SetupRouter wires the full API: repositories, services, the arena and its
// websocket hub, and every HTTP route.
func SetupRouter(cfg *config.Config, db *database.DB, redisClient *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	matchRepo := repository.NewMatchRepository(db)

	// Services
	jwtManager := jwtutil.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	ratingStrategy := service.NewRatingStrategy(cfg.RatingStrategy)
	userService := service.NewUserService(userRepo, jwtManager)
	questionService := service.NewQuestionService(questionRepo)
	matchService := service.NewMatchService(matchRepo, userRepo, ratingStrategy)

	// Judge client
	judgeClient := judge.NewClient(cfg.JudgeURL, cfg.CaseTimeLimitMs)

	// Arena: the hub notifies players, the registry runs the matches.
	wsHub := websocket.NewHub()
	registry := arena.NewSessionRegistry(
		cfg.PairingThreshold,
		userRepo,
		matchRepo,
		questionRepo,
		judgeClient,
		wsHub,
		ratingStrategy,
	)
	wsHub.BindArena(registry)
	go wsHub.Run()
	logger.Info("WebSocket hub started")

	// Distributed rate limiter; falls back to per-instance buckets when
	// Redis is not configured.
	var redisLimiter *ratelimit.RedisLimiter
	if redisClient != nil {
		redisLimiter = ratelimit.NewRedisLimiter(redisClient, "ratelimit:")
	}
	authLimit := middleware.AuthRateLimit()
	if redisLimiter != nil {
		authLimit = middleware.RedisAuthRateLimit(redisLimiter)
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, jwtManager)
	userHandler := handlers.NewUserHandler(userService)
	questionHandler := handlers.NewQuestionHandler(questionService)
	matchHandler := handlers.NewMatchHandler(matchService)
	leaderboardHandler := handlers.NewLeaderboardHandler(userService)
	wsHandler := handlers.NewWebSocketHandler(wsHub, registry)

	// Health check
	router.GET("/health", handlers.HealthCheck)

	// API v1
	v1 := router.Group("/api/v1")
	v1.Use(middleware.GeneralAPIRateLimit())
	{
		// WebSocket endpoint
		v1.GET("/ws", middleware.Auth(jwtManager), wsHandler.HandleWebSocket)
		v1.GET("/arena/stats", wsHandler.ArenaStats)

		// Auth routes
		auth := v1.Group("/auth")
		auth.Use(authLimit)
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// Question routes
		questions := v1.Group("/questions")
		{
			questions.GET("", questionHandler.ListQuestions)
			questions.GET("/:id", questionHandler.GetQuestion)
		}

		// Match routes
		matches := v1.Group("/matches")
		{
			matches.GET("", matchHandler.ListActiveMatches)
			matches.GET("/my", middleware.Auth(jwtManager), matchHandler.GetMyHistory)
			matches.GET("/:id", matchHandler.GetMatch)

			result := matches.Group("/result")
			result.Use(middleware.Auth(jwtManager))
			if redisLimiter != nil {
				result.Use(middleware.RedisResultRateLimit(redisLimiter))
			}
			result.POST("", matchHandler.RecordResult)
		}

		// Leaderboard
		v1.GET("/leaderboard", leaderboardHandler.GetLeaderboard)

		// User routes
		v1.GET("/users/:id", userHandler.GetUser)
		users := v1.Group("/users")
		users.Use(middleware.Auth(jwtManager))
		{
			users.GET("/me", userHandler.GetCurrentUser)
			users.PUT("/me", userHandler.UpdateCurrentUser)
		}
	}

	return router
}
