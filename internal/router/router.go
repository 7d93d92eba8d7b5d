package router

import (
	"github.com/TheBreeze12/lifehub-backend/internal/config"
	"github.com/TheBreeze12/lifehub-backend/internal/handler"
	"github.com/TheBreeze12/lifehub-backend/internal/middleware"
	"github.com/TheBreeze12/lifehub-backend/internal/pkg/jwt"
	"github.com/TheBreeze12/lifehub-backend/internal/pkg/session"
	"github.com/TheBreeze12/lifehub-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Dependencies holds all dependencies needed for router setup
type Dependencies struct {
	DB             *gorm.DB
	RedisClient    *redis.Client
	JWTManager     jwt.JWTManager
	SessionManager session.SessionManager
	RateLimiter    *middleware.RateLimiter

	// Services
	AuthService service.AuthService
	UserService service.UserService

	// Health-management handlers (spec.md §6)
	FoodHandler    *handler.FoodHandler
	TripHandler    *handler.TripHandler
	StatsHandler   *handler.StatsHandler
	AccountHandler *handler.AccountHandler
}

// SetupRouter configures and returns the Gin router with all routes and middleware
func SetupRouter(deps *Dependencies) *gin.Engine {
	// Set Gin mode based on configuration
	if config.GlobalConfig.App.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware stack (order matters!)
	// 1. Recovery - catch panics first
	router.Use(middleware.RecoveryMiddleware(nil))

	// 2. Logging - log all requests
	router.Use(middleware.LoggingMiddleware(nil))

	// 3. CORS - handle cross-origin requests
	corsConfig := middleware.DefaultCORSConfig()
	if config.GlobalConfig.App.Mode == "release" {
		// In production, specify allowed origins
		// corsConfig = middleware.ProductionCORSConfig([]string{"https://yourdomain.com"})
	}
	router.Use(middleware.CORSMiddleware(corsConfig))

	// 4. Security - input sanitization and security headers
	router.Use(middleware.SecurityMiddleware(nil))

	// Health check endpoint (no authentication required)
	healthHandler := handler.NewHealthHandler()
	router.GET("/health", healthHandler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		setupPublicRoutes(v1, deps)

		// Protected routes (authentication required)
		setupProtectedRoutes(v1, deps)
	}

	return router
}

// setupPublicRoutes configures public API routes (no authentication)
func setupPublicRoutes(rg *gin.RouterGroup, deps *Dependencies) {
	authHandler := handler.NewAuthHandler(deps.AuthService)

	auth := rg.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)
	}

	// Optional-auth food routes: recognition and allergen checks may run
	// for an anonymous caller (spec.md §4.9), but still resolve a user ID
	// when a valid token is presented so the call can be attributed.
	optionalAuth := rg.Group("")
	optionalAuth.Use(middleware.OptionalAuthMiddleware(deps.JWTManager, deps.SessionManager))
	{
		optionalAuth.POST("/food/recognize", deps.FoodHandler.RecognizeMenu)
		optionalAuth.POST("/food/allergen/check", deps.FoodHandler.CheckAllergen)
		optionalAuth.GET("/food/allergen/categories", deps.FoodHandler.ListAllergenCategories)
	}
}

// setupProtectedRoutes configures protected API routes (authentication required)
func setupProtectedRoutes(rg *gin.RouterGroup, deps *Dependencies) {
	// Create protected group with authentication and rate limiting
	protected := rg.Group("")
	protected.Use(middleware.AuthMiddleware(deps.JWTManager, deps.SessionManager))
	protected.Use(deps.RateLimiter.RateLimitMiddleware())

	// Initialize handlers
	authHandler := handler.NewAuthHandler(deps.AuthService)
	userHandler := handler.NewUserHandler(deps.UserService)

	// Auth routes (logout requires authentication)
	{
		protected.POST("/auth/logout", authHandler.Logout)
	}

	// User routes
	user := protected.Group("/user")
	{
		user.GET("/profile", userHandler.GetProfile)
		user.PUT("/profile", userHandler.UpdateProfile)
	}

	// Health-management food routes (spec.md §6)
	food := protected.Group("/food")
	{
		food.POST("/analyze", deps.FoodHandler.AnalyzeFood)
		food.GET("/recognition/latest", deps.FoodHandler.LatestRecognition)
		food.POST("/diet-records", deps.FoodHandler.RecordDiet)
		food.GET("/diet-records", deps.FoodHandler.ListDietRecords)
		food.GET("/diet-records/:id", deps.FoodHandler.GetDietRecord)
		food.GET("/recommend", deps.FoodHandler.RecommendFood)
	}

	mealComparisons := protected.Group("/meal-comparisons")
	{
		mealComparisons.POST("/before", deps.FoodHandler.CreateMealBefore)
		mealComparisons.POST("/:comparison_id/after", deps.FoodHandler.CompleteMealAfter)
		mealComparisons.PUT("/:comparison_id/adjust", deps.FoodHandler.AdjustMealComparison)
	}

	// Trip/exercise routes (spec.md §6)
	trip := protected.Group("/trip")
	{
		trip.POST("/generate", deps.TripHandler.GenerateTrip)
		trip.GET("/list", deps.TripHandler.ListTripPlans)
		trip.GET("/recent", deps.TripHandler.RecentTripPlans)
		trip.GET("/home", deps.TripHandler.HomeTripSummary)
		trip.GET("/:id", deps.TripHandler.GetTripPlan)
	}

	exercise := protected.Group("/exercise")
	{
		exercise.POST("/record", deps.TripHandler.RecordExercise)
		exercise.GET("/records", deps.TripHandler.ListExerciseRecords)
		exercise.GET("/record/:id", deps.TripHandler.GetExerciseRecord)
	}

	// Health-goal statistics routes (spec.md §4.12, §6)
	healthStats := protected.Group("/health-stats")
	{
		healthStats.GET("/calories/daily", deps.StatsHandler.DailyCalories)
		healthStats.GET("/calories/weekly", deps.StatsHandler.WeeklyCalories)
		healthStats.GET("/nutrients/daily", deps.StatsHandler.DailyNutrients)
		healthStats.GET("/goal-progress", deps.StatsHandler.GoalProgress)
		healthStats.GET("/exercise-frequency", deps.StatsHandler.ExerciseFrequency)
	}

	// Account preferences, AI-call-log visibility, and forget-me (spec.md §6)
	user.GET("/preferences", deps.AccountHandler.GetPreferences)
	user.PUT("/preferences", deps.AccountHandler.UpdatePreferences)
	user.GET("/ai-logs", deps.AccountHandler.ListAiLogs)
	user.GET("/ai-logs/stats", deps.AccountHandler.AiLogStats)
	user.DELETE("/data", deps.AccountHandler.DeleteAccountData)
}
