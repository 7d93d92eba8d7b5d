package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/TheBreeze12/lifehub-backend/docs"
	"github.com/TheBreeze12/lifehub-backend/internal/aiclient"
	"github.com/TheBreeze12/lifehub-backend/internal/analyzer"
	"github.com/TheBreeze12/lifehub-backend/internal/calllog"
	"github.com/TheBreeze12/lifehub-backend/internal/config"
	"github.com/TheBreeze12/lifehub-backend/internal/handler"
	"github.com/TheBreeze12/lifehub-backend/internal/knowledge"
	"github.com/TheBreeze12/lifehub-backend/internal/mealdiff"
	"github.com/TheBreeze12/lifehub-backend/internal/middleware"
	"github.com/TheBreeze12/lifehub-backend/internal/model"
	"github.com/TheBreeze12/lifehub-backend/internal/pkg/database"
	"github.com/TheBreeze12/lifehub-backend/internal/pkg/jwt"
	"github.com/TheBreeze12/lifehub-backend/internal/pkg/logger"
	"github.com/TheBreeze12/lifehub-backend/internal/pkg/redis"
	"github.com/TheBreeze12/lifehub-backend/internal/pkg/session"
	"github.com/TheBreeze12/lifehub-backend/internal/rag"
	"github.com/TheBreeze12/lifehub-backend/internal/recommend"
	"github.com/TheBreeze12/lifehub-backend/internal/repository"
	"github.com/TheBreeze12/lifehub-backend/internal/router"
	"github.com/TheBreeze12/lifehub-backend/internal/service"
	"github.com/TheBreeze12/lifehub-backend/internal/stats"
	customvalidator "github.com/TheBreeze12/lifehub-backend/internal/validator"
	"github.com/TheBreeze12/lifehub-backend/internal/vectorstore"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// @title AI Fitness Planning System API
// @version 1.0
// @description RESTful API for an AI-assisted health-management backend: food nutrition analysis, menu recognition, meal before/after comparison, exercise plans, and diet/exercise statistics. AI calls go through one server-configured vendor account (OpenAI, Wenxin, or Tongyi).
// @contact.name API Support
// @contact.email support@ai-fitness-planner.com
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize configuration
	if err := config.InitConfig(); err != nil {
		fmt.Printf("Failed to initialize config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.InitLogger(); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Logger.Sync()

	logger.Info("Starting AI Fitness Planner API",
		zap.String("version", config.GlobalConfig.App.Version),
		zap.String("mode", config.GlobalConfig.App.Mode),
	)

	// Register custom validators with Gin
	if err := registerCustomValidators(); err != nil {
		logger.Fatal("Failed to register custom validators", zap.Error(err))
	}
	logger.Info("Custom validators registered")

	// Initialize database
	if err := database.InitDatabase(); err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer database.Close()
	logger.Info("Database connection established")

	// Initialize Redis
	if err := redis.InitRedis(); err != nil {
		logger.Fatal("Failed to initialize Redis", zap.Error(err))
	}
	defer redis.Close()
	logger.Info("Redis connection established")

	// Setup dependencies
	deps, err := setupDependencies()
	if err != nil {
		logger.Fatal("Failed to setup dependencies", zap.Error(err))
	}

	// Initialize router with dependencies
	ginRouter := router.SetupRouter(deps)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", config.GlobalConfig.App.Port),
		Handler:      ginRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", zap.Int("port", config.GlobalConfig.App.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// setupDependencies initializes all dependencies for dependency injection
func setupDependencies() (*router.Dependencies, error) {
	db := database.GetDB()
	redisClient := redis.Rdb

	jwtManager := jwt.NewJWTManager(
		config.GlobalConfig.JWT.Secret,
		config.GlobalConfig.JWT.AccessTokenExpire,
		config.GlobalConfig.JWT.RefreshTokenExpire,
	)
	sessionManager := session.NewSessionManager(redisClient)

	// Initialize rate limiter
	rateLimitConfig := &middleware.RateLimitConfig{
		UserRequestsPerMinute: config.GlobalConfig.RateLimit.APICallsPerMinute,
		UserRequestsPerHour:   config.GlobalConfig.RateLimit.APICallsPerHour,
		IPRequestsPerMinute:   100,
		AIGenerationPerMinute: 2,
	}
	rateLimiter := middleware.NewRateLimiter(redisClient, rateLimitConfig)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager, sessionManager)
	userService := service.NewUserService(userRepo)

	// Health-management domain (spec.md §4): a single system-wide vendor
	// account drives every AI call.
	vendorClient, err := aiclient.GetVendorClient(config.GlobalConfig.AI.Provider)
	if err != nil {
		return nil, fmt.Errorf("failed to create AI vendor client: %w", err)
	}
	callLogRepo := calllog.NewRepository(db)
	callLogSink := calllog.NewSink(db)
	adapter := aiclient.NewAdapter(vendorClient, callLogSink)

	aiConfigFor := func(callType string) *aiclient.Config {
		modelID := config.GlobalConfig.AI.CallModels[callType]
		if modelID == "" {
			modelID = config.GlobalConfig.AI.VisionModel
		}
		return &aiclient.Config{
			APIEndpoint: config.GlobalConfig.AI.APIEndpoint,
			APIKey:      config.GlobalConfig.AI.APIKey,
			Model:       modelID,
			MaxTokens:   config.GlobalConfig.AI.MaxTokens,
			Temperature: config.GlobalConfig.AI.Temperature,
		}
	}

	store, err := vectorstore.New(config.GlobalConfig.VectorStore.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open vector store: %w", err)
	}

	nutritionKB := knowledge.NewKnowledgeBase(store, "nutrition", config.GlobalConfig.KnowledgeBase.NutritionSourcePath, knowledge.LoadNutritionSource)
	recipeKB := knowledge.NewKnowledgeBase(store, "recipe", config.GlobalConfig.KnowledgeBase.RecipeSourcePath, knowledge.LoadRecipeSource)
	metsKB := knowledge.NewKnowledgeBase(store, "mets", config.GlobalConfig.KnowledgeBase.MetsSourcePath, knowledge.LoadMetsSource)
	for name, kb := range map[string]*knowledge.KnowledgeBase{"nutrition": nutritionKB, "recipe": recipeKB, "mets": metsKB} {
		if err := kb.EnsureInitialized(); err != nil {
			logger.Warn("knowledge base build failed, continuing without it", zap.String("collection", name), zap.Error(err))
		}
	}

	ragBuilder := rag.NewNutritionContextBuilder(nutritionKB)

	dietRepo := repository.NewDietRecordRepository(db)
	menuRepo := repository.NewMenuRecognitionRepository(db)
	tripRepo := repository.NewTripRepository(db)
	exerciseRepo := repository.NewExerciseRecordRepository(db)
	comparisonRepo := repository.NewMealComparisonRepository(db)
	accountDeleter := repository.NewAccountDeleter(db)

	nutritionAnalyzer := analyzer.NewNutritionAnalyzer(adapter, aiConfigFor(model.CallTypeFoodAnalysis), ragBuilder)
	menuAnalyzer := analyzer.NewMenuAnalyzer(adapter, aiConfigFor(model.CallTypeMenuRecognition), nutritionAnalyzer)
	exerciseIntentGenerator := analyzer.NewExerciseIntentGenerator(adapter, aiConfigFor(model.CallTypeExerciseIntent))
	mealDiffEngine := mealdiff.NewEngine(adapter, aiConfigFor(model.CallTypeMealComparison), comparisonRepo)

	statsAggregator := stats.NewAggregator(dietRepo, tripRepo, exerciseRepo)
	foodScorer := recommend.NewScorer(dietRepo)

	foodHandler := handler.NewFoodHandler(
		nutritionAnalyzer,
		menuAnalyzer,
		mealDiffEngine,
		foodScorer,
		dietRepo,
		menuRepo,
		comparisonRepo,
		userRepo,
		config.GlobalConfig.Upload.Root,
	)
	tripHandler := handler.NewTripHandler(exerciseIntentGenerator, tripRepo, exerciseRepo, userRepo)
	statsHandler := handler.NewStatsHandler(statsAggregator, userRepo)
	accountHandler := handler.NewAccountHandler(userRepo, callLogRepo, accountDeleter)

	return &router.Dependencies{
		DB:             db,
		RedisClient:    redisClient,
		JWTManager:     jwtManager,
		SessionManager: sessionManager,
		RateLimiter:    rateLimiter,
		AuthService:    authService,
		UserService:    userService,
		FoodHandler:    foodHandler,
		TripHandler:    tripHandler,
		StatsHandler:   statsHandler,
		AccountHandler: accountHandler,
	}, nil
}

// registerCustomValidators registers custom validation functions with Gin's validator
func registerCustomValidators() error {
	// Get the validator instance from Gin's binding
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		// Register custom validators
		if err := v.RegisterValidation("password_strength", customvalidator.ValidatePasswordStrength); err != nil {
			return fmt.Errorf("failed to register password_strength validator: %w", err)
		}
		if err := v.RegisterValidation("email_format", customvalidator.ValidateEmailFormat); err != nil {
			return fmt.Errorf("failed to register email_format validator: %w", err)
		}
		if err := v.RegisterValidation("macro_ratio", customvalidator.ValidateMacroRatio); err != nil {
			return fmt.Errorf("failed to register macro_ratio validator: %w", err)
		}
		if err := v.RegisterValidation("future_date", customvalidator.ValidateNotFutureDate); err != nil {
			return fmt.Errorf("failed to register future_date validator: %w", err)
		}
	}
	return nil
}
