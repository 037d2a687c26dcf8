package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/esha04492/FitApp/cache"
	"github.com/esha04492/FitApp/db"
	"github.com/esha04492/FitApp/handlers"
	"github.com/esha04492/FitApp/middleware"
	"github.com/esha04492/FitApp/models"
	"github.com/esha04492/FitApp/services"
	"github.com/esha04492/FitApp/utils"
)

func main() {
	// Best-effort: a missing .env just means real env vars.
	_ = godotenv.Load()

	utils.InitLogger()
	defer utils.Logger.Sync()
	utils.InitMetrics()

	utils.Logger.Info("starting_application")

	db.Connect(utils.Logger)
	if err := db.DB.AutoMigrate(
		&models.Program{},
		&models.ProgramDay{},
		&models.DayExercise{},
		&models.UserState{},
		&models.ExerciseProgress{},
		&models.DayHistory{},
		&models.DayHistoryExercise{},
		&models.TelegramUser{},
	); err != nil {
		utils.Logger.Fatal("migration_failed", zap.Error(err))
	}

	db.SeedBuiltinProgram(utils.Logger, services.BuiltinProgramName, services.ProgramTotalDays)

	// Redis is optional: without it stats just skip the cache.
	if err := cache.InitRedis(utils.Logger); err != nil {
		utils.Logger.Warn("redis_unavailable_continuing", zap.Error(err))
	}
	defer cache.Close()

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(middleware.Recovery())
	r.Use(middleware.RequestLogger())
	// Resolver order is priority order. When an embedded platform supplies
	// identity (Telegram WebApp init data), its PlatformResolverFromEnv
	// goes first here, ahead of the header.
	r.Use(middleware.Identity(middleware.HeaderResolver{}, middleware.CookieResolver{}))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-User-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now(),
			"database":  "connected",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.POST("/programs", handlers.CreateProgram)
		api.POST("/programs/builtin", handlers.PickBuiltinProgram)

		api.GET("/day", handlers.GetDay)
		api.POST("/day/reps", handlers.UpdateReps)
		api.POST("/day/close", handlers.CloseDay)
		api.POST("/day/reset", handlers.ResetDay)
		api.POST("/exercises/edit", handlers.EditExercise)

		api.GET("/stats", handlers.GetStats)

		api.GET("/telegram/remind", handlers.Remind)
		api.POST("/telegram/webhook", handlers.TelegramWebhook)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		utils.Logger.Info("listening", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			utils.Logger.Fatal("server_failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	utils.Logger.Info("shutting_down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		utils.Logger.Error("shutdown_failed", zap.Error(err))
	}
}
