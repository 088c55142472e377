package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"rfp-portal/internal/auth"
	"rfp-portal/internal/config"
	"rfp-portal/internal/database"
	"rfp-portal/internal/handlers"
	"rfp-portal/internal/repository"
	"rfp-portal/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize JWT
	auth.InitJWT(cfg.App.JWTSecret)

	// Connect to database
	if err := database.Connect(cfg.GetDSN()); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.SeedAdmin(cfg.App.SeedAdminEmail, cfg.App.SeedAdminPass); err != nil {
		log.Fatalf("Failed to seed admin account: %v", err)
	}

	// Initialize repositories
	draftStore := repository.NewDraftStore(database.GetDB())
	submissionRepo := repository.NewSubmissionRepository(database.GetDB())

	// Initialize services
	authService := services.NewAuthService(database.GetDB())
	autosave := services.NewAutosaveScheduler(draftStore, cfg.Autosave.Debounce, cfg.Autosave.Display)
	wizardService := services.NewWizardService(draftStore, submissionRepo, autosave)
	reviewService := services.NewReviewService(submissionRepo)
	dashboardService := services.NewDashboardService(draftStore, submissionRepo)
	questionService := services.NewQuestionService(database.GetDB())

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	draftHandler := handlers.NewDraftHandler(draftStore)
	wizardHandler := handlers.NewWizardHandler(wizardService)
	submissionHandler := handlers.NewSubmissionHandler(submissionRepo, dashboardService)
	adminHandler := handlers.NewAdminHandler(submissionRepo, reviewService, dashboardService)
	questionHandler := handlers.NewQuestionHandler(questionService)

	// Set up Gin router
	router := gin.Default()

	// CORS middleware
	allowedOrigins := []string{
		"http://localhost:3000",
		"http://localhost:5173", // Vite dev server
		"http://127.0.0.1:3000",
		"http://127.0.0.1:5173",
	}
	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Authentication routes (public)
	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.POST("/admin/login", authHandler.AdminLogin)
	}

	// Vendor API routes (protected)
	api := router.Group("/api")
	api.Use(auth.AuthMiddleware())
	api.Use(auth.VendorMiddleware())
	{
		// Draft endpoints
		api.GET("/draft", draftHandler.Get)
		api.PUT("/draft", draftHandler.Save)
		api.DELETE("/draft", draftHandler.Delete)

		// Wizard endpoints
		wizard := api.Group("/wizard")
		{
			wizard.POST("/start", wizardHandler.Start)
			wizard.GET("", wizardHandler.State)
			wizard.PUT("/fields", wizardHandler.SetFields)
			wizard.POST("/advance", wizardHandler.Advance)
			wizard.POST("/retreat", wizardHandler.Retreat)
			wizard.POST("/save", wizardHandler.Save)
			wizard.POST("/submit", wizardHandler.Submit)
			wizard.DELETE("", wizardHandler.Discard)
		}

		// Submission endpoints
		api.GET("/submissions", submissionHandler.List)
		api.GET("/submissions/:id", submissionHandler.Get)
		api.GET("/dashboard", submissionHandler.Dashboard)

		// Q&A endpoints
		api.GET("/questions", questionHandler.ListMine)
		api.POST("/questions", questionHandler.Ask)
	}

	// Admin routes (protected + admin only)
	admin := router.Group("/api/admin")
	admin.Use(auth.AuthMiddleware())
	admin.Use(auth.AdminMiddleware())
	{
		admin.GET("/submissions", adminHandler.ListSubmissions)
		admin.GET("/submissions/:id", adminHandler.GetSubmission)
		admin.POST("/submissions/:id/action", adminHandler.ApplyAction)
		admin.GET("/dashboard", adminHandler.Dashboard)
		admin.GET("/questions", questionHandler.ListAll)
		admin.POST("/questions/:id/answer", questionHandler.Answer)
	}

	// Start server with graceful shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}
