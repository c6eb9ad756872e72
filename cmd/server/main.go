package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/viper"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/graphlock/backend/docs"
	"github.com/graphlock/backend/internal/database"
	"github.com/graphlock/backend/internal/handlers"
	mW "github.com/graphlock/backend/internal/middleware"
	"github.com/graphlock/backend/internal/services"
)

// @title Graphical Password Authentication API
// @version 1.0
// @description Backend for graphical-password authentication with OTP second factor
// @host localhost:8080
// @BasePath /
// @schemes http https

func main() {
	// Initialize config
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()
	viper.SetEnvPrefix("")

	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.name", "DATABASE_NAME")
	viper.BindEnv("database.ssl_mode", "DATABASE_SSL_MODE")

	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")
	viper.BindEnv("redis.db", "REDIS_DB")

	viper.BindEnv("jwt.secret_key", "JWT_SECRET_KEY")
	viper.BindEnv("jwt.expiry_hours", "JWT_EXPIRY_HOURS")

	viper.BindEnv("argon2.time", "ARGON2_TIME")
	viper.BindEnv("argon2.memory", "ARGON2_MEMORY")
	viper.BindEnv("argon2.threads", "ARGON2_THREADS")
	viper.BindEnv("argon2.key_length", "ARGON2_KEY_LENGTH")
	viper.BindEnv("argon2.salt_length", "ARGON2_SALT_LENGTH")

	viper.BindEnv("sms.account_sid", "SMS_ACCOUNT_SID")
	viper.BindEnv("sms.auth_token", "SMS_AUTH_TOKEN")
	viper.BindEnv("sms.from_number", "SMS_FROM_NUMBER")

	viper.SetDefault("jwt.expiry_hours", 24)
	viper.SetDefault("argon2.time", 1)
	viper.SetDefault("argon2.memory", 64*1024)
	viper.SetDefault("argon2.threads", 4)
	viper.SetDefault("argon2.key_length", 32)
	viper.SetDefault("argon2.salt_length", 16)

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Config file not found, using defaults: %v", err)
	}

	// Initialize Swagger docs
	docs.SwaggerInfo.Title = "Graphical Password Authentication API"
	docs.SwaggerInfo.Description = "Backend for graphical-password authentication with OTP second factor"
	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.Host = "localhost:8080"
	docs.SwaggerInfo.BasePath = "/"
	docs.SwaggerInfo.Schemes = []string{"http", "https"}

	// Initialize services
	db := database.InitDatabase()
	defer database.CloseDB()

	redisClient := database.InitRedis()
	if redisClient != nil {
		defer redisClient.Close()
	}

	// The OTP ledger is the only shared mutable core state: redis when
	// available so multiple instances share it, in-process otherwise.
	var otpStore services.OtpStore
	if redisClient != nil {
		otpStore = services.NewRedisOtpStore(redisClient, "otp:")
	} else {
		otpStore = services.NewMemoryOtpStore()
	}

	smsSender := services.NewSmsSenderFromConfig()
	otpService := services.NewOtpService(otpStore, smsSender)
	imageService := services.NewImageService(db)
	activityService := services.NewActivityService(db)
	defer activityService.Close()

	authService := services.NewAuthService(db, otpService, imageService, activityService)
	fileService := services.NewFileService(db, activityService)
	dashboardHandler := handlers.NewDashboardHandler(fileService)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(mW.SecurityHeaders)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Access-Control-Allow-Origin"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	})

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"),
	))

	// Static file server for uploads and avatars
	r.Handle("/uploads/*", http.StripPrefix("/uploads/",
		mW.StaticFileServer("./uploads")))

	// Auth flow (public)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", authService.Signup)
		r.Post("/login", authService.Login)
		r.Post("/verify-otp-grid", authService.VerifyOtpGrid)
		r.Post("/change-password", authService.ChangePassword)
		r.Post("/upload-avatar", authService.UploadAvatar)
		r.Get("/user-phone/{identifier}", authService.GetUserPhone)
		r.Get("/user-image/{username}", authService.GetUserImage)
		r.Get("/image/{id}", authService.GetImage)
	})

	// Dashboard (auth required)
	r.Route("/dashboard", func(r chi.Router) {
		r.Use(mW.AuthMiddleware)

		r.Get("/profile", dashboardHandler.Profile)
		r.Get("/files", dashboardHandler.Files)
		r.Get("/files/{fileId}/qr", dashboardHandler.ShareQR)
		r.Get("/activity", dashboardHandler.Activity)
		r.Post("/upload", dashboardHandler.Upload)
		r.Delete("/delete", dashboardHandler.Delete)
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Start server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on :%s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server stopped")
}
