package main // Entry point package

import (
	"log"      // Logging library
	"net/http" // HTTP method names for the CORS policy

	"github.com/google/uuid"                 // request id generation
	"github.com/joho/godotenv"               // .env loading for local development
	"github.com/labstack/echo/v4"            // Echo web framework
	echomw "github.com/labstack/echo/v4/middleware" // Echo's built-in middleware

	"github.com/iliyamo/time-tracker/internal/config"     // Internal config loader
	"github.com/iliyamo/time-tracker/internal/database"   // MySQL pool
	"github.com/iliyamo/time-tracker/internal/handler"    // HTTP handlers
	"github.com/iliyamo/time-tracker/internal/middleware" // rate limiter
	"github.com/iliyamo/time-tracker/internal/queue"      // review event consumer
	"github.com/iliyamo/time-tracker/internal/repository" // DB repositories
	"github.com/iliyamo/time-tracker/internal/router"     // Internal router setup
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	entries := repository.NewTimeEntryRepo(db)

	e := echo.New()
	e.HideBanner = true

	// Request ids, security headers and CORS mirror the hardening the
	// public deployment runs behind.
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(echomw.Secure())
	corsCfg := config.LoadCORSConfig()
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOriginFunc:  func(origin string) (bool, error) { return corsCfg.OriginAllowed(origin), nil },
		AllowCredentials: true,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization, echo.HeaderOrigin, echo.HeaderAccept, "x-secret-key"},
		ExposeHeaders:    []string{echo.HeaderAuthorization, echo.HeaderXRequestID, echo.HeaderContentLength},
	}))

	// Redis-backed limiter over the credential endpoints only.  A nil
	// client degrades to a pass-through.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; auth rate limiting disabled")
	}
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users), limiter)
	router.RegisterTime(e, handler.NewTimeEntryHandler(entries), cfg.JWTSecret, users)

	// The review event consumer runs outside the request path and keeps
	// reconnecting on broker failures.
	go func() {
		if err := queue.StartReviewConsumer(); err != nil {
			log.Printf("review consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
