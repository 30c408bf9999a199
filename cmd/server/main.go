package main // Entry point package

import (
	"context" // Contexts bound startup operations
	"log"     // Logging library
	"time"    // Timeouts for startup operations

	"github.com/joho/godotenv"    // Loads .env files in development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/restspot/restspot/internal/config"     // Internal config loader
	"github.com/restspot/restspot/internal/database"   // MongoDB connection and indexes
	"github.com/restspot/restspot/internal/handler"    // HTTP handlers
	"github.com/restspot/restspot/internal/mailer"     // Outbound credential mail
	"github.com/restspot/restspot/internal/middleware" // Cache and rate limit middleware
	"github.com/restspot/restspot/internal/model"      // Roles for seed accounts
	"github.com/restspot/restspot/internal/queue"      // Audit log consumer
	"github.com/restspot/restspot/internal/repository" // Data access layer
	"github.com/restspot/restspot/internal/router"     // Internal router setup
)

func main() {
	// A missing .env is fine in production where variables come from the
	// environment directly.
	_ = godotenv.Load()

	cfg := config.Load() // Load environment config

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	db, err := database.Open(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatalf("mongo connect: %v", err)
	}
	if err := database.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("mongo indexes: %v", err)
	}

	users := repository.NewUserRepo(db)
	toilets := repository.NewToiletRepo(db)
	reviews := repository.NewReviewRepo(db)
	complaints := repository.NewComplaintRepo(db)
	penalties := repository.NewPenaltyRepo(db)

	// Bootstrap accounts so a fresh deployment is immediately usable.
	// Repeated starts are no-ops thanks to the unique email index.
	seeds := []repository.SeedUser{
		{Name: cfg.SeedAdminName, Email: cfg.SeedAdminEmail, Password: cfg.SeedAdminPassword, Role: model.RoleAdmin},
		{Name: cfg.SeedOpName, Email: cfg.SeedOpEmail, Password: cfg.SeedOpPassword, Role: model.RoleOperator},
	}
	if err := repository.EnsureSeed(ctx, users, seeds, cfg.BcryptCost); err != nil {
		log.Fatalf("seed accounts: %v", err)
	}

	// Redis is optional: when unreachable both the response cache and the
	// rate limiter degrade to pass-through.
	rdb := config.NewRedisClient(cfg)

	mail := mailer.New(cfg)

	auth := handler.NewAuthHandler(cfg, users, mail)
	toilet := handler.NewToiletHandler(toilets, reviews, complaints, penalties, users)
	review := handler.NewReviewHandler(reviews, toilets)
	complaint := handler.NewComplaintHandler(complaints, toilets)
	penalty := handler.NewPenaltyHandler(penalties, users)

	// Consume penalty and complaint events into the audit log.  Runs for the
	// lifetime of the process and reconnects on broker failure.
	go queue.StartAuditConsumer()

	e := echo.New() // Create Echo instance
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterPublic(e, toilet, review, complaint, cacheMW)
	router.RegisterAuth(e, auth, cfg.JWTSecret, users)
	router.RegisterOperator(e, toilet, review, complaint, penalty, cfg.JWTSecret, users)
	router.RegisterAdmin(e, auth, review, complaint, penalty, cfg.JWTSecret, users)

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
