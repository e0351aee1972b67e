package main // Entry point package

import (
    "context" // shutdown and store-connection contexts
    "log"     // Logging library
    "time"    // connection timeouts

    "github.com/joho/godotenv"    // Loads .env files into the environment
    "github.com/labstack/echo/v4" // Echo web framework

    "github.com/iliyamo/dynamic-form-builder/internal/config"     // Internal config loader
    "github.com/iliyamo/dynamic-form-builder/internal/database"   // MySQL and MongoDB connections
    "github.com/iliyamo/dynamic-form-builder/internal/handler"    // HTTP handlers
    "github.com/iliyamo/dynamic-form-builder/internal/middleware" // Rate limiting
    "github.com/iliyamo/dynamic-form-builder/internal/queue"      // Submission event consumer
    "github.com/iliyamo/dynamic-form-builder/internal/repository" // Store repositories
    "github.com/iliyamo/dynamic-form-builder/internal/router"     // Route registration
)

func main() {
    // Load .env when present; in production the variables come from the
    // environment directly and a missing file is not an error.
    _ = godotenv.Load()

    cfg := config.Load()

    // Relational store: users, refresh tokens and form assignments.
    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("mysql: %v", err)
    }
    defer func() { _ = db.Close() }()

    // Document store: forms, fields and submissions.
    mdb, err := database.OpenMongo(cfg.MongoURI, cfg.MongoDBName)
    if err != nil {
        log.Fatalf("mongodb: %v", err)
    }
    defer func() {
        ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
        defer cancel()
        _ = mdb.Client().Disconnect(ctx)
    }()

    users := repository.NewUserRepo(db)
    tokens := repository.NewTokenRepo(db)
    assignments := repository.NewAssignmentRepo(db)
    forms := repository.NewFormRepo(mdb)
    fields := repository.NewFieldRepo(mdb)
    submissions := repository.NewSubmissionRepo(mdb)

    auth := handler.NewAuthHandler(cfg, users, tokens)
    formH := handler.NewFormHandler(cfg, forms, fields, assignments)
    fieldH := handler.NewFieldHandler(cfg, forms, fields)
    subH := handler.NewSubmissionHandler(cfg, forms, fields, submissions)
    userH := handler.NewUserHandler(cfg, users, forms, assignments)

    e := echo.New()

    // Redis backs the response cache and the rate limiter. A nil client
    // (Redis unreachable) disables both instead of failing startup.
    rdb := config.NewRedisClient()
    if rdb != nil {
        rl := config.LoadRateLimitConfig()
        if rl.Enabled {
            e.Use(middleware.NewTokenBucket(rl, rdb))
        }
    }

    router.RegisterRoutes(e)
    router.RegisterAuth(e, auth, cfg.JWTSecret)
    router.RegisterForms(e, cfg, formH, fieldH, subH, userH, rdb)

    // Consume form.submitted events in the background; the consumer
    // reconnects on broker failures and never blocks request handling.
    go queue.StartSubmissionConsumer()

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env)

    if err := e.Start(addr); err != nil {
        log.Fatal(err)
    }
}
