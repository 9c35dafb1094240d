package main // Entry point package

import (
    "log"
    "time"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"

    "github.com/kamatealif/quickshow-server/internal/config"
    "github.com/kamatealif/quickshow-server/internal/database"
    "github.com/kamatealif/quickshow-server/internal/handler"
    "github.com/kamatealif/quickshow-server/internal/queue"
    "github.com/kamatealif/quickshow-server/internal/repository"
    "github.com/kamatealif/quickshow-server/internal/router"
    "github.com/kamatealif/quickshow-server/internal/service"
)

func main() {
    // Load .env when present; real deployments set the environment directly.
    if err := godotenv.Load(); err != nil {
        log.Printf(".env not loaded: %v", err)
    }
    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database: %v", err)
    }
    defer db.Close()

    // Redis backs the rate limiter and the response cache.  nil means
    // Redis is unreachable and both middlewares pass requests through.
    rdb := config.NewRedisClient()
    if rdb == nil {
        log.Println("redis unavailable; rate limiting and response cache disabled")
    }

    userRepo := repository.NewUserRepo(db)
    seatRepo := repository.NewSeatRepo(db)
    bookingRepo := repository.NewBookingRepo(db)
    showtimeRepo := repository.NewShowtimeRepo(db)

    svc := service.NewBookingService(
        seatRepo,
        bookingRepo,
        showtimeRepo,
        time.Duration(cfg.LockExpiryMin)*time.Minute,
        cfg.StrictFinalize,
        queue.PublishBookingConfirmed,
    )

    authH := handler.NewAuthHandler(cfg, userRepo)
    bookingH := handler.NewBookingHandler(svc)
    publicH := handler.NewPublicHandler(showtimeRepo, svc)
    adminH := handler.NewAdminHandler(handler.NewShowtimeCreator(showtimeRepo, seatRepo))

    e := echo.New()
    router.RegisterRoutes(e)
    router.RegisterAuth(e, authH, cfg.JWTSecret)
    router.RegisterPublic(e, publicH, config.LoadCacheConfig(), rdb)
    router.RegisterCustomer(e, bookingH, cfg.JWTSecret, config.LoadRateLimitConfig(), rdb)
    router.RegisterAdmin(e, adminH, cfg.JWTSecret)

    // Consume booking.confirmed events in the background.  The consumer
    // reconnects on its own; a missing broker only disables the audit log.
    go func() {
        if err := queue.StartBookingConsumer(); err != nil {
            log.Printf("booking consumer stopped: %v", err)
        }
    }()

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env)
    if err := e.Start(addr); err != nil {
        log.Fatal(err)
    }
}
