package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/chefrecommends/backend/internal/config"
	"github.com/chefrecommends/backend/internal/database"
	"github.com/chefrecommends/backend/internal/handler"
	"github.com/chefrecommends/backend/internal/middleware"
	"github.com/chefrecommends/backend/internal/queue"
	"github.com/chefrecommends/backend/internal/repository"
	"github.com/chefrecommends/backend/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	restaurants := repository.NewRestaurantRepo(db)
	claims := repository.NewClaimRepo(db)

	// Redis is optional: a nil client turns the limiter and the cache
	// into pass-throughs.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and response caching disabled")
	}
	limit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	// Audit-trail consumer for claim decisions; reconnects forever in
	// the background.
	go func() {
		if err := queue.StartClaimConsumer(); err != nil {
			log.Printf("claim consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true

	router.RegisterRoutes(e)
	router.RegisterPublic(e, handler.NewPublicHandler(restaurants, cfg.MapboxToken), cache, limit)
	router.RegisterClaims(e, handler.NewClaimHandler(restaurants, claims), limit)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg), cfg.JWTSecret)
	router.RegisterAdmin(e,
		handler.NewAdminClaimHandler(restaurants, claims),
		handler.NewAdminRestaurantHandler(restaurants),
		cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
