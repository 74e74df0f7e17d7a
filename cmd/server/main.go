package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/escape-room-reservation/internal/config"
	"github.com/iliyamo/escape-room-reservation/internal/database"
	"github.com/iliyamo/escape-room-reservation/internal/handler"
	"github.com/iliyamo/escape-room-reservation/internal/ledger"
	"github.com/iliyamo/escape-room-reservation/internal/middleware"
	"github.com/iliyamo/escape-room-reservation/internal/queue"
	"github.com/iliyamo/escape-room-reservation/internal/repository"
	"github.com/iliyamo/escape-room-reservation/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	// Member and catalog stores live in MySQL. When the database is
	// unreachable the server still comes up on the seeded in-memory
	// stores so the booking core stays usable in development.
	var members repository.MemberStore
	var catalog repository.CatalogStore
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Printf("mysql unavailable (%v); using seeded in-memory stores", err)
		seeded, serr := repository.NewSeededMemberStore(cfg.BcryptCost)
		if serr != nil {
			log.Fatal(serr)
		}
		members = seeded
		catalog = repository.NewSeededCatalogStore()
	} else {
		members = repository.NewMemberRepo(db)
		catalog = repository.NewCatalogRepo(db)
	}

	// All booking state is owned by one ledger for the process
	// lifetime, injected into the handlers. Never a package global.
	ldg := ledger.New()

	rdb := config.NewRedisClient() // nil disables rate limiting and caching
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and response cache disabled")
	}

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, members), cfg.JWTSecret,
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	router.RegisterCatalog(e, handler.NewCatalogHandler(catalog),
		middleware.NewResponseCache(config.LoadCacheConfig(), rdb))
	router.RegisterBooking(e, handler.NewReservationHandler(ldg, catalog), cfg.JWTSecret)
	router.RegisterAdmin(e, handler.NewAdminHandler(ldg), cfg.JWTSecret)

	// Background audit trail for slot events; reconnects forever.
	go func() {
		if err := queue.StartSlotEventConsumer(); err != nil {
			log.Printf("slot-consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
