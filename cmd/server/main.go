package main // Entry point package

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/innovation-hub/internal/ai"
	"github.com/iliyamo/innovation-hub/internal/config"
	"github.com/iliyamo/innovation-hub/internal/database"
	"github.com/iliyamo/innovation-hub/internal/handler"
	"github.com/iliyamo/innovation-hub/internal/middleware"
	"github.com/iliyamo/innovation-hub/internal/queue"
	"github.com/iliyamo/innovation-hub/internal/repository"
	"github.com/iliyamo/innovation-hub/internal/router"
	"github.com/iliyamo/innovation-hub/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional
	cfg := config.Load()

	db, err := database.Open(database.Options{
		Driver: cfg.DBDriver,
		Path:   cfg.DBPath,
		User:   cfg.DBUser,
		Pass:   cfg.DBPass,
		Host:   cfg.DBHost,
		Port:   cfg.DBPort,
		Name:   cfg.DBName,
	})
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	defaults, err := repository.DefaultUsers(cfg.DefaultAdminPassword, cfg.DefaultEmployeePassword, cfg.BcryptCost, time.Now())
	if err != nil {
		log.Fatalf("default users: %v", err)
	}
	store := repository.NewStore(db, defaults)

	// Activity events: publish to RabbitMQ when configured and run the
	// consumer that appends them to the activity log.
	var events queue.Publisher = queue.NopPublisher{}
	if cfg.RabbitURL != "" {
		events = queue.NewAMQPPublisher(cfg.RabbitURL)
		go queue.StartActivityConsumer(cfg.RabbitURL, cfg.ActivityLogDir)
	} else {
		log.Printf("RABBITMQ_URL not set; activity events disabled")
	}

	// AI collaborators are optional; without them the assistant endpoints
	// answer 502 and idea enhancement is skipped with an error note.
	var llm service.Completer
	if cfg.LLMEndpoint != "" && cfg.LLMAPIKey != "" {
		llm = ai.NewCompletionClient(cfg.LLMEndpoint, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMTimeout)
	}
	var stt service.Transcriber
	if cfg.STTEndpoint != "" {
		stt = ai.NewSpeechClient(cfg.STTEndpoint, cfg.STTAPIKey, cfg.STTModel, cfg.STTTimeout)
	}
	assistant := service.NewAssistant(llm, stt)

	game := service.NewGamification(store, events)
	ctrl := service.NewController(store, game, events, assistant)
	accounts := service.NewAccounts(store, cfg.BcryptCost)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := ctrl.SyncCommentCounts(ctx); err != nil {
		log.Printf("comment count repair failed: %v", err)
	}
	cancel()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and caching disabled")
	} else {
		defer rdb.Close()
	}
	rlCfg := config.LoadRateLimitConfig()
	cacheCfg := config.LoadCacheConfig()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(echomw.BodyLimit(fmt.Sprintf("%dM", cfg.MaxAudioMB+1)))

	router.RegisterRoutes(e, router.Handlers{
		Health:      handler.NewHealthHandler(db),
		Auth:        handler.NewAuthHandler(accounts),
		Ideas:       handler.NewIdeaHandler(ctrl),
		Admin:       handler.NewAdminHandler(ctrl, accounts),
		Leaderboard: handler.NewLeaderboardHandler(game, store),
		Assistant:   handler.NewAssistantHandler(assistant, cfg.MaxAudioMB),
	}, router.Middleware{
		Auth:       middleware.BasicAuth(accounts),
		RateLimit:  middleware.NewTokenBucket(rlCfg, rdb),
		Cache:      middleware.NewRedisCache(cacheCfg, rdb),
		Invalidate: middleware.InvalidateCache(cacheCfg, rdb),
	})

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, db=%s)", addr, cfg.Env, cfg.DBDriver)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
