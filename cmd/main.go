package main

import (
	"context"
	"errors"
	"guardaazul/backend/internal/api/handler"
	"guardaazul/backend/internal/chatbot"
	"guardaazul/backend/internal/complaint"
	"guardaazul/backend/internal/config"
	"guardaazul/backend/internal/imagestore"
	"guardaazul/backend/internal/localization"
	"guardaazul/backend/internal/notify"
	"guardaazul/backend/internal/storage"
	"guardaazul/backend/internal/tides"
	"guardaazul/backend/internal/validation"
	"guardaazul/backend/internal/vision"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies(cfg config.Config) (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	if err := storage.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	// Redis only backs the status cache and verdict push; run without it.
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("WARNING: Redis unavailable at %s, status cache and live verdicts disabled: %v", cfg.RedisAddr, err)
		rdb.Close()
		rdb = nil
	}

	log.Println("Database connection established, migrations complete.")
	return db, rdb
}

func main() {
	log.Println("Starting Guarda Azul Backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}
	cfg := config.Load()

	if cfg.VisionAPIKey == "" {
		log.Println("WARNING: GOOGLE_VISION_API_KEY not set, every photo will go to manual review")
	}
	if cfg.GeminiAPIKey == "" {
		log.Println("WARNING: GEMINI_API_KEY not set, the chatbot will only apologize")
	}

	db, rdb := setupDependencies(cfg)
	s := storage.NewStorageService(db, rdb)

	l, err := localization.NewBundled()
	if err != nil {
		log.Fatalf("Failed to load translations: %v", err)
	}

	images, err := imagestore.New(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Failed to prepare upload dir: %v", err)
	}

	pipeline := validation.NewPipeline(vision.NewClient(cfg.VisionAPIKey), validation.NewScorer(cfg.Validation))
	complaints := complaint.NewService(s, images, pipeline, l, cfg.Validation)
	complaints.StatusCacheTTL = cfg.StatusCacheTTL

	tideSvc := tides.NewService(cfg.DataDir)
	chat := chatbot.NewService(s, chatbot.NewGemini(cfg.GeminiAPIKey, cfg.GeminiModel), tideSvc, l)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The tide scraper sends SIGHUP after writing a new day's file.
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	go func() {
		for range hup {
			log.Println("INFO: Reloading tide data")
			tideSvc.Refresh()
		}
	}()

	hub := notify.NewHub()
	go hub.Run(ctx)
	if rdb != nil {
		go hub.Listen(ctx, s.SubscribeToVerdicts())
	} else {
		complaints.Local = hub.EventsCh
	}

	r := gin.Default()
	r.MaxMultipartMemory = 10 << 20
	h := handler.NewHandler(complaints, chat, tideSvc, s, hub, l, cfg.JWTSecret)
	handler.RegisterRoutes(r, h)

	server := &http.Server{
		Addr:           cfg.HTTPAddr,
		Handler:        r,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Printf("INFO: Listening on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("INFO: Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: HTTP shutdown: %v", err)
	}

	// Let in-flight validations record their verdicts.
	complaints.Wait()

	if rdb != nil {
		rdb.Close()
	}
	log.Println("INFO: Bye")
}
