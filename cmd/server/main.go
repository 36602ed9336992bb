package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"dictee/internal/audio"
	"dictee/internal/catalog"
	"dictee/internal/config"
	"dictee/internal/handlers"
	"dictee/internal/i18n"
	"dictee/internal/logger"
	"dictee/internal/repository"
	"dictee/internal/scheduler"
	"dictee/internal/security"
	"dictee/internal/service"
)

const (
	stepStore     = "Progress store"
	stepCatalog   = "Catalog"
	stepScheduler = "Scheduler"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx := context.Background()
	startup := handlers.NewStartup(stepStore, stepCatalog, stepScheduler)

	startup.SetCurrentStep("Opening progress store")
	store, closeStore, err := repository.OpenStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to open progress store", "error", err)
	}
	defer closeStore()
	startup.CompleteStep(stepStore)

	defaultLocale := i18n.ParseLocale(cfg.DefaultLanguage)
	remoteContent := isRemote(cfg.ContentPath)

	catalogService := catalog.NewService(catalog.NewFetcher(cfg.ContentPath), cfg.MetadataFile, defaultLocale, log)
	startup.SetCurrentStep("Loading catalog")
	if _, err := catalogService.Periods(ctx); err != nil {
		log.Warn("Catalog not available yet", "location", cfg.ContentPath, "error", err)
	}
	startup.CompleteStep(stepCatalog)

	// Catalog audio references resolve against the content base
	referenceBase := "/content"
	if remoteContent {
		referenceBase = cfg.ContentPath
	}
	tts := audio.NewTTSService(filepath.Join(cfg.StaticFilesPath, "audio"), cfg.TTSEndpoint)
	audioService := audio.NewService(tts, referenceBase, "/static/audio", log)

	mastery := cfg.MasteryThreshold
	games := service.NewRegistry(func(deviceID string) *service.Game {
		repo := repository.NewProgressRepository(store, repository.DeviceProgressKey(deviceID, cfg.ProgressKey), log)
		rng := service.NewRandomSource(0)
		return service.NewGame(service.GameOptions{
			Mastery:     service.NewMasteryEngine(repo, mastery),
			Selector:    service.NewSelector(repo, rng),
			Random:      rng,
			SessionSize: cfg.SessionSize,
			Locale:      defaultLocale,
			Logger:      log.With("device", deviceID),
		})
	})

	limiter := security.NewRateLimiter(cfg.RateLimit, time.Minute)

	jobs := scheduler.New(games, catalogService, limiter, cfg.IdleGameTTL, cfg.CatalogRefresh, log)
	if err := jobs.Start(); err != nil {
		log.Fatal("Failed to start scheduler", "error", err)
	}
	defer jobs.Stop()
	startup.CompleteStep(stepScheduler)

	router := &handlers.Router{
		Middleware: handlers.NewMiddleware(limiter, log),
		Game:       handlers.NewGameHandler(games, catalogService, log),
		Catalog:    handlers.NewCatalogHandler(catalogService, games, log),
		Progress:   handlers.NewProgressHandler(games, log),
		Audio:      handlers.NewAudioHandler(audioService, catalogService, log),
		Locale:     handlers.NewLocaleHandler(defaultLocale),
		Startup:    startup,
		StaticPath: cfg.StaticFilesPath,
	}
	if !remoteContent {
		router.ContentPath = cfg.ContentPath
	}

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      router.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	startup.MarkReady()
	go func() {
		log.Info("Server starting", "addr", "http://localhost"+addr, "store", cfg.StoreBackend)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", "error", err)
	}
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}
