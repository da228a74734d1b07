package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/nwalden/farescout/internal/api"
	"github.com/nwalden/farescout/internal/cache"
	"github.com/nwalden/farescout/internal/engine"
	"github.com/nwalden/farescout/internal/retrieval"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := run(log); err != nil {
		log.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	bearerToken := mustEnv("BEARER_TOKEN")
	proxyKey := os.Getenv("SCRAPER_API_KEY")
	redisURL := os.Getenv("REDIS_URL")
	port := getEnv("PORT", "8080")
	cacheTTL := getEnvDuration("CACHE_TTL", cache.DefaultTTL)
	cacheSize := getEnvInt("CACHE_SIZE", cache.DefaultSize)

	ctx := context.Background()

	// A shared Redis cache is optional; without it each process keeps its
	// own bounded in-memory store.
	var store cache.Store
	if redisURL != "" {
		client, err := cache.Connect(ctx, redisURL)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		store = cache.NewRedis(client, log)
		log.Info("using redis fare cache", "ttl", cacheTTL)
	} else {
		store = cache.NewMemory(cacheSize)
		log.Info("using in-memory fare cache", "ttl", cacheTTL, "capacity", cacheSize)
	}
	defer func() { _ = store.Close() }()

	fetcher := retrieval.NewFetcher(proxyKey, log)
	if proxyKey != "" {
		log.Info("retrieval mode: proxy")
	} else {
		log.Info("retrieval mode: direct")
	}

	eng := engine.New(engine.Config{
		Store:   store,
		Fetcher: fetcher,
		TTL:     cacheTTL,
		Log:     log,
	})

	handlers := api.NewHandlers(eng, log)
	router := api.NewRouter(handlers, bearerToken, store, log)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error("server goroutine panicked", "recover", r)
				errCh <- fmt.Errorf("server panicked: %v", r)
			}
		}()
		log.Info("server starting", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("listening: %w", err)
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown signal received", "signal", sig)
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	log.Info("server shut down cleanly")
	return nil
}

func mustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		slog.Error("required environment variable not set", "key", key)
		os.Exit(1)
	}
	return v
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
