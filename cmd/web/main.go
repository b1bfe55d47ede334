package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Adams521/everything-gift/internal/api"
	"github.com/Adams521/everything-gift/internal/auth"
	"github.com/Adams521/everything-gift/internal/cache"
	"github.com/Adams521/everything-gift/internal/config"
	"github.com/Adams521/everything-gift/internal/endpoint"
	"github.com/Adams521/everything-gift/internal/resultstate"
	"github.com/Adams521/everything-gift/internal/services"
	"github.com/Adams521/everything-gift/internal/session"
	"github.com/Adams521/everything-gift/internal/view"
)

func main() {
	cfg := config.NewConfig()
	setupLogger(cfg)

	slog.Info("Starting gift web gateway", "port", cfg.HTTPPort, "env", cfg.Environment)

	resolver := endpoint.NewResolver(cfg.PublicAPIURL, cfg.BackendURL)
	slog.Info("Backend addresses",
		"browser", resolver.Resolve(endpoint.Browser),
		"prerender", resolver.Resolve(endpoint.PreRender),
	)

	deps := api.Deps{
		Backend:         services.NewServiceClient(resolver, cfg.BackendTimeout),
		Transport:       resultstate.URLTransport{},
		Sessions:        session.NewCookieStore(cfg.CookieSecure, cfg.SessionMaxAge),
		Resolver:        resolver,
		Limiter:         cache.NewMemoryLimiter(cfg.RateLimitPerMinute),
		CatalogLimit:    cfg.CatalogLimit,
		CatalogCacheTTL: cfg.CatalogCacheTTL,
		Placeholder:     cfg.PlaceholderImageURL,
	}

	if cfg.RedisAddr != "" {
		redisClient, err := cache.NewClient(cfg.RedisAddr, cfg.RateLimitPerMinute)
		if err != nil {
			slog.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		slog.Info("Connected to Redis", "addr", cfg.RedisAddr)

		deps.Cache = redisClient
		deps.Limiter = redisClient
		if cfg.ResultTransport == config.TransportCache {
			deps.Transport = resultstate.NewCacheTransport(redisClient, cfg.ResultCacheTTL)
		}
	} else if cfg.ResultTransport == config.TransportCache {
		slog.Warn("RESULT_TRANSPORT=cache needs REDIS_ADDR; carrying results in the URL instead")
	}

	renderer, err := view.NewRenderer()
	if err != nil {
		slog.Error("Failed to parse templates", "error", err)
		os.Exit(1)
	}
	deps.Renderer = renderer

	handler := api.NewHandler(deps)
	router := api.NewRouter(handler, auth.NewMiddleware(deps.Sessions))

	srv := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Leaves room for a slow recommendation call behind the page.
		WriteTimeout: cfg.BackendTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Graceful shutdown error", "error", err)
	}
	slog.Info("Server stopped")
}

func setupLogger(cfg *config.Config) {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}

	var handler slog.Handler
	if cfg.Environment == "production" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}
