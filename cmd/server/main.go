package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/farmdirect/backend/internal/core/service"
	"github.com/farmdirect/backend/internal/infra/httpx"
	"github.com/farmdirect/backend/internal/infra/sqlite"
	"github.com/farmdirect/backend/internal/pkg/cache"
	"github.com/farmdirect/backend/internal/pkg/config"
	"github.com/farmdirect/backend/internal/pkg/telemetry"
	"github.com/farmdirect/backend/internal/pkg/token"
)

const tokenTTL = 24 * time.Hour

func main() {
	cfg := config.Load()
	telemetry.InitLogger(cfg.LogLevel)

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		slog.Error("open database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	var productCache cache.Cache
	if cfg.RedisAddr != "" {
		productCache = cache.NewRedisCache(cfg.RedisAddr, "farmdirect")
	}

	users := sqlite.NewUserRepo(store)
	products := sqlite.NewProductRepo(store)
	carts := sqlite.NewCartRepo(store)
	orders := sqlite.NewOrderRepo(store)

	tokens := token.NewManager(cfg.JWTSecret, tokenTTL)

	auth := service.NewAuthService(users, tokens)
	catalog := service.NewCatalogService(products, productCache, time.Duration(cfg.CacheTTLSecs)*time.Second)
	cart := service.NewCartService(carts, products)
	orderSvc := service.NewOrderService(orders, products, users)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := auth.SeedAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		slog.Error("seed admin account", "error", err)
		os.Exit(1)
	}

	handler := httpx.NewHandler(auth, catalog, cart, orderSvc, store)
	router := httpx.NewRouter(handler, tokens)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown", "error", err)
	}
}
