// cmd/oauth-service/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/KennyDiedxD/shopify-callback/internal/oauthapp"
	"github.com/KennyDiedxD/shopify-callback/pkg/config"
	"github.com/KennyDiedxD/shopify-callback/pkg/db"
	"github.com/KennyDiedxD/shopify-callback/pkg/logger"
	"github.com/KennyDiedxD/shopify-callback/pkg/middleware"
	"github.com/KennyDiedxD/shopify-callback/pkg/state"
	"github.com/KennyDiedxD/shopify-callback/pkg/tokens"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)

	pool := db.MustConnect(cfg, log)
	rdb := db.MustRedis(cfg, log)

	var tokenStore tokens.Store
	switch {
	case pool != nil:
		if err := tokens.EnsureSchema(context.Background(), pool); err != nil {
			log.Fatalw("schema", "err", err)
		}
		tokenStore = tokens.NewPostgresStore(pool, log)
	case rdb != nil:
		tokenStore = tokens.NewRedisStore(rdb)
	default:
		tokenStore = tokens.NewMemoryStore()
	}

	var stateStore state.Store
	if rdb != nil {
		stateStore = state.NewRedisStore(rdb)
	} else {
		stateStore = state.NewMemoryStore()
	}

	app := oauthapp.New(log, cfg, stateStore, tokenStore)

	r := chi.NewRouter()
	r.Use(middleware.RequestID())
	r.Use(middleware.Recover(log))
	r.Use(middleware.Tracing())

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("ok")) })
	app.Routes(r)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}
	go func() {
		log.Infow("oauth-service listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("ListenAndServe", "err", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	fmt.Println("oauth-service stopped")
}
