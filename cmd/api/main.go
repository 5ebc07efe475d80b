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

	"github.com/pecadorcelestial/panda-proxy/internal/audit"
	"github.com/pecadorcelestial/panda-proxy/internal/config"
	"github.com/pecadorcelestial/panda-proxy/internal/gate"
	"github.com/pecadorcelestial/panda-proxy/internal/identity"
	"github.com/pecadorcelestial/panda-proxy/internal/permission"
	"github.com/pecadorcelestial/panda-proxy/internal/proxy"
	"github.com/pecadorcelestial/panda-proxy/internal/session"
	"github.com/pecadorcelestial/panda-proxy/internal/token"
	"github.com/pecadorcelestial/panda-proxy/pkg/logger"
	"github.com/pecadorcelestial/panda-proxy/pkg/utils"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	codec, err := token.NewCodec(cfg.Auth)
	if err != nil {
		log.Error("token codec init failed", "err", err)
		os.Exit(1)
	}

	db, err := utils.OpenPostgres(rootCtx, "pgx", cfg.PostgresDSN(), utils.PostgresPoolConfig{})
	if err != nil {
		log.Error("postgres init failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	rdb, err := utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: cfg.RedisAddr()})
	if err != nil {
		log.Error("redis init failed", "err", err)
		os.Exit(1)
	}
	defer rdb.Close()

	identityClient := identity.NewClient(cfg.Identity)
	resolver := permission.NewResolver(identityClient)
	auditSvc := audit.NewService(audit.NewPostgresRepo(db), log)

	g := gate.New(codec, resolver, auditSvc, gate.Config{
		Environment: cfg.App.Env,
		CookieName:  cfg.Auth.CookieName,
	})

	limiter := session.NewRedisLimiter(rdb, cfg.Redis.LoginMaxAttempts, cfg.Redis.LoginWindow)
	sessions := session.NewHandler(codec, identityClient, limiter, cfg.Auth, cfg.IsProduction())

	forwarder, err := proxy.NewForwarder(cfg.Proxy.UpstreamURL)
	if err != nil {
		log.Error("upstream url invalid", "err", err)
		os.Exit(1)
	}

	// Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))

	registerRoutes(r, g, sessions, forwarder)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("proxy listening", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
}
