package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	apirest "github.com/kasuganosora/craftmirror/api/rest"
	"github.com/kasuganosora/craftmirror/archive"
	"github.com/kasuganosora/craftmirror/changelog"
	"github.com/kasuganosora/craftmirror/config"
	"github.com/kasuganosora/craftmirror/feed"
	"github.com/kasuganosora/craftmirror/gamestate"
	"github.com/kasuganosora/craftmirror/leaderboard"
	mw "github.com/kasuganosora/craftmirror/middleware"
	"github.com/kasuganosora/craftmirror/scheduler"
	"github.com/kasuganosora/craftmirror/store"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func main() {
	cfgPath := "config/config.yaml"
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// ---- Logger ----
	var logger *zap.Logger
	var logErr error
	if cfg.Server.Debug {
		logger, logErr = zap.NewDevelopment()
	} else {
		logger, logErr = zap.NewProduction()
	}
	if logErr != nil {
		log.Fatalf("logger: %v", logErr)
	}
	defer logger.Sync()

	if cfg.Server.AdminKey == "" {
		logger.Warn("server.admin_key is not set; admin endpoints are disabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ---- Snapshot store ----
	var source store.Source
	switch cfg.Source.Mode {
	case "remote":
		source = store.RemoteSource{
			BaseURL:  cfg.Source.BaseURL,
			Database: cfg.Source.Database,
			Username: cfg.Source.Username,
			Password: cfg.Source.Password,
		}
	case "file":
		source = store.FileSource{Dir: cfg.Source.Dir}
	default:
		log.Fatalf("source: unknown mode %q", cfg.Source.Mode)
	}
	st := store.New(source, logger)
	logger.Info("snapshot store initialized", zap.String("mode", cfg.Source.Mode))

	// ---- Change log ----
	writer := changelog.NewWriter(cfg.Storage.Dir, cfg.Server.Debug, logger)

	// ---- Archive (optional) ----
	var archiveSvc *archive.Service
	if cfg.Archive.Enabled {
		db, err := archive.Open(cfg.Archive)
		if err != nil {
			log.Fatalf("archive: %v", err)
		}
		archiveSvc = archive.New(db, cfg.Archive.BatchSize, cfg.Archive.FlushInterval, logger)
		defer archiveSvc.Stop(context.Background())
		logger.Info("archive initialized", zap.String("mode", cfg.Archive.Mode))
	}

	// ---- Leaderboards ----
	boards := leaderboard.NewService(st, logger)

	// ---- Scheduler ----
	sched := scheduler.New(logger)
	defer sched.Stop()
	if cfg.Refresh.Interval > 0 {
		sched.Every("snapshot_refresh", cfg.Refresh.Interval, func() {
			st.ReloadAll(ctx)
			boards.Rebuild(ctx)
		})
	}

	// ---- Change feed ----
	var feedClient *feed.Client
	feedDone := make(chan struct{})
	if cfg.Feed.Enabled {
		feedClient = feed.NewClient(feed.Options{
			URL:         cfg.Feed.URL,
			Username:    cfg.Feed.Username,
			Password:    cfg.Feed.Password,
			Queries:     cfg.Feed.Queries,
			BackoffBase: cfg.Feed.BackoffBase,
			MaxAttempts: cfg.Feed.MaxAttempts,
		}, st, func(event gamestate.InventoryChange) {
			if err := writer.Append(event); err != nil {
				logger.Error("change event lost",
					zap.String("event_id", event.EventID),
					zap.Error(err))
			}
			if archiveSvc != nil {
				archiveSvc.Record(event)
			}
		}, logger)
		go func() {
			defer close(feedDone)
			if err := feedClient.Run(ctx); err != nil && ctx.Err() == nil {
				logger.Error("change feed stopped", zap.Error(err))
			}
		}()
	} else {
		close(feedDone)
	}

	// ---- Gin HTTP server ----
	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(mw.TraceID(), mw.Logger(logger), mw.Recovery(logger))
	r.Use(mw.RateLimit(rate.Limit(cfg.Security.RateLimitRPS), cfg.Security.RateLimitBurst))

	r.GET("/health", apirest.Health)

	adminH := apirest.NewAdminHandler(st, feedClient, boards, sched, logger)
	adminG := r.Group("/api/admin")
	adminG.Use(mw.IPWhitelist(cfg.Security.AdminWhitelist))
	adminG.Use(apirest.AdminAuth(cfg.Server.AdminKey))
	adminG.GET("/status", adminH.Status)
	adminG.POST("/refresh", adminH.Refresh)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r,
	}
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server shutdown", zap.Error(err))
	}
	<-feedDone
	logger.Info("shutdown complete")
}
