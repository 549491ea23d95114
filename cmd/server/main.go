package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vwaptrack/internal/client/pricefeed"
	"vwaptrack/internal/config"
	cronrunner "vwaptrack/internal/cron"
	"vwaptrack/internal/db"
	"vwaptrack/internal/handler"
	"vwaptrack/internal/logger"
	gormrepository "vwaptrack/internal/repository/gorm"
	"vwaptrack/internal/service"
)

func main() {
	cfgPath := os.Getenv("VT_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("VT_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
		logger.Warn("failed to set timezone", zap.Error(err))
	}
	if err := db.AutoMigrate(dbConn); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	store := gormrepository.New(dbConn.Gorm)
	feedHTTP := &http.Client{Timeout: cfg.PriceFeed.Timeout}
	feed := pricefeed.NewClient(feedHTTP, cfg.PriceFeed.BaseURL)

	programSvc := &service.ProgramService{
		Repo:        store,
		Logger:      logger,
		MaxQuoteAge: cfg.PriceFeed.MaxQuoteAge,
	}
	refreshSvc := &service.QuoteRefreshService{Repo: store, Feed: feed, Logger: logger}
	snapshotSvc := &service.SnapshotService{
		Repo:       store,
		Programs:   programSvc,
		Logger:     logger,
		SeriesTail: cfg.Snapshot.SeriesTail,
	}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())

	healthHandler := &handler.HealthHandler{DB: dbConn.Gorm}
	healthHandler.Register(engine)
	programHandler := &handler.ProgramHandler{Repo: store}
	programHandler.Register(engine)
	analyticsHandler := &handler.AnalyticsHandler{Repo: store, Programs: programSvc}
	analyticsHandler.Register(engine)
	quoteHandler := &handler.QuoteHandler{Repo: store, Feed: feed}
	quoteHandler.Register(engine)

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Cron.Enabled {
		cronRunner := cronrunner.New(logger, ctx)
		_, err = cronRunner.Add(cfg.Cron.QuoteRefresh, func(ctx context.Context) {
			if err := refreshSvc.RunOnce(ctx); err != nil {
				logger.Warn("quote refresh failed", zap.Error(err))
			}
		})
		if err != nil {
			logger.Warn("cron register quote refresh failed", zap.Error(err))
		}
		if cfg.Snapshot.Enabled {
			_, err = cronRunner.Add(cfg.Cron.Snapshot, func(ctx context.Context) {
				if err := snapshotSvc.RunOnce(ctx); err != nil {
					logger.Warn("metrics snapshot failed", zap.Error(err))
				}
			})
			if err != nil {
				logger.Warn("cron register snapshot failed", zap.Error(err))
			}
		}
		cronRunner.Start()
		defer cronRunner.Stop()
	}

	if cfg.PriceFeed.StreamEnabled {
		streamSvc := &service.QuoteStreamService{Repo: store, Logger: logger}
		go func() {
			err := streamSvc.Run(ctx, service.QuoteStreamOptions{URL: cfg.PriceFeed.StreamURL})
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("quote stream stopped", zap.Error(err))
			}
		}()
	}

	// Warm the quote cache so the first progress/deviation reads have
	// prices instead of "loading".
	go func() {
		warmCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := refreshSvc.RunOnce(warmCtx); err != nil {
			logger.Warn("initial quote warmup failed", zap.Error(err))
		}
	}()

	errCh := make(chan error, 2)

	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
