package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/kalakriti-store/commerce-api/internal/config"
	dbpkg "github.com/kalakriti-store/commerce-api/internal/db"
	"github.com/kalakriti-store/commerce-api/internal/gateway"
	"github.com/kalakriti-store/commerce-api/internal/logger"
	"github.com/kalakriti-store/commerce-api/internal/middleware"
	redispkg "github.com/kalakriti-store/commerce-api/internal/redis"
	"github.com/kalakriti-store/commerce-api/internal/routes"
	"github.com/kalakriti-store/commerce-api/internal/sweeper"
)

func main() {

	logger.InitLoggers()

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	redispkg.Init(cfg.RedisURL)

	gw := gateway.NewRazorpayGateway(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	sweepUC := routes.RegisterRoutes(r, db, cfg, gw)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go sweeper.New(sweepUC, cfg.SweepInterval, cfg.SweepThreshold).Run(ctx)

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: r,
	}

	go func() {
		logger.InfoLogger.Infof("server running on %s", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.ErrorLogger.Fatalf("failed to start server: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), sweeper.ShutdownGrace)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorLogger.Errorf("server shutdown: %v", err)
	}
}
