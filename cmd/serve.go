package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vnkhanh/grade-explorer/config"
	"github.com/vnkhanh/grade-explorer/middleware"
	"github.com/vnkhanh/grade-explorer/routes"
	"github.com/vnkhanh/grade-explorer/services"
	"github.com/vnkhanh/grade-explorer/ws"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		db    *gorm.DB
		store services.ElectiveStore
	)
	if cfg.DB.Enabled() {
		var err error
		db, err = config.InitDB(cfg.DB)
		if err != nil {
			return err
		}
		store = services.NewGormElectiveStore(db)
	} else {
		logger.Info("DB_HOST not set, keeping electives in memory")
		store = services.NewMemoryElectiveStore()
	}

	loader := services.NewLoader(cfg.DataDir, nil, logger)
	catalog := services.NewCatalog(loader, logger)
	catalog.LoadAll(ctx, cfg.Datasets)
	refreshDone := services.StartRefreshJob(ctx, catalog, cfg.RefreshInterval, ws.H.BroadcastDatasetReloaded)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", middleware.ClientIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.ClientIDHeader},
		AllowCredentials: true,
	}))
	routes.SetupRouter(r, routes.Deps{
		Catalog:   catalog,
		Electives: services.NewElectives(store, catalog),
		Hub:       ws.H,
		DB:        db,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server running", zap.String("port", cfg.Port), zap.Int("datasets", len(cfg.Datasets)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	<-refreshDone
	return err
}
