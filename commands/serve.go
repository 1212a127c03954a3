package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Kirtivanjode/wanderwithkii/jobs"
	"github.com/Kirtivanjode/wanderwithkii/middleware"
	"github.com/Kirtivanjode/wanderwithkii/routes"
	"github.com/Kirtivanjode/wanderwithkii/utils"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe() error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, closeDB, err := openDatabase(cfg, log)
	if err != nil {
		return err
	}
	defer closeDB()

	images, closeCache, err := openImageCache(cfg)
	if err != nil {
		return err
	}
	defer closeCache()

	metrics := middleware.NewMetrics()

	var sweeper *jobs.ImageSweeper
	if cfg.ImageSweepSchedule != "" {
		sweeper = jobs.NewImageSweeper(db, images, metrics, cfg.ImageSweepGrace, log)
		if err := sweeper.Start(cfg.ImageSweepSchedule); err != nil {
			return err
		}
	}

	router := routes.NewRouter(routes.Dependencies{
		DB:       db,
		Config:   cfg,
		Log:      log,
		Metrics:  metrics,
		Images:   images,
		Verifier: utils.NewBcryptVerifier(),
	})

	server := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Infow("Starting server", "addr", server.Addr, "env", cfg.Env, "db_driver", cfg.DBDriver, "cache", cfg.CacheBackend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil {
			log.Errorw("Server failed", "error", err)
			return err
		}
	case sig := <-quit:
		log.Infow("Shutting down server", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Errorw("Server forced to shutdown", "error", err)
	}
	if sweeper != nil {
		sweeper.Stop()
	}

	log.Info("Server exited")
	return nil
}
