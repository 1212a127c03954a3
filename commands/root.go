package commands

import (
	"fmt"
	"os"

	"github.com/Kirtivanjode/wanderwithkii/cache"
	"github.com/Kirtivanjode/wanderwithkii/config"
	"github.com/Kirtivanjode/wanderwithkii/media"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// Global flags
	envFile string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "wanderwithkii",
	Short: "Wander With KI travel blog API",
	Long: `Backend for the Wander With KI travel blog: posts, comments, likes,
bucket list, food, adventures, website sections and stored images.

Configuration is read from the environment and an optional .env file.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Extra env file loaded before the environment is parsed")
}

// loadConfig reads configuration and builds the logger.
func loadConfig() (*config.Config, *zap.SugaredLogger, error) {
	if envFile != "" {
		if err := config.LoadEnvFile(envFile); err != nil {
			return nil, nil, err
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log, err := config.NewSugar(cfg.Env)
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}
	return cfg, log, nil
}

func openDatabase(cfg *config.Config, log *zap.SugaredLogger) (*gorm.DB, func(), error) {
	db, err := config.OpenDatabase(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return db, closeDB, nil
}

func openImageCache(cfg *config.Config) (*cache.Images, func(), error) {
	store, err := cache.New(cache.Options{
		Backend:    cfg.CacheBackend,
		RedisURL:   cfg.RedisURL,
		MaxEntries: cfg.CacheMaxEntries,
	})
	if err != nil {
		return nil, nil, err
	}
	return cache.NewImages(store, cfg.CacheTTL, media.ThumbnailWidths), func() { _ = store.Close() }, nil
}
