// Package jobs runs background maintenance on its own schedule.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/Kirtivanjode/wanderwithkii/cache"
	"github.com/Kirtivanjode/wanderwithkii/middleware"
	"github.com/Kirtivanjode/wanderwithkii/models"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// referencedImages selects every image id still held by an owner slot.
const referencedImages = `SELECT logo_id FROM blog_posts WHERE logo_id IS NOT NULL
	UNION SELECT image_id FROM blog_posts WHERE image_id IS NOT NULL
	UNION SELECT image_id FROM food_items WHERE image_id IS NOT NULL
	UNION SELECT image_id FROM adventures WHERE image_id IS NOT NULL
	UNION SELECT image_id FROM website_sections WHERE image_id IS NOT NULL`

const sweepTimeout = 5 * time.Minute

// ImageSweeper deletes image rows no owner references once they are older
// than the grace period. The grace period covers uploads whose owner row
// has not been committed yet.
type ImageSweeper struct {
	db      *gorm.DB
	images  *cache.Images
	metrics *middleware.Metrics
	grace   time.Duration
	logger  *zap.SugaredLogger
	cron    *cron.Cron
	now     func() time.Time
}

func NewImageSweeper(db *gorm.DB, images *cache.Images, metrics *middleware.Metrics, grace time.Duration, logger *zap.SugaredLogger) *ImageSweeper {
	return &ImageSweeper{
		db:      db,
		images:  images,
		metrics: metrics,
		grace:   grace,
		logger:  logger,
		cron:    cron.New(),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Start schedules the sweep with a standard cron spec such as "@daily".
func (s *ImageSweeper) Start(spec string) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()
		if _, err := s.SweepOrphans(ctx); err != nil {
			s.logger.Errorw("Orphan image sweep failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule image sweep %q: %w", spec, err)
	}

	s.cron.Start()
	s.logger.Infow("Image sweeper started", "schedule", spec, "grace", s.grace)
	return nil
}

// Stop waits for a running sweep to finish.
func (s *ImageSweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Image sweeper stopped")
}

// SweepOrphans deletes unreferenced images past the grace period and
// returns how many rows were removed.
func (s *ImageSweeper) SweepOrphans(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.grace)

	var ids []uint
	var deleted int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Image{}).
			Where("created_at < ?", cutoff).
			Where("id NOT IN (" + referencedImages + ")").
			Pluck("id", &ids).Error; err != nil {
			return fmt.Errorf("find orphan images: %w", err)
		}
		if len(ids) == 0 {
			return nil
		}
		// Re-check references so a row claimed since the select survives.
		result := tx.Where("id IN ?", ids).
			Where("id NOT IN (" + referencedImages + ")").
			Delete(&models.Image{})
		if result.Error != nil {
			return fmt.Errorf("delete orphan images: %w", result.Error)
		}
		deleted = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	if deleted == 0 {
		return 0, nil
	}

	if s.images != nil {
		if err := s.images.Invalidate(ctx, ids...); err != nil {
			s.logger.Warnw("Failed to invalidate swept images", "error", err)
		}
	}
	s.metrics.RecordImagesSwept(deleted)
	s.logger.Infow("Swept orphan images", "count", deleted, "cutoff", cutoff)
	return deleted, nil
}
