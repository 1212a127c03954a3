package controllers

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Kirtivanjode/wanderwithkii/cache"
	"github.com/Kirtivanjode/wanderwithkii/media"
	"github.com/Kirtivanjode/wanderwithkii/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxImageNameLength = 255

// UploadController owns the image table: it turns multipart files into
// image rows, retires replaced rows and serves stored bytes.
type UploadController struct {
	DB             *gorm.DB
	Processor      *media.Processor
	Cache          *cache.Images
	MaxUploadBytes int64
	Log            *zap.SugaredLogger
}

func NewUploadController(db *gorm.DB, processor *media.Processor, images *cache.Images, maxUploadBytes int64, log *zap.SugaredLogger) *UploadController {
	return &UploadController{
		DB:             db,
		Processor:      processor,
		Cache:          images,
		MaxUploadBytes: maxUploadBytes,
		Log:            log,
	}
}

// readImage loads and validates the file in the given form field. It
// returns nil, nil when the request carries no such file.
func (uc *UploadController) readImage(c *gin.Context, field string) (*models.Image, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, badRequest("Invalid upload for " + field)
	}
	if uc.MaxUploadBytes > 0 && fh.Size > uc.MaxUploadBytes {
		return nil, badRequest(fmt.Sprintf("%s exceeds the %d byte limit", field, uc.MaxUploadBytes))
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", field, err)
	}
	defer f.Close()

	res, err := uc.Processor.Normalize(f)
	if err != nil {
		if errors.Is(err, media.ErrUnsupportedFormat) {
			return nil, badRequest(field + " must be a JPEG, PNG, GIF or WebP image")
		}
		return nil, fmt.Errorf("process %s: %w", field, err)
	}

	return &models.Image{
		Name:        imageName(fh.Filename),
		ContentType: res.ContentType,
		Data:        res.Data,
	}, nil
}

func imageName(filename string) string {
	name := strings.TrimSpace(filepath.Base(filename))
	if name == "" || name == "." || name == "/" {
		name = "image"
	}
	if len(name) > maxImageNameLength {
		name = name[:maxImageNameLength]
	}
	return name
}

// attachImage stores img and points slot at it. The id previously held by
// slot is returned so the caller can delete it once the owner row no longer
// references it. A nil img leaves the slot untouched.
func attachImage(tx *gorm.DB, slot **uint, img *models.Image) (uint, error) {
	if img == nil {
		return 0, nil
	}
	if err := tx.Create(img).Error; err != nil {
		return 0, fmt.Errorf("insert image: %w", err)
	}
	var old uint
	if *slot != nil {
		old = **slot
	}
	id := img.ID
	*slot = &id
	return old, nil
}

// deleteImages removes image rows, skipping zero ids.
func deleteImages(tx *gorm.DB, ids ...uint) error {
	var live []uint
	for _, id := range ids {
		if id != 0 {
			live = append(live, id)
		}
	}
	if len(live) == 0 {
		return nil
	}
	if err := tx.Where("id IN ?", live).Delete(&models.Image{}).Error; err != nil {
		return fmt.Errorf("delete images: %w", err)
	}
	return nil
}

// forget drops cached copies of deleted images. Runs after commit.
func (uc *UploadController) forget(ctx context.Context, ids ...uint) {
	var live []uint
	for _, id := range ids {
		if id != 0 {
			live = append(live, id)
		}
	}
	if len(live) == 0 || uc.Cache == nil {
		return
	}
	if err := uc.Cache.Invalidate(ctx, live...); err != nil {
		uc.Log.Warnw("Failed to invalidate image cache", "image_ids", live, "error", err)
	}
}

// GetImage godoc
// @Summary Serve a stored image
// @Description Returns the raw bytes with their detected content type. The optional width query returns a thumbnail.
// @Tags images
// @Produce octet-stream
// @Param id path string true "Image ID"
// @Param width query integer false "Thumbnail width"
// @Router /images/{id} [get]
func (uc *UploadController) GetImage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	width := 0
	if raw := c.Query("width"); raw != "" {
		w, err := strconv.Atoi(raw)
		if err != nil || w <= 0 {
			respondMessage(c, http.StatusBadRequest, "Invalid width")
			return
		}
		width = media.ThumbnailWidth(w)
	}

	ctx := c.Request.Context()
	if uc.Cache != nil {
		if cached, err := uc.Cache.Get(ctx, id, width); err == nil {
			c.Header("X-Cache", "HIT")
			writeImage(c, cached)
			return
		} else if !errors.Is(err, cache.ErrMiss) {
			uc.Log.Warnw("Image cache read failed", "image_id", id, "error", err)
		}
	}

	var img models.Image
	if err := uc.DB.WithContext(ctx).First(&img, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondMessage(c, http.StatusNotFound, "Image not found")
			return
		}
		serverError(c, uc.Log, err, "Error fetching image")
		return
	}
	if len(img.Data) == 0 {
		respondMessage(c, http.StatusNotFound, "Image not found")
		return
	}

	out := &cache.CachedImage{Name: img.Name, ContentType: img.ContentType, Data: img.Data}
	if out.ContentType == "" {
		out.ContentType = media.DetectMimeType(img.Data)
	}
	if width > 0 {
		data, contentType, err := uc.Processor.Thumbnail(img.Data, width)
		if err != nil {
			// Rows written before upload validation may not decode; serve them as stored.
			uc.Log.Warnw("Thumbnail failed, serving original", "image_id", id, "error", err)
		} else {
			out.Data, out.ContentType = data, contentType
		}
	}

	if uc.Cache != nil {
		if err := uc.Cache.Set(ctx, id, width, out); err != nil {
			uc.Log.Warnw("Image cache write failed", "image_id", id, "error", err)
		}
	}
	c.Header("X-Cache", "MISS")
	writeImage(c, out)
}

func writeImage(c *gin.Context, img *cache.CachedImage) {
	disposition := mime.FormatMediaType("inline", map[string]string{"filename": img.Name})
	if disposition == "" {
		disposition = "inline"
	}
	c.Header("Content-Disposition", disposition)
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, img.ContentType, img.Data)
}
