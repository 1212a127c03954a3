// Package testutil builds in-memory databases, routers and requests for
// handler tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Kirtivanjode/wanderwithkii/cache"
	"github.com/Kirtivanjode/wanderwithkii/config"
	"github.com/Kirtivanjode/wanderwithkii/media"
	"github.com/Kirtivanjode/wanderwithkii/middleware"
	"github.com/Kirtivanjode/wanderwithkii/models"
	"github.com/Kirtivanjode/wanderwithkii/routes"
	"github.com/Kirtivanjode/wanderwithkii/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const JWTSecret = "test-secret-with-at-least-32-characters"

// NewDB opens a private in-memory SQLite database with the full schema.
// A single connection keeps the database alive and serializes writers.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: config.NowUTC,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, config.Migrate(db, config.DriverSQLite))
	return db
}

// Config returns settings suitable for handler tests.
func Config() *config.Config {
	return &config.Config{
		Env:               "test",
		DBDriver:          config.DriverSQLite,
		JWTSecret:         JWTSecret,
		JWTTTL:            time.Hour,
		AuthRateLimitRPM:  0,
		MaxUploadBytes:    1 << 20,
		MediaMaxDimension: 512,
		CacheBackend:      config.CacheMemory,
		CacheTTL:          time.Minute,
		CacheMaxEntries:   64,
	}
}

// Server bundles a router with the handles tests inspect.
type Server struct {
	Router  *gin.Engine
	DB      *gorm.DB
	Config  *config.Config
	Metrics *middleware.Metrics
	Images  *cache.Images
}

// NewServer builds the full router over db. Optional mutators adjust the
// config before routes are registered.
func NewServer(t *testing.T, db *gorm.DB, mutators ...func(*config.Config)) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := Config()
	for _, m := range mutators {
		m(cfg)
	}
	metrics := middleware.NewMetrics()
	images := cache.NewImages(cache.NewMemory(cfg.CacheMaxEntries), cfg.CacheTTL, media.ThumbnailWidths)

	router := routes.NewRouter(routes.Dependencies{
		DB:       db,
		Config:   cfg,
		Log:      zap.NewNop().Sugar(),
		Metrics:  metrics,
		Images:   images,
		Verifier: &utils.BcryptVerifier{Cost: bcrypt.MinCost},
	})
	return &Server{Router: router, DB: db, Config: cfg, Metrics: metrics, Images: images}
}

// Do serves req and returns the recorded response.
func (s *Server) Do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)
	return w
}

// JSON sends body encoded as JSON. A nil body sends no payload.
func (s *Server) JSON(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	return s.Do(JSONRequest(t, method, path, body))
}

func JSONRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	if body == nil {
		return httptest.NewRequest(method, path, nil)
	}
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// File is one multipart file part.
type File struct {
	Field    string
	Filename string
	Data     []byte
}

// Multipart sends fields and files as multipart/form-data.
func (s *Server) Multipart(t *testing.T, method, path string, fields map[string]string, files ...File) *httptest.ResponseRecorder {
	t.Helper()
	return s.Do(MultipartRequest(t, method, path, fields, files...))
}

func MultipartRequest(t *testing.T, method, path string, fields map[string]string, files ...File) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, f := range files {
		part, err := mw.CreateFormFile(f.Field, f.Filename)
		require.NoError(t, err)
		_, err = part.Write(f.Data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// Decode unmarshals the response body into v.
func Decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), "body: %s", w.Body.String())
}

// Message returns the "message" field of a JSON response.
func Message(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	Decode(t, w, &body)
	return body.Message
}

// PNG encodes a solid w x h image.
func PNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// CreatePost inserts a post row directly.
func CreatePost(t *testing.T, db *gorm.DB, title string) models.BlogPost {
	t.Helper()
	post := models.BlogPost{
		Title:    title,
		Summary:  title + " summary",
		Author:   models.DefaultAuthor,
		PostDate: time.Now().UTC(),
	}
	require.NoError(t, db.Create(&post).Error)
	return post
}

// CreateImage inserts an image row directly.
func CreateImage(t *testing.T, db *gorm.DB, data []byte) models.Image {
	t.Helper()
	img := models.Image{Name: "test.png", ContentType: "image/png", Data: data}
	require.NoError(t, db.Create(&img).Error)
	return img
}

// Count returns the number of rows of model matching the optional condition.
func Count(t *testing.T, db *gorm.DB, model interface{}, query ...interface{}) int64 {
	t.Helper()
	var n int64
	q := db.Model(model)
	if len(query) > 0 {
		q = q.Where(query[0], query[1:]...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}
