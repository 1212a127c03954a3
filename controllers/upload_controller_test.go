package controllers_test

import (
	"bytes"
	"fmt"
	"image/png"
	"net/http"
	"testing"

	"github.com/Kirtivanjode/wanderwithkii/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetImage(t *testing.T) {
	db := testutil.NewDB(t)
	srv := testutil.NewServer(t, db)
	data := testutil.PNG(t, 400, 200)
	img := testutil.CreateImage(t, db, data)
	path := fmt.Sprintf("/api/images/%d", img.ID)

	w := srv.JSON(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, `inline; filename=test.png`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	assert.Equal(t, data, w.Body.Bytes())

	w = srv.JSON(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
	assert.Equal(t, data, w.Body.Bytes())
}

func TestGetImageThumbnail(t *testing.T) {
	db := testutil.NewDB(t)
	srv := testutil.NewServer(t, db)
	img := testutil.CreateImage(t, db, testutil.PNG(t, 400, 200))

	// 100 rounds up to the smallest allowed width.
	w := srv.JSON(t, http.MethodGet, fmt.Sprintf("/api/images/%d?width=100", img.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	decoded, err := png.Decode(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 160, decoded.Bounds().Dx())
	assert.Equal(t, 80, decoded.Bounds().Dy())

	w = srv.JSON(t, http.MethodGet, fmt.Sprintf("/api/images/%d?width=0", img.ID), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetImageNotFound(t *testing.T) {
	srv := testutil.NewServer(t, testutil.NewDB(t))

	w := srv.JSON(t, http.MethodGet, "/api/images/424242", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Image not found", testutil.Message(t, w))

	w = srv.JSON(t, http.MethodGet, "/api/images/nope", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadTooLarge(t *testing.T) {
	db := testutil.NewDB(t)
	srv := testutil.NewServer(t, db)

	big := make([]byte, srv.Config.MaxUploadBytes+1)
	copy(big, testutil.PNG(t, 2, 2))
	w := srv.Multipart(t, http.MethodPost, "/api/adventures",
		map[string]string{"name": "Everest"},
		testutil.File{Field: "image", Filename: "huge.png", Data: big},
	)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
