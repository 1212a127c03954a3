package media

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h)), nil))
	return buf.Bytes()
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		data     func(t *testing.T) []byte
		maxDim   int
		wantType string
		wantW    int
		wantH    int
		same     bool
		wantErr  error
	}{
		{
			name:     "small png kept as is",
			data:     func(t *testing.T) []byte { return pngBytes(t, 20, 10) },
			maxDim:   100,
			wantType: MimeTypePNG,
			wantW:    20,
			wantH:    10,
			same:     true,
		},
		{
			name:     "large jpeg downscaled",
			data:     func(t *testing.T) []byte { return jpegBytes(t, 400, 200) },
			maxDim:   100,
			wantType: MimeTypeJPEG,
			wantW:    100,
			wantH:    50,
		},
		{
			name:     "no limit",
			data:     func(t *testing.T) []byte { return pngBytes(t, 400, 200) },
			wantType: MimeTypePNG,
			wantW:    400,
			wantH:    200,
			same:     true,
		},
		{
			name:    "text rejected",
			data:    func(t *testing.T) []byte { return []byte("hello, not an image") },
			wantErr: ErrUnsupportedFormat,
		},
		{
			name:    "truncated png rejected",
			data:    func(t *testing.T) []byte { return pngBytes(t, 10, 10)[:20] },
			wantErr: ErrUnsupportedFormat,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := tt.data(t)
			res, err := NewProcessor(tt.maxDim).Normalize(bytes.NewReader(input))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, res.ContentType)
			assert.Equal(t, tt.wantW, res.Width)
			assert.Equal(t, tt.wantH, res.Height)
			if tt.same {
				assert.Equal(t, input, res.Data)
			}
		})
	}
}

func TestThumbnail(t *testing.T) {
	p := NewProcessor(0)

	out, mimeType, err := p.Thumbnail(pngBytes(t, 800, 400), 320)
	require.NoError(t, err)
	assert.Equal(t, MimeTypePNG, mimeType)
	cfg, _, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 320, cfg.Width)
	assert.Equal(t, 160, cfg.Height)

	small := pngBytes(t, 100, 50)
	out, _, err = p.Thumbnail(small, 320)
	require.NoError(t, err)
	assert.Equal(t, small, out)
}

func TestThumbnailWidth(t *testing.T) {
	assert.Equal(t, 160, ThumbnailWidth(1))
	assert.Equal(t, 160, ThumbnailWidth(160))
	assert.Equal(t, 320, ThumbnailWidth(161))
	assert.Equal(t, 1280, ThumbnailWidth(5000))
}

func TestDetectMimeType(t *testing.T) {
	assert.Equal(t, MimeTypePNG, DetectMimeType(pngBytes(t, 1, 1)))
	assert.Equal(t, MimeTypeJPEG, DetectMimeType(jpegBytes(t, 1, 1)))
	assert.Equal(t, "text/plain", DetectMimeType([]byte("plain text")))
	assert.False(t, IsSupported("image/tiff"))
}
