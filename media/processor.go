// Package media validates uploaded images and renders thumbnails.
package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder
)

const (
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
	MimeTypeGIF  = "image/gif"
	MimeTypeWebP = "image/webp"

	jpegQuality = 90
)

// ThumbnailWidths are the widths served by the image endpoint. Requests are
// rounded up to the next entry.
var ThumbnailWidths = []int{160, 320, 640, 1280}

var ErrUnsupportedFormat = errors.New("unsupported image format")

// Result is a normalized upload ready to be stored.
type Result struct {
	Data        []byte
	ContentType string
	Width       int
	Height      int
}

type Processor struct {
	maxDimension int
}

// NewProcessor returns a processor that scales uploads larger than
// maxDimension on either side. Zero disables scaling.
func NewProcessor(maxDimension int) *Processor {
	return &Processor{maxDimension: maxDimension}
}

// Normalize checks that data is a supported image. Images carrying an EXIF
// rotation or exceeding the size limit are re-encoded; anything else is
// kept byte for byte.
func (p *Processor) Normalize(r io.Reader) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	mimeType := DetectMimeType(data)
	if !IsSupported(mimeType) {
		return nil, ErrUnsupportedFormat
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}

	changed := false
	if mimeType == MimeTypeJPEG {
		if orientation := readExifOrientation(bytes.NewReader(data)); orientation > 1 {
			img = applyOrientation(img, orientation)
			changed = true
		}
	}

	b := img.Bounds()
	if p.maxDimension > 0 && (b.Dx() > p.maxDimension || b.Dy() > p.maxDimension) {
		img = imaging.Fit(img, p.maxDimension, p.maxDimension, imaging.Lanczos)
		changed = true
	}

	if changed {
		out, outType, err := encodeImage(img, mimeType)
		if err != nil {
			return nil, fmt.Errorf("failed to encode image: %w", err)
		}
		data, mimeType = out, outType
	}

	b = img.Bounds()
	return &Result{Data: data, ContentType: mimeType, Width: b.Dx(), Height: b.Dy()}, nil
}

// Thumbnail scales data down to width, keeping the aspect ratio. Images
// already narrower than width are returned unchanged.
func (p *Processor) Thumbnail(data []byte, width int) ([]byte, string, error) {
	mimeType := DetectMimeType(data)
	if !IsSupported(mimeType) {
		return nil, "", ErrUnsupportedFormat
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	if img.Bounds().Dx() <= width {
		return data, mimeType, nil
	}
	resized := imaging.Resize(img, width, 0, imaging.Lanczos)
	return encodeImage(resized, mimeType)
}

// ThumbnailWidth rounds a requested width up to the nearest allowed width.
func ThumbnailWidth(requested int) int {
	for _, w := range ThumbnailWidths {
		if requested <= w {
			return w
		}
	}
	return ThumbnailWidths[len(ThumbnailWidths)-1]
}

// DetectMimeType sniffs the content type of data, without parameters.
func DetectMimeType(data []byte) string {
	contentType := http.DetectContentType(data)
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = contentType[:idx]
	}
	return contentType
}

func IsSupported(mimeType string) bool {
	switch mimeType {
	case MimeTypeJPEG, MimeTypePNG, MimeTypeGIF, MimeTypeWebP:
		return true
	default:
		return false
	}
}

// readExifOrientation returns 1 (normal) when no orientation is present.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return orientation
}

func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

// encodeImage writes img in the source format. WebP has no pure Go encoder
// so it is written as JPEG.
func encodeImage(img image.Image, mimeType string) ([]byte, string, error) {
	var buf bytes.Buffer
	switch mimeType {
	case MimeTypePNG:
		if err := png.Encode(&buf, img); err != nil {
			return nil, "", err
		}
	case MimeTypeGIF:
		if err := gif.Encode(&buf, img, nil); err != nil {
			return nil, "", err
		}
	default:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return nil, "", err
		}
		mimeType = MimeTypeJPEG
	}
	return buf.Bytes(), mimeType, nil
}
