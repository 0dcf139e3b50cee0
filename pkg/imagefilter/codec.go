package imagefilter

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/disintegration/imaging"

	// Register decoders for the extra raster formats accepted as input.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	// ErrDecodeFailed is returned when source bytes cannot be interpreted
	// as a raster image
	ErrDecodeFailed = errors.New("image decode failed")

	// ErrEncodeFailed is returned when a filtered buffer cannot be
	// serialized to output bytes
	ErrEncodeFailed = errors.New("image encode failed")
)

// Decode interprets raw bytes as a raster image (PNG, JPEG, GIF, BMP,
// TIFF or WebP) and returns a non-premultiplied RGBA copy. The returned
// buffer is exclusively owned by the caller and safe to mutate in place.
func Decode(data []byte) (*image.NRGBA, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}
	return imaging.Clone(img), nil
}

// EncodePNG serializes a filtered buffer to PNG bytes. PNG is lossless,
// which keeps the quantized LUT output free of compression banding.
func EncodePNG(img *image.NRGBA) ([]byte, error) {
	var buf bytes.Buffer
	if err := imgio.PNGEncoder()(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodeFailed, err)
	}
	return buf.Bytes(), nil
}
