// Package imagefilter implements the pinku duotone filter: per-pixel
// BT.709 luminance mapped onto a fixed two-color gradient through a
// precomputed lookup table, plus the decode/encode boundary that turns
// raw image bytes into filterable pixel buffers and back.
package imagefilter

import (
	"image"
	"math"
)

// ITU-R BT.709 relative luminance coefficients.
const (
	lumR = 0.2126
	lumG = 0.7152
	lumB = 0.0722
)

// luminance computes the BT.709 relative luminance of one pixel, rounded
// and clamped to an integer in [0, 255]
func luminance(r, g, b uint8) uint8 {
	v := math.Round(lumR*float64(r) + lumG*float64(g) + lumB*float64(b))
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// ApplyDuotone overwrites the RGB channels of a non-premultiplied RGBA
// pixel slice with their duotone mapping, in place. Alpha bytes are left
// untouched. The slice length must be a multiple of 4; decoded buffers
// always are.
//
// The transform is deterministic and runs to completion without
// suspension. It is safe to call concurrently on independent slices: the
// only shared state is the read-only lookup table.
func ApplyDuotone(pix []uint8) {
	for i := 0; i+3 < len(pix); i += 4 {
		y := luminance(pix[i], pix[i+1], pix[i+2])
		pix[i], pix[i+1], pix[i+2] = duotoneLUT.Lookup(y)
	}
}

// FilterImage applies the duotone mapping to a decoded image buffer,
// mutating it in place. The buffer must be exclusively owned by the
// caller for the duration of the call.
func FilterImage(img *image.NRGBA) {
	ApplyDuotone(img.Pix)
}
