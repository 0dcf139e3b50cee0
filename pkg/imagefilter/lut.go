package imagefilter

import "math"

// RGB holds explicit 8-bit channel values for one duotone anchor color.
type RGB struct {
	R, G, B uint8
}

// Anchor colors of the duotone gradient. Shadow replaces pure black,
// Highlight replaces pure white; every luminance in between maps to an
// interpolated blend of the two.
var (
	Shadow    = RGB{R: 22, G: 80, B: 39}
	Highlight = RGB{R: 249, G: 159, B: 210}
)

// LUT maps an 8-bit luminance value to the three output channel
// intensities, replacing a per-pixel floating-point interpolation with a
// table lookup.
type LUT struct {
	r [256]uint8
	g [256]uint8
	b [256]uint8
}

// duotoneLUT is built once at package init and never written afterward,
// so concurrent transforms share it without locking.
var duotoneLUT = buildLUT(Shadow, Highlight)

// buildLUT interpolates between the two anchor colors for every possible
// luminance value. It is a pure function of the anchors: rebuilding from
// the same inputs yields byte-identical tables.
func buildLUT(shadow, highlight RGB) *LUT {
	lut := &LUT{}
	for i := 0; i < 256; i++ {
		t := float64(i) / 255
		inv := 1 - t
		lut.r[i] = mixChannel(shadow.R, highlight.R, inv, t)
		lut.g[i] = mixChannel(shadow.G, highlight.G, inv, t)
		lut.b[i] = mixChannel(shadow.B, highlight.B, inv, t)
	}
	return lut
}

// mixChannel blends one channel of the two anchors, rounds, and clamps to
// [0, 255]
func mixChannel(a, b uint8, inv, t float64) uint8 {
	v := math.Round(float64(a)*inv + float64(b)*t)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Lookup returns the mapped output channels for a luminance value.
func (l *LUT) Lookup(luminance uint8) (r, g, b uint8) {
	return l.r[luminance], l.g[luminance], l.b[luminance]
}
