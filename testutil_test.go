package blendkit

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

// encodeTestPNG builds a uniformly-colored w×h PNG fixture for the tests
// in this package. px is interpreted in blendkit's ARGB layout (spec.md
// §3) so the same constants used to assert on composite output can build
// the input layers too.
func encodeTestPNG(t *testing.T, w, h int, px uint32) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	c := color.NRGBA{
		R: uint8(argbRed(px)),
		G: uint8(argbGreen(px)),
		B: uint8(argbBlue(px)),
		A: uint8(argbAlpha(px)),
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encodeTestPNG: %v", err)
	}
	return buf.Bytes()
}
