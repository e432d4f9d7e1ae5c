package blendkit

import "image"
import "image/color"

// toNRGBA converts the canvas to a straight-alpha image.NRGBA, used for
// true-color PNG output when the stack may have transparency.
func (cv *canvas) toNRGBA() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, cv.Width, cv.Height))
	for i, px := range cv.Pixels {
		out.Pix[i*4+0] = uint8(argbRed(px))
		out.Pix[i*4+1] = uint8(argbGreen(px))
		out.Pix[i*4+2] = uint8(argbBlue(px))
		out.Pix[i*4+3] = uint8(argbAlpha(px))
	}
	return out
}

// toRGBAOpaque converts the canvas to an opaque image.RGBA, discarding
// alpha entirely. Used for JPEG output (spec.md §4.5: "alpha is
// discarded") and for true-color PNG when the stack has no transparency.
func (cv *canvas) toRGBAOpaque() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, cv.Width, cv.Height))
	for i, px := range cv.Pixels {
		out.Pix[i*4+0] = uint8(argbRed(px))
		out.Pix[i*4+1] = uint8(argbGreen(px))
		out.Pix[i*4+2] = uint8(argbBlue(px))
		out.Pix[i*4+3] = 0xFF
	}
	return out
}

// toPalettedNearest maps every canvas pixel to the closest entry of an
// externally supplied palette (spec.md §4.5's "external palette" branch,
// which per §1 is a caller-owned collaborator rather than a quantizer:
// blendkit still has to do the nearest-color mapping itself).
func (cv *canvas) toPalettedNearest(pal color.Palette) *image.Paletted {
	out := image.NewPaletted(image.Rect(0, 0, cv.Width, cv.Height), pal)
	for i, px := range cv.Pixels {
		out.Pix[i] = uint8(pal.Index(color.RGBA{
			R: uint8(argbRed(px)),
			G: uint8(argbGreen(px)),
			B: uint8(argbBlue(px)),
			A: uint8(argbAlpha(px)),
		}))
	}
	return out
}
