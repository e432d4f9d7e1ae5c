package blendkit

import colorful "github.com/lucasb-eyer/go-colorful"

// applyTint implements spec.md §4.5 (C5): for each pixel it converts
// (r,g,b) to HSL and immediately back. The four (lo,hi) range pairs on
// tintParams are part of the option surface but are not applied — see
// spec.md §9's open question and DESIGN.md's decision to preserve rather
// than invent a remap. go-colorful's Hsl works in degrees on both sides of
// the round-trip, so the hue is passed through without rescaling.
func applyTint(cv *canvas, tint tintParams) {
	if tint.Identity {
		return
	}

	for i, px := range cv.Pixels {
		a := argbAlpha(px)
		r := argbRed(px)
		g := argbGreen(px)
		b := argbBlue(px)

		c := colorful.Color{
			R: float64(r) / 255,
			G: float64(g) / 255,
			B: float64(b) / 255,
		}
		h, s, l := c.Hsl()
		c = colorful.Hsl(h, s, l).Clamped()

		r2 := uint32(c.R*255 + 0.5)
		g2 := uint32(c.G*255 + 0.5)
		b2 := uint32(c.B*255 + 0.5)

		cv.Pixels[i] = packARGB(a, r2, g2, b2)
	}
}
