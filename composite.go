package blendkit

import "fmt"

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// canvas is the ARGB surface the composite is built on top of (spec.md
// GLOSSARY "Canvas").
type canvas struct {
	Pixels        []uint32
	Width, Height int
}

// passThrough is returned internally by walkLayers when the zero-work
// short-circuit of spec.md §4.3.1 step 6 fires: the job is already
// finished and composite() should not run.
type passThrough struct{}

func (passThrough) Error() string { return "pass-through" }

// composite runs the full pipeline of spec.md §4.3: the decode-skip walk,
// canvas allocation and matte fill, and the per-layer blit. On the
// pass-through fast path it sets j.output directly and returns nil.
func composite(j *job) error {
	alphaAccum, err := walkLayers(j)
	if err != nil {
		if _, ok := err.(passThrough); ok {
			return nil
		}
		return err
	}

	if j.width <= 0 || j.height <= 0 || j.width*j.height <= 0 {
		return dimensionErrorf(j.width, j.height)
	}

	cv := &canvas{
		Pixels: make([]uint32, j.width*j.height),
		Width:  j.width,
		Height: j.height,
	}
	if cv.Pixels == nil {
		return allocationErrorf("failed to allocate %dx%d canvas", j.width, j.height)
	}

	// Matte is written to every canvas pixel iff at least one layer in
	// the final stack may have transparency (spec.md §3 invariant, §4.3.2,
	// and the open question in §9: a fully covered scene ignores a
	// requested matte for performance, even if the caller set one).
	if alphaAccum {
		matte := j.matte
		for i := range cv.Pixels {
			cv.Pixels[i] = matte
		}
	} else if j.hasMatte {
		j.warnings = append(j.warnings, "matte requested but suppressed: the composited stack is fully opaque")
	}

	for _, l := range j.layers {
		if l.Surface == nil {
			continue
		}
		blit(cv, l)
	}

	j.alphaAccumResult = alphaAccum
	j.canvas = cv
	return nil
}

// walkLayers implements spec.md §4.3.1: the back-to-front (top to bottom)
// decode-skip policy. It returns the final alpha_accum value, or a
// passThrough error if the zero-work short circuit fired.
func walkLayers(j *job) (bool, error) {
	alphaAccum := true
	size := 0

	for i := len(j.layers) - 1; i >= 0; i-- {
		if !alphaAccum {
			break
		}

		l := j.layers[i]
		d := newDecoder(l.Encoded)
		if d.Width == 0 || d.Height == 0 {
			msg := d.Message
			if msg == "" {
				msg = "unrecognized image format"
			}
			return false, decodeError(msg)
		}
		l.Width, l.Height, l.HasAlpha = d.Width, d.Height, d.Alpha

		vw, vh := l.visibleWidth(), l.visibleHeight()
		if j.width <= 0 {
			j.width = maxInt(0, vw)
		}
		if j.height <= 0 {
			j.height = maxInt(0, vh)
		}

		if l.outsideViewport(j.width, j.height) {
			continue
		}

		if size == 0 && !l.HasAlpha && !j.reencode && l.X == 0 && l.Y == 0 &&
			l.exactlyFills(j.width, j.height) {
			j.output = l.Encoded
			return false, passThrough{}
		}

		if err := d.decode(); err != nil {
			return false, err
		}
		l.Surface = d.surfacePixels()

		for _, w := range d.Warnings {
			j.warnings = append(j.warnings, fmt.Sprintf("Layer %d: %s", i, w))
		}

		if l.coversCanvas(j.width, j.height) && !l.HasAlpha {
			alphaAccum = false
		}

		size++
	}

	return alphaAccum, nil
}

// blit implements spec.md §4.3.3: it clips the layer's surface against
// the canvas and composites each visible pixel with over().
func blit(cv *canvas, l *layer) {
	srcX := maxInt(0, -l.X)
	srcY := maxInt(0, -l.Y)
	blitW := l.Width - srcX - maxInt(0, l.X+l.Width-cv.Width)
	blitH := l.Height - srcY - maxInt(0, l.Y+l.Height-cv.Height)
	dstX := maxInt(0, l.X)
	dstY := maxInt(0, l.Y)

	if blitW <= 0 || blitH <= 0 {
		return
	}

	for row := 0; row < blitH; row++ {
		srcRow := (srcY + row) * l.Width
		dstRow := (dstY + row) * cv.Width
		for col := 0; col < blitW; col++ {
			s := l.Surface[srcRow+srcX+col]
			t := &cv.Pixels[dstRow+dstX+col]
			*t = over(s, *t)
		}
	}
}

// over implements spec.md §4.3.4: the porter-duff "over" blend of source
// S atop target T, both in the ARGB layout of §3. Integer divides
// truncate; intermediates are carried in 64 bits to accommodate the
// 16.8-fixed-point alpha term.
func over(s, t uint32) uint32 {
	sa := argbAlpha(s)
	if sa == 0 {
		return t
	}

	ta := argbAlpha(t)
	if sa == 0xFF || ta == 0 {
		return s
	}

	a1 := uint64(sa)
	r1 := uint64(argbRed(s))
	g1 := uint64(argbGreen(s))
	b1 := uint64(argbBlue(s))

	a0 := uint64(ta)
	r0 := uint64(argbRed(t)) * a0
	g0 := uint64(argbGreen(t)) * a0
	b0 := uint64(argbBlue(t)) * a0

	outA16 := ((a1 + a0) << 8) - a0*a1

	r0 = (((r1 << 8) - r0) * a1 + (r0 << 8)) / outA16
	g0 = (((g1 << 8) - g0) * a1 + (g0 << 8)) / outA16
	b0 = (((b1 << 8) - b0) * a1 + (b0 << 8)) / outA16
	outA := outA16 >> 8

	return packARGB(uint32(outA), uint32(r0), uint32(g0), uint32(b0))
}
