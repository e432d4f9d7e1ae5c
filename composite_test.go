package blendkit

import "testing"

// TestOverTransparentSource checks property P5: compositing a fully
// transparent source leaves the target unchanged.
func TestOverTransparentSource(t *testing.T) {
	target := packARGB(0xFF, 0x11, 0x22, 0x33)
	source := packARGB(0x00, 0xFF, 0xFF, 0xFF)

	got := over(source, target)
	if got != target {
		t.Errorf("over(transparent, %#x) = %#x, want unchanged %#x", target, got, target)
	}
}

// TestOverOpaqueSource checks property P6: compositing a fully opaque
// source replaces the target outright.
func TestOverOpaqueSource(t *testing.T) {
	target := packARGB(0xFF, 0x11, 0x22, 0x33)
	source := packARGB(0xFF, 0xAA, 0xBB, 0xCC)

	got := over(source, target)
	if got != source {
		t.Errorf("over(opaque %#x, %#x) = %#x, want source %#x", source, target, got, source)
	}
}

func TestOverPartialAlphaOnOpaqueTarget(t *testing.T) {
	// Half-alpha pure red over opaque pure green should sit near the
	// midpoint, within integer-truncation tolerance.
	target := packARGB(0xFF, 0x00, 0xFF, 0x00)
	source := packARGB(0x80, 0xFF, 0x00, 0x00)

	got := over(source, target)
	if argbAlpha(got) != 0xFF {
		t.Errorf("over() onto opaque target changed alpha: got %#x", argbAlpha(got))
	}
	if r := argbRed(got); r < 0x7A || r > 0x82 {
		t.Errorf("over() red channel = %#x, want near 0x80", r)
	}
	if g := argbGreen(got); g < 0x7A || g > 0x82 {
		t.Errorf("over() green channel = %#x, want near 0x80", g)
	}
}

func TestOverOntoTransparentTarget(t *testing.T) {
	target := packARGB(0x00, 0x00, 0x00, 0x00)
	source := packARGB(0x80, 0xFF, 0x00, 0x00)

	got := over(source, target)
	if got != source {
		t.Errorf("over(%#x, transparent) = %#x, want source unchanged %#x", source, got, source)
	}
}

// TestBlitNegativeOffset checks property P8: a negative layer offset
// clips src_x/src_y to (-x,-y) and keeps dst_x/dst_y at 0.
func TestBlitNegativeOffset(t *testing.T) {
	l := &layer{
		X: -2, Y: -1,
		Width: 4, Height: 4,
		Surface: make([]uint32, 16),
	}
	for i := range l.Surface {
		l.Surface[i] = packARGB(0xFF, uint32(i), 0, 0)
	}

	cv := &canvas{
		Pixels: make([]uint32, 4),
		Width:  2, Height: 2,
	}

	blit(cv, l)

	// src_x = 2, src_y = 1, blitW = 2, blitH = 3 clipped to canvas height 2.
	// Row 0 of the canvas should come from layer row 1, columns 2-3.
	wantTopLeft := l.Surface[1*4+2]
	if cv.Pixels[0] != wantTopLeft {
		t.Errorf("blit with negative offset: top-left = %#x, want %#x", cv.Pixels[0], wantTopLeft)
	}
}

func TestBlitOutOfBoundsIsNoop(t *testing.T) {
	l := &layer{X: 100, Y: 100, Width: 4, Height: 4, Surface: make([]uint32, 16)}
	cv := &canvas{Pixels: make([]uint32, 4), Width: 2, Height: 2}

	blit(cv, l) // must not panic or touch cv.Pixels

	for i, px := range cv.Pixels {
		if px != 0 {
			t.Errorf("blit wrote to out-of-bounds canvas pixel %d: %#x", i, px)
		}
	}
}

// TestWalkLayersDecodeSkip checks property P7: an opaque layer that
// covers the canvas makes the output independent of anything beneath it.
func TestWalkLayersDecodeSkip(t *testing.T) {
	bottom := newLayer(LayerInput{Buffer: []byte("not a valid image and never decoded")})
	top := newLayer(LayerInput{Buffer: encodeTestPNG(t, 4, 4, packARGB(0xFF, 0, 0xFF, 0))})

	j := &job{layers: []*layer{bottom, top}, reencode: true}

	alphaAccum, err := walkLayers(j)
	if err != nil {
		t.Fatalf("walkLayers: %v", err)
	}
	if alphaAccum {
		t.Errorf("alphaAccum = true, want false once an opaque covering layer is found")
	}
	if bottom.Surface != nil {
		t.Errorf("bottom layer was decoded despite being fully hidden")
	}
}

func TestWalkLayersOutsideViewport(t *testing.T) {
	visible := newLayer(LayerInput{Buffer: encodeTestPNG(t, 64, 64, packARGB(0x80, 0, 0, 0xFF))})
	offscreen := newLayer(LayerInput{Buffer: encodeTestPNG(t, 16, 16, packARGB(0xFF, 0xFF, 0, 0)), X: 1000, Y: 1000})

	// offscreen is the top of the stack (last element); fixed canvas
	// dimensions mean its outsideViewport() check fires before the loop
	// ever tries to decode it.
	j := &job{layers: []*layer{visible, offscreen}, width: 64, height: 64, reencode: true}

	_, err := walkLayers(j)
	if err != nil {
		t.Fatalf("walkLayers: %v", err)
	}
	if offscreen.Surface != nil {
		t.Errorf("offscreen layer was decoded despite being entirely outside the viewport")
	}
	if visible.Surface == nil {
		t.Errorf("visible layer beneath the offscreen one was not decoded")
	}
}
