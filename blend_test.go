package blendkit

import (
	"bytes"
	"image/png"
	"testing"
)

func blendSync(t *testing.T, layers []LayerInput, opts *Options) ([]byte, []string, error) {
	t.Helper()

	type result struct {
		buf      []byte
		warnings []string
		err      error
	}
	done := make(chan result, 1)

	if err := Blend(layers, opts, func(err error, buf []byte, warnings []string) {
		done <- result{buf, warnings, err}
	}); err != nil {
		return nil, nil, err
	}

	r := <-done
	return r.buf, r.warnings, r.err
}

// TestBlendPassThrough checks concrete scenario 1: a single opaque layer
// that exactly fills the (derived) canvas is echoed byte for byte.
func TestBlendPassThrough(t *testing.T) {
	input := encodeTestPNG(t, 256, 256, packARGB(0xFF, 0x10, 0x20, 0x30))

	out, warnings, err := blendSync(t, []LayerInput{{Buffer: input}}, &Options{})
	if err != nil {
		t.Fatalf("Blend: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}
	if !bytes.Equal(out, input) {
		t.Errorf("pass-through output did not match input byte for byte")
	}
}

// TestBlendMatteBehindTransparentLayer checks concrete scenario 2.
func TestBlendMatteBehindTransparentLayer(t *testing.T) {
	transparent := encodeTestPNG(t, 64, 64, packARGB(0x00, 0, 0, 0))

	out, _, err := blendSync(t, []LayerInput{{Buffer: transparent}}, &Options{
		Matte:    "#FF0000",
		Reencode: true,
		Format:   "png",
	})
	if err != nil {
		t.Fatalf("Blend: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 64 || b.Dy() != 64 {
		t.Fatalf("output size = %dx%d, want 64x64", b.Dx(), b.Dy())
	}

	r, g, bl, a := img.At(0, 0).RGBA()
	if r>>8 != 0xFF || g>>8 != 0 || bl>>8 != 0 || a>>8 != 0xFF {
		t.Errorf("top-left pixel = (%d,%d,%d,%d), want opaque red", r>>8, g>>8, bl>>8, a>>8)
	}
}

// TestBlendOverlay checks concrete scenario 3: a smaller opaque layer
// placed atop a larger one replaces exactly the covered region.
func TestBlendOverlay(t *testing.T) {
	red := encodeTestPNG(t, 256, 256, packARGB(0xFF, 0xFF, 0, 0))
	blue := encodeTestPNG(t, 128, 128, packARGB(0xFF, 0, 0, 0xFF))

	out, _, err := blendSync(t, []LayerInput{
		{Buffer: red},
		{Buffer: blue, X: 64, Y: 64},
	}, &Options{})
	if err != nil {
		t.Fatalf("Blend: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decoding output: %v", err)
	}

	r, g, b, _ := img.At(128, 128).RGBA()
	if r>>8 != 0 || g>>8 != 0 || b>>8 != 0xFF {
		t.Errorf("center pixel = (%d,%d,%d), want pure blue", r>>8, g>>8, b>>8)
	}

	r, g, b, _ = img.At(10, 10).RGBA()
	if r>>8 != 0xFF || g>>8 != 0 || b>>8 != 0 {
		t.Errorf("corner pixel = (%d,%d,%d), want pure red", r>>8, g>>8, b>>8)
	}
}

// TestBlendClipOutsideViewport checks concrete scenario 4.
func TestBlendClipOutsideViewport(t *testing.T) {
	offscreen := encodeTestPNG(t, 16, 16, packARGB(0xFF, 0, 0xFF, 0))
	base := encodeTestPNG(t, 64, 64, packARGB(0xFF, 0x40, 0x40, 0x40))

	withOffscreen, _, err := blendSync(t, []LayerInput{
		{Buffer: offscreen, X: 1000, Y: 1000},
		{Buffer: base},
	}, &Options{Width: 64, Height: 64, Reencode: true})
	if err != nil {
		t.Fatalf("Blend: %v", err)
	}

	withoutOffscreen, _, err := blendSync(t, []LayerInput{
		{Buffer: base},
	}, &Options{Width: 64, Height: 64, Reencode: true})
	if err != nil {
		t.Fatalf("Blend: %v", err)
	}

	if !bytes.Equal(withOffscreen, withoutOffscreen) {
		t.Errorf("result with an off-viewport layer differs from the result without it")
	}
}

// TestBlendJPEGOutput checks concrete scenario 5.
func TestBlendJPEGOutput(t *testing.T) {
	input := encodeTestPNG(t, 32, 32, packARGB(0xFF, 0x11, 0x22, 0x33))

	out, _, err := blendSync(t, []LayerInput{{Buffer: input}}, &Options{
		Format:   "jpeg",
		Quality:  85,
		Reencode: true,
	})
	if err != nil {
		t.Fatalf("Blend: %v", err)
	}

	if len(out) < 4 || out[0] != 0xFF || out[1] != 0xD8 || out[2] != 0xFF {
		t.Errorf("output does not start with an FF D8 FF JPEG SOI marker")
	}
	if out[len(out)-2] != 0xFF || out[len(out)-1] != 0xD9 {
		t.Errorf("output does not end with an FF D9 JPEG EOI marker")
	}
}

// TestBlendArgumentErrorSynchronous checks concrete scenario 6: a
// malformed option rejects before any worker is scheduled, so Blend's
// own error return carries it rather than the callback.
func TestBlendArgumentErrorSynchronous(t *testing.T) {
	called := false
	err := Blend([]LayerInput{{Buffer: []byte("x")}}, &Options{Format: "png", Quality: 1},
		func(error, []byte, []string) { called = true })

	if err == nil {
		t.Fatal("expected a synchronous ArgumentError")
	}
	if called {
		t.Error("callback must not run when validation fails synchronously")
	}
}
