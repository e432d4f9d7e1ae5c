package blendkit

import "testing"

// TestHexToARGBSixDigit checks property P1: a valid 6-digit hex color
// always parses to an opaque pixel.
func TestHexToARGBSixDigit(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want uint32
	}{
		{"black", "#000000", packARGB(0xFF, 0, 0, 0)},
		{"white", "#FFFFFF", packARGB(0xFF, 0xFF, 0xFF, 0xFF)},
		{"no leading hash", "FF0000", packARGB(0xFF, 0xFF, 0, 0)},
		{"mixed case", "AbCdEf", packARGB(0xFF, 0xAB, 0xCD, 0xEF)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := hexToARGB(tt.in)
			if got != tt.want {
				t.Errorf("hexToARGB(%q) = %#x, want %#x", tt.in, got, tt.want)
			}
			if argbAlpha(got) != 0xFF {
				t.Errorf("hexToARGB(%q) alpha = %#x, want 0xFF", tt.in, argbAlpha(got))
			}
		})
	}
}

func TestHexToARGBInvalid(t *testing.T) {
	tests := []string{"", "#", "#FFF", "#FFFFFFFFF", "zzzzzz", "#12345"}

	for _, in := range tests {
		if got := hexToARGB(in); got != 0 {
			t.Errorf("hexToARGB(%q) = %#x, want 0", in, got)
		}
	}
}

// TestHexARGBRoundTrip checks property P2: argb -> hex -> argb is the
// identity for 8-digit inputs.
func TestHexARGBRoundTrip(t *testing.T) {
	tests := []uint32{
		packARGB(0xFF, 0x11, 0x22, 0x33),
		packARGB(0x00, 0x00, 0x00, 0x00),
		packARGB(0x80, 0xAB, 0xCD, 0xEF),
		packARGB(0x01, 0xFF, 0x00, 0xFF),
	}

	for _, px := range tests {
		hex := argbToHex(px)
		got := hexToARGB(hex)
		if got != px {
			t.Errorf("round trip %#x -> %q -> %#x, want %#x", px, hex, got, px)
		}
	}
}

// TestRGBToHSLGrayscale checks property P3: any r=g=b triple yields s=0,
// h=0.
func TestRGBToHSLGrayscale(t *testing.T) {
	for _, v := range []int{0, 1, 17, 128, 254, 255} {
		h, s, _ := rgbToHSL(v, v, v)
		if h != 0 || s != 0 {
			t.Errorf("rgbToHSL(%d,%d,%d) = (h=%v, s=%v), want (0, 0)", v, v, v, h, s)
		}
	}
}

// TestHSLRoundTrip checks property P4: rgb->hsl->rgb is a near-identity
// on a sampled grid, within the truncation tolerance the spec allows.
func TestHSLRoundTrip(t *testing.T) {
	samples := []struct{ r, g, b int }{
		{255, 0, 0},
		{0, 255, 0},
		{0, 0, 255},
		{255, 255, 0},
		{12, 200, 90},
		{128, 64, 200},
		{10, 10, 10},
		{250, 251, 249},
	}

	for _, s := range samples {
		h, sat, l := rgbToHSL(s.r, s.g, s.b)
		r2, g2, b2 := hslToRGB(h, sat, l)

		if diff(int(r2), s.r) > 2 || diff(int(g2), s.g) > 2 || diff(int(b2), s.b) > 2 {
			t.Errorf("round trip (%d,%d,%d) -> hsl -> (%d,%d,%d), tolerance exceeded",
				s.r, s.g, s.b, r2, g2, b2)
		}
	}
}

func TestHSLToRGBGrayscaleBranch(t *testing.T) {
	r, g, b := hslToRGB(0.5, 0, 0.5)
	if r != g || g != b {
		t.Errorf("hslToRGB with s=0 gave non-gray (%d,%d,%d)", r, g, b)
	}
}

func diff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
