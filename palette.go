package blendkit

import "image/color"

// Palette is an external palette a caller may supply for indexed PNG
// output (spec.md §6 "palette" option). It is a read-only, shareable
// value: multiple concurrent jobs may reference the same *Palette, so it
// must never be mutated once constructed (spec.md §5 "external palette
// objects, when provided, are shared read-only").
type Palette struct {
	Colors []color.RGBA
}

// Valid mirrors the original implementation's Palette::valid() check
// (see original_source/src/blend.cpp, and SPEC_FULL.md §12): an empty or
// oversized palette is treated as absent, falling through the rest of
// spec.md §4.5's decision tree.
func (p *Palette) Valid() bool {
	return p != nil && len(p.Colors) > 0 && len(p.Colors) <= 256
}

// goPalette converts to the standard library's color.Palette so it can
// drive image.Paletted / draw.Drawer.
func (p *Palette) goPalette() color.Palette {
	pal := make(color.Palette, len(p.Colors))
	for i, c := range p.Colors {
		pal[i] = c
	}
	return pal
}
