package blendkit

import (
	"encoding/binary"
	"fmt"
	"image"

	"github.com/1lann/imagequant"
)

// octreeQuantize reduces the canvas to at most maxColors colors using
// libimagequant, standing in for spec.md §4.5's "octree" backend (see
// SPEC_FULL.md §11.1 for why a whole-image quantizer library fills the
// spec's out-of-scope octree contract). Grounded on
// _examples/tmpim-juroku/quantize.go's Quantize function, generalized
// from a fixed 16-color CC-terminal palette to an arbitrary 2-256 size.
func octreeQuantize(cv *canvas, maxColors int) (*image.Paletted, error) {
	attr, err := imagequant.NewAttributes()
	if err != nil {
		return nil, fmt.Errorf("blendkit: octreeQuantize: NewAttributes: %s", err)
	}
	defer attr.Release()

	if err := attr.SetSpeed(4); err != nil {
		return nil, fmt.Errorf("blendkit: octreeQuantize: SetSpeed: %s", err)
	}
	if err := attr.SetMaxColors(maxColors); err != nil {
		return nil, fmt.Errorf("blendkit: octreeQuantize: SetMaxColors: %s", err)
	}

	rgba := surfaceToRGBABytes(cv.Pixels)
	src, err := imagequant.NewImage(attr, rgba, cv.Width, cv.Height, 0)
	if err != nil {
		return nil, fmt.Errorf("blendkit: octreeQuantize: NewImage: %s", err)
	}
	defer src.Release()

	res, err := src.Quantize(attr)
	if err != nil {
		return nil, fmt.Errorf("blendkit: octreeQuantize: Quantize: %s", err)
	}

	if err := res.SetDitheringLevel(0.5); err != nil {
		return nil, fmt.Errorf("blendkit: octreeQuantize: SetDitheringLevel: %s", err)
	}

	indices, err := res.WriteRemappedImage()
	if err != nil {
		return nil, fmt.Errorf("blendkit: octreeQuantize: WriteRemappedImage: %s", err)
	}

	out := imagequant.Rgb8PaletteToGoImage(res.GetImageWidth(), res.GetImageHeight(),
		indices, res.GetPalette())
	paletted, ok := out.(*image.Paletted)
	if !ok {
		return nil, fmt.Errorf("blendkit: octreeQuantize: unexpected image type from quantizer")
	}
	return paletted, nil
}

// surfaceToRGBABytes flattens the canvas into a raw R,G,B,A byte stream.
// Because packARGB places R in the low byte and A in the high byte (spec.md
// §3: "memory is R,G,B,A"), a little-endian encode of each word already
// produces that byte order.
func surfaceToRGBABytes(pixels []uint32) []byte {
	buf := make([]byte, len(pixels)*4)
	for i, px := range pixels {
		binary.LittleEndian.PutUint32(buf[i*4:], px)
	}
	return buf
}
