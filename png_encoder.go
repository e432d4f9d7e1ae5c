package blendkit

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/png"
	"io"

	"github.com/klauspost/compress/flate"
)

// pngLevelToStdlib maps blendkit's 1..9 compression scale onto three of
// the standard library's four coarse presets, since image/png.Encoder does
// not expose a real tunable level. This is exactly the gap the "miniz"
// backend below fills with klauspost/compress/flate.
func pngLevelToStdlib(level int) png.CompressionLevel {
	switch {
	case level <= 0:
		return png.DefaultCompression
	case level <= 3:
		return png.BestSpeed
	case level <= 6:
		return png.DefaultCompression
	default:
		return png.BestCompression
	}
}

// encodePNGDefault implements the "default" encoder backend of spec.md
// §4.5 using the standard library, which is the codec spec.md §1
// designates as an out-of-scope external collaborator.
func encodePNGDefault(w io.Writer, img image.Image, level int) error {
	enc := &png.Encoder{CompressionLevel: pngLevelToStdlib(level)}
	return enc.Encode(w, img)
}

// encodePNGMiniz implements the "miniz" backend: a from-scratch PNG
// writer whose IDAT stream is compressed with klauspost/compress/flate
// instead of the standard library's compress/flate, giving callers the
// 1..10 tunable level spec.md §4.5 calls for (klauspost/compress/flate is
// a drop-in with an identical NewWriter(w, level) signature; levels above
// 9 are clamped, matching flate's own ceiling).
func encodePNGMiniz(w io.Writer, img image.Image, level int) error {
	if level <= 0 {
		level = flate.DefaultCompression
	} else if level > 9 {
		level = 9
	}

	pw := &pngWriter{w: w}
	pw.writeSignature()

	switch src := img.(type) {
	case *image.Paletted:
		return pw.encodePaletted(src, level)
	default:
		return pw.encodeTrueColor(img, level)
	}
}

type pngWriter struct {
	w   io.Writer
	err error
}

func (pw *pngWriter) writeSignature() {
	if pw.err != nil {
		return
	}
	_, pw.err = pw.w.Write([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A})
}

func (pw *pngWriter) writeChunk(typ string, data []byte) {
	if pw.err != nil {
		return
	}

	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(data)))
	if _, err := pw.w.Write(lenBuf[:]); err != nil {
		pw.err = err
		return
	}

	crc := crc32.NewIEEE()
	crc.Write([]byte(typ))
	crc.Write(data)

	if _, err := pw.w.Write([]byte(typ)); err != nil {
		pw.err = err
		return
	}
	if _, err := pw.w.Write(data); err != nil {
		pw.err = err
		return
	}

	var crcBuf [4]byte
	binary.BigEndian.PutUint32(crcBuf[:], crc.Sum32())
	if _, err := pw.w.Write(crcBuf[:]); err != nil {
		pw.err = err
	}
}

func (pw *pngWriter) writeIHDR(w, h int, colorType byte) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, uint32(w))
	binary.Write(&buf, binary.BigEndian, uint32(h))
	buf.WriteByte(8) // bit depth
	buf.WriteByte(colorType)
	buf.WriteByte(0) // compression method
	buf.WriteByte(0) // filter method
	buf.WriteByte(0) // interlace method
	pw.writeChunk("IHDR", buf.Bytes())
}

func (pw *pngWriter) writeIDAT(raw []byte, level int) {
	var compressed bytes.Buffer
	fw, err := flate.NewWriter(&compressed, level)
	if err != nil {
		pw.err = err
		return
	}
	if _, err := fw.Write(raw); err != nil {
		pw.err = err
		return
	}
	if err := fw.Close(); err != nil {
		pw.err = err
		return
	}

	// zlib framing: a 2-byte header and a 4-byte Adler-32 trailer around
	// the raw deflate stream flate.Writer produces.
	var zlibStream bytes.Buffer
	zlibStream.Write([]byte{0x78, 0x9C})
	zlibStream.Write(compressed.Bytes())
	var adlerBuf [4]byte
	binary.BigEndian.PutUint32(adlerBuf[:], adler32Sum(raw))
	zlibStream.Write(adlerBuf[:])

	pw.writeChunk("IDAT", zlibStream.Bytes())
}

func (pw *pngWriter) encodeTrueColor(img image.Image, level int) error {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	hasAlpha := imageHasAlphaChannel(img)
	colorType := byte(2)
	channels := 3
	if hasAlpha {
		colorType = 6
		channels = 4
	}

	pw.writeIHDR(w, h, colorType)

	raw := make([]byte, 0, h*(1+w*channels))
	for y := 0; y < h; y++ {
		raw = append(raw, 0) // no filter
		for x := 0; x < w; x++ {
			r, g, bl, a := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			if hasAlpha {
				// Undo premultiplication so PNG gets straight alpha.
				rr, gg, bb, aa := unpremultiply(r, g, bl, a)
				raw = append(raw, rr, gg, bb, aa)
			} else {
				raw = append(raw, uint8(r>>8), uint8(g>>8), uint8(bl>>8))
			}
		}
	}

	pw.writeIDAT(raw, level)
	pw.writeChunk("IEND", nil)
	return pw.err
}

func (pw *pngWriter) encodePaletted(img *image.Paletted, level int) error {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	pw.writeIHDR(w, h, 3)

	plte := make([]byte, 0, len(img.Palette)*3)
	trns := make([]byte, 0, len(img.Palette))
	needsTRNS := false
	for _, c := range img.Palette {
		r, g, bl, a := c.RGBA()
		plte = append(plte, uint8(r>>8), uint8(g>>8), uint8(bl>>8))
		alpha := uint8(a >> 8)
		if alpha != 0xFF {
			needsTRNS = true
		}
		trns = append(trns, alpha)
	}
	pw.writeChunk("PLTE", plte)
	if needsTRNS {
		pw.writeChunk("tRNS", trns)
	}

	raw := make([]byte, 0, h*(1+w))
	for y := 0; y < h; y++ {
		raw = append(raw, 0)
		row := img.Pix[y*img.Stride : y*img.Stride+w]
		raw = append(raw, row...)
	}

	pw.writeIDAT(raw, level)
	pw.writeChunk("IEND", nil)
	return pw.err
}

func imageHasAlphaChannel(img image.Image) bool {
	switch img.(type) {
	case *image.NRGBA, *image.NRGBA64, *image.RGBA64:
		return true
	default:
		return false
	}
}

func unpremultiply(r, g, b, a uint32) (uint8, uint8, uint8, uint8) {
	if a == 0 {
		return 0, 0, 0, 0
	}
	return uint8((r * 0xFFFF / a) >> 8), uint8((g * 0xFFFF / a) >> 8),
		uint8((b * 0xFFFF / a) >> 8), uint8(a >> 8)
}

// adler32Sum computes the Adler-32 checksum PNG's zlib framing requires.
func adler32Sum(data []byte) uint32 {
	const mod = 65521
	var a, bsum uint32 = 1, 0
	for _, d := range data {
		a = (a + uint32(d)) % mod
		bsum = (bsum + a) % mod
	}
	return bsum<<16 | a
}
