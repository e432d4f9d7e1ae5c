package blendkit

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
)

var pngSignature = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
var jpegSignature = []byte{0xFF, 0xD8, 0xFF}

type imageFormat int

const (
	formatUnknown imageFormat = iota
	formatPNG
	formatJPEG
)

// sniffFormat identifies PNG/JPEG from the leading bytes of a buffer, per
// spec.md §4.2 and §6.
func sniffFormat(buf []byte) imageFormat {
	if bytes.HasPrefix(buf, pngSignature) {
		return formatPNG
	}
	if bytes.HasPrefix(buf, jpegSignature) {
		return formatJPEG
	}
	return formatUnknown
}

// decoderFacade is C3 of spec.md §4.2: it identifies a buffer's format,
// exposes width/height/alpha without materializing pixels, and decode()s
// on demand into an owned ARGB surface.
type decoderFacade struct {
	buf    []byte
	format imageFormat

	Width, Height int
	Alpha         bool

	Warnings []string
	Message  string

	surface []uint32
}

// newDecoder sniffs buf and reads its header. If sniffing fails, the
// returned facade has Width == Height == 0, which the orchestrator treats
// as fatal (spec.md §4.2).
func newDecoder(buf []byte) *decoderFacade {
	d := &decoderFacade{buf: buf, format: sniffFormat(buf)}

	switch d.format {
	case formatPNG:
		cfg, err := png.DecodeConfig(bytes.NewReader(buf))
		if err != nil {
			d.Message = "png: " + err.Error()
			return d
		}
		d.Width, d.Height = cfg.Width, cfg.Height
		d.Alpha = colorModelMayHaveAlpha(cfg.ColorModel)
	case formatJPEG:
		cfg, err := jpeg.DecodeConfig(bytes.NewReader(buf))
		if err != nil {
			d.Message = "jpeg: " + err.Error()
			return d
		}
		d.Width, d.Height = cfg.Width, cfg.Height
		d.Alpha = false
	default:
		// Width/Height stay 0; the caller treats this as fatal.
	}

	return d
}

// colorModelMayHaveAlpha reports whether a decoded PNG's color model can
// carry non-opaque pixels: NRGBA(64) color types always can, and a
// palette carries alpha if any of its entries are non-opaque (i.e. the
// image has a tRNS chunk). Every other model reports false; this includes
// grayscale and truecolor images that carry a tRNS color key, since
// image/png's DecodeConfig reports those with an opaque color model.
func colorModelMayHaveAlpha(model color.Model) bool {
	if model == color.NRGBA64Model || model == color.NRGBAModel {
		return true
	}
	switch m := model.(type) {
	case color.Palette:
		for _, c := range m {
			_, _, _, a := c.RGBA()
			if a != 0xFFFF {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// decode materializes the buffer into an owned ARGB surface. It records
// the decode-time warnings in d.Warnings (unprefixed; the caller prefixes
// them with the layer index per spec.md §4.3.1 step 7) and returns a fatal
// error, if any.
func (d *decoderFacade) decode() error {
	switch d.format {
	case formatPNG:
		img, err := png.Decode(bytes.NewReader(d.buf))
		if err != nil {
			d.Message = "png: " + err.Error()
			return decodeError(d.Message)
		}
		if hasGammaChunk(d.buf) {
			d.Warnings = append(d.Warnings, "gAMA chunk present, ignored (no gamma correction is applied)")
		}
		d.surface = imageToARGB(img)
	case formatJPEG:
		img, err := jpeg.Decode(bytes.NewReader(d.buf))
		if err != nil {
			d.Message = "jpeg: " + err.Error()
			return decodeError(d.Message)
		}
		d.surface = imageToARGB(img)
	default:
		d.Message = "unrecognized image format"
		return decodeError(d.Message)
	}

	return nil
}

func (d *decoderFacade) surfacePixels() []uint32 { return d.surface }

// hasGammaChunk does a cheap scan of the raw PNG bytes for a gAMA chunk,
// purely to surface a non-fatal warning; it never affects decoding.
func hasGammaChunk(buf []byte) bool {
	pos := len(pngSignature)
	for pos+8 <= len(buf) {
		length := int(buf[pos])<<24 | int(buf[pos+1])<<16 | int(buf[pos+2])<<8 | int(buf[pos+3])
		typ := string(buf[pos+4 : pos+8])
		if typ == "gAMA" {
			return true
		}
		if typ == "IDAT" || typ == "IEND" {
			return false
		}
		pos += 8 + length + 4 // length + type + data + crc
		if length < 0 {
			return false
		}
	}
	return false
}

// imageToARGB converts a decoded image.Image into the packed ARGB layout
// of spec.md §3. Values are stored straight (non-premultiplied), which is
// what the composite step's blend arithmetic expects; the generic
// image.Color.RGBA() method always returns premultiplied channels, so
// concrete image types are unpacked directly wherever possible.
func imageToARGB(img image.Image) []uint32 {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := make([]uint32, w*h)

	switch src := img.(type) {
	case *image.NRGBA:
		i := 0
		for y := b.Min.Y; y < b.Max.Y; y++ {
			row := src.Pix[(y-b.Min.Y)*src.Stride:]
			for x := 0; x < w; x++ {
				p := row[x*4 : x*4+4]
				out[i] = packARGB(uint32(p[3]), uint32(p[0]), uint32(p[1]), uint32(p[2]))
				i++
			}
		}
	case *image.NRGBA64:
		i := 0
		for y := b.Min.Y; y < b.Max.Y; y++ {
			row := src.Pix[(y-b.Min.Y)*src.Stride:]
			for x := 0; x < w; x++ {
				p := row[x*8 : x*8+8]
				out[i] = packARGB(uint32(p[6]), uint32(p[0]), uint32(p[2]), uint32(p[4]))
				i++
			}
		}
	case *image.RGBA:
		// Always opaque when produced by image/png (color type 2), so
		// premultiplied == straight.
		i := 0
		for y := b.Min.Y; y < b.Max.Y; y++ {
			row := src.Pix[(y-b.Min.Y)*src.Stride:]
			for x := 0; x < w; x++ {
				p := row[x*4 : x*4+4]
				out[i] = packARGB(uint32(p[3]), uint32(p[0]), uint32(p[1]), uint32(p[2]))
				i++
			}
		}
	case *image.Gray:
		i := 0
		for y := b.Min.Y; y < b.Max.Y; y++ {
			row := src.Pix[(y-b.Min.Y)*src.Stride:]
			for x := 0; x < w; x++ {
				v := uint32(row[x])
				out[i] = packARGB(0xFF, v, v, v)
				i++
			}
		}
	case *image.Paletted:
		i := 0
		for y := b.Min.Y; y < b.Max.Y; y++ {
			row := src.Pix[(y-b.Min.Y)*src.Stride:]
			for x := 0; x < w; x++ {
				// image/png stores tRNS-carrying entries as color.NRGBA and the
				// rest as color.RGBA; converting to NRGBA covers both.
				c := color.NRGBAModel.Convert(src.Palette[row[x]]).(color.NRGBA)
				out[i] = packARGB(uint32(c.A), uint32(c.R), uint32(c.G), uint32(c.B))
				i++
			}
		}
	default:
		i := 0
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				r, g, bl, a := img.At(x, y).RGBA()
				out[i] = packARGB(a>>8, r>>8, g>>8, bl>>8)
				i++
			}
		}
	}

	return out
}
