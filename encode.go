package blendkit

import (
	"bytes"
	"image"
	"image/jpeg"
	"io"
)

// encodeJob implements the decision tree of spec.md §4.5, given the
// composited canvas, the job options, and the alpha_accum flag carried
// forward from the composite step.
func encodeJob(j *job) error {
	cv := j.canvas

	if j.format == FormatJPEG {
		return encodeJPEG(j, cv)
	}

	return encodePNGJob(j, cv)
}

func encodeJPEG(j *job, cv *canvas) error {
	quality := j.quality
	if quality <= 0 {
		quality = 80
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, cv.toRGBAOpaque(), &jpeg.Options{Quality: quality}); err != nil {
		return encoderErrorf("blendkit: encode: jpeg: %s", err)
	}
	j.output = buf.Bytes()
	return nil
}

// writePNG dispatches to the default (stdlib) or miniz PNG backend
// selected by the job's Options.Encoder field.
func writePNG(w io.Writer, j *job, img image.Image) error {
	if j.backend == BackendMiniz {
		return encodePNGMiniz(w, img, j.compression)
	}
	return encodePNGDefault(w, img, j.compression)
}

func encodePNGJob(j *job, cv *canvas) error {
	var buf bytes.Buffer
	var err error

	switch {
	case j.palette.Valid():
		err = writePNG(&buf, j, cv.toPalettedNearest(j.palette.goPalette()))
	case j.quality > 0:
		mode := ModeOctree
		if j.alphaAccumResult && j.mode == ModeHextree {
			mode = ModeHextree
		}
		var paletted *image.Paletted
		paletted, err = quantize(cv, mode, j.quality)
		if err == nil {
			err = writePNG(&buf, j, paletted)
		}
	default:
		if j.alphaAccumResult {
			err = writePNG(&buf, j, cv.toNRGBA())
		} else {
			err = writePNG(&buf, j, cv.toRGBAOpaque())
		}
	}

	if err != nil {
		if enc, ok := err.(*Error); ok {
			return enc
		}
		return encoderErrorf("blendkit: encode: png: %s", err)
	}

	j.output = buf.Bytes()
	return nil
}
