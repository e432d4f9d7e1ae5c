package blendkit

import "image"

// quantize dispatches to the octree or hextree backend, both of which
// satisfy the same "ARGB buffer + target palette size -> indexed image +
// palette" contract spec.md §1 assigns to the (out-of-scope) quantizer
// collaborator.
func quantize(cv *canvas, mode QuantizeMode, maxColors int) (*image.Paletted, error) {
	switch mode {
	case ModeHextree:
		return hextreeQuantize(cv, maxColors)
	default:
		return octreeQuantize(cv, maxColors)
	}
}
