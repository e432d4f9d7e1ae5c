package blendkit

// LayerInput is one element of the ordered stack passed to Blend. X and Y
// default to 0 when omitted, placing the layer's top-left corner at the
// canvas origin. Index 0 is the bottom of the stack; the last element is
// the top.
type LayerInput struct {
	Buffer []byte
	X, Y   int
}

// layer is the internal, fully-resolved descriptor for one input layer
// (C2 of spec.md §4). Encoded is owned for the job's lifetime; Surface is
// populated only if decode() actually ran for this layer.
type layer struct {
	Encoded []byte
	X, Y    int

	Width, Height int
	HasAlpha      bool

	Surface []uint32 // width*height ARGB pixels, nil until decoded
}

func newLayer(in LayerInput) *layer {
	return &layer{Encoded: in.Buffer, X: in.X, Y: in.Y}
}

// visibleWidth and visibleHeight are the layer's right/bottom edge in
// canvas space, used by the decode-skip walk (spec.md §4.3.1 step 3).
func (l *layer) visibleWidth() int  { return l.Width + l.X }
func (l *layer) visibleHeight() int { return l.Height + l.Y }

// outsideViewport reports whether the layer contributes nothing to a
// canvas of the given size (spec.md §4.3.1 step 5).
func (l *layer) outsideViewport(canvasW, canvasH int) bool {
	vw, vh := l.visibleWidth(), l.visibleHeight()
	return vw <= 0 || vh <= 0 || l.X >= canvasW || l.Y >= canvasH
}

// coversCanvas reports whether the layer, once decoded and found fully
// opaque, hides everything beneath it (spec.md §4.3.1 step 8).
func (l *layer) coversCanvas(canvasW, canvasH int) bool {
	return l.X <= 0 && l.visibleWidth() >= canvasW &&
		l.Y <= 0 && l.visibleHeight() >= canvasH
}

// exactlyFills reports whether the layer's decoded bounds are pixel for
// pixel identical to the canvas at the origin, the precondition for the
// pass-through short circuit (spec.md §4.3.1 step 6).
func (l *layer) exactlyFills(canvasW, canvasH int) bool {
	return l.X == 0 && l.Y == 0 && l.Width == canvasW && l.Height == canvasH
}
