package blendkit

// Format selects the output container for a blend job.
type Format int

// Supported output formats.
const (
	FormatPNG Format = iota
	FormatJPEG
)

// QuantizeMode selects the PNG8 quantizer backend (spec.md §4.5, §6).
type QuantizeMode int

// Supported quantizer backends.
const (
	ModeOctree QuantizeMode = iota
	ModeHextree
)

// EncoderBackend selects the deflate implementation used for PNG output
// (spec.md §4.5's "encoder backend ∈ {default, miniz}").
type EncoderBackend int

// Supported PNG encoder backends.
const (
	BackendDefault EncoderBackend = iota
	BackendMiniz
)

const (
	// zlibMaxCompression is the default backend's compression cap.
	zlibMaxCompression = 9
	// minizMaxCompression is the miniz backend's compression cap
	// (spec.md §4.5's "MZ_UBER").
	minizMaxCompression = 10
)

// TintRange is one (lo, hi) remap pair of the tint option surface
// (spec.md §3, §6). The range is currently unused by the transform itself
// (see DESIGN.md's Open Question decisions) but is preserved on the job
// so the option surface round-trips.
type TintRange struct {
	Lo, Hi float64
}

// TintOptions is the "tint" option from spec.md §6.
type TintOptions struct {
	H, S, L, A TintRange
}

// tintParams is the resolved, internal form of TintOptions (spec.md §3).
type tintParams struct {
	H, S, L, A TintRange
	Identity   bool
}

// Options configures a single Blend call (spec.md §6). Every field has a
// spec-defined zero-value meaning; the zero Options{} produces a
// straightforward true-color PNG composite with no matte and no tint, except
// that a single opaque layer exactly filling the canvas is passed through
// as its original encoded bytes.
type Options struct {
	// Format is "png", "jpeg", or "jpg". Defaults to PNG.
	Format string
	// Quality: JPEG 0-100 (0 => 80); PNG 0 (no quantization) or 2-256
	// (palette size); 1 is rejected.
	Quality int
	// Reencode forces the full decode+encode path even for a single
	// layer job that would otherwise qualify for pass-through.
	Reencode bool
	// Width and Height are the canvas size; 0 derives from the first
	// visible layer.
	Width, Height int
	// Matte is a "#RRGGBB" or "#RRGGBBAA" background color. Setting it
	// forces Reencode.
	Matte string
	// Palette, if valid, forces paletted PNG using it.
	Palette *Palette
	// Mode selects the PNG8 quantizer: "octree"/"o" (default) or
	// "hextree"/"h".
	Mode string
	// Encoder selects the PNG backend: "miniz", or default otherwise.
	Encoder string
	// Compression is 1..9 (default backend) or 1..10 (miniz); <= 0 picks
	// the backend default.
	Compression int
	// Tint carries the HSL remap ranges (see spec.md §9's open question).
	Tint *TintOptions
}

// job is the fully validated, internal form of a Blend call (C7 of
// spec.md §4.6). It is built once by validate() and never touched again
// by the calling goroutine.
type job struct {
	layers []*layer

	width, height int
	matte         uint32
	hasMatte      bool
	reencode      bool

	format      Format
	quality     int
	mode        QuantizeMode
	backend     EncoderBackend
	compression int
	palette     *Palette
	tint        tintParams

	warnings []string
	output   []byte

	canvas           *canvas
	alphaAccumResult bool
}
