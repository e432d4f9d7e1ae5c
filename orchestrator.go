package blendkit

import "strings"

// workerCount sizes the background pool that runs decode+composite+encode
// off the caller's goroutine (spec.md §4.6, §5: "must be >= 1 and must not
// block the calling thread"). Grounded on the teacher's video.go, which
// spins up opts.Workers goroutines reading a shared inbox channel; blendkit
// has no per-call knob for it since a blend job carries far less work than
// a video frame, so a fixed pool grounded on GOMAXPROCS-independent
// concurrency is used instead.
const workerCount = 4

type scheduledJob struct {
	j        *job
	callback func(error, []byte, []string)
}

var jobInbox = make(chan scheduledJob, workerCount*4)

func init() {
	for i := 0; i < workerCount; i++ {
		go blendWorker(jobInbox)
	}
}

// blendWorker is the background half of C7: it never suspends voluntarily
// and runs each job to completion before taking the next one, matching
// spec.md §5's "the worker never suspends voluntarily; it runs to
// completion."
func blendWorker(inbox <-chan scheduledJob) {
	for sj := range inbox {
		runJob(sj.j, sj.callback)
	}
}

// runJob executes the decode+composite+tint+encode pipeline for one
// validated job and invokes the callback exactly once, per spec.md §4.6's
// completion contract.
func runJob(j *job, callback func(error, []byte, []string)) {
	if err := composite(j); err != nil {
		callback(err, nil, nil)
		return
	}

	if j.output != nil {
		// Pass-through short circuit already produced the final bytes.
		callback(nil, j.output, j.warnings)
		return
	}

	if j.canvas != nil {
		applyTint(j.canvas, j.tint)
	}

	if err := encodeGuarded(j); err != nil {
		callback(err, nil, nil)
		return
	}

	callback(nil, j.output, j.warnings)
}

// encodeGuarded calls encodeJob with a recover() at the encoder boundary
// (spec.md §9: "catch any panic/exception at the encoder boundary and
// convert to a fatal message"), so a panic in a third-party encoder or
// quantizer backend (e.g. a corrupt caller-supplied Palette, or the
// 1lann/imagequant CGO call) fails only this job instead of the whole
// worker pool.
func encodeGuarded(j *job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = encoderErrorf("blendkit: encode: panic: %v", r)
		}
	}()
	return encodeJob(j)
}

// validate implements the synchronous argument-validation half of C7
// (spec.md §4.6, error taxonomy in §7). It never touches the network or
// disk and never blocks; a non-nil *Error here must be returned to the
// caller before anything is scheduled.
func validate(layers []LayerInput, opts *Options) (*job, error) {
	if opts == nil {
		opts = &Options{}
	}

	j := &job{
		width:    opts.Width,
		height:   opts.Height,
		reencode: opts.Reencode,
	}

	if j.width < 0 || j.height < 0 {
		return nil, argumentErrorf("canvas dimensions must not be negative")
	}

	format, err := parseFormat(opts.Format)
	if err != nil {
		return nil, err
	}
	j.format = format

	quality, err := parseQuality(format, opts.Quality)
	if err != nil {
		return nil, err
	}
	j.quality = quality

	if word := hexToARGB(opts.Matte); word != 0 {
		j.matte = word
		j.hasMatte = true
		j.reencode = true
	}

	if opts.Palette.Valid() {
		j.palette = opts.Palette
	}

	j.mode = parseMode(opts.Mode)
	j.backend = parseEncoder(opts.Encoder)

	compression, err := parseCompression(j.backend, opts.Compression)
	if err != nil {
		return nil, err
	}
	j.compression = compression

	tint, err := parseTint(opts.Tint)
	if err != nil {
		return nil, err
	}
	j.tint = tint

	if len(layers) == 0 {
		if !j.reencode || j.width <= 0 || j.height <= 0 {
			return nil, argumentErrorf("zero-layer jobs require reencode and an explicit width and height")
		}
	}

	j.layers = make([]*layer, len(layers))
	for i, in := range layers {
		if in.Buffer == nil {
			return nil, argumentErrorf("layer %d: buffer is required", i)
		}
		j.layers[i] = newLayer(in)
	}

	return j, nil
}

func parseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "png":
		return FormatPNG, nil
	case "jpeg", "jpg":
		return FormatJPEG, nil
	default:
		return 0, argumentErrorf("unrecognized output format %q", s)
	}
}

func parseQuality(format Format, quality int) (int, error) {
	if format == FormatJPEG {
		if quality == 0 {
			return 80, nil
		}
		if quality < 0 || quality > 100 {
			return 0, argumentErrorf("JPEG quality must be between 0 and 100")
		}
		return quality, nil
	}

	switch {
	case quality == 0:
		return 0, nil
	case quality == 1:
		return 0, argumentErrorf("PNG images must be quantized between 2 and 256 colors.")
	case quality < 0 || quality > 256:
		return 0, argumentErrorf("PNG images must be quantized between 2 and 256 colors.")
	default:
		return quality, nil
	}
}

func parseMode(s string) QuantizeMode {
	switch strings.ToLower(s) {
	case "hextree", "h":
		return ModeHextree
	default:
		return ModeOctree
	}
}

func parseEncoder(s string) EncoderBackend {
	if strings.ToLower(s) == "miniz" {
		return BackendMiniz
	}
	return BackendDefault
}

func parseCompression(backend EncoderBackend, level int) (int, error) {
	if level <= 0 {
		return 0, nil
	}

	max := zlibMaxCompression
	if backend == BackendMiniz {
		max = minizMaxCompression
	}
	if level > max {
		return 0, argumentErrorf("compression level %d exceeds the backend maximum of %d", level, max)
	}
	return level, nil
}

func parseTint(t *TintOptions) (tintParams, error) {
	if t == nil {
		return tintParams{Identity: true}, nil
	}

	for _, r := range []TintRange{t.H, t.S, t.L, t.A} {
		if r.Lo > r.Hi {
			return tintParams{}, argumentErrorf("malformed tint range: lo must not exceed hi")
		}
	}

	return tintParams{H: t.H, S: t.S, L: t.L, A: t.A, Identity: false}, nil
}
