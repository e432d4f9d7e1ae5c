// Package blendkit composites stacks of PNG/JPEG layers into a single
// output image (spec.md §1's "server-side tile assembler"): decode-skip
// aware, alpha-correct, and able to re-encode as true-color or paletted PNG
// or JPEG.
package blendkit

// Callback is the completion contract of spec.md §6: exactly one of the
// two forms fires. On success err is nil and buffer/warnings are set; on
// failure err is non-nil and buffer/warnings are both nil.
type Callback func(err error, buffer []byte, warnings []string)

// Blend validates layers and opts synchronously (spec.md §4.6's
// "Argument validation (synchronous, on the calling thread)") and, if they
// are well formed, schedules the decode+composite+encode pipeline on a
// background worker. callback always runs on a goroutine other than the
// caller's — Go has no single "caller thread" to return to, so blendkit
// documents this deviation from spec.md §5's callback-on-caller-thread
// contract rather than fake it with a channel round-trip nothing needs.
//
// A non-nil error return means validation failed and callback was never
// invoked, matching spec.md §7's "ArgumentErrors are thrown/returned
// synchronously from the entry function."
func Blend(layers []LayerInput, opts *Options, callback Callback) error {
	if callback == nil {
		return argumentErrorf("callback is required")
	}

	j, err := validate(layers, opts)
	if err != nil {
		return err
	}

	jobInbox <- scheduledJob{j: j, callback: callback}
	return nil
}
