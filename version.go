package blendkit

// PNGLibraryVersion and JPEGLibraryMajorVersion are the exposed,
// read-only constants of spec.md §6 ("The bound library must publish...
// the PNG library version string and the JPEG library major version
// number"). The original implementation reported libpng's and libjpeg's
// own version macros (original_source/src/blend.cpp); blendkit decodes PNG
// with the standard library and re-encodes true-color/paletted PNG with
// either the standard library or the klauspost/compress/flate-backed
// miniz backend, so PNGLibraryVersion names the module behind the miniz
// backend's deflate stream (the default backend deflates with the standard
// library); it carries no version number. JPEGLibraryMajorVersion is fixed at 6 to match the
// libjpeg major version the original bound (image/jpeg has no version of
// its own to report).
const (
	PNGLibraryVersion       = "klauspost/compress"
	JPEGLibraryMajorVersion = 6
)
