package codec

// ImageDecoder is the universal interface for a single decodable image.
// A handle is obtained from a Plugin and drives decoding lazily: Size and
// ICCData require only the header, Frame runs the full pipeline. Once a
// decode fails, every subsequent operation returns the original error.
type ImageDecoder interface {
	// Size returns the image dimensions, or (0, 0) if the frame header
	// has not been decoded yet or decoding failed.
	Size() (width, height int)

	// Frame decodes and returns the frame at the given index.
	Frame(index int) (*Bitmap, error)

	// ICCData returns the embedded ICC color profile, or nil if the
	// image does not carry one. Decodes the header if necessary.
	ICCData() ([]byte, error)

	// FrameCount returns the number of frames in the image.
	FrameCount() int

	// LoopCount returns the number of animation loops (0 for still images).
	LoopCount() int

	// IsAnimated reports whether the image is an animation.
	IsAnimated() bool
}

// Plugin is the universal interface for all image format decoders.
type Plugin interface {
	// Sniff reports whether data looks like this plugin's format.
	Sniff(data []byte) bool

	// Create returns a decoder handle for the given encoded data.
	// The data is not validated beyond sniffing; errors surface lazily
	// from the ImageDecoder operations.
	Create(data []byte) (ImageDecoder, error)

	// Name returns a human-readable format name
	Name() string
}
