package baseline

import (
	"github.com/cocosip/go-image-codec/codec"
)

// Plugin implements the codec.Plugin interface for baseline JPEG
type Plugin struct{}

// NewPlugin creates a new baseline JPEG plugin
func NewPlugin() *Plugin {
	return &Plugin{}
}

// Sniff reports whether data carries the JPEG SOI pattern
func (p *Plugin) Sniff(data []byte) bool {
	return Sniff(data)
}

// Create returns a decoder handle for the data
func (p *Plugin) Create(data []byte) (codec.ImageDecoder, error) {
	return NewDecoder(data), nil
}

// Name returns the human-readable format name
func (p *Plugin) Name() string {
	return "jpeg"
}

// Decode is a convenience wrapper that decodes data in one call
func Decode(data []byte) (*codec.Bitmap, error) {
	return NewDecoder(data).Frame(0)
}

// Register the plugin with the global registry
func init() {
	codec.Register(NewPlugin())
}
