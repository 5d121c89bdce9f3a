package baseline

import (
	"github.com/cocosip/go-dicom/pkg/imaging/codec"
)

// Ensure Parameters implements codec.Parameters
var _ codec.Parameters = (*Parameters)(nil)

// Default decode limits. Frames larger than this are rejected before any
// pixel memory is allocated.
const (
	DefaultMaxWidth  = 16384
	DefaultMaxHeight = 16384
)

// Parameters contains decode limits for the baseline JPEG decoder
type Parameters struct {
	// MaxWidth is the largest accepted frame width in pixels
	MaxWidth int

	// MaxHeight is the largest accepted frame height in pixels
	MaxHeight int

	// internal storage for compatibility with generic parameter interface
	params map[string]interface{}
}

// NewParameters creates Parameters with the default limits
func NewParameters() *Parameters {
	return &Parameters{
		MaxWidth:  DefaultMaxWidth,
		MaxHeight: DefaultMaxHeight,
		params:    make(map[string]interface{}),
	}
}

// GetParameter retrieves a parameter by name (implements codec.Parameters)
func (p *Parameters) GetParameter(name string) interface{} {
	switch name {
	case "max_width":
		return p.MaxWidth
	case "max_height":
		return p.MaxHeight
	default:
		// Check custom parameters
		return p.params[name]
	}
}

// SetParameter sets a parameter value (implements codec.Parameters)
func (p *Parameters) SetParameter(name string, value interface{}) {
	switch name {
	case "max_width":
		if v, ok := value.(int); ok {
			p.MaxWidth = v
		}
	case "max_height":
		if v, ok := value.(int); ok {
			p.MaxHeight = v
		}
	default:
		// Store as custom parameter
		if p.params == nil {
			p.params = make(map[string]interface{})
		}
		p.params[name] = value
	}
}

// Validate checks the parameters and resets out-of-range limits to their
// defaults.
func (p *Parameters) Validate() error {
	if p.MaxWidth < 1 {
		p.MaxWidth = DefaultMaxWidth
	}
	if p.MaxHeight < 1 {
		p.MaxHeight = DefaultMaxHeight
	}
	return nil
}

// WithMaxDimensions sets the limits and returns the parameters for chaining
func (p *Parameters) WithMaxDimensions(width, height int) *Parameters {
	p.MaxWidth = width
	p.MaxHeight = height
	return p
}
