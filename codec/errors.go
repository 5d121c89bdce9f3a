package codec

import "errors"

var (
	// ErrPluginNotFound is returned when a plugin is not found in the registry
	ErrPluginNotFound = errors.New("image plugin not found")

	// ErrUnknownFormat is returned when no registered plugin sniffs the data
	ErrUnknownFormat = errors.New("unknown image format")

	// ErrInvalidFrameIndex is returned for a frame index out of range
	ErrInvalidFrameIndex = errors.New("invalid frame index")

	// ErrInvalidDimensions is returned for non-positive bitmap dimensions
	ErrInvalidDimensions = errors.New("invalid bitmap dimensions")
)
