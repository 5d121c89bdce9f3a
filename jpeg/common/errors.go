package common

import "errors"

// Decode error kinds. Every failure in the JPEG pipeline wraps exactly one
// of these sentinels; callers match with errors.Is. All are fatal, there is
// no local recovery.
var (
	// ErrInvalidSignature means the SOI pattern is missing
	ErrInvalidSignature = errors.New("invalid JPEG signature")

	// ErrUnsupportedProfile means the stream is JPEG but not baseline
	// sequential 8-bit (progressive frames, 12-bit precision, unsupported
	// sampling factors or table destinations)
	ErrUnsupportedProfile = errors.New("unsupported JPEG profile")

	// ErrMalformedSegment means a segment's content contradicts its length
	// or its own fields
	ErrMalformedSegment = errors.New("malformed segment")

	// ErrEntropy means the entropy-coded data could not be decoded
	ErrEntropy = errors.New("entropy decode error")

	// ErrUnexpectedMarker means a marker appeared where it is not allowed
	ErrUnexpectedMarker = errors.New("unexpected marker")

	// ErrBounds means a read would run past the end of the input
	ErrBounds = errors.New("read out of bounds")
)
