package protocol

import "errors"

var (
	// ErrMalformedFrame is returned when decode would read past the
	// buffer, or leaves trailing bytes unconsumed.
	ErrMalformedFrame = errors.New("protocol: malformed frame")

	// ErrUnknownType is returned when the discriminator is outside 1..6.
	ErrUnknownType = errors.New("protocol: unknown message type")
)
