package physics

import "errors"

var (
	// ErrInvalidMass indicates a body constructed with a non-positive or non-finite mass.
	ErrInvalidMass = errors.New("physics: mass must be positive and finite")

	// ErrInvalidElements indicates orbital elements that do not describe a bound ellipse.
	ErrInvalidElements = errors.New("physics: invalid orbital elements")

	// ErrUnknownKind indicates an unrecognised body classification.
	ErrUnknownKind = errors.New("physics: unknown body kind")
)
