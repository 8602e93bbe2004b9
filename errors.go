package card2png

import "errors"

var (
	// ErrMissingResource reports a font, config file or image that could not
	// be found where it was expected.
	ErrMissingResource = errors.New("card2png: missing resource")

	// ErrMissingText reports a card without the text a required element needs.
	ErrMissingText = errors.New("card2png: missing required text")

	// ErrBelowMinimumFontSize is logged when shrink-to-fit hits the floor.
	// Rendering continues at the floor size.
	ErrBelowMinimumFontSize = errors.New("card2png: text does not fit at minimum font size")
)
