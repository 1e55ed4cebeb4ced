package idup

import (
	"image"
	"io"
)

// Codec decodes images and applies the pixel transforms the hashers need.
type Codec interface {
	// Decode reads an image. It fails when the data is not a parseable image
	// or has no pixels.
	Decode(r io.Reader) (image.Image, error)

	// Thumbnail resizes img to exactly width x height with a Gaussian filter
	// and converts it to 8-bit luma.
	Thumbnail(img image.Image, width, height int) *image.Gray

	// Rotate90, Rotate180 and Rotate270 rotate clockwise.
	Rotate90(img image.Image) image.Image
	Rotate180(img image.Image) image.Image
	Rotate270(img image.Image) image.Image

	// FlipVertical mirrors img top to bottom.
	FlipVertical(img image.Image) image.Image

	// RawBytes returns the pixel buffer of img as 8-bit non-premultiplied
	// RGBA, row by row with no padding.
	RawBytes(img image.Image) []byte
}

// FileClass is the result of content sniffing.
type FileClass int

const (
	ClassUnknown FileClass = iota
	ClassImage
	ClassOther
)

func (c FileClass) String() string {
	switch c {
	case ClassImage:
		return "image"
	case ClassOther:
		return "other"
	default:
		return "unknown"
	}
}

// SniffLen is how many leading bytes a Classifier is given.
const SniffLen = 3072

// Classifier decides from file content, not the extension, whether a file is
// an image.
type Classifier interface {
	Classify(header []byte) FileClass
}
