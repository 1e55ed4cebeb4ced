// Package codec decodes images and applies the pixel transforms used for
// hashing, on top of github.com/disintegration/imaging.
package codec

import (
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"

	// Formats beyond the ones imaging registers.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"idup/internal/idup"
)

// ImagingCodec implements idup.Codec. Every image it returns is an
// *image.NRGBA anchored at the origin, so pixel buffers of equal images are
// byte-identical no matter which format they were decoded from.
type ImagingCodec struct{}

// NewImagingCodec creates a new ImagingCodec.
func NewImagingCodec() *ImagingCodec {
	return &ImagingCodec{}
}

// Decode decodes an image in any registered format. Images with no pixels
// are rejected. EXIF orientation is not applied; rotated copies are matched
// through the symmetry hashes instead.
func (c *ImagingCodec) Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	if b := img.Bounds(); b.Empty() {
		return nil, fmt.Errorf("decoding image: empty %dx%d image", b.Dx(), b.Dy())
	}
	return imaging.Clone(img), nil
}

// Thumbnail resizes to exactly width x height with a Gaussian filter and
// converts to 8-bit luma.
func (c *ImagingCodec) Thumbnail(img image.Image, width, height int) *image.Gray {
	resized := imaging.Resize(img, width, height, imaging.Gaussian)
	gray := image.NewGray(resized.Bounds())
	draw.Draw(gray, gray.Bounds(), resized, resized.Bounds().Min, draw.Src)
	return gray
}

// imaging rotates counter-clockwise.

func (c *ImagingCodec) Rotate90(img image.Image) image.Image {
	return imaging.Rotate270(img)
}

func (c *ImagingCodec) Rotate180(img image.Image) image.Image {
	return imaging.Rotate180(img)
}

func (c *ImagingCodec) Rotate270(img image.Image) image.Image {
	return imaging.Rotate90(img)
}

func (c *ImagingCodec) FlipVertical(img image.Image) image.Image {
	return imaging.FlipV(img)
}

// RawBytes returns the NRGBA pixel buffer of img without row padding.
func (c *ImagingCodec) RawBytes(img image.Image) []byte {
	nrgba, ok := img.(*image.NRGBA)
	if !ok || nrgba.Rect.Min != (image.Point{}) || nrgba.Stride != 4*nrgba.Rect.Dx() {
		nrgba = imaging.Clone(img)
	}
	return nrgba.Pix[:4*nrgba.Rect.Dx()*nrgba.Rect.Dy()]
}

var _ idup.Codec = (*ImagingCodec)(nil)
