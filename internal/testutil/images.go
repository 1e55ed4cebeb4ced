package testutil

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/disintegration/imaging"
)

// PatternImage returns a w x h image with no rotational or mirror symmetry,
// seeded by seed so different seeds give different pixels.
func PatternImage(w, h int, seed uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x*255/w) + seed,
				G: uint8(y*255/h) ^ seed,
				B: uint8(x*7+y*13) + seed,
				A: 255,
			})
		}
	}
	return img
}

// EncodePNG encodes img as PNG.
func EncodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding png: %v", err)
	}
	return buf.Bytes()
}

// EmptyBMP returns a well-formed 24-bit BMP header declaring a 0x0 image.
// It sniffs as image/bmp and decodes without error in the bmp package.
func EmptyBMP() []byte {
	b := make([]byte, 54)
	copy(b, "BM")
	binary.LittleEndian.PutUint32(b[2:], 54)  // file size
	binary.LittleEndian.PutUint32(b[10:], 54) // pixel data offset
	binary.LittleEndian.PutUint32(b[14:], 40) // BITMAPINFOHEADER
	binary.LittleEndian.PutUint16(b[26:], 1)  // planes
	binary.LittleEndian.PutUint16(b[28:], 24) // bits per pixel
	return b
}

// RotatedPNG encodes img rotated 90 degrees clockwise.
func RotatedPNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	return EncodePNG(t, imaging.Rotate270(img))
}

// FlippedPNG encodes img flipped top to bottom.
func FlippedPNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	return EncodePNG(t, imaging.FlipV(img))
}
