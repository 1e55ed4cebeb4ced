package hash

import (
	"fmt"
	"image"
)

// ThumbnailSize is the side length of the luma thumbnail the average hash is
// computed over.
const ThumbnailSize = 8

// AverageHash returns the 64-bit average hash of an 8x8 luma thumbnail.
//
// Pixels are visited in row-major order. A pixel brighter than the truncated
// mean adds 1 to the accumulator, and the accumulator is shifted left after
// every pixel, including the last. Bit 0 is therefore always zero, the second
// pixel lands on bit 63 and the first pixel's bit is shifted out. Stored
// fingerprints depend on this layout.
//
// AverageHash panics if thumb is not exactly 8x8.
func AverageHash(thumb *image.Gray) uint64 {
	b := thumb.Bounds()
	if b.Dx() != ThumbnailSize || b.Dy() != ThumbnailSize {
		panic(fmt.Sprintf("hash: average hash needs an %dx%d thumbnail, got %dx%d",
			ThumbnailSize, ThumbnailSize, b.Dx(), b.Dy()))
	}

	// At most 64*255 = 16320, well inside uint32.
	var total uint32
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			total += uint32(thumb.GrayAt(x, y).Y)
		}
	}
	avg := total / (ThumbnailSize * ThumbnailSize)

	var h uint64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if uint32(thumb.GrayAt(x, y).Y) > avg {
				h++
			}
			h <<= 1
		}
	}
	return h
}
