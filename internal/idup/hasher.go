package idup

import (
	"bytes"
	"fmt"
	"image"

	"idup/internal/hash"
)

// Hasher computes the full hash set of an image: the raw file digest, the
// eight symmetry variant digests of the decoded pixel buffer and the
// perceptual hash.
type Hasher struct {
	codec Codec
}

// NewHasher creates a Hasher that decodes and transforms images with codec.
func NewHasher(codec Codec) *Hasher {
	return &Hasher{codec: codec}
}

// HashFile hashes the complete contents of an image file. The raw digest is
// taken over data itself, so it changes with metadata edits even when the
// pixels do not. A decode failure, or an image with no pixels, is reported
// as ErrDecode.
func (h *Hasher) HashFile(data []byte) ([]HashRecord, error) {
	img, err := h.codec.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if b := img.Bounds(); b.Empty() {
		return nil, fmt.Errorf("%w: empty %dx%d image", ErrDecode, b.Dx(), b.Dy())
	}

	records := make([]HashRecord, 0, 10)
	records = append(records, HashRecord{Kind: KindFile, Hash: hash.SHA256Hex(data)})
	records = append(records, h.SymmetryHashes(img)...)
	records = append(records, HashRecord{Kind: KindPHash, Hash: FormatPHash(h.PerceptualHash(img))})
	return records, nil
}

// SymmetryHashes returns one record per symmetry of the square, in the order
// of SymmetryKinds. Images that are pixel-identical up to rotation or
// mirroring share at least one digest across their two sets.
func (h *Hasher) SymmetryHashes(img image.Image) []HashRecord {
	flipped := h.codec.FlipVertical(img)
	variants := []image.Image{
		img,
		h.codec.Rotate90(img),
		h.codec.Rotate180(img),
		h.codec.Rotate270(img),
		flipped,
		h.codec.Rotate90(flipped),
		h.codec.Rotate180(flipped),
		h.codec.Rotate270(flipped),
	}

	kinds := SymmetryKinds()
	records := make([]HashRecord, len(variants))
	for i, v := range variants {
		records[i] = HashRecord{
			Kind: kinds[i],
			Hash: hash.SHA256Hex(h.codec.RawBytes(v)),
		}
	}
	return records
}

// PerceptualHash returns the average hash of img's 8x8 luma thumbnail.
func (h *Hasher) PerceptualHash(img image.Image) uint64 {
	thumb := h.codec.Thumbnail(img, hash.ThumbnailSize, hash.ThumbnailSize)
	return hash.AverageHash(thumb)
}
