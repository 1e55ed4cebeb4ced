package idup_test

import (
	"errors"
	"image"
	"image/color"
	"io"
	"testing"

	"idup/internal/codec"
	"idup/internal/hash"
	"idup/internal/idup"
	"idup/internal/testutil"
)

func recordMap(records []idup.HashRecord) map[idup.HashKind]string {
	m := make(map[idup.HashKind]string, len(records))
	for _, r := range records {
		m[r.Kind] = r.Hash
	}
	return m
}

func TestHasher_HashFile(t *testing.T) {
	h := idup.NewHasher(codec.NewImagingCodec())
	data := testutil.EncodePNG(t, testutil.PatternImage(12, 8, 3))

	records, err := h.HashFile(data)
	if err != nil {
		t.Fatalf("HashFile() error = %v", err)
	}

	t.Run("order and count", func(t *testing.T) {
		want := append([]idup.HashKind{idup.KindFile}, idup.SymmetryKinds()...)
		want = append(want, idup.KindPHash)
		if len(records) != len(want) {
			t.Fatalf("len(records) = %d, want %d", len(records), len(want))
		}
		for i, r := range records {
			if r.Kind != want[i] {
				t.Errorf("records[%d].Kind = %s, want %s", i, r.Kind, want[i])
			}
		}
	})

	t.Run("raw digest is over file bytes", func(t *testing.T) {
		if records[0].Hash != hash.SHA256Hex(data) {
			t.Errorf("KindFile hash = %s, want %s", records[0].Hash, hash.SHA256Hex(data))
		}
	})

	t.Run("symmetry digests are distinct for an asymmetric image", func(t *testing.T) {
		seen := make(map[string]idup.HashKind)
		for _, r := range records[1:9] {
			if len(r.Hash) != 64 {
				t.Errorf("%s hash length = %d, want 64", r.Kind, len(r.Hash))
			}
			if prev, ok := seen[r.Hash]; ok {
				t.Errorf("%s and %s share a digest", prev, r.Kind)
			}
			seen[r.Hash] = r.Kind
		}
	})

	t.Run("phash is decimal", func(t *testing.T) {
		if _, err := idup.ParsePHash(records[9].Hash); err != nil {
			t.Errorf("phash %q does not parse: %v", records[9].Hash, err)
		}
	})
}

func TestHasher_HashFile_DecodeError(t *testing.T) {
	h := idup.NewHasher(codec.NewImagingCodec())
	_, err := h.HashFile([]byte("\x89PNG\r\n\x1a\nnot really"))
	if !errors.Is(err, idup.ErrDecode) {
		t.Errorf("HashFile() error = %v, want ErrDecode", err)
	}
}

// emptyCodec decodes everything to an image with no pixels.
type emptyCodec struct {
	*codec.ImagingCodec
}

func (emptyCodec) Decode(io.Reader) (image.Image, error) {
	return image.NewNRGBA(image.Rect(0, 0, 0, 0)), nil
}

func TestHasher_HashFile_EmptyImage(t *testing.T) {
	tests := []struct {
		name  string
		codec idup.Codec
		data  []byte
	}{
		{"zero-size bmp", codec.NewImagingCodec(), testutil.EmptyBMP()},
		{"codec returning no pixels", emptyCodec{codec.NewImagingCodec()}, []byte("anything")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := idup.NewHasher(tt.codec).HashFile(tt.data)
			if !errors.Is(err, idup.ErrDecode) {
				t.Errorf("HashFile() error = %v, want ErrDecode", err)
			}
		})
	}
}

func TestHasher_RotatedCopyShareDigests(t *testing.T) {
	h := idup.NewHasher(codec.NewImagingCodec())
	base := testutil.PatternImage(10, 6, 7)

	orig, err := h.HashFile(testutil.EncodePNG(t, base))
	if err != nil {
		t.Fatalf("HashFile(original) error = %v", err)
	}
	rotated, err := h.HashFile(testutil.RotatedPNG(t, base))
	if err != nil {
		t.Fatalf("HashFile(rotated) error = %v", err)
	}
	flipped, err := h.HashFile(testutil.FlippedPNG(t, base))
	if err != nil {
		t.Fatalf("HashFile(flipped) error = %v", err)
	}

	o, r, f := recordMap(orig), recordMap(rotated), recordMap(flipped)

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"rotated imgdata is original rot90", r[idup.KindImgData], o[idup.KindImgDataRot90]},
		{"rotated rot270 is original imgdata", r[idup.KindImgDataRot270], o[idup.KindImgData]},
		{"rotated rot180 is original rot270", r[idup.KindImgDataRot180], o[idup.KindImgDataRot270]},
		{"flipped imgdata is original flipv", f[idup.KindImgData], o[idup.KindImgDataFlipV]},
		{"flipped flipv is original imgdata", f[idup.KindImgDataFlipV], o[idup.KindImgData]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %s, want %s", tt.got, tt.want)
			}
		})
	}

	if r[idup.KindFile] == o[idup.KindFile] {
		t.Error("rotated copy should have a different raw file digest")
	}
}

func TestHasher_PixelLayoutIndependence(t *testing.T) {
	h := idup.NewHasher(codec.NewImagingCodec())

	gray := image.NewGray(image.Rect(0, 0, 9, 5))
	rgba := image.NewNRGBA(image.Rect(0, 0, 9, 5))
	for y := 0; y < 5; y++ {
		for x := 0; x < 9; x++ {
			v := uint8(x*25 + y*3)
			gray.SetGray(x, y, color.Gray{Y: v})
			rgba.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}

	g, err := h.HashFile(testutil.EncodePNG(t, gray))
	if err != nil {
		t.Fatalf("HashFile(gray) error = %v", err)
	}
	c, err := h.HashFile(testutil.EncodePNG(t, rgba))
	if err != nil {
		t.Fatalf("HashFile(rgba) error = %v", err)
	}

	gm, cm := recordMap(g), recordMap(c)
	if gm[idup.KindFile] == cm[idup.KindFile] {
		t.Error("different encodings should have different raw file digests")
	}
	for _, k := range idup.SymmetryKinds() {
		if gm[k] != cm[k] {
			t.Errorf("%s differs between gray and rgba encodings of the same pixels", k)
		}
	}
	if gm[idup.KindPHash] != cm[idup.KindPHash] {
		t.Errorf("phash differs: %s vs %s", gm[idup.KindPHash], cm[idup.KindPHash])
	}
}

func TestHasher_PerceptualHash(t *testing.T) {
	h := idup.NewHasher(codec.NewImagingCodec())
	img := testutil.PatternImage(32, 32, 1)

	if h.PerceptualHash(img) != h.PerceptualHash(img) {
		t.Error("PerceptualHash() is not deterministic")
	}

	leftDark := image.NewGray(image.Rect(0, 0, 64, 64))
	topDark := image.NewGray(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			if x >= 32 {
				leftDark.SetGray(x, y, color.Gray{Y: 255})
			}
			if y >= 32 {
				topDark.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	if d := hash.Distance(h.PerceptualHash(leftDark), h.PerceptualHash(topDark)); d == 0 {
		t.Error("orthogonal half images should not share a perceptual hash")
	}
}
