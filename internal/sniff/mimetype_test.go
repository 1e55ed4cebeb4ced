package sniff

import (
	"bytes"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"

	"idup/internal/idup"
)

func encoded(t *testing.T, encode func(*bytes.Buffer, image.Image) error) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	var buf bytes.Buffer
	if err := encode(&buf, img); err != nil {
		t.Fatalf("encode error = %v", err)
	}
	return buf.Bytes()
}

func TestMimeClassifier_Classify(t *testing.T) {
	pngData := encoded(t, func(b *bytes.Buffer, i image.Image) error { return png.Encode(b, i) })
	jpegData := encoded(t, func(b *bytes.Buffer, i image.Image) error { return jpeg.Encode(b, i, nil) })
	gifData := encoded(t, func(b *bytes.Buffer, i image.Image) error { return gif.Encode(b, i, nil) })

	tests := []struct {
		name   string
		header []byte
		want   idup.FileClass
	}{
		{name: "png", header: pngData, want: idup.ClassImage},
		{name: "jpeg", header: jpegData, want: idup.ClassImage},
		{name: "gif", header: gifData, want: idup.ClassImage},
		{name: "plain text", header: []byte("hello, world\n"), want: idup.ClassOther},
		{name: "pdf", header: []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n"), want: idup.ClassOther},
		{name: "binary noise", header: []byte{0x00, 0x01, 0xfe, 0x02, 0x00, 0xff, 0x13}, want: idup.ClassUnknown},
		{name: "empty", header: nil, want: idup.ClassUnknown},
	}

	c := NewMimeClassifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := c.Classify(tt.header); got != tt.want {
				t.Errorf("Classify() = %v, want %v (detected %s)", got, tt.want, MIME(tt.header))
			}
		})
	}
}

func TestMimeClassifier_IgnoresExtension(t *testing.T) {
	// Only content is passed in; a truncated png header is still an image.
	header := encoded(t, func(b *bytes.Buffer, i image.Image) error { return png.Encode(b, i) })[:16]
	if got := NewMimeClassifier().Classify(header); got != idup.ClassImage {
		t.Errorf("Classify() = %v, want image", got)
	}
}
