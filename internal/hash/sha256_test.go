package hash

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"
)

func TestSHA256Hex_KnownVectors(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{
			name:  "empty input",
			input: []byte{},
			want:  "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		},
		{
			name:  "abc",
			input: []byte("abc"),
			want:  "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		},
		{
			name:  "repeated letters",
			input: []byte("aaaabbbbcccc"),
			want:  "11c85195ae99540ac07f80e2905e6e39aaefc4ac94cd380f366e79ba83560566",
		},
		{
			name:  "exactly one block after padding (55 bytes)",
			input: bytes.Repeat([]byte("a"), 55),
			want:  "9f4390f8d30c2dd92ec9f095b65e2b9ae9b0a925a5258e241c9f1e910f734318",
		},
		{
			name:  "length spills padding into a second block (56 bytes)",
			input: bytes.Repeat([]byte("a"), 56),
			want:  "b35439a4ac6f0948b6d6f9e3c6af0f5f590ce20f1bde7090ef7970686ec6738a",
		},
		{
			name:  "one full block (64 bytes)",
			input: bytes.Repeat([]byte("a"), 64),
			want:  "ffe054fe7ae0cb6dc65c3af9b61d5209f439851db43d0ba5997337df154668eb",
		},
		{
			name:  "multiple blocks (70 bytes)",
			input: []byte("1111111111222222222233333333334444444444555555555566666666667777777777"),
			want:  "7c3bfca2e1355c1dd2c1343e490625b4a59a5c0aefb9d2177a55a6f5d464f369",
		},
		{
			name:  "NIST two-block message",
			input: []byte("abcdbcdecdefdefgefghfghighijhijkijkljklmklmnlmnomnopnopq"),
			want:  "248d6a61d20638b8e5c026930c3e6039a33ce45964ff2167f6ecedd419db06c1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SHA256Hex(tt.input)
			if got != tt.want {
				t.Errorf("SHA256Hex() = %s, want %s", got, tt.want)
			}
			if len(got) != 64 {
				t.Errorf("len(SHA256Hex()) = %d, want 64", len(got))
			}
		})
	}
}

func TestSHA256Hex_DistinguishesBlockCounts(t *testing.T) {
	single := SHA256Hex(bytes.Repeat([]byte("a"), 55))
	multi := SHA256Hex([]byte("1111111111222222222233333333334444444444555555555566666666667777777777"))
	if single == multi {
		t.Error("single-block and multi-block inputs produced the same digest")
	}
}

func TestSHA256Hex_Deterministic(t *testing.T) {
	data := []byte(strings.Repeat("idup", 100))
	if SHA256Hex(data) != SHA256Hex(data) {
		t.Error("same input produced different digests")
	}
}

func TestSHA256Hex_DoesNotModifyInput(t *testing.T) {
	data := []byte("abc")
	_ = SHA256Hex(data)
	if string(data) != "abc" || len(data) != 3 {
		t.Errorf("input modified: %q", data)
	}
}

func TestSHA256_MatchesStandardLibrary(t *testing.T) {
	// Every length around the padding boundaries of the first three blocks.
	for n := 0; n <= 3*BlockSize+1; n++ {
		data := make([]byte, n)
		for i := range data {
			data[i] = byte(i*7 + n)
		}
		want := sha256.Sum256(data)
		if got := Sum256(data); got != want {
			t.Fatalf("Sum256(len=%d) = %x, want %x", n, got, want)
		}
	}
}

func TestNew_StreamingWrites(t *testing.T) {
	data := bytes.Repeat([]byte("0123456789"), 1000)
	want := sha256.Sum256(data)

	chunkSizes := []int{1, 3, 63, 64, 65, 1000}
	for _, size := range chunkSizes {
		h := New()
		for i := 0; i < len(data); i += size {
			end := min(i+size, len(data))
			h.Write(data[i:end])
		}
		if got := h.Sum(nil); !bytes.Equal(got, want[:]) {
			t.Errorf("chunk size %d: got %x, want %x", size, got, want)
		}
	}
}

func TestNew_SumLeavesStateUntouched(t *testing.T) {
	h := New()
	h.Write([]byte("ab"))
	first := h.Sum(nil)
	if hex.EncodeToString(first) != SHA256Hex([]byte("ab")) {
		t.Fatalf("Sum() after \"ab\" = %x", first)
	}

	h.Write([]byte("c"))
	if got := hex.EncodeToString(h.Sum(nil)); got != SHA256Hex([]byte("abc")) {
		t.Errorf("Sum() after \"abc\" = %s, want %s", got, SHA256Hex([]byte("abc")))
	}
}

func TestNew_Reset(t *testing.T) {
	h := New()
	h.Write([]byte("garbage"))
	h.Reset()
	if got := hex.EncodeToString(h.Sum(nil)); got != "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855" {
		t.Errorf("Sum() after Reset() = %s, want empty digest", got)
	}
	if h.Size() != Size {
		t.Errorf("Size() = %d, want %d", h.Size(), Size)
	}
	if h.BlockSize() != BlockSize {
		t.Errorf("BlockSize() = %d, want %d", h.BlockSize(), BlockSize)
	}
}
