package idup_test

import (
	"testing"

	"idup/internal/codec"
	"idup/internal/idup"
	"idup/internal/sniff"
	"idup/internal/testutil"
)

type testEnv struct {
	svc   *idup.IdupService
	fsmgr *testutil.MockFilesystemManager
	index idup.Index
	clock *testutil.StubClock
}

func newTestEnv(t *testing.T, workers int) *testEnv {
	t.Helper()
	index := testutil.NewTestIndex(t)
	fsmgr := testutil.NewMockFilesystemManager()
	clock := testutil.FixedClock()
	svc := idup.NewIdupService(index, codec.NewImagingCodec(), sniff.NewMimeClassifier(), fsmgr,
		idup.NewNopLogger(), clock, testutil.NewStubIDGenerator(), workers)
	return &testEnv{svc: svc, fsmgr: fsmgr, index: index, clock: clock}
}

func (e *testEnv) resolve(t *testing.T, p string) *idup.Path {
	t.Helper()
	path, err := e.fsmgr.Resolve(p)
	if err != nil {
		t.Fatalf("Resolve(%s) error = %v", p, err)
	}
	return path
}

// addPhotoTree lays out a small library: an image, its rotated copy in a
// subdirectory, an unrelated image, a text file and a truncated png.
func addPhotoTree(t *testing.T, fsmgr *testutil.MockFilesystemManager) {
	t.Helper()
	base := testutil.PatternImage(24, 16, 0)
	orig := testutil.EncodePNG(t, base)
	fsmgr.AddFile("/photos/a.png", orig)
	fsmgr.AddFile("/photos/sub/a-rotated.png", testutil.RotatedPNG(t, base))
	fsmgr.AddFile("/photos/sub/other.png", testutil.EncodePNG(t, testutil.PatternImage(20, 20, 99)))
	fsmgr.AddFile("/photos/notes.txt", []byte("shopping list: film, batteries\n"))
	fsmgr.AddFile("/photos/broken.png", orig[:64])
}
