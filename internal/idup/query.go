package idup

import (
	"fmt"

	"idup/internal/hash"
)

// ImageInfo describes what is known about one file.
type ImageInfo struct {
	Path     string
	Indexed  bool
	Records  []HashRecord
	Partials []PartialHashRecord
	// Duplicates is only filled for indexed images.
	Duplicates []string
}

// PHash returns the perceptual hash in the record set.
func (i *ImageInfo) PHash() (uint64, bool) {
	v, ok, err := PHashOf(i.Records)
	if err != nil {
		return 0, false
	}
	return v, ok
}

// Info returns the stored hash set of path. A file that is not indexed is
// hashed on the fly and reported with Indexed set to false; nothing is
// written to the index.
func (s *IdupService) Info(path *Path) (*ImageInfo, error) {
	if path.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path.String())
	}

	img, err := s.index.FindImage(path.String())
	if err != nil {
		return nil, fmt.Errorf("%w: finding image: %v", ErrStorage, err)
	}

	if img == nil {
		records, err := s.hashAdHoc(path)
		if err != nil {
			return nil, err
		}
		info := &ImageInfo{Path: path.String(), Records: records}
		if v, ok := info.PHash(); ok {
			info.Partials = SplitPHash(v)
		}
		return info, nil
	}

	records, err := s.index.HashesForImage(path.String())
	if err != nil {
		return nil, fmt.Errorf("%w: reading hashes: %v", ErrStorage, err)
	}
	partials, err := s.index.PartialHashesForImage(path.String())
	if err != nil {
		return nil, fmt.Errorf("%w: reading partial hashes: %v", ErrStorage, err)
	}
	dups, err := s.index.ExactMatch(path.String())
	if err != nil {
		return nil, fmt.Errorf("%w: matching: %v", ErrStorage, err)
	}

	return &ImageInfo{
		Path:       path.String(),
		Indexed:    true,
		Records:    records,
		Partials:   partials,
		Duplicates: dups,
	}, nil
}

// PHashResult is the perceptual hash of one side of a comparison.
type PHashResult struct {
	Path    string
	PHash   uint64
	Indexed bool
}

// Comparison is the result of comparing two files by perceptual hash.
type Comparison struct {
	A        PHashResult
	B        PHashResult
	Distance uint8
}

// Compare returns the Hamming distance between the perceptual hashes of a
// and b. Stored hashes are preferred; missing ones are computed.
func (s *IdupService) Compare(a, b *Path) (*Comparison, error) {
	ra, err := s.phashFor(a)
	if err != nil {
		return nil, err
	}
	rb, err := s.phashFor(b)
	if err != nil {
		return nil, err
	}
	return &Comparison{
		A:        ra,
		B:        rb,
		Distance: hash.Distance(ra.PHash, rb.PHash),
	}, nil
}

func (s *IdupService) phashFor(path *Path) (PHashResult, error) {
	res := PHashResult{Path: path.String()}
	if path.IsDir() {
		return res, fmt.Errorf("path is a directory, not a file: %s", path.String())
	}

	stored, err := s.index.HashesForImage(path.String())
	if err != nil {
		return res, fmt.Errorf("%w: reading hashes: %v", ErrStorage, err)
	}
	v, ok, err := PHashOf(stored)
	if err != nil {
		return res, err
	}
	if ok {
		res.PHash = v
		res.Indexed = true
		return res, nil
	}

	records, err := s.hashAdHoc(path)
	if err != nil {
		return res, err
	}
	v, _, err = PHashOf(records)
	if err != nil {
		return res, err
	}
	res.PHash = v
	return res, nil
}

// hashAdHoc computes the hash set of a file without saving it.
func (s *IdupService) hashAdHoc(path *Path) ([]HashRecord, error) {
	data, class, err := s.readClassified(path)
	if err != nil {
		return nil, err
	}
	if class != ClassImage {
		return nil, fmt.Errorf("%w: not an image (%s): %s", ErrDecode, class, path.String())
	}
	return s.hasher.HashFile(data)
}
