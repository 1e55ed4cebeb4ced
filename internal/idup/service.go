package idup

import (
	"fmt"
	"runtime"
)

// IdupService is the orchestration layer that coordinates the index, the
// hashers and the filesystem to perform the operations the CLI needs.
type IdupService struct {
	index      Index
	hasher     *Hasher
	classifier Classifier
	fsmgr      FilesystemManager
	logger     Logger
	clock      Clock
	idgen      IDGenerator
	workers    int
}

// NewIdupService creates a new IdupService with the provided dependencies.
// workers sets the size of the hashing pool; 0 means GOMAXPROCS.
func NewIdupService(index Index, codec Codec, classifier Classifier, fsmgr FilesystemManager, logger Logger, clock Clock, idgen IDGenerator, workers int) *IdupService {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &IdupService{
		index:      index,
		hasher:     NewHasher(codec),
		classifier: classifier,
		fsmgr:      fsmgr,
		logger:     logger,
		clock:      clock,
		idgen:      idgen,
		workers:    workers,
	}
}

// ExactMatch returns the indexed images that are exact duplicates of the
// image at path.
func (s *IdupService) ExactMatch(path *Path) ([]string, error) {
	if path.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path.String())
	}
	img, err := s.index.FindImage(path.String())
	if err != nil {
		return nil, fmt.Errorf("%w: finding image: %v", ErrStorage, err)
	}
	if img == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotIndexed, path.String())
	}
	matches, err := s.index.ExactMatch(path.String())
	if err != nil {
		return nil, fmt.Errorf("%w: matching %s: %v", ErrStorage, path.String(), err)
	}
	return matches, nil
}

// ExactMatches returns every duplicate cluster in the index.
func (s *IdupService) ExactMatches() ([]DuplicateGroup, error) {
	groups, err := s.index.ExactMatches()
	if err != nil {
		return nil, fmt.Errorf("%w: listing duplicates: %v", ErrStorage, err)
	}
	return groups, nil
}

// GetHistory returns the most recent scans, newest first.
func (s *IdupService) GetHistory(limit int) ([]*ScanRecord, error) {
	scans, err := s.index.ListScans(limit)
	if err != nil {
		return nil, fmt.Errorf("listing scans: %w", err)
	}
	return scans, nil
}
