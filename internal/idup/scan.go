package idup

import (
	"context"
	"errors"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"
)

// ScanOptions controls one scan run.
type ScanOptions struct {
	// Recursive makes the scan descend into directories. Without it a
	// directory root has no children visited.
	Recursive bool

	// Progress, if set, is called once per regular file after it has been
	// hashed, skipped or failed. It runs on the caller's goroutine.
	Progress func(ScanEvent)
}

// Outcome is what happened to one file during a scan.
type Outcome int

const (
	OutcomeHashed Outcome = iota
	OutcomeSkipped
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeHashed:
		return "hashed"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "failed"
	}
}

// ScanEvent reports the outcome for a single file.
type ScanEvent struct {
	Path    string
	Outcome Outcome
	Err     error
}

// ScanSummary is the result of a scan run.
type ScanSummary struct {
	ID           string
	Status       string
	FilesSeen    int64
	ImagesHashed int64
	Skipped      int64
	Failed       int64
}

// fileResult travels from the traversal and the workers to the writer.
type fileResult struct {
	path    string
	records []HashRecord
	outcome Outcome
	err     error
}

// Scan walks root depth first, hashes every image it finds and saves each
// hash set to the index. Hashing runs on a fixed worker pool; the calling
// goroutine is the only one that writes to the index.
//
// Per-file failures are logged and counted, and the scan continues. Only an
// unresolvable or unreadable root, or a failure to record the scan itself,
// is returned as an error. When ctx is cancelled the traversal stops handing
// out files, results already in flight are still saved, and the scan is
// recorded as interrupted.
func (s *IdupService) Scan(ctx context.Context, rawRoot string, opts ScanOptions) (*ScanSummary, error) {
	root, err := s.fsmgr.Resolve(rawRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: resolving scan root: %v", ErrIO, err)
	}

	scan := &ScanRecord{
		ID:        s.idgen.New(),
		Root:      root.String(),
		Recursive: opts.Recursive,
		StartedAt: s.clock.Now(),
		Status:    ScanRunning,
	}
	if err := s.index.CreateScan(scan); err != nil {
		return nil, fmt.Errorf("%w: recording scan: %v", ErrStorage, err)
	}
	s.logger.Info("scan started", "id", scan.ID, "root", scan.Root, "recursive", opts.Recursive, "workers", s.workers)

	if root.IsDir() && !opts.Recursive {
		s.logger.Warn("root is a directory and scan is not recursive, nothing to visit; use --recursive", "root", root.String())
	}

	group, gctx := errgroup.WithContext(ctx)
	jobs := make(chan *Path)
	results := make(chan fileResult)

	group.Go(func() error {
		defer close(jobs)
		return s.traverse(gctx, root, opts.Recursive, jobs, results)
	})
	for i := 0; i < s.workers; i++ {
		group.Go(func() error {
			for p := range jobs {
				results <- s.processFile(p)
			}
			return nil
		})
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- group.Wait()
		close(results)
	}()

	for r := range results {
		scan.FilesSeen++
		if r.outcome == OutcomeHashed {
			if err := s.index.Save(r.path, r.records); err != nil {
				r.outcome = OutcomeFailed
				r.err = fmt.Errorf("%w: saving: %v", ErrStorage, err)
			}
		}
		switch r.outcome {
		case OutcomeHashed:
			scan.ImagesHashed++
			s.logger.Debug("image indexed", "path", r.path)
		case OutcomeSkipped:
			scan.Skipped++
		case OutcomeFailed:
			scan.Failed++
			s.logger.Error("file failed", "path", r.path, "error", r.err)
		}
		if opts.Progress != nil {
			opts.Progress(ScanEvent{Path: r.path, Outcome: r.outcome, Err: r.err})
		}
	}
	walkErr := <-errCh

	switch {
	case ctx.Err() != nil:
		scan.Status = ScanInterrupted
	case walkErr != nil:
		scan.Status = ScanError
	default:
		scan.Status = ScanSuccess
	}
	scan.FinishedAt.Time = s.clock.Now()
	scan.FinishedAt.Valid = true

	if err := s.index.FinishScan(scan); err != nil {
		return nil, fmt.Errorf("%w: finishing scan: %v", ErrStorage, err)
	}
	s.logger.Info("scan finished", "id", scan.ID, "status", scan.Status,
		"seen", scan.FilesSeen, "hashed", scan.ImagesHashed, "skipped", scan.Skipped, "failed", scan.Failed)

	summary := &ScanSummary{
		ID:           scan.ID,
		Status:       scan.Status,
		FilesSeen:    scan.FilesSeen,
		ImagesHashed: scan.ImagesHashed,
		Skipped:      scan.Skipped,
		Failed:       scan.Failed,
	}
	if scan.Status == ScanError {
		return summary, walkErr
	}
	return summary, nil
}

// traverse runs the stack-based depth-first walk. Regular files go to jobs;
// files that never reach a worker (ignored, unresolvable) are reported
// straight to results. Each canonical path is visited at most once.
func (s *IdupService) traverse(ctx context.Context, root *Path, recursive bool, jobs chan<- *Path, results chan<- fileResult) error {
	visited := make(map[string]bool)
	stack := []string{root.String()}

	for len(stack) > 0 {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		raw := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		p := root
		if raw != root.String() {
			var err error
			p, err = s.fsmgr.Resolve(raw)
			if err != nil {
				s.logger.Warn("skipping unresolvable path", "path", raw, "error", err)
				continue
			}
		}
		if visited[p.String()] {
			continue
		}
		visited[p.String()] = true

		if p != root {
			ignored, err := s.fsmgr.IsIgnored(p, root.String())
			if err != nil {
				s.logger.Warn("checking ignore rules", "path", p.String(), "error", err)
			}
			if ignored {
				s.logger.Debug("path ignored", "path", p.String())
				if !p.IsDir() {
					results <- fileResult{path: p.String(), outcome: OutcomeSkipped}
				}
				continue
			}
		}

		if p.IsDir() {
			if !recursive {
				continue
			}
			children, err := s.fsmgr.ReadDir(p)
			if err != nil {
				if p == root {
					return fmt.Errorf("%w: reading scan root: %v", ErrIO, err)
				}
				s.logger.Error("reading directory", "path", p.String(), "error", err)
				continue
			}
			// Push in reverse so the first child is visited first.
			for i := len(children) - 1; i >= 0; i-- {
				stack = append(stack, children[i])
			}
			continue
		}

		select {
		case jobs <- p:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// processFile reads a file once, sniffs its header and hashes it when it is
// an image.
func (s *IdupService) processFile(p *Path) fileResult {
	res := fileResult{path: p.String()}

	data, class, err := s.readClassified(p)
	if err != nil {
		res.outcome = OutcomeFailed
		res.err = err
		return res
	}
	if class != ClassImage {
		s.logger.Debug("skipping non-image", "path", p.String(), "class", class)
		res.outcome = OutcomeSkipped
		return res
	}

	records, err := s.hasher.HashFile(data)
	if err != nil {
		res.outcome = OutcomeFailed
		res.err = err
		return res
	}
	res.records = records
	res.outcome = OutcomeHashed
	return res
}

// readClassified reads the sniffing header of p and, if it is an image, the
// rest of the file. data is nil for non-images.
func (s *IdupService) readClassified(p *Path) ([]byte, FileClass, error) {
	f, err := s.fsmgr.Open(p)
	if err != nil {
		return nil, ClassUnknown, fmt.Errorf("%w: opening: %v", ErrIO, err)
	}
	defer f.Close()

	header := make([]byte, SniffLen)
	n, err := io.ReadFull(f, header)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, ClassUnknown, fmt.Errorf("%w: reading header: %v", ErrIO, err)
	}
	header = header[:n]

	class := s.classifier.Classify(header)
	if class != ClassImage {
		return nil, class, nil
	}

	rest, err := io.ReadAll(f)
	if err != nil {
		return nil, class, fmt.Errorf("%w: reading: %v", ErrIO, err)
	}
	return append(header, rest...), class, nil
}
