package fs

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// IgnoreFileName is the per-root ignore file read at the start of a scan.
const IgnoreFileName = ".idupignore"

// alwaysIgnored is prepended to every matcher.
var alwaysIgnored = []string{IgnoreFileName}

type ignoreRule struct {
	glob     string
	negate   bool // leading '!': a match re-includes the path
	anchored bool // glob contains '/': matched against the relative path
	dirOnly  bool // trailing '/': only directories match
}

func (r ignoreRule) matches(rel, base string, isDir bool) bool {
	if r.dirOnly && !isDir {
		return false
	}
	target := base
	if r.anchored {
		target = rel
	}
	ok, err := filepath.Match(r.glob, target)
	return err == nil && ok
}

// parseIgnoreRule returns false for blank lines and '#' comments.
func parseIgnoreRule(line string) (ignoreRule, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return ignoreRule{}, false
	}

	var r ignoreRule
	if rest, ok := strings.CutPrefix(line, "!"); ok {
		r.negate = true
		line = rest
	}
	if rest, ok := strings.CutSuffix(line, "/"); ok {
		r.dirOnly = true
		line = rest
	}
	line = strings.TrimPrefix(line, "/")
	if line == "" {
		return ignoreRule{}, false
	}
	r.glob = line
	r.anchored = strings.Contains(line, "/")
	return r, true
}

// IgnoreMatcher decides which paths under a scan root are skipped.
//
// A rule without '/' is matched against the basename and one with '/' against
// the slash-separated path relative to the root. A trailing '/' limits a rule
// to directories, and a leading '!' re-includes what earlier rules excluded.
// The last matching rule decides. An ignored directory is not descended into.
type IgnoreMatcher struct {
	rules []ignoreRule
}

// NewIgnoreMatcher compiles lines in order. Blank lines and comments are
// dropped.
func NewIgnoreMatcher(lines []string) *IgnoreMatcher {
	m := &IgnoreMatcher{}
	for _, line := range lines {
		if r, ok := parseIgnoreRule(line); ok {
			m.rules = append(m.rules, r)
		}
	}
	return m
}

// Match reports whether relativePath should be skipped.
func (m *IgnoreMatcher) Match(relativePath string, isDir bool) bool {
	if relativePath == "" || relativePath == "." {
		return false
	}
	rel := filepath.ToSlash(relativePath)
	base := filepath.Base(relativePath)

	ignored := false
	for _, r := range m.rules {
		if r.negate == ignored && r.matches(rel, base, isDir) {
			ignored = !r.negate
		}
	}
	return ignored
}

// ParseIgnoreFile returns the lines of the ignore file at path, or nil when
// there is no such file.
func ParseIgnoreFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening ignore file: %w", err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading ignore file %s: %w", path, err)
	}
	return lines, nil
}
