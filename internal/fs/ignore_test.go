package fs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseIgnoreRule(t *testing.T) {
	tests := []struct {
		line   string
		want   ignoreRule
		wantOK bool
	}{
		{line: "", wantOK: false},
		{line: "   ", wantOK: false},
		{line: "# thumbnails", wantOK: false},
		{line: "!", wantOK: false},
		{line: "*.xmp", want: ignoreRule{glob: "*.xmp"}, wantOK: true},
		{line: "  *.xmp  ", want: ignoreRule{glob: "*.xmp"}, wantOK: true},
		{line: "thumbs/", want: ignoreRule{glob: "thumbs", dirOnly: true}, wantOK: true},
		{line: "export/cache/", want: ignoreRule{glob: "export/cache", anchored: true, dirOnly: true}, wantOK: true},
		{line: "/raw", want: ignoreRule{glob: "raw"}, wantOK: true},
		{line: "!keep.png", want: ignoreRule{glob: "keep.png", negate: true}, wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := parseIgnoreRule(tt.line)
			if ok != tt.wantOK {
				t.Fatalf("parseIgnoreRule(%q) ok = %v, want %v", tt.line, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("parseIgnoreRule(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestIgnoreMatcher_Match(t *testing.T) {
	tests := []struct {
		name  string
		rules []string
		path  string
		isDir bool
		want  bool
	}{
		{"sidecar anywhere", []string{"*.xmp"}, filepath.Join("2024", "IMG_0001.xmp"), false, true},
		{"other extension", []string{"*.xmp"}, "IMG_0001.jpg", false, false},
		{"exact basename in subdirectory", []string{".DS_Store"}, filepath.Join("a", "b", ".DS_Store"), false, true},
		{"anchored rule", []string{"export/*.jpg"}, filepath.Join("export", "x.jpg"), false, true},
		{"anchored rule elsewhere", []string{"export/*.jpg"}, filepath.Join("other", "export", "x.jpg"), false, false},
		{"leading slash is the root", []string{"/raw"}, "raw", true, true},
		{"directory rule on directory", []string{"thumbs/"}, filepath.Join("2023", "thumbs"), true, true},
		{"directory rule on file", []string{"thumbs/"}, "thumbs", false, false},
		{"negation re-includes", []string{"*.png", "!keep.png"}, "keep.png", false, false},
		{"negation leaves others ignored", []string{"*.png", "!keep.png"}, "drop.png", false, true},
		{"later rule wins over negation", []string{"*.png", "!keep.png", "keep.*"}, "keep.png", false, true},
		{"negation alone ignores nothing", []string{"!keep.png"}, "keep.png", false, false},
		{"malformed glob never matches", []string{"[a-"}, "a.jpg", false, false},
		{"no rules", nil, "a.jpg", false, false},
		{"empty path", []string{"*"}, "", false, false},
		{"root itself", []string{"*"}, ".", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := NewIgnoreMatcher(tt.rules).Match(tt.path, tt.isDir); got != tt.want {
				t.Errorf("Match(%q, %v) with %q = %v, want %v", tt.path, tt.isDir, tt.rules, got, tt.want)
			}
		})
	}
}

func TestNewIgnoreMatcher_SkipsBlankAndComments(t *testing.T) {
	m := NewIgnoreMatcher([]string{"", "# sidecars", "*.xmp", "   ", "thumbs/"})
	if len(m.rules) != 2 {
		t.Fatalf("len(rules) = %d, want 2", len(m.rules))
	}
}

func TestParseIgnoreFile(t *testing.T) {
	t.Run("returns raw lines", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), IgnoreFileName)
		if err := os.WriteFile(path, []byte("*.xmp\n# comment\n\nthumbs/\n!keep.png\n"), 0644); err != nil {
			t.Fatalf("writing ignore file: %v", err)
		}

		lines, err := ParseIgnoreFile(path)
		if err != nil {
			t.Fatalf("ParseIgnoreFile() error = %v", err)
		}
		if len(lines) != 5 {
			t.Fatalf("len(lines) = %d, want 5", len(lines))
		}
		if n := len(NewIgnoreMatcher(lines).rules); n != 3 {
			t.Errorf("compiled %d rules, want 3", n)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		lines, err := ParseIgnoreFile(filepath.Join(t.TempDir(), IgnoreFileName))
		if err != nil {
			t.Fatalf("ParseIgnoreFile() error = %v", err)
		}
		if lines != nil {
			t.Errorf("lines = %v, want nil", lines)
		}
	})
}
