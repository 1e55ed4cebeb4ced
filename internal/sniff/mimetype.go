// Package sniff classifies files by their leading bytes.
package sniff

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"idup/internal/idup"
)

// MimeClassifier implements idup.Classifier with content signatures from
// github.com/gabriel-vasile/mimetype. File extensions are never consulted.
type MimeClassifier struct{}

// NewMimeClassifier creates a new MimeClassifier.
func NewMimeClassifier() *MimeClassifier {
	return &MimeClassifier{}
}

// Classify returns ClassImage for any image/* type, ClassUnknown when no
// signature matched, and ClassOther for everything else.
func (c *MimeClassifier) Classify(header []byte) idup.FileClass {
	if len(header) == 0 {
		return idup.ClassUnknown
	}
	mt := mimetype.Detect(header)
	for m := mt; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "image/") {
			return idup.ClassImage
		}
	}
	if mt.Is("application/octet-stream") {
		return idup.ClassUnknown
	}
	return idup.ClassOther
}

// MIME returns the detected media type of header, for display.
func MIME(header []byte) string {
	return mimetype.Detect(header).String()
}

var _ idup.Classifier = (*MimeClassifier)(nil)
