package idup

import (
	"fmt"
	"strings"
)

// HashKind identifies what a HashRecord fingerprints. The set is closed: the
// stored string of every kind comes from String, and ParseHashKind is its
// inverse, so writers and readers cannot drift apart.
type HashKind int

const (
	// KindFile is the SHA-256 of the raw file bytes.
	KindFile HashKind = iota
	// KindImgData and the following seven kinds are SHA-256 digests of the
	// decoded pixel buffer under one symmetry of the square. Rotations are
	// clockwise; the flipped variants flip vertically first, then rotate.
	KindImgData
	KindImgDataRot90
	KindImgDataRot180
	KindImgDataRot270
	KindImgDataFlipV
	KindImgDataFlipVRot90
	KindImgDataFlipVRot180
	KindImgDataFlipVRot270
	// KindPHash is the 64-bit average hash, stored in decimal.
	KindPHash
)

// exactPrefix marks kinds that take part in exact duplicate matching.
const exactPrefix = "sha256"

var kindNames = [...]string{
	KindFile:               "sha256",
	KindImgData:            "sha256 imgdata",
	KindImgDataRot90:       "sha256 imgdata rot90",
	KindImgDataRot180:      "sha256 imgdata rot180",
	KindImgDataRot270:      "sha256 imgdata rot270",
	KindImgDataFlipV:       "sha256 imgdata flipv",
	KindImgDataFlipVRot90:  "sha256 imgdata flipv rot90",
	KindImgDataFlipVRot180: "sha256 imgdata flipv rot180",
	KindImgDataFlipVRot270: "sha256 imgdata flipv rot270",
	KindPHash:              "phash",
}

// String returns the form stored in the index.
func (k HashKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("HashKind(%d)", int(k))
	}
	return kindNames[k]
}

// IsExact reports whether records of this kind are compared for exact
// duplicates.
func (k HashKind) IsExact() bool {
	return strings.HasPrefix(k.String(), exactPrefix)
}

// ParseHashKind maps a stored string back to its kind.
func ParseHashKind(s string) (HashKind, error) {
	for k, name := range kindNames {
		if name == s {
			return HashKind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown hash kind: %q", s)
}

// SymmetryKinds lists the eight pixel-buffer kinds in hashing order.
func SymmetryKinds() []HashKind {
	return []HashKind{
		KindImgData,
		KindImgDataRot90,
		KindImgDataRot180,
		KindImgDataRot270,
		KindImgDataFlipV,
		KindImgDataFlipVRot90,
		KindImgDataFlipVRot180,
		KindImgDataFlipVRot270,
	}
}

// ExactKindPattern is a SQL LIKE pattern matching every exact kind.
const ExactKindPattern = exactPrefix + "%"
