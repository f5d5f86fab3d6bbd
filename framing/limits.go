// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package framing

// Limits bounds resource use during parsing (spec.md section 5). Every
// field has a documented default; callers needing stricter or looser
// bounds construct their own Limits rather than relying on package-level
// mutable state (there is none: this package is pure per spec.md
// section 5).
type Limits struct {
	MaxStartLine      int
	MaxHeaderLine     int
	MaxTotalHeaderBytes int
	MaxBodyBytes      int64
	MaxChunkBytes     int64
	MaxTrailerBytes   int
	MaxHeaders        int
	MaxExtensionsPerChunk int
}

// DefaultLimits returns the spec.md section 5 defaults.
func DefaultLimits() Limits {
	return Limits{
		MaxStartLine:          8000,
		MaxHeaderLine:         8000,
		MaxTotalHeaderBytes:   64 * 1024,
		MaxBodyBytes:          1 << 34,
		MaxChunkBytes:         1 << 31,
		MaxTrailerBytes:       8192,
		MaxHeaders:            100,
		MaxExtensionsPerChunk: 16,
	}
}
