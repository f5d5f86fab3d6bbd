// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package semantics

import "github.com/intuitivelabs/bytescase"

// HeaderField is a single "name: value" pair. Name is case-preserving on
// storage but compares case-insensitively (RFC 9110 section 5.1). Value is
// kept as raw octets: header values may legally contain obs-text
// (0x80-0xFF) that is not valid UTF-8, so it is never decoded to a Go
// string that assumes UTF-8.
type HeaderField struct {
	Name  string
	Value []byte
}

// NameEq reports whether the field's name equals name, ASCII
// case-insensitively.
func (h HeaderField) NameEq(name string) bool {
	return bytescase.CmpEq([]byte(h.Name), []byte(name))
}

// HeaderList is an ordered list of header fields, preserving duplicates
// and source order (trailers, when present, are appended after the
// header-section fields in the order received).
type HeaderList []HeaderField

// GetAll returns every field whose name matches name case-insensitively,
// in the order they appear. RFC 9110 section 5.2's list-concatenation
// semantics treat these as one logical list.
func (hl HeaderList) GetAll(name string) []HeaderField {
	var out []HeaderField
	for _, h := range hl {
		if h.NameEq(name) {
			out = append(out, h)
		}
	}
	return out
}

// Get returns the first field matching name, and whether one was found.
func (hl HeaderList) Get(name string) (HeaderField, bool) {
	for _, h := range hl {
		if h.NameEq(name) {
			return h, true
		}
	}
	return HeaderField{}, false
}

// Count returns the number of fields matching name.
func (hl HeaderList) Count(name string) int {
	n := 0
	for _, h := range hl {
		if h.NameEq(name) {
			n++
		}
	}
	return n
}
