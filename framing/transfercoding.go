// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package framing

import (
	"bytes"

	"github.com/intuitivelabs/bytescase"
)

// Coding is a single transfer-coding name, lowercased, with well-known
// names normalized (spec.md section 3): the teacher's TrEncResolve
// (parse_tr_enc.go) folds the "x-compress" alias into "compress" the same
// way.
type Coding string

const (
	CodingChunked  Coding = "chunked"
	CodingGzip     Coding = "gzip"
	CodingDeflate  Coding = "deflate"
	CodingCompress Coding = "compress"
)

func normalizeCoding(tok []byte) Coding {
	if bytescase.CmpEq(tok, []byte("x-compress")) {
		return CodingCompress
	}
	return Coding(toLowerString(tok))
}

func toLowerString(tok []byte) string {
	out := make([]byte, len(tok))
	for i, c := range tok {
		out[i] = bytescase.ByteToLower(c)
	}
	return string(out)
}

// TransferCoding is the parsed, ordered list of Transfer-Encoding coding
// names (spec.md section 3). Multiple Transfer-Encoding header instances
// are concatenated in source order before parsing (RFC 9110 list
// semantics, spec.md section 4.4).
type TransferCoding struct {
	Codings []Coding
}

// ParseTransferCoding parses a comma-separated transfer-coding list
// (OWS-trimmed, lowercased, "x-compress" normalized to "compress"). A
// value that parses to zero codings yields a TransferCoding with an empty
// Codings slice, treated equivalently to "no Transfer-Encoding header
// present" by HasChunked/ChunkedCount/IsChunkedFinal below.
func ParseTransferCoding(value []byte) TransferCoding {
	var tc TransferCoding
	for _, part := range splitCommaOWS(value) {
		if len(part) == 0 {
			continue
		}
		tc.Codings = append(tc.Codings, normalizeCoding(part))
	}
	return tc
}

// ParseTransferCodingAll concatenates every Transfer-Encoding header
// instance, in header order, before parsing the combined list (RFC 9110
// section 5.2 list-concatenation semantics, spec.md section 4.4).
func ParseTransferCodingAll(values [][]byte) TransferCoding {
	var tc TransferCoding
	for _, v := range values {
		tc.Codings = append(tc.Codings, ParseTransferCoding(v).Codings...)
	}
	return tc
}

func splitCommaOWS(value []byte) [][]byte {
	var out [][]byte
	for _, part := range bytes.Split(value, []byte(",")) {
		out = append(out, trimOWS(part))
	}
	return out
}

// HasChunked reports whether "chunked" appears anywhere in the list.
func (tc TransferCoding) HasChunked() bool {
	return tc.ChunkedCount() > 0
}

// ChunkedCount returns how many times "chunked" appears. spec.md's
// invariant is that a successfully validated message has at most one.
func (tc TransferCoding) ChunkedCount() int {
	n := 0
	for _, c := range tc.Codings {
		if c == CodingChunked {
			n++
		}
	}
	return n
}

// IsChunkedFinal reports whether "chunked" is present and is the final
// coding in the list (the only legal position per RFC 9112 section 6.1).
func (tc TransferCoding) IsChunkedFinal() bool {
	if len(tc.Codings) == 0 {
		return false
	}
	return tc.Codings[len(tc.Codings)-1] == CodingChunked
}

// Format renders the list back to wire form, comma-separated.
func (tc TransferCoding) Format() string {
	s := ""
	for i, c := range tc.Codings {
		if i > 0 {
			s += ", "
		}
		s += string(c)
	}
	return s
}
