// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package framing

import (
	"bytes"

	"github.com/hyperfields/httpframe/semantics"
)

// ObsFoldPolicy selects how a recipient handles obsolete line folding
// (RFC 9112 section 5.2): a header line whose first byte is SP or HTAB is
// a continuation of the previous field.
type ObsFoldPolicy uint8

const (
	// ObsFoldReject fails the whole header set with
	// ObsFoldWithoutPrecedingField if a fold appears at the very start,
	// or rejects the message entirely otherwise. This is the default
	// recipients SHOULD choose.
	ObsFoldReject ObsFoldPolicy = iota
	// ObsFoldReplaceWithSpace concatenates the trimmed continuation onto
	// the previous value with a single SP separator.
	ObsFoldReplaceWithSpace
	// ObsFoldDiscard drops the continuation bytes entirely.
	ObsFoldDiscard
)

// FieldLine is one parsed "name: value" header line.
type FieldLine struct {
	Name  []byte
	Value []byte
}

func isTokenChar(c byte) bool {
	// RFC 9110 section 5.6.2 tchar.
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	switch c {
	case '!', '#', '$', '%', '&', '\'', '*', '+', '-', '.', '^', '_', '`', '|', '~':
		return true
	}
	return false
}

func isFieldValueChar(c byte) bool {
	// VCHAR (0x21-0x7E) + SP + HTAB + obs-text (>= 0x80).
	if c == ' ' || c == '\t' {
		return true
	}
	if c >= 0x21 && c <= 0x7e {
		return true
	}
	return c >= 0x80
}

// ParseFieldLine parses a single header line's bytes (without the
// terminator) into a name/value pair.
//
// Rules enforced (spec.md section 4.2, the core anti-smuggling syntax
// rules):
//   - the field name must be non-empty (EmptyFieldName);
//   - the field name must not contain SP/HTAB anywhere, and in
//     particular must not have SP/HTAB immediately before the colon
//     (WhitespaceBeforeColon) — RFC 9112 section 5.1 rejects this
//     outright rather than trimming it, because a lenient server and a
//     strict server disagreeing on "Host" vs "Host " is exactly how
//     request smuggling happens;
//   - field name characters are restricted to RFC 9110 tchar
//     (InvalidFieldName);
//   - the value is the substring after the first colon, with leading and
//     trailing OWS trimmed (internal OWS is preserved);
//   - value bytes are restricted to VCHAR + SP/HTAB + obs-text
//     (InvalidFieldValueChar).
func ParseFieldLine(line []byte) (FieldLine, error) {
	colon := bytes.IndexByte(line, ':')
	if colon < 0 {
		return FieldLine{}, errOf(MissingColon)
	}
	if colon == 0 {
		return FieldLine{}, errOf(EmptyFieldName)
	}
	name := line[:colon]
	if name[len(name)-1] == ' ' || name[len(name)-1] == '\t' {
		return FieldLine{}, errOf(WhitespaceBeforeColon)
	}
	for _, c := range name {
		if !isTokenChar(c) {
			return FieldLine{}, errOf(InvalidFieldName)
		}
	}

	value := trimOWS(line[colon+1:])
	for _, c := range value {
		if !isFieldValueChar(c) {
			return FieldLine{}, errOf(InvalidFieldValueChar)
		}
	}
	return FieldLine{Name: name, Value: value}, nil
}

func trimOWS(b []byte) []byte {
	i := 0
	for i < len(b) && (b[i] == ' ' || b[i] == '\t') {
		i++
	}
	j := len(b)
	for j > i && (b[j-1] == ' ' || b[j-1] == '\t') {
		j--
	}
	return b[i:j]
}

// IsObsFold reports whether line (a raw, not-yet-trimmed line from the
// tokenizer) is a continuation line: RFC 9112 section 5.2, first byte is
// SP or HTAB.
func IsObsFold(line []byte) bool {
	return len(line) > 0 && (line[0] == ' ' || line[0] == '\t')
}

// ParseFieldLines parses a contiguous run of header lines (as produced by
// TokenizeLines, not including the blank separator line) into a
// HeaderList, applying policy to any obs-fold continuation lines
// encountered. limits bounds the number of fields and total header bytes.
func ParseFieldLines(lines []Line, policy ObsFoldPolicy, limits Limits) (semantics.HeaderList, error) {
	var out semantics.HeaderList
	totalBytes := 0
	for _, l := range lines {
		totalBytes += len(l.Data) + 2
		if limits.MaxTotalHeaderBytes > 0 && totalBytes > limits.MaxTotalHeaderBytes {
			return nil, errLimit("total_header_bytes", uint64(totalBytes), uint64(limits.MaxTotalHeaderBytes))
		}
		if limits.MaxHeaderLine > 0 && len(l.Data) > limits.MaxHeaderLine {
			return nil, &Error{Kind: LineTooLong, Line: l.Num, Cap: uint64(limits.MaxHeaderLine)}
		}
		if IsObsFold(l.Data) {
			switch policy {
			case ObsFoldReject:
				if len(out) == 0 {
					return nil, errOf(ObsFoldWithoutPrecedingField)
				}
				return nil, errOf(ObsFoldWithoutPrecedingField)
			case ObsFoldDiscard:
				continue
			case ObsFoldReplaceWithSpace:
				if len(out) == 0 {
					return nil, errOf(ObsFoldWithoutPrecedingField)
				}
				cont := trimOWS(l.Data)
				last := &out[len(out)-1]
				merged := make([]byte, 0, len(last.Value)+1+len(cont))
				merged = append(merged, last.Value...)
				merged = append(merged, ' ')
				merged = append(merged, cont...)
				last.Value = merged
				continue
			}
		}
		fl, err := ParseFieldLine(l.Data)
		if err != nil {
			return nil, err
		}
		if limits.MaxHeaders > 0 && len(out) >= limits.MaxHeaders {
			return nil, errLimit("headers", uint64(len(out)+1), uint64(limits.MaxHeaders))
		}
		out = append(out, semantics.HeaderField{Name: string(fl.Name), Value: fl.Value})
	}
	return out, nil
}
