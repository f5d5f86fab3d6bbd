// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package framing

import (
	"bytes"
	"strconv"
)

// HttpVersion is a parsed HTTP-version token (RFC 9112 section 2.3):
// HTTP-name "/" 1*DIGIT "." 1*DIGIT.
type HttpVersion struct {
	Major uint16
	Minor uint16
}

// Canonical constants.
var (
	HTTP10 = HttpVersion{Major: 1, Minor: 0}
	HTTP11 = HttpVersion{Major: 1, Minor: 1}
)

// AtLeast reports whether v >= other.
func (v HttpVersion) AtLeast(other HttpVersion) bool {
	if v.Major != other.Major {
		return v.Major > other.Major
	}
	return v.Minor >= other.Minor
}

// Format renders the version exactly as "HTTP/<major>.<minor>".
func (v HttpVersion) Format() string {
	return "HTTP/" + strconv.Itoa(int(v.Major)) + "." + strconv.Itoa(int(v.Minor))
}

var httpName = []byte("HTTP")

// ParseHttpVersion parses an HTTP-version token. The "HTTP" literal is
// case-sensitive on parse (spec.md section 3); the digit groups are not
// limited to a single digit each, for forward compatibility with
// multi-digit version tokens RFC 9112 section 2.3 permits implementations
// to accept.
func ParseHttpVersion(tok []byte) (HttpVersion, error) {
	if len(tok) < len(httpName)+1 || !bytes.Equal(tok[:len(httpName)], httpName) {
		return HttpVersion{}, errOf(InvalidHTTPName)
	}
	rest := tok[len(httpName):]
	if rest[0] != '/' {
		return HttpVersion{}, errOf(InvalidHTTPName)
	}
	rest = rest[1:]
	dot := -1
	for i, c := range rest {
		if c == '.' {
			dot = i
			break
		}
	}
	if dot < 0 {
		return HttpVersion{}, errOf(InvalidVersionNumber)
	}
	majorB, minorB := rest[:dot], rest[dot+1:]
	major, ok1 := parseDigits(majorB)
	minor, ok2 := parseDigits(minorB)
	if !ok1 || !ok2 {
		return HttpVersion{}, errOf(InvalidVersionNumber)
	}
	return HttpVersion{Major: major, Minor: minor}, nil
}

func parseDigits(b []byte) (uint16, bool) {
	if len(b) == 0 {
		return 0, false
	}
	var n uint32
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + uint32(c-'0')
		if n > 65535 {
			return 0, false
		}
	}
	return uint16(n), true
}
