// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package framing

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFieldLineBasic(t *testing.T) {
	fl, err := ParseFieldLine([]byte("Host: example.com"))
	assert.NoError(t, err)
	assert.Equal(t, "Host", string(fl.Name))
	assert.Equal(t, "example.com", string(fl.Value))
}

func TestParseFieldLineTrimsOWSNotInternal(t *testing.T) {
	fl, err := ParseFieldLine([]byte("X-Foo:  a  b  "))
	assert.NoError(t, err)
	assert.Equal(t, "a  b", string(fl.Value))
}

func TestParseFieldLineMissingColon(t *testing.T) {
	_, err := ParseFieldLine([]byte("NoColonHere"))
	assert.Equal(t, MissingColon, err.(*Error).Kind)
}

func TestParseFieldLineEmptyName(t *testing.T) {
	_, err := ParseFieldLine([]byte(": value"))
	assert.Equal(t, EmptyFieldName, err.(*Error).Kind)
}

// TestParseFieldLineRejectsWhitespaceBeforeColon is the single most
// important anti-smuggling regression: a lenient recipient here is
// exactly the divergence CVE-class request smuggling exploits.
func TestParseFieldLineRejectsWhitespaceBeforeColon(t *testing.T) {
	cases := []string{"Host : a", "Host\t: a", "Transfer-Encoding : chunked"}
	for _, c := range cases {
		_, err := ParseFieldLine([]byte(c))
		assert.Equal(t, WhitespaceBeforeColon, err.(*Error).Kind, c)
	}
}

func TestParseFieldLineInvalidFieldNameChar(t *testing.T) {
	_, err := ParseFieldLine([]byte("Bad@Name: v"))
	assert.Equal(t, InvalidFieldName, err.(*Error).Kind)
}

func TestParseFieldLineInvalidValueControlChar(t *testing.T) {
	_, err := ParseFieldLine([]byte("X: a\x01b"))
	assert.Equal(t, InvalidFieldValueChar, err.(*Error).Kind)
}

func TestParseFieldLineRandomizedCaseRoundTrips(t *testing.T) {
	for i := 0; i < 50; i++ {
		name := randCase("Content-Type")
		line := []byte(name + ":" + randWS() + "text/plain")
		fl, err := ParseFieldLine(line)
		assert.NoError(t, err)
		assert.Equal(t, name, string(fl.Name))
		assert.Equal(t, "text/plain", string(fl.Value))
	}
}

func randWS() string {
	ws := [...]string{"", " ", "\t"}
	var s string
	n := rand.Intn(5)
	for i := 0; i < n; i++ {
		s += ws[rand.Intn(len(ws))]
	}
	return s
}

func randCase(s string) string {
	r := make([]byte, len(s))
	for i, b := range []byte(s) {
		switch rand.Intn(3) {
		case 0:
			if b >= 'a' && b <= 'z' {
				b -= 32
			}
		case 1:
			if b >= 'A' && b <= 'Z' {
				b += 32
			}
		}
		r[i] = b
	}
	return string(r)
}

func TestParseFieldLinesObsFoldReject(t *testing.T) {
	lines, err := TokenizeLines([]byte("Host: a\r\n Continuation\r\n"))
	assert.NoError(t, err)
	_, err = ParseFieldLines(lines, ObsFoldReject, DefaultLimits())
	assert.Equal(t, ObsFoldWithoutPrecedingField, err.(*Error).Kind)
}

func TestParseFieldLinesObsFoldReplaceWithSpace(t *testing.T) {
	lines, err := TokenizeLines([]byte("Host: a\r\n b\r\n"))
	assert.NoError(t, err)
	hl, err := ParseFieldLines(lines, ObsFoldReplaceWithSpace, DefaultLimits())
	assert.NoError(t, err)
	assert.Len(t, hl, 1)
	assert.Equal(t, "a b", string(hl[0].Value))
}

func TestParseFieldLinesObsFoldDiscard(t *testing.T) {
	lines, err := TokenizeLines([]byte("Host: a\r\n b\r\n"))
	assert.NoError(t, err)
	hl, err := ParseFieldLines(lines, ObsFoldDiscard, DefaultLimits())
	assert.NoError(t, err)
	assert.Len(t, hl, 1)
	assert.Equal(t, "a", string(hl[0].Value))
}

func TestParseFieldLinesMaxHeadersLimit(t *testing.T) {
	lines, err := TokenizeLines([]byte("A: 1\r\nB: 2\r\nC: 3\r\n"))
	assert.NoError(t, err)
	limits := DefaultLimits()
	limits.MaxHeaders = 2
	_, err = ParseFieldLines(lines, ObsFoldReject, limits)
	assert.Equal(t, LimitExceeded, err.(*Error).Kind)
}
