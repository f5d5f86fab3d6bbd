// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package framing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenizeLinesCRLF(t *testing.T) {
	lines, err := TokenizeLines([]byte("GET / HTTP/1.1\r\nHost: a\r\n\r\n"))
	assert.NoError(t, err)
	assert.Len(t, lines, 3)
	assert.Equal(t, "GET / HTTP/1.1", string(lines[0].Data))
	assert.Equal(t, CRLF, lines[0].Term)
	assert.Equal(t, "Host: a", string(lines[1].Data))
	assert.Equal(t, 0, len(lines[2].Data))
}

func TestTokenizeLinesBareLFLenient(t *testing.T) {
	lines, err := TokenizeLines([]byte("a\nb\n"))
	assert.NoError(t, err)
	assert.Len(t, lines, 2)
	assert.Equal(t, LF, lines[0].Term)
}

func TestTokenizeLinesBareCRRejected(t *testing.T) {
	_, err := TokenizeLines([]byte("a\rb\r\n"))
	assert.Error(t, err)
	e, ok := err.(*Error)
	assert.True(t, ok)
	assert.Equal(t, BareCR, e.Kind)
	assert.Equal(t, 1, e.Line)
}

func TestTokenizeLinesNoFinalTerminator(t *testing.T) {
	lines, err := TokenizeLines([]byte("a\r\nb"))
	assert.NoError(t, err)
	assert.Len(t, lines, 2)
	assert.Equal(t, None, lines[1].Term)
	assert.Equal(t, "b", string(lines[1].Data))
}

func TestFindBlankLine(t *testing.T) {
	lines, err := TokenizeLines([]byte("a\r\n\r\nbody"))
	assert.NoError(t, err)
	idx, found := FindBlankLine(lines)
	assert.True(t, found)
	assert.Equal(t, 1, idx)
}

func TestFindBlankLineAbsent(t *testing.T) {
	lines, err := TokenizeLines([]byte("a\r\nb\r\n"))
	assert.NoError(t, err)
	_, found := FindBlankLine(lines)
	assert.False(t, found)
}
