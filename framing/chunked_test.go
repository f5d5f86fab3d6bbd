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

// from https://en.wikipedia.org/wiki/Chunked_transfer_encoding
const wikipediaChunked = "4\r\nWiki\r\n5\r\npedia\r\nE\r\n in\r\n\r\nchunks.\r\n0\r\n\r\n"

func TestDecodeChunkedWikipediaExample(t *testing.T) {
	res, consumed, err := DecodeChunked([]byte(wikipediaChunked), DefaultLimits())
	assert.NoError(t, err)
	assert.Equal(t, len(wikipediaChunked), consumed)
	assert.Equal(t, "Wikipedia in\r\n\r\nchunks.", string(res.Data))
	assert.Empty(t, res.Trailers)
}

func TestDecodeChunkedWithTrailers(t *testing.T) {
	in := "4\r\nWiki\r\n0\r\nX-Checksum: abc123\r\n\r\n"
	res, consumed, err := DecodeChunked([]byte(in), DefaultLimits())
	assert.NoError(t, err)
	assert.Equal(t, len(in), consumed)
	assert.Equal(t, "Wiki", string(res.Data))
	assert.Len(t, res.Trailers, 1)
	assert.Equal(t, "X-Checksum", res.Trailers[0].Name)
	assert.Equal(t, "abc123", string(res.Trailers[0].Value))
}

func TestDecodeChunkedDoesNotReadPastFinalCRLF(t *testing.T) {
	in := "4\r\nWiki\r\n0\r\n\r\n" + "GET / HTTP/1.1\r\n\x0dbroken"
	res, consumed, err := DecodeChunked([]byte(in), DefaultLimits())
	assert.NoError(t, err)
	assert.Equal(t, "Wiki", string(res.Data))
	assert.Equal(t, len("4\r\nWiki\r\n0\r\n\r\n"), consumed)
}

func TestDecodeChunkedMalformedTrailerSkipped(t *testing.T) {
	in := "0\r\nBadTrailerNoColon\r\nGood: yes\r\n\r\n"
	res, _, err := DecodeChunked([]byte(in), DefaultLimits())
	assert.NoError(t, err)
	assert.Len(t, res.Trailers, 1)
	assert.Equal(t, "Good", res.Trailers[0].Name)
}

func TestDecodeChunkedInvalidSize(t *testing.T) {
	_, _, err := DecodeChunked([]byte("zz\r\nabc\r\n0\r\n\r\n"), DefaultLimits())
	assert.Equal(t, InvalidChunkSize, err.(*Error).Kind)
}

func TestDecodeChunkedIncompleteChunk(t *testing.T) {
	_, _, err := DecodeChunked([]byte("10\r\nshort"), DefaultLimits())
	assert.Equal(t, IncompleteChunk, err.(*Error).Kind)
}

func TestDecodeChunkedMissingCRLFAfterData(t *testing.T) {
	_, _, err := DecodeChunked([]byte("4\r\nWikiXX"), DefaultLimits())
	assert.Equal(t, MissingCRLF, err.(*Error).Kind)
}

func TestDecodeChunkedExtensionsRetained(t *testing.T) {
	in := "4;foo=bar;baz\r\nWiki\r\n0\r\n\r\n"
	res, _, err := DecodeChunked([]byte(in), DefaultLimits())
	assert.NoError(t, err)
	assert.Len(t, res.Extensions, 1)
	assert.Len(t, res.Extensions[0], 2)
	assert.Equal(t, "foo", res.Extensions[0][0].Name)
	assert.Equal(t, "bar", res.Extensions[0][0].Value)
	assert.Equal(t, "baz", res.Extensions[0][1].Name)
	assert.False(t, res.Extensions[0][1].HasValue)
}

func TestDecodeChunkedMaxChunkBytesLimit(t *testing.T) {
	limits := DefaultLimits()
	limits.MaxChunkBytes = 2
	_, _, err := DecodeChunked([]byte("4\r\nWiki\r\n0\r\n\r\n"), limits)
	assert.Equal(t, LimitExceeded, err.(*Error).Kind)
}

func TestEncodeChunkedRoundTrip(t *testing.T) {
	data := []byte("Wikipedia in\r\n\r\nchunks.")
	encoded := EncodeChunked(data, EncodeOptions{ChunkSize: 5})
	res, consumed, err := DecodeChunked(encoded, DefaultLimits())
	assert.NoError(t, err)
	assert.Equal(t, len(encoded), consumed)
	assert.Equal(t, data, res.Data)
}

func TestEncodeChunkedQuotesSpecialExtensionValues(t *testing.T) {
	encoded := EncodeChunked([]byte("x"), EncodeOptions{
		Extensions: []ChunkExtension{{Name: "n", Value: "a;b", HasValue: true}},
	})
	assert.Contains(t, string(encoded), `n="a;b"`)
}

func TestEncodeChunkedEmitsLastChunkAndFinalCRLF(t *testing.T) {
	encoded := EncodeChunked([]byte("x"), EncodeOptions{})
	assert.Contains(t, string(encoded), "0\r\n\r\n")
}
