// Copyright 2022 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package framing

import (
	"bytes"
	"strconv"

	"github.com/hyperfields/httpframe/semantics"
)

// ChunkExtension is a single ";name[=value]" chunk-extension (spec.md
// section 3). Value is absent for a bare ";name" extension.
type ChunkExtension struct {
	Name     string
	Value    string
	HasValue bool
}

// Chunk is one decoded chunk-data segment. Extensions are per spec.md
// section 4.5, the teacher's ChunkVal (parse_chunk.go) only keeps the
// final extension token it parsed; this extends that to the full,
// bounded list spec.md requires recipients retain (even though they are
// "never causes rejection", RFC 9112 section 7.1.1).
type Chunk struct {
	Size       int64
	Extensions []ChunkExtension
	Data       []byte
}

// DefaultChunkSize is the encoder's default slice size (spec.md section
// 4.5).
const DefaultChunkSize = 8192

// EncodeOptions configures EncodeChunked.
type EncodeOptions struct {
	ChunkSize  int              // default DefaultChunkSize if <= 0
	Extensions []ChunkExtension // applied to every data chunk
	Trailers   semantics.HeaderList
}

// EncodeChunked renders data as a chunked-body (spec.md section 4.5):
// walks data in ChunkSize slices, emits size/extensions/CRLF/data/CRLF per
// slice, then the last-chunk, trailer fields, and the final CRLF.
// Extension values containing ';' or whitespace are double-quoted on
// emission, as RFC 9112 section 4.1.1's chunk-ext grammar requires for
// non-token values.
func EncodeChunked(data []byte, opts EncodeOptions) []byte {
	size := opts.ChunkSize
	if size <= 0 {
		size = DefaultChunkSize
	}
	var buf bytes.Buffer
	for len(data) > 0 {
		n := size
		if n > len(data) {
			n = len(data)
		}
		writeChunkLine(&buf, int64(n), opts.Extensions)
		buf.Write(data[:n])
		buf.WriteString("\r\n")
		data = data[n:]
	}
	writeChunkLine(&buf, 0, opts.Extensions)
	for _, t := range opts.Trailers {
		buf.WriteString(t.Name)
		buf.WriteString(": ")
		buf.Write(t.Value)
		buf.WriteString("\r\n")
	}
	buf.WriteString("\r\n")
	return buf.Bytes()
}

func writeChunkLine(buf *bytes.Buffer, size int64, exts []ChunkExtension) {
	buf.WriteString(strconv.FormatInt(size, 16))
	for _, e := range exts {
		buf.WriteByte(';')
		buf.WriteString(e.Name)
		if e.HasValue {
			buf.WriteByte('=')
			if needsQuoting(e.Value) {
				buf.WriteByte('"')
				buf.WriteString(escapeQuoted(e.Value))
				buf.WriteByte('"')
			} else {
				buf.WriteString(e.Value)
			}
		}
	}
	buf.WriteString("\r\n")
}

func needsQuoting(v string) bool {
	for i := 0; i < len(v); i++ {
		c := v[i]
		if c == ';' || c == ' ' || c == '\t' || c == '"' {
			return true
		}
	}
	return len(v) == 0
}

func escapeQuoted(v string) string {
	var b bytes.Buffer
	for i := 0; i < len(v); i++ {
		c := v[i]
		if c == '"' || c == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	return b.String()
}

// DecodedBody is the result of DecodeChunked: the reassembled body bytes,
// the per-chunk extensions (in chunk order, excluding the terminating
// last-chunk), and any trailer fields, appended in the order received
// (spec.md section 5, "Ordering guarantees").
type DecodedBody struct {
	Data       []byte
	Extensions [][]ChunkExtension
	Trailers   semantics.HeaderList
}

// DecodeChunked decodes a complete chunked-body per the grammar in
// spec.md section 4.5:
//
//	chunked-body = *chunk last-chunk trailer-section CRLF
//	chunk        = chunk-size [chunk-ext] CRLF chunk-data CRLF
//	chunk-size   = 1*HEXDIG
//	last-chunk   = 1*"0" [chunk-ext] CRLF
//	trailer-section = *(field-line CRLF)
//
// It returns the decoded body, the exact number of input bytes consumed
// (never an approximation from the remaining slice length — spec.md
// section 9 flags this as a correctness requirement), and an error.
// Individual malformed trailer lines are skipped rather than aborting the
// whole body (RFC 9112 section 7.1.2, "recipients MUST ignore
// unrecognized trailer fields" is read here as "tolerate a malformed
// one"); every other error is fatal.
func DecodeChunked(buf []byte, limits Limits) (DecodedBody, int, error) {
	var result DecodedBody
	var body bytes.Buffer
	i := 0
	var totalBody int64

	for {
		sizeLineEnd := bytes.Index(buf[i:], []byte("\r\n"))
		if sizeLineEnd < 0 {
			return DecodedBody{}, i, errFormat("unterminated chunk-size line")
		}
		sizeLine := buf[i : i+sizeLineEnd]
		i += sizeLineEnd + 2

		hexPart := sizeLine
		var exts []ChunkExtension
		if semi := bytes.IndexByte(sizeLine, ';'); semi >= 0 {
			hexPart = sizeLine[:semi]
			var err error
			exts, err = parseChunkExtensions(sizeLine[semi+1:], limits)
			if err != nil {
				return DecodedBody{}, i, err
			}
		}
		size, ok := parseHex(hexPart)
		if !ok {
			return DecodedBody{}, i, errOf(InvalidChunkSize)
		}
		if limits.MaxChunkBytes > 0 && size > limits.MaxChunkBytes {
			return DecodedBody{}, i, errLimit("chunk_bytes", uint64(size), uint64(limits.MaxChunkBytes))
		}

		if size == 0 {
			// last-chunk: what follows is the trailer-section, terminated
			// by a blank line, then the chunked-body's own final CRLF.
			trailers, consumed, err := decodeTrailers(buf[i:], limits)
			if err != nil {
				return DecodedBody{}, i, err
			}
			i += consumed
			result.Data = body.Bytes()
			result.Trailers = trailers
			return result, i, nil
		}

		totalBody += size
		if limits.MaxBodyBytes > 0 && totalBody > limits.MaxBodyBytes {
			return DecodedBody{}, i, errLimit("body_bytes", uint64(totalBody), uint64(limits.MaxBodyBytes))
		}

		if int64(len(buf)-i) < size {
			return DecodedBody{}, i, errOf(IncompleteChunk)
		}
		data := buf[i : i+int(size)]
		i += int(size)
		if len(buf)-i < 2 || buf[i] != '\r' || buf[i+1] != '\n' {
			return DecodedBody{}, i, errOf(MissingCRLF)
		}
		i += 2

		body.Write(data)
		result.Extensions = append(result.Extensions, exts)
	}
}

func parseHex(b []byte) (int64, bool) {
	if len(b) == 0 {
		return 0, false
	}
	var n int64
	for _, c := range b {
		var v int64
		switch {
		case c >= '0' && c <= '9':
			v = int64(c - '0')
		case c >= 'a' && c <= 'f':
			v = int64(c-'a') + 10
		case c >= 'A' && c <= 'F':
			v = int64(c-'A') + 10
		default:
			return 0, false
		}
		n = n<<4 | v
		if n < 0 {
			return 0, false // overflow
		}
	}
	return n, true
}

func parseChunkExtensions(raw []byte, limits Limits) ([]ChunkExtension, error) {
	var exts []ChunkExtension
	for _, seg := range bytes.Split(raw, []byte(";")) {
		seg = trimOWS(seg)
		if len(seg) == 0 {
			continue
		}
		if limits.MaxExtensionsPerChunk > 0 && len(exts) >= limits.MaxExtensionsPerChunk {
			return nil, errLimit("chunk_extensions", uint64(len(exts)+1), uint64(limits.MaxExtensionsPerChunk))
		}
		eq := bytes.IndexByte(seg, '=')
		if eq < 0 {
			exts = append(exts, ChunkExtension{Name: string(seg)})
			continue
		}
		name := string(trimOWS(seg[:eq]))
		value := trimOWS(seg[eq+1:])
		if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
			value = unescapeQuoted(value[1 : len(value)-1])
		}
		exts = append(exts, ChunkExtension{Name: name, Value: string(value), HasValue: true})
	}
	return exts, nil
}

func unescapeQuoted(v []byte) []byte {
	out := make([]byte, 0, len(v))
	for i := 0; i < len(v); i++ {
		if v[i] == '\\' && i+1 < len(v) {
			i++
		}
		out = append(out, v[i])
	}
	return out
}

// decodeTrailers reads field lines until a blank line, per C2's field
// parser, then consumes the chunked-body's terminating CRLF. It returns
// the number of input bytes consumed (including that final CRLF) so the
// caller's cursor is exact, never approximated. It never looks past the
// blank line that ends the trailer-section, so bytes belonging to a
// pipelined next message (or unrelated garbage) past the chunked body
// are never touched, let alone rejected as malformed.
func decodeTrailers(buf []byte, limits Limits) (semantics.HeaderList, int, error) {
	var out semantics.HeaderList
	i := 0
	trailerBytes := 0
	for {
		end := bytes.Index(buf[i:], []byte("\r\n"))
		if end < 0 {
			return nil, i, errFormat("missing trailer-section terminator")
		}
		line := buf[i : i+end]
		i += end + 2
		if len(line) == 0 {
			return out, i, nil
		}
		trailerBytes += len(line) + 2
		if limits.MaxTrailerBytes > 0 && trailerBytes > limits.MaxTrailerBytes {
			return nil, i, errLimit("trailer_bytes", uint64(trailerBytes), uint64(limits.MaxTrailerBytes))
		}
		fl, ferr := ParseFieldLine(line)
		if ferr != nil {
			// malformed trailer: skip it, don't abort the body
			// (spec.md section 7, "the sole exception").
			continue
		}
		out = append(out, semantics.HeaderField{Name: string(fl.Name), Value: fl.Value})
	}
}
