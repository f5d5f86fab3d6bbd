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

// SerializeRequest emits "method SP target SP HTTP-version CRLF *(field-line
// CRLF) CRLF [body]" (spec.md section 4.10). The request-target is
// rendered from its already-resolved Target form; callers constructing a
// Request from scratch resolve target via ParseTarget first.
func SerializeRequest(req semantics.Request, target Target, version HttpVersion) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(req.Method.Raw)
	buf.WriteByte(' ')
	buf.WriteString(target.Format())
	buf.WriteByte(' ')
	buf.WriteString(version.Format())
	buf.WriteString("\r\n")
	if err := writeFieldLines(&buf, req.Headers); err != nil {
		return nil, err
	}
	buf.WriteString("\r\n")
	if req.HasBody {
		buf.Write(req.Body)
	}
	return buf.Bytes(), nil
}

// SerializeResponse emits "HTTP-version SP 3DIGIT SP [reason-phrase] CRLF
// *(field-line CRLF) CRLF [body]" (spec.md section 4.10). includeReason
// controls whether the reason-phrase text is written; the separating SP
// after the status code is always emitted, even with an empty reason.
func SerializeResponse(resp semantics.Response, version HttpVersion, includeReason bool) ([]byte, error) {
	var buf bytes.Buffer
	sl := StatusLine{Version: version, StatusCode: resp.Status.Code, ReasonPhrase: resp.Status.ReasonPhrase, HasReason: resp.Status.HasReason}
	buf.WriteString(sl.Format(includeReason))
	buf.WriteString("\r\n")
	if err := writeFieldLines(&buf, resp.Headers); err != nil {
		return nil, err
	}
	buf.WriteString("\r\n")
	if resp.HasBody {
		buf.Write(resp.Body)
	}
	return buf.Bytes(), nil
}

// writeFieldLines emits "name: value\r\n" for every header, rejecting any
// value that would force the emitter to ever produce obs-fold, SP before
// a colon, or an embedded line break (spec.md section 4.10: the emitter
// MUST NEVER produce any of these, so a caller handing it a bad value
// fails the call rather than silently writing malformed bytes).
func writeFieldLines(buf *bytes.Buffer, headers semantics.HeaderList) error {
	for _, h := range headers {
		if len(h.Name) == 0 {
			return errOf(EmptyFieldName)
		}
		for i := 0; i < len(h.Name); i++ {
			if !isTokenChar(h.Name[i]) {
				return errOf(InvalidFieldName)
			}
		}
		for _, c := range h.Value {
			if c == '\r' || c == '\n' {
				return errFormat("header value contains embedded CR/LF")
			}
			if !isFieldValueChar(c) {
				return errOf(InvalidFieldValueChar)
			}
		}
		buf.WriteString(h.Name)
		buf.WriteString(": ")
		buf.Write(h.Value)
		buf.WriteString("\r\n")
	}
	return nil
}
