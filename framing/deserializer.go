// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package framing

import "github.com/hyperfields/httpframe/semantics"

// DeserializeRequest drives C1-C6 over buf to produce a complete
// semantics.Request plus the exact number of input bytes consumed
// (spec.md section 4.9). bytesConsumed is never approximated from a
// remaining-slice length (section 9 singles this out as a correctness
// requirement the teacher gets wrong); every branch below advances a
// running cursor one step at a time.
func DeserializeRequest(buf []byte, policy ObsFoldPolicy, limits Limits) (semantics.Request, int, error) {
	lines, err := TokenizeLines(buf)
	if err != nil {
		return semantics.Request{}, 0, err
	}
	if len(lines) == 0 {
		return semantics.Request{}, 0, errOf(EmptyMessage)
	}
	if limits.MaxStartLine > 0 && len(lines[0].Data) > limits.MaxStartLine {
		return semantics.Request{}, 0, &Error{Kind: LineTooLong, Line: lines[0].Num, Cap: uint64(limits.MaxStartLine)}
	}

	blankIdx, found := FindBlankLine(lines)
	if !found {
		return semantics.Request{}, 0, errOf(MissingHeaderBodySeparator)
	}

	reqLine, err := ParseRequestLine(lines[0].Data)
	if err != nil {
		return semantics.Request{}, 0, err
	}
	method := semantics.Method{Raw: reqLine.Method}

	headers, err := ParseFieldLines(lines[1:blankIdx], policy, limits)
	if err != nil {
		return semantics.Request{}, 0, err
	}

	if err := ValidateRequest(headers); err != nil {
		return semantics.Request{}, 0, err
	}

	target, err := ParseTarget(reqLine.TargetRaw, method)
	if err != nil {
		return semantics.Request{}, 0, err
	}
	if err := ValidateHost(headers, reqLine.Version, target); err != nil {
		return semantics.Request{}, 0, err
	}

	cursor := 0
	for i := 0; i <= blankIdx; i++ {
		cursor += len(lines[i].Data) + termLen(lines[i].Term)
	}

	bodyLen := BodyLengthRequest(headers)
	body, consumed, err := readBody(buf[cursor:], bodyLen, limits, &headers)
	if err != nil {
		return semantics.Request{}, cursor, err
	}
	cursor += consumed

	req := semantics.Request{
		Method:    method,
		TargetRaw: reqLine.TargetRaw,
		Headers:   headers,
		Body:      body,
		HasBody:   bodyLen.Kind != BodyNone,
	}
	return req, cursor, nil
}

// DeserializeResponse drives C1-C6 over buf to produce a complete
// semantics.Response plus bytes_consumed, given the method of the
// request this response answers (required by the body-length resolver's
// HEAD/CONNECT rules, spec.md section 4.6).
func DeserializeResponse(buf []byte, reqMethod semantics.Method, policy ObsFoldPolicy, limits Limits) (semantics.Response, int, error) {
	lines, err := TokenizeLines(buf)
	if err != nil {
		return semantics.Response{}, 0, err
	}
	if len(lines) == 0 {
		return semantics.Response{}, 0, errOf(EmptyMessage)
	}
	if limits.MaxStartLine > 0 && len(lines[0].Data) > limits.MaxStartLine {
		return semantics.Response{}, 0, &Error{Kind: LineTooLong, Line: lines[0].Num, Cap: uint64(limits.MaxStartLine)}
	}

	blankIdx, found := FindBlankLine(lines)
	if !found {
		return semantics.Response{}, 0, errOf(MissingHeaderBodySeparator)
	}

	statusLine, err := ParseStatusLine(lines[0].Data)
	if err != nil {
		return semantics.Response{}, 0, err
	}
	status := semantics.Status{Code: statusLine.StatusCode, ReasonPhrase: statusLine.ReasonPhrase, HasReason: statusLine.HasReason}

	headers, err := ParseFieldLines(lines[1:blankIdx], policy, limits)
	if err != nil {
		return semantics.Response{}, 0, err
	}

	if err := ValidateResponse(headers, status); err != nil {
		return semantics.Response{}, 0, err
	}

	cursor := 0
	for i := 0; i <= blankIdx; i++ {
		cursor += len(lines[i].Data) + termLen(lines[i].Term)
	}

	bodyLen := BodyLengthResponse(headers, reqMethod, status)
	body, consumed, err := readBody(buf[cursor:], bodyLen, limits, &headers)
	if err != nil {
		return semantics.Response{}, cursor, err
	}
	cursor += consumed

	resp := semantics.Response{
		Status:  status,
		Headers: headers,
		Body:    body,
		HasBody: bodyLen.Kind != BodyNone,
	}
	return resp, cursor, nil
}

// readBody consumes the body per the resolved MessageBodyLength (spec.md
// section 4.9 step 6). For Chunked, any trailers C5 reports are appended
// to headers in the order received, after the header-section fields.
func readBody(rest []byte, bodyLen MessageBodyLength, limits Limits, headers *semantics.HeaderList) ([]byte, int, error) {
	switch bodyLen.Kind {
	case BodyNone:
		return nil, 0, nil
	case BodyFixed:
		if uint64(len(rest)) < bodyLen.Size {
			return nil, 0, &Error{Kind: IncompleteBody, Expected: bodyLen.Size, Available: uint64(len(rest))}
		}
		return rest[:bodyLen.Size], int(bodyLen.Size), nil
	case BodyChunked:
		decoded, consumed, err := DecodeChunked(rest, limits)
		if err != nil {
			return nil, consumed, err
		}
		*headers = append(*headers, decoded.Trailers...)
		return decoded.Data, consumed, nil
	default: // BodyUntilClose
		return rest, len(rest), nil
	}
}

func termLen(t LineTerminator) int {
	switch t {
	case CRLF:
		return 2
	case LF:
		return 1
	default:
		return 0
	}
}
