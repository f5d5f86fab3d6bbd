// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package framing

import (
	"github.com/hyperfields/httpframe/semantics"
)

// BodyLengthKind tags a MessageBodyLength's variant (design note "Tagged
// variants vs. polymorphism").
type BodyLengthKind uint8

const (
	BodyNone BodyLengthKind = iota
	BodyFixed
	BodyChunked
	BodyUntilClose
)

// MessageBodyLength is the outcome of the body-length resolver (spec.md
// section 4.6), a tagged variant over the four ways RFC 9112 section 6.3
// lets a message body be delimited. Size is only meaningful when Kind ==
// BodyFixed.
type MessageBodyLength struct {
	Kind BodyLengthKind
	Size uint64
}

// contentLength resolves the (possibly repeated) Content-Length header
// instances to a single value, per the list-distinctness rule spec.md
// section 4.6 rule 4 requires: multiple instances are acceptable only if
// every one parses to the identical integer. Any non-integer, negative,
// leading-sign, or disagreeing value reports ok=false (the caller treats
// that as BodyNone for a response, per the 8-rule precedence, and C7's
// validators report it as MultipleContentLengthValues).
func contentLength(headers semantics.HeaderList) (value uint64, present bool, ok bool) {
	var got bool
	for _, h := range headers {
		if !h.NameEq("Content-Length") {
			continue
		}
		n, perr := parseContentLengthValue(h.Value)
		if perr != nil {
			return 0, true, false
		}
		if !got {
			value, got = n, true
			continue
		}
		if n != value {
			return 0, true, false
		}
	}
	return value, got, got
}

func parseContentLengthValue(v []byte) (uint64, error) {
	if len(v) == 0 {
		return 0, errFormat("empty Content-Length value")
	}
	var n uint64
	for _, c := range v {
		if c < '0' || c > '9' {
			return 0, errFormat("non-digit in Content-Length value")
		}
		d := uint64(c - '0')
		if n > (1<<64-1-d)/10 {
			return 0, errFormat("Content-Length overflow")
		}
		n = n*10 + d
	}
	return n, nil
}

// transferEncoding concatenates every Transfer-Encoding header instance
// (RFC 9110 section 5.2 list semantics) and parses the combined list.
// present reports whether the parsed list has at least one coding: a
// header that parses to zero codings (empty or all-OWS values) is
// treated identically to no Transfer-Encoding header at all (spec.md
// section 4.4, and ParseTransferCoding in transfercoding.go documents the
// same equivalence).
func transferEncoding(headers semantics.HeaderList) (TransferCoding, bool) {
	var values [][]byte
	for _, h := range headers {
		if h.NameEq("Transfer-Encoding") {
			values = append(values, h.Value)
		}
	}
	if len(values) == 0 {
		return TransferCoding{}, false
	}
	te := ParseTransferCodingAll(values)
	return te, len(te.Codings) > 0
}

// BodyLengthResponse applies the RFC 9112 section 6.3 precedence for a
// response, given the method of the request it answers (spec.md section
// 4.6). The open question on non-chunked-final Transfer-Encoding is
// resolved here by following the source behavior of treating it as
// UntilClose rather than rejecting outright. C7's ValidateResponse reports
// ChunkedNotFinalEncoding only when "chunked" appears in a non-final
// position; a Transfer-Encoding list that does not contain "chunked" at
// all (e.g. "gzip") passes validation and shows up only as BodyUntilClose
// here.
func BodyLengthResponse(headers semantics.HeaderList, reqMethod semantics.Method, status semantics.Status) MessageBodyLength {
	if reqMethod.IsHead() || status.Is1xx() || status.Code == 204 || status.Code == 304 {
		return MessageBodyLength{Kind: BodyNone}
	}
	if reqMethod.IsConnect() && status.Is2xx() {
		return MessageBodyLength{Kind: BodyNone}
	}
	if te, present := transferEncoding(headers); present {
		if te.IsChunkedFinal() {
			return MessageBodyLength{Kind: BodyChunked}
		}
		return MessageBodyLength{Kind: BodyUntilClose}
	}
	if n, present, ok := contentLength(headers); present {
		if !ok {
			return MessageBodyLength{Kind: BodyNone}
		}
		return MessageBodyLength{Kind: BodyFixed, Size: n}
	}
	return MessageBodyLength{Kind: BodyUntilClose}
}

// BodyLengthRequest applies the RFC 9112 section 6.3 precedence for a
// request (spec.md section 4.6): rules 3-4 apply unchanged, but rule 5
// resolves to BodyNone rather than BodyUntilClose — a request without
// framing headers never has a body read until connection close.
func BodyLengthRequest(headers semantics.HeaderList) MessageBodyLength {
	if te, present := transferEncoding(headers); present {
		if te.IsChunkedFinal() {
			return MessageBodyLength{Kind: BodyChunked}
		}
		return MessageBodyLength{Kind: BodyUntilClose}
	}
	if n, present, ok := contentLength(headers); present {
		if !ok {
			return MessageBodyLength{Kind: BodyNone}
		}
		return MessageBodyLength{Kind: BodyFixed, Size: n}
	}
	return MessageBodyLength{Kind: BodyNone}
}
