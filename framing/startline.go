// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package framing

import (
	"bytes"
)

// RequestLine is the parsed first line of a request (spec.md section 3).
// TargetRaw is kept as the raw octets between the two SPs, exactly as
// received; resolving it into a tagged Target is a separate step
// (ParseTarget) because it needs the method to detect CONNECT's
// authority-form requirement.
type RequestLine struct {
	Method    string
	TargetRaw string
	Version   HttpVersion
}

var httpVerSep = []byte(" HTTP/")

// ParseRequestLine parses "method SP target SP HTTP-version" (no
// terminator in line). The method is split off at the first SP; the
// version is located by the *last* occurrence of " HTTP/" so that a
// target containing literal spaces (which spec.md forbids anyway, see
// below) doesn't confuse the split. The target must not contain internal
// whitespace.
func ParseRequestLine(line []byte) (RequestLine, error) {
	sp := bytes.IndexByte(line, ' ')
	if sp <= 0 {
		return RequestLine{}, errFormat("missing method in request-line")
	}
	method := line[:sp]

	verSep := bytes.LastIndex(line, httpVerSep)
	if verSep <= sp {
		return RequestLine{}, errFormat("missing HTTP-version in request-line")
	}
	target := line[sp+1 : verSep]
	verTok := line[verSep+1:]

	if len(target) == 0 {
		return RequestLine{}, errFormat("empty request-target")
	}
	for _, c := range target {
		if c == ' ' || c == '\t' {
			return RequestLine{}, errFormat("whitespace inside request-target")
		}
	}

	version, err := ParseHttpVersion(verTok)
	if err != nil {
		return RequestLine{}, err
	}
	return RequestLine{Method: string(method), TargetRaw: string(target), Version: version}, nil
}

// Format renders the request-line back to wire form, "method SP target SP
// HTTP-version" with no terminator.
func (r RequestLine) Format() string {
	return r.Method + " " + r.TargetRaw + " " + r.Version.Format()
}

// StatusLine is the parsed first line of a response (spec.md section 3).
type StatusLine struct {
	Version      HttpVersion
	StatusCode   uint16
	ReasonPhrase string
	HasReason    bool
}

// ParseStatusLine parses "HTTP-version SP 3DIGIT SP [reason-phrase]". The
// separating SP between code and reason is required even when the reason
// is absent.
func ParseStatusLine(line []byte) (StatusLine, error) {
	sp1 := bytes.IndexByte(line, ' ')
	if sp1 <= 0 {
		return StatusLine{}, errFormat("missing HTTP-version in status-line")
	}
	version, err := ParseHttpVersion(line[:sp1])
	if err != nil {
		return StatusLine{}, err
	}
	rest := line[sp1+1:]
	if len(rest) < 3 {
		return StatusLine{}, errOf(InvalidStatusCode)
	}
	codeTok := rest[:3]
	for _, c := range codeTok {
		if c < '0' || c > '9' {
			return StatusLine{}, errOf(InvalidStatusCode)
		}
	}
	code := uint16(codeTok[0]-'0')*100 + uint16(codeTok[1]-'0')*10 + uint16(codeTok[2]-'0')
	if code < 100 || code > 999 {
		return StatusLine{}, errOf(StatusCodeOutOfRange)
	}
	if len(rest) == 3 {
		// missing the mandatory separating SP after the code.
		return StatusLine{}, errFormat("missing SP after status code")
	}
	if rest[3] != ' ' {
		return StatusLine{}, errFormat("missing SP after status code")
	}
	reason := rest[4:]
	return StatusLine{Version: version, StatusCode: code, ReasonPhrase: string(reason), HasReason: len(reason) > 0}, nil
}

// Format renders the status-line back to wire form. includeReason
// controls whether the reason phrase text is emitted; the trailing SP
// after the status code is always emitted, even with an empty reason
// (spec.md section 4.10).
func (s StatusLine) Format(includeReason bool) string {
	reason := ""
	if includeReason {
		reason = s.ReasonPhrase
	}
	return s.Version.Format() + " " + padStatusCode(s.StatusCode) + " " + reason
}

func padStatusCode(code uint16) string {
	d := [3]byte{'0', '0', '0'}
	d[2] = byte('0' + code%10)
	code /= 10
	d[1] = byte('0' + code%10)
	code /= 10
	d[0] = byte('0' + code%10)
	return string(d[:])
}
