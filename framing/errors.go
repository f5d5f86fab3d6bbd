// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package framing

import "fmt"

// Kind enumerates the typed error taxonomy of the wire-format codec.
// Every error this package returns carries one of these, so callers can
// pattern-match on it instead of parsing a message string. The teacher
// (intuitivelabs/httpsp) represents parse errors the same way, as a small
// numeric ErrorHdr; Kind keeps that shape but the wrapping Error struct
// below also implements the standard error interface and carries the
// structured payload (line numbers, limit counters) spec.md's taxonomy
// needs, which a bare numeric enum cannot.
type Kind int

const (
	// Syntax errors (section 7): invalid input bytes.
	BareCR Kind = iota
	LineTooLong
	MissingColon
	EmptyFieldName
	WhitespaceBeforeColon
	InvalidFieldName
	InvalidFieldValueChar
	InvalidFormat
	InvalidStatusCode
	StatusCodeOutOfRange
	InvalidHTTPName
	InvalidVersionNumber
	InvalidChunkSize
	IncompleteChunk
	MissingCRLF
	InvalidTarget
	ObsFoldWithoutPrecedingField

	// Framing / security errors: well-formed syntax, dangerous semantics.
	AmbiguousMessageFraming
	MultipleContentLengthValues
	ChunkedNotFinalEncoding
	ChunkedAppliedMultipleTimes
	TransferEncodingWithContentLength
	TransferEncodingWithIncompatibleStatus

	// Host-validation errors.
	MissingHost
	MultipleHostHeaders
	InvalidHostFormat
	InvalidPort
	HostMismatchesAuthority

	// Completeness errors: caller should feed more bytes and retry.
	IncompleteBody
	MissingHeaderBodySeparator
	EmptyMessage

	// Limit errors.
	LimitExceeded
)

var kindNames = [...]string{
	BareCR:                             "BareCR",
	LineTooLong:                        "LineTooLong",
	MissingColon:                       "MissingColon",
	EmptyFieldName:                     "EmptyFieldName",
	WhitespaceBeforeColon:              "WhitespaceBeforeColon",
	InvalidFieldName:                   "InvalidFieldName",
	InvalidFieldValueChar:              "InvalidFieldValueChar",
	InvalidFormat:                      "InvalidFormat",
	InvalidStatusCode:                  "InvalidStatusCode",
	StatusCodeOutOfRange:               "StatusCodeOutOfRange",
	InvalidHTTPName:                    "InvalidHTTPName",
	InvalidVersionNumber:               "InvalidVersionNumber",
	InvalidChunkSize:                   "InvalidChunkSize",
	IncompleteChunk:                    "IncompleteChunk",
	MissingCRLF:                        "MissingCRLF",
	InvalidTarget:                      "InvalidTarget",
	ObsFoldWithoutPrecedingField:       "ObsFoldWithoutPrecedingField",
	AmbiguousMessageFraming:            "AmbiguousMessageFraming",
	MultipleContentLengthValues:        "MultipleContentLengthValues",
	ChunkedNotFinalEncoding:            "ChunkedNotFinalEncoding",
	ChunkedAppliedMultipleTimes:        "ChunkedAppliedMultipleTimes",
	TransferEncodingWithContentLength:  "TransferEncodingWithContentLength",
	TransferEncodingWithIncompatibleStatus: "TransferEncodingWithIncompatibleStatus",
	MissingHost:                        "MissingHost",
	MultipleHostHeaders:                "MultipleHostHeaders",
	InvalidHostFormat:                  "InvalidHostFormat",
	InvalidPort:                        "InvalidPort",
	HostMismatchesAuthority:            "HostMismatchesAuthority",
	IncompleteBody:                     "IncompleteBody",
	MissingHeaderBodySeparator:         "MissingHeaderBodySeparator",
	EmptyMessage:                       "EmptyMessage",
	LimitExceeded:                      "LimitExceeded",
}

func (k Kind) String() string {
	if int(k) < 0 || int(k) >= len(kindNames) {
		return "Unknown"
	}
	return kindNames[k]
}

// Error is the single error type every exported function in this package
// returns. Only the fields relevant to Kind are populated; the rest are
// zero. Use errors.As to recover it from a wrapped error, or compare Kind
// directly after a type assertion.
type Error struct {
	Kind Kind

	// Line is the 1-based line number a syntax error occurred on (BareCR,
	// and any error the line tokenizer or field-line parser attributes to
	// a specific line). Zero if not applicable.
	Line int

	// Reason carries free-form detail for InvalidFormat.
	Reason string

	// Expected/Available are used by IncompleteBody.
	Expected  uint64
	Available uint64

	// LimitKind/Observed/Cap are used by LimitExceeded.
	LimitKind string
	Observed  uint64
	Cap       uint64
}

func (e *Error) Error() string {
	switch e.Kind {
	case BareCR:
		return fmt.Sprintf("httpframe: bare CR on line %d", e.Line)
	case LineTooLong:
		return fmt.Sprintf("httpframe: line %d exceeds %d octets", e.Line, e.Cap)
	case InvalidFormat:
		return fmt.Sprintf("httpframe: invalid format: %s", e.Reason)
	case IncompleteBody:
		return fmt.Sprintf("httpframe: incomplete body: expected %d, available %d", e.Expected, e.Available)
	case LimitExceeded:
		return fmt.Sprintf("httpframe: limit exceeded: %s observed=%d cap=%d", e.LimitKind, e.Observed, e.Cap)
	default:
		return "httpframe: " + e.Kind.String()
	}
}

// IsIncomplete reports whether err signals "feed more bytes and retry"
// rather than a hard parse failure (spec.md section 7, "Completeness
// errors").
func IsIncomplete(err error) bool {
	e, ok := err.(*Error)
	if !ok {
		return false
	}
	switch e.Kind {
	case IncompleteBody, MissingHeaderBodySeparator, EmptyMessage:
		return true
	}
	return false
}

// IsFramingSecurity reports whether err is one of the anti-smuggling /
// anti-splitting errors on which callers MUST close the connection
// (spec.md section 7, "Propagation policy").
func IsFramingSecurity(err error) bool {
	e, ok := err.(*Error)
	if !ok {
		return false
	}
	switch e.Kind {
	case AmbiguousMessageFraming, MultipleContentLengthValues,
		ChunkedNotFinalEncoding, ChunkedAppliedMultipleTimes,
		TransferEncodingWithContentLength, TransferEncodingWithIncompatibleStatus:
		return true
	}
	return false
}

func errOf(k Kind) *Error { return &Error{Kind: k} }

func errLine(k Kind, line int) *Error { return &Error{Kind: k, Line: line} }

func errFormat(reason string) *Error { return &Error{Kind: InvalidFormat, Reason: reason} }

func errLimit(kind string, observed, cap uint64) *Error {
	return &Error{Kind: LimitExceeded, LimitKind: kind, Observed: observed, Cap: cap}
}
