// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package framing

import "github.com/hyperfields/httpframe/semantics"

// ValidateRequest enforces the anti-smuggling rules of spec.md section
// 4.7 / RFC 9112 section 11.2 on an already-parsed header list. Header
// name comparisons are ASCII case-insensitive throughout (bytescase, via
// semantics.HeaderField.NameEq).
func ValidateRequest(headers semantics.HeaderList) error {
	te, hasTE := transferEncoding(headers)
	hasCL := headers.Count("Content-Length") > 0
	if hasTE && hasCL {
		return errOf(AmbiguousMessageFraming)
	}
	if hasTE {
		if err := validateTransferEncodingList(te); err != nil {
			return err
		}
	}
	if hasCL {
		if _, _, ok := contentLength(headers); !ok {
			return errOf(MultipleContentLengthValues)
		}
	}
	return nil
}

// ValidateResponse applies every rule ValidateRequest does, plus the
// response-only status-code interactions of spec.md section 4.7 / RFC
// 9112 section 11.1.
func ValidateResponse(headers semantics.HeaderList, status semantics.Status) error {
	if status.Code < 100 || status.Code > 599 {
		return errOf(StatusCodeOutOfRange)
	}
	te, hasTE := transferEncoding(headers)
	hasCL := headers.Count("Content-Length") > 0
	if hasTE && hasCL {
		return errOf(TransferEncodingWithContentLength)
	}
	if hasTE {
		if status.Is1xx() || status.Code == 204 || status.Code == 304 {
			return errOf(TransferEncodingWithIncompatibleStatus)
		}
		if err := validateTransferEncodingList(te); err != nil {
			return err
		}
	}
	if hasCL {
		if _, _, ok := contentLength(headers); !ok {
			return errOf(MultipleContentLengthValues)
		}
	}
	return nil
}

// validateTransferEncodingList requires an already-parsed Transfer-Encoding
// list to have "chunked" appear at most once and, when present, only in
// the final position (RFC 9112 section 6.1).
func validateTransferEncodingList(te TransferCoding) error {
	if te.ChunkedCount() > 1 {
		return errOf(ChunkedAppliedMultipleTimes)
	}
	if te.HasChunked() && !te.IsChunkedFinal() {
		return errOf(ChunkedNotFinalEncoding)
	}
	return nil
}
