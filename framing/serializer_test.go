// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package framing

import (
	"testing"

	"github.com/hyperfields/httpframe/semantics"
	"github.com/stretchr/testify/assert"
)

func TestSerializeRequestRoundTrip(t *testing.T) {
	req := semantics.Request{
		Method:    semantics.MethodGet,
		TargetRaw: "/a/b",
		Headers:   semantics.HeaderList{hdr("Host", "a.com")},
	}
	tgt, err := ParseTarget(req.TargetRaw, req.Method)
	assert.NoError(t, err)
	out, err := SerializeRequest(req, tgt, HTTP11)
	assert.NoError(t, err)
	assert.Equal(t, "GET /a/b HTTP/1.1\r\nHost: a.com\r\n\r\n", string(out))
}

func TestSerializeResponseEmptyReasonStillEmitsSP(t *testing.T) {
	resp := semantics.Response{Status: semantics.Status{Code: 204}}
	out, err := SerializeResponse(resp, HTTP11, true)
	assert.NoError(t, err)
	assert.Equal(t, "HTTP/1.1 204 \r\n\r\n", string(out))
}

func TestSerializeRejectsEmbeddedCRLFInValue(t *testing.T) {
	req := semantics.Request{
		Method:    semantics.MethodGet,
		TargetRaw: "/",
		Headers:   semantics.HeaderList{hdr("X-Evil", "a\r\nSet-Cookie: x")},
	}
	tgt, _ := ParseTarget(req.TargetRaw, req.Method)
	_, err := SerializeRequest(req, tgt, HTTP11)
	assert.Error(t, err)
}

func TestSerializeRejectsWhitespaceInName(t *testing.T) {
	resp := semantics.Response{
		Status:  semantics.Status{Code: 200},
		Headers: semantics.HeaderList{hdr("Bad Name", "v")},
	}
	_, err := SerializeResponse(resp, HTTP11, true)
	assert.Error(t, err)
}

func TestSerializeResponseWithBody(t *testing.T) {
	resp := semantics.Response{
		Status:  semantics.Status{Code: 200, ReasonPhrase: "OK", HasReason: true},
		Headers: semantics.HeaderList{hdr("Content-Length", "2")},
		Body:    []byte("hi"),
		HasBody: true,
	}
	out, err := SerializeResponse(resp, HTTP11, true)
	assert.NoError(t, err)
	assert.Equal(t, "HTTP/1.1 200 OK\r\nContent-Length: 2\r\n\r\nhi", string(out))
}
