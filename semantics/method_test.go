// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package semantics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMethodIsIdempotent(t *testing.T) {
	assert.True(t, MethodGet.IsIdempotent())
	assert.True(t, MethodPut.IsIdempotent())
	assert.False(t, MethodPost.IsIdempotent())
	assert.False(t, MethodPatch.IsIdempotent())
}

// TestMethodIsIdempotentCaseSensitive guards the RFC 9112 section 3
// invariant that method tokens are case-sensitive on the wire: "get" is
// an unregistered extension method distinct from GET, not idempotent.
func TestMethodIsIdempotentCaseSensitive(t *testing.T) {
	assert.False(t, Method{Raw: "get"}.IsIdempotent())
}

func TestMethodIsHeadIsConnect(t *testing.T) {
	assert.True(t, MethodHead.IsHead())
	assert.True(t, MethodConnect.IsConnect())
	assert.False(t, MethodGet.IsHead())
}

func TestMethodIs(t *testing.T) {
	assert.True(t, MethodGet.Is(Method{Raw: "GET"}))
	assert.False(t, MethodGet.Is(MethodPost))
}
