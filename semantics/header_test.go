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

func TestHeaderListGetCaseInsensitive(t *testing.T) {
	hl := HeaderList{{Name: "Content-Type", Value: []byte("text/plain")}}
	h, found := hl.Get("content-type")
	assert.True(t, found)
	assert.Equal(t, "text/plain", string(h.Value))
}

func TestHeaderListGetAllPreservesOrder(t *testing.T) {
	hl := HeaderList{
		{Name: "X-A", Value: []byte("1")},
		{Name: "x-a", Value: []byte("2")},
	}
	all := hl.GetAll("X-A")
	assert.Len(t, all, 2)
	assert.Equal(t, "1", string(all[0].Value))
	assert.Equal(t, "2", string(all[1].Value))
}

func TestHeaderListCount(t *testing.T) {
	hl := HeaderList{{Name: "A", Value: []byte("1")}, {Name: "a", Value: []byte("2")}, {Name: "B", Value: []byte("3")}}
	assert.Equal(t, 2, hl.Count("A"))
	assert.Equal(t, 1, hl.Count("B"))
	assert.Equal(t, 0, hl.Count("C"))
}
