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

func TestParseUpgradeResolvesKnownProtocols(t *testing.T) {
	headers := semantics.HeaderList{hdr("Upgrade", "websocket, h2c")}
	ups := ParseUpgrade(headers)
	assert.Len(t, ups, 2)
	assert.Equal(t, UpgradeWebSocket, ups[0].Kind)
	assert.Equal(t, UpgradeHTTP2, ups[1].Kind)
}

func TestParseUpgradeUnknownProtocolIsOther(t *testing.T) {
	ups := ParseUpgrade(semantics.HeaderList{hdr("Upgrade", "carrier-pigeon/1.0")})
	assert.Len(t, ups, 1)
	assert.Equal(t, UpgradeOther, ups[0].Kind)
}

func TestParseUpgradeConcatenatesAcrossHeaders(t *testing.T) {
	headers := semantics.HeaderList{hdr("Upgrade", "websocket"), hdr("Upgrade", "h2c")}
	ups := ParseUpgrade(headers)
	assert.Len(t, ups, 2)
}
