// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package framing

import (
	"github.com/hyperfields/httpframe/semantics"
	"github.com/intuitivelabs/bytescase"
)

// UpgradeProtoKind resolves an Upgrade-header protocol token to a small
// known set (the teacher's UpgProtoResolve, parse_upgrade.go), per the
// IANA HTTP Upgrade Token Registry.
type UpgradeProtoKind uint8

const (
	UpgradeOther UpgradeProtoKind = iota
	UpgradeWebSocket
	UpgradeHTTP2
)

func resolveUpgradeProto(tok []byte) UpgradeProtoKind {
	switch {
	case bytescase.CmpEq(tok, []byte("websocket")):
		return UpgradeWebSocket
	case bytescase.CmpEq(tok, []byte("h2c")), bytescase.CmpEq(tok, []byte("http/2.0")):
		return UpgradeHTTP2
	default:
		return UpgradeOther
	}
}

// UpgradeProtocol is one parsed Upgrade-header protocol token.
type UpgradeProtocol struct {
	Token string
	Kind  UpgradeProtoKind
}

// ParseUpgrade concatenates every Upgrade header instance (RFC 9110
// section 5.2 list semantics) and resolves each protocol token (RFC 9110
// section 7.8). Unlike the teacher's UpgProtoGet, which only tracks the
// last protocol parsed per flag bucket, this keeps every token in order.
func ParseUpgrade(headers semantics.HeaderList) []UpgradeProtocol {
	var out []UpgradeProtocol
	for _, h := range headers.GetAll("Upgrade") {
		for _, part := range splitCommaOWS(h.Value) {
			if len(part) == 0 {
				continue
			}
			out = append(out, UpgradeProtocol{Token: string(part), Kind: resolveUpgradeProto(part)})
		}
	}
	return out
}
