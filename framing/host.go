// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package framing

import "github.com/hyperfields/httpframe/semantics"

// ValidateHost enforces the Host-header rules of spec.md section 4.8 /
// RFC 9112 section 3.2.2 for a request. version is the request's observed
// HTTP version, target the already-resolved request-target: when target
// is an AbsoluteForm target, its authority must match the Host header.
// HTTP/1.0 requests are exempt from the presence requirement but are
// still subject to format checks when a Host is supplied.
func ValidateHost(headers semantics.HeaderList, version HttpVersion, target Target) error {
	hosts := headers.GetAll("Host")
	if len(hosts) == 0 {
		if version.AtLeast(HTTP11) {
			return errOf(MissingHost)
		}
		return nil
	}
	if len(hosts) > 1 {
		return errOf(MultipleHostHeaders)
	}

	auth, err := parseHostValue(hosts[0].Value)
	if err != nil {
		return err
	}

	if target.Form == AbsoluteForm {
		if !auth.EqualHost(target.URI.Authority) {
			return errOf(HostMismatchesAuthority)
		}
	}
	return nil
}

// parseHostValue parses a raw Host header value into an Authority,
// enforcing the bracketed-IPv6 and numeric-port rules spec.md section 4.8
// requires, independent of semantics.ParseAuthority's leniency (that
// parser is written for resolving URI authorities generically; here an
// empty or whitespace-bearing value must be rejected outright rather than
// silently accepted as a bare host).
func parseHostValue(value []byte) (semantics.Authority, error) {
	trimmed := trimOWS(value)
	if len(trimmed) == 0 {
		return semantics.Authority{}, errOf(InvalidHostFormat)
	}
	for _, c := range trimmed {
		if c == ' ' || c == '\t' {
			return semantics.Authority{}, errOf(InvalidHostFormat)
		}
	}
	if trimmed[0] == '[' {
		end := -1
		for i, c := range trimmed {
			if c == ']' {
				end = i
				break
			}
		}
		if end < 0 {
			return semantics.Authority{}, errOf(InvalidHostFormat)
		}
		a := semantics.Authority{Host: string(trimmed[1:end]), IsIPv6: true}
		rest := trimmed[end+1:]
		if len(rest) == 0 {
			return a, nil
		}
		if rest[0] != ':' {
			return semantics.Authority{}, errOf(InvalidHostFormat)
		}
		port, ok := parseHostPort(rest[1:])
		if !ok {
			return semantics.Authority{}, errOf(InvalidPort)
		}
		a.Port = port
		a.HasPort = true
		return a, nil
	}
	colon := -1
	for i, c := range trimmed {
		if c == ':' {
			colon = i
		}
	}
	if colon < 0 {
		return semantics.Authority{Host: string(trimmed)}, nil
	}
	port, ok := parseHostPort(trimmed[colon+1:])
	if !ok {
		return semantics.Authority{}, errOf(InvalidPort)
	}
	return semantics.Authority{Host: string(trimmed[:colon]), Port: port, HasPort: true}, nil
}

func parseHostPort(b []byte) (uint16, bool) {
	if len(b) == 0 {
		return 0, false
	}
	var n uint32
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + uint32(c-'0')
		if n > 65535 {
			return 0, false
		}
	}
	return uint16(n), true
}
