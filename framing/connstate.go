// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package framing

import (
	"github.com/google/uuid"
	"github.com/hyperfields/httpframe/semantics"
)

// ConnectionOption is a deduplicated set of lowercase Connection-header
// tokens (spec.md section 3): "close", "keep-alive", "upgrade" are the
// well-known ones, but the set stores whatever tokens it was given.
// Insertion order is preserved for Format, matching the design note that
// deterministic sort is only required when round-trip stability is under
// test.
type ConnectionOption struct {
	order []string
	has   map[string]bool
}

// ParseConnectionOptions parses a comma-separated Connection header value
// (or the concatenation of several instances, RFC 9110 section 5.2) into
// a deduplicated option set.
func ParseConnectionOptions(values [][]byte) ConnectionOption {
	opt := ConnectionOption{has: make(map[string]bool)}
	for _, v := range values {
		for _, part := range splitCommaOWS(v) {
			if len(part) == 0 {
				continue
			}
			lower := toLowerString(part)
			if !opt.has[lower] {
				opt.has[lower] = true
				opt.order = append(opt.order, lower)
			}
		}
	}
	return opt
}

// Has reports whether token (already lowercase) is present in the set.
func (o ConnectionOption) Has(token string) bool { return o.has[token] }

// Format renders the set back to wire form, comma-separated, in
// insertion order.
func (o ConnectionOption) Format() string {
	s := ""
	for i, t := range o.order {
		if i > 0 {
			s += ", "
		}
		s += t
	}
	return s
}

// connectionOptionsOf collects every Connection header instance on a
// header list into one ConnectionOption set.
func connectionOptionsOf(headers semantics.HeaderList) ConnectionOption {
	var values [][]byte
	for _, h := range headers.GetAll("Connection") {
		values = append(values, h.Value)
	}
	return ParseConnectionOptions(values)
}

// ConnectionState is the small per-connection persistence record of
// spec.md section 4.11. Zero value is not usable; construct with
// NewConnectionState.
type ConnectionState struct {
	ID             uuid.UUID
	Version        HttpVersion
	ShouldPersist  bool
	CloseRequested bool
	upgradeAccepted  bool
	requestedUpgrade []UpgradeProtocol
}

// NewConnectionState creates a connection record for version, with
// ShouldPersist initialized to version >= HTTP/1.1 (spec.md section
// 4.11). The ID is a fresh random connection identifier, useful for
// correlating log lines across a connection's lifetime.
func NewConnectionState(version HttpVersion) *ConnectionState {
	return &ConnectionState{
		ID:            uuid.New(),
		Version:       version,
		ShouldPersist: version.AtLeast(HTTP11),
	}
}

// ProcessRequest updates the connection record after observing a
// request's headers: a "Connection: close" token closes the connection
// (spec.md section 4.11); an "Upgrade" header is recorded so a later
// IsUpgradeAccepted can be cross-checked against what was actually asked
// for.
func (c *ConnectionState) ProcessRequest(headers semantics.HeaderList) {
	opts := connectionOptionsOf(headers)
	if opts.Has("close") {
		c.CloseRequested = true
		c.ShouldPersist = false
	}
	if opts.Has("upgrade") {
		c.requestedUpgrade = ParseUpgrade(headers)
	}
}

// RequestedUpgrade returns the protocols named by the most recently
// processed request's Upgrade header, if Connection: upgrade was also
// present.
func (c *ConnectionState) RequestedUpgrade() []UpgradeProtocol {
	return c.requestedUpgrade
}

// ProcessResponse updates the connection record after observing a
// response's status and headers: "Connection: close" closes the
// connection; "Connection: keep-alive" on an HTTP/1.0 connection revives
// persistence; a 101 status marks the upgrade as accepted.
func (c *ConnectionState) ProcessResponse(status semantics.Status, headers semantics.HeaderList) {
	opts := connectionOptionsOf(headers)
	if opts.Has("close") {
		c.CloseRequested = true
		c.ShouldPersist = false
	}
	if opts.Has("keep-alive") && !c.Version.AtLeast(HTTP11) {
		c.ShouldPersist = true
	}
	if status.Code == 101 {
		c.upgradeAccepted = true
	}
}

// IsPersistent reports whether the connection should remain open for a
// further request/response pair.
func (c *ConnectionState) IsPersistent() bool {
	return c.ShouldPersist && !c.CloseRequested
}

// Close marks the connection for closing unconditionally.
func (c *ConnectionState) Close() {
	c.CloseRequested = true
	c.ShouldPersist = false
}

// Reset returns the connection record to its initial state for version,
// for reuse across a freshly accepted connection on the same listener.
func (c *ConnectionState) Reset(version HttpVersion) {
	c.ID = uuid.New()
	c.Version = version
	c.ShouldPersist = version.AtLeast(HTTP11)
	c.CloseRequested = false
	c.upgradeAccepted = false
	c.requestedUpgrade = nil
}

// IsUpgradeAccepted reports whether the most recently processed response
// accepted a protocol upgrade (status 101).
func (c *ConnectionState) IsUpgradeAccepted() bool {
	return c.upgradeAccepted
}

// pendingRequest is one in-flight request tracked by Pipeline.
type pendingRequest struct {
	method    semantics.Method
	timestamp int64
}

// Pipeline is the lightweight FIFO request/response matching helper of
// spec.md section 4.11: it refuses to enqueue a further request after a
// non-idempotent one until that method's response has been dequeued,
// preserving the strict request/response ordering invariant a pipelined
// connection depends on.
type Pipeline struct {
	pending []pendingRequest
}

// Enqueue records an in-flight request at the given timestamp (caller
// supplied, since this package never calls time.Now: spec.md section 9
// forbids non-deterministic calls inside the pure codec). It fails if the
// most recently enqueued request was non-idempotent and has not yet been
// completed by a matching Dequeue.
func (p *Pipeline) Enqueue(method semantics.Method, timestamp int64) error {
	if n := len(p.pending); n > 0 && !p.pending[n-1].method.IsIdempotent() {
		return errFormat("cannot pipeline a request while a non-idempotent request is outstanding")
	}
	p.pending = append(p.pending, pendingRequest{method: method, timestamp: timestamp})
	return nil
}

// Dequeue matches the next response to the oldest outstanding request,
// FIFO, and returns that request's method. It fails if nothing is
// outstanding.
func (p *Pipeline) Dequeue() (semantics.Method, error) {
	if len(p.pending) == 0 {
		return semantics.Method{}, errFormat("no outstanding request to match a response against")
	}
	m := p.pending[0].method
	p.pending = p.pending[1:]
	return m, nil
}

// Len reports how many requests are currently outstanding.
func (p *Pipeline) Len() int { return len(p.pending) }
