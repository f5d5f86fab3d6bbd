// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package framing

import (
	"strings"

	"github.com/hyperfields/httpframe/semantics"
)

// TargetForm identifies which of the four request-target forms RFC 9112
// section 3.2 describes a Target holds.
type TargetForm uint8

const (
	OriginForm TargetForm = iota
	AbsoluteForm
	AuthorityForm
	AsteriskForm
)

// Target is the resolved request-target (spec.md section 3), a tagged
// variant over the four wire forms. Exactly one of the per-form fields is
// meaningful, selected by Form; this mirrors the teacher's tagged-enum
// convention for sum types (design note: "Tagged variants vs.
// polymorphism").
type Target struct {
	Form TargetForm

	// OriginForm
	Path     semantics.Path
	Query    semantics.Query
	HasQuery bool

	// AbsoluteForm
	URI semantics.URI

	// AuthorityForm
	Authority semantics.Authority
}

// ParseTarget resolves the raw request-target octets captured between
// the two SPs of the request-line into a tagged Target, given the
// request's method (CONNECT requires authority-form; RFC 9112 section
// 3.2.3).
func ParseTarget(raw string, method semantics.Method) (Target, error) {
	if raw == "" {
		return Target{}, errOf(InvalidTarget)
	}
	if raw == "*" {
		return Target{Form: AsteriskForm}, nil
	}
	if method.IsConnect() {
		auth, err := semantics.ParseAuthority(raw)
		if err != nil {
			return Target{}, errOf(InvalidTarget)
		}
		return Target{Form: AuthorityForm, Authority: auth}, nil
	}
	if raw[0] == '/' {
		path := raw
		query := ""
		hasQuery := false
		if q := strings.IndexByte(raw, '?'); q >= 0 {
			path = raw[:q]
			query = raw[q+1:]
			hasQuery = true
		}
		return Target{Form: OriginForm, Path: semantics.Path(path), Query: semantics.Query(query), HasQuery: hasQuery}, nil
	}
	if strings.Contains(raw, "://") {
		uri, err := semantics.ParseURI(raw)
		if err != nil {
			return Target{}, errOf(InvalidTarget)
		}
		return Target{Form: AbsoluteForm, URI: uri}, nil
	}
	return Target{}, errOf(InvalidTarget)
}

// Format renders the target back to wire form (used by the serializer,
// C10).
func (t Target) Format() string {
	switch t.Form {
	case AsteriskForm:
		return "*"
	case AuthorityForm:
		return t.Authority.String()
	case AbsoluteForm:
		return t.URI.String()
	default: // OriginForm
		s := string(t.Path)
		if t.HasQuery {
			s += "?" + string(t.Query)
		}
		return s
	}
}
