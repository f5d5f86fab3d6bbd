// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package semantics

// Status is a response status-code plus an optional reason phrase
// (RFC 9110 section 15). The reason phrase carries no normative meaning;
// recipients should not rely on its content.
type Status struct {
	Code         uint16
	ReasonPhrase string
	HasReason    bool
}

// Is1xx, Is2xx etc. group status codes the body-length resolver (C6) and
// the response validator (C7) branch on.
func (s Status) Is1xx() bool { return s.Code >= 100 && s.Code <= 199 }
func (s Status) Is2xx() bool { return s.Code >= 200 && s.Code <= 299 }
