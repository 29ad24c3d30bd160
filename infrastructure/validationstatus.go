// Copyright 2025-2026 The fdms-validator Authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.
// SPDX-License-Identifier: MPL-2.0

package infrastructure

import "fmt"

// ValidationStatus indicates the per-document validation outcome
type ValidationStatus int

const (
	// Found indicates the portal confirmed the document as valid
	Found ValidationStatus = iota
	// NotFound indicates the page was fetched but contained no success marker
	NotFound
	// Errored indicates the document could not be checked
	Errored
)

func (s ValidationStatus) String() string {
	switch s {
	case Found:
		return "Found"
	case NotFound:
		return "Not Found"
	case Errored:
		return "Error"
	}
	return fmt.Sprintf("ValidationStatus(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler for JSON and CSV output
func (s ValidationStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *ValidationStatus) UnmarshalText(text []byte) error {
	switch string(text) {
	case "Found":
		*s = Found
	case "Not Found":
		*s = NotFound
	case "Error":
		*s = Errored
	default:
		return fmt.Errorf("unknown validation status: '%v'", string(text))
	}
	return nil
}
