// Copyright 2025-2026 The fdms-validator Authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.
// SPDX-License-Identifier: MPL-2.0

package infrastructure

import (
	"net"
	"net/url"
	"strings"
)

const badUrlPlaceholder = "<bad url>"
const noDomainPlaceholder = "<no domain or protocol>"

// IsAbsoluteURL reports whether the input can be interpreted as an absolute
// resource locator, i.e. it parses and carries both a scheme and a host.
// Rows failing this check must never reach the network.
func IsAbsoluteURL(input string) bool {
	u, err := url.Parse(strings.TrimSpace(input))
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

// DomainOf returns either the domain name or a placeholder in case of a parse error
func DomainOf(input string) string {
	u, err := url.Parse(input)
	if err != nil {
		// bad urls are rejected earlier by IsAbsoluteURL
		return badUrlPlaceholder
	}
	if strings.TrimSpace(u.Host) == "" {
		return noDomainPlaceholder
	}
	host, _, err := net.SplitHostPort(u.Host)
	if err != nil || host == "" {
		return u.Host
	}
	return host
}
