// Copyright 2025-2026 The fdms-validator Authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"github.com/fdms-tools/fdms-validator/cmd"
	"github.com/fdms-tools/fdms-validator/infrastructure"
)

func main() {
	infrastructure.SetUpGlobalLogger()
	cmd.Execute()
}
