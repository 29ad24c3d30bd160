// Copyright 2025-2026 The fdms-validator Authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.
// SPDX-License-Identifier: MPL-2.0

package infrastructure

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

var runId = ""
var runningSince int64 = 0

// GetRunId identifies one process lifetime, for correlating logs and reports
func GetRunId() string {
	return runId
}

func GetRunningSince() string {
	return fmt.Sprintf("%v", runningSince)
}

func init() {
	runId = uuid.New().String()
	runningSince = time.Now().Unix()
}
