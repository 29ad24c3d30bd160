// Copyright 2025-2026 The fdms-validator Authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.
// SPDX-License-Identifier: MPL-2.0

package infrastructure

import (
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunIdIsAStableUUID(t *testing.T) {
	id := GetRunId()
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, id, GetRunId(), "the run id identifies one process lifetime")
}

func TestRunningSinceIsAPlausibleEpochTimestamp(t *testing.T) {
	since, err := strconv.ParseInt(GetRunningSince(), 10, 64)
	require.NoError(t, err)
	assert.Greater(t, since, int64(0))
	assert.LessOrEqual(t, since, time.Now().Unix())
}
