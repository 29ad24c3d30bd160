// Copyright 2025-2026 The fdms-validator Authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.
// SPDX-License-Identifier: MPL-2.0

package batch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fdms-tools/fdms-validator/infrastructure"
)

func sampleRows() []RowResult {
	return []RowResult{
		{WorkItem: WorkItem{URL: "https://a", Reference: "1"}, Status: infrastructure.Found},
		{WorkItem: WorkItem{URL: "https://b", Reference: "2"}, Status: infrastructure.NotFound, Detail: "Device not registered"},
		{WorkItem: WorkItem{URL: "https://c", Reference: "3"}, Status: infrastructure.Errored, Detail: "HTTP 404"},
		{WorkItem: WorkItem{URL: "https://d", Reference: "4"}, Status: infrastructure.Found},
	}
}

func TestPartitionsCoverTheFullResultSet(t *testing.T) {
	report := NewReport(sampleRows())

	require.Equal(t, 4, report.Len())
	assert.Len(t, report.Found(), 2)
	assert.Len(t, report.NotFound(), 1)
	assert.Len(t, report.Errored(), 1)
	assert.Equal(t,
		report.Len(),
		len(report.Found())+len(report.NotFound())+len(report.Errored()),
		"partitions must not overlap or omit rows",
	)
}

func TestPartitionsPreserveRowOrder(t *testing.T) {
	report := NewReport(sampleRows())

	found := report.Found()
	require.Len(t, found, 2)
	assert.Equal(t, "1", found[0].Reference)
	assert.Equal(t, "4", found[1].Reference)
}

func TestCountsMatchPartitions(t *testing.T) {
	report := NewReport(sampleRows())

	counts := report.Counts()
	assert.Equal(t, Counts{Found: 2, NotFound: 1, Errored: 1}, counts)
}

func TestReportOwnsItsRows(t *testing.T) {
	rows := sampleRows()
	report := NewReport(rows)

	rows[0].Status = infrastructure.Errored
	assert.Equal(t, infrastructure.Found, report.All()[0].Status, "later mutation of the input must not change the report")
}

func TestMutatingReturnedRowsDoesNotChangeTheReport(t *testing.T) {
	report := NewReport(sampleRows())

	leaked := report.All()
	leaked[0].Status = infrastructure.Errored
	leaked[0].Detail = "tampered"

	assert.Equal(t, infrastructure.Found, report.All()[0].Status)
	assert.Equal(t, "", report.All()[0].Detail)
}
