// Copyright 2025-2026 The fdms-validator Authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.
// SPDX-License-Identifier: MPL-2.0

package batch

import "github.com/fdms-tools/fdms-validator/infrastructure"

// Report is the complete set of per-row outcomes for one batch run,
// ordered by input row position. Immutable once the run completes.
type Report struct {
	rows []RowResult
}

// Counts summarizes a report for logging
type Counts struct {
	Found    int
	NotFound int
	Errored  int
}

// NewReport assembles a report out of ordered row results
func NewReport(rows []RowResult) *Report {
	owned := make([]RowResult, len(rows))
	copy(owned, rows)
	return &Report{rows: owned}
}

// All returns a copy of the full ordered result set
func (r *Report) All() []RowResult {
	rows := make([]RowResult, len(r.rows))
	copy(rows, r.rows)
	return rows
}

// Found returns the rows the portal confirmed as valid
func (r *Report) Found() []RowResult {
	return r.withStatus(infrastructure.Found)
}

// NotFound returns the rows fetched without a success marker
func (r *Report) NotFound() []RowResult {
	return r.withStatus(infrastructure.NotFound)
}

// Errored returns the rows that could not be checked
func (r *Report) Errored() []RowResult {
	return r.withStatus(infrastructure.Errored)
}

func (r *Report) Len() int {
	return len(r.rows)
}

// Counts tallies the partition sizes
func (r *Report) Counts() Counts {
	c := Counts{}
	for _, row := range r.rows {
		switch row.Status {
		case infrastructure.Found:
			c.Found++
		case infrastructure.NotFound:
			c.NotFound++
		case infrastructure.Errored:
			c.Errored++
		}
	}
	return c
}

func (r *Report) withStatus(status infrastructure.ValidationStatus) []RowResult {
	res := []RowResult{}
	for _, row := range r.rows {
		if row.Status == status {
			res = append(res, row)
		}
	}
	return res
}
