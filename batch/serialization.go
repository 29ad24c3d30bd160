// Copyright 2025-2026 The fdms-validator Authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.
// SPDX-License-Identifier: MPL-2.0
package batch

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fdms-tools/fdms-validator/infrastructure"
)

// WorkItem is one verification URL with its caller-supplied reference
type WorkItem struct {
	URL string `json:"url"`
	// Reference is an opaque label, e.g. an invoice number, echoed back
	// for correlating results
	Reference string `json:"reference"`
}

// RowResult is the reported outcome for one input row
type RowResult struct {
	WorkItem
	// Status is the validation outcome
	Status infrastructure.ValidationStatus `json:"status"`
	// Detail carries the human-readable reason; empty for Found rows
	Detail string `json:"validation_error"`
	// HTTPStatus is the last HTTP status received (if any)
	HTTPStatus int `json:"http_status,omitempty"`
	// Body holds the raw page markup of NotFound pages when retention is configured
	Body string `json:"-"`
	// FetchedAtEpochSeconds indicates the UNIX timestamp at which the check was performed
	FetchedAtEpochSeconds int64 `json:"timestamp"`
}

// forItem echoes a checked outcome for a duplicate row with its own
// url/reference fields
func (r RowResult) forItem(item WorkItem) RowResult {
	r.WorkItem = item
	return r
}

// ReadWorkItems parses tabular input: the first column holds the URL, an
// optional second column the reference id. Blank rows and a leading header
// row are skipped. An input without a single usable row is rejected here,
// before any processing starts.
func ReadWorkItems(r io.Reader) ([]WorkItem, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("could not parse the input: %w", err)
	}

	var items []WorkItem
	for i, record := range records {
		if len(record) == 0 {
			continue
		}
		url := strings.TrimSpace(record[0])
		if url == "" {
			continue
		}
		if i == 0 && looksLikeHeader(url) {
			continue
		}
		item := WorkItem{URL: url}
		if len(record) > 1 {
			item.Reference = strings.TrimSpace(record[1])
		}
		items = append(items, item)
	}

	if len(items) == 0 {
		return nil, errors.New("no URLs found in the input")
	}
	return items, nil
}

func looksLikeHeader(firstField string) bool {
	switch strings.ToLower(firstField) {
	case "url", "urls", "link", "links":
		return true
	}
	return false
}

var reportColumns = []string{"URL", "Reference", "Status", "Validation Error"}

// WriteReportCSV serializes a report in input-row order
func WriteReportCSV(w io.Writer, report *Report) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(reportColumns); err != nil {
		return err
	}
	for _, row := range report.All() {
		if err := writer.Write([]string{row.URL, row.Reference, row.Status.String(), row.Detail}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
