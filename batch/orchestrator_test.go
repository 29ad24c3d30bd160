// Copyright 2025-2026 The fdms-validator Authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.
// SPDX-License-Identifier: MPL-2.0

package batch

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fdms-tools/fdms-validator/infrastructure"
)

// recordingValidator resolves URLs via a function and records each call
type recordingValidator struct {
	mu       sync.Mutex
	calls    []string
	validate func(url string) *infrastructure.ValidationResult
}

func (v *recordingValidator) ValidateURL(_ context.Context, url string) *infrastructure.ValidationResult {
	v.mu.Lock()
	v.calls = append(v.calls, url)
	v.mu.Unlock()
	if v.validate != nil {
		return v.validate(url)
	}
	return &infrastructure.ValidationResult{Status: infrastructure.Found}
}

func (v *recordingValidator) callCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.calls)
}

func makeItems(n int) []WorkItem {
	items := make([]WorkItem, n)
	for i := range items {
		items[i] = WorkItem{
			URL:       fmt.Sprintf("https://example.com/invoice/%04d", i),
			Reference: fmt.Sprintf("INV-%04d", i),
		}
	}
	return items
}

func TestEveryItemYieldsExactlyOneResultInInputOrder(t *testing.T) {
	validator := &recordingValidator{
		validate: func(url string) *infrastructure.ValidationResult {
			// out-of-order completions must not leak into the report order
			time.Sleep(time.Duration(rand.Intn(10)) * time.Millisecond)
			return &infrastructure.ValidationResult{Status: infrastructure.Found}
		},
	}
	o := NewOrchestratorWithOptions(&Options{Validator: validator})

	items := makeItems(50)
	report, err := o.Run(context.Background(), items)

	require.NoError(t, err)
	require.Equal(t, 50, report.Len())
	for i, row := range report.All() {
		assert.Equal(t, items[i].URL, row.URL)
		assert.Equal(t, items[i].Reference, row.Reference)
	}
}

func TestEmptyBatchesAreRejected(t *testing.T) {
	o := NewOrchestratorWithOptions(&Options{Validator: &recordingValidator{}})
	_, err := o.Run(context.Background(), nil)
	assert.Error(t, err)
}

func TestWorkerPanicsAreConvertedToErrorResults(t *testing.T) {
	validator := &recordingValidator{
		validate: func(url string) *infrastructure.ValidationResult {
			if strings.Contains(url, "0002") {
				panic("boom")
			}
			return &infrastructure.ValidationResult{Status: infrastructure.Found}
		},
	}
	o := NewOrchestratorWithOptions(&Options{Validator: validator})

	items := makeItems(5)
	report, err := o.Run(context.Background(), items)

	require.NoError(t, err)
	require.Equal(t, 5, report.Len())
	failed := report.All()[2]
	assert.Equal(t, infrastructure.Errored, failed.Status)
	assert.Contains(t, failed.Detail, "boom")
	assert.Len(t, report.Found(), 4, "one row's failure must not affect the others")
}

func TestDuplicateURLsAreCheckedOnce(t *testing.T) {
	validator := &recordingValidator{
		validate: func(url string) *infrastructure.ValidationResult {
			return &infrastructure.ValidationResult{Status: infrastructure.NotFound, Detail: "Device not registered"}
		},
	}
	o := NewOrchestratorWithOptions(&Options{Validator: validator})

	items := []WorkItem{
		{URL: "https://example.com/a", Reference: "INV-1"},
		{URL: "https://example.com/b", Reference: "INV-2"},
		{URL: "https://example.com/a", Reference: "INV-3"},
		{URL: "https://example.com/a", Reference: "INV-4"},
	}
	report, err := o.Run(context.Background(), items)

	require.NoError(t, err)
	assert.Equal(t, 2, validator.callCount())
	require.Equal(t, 4, report.Len())
	// echoed rows keep their own reference ids
	assert.Equal(t, "INV-3", report.All()[2].Reference)
	assert.Equal(t, "INV-4", report.All()[3].Reference)
	assert.Equal(t, "Device not registered", report.All()[3].Detail)
}

func TestBlacklistedDomainsAreNotChecked(t *testing.T) {
	validator := &recordingValidator{}
	o := NewOrchestratorWithOptions(&Options{
		Validator:            validator,
		DomainBlacklistGlobs: []string{"blocked.*"},
	})

	items := []WorkItem{
		{URL: "https://blocked.example/invoice", Reference: "INV-1"},
		{URL: "https://example.com/invoice", Reference: "INV-2"},
	}
	report, err := o.Run(context.Background(), items)

	require.NoError(t, err)
	assert.Equal(t, 1, validator.callCount())
	assert.Equal(t, infrastructure.Errored, report.All()[0].Status)
	assert.Equal(t, BlacklistedDetail, report.All()[0].Detail)
	assert.Equal(t, infrastructure.Found, report.All()[1].Status)
}

type recordingObserver struct {
	mu        sync.Mutex
	completed []int
	totals    []int
}

func (o *recordingObserver) OnRowCompleted(completed int, total int, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.completed = append(o.completed, completed)
	o.totals = append(o.totals, total)
}

func TestProgressIsReportedOncePerRow(t *testing.T) {
	observer := &recordingObserver{}
	o := NewOrchestratorWithOptions(&Options{
		Validator: &recordingValidator{},
		Observer:  observer,
	})

	items := makeItems(7)
	_, err := o.Run(context.Background(), items)

	require.NoError(t, err)
	require.Len(t, observer.completed, 7)
	for i, completed := range observer.completed {
		assert.Equal(t, i+1, completed, "completed counts are monotonic")
		assert.Equal(t, 7, observer.totals[i])
	}
}

func TestCancelledBatchesStillResolveEveryRow(t *testing.T) {
	validator := &recordingValidator{
		validate: func(url string) *infrastructure.ValidationResult {
			return &infrastructure.ValidationResult{
				Status: infrastructure.Errored,
				Detail: infrastructure.AbortedDetail,
			}
		},
	}
	o := NewOrchestratorWithOptions(&Options{Validator: validator})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report, err := o.Run(ctx, makeItems(10))

	require.NoError(t, err)
	assert.Equal(t, 10, report.Len(), "cancellation must not drop work items")
}
