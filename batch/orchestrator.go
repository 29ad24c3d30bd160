// Copyright 2025-2026 The fdms-validator Authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.
// SPDX-License-Identifier: MPL-2.0
package batch

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/gobwas/glob"
	"github.com/rs/zerolog/log"

	"github.com/fdms-tools/fdms-validator/infrastructure"
)

// BlacklistedDetail is reported for rows skipped by the domain blacklist
const BlacklistedDetail = "domain blacklisted"

// ProgressObserver is notified synchronously after each row's outcome is
// recorded. It has no effect on control flow or the final results.
type ProgressObserver interface {
	OnRowCompleted(completed int, total int, estimatedRemaining time.Duration)
}

// Options configures a batch orchestrator instance
type Options struct {
	// Validator overrides the default viper-configured validator chain,
	// e.g. for tests
	Validator            infrastructure.DocumentValidator
	DomainBlacklistGlobs []string
	Observer             ProgressObserver
}

// Orchestrator fans work items out to the guarded validator chain and
// restores input order in the report
type Orchestrator struct {
	validator            infrastructure.DocumentValidator
	observer             ProgressObserver
	domainBlacklistGlobs []glob.Glob
}

// NewOrchestrator creates an orchestrator over the default validator chain
func NewOrchestrator() *Orchestrator {
	return NewOrchestratorWithOptions(&Options{})
}

// NewOrchestratorWithOptions creates an orchestrator with custom options
func NewOrchestratorWithOptions(options *Options) *Orchestrator {
	validator := options.Validator
	if validator == nil {
		validator = infrastructure.NewCachedValidator()
	}
	return &Orchestrator{
		validator:            validator,
		observer:             options.Observer,
		domainBlacklistGlobs: precompileGlobs(options.DomainBlacklistGlobs),
	}
}

func precompileGlobs(globs []string) []glob.Glob {
	if len(globs) == 0 {
		return nil
	}

	var res []glob.Glob
	for _, pattern := range globs {
		res = append(res, glob.MustCompile(pattern))
	}

	return res
}

type indexedResult struct {
	position int
	result   RowResult
}

// Run validates all work items and returns a report ordered like the input.
// Every submitted item yields exactly one result; a cancelled context
// resolves unstarted items as Errored and lets in-flight checks finish or
// time out naturally.
func (o *Orchestrator) Run(ctx context.Context, items []WorkItem) (*Report, error) {
	if len(items) == 0 {
		return nil, errors.New("no work items to validate")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	for range items {
		infrastructure.GlobalStats().OnURLSubmitted()
	}

	urls := deduplicateWorkItems(items)
	if duplicateCount := len(items) - len(urls.toCheck); duplicateCount > 0 {
		log.Debug().Msgf("Duplicate URLs found: %v", duplicateCount)
	}

	rows := make([]RowResult, len(items))
	resultChannel := make(chan indexedResult, len(urls.toCheck))

	// fire off all checks in parallel and let the concurrency guard,
	// the rate limiter and the cache do the work
	for _, u := range urls.toCheck {
		go func(u indexedItem) {
			defer func() {
				// a worker failure must never drop its work item
				if r := recover(); r != nil {
					resultChannel <- indexedResult{u.position, RowResult{
						WorkItem:              u.item,
						Status:                infrastructure.Errored,
						Detail:                fmt.Sprintf("unexpected worker failure: %v", r),
						FetchedAtEpochSeconds: time.Now().Unix(),
					}}
				}
			}()
			resultChannel <- indexedResult{u.position, o.checkItem(ctx, u.item)}
		}(u)
	}

	started := time.Now()
	completed := 0
	for range urls.toCheck {
		r := <-resultChannel
		rows[r.position] = r.result
		completed++
		o.notify(completed, len(items), started)

		for _, duplicate := range urls.duplicatesOf(r.result.WorkItem) {
			rows[duplicate.position] = r.result.forItem(duplicate.item)
			completed++
			o.notify(completed, len(items), started)
		}
	}

	return NewReport(rows), nil
}

func (o *Orchestrator) checkItem(ctx context.Context, item WorkItem) RowResult {
	if o.domainBlacklistGlobs != nil && o.isBlacklisted(item.URL) {
		infrastructure.GlobalStats().OnDomainBlacklisted()
		return RowResult{
			WorkItem:              item,
			Status:                infrastructure.Errored,
			Detail:                BlacklistedDetail,
			FetchedAtEpochSeconds: time.Now().Unix(),
		}
	}

	res := o.validator.ValidateURL(ctx, item.URL)
	return RowResult{
		WorkItem:              item,
		Status:                res.Status,
		Detail:                res.Detail,
		HTTPStatus:            res.HTTPStatus,
		Body:                  res.Body,
		FetchedAtEpochSeconds: res.FetchedAtEpochSeconds,
	}
}

func (o *Orchestrator) isBlacklisted(input string) bool {
	u, err := url.Parse(input)
	if err != nil {
		return false
	}
	for _, g := range o.domainBlacklistGlobs {
		if g.Match(u.Host) {
			return true
		}
	}
	return false
}

func (o *Orchestrator) notify(completed int, total int, started time.Time) {
	if o.observer == nil {
		return
	}
	remaining := time.Duration(0)
	if completed > 0 && completed < total {
		average := time.Since(started) / time.Duration(completed)
		remaining = average * time.Duration(total-completed)
	}
	o.observer.OnRowCompleted(completed, total, remaining)
}
