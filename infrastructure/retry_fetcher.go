// Copyright 2025-2026 The fdms-validator Authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.
// SPDX-License-Identifier: MPL-2.0

package infrastructure

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

const defaultMaxAttempts = 3
const defaultRetryDelay = 2 * time.Second

// RetrySettings configures the bounded retry policy around the page fetcher
type RetrySettings struct {
	MaxAttempts uint
	RetryDelay  time.Duration
}

// RetryingFetcher retries transport-level failures with a fixed delay.
// HTTP-level errors are treated as stable and returned immediately.
type RetryingFetcher struct {
	fetcher  Fetcher
	settings RetrySettings
}

// NewRetryingFetcher wraps a fetcher with the viper-configured retry policy
func NewRetryingFetcher(fetcher Fetcher) *RetryingFetcher {
	return NewRetryingFetcherWithSettings(fetcher, getRetrySettings())
}

// NewRetryingFetcherWithSettings wraps a fetcher with an explicit retry policy
func NewRetryingFetcherWithSettings(fetcher Fetcher, settings RetrySettings) *RetryingFetcher {
	if settings.MaxAttempts == 0 {
		settings.MaxAttempts = 1
	}
	return &RetryingFetcher{
		fetcher:  fetcher,
		settings: settings,
	}
}

func getRetrySettings() RetrySettings {
	s := RetrySettings{
		MaxAttempts: defaultMaxAttempts,
		RetryDelay:  defaultRetryDelay,
	}
	if v := viper.GetUint("maxRetries"); v > 0 {
		s.MaxAttempts = v
	}
	if v := viper.GetString("retryDelay"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			s.RetryDelay = d
		}
	}
	return s
}

// FetchPage attempts the wrapped fetcher up to MaxAttempts times.
// The inter-attempt wait is local to the calling worker and context-aware.
func (r *RetryingFetcher) FetchPage(ctx context.Context, url string) *FetchOutcome {
	var last *FetchOutcome

	for attempt := uint(0); attempt < r.settings.MaxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return &FetchOutcome{
					Status: FetchTransportError,
					Err:    fmt.Errorf("retry wait aborted: %w", ErrAborted),
				}
			case <-time.After(r.settings.RetryDelay):
			}
			GlobalStats().OnRetry()
		}

		GlobalStats().OnFetchAttempt()
		last = r.fetcher.FetchPage(ctx, url)
		if last.Status != FetchTransportError {
			return last
		}
	}

	return &FetchOutcome{
		Status: FetchTransportError,
		Err:    fmt.Errorf("max retries exceeded after %v attempts: %w", r.settings.MaxAttempts, last.Err),
	}
}
