// Copyright 2025-2026 The fdms-validator Authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.
// SPDX-License-Identifier: MPL-2.0
package infrastructure

import (
	"context"
	"log"
	"time"

	"github.com/spf13/viper"
)

const defaultCacheExpirationInterval = 1 * time.Hour
const defaultCacheCleanupInterval = 2 * time.Hour
const defaultRetryFailedAfter = 30 * time.Second
const defaultCacheMaxSize int64 = 1e9
const defaultCacheNumCounters int64 = 10_000_000

// CachedValidator wraps a concurrency-limited validator with an in-process
// result cache, so repeated URLs within one process are only fetched once.
// Nothing is persisted between runs.
type CachedValidator struct {
	cache                   resultCache
	retryFailedAfterSeconds int64

	validator DocumentValidator
}

type cacheSettings struct {
	cacheUseRistretto       bool
	cacheExpirationInterval time.Duration
	cacheCleanupInterval    time.Duration
	cacheMaxSize            int64
	cacheNumCounters        int64
	retryFailedAfter        time.Duration
}

// NewCachedValidator creates a new cached validator over the default chain
func NewCachedValidator() *CachedValidator {
	return NewCachedValidatorWith(NewCCLimitedValidator())
}

// NewCachedValidatorWith caches an explicit validator, e.g. for tests
func NewCachedValidatorWith(validator DocumentValidator) *CachedValidator {
	settings := fetchCachedValidatorSettings()

	cached := CachedValidator{
		cache:                   newCache(settings),
		validator:               validator,
		retryFailedAfterSeconds: int64(settings.retryFailedAfter.Seconds()),
	}
	return &cached
}

func fetchCachedValidatorSettings() cacheSettings {
	s := cacheSettings{
		cacheExpirationInterval: defaultCacheExpirationInterval,
		cacheCleanupInterval:    defaultCacheCleanupInterval,
		cacheMaxSize:            defaultCacheMaxSize,
		cacheNumCounters:        defaultCacheNumCounters,
		retryFailedAfter:        defaultRetryFailedAfter,
	}

	cacheExpirationInterval := viper.GetString("cacheExpirationInterval")
	if d, err := time.ParseDuration(cacheExpirationInterval); err != nil {
		log.Printf("Ignoring cacheExpirationInterval %v -> %v (%v)", cacheExpirationInterval, defaultCacheExpirationInterval, err)
	} else {
		s.cacheExpirationInterval = d
	}

	cacheCleanupInterval := viper.GetString("cacheCleanupInterval")
	if d, err := time.ParseDuration(cacheCleanupInterval); err != nil {
		log.Printf("Ignoring cacheCleanupInterval %v -> %v (%v)", cacheCleanupInterval, defaultCacheCleanupInterval, err)
	} else {
		s.cacheCleanupInterval = d
	}

	s.cacheUseRistretto = viper.GetBool("cacheUseRistretto")

	if cms := viper.GetInt64("cacheMaxSize"); cms > 0 {
		s.cacheMaxSize = cms
	}
	if cnc := viper.GetInt64("cacheNumCounters"); cnc > 0 {
		s.cacheNumCounters = cnc
	}

	retryFailedAfter := viper.GetString("retryFailedAfter")
	if d, err := time.ParseDuration(retryFailedAfter); err != nil {
		log.Printf("Ignoring retryFailedAfter %v -> %v (%v)", retryFailedAfter, defaultRetryFailedAfter, err)
	} else {
		s.retryFailedAfter = d
	}
	return s
}

// ValidateURL checks the desired URL
func (c *CachedValidator) ValidateURL(ctx context.Context, url string) *ValidationResult {
	res, found := c.cache.Get(url)

	if found && c.shouldTakeCachedResult(res) {
		GlobalStats().OnCacheHit()
		return res
	}

	// otherwise, do the check & store
	res = c.validator.ValidateURL(ctx, url)
	if res.Detail != AbortedDetail {
		c.cache.Set(url, res)
	}
	return res
}

func (c *CachedValidator) shouldTakeCachedResult(res *ValidationResult) bool {
	// transport failures could have been temporary -> retry such URLs after some time
	return res.Status != Errored ||
		time.Now().Unix() <= res.FetchedAtEpochSeconds+c.retryFailedAfterSeconds
}
