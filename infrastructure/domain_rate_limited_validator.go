// Copyright 2025-2026 The fdms-validator Authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.
// SPDX-License-Identifier: MPL-2.0

package infrastructure

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"golang.org/x/time/rate"
)

// DomainRateLimitedValidator is a per-domain-rate-limited DocumentValidator wrapper.
// A zero rate disables limiting, which is the default: the retry delay is a
// local wait, not a global throttle.
type DomainRateLimitedValidator struct {
	domains       sync.Map
	ratePerSecond rate.Limit
	validator     DocumentValidator
}

// NewDomainRateLimitedValidator creates a new per-domain-rate-limited validator instance
func NewDomainRateLimitedValidator(ratePerSecond rate.Limit, validator DocumentValidator) *DomainRateLimitedValidator {
	if ratePerSecond > 0 {
		log.Info().Msgf("Limiting amount of requests per domain to %v/s", ratePerSecond)
	}
	return &DomainRateLimitedValidator{
		domains:       sync.Map{},
		ratePerSecond: ratePerSecond,
		validator:     validator,
	}
}

// ValidateURL checks the desired URL applying rate limits per domain
func (v *DomainRateLimitedValidator) ValidateURL(ctx context.Context, url string) *ValidationResult {
	// if there's no limiting, just check
	if v.ratePerSecond == 0 {
		return v.validator.ValidateURL(ctx, url)
	}

	key := DomainOf(url)
	limiterInstance, _ := v.domains.LoadOrStore(key, rate.NewLimiter(v.ratePerSecond, 1 /*burst*/))
	limiter := limiterInstance.(*rate.Limiter)

	if err := limiter.Wait(ctx); err != nil {
		return &ValidationResult{
			Status:                Errored,
			Detail:                AbortedDetail,
			FetchedAtEpochSeconds: time.Now().Unix(),
		}
	}
	return v.validator.ValidateURL(ctx, url)
}
