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

	"golang.org/x/time/rate"

	"github.com/spf13/viper"

	"github.com/platinummonkey/go-concurrency-limits/core"
	"github.com/platinummonkey/go-concurrency-limits/limiter"
	"github.com/platinummonkey/go-concurrency-limits/strategy"
)

const defaultMaxConcurrentChecks = 10

// CCLimitedValidator bounds the number of in-flight document checks.
// The batch layer fires all work items at once and relies on this guard
// for the actual concurrency limit.
type CCLimitedValidator struct {
	guard     core.Limiter
	validator DocumentValidator
}

// NewCCLimitedValidator instantiates the viper-configured validator chain:
// concurrency guard -> per-domain rate limiter -> pipeline client
func NewCCLimitedValidator() *CCLimitedValidator {
	return NewCCLimitedValidatorWith(
		NewDomainRateLimitedValidator(getDomainRatePerSecond(), NewDocumentValidatorClient()),
		getMaxConcurrentChecks(),
	)
}

// NewCCLimitedValidatorWith guards an explicit validator with an explicit limit
func NewCCLimitedValidatorWith(validator DocumentValidator, maxConcurrentChecks uint) *CCLimitedValidator {
	limitStrategy := strategy.NewSimpleStrategy(int(maxConcurrentChecks))

	defaultLimiter, err := limiter.NewDefaultLimiterWithDefaults(
		"document_check_blocking_limit",
		limitStrategy,
		nil, // limit.BuiltinLimitLogger{}
		core.EmptyMetricRegistryInstance,
	)
	if err != nil {
		log.Fatalf("Error creating limiter err=%v\n", err)
	}
	guard := limiter.NewBlockingLimiter(defaultLimiter, 0, nil /*logger*/)

	return &CCLimitedValidator{
		guard:     guard,
		validator: validator,
	}
}

func getDomainRatePerSecond() rate.Limit {
	var ratePerSecond rate.Limit = 0
	if r := viper.GetFloat64("requestsPerSecondPerDomain"); r > 0 {
		ratePerSecond = rate.Limit(r)
	}
	return ratePerSecond
}

func getMaxConcurrentChecks() uint {
	maxConcurrency := viper.GetUint("maxConcurrentChecks")
	if maxConcurrency == 0 {
		return defaultMaxConcurrentChecks
	}
	log.Printf("CCLimitedValidator is using a max check concurrency of %v", maxConcurrency)
	return maxConcurrency
}

// ValidateURL checks the desired URL
func (v *CCLimitedValidator) ValidateURL(ctx context.Context, url string) *ValidationResult {
	if ctx == nil {
		ctx = context.Background()
	}
	return v.validateURL(ctx, url)
}

func (v *CCLimitedValidator) validateURL(ctx context.Context, url string) *ValidationResult {
	nowEpoch := time.Now().Unix()

	token, ok := v.guard.Acquire(ctx)
	if !ok {
		// short circuited - no need to try
		log.Printf("guarded check short circuited for url '%v'\n", sanitizeUserLogInput(url))
		if token != nil {
			token.OnDropped()
		}
		return &ValidationResult{
			Status:                Errored,
			Detail:                AbortedDetail,
			FetchedAtEpochSeconds: nowEpoch,
		}
	}

	resultChannel := make(chan *ValidationResult, 1)
	// allow for cancellation -> run in a goroutine
	go func() {
		resultChannel <- v.validator.ValidateURL(ctx, url)
	}()

	select {
	case res := <-resultChannel:
		token.OnSuccess()
		return res
	case <-ctx.Done():
		token.OnDropped()
		return &ValidationResult{
			Status:                Errored,
			Detail:                AbortedDetail,
			FetchedAtEpochSeconds: nowEpoch,
		}
	}
}
