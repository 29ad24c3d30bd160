// Copyright 2025-2026 The fdms-validator Authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.
// SPDX-License-Identifier: MPL-2.0
package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// InvalidURLDetail is reported for rows that never reach the network
const InvalidURLDetail = "Invalid URL"

// MaxRetriesDetail is reported when all fetch attempts failed at the transport level
const MaxRetriesDetail = "Max retries exceeded"

// AbortedDetail is reported for rows resolved by a batch cancellation
const AbortedDetail = "processing aborted"

// ErrAborted marks outcomes caused by a cooperative cancellation signal
var ErrAborted = errors.New(AbortedDetail)

// ValidationResult is the outcome of checking one verification URL
type ValidationResult struct {
	Status ValidationStatus
	// Detail carries the human-readable reason; non-empty iff the status
	// is NotFound or Errored
	Detail string
	// HTTPStatus is the last HTTP status received, 0 if none was
	HTTPStatus int
	// Body holds the raw page markup, retained only for NotFound rows
	// when keepNotFoundBodies is configured
	Body                  string
	FetchedAtEpochSeconds int64
}

// DocumentValidator interface that all layers conform to
type DocumentValidator interface {
	ValidateURL(ctx context.Context, url string) *ValidationResult
}

// DocumentValidatorClient runs the complete per-URL pipeline:
// URL validation, retried fetching and content classification
type DocumentValidatorClient struct {
	fetcher    Fetcher
	classifier *ContentClassifier
}

// NewDocumentValidatorClient instantiates the pipeline from the viper configuration
func NewDocumentValidatorClient() *DocumentValidatorClient {
	return NewDocumentValidatorClientWith(
		NewRetryingFetcher(NewPageFetcher()),
		NewContentClassifier(),
	)
}

// NewDocumentValidatorClientWith composes the pipeline out of explicit
// collaborators, e.g. for tests
func NewDocumentValidatorClientWith(fetcher Fetcher, classifier *ContentClassifier) *DocumentValidatorClient {
	return &DocumentValidatorClient{
		fetcher:    fetcher,
		classifier: classifier,
	}
}

// ValidateURL checks a single verification URL
func (v *DocumentValidatorClient) ValidateURL(ctx context.Context, url string) *ValidationResult {
	nowEpoch := time.Now().Unix()

	select {
	case <-ctx.Done():
		return &ValidationResult{
			Status:                Errored,
			Detail:                AbortedDetail,
			FetchedAtEpochSeconds: nowEpoch,
		}
	default:
		// do not block if not cancelled
	}

	if !IsAbsoluteURL(url) {
		GlobalStats().OnInvalidURL()
		return &ValidationResult{
			Status:                Errored,
			Detail:                InvalidURLDetail,
			FetchedAtEpochSeconds: nowEpoch,
		}
	}

	outcome := v.fetcher.FetchPage(ctx, url)
	return v.resolveOutcome(outcome)
}

func (v *DocumentValidatorClient) resolveOutcome(outcome *FetchOutcome) *ValidationResult {
	nowEpoch := time.Now().Unix()

	switch outcome.Status {
	case FetchTransportError:
		detail := MaxRetriesDetail
		if errors.Is(outcome.Err, ErrAborted) {
			detail = AbortedDetail
		}
		GlobalStats().OnCheckErrored()
		return &ValidationResult{
			Status:                Errored,
			Detail:                detail,
			FetchedAtEpochSeconds: nowEpoch,
		}

	case FetchHTTPError:
		GlobalStats().OnCheckErrored()
		return &ValidationResult{
			Status:                Errored,
			Detail:                fmt.Sprintf("HTTP %v", outcome.Code),
			HTTPStatus:            outcome.Code,
			FetchedAtEpochSeconds: nowEpoch,
		}
	}

	classification := v.classifier.Classify(outcome.Body)
	if classification.Status == Found {
		GlobalStats().OnCheckFound()
	} else {
		GlobalStats().OnCheckNotFound()
	}
	return &ValidationResult{
		Status:                classification.Status,
		Detail:                classification.Detail,
		HTTPStatus:            outcome.Code,
		Body:                  classification.Body,
		FetchedAtEpochSeconds: nowEpoch,
	}
}
