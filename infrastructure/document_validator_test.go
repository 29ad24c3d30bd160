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
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestValidator(fetcher Fetcher) *DocumentValidatorClient {
	return NewDocumentValidatorClientWith(fetcher, NewContentClassifierWithSettings(ClassifierSettings{}))
}

func TestInvalidURLsNeverReachTheNetwork(t *testing.T) {
	fetcher := &scriptedFetcher{outcomes: []*FetchOutcome{okPage("should not be fetched")}}
	v := newTestValidator(fetcher)

	res := v.ValidateURL(context.Background(), "fdms.zimra.co.zw/invoice")

	assert.Equal(t, 0, fetcher.calls)
	assert.Equal(t, Errored, res.Status)
	assert.Equal(t, InvalidURLDetail, res.Detail)
}

func TestHTTPErrorsCarryTheStatusCode(t *testing.T) {
	fetcher := &scriptedFetcher{outcomes: []*FetchOutcome{
		{Status: FetchHTTPError, Code: http.StatusNotFound, Err: fmt.Errorf("HTTP 404")},
	}}
	v := newTestValidator(fetcher)

	res := v.ValidateURL(context.Background(), "https://example.com/missing")

	assert.Equal(t, Errored, res.Status)
	assert.Contains(t, res.Detail, "404")
	assert.Equal(t, http.StatusNotFound, res.HTTPStatus)
}

func TestExhaustedTransportFailures(t *testing.T) {
	v := newTestValidator(&scriptedFetcher{outcomes: []*FetchOutcome{
		{Status: FetchTransportError, Err: errors.New("max retries exceeded after 3 attempts")},
	}})

	res := v.ValidateURL(context.Background(), "https://example.com")

	assert.Equal(t, Errored, res.Status)
	assert.Equal(t, MaxRetriesDetail, res.Detail)
}

func TestValidDocumentsAreFound(t *testing.T) {
	v := newTestValidator(&scriptedFetcher{outcomes: []*FetchOutcome{
		okPage("<html><body>Invoice is valid</body></html>"),
	}})

	res := v.ValidateURL(context.Background(), "https://example.com/invoice")

	assert.Equal(t, Found, res.Status)
	assert.Equal(t, "", res.Detail)
	assert.Equal(t, "", res.Body)
}

func TestRejectedDocumentsCarryTheValidationError(t *testing.T) {
	v := newTestValidator(&scriptedFetcher{outcomes: []*FetchOutcome{
		okPage(`<html><body><div class="val-errors-block"><div class="col"> Document already processed </div></div></body></html>`),
	}})

	res := v.ValidateURL(context.Background(), "https://example.com/invoice")

	require.Equal(t, NotFound, res.Status)
	assert.Equal(t, "Document already processed", res.Detail)
}

func TestValidationIsIdempotent(t *testing.T) {
	page := okPage("<html><body>Credit note is valid</body></html>")
	v := newTestValidator(&scriptedFetcher{outcomes: []*FetchOutcome{page}})

	first := v.ValidateURL(context.Background(), "https://example.com")
	second := v.ValidateURL(context.Background(), "https://example.com")

	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.Detail, second.Detail)
	assert.Equal(t, first.Body, second.Body)
}

func TestCancelledContextResolvesWithoutFetching(t *testing.T) {
	fetcher := &scriptedFetcher{outcomes: []*FetchOutcome{okPage("nope")}}
	v := newTestValidator(fetcher)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := v.ValidateURL(ctx, "https://example.com")

	assert.Equal(t, 0, fetcher.calls)
	assert.Equal(t, Errored, res.Status)
	assert.Equal(t, AbortedDetail, res.Detail)
}
