// Copyright 2025-2026 The fdms-validator Authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.
// SPDX-License-Identifier: MPL-2.0

package infrastructure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validInvoicePage = `<html><body>
<div class="header">FDMS</div>
<p>Invoice is valid</p>
<div class="footer">contact</div>
</body></html>`

const validCreditNotePage = `<html><body><p>Credit note is valid</p></body></html>`

const rejectedPage = `<html><body>
<div class="val-errors-block">
	<div class="row"><div class="col">  Document   already processed  </div></div>
</div>
</body></html>`

const multiErrorPage = `<html><body>
<div class="val-errors-block">
	<div class="col"> Device not registered </div>
	<div class="col"> Signature mismatch </div>
</div>
</body></html>`

const unrelatedPage = `<html><body><h1>Welcome</h1></body></html>`

func TestClassifyingValidInvoices(t *testing.T) {
	c := NewContentClassifierWithSettings(ClassifierSettings{})

	res := c.Classify(validInvoicePage)
	assert.Equal(t, Found, res.Status)
	assert.Equal(t, "", res.Detail)
	assert.Equal(t, "", res.Body, "bodies of valid documents must not be retained")

	res = c.Classify(validCreditNotePage)
	assert.Equal(t, Found, res.Status)
	assert.Equal(t, "", res.Detail)
}

func TestMarkerMatchingIsCaseSensitive(t *testing.T) {
	c := NewContentClassifierWithSettings(ClassifierSettings{})
	res := c.Classify(`<html><body>invoice is valid</body></html>`)
	assert.Equal(t, NotFound, res.Status)
}

func TestExtractingValidationErrors(t *testing.T) {
	c := NewContentClassifierWithSettings(ClassifierSettings{})

	res := c.Classify(rejectedPage)
	require.Equal(t, NotFound, res.Status)
	assert.Equal(t, "Document already processed", res.Detail, "whitespace should be normalized")
}

func TestExtractingMultipleValidationErrors(t *testing.T) {
	c := NewContentClassifierWithSettings(ClassifierSettings{})

	res := c.Classify(multiErrorPage)
	require.Equal(t, NotFound, res.Status)
	assert.Equal(t, "Device not registered\nSignature mismatch", res.Detail)
}

func TestMissingErrorRegionYieldsSentinel(t *testing.T) {
	c := NewContentClassifierWithSettings(ClassifierSettings{})

	res := c.Classify(unrelatedPage)
	require.Equal(t, NotFound, res.Status)
	assert.Equal(t, NoValidationErrorDetail, res.Detail)
}

func TestEmptyErrorRegionYieldsSentinel(t *testing.T) {
	c := NewContentClassifierWithSettings(ClassifierSettings{})

	res := c.Classify(`<html><body><div class="val-errors-block"><div class="col">  </div></div></body></html>`)
	require.Equal(t, NotFound, res.Status)
	assert.Equal(t, NoValidationErrorDetail, res.Detail)
}

func TestRetainingNotFoundBodies(t *testing.T) {
	c := NewContentClassifierWithSettings(ClassifierSettings{KeepNotFoundBodies: true})

	res := c.Classify(rejectedPage)
	require.Equal(t, NotFound, res.Status)
	assert.Equal(t, rejectedPage, res.Body)

	res = c.Classify(validInvoicePage)
	require.Equal(t, Found, res.Status)
	assert.Equal(t, "", res.Body, "bodies of valid documents must not be retained")
}

func TestInjectingAlternateMarkers(t *testing.T) {
	c := NewContentClassifierWithSettings(ClassifierSettings{
		SuccessMarkers: []string{"Fiscal day closed"},
	})

	assert.Equal(t, NotFound, c.Classify(validInvoicePage).Status)
	assert.Equal(t, Found, c.Classify(`<html><body>Fiscal day closed</body></html>`).Status)
}

func TestClassificationIsIdempotent(t *testing.T) {
	c := NewContentClassifierWithSettings(ClassifierSettings{KeepNotFoundBodies: true})

	first := c.Classify(rejectedPage)
	second := c.Classify(rejectedPage)
	assert.Equal(t, first, second)
}
