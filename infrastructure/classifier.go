// Copyright 2025-2026 The fdms-validator Authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.
// SPDX-License-Identifier: MPL-2.0

package infrastructure

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/viper"
)

// NoValidationErrorDetail marks pages where neither a success marker nor a
// validation-error region was present. A fixed sentinel rather than an empty
// string, so "classifier found nothing" stays distinguishable from
// "classifier did not run".
const NoValidationErrorDetail = "Validation error not found"

// the portal issues different confirmation text per document type
var defaultSuccessMarkers = []string{
	"Invoice is valid",
	"Credit note is valid",
}

// defaultErrorRegionSelector locates the region where the portal renders
// human-readable rejection reasons
const defaultErrorRegionSelector = ".val-errors-block .col"

// ClassifierSettings configures the page content classification
type ClassifierSettings struct {
	SuccessMarkers      []string
	ErrorRegionSelector string
	KeepNotFoundBodies  bool
}

// Classification is the outcome of inspecting one successfully fetched page
type Classification struct {
	Status ValidationStatus // Found or NotFound
	Detail string           // empty for Found
	Body   string           // retained only for NotFound pages when configured
}

// ContentClassifier decides whether a fetched page confirms the document
// as valid, and extracts the portal's rejection reasons otherwise
type ContentClassifier struct {
	settings ClassifierSettings
}

// NewContentClassifier instantiates a classifier from the viper configuration
func NewContentClassifier() *ContentClassifier {
	return NewContentClassifierWithSettings(getClassifierSettings())
}

// NewContentClassifierWithSettings instantiates a classifier with explicit
// settings, e.g. for injecting alternate marker sets in tests
func NewContentClassifierWithSettings(settings ClassifierSettings) *ContentClassifier {
	if len(settings.SuccessMarkers) == 0 {
		settings.SuccessMarkers = defaultSuccessMarkers
	}
	if settings.ErrorRegionSelector == "" {
		settings.ErrorRegionSelector = defaultErrorRegionSelector
	}
	return &ContentClassifier{settings: settings}
}

func getClassifierSettings() ClassifierSettings {
	s := ClassifierSettings{
		SuccessMarkers:      defaultSuccessMarkers,
		ErrorRegionSelector: defaultErrorRegionSelector,
	}
	if v := viper.GetStringSlice("successMarkers"); len(v) > 0 {
		s.SuccessMarkers = v
	}
	if v := viper.GetString("errorRegionSelector"); v != "" {
		s.ErrorRegionSelector = v
	}
	s.KeepNotFoundBodies = viper.GetBool("keepNotFoundBodies")
	return s
}

// Classify inspects a fetched page body. Marker matching is an exact,
// case-sensitive substring search over the rendered page text.
func (c *ContentClassifier) Classify(body string) *Classification {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		// html.Parse is lenient; fall back to matching the raw markup
		return c.classifyText(body, body, nil)
	}
	return c.classifyText(doc.Text(), body, doc)
}

func (c *ContentClassifier) classifyText(pageText string, rawBody string, doc *goquery.Document) *Classification {
	for _, marker := range c.settings.SuccessMarkers {
		if strings.Contains(pageText, marker) {
			return &Classification{Status: Found}
		}
	}

	res := &Classification{
		Status: NotFound,
		Detail: NoValidationErrorDetail,
	}
	if doc != nil {
		if detail := c.extractErrorDetail(doc); detail != "" {
			res.Detail = detail
		}
	}
	if c.settings.KeepNotFoundBodies {
		res.Body = rawBody
	}
	return res
}

func (c *ContentClassifier) extractErrorDetail(doc *goquery.Document) string {
	var messages []string
	doc.Find(c.settings.ErrorRegionSelector).Each(func(_ int, selection *goquery.Selection) {
		if text := normalizeWhitespace(selection.Text()); text != "" {
			messages = append(messages, text)
		}
	})
	return strings.Join(messages, "\n")
}
