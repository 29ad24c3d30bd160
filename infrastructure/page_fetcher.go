// Copyright 2025-2026 The fdms-validator Authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.
// SPDX-License-Identifier: MPL-2.0
package infrastructure

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/darren/gpac"
	"github.com/go-resty/resty/v2"
	"github.com/spf13/viper"
)

const defaultMaxRedirectsCount = 15
const defaultTimeoutSeconds = 10

// the portal rejects requests from obvious non-browser user agents
const defaultBrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
const defaultAcceptHeader = "*/*"

// FetchStatus tags the raw outcome of a single fetch attempt
type FetchStatus int

const (
	// FetchOk indicates a 200 response with a readable body
	FetchOk FetchStatus = iota
	// FetchHTTPError indicates a non-200 response
	FetchHTTPError
	// FetchTransportError indicates a connectivity, DNS resolution or timeout failure
	FetchTransportError
)

// FetchOutcome is the per-attempt fetch result, consumed by the retry layer
// and never exposed outside the validation pipeline
type FetchOutcome struct {
	Status FetchStatus
	Code   int
	Body   string
	Err    error
}

// Fetcher abstracts a page retrieval so the retry layer and the pipeline
// can be composed and tested independently
type Fetcher interface {
	FetchPage(ctx context.Context, url string) *FetchOutcome
}

// PageFetcherSettings configures the HTTP retrieval layer
type PageFetcherSettings struct {
	ProxyURL             string
	PacScriptURL         string
	MaxRedirectsCount    uint
	TimeoutSeconds       uint
	UserAgent            string
	AcceptHeader         string
	SkipCertificateCheck bool
}

// PageFetcher performs single GET requests against the portal
type PageFetcher struct {
	client   *resty.Client
	settings PageFetcherSettings
}

// NewPageFetcher instantiates a page fetcher from the viper configuration
func NewPageFetcher() *PageFetcher {
	return NewPageFetcherWithSettings(getPageFetcherSettings())
}

// NewPageFetcherWithSettings instantiates a page fetcher with explicit settings,
// e.g. for tests
func NewPageFetcherWithSettings(settings PageFetcherSettings) *PageFetcher {
	return &PageFetcher{
		client:   buildClient(settings),
		settings: settings,
	}
}

func getPageFetcherSettings() PageFetcherSettings {
	s := PageFetcherSettings{
		MaxRedirectsCount: defaultMaxRedirectsCount,
		TimeoutSeconds:    defaultTimeoutSeconds,
		UserAgent:         defaultBrowserUserAgent,
		AcceptHeader:      defaultAcceptHeader,
	}

	if proxyURL := viper.GetString("proxy"); proxyURL != "" {
		if _, err := url.Parse(proxyURL); err != nil {
			log.Printf("Rejected proxyURL: %v", proxyURL)
		} else {
			log.Printf("PageFetcher is using a proxy: %v", proxyURL)
			s.ProxyURL = proxyURL
		}
	}

	s.PacScriptURL = viper.GetString("pacScriptURL")

	if v := viper.GetUint("HTTPClient.maxRedirectsCount"); v > 0 {
		s.MaxRedirectsCount = v
	}
	if v := viper.GetUint("HTTPClient.timeoutSeconds"); v > 0 {
		s.TimeoutSeconds = v
	}
	if v := viper.GetString("HTTPClient.userAgent"); v != "" {
		s.UserAgent = v
	}
	if v := viper.GetString("HTTPClient.acceptHeader"); v != "" {
		s.AcceptHeader = v
	}
	s.SkipCertificateCheck = viper.GetBool("HTTPClient.skipCertificateCheck")

	return s
}

// FetchPage performs exactly one GET request. Redirects are followed
// transparently by the transport; retrying is the retry layer's decision.
func (f *PageFetcher) FetchPage(ctx context.Context, urlToFetch string) *FetchOutcome {
	response, err := f.client.R().
		SetHeader("Accept", f.settings.AcceptHeader).
		SetHeader("User-Agent", f.settings.UserAgent).
		SetContext(ctx).
		Get(urlToFetch)

	return f.processResponse(urlToFetch, response, err)
}

func (f *PageFetcher) processResponse(url string, response *resty.Response, err error) *FetchOutcome {
	if err != nil || response == nil {
		if err == nil {
			err = fmt.Errorf("no response for url '%v'", url)
		}
		return &FetchOutcome{
			Status: FetchTransportError,
			Err:    err,
		}
	}

	statusCode := response.StatusCode()

	if statusCode != http.StatusOK {
		return &FetchOutcome{
			Status: FetchHTTPError,
			Code:   statusCode,
			Err:    fmt.Errorf("HTTP %v on url '%v'", statusCode, url),
		}
	}

	return &FetchOutcome{
		Status: FetchOk,
		Code:   statusCode,
		Body:   response.String(),
	}
}

func buildClient(settings PageFetcherSettings) *resty.Client {
	client := resty.New()
	client.SetTimeout(time.Second * time.Duration(settings.TimeoutSeconds))
	client.SetCloseConnection(true)
	client.SetRedirectPolicy(resty.FlexibleRedirectPolicy(int(settings.MaxRedirectsCount)))
	if settings.ProxyURL != "" {
		client.SetProxy(settings.ProxyURL)
	} else if settings.PacScriptURL != "" {
		if proxyFunc, err := pacProxyFunc(settings.PacScriptURL); err != nil {
			log.Printf("Ignoring PAC script %v: %v", settings.PacScriptURL, err)
		} else {
			log.Printf("PageFetcher is using the PAC script at %v", settings.PacScriptURL)
			client.SetTransport(&http.Transport{Proxy: proxyFunc})
		}
	}
	if settings.SkipCertificateCheck {
		client.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	return client
}

// pacProxyFunc downloads a PAC script once and resolves the proxy per request URL
func pacProxyFunc(pacScriptURL string) (func(*http.Request) (*url.URL, error), error) {
	response, err := http.Get(pacScriptURL)
	if err != nil {
		return nil, err
	}
	defer func() { _ = response.Body.Close() }()
	script, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}

	pac, err := gpac.New(string(script))
	if err != nil {
		return nil, err
	}

	return func(req *http.Request) (*url.URL, error) {
		found, err := pac.FindProxyForURL(req.URL.String())
		if err != nil {
			return nil, err
		}
		return firstProxyOf(found)
	}, nil
}

// firstProxyOf parses a PAC result such as "PROXY a:8080; DIRECT"
// and returns the first usable proxy, or nil for a direct connection
func firstProxyOf(pacResult string) (*url.URL, error) {
	for _, entry := range strings.Split(pacResult, ";") {
		fields := strings.Fields(entry)
		if len(fields) == 0 {
			continue
		}
		switch strings.ToUpper(fields[0]) {
		case "DIRECT":
			return nil, nil
		case "PROXY", "HTTP":
			if len(fields) > 1 {
				return url.Parse("http://" + fields[1])
			}
		case "HTTPS":
			if len(fields) > 1 {
				return url.Parse("https://" + fields[1])
			}
		}
	}
	return nil, nil
}
