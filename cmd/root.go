// Copyright 2025-2026 The fdms-validator Authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.
// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fdms-tools/fdms-validator/infrastructure"

	"github.com/spf13/cobra"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var cfgFile string

const (
	// service
	maxConcurrentChecksKey        = "maxConcurrentChecks"
	maxRetriesKey                 = "maxRetries"
	retryDelayKey                 = "retryDelay"
	successMarkersKey             = "successMarkers"
	errorRegionSelectorKey        = "errorRegionSelector"
	keepNotFoundBodiesKey         = "keepNotFoundBodies"
	requestsPerSecondPerDomainKey = "requestsPerSecondPerDomain"
	domainBlacklistGlobsKey       = "domainBlacklistGlobs"
	cacheExpirationIntervalKey    = "cacheExpirationInterval"
	cacheCleanupIntervalKey       = "cacheCleanupInterval"
	cacheUseRistrettoKey          = "cacheUseRistretto"
	cacheMaxSizeKey               = "cacheMaxSize"
	cacheNumCountersKey           = "cacheNumCounters"
	retryFailedAfterKey           = "retryFailedAfter"

	// HTTP client
	httpClientMapKey        = "HTTPClient."
	proxyKey                = "proxy"
	pacScriptURLKey         = "pacScriptURL"
	maxRedirectsCountKey    = "maxRedirectsCount"
	timeoutSecondsKey       = "timeoutSeconds"
	userAgentKey            = "userAgent"
	acceptHeaderKey         = "acceptHeader"
	skipCertificateCheckKey = "skipCertificateCheck"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fdms-validator",
	Short: "Validates batches of FDMS invoice/credit-note verification URLs",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	home := "$HOME"

	if homeString, err := homedir.Dir(); err == nil {
		if expandedHomeString, err := homedir.Expand(homeString); err == nil {
			home = expandedHomeString
		}
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is "+filepath.Join(home, ".fdms-validator.toml)"))

	// HTTP client
	rootCmd.PersistentFlags().StringP(proxyKey, "", "", "HTTP client: proxy server to use, e.g. http://myproxy:8080")
	_ = viper.BindPFlag(proxyKey, rootCmd.PersistentFlags().Lookup(proxyKey))
	rootCmd.PersistentFlags().StringP(pacScriptURLKey, "", "", "HTTP client: PAC script URL, e.g. http://myproxy/proxy.pac")
	_ = viper.BindPFlag(pacScriptURLKey, rootCmd.PersistentFlags().Lookup(pacScriptURLKey))

	rootCmd.PersistentFlags().Uint(maxRedirectsCountKey, 15, "HTTP client: maximum number of redirects to follow")
	_ = viper.BindPFlag(httpClientMapKey+maxRedirectsCountKey, rootCmd.PersistentFlags().Lookup(maxRedirectsCountKey))
	rootCmd.PersistentFlags().Uint(timeoutSecondsKey, 10, "HTTP client: request timeout")
	_ = viper.BindPFlag(httpClientMapKey+timeoutSecondsKey, rootCmd.PersistentFlags().Lookup(timeoutSecondsKey))
	rootCmd.PersistentFlags().String(userAgentKey, "", "HTTP client: custom user agent header (default is a browser user agent, as the portal rejects obvious non-browser clients)")
	_ = viper.BindPFlag(httpClientMapKey+userAgentKey, rootCmd.PersistentFlags().Lookup(userAgentKey))
	rootCmd.PersistentFlags().String(acceptHeaderKey, "*/*", "HTTP client: accept header key to set")
	_ = viper.BindPFlag(httpClientMapKey+acceptHeaderKey, rootCmd.PersistentFlags().Lookup(acceptHeaderKey))
	rootCmd.PersistentFlags().Bool(skipCertificateCheckKey, false, "HTTP client: skip verifying server certificates")
	_ = viper.BindPFlag(httpClientMapKey+skipCertificateCheckKey, rootCmd.PersistentFlags().Lookup(skipCertificateCheckKey))

	// service
	rootCmd.PersistentFlags().UintP(maxConcurrentChecksKey, "c", 10, "maximum number of concurrent document checks")
	_ = viper.BindPFlag(maxConcurrentChecksKey, rootCmd.PersistentFlags().Lookup(maxConcurrentChecksKey))
	rootCmd.PersistentFlags().Uint(maxRetriesKey, 3, "maximum number of fetch attempts per URL on transport failures")
	_ = viper.BindPFlag(maxRetriesKey, rootCmd.PersistentFlags().Lookup(maxRetriesKey))
	rootCmd.PersistentFlags().String(retryDelayKey, "2s", "fixed wait between fetch attempts (in ns/us/ms/s/m/h)")
	_ = viper.BindPFlag(retryDelayKey, rootCmd.PersistentFlags().Lookup(retryDelayKey))

	rootCmd.PersistentFlags().StringSlice(successMarkersKey, nil,
		"success marker substrings whose presence confirms the document, e.g. --successMarkers 'Invoice is valid'")
	_ = viper.BindPFlag(successMarkersKey, rootCmd.PersistentFlags().Lookup(successMarkersKey))
	rootCmd.PersistentFlags().String(errorRegionSelectorKey, "",
		"CSS selector for the portal's validation-error region (default '.val-errors-block .col')")
	_ = viper.BindPFlag(errorRegionSelectorKey, rootCmd.PersistentFlags().Lookup(errorRegionSelectorKey))
	rootCmd.PersistentFlags().Bool(keepNotFoundBodiesKey, false, "retain raw page markup for Not Found rows")
	_ = viper.BindPFlag(keepNotFoundBodiesKey, rootCmd.PersistentFlags().Lookup(keepNotFoundBodiesKey))

	rootCmd.PersistentFlags().Float64(requestsPerSecondPerDomainKey, 0, "maximum requests per second per domain (0 disables limiting)")
	_ = viper.BindPFlag(requestsPerSecondPerDomainKey, rootCmd.PersistentFlags().Lookup(requestsPerSecondPerDomainKey))

	rootCmd.PersistentFlags().StringSliceP(domainBlacklistGlobsKey, "b", nil,
		"provide a list of domain wildcards to avoid checking, e.g. -b internal.* -b testdomain.com")
	_ = viper.BindPFlag(domainBlacklistGlobsKey, rootCmd.PersistentFlags().Lookup(domainBlacklistGlobsKey))

	// cache
	rootCmd.PersistentFlags().String(cacheExpirationIntervalKey, "1h", "Expire each check result after <interval> (in ns/us/ms/s/m/h)")
	_ = viper.BindPFlag(cacheExpirationIntervalKey, rootCmd.PersistentFlags().Lookup(cacheExpirationIntervalKey))
	rootCmd.PersistentFlags().String(cacheCleanupIntervalKey, "2h", "Interval between cache cleanups (in ns/us/ms/s/m/h)")
	_ = viper.BindPFlag(cacheCleanupIntervalKey, rootCmd.PersistentFlags().Lookup(cacheCleanupIntervalKey))
	rootCmd.PersistentFlags().Bool(cacheUseRistrettoKey, false, "Use a memory-bound cache (see the cacheMaxSize option)")
	_ = viper.BindPFlag(cacheUseRistrettoKey, rootCmd.PersistentFlags().Lookup(cacheUseRistrettoKey))
	rootCmd.PersistentFlags().Int64(cacheMaxSizeKey, 1000_000_000, "Approximate maximum cache size in bytes (when cacheUseRistretto enabled)")
	_ = viper.BindPFlag(cacheMaxSizeKey, rootCmd.PersistentFlags().Lookup(cacheMaxSizeKey))
	rootCmd.PersistentFlags().Int64(cacheNumCountersKey, 10_000_000, "Number of 4-bit access counters. Set at approx 10x max unique expected URLs (when cacheUseRistretto enabled)")
	_ = viper.BindPFlag(cacheNumCountersKey, rootCmd.PersistentFlags().Lookup(cacheNumCountersKey))

	rootCmd.PersistentFlags().String(retryFailedAfterKey, "30s", "If a check failed, e.g. intermittently, re-run it after <interval> (in ns/us/ms/s/m/h)")
	_ = viper.BindPFlag(retryFailedAfterKey, rootCmd.PersistentFlags().Lookup(retryFailedAfterKey))

	SetUpViper()
}

// SetUpViper configures environment variable and global flag handling
func SetUpViper() {
	viper.SetEnvPrefix("FDMS")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".fdms-validator" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".fdms-validator")
	}

	replacer := strings.NewReplacer(".", "_")
	viper.SetEnvKeyReplacer(replacer)

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	_ = viper.ReadInConfig()
}

func echoConfig() {
	log.Printf("FDMS Validator. Version: %v", infrastructure.BinaryVersion())
	log.Printf("Run id: %v (started at %v)", infrastructure.GetRunId(), infrastructure.GetRunningSince())

	if viper.ConfigFileUsed() != "" {
		log.Printf("Using config file: %v", viper.ConfigFileUsed())
	}

	proxyURL := viper.GetString(proxyKey)
	if proxyURL != "" {
		log.Printf("Proxy: %v", proxyURL)
	}

	maxConcurrency := viper.GetUint(maxConcurrentChecksKey)
	if maxConcurrency > 0 {
		log.Printf("Max check concurrency: %v", maxConcurrency)
	}

	if markers := viper.GetStringSlice(successMarkersKey); len(markers) > 0 {
		log.Printf("Success markers: %v", markers)
	}

	globCount := len(domainBlacklistGlobs)
	if globCount > 0 {
		log.Printf("Domain blacklist globs (%v): %v", globCount, domainBlacklistGlobs)
	}
}
