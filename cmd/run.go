// Copyright 2025-2026 The fdms-validator Authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.
// SPDX-License-Identifier: MPL-2.0
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fdms-tools/fdms-validator/batch"
	"github.com/fdms-tools/fdms-validator/infrastructure"
)

var outputFile string
var bodiesDir string
var domainBlacklistGlobs []string

var runCmd = &cobra.Command{
	Use:   "run [input.csv]",
	Short: "Validates a batch of verification URLs from a tabular file",
	Long: `Reads verification URLs (first column) and optional reference ids
(second column) from a CSV file, checks each against the portal and writes
a tabular report partitioned by Found/Not Found/Error.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		fetchConfig()
		echoConfig()
		runBatch(args[0])
	},
}

func fetchConfig() {
	if bodiesDir != "" {
		// body previews require retention
		viper.Set(keepNotFoundBodiesKey, true)
	}

	if viper.Get(domainBlacklistGlobsKey) != nil {
		g := viper.GetStringSlice(domainBlacklistGlobsKey)
		// empty string slice config creates a single slice with a "[]" -> fix
		if g != nil && !(len(g) == 1 && g[0] == "[]") {
			domainBlacklistGlobs = viper.GetStringSlice(domainBlacklistGlobsKey)
		}
	}
}

func runBatch(inputPath string) {
	items := readWorkItemsOrDie(inputPath)
	log.Info().Msgf("Loaded %v links from %v", len(items), inputPath)

	// let an interrupt finish in-flight checks and resolve the rest as errors
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	orchestrator := batch.NewOrchestratorWithOptions(&batch.Options{
		DomainBlacklistGlobs: domainBlacklistGlobs,
		Observer:             progressLogger{},
	})

	started := time.Now()
	report, err := orchestrator.Run(ctx, items)
	if err != nil {
		log.Fatal().Msgf("Batch failed: %v", err)
	}

	counts := report.Counts()
	log.Info().Msgf("Checked %v links in %v. Found: %v, Not Found: %v, Errors: %v",
		report.Len(), time.Since(started).Round(time.Millisecond), counts.Found, counts.NotFound, counts.Errored)

	stats := infrastructure.GlobalStats().Fetch()
	log.Info().Msgf("Fetch attempts: %v (retries: %v, cache hits: %v, invalid URLs: %v)",
		stats.FetchAttempts, stats.Retries, stats.CacheHits, stats.InvalidURLs)

	writeReportOrDie(report)
	writeBodiesIfRequested(report)
}

func readWorkItemsOrDie(inputPath string) []batch.WorkItem {
	input, err := os.Open(inputPath)
	if err != nil {
		log.Fatal().Msgf("Could not open %v: %v", inputPath, err)
	}
	defer func() { _ = input.Close() }()

	items, err := batch.ReadWorkItems(input)
	if err != nil {
		log.Fatal().Msgf("Could not read %v: %v", inputPath, err)
	}
	return items
}

func writeReportOrDie(report *batch.Report) {
	output, err := os.Create(outputFile)
	if err != nil {
		log.Fatal().Msgf("Could not create %v: %v", outputFile, err)
	}
	defer func() { _ = output.Close() }()

	if err := batch.WriteReportCSV(output, report); err != nil {
		log.Fatal().Msgf("Could not write %v: %v", outputFile, err)
	}
	log.Info().Msgf("Report written to %v", outputFile)
}

// writeBodiesIfRequested dumps the retained markup of Not Found pages for
// manual inspection, one file per row
func writeBodiesIfRequested(report *batch.Report) {
	if bodiesDir == "" {
		return
	}
	if err := os.MkdirAll(bodiesDir, 0o755); err != nil {
		log.Error().Msgf("Could not create %v: %v", bodiesDir, err)
		return
	}
	written := 0
	for i, row := range report.NotFound() {
		if row.Body == "" {
			continue
		}
		name := filepath.Join(bodiesDir, fmt.Sprintf("not_found_%04d.html", i+1))
		if err := os.WriteFile(name, []byte(row.Body), 0o644); err != nil {
			log.Error().Msgf("Could not write %v: %v", name, err)
			continue
		}
		written++
	}
	if written > 0 {
		log.Info().Msgf("Wrote %v page previews to %v", written, bodiesDir)
	}
}

type progressLogger struct{}

func (progressLogger) OnRowCompleted(completed int, total int, estimatedRemaining time.Duration) {
	if completed == total {
		log.Info().Msgf("Checked: %v/%v", completed, total)
		return
	}
	if completed%10 == 0 {
		log.Info().Msgf("Checked: %v/%v (est. remaining: %v)", completed, total, estimatedRemaining.Round(time.Second))
	}
}

func init() {
	flags := runCmd.Flags()
	flags.StringVarP(&outputFile, "output", "o", "fdms_results.csv", "path of the CSV report to write")
	flags.StringVar(&bodiesDir, "bodiesDir", "", "write retained 'Not Found' page markup into this directory")

	rootCmd.AddCommand(runCmd)
}
