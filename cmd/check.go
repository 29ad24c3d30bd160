// Copyright 2025-2026 The fdms-validator Authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.
// SPDX-License-Identifier: MPL-2.0
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"

	"github.com/fdms-tools/fdms-validator/infrastructure"
	"github.com/spf13/cobra"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [url to check]",
	Short: "Checks a single verification URL without optimizations. Returns raw",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		// disable logging so that there's only JSON output in the console
		log.SetOutput(io.Discard)
		validator := infrastructure.NewDocumentValidatorClient()
		result := validator.ValidateURL(context.Background(), args[0])

		// prints a JSON-formatted raw validation result representation
		b, err := json.MarshalIndent(result, "", " ")
		if err != nil {
			log.Fatal(fmt.Errorf("ERROR: %v", err))
		}
		fmt.Println(string(b))
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
