// Copyright 2025-2026 The fdms-validator Authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.
// SPDX-License-Identifier: MPL-2.0

// fake_portal serves verification pages resembling the real portal and
// writes a matching sample CSV, for exercising the validator manually:
//
//	go run . -n 500
//	fdms-validator run sample_links.csv
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"time"
)

const validInvoicePage = `<html><body><h2>Invoice is valid</h2></body></html>`
const validCreditNotePage = `<html><body><h2>Credit note is valid</h2></body></html>`
const rejectedPage = `<html><body>
<div class="val-errors-block">
	<div class="row"><div class="col"> Document already processed </div></div>
</div>
</body></html>`

func main() {
	count := flag.Int("n", 100, "number of sample links to generate")
	addr := flag.String("addr", "localhost:9090", "address to serve the fake portal at")
	output := flag.String("o", "sample_links.csv", "sample CSV to write")
	flag.Parse()

	writeSampleCSV(*output, *addr, *count)
	log.Printf("Wrote %v links to %v", *count, *output)

	http.HandleFunc("/invoice", func(w http.ResponseWriter, r *http.Request) {
		// a sprinkle of latency keeps concurrent runs honest
		time.Sleep(time.Duration(rand.Intn(200)) * time.Millisecond)

		id, _ := strconv.Atoi(r.URL.Query().Get("id"))
		switch id % 4 {
		case 0:
			_, _ = fmt.Fprint(w, validCreditNotePage)
		case 1, 2:
			_, _ = fmt.Fprint(w, validInvoicePage)
		default:
			_, _ = fmt.Fprint(w, rejectedPage)
		}
	})

	log.Printf("Serving the fake portal at http://%v", *addr)
	log.Fatal(http.ListenAndServe(*addr, nil))
}

func writeSampleCSV(path string, addr string, count int) {
	f, err := os.Create(path)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = f.Close() }()

	writer := csv.NewWriter(f)
	_ = writer.Write([]string{"URL", "Reference"})
	for i := 0; i < count; i++ {
		_ = writer.Write([]string{
			fmt.Sprintf("http://%v/invoice?id=%v", addr, i),
			fmt.Sprintf("INV-%05d", i),
		})
	}
	writer.Flush()
	if writer.Error() != nil {
		log.Fatal(writer.Error())
	}
}
