// Copyright 2025-2026 The fdms-validator Authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.
// SPDX-License-Identifier: MPL-2.0

package batch

// indexedItem carries a work item together with its input row position,
// so results can be written back in input order
type indexedItem struct {
	position int
	item     WorkItem
}

type deduplicator struct {
	toCheck     []indexedItem
	toDuplicate map[string][]indexedItem // multimap keyed by normalized URL
}

// deduplicateWorkItems splits a batch into first occurrences that get checked
// and duplicate rows that echo the first occurrence's outcome
func deduplicateWorkItems(items []WorkItem) *deduplicator {
	res := &deduplicator{
		toCheck:     []indexedItem{},
		toDuplicate: map[string][]indexedItem{},
	}

	seen := map[string]struct{}{}

	for i, item := range items {
		key := normalizedURL(item.URL)
		indexed := indexedItem{position: i, item: item}
		if _, ok := seen[key]; ok {
			res.toDuplicate[key] = append(res.toDuplicate[key], indexed)
		} else {
			seen[key] = struct{}{}
			res.toCheck = append(res.toCheck, indexed)
		}
	}

	return res
}

func (d *deduplicator) duplicatesOf(item WorkItem) []indexedItem {
	return d.toDuplicate[normalizedURL(item.URL)]
}
