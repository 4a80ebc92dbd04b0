// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"sort"
	"strings"
	"unicode"
)

// =============================================================================
// FUZZY MATCHING
// =============================================================================

// FuzzyMatch reports whether every rune of query appears in order in
// target, ignoring case. Higher scores are better: runs of consecutive
// matches, word starts and the start of target earn bonuses, and long
// targets are penalized slightly.
func FuzzyMatch(query, target string) (score int, matched bool) {
	if query == "" {
		return 0, true
	}

	q := []rune(strings.ToLower(query))
	tr := []rune(strings.ToLower(target))
	if len(q) > len(tr) {
		return 0, false
	}

	qi, last := 0, -1
	for ti := 0; ti < len(tr) && qi < len(q); ti++ {
		if tr[ti] != q[qi] {
			continue
		}
		s := 1
		if last == ti-1 {
			s += 5
		}
		if ti == 0 {
			s += 10
		}
		if wordStart(tr, ti) {
			s += 7
		}
		score += s
		last = ti
		qi++
	}

	if qi != len(q) {
		return 0, false
	}
	return score - len(tr)/4, true
}

func wordStart(runes []rune, pos int) bool {
	if pos == 0 {
		return true
	}
	prev := runes[pos-1]
	return unicode.IsSpace(prev) || prev == '/' || prev == '-' || prev == '_'
}

// FuzzyRank returns the indexes of targets matching query, best first.
// Ties keep their original order.
func FuzzyRank(query string, targets []string) []int {
	type hit struct{ idx, score int }
	var hits []hit
	for i, t := range targets {
		if score, ok := FuzzyMatch(query, t); ok {
			hits = append(hits, hit{i, score})
		}
	}
	if query != "" {
		sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
	}
	out := make([]int, len(hits))
	for i, h := range hits {
		out[i] = h.idx
	}
	return out
}
